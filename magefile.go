//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Default target runs build
var Default = Build

// Build compiles the telugutoenglish binary
func Build() error {
	return sh.RunV("go", "build", "-o", "telugutoenglish", "./cmd/telugutoenglish")
}

// Test runs all tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet on all packages
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs vet and the test suite
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Docker builds the container image
func Docker() error {
	return sh.RunV("docker", "build", "-t", "telugutoenglish", ".")
}

// Clean removes build artifacts
func Clean() error {
	return sh.Rm("telugutoenglish")
}
