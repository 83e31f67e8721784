// Package models provides functionality for listing and categorizing
// available OpenAI models. It helps operators discover which translation,
// audio, and TTS models are available with their API key.
package models
