package internal

// Version is the current application version
const Version = "0.1.0"
