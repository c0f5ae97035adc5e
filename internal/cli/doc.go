// Package cli parses command-line arguments, validates them, and translates
// them into the application's configuration. Process-level concerns such as
// exit codes are expressed through ExitError.
package cli
