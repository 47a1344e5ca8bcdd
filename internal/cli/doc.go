// Package cli turns the process arguments into an app.Config. Flag problems
// come back as an *ExitError carrying the exit code main should use; -h
// prints the usage text and asks the caller to exit cleanly.
package cli
