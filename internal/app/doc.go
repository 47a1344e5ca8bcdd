// Package app wires the rover controller together and owns its lifecycle,
// decoupled from any specific entrypoint like a CLI.
//
// New loads the controller configuration and the world, builds the location
// graph and connects the rover, location notifier, task scheduler and
// operator shell. Run starts the background loops, serves the optional
// health check endpoint and hands the terminal to the shell until the
// operator exits or input ends.
package app
