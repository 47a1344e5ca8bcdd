// Package command defines the closed set of operator commands accepted by the
// rover shell.
//
// # How It Works
//
//   - **Parsing:** Parse splits a line on whitespace, identifies the command
//     by its first word and validates the argument shape. The result is a
//     typed Command; a bad shape is an ErrUsage error carrying the usage text,
//     an unrecognised first word is ErrUnknownCommand.
//   - **Dispatch:** Dispatch routes a parsed Command to the matching Handler
//     method through a single exhaustive switch over Kind. There is no
//     string-keyed table to keep in sync.
//
// Parsing never consults the world. Whether a field or row exists is the
// handler's concern.
package command
