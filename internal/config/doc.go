// Package config loads the rover controller configuration from an HCL file.
//
// # How It Works
//
//   - **Parsing:** The file is parsed with hclparse and decoded with gohcl
//     into a raw file model. Absent attributes and blocks keep their
//     defaults.
//   - **Evaluation:** Expressions are evaluated against an EvalContext that
//     exposes the process environment as the `env` object, so a value can be
//     supplied at deploy time (`world_file = env.ROVER_WORLD`).
//   - **Validation:** Durations are parsed and checked when the file is
//     loaded, not when they are first used. A bad value fails startup with
//     the HCL diagnostic pointing at the offending line.
//
// A missing file is not an error: Load returns Default().
package config
