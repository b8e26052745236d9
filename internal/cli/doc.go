// Package cli defines the Cobra command tree for the splice CLI. Each file
// in this package registers one top-level command (inject, scaffold, doctor,
// config, version) with the root command. Command implementations delegate to
// internal packages for the file work and only handle flags, config and output.
package cli
