// Package cli defines the Cobra command tree for the stackup CLI. Each file
// registers one top-level command (list, validate, create, config, version)
// with the root command. Commands delegate to the registry and scaffold
// packages and only handle flag parsing and output formatting.
package cli
