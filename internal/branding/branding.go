// Package branding provides compile-time identity values for the CLI.
//
// branding.yaml is embedded into the binary; forks change the CLI name,
// dot-directory and environment prefix there without touching Go code.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName      string `yaml:"cli_name"`
	DisplayName  string `yaml:"display_name"`
	Description  string `yaml:"description"`
	HomeDir      string `yaml:"home_dir"`
	EnvPrefix    string `yaml:"env_prefix"`
	ManifestFile string `yaml:"manifest_file"`
	SummaryFile  string `yaml:"summary_file"`
	RegistryURL  string `yaml:"registry_url"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:      "stackup",
			DisplayName:  "Stackup",
			Description:  "Compose runnable project skeletons from template plugins",
			HomeDir:      ".stackup",
			EnvPrefix:    "STACKUP",
			ManifestFile: "template.json",
			SummaryFile:  "STACKUP.md",
			RegistryURL:  "https://registry.npmjs.org",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "stackup").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".stackup").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "STACKUP").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// ManifestFile returns the per-template manifest file name.
func ManifestFile() string { load(); return defaults.ManifestFile }

// SummaryFile returns the name of the summary document written into
// generated projects.
func SummaryFile() string { load(); return defaults.SummaryFile }

// RegistryURL returns the default package registry base URL.
func RegistryURL() string { load(); return defaults.RegistryURL }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("home") → "STACKUP_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
