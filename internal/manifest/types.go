package manifest

import "sort"

// PackageRef is a single package declaration. The manifest field is
// "version" but it holds a version range (e.g. "^4.17.0").
type PackageRef struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
}

// EnvVarDecl declares an environment variable the generated project reads.
type EnvVarDecl struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty"`
}

// Config is the decoded body of a template.json file.
type Config struct {
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description" yaml:"description"`
	Packages    []PackageRef      `json:"packages,omitempty" yaml:"packages,omitempty"`
	DevPackages []PackageRef      `json:"devPackages,omitempty" yaml:"devPackages,omitempty"`
	EnvVars     []EnvVarDecl      `json:"envVars,omitempty" yaml:"envVars,omitempty"`
	Files       map[string]string `json:"files,omitempty" yaml:"files,omitempty"`
	Tags        []string          `json:"tags,omitempty" yaml:"tags,omitempty"`
	Visible     *bool             `json:"visible,omitempty" yaml:"visible,omitempty"`
}

// IsVisible reports whether the template is listed by default. Absent
// means visible.
func (c *Config) IsVisible() bool {
	return c.Visible == nil || *c.Visible
}

// SourceFiles returns the keys of Files in sorted order.
func (c *Config) SourceFiles() []string {
	srcs := make([]string, 0, len(c.Files))
	for src := range c.Files {
		srcs = append(srcs, src)
	}
	sort.Strings(srcs)
	return srcs
}

// PackageNames returns the distinct package names across packages and
// devPackages, sorted.
func (c *Config) PackageNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, list := range [][]PackageRef{c.Packages, c.DevPackages} {
		for _, p := range list {
			if p.Name == "" || seen[p.Name] {
				continue
			}
			seen[p.Name] = true
			names = append(names, p.Name)
		}
	}
	sort.Strings(names)
	return names
}

// TemplateManifest is one discovered template. It is immutable after
// discovery.
type TemplateManifest struct {
	SDK          string `json:"sdk" yaml:"sdk"`
	TemplateName string `json:"templateName" yaml:"templateName"`
	RootPath     string `json:"rootPath" yaml:"rootPath"`
	ManifestPath string `json:"manifestPath" yaml:"manifestPath"`
	Config       Config `json:"config" yaml:"config"`

	// Raw holds the manifest file bytes as read from disk.
	Raw []byte `json:"-" yaml:"-"`

	// DecodeErr is set when Raw could not be decoded into Config. Such a
	// manifest is still discovered so validation can report it.
	DecodeErr error `json:"-" yaml:"-"`
}

// ID returns the "<sdk>/<template>" selector for the manifest.
func (m *TemplateManifest) ID() string {
	return m.SDK + "/" + m.TemplateName
}
