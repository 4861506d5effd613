package scaffold

import (
	"fmt"
	"sort"
	"strings"

	"github.com/stackup-dev/stackup/internal/install"
	"github.com/stackup-dev/stackup/internal/manifest"
	"github.com/stackup-dev/stackup/internal/merge"
)

// summary is everything the STACKUP.md document reports.
type summary struct {
	Title          string
	ProjectName    string
	Language       Language
	PackageManager install.PackageManager
	Strategy       merge.Strategy
	Templates      []*manifest.TemplateManifest
	Dependencies   *merge.DependencySet
	EnvVars        []manifest.EnvVarDecl
	Collisions     []Collision
	Files          []string
}

// renderSummary formats s as Markdown.
func renderSummary(s *summary) string {
	var b strings.Builder

	b.WriteString("# ")
	b.WriteString(s.Title)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Package `%s`. Language: %s. Package manager: %s. Merge strategy: %s.\n",
		npmName(s.ProjectName), s.Language, s.PackageManager, s.Strategy)

	b.WriteString("\n## Templates\n")
	for _, m := range s.Templates {
		fmt.Fprintf(&b, "- `%s`", m.ID())
		if m.Config.Description != "" {
			b.WriteString(": ")
			b.WriteString(m.Config.Description)
		}
		b.WriteString("\n")
	}

	writeDeps(&b, "Dependencies", s.Dependencies.Dependencies)
	writeDeps(&b, "Dev Dependencies", s.Dependencies.DevDependencies)

	if len(s.Dependencies.Conflicts) > 0 {
		b.WriteString("\n## Dependency Conflicts\n")
		for _, c := range s.Dependencies.Conflicts {
			fmt.Fprintf(&b, "- %s (%s, %s): requested %s, resolved %s\n",
				c.Package, c.Namespace, c.Reason,
				strings.Join(c.RequestedVersions, ", "), c.ResolvedVersion)
		}
	}

	if len(s.EnvVars) > 0 {
		b.WriteString("\n## Environment Variables\n")
		b.WriteString("Copy `.env.example` to `.env` and fill in:\n")
		for _, ev := range s.EnvVars {
			b.WriteString("- `")
			b.WriteString(ev.Name)
			b.WriteString("`")
			if ev.Required {
				b.WriteString(" (required)")
			}
			if ev.Description != "" {
				b.WriteString(": ")
				b.WriteString(ev.Description)
			}
			b.WriteString("\n")
		}
	}

	if len(s.Collisions) > 0 {
		b.WriteString("\n## File Collisions\n")
		for _, c := range s.Collisions {
			fmt.Fprintf(&b, "- `%s`: %s replaced %s\n", c.Destination, c.Winner, c.Previous)
		}
	}

	if len(s.Files) > 0 {
		b.WriteString("\n## Generated Files\n")
		for _, f := range s.Files {
			b.WriteString("- ")
			b.WriteString(f)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n## Next Steps\n\n```sh\n")
	fmt.Fprintf(&b, "%s install\n%s\n", s.PackageManager, s.PackageManager.RunCommand("dev"))
	b.WriteString("```\n")

	return b.String()
}

func writeDeps(b *strings.Builder, heading string, deps map[string]string) {
	if len(deps) == 0 {
		return
	}
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)

	b.WriteString("\n## ")
	b.WriteString(heading)
	b.WriteString("\n")
	for _, name := range names {
		fmt.Fprintf(b, "- %s %s\n", name, deps[name])
	}
}
