package scaffold

import (
	"strings"

	"github.com/stackup-dev/stackup/internal/manifest"
)

// mergeEnvVars deduplicates the envVars of every template by name, keeping
// first-seen order. The first non-empty description wins and a variable is
// required if any template requires it.
func mergeEnvVars(templates []*manifest.TemplateManifest) []manifest.EnvVarDecl {
	index := make(map[string]int)
	var out []manifest.EnvVarDecl
	for _, m := range templates {
		for _, ev := range m.Config.EnvVars {
			if ev.Name == "" {
				continue
			}
			i, ok := index[ev.Name]
			if !ok {
				index[ev.Name] = len(out)
				out = append(out, ev)
				continue
			}
			if out[i].Description == "" {
				out[i].Description = ev.Description
			}
			out[i].Required = out[i].Required || ev.Required
		}
	}
	return out
}

// renderEnvExample writes one NAME= line per variable, preceded by its
// description as a comment when it has one. Required variables are marked
// in that comment; the summary document lists them either way.
func renderEnvExample(vars []manifest.EnvVarDecl) []byte {
	var b strings.Builder
	for _, ev := range vars {
		if desc := strings.TrimSpace(ev.Description); desc != "" {
			if ev.Required {
				desc += " (required)"
			}
			for _, line := range strings.Split(desc, "\n") {
				b.WriteString("# ")
				b.WriteString(strings.TrimSpace(line))
				b.WriteString("\n")
			}
		}
		b.WriteString(ev.Name)
		b.WriteString("=\n")
	}
	return []byte(b.String())
}
