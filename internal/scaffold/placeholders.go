package scaffold

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// placeholders holds the values substituted into template-owned text files.
type placeholders struct {
	ProjectName    string
	ProjectTitle   string
	PackageManager string
	Language       string
}

func newPlaceholders(name string, lang Language, pm string) placeholders {
	return placeholders{
		ProjectName:    name,
		ProjectTitle:   projectTitle(name),
		PackageManager: pm,
		Language:       string(lang),
	}
}

// replacer substitutes {{projectName}}, {{projectTitle}} and
// {{packageManager}}. Other braces are left alone.
func (p placeholders) replacer() *strings.Replacer {
	return strings.NewReplacer(
		"{{projectName}}", p.ProjectName,
		"{{projectTitle}}", p.ProjectTitle,
		"{{packageManager}}", p.PackageManager,
	)
}

// projectTitle turns "my-api_server" into "My Api Server".
func projectTitle(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || unicode.IsSpace(r)
	})
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// npmName lowercases name and replaces characters npm rejects in package
// names with "-". Scoped names are kept.
func npmName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '.', r == '_', r == '@', r == '/':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	out := strings.TrimLeft(b.String(), "._")
	if out == "" {
		return "app"
	}
	return out
}
