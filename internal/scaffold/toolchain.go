package scaffold

import (
	"bytes"
	"encoding/json"

	"github.com/stackup-dev/stackup/internal/install"
	"github.com/stackup-dev/stackup/internal/merge"
)

const (
	packageJSONFile = "package.json"
	tsconfigFile    = "tsconfig.json"
	gitignoreFile   = ".gitignore"
	envExampleFile  = ".env.example"
)

// typescriptToolchain is added to devDependencies unless a template
// already declares the package in either namespace.
var typescriptToolchain = map[string]string{
	"typescript":  "^5.4.0",
	"tsx":         "^4.7.0",
	"@types/node": "^20.11.0",
}

// packageJSON is the generated package manifest.
type packageJSON struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Private         bool              `json:"private"`
	Type            string            `json:"type"`
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

func scripts(lang Language, pm install.PackageManager) map[string]string {
	if lang == JavaScript {
		return map[string]string{
			"start": "node src/index.js",
			"dev":   "node --watch src/index.js",
		}
	}
	return map[string]string{
		"build":     "tsc -p tsconfig.json",
		"start":     pm.RunCommand("build") + " && node dist/index.js",
		"dev":       "tsx watch src/index.ts",
		"typecheck": "tsc --noEmit",
	}
}

// renderPackageJSON builds package.json from the merged dependency set.
func renderPackageJSON(name string, lang Language, pm install.PackageManager, deps *merge.DependencySet) ([]byte, error) {
	pkg := packageJSON{
		Name:            npmName(name),
		Version:         "0.1.0",
		Private:         true,
		Type:            "module",
		Scripts:         scripts(lang, pm),
		Dependencies:    copyMap(deps.Dependencies),
		DevDependencies: copyMap(deps.DevDependencies),
	}
	if lang == TypeScript {
		for name, rng := range typescriptToolchain {
			_, inDeps := pkg.Dependencies[name]
			_, inDev := pkg.DevDependencies[name]
			if !inDeps && !inDev {
				pkg.DevDependencies[name] = rng
			}
		}
	}
	return marshalJSON(pkg)
}

func renderTSConfig() ([]byte, error) {
	cfg := map[string]any{
		"compilerOptions": map[string]any{
			"target":           "ES2022",
			"module":           "NodeNext",
			"moduleResolution": "NodeNext",
			"outDir":           "dist",
			"rootDir":          "src",
			"strict":           true,
			"esModuleInterop":  true,
			"skipLibCheck":     true,
		},
		"include": []string{"src"},
	}
	return marshalJSON(cfg)
}

func renderGitignore(lang Language) []byte {
	var b bytes.Buffer
	b.WriteString("node_modules/\n")
	if lang == TypeScript {
		b.WriteString("dist/\n")
	}
	b.WriteString(".env\n*.log\n")
	return b.Bytes()
}

// marshalJSON indents like npm does and keeps "<", ">" and "&" literal,
// which version ranges use.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
