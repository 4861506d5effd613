package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"text/template"

	"github.com/stackup-dev/stackup/internal/branding"
	"github.com/stackup-dev/stackup/internal/install"
)

//go:embed skeleton
var skeletonFS embed.FS

// skeletonTemplate is one template listed in the generated README.
type skeletonTemplate struct {
	ID          string
	Description string
}

// skeletonData is the text/template context of the base source tree.
type skeletonData struct {
	placeholders
	Templates      []skeletonTemplate
	CLIName        string
	SummaryFile    string
	InstallCommand string
	DevCommand     string
}

// skeletonFile is one rendered base file, path relative to the project.
type skeletonFile struct {
	Path    string
	Content []byte
}

// renderSkeleton renders the common files plus the files for lang. Output
// paths drop the set directory and the .tmpl suffix.
func renderSkeleton(lang Language, pm install.PackageManager, data skeletonData) ([]skeletonFile, error) {
	data.CLIName = branding.CLIName()
	data.SummaryFile = branding.SummaryFile()
	data.InstallCommand = string(pm) + " install"
	data.DevCommand = pm.RunCommand("dev")

	var files []skeletonFile
	for _, set := range []string{"common", string(lang)} {
		root := path.Join("skeleton", set)
		err := fs.WalkDir(skeletonFS, root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(p, ".tmpl") {
				return nil
			}

			raw, err := fs.ReadFile(skeletonFS, p)
			if err != nil {
				return fmt.Errorf("reading skeleton %s: %w", p, err)
			}
			tmpl, err := template.New(path.Base(p)).Option("missingkey=error").Parse(string(raw))
			if err != nil {
				return fmt.Errorf("parsing skeleton %s: %w", p, err)
			}
			var buf bytes.Buffer
			if err := tmpl.Execute(&buf, data); err != nil {
				return fmt.Errorf("executing skeleton %s: %w", p, err)
			}

			rel := strings.TrimSuffix(strings.TrimPrefix(p, root+"/"), ".tmpl")
			files = append(files, skeletonFile{Path: rel, Content: buf.Bytes()})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("skeleton set %q: %w", set, err)
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
