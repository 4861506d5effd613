package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/stackup-dev/stackup/internal/manifest"
	"github.com/stackup-dev/stackup/internal/platform"
)

// Discover scans the template root. Each immediate subdirectory is an SDK
// and each of its subdirectories holding a manifest file is a template.
// Templates with visible=false are left out unless includeHidden is set.
// Dot-directories are ignored. Results are ordered by SDK, then template.
func (r *Registry) Discover(includeHidden bool) ([]*manifest.TemplateManifest, error) {
	sdks, err := os.ReadDir(r.root)
	if err != nil {
		return nil, fmt.Errorf("reading template root %s: %w", r.root, err)
	}

	var result []*manifest.TemplateManifest
	for _, sdk := range sdks {
		if !sdk.IsDir() || platform.IsHidden(sdk.Name()) {
			continue
		}
		sdkDir := filepath.Join(r.root, sdk.Name())

		templates, err := os.ReadDir(sdkDir)
		if err != nil {
			r.logger.Warn("skipping unreadable sdk directory", "path", sdkDir, "error", err)
			continue
		}

		for _, tmpl := range templates {
			if !tmpl.IsDir() || platform.IsHidden(tmpl.Name()) {
				continue
			}
			rootPath := filepath.Join(sdkDir, tmpl.Name())

			m, err := manifest.Load(sdk.Name(), tmpl.Name(), rootPath, r.manifestFile)
			if err != nil {
				if !errors.Is(err, fs.ErrNotExist) {
					r.logger.Warn("skipping unreadable manifest", "template", sdk.Name()+"/"+tmpl.Name(), "error", err)
				}
				continue
			}
			if m.DecodeErr == nil && !m.Config.IsVisible() && !includeHidden {
				continue
			}
			result = append(result, m)
		}
	}

	r.logger.Debug("discovered templates", "root", r.root, "count", len(result), "hidden_included", includeHidden)
	return result, nil
}
