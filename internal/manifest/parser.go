package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

// Decode strips JSONC comments and trailing commas from data and decodes
// it into a Config. Unknown fields are rejected here as well so a typed
// decode never silently drops data the schema would refuse.
func Decode(data []byte) (*Config, error) {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.DisallowUnknownFields()

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	return &cfg, nil
}

// Load reads the manifest file for one template. A read failure is
// returned as an error; a decode failure is recorded in DecodeErr so the
// template still takes part in validation.
func Load(sdk, templateName, rootPath, fileName string) (*TemplateManifest, error) {
	path := filepath.Join(rootPath, fileName)
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	if data == nil {
		// Keep an empty file distinguishable from a manifest built in memory.
		data = []byte{}
	}

	m := &TemplateManifest{
		SDK:          sdk,
		TemplateName: templateName,
		RootPath:     rootPath,
		ManifestPath: path,
		Raw:          data,
	}

	cfg, err := Decode(data)
	if err != nil {
		m.DecodeErr = fmt.Errorf("%s: %w", path, err)
		return m, nil
	}
	m.Config = *cfg
	return m, nil
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
