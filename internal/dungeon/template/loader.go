package template

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlCatalogFile is the top-level YAML structure for template files.
type yamlCatalogFile struct {
	Templates []yamlTemplate `yaml:"templates"`
}

// yamlTemplate is the YAML representation of a room template.
type yamlTemplate struct {
	ID     string   `yaml:"id"`
	Width  int      `yaml:"width"`
	Height int      `yaml:"height"`
	Layout []string `yaml:"layout"`
}

// LoadCatalogFromBytes parses templates from YAML bytes.
//
// Precondition: data must be valid YAML with a top-level templates list.
// Postcondition: Returns a validated Catalog or a non-nil error.
func LoadCatalogFromBytes(data []byte) (*Catalog, error) {
	c := &Catalog{}
	if err := c.addYAML(data); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadCatalog loads every .yaml/.yml file in dir, in lexical file order, into
// one catalog. A directory with no template files yields an empty catalog.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns the combined Catalog or the first error encountered.
func LoadCatalog(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading template directory %s: %w", dir, err)
	}

	c := &Catalog{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading template file %s: %w", name, err)
		}
		if err := c.addYAML(data); err != nil {
			return nil, fmt.Errorf("loading templates from %s: %w", name, err)
		}
	}
	return c, nil
}

func (c *Catalog) addYAML(data []byte) error {
	var file yamlCatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing template YAML: %w", err)
	}
	for _, yt := range file.Templates {
		if err := c.Add(convertYAMLTemplate(yt)); err != nil {
			return fmt.Errorf("validating template: %w", err)
		}
	}
	return nil
}

// convertYAMLTemplate converts a parsed template. A layout without explicit
// dimensions takes its size from the layout itself.
func convertYAMLTemplate(yt yamlTemplate) *Template {
	t := &Template{ID: yt.ID, Width: yt.Width, Height: yt.Height}
	for _, row := range yt.Layout {
		t.Layout = append(t.Layout, strings.TrimSpace(row))
	}
	if len(t.Layout) > 0 && t.Width == 0 && t.Height == 0 {
		t.Height = len(t.Layout)
		t.Width = len(t.Layout[0])
	}
	return t
}
