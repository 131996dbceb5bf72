// Package catalog holds the fixed set of document categories and templates.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var embeddedTemplates []byte

// Format is an output format tag a template may support.
type Format string

const (
	FormatMarkdown Format = "Markdown"
	FormatPDF      Format = "PDF"
	FormatPDFA     Format = "PDF/A"
	FormatLaTeX    Format = "LaTeX"
	FormatHTML     Format = "HTML"
	FormatEPUB     Format = "EPUB"
	FormatDOCX     Format = "DOCX"
	FormatWord     Format = "Word"
	FormatJATS     Format = "JATS"
	FormatSCORM12  Format = "SCORM 1.2"
	FormatXAPI     Format = "xAPI"
)

var knownFormats = map[Format]bool{
	FormatMarkdown: true,
	FormatPDF:      true,
	FormatPDFA:     true,
	FormatLaTeX:    true,
	FormatHTML:     true,
	FormatEPUB:     true,
	FormatDOCX:     true,
	FormatWord:     true,
	FormatJATS:     true,
	FormatSCORM12:  true,
	FormatXAPI:     true,
}

// Known reports whether f is one of the enumerated formats.
func (f Format) Known() bool {
	return knownFormats[f]
}

// CategoryID identifies a top-level document domain.
type CategoryID string

const (
	Software    CategoryID = "SOFTWARE"
	Engineering CategoryID = "ENGINEERING"
	Medical     CategoryID = "MEDICAL"
	Education   CategoryID = "EDUCATION"
)

// Category describes a document domain.
type Category struct {
	ID          CategoryID `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
}

// Template is a named document structure within a category.
type Template struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	Category         CategoryID `json:"category"`
	SupportedFormats []Format   `json:"supportedFormats"`
}

// Supports reports whether f is in the template's supported formats.
func (t Template) Supports(f Format) bool {
	for _, sf := range t.SupportedFormats {
		if sf == f {
			return true
		}
	}
	return false
}

// DefaultFormat is the first supported format.
func (t Template) DefaultFormat() Format {
	if len(t.SupportedFormats) == 0 {
		return ""
	}
	return t.SupportedFormats[0]
}

// Catalog is immutable after Load.
type Catalog struct {
	categories []Category
	templates  map[CategoryID][]Template
	byID       map[string]Template
}

type fileTemplate struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Formats     []Format `yaml:"formats"`
}

type fileCategory struct {
	ID          CategoryID     `yaml:"id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Templates   []fileTemplate `yaml:"templates"`
}

type file struct {
	Categories []fileCategory `yaml:"categories"`
}

// Load parses a catalog definition.
func Load(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(f.Categories) == 0 {
		return nil, errors.New("catalog has no categories")
	}

	c := &Catalog{
		templates: make(map[CategoryID][]Template, len(f.Categories)),
		byID:      make(map[string]Template),
	}
	for _, fc := range f.Categories {
		if fc.ID == "" {
			return nil, errors.New("catalog category without id")
		}
		if _, dup := c.templates[fc.ID]; dup {
			return nil, fmt.Errorf("duplicate category %s", fc.ID)
		}
		c.categories = append(c.categories, Category{ID: fc.ID, Name: fc.Name, Description: fc.Description})

		list := make([]Template, 0, len(fc.Templates))
		for _, ft := range fc.Templates {
			if ft.ID == "" || ft.Name == "" {
				return nil, fmt.Errorf("category %s: template needs id and name", fc.ID)
			}
			if _, dup := c.byID[ft.ID]; dup {
				return nil, fmt.Errorf("duplicate template %s", ft.ID)
			}
			if len(ft.Formats) == 0 {
				return nil, fmt.Errorf("template %s declares no formats", ft.ID)
			}
			for _, fm := range ft.Formats {
				if !fm.Known() {
					return nil, fmt.Errorf("template %s: unknown format %q", ft.ID, fm)
				}
			}
			t := Template{
				ID:               ft.ID,
				Name:             ft.Name,
				Description:      ft.Description,
				Category:         fc.ID,
				SupportedFormats: ft.Formats,
			}
			list = append(list, t)
			c.byID[t.ID] = t
		}
		c.templates[fc.ID] = list
	}
	return c, nil
}

var defaultCatalog = mustLoad(embeddedTemplates)

func mustLoad(data []byte) *Catalog {
	c, err := Load(data)
	if err != nil {
		panic(err)
	}
	return c
}

// Default returns the catalog built from the embedded templates file.
func Default() *Catalog {
	return defaultCatalog
}

// Categories returns the category descriptors in declaration order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Category looks up a category descriptor.
func (c *Catalog) Category(id CategoryID) (Category, bool) {
	for _, cat := range c.categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}

// Templates returns the templates of a category. Unknown categories yield an
// empty slice.
func (c *Catalog) Templates(id CategoryID) []Template {
	list := c.templates[id]
	out := make([]Template, len(list))
	copy(out, list)
	return out
}

// Template looks up a template by id.
func (c *Catalog) Template(id string) (Template, bool) {
	t, ok := c.byID[id]
	return t, ok
}

// TemplateCount is the number of templates across all categories.
func (c *Catalog) TemplateCount() int {
	return len(c.byID)
}
