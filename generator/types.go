package generator

import "doc_wizard/catalog"

// Request describes one document to generate.
type Request struct {
	Template     catalog.Template   `json:"template"`
	Category     catalog.CategoryID `json:"category" validate:"required"`
	Title        string             `json:"title" validate:"required"`
	Language     string             `json:"language" validate:"required"`
	KeyPoints    string             `json:"keyPoints" validate:"required"`
	OutputFormat catalog.Format     `json:"outputFormat" validate:"required"`
}

// AnnotationCategory classifies a flashcard.
type AnnotationCategory string

const (
	Defect     AnnotationCategory = "defect"
	Suggestion AnnotationCategory = "suggestion"
	KeyInfo    AnnotationCategory = "keyInfo"
)

// Valid reports whether c is one of the three categories.
func (c AnnotationCategory) Valid() bool {
	switch c {
	case Defect, Suggestion, KeyInfo:
		return true
	}
	return false
}

// Annotation is a short classified note extracted from a generated document.
type Annotation struct {
	Category AnnotationCategory `json:"category"`
	Text     string             `json:"text"`
}

// wire tags the model is asked to emit, mapped to categories.
var wireCategories = map[string]AnnotationCategory{
	"error":      Defect,
	"suggestion": Suggestion,
	"keyInfo":    KeyInfo,
}
