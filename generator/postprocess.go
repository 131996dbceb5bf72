package generator

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CheckDocument returns raw unchanged unless it carries no text at all.
func CheckDocument(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrEmptyResponse
	}
	return raw, nil
}

type wireAnnotation struct {
	Type    *string `json:"type"`
	Content *string `json:"content"`
}

// ParseAnnotations decodes the analysis reply. The body must be a bare JSON
// array of {type, content} objects; nothing is repaired or skipped.
func ParseAnnotations(raw string) ([]Annotation, error) {
	body := strings.TrimSpace(raw)
	if !strings.HasPrefix(body, "[") {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrAnnotationParse)
	}
	var items []wireAnnotation
	if err := json.Unmarshal([]byte(body), &items); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAnnotationParse, err)
	}

	out := make([]Annotation, 0, len(items))
	for i, it := range items {
		if it.Type == nil {
			return nil, fmt.Errorf("%w: item %d has no type", ErrAnnotationParse, i)
		}
		if it.Content == nil {
			return nil, fmt.Errorf("%w: item %d has no content", ErrAnnotationParse, i)
		}
		cat, ok := wireCategories[*it.Type]
		if !ok {
			return nil, fmt.Errorf("%w: item %d has unknown type %q", ErrAnnotationParse, i, *it.Type)
		}
		out = append(out, Annotation{Category: cat, Text: *it.Content})
	}
	return out, nil
}
