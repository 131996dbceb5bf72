// Package wizard drives the four-step document wizard: category, template,
// details, result. A Wizard owns one State and mutates it only through its
// transition methods.
package wizard

import (
	"fmt"

	"doc_wizard/catalog"
	"doc_wizard/generator"
)

// Step is the wizard screen currently shown.
type Step int

const (
	SelectCategory Step = iota
	SelectTemplate
	EnterDetails
	ReviewResult
)

var stepNames = [...]string{"selectCategory", "selectTemplate", "enterDetails", "reviewResult"}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return fmt.Sprintf("Step(%d)", int(s))
	}
	return stepNames[s]
}

func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Step) UnmarshalText(b []byte) error {
	for i, name := range stepNames {
		if name == string(b) {
			*s = Step(i)
			return nil
		}
	}
	return fmt.Errorf("unknown step %q", b)
}

// State is a snapshot of the wizard form.
type State struct {
	Step            Step                   `json:"step"`
	Category        catalog.CategoryID     `json:"category,omitempty"`
	Template        *catalog.Template      `json:"template,omitempty"`
	Title           string                 `json:"title"`
	Language        string                 `json:"language"`
	KeyPoints       string                 `json:"keyPoints"`
	OutputFormat    catalog.Format         `json:"outputFormat,omitempty"`
	GeneratedText   string                 `json:"generatedText"`
	Annotations     []generator.Annotation `json:"annotations"`
	Highlight       string                 `json:"highlight"`
	IsLoading       bool                   `json:"isLoading"`
	IsAnnotating    bool                   `json:"isAnnotating"`
	LastError       string                 `json:"lastError,omitempty"`
	AnnotationError string                 `json:"annotationError,omitempty"`
}

func initialState(language string) State {
	return State{
		Step:        SelectCategory,
		Language:    language,
		Annotations: []generator.Annotation{},
	}
}

func (s State) clone() State {
	out := s
	if s.Template != nil {
		t := *s.Template
		out.Template = &t
	}
	out.Annotations = make([]generator.Annotation, len(s.Annotations))
	copy(out.Annotations, s.Annotations)
	return out
}

// Details are the fields entered on the details step.
type Details struct {
	Title     string `json:"title" validate:"required"`
	KeyPoints string `json:"keyPoints" validate:"required"`
	Language  string `json:"language"`
}
