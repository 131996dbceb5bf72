package generator

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFormat means the output format is not offered by the template.
	ErrInvalidFormat = errors.New("output format not supported by template")

	// ErrEmptyResponse means the model answered without any text.
	ErrEmptyResponse = errors.New("model returned an empty document")

	// ErrGenerationFailed wraps transport or remote errors of Generate.
	ErrGenerationFailed = errors.New("document generation failed")

	// ErrAnnotationFailed wraps transport or remote errors of Annotate.
	ErrAnnotationFailed = errors.New("document analysis failed")

	// ErrAnnotationParse means the analysis reply was not a well-formed flashcard array.
	ErrAnnotationParse = errors.New("analysis response is not valid flashcard JSON")
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Required builds the error for an empty field.
func Required(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "is required"}
}
