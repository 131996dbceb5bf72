package generator

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Agent turns wizard input into prompts, calls the LLM once per operation and
// validates what comes back.
type Agent struct {
	llm      LLMClient
	validate *validator.Validate
	logger   *zap.Logger
}

func NewAgent(llm LLMClient, logger *zap.Logger) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	return &Agent{llm: llm, validate: v, logger: logger}, nil
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// Generate writes a document for req and returns the model text verbatim.
func (a *Agent) Generate(ctx context.Context, req Request) (string, error) {
	if err := a.check(req); err != nil {
		return "", err
	}

	a.logger.Debug("generating document",
		zap.String("template", req.Template.ID),
		zap.String("format", string(req.OutputFormat)))
	raw, err := a.llm.Complete(ctx, BuildDocumentPrompt(req))
	if err != nil {
		a.logger.Error("generation request failed", zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	return CheckDocument(raw)
}

func (a *Agent) check(req Request) error {
	if req.Template.ID == "" {
		return Required("template")
	}
	if err := a.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &ValidationError{Field: verrs[0].Field(), Reason: "is required"}
		}
		return err
	}
	if req.Template.Category != req.Category {
		return &ValidationError{Field: "template", Reason: "does not belong to category " + string(req.Category)}
	}
	if !req.Template.Supports(req.OutputFormat) {
		return fmt.Errorf("%w: %s", ErrInvalidFormat, req.OutputFormat)
	}
	return nil
}

// Annotate extracts flashcards from a generated document.
func (a *Agent) Annotate(ctx context.Context, text string) ([]Annotation, error) {
	if strings.TrimSpace(text) == "" {
		return nil, Required("documentText")
	}

	raw, err := a.llm.Complete(ctx, BuildAnnotationPrompt(text))
	if err != nil {
		a.logger.Error("analysis request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrAnnotationFailed, err)
	}
	cards, err := ParseAnnotations(raw)
	if err != nil {
		a.logger.Warn("analysis reply rejected", zap.Error(err), zap.Int("bytes", len(raw)))
		return nil, err
	}
	return cards, nil
}
