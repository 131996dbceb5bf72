package wizard

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"doc_wizard/catalog"
	"doc_wizard/generator"
)

// Generator is the remote side of the wizard. *generator.Agent implements it.
type Generator interface {
	Generate(ctx context.Context, req generator.Request) (string, error)
	Annotate(ctx context.Context, text string) ([]generator.Annotation, error)
}

const DefaultLanguage = "English"

// Wizard is safe for concurrent use; every transition is serialized by mu.
type Wizard struct {
	mu       sync.Mutex
	gen      Generator
	catalog  *catalog.Catalog
	history  *History
	language string
	logger   *zap.Logger

	state State
	// epoch changes whenever an in-flight generation must be dropped.
	epoch uint64
	// docVersion changes whenever GeneratedText is replaced or cleared.
	docVersion uint64
}

// Option customizes a Wizard.
type Option func(*Wizard)

// WithDefaultLanguage sets the language used when Details.Language is empty.
func WithDefaultLanguage(lang string) Option {
	return func(w *Wizard) {
		if lang != "" {
			w.language = lang
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(w *Wizard) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New creates a wizard on its first step. history is shared with the caller and
// survives Reset; a nil history gets a fresh one.
func New(gen Generator, cat *catalog.Catalog, history *History, opts ...Option) *Wizard {
	if cat == nil {
		cat = catalog.Default()
	}
	if history == nil {
		history = NewHistory()
	}
	w := &Wizard{
		gen:      gen,
		catalog:  cat,
		history:  history,
		language: DefaultLanguage,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.state = initialState(w.language)
	return w
}

// Snapshot returns a copy of the current state.
func (w *Wizard) Snapshot() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.clone()
}

func (w *Wizard) History() *History {
	return w.history
}

// SelectCategory chooses a category and moves to template selection. Anything
// chosen or generated for a previous category is dropped.
func (w *Wizard) SelectCategory(id catalog.CategoryID) error {
	if _, ok := w.catalog.Category(id); !ok {
		return ErrUnknownCategory
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	w.abandonGeneration()
	w.clearDocument()
	w.state.Category = id
	w.state.Template = nil
	w.state.OutputFormat = ""
	w.state.Step = SelectTemplate
	return nil
}

// SelectTemplate chooses a template of the selected category and defaults the
// output format to its first supported format.
func (w *Wizard) SelectTemplate(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state.Category == "" {
		return generator.Required("category")
	}
	t, ok := w.catalog.Template(id)
	if !ok || t.Category != w.state.Category {
		return ErrUnknownTemplate
	}

	w.abandonGeneration()
	w.clearDocument()
	w.state.Template = &t
	w.state.OutputFormat = t.DefaultFormat()
	w.state.Step = EnterDetails
	return nil
}

// SetOutputFormat changes the format; values the template does not offer are
// rejected and the previous format kept.
func (w *Wizard) SetOutputFormat(f catalog.Format) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state.Template == nil {
		return ErrNoTemplate
	}
	if !w.state.Template.Supports(f) {
		return ErrInvalidFormat
	}
	w.state.OutputFormat = f
	return nil
}

// Back returns from template selection to categories and from details to
// template selection, keeping the selections made so far.
func (w *Wizard) Back() Step {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state.Step {
	case SelectTemplate:
		w.state.Step = SelectCategory
	case EnterDetails:
		if !w.state.IsLoading {
			w.state.Step = SelectTemplate
		}
	}
	return w.state.Step
}

// Reset returns the form to its initial state. The document history is kept.
func (w *Wizard) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.abandonGeneration()
	w.clearDocument()
	w.state = initialState(w.language)
}

// ToggleHighlight highlights the excerpt of annotation i, or clears the
// highlight when that excerpt is already highlighted. It returns the new value.
func (w *Wizard) ToggleHighlight(i int) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if i < 0 || i >= len(w.state.Annotations) {
		return w.state.Highlight, ErrNoAnnotation
	}
	excerpt := w.state.Annotations[i].Text
	if w.state.Highlight == excerpt {
		w.state.Highlight = ""
	} else {
		w.state.Highlight = excerpt
	}
	return w.state.Highlight, nil
}

// Segments renders the generated text split around the current highlight.
func (w *Wizard) Segments() []Segment {
	w.mu.Lock()
	text, excerpt := w.state.GeneratedText, w.state.Highlight
	w.mu.Unlock()
	return Segments(text, excerpt)
}

// GenerateRun is an accepted generation waiting to be executed.
type GenerateRun struct {
	w     *Wizard
	epoch uint64
	req   generator.Request
}

// BeginGenerate validates the form, marks the wizard as loading and returns the
// run to execute. Only one generation may be outstanding. It is accepted on the
// details step and, as a regeneration, on the result step; either way the wizard
// waits on EnterDetails until the run finishes.
func (w *Wizard) BeginGenerate(d Details) (*GenerateRun, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state.IsLoading {
		return nil, ErrBusy
	}
	if w.state.Category == "" {
		return nil, generator.Required("category")
	}
	if w.state.Template == nil {
		return nil, generator.Required("template")
	}
	if w.state.Step != EnterDetails && w.state.Step != ReviewResult {
		return nil, fmt.Errorf("%w: %s", ErrWrongStep, w.state.Step)
	}
	if strings.TrimSpace(d.Title) == "" {
		return nil, generator.Required("title")
	}
	if strings.TrimSpace(d.KeyPoints) == "" {
		return nil, generator.Required("keyPoints")
	}
	lang := d.Language
	if strings.TrimSpace(lang) == "" {
		lang = w.state.Language
	}
	if lang == "" {
		lang = w.language
	}

	w.clearDocument()
	w.state.Title = d.Title
	w.state.KeyPoints = d.KeyPoints
	w.state.Language = lang
	w.state.LastError = ""
	w.state.Step = EnterDetails
	w.state.IsLoading = true

	return &GenerateRun{
		w:     w,
		epoch: w.epoch,
		req: generator.Request{
			Template:     *w.state.Template,
			Category:     w.state.Category,
			Title:        d.Title,
			Language:     lang,
			KeyPoints:    d.KeyPoints,
			OutputFormat: w.state.OutputFormat,
		},
	}, nil
}

// Wait performs the remote call and applies its outcome. A result that arrives
// after the wizard was reset or re-targeted is dropped with ErrSuperseded.
func (r *GenerateRun) Wait(ctx context.Context) error {
	text, err := r.w.gen.Generate(ctx, r.req)

	w := r.w
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.epoch != r.epoch {
		w.logger.Info("dropping stale generation result", zap.String("template", r.req.Template.ID))
		return ErrSuperseded
	}
	w.state.IsLoading = false
	if err != nil {
		w.state.LastError = err.Error()
		return err
	}

	w.docVersion++
	w.state.GeneratedText = text
	w.state.Step = ReviewResult
	doc := w.history.Append(Document{
		Title:        r.req.Title,
		Content:      text,
		TemplateName: r.req.Template.Name,
		Category:     r.req.Category,
		OutputFormat: r.req.OutputFormat,
	})
	w.logger.Info("document generated",
		zap.String("document", doc.ID),
		zap.String("template", r.req.Template.ID),
		zap.Int("bytes", len(text)))
	return nil
}

// Generate is BeginGenerate followed by Wait.
func (w *Wizard) Generate(ctx context.Context, d Details) error {
	run, err := w.BeginGenerate(d)
	if err != nil {
		return err
	}
	return run.Wait(ctx)
}

// AnalyzeRun is an accepted analysis waiting to be executed.
type AnalyzeRun struct {
	w       *Wizard
	version uint64
	text    string
}

// BeginAnalyze marks the wizard as annotating the current document.
func (w *Wizard) BeginAnalyze() (*AnalyzeRun, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state.GeneratedText == "" {
		return nil, generator.Required("generatedText")
	}
	if w.state.IsAnnotating {
		return nil, ErrBusy
	}
	w.state.IsAnnotating = true
	w.state.AnnotationError = ""
	return &AnalyzeRun{w: w, version: w.docVersion, text: w.state.GeneratedText}, nil
}

// Wait runs the analysis. On success the annotations are replaced as a whole;
// on failure they, the document and the history are left untouched.
func (r *AnalyzeRun) Wait(ctx context.Context) error {
	cards, err := r.w.gen.Annotate(ctx, r.text)

	w := r.w
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.docVersion != r.version {
		w.logger.Info("dropping stale analysis result")
		return ErrSuperseded
	}
	w.state.IsAnnotating = false
	if err != nil {
		w.state.AnnotationError = err.Error()
		return err
	}
	if cards == nil {
		cards = []generator.Annotation{}
	}
	w.state.Annotations = cards
	w.state.Highlight = ""
	return nil
}

// Analyze is BeginAnalyze followed by Wait.
func (w *Wizard) Analyze(ctx context.Context) error {
	run, err := w.BeginAnalyze()
	if err != nil {
		return err
	}
	return run.Wait(ctx)
}

// abandonGeneration makes any outstanding generation stale. Callers hold mu.
func (w *Wizard) abandonGeneration() {
	w.epoch++
	w.state.IsLoading = false
	w.state.LastError = ""
}

// clearDocument drops the generated text and everything derived from it, making
// outstanding analyses stale. Callers hold mu.
func (w *Wizard) clearDocument() {
	w.docVersion++
	w.state.GeneratedText = ""
	w.state.Annotations = []generator.Annotation{}
	w.state.Highlight = ""
	w.state.IsAnnotating = false
	w.state.AnnotationError = ""
}
