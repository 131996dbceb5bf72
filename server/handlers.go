package server

import (
	"encoding/json"
	"errors"
	"html"
	"mime"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"doc_wizard/catalog"
	"doc_wizard/export"
	"doc_wizard/generator"
	"doc_wizard/wizard"
)

const recentDocuments = 3

// --- Requests / responses ---

type categoryReq struct {
	Category catalog.CategoryID `json:"category" validate:"required"`
}

type templateReq struct {
	TemplateID string `json:"templateId" validate:"required"`
}

type formatReq struct {
	Format catalog.Format `json:"format" validate:"required"`
}

type highlightReq struct {
	Index *int `json:"index" validate:"required"`
}

type sessionResp struct {
	SessionID string           `json:"sessionId"`
	State     wizard.State     `json:"state"`
	Segments  []wizard.Segment `json:"segments"`
	Matches   int              `json:"matches"`
}

type dashboardResp struct {
	DocumentCount int               `json:"documentCount"`
	TemplateCount int               `json:"templateCount"`
	Recent        []wizard.Document `json:"recent"`
}

type previewResp struct {
	Format catalog.Format `json:"format"`
	HTML   string         `json:"html"`
}

type errorResp struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Field string `json:"field,omitempty"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})
	return v
}

// --- Catalog ---

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": s.store.len()})
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, s.catalog.Categories())
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	id := catalog.CategoryID(chi.URLParam(r, "category"))
	s.respondJSON(w, http.StatusOK, s.catalog.Templates(id))
}

// --- Sessions ---

func (s *Server) handleSessionCreate(w http.ResponseWriter, _ *http.Request) {
	sess := s.store.create(func(h *wizard.History) *wizard.Wizard {
		return wizard.New(s.gen, s.catalog, h,
			wizard.WithDefaultLanguage(s.language),
			wizard.WithLogger(s.logger))
	})
	s.logger.Info("session created", zap.String("session", sess.ID))
	s.respondSession(w, http.StatusCreated, sess)
}

func (s *Server) handleSessionGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.respondSession(w, http.StatusOK, sess)
}

func (s *Server) handleSessionDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.store.remove(id) {
		s.respondError(w, http.StatusNotFound, "session_not_found", "session not found", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Transitions ---

func (s *Server) handleSelectCategory(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req categoryReq
	if !s.decode(w, r, &req) {
		return
	}
	if err := sess.Wizard.SelectCategory(req.Category); err != nil {
		s.respondWizardError(w, err)
		return
	}
	s.respondSession(w, http.StatusOK, sess)
}

func (s *Server) handleSelectTemplate(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req templateReq
	if !s.decode(w, r, &req) {
		return
	}
	if err := sess.Wizard.SelectTemplate(req.TemplateID); err != nil {
		s.respondWizardError(w, err)
		return
	}
	s.respondSession(w, http.StatusOK, sess)
}

func (s *Server) handleSetFormat(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req formatReq
	if !s.decode(w, r, &req) {
		return
	}
	if err := sess.Wizard.SetOutputFormat(req.Format); err != nil {
		s.respondWizardError(w, err)
		return
	}
	s.respondSession(w, http.StatusOK, sess)
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.Wizard.Back()
	s.respondSession(w, http.StatusOK, sess)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.Wizard.Reset()
	s.respondSession(w, http.StatusOK, sess)
}

// handleGenerate starts a generation. By default it answers 202 right away and
// the client polls the session; ?wait=1 blocks until the model answers.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req wizard.Details
	if !s.decode(w, r, &req) {
		return
	}
	run, err := sess.Wizard.BeginGenerate(req)
	if err != nil {
		s.respondWizardError(w, err)
		return
	}
	s.logger.Debug("generate accepted", zap.String("session", sess.ID), zap.String("title", req.Title))

	if wantWait(r) {
		if err := run.Wait(s.ctx); err != nil {
			s.respondWizardError(w, err)
			return
		}
		s.respondSession(w, http.StatusOK, sess)
		return
	}
	s.spawn(sess.ID, "generate", run.Wait)
	s.respondSession(w, http.StatusAccepted, sess)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	run, err := sess.Wizard.BeginAnalyze()
	if err != nil {
		s.respondWizardError(w, err)
		return
	}
	if wantWait(r) {
		if err := run.Wait(s.ctx); err != nil {
			s.respondWizardError(w, err)
			return
		}
		s.respondSession(w, http.StatusOK, sess)
		return
	}
	s.spawn(sess.ID, "analyze", run.Wait)
	s.respondSession(w, http.StatusAccepted, sess)
}

func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req highlightReq
	if !s.decode(w, r, &req) {
		return
	}
	if _, err := sess.Wizard.ToggleHighlight(*req.Index); err != nil {
		s.respondWizardError(w, err)
		return
	}
	s.respondSession(w, http.StatusOK, sess)
}

// --- Output ---

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	st := sess.Wizard.Snapshot()
	if st.GeneratedText == "" {
		s.respondError(w, http.StatusNotFound, "no_document", "no document generated yet", "")
		return
	}
	out := previewResp{Format: st.OutputFormat}
	if st.OutputFormat == catalog.FormatMarkdown {
		rendered, err := export.RenderHTML(st.GeneratedText)
		if err != nil {
			s.logger.Error("preview render failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, "render_failed", err.Error(), "")
			return
		}
		out.HTML = rendered
	} else {
		out.HTML = "<pre>" + html.EscapeString(st.GeneratedText) + "</pre>"
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	st := sess.Wizard.Snapshot()
	if st.GeneratedText == "" {
		s.respondError(w, http.StatusNotFound, "no_document", "no document generated yet", "")
		return
	}
	name := export.Filename(st.Title, st.OutputFormat)
	w.Header().Set("Content-Type", export.ContentType(st.OutputFormat))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(st.GeneratedText))
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, sess.History.All())
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	doc, found := sess.History.Get(chi.URLParam(r, "doc"))
	if !found {
		s.respondError(w, http.StatusNotFound, "document_not_found", "document not found", "")
		return
	}
	s.respondJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, dashboardResp{
		DocumentCount: sess.History.Len(),
		TemplateCount: s.catalog.TemplateCount(),
		Recent:        sess.History.Recent(recentDocuments),
	})
}

// --- Helpers ---

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	sess, ok := s.store.get(chi.URLParam(r, "id"))
	if !ok {
		s.respondError(w, http.StatusNotFound, "session_not_found", "session not found", "")
	}
	return sess, ok
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.respondError(w, http.StatusBadRequest, "bad_request", "invalid request body", "")
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := verrs[0].Field()
			s.respondError(w, http.StatusBadRequest, "validation", field+" is required", field)
			return false
		}
		s.respondError(w, http.StatusBadRequest, "bad_request", err.Error(), "")
		return false
	}
	return true
}

func wantWait(r *http.Request) bool {
	switch r.URL.Query().Get("wait") {
	case "1", "true":
		return true
	}
	return false
}

func (s *Server) respondSession(w http.ResponseWriter, status int, sess *Session) {
	st := sess.Wizard.Snapshot()
	s.respondJSON(w, status, sessionResp{
		SessionID: sess.ID,
		State:     st,
		Segments:  wizard.Segments(st.GeneratedText, st.Highlight),
		Matches:   wizard.CountMatches(st.GeneratedText, st.Highlight),
	})
}

func (s *Server) respondWizardError(w http.ResponseWriter, err error) {
	var verr *generator.ValidationError
	switch {
	case errors.As(err, &verr):
		s.respondError(w, http.StatusBadRequest, "validation", verr.Error(), verr.Field)
	case errors.Is(err, wizard.ErrInvalidFormat):
		s.respondError(w, http.StatusUnprocessableEntity, "invalid_format", err.Error(), "format")
	case errors.Is(err, wizard.ErrUnknownCategory):
		s.respondError(w, http.StatusUnprocessableEntity, "unknown_category", err.Error(), "category")
	case errors.Is(err, wizard.ErrUnknownTemplate):
		s.respondError(w, http.StatusUnprocessableEntity, "unknown_template", err.Error(), "templateId")
	case errors.Is(err, wizard.ErrNoTemplate):
		s.respondError(w, http.StatusUnprocessableEntity, "no_template", err.Error(), "")
	case errors.Is(err, wizard.ErrNoAnnotation):
		s.respondError(w, http.StatusUnprocessableEntity, "no_annotation", err.Error(), "index")
	case errors.Is(err, wizard.ErrWrongStep):
		s.respondError(w, http.StatusConflict, "wrong_step", err.Error(), "")
	case errors.Is(err, wizard.ErrBusy):
		s.respondError(w, http.StatusConflict, "busy", err.Error(), "")
	case errors.Is(err, wizard.ErrSuperseded):
		s.respondError(w, http.StatusConflict, "superseded", err.Error(), "")
	case errors.Is(err, generator.ErrAnnotationParse):
		s.respondError(w, http.StatusBadGateway, "annotation_parse", err.Error(), "")
	case errors.Is(err, generator.ErrAnnotationFailed):
		s.respondError(w, http.StatusBadGateway, "annotation_failed", err.Error(), "")
	case errors.Is(err, generator.ErrEmptyResponse):
		s.respondError(w, http.StatusBadGateway, "empty_response", err.Error(), "")
	case errors.Is(err, generator.ErrGenerationFailed):
		s.respondError(w, http.StatusBadGateway, "generation_failed", err.Error(), "")
	default:
		s.logger.Error("unexpected wizard error", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "internal", err.Error(), "")
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, kind, message, field string) {
	s.respondJSON(w, status, errorResp{Error: message, Kind: kind, Field: field})
}
