package wizard

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"doc_wizard/catalog"
)

// Document is a generated document kept in the session history. It is never
// modified after it is appended.
type Document struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Content      string             `json:"content"`
	TemplateName string             `json:"templateName"`
	Category     catalog.CategoryID `json:"category"`
	OutputFormat catalog.Format     `json:"outputFormat"`
	CreatedAt    time.Time          `json:"createdAt"`
}

// History is the in-memory, insertion-ordered list of a session's documents.
type History struct {
	mu   sync.RWMutex
	docs []Document
}

func NewHistory() *History {
	return &History{}
}

// Append stores doc, assigning an id and timestamp when missing.
func (h *History) Append(doc Document) Document {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}
	h.mu.Lock()
	h.docs = append(h.docs, doc)
	h.mu.Unlock()
	return doc
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.docs)
}

// All returns the documents oldest first.
func (h *History) All() []Document {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Document, len(h.docs))
	copy(out, h.docs)
	return out
}

// Recent returns up to n documents, newest first.
func (h *History) Recent(n int) []Document {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if n > len(h.docs) {
		n = len(h.docs)
	}
	if n < 0 {
		n = 0
	}
	out := make([]Document, 0, n)
	for i := len(h.docs) - 1; i >= len(h.docs)-n; i-- {
		out = append(out, h.docs[i])
	}
	return out
}

func (h *History) Get(id string) (Document, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, d := range h.docs {
		if d.ID == id {
			return d, true
		}
	}
	return Document{}, false
}
