package wizard

import (
	"errors"

	"doc_wizard/generator"
)

var (
	// ErrBusy rejects a second generation or analysis while one is in flight.
	ErrBusy = errors.New("an operation is already running")

	// ErrSuperseded is returned by a run whose result was discarded because the
	// wizard moved on (reset, new selection, new document).
	ErrSuperseded = errors.New("result discarded: wizard state changed")

	// ErrWrongStep rejects a transition the current step does not offer.
	ErrWrongStep = errors.New("not available on the current step")

	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownTemplate = errors.New("unknown template for category")
	ErrNoTemplate      = errors.New("no template selected")
	ErrNoAnnotation    = errors.New("no such annotation")
	ErrInvalidFormat   = generator.ErrInvalidFormat
)
