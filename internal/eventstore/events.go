package eventstore

import (
	"encoding/json"
	"time"

	"git.home.luguber.info/inful/mdwiki/internal/foundation/errors"
)

// BuildStarted is emitted once the input tree has been scanned.
type BuildStarted struct {
	BaseEvent `json:"-"`
	Input     string `json:"input"`
	Output    string `json:"output"`
	Documents int    `json:"documents"`
	Workers   int    `json:"workers"`
}

// NewBuildStarted creates a BuildStarted event.
func NewBuildStarted(buildID, input, output string, documents, workers int) (*BuildStarted, error) {
	e := &BuildStarted{Input: input, Output: output, Documents: documents, Workers: workers}
	base, err := newBase(buildID, TypeBuildStarted, e)
	if err != nil {
		return nil, err
	}
	e.BaseEvent = base
	return e, nil
}

// DocumentRendered is emitted for every successfully processed document,
// whether it was rendered or skipped as fresh.
type DocumentRendered struct {
	BaseEvent `json:"-"`
	Path     string `json:"path"`
	Output   string `json:"output"`
	Hash     string `json:"hash"`
	Rendered bool   `json:"rendered"`
}

// NewDocumentRendered creates a DocumentRendered event.
func NewDocumentRendered(buildID, path, output, hash string, rendered bool) (*DocumentRendered, error) {
	e := &DocumentRendered{Path: path, Output: output, Hash: hash, Rendered: rendered}
	base, err := newBase(buildID, TypeDocumentRendered, e)
	if err != nil {
		return nil, err
	}
	e.BaseEvent = base
	return e, nil
}

// DocumentFailed is emitted when a document could not be processed.
type DocumentFailed struct {
	BaseEvent `json:"-"`
	Path     string `json:"path"`
	Category string `json:"category"`
	Error    string `json:"error"`
}

// NewDocumentFailed creates a DocumentFailed event.
func NewDocumentFailed(buildID, path, category, errorMsg string) (*DocumentFailed, error) {
	e := &DocumentFailed{Path: path, Category: category, Error: errorMsg}
	base, err := newBase(buildID, TypeDocumentFailed, e)
	if err != nil {
		return nil, err
	}
	e.BaseEvent = base
	return e, nil
}

// BuildCompletedData is the summary stored with BuildCompleted.
type BuildCompletedData struct {
	Outcome      string `json:"outcome"`
	Rendered     int    `json:"rendered"`
	Fresh        int    `json:"fresh"`
	Failed       int    `json:"failed"`
	IndexCreated bool   `json:"index_created"`
	DurationMS   int64  `json:"duration_ms"`
	Error        string `json:"error,omitempty"`
}

// BuildCompleted is emitted when a build ends, whatever its outcome.
type BuildCompleted struct {
	BaseEvent `json:"-"`
	BuildCompletedData
}

// NewBuildCompleted creates a BuildCompleted event.
func NewBuildCompleted(buildID string, data BuildCompletedData) (*BuildCompleted, error) {
	e := &BuildCompleted{BuildCompletedData: data}
	base, err := newBase(buildID, TypeBuildCompleted, data)
	if err != nil {
		return nil, err
	}
	e.BaseEvent = base
	return e, nil
}

func newBase(buildID, eventType string, payload any) (BaseEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return BaseEvent{}, errors.Wrap(err, ErrMarshalPayloadFailed).
			WithContext("build_id", buildID).
			WithContext("event_type", eventType).
			Build()
	}
	return BaseEvent{
		EventBuildID:   buildID,
		EventType:      eventType,
		EventTimestamp: time.Now(),
		EventPayload:   data,
	}, nil
}
