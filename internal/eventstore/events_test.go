package eventstore

import (
	"encoding/json"
	"testing"
)

const testBuildID = "build-123"

func TestEventSerialization(t *testing.T) {
	buildID := testBuildID

	tests := []struct {
		name      string
		createFn  func() (Event, error)
		eventType string
		wantKeys  []string
	}{
		{
			name: "BuildStarted",
			createFn: func() (Event, error) {
				return NewBuildStarted(buildID, "docs", "output", 12, 4)
			},
			eventType: TypeBuildStarted,
			wantKeys:  []string{"input", "output", "documents", "workers"},
		},
		{
			name: "DocumentRendered",
			createFn: func() (Event, error) {
				return NewDocumentRendered(buildID, "a/b.md", "a/b.html", "abc", true)
			},
			eventType: TypeDocumentRendered,
			wantKeys:  []string{"path", "output", "hash", "rendered"},
		},
		{
			name: "DocumentFailed",
			createFn: func() (Event, error) {
				return NewDocumentFailed(buildID, "a/c.md", "render", "permission denied")
			},
			eventType: TypeDocumentFailed,
			wantKeys:  []string{"path", "category", "error"},
		},
		{
			name: "BuildCompleted",
			createFn: func() (Event, error) {
				return NewBuildCompleted(buildID, BuildCompletedData{Outcome: "success", Rendered: 2, DurationMS: 15})
			},
			eventType: TypeBuildCompleted,
			wantKeys:  []string{"outcome", "rendered", "fresh", "failed", "index_created", "duration_ms"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := tt.createFn()
			if err != nil {
				t.Fatalf("failed to create event: %v", err)
			}

			if event.BuildID() != buildID {
				t.Errorf("expected build_id %s, got %s", buildID, event.BuildID())
			}
			if event.Type() != tt.eventType {
				t.Errorf("expected type %s, got %s", tt.eventType, event.Type())
			}
			if event.Timestamp().IsZero() {
				t.Error("expected timestamp to be set")
			}

			var payload map[string]any
			if err := json.Unmarshal(event.Payload(), &payload); err != nil {
				t.Fatalf("payload is not valid JSON: %v", err)
			}
			for _, key := range tt.wantKeys {
				if _, ok := payload[key]; !ok {
					t.Errorf("payload missing %q: %s", key, event.Payload())
				}
			}
			if _, ok := payload["EventBuildID"]; ok {
				t.Errorf("payload must not contain envelope fields: %s", event.Payload())
			}
		})
	}
}

func TestBuildCompletedOmitsEmptyError(t *testing.T) {
	e, err := NewBuildCompleted(testBuildID, BuildCompletedData{Outcome: "success"})
	if err != nil {
		t.Fatal(err)
	}
	var payload map[string]any
	if err := json.Unmarshal(e.Payload(), &payload); err != nil {
		t.Fatal(err)
	}
	if _, ok := payload["error"]; ok {
		t.Errorf("expected no error key, got %s", e.Payload())
	}
	if e.Outcome != "success" {
		t.Errorf("expected typed outcome, got %q", e.Outcome)
	}
}
