package eventstore

import (
	"testing"
	"time"
)

func must[E Event](e E, err error) E {
	if err != nil {
		panic(err)
	}
	return e
}

func TestBuildHistoryProjection_ApplyEvents(t *testing.T) {
	projection := NewBuildHistoryProjection(newTestStore(t), 10)
	buildID := testBuildID

	projection.Apply(must(NewBuildStarted(buildID, "docs", "out", 3, 2)))

	summary, exists := projection.GetBuild(buildID)
	if !exists {
		t.Fatal("expected build to exist")
	}
	if summary.Status != "running" {
		t.Errorf("expected status 'running', got %q", summary.Status)
	}
	if summary.Documents != 3 || summary.Input != "docs" {
		t.Errorf("unexpected start summary: %+v", summary)
	}

	projection.Apply(must(NewDocumentFailed(buildID, "bad.md", "render", "boom")))
	projection.Apply(must(NewBuildCompleted(buildID, BuildCompletedData{
		Outcome:  "warning",
		Rendered: 1,
		Fresh:    1,
		Failed:   1,
	})))

	summary, _ = projection.GetBuild(buildID)
	if summary.Status != "warning" {
		t.Errorf("expected status 'warning', got %q", summary.Status)
	}
	if summary.Rendered != 1 || summary.Fresh != 1 || summary.Failed != 1 {
		t.Errorf("unexpected counts: %+v", summary)
	}
	if len(summary.FailedPaths) != 1 || summary.FailedPaths[0] != "bad.md" {
		t.Errorf("expected failed path bad.md, got %v", summary.FailedPaths)
	}
	if summary.CompletedAt == nil {
		t.Error("expected completion time")
	}

	last := projection.GetLastCompletedBuild()
	if last == nil || last.BuildID != buildID {
		t.Errorf("expected last completed build %s, got %+v", buildID, last)
	}
}

func TestBuildHistoryProjection_Rebuild(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()

	for _, id := range []string{"build-1", "build-2", "build-3"} {
		if err := Record(ctx, store, must(NewBuildStarted(id, "docs", "out", 1, 1))); err != nil {
			t.Fatal(err)
		}
		if err := Record(ctx, store, must(NewBuildCompleted(id, BuildCompletedData{Outcome: "success", Rendered: 1}))); err != nil {
			t.Fatal(err)
		}
		time.Sleep(5 * time.Millisecond)
	}
	// A build that never completed stays out of the history.
	if err := Record(ctx, store, must(NewBuildStarted("build-4", "docs", "out", 1, 1))); err != nil {
		t.Fatal(err)
	}

	projection := NewBuildHistoryProjection(store, 2)
	if err := projection.Rebuild(ctx, time.Time{}); err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	history := projection.GetHistory()
	if len(history) != 2 {
		t.Fatalf("expected 2 builds in bounded history, got %d", len(history))
	}
	if history[0].BuildID != "build-3" || history[1].BuildID != "build-2" {
		t.Errorf("expected newest first, got %s, %s", history[0].BuildID, history[1].BuildID)
	}
	if _, ok := projection.GetBuild("build-1"); ok {
		t.Error("expected build-1 pruned from the bounded projection")
	}
	if running, ok := projection.GetBuild("build-4"); !ok || running.Status != "running" {
		t.Errorf("expected build-4 running, got %+v", running)
	}
	if projection.LastSyncTime().IsZero() {
		t.Error("expected sync time")
	}
}

func TestBuildHistoryProjection_IgnoresEmptyBuildID(t *testing.T) {
	projection := NewBuildHistoryProjection(newTestStore(t), 0)
	projection.Apply(&BaseEvent{EventType: TypeBuildStarted, EventTimestamp: time.Now()})
	if len(projection.GetHistory()) != 0 {
		t.Error("expected empty history")
	}
	if projection.GetLastCompletedBuild() != nil {
		t.Error("expected no completed build")
	}
}
