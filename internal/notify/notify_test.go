package notify

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	mu         sync.Mutex
	subjects   []string
	messages   [][]byte
	publishErr error
	flushErr   error
	drained    bool
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return f.publishErr
	}
	f.subjects = append(f.subjects, subject)
	f.messages = append(f.messages, data)
	return nil
}

func (f *fakePublisher) FlushWithContext(context.Context) error { return f.flushErr }

func (f *fakePublisher) Drain() error {
	f.drained = true
	return nil
}

func TestNATSNotifier_PublishesSummary(t *testing.T) {
	pub := &fakePublisher{}
	n := NewPublisherNotifier(pub, "", nil)

	err := n.Notify(t.Context(), Summary{
		BuildID:     "b-1",
		Outcome:     "warning",
		Rendered:    2,
		Failed:      1,
		FailedPaths: []string{"bad.md"},
	})
	require.NoError(t, err)

	require.Len(t, pub.messages, 1)
	assert.Equal(t, DefaultSubject, pub.subjects[0])

	var got Summary
	require.NoError(t, json.Unmarshal(pub.messages[0], &got))
	assert.Equal(t, "b-1", got.BuildID)
	assert.Equal(t, "warning", got.Outcome)
	assert.Equal(t, []string{"bad.md"}, got.FailedPaths)
	assert.False(t, got.Timestamp.IsZero())
}

func TestNATSNotifier_CustomSubject(t *testing.T) {
	pub := &fakePublisher{}
	require.NoError(t, NewPublisherNotifier(pub, "wiki.done", nil).Notify(t.Context(), Summary{BuildID: "b"}))
	assert.Equal(t, []string{"wiki.done"}, pub.subjects)
}

func TestNATSNotifier_PublishError(t *testing.T) {
	pub := &fakePublisher{publishErr: stderrors.New("connection closed")}
	err := NewPublisherNotifier(pub, "", nil).Notify(t.Context(), Summary{BuildID: "b"})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, ErrPublish))
}

func TestNATSNotifier_FlushError(t *testing.T) {
	pub := &fakePublisher{flushErr: context.DeadlineExceeded}
	err := NewPublisherNotifier(pub, "", nil).Notify(t.Context(), Summary{BuildID: "b"})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, ErrPublish))
	assert.True(t, stderrors.Is(err, context.DeadlineExceeded))
}

func TestNATSNotifier_CloseDrains(t *testing.T) {
	pub := &fakePublisher{}
	require.NoError(t, NewPublisherNotifier(pub, "", nil).Close())
	assert.True(t, pub.drained)
}

func TestNewNATSNotifier_Unreachable(t *testing.T) {
	_, err := NewNATSNotifier("nats://127.0.0.1:1", "", nil)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, ErrConnect))
}

func TestNoopNotifier(t *testing.T) {
	var n Notifier = NoopNotifier{}
	assert.NoError(t, n.Notify(t.Context(), Summary{}))
	assert.NoError(t, n.Close())
}
