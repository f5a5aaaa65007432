// Package notify announces finished builds to external subscribers.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/mdwiki/internal/foundation/errors"
	"git.home.luguber.info/inful/mdwiki/internal/logfields"
)

// DefaultSubject is the subject build summaries are published on.
const DefaultSubject = "mdwiki.builds"

var (
	// ErrConnect indicates the message broker could not be reached.
	ErrConnect = errors.NetworkError("failed to connect to NATS").Build()

	// ErrPublish indicates a build summary could not be delivered.
	ErrPublish = errors.NetworkError("failed to publish build summary").Warning().Build()
)

// Summary is the JSON message published when a build ends.
type Summary struct {
	BuildID      string    `json:"build_id"`
	Outcome      string    `json:"outcome"`
	Input        string    `json:"input"`
	Output       string    `json:"output"`
	Rendered     int       `json:"rendered"`
	Fresh        int       `json:"fresh"`
	Failed       int       `json:"failed"`
	FailedPaths  []string  `json:"failed_paths,omitempty"`
	IndexCreated bool      `json:"index_created"`
	DurationMS   int64     `json:"duration_ms"`
	Timestamp    time.Time `json:"timestamp"`
}

// Notifier delivers build summaries.
type Notifier interface {
	Notify(ctx context.Context, s Summary) error
	Close() error
}

// NoopNotifier discards summaries (default when notifications are not configured).
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, Summary) error { return nil }
func (NoopNotifier) Close() error                          { return nil }

// Publisher is the subset of *nats.Conn used for notifications.
type Publisher interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Drain() error
}

// NATSNotifier publishes summaries with core NATS.
type NATSNotifier struct {
	pub     Publisher
	subject string
	logger  *slog.Logger
}

// NewNATSNotifier connects to the NATS server at url.
func NewNATSNotifier(url, subject string, logger *slog.Logger) (*NATSNotifier, error) {
	conn, err := nats.Connect(url,
		nats.Name("mdwiki"),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, errors.Wrap(err, ErrConnect).WithContext("url", url).Build()
	}
	n := NewPublisherNotifier(conn, subject, logger)
	n.logger.Info("NATS notifier initialized", slog.String("url", url), logfields.Subject(n.subject))
	return n, nil
}

// NewPublisherNotifier wraps an existing publisher.
func NewPublisherNotifier(pub Publisher, subject string, logger *slog.Logger) *NATSNotifier {
	if subject == "" {
		subject = DefaultSubject
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NATSNotifier{pub: pub, subject: subject, logger: logger}
}

// Notify publishes s and waits until the server acknowledged the flush or ctx ends.
func (n *NATSNotifier) Notify(ctx context.Context, s Summary) error {
	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now()
	}
	data, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, ErrPublish).WithContext("build_id", s.BuildID).Build()
	}

	if err := n.pub.Publish(n.subject, data); err != nil {
		return errors.Wrap(err, ErrPublish).
			WithContext("build_id", s.BuildID).
			WithContext("subject", n.subject).
			Build()
	}

	flushCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := n.pub.FlushWithContext(flushCtx); err != nil {
		return errors.Wrap(err, ErrPublish).
			WithContext("build_id", s.BuildID).
			WithContext("subject", n.subject).
			Build()
	}

	n.logger.Debug("Published build summary",
		logfields.BuildID(s.BuildID),
		logfields.Subject(n.subject),
		logfields.Status(s.Outcome))
	return nil
}

// Close drains the connection.
func (n *NATSNotifier) Close() error {
	return n.pub.Drain()
}
