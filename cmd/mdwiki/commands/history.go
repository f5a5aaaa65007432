package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/mdwiki/internal/eventstore"
	"git.home.luguber.info/inful/mdwiki/internal/foundation/errors"
)

// ErrHistoryDisabled indicates no history database is configured.
var ErrHistoryDisabled = errors.ConfigError("build history is not configured (set history.path or --db)").Build()

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Hours int    `help:"Show builds started within this many hours" default:"24"`
	Limit int    `help:"Maximum number of builds shown" default:"20"`
	DB    string `name:"db" help:"History database (overrides history.path)" type:"path"`

	stdout io.Writer `kong:"-"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	dbPath := cfg.History.Path
	if h.DB != "" {
		dbPath = h.DB
	}
	if dbPath == "" {
		return ErrHistoryDisabled
	}

	store, err := eventstore.NewSQLiteStore(dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	projection := eventstore.NewBuildHistoryProjection(store, h.Limit)
	since := time.Now().Add(-time.Duration(h.Hours) * time.Hour)
	if err := projection.Rebuild(context.Background(), since); err != nil {
		return err
	}
	return writeHistory(outOrStdout(h.stdout), projection.GetHistory())
}

func writeHistory(out io.Writer, builds []*eventstore.BuildSummary) error {
	if len(builds) == 0 {
		_, err := fmt.Fprintln(out, "no builds recorded")
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "STARTED\tBUILD\tSTATUS\tDOCS\tRENDERED\tFRESH\tFAILED\tDURATION")
	for _, b := range builds {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			b.StartedAt.Local().Format(time.DateTime),
			shortID(b.BuildID),
			b.Status,
			b.Documents,
			b.Rendered,
			b.Fresh,
			b.Failed,
			b.Duration.Round(time.Millisecond))
	}
	return tw.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
