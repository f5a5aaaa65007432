package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"git.home.luguber.info/inful/mdwiki/internal/build"
	"git.home.luguber.info/inful/mdwiki/internal/docs"
	"git.home.luguber.info/inful/mdwiki/internal/foundation/errors"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Input       string `arg:"" help:"Directory containing the markdown sources" type:"path"`
	Output      string `short:"o" help:"Output directory for rendered pages" default:"output" type:"path"`
	Concurrency int    `short:"j" help:"Number of documents rendered in parallel (0 uses the config value)"`
	Strict      bool   `help:"Exit non-zero when any document fails"`
	List        bool   `help:"Print the discovered source documents and exit without building"`

	stdout io.Writer `kong:"-"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if b.Concurrency > 0 {
		cfg.Build.Concurrency = b.Concurrency
	}

	logger := g.logger()
	opts := build.OptionsFromConfig(cfg, b.Input, b.Output)
	opts.Logger = logger

	if b.List {
		return b.list(opts)
	}

	observer, cleanup := buildObservers(cfg, logger)
	defer cleanup()
	opts.Observer = observer

	ctx, cancel := signalContext()
	defer cancel()

	_, err = RunBuild(ctx, opts, b.Strict, b.out())
	return err
}

// RunBuild executes one build and prints its summary. In strict mode
// per-document failures turn into ErrDocumentsFailed.
func RunBuild(ctx context.Context, opts build.Options, strict bool, out io.Writer) (*build.Report, error) {
	report, err := build.NewOrchestrator(opts).Run(ctx)
	if report != nil {
		_, _ = fmt.Fprintln(out, report.Summary())
	}
	if err != nil {
		return report, err
	}
	if strict && len(report.Failures) > 0 {
		return report, errors.Wrap(report.Failures[0].Err, build.ErrDocumentsFailed).
			WithContext("failed", len(report.Failures)).
			WithContext("path", report.Failures[0].SourcePath).
			Build()
	}
	return report, nil
}

func (b *BuildCmd) list(opts build.Options) error {
	exclude := append([]string(nil), opts.Exclude...)
	if abs, err := filepath.Abs(opts.Output); err == nil {
		exclude = append(exclude, abs)
	}
	documents, err := docs.NewScanner(docs.Options{
		Extension:     opts.SourceExtension,
		IncludeHidden: opts.IncludeHidden,
		Exclude:       exclude,
		Logger:        opts.Logger,
	}).Scan(opts.Input)
	if err != nil {
		return err
	}
	out := b.out()
	for _, p := range docs.Paths(documents) {
		_, _ = fmt.Fprintln(out, p)
	}
	return nil
}

func (b *BuildCmd) out() io.Writer { return outOrStdout(b.stdout) }
