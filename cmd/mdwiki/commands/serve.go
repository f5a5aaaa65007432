package commands

import (
	"context"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/mdwiki/internal/build"
	"git.home.luguber.info/inful/mdwiki/internal/logfields"
	"git.home.luguber.info/inful/mdwiki/internal/metrics"
	"git.home.luguber.info/inful/mdwiki/internal/server/httpserver"
	"git.home.luguber.info/inful/mdwiki/internal/server/responses"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Dir   string `arg:"" optional:"" help:"Output directory to serve" default:"output" type:"path"`
	Input string `short:"i" help:"Build this source directory into DIR before serving" type:"path"`
	Addr  string `short:"a" help:"Listen address (overrides server.addr)"`

	stdout io.Writer `kong:"-"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if s.Addr != "" {
		cfg.Server.Addr = s.Addr
	}
	logger := g.logger()

	ctx, cancel := signalContext()
	defer cancel()

	reg := prometheus.NewRegistry()
	srv := httpserver.New(httpserver.Options{
		Addr:      cfg.Server.Addr,
		Root:      s.Dir,
		IndexName: cfg.Index.Filename,
		Registry:  reg,
		Logger:    logger,
	})

	if s.Input != "" {
		opts := build.OptionsFromConfig(cfg, s.Input, s.Dir)
		opts.Logger = logger
		opts.Recorder = metrics.NewPrometheusRecorder(reg)
		observer, cleanup := buildObservers(cfg, logger)
		defer cleanup()
		opts.Observer = observer

		report, err := RunBuild(ctx, opts, false, outOrStdout(s.stdout))
		if err != nil {
			return err
		}
		srv.Monitoring().SetLastBuild(buildStatus(report))
	}

	if err := srv.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	logger.Info("Shutdown signal received, stopping server", logfields.Addr(srv.Addr()))

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	if err := srv.Stop(stopCtx); err != nil {
		return err
	}
	return srv.Wait()
}

func buildStatus(r *build.Report) responses.BuildStatus {
	return responses.BuildStatus{
		BuildID:     r.BuildID,
		Outcome:     string(r.Outcome),
		Rendered:    r.Rendered,
		Fresh:       r.Fresh,
		Failed:      len(r.Failures),
		CompletedAt: r.End,
	}
}
