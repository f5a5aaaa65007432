package commands

import (
	"log/slog"

	"git.home.luguber.info/inful/mdwiki/internal/build"
	"git.home.luguber.info/inful/mdwiki/internal/config"
	"git.home.luguber.info/inful/mdwiki/internal/eventstore"
	"git.home.luguber.info/inful/mdwiki/internal/logfields"
	"git.home.luguber.info/inful/mdwiki/internal/notify"
)

// buildObservers connects the optional build history and notifications.
// Neither is required for a build: failures to set them up are logged and the
// build continues without them. The returned cleanup must always be called.
func buildObservers(cfg *config.Config, logger *slog.Logger) (build.Observer, func()) {
	var (
		observers build.Observers
		closers   []func() error
	)

	if cfg.History.Path != "" {
		store, err := eventstore.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			logger.Warn("Build history disabled", logfields.Path(cfg.History.Path), logfields.Error(err))
		} else {
			observers = append(observers, build.HistoryObserver{Store: store, Logger: logger})
			closers = append(closers, store.Close)
		}
	}

	if cfg.Notify.NATSURL != "" {
		n, err := notify.NewNATSNotifier(cfg.Notify.NATSURL, cfg.Notify.Subject, logger)
		if err != nil {
			logger.Warn("Build notifications disabled", logfields.Error(err))
		} else {
			observers = append(observers, build.NotifyObserver{Notifier: n, Logger: logger})
			closers = append(closers, n.Close)
		}
	}

	cleanup := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logger.Warn("Failed to close build observer", logfields.Error(err))
			}
		}
	}
	if len(observers) == 0 {
		return build.NoopObserver{}, cleanup
	}
	return observers, cleanup
}
