package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/mdwiki/internal/foundation/errors"
	"git.home.luguber.info/inful/mdwiki/internal/logfields"
)

// ErrClean indicates a state file could not be removed.
var ErrClean = errors.FileSystemError("failed to remove build state").Build()

// CleanCmd implements the 'clean' command.
//
// Removing the ledger marks every document stale, so the next build rewrites
// every page including a rendered index document. Removing the index page is
// therefore always safe and lets a fallback index be regenerated.
type CleanCmd struct {
	Dir string `arg:"" optional:"" help:"Output directory to clean" default:"output" type:"path"`

	stdout io.Writer `kong:"-"`
}

func (c *CleanCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}

	out := outOrStdout(c.stdout)
	for _, name := range []string{cfg.Build.LedgerFile, cfg.Index.Filename} {
		p := filepath.Join(c.Dir, name)
		err := os.Remove(p)
		switch {
		case err == nil:
			_, _ = fmt.Fprintf(out, "removed %s\n", p)
		case os.IsNotExist(err):
			g.logger().Debug("Nothing to remove", logfields.Path(p))
		default:
			return errors.Wrap(err, ErrClean).WithContext("path", p).Build()
		}
	}
	return nil
}
