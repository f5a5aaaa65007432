package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/mdwiki/cmd/mdwiki/commands"
	"git.home.luguber.info/inful/mdwiki/internal/foundation/errors"
	"git.home.luguber.info/inful/mdwiki/internal/version"
)

func main() {
	cli := &commands.CLI{}
	global := &commands.Global{Logger: slog.Default()}
	parser := kong.Parse(cli,
		kong.Name("mdwiki"),
		kong.Description("Incrementally render a directory of markdown documents into a static HTML wiki."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(global),
	)

	if err := parser.Run(cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
