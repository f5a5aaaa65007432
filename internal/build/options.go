package build

import (
	"git.home.luguber.info/inful/mdwiki/internal/config"
	"git.home.luguber.info/inful/mdwiki/internal/index"
	"git.home.luguber.info/inful/mdwiki/internal/render"
)

// OptionsFromConfig maps the loaded configuration onto orchestrator options
// for one input/output pair. Logger, Recorder and Observer are left for the
// caller to inject.
func OptionsFromConfig(cfg *config.Config, input, output string) Options {
	return Options{
		Input:           input,
		Output:          output,
		SourceExtension: cfg.Build.SourceExtension,
		TargetExtension: cfg.Build.TargetExtension,
		LedgerFile:      cfg.Build.LedgerFile,
		Concurrency:     cfg.Build.Concurrency,
		IncludeHidden:   cfg.Build.IncludeHidden,
		Exclude:         cfg.Build.Exclude,
		SkipOutputCheck: !cfg.Build.VerifyOutputs,
		Renderer: render.NewGoldmark(render.Options{
			GFM:              cfg.Render.GFM,
			Unsafe:           cfg.Render.Unsafe,
			StripFrontmatter: cfg.Render.StripFrontmatter,
		}),
		Index: index.NewGenerator(index.Options{
			Filename:     cfg.Index.Filename,
			TemplatePath: cfg.Index.Template,
			Title:        cfg.Index.Title,
		}),
	}
}
