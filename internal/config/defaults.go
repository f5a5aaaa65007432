package config

import "strings"

// Default returns a configuration populated with every default value.
func Default() *Config {
	return &Config{
		Build: BuildConfig{
			SourceExtension: ".md",
			TargetExtension: ".html",
			LedgerFile:      ".files.sha",
			VerifyOutputs:   true,
		},
		Render: RenderConfig{
			GFM:              true,
			StripFrontmatter: true,
		},
		Index: IndexConfig{
			Filename: "index.html",
			Title:    "Wiki",
		},
		Server: ServerConfig{
			Addr: "localhost:5000",
		},
		Notify: NotifyConfig{
			Subject: "mdwiki.builds",
		},
	}
}

// applyDefaults fills values that were explicitly emptied in the file and
// normalizes extension spelling.
func applyDefaults(cfg *Config) {
	def := Default()

	if cfg.Build.SourceExtension == "" {
		cfg.Build.SourceExtension = def.Build.SourceExtension
	}
	if cfg.Build.TargetExtension == "" {
		cfg.Build.TargetExtension = def.Build.TargetExtension
	}
	cfg.Build.SourceExtension = normalizeExtension(cfg.Build.SourceExtension)
	cfg.Build.TargetExtension = normalizeExtension(cfg.Build.TargetExtension)

	if cfg.Build.LedgerFile == "" {
		cfg.Build.LedgerFile = def.Build.LedgerFile
	}
	if cfg.Index.Filename == "" {
		cfg.Index.Filename = def.Index.Filename
	}
	if cfg.Index.Title == "" {
		cfg.Index.Title = def.Index.Title
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = def.Server.Addr
	}
	if cfg.Notify.Subject == "" {
		cfg.Notify.Subject = def.Notify.Subject
	}
}

// normalizeExtension lowercases ext and adds a leading dot when a bare name is given.
func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
