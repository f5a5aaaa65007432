package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdwiki/internal/foundation/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingOptionalFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), true)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingRequiredFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), false)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
build:
  concurrency: 3
  exclude: [drafts]
index:
  title: Team Wiki
`)

	cfg, err := Load(path, false)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Build.Concurrency)
	assert.Equal(t, []string{"drafts"}, cfg.Build.Exclude)
	assert.Equal(t, "Team Wiki", cfg.Index.Title)
	assert.Equal(t, ".md", cfg.Build.SourceExtension)
	assert.Equal(t, ".files.sha", cfg.Build.LedgerFile)
	assert.True(t, cfg.Build.VerifyOutputs, "omitted bool keeps its default")
	assert.True(t, cfg.Render.GFM)
}

func TestLoad_ExplicitFalseOverridesDefault(t *testing.T) {
	path := writeConfig(t, "build:\n  verify_outputs: false\nrender:\n  strip_frontmatter: false\n")

	cfg, err := Load(path, false)
	require.NoError(t, err)
	assert.False(t, cfg.Build.VerifyOutputs)
	assert.False(t, cfg.Render.StripFrontmatter)
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("MDWIKI_TEST_NATS", "nats://example:4222")
	path := writeConfig(t, "notify:\n  nats_url: ${MDWIKI_TEST_NATS}\n")

	cfg, err := Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, "nats://example:4222", cfg.Notify.NATSURL)
	assert.Equal(t, "mdwiki.builds", cfg.Notify.Subject)
}

func TestLoad_NormalizesExtensions(t *testing.T) {
	path := writeConfig(t, "build:\n  source_extension: MARKDOWN\n  target_extension: htm\n")

	cfg, err := Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, ".markdown", cfg.Build.SourceExtension)
	assert.Equal(t, ".htm", cfg.Build.TargetExtension)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "build: [unterminated\n")

	_, err := Load(path, false)
	require.Error(t, err)
	assert.Equal(t, errors.CategoryConfig, errors.GetCategory(err))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"same extensions", func(c *Config) { c.Build.TargetExtension = ".MD" }},
		{"ledger with separator", func(c *Config) { c.Build.LedgerFile = "state/.files.sha" }},
		{"index with separator", func(c *Config) { c.Index.Filename = "sub/index.html" }},
		{"negative concurrency", func(c *Config) { c.Build.Concurrency = -1 }},
		{"extension without dot", func(c *Config) { c.Build.SourceExtension = "md" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
		})
	}

	require.NoError(t, Default().Validate())
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFile)

	require.NoError(t, Init(path, false))
	require.Error(t, Init(path, false), "existing file is not overwritten without force")
	require.NoError(t, Init(path, true))

	cfg, err := Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, "My Wiki", cfg.Index.Title)
	assert.Equal(t, ".mdwiki-history.db", cfg.History.Path)
}
