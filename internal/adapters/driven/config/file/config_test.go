package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "config.toml"), cfg.Path())
	assert.Equal(t, "GITHUB_TOKEN", cfg.GitHub.TokenEnv)
	assert.Empty(t, cfg.DataDir)
	assert.Zero(t, cfg.Search.NameWeight)
}

func TestLoad_ParsesFile(t *testing.T) {
	dir := t.TempDir()
	content := `data_dir = "/var/lib/hookdex"

[github]
token_env = "HOOKDEX_GH_TOKEN"

[search]
name_weight = 20.0
context_weight = 0.5
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/hookdex", cfg.DataDir)
	assert.Equal(t, "HOOKDEX_GH_TOKEN", cfg.GitHub.TokenEnv)
	assert.Equal(t, 20.0, cfg.Search.NameWeight)
	assert.Equal(t, 0.5, cfg.Search.ContextWeight)
	assert.Zero(t, cfg.Search.KindWeight)
}

func TestLoad_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not toml ]["), 0600))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	cfg.DataDir = "/tmp/hookdex-data"
	cfg.Search.NameWeight = 15
	require.NoError(t, cfg.Save())

	info, err := os.Stat(cfg.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	reloaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/hookdex-data", reloaded.DataDir)
	assert.Equal(t, 15.0, reloaded.Search.NameWeight)
	assert.Equal(t, "GITHUB_TOKEN", reloaded.GitHub.TokenEnv)
}

func TestLoad_CreatesConfigDir(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "deep", "path")

	cfg, err := Load(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(nested, "config.toml"), cfg.Path())

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
