package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type sample struct {
	BaseURL string            `json:"base_url"`
	Timeout int               `json:"timeout_ms"`
	Headers map[string]string `json:"headers"`
}

func defaults() sample {
	return sample{
		BaseURL: "https://www.x-rates.com/average/",
		Timeout: 10000,
		Headers: map[string]string{"Accept": "text/html"},
	}
}

func write(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
}

func TestLocalPath(t *testing.T) {
	require.Equal(t, filepath.Join("conf", "xrates.local.json5"), LocalPath(filepath.Join("conf", "xrates.json5")))
	require.Equal(t, "xrates.local", LocalPath("xrates"))
	require.Equal(t, []string{"xrates.json5", "xrates.local.json5"}, Layers("xrates.json5"))
}

func TestLoadMergesLocal(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "xrates.json5")
	write(t, name, `{
		// comments are allowed
		base_url: "https://example.com/average/",
		timeout_ms: 10000,
	}`)
	write(t, filepath.Join(dir, "xrates.local.json5"), `{timeout_ms: 2500}`)

	cfg, err := Load(name, defaults())
	require.NoError(t, err)
	require.Equal(t, "https://example.com/average/", cfg.BaseURL)
	require.Equal(t, 2500, cfg.Timeout)
	require.Equal(t, defaults().Headers, cfg.Headers)
}

func TestLoadLocalOnly(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "xrates.local.json5"), `{base_url: "http://localhost/"}`)

	cfg, err := Load(filepath.Join(dir, "xrates.json5"), defaults())
	require.NoError(t, err)
	require.Equal(t, "http://localhost/", cfg.BaseURL)
	require.Equal(t, 10000, cfg.Timeout)
}

func TestLoadMissingOrEmpty(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json5"), defaults())
	require.NoError(t, err)
	require.Equal(t, defaults(), cfg)

	name := filepath.Join(t.TempDir(), "empty.json5")
	write(t, name, "  \n")
	cfg, err = Load(name, defaults())
	require.NoError(t, err)
	require.Equal(t, defaults(), cfg)
}

func TestLoadInvalid(t *testing.T) {
	name := filepath.Join(t.TempDir(), "bad.json5")
	write(t, name, `{base_url: `)

	cfg, err := Load(name, defaults())
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad.json5")
	require.Equal(t, defaults(), cfg)
}

func TestLoadFillsDefaults(t *testing.T) {
	name := filepath.Join(t.TempDir(), "xrates.json5")
	write(t, name, `{timeout_ms: 500}`)

	cfg, err := Load(name, defaults())
	require.NoError(t, err)
	require.Equal(t, 500, cfg.Timeout)
	require.Equal(t, defaults().BaseURL, cfg.BaseURL)
	require.Equal(t, defaults().Headers, cfg.Headers)
}
