// Package config loads optional json5 settings files with a git-ignored
// .local override next to them.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// LocalPath returns the override file for name, e.g. xrates.local.json5 for
// xrates.json5.
func LocalPath(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + ".local" + ext
}

// Layers lists the files Load reads for name, lowest priority first.
func Layers(name string) []string {
	return []string{name, LocalPath(name)}
}

// Load decodes every existing layer of name into a T, later layers winning,
// then fills fields left at their zero value from defaults. Missing or empty
// files are skipped; when no layer exists defaults is returned unchanged.
func Load[T any](name string, defaults T) (T, error) {
	var cfg T
	found := false

	for _, path := range Layers(name) {
		layer, ok, err := readLayer[T](path)
		if err != nil {
			return defaults, err
		}
		if !ok {
			continue
		}
		if err := mergo.Merge(&cfg, layer, mergo.WithOverride); err != nil {
			return defaults, fmt.Errorf("failed to merge %s: %w", path, err)
		}
		slog.Debug("loaded config layer", "path", path)
		found = true
	}

	if !found {
		return defaults, nil
	}
	if err := mergo.Merge(&cfg, defaults); err != nil {
		return defaults, fmt.Errorf("failed to apply defaults: %w", err)
	}
	return cfg, nil
}

func readLayer[T any](path string) (T, bool, error) {
	var layer T

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return layer, false, nil
	}
	if err != nil {
		return layer, false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return layer, false, nil
	}

	if err := json5.Unmarshal(data, &layer); err != nil {
		return layer, false, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return layer, true, nil
}
