// Package cli implements the layerstack command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/layerstack/pkg/buildinfo"
	"github.com/matzehuels/layerstack/pkg/cache"
	"github.com/matzehuels/layerstack/pkg/drawing"
	"github.com/matzehuels/layerstack/pkg/errors"
	"github.com/matzehuels/layerstack/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "layerstack"

	// noCache disables caching when given as the cache location.
	noCache = "none"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	config *config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: newConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	ch, err := c.openCache(ctx)
	if err != nil {
		return nil, err
	}
	// Artifacts rendered by another release are not reused.
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), appName+"/"+buildinfo.Resolved()+":")
	return pipeline.NewRunner(ch, keyer, c.Logger), nil
}

// openCache opens the configured cache location. An empty location means
// the local file cache.
func (c *CLI) openCache(ctx context.Context) (cache.Cache, error) {
	location := c.config.Cache()
	if location == "" {
		dir, err := cacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		location = dir
	}
	ch, err := cache.Open(ctx, location)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open cache %s", location)
	}
	return ch, nil
}

// openSources opens every configured DXF drawing source.
func (c *CLI) openSources(paths []string) ([]drawing.Source, error) {
	if len(paths) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no drawing sources (use --source or set source in %s.toml)", appName)
	}
	sources := make([]drawing.Source, 0, len(paths))
	for _, p := range paths {
		d, err := drawing.OpenDXF(p)
		if err != nil {
			return nil, err
		}
		for kind, n := range d.Skipped() {
			c.Logger.Debug("skipped unsupported entities", "source", d.Name(), "kind", kind, "count", n)
		}
		for _, layer := range d.Hidden() {
			c.Logger.Warn("layer has no supported entities and will not resolve", "source", d.Name(), "layer", layer)
		}
		sources = append(sources, d)
	}
	return sources, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/layerstack/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the user configuration directory (~/.config/layerstack/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats splits comma-separated formats, dropping blanks.
func parseFormats(values []string) []string {
	var out []string
	for _, v := range values {
		for _, f := range strings.Split(v, ",") {
			if f = strings.TrimSpace(f); f != "" {
				out = append(out, f)
			}
		}
	}
	if len(out) == 0 {
		return append([]string(nil), pipeline.DefaultFormats...)
	}
	return out
}
