package deckdiff

import (
	"os"
	"path/filepath"
	"time"

	"github.com/himanishpuri/DeckDiff/pkg/deckdiff/fingerprint"
)

type Config struct {
	WorkDir           string
	CacheEnabled      bool
	CacheDB           string
	KeepWork          bool
	DPI               int
	Algorithm         fingerprint.Algorithm
	Timeout           time.Duration
	SofficeBinaries   []string
	PdftoppmBinary    string
	SuppressUnchanged bool
	ShowMovedPages    bool
	Logger            Logger
	Storage           Storage
	Renderer          Renderer
}

type Option func(*Config)

// WithWorkDir sets where per-run scratch directories and cached renders live.
func WithWorkDir(dir string) Option {
	return func(c *Config) {
		c.WorkDir = dir
	}
}

func WithCacheEnabled(enabled bool) Option {
	return func(c *Config) {
		c.CacheEnabled = enabled
	}
}

// WithCacheDB sets the SQLite file of the render cache. Defaults to <work dir>/cache/deckdiff.sqlite3.
func WithCacheDB(path string) Option {
	return func(c *Config) {
		c.CacheDB = path
	}
}

// WithKeepWork leaves each run's rendered pages on disk after the comparison.
func WithKeepWork(keep bool) Option {
	return func(c *Config) {
		c.KeepWork = keep
	}
}

func WithDPI(dpi int) Option {
	return func(c *Config) {
		c.DPI = dpi
	}
}

func WithAlgorithm(algo fingerprint.Algorithm) Option {
	return func(c *Config) {
		c.Algorithm = algo
	}
}

// WithTimeout bounds each external converter invocation.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

func WithSofficeBinaries(bins ...string) Option {
	return func(c *Config) {
		c.SofficeBinaries = bins
	}
}

func WithPdftoppmBinary(bin string) Option {
	return func(c *Config) {
		c.PdftoppmBinary = bin
	}
}

func WithSuppressUnchanged(suppress bool) Option {
	return func(c *Config) {
		c.SuppressUnchanged = suppress
	}
}

func WithShowMovedPages(show bool) Option {
	return func(c *Config) {
		c.ShowMovedPages = show
	}
}

func WithLogger(log Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

func WithStorage(storage Storage) Option {
	return func(c *Config) {
		c.Storage = storage
	}
}

func WithRenderer(r Renderer) Option {
	return func(c *Config) {
		c.Renderer = r
	}
}

func defaultConfig() *Config {
	return &Config{
		WorkDir:        filepath.Join(os.TempDir(), "deckdiff"),
		DPI:            150,
		Algorithm:      fingerprint.DefaultAlgorithm,
		Timeout:        60 * time.Second,
		ShowMovedPages: true,
	}
}

func (c *Config) cacheDir() string {
	return filepath.Join(c.WorkDir, "cache")
}

func (c *Config) cacheDBPath() string {
	if c.CacheDB != "" {
		return c.CacheDB
	}
	return filepath.Join(c.cacheDir(), "deckdiff.sqlite3")
}
