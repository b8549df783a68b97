// Package config loads deckdiff settings from a YAML file, DECKDIFF_*
// environment variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/himanishpuri/DeckDiff/pkg/deckdiff"
	"github.com/himanishpuri/DeckDiff/pkg/deckdiff/fingerprint"
)

// Settings holds the application-level configuration.
type Settings struct {
	SuppressUnchanged bool          `mapstructure:"suppress_unchanged"`
	ShowMovedPages    bool          `mapstructure:"show_moved_pages"`
	DPI               int           `mapstructure:"dpi"`
	Algorithm         string        `mapstructure:"algorithm"`
	WorkDir           string        `mapstructure:"work_dir"`
	KeepWork          bool          `mapstructure:"keep_work"`
	CacheEnabled      bool          `mapstructure:"cache_enabled"`
	CacheDB           string        `mapstructure:"cache_db"`
	Timeout           time.Duration `mapstructure:"timeout"`
	Soffice           []string      `mapstructure:"soffice"`
	Pdftoppm          string        `mapstructure:"pdftoppm"`
	LogLevel          string        `mapstructure:"log_level"`

	// File is the config file that was read, empty when defaults were used.
	File string `mapstructure:"-"`
}

// Load reads settings. An explicit path must exist; otherwise deckdiff.yaml is
// looked up in the working directory and $HOME/.config/deckdiff, and a
// missing file just means defaults.
func Load(path string) (*Settings, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("deckdiff")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "deckdiff"))
		}
	}

	v.SetEnvPrefix("DECKDIFF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("suppress_unchanged", false)
	v.SetDefault("show_moved_pages", true)
	v.SetDefault("dpi", 150)
	v.SetDefault("algorithm", string(fingerprint.DefaultAlgorithm))
	v.SetDefault("work_dir", filepath.Join(os.TempDir(), "deckdiff"))
	v.SetDefault("keep_work", false)
	v.SetDefault("cache_enabled", false)
	v.SetDefault("cache_db", "")
	v.SetDefault("timeout", 60*time.Second)
	v.SetDefault("soffice", []string{"libreoffice", "soffice"})
	v.SetDefault("pdftoppm", "pdftoppm")
	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	s.File = v.ConfigFileUsed()

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks value ranges that viper cannot express.
func (s *Settings) Validate() error {
	if s.DPI < 36 || s.DPI > 1200 {
		return fmt.Errorf("config: dpi must be between 36 and 1200, got %d", s.DPI)
	}
	if _, err := fingerprint.ParseAlgorithm(s.Algorithm); err != nil {
		return fmt.Errorf("config: algorithm: %w", err)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("config: timeout must be positive, got %s", s.Timeout)
	}
	if strings.TrimSpace(s.WorkDir) == "" {
		return errors.New("config: work_dir must not be empty")
	}
	return nil
}

// Options converts the settings into service options.
func (s *Settings) Options() []deckdiff.Option {
	algo, _ := fingerprint.ParseAlgorithm(s.Algorithm)
	opts := []deckdiff.Option{
		deckdiff.WithSuppressUnchanged(s.SuppressUnchanged),
		deckdiff.WithShowMovedPages(s.ShowMovedPages),
		deckdiff.WithDPI(s.DPI),
		deckdiff.WithAlgorithm(algo),
		deckdiff.WithWorkDir(s.WorkDir),
		deckdiff.WithKeepWork(s.KeepWork),
		deckdiff.WithCacheEnabled(s.CacheEnabled),
		deckdiff.WithTimeout(s.Timeout),
		deckdiff.WithPdftoppmBinary(s.Pdftoppm),
	}
	if s.CacheDB != "" {
		opts = append(opts, deckdiff.WithCacheDB(s.CacheDB))
	}
	if len(s.Soffice) > 0 {
		opts = append(opts, deckdiff.WithSofficeBinaries(s.Soffice...))
	}
	return opts
}
