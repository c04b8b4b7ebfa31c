package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration, loaded from YAML with
// DAYPLAN_* environment overrides applied on top.
type Config struct {
	// DBPath is the SQLite database holding the planner state.
	DBPath string `yaml:"db_path"`

	// ExportPath is where JSON snapshot exports are written.
	ExportPath string `yaml:"export_path"`

	// AutosaveCron is a cron-style schedule for the periodic state flush,
	// a safety net on top of the per-mutation save.
	AutosaveCron string `yaml:"autosave"`

	// QuoteURL is the quote-of-the-day endpoint. Empty disables the fetch.
	QuoteURL string `yaml:"quote_url"`

	// QuoteCachePath is the JSON file quotes are cached in.
	QuoteCachePath string `yaml:"quote_cache_path"`

	// QuoteCron schedules the cache refresh; the fetch also runs at startup
	// when today's quote is missing.
	QuoteCron string `yaml:"quote_refresh"`

	// HealthURL is pinged once, fire-and-forget, at startup. Empty disables.
	HealthURL string `yaml:"health_url"`

	// WeekStart controls the first column of the week view: "sunday"
	// (default, matching the planner's original layout) or "monday".
	WeekStart string `yaml:"week_start"`
}

// DefaultDir is the per-user state directory, ~/.dayplan.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".dayplan"
	}
	return filepath.Join(home, ".dayplan")
}

func DefaultConfig() *Config {
	dir := DefaultDir()
	return &Config{
		DBPath:         filepath.Join(dir, "dayplan.db"),
		ExportPath:     filepath.Join(dir, "export.json"),
		AutosaveCron:   "*/5 * * * *",
		QuoteURL:       "https://api.quotable.io/random?tags=motivational,inspirational,success",
		QuoteCachePath: filepath.Join(dir, "quotes.json"),
		QuoteCron:      "0 6 * * *",
		HealthURL:      "",
		WeekStart:      "sunday",
	}
}

// Normalize fills missing values so partially-filled configs still behave.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}
	if c.ExportPath == "" {
		c.ExportPath = def.ExportPath
	}
	if c.AutosaveCron == "" {
		c.AutosaveCron = def.AutosaveCron
	}
	if c.QuoteCachePath == "" {
		c.QuoteCachePath = def.QuoteCachePath
	}
	if c.QuoteCron == "" {
		c.QuoteCron = def.QuoteCron
	}
	switch c.WeekStart {
	case "sunday", "monday":
	default:
		c.WeekStart = "sunday"
	}
}

// Load reads the YAML config at path. A missing file is a first run: the
// default config is written there (0600) and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if saveErr := Save(path, cfg); saveErr != nil {
				return cfg, saveErr
			}
			return cfg, nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes cfg to path atomically with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".dayplan-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// FromEnv applies DAYPLAN_* overrides on top of cfg.
func FromEnv(cfg *Config) *Config {
	if v := getenv("DAYPLAN_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := getenv("DAYPLAN_EXPORT_PATH"); v != "" {
		cfg.ExportPath = v
	}
	if v := getenv("DAYPLAN_AUTOSAVE"); v != "" {
		cfg.AutosaveCron = v
	}
	if v, ok := lookupenv("DAYPLAN_QUOTE_URL"); ok {
		cfg.QuoteURL = v
	}
	if v, ok := lookupenv("DAYPLAN_HEALTH_URL"); ok {
		cfg.HealthURL = v
	}
	if v := getenv("DAYPLAN_WEEK_START"); v != "" {
		cfg.WeekStart = strings.ToLower(v)
	}
	cfg.Normalize()
	return cfg
}

func getenv(name string) string {
	return strings.TrimSpace(os.Getenv(name))
}

func lookupenv(name string) (string, bool) {
	v, ok := os.LookupEnv(name)
	return strings.TrimSpace(v), ok
}
