// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"

	"github.com/javiermolinar/venuegrid/internal/grid"
	"github.com/javiermolinar/venuegrid/internal/hours"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendAPI    = "api"
)

// Config holds the application configuration.
type Config struct {
	Hours   HoursConfig   `toml:"hours"`
	Grid    GridConfig    `toml:"grid"`
	Storage StorageConfig `toml:"storage"`
	API     APIConfig     `toml:"api"`
	Redis   RedisConfig   `toml:"redis"`
	Log     LogConfig     `toml:"log"`
	Metrics MetricsConfig `toml:"metrics"`
	UI      UIConfig      `toml:"ui"`
}

// HoursConfig holds the weekly business hours and per-date overrides.
type HoursConfig struct {
	Monday    hours.BusinessHours `toml:"monday"`
	Tuesday   hours.BusinessHours `toml:"tuesday"`
	Wednesday hours.BusinessHours `toml:"wednesday"`
	Thursday  hours.BusinessHours `toml:"thursday"`
	Friday    hours.BusinessHours `toml:"friday"`
	Saturday  hours.BusinessHours `toml:"saturday"`
	Sunday    hours.BusinessHours `toml:"sunday"`

	Overrides []OverrideConfig `toml:"overrides"`
}

// OverrideConfig replaces the weekly hours on one date.
type OverrideConfig struct {
	Date   string `toml:"date"` // YYYY-MM-DD
	Open   string `toml:"open"`
	Close  string `toml:"close"`
	Closed bool   `toml:"closed"`
}

// GridConfig holds display preferences.
type GridConfig struct {
	Interval      int           `toml:"interval"`    // minutes per slot
	Orientation   string        `toml:"orientation"` // "horizontal" or "vertical"
	SlotSize      string        `toml:"slot_size"`   // tiny, small, medium, large, huge, custom
	CustomRows    grid.CellSize `toml:"custom_horizontal"`
	CustomCols    grid.CellSize `toml:"custom_vertical"`
	DragThreshold float64       `toml:"drag_threshold"` // pixels before a press becomes a drag
	Sidebar       bool          `toml:"sidebar"`
}

// StorageConfig selects where bookings live.
type StorageConfig struct {
	Backend string `toml:"backend"` // "sqlite" or "api"
	DBPath  string `toml:"db_path"`
}

// APIConfig holds the HTTP client and server settings.
type APIConfig struct {
	BaseURL        string `toml:"base_url"`
	Listen         string `toml:"listen"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Retries        int    `toml:"retries"`
}

// RedisConfig enables the API read cache. An empty address disables it.
type RedisConfig struct {
	Address    string `toml:"address"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // console or json
	File   string `toml:"file"`   // empty logs to stderr
}

// MetricsConfig enables the Prometheus endpoint on the API server.
type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "macchiato", "frappe", "latte", "light"
}

// Default returns the default configuration.
func Default() *Config {
	day := hours.BusinessHours{OpenTime: "09:00", CloseTime: "22:00"}
	late := hours.BusinessHours{OpenTime: "10:00", CloseTime: "02:00"}
	return &Config{
		Hours: HoursConfig{
			Monday:    day,
			Tuesday:   day,
			Wednesday: day,
			Thursday:  day,
			Friday:    late,
			Saturday:  late,
			Sunday:    hours.BusinessHours{OpenTime: "10:00", CloseTime: "20:00"},
		},
		Grid: GridConfig{
			Interval:      grid.DefaultInterval,
			Orientation:   string(grid.TimeAsColumns),
			SlotSize:      string(grid.SizeMedium),
			DragThreshold: 5,
		},
		Storage: StorageConfig{
			Backend: BackendSQLite,
			DBPath:  defaultDBPath(),
		},
		API: APIConfig{
			BaseURL:        "http://localhost:8080",
			Listen:         ":8080",
			TimeoutSeconds: 10,
			Retries:        3,
		},
		Redis: RedisConfig{
			TTLSeconds: 30,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		UI: UIConfig{
			Theme: "mocha",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "venuegrid.db"
	}
	return filepath.Join(home, ".local", "share", "venuegrid", "venuegrid.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "venuegrid", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, loads .env files
// from the working directory and the config directory, then applies env
// overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := loadDotEnv(".env", filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// loadDotEnv loads each existing file. Variables already set in the
// environment win.
func loadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// applyEnvOverrides applies VENUEGRID_* environment variables to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	strs := map[string]*string{
		"VENUEGRID_ORIENTATION":    &cfg.Grid.Orientation,
		"VENUEGRID_SLOT_SIZE":      &cfg.Grid.SlotSize,
		"VENUEGRID_BACKEND":        &cfg.Storage.Backend,
		"VENUEGRID_DB_PATH":        &cfg.Storage.DBPath,
		"VENUEGRID_API_URL":        &cfg.API.BaseURL,
		"VENUEGRID_LISTEN":         &cfg.API.Listen,
		"VENUEGRID_REDIS_ADDR":     &cfg.Redis.Address,
		"VENUEGRID_REDIS_PASSWORD": &cfg.Redis.Password,
		"VENUEGRID_LOG_LEVEL":      &cfg.Log.Level,
		"VENUEGRID_LOG_FORMAT":     &cfg.Log.Format,
		"VENUEGRID_LOG_FILE":       &cfg.Log.File,
		"VENUEGRID_UI_THEME":       &cfg.UI.Theme,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"VENUEGRID_INTERVAL": &cfg.Grid.Interval,
		"VENUEGRID_REDIS_DB": &cfg.Redis.DB,
	}
	for key, dst := range ints {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
	}

	if v := os.Getenv("VENUEGRID_METRICS"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("VENUEGRID_METRICS: %w", err)
		}
		cfg.Metrics.Enabled = enabled
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := c.BusinessHours(); err != nil {
		return err
	}

	if c.Grid.Interval <= 0 || c.Grid.Interval > 240 {
		return fmt.Errorf("grid interval must be between 1 and 240 minutes, got %d", c.Grid.Interval)
	}
	if _, ok := grid.ParseOrientation(c.Grid.Orientation); !ok {
		return fmt.Errorf("invalid grid orientation: %q", c.Grid.Orientation)
	}
	size := grid.SlotSize(c.Grid.SlotSize)
	if !size.Valid() {
		return fmt.Errorf("invalid slot_size: %q", c.Grid.SlotSize)
	}
	if size == grid.SizeCustom && (!positive(c.Grid.CustomRows) || !positive(c.Grid.CustomCols)) {
		return errors.New("custom slot_size needs custom_horizontal and custom_vertical width and height")
	}
	if c.Grid.DragThreshold < 0 {
		return errors.New("drag_threshold must not be negative")
	}

	switch c.Storage.Backend {
	case BackendSQLite:
		if c.Storage.DBPath == "" {
			return errors.New("db_path must be set")
		}
	case BackendAPI:
		if c.API.BaseURL == "" {
			return errors.New("api base_url must be set when backend is api")
		}
	default:
		return fmt.Errorf("invalid storage backend: %q", c.Storage.Backend)
	}
	if c.API.Retries < 0 {
		return errors.New("api retries must not be negative")
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		return fmt.Errorf("invalid log level: %q", c.Log.Level)
	}
	if f := strings.ToLower(c.Log.Format); f != "console" && f != "json" {
		return fmt.Errorf("invalid log format: %q", c.Log.Format)
	}
	return nil
}

func positive(c grid.CellSize) bool {
	return c.Width > 0 && c.Height > 0
}

// Week returns the weekly hours indexed by time.Weekday.
func (c *Config) Week() [7]hours.BusinessHours {
	h := c.Hours
	return [7]hours.BusinessHours{
		time.Sunday:    h.Sunday,
		time.Monday:    h.Monday,
		time.Tuesday:   h.Tuesday,
		time.Wednesday: h.Wednesday,
		time.Thursday:  h.Thursday,
		time.Friday:    h.Friday,
		time.Saturday:  h.Saturday,
	}
}

// SetWeekday replaces the hours of one weekday.
func (c *Config) SetWeekday(wd time.Weekday, bh hours.BusinessHours) {
	days := map[time.Weekday]*hours.BusinessHours{
		time.Sunday:    &c.Hours.Sunday,
		time.Monday:    &c.Hours.Monday,
		time.Tuesday:   &c.Hours.Tuesday,
		time.Wednesday: &c.Hours.Wednesday,
		time.Thursday:  &c.Hours.Thursday,
		time.Friday:    &c.Hours.Friday,
		time.Saturday:  &c.Hours.Saturday,
	}
	if p, ok := days[wd]; ok {
		*p = bh
	}
}

// Overrides converts the configured date overrides.
func (c *Config) Overrides() []hours.Override {
	out := make([]hours.Override, 0, len(c.Hours.Overrides))
	for _, o := range c.Hours.Overrides {
		out = append(out, hours.Override{
			Date:  o.Date,
			Hours: hours.BusinessHours{OpenTime: o.Open, CloseTime: o.Close, IsClosed: o.Closed},
		})
	}
	return out
}

// BusinessHours builds the hours resolver.
func (c *Config) BusinessHours() (*hours.Weekly, error) {
	w, err := hours.NewWeekly(c.Week(), c.Overrides()...)
	if err != nil {
		return nil, fmt.Errorf("hours: %w", err)
	}
	return w, nil
}

// GridSettings converts the grid section.
func (c *Config) GridSettings() grid.Settings {
	o, ok := grid.ParseOrientation(c.Grid.Orientation)
	if !ok {
		o = grid.TimeAsColumns
	}
	return grid.Settings{
		Orientation: o,
		Interval:    c.Grid.Interval,
		SlotSize:    grid.SlotSize(c.Grid.SlotSize),
		CustomRows:  c.Grid.CustomRows,
		CustomCols:  c.Grid.CustomCols,
		SidebarOpen: c.Grid.Sidebar,
	}
}

// Timeout returns the API client timeout.
func (c *Config) Timeout() time.Duration {
	if c.API.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// CacheTTL returns the Redis read cache TTL.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Redis.TTLSeconds) * time.Second
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
