package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/rajaryan190/world-map/internal/domain/entities"
	"github.com/rajaryan190/world-map/internal/quiz"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Storage drivers for finished game results.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env           string   `mapstructure:"env"`            // current application environment (local, dev, production etc)
	LandmarksPath string   `mapstructure:"landmarks_path"` // path to JSON file with the landmark dataset
	Map           Map      `mapstructure:"map"`            // world map section
	Game          Game     `mapstructure:"game"`           // quiz rules
	Telegram      Telegram `mapstructure:"telegram"`       // bot section
	HTTP          HTTP     `mapstructure:"http"`           // API server section
	Storage       Storage  `mapstructure:"storage"`        // result persistence section
	DB            DB       `mapstructure:"database"`       // database configuration section
	Redis         Redis    `mapstructure:"redis"`          // leaderboard cache section
	Sessions      Sessions `mapstructure:"sessions"`       // live session housekeeping
}

type Map struct {
	GeoJSONPath string `mapstructure:"geojson_path"` // country polygons, properties.name is the country key
}

// Game contains the rules handed to every quiz engine.
type Game struct {
	Levels             entities.Levels `mapstructure:"levels"`
	HintsPerLevel      int             `mapstructure:"hints_per_level"`
	CorrectDelay       time.Duration   `mapstructure:"correct_delay"`
	IncorrectDelay     time.Duration   `mapstructure:"incorrect_delay"`
	LevelCompleteDelay time.Duration   `mapstructure:"level_complete_delay"`
	Seed               int64           `mapstructure:"seed"` // fixed shuffle seed, 0 seeds from the clock
}

// QuizConfig converts the section into engine rules.
func (g Game) QuizConfig() quiz.Config {
	return quiz.Config{
		Levels:             g.Levels,
		HintsPerLevel:      g.HintsPerLevel,
		CorrectDelay:       g.CorrectDelay,
		IncorrectDelay:     g.IncorrectDelay,
		LevelCompleteDelay: g.LevelCompleteDelay,
	}
}

type Telegram struct {
	Token string `mapstructure:"-"` // Telegram API token loaded from environment
	Debug bool   `mapstructure:"debug"`
}

type HTTP struct {
	Addr           string        `mapstructure:"addr"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"` // websocket origin patterns
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type Storage struct {
	Driver     string `mapstructure:"driver"`      // memory, postgres or sqlite
	SQLitePath string `mapstructure:"sqlite_path"` // database file for the sqlite driver
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

type Redis struct {
	Addr     string `mapstructure:"addr"` // empty disables the cache
	Password string `mapstructure:"-"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"leaderboard_key"`
}

// Enabled reports whether a Redis address is configured.
func (r Redis) Enabled() bool {
	return r.Addr != ""
}

type Sessions struct {
	IdleTTL   time.Duration `mapstructure:"idle_ttl"`   // sessions untouched for longer are evicted
	SweepSpec string        `mapstructure:"sweep_spec"` // cron spec of the eviction job
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("redis_password", "REDIS_PASSWORD")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.Telegram.Token = v.GetString("telegram_api_token")
	cfg.DB.URL = v.GetString("database_url")
	cfg.Redis.Password = v.GetString("redis_password")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := quiz.DefaultConfig()

	levels := make([]map[string]any, 0, len(defaults.Levels))
	for _, l := range defaults.Levels {
		levels = append(levels, map[string]any{"count": l.Count, "name": l.Name})
	}

	v.SetDefault("env", "local")
	v.SetDefault("landmarks_path", "assets/data/landmarks.json")
	v.SetDefault("map.geojson_path", "assets/data/countries.geojson")

	v.SetDefault("game.levels", levels)
	v.SetDefault("game.hints_per_level", defaults.HintsPerLevel)
	v.SetDefault("game.correct_delay", defaults.CorrectDelay.String())
	v.SetDefault("game.incorrect_delay", defaults.IncorrectDelay.String())
	v.SetDefault("game.level_complete_delay", defaults.LevelCompleteDelay.String())
	v.SetDefault("game.seed", 0)

	v.SetDefault("telegram.debug", false)

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.allowed_origins", []string{"localhost:*", "127.0.0.1:*"})
	v.SetDefault("http.request_timeout", "15s")

	v.SetDefault("storage.driver", DriverMemory)
	v.SetDefault("storage.sqlite_path", "data/results.db")

	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.leaderboard_key", "worldmap:leaderboard:best")

	v.SetDefault("sessions.idle_ttl", "30m")
	v.SetDefault("sessions.sweep_spec", "@every 5m")
}

// Validate checks cross-field rules that defaults cannot express.
func (c *Config) Validate() error {
	if err := c.Game.QuizConfig().Validate(); err != nil {
		return fmt.Errorf("game: %w", err)
	}

	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("storage: sqlite driver needs sqlite_path")
		}
	case DriverPostgres:
		if _, err := c.DB.DSN(); err != nil {
			return fmt.Errorf("storage: postgres driver needs DATABASE_URL: %w", err)
		}
	default:
		return fmt.Errorf("storage: unknown driver %q", c.Storage.Driver)
	}

	if c.Sessions.IdleTTL < 0 {
		return fmt.Errorf("sessions: idle_ttl must not be negative")
	}

	return nil
}

// RequireTelegram reports ErrMissingEnvironmentVariables when the bot token is absent.
func (c *Config) RequireTelegram() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("TELEGRAM_API_TOKEN: %w", ErrMissingEnvironmentVariables)
	}
	return nil
}
