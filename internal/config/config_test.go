package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"gotest.tools/v3/assert"

	"github.com/rajaryan190/world-map/internal/domain/entities"
)

func newViper(t *testing.T, yaml string) *viper.Viper {
	t.Helper()
	dir := t.TempDir()
	if yaml != "" {
		assert.NilError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(newViper(t, ""))
	assert.NilError(t, err)

	assert.Equal(t, cfg.Env, "local")
	assert.Equal(t, cfg.LandmarksPath, "assets/data/landmarks.json")
	assert.Equal(t, cfg.Storage.Driver, DriverMemory)
	assert.Equal(t, cfg.Game.HintsPerLevel, 3)
	assert.Equal(t, cfg.Game.CorrectDelay, 1500*time.Millisecond)
	assert.Equal(t, cfg.Game.IncorrectDelay, 2*time.Second)
	assert.Equal(t, cfg.Game.LevelCompleteDelay, 2*time.Second)
	assert.DeepEqual(t, cfg.Game.Levels, entities.DefaultLevels())
	assert.Equal(t, cfg.Sessions.IdleTTL, 30*time.Minute)
	assert.Equal(t, cfg.Sessions.SweepSpec, "@every 5m")
	assert.Equal(t, cfg.HTTP.Addr, ":8080")
	assert.Assert(t, !cfg.Redis.Enabled())

	assert.ErrorIs(t, cfg.RequireTelegram(), ErrMissingEnvironmentVariables)
}

func TestLoad_FileAndEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("TELEGRAM_API_TOKEN", "secret")
	t.Setenv("GAME_HINTS_PER_LEVEL", "5")

	cfg, err := load(newViper(t, `
game:
  levels:
    - count: 2
      name: Warmup
    - count: 4
      name: Final
  correct_delay: 1s
redis:
  addr: localhost:6379
`))
	assert.NilError(t, err)

	assert.Equal(t, cfg.Env, "production")
	assert.Equal(t, cfg.Telegram.Token, "secret")
	assert.NilError(t, cfg.RequireTelegram())
	assert.Equal(t, cfg.Game.HintsPerLevel, 5)
	assert.Equal(t, cfg.Game.CorrectDelay, time.Second)
	assert.DeepEqual(t, cfg.Game.Levels, entities.Levels{{Count: 2, Name: "Warmup"}, {Count: 4, Name: "Final"}})
	assert.Assert(t, cfg.Redis.Enabled())
}

func TestLoad_PostgresNeedsURL(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := load(newViper(t, ""))
	assert.ErrorIs(t, err, ErrMissingEnvironmentVariables)

	t.Setenv("DATABASE_URL", "postgres://localhost/worldmap")
	cfg, err := load(newViper(t, ""))
	assert.NilError(t, err)
	dsn, err := cfg.DB.DSN()
	assert.NilError(t, err)
	assert.Equal(t, dsn, "postgres://localhost/worldmap")
}

func TestLoad_InvalidValues(t *testing.T) {
	_, err := load(newViper(t, "storage:\n  driver: mongo\n"))
	assert.ErrorContains(t, err, `unknown driver "mongo"`)

	_, err = load(newViper(t, "game:\n  levels: []\n"))
	assert.ErrorIs(t, err, entities.ErrInvalidLevels)

	_, err = load(newViper(t, "game: [not, a, map\n"))
	assert.ErrorContains(t, err, "error loading config file")
}
