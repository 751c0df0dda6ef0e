package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvYouTubeKey, "key")
	t.Setenv(EnvEmailUser, "me@example.com")
	t.Setenv(EnvEmailPassword, "secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.Poll.Interval)
	assert.Equal(t, []string{"wordle", "crossword"}, cfg.Poll.Denylist)
	assert.Equal(t, "api", cfg.YouTube.Resolver)
	assert.Equal(t, "key", cfg.YouTube.APIKey)
	assert.Equal(t, "smtp.gmail.com", cfg.Mail.Host)
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.Equal(t, "me@example.com", cfg.Mail.From)
	assert.Equal(t, "me@example.com", cfg.Mail.To)
	assert.Equal(t, "Cracking the Cryptic", cfg.Mail.Subject)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, "videos.json", cfg.Storage.Path)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileWithExpansion(t *testing.T) {
	t.Setenv("TEST_NOTIFIER_KEY", "from-env")
	t.Setenv(EnvEmailUser, "me@example.com")
	t.Setenv(EnvEmailPassword, "secret")

	path := writeConfig(t, `
channel_id: UCC-UOdK8-mIjxBQm_ot1T-Q
log_level: debug
poll:
  interval: 90s
  denylist: [wordle]
youtube:
  api_key: ${TEST_NOTIFIER_KEY}
  resolver: feed
  link_hosts: [tinyurl.com, sudokupad.app]
mail:
  to: inbox@example.com
storage:
  driver: postgres
  database:
    host: db
    port: 5432
    user: u
    password: p
    dbname: notifier
    sslmode: disable
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "UCC-UOdK8-mIjxBQm_ot1T-Q", cfg.ChannelID)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 90*time.Second, cfg.Poll.Interval)
	assert.Equal(t, []string{"wordle"}, cfg.Poll.Denylist)
	assert.Equal(t, "from-env", cfg.YouTube.APIKey)
	assert.Equal(t, "feed", cfg.YouTube.Resolver)
	assert.Equal(t, []string{"tinyurl.com", "sudokupad.app"}, cfg.YouTube.LinkHosts)
	assert.Equal(t, "me@example.com", cfg.Mail.From)
	assert.Equal(t, "inbox@example.com", cfg.Mail.To)
	assert.Equal(t,
		"host=db port=5432 user=u password=p dbname=notifier sslmode=disable",
		cfg.Storage.ConnString(),
	)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_SQLiteDefaultDSN(t *testing.T) {
	path := writeConfig(t, "storage:\n  driver: sqlite\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "video_notifier.db", cfg.Storage.ConnString())
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "poll: [unterminated")

	_, err := Load(path)

	assert.ErrorContains(t, err, "parse config")
}

func TestValidate_MissingSecrets(t *testing.T) {
	t.Setenv(EnvYouTubeKey, "")
	t.Setenv(EnvEmailUser, "")
	t.Setenv(EnvEmailPassword, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvYouTubeKey)
	assert.Contains(t, err.Error(), EnvEmailUser)
	assert.Contains(t, err.Error(), EnvEmailPassword)
}

func TestValidate_UnknownDrivers(t *testing.T) {
	cfg := &Config{}
	cfg.YouTube.APIKey = "k"
	cfg.Mail.Username = "u"
	cfg.Mail.Password = "p"
	cfg.setDefaults()
	cfg.YouTube.Resolver = "scrape"
	cfg.Storage.Driver = "redis"

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown youtube.resolver "scrape"`)
	assert.Contains(t, err.Error(), `unknown storage.driver "redis"`)
}
