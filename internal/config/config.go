package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables holding the required secrets.
const (
	EnvYouTubeKey    = "YOUTUBE_KEY"
	EnvEmailUser     = "EMAIL_USER"
	EnvEmailPassword = "EMAIL_PASSWORD"
)

type Config struct {
	ChannelID string         `yaml:"channel_id"`
	Poll      PollConfig     `yaml:"poll"`
	YouTube   YouTubeConfig  `yaml:"youtube"`
	Mail      MailConfig     `yaml:"mail"`
	Storage   StorageConfig  `yaml:"storage"`
	RabbitMQ  RabbitMQConfig `yaml:"rabbitmq"`
	LogLevel  string         `yaml:"log_level"`
}

type PollConfig struct {
	Interval     time.Duration `yaml:"interval"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	Denylist     []string      `yaml:"denylist"`
}

type YouTubeConfig struct {
	APIKey            string        `yaml:"api_key"`
	Endpoint          string        `yaml:"endpoint"`
	Resolver          string        `yaml:"resolver"`
	FeedURL           string        `yaml:"feed_url"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Timeout           time.Duration `yaml:"timeout"`
	LinkHosts         []string      `yaml:"link_hosts"`
}

type MailConfig struct {
	Host     string        `yaml:"host"`
	Port     int           `yaml:"port"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	From     string        `yaml:"from"`
	To       string        `yaml:"to"`
	Subject  string        `yaml:"subject"`
	Timeout  time.Duration `yaml:"timeout"`
}

type StorageConfig struct {
	Driver   string         `yaml:"driver"`
	Path     string         `yaml:"path"`
	DSN      string         `yaml:"dsn"`
	Database DatabaseConfig `yaml:"database"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// ConnString returns the explicit DSN, or one built from the database block.
func (s StorageConfig) ConnString() string {
	if s.DSN != "" {
		return s.DSN
	}
	return s.Database.DSN()
}

// RabbitMQConfig configures the optional event publisher. An empty URL
// disables it.
type RabbitMQConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
	QueueName  string `yaml:"queue_name"`
}

// Load reads .env into the environment, then the YAML file at path with
// ${VAR} references expanded. A missing file leaves the defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.loadSecrets()
	cfg.setDefaults()

	return &cfg, nil
}

func (c *Config) loadSecrets() {
	if c.YouTube.APIKey == "" {
		c.YouTube.APIKey = os.Getenv(EnvYouTubeKey)
	}
	if c.Mail.Username == "" {
		c.Mail.Username = os.Getenv(EnvEmailUser)
	}
	if c.Mail.Password == "" {
		c.Mail.Password = os.Getenv(EnvEmailPassword)
	}
}

func (c *Config) setDefaults() {
	if c.Poll.Interval == 0 {
		c.Poll.Interval = time.Hour
	}
	if c.Poll.FetchTimeout == 0 {
		c.Poll.FetchTimeout = 30 * time.Second
	}
	if c.Poll.Denylist == nil {
		c.Poll.Denylist = []string{"wordle", "crossword"}
	}
	if c.YouTube.Resolver == "" {
		c.YouTube.Resolver = "api"
	}
	if c.YouTube.FeedURL == "" {
		c.YouTube.FeedURL = "https://www.youtube.com/feeds/videos.xml"
	}
	if c.YouTube.RequestsPerSecond == 0 {
		c.YouTube.RequestsPerSecond = 1
	}
	if c.YouTube.Timeout == 0 {
		c.YouTube.Timeout = 5 * time.Second
	}
	if c.Mail.Host == "" {
		c.Mail.Host = "smtp.gmail.com"
	}
	if c.Mail.Port == 0 {
		c.Mail.Port = 587
	}
	if c.Mail.From == "" {
		c.Mail.From = c.Mail.Username
	}
	if c.Mail.To == "" {
		c.Mail.To = c.Mail.Username
	}
	if c.Mail.Subject == "" {
		c.Mail.Subject = "Cracking the Cryptic"
	}
	if c.Mail.Timeout == 0 {
		c.Mail.Timeout = 30 * time.Second
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "file"
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "videos.json"
	}
	if c.Storage.Driver == "sqlite" && c.Storage.DSN == "" {
		c.Storage.DSN = "video_notifier.db"
	}
	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = "video_notifier"
	}
	if c.RabbitMQ.RoutingKey == "" {
		c.RabbitMQ.RoutingKey = "videos"
	}
	if c.RabbitMQ.QueueName == "" {
		c.RabbitMQ.QueueName = "video_notifications"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate checks the secrets and the values the loop depends on.
func (c *Config) Validate() error {
	var errs []error
	if c.YouTube.APIKey == "" {
		errs = append(errs, fmt.Errorf("youtube api key is required (%s)", EnvYouTubeKey))
	}
	if c.Mail.Username == "" {
		errs = append(errs, fmt.Errorf("mail username is required (%s)", EnvEmailUser))
	}
	if c.Mail.Password == "" {
		errs = append(errs, fmt.Errorf("mail password is required (%s)", EnvEmailPassword))
	}
	if c.Poll.Interval <= 0 {
		errs = append(errs, errors.New("poll.interval must be positive"))
	}
	switch c.YouTube.Resolver {
	case "api", "feed":
	default:
		errs = append(errs, fmt.Errorf("unknown youtube.resolver %q", c.YouTube.Resolver))
	}
	switch c.Storage.Driver {
	case "file", "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unknown storage.driver %q", c.Storage.Driver))
	}
	return errors.Join(errs...)
}
