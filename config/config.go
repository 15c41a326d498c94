package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Configs struct {
	Env      string `env:"ENV"`
	LogLevel string `env:"LOG_LEVEL"`

	Database         DatabaseConfigs  `envPrefix:"DB_"`
	ApiServer        APIServerConfigs `envPrefix:"API_"`
	PrometheusServer ServerConfigs    `envPrefix:"PROMETHEUS_"`
	Auth             AuthConfigs      `envPrefix:"AUTH_"`
	Storage          S3Configs        `envPrefix:"STORAGE_"`
	File             FileConfigs      `envPrefix:"FILE_"`
	Redis            RedisConfigs     `envPrefix:"REDIS_"`
	Events           EventConfigs     `envPrefix:"EVENTS_"`
	Kafka            KafkaConfigs     `envPrefix:"KAFKA_"`
	Nats             NatsConfigs      `envPrefix:"NATS_"`
	Reconcile        ReconcileConfigs `envPrefix:"RECONCILE_"`
	Feed             FeedConfigs      `envPrefix:"FEED_"`
}

type DatabaseConfigs struct {
	// Driver is one of mysql, postgres or sqlite.
	Driver   string `env:"DRIVER"`
	Host     string `env:"HOST"`
	Port     string `env:"PORT"`
	Database string `env:"DATABASE"`
	User     string `env:"USER"`
	Password string `env:"PASSWORD"`
	LogLevel string `env:"LOG_LEVEL"`
}

func (d *DatabaseConfigs) ConnectionString() string {
	switch d.Driver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			d.Host,
			d.Port,
			d.User,
			d.Password,
			d.Database,
		)
	case "sqlite":
		return d.Database
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			d.User,
			d.Password,
			d.Host,
			d.Port,
			d.Database,
		)
	}
}

type ServerConfigs struct {
	Host string `env:"HOST"`
	Port string `env:"PORT"`
}

func (s ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type APIServerConfigs struct {
	ServerConfigs

	DefaultPageSize int           `env:"DEFAULT_PAGE_SIZE"`
	MaxPageSize     int           `env:"MAX_PAGE_SIZE"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT"`
	AllowedOrigins  []string      `env:"ALLOWED_ORIGINS"`
}

type AuthConfigs struct {
	TokenSecret string       `env:"TOKEN_SECRET"`
	AccessToken TokenConfigs `envPrefix:"ACCESS_TOKEN_"`
}

type TokenConfigs struct {
	Name       string        `env:"NAME"`
	Expiration time.Duration `env:"EXPIRATION"`
}

type S3Configs struct {
	// Driver is either s3 or memory.
	Driver         string `env:"DRIVER"`
	Region         string `env:"REGION"`
	Endpoint       string `env:"ENDPOINT"`
	PublicEndpoint string `env:"PUBLIC_ENDPOINT"`
	AccessKey      string `env:"ACCESS_KEY"`
	SecretKey      string `env:"SECRET_KEY"`
	Bucket         string `env:"BUCKET"`
	SSLDisabled    bool   `env:"SSL_DISABLED"`
}

type FileConfigs struct {
	MaxSize       int `env:"MAX_SIZE"`
	MaxImageWidth int `env:"MAX_IMAGE_WIDTH"`
}

type RedisConfigs struct {
	Addr         string        `env:"ADDR"`
	CommunityTTL time.Duration `env:"COMMUNITY_TTL"`
	TrendingTTL  time.Duration `env:"TRENDING_TTL"`
}

type EventConfigs struct {
	// Broker is one of kafka, nats or none.
	Broker string `env:"BROKER"`
	Topic  string `env:"TOPIC"`
	Group  string `env:"GROUP"`
}

type KafkaConfigs struct {
	Addr string `env:"ADDR"`
}

type NatsConfigs struct {
	URL           string        `env:"URL"`
	MaxReconnects int           `env:"MAX_RECONNECTS"`
	ReconnectWait time.Duration `env:"RECONNECT_WAIT"`
}

type ReconcileConfigs struct {
	Interval time.Duration `env:"INTERVAL"`
}

type FeedConfigs struct {
	ExplorePageSize   int `env:"EXPLORE_PAGE_SIZE"`
	HeadlineCount     int `env:"HEADLINE_COUNT"`
	HeadlineLength    int `env:"HEADLINE_LENGTH"`
	TrendingPosts     int `env:"TRENDING_POSTS"`
	TrendingCommunity int `env:"TRENDING_COMMUNITIES"`
	CommunityPageSize int `env:"COMMUNITY_PAGE_SIZE"`
	UserPostPageSize  int `env:"USER_POST_PAGE_SIZE"`
}

// Default returns the configurations used when neither the file nor the environment sets a
// value.
func Default() Configs {
	return Configs{
		Env:      "local",
		LogLevel: "info",
		Database: DatabaseConfigs{
			Driver:   "mysql",
			Host:     "localhost",
			Port:     "3306",
			Database: "socialgraph",
			User:     "root",
		},
		ApiServer: APIServerConfigs{
			ServerConfigs:   ServerConfigs{Port: "8080"},
			DefaultPageSize: 10,
			MaxPageSize:     50,
			RequestTimeout:  10 * time.Second,
			AllowedOrigins:  []string{"*"},
		},
		PrometheusServer: ServerConfigs{Port: "9090"},
		Auth: AuthConfigs{
			AccessToken: TokenConfigs{Name: "access_token", Expiration: 24 * time.Hour},
		},
		Storage: S3Configs{Driver: "memory", Bucket: "media"},
		File:    FileConfigs{MaxSize: 2 * 1024 * 1024, MaxImageWidth: 1280},
		Redis: RedisConfigs{
			Addr:         "localhost:6379",
			CommunityTTL: 10 * time.Minute,
			TrendingTTL:  time.Minute,
		},
		Events: EventConfigs{Broker: "none", Topic: "engagement", Group: "reconciler"},
		Kafka:  KafkaConfigs{Addr: "localhost:9092"},
		Nats: NatsConfigs{
			URL:           "nats://localhost:4222",
			MaxReconnects: 10,
			ReconnectWait: 2 * time.Second,
		},
		Reconcile: ReconcileConfigs{Interval: time.Hour},
		Feed: FeedConfigs{
			ExplorePageSize:   10,
			HeadlineCount:     5,
			HeadlineLength:    50,
			TrendingPosts:     10,
			TrendingCommunity: 5,
			CommunityPageSize: 10,
			UserPostPageSize:  8,
		},
	}
}

// Load reads configurations in three layers: defaults, the TOML file at path (skipped when
// path is empty), and finally the environment, optionally seeded from a .env file.
func Load(path string) (Configs, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Configs{}, fmt.Errorf("decode config file %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Configs{}, fmt.Errorf("load .env: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return Configs{}, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}
