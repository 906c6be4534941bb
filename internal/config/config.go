package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	// Environment variables
	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	Port           int    `mapstructure:"port"`
	MigrationsPath string `mapstructure:"migrations_path"`

	DB        DB        `mapstructure:"db"`
	Storage   Storage   `mapstructure:"storage"`
	Buckets   Buckets   `mapstructure:"buckets"`
	Auth      Auth      `mapstructure:"auth"`
	RateLimit RateLimit `mapstructure:"ratelimit"`
	Sweep     Sweep     `mapstructure:"sweep"`
	Log       Log       `mapstructure:"log"`
}

type DB struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Database string `mapstructure:"database"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Schema   string `mapstructure:"schema"`
}

// URL is the postgres connection string shared by the pool and migrations.
func (d DB) URL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.Username, d.Password),
		Host:   d.Host + ":" + d.Port,
		Path:   "/" + d.Database,
	}
	q := url.Values{}
	q.Set("sslmode", "disable")
	if d.Schema != "" {
		q.Set("search_path", d.Schema)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

type Storage struct {
	Driver        string `mapstructure:"driver"` // "local" or "s3"
	LocalRoot     string `mapstructure:"local_root"`
	PublicURL     string `mapstructure:"public_url"`
	MaxImageBytes int64  `mapstructure:"max_image_bytes"`
	RetryAttempts int    `mapstructure:"retry_attempts"`
	S3            S3     `mapstructure:"s3"`
}

type S3 struct {
	Region         string `mapstructure:"region"`
	Endpoint       string `mapstructure:"endpoint"`
	AccessKey      string `mapstructure:"access_key"`
	SecretKey      string `mapstructure:"secret_key"`
	ForcePathStyle bool   `mapstructure:"force_path_style"`
}

// Buckets names the object storage bucket for each media-bearing resource.
type Buckets struct {
	Destinations string `mapstructure:"destinations"`
	Hotels       string `mapstructure:"hotels"`
	Events       string `mapstructure:"events"`
	Promos       string `mapstructure:"promos"`
	Transports   string `mapstructure:"transports"`
	Proofs       string `mapstructure:"proofs"`
}

func (b Buckets) All() []string {
	return []string{b.Destinations, b.Hotels, b.Events, b.Promos, b.Transports, b.Proofs}
}

type Auth struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type RateLimit struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type Sweep struct {
	Schedule string        `mapstructure:"schedule"`
	Grace    time.Duration `mapstructure:"grace"`
}

type Log struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("migrations_path", "migrations")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.database", "travel")
	v.SetDefault("db.username", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.schema", "public")

	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.local_root", "uploads")
	v.SetDefault("storage.public_url", "")
	v.SetDefault("storage.max_image_bytes", 5*1024*1024)
	v.SetDefault("storage.retry_attempts", 3)
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.access_key", "")
	v.SetDefault("storage.s3.secret_key", "")
	v.SetDefault("storage.s3.force_path_style", false)

	v.SetDefault("buckets.destinations", "destinations")
	v.SetDefault("buckets.hotels", "hotels")
	v.SetDefault("buckets.events", "events")
	v.SetDefault("buckets.promos", "promos")
	v.SetDefault("buckets.transports", "transports")
	v.SetDefault("buckets.proofs", "payment-proofs")

	v.SetDefault("auth.jwt_secret", "")

	v.SetDefault("ratelimit.rps", 5)
	v.SetDefault("ratelimit.burst", 10)

	v.SetDefault("sweep.schedule", "@daily")
	v.SetDefault("sweep.grace", 24*time.Hour)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// Load reads configuration from defaults, an optional config file and the
// environment, in increasing order of precedence. "db.host" is read from
// DB_HOST, "storage.s3.region" from STORAGE_S3_REGION and so on.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Storage.Driver != "local" && cfg.Storage.Driver != "s3" {
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	return &cfg, nil
}
