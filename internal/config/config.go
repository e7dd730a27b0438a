package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

var ErrMissingDatabaseURI = errors.New("database uri is not configured (set HOTORNOT_DATABASE_URI or MONGODB_URI)")

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	URI             string
	Name            string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
	ConnectTimeout  time.Duration
}

// RedisConfig is shared by the API (publisher, leaderboard reads, scheduler)
// and the worker (consumer group). An empty Addr disables redis in the API.
type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	Stream        string
	Group         string
	Consumer      string
	ClaimInterval time.Duration
}

type StorageConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	Prefix        string
	PublicBaseURL string
	UseSSL        bool
	Region        string
}

type LeaderboardConfig struct {
	Key             string
	Size            int
	MaxLimit        int
	RebuildSchedule string
}

type LoggingConfig struct {
	Level string
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Database         DatabaseConfig
	Redis            RedisConfig
	Storage          StorageConfig
	Leaderboard      LeaderboardConfig
	Logging          LoggingConfig
	AllowCORSOrigins []string
}

func (c *AppConfig) RedisEnabled() bool {
	return strings.TrimSpace(c.Redis.Addr) != ""
}

// Load reads .env.local/.env (when present), config.yaml and HOTORNOT_*
// environment variables, in increasing order of precedence.
func Load() (*AppConfig, error) {
	if err := loadDotEnv(".env.local", ".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("HOTORNOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("database.uri", "HOTORNOT_DATABASE_URI", "MONGODB_URI"); err != nil {
		return nil, fmt.Errorf("bind database uri: %w", err)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if strings.TrimSpace(cfg.Database.URI) == "" {
		return nil, ErrMissingDatabaseURI
	}

	return &cfg, nil
}

func loadDotEnv(files ...string) error {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("logging.level", "")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("database.name", "hotornot")
	v.SetDefault("database.maxopen", 20)
	v.SetDefault("database.maxidle", 2)
	v.SetDefault("database.connmaxlifetime", "30m")
	v.SetDefault("database.connecttimeout", "10s")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.stream", "votes:events")
	v.SetDefault("redis.group", "leaderboard-workers")
	v.SetDefault("redis.consumer", "worker-1")
	v.SetDefault("redis.claiminterval", "30s")

	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.accesskey", "")
	v.SetDefault("storage.secretkey", "")
	v.SetDefault("storage.bucket", "hotornot-images")
	v.SetDefault("storage.publicbaseurl", "")
	v.SetDefault("storage.prefix", "")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "us-east-1")

	v.SetDefault("leaderboard.key", "leaderboard:rating")
	v.SetDefault("leaderboard.size", 100)
	v.SetDefault("leaderboard.maxlimit", 50)
	v.SetDefault("leaderboard.rebuildschedule", "0 0 * * * *") // hourly

	v.SetDefault("allowcorsorigins", []string{})
}
