package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

type Config struct {
	App struct {
		Port string `mapstructure:"port"`
		Env  string `mapstructure:"env"`
	} `mapstructure:"app"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	DB struct {
		Driver        string        `mapstructure:"driver"`
		DSN           string        `mapstructure:"dsn"`
		Timeout       time.Duration `mapstructure:"timeout"`
		MigrationsDir string        `mapstructure:"migrations_dir"`
	} `mapstructure:"db"`
	Mongo struct {
		URI      string `mapstructure:"uri"`
		Database string `mapstructure:"database"`
	} `mapstructure:"mongo"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
	Cache struct {
		TTL time.Duration `mapstructure:"ttl"`
	} `mapstructure:"cache"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
		GroupID string   `mapstructure:"group_id"`
	} `mapstructure:"kafka"`
	Auth struct {
		JWTSecret     string        `mapstructure:"jwt_secret"`
		TokenLifespan time.Duration `mapstructure:"token_lifespan"`
		Header        string        `mapstructure:"header"`
	} `mapstructure:"auth"`
	Cloudinary struct {
		CloudName string `mapstructure:"cloud_name"`
		ApiKey    string `mapstructure:"api_key"`
		ApiSecret string `mapstructure:"api_secret"`
	} `mapstructure:"cloudinary"`
	Jaeger struct {
		OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
		SampleRatio  float64 `mapstructure:"sample_ratio"`
	} `mapstructure:"jaeger"`
	CORS struct {
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	} `mapstructure:"cors"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "5000")
	v.SetDefault("app.env", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("db.driver", DriverPostgres)
	v.SetDefault("db.timeout", 5*time.Second)
	v.SetDefault("db.migrations_dir", "migrations")
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "devconnector")
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("kafka.group_id", "devconnector-cache-warmer")
	v.SetDefault("auth.token_lifespan", 100*time.Hour)
	v.SetDefault("auth.header", "x-auth-token")
	v.SetDefault("jaeger.sample_ratio", 1.0)
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
}

// LoadConfig reads .env and config.yaml from the given paths (working directory when none)
// and lets the environment override both.
func LoadConfig(paths ...string) (cfg Config, err error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	for _, p := range paths {
		if loadErr := godotenv.Load(strings.TrimSuffix(p, "/") + "/.env"); loadErr == nil {
			break
		}
	}

	v := viper.New()
	setDefaults(v)

	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if readErr := v.ReadInConfig(); readErr != nil {
		log.Printf("note: config.yaml not found, read environment only. Error: %v", readErr)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("app.port", "APP_PORT", "PORT")
	v.BindEnv("app.env", "APP_ENV")
	v.BindEnv("log.level", "LOG_LEVEL")
	v.BindEnv("db.driver", "DB_DRIVER")
	v.BindEnv("db.dsn", "DB_DSN")
	v.BindEnv("db.timeout", "DB_TIMEOUT")
	v.BindEnv("db.migrations_dir", "DB_MIGRATIONS_DIR")
	v.BindEnv("mongo.uri", "MONGO_URI")
	v.BindEnv("mongo.database", "MONGO_DATABASE")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")
	v.BindEnv("cache.ttl", "CACHE_TTL")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("kafka.group_id", "KAFKA_GROUP_ID")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("auth.token_lifespan", "TOKEN_LIFESPAN")
	v.BindEnv("auth.header", "AUTH_HEADER")
	v.BindEnv("cloudinary.cloud_name", "CLOUDINARY_CLOUD_NAME")
	v.BindEnv("cloudinary.api_key", "CLOUDINARY_API_KEY")
	v.BindEnv("cloudinary.api_secret", "CLOUDINARY_API_SECRET")
	v.BindEnv("jaeger.otlp_endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT")
	v.BindEnv("jaeger.sample_ratio", "OTEL_TRACES_SAMPLER_ARG")
	v.BindEnv("cors.allowed_origins", "CORS_ALLOWED_ORIGINS")

	if err = v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Kafka.Brokers = splitList(cfg.Kafka.Brokers)
	cfg.CORS.AllowedOrigins = splitList(cfg.CORS.AllowedOrigins)
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Auth.TokenLifespan <= 0 {
		return fmt.Errorf("auth.token_lifespan must be positive")
	}
	if c.Jaeger.SampleRatio < 0 || c.Jaeger.SampleRatio > 1 {
		return fmt.Errorf("jaeger.sample_ratio must be within [0, 1]")
	}
	switch c.DB.Driver {
	case DriverPostgres:
		if c.DB.DSN == "" {
			return fmt.Errorf("db.dsn is required for driver %q", c.DB.Driver)
		}
	case DriverMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			return fmt.Errorf("mongo.uri and mongo.database are required for driver %q", c.DB.Driver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown db.driver %q", c.DB.Driver)
	}
	return nil
}

// splitList accepts both yaml lists and comma separated env values.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
