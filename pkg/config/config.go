package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	AppEnv       string `envconfig:"APP_ENV" default:"local"`
	Port         int    `envconfig:"PORT" default:"5000"`
	SentryDSN    string `envconfig:"SENTRY_DSN"`
	AllowOrigins string `envconfig:"ALLOW_ORIGINS" default:"*"`
	BodyLimit    string `envconfig:"BODY_LIMIT" default:"1M"`
	RateLimit    int    `envconfig:"RATE_LIMIT" default:"0"`

	Log struct {
		Level  string `envconfig:"LOG_LEVEL"`
		Format string `envconfig:"LOG_FORMAT" default:"json"`
		File   string `envconfig:"LOG_FILE"`
	}

	Store struct {
		Driver string `envconfig:"STORE_DRIVER" default:"memory"`
	}

	DB struct {
		Name      string `envconfig:"DB_NAME"`
		Host      string `envconfig:"DB_HOST" default:"localhost"`
		Port      int    `envconfig:"DB_PORT" default:"5432"`
		User      string `envconfig:"DB_USER"`
		Pass      string `envconfig:"DB_PASS"`
		EnableSSL bool   `envconfig:"ENABLE_SSL"`
	}

	DynamoDB struct {
		Region    string `envconfig:"DYNAMODB_REGION" default:"us-east-1"`
		Endpoint  string `envconfig:"DYNAMODB_ENDPOINT"`
		Table     string `envconfig:"DYNAMODB_TABLE" default:"contacts"`
		AccessKey string `envconfig:"DYNAMODB_ACCESS_KEY"`
		SecretKey string `envconfig:"DYNAMODB_SECRET_KEY"`
	}

	Client struct {
		APIURL  string        `envconfig:"API_URL" default:"http://localhost:5000/api/contacts"`
		Timeout time.Duration `envconfig:"CLIENT_TIMEOUT" default:"30s"`
	}
}

func LoadConfig() (*Config, error) {
	// load default .env file, ignore the error
	_ = godotenv.Load()

	cfg := new(Config)
	err := envconfig.Process("", cfg)
	if err != nil {
		return nil, fmt.Errorf("load config error: %v", err)
	}

	return cfg, nil
}
