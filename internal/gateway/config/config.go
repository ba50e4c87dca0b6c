package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port string `env:"PORT" envDefault:":8081"`
	Env  string `env:"APP_ENV" envDefault:"local"`

	DatabaseURL string `env:"DATABASE_URL"`

	// Provider credentials. All optional: their absence degrades the
	// readiness verdict without blocking it.
	SandboxAPIKey   string `env:"SANDBOX_API_KEY"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	GoogleAPIKey    string `env:"GOOGLE_API_KEY"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`

	Artifact ArtifactConfig
}

type ArtifactConfig struct {
	Endpoint  string `env:"ARTIFACT_S3_ENDPOINT"`
	Region    string `env:"ARTIFACT_S3_REGION" envDefault:"us-east-1"`
	AccessKey string `env:"ARTIFACT_S3_ACCESS_KEY"`
	SecretKey string `env:"ARTIFACT_S3_SECRET_KEY"`
	Bucket    string `env:"ARTIFACT_S3_BUCKET" envDefault:"appforge-artifacts"`
	UseSSL    bool   `env:"ARTIFACT_S3_USE_SSL" envDefault:"false"`
}

// Configured reports whether the snapshot store can be constructed.
func (a ArtifactConfig) Configured() bool {
	return a.Endpoint != "" && a.AccessKey != "" && a.SecretKey != ""
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	port := flag.String("port", cfg.Port, "server port")
	flag.Parse()
	cfg.Port = *port
	if !strings.HasPrefix(cfg.Port, ":") {
		cfg.Port = ":" + cfg.Port
	}

	return cfg, nil
}
