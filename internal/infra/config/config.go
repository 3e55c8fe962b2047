// Package config provides application-wide configuration loaded from env vars.
// All fields have safe defaults so the binary runs locally without any env setup.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime configuration for MedGate.
type Config struct {
	// HTTP server
	Host string `env:"HOST" envDefault:"0.0.0.0"`
	Port int    `env:"PORT" envDefault:"8080"`

	// Storage
	DBPath    string `env:"DB_PATH" envDefault:"medgate.sqlite"`
	UploadDir string `env:"UPLOAD_DIR" envDefault:"uploads"`

	// Model server and per-pipeline model names
	ModelServerURL     string        `env:"MODEL_SERVER_URL" envDefault:"http://localhost:9000"`
	QAModel            string        `env:"QA_MODEL" envDefault:"distilbert-base-cased-distilled-squad"`
	SeverityModel      string        `env:"SEVERITY_MODEL" envDefault:"medical-severity-classifier"`
	DocSummaryModel    string        `env:"DOC_SUMMARY_MODEL" envDefault:"facebook/bart-large-cnn"`
	ConvSummaryModel   string        `env:"CONV_SUMMARY_MODEL" envDefault:"philschmid/bart-large-cnn-samsum"`
	TranscriptionModel string        `env:"TRANSCRIPTION_MODEL" envDefault:"whisper-base"`
	InferenceTimeout   time.Duration `env:"INFERENCE_TIMEOUT" envDefault:"60s"`

	// Optional YAML file overriding the input shaping limits.
	ShapingPolicies string `env:"SHAPING_POLICIES"`
}

// Load reads configuration from environment variables, applying defaults
// for missing values.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	return cfg, nil
}

// Addr returns the host:port the HTTP server binds to.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
