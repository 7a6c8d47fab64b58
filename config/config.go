package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DatabaseSettings selects one relational backend. Provider is "sqlite" or
// "postgresql" for the target store, "sqlite" or "mysql" for the legacy
// source.
type DatabaseSettings struct {
	Provider         string `yaml:"provider"`
	ConnectionString string `yaml:"connectionString"`
}

// MigrationSettings are the defaults for one migration invocation; the CLI
// flags override them.
type MigrationSettings struct {
	Market    string   `yaml:"market"`
	Codes     []string `yaml:"codes"`
	BatchSize int      `yaml:"batchSize"`
	DryRun    bool     `yaml:"dryRun"`
}

type StreamingConfig struct {
	Enabled  bool   `yaml:"Enabled"`
	Provider string `yaml:"Provider"`

	Redis struct {
		Address  string `yaml:"Address"`
		Password string `yaml:"Password"`
		DB       int    `yaml:"DB"`
		Stream   string `yaml:"Stream"`
	} `yaml:"Redis"`

	Kafka struct {
		Brokers []string `yaml:"Brokers"`
		Topic   string   `yaml:"Topic"`
	} `yaml:"Kafka"`
}

type AppSettings struct {
	Debug     bool              `yaml:"debug"`
	Database  DatabaseSettings  `yaml:"database"`
	Source    DatabaseSettings  `yaml:"source"`
	Migration MigrationSettings `yaml:"migration"`
	Streaming StreamingConfig   `yaml:"Streaming"`
}

var Settings AppSettings

func LoadConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &Settings); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
