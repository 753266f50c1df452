package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Store   StoreConfig
	CSV     CSVConfig
	Redis   RedisConfig
	Ingest  IngestConfig
	Export  ExportConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  int
	WriteTimeout int
}

// StoreConfig points at the document collection file.
type StoreConfig struct {
	Path string
}

// CSVConfig points at the source dataset.
type CSVConfig struct {
	Path string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	TTLSec   int
}

type IngestConfig struct {
	BatchSize      int
	OnUnmapped     string
	Source         string
	SourceLink     string
	ExportVerifyTo string
}

type ExportConfig struct {
	Dir string
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/africa-energy")

	viper.SetEnvPrefix("ENERGY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// Validate enforces the required settings. Entry points call it before any
// I/O so a missing store or CSV path fails the run at startup rather than
// mid-pipeline.
func (c *Config) Validate(needCSV bool) error {
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required (set ENERGY_STORE_PATH)")
	}
	if needCSV && c.CSV.Path == "" {
		return fmt.Errorf("csv.path is required (set ENERGY_CSV_PATH)")
	}
	switch c.Ingest.OnUnmapped {
	case "skip", "passthrough":
	default:
		return fmt.Errorf("ingest.onUnmapped must be %q or %q, got %q", "skip", "passthrough", c.Ingest.OnUnmapped)
	}
	if c.Ingest.BatchSize <= 0 {
		return fmt.Errorf("ingest.batchSize must be positive, got %d", c.Ingest.BatchSize)
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.readTimeout", 30)
	viper.SetDefault("server.writeTimeout", 30)

	viper.SetDefault("store.path", "")
	viper.SetDefault("csv.path", "")

	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.ttlSec", 300)

	viper.SetDefault("ingest.batchSize", 50)
	viper.SetDefault("ingest.onUnmapped", "skip")
	viper.SetDefault("ingest.source", "World Bank/International Energy Agency")
	viper.SetDefault("ingest.sourceLink", "Africa Energy Portal Dataset")
	viper.SetDefault("ingest.exportVerifyTo", "")

	viper.SetDefault("export.dir", "./exports")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.outputPath", "stdout")
}
