package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"ProjectCatalog/internal/infrastructure/export"
	"ProjectCatalog/internal/infrastructure/storage"
)

const (
	configPathEnv   = "PROJECT_CATALOG_CONFIG"
	databasePathEnv = "PROJECT_CATALOG_DB"
	storageKeyEnv   = "PROJECT_CATALOG_STORAGE_KEY"
	logLevelEnv     = "PROJECT_CATALOG_LOG_LEVEL"
	serverPortEnv   = "PROJECT_CATALOG_PORT"

	defaultMaxUploadBytes = 32 << 20
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
	Import  ImportConfig  `yaml:"import"`
	Export  ExportConfig  `yaml:"export"`
}

// LoggingConfig selects the slog level and handler format (text or json).
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// StorageConfig locates the SQLite file and the key the catalog is saved under.
type StorageConfig struct {
	Path string `yaml:"path"`
	Key  string `yaml:"key"`
}

// ServerConfig is the HTTP listen address and the largest accepted import upload.
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MaxUploadBytes int64  `yaml:"maxUploadBytes"`
}

// ImportConfig names a CSV file to re-import whenever it changes.
type ImportConfig struct {
	WatchPath string `yaml:"watchPath"`
}

// ExportConfig controls the JSON download.
type ExportConfig struct {
	FileName string `yaml:"fileName"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else if fileCfg, err := Parse(raw); err != nil {
			log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
		} else {
			cfg = mergeConfig(cfg, fileCfg)
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

// Parse decodes a YAML document without applying defaults.
func Parse(raw []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databasePathEnv); v != "" {
		c.Storage.Path = v
	}

	if v := os.Getenv(storageKeyEnv); v != "" {
		c.Storage.Key = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(serverPortEnv); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			c.Server.Port = port
		} else {
			log.Printf("config: ignoring invalid %s=%q", serverPortEnv, v)
		}
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Storage.Path != "" {
		base.Storage.Path = override.Storage.Path
	}
	if override.Storage.Key != "" {
		base.Storage.Key = override.Storage.Key
	}

	if override.Server.Host != "" {
		base.Server.Host = override.Server.Host
	}
	if override.Server.Port != 0 {
		base.Server.Port = override.Server.Port
	}
	if override.Server.MaxUploadBytes > 0 {
		base.Server.MaxUploadBytes = override.Server.MaxUploadBytes
	}

	if override.Import.WatchPath != "" {
		base.Import.WatchPath = override.Import.WatchPath
	}

	if override.Export.FileName != "" {
		base.Export.FileName = override.Export.FileName
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Storage: StorageConfig{Path: "project_catalog.db", Key: storage.DefaultKey},
		Server:  ServerConfig{Host: "localhost", Port: 8080, MaxUploadBytes: defaultMaxUploadBytes},
		Export:  ExportConfig{FileName: export.DefaultFileName},
	}
}
