package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Data sources the DB-manager view can be bound to at startup.
const (
	SourceLocal  = "local"
	SourceRemote = "remote"
)

// Storage drivers.
const (
	DriverBadger = "badger"
	DriverMongo  = "mongo"
	DriverS3     = "s3"
	DriverMemory = "memory"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Remote    RemoteConfig    `mapstructure:"remote"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Database  DatabaseConfig  `mapstructure:"database"`
	S3        S3Config        `mapstructure:"s3"`
	Session   SessionConfig   `mapstructure:"session"`
	DBManager DBManagerConfig `mapstructure:"dbmanager"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// RemoteConfig points at the FitWise backend.
type RemoteConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"` // 0 keeps the HTTP client default
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

type DatabaseConfig struct {
	URI        string `mapstructure:"uri"`
	Name       string `mapstructure:"name"`
	Collection string `mapstructure:"collection"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	Prefix          string `mapstructure:"prefix"`
}

// SessionConfig controls how the durable session record is signed.
type SessionConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"` // 0 means sessions never expire
}

type DBManagerConfig struct {
	Source string `mapstructure:"source"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// LoadConfig reads configuration from a .env file, config.yaml and environment variables.
func LoadConfig(path string) (config Config, err error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load(filepath.Join(path, ".env"))

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	v.SetDefault("server.address", "127.0.0.1:8080")
	v.SetDefault("remote.base_url", "http://localhost:5000")
	v.SetDefault("remote.timeout", "0s")
	v.SetDefault("storage.driver", DriverBadger)
	v.SetDefault("storage.path", "./data")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "fitwise_client")
	v.SetDefault("database.collection", "kv")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.prefix", "fitwise/")
	v.SetDefault("session.secret", "")
	v.SetDefault("session.ttl", "0s")
	v.SetDefault("dbmanager.source", SourceLocal)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)

	err = v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		err = nil // Config file is optional
	} else if err != nil {
		return
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}
	if err = config.Validate(); err != nil {
		return
	}
	return config, nil
}

// Validate checks values that have no safe default.
func (c Config) Validate() error {
	if c.Session.Secret == "" {
		return errors.New("session.secret is required (SESSION_SECRET)")
	}
	switch c.DBManager.Source {
	case SourceLocal, SourceRemote:
	default:
		return fmt.Errorf("dbmanager.source must be %q or %q, got %q", SourceLocal, SourceRemote, c.DBManager.Source)
	}
	switch c.Storage.Driver {
	case DriverBadger, DriverMongo, DriverS3, DriverMemory:
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	if c.Remote.BaseURL == "" {
		return errors.New("remote.base_url is required")
	}
	return nil
}
