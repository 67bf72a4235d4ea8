package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/visionaq/internal/filex"
)

// Storage drivers accepted by StorageDriver.
const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
	StorageValkey = "valkey"
)

// Image archive backends accepted by ImageStore.
const (
	ImageStoreLocal = "local"
	ImageStoreS3    = "s3"
)

// S3Config points the image archive at an S3-compatible bucket.
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	// URLTTL bounds the lifetime of presigned URLs handed out as image references.
	URLTTL time.Duration
}

// Config holds runtime settings for the VisionAQ CLI.
//
// Units: durations are time.Duration (e.g., 30*time.Second).
type Config struct {
	AuthURL string
	APIURL  string

	DataDir       string
	StorageDriver string
	ValkeyAddr    string
	ValkeyPrefix  string

	ImageStore string
	S3         S3Config

	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration

	LogLevel  string
	LogFormat string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.AuthURL = "http://localhost:5000/api/auth"
	c.APIURL = "http://localhost:5000"
	c.DataDir = filex.DefaultDataDir()
	c.StorageDriver = StorageSQLite
	c.ValkeyAddr = "127.0.0.1:6379"
	c.ValkeyPrefix = "visionaq"
	c.ImageStore = ImageStoreLocal
	c.S3 = S3Config{Region: "us-east-1", URLTTL: 15 * time.Minute}
	c.OnlineCheckInterval = 30 * time.Second
	c.RequestTimeout = 15 * time.Second
	c.LogLevel = "warn"
	c.LogFormat = "text"
}

// DatabasePath is the SQLite file inside DataDir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "visionaq.db")
}

// ImagesDir is where the local image archive keeps its copies.
func (c *Config) ImagesDir() string {
	return filepath.Join(c.DataDir, "images")
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.AuthURL) == "" {
		return fmt.Errorf("auth url is required")
	}
	if strings.TrimSpace(c.APIURL) == "" {
		return fmt.Errorf("api url is required")
	}
	switch c.StorageDriver {
	case StorageSQLite, StorageMemory:
	case StorageValkey:
		if c.ValkeyAddr == "" {
			return fmt.Errorf("valkey address is required for storage driver %q", c.StorageDriver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
	switch c.ImageStore {
	case ImageStoreLocal:
	case ImageStoreS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("s3 bucket is required for image store %q", c.ImageStore)
		}
	default:
		return fmt.Errorf("unknown image store %q", c.ImageStore)
	}
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("online check interval must be positive")
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg); err != nil {
		return nil, err
	}
	applyEnv(cfg)
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
