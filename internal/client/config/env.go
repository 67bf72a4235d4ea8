package config

import (
	"os"
	"strconv"
	"time"
)

// applyEnv overlays Config with VISIONAQ_* environment variables.
// Unparseable numbers are ignored.
func applyEnv(cfg *Config) {
	if v := os.Getenv("VISIONAQ_AUTH_URL"); v != "" {
		cfg.AuthURL = v
	}
	if v := os.Getenv("VISIONAQ_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("VISIONAQ_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("VISIONAQ_STORAGE"); v != "" {
		cfg.StorageDriver = v
	}
	if v := os.Getenv("VISIONAQ_VALKEY_ADDR"); v != "" {
		cfg.ValkeyAddr = v
	}
	if v := os.Getenv("VISIONAQ_IMAGE_STORE"); v != "" {
		cfg.ImageStore = v
	}
	if v := os.Getenv("VISIONAQ_S3_ENDPOINT"); v != "" {
		cfg.S3.Endpoint = v
	}
	if v := os.Getenv("VISIONAQ_S3_BUCKET"); v != "" {
		cfg.S3.Bucket = v
	}
	if v := os.Getenv("VISIONAQ_S3_REGION"); v != "" {
		cfg.S3.Region = v
	}
	if v := os.Getenv("VISIONAQ_S3_ACCESS_KEY"); v != "" {
		cfg.S3.AccessKey = v
	}
	if v := os.Getenv("VISIONAQ_S3_SECRET_KEY"); v != "" {
		cfg.S3.SecretKey = v
	}
	if v := os.Getenv("VISIONAQ_ONLINE_CHECK_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.OnlineCheckInterval = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("VISIONAQ_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}
