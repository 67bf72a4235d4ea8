package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/visionaq/internal/flagx"
	"github.com/dmitrijs2005/visionaq/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds. After parsing, set values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	AuthURL             string         `json:"auth_url"`
	APIURL              string         `json:"api_url"`
	DataDir             string         `json:"data_dir"`
	StorageDriver       string         `json:"storage_driver"`
	ValkeyAddr          string         `json:"valkey_addr"`
	ValkeyPrefix        string         `json:"valkey_prefix"`
	ImageStore          string         `json:"image_store"`
	S3                  JsonS3Config   `json:"s3"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	LogLevel            string         `json:"log_level"`
	LogFormat           string         `json:"log_format"`
}

type JsonS3Config struct {
	Endpoint  string         `json:"endpoint"`
	Region    string         `json:"region"`
	Bucket    string         `json:"bucket"`
	AccessKey string         `json:"access_key"`
	SecretKey string         `json:"secret_key"`
	URLTTL    timex.Duration `json:"url_ttl"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from the -c or -config flags (flagx.JsonConfigFlags);
// without one nothing is loaded. Fields absent from the file keep their
// current values.
func parseJson(cfg *Config) error {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return nil
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	jc.apply(cfg)
	return nil
}

func (jc *JsonConfig) apply(cfg *Config) {
	setString(&cfg.AuthURL, jc.AuthURL)
	setString(&cfg.APIURL, jc.APIURL)
	setString(&cfg.DataDir, jc.DataDir)
	setString(&cfg.StorageDriver, jc.StorageDriver)
	setString(&cfg.ValkeyAddr, jc.ValkeyAddr)
	setString(&cfg.ValkeyPrefix, jc.ValkeyPrefix)
	setString(&cfg.ImageStore, jc.ImageStore)
	setString(&cfg.S3.Endpoint, jc.S3.Endpoint)
	setString(&cfg.S3.Region, jc.S3.Region)
	setString(&cfg.S3.Bucket, jc.S3.Bucket)
	setString(&cfg.S3.AccessKey, jc.S3.AccessKey)
	setString(&cfg.S3.SecretKey, jc.S3.SecretKey)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)

	if jc.S3.URLTTL.Duration > 0 {
		cfg.S3.URLTTL = jc.S3.URLTTL.Duration
	}
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
