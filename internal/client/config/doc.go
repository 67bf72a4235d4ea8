// Package config loads runtime configuration for the VisionAQ CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. VISIONAQ_* environment variables (see applyEnv), plus LOG_LEVEL.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   analysis service base URL
//	-u string   auth service base URL
//	-d string   data directory (SQLite file, archived images)
//	-s string   storage driver: sqlite, memory or valkey
//	-i int      online status check interval (seconds)
//
// Any other argument is left for the command tree.
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "30s" or integer nanoseconds:
//
//	{
//	  "auth_url": "http://localhost:5000/api/auth",
//	  "api_url": "http://localhost:5000",
//	  "storage_driver": "sqlite",
//	  "image_store": "s3",
//	  "s3": {"endpoint": "http://localhost:9000", "bucket": "visionaq", "url_ttl": "15m"},
//	  "online_check_interval": "30s",
//	  "log_level": "warn"
//	}
//
// Primary API
//
//   - type Config                           runtime settings
//   - func LoadConfig() (*Config, error)    defaults, JSON, env, flags, then Validate
//   - func (*Config) LoadDefaults()         sets sensible defaults
package config
