package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/techreport/internal/flagx"
	"github.com/dmitrijs2005/techreport/internal/timex"
)

// JsonConfig mirrors Config for JSON files. Durations use timex.Duration so
// both "168h" and integer nanoseconds are accepted. Keys missing from the
// file leave the current value untouched.
type JsonConfig struct {
	HTTPAddr               string         `json:"http_addr"`
	DatabaseDSN            string         `json:"database_dsn"`
	SecretKey              string         `json:"secret_key"`
	SessionTTL             timex.Duration `json:"session_ttl"`
	SessionCleanupInterval timex.Duration `json:"session_cleanup_interval"`
	CookieSecure           bool           `json:"cookie_secure"`
	BcryptCost             int            `json:"bcrypt_cost"`
	ExportDir              string         `json:"export_dir"`
	StaticDir              string         `json:"static_dir"`
	LogLevel               string         `json:"log_level"`
	LogFormat              string         `json:"log_format"`
	ShutdownTimeout        timex.Duration `json:"shutdown_timeout"`
	CORSAllowedOrigins     []string       `json:"cors_allowed_origins"`
	ExportArchive          bool           `json:"export_archive"`
	S3RootUser             string         `json:"s3_root_user"`
	S3RootPassword         string         `json:"s3_root_password"`
	S3Bucket               string         `json:"s3_bucket"`
	S3Region               string         `json:"s3_region"`
	S3BaseEndpoint         string         `json:"s3_base_endpoint"`
}

// parseJson overlays the file given with -c/-config onto config. Without
// the flag it does nothing.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := toJson(config)
	if err := json.Unmarshal(b, c); err != nil {
		return err
	}

	config.HTTPAddr = c.HTTPAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.SessionTTL = c.SessionTTL.Duration
	config.SessionCleanupInterval = c.SessionCleanupInterval.Duration
	config.CookieSecure = c.CookieSecure
	config.BcryptCost = c.BcryptCost
	config.ExportDir = c.ExportDir
	config.StaticDir = c.StaticDir
	config.LogLevel = c.LogLevel
	config.LogFormat = c.LogFormat
	config.ShutdownTimeout = c.ShutdownTimeout.Duration
	config.CORSAllowedOrigins = c.CORSAllowedOrigins
	config.ExportArchive = c.ExportArchive
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	return nil
}

func toJson(c *Config) *JsonConfig {
	return &JsonConfig{
		HTTPAddr:               c.HTTPAddr,
		DatabaseDSN:            c.DatabaseDSN,
		SecretKey:              c.SecretKey,
		SessionTTL:             timex.Duration{Duration: c.SessionTTL},
		SessionCleanupInterval: timex.Duration{Duration: c.SessionCleanupInterval},
		CookieSecure:           c.CookieSecure,
		BcryptCost:             c.BcryptCost,
		ExportDir:              c.ExportDir,
		StaticDir:              c.StaticDir,
		LogLevel:               c.LogLevel,
		LogFormat:              c.LogFormat,
		ShutdownTimeout:        timex.Duration{Duration: c.ShutdownTimeout},
		CORSAllowedOrigins:     c.CORSAllowedOrigins,
		ExportArchive:          c.ExportArchive,
		S3RootUser:             c.S3RootUser,
		S3RootPassword:         c.S3RootPassword,
		S3Bucket:               c.S3Bucket,
		S3Region:               c.S3Region,
		S3BaseEndpoint:         c.S3BaseEndpoint,
	}
}
