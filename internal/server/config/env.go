package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// dotenvFile is loaded into the process environment when it exists.
// Variables already set in the environment win over the file.
var dotenvFile = ".env"

// parseEnv overlays environment variables onto config. Unset variables keep
// the current value. PORT is honoured as a bare port when HTTP_ADDR is unset.
func parseEnv(config *Config) error {
	if _, err := os.Stat(dotenvFile); err == nil {
		if err := godotenv.Load(dotenvFile); err != nil {
			return err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if port, ok := os.LookupEnv("PORT"); ok && port != "" {
		if _, set := os.LookupEnv("HTTP_ADDR"); !set {
			config.HTTPAddr = ":" + port
		}
	}

	return env.Parse(config)
}
