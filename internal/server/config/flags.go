package config

import (
	"flag"

	"github.com/dmitrijs2005/techreport/internal/flagx"
)

// parseFlags overlays command-line flags onto config.
//
//	-a string    HTTP bind address (e.g. ":5000")
//	-d string    PostgreSQL DSN
//	-s string    cookie signing secret
//	-t duration  session lifetime (e.g. "168h")
//	-x string    export directory
//	-w string    static web directory
//	-l string    log level
//
// Only these flags are looked at, so -c/-config can share the command line.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-t", "-x", "-w", "-l"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.SessionTTL, "t", config.SessionTTL, "session lifetime")
	fs.StringVar(&config.ExportDir, "x", config.ExportDir, "export directory")
	fs.StringVar(&config.StaticDir, "w", config.StaticDir, "static web directory")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level (debug, info, warn, error)")

	return fs.Parse(args)
}
