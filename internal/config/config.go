// Package config loads the server configuration from a .env file, CARINA_*
// environment variables and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/erazemk/carina/internal/auth"
)

// Config holds the server settings.
type Config struct {
	DBPath          string
	Addr            string
	MetricsAddr     string // empty disables the metrics listener
	AdminUser       string
	LogPath         string
	LogLevel        slog.Level
	TokenTTL        time.Duration
	ShutdownTimeout time.Duration
	SecureCookies   bool
}

const usage = `Usage: carina [flags]

Flags:
  -d, -db <path>          SQLite database path (default: carina.sqlite3)
  -a, -addr <host:port>   listen address (default: :8080)
  -m, -metrics <addr>     metrics listen address, "off" to disable
                          (default: localhost:9091)
  -u, -user <name>        admin username on first run (default: Admin)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -v, -level <level>      log level: debug, info, warn, error (default: info)
  -h, -help               show this help and exit

Every flag can also be set with an environment variable (CARINA_DB,
CARINA_ADDR, CARINA_METRICS_ADDR, CARINA_ADMIN_USER, CARINA_LOG,
CARINA_LOG_LEVEL), directly or through a .env file in the working directory. CARINA_TOKEN_TTL,
CARINA_SHUTDOWN_TIMEOUT and CARINA_SECURE_COOKIES have no flag.
`

// EnvFile is read from the working directory when present.
const EnvFile = ".env"

// Load reads the configuration. It returns flag.ErrHelp after printing usage
// to out when help is requested.
func Load(args []string, out io.Writer) (*Config, error) {
	if err := godotenv.Load(EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", EnvFile, err)
	}

	cfg := &Config{}
	var err error

	if cfg.TokenTTL, err = envDuration("CARINA_TOKEN_TTL", auth.DefaultTokenTTL); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = envDuration("CARINA_SHUTDOWN_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.SecureCookies, err = envBool("CARINA_SECURE_COOKIES", false); err != nil {
		return nil, err
	}

	fset := flag.NewFlagSet("carina", flag.ContinueOnError)
	fset.SetOutput(out)
	fset.Usage = func() { fmt.Fprint(out, usage) }

	stringFlag(fset, &cfg.DBPath, "db", "d", env("CARINA_DB", "carina.sqlite3"))
	stringFlag(fset, &cfg.Addr, "addr", "a", env("CARINA_ADDR", ":8080"))
	stringFlag(fset, &cfg.MetricsAddr, "metrics", "m", env("CARINA_METRICS_ADDR", "localhost:9091"))
	stringFlag(fset, &cfg.AdminUser, "user", "u", env("CARINA_ADMIN_USER", "Admin"))
	stringFlag(fset, &cfg.LogPath, "log", "l", env("CARINA_LOG", ""))

	var level string
	stringFlag(fset, &level, "level", "v", env("CARINA_LOG_LEVEL", "info"))

	if err := fset.Parse(args); err != nil {
		return nil, err
	}
	if fset.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", fset.Arg(0))
	}

	if m := strings.TrimSpace(cfg.MetricsAddr); m == "" || strings.EqualFold(m, "off") {
		cfg.MetricsAddr = ""
	}
	if cfg.LogLevel, err = ParseLevel(level); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case strings.TrimSpace(c.DBPath) == "":
		return errors.New("database path must not be empty")
	case strings.TrimSpace(c.Addr) == "":
		return errors.New("listen address must not be empty")
	case c.MetricsAddr != "" && c.MetricsAddr == c.Addr:
		return errors.New("metrics address must differ from the listen address")
	case strings.TrimSpace(c.AdminUser) == "":
		return errors.New("admin username must not be empty")
	case c.TokenTTL < time.Minute:
		return fmt.Errorf("CARINA_TOKEN_TTL: %v is shorter than a minute", c.TokenTTL)
	case c.ShutdownTimeout <= 0:
		return fmt.Errorf("CARINA_SHUTDOWN_TIMEOUT: %v must be positive", c.ShutdownTimeout)
	}
	return nil
}

// ParseLevel converts a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q (use debug, info, warn or error)", s)
	}
}

func stringFlag(fset *flag.FlagSet, p *string, long, short, def string) {
	fset.StringVar(p, long, def, "")
	fset.StringVar(p, short, def, "")
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q (use Go syntax such as 8h or 30s)", key, v)
	}
	return d, nil
}

func envBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, v)
	}
	return b, nil
}
