package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/tmx/internal/app"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envSocketPath     = "TMX_SOCKET"
	envConfigPath     = "TMX_CONFIG"
	envLogFile        = "TMX_LOG_FILE"
	envTrace          = "TMX_TRACE"
	envRefresh        = "TMX_REFRESH"
	envPreviewRefresh = "TMX_PREVIEW_REFRESH"

	defaultRefresh        = 500 * time.Millisecond
	defaultPreviewRefresh = time.Second
)

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("tmx", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	socket := fs.String("socket", envOrDefault(env, envSocketPath, ""), "path to the tmux socket (overrides environment detection)")
	configPath := fs.String("config", envOrDefault(env, envConfigPath, ""), "path to the tag file (default $XDG_CONFIG_HOME/tmx/config.toml)")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	refresh := fs.Duration("refresh", envOrDuration(env, envRefresh, defaultRefresh), "interval between topology refreshes")
	previewRefresh := fs.Duration("preview-refresh", envOrDuration(env, envPreviewRefresh, defaultPreviewRefresh), "interval between preview captures")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	cfg := Config{
		App: app.Config{
			SocketPath:     *socket,
			ConfigPath:     *configPath,
			Refresh:        *refresh,
			PreviewRefresh: *previewRefresh,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Flags: map[string]string{
			"socket":         *socket,
			"config":         *configPath,
			"trace":          strconv.FormatBool(*trace),
			"logFile":        *logFile,
			"refresh":        refresh.String(),
			"previewRefresh": previewRefresh.String(),
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}
		values[key] = value
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// envOrDuration accepts Go durations ("750ms") or a bare millisecond count.
func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return fallback
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate rejects settings the program cannot run with.
func Validate(cfg Config) error {
	if cfg.App.Refresh <= 0 {
		return fmt.Errorf("refresh must be > 0 (got %s)", cfg.App.Refresh)
	}
	if cfg.App.PreviewRefresh <= 0 {
		return fmt.Errorf("preview-refresh must be > 0 (got %s)", cfg.App.PreviewRefresh)
	}
	return nil
}
