package main

import (
	"fmt"
	"os"

	"github.com/atomicstack/tmx/internal/app"
	"github.com/atomicstack/tmx/internal/config"
	"github.com/atomicstack/tmx/internal/logging"
	"github.com/atomicstack/tmx/internal/logging/events"
	"github.com/atomicstack/tmx/internal/tmux"
	"golang.org/x/term"
)

func main() {
	runtimeCfg := config.MustLoad()
	if err := config.Validate(runtimeCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	logging.Configure(runtimeCfg.Logging.FilePath)
	logging.SetTraceEnabled(runtimeCfg.Logging.Trace)

	traceStartup(runtimeCfg)

	err := app.Run(runtimeCfg.App)
	if err != nil {
		logging.Error(err)
		logging.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logging.Close()
}

func traceStartup(cfg config.Config) {
	events.App.Start(startupTracePayload(cfg, os.Environ()))
}

// startupTracePayload records how tmx was launched.
func startupTracePayload(cfg config.Config, environ []string) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags)+2)
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath
	payload := map[string]interface{}{
		"argv":       cfg.Args,
		"flags":      flags,
		"config":     cfg,
		"insideTmux": tmux.InsideTmux(environ),
		"tty":        inspectTerminals(),
		"logPath":    logging.Path(),
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	}
	return payload
}

type terminalState struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

// inspectTerminals reports which standard descriptors are terminals and their
// size, in stdin, stdout, stderr order.
func inspectTerminals() []terminalState {
	files := []*os.File{os.Stdin, os.Stdout, os.Stderr}
	names := []string{"stdin", "stdout", "stderr"}
	states := make([]terminalState, len(files))
	for i, f := range files {
		state := terminalState{Name: names[i]}
		fd := int(f.Fd())
		if term.IsTerminal(fd) {
			state.IsTerminal = true
			if w, h, err := term.GetSize(fd); err == nil {
				state.Width, state.Height = w, h
			} else {
				state.Error = err.Error()
			}
		}
		states[i] = state
	}
	return states
}
