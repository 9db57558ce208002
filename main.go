package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/atomicstack/menubar/internal/app"
	"github.com/atomicstack/menubar/internal/config"
	"github.com/atomicstack/menubar/internal/logging"
	"github.com/atomicstack/menubar/internal/logging/events"
	"github.com/atomicstack/menubar/internal/menu"
	"golang.org/x/term"
)

// Exit codes.
const (
	exitOK     = 0
	exitFailed = 1
	exitConfig = 2
)

var runApp = app.Run

func main() {
	os.Exit(run(os.Args[1:], os.Environ(), os.Stderr))
}

// run loads the configuration and menu file, then hands them to the app.
// Problems with either are configuration errors; the program is only
// started once both are usable.
func run(args, environ []string, stderr io.Writer) int {
	cfg, err := config.LoadArgs(args, environ)
	if err == nil {
		err = config.Validate(cfg)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return exitConfig
	}
	logging.Configure(cfg.Logging.FilePath)
	logging.SetTraceEnabled(cfg.Logging.Trace)

	file, err := config.LoadMenuFile(cfg.App.MenuPath)
	if err != nil {
		logging.Error(err)
		fmt.Fprintf(stderr, "Menu file error: %v\n", err)
		return exitConfig
	}
	events.App.Start(startupTracePayload(cfg, file))

	if err := runApp(cfg.App, file); err != nil {
		logging.Error(err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailed
	}
	return exitOK
}

// startupTracePayload records what the program was started with: the
// parsed flags, which menus were loaded and the terminal it will draw on.
func startupTracePayload(cfg config.Config, file *menu.File) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags)+2)
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath
	return map[string]interface{}{
		"argv":     cfg.Args,
		"flags":    flags,
		"config":   cfg,
		"menus":    describeMenus(cfg.App.MenuPath, file),
		"viewport": detectViewport(cfg.App.Width, cfg.App.Height),
	}
}

type menuSummary struct {
	Source string `json:"source"`
	Theme  string `json:"theme,omitempty"`
	Bar    int    `json:"bar"`
	Popups int    `json:"popups"`
}

func describeMenus(path string, file *menu.File) menuSummary {
	summary := menuSummary{Source: "built-in"}
	if path != "" {
		summary.Source = path
		if abs, err := filepath.Abs(path); err == nil {
			summary.Source = abs
		}
	}
	if file != nil {
		summary.Theme = file.Theme
		summary.Bar = len(file.Bar)
		summary.Popups = len(file.Popups)
	}
	return summary
}

type viewport struct {
	// Source is the descriptor the size came from, or "flags" when both
	// dimensions were fixed on the command line.
	Source      string          `json:"source,omitempty"`
	Width       int             `json:"width,omitempty"`
	Height      int             `json:"height,omitempty"`
	Descriptors []ttyDescriptor `json:"descriptors"`
}

type ttyDescriptor struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

// detectViewport reports the size the menus will be laid out in. Fixed
// dimensions win; otherwise the first terminal among stdout, stdin and
// stderr decides.
func detectViewport(width, height int) viewport {
	descriptors := []struct {
		name string
		file *os.File
	}{
		{"stdout", os.Stdout},
		{"stdin", os.Stdin},
		{"stderr", os.Stderr},
	}
	var vp viewport
	for _, d := range descriptors {
		row := ttyDescriptor{Name: d.name}
		fd := int(d.file.Fd())
		if fd >= 0 && term.IsTerminal(fd) {
			row.IsTerminal = true
			w, h, err := term.GetSize(fd)
			if err != nil {
				row.Error = err.Error()
			} else {
				row.Width, row.Height = w, h
				if vp.Source == "" {
					vp.Source, vp.Width, vp.Height = d.name, w, h
				}
			}
		}
		vp.Descriptors = append(vp.Descriptors, row)
	}
	if width > 0 && height > 0 {
		vp.Source = "flags"
	}
	if width > 0 {
		vp.Width = width
	}
	if height > 0 {
		vp.Height = height
	}
	return vp
}
