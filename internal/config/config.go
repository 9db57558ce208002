package config

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/menubar/internal/app"
	"github.com/atomicstack/menubar/internal/event"
	"github.com/atomicstack/menubar/internal/menu"
	"github.com/atomicstack/menubar/internal/theme"
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
	envMenuFile      = "MENUBAR_MENU"
	envTheme         = "MENUBAR_THEME"
	envOpen          = "MENUBAR_OPEN"
	envWidth         = "MENUBAR_WIDTH"
	envHeight        = "MENUBAR_HEIGHT"
	envShowFooter    = "MENUBAR_FOOTER"
	envWatch         = "MENUBAR_WATCH"
	envTrace         = "MENUBAR_TRACE"
	envLogFile       = "MENUBAR_LOG_FILE"
	envFadeDelay     = "MENUBAR_FADE_DELAY"
	envFadeDuration  = "MENUBAR_FADE_DURATION"
	envClickMove     = "MENUBAR_CLICK_MOVE"
	envClickDuration = "MENUBAR_CLICK_DURATION"
)

// LoadArgs parses configuration from CLI arguments with environment
// variables as fallbacks.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("menubar", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	menuFile := fs.String("menu", envOrDefault(env, envMenuFile, ""), "path to a YAML menu definition file (built-in demo when empty)")
	themeName := fs.String("theme", envOrDefault(env, envTheme, ""), "theme name: "+strings.Join(theme.Names(), ", "))
	open := fs.String("open", envOrDefault(env, envOpen, ""), "id of a bar menu to open at startup")
	width := fs.Int("width", envOrInt(env, envWidth, 0), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, 0), "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, true), "show the key help footer")
	watch := fs.Bool("watch", envOrBool(env, envWatch, false), "reload the menu file when it changes")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")
	fadeDelay := fs.Duration("fade-delay", envOrDuration(env, envFadeDelay, theme.DefaultFade.Delay), "grace period before a fired item runs and its menu fades")
	fadeDuration := fs.Duration("fade-duration", envOrDuration(env, envFadeDuration, theme.DefaultFade.Duration), "how long a closing menu stays visible while fading")
	clickMove := fs.Int("click-move", envOrInt(env, envClickMove, event.DefaultClick.MaxMove), "cells a press may travel and still count as a click")
	clickDuration := fs.Duration("click-duration", envOrDuration(env, envClickDuration, event.DefaultClick.MaxDuration), "how long a press may last and still count as a click")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}

	cfg := Config{
		App: app.Config{
			MenuPath:   *menuFile,
			Theme:      *themeName,
			Open:       *open,
			Width:      *width,
			Height:     *height,
			ShowFooter: *footer,
			Watch:      *watch,
			Fade:       theme.Fade{Delay: *fadeDelay, Duration: *fadeDuration},
			Click:      event.ClickThresholds{MaxMove: *clickMove, MaxDuration: *clickDuration},
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Flags: map[string]string{
			"menu":          *menuFile,
			"theme":         *themeName,
			"open":          *open,
			"width":         strconv.Itoa(*width),
			"height":        strconv.Itoa(*height),
			"footer":        strconv.FormatBool(*footer),
			"watch":         strconv.FormatBool(*watch),
			"trace":         strconv.FormatBool(*trace),
			"logFile":       *logFile,
			"fadeDelay":     fadeDelay.String(),
			"fadeDuration":  fadeDuration.String(),
			"clickMove":     strconv.Itoa(*clickMove),
			"clickDuration": clickDuration.String(),
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
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

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// Validate checks option combinations that flag parsing cannot.
func Validate(cfg Config) error {
	var errs []error
	if cfg.App.Theme != "" {
		if _, ok := theme.Lookup(cfg.App.Theme); !ok {
			errs = append(errs, fmt.Errorf("unknown theme %q (available: %s)", cfg.App.Theme, strings.Join(theme.Names(), ", ")))
		}
	}
	if cfg.App.Fade.Delay < 0 || cfg.App.Fade.Duration < 0 {
		errs = append(errs, errors.New("fade durations must be >= 0"))
	}
	if cfg.App.Click.MaxMove <= 0 {
		errs = append(errs, fmt.Errorf("click-move must be > 0 (got %d)", cfg.App.Click.MaxMove))
	}
	if cfg.App.Click.MaxDuration <= 0 {
		errs = append(errs, fmt.Errorf("click-duration must be > 0 (got %s)", cfg.App.Click.MaxDuration))
	}
	if cfg.App.Watch && cfg.App.MenuPath == "" {
		errs = append(errs, errors.New("-watch requires -menu"))
	}
	return errors.Join(errs...)
}

// LoadMenuFile reads the definition file at path, or returns the built-in
// demo definitions when path is empty.
func LoadMenuFile(path string) (*menu.File, error) {
	if strings.TrimSpace(path) == "" {
		return menu.DefaultFile(), nil
	}
	return menu.LoadFile(path)
}
