package app

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/menubar/internal/backend"
	"github.com/atomicstack/menubar/internal/event"
	"github.com/atomicstack/menubar/internal/menu"
	"github.com/atomicstack/menubar/internal/theme"
	"github.com/atomicstack/menubar/internal/ui"
)

// Config describes user-provided application options.
type Config struct {
	MenuPath   string
	Theme      string
	Open       string
	Width      int
	Height     int
	ShowFooter bool
	Watch      bool
	Fade       theme.Fade
	Click      event.ClickThresholds
}

const watchInterval = 500 * time.Millisecond

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config, file *menu.File) error {
	opts, err := modelOptions(cfg, file)
	if err != nil {
		return err
	}
	if cfg.Watch && cfg.MenuPath != "" {
		watcher := backend.NewWatcher(cfg.MenuPath, watchInterval)
		defer watcher.Stop()
		opts.Watcher = watcher
	}
	model := ui.NewModel(opts)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

func modelOptions(cfg Config, file *menu.File) (ui.Options, error) {
	name := cfg.Theme
	if name == "" && file != nil {
		name = file.Theme
	}
	if name == "" {
		name = theme.DefaultName
	}
	styles, ok := theme.Lookup(name)
	if !ok {
		return ui.Options{}, fmt.Errorf("unknown theme %q", name)
	}
	fade := cfg.Fade
	return ui.Options{
		Width:      cfg.Width,
		Height:     cfg.Height,
		ShowFooter: cfg.ShowFooter,
		Theme:      styles,
		Fade:       &fade,
		Click:      cfg.Click,
		File:       file,
		Open:       cfg.Open,
	}, nil
}
