package cli

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/kanban/internal/app"
)

func runTUI(opts *rootOptions) error {
	e, err := openEnv(opts)
	if err != nil {
		return err
	}
	defer e.Close()

	if path := e.cfg.Log.File; path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
		f, err := tea.LogToFile(path, "kanban ")
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
	}

	m := app.New(e.gateway, app.Options{
		LoadDelay:       e.cfg.LoadDelay(),
		RefreshInterval: e.cfg.RefreshInterval(),
		Mouse:           e.cfg.Display.Mouse,
	})

	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if e.cfg.Display.Mouse {
		programOpts = append(programOpts, tea.WithMouseCellMotion())
	}

	if _, err := tea.NewProgram(m, programOpts...).Run(); err != nil {
		return fmt.Errorf("running board: %w", err)
	}
	return nil
}
