package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"

	"LocalSketch/internal/config"
	"LocalSketch/internal/render"
	"LocalSketch/internal/state"
)

// AppOptions configures the desktop window.
type AppOptions struct {
	Config config.Config
	Fonts  *render.Fonts
	Logger *log.Logger
	// ShareLink is shown in the status bar when a bridge is running.
	ShareLink string
}

// statusText renders a snapshot for the status bar.
func statusText(s state.Snapshot, link string) string {
	txt := fmt.Sprintf("%s | %s | %d drawn, %d to redo", s.Mode, s.Tool, s.Committed, s.Redo)
	if link != "" {
		txt += " | " + link
	}
	return txt
}

// RunApp opens the sketchpad window and blocks until it is closed.
func RunApp(opts AppOptions) error {
	myApp := app.NewWithID("io.localsketch")
	myWindow := myApp.NewWindow("LocalSketch")

	board, err := NewBoard(opts.Config, opts.Fonts, opts.Logger)
	if err != nil {
		return err
	}
	defer board.Close()

	status := widget.NewLabel(statusText(board.Snapshot(), opts.ShareLink))
	board.OnStatus = func(s state.Snapshot) { status.SetText(statusText(s, opts.ShareLink)) }

	toolbar := NewToolbar(board, myWindow)
	content := container.NewBorder(toolbar, status, nil, nil, board)

	c := myWindow.Canvas()
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { _ = board.Undo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift},
		func(fyne.Shortcut) { _ = board.Redo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { _ = board.Redo() })

	myWindow.SetContent(content)
	myWindow.Resize(fyne.NewSize(float32(opts.Config.Canvas.Width), float32(opts.Config.Canvas.Height)+80))
	myWindow.ShowAndRun()
	return nil
}
