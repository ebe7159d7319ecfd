// Package cli implements the localsketch command-line interface.
//
// # Commands
//
//   - draw: open the desktop sketchpad (the default)
//   - serve: run the browser bridge and advertise it on the LAN
//   - replay: apply an action script headlessly and export PNG or PDF
//   - discover: list sketch servers advertised on the LAN
//   - version: print build information
//
// All commands accept --config for a TOML settings file and --verbose (-v)
// for debug logging.
package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"LocalSketch/internal/buildinfo"
	"LocalSketch/internal/config"
	"LocalSketch/internal/render"
)

const appName = "localsketch"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a logger writing to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// Running the root command without a subcommand opens the sketchpad.
func (c *CLI) RootCommand() *cobra.Command {
	draw := c.drawCommand()

	root := &cobra.Command{
		Use:          appName,
		Short:        "LocalSketch is a sketchpad with undo, redo and replay",
		Long:         `LocalSketch records every stroke and stamp as a replayable action. Draw on the desktop, share the canvas with a browser on your LAN, or replay scripts headlessly into PNG and PDF.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		RunE: draw.RunE,
	}
	root.Flags().AddFlagSet(draw.Flags())

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "TOML settings file")

	root.AddCommand(draw)
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.replayCommand())
	root.AddCommand(c.discoverCommand())
	root.AddCommand(c.versionCommand())

	return root
}

// load reads the settings file and the stamp font it names.
func (c *CLI) load() (config.Config, *render.Fonts, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	if cfg.Canvas.Font == "" {
		return cfg, nil, nil
	}
	fonts, err := render.LoadFonts(cfg.Canvas.Font)
	if err != nil {
		return config.Config{}, nil, err
	}
	c.Logger.Debug("loaded stamp font", "path", cfg.Canvas.Font, "name", fonts.Name())
	return cfg, fonts, nil
}

func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String())
		},
	}
}
