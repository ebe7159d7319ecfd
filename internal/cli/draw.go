package cli

import (
	"context"
	"errors"
	"net"

	"github.com/spf13/cobra"

	"LocalSketch/internal/config"
	sknet "LocalSketch/internal/net"
	"LocalSketch/internal/render"
	"LocalSketch/internal/server"
	"LocalSketch/internal/ui"
)

func (c *CLI) drawCommand() *cobra.Command {
	var share bool

	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Open the desktop sketchpad",
		Long: `Open the desktop sketchpad.

With --share the browser bridge also runs, on the address from the config
file, and its link is shown in the status bar. Browser visitors get their own
canvas.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, fonts, err := c.load()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			var link string
			var bridge chan error
			if share {
				l, err := net.Listen("tcp", cfg.Server.Addr)
				if err != nil {
					return err
				}
				if link, err = c.shareLink(l); err != nil {
					_ = l.Close()
					return err
				}
				bridge = make(chan error, 1)
				go func() { bridge <- c.runBridge(ctx, l, cfg, fonts) }()
			}

			err = ui.RunApp(ui.AppOptions{Config: cfg, Fonts: fonts, Logger: c.Logger, ShareLink: link})
			cancel()
			if bridge != nil {
				if berr := <-bridge; berr != nil && !errors.Is(berr, context.Canceled) {
					c.Logger.Error("bridge stopped", "err", berr)
				}
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&share, "share", false, "also serve the canvas to browsers on the LAN")
	return cmd
}

func (c *CLI) shareLink(l net.Listener) (string, error) {
	port, err := sknet.PortOf(l.Addr().String())
	if err != nil {
		return "", err
	}
	return sknet.ShareLink(port), nil
}

// runBridge serves the websocket bridge on l until ctx is done, advertising
// it over mDNS when the config asks for it.
func (c *CLI) runBridge(ctx context.Context, l net.Listener, cfg config.Config, fonts *render.Fonts) error {
	logger := loggerFromContext(ctx)
	if cfg.Server.Advertise {
		port, err := sknet.PortOf(l.Addr().String())
		if err != nil {
			return err
		}
		zone, err := sknet.Advertise(port, appName)
		if err != nil {
			logger.Warn("mDNS advertisement failed", "err", err)
		} else {
			logger.Info("advertising", "service", sknet.ServiceType, "port", port)
			defer func() { _ = zone.Shutdown() }()
		}
	}
	srv := server.New(server.Options{Config: cfg, Fonts: fonts, Logger: logger})
	return srv.Serve(ctx, l)
}
