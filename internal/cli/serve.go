package cli

import (
	"net"

	"github.com/spf13/cobra"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		advertise bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the sketchpad to browsers on the LAN",
		Long: `Serve the sketchpad to browsers on the LAN.

Every browser connection gets its own canvas. Frames are replayed on the
server and sent as PNG; export from the page downloads a scaled PNG.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, fonts, err := c.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("advertise") {
				cfg.Server.Advertise = advertise
			}

			l, err := net.Listen("tcp", cfg.Server.Addr)
			if err != nil {
				return err
			}
			link, err := c.shareLink(l)
			if err != nil {
				_ = l.Close()
				return err
			}
			printLink("Open", link)
			if cfg.Server.Advertise {
				printDetail("discoverable with: %s discover", appName)
			}
			return c.runBridge(cmd.Context(), l, cfg, fonts)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8888", "listen address")
	cmd.Flags().BoolVar(&advertise, "advertise", false, "announce the server over mDNS")
	return cmd
}
