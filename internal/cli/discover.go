package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	sknet "LocalSketch/internal/net"
)

func (c *CLI) discoverCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "List sketch servers on the LAN",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			logger.Debug("browsing", "service", sknet.ServiceType, "timeout", timeout)

			found := 0
			err := sknet.Browse(timeout, func(s sknet.Service) {
				found++
				printInfo("%s %s", StyleValue.Render(s.Instance), StyleLink.Render(s.URL()))
				if len(s.Info) > 0 {
					printDetail("%s", strings.Join(s.Info, " "))
				}
			})
			if err != nil {
				return err
			}
			if found == 0 {
				printWarning("no servers found within %s", timeout)
			}
			return nil
		},
	}

	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 3*time.Second, "how long to listen for answers")
	return cmd
}
