package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"LocalSketch/internal/config"
	"LocalSketch/internal/export"
	"LocalSketch/internal/protocol"
	"LocalSketch/internal/render"
	"LocalSketch/internal/state"
)

type replayFlags struct {
	out    string
	scale  int
	dryRun bool
}

func (c *CLI) replayCommand() *cobra.Command {
	var flags replayFlags

	cmd := &cobra.Command{
		Use:   "replay <script>",
		Short: "Apply an action script and export the result",
		Long: `Apply an action script and export the result.

The script holds one JSON message per line, as sent by the browser bridge:

  {"op":"begin","x":10,"y":10,"tool":{"kind":"stroke","width":4,"opacity":1}}
  {"op":"move","x":80,"y":40}
  {"op":"end"}
  {"op":"undo"}

Use "-" to read from stdin. An export message in the script sets the output
scale unless --scale is given.`,
		Example: `  localsketch replay drawing.jsonl -o drawing.png --scale 4
  localsketch replay drawing.jsonl -o drawing.pdf
  localsketch replay drawing.jsonl --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, fonts, err := c.load()
			if err != nil {
				return err
			}
			in, closeIn, err := openScript(args[0])
			if err != nil {
				return err
			}
			defer closeIn()
			return c.runReplay(in, cfg, fonts, flags, loggerFromContext(cmd.Context()))
		},
	}

	cmd.Flags().StringVarP(&flags.out, "out", "o", "sketch.png", "output file (.png or .pdf)")
	cmd.Flags().IntVarP(&flags.scale, "scale", "s", 0, "export scale factor (1-8, default from config)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "list the drawing calls instead of exporting")
	return cmd
}

func openScript(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func (c *CLI) runReplay(in io.Reader, cfg config.Config, fonts *render.Fonts, flags replayFlags, logger *log.Logger) error {
	prog := newProgress(logger)
	msgs, err := protocol.ReadScript(in)
	if err != nil {
		return err
	}

	session := state.NewSession(state.WithLogger(logger), state.WithTool(cfg.StrokeTool()))
	scriptScale, err := applyScript(session, msgs)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Replayed %d messages", len(msgs)))

	snap := session.Snapshot()
	if flags.dryRun {
		rec := render.NewRecorder()
		session.RenderHistory(rec)
		printInfo("%s", StyleTitle.Render("Drawing calls"))
		for _, op := range rec.Ops() {
			printDetail("%s", op)
		}
		printSummary(snap)
		return nil
	}

	scale := flags.scale
	if scale == 0 {
		scale = scriptScale
	}
	if scale == 0 {
		scale = cfg.Export.Scale
	}
	if err := export.ToFile(flags.out, session, cfg.RasterOptions(scale, fonts)); err != nil {
		return err
	}
	printSuccess("Exported at %dx", scale)
	printFile(flags.out)
	printSummary(snap)
	return nil
}

// applyScript applies msgs in order. It returns the scale of the last export
// message, or 0 when the script has none.
func applyScript(s *state.Session, msgs []protocol.Message) (int, error) {
	scale := 0
	for i, m := range msgs {
		if m.Op == protocol.OpExport {
			if err := m.Validate(); err != nil {
				return 0, fmt.Errorf("message %d: %w", i+1, err)
			}
			scale = m.Scale
			continue
		}
		if err := protocol.Apply(s, m); err != nil {
			return 0, fmt.Errorf("message %d (%s): %w", i+1, m.Op, err)
		}
	}
	if s.Mode() == state.Drawing {
		// A script that stops mid-gesture still exports what was drawn.
		_ = s.EndAction()
	}
	return scale, nil
}

func printSummary(s state.Snapshot) {
	printKeyValue("committed", fmt.Sprint(s.Committed))
	printKeyValue("redo", fmt.Sprint(s.Redo))
	if s.Extent.Empty() {
		printKeyValue("extent", "empty")
		return
	}
	printKeyValue("extent", fmt.Sprintf("%.0fx%.0f at (%.0f,%.0f)",
		s.Extent.Width(), s.Extent.Height(), s.Extent.Min.X, s.Extent.Min.Y))
}
