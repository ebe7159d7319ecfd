package cli

import (
	"bytes"
	"context"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"LocalSketch/internal/buildinfo"
	"LocalSketch/internal/config"
	"LocalSketch/internal/protocol"
	"LocalSketch/internal/state"
)

const script = `# two strokes, one undone
{"op":"begin","x":10,"y":10,"tool":{"kind":"stroke","width":4,"opacity":1}}
{"op":"move","x":50,"y":30}
{"op":"end"}
{"op":"begin","x":5,"y":5}
{"op":"move","x":6,"y":6}
{"op":"end"}
{"op":"undo"}
{"op":"export","scale":3}
`

func smallConfig() config.Config {
	cfg := config.Default()
	cfg.Canvas.Width, cfg.Canvas.Height = 60, 40
	return cfg
}

func TestApplyScript(t *testing.T) {
	msgs, err := protocol.ReadScript(strings.NewReader(script))
	if err != nil {
		t.Fatalf("ReadScript() error = %v", err)
	}
	s := state.NewSession()
	scale, err := applyScript(s, msgs)
	if err != nil {
		t.Fatalf("applyScript() error = %v", err)
	}
	if scale != 3 {
		t.Errorf("scale = %d, want 3", scale)
	}
	snap := s.Snapshot()
	if snap.Committed != 1 || snap.Redo != 1 {
		t.Errorf("committed/redo = %d/%d, want 1/1", snap.Committed, snap.Redo)
	}
}

func TestApplyScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{"move while idle", `{"op":"move","x":1,"y":1}`, "message 1 (move)"},
		{"undo while drawing", "{\"op\":\"begin\",\"x\":1,\"y\":1}\n{\"op\":\"undo\"}", "message 2 (undo)"},
		{"bad tool", `{"op":"tool","tool":{"kind":"stroke","width":0,"opacity":1}}`, "message 1 (tool)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs, err := protocol.ReadScript(strings.NewReader(tt.script))
			if err != nil {
				t.Fatalf("ReadScript() error = %v", err)
			}
			_, err = applyScript(state.NewSession(), msgs)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("applyScript() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestApplyScriptClosesOpenGesture(t *testing.T) {
	msgs, _ := protocol.ReadScript(strings.NewReader(`{"op":"begin","x":1,"y":1}`))
	s := state.NewSession()
	if _, err := applyScript(s, msgs); err != nil {
		t.Fatalf("applyScript() error = %v", err)
	}
	if s.Mode() != state.Idle {
		t.Errorf("mode = %v, want idle", s.Mode())
	}
}

func TestRunReplayPNG(t *testing.T) {
	c := New(io.Discard, LogInfo)
	out := filepath.Join(t.TempDir(), "out.png")

	err := c.runReplay(strings.NewReader(script), smallConfig(), nil, replayFlags{out: out}, c.Logger)
	if err != nil {
		t.Fatalf("runReplay() error = %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	// The script's export message picks 3x.
	if got := img.Bounds().Dx(); got != 180 {
		t.Errorf("width = %d, want 180", got)
	}
}

func TestRunReplayScaleFlagWins(t *testing.T) {
	c := New(io.Discard, LogInfo)
	out := filepath.Join(t.TempDir(), "out.pdf")

	err := c.runReplay(strings.NewReader(script), smallConfig(), nil, replayFlags{out: out, scale: 1}, c.Logger)
	if err != nil {
		t.Fatalf("runReplay() error = %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("output is not a PDF")
	}
}

func TestRunReplayDryRunWritesNothing(t *testing.T) {
	c := New(io.Discard, LogInfo)
	out := filepath.Join(t.TempDir(), "out.png")

	err := c.runReplay(strings.NewReader(script), smallConfig(), nil, replayFlags{out: out, dryRun: true}, c.Logger)
	if err != nil {
		t.Fatalf("runReplay() error = %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("dry run created %s", out)
	}
}

func TestRunReplayBadScale(t *testing.T) {
	c := New(io.Discard, LogInfo)
	out := filepath.Join(t.TempDir(), "out.png")
	err := c.runReplay(strings.NewReader(script), smallConfig(), nil, replayFlags{out: out, scale: 9}, c.Logger)
	if err == nil {
		t.Error("runReplay() with scale 9 succeeded")
	}
}

func TestRootCommand(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"draw", "serve", "replay", "discover", "version"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("missing --config flag")
	}
	if root.Flags().Lookup("share") == nil {
		t.Error("root command does not accept draw's --share flag")
	}
}

func TestVersionCommand(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	if err := root.Execute(); err != nil {
		t.Fatalf("version error = %v", err)
	}
	if got, want := strings.TrimSpace(out.String()), buildinfo.String(); got != want {
		t.Errorf("version output = %q, want %q", got, want)
	}
}

func TestLoggerContext(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, log.DebugLevel)
	ctx := withLogger(context.Background(), l)
	if got := loggerFromContext(ctx); got != l {
		t.Error("loggerFromContext() did not return the attached logger")
	}
	if got := loggerFromContext(context.Background()); got != log.Default() {
		t.Error("loggerFromContext() without a logger should return log.Default()")
	}

	newProgress(l).done("Replayed 3 messages")
	if !strings.Contains(buf.String(), "Replayed 3 messages") {
		t.Errorf("progress output = %q", buf.String())
	}
}

func TestLoadMissingConfig(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.configPath = filepath.Join(t.TempDir(), "none.toml")
	cfg, fonts, err := c.load()
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if fonts != nil {
		t.Error("fonts should be nil without a font path")
	}
	if cfg.Canvas.Width != config.Default().Canvas.Width {
		t.Errorf("width = %d, want default", cfg.Canvas.Width)
	}
}
