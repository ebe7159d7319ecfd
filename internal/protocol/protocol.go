// Package protocol defines the JSON action messages that drive a sketch
// session from outside the process: the replay script format and the
// websocket bridge share it.
//
// A message is one JSON object:
//
//	{"op": "begin", "x": 10, "y": 12, "tool": {"kind": "stroke", "width": 4, "opacity": 1}}
//	{"op": "move", "x": 14, "y": 15}
//	{"op": "end"}
//	{"op": "undo"}
//
// Scripts hold one message per line; blank lines and lines starting with #
// are ignored.
package protocol

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"

	skerr "LocalSketch/internal/errors"
	"LocalSketch/internal/state"
)

// Op names an action.
type Op string

const (
	OpBegin  Op = "begin"
	OpMove   Op = "move"
	OpEnd    Op = "end"
	OpHover  Op = "hover"
	OpLeave  Op = "leave"
	OpUndo   Op = "undo"
	OpRedo   Op = "redo"
	OpClear  Op = "clear"
	OpTool   Op = "tool"
	OpExport Op = "export"
)

// Message is one action sent to a session.
type Message struct {
	Op    Op          `json:"op"`
	X     float64     `json:"x,omitempty"`
	Y     float64     `json:"y,omitempty"`
	Tool  *state.Tool `json:"tool,omitempty"`
	Scale int         `json:"scale,omitempty"`
}

// Point returns the message coordinates.
func (m Message) Point() state.Point { return state.Pt(m.X, m.Y) }

// Validate checks that the message is well formed. It does not check whether
// the op is legal in the session's current state.
func (m Message) Validate() error {
	switch m.Op {
	case OpBegin, OpMove, OpHover:
		if !finite(m.X) || !finite(m.Y) {
			return skerr.New(skerr.ErrCodeInvalidMessage, "%s: coordinates must be finite", m.Op)
		}
	case OpTool:
		if m.Tool == nil {
			return skerr.New(skerr.ErrCodeInvalidMessage, "tool: missing tool")
		}
	case OpEnd, OpLeave, OpUndo, OpRedo, OpClear, OpExport:
	case "":
		return skerr.New(skerr.ErrCodeInvalidMessage, "missing op")
	default:
		return skerr.New(skerr.ErrCodeInvalidMessage, "unknown op %q", m.Op)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Parse decodes and validates a single message.
func Parse(data []byte) (Message, error) {
	var m Message
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return Message{}, skerr.Wrap(skerr.ErrCodeInvalidMessage, err, "decode message")
	}
	if err := m.Validate(); err != nil {
		return Message{}, err
	}
	return m, nil
}

// ReadScript reads a message per line from r.
func ReadScript(r io.Reader) ([]Message, error) {
	var msgs []Message
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 || text[0] == '#' {
			continue
		}
		m, err := Parse(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		msgs = append(msgs, m)
	}
	if err := sc.Err(); err != nil {
		return nil, skerr.Wrap(skerr.ErrCodeInvalidInput, err, "read script")
	}
	return msgs, nil
}

// WriteScript writes msgs one per line.
func WriteScript(w io.Writer, msgs []Message) error {
	enc := json.NewEncoder(w)
	for _, m := range msgs {
		if err := enc.Encode(m); err != nil {
			return err
		}
	}
	return nil
}

// Apply performs m on s. A begin without a tool uses the session's current
// tool. Export is not a session action and is rejected here; transports
// handle it themselves.
func Apply(s *state.Session, m Message) error {
	if err := m.Validate(); err != nil {
		return err
	}
	switch m.Op {
	case OpBegin:
		tool := s.Tool()
		if m.Tool != nil {
			tool = *m.Tool
		}
		return s.BeginAction(m.Point(), tool)
	case OpMove:
		return s.ContinueAction(m.Point())
	case OpEnd:
		return s.EndAction()
	case OpHover:
		s.Hover(m.Point())
		return nil
	case OpLeave:
		s.Leave()
		return nil
	case OpUndo:
		_, err := s.Undo()
		return err
	case OpRedo:
		_, err := s.Redo()
		return err
	case OpClear:
		return s.Clear()
	case OpTool:
		return s.SetTool(*m.Tool)
	}
	return skerr.New(skerr.ErrCodeInvalidMessage, "op %q is not a session action", m.Op)
}
