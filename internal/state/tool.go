package state

import (
	"bytes"
	"encoding/json"
	"fmt"

	skerr "LocalSketch/internal/errors"
)

// ToolKind selects what a new action creates.
type ToolKind string

const (
	ToolStroke ToolKind = "stroke"
	ToolStamp  ToolKind = "stamp"
)

// Tool describes the settings used for the next action. Changing the tool is
// not an undoable action.
type Tool struct {
	Kind    ToolKind `json:"kind" toml:"kind"`
	Width   float64  `json:"width,omitempty" toml:"width"`
	Opacity float64  `json:"opacity" toml:"opacity"`
	Glyph   string   `json:"glyph,omitempty" toml:"glyph"`
	Size    float64  `json:"size,omitempty" toml:"size"`
}

// DefaultStrokeTool is a thin, opaque marker.
func DefaultStrokeTool() Tool {
	return Tool{Kind: ToolStroke, Width: 3, Opacity: 1}
}

// DefaultStampTool stamps a heart.
func DefaultStampTool() Tool {
	return Tool{Kind: ToolStamp, Glyph: "♥", Size: 32}
}

// UnmarshalJSON decodes a tool, rejecting unknown fields. A stroke tool
// without an opacity is opaque.
func (t *Tool) UnmarshalJSON(data []byte) error {
	type plain Tool
	var aux struct {
		plain
		Opacity *float64 `json:"opacity"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&aux); err != nil {
		return err
	}
	*t = Tool(aux.plain)
	switch {
	case aux.Opacity != nil:
		t.Opacity = *aux.Opacity
	case t.Kind == ToolStroke:
		t.Opacity = 1
	}
	return nil
}

// Validate checks the settings the active kind depends on.
func (t Tool) Validate() error {
	switch t.Kind {
	case ToolStroke:
		if t.Width <= 0 {
			return skerr.New(skerr.ErrCodeInvalidTool, "stroke width must be positive, got %v", t.Width)
		}
		if t.Opacity < 0 || t.Opacity > 1 {
			return skerr.New(skerr.ErrCodeInvalidTool, "opacity must be within [0,1], got %v", t.Opacity)
		}
	case ToolStamp:
		if t.Glyph == "" {
			return skerr.New(skerr.ErrCodeInvalidTool, "stamp glyph is empty")
		}
		if t.Size <= 0 {
			return skerr.New(skerr.ErrCodeInvalidTool, "stamp size must be positive, got %v", t.Size)
		}
	default:
		return skerr.New(skerr.ErrCodeInvalidTool, "unknown tool kind %q", t.Kind)
	}
	return nil
}

func (t Tool) String() string {
	if t.Kind == ToolStamp {
		return fmt.Sprintf("stamp(%s, size=%g)", t.Glyph, t.Size)
	}
	return fmt.Sprintf("stroke(width=%g, opacity=%g)", t.Width, t.Opacity)
}
