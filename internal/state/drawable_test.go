package state_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalSketch/internal/render"
	"LocalSketch/internal/state"
)

func TestStrokeRender(t *testing.T) {
	tests := []struct {
		name   string
		points []state.Point
		want   int
	}{
		{"single point", []state.Point{{X: 1, Y: 1}}, 0},
		{"two points", []state.Point{{X: 0, Y: 0}, {X: 10, Y: 10}}, 1},
		{"many points", []state.Point{{X: 0, Y: 0}, {X: 1, Y: 2}, {X: 3, Y: 4}, {X: 5, Y: 6}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := stroke(tt.points...)
			rec := render.NewRecorder()
			s.Render(rec)
			require.Len(t, rec.Ops(), tt.want)
			if tt.want > 0 {
				assert.Equal(t, tt.points, rec.Ops()[0].Points, "insertion order")
			}
		})
	}
}

func TestStrokeRenderIsIdempotent(t *testing.T) {
	s := stroke(state.Pt(0, 0), state.Pt(4, 4))
	rec := render.NewRecorder()
	s.Render(rec)
	s.Render(rec)
	ops := rec.Ops()
	require.Len(t, ops, 2)
	assert.Equal(t, ops[0], ops[1])
}

func TestStrokeCarriesSettings(t *testing.T) {
	s := state.NewStroke(state.Pt(0, 0), 7, 0.25)
	s.Drag(state.Pt(1, 0))
	rec := render.NewRecorder()
	s.Render(rec)
	assert.Equal(t, 7.0, rec.Ops()[0].Width)
	assert.Equal(t, 0.25, rec.Ops()[0].Opacity)
	assert.Equal(t, state.KindStroke, s.Kind())
}

func TestStampFollowsLastDrag(t *testing.T) {
	s := state.NewStamp(state.Pt(0, 0), "★", 32)
	s.Drag(state.Pt(3, 4))
	s.Drag(state.Pt(7, 8))

	rec := render.NewRecorder()
	s.Render(rec)
	require.Len(t, rec.Ops(), 1)
	op := rec.Ops()[0]
	assert.Equal(t, render.OpGlyph, op.Kind)
	assert.Equal(t, 7.0, op.X)
	assert.Equal(t, 8.0, op.Y)
	assert.Equal(t, 32.0, op.Size)
	assert.Equal(t, state.Pt(7, 8), s.Position())
}

func TestClearMarker(t *testing.T) {
	c := state.NewClearMarker()
	c.Drag(state.Pt(1, 1))
	rec := render.NewRecorder()
	c.Render(rec)
	require.Len(t, rec.Ops(), 1)
	assert.Equal(t, render.OpClear, rec.Ops()[0].Kind)
}

func TestDrawableIDsAreUnique(t *testing.T) {
	a := state.NewClearMarker()
	b := state.NewClearMarker()
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestPointsReturnsCopy(t *testing.T) {
	s := stroke(state.Pt(0, 0), state.Pt(1, 1))
	pts := s.Points()
	pts[0] = state.Pt(9, 9)
	assert.Equal(t, state.Pt(0, 0), s.Points()[0])
}
