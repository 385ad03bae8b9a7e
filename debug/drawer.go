package debug

import (
	"context"
	"image/color"
	"log/slog"

	float_cube "github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// Compile time checks to make sure the drawers implement BoundsDrawer.
var (
	_ BoundsDrawer = LogDrawer{}
	_ BoundsDrawer = (*Recorder)(nil)
)

// LogDrawer writes every line and box it receives to a logger at debug level.
type LogDrawer struct {
	Logger *slog.Logger
}

// DrawLine ...
func (d LogDrawer) DrawLine(from, to mgl32.Vec3, c color.RGBA) {
	l := d.Logger
	if l == nil {
		l = slog.Default()
	}
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	l.Debug("probe edge", "from", from, "to", to, "rgba", [4]uint8{c.R, c.G, c.B, c.A})
}

// DrawBounds ...
func (d LogDrawer) DrawBounds(bb float_cube.BBox, c color.RGBA) {
	l := d.Logger
	if l == nil {
		l = slog.Default()
	}
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	l.Debug("probe bounds", "min", bb.Min(), "max", bb.Max(), "rgba", [4]uint8{c.R, c.G, c.B, c.A})
}

// Line is a single wireframe segment.
type Line struct {
	From, To mgl32.Vec3
	Colour   color.RGBA
}

// Recorder is a BoundsDrawer that keeps every line and box it receives.
type Recorder struct {
	Lines  []Line
	Bounds []float_cube.BBox
}

// DrawLine ...
func (r *Recorder) DrawLine(from, to mgl32.Vec3, c color.RGBA) {
	r.Lines = append(r.Lines, Line{From: from, To: to, Colour: c})
}

// DrawBounds ...
func (r *Recorder) DrawBounds(bb float_cube.BBox, _ color.RGBA) {
	r.Bounds = append(r.Bounds, bb)
}
