package debug

import (
	"image/color"

	float_cube "github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/groundcheck/game"
	"github.com/oomph-ac/groundcheck/physics"
	"github.com/oomph-ac/groundcheck/utils"
)

// DefaultTrail is the number of frames a Visualizer keeps by default.
const DefaultTrail = 20

var (
	// AirborneColour is used for frames where the probe found no ground.
	AirborneColour = color.RGBA{R: 0xff, A: 0xff}
	// GroundedColour is used for frames where the probe found ground.
	GroundedColour = color.RGBA{G: 0xff, A: 0xff}
)

// Edges lists the corner index pairs forming the 12 edges of a box, using
// the corner order of physics.OBB.Corners.
var Edges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7}, // x
	{0, 2}, {1, 3}, {4, 6}, {5, 7}, // y
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // z
}

// Frame is a snapshot of one probe query.
type Frame struct {
	Body     physics.BodyID
	Tick     uint64
	Grounded bool
	Box      physics.OBB
}

// Bounds returns the axis-aligned bounds of the probe box in float32, for
// renderers working in single precision.
func (f Frame) Bounds() float_cube.BBox {
	b := f.Box.Bounds()
	min, max := game.Vec64To32(b.Min()), game.Vec64To32(b.Max())
	return float_cube.Box(min[0], min[1], min[2], max[0], max[1], max[2])
}

// Colour returns the wireframe colour of the frame.
func (f Frame) Colour() color.RGBA {
	if f.Grounded {
		return GroundedColour
	}
	return AirborneColour
}

// Drawer receives wireframe line segments.
type Drawer interface {
	DrawLine(from, to mgl32.Vec3, c color.RGBA)
}

// BoundsDrawer is a Drawer that also receives the axis-aligned bounds of every
// frame it draws, after the frame's edges.
type BoundsDrawer interface {
	Drawer
	DrawBounds(bb float_cube.BBox, c color.RGBA)
}

// Visualizer keeps a trail of probe frames for one body. A disabled
// Visualizer records nothing. It is not safe for concurrent use.
type Visualizer struct {
	enabled bool
	trail   *utils.CircularQueue[Frame]
}

// NewVisualizer returns a Visualizer keeping up to trail frames. A trail of
// zero or less uses DefaultTrail.
func NewVisualizer(enabled bool, trail int) *Visualizer {
	if trail <= 0 {
		trail = DefaultTrail
	}
	return &Visualizer{enabled: enabled, trail: utils.NewCircularQueue[Frame](trail)}
}

// Enabled returns whether the Visualizer records frames.
func (v *Visualizer) Enabled() bool {
	return v != nil && v.enabled
}

// SetEnabled toggles recording. Disabling drops the recorded trail.
func (v *Visualizer) SetEnabled(enabled bool) {
	v.enabled = enabled
	if !enabled {
		v.trail.Reset()
	}
}

// Record appends f to the trail, dropping the oldest frame if it is full.
func (v *Visualizer) Record(f Frame) {
	if !v.Enabled() {
		return
	}
	_ = v.trail.Append(f)
}

// Frames returns the recorded frames from oldest to newest.
func (v *Visualizer) Frames() []Frame {
	if v == nil {
		return nil
	}
	frames := make([]Frame, 0, v.trail.Len())
	for f := range v.trail.Iter() {
		frames = append(frames, f)
	}
	return frames
}

// Latest returns the most recent frame.
func (v *Visualizer) Latest() (Frame, bool) {
	if v == nil || v.trail.Len() == 0 {
		return Frame{}, false
	}
	f, err := v.trail.Get(v.trail.Len() - 1)
	return f, err == nil
}

// Draw sends the wireframe of every recorded frame to d and returns the
// number of lines drawn.
func (v *Visualizer) Draw(d Drawer) int {
	if !v.Enabled() {
		return 0
	}
	n := 0
	for f := range v.trail.Iter() {
		n += DrawFrame(d, f)
	}
	return n
}

// DrawFrame sends the 12 edges of the frame's box to d, followed by the
// frame's bounds if d is a BoundsDrawer. It returns the number of lines drawn.
func DrawFrame(d Drawer, f Frame) int {
	corners := f.Box.Corners()
	c := f.Colour()
	for _, e := range Edges {
		d.DrawLine(game.Vec64To32(corners[e[0]]), game.Vec64To32(corners[e[1]]), c)
	}
	if bd, ok := d.(BoundsDrawer); ok {
		bd.DrawBounds(f.Bounds(), c)
	}
	return len(Edges)
}
