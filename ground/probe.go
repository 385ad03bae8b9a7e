package ground

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/groundcheck/assert"
	"github.com/oomph-ac/groundcheck/physics"
	"github.com/oomph-ac/groundcheck/surface"
)

// Shape is the probe box in the body's local frame.
type Shape struct {
	// Offset is the center of the box relative to the body origin.
	Offset mgl64.Vec3
	// HalfExtents are the half sizes of the box along the body's local axes.
	// All components must be non-negative; zero components flatten the box.
	HalfExtents mgl64.Vec3
}

// ShapeFromSize returns a Shape from the full size of the box.
func ShapeFromSize(offset, size mgl64.Vec3) Shape {
	return Shape{Offset: offset, HalfExtents: size.Mul(0.5)}
}

// DefaultShape is a thin box just under a unit-height body.
var DefaultShape = ShapeFromSize(mgl64.Vec3{0, -0.52, 0}, mgl64.Vec3{0.99, 0.02, 0.99})

// DefaultCapacity is the number of overlaps a probe inspects per query.
const DefaultCapacity = 3

// Probe tests for ground under a single body. It owns its result buffer, so
// a Probe must only be evaluated by one goroutine at a time; give each body
// its own Probe.
type Probe struct {
	body   physics.BodyID
	shape  Shape
	ground surface.Set

	hits []physics.Handle
}

// NewProbe returns a Probe for body testing against colliders carrying any
// label in ground. capacity bounds the number of overlaps inspected per
// Evaluate and must be at least 1.
func NewProbe(body physics.BodyID, shape Shape, ground surface.Set, capacity int) *Probe {
	assert.IsTrue(capacity > 0, "ground: probe capacity must be positive, got %d", capacity)
	for i := range 3 {
		assert.IsTrue(shape.HalfExtents[i] >= 0, "ground: probe half extents must be non-negative, got %v", shape.HalfExtents)
	}
	return &Probe{
		body:   body,
		shape:  shape,
		ground: ground,
		hits:   make([]physics.Handle, capacity),
	}
}

// Evaluate returns whether the body at t stands on a collider in w that
// carries a ground label and is not owned by the body itself. At most
// Capacity overlaps are inspected; if the query returns more, the rest are
// never seen and an eligible collider among them does not count.
func (p *Probe) Evaluate(t physics.Transform, w physics.Querier) bool {
	defer clear(p.hits)

	rot := t.Rotation()
	center := t.Pos.Add(rot.Rotate(p.shape.Offset))
	n := min(max(w.OverlapBox(center, p.shape.HalfExtents, rot, p.hits), 0), len(p.hits))
	for _, h := range p.hits[:n] {
		if h == physics.NoHandle || w.Owner(h) == p.body {
			continue
		}
		if w.Surface(h).Intersects(p.ground) {
			return true
		}
	}
	return false
}

// Box returns the world-space box Evaluate would query for a body at t.
func (p *Probe) Box(t physics.Transform) physics.OBB {
	rot := t.Rotation()
	return physics.NewOBB(t.Pos.Add(rot.Rotate(p.shape.Offset)), p.shape.HalfExtents, rot)
}

// Body returns the body the probe ignores.
func (p *Probe) Body() physics.BodyID {
	return p.body
}

// Shape returns the probe's local box.
func (p *Probe) Shape() Shape {
	return p.shape
}

// Ground returns the labels accepted as ground.
func (p *Probe) Ground() surface.Set {
	return p.ground
}

// Capacity returns the size of the result buffer.
func (p *Probe) Capacity() int {
	return len(p.hits)
}

// pending returns the number of non-empty slots in the result buffer.
func (p *Probe) pending() int {
	n := 0
	for _, h := range p.hits {
		if h != physics.NoHandle {
			n++
		}
	}
	return n
}
