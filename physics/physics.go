package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/groundcheck/surface"
)

// Handle refers to a single collider in a Querier. Handles are only
// meaningful to the Querier that returned them.
type Handle uint32

// NoHandle is the empty handle. Scratch buffers are reset to it between queries.
const NoHandle Handle = 0

// BodyID identifies a body that owns colliders.
type BodyID uint64

// NoBody is the owner of static geometry.
const NoBody BodyID = 0

// Querier bridges the physics world for overlap queries and collider lookups.
type Querier interface {
	// OverlapBox writes the handles of up to len(out) colliders overlapping the
	// box centered at center with the given half extents and orientation, and
	// returns how many were written. Colliders past len(out) are dropped.
	OverlapBox(center, halfExtents mgl64.Vec3, rot mgl64.Quat, out []Handle) int
	// Surface returns the surface labels of the collider.
	Surface(h Handle) surface.Set
	// Owner returns the body the collider belongs to, or NoBody.
	Owner(h Handle) BodyID
}

// Transform is the world pose of a body. Scale is not part of it.
type Transform struct {
	Pos mgl64.Vec3
	Rot mgl64.Quat
}

// Identity returns a Transform at pos with no rotation.
func Identity(pos mgl64.Vec3) Transform {
	return Transform{Pos: pos, Rot: mgl64.QuatIdent()}
}

// Rotation returns the normalised rotation of the transform. The zero
// quaternion is treated as no rotation so that zero Transforms are usable.
func (t Transform) Rotation() mgl64.Quat {
	if t.Rot.W == 0 && t.Rot.V == (mgl64.Vec3{}) {
		return mgl64.QuatIdent()
	}
	return t.Rot.Normalize()
}

// Point transforms a point from the body's local frame into world space.
func (t Transform) Point(local mgl64.Vec3) mgl64.Vec3 {
	return t.Pos.Add(t.Rotation().Rotate(local))
}
