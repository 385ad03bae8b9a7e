package physics

import (
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
)

// separationEpsilon lets boxes that exactly touch count as overlapping.
const separationEpsilon = 1e-9

// OBB is an oriented bounding box.
type OBB struct {
	Center      mgl64.Vec3
	HalfExtents mgl64.Vec3
	Rot         mgl64.Quat
}

// NewOBB returns an OBB. A zero rotation is treated as identity.
func NewOBB(center, halfExtents mgl64.Vec3, rot mgl64.Quat) OBB {
	return OBB{Center: center, HalfExtents: halfExtents, Rot: Transform{Rot: rot}.Rotation()}
}

// Axes returns the box's local x, y and z axes in world space.
func (o OBB) Axes() [3]mgl64.Vec3 {
	return [3]mgl64.Vec3{
		o.Rot.Rotate(mgl64.Vec3{1, 0, 0}),
		o.Rot.Rotate(mgl64.Vec3{0, 1, 0}),
		o.Rot.Rotate(mgl64.Vec3{0, 0, 1}),
	}
}

// Corners returns the eight corners of the box. Bit 0, 1 and 2 of the index
// select the positive x, y and z face respectively.
func (o OBB) Corners() [8]mgl64.Vec3 {
	axes := o.Axes()
	var corners [8]mgl64.Vec3
	for i := range corners {
		c := o.Center
		for a := range 3 {
			sign := -1.0
			if i&(1<<a) != 0 {
				sign = 1
			}
			c = c.Add(axes[a].Mul(sign * o.HalfExtents[a]))
		}
		corners[i] = c
	}
	return corners
}

// Bounds returns the axis-aligned box enclosing the OBB.
func (o OBB) Bounds() cube.BBox {
	axes := o.Axes()
	var ext mgl64.Vec3
	for i := range 3 {
		for a := range 3 {
			ext[i] += math.Abs(axes[a][i]) * o.HalfExtents[a]
		}
	}
	min, max := o.Center.Sub(ext), o.Center.Add(ext)
	return cube.Box(min[0], min[1], min[2], max[0], max[1], max[2])
}

// IntersectsBBox returns whether the OBB overlaps the axis-aligned box bb.
// Boxes sharing only a face, edge or corner are considered overlapping.
func (o OBB) IntersectsBBox(bb cube.BBox) bool {
	bMin, bMax := bb.Min(), bb.Max()
	bCenter := bMin.Add(bMax).Mul(0.5)
	bHalf := bMax.Sub(bMin).Mul(0.5)

	axes := o.Axes()
	t := bCenter.Sub(o.Center)

	// absR[i][j] = |axes[i] . e_j|
	var absR [3][3]float64
	for i := range 3 {
		for j := range 3 {
			absR[i][j] = math.Abs(axes[i][j])
		}
	}
	// Translation in the OBB's frame.
	tA := mgl64.Vec3{t.Dot(axes[0]), t.Dot(axes[1]), t.Dot(axes[2])}
	e := o.HalfExtents

	// OBB face axes.
	for i := range 3 {
		ra := e[i]
		rb := bHalf[0]*absR[i][0] + bHalf[1]*absR[i][1] + bHalf[2]*absR[i][2]
		if separated(tA[i], ra+rb) {
			return false
		}
	}
	// World axes.
	for j := range 3 {
		ra := e[0]*absR[0][j] + e[1]*absR[1][j] + e[2]*absR[2][j]
		if separated(t[j], ra+bHalf[j]) {
			return false
		}
	}
	// Edge cross products axes[i] x e_j.
	for i := range 3 {
		for j := range 3 {
			axis := axes[i].Cross(unit(j))
			if axis.Dot(axis) < 1e-12 {
				// Parallel edges; covered by the face axes above.
				continue
			}
			ra, rb := 0.0, 0.0
			for k := range 3 {
				ra += e[k] * math.Abs(axes[k].Dot(axis))
				rb += bHalf[k] * math.Abs(axis[k])
			}
			if separated(t.Dot(axis), ra+rb) {
				return false
			}
		}
	}
	return true
}

func separated(dist, radius float64) bool {
	return math.Abs(dist)-radius > separationEpsilon
}

func unit(i int) mgl64.Vec3 {
	var v mgl64.Vec3
	v[i] = 1
	return v
}
