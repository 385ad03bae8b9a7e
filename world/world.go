package world

import (
	"log/slog"
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/groundcheck/physics"
	"github.com/oomph-ac/groundcheck/surface"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sasha-s/go-deadlock"
)

// columnShift is log2 of the horizontal size of a column.
const columnShift = 4

// Collider is an axis-aligned box registered in a World.
type Collider struct {
	Handle  physics.Handle
	Box     cube.BBox
	Owner   physics.BodyID
	Surface surface.Set
}

type column = orderedmap.OrderedMap[physics.Handle, *Collider]

// World is a store of static and kinematic colliders answering overlap
// queries. Colliders are bucketed into 16x16 columns keyed by chunk position;
// a query only visits the columns its bounds cover. It is safe for concurrent
// use.
type World struct {
	colliders *orderedmap.OrderedMap[physics.Handle, *Collider]
	columns   map[protocol.ChunkPos]*column
	blocks    map[cube.Pos]placedBlock
	next      physics.Handle

	logger *slog.Logger

	mu deadlock.RWMutex
}

// New returns an empty World. A nil logger falls back to slog.Default.
func New(logger *slog.Logger) *World {
	if logger == nil {
		logger = slog.Default()
	}
	return &World{
		colliders: orderedmap.NewOrderedMap[physics.Handle, *Collider](),
		columns:   make(map[protocol.ChunkPos]*column),
		blocks:    make(map[cube.Pos]placedBlock),
		logger:    logger,
	}
}

// AddCollider registers a box owned by owner and carrying the labels s, and
// returns its handle. Static geometry should use physics.NoBody as owner.
func (w *World) AddCollider(box cube.BBox, owner physics.BodyID, s surface.Set) physics.Handle {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.addCollider(box, owner, s)
}

func (w *World) addCollider(box cube.BBox, owner physics.BodyID, s surface.Set) physics.Handle {
	w.next++
	c := &Collider{Handle: w.next, Box: box, Owner: owner, Surface: s}
	w.colliders.Set(c.Handle, c)
	w.link(c)
	w.logger.Debug("added collider", "handle", c.Handle, "owner", owner, "min", box.Min(), "max", box.Max())
	return c.Handle
}

// MoveCollider replaces the box of the collider h. It returns false if h is
// not registered.
func (w *World) MoveCollider(h physics.Handle, box cube.BBox) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	c, ok := w.colliders.Get(h)
	if !ok {
		return false
	}
	oldMin, oldMax := columnRange(c.Box)
	newMin, newMax := columnRange(box)
	if oldMin == newMin && oldMax == newMax {
		c.Box = box
		return true
	}
	w.unlink(c)
	c.Box = box
	w.link(c)
	return true
}

// RemoveCollider unregisters the collider h. It returns false if h is not
// registered.
func (w *World) RemoveCollider(h physics.Handle) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.removeCollider(h)
}

func (w *World) removeCollider(h physics.Handle) bool {
	c, ok := w.colliders.Get(h)
	if !ok {
		return false
	}
	w.unlink(c)
	w.colliders.Delete(h)
	w.logger.Debug("removed collider", "handle", h, "owner", c.Owner)
	return true
}

// Collider returns a copy of the collider h.
func (w *World) Collider(h physics.Handle) (Collider, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	c, ok := w.colliders.Get(h)
	if !ok {
		return Collider{}, false
	}
	return *c, true
}

// Len returns the number of registered colliders.
func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.colliders.Len()
}

// Surface returns the labels of the collider h, or surface.None if h is not
// registered.
func (w *World) Surface(h physics.Handle) surface.Set {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if c, ok := w.colliders.Get(h); ok {
		return c.Surface
	}
	return surface.None
}

// Owner returns the owner of the collider h, or physics.NoBody if h is not
// registered.
func (w *World) Owner(h physics.Handle) physics.BodyID {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if c, ok := w.colliders.Get(h); ok {
		return c.Owner
	}
	return physics.NoBody
}

// OverlapBox writes up to len(out) handles of colliders overlapping the
// oriented box into out and returns the count. Colliders are visited column
// by column and in registration order within a column; anything found after
// out is full is dropped.
func (w *World) OverlapBox(center, halfExtents mgl64.Vec3, rot mgl64.Quat, out []physics.Handle) int {
	if len(out) == 0 {
		return 0
	}
	obb := physics.NewOBB(center, halfExtents, rot)
	bounds := obb.Bounds()
	qMin, qMax := columnRange(bounds)

	w.mu.RLock()
	defer w.mu.RUnlock()

	n := 0
	for x := qMin[0]; x <= qMax[0]; x++ {
		for z := qMin[1]; z <= qMax[1]; z++ {
			col, ok := w.columns[protocol.ChunkPos{x, z}]
			if !ok {
				continue
			}
			for el := col.Front(); el != nil; el = el.Next() {
				c := el.Value
				// A collider spanning several columns is only reported from the first
				// column shared with the query.
				cMin, _ := columnRange(c.Box)
				if max(cMin[0], qMin[0]) != x || max(cMin[1], qMin[1]) != z {
					continue
				}
				if !boxesTouch(bounds, c.Box) || !obb.IntersectsBBox(c.Box) {
					continue
				}
				out[n] = c.Handle
				n++
				if n == len(out) {
					return n
				}
			}
		}
	}
	return n
}

// link adds c to every column its box covers. The lock must be held.
func (w *World) link(c *Collider) {
	min, max := columnRange(c.Box)
	for x := min[0]; x <= max[0]; x++ {
		for z := min[1]; z <= max[1]; z++ {
			pos := protocol.ChunkPos{x, z}
			col, ok := w.columns[pos]
			if !ok {
				col = orderedmap.NewOrderedMap[physics.Handle, *Collider]()
				w.columns[pos] = col
			}
			col.Set(c.Handle, c)
		}
	}
}

// unlink removes c from every column its box covers, dropping columns that
// become empty. The lock must be held.
func (w *World) unlink(c *Collider) {
	min, max := columnRange(c.Box)
	for x := min[0]; x <= max[0]; x++ {
		for z := min[1]; z <= max[1]; z++ {
			pos := protocol.ChunkPos{x, z}
			col, ok := w.columns[pos]
			if !ok {
				continue
			}
			col.Delete(c.Handle)
			if col.Len() == 0 {
				delete(w.columns, pos)
			}
		}
	}
}

// columnRange returns the lowest and highest column positions covered by bb.
func columnRange(bb cube.BBox) (min, max protocol.ChunkPos) {
	bMin, bMax := bb.Min(), bb.Max()
	return protocol.ChunkPos{columnOf(bMin[0]), columnOf(bMin[2])},
		protocol.ChunkPos{columnOf(bMax[0]), columnOf(bMax[2])}
}

func columnOf(v float64) int32 {
	return int32(math.Floor(v)) >> columnShift
}

// boxesTouch is an inclusive AABB overlap test; boxes sharing a face count.
func boxesTouch(a, b cube.BBox) bool {
	const epsilon = 1e-9
	aMin, aMax, bMin, bMax := a.Min(), a.Max(), b.Min(), b.Max()
	for i := range 3 {
		if aMax[i]+epsilon < bMin[i] || bMax[i]+epsilon < aMin[i] {
			return false
		}
	}
	return true
}
