package world

import (
	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/block/model"
	df_world "github.com/df-mc/dragonfly/server/world"
	"github.com/oomph-ac/groundcheck/physics"
	"github.com/oomph-ac/groundcheck/surface"
)

// Classifier returns the surface labels for a block with the given encoded
// name, e.g. "minecraft:stone".
type Classifier func(name string) surface.Set

// ClassifyByName returns a Classifier looking names up in labels, falling
// back to fallback for names not present.
func ClassifyByName(labels map[string]surface.Set, fallback surface.Set) Classifier {
	return func(name string) surface.Set {
		if s, ok := labels[name]; ok {
			return s
		}
		return fallback
	}
}

type placedBlock struct {
	b       df_world.Block
	handles []physics.Handle
}

// SetBlock places b at pos, replacing the colliders of whatever block was
// there before. The new colliders are static and labelled by classify.
// Placing air, or any block without collision, clears the position.
func (w *World) SetBlock(pos cube.Pos, b df_world.Block, classify Classifier) []physics.Handle {
	w.mu.Lock()
	defer w.mu.Unlock()

	if old, ok := w.blocks[pos]; ok {
		for _, h := range old.handles {
			w.removeCollider(h)
		}
		delete(w.blocks, pos)
	}

	boxes := BlockBoxes(b)
	if len(boxes) == 0 {
		return nil
	}
	name, _ := b.EncodeBlock()
	labels := classify(name)

	handles := make([]physics.Handle, 0, len(boxes))
	for _, bb := range boxes {
		handles = append(handles, w.addCollider(bb.Translate(pos.Vec3()), physics.NoBody, labels))
	}
	w.blocks[pos] = placedBlock{b: b, handles: handles}
	return handles
}

// Block returns the block at pos, or air if none was placed.
func (w *World) Block(pos cube.Pos) df_world.Block {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if p, ok := w.blocks[pos]; ok {
		return p.b
	}
	return block.Air{}
}

// FillBlocks places b in every position of the inclusive box spanned by from
// and to.
func (w *World) FillBlocks(from, to cube.Pos, b df_world.Block, classify Classifier) {
	for x := min(from[0], to[0]); x <= max(from[0], to[0]); x++ {
		for y := min(from[1], to[1]); y <= max(from[1], to[1]); y++ {
			for z := min(from[2], to[2]); z <= max(from[2], to[2]); z++ {
				w.SetBlock(cube.Pos{x, y, z}, b, classify)
			}
		}
	}
}

// BlockBoxes returns the collision boxes of b relative to its block position.
// Models that depend on neighbouring blocks are approximated by a full cube.
func BlockBoxes(b df_world.Block) []cube.BBox {
	if _, ok := b.(df_world.Liquid); ok {
		return nil
	}
	switch m := b.Model().(type) {
	case model.Empty:
		return nil
	case model.Solid:
		return []cube.BBox{fullBlock}
	case model.Slab:
		if m.Double {
			return []cube.BBox{fullBlock}
		}
		if m.Top {
			return []cube.BBox{cube.Box(0, 0.5, 0, 1, 1, 1)}
		}
		return []cube.BBox{cube.Box(0, 0, 0, 1, 0.5, 1)}
	case model.Carpet:
		return []cube.BBox{cube.Box(0, 0, 0, 1, 1.0/16.0, 1)}
	default:
		return []cube.BBox{fullBlock}
	}
}

var fullBlock = cube.Box(0, 0, 0, 1, 1, 1)
