package world

import (
	"math"
	"testing"

	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/block/model"
	df_world "github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/groundcheck/physics"
	"github.com/oomph-ac/groundcheck/surface"
)

func query(w *World, center, half mgl64.Vec3, capacity int) []physics.Handle {
	out := make([]physics.Handle, capacity)
	n := w.OverlapBox(center, half, mgl64.QuatIdent(), out)
	return out[:n]
}

func TestOverlapBoxFindsColliders(t *testing.T) {
	w := New(nil)
	floor := w.AddCollider(cube.Box(-4, -1, -4, 4, 0, 4), physics.NoBody, surface.Of(0))
	far := w.AddCollider(cube.Box(100, -1, 100, 101, 0, 101), physics.NoBody, surface.Of(0))

	got := query(w, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0.5, 0.01, 0.5}, 4)
	if len(got) != 1 || got[0] != floor {
		t.Fatalf("expected [%d], got %v", floor, got)
	}
	if got := query(w, mgl64.Vec3{0, 5, 0}, mgl64.Vec3{0.5, 0.01, 0.5}, 4); len(got) != 0 {
		t.Fatalf("expected nothing above the floor, got %v", got)
	}
	if got := query(w, mgl64.Vec3{100.5, 0, 100.5}, mgl64.Vec3{0.1, 0.1, 0.1}, 4); len(got) != 1 || got[0] != far {
		t.Fatalf("expected [%d], got %v", far, got)
	}
}

func TestOverlapBoxReportsSpanningColliderOnce(t *testing.T) {
	w := New(nil)
	// Spans columns -2..1 on both axes.
	plane := w.AddCollider(cube.Box(-20, -1, -20, 20, 0, 20), physics.NoBody, surface.Of(0))

	// Query straddling the corner of four columns.
	got := query(w, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{3, 0.5, 3}, 8)
	if len(got) != 1 || got[0] != plane {
		t.Fatalf("expected the plane exactly once, got %v", got)
	}
	got = query(w, mgl64.Vec3{16, 0, -16}, mgl64.Vec3{1, 0.5, 1}, 8)
	if len(got) != 1 || got[0] != plane {
		t.Fatalf("expected the plane exactly once, got %v", got)
	}
}

func TestOverlapBoxTruncatesInRegistrationOrder(t *testing.T) {
	w := New(nil)
	first := w.AddCollider(cube.Box(0, -1, 0, 1, 0, 1), physics.NoBody, surface.None)
	second := w.AddCollider(cube.Box(0, -1, 0, 1, 0, 1), physics.NoBody, surface.Of(0))

	got := query(w, mgl64.Vec3{0.5, 0, 0.5}, mgl64.Vec3{0.4, 0.01, 0.4}, 1)
	if len(got) != 1 || got[0] != first {
		t.Fatalf("expected only the first collider, got %v", got)
	}
	got = query(w, mgl64.Vec3{0.5, 0, 0.5}, mgl64.Vec3{0.4, 0.01, 0.4}, 2)
	if len(got) != 2 || got[0] != first || got[1] != second {
		t.Fatalf("expected both colliders in order, got %v", got)
	}
	if n := w.OverlapBox(mgl64.Vec3{0.5, 0, 0.5}, mgl64.Vec3{1, 1, 1}, mgl64.QuatIdent(), nil); n != 0 {
		t.Fatalf("expected zero with an empty buffer, got %d", n)
	}
}

func TestOverlapBoxRotated(t *testing.T) {
	w := New(nil)
	// A wall to the +x side of the origin.
	wall := w.AddCollider(cube.Box(1, 0, -1, 2, 3, 1), physics.NoBody, surface.Of(1))

	half := mgl64.Vec3{0.1, 1.2, 0.1}
	out := make([]physics.Handle, 2)
	if n := w.OverlapBox(mgl64.Vec3{0, 1.5, 0}, half, mgl64.QuatIdent(), out); n != 0 {
		t.Fatalf("upright probe should miss the wall, got %v", out[:n])
	}
	roll := mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1})
	if n := w.OverlapBox(mgl64.Vec3{0, 1.5, 0}, half, roll, out); n != 1 || out[0] != wall {
		t.Fatalf("rolled probe should reach the wall, got %v", out[:n])
	}
}

func TestMoveAndRemoveCollider(t *testing.T) {
	w := New(nil)
	body := physics.BodyID(7)
	h := w.AddCollider(cube.Box(-0.5, 0, -0.5, 0.5, 1, 0.5), body, surface.None)

	if c, ok := w.Collider(h); !ok || c.Owner != body {
		t.Fatalf("unexpected collider %+v", c)
	}
	if w.Owner(h) != body {
		t.Fatalf("expected owner %d, got %d", body, w.Owner(h))
	}

	// Move across several columns.
	if !w.MoveCollider(h, cube.Box(40, 0, 40, 41, 1, 41)) {
		t.Fatalf("move failed")
	}
	if got := query(w, mgl64.Vec3{0, 0.5, 0}, mgl64.Vec3{1, 1, 1}, 4); len(got) != 0 {
		t.Fatalf("collider still found at old position: %v", got)
	}
	if got := query(w, mgl64.Vec3{40.5, 0.5, 40.5}, mgl64.Vec3{0.1, 0.1, 0.1}, 4); len(got) != 1 {
		t.Fatalf("collider not found at new position: %v", got)
	}
	// Move inside the same column.
	w.MoveCollider(h, cube.Box(41, 0, 41, 42, 1, 42))
	if got := query(w, mgl64.Vec3{41.5, 0.5, 41.5}, mgl64.Vec3{0.1, 0.1, 0.1}, 4); len(got) != 1 {
		t.Fatalf("collider not found after small move: %v", got)
	}

	if !w.RemoveCollider(h) || w.RemoveCollider(h) {
		t.Fatalf("remove should succeed exactly once")
	}
	if w.Len() != 0 || len(w.columns) != 0 {
		t.Fatalf("expected empty world, got %d colliders in %d columns", w.Len(), len(w.columns))
	}
	if w.Owner(h) != physics.NoBody || w.Surface(h) != surface.None {
		t.Fatalf("removed handle should resolve to nothing")
	}
	if w.MoveCollider(h, cube.Box(0, 0, 0, 1, 1, 1)) {
		t.Fatalf("moving a removed collider should fail")
	}
}

type slabBlock struct {
	top bool
}

func (slabBlock) EncodeBlock() (string, map[string]any) { return "test:slab", nil }
func (slabBlock) Hash() (uint64, uint64)                { return 0, 0 }
func (s slabBlock) Model() df_world.BlockModel          { return model.Slab{Top: s.top} }

func TestSetBlock(t *testing.T) {
	reg := surface.NewRegistry()
	walkable := reg.MustResolve(surface.WalkableSurface)
	solid := reg.MustResolve(surface.Block)

	stoneName, _ := block.Stone{}.EncodeBlock()
	classify := ClassifyByName(map[string]surface.Set{stoneName: solid, "test:slab": walkable}, surface.None)

	w := New(nil)
	pos := cube.Pos{2, 0, 3}
	handles := w.SetBlock(pos, block.Stone{}, classify)
	if len(handles) != 1 {
		t.Fatalf("expected one collider for stone, got %d", len(handles))
	}
	c, _ := w.Collider(handles[0])
	if c.Box != cube.Box(2, 0, 3, 3, 1, 4) || c.Surface != solid || c.Owner != physics.NoBody {
		t.Fatalf("unexpected collider %+v", c)
	}
	if _, ok := w.Block(pos).(block.Stone); !ok {
		t.Fatalf("expected stone at %v, got %T", pos, w.Block(pos))
	}

	// Replacing the block drops the old colliders.
	handles = w.SetBlock(pos, slabBlock{}, classify)
	if len(handles) != 1 || w.Len() != 1 {
		t.Fatalf("expected the slab to replace the stone, have %d colliders", w.Len())
	}
	c, _ = w.Collider(handles[0])
	if c.Box != cube.Box(2, 0, 3, 3, 0.5, 4) || c.Surface != walkable {
		t.Fatalf("unexpected slab collider %+v", c)
	}

	if handles := w.SetBlock(pos, block.Air{}, classify); handles != nil || w.Len() != 0 {
		t.Fatalf("air should clear the position")
	}
	if _, ok := w.Block(pos).(block.Air); !ok {
		t.Fatalf("expected air at %v", pos)
	}
	if got := w.SetBlock(pos, block.Water{Depth: 8, Still: true}, classify); got != nil {
		t.Fatalf("liquids should not collide")
	}
}

func TestBlockBoxes(t *testing.T) {
	if got := BlockBoxes(slabBlock{top: true}); len(got) != 1 || got[0] != cube.Box(0, 0.5, 0, 1, 1, 1) {
		t.Fatalf("unexpected top slab boxes %v", got)
	}
	if got := BlockBoxes(block.Air{}); len(got) != 0 {
		t.Fatalf("air should have no boxes")
	}
	if got := BlockBoxes(block.Stone{}); len(got) != 1 || got[0] != fullBlock {
		t.Fatalf("stone should be a full block, got %v", got)
	}
}

func TestFillBlocks(t *testing.T) {
	w := New(nil)
	label := surface.Of(0)
	w.FillBlocks(cube.Pos{1, -1, 1}, cube.Pos{-1, -1, -1}, block.Stone{}, func(string) surface.Set { return label })
	if w.Len() != 9 {
		t.Fatalf("expected 9 colliders, got %d", w.Len())
	}
	// The probe spans x,z in [0.6,1.4] and covers the four blocks meeting at (1, 1).
	got := query(w, mgl64.Vec3{1, 0, 1}, mgl64.Vec3{0.4, 0.01, 0.4}, 16)
	if len(got) != 4 {
		t.Fatalf("expected 4 blocks, got %d", len(got))
	}
}
