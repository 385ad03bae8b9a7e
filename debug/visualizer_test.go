package debug

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/groundcheck/physics"
)

func frame(tick uint64, grounded bool) Frame {
	return Frame{
		Body:     1,
		Tick:     tick,
		Grounded: grounded,
		Box:      physics.NewOBB(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0.5, 0.01, 0.5}, mgl64.QuatIdent()),
	}
}

func TestVisualizerTrail(t *testing.T) {
	v := NewVisualizer(true, 3)
	for i := uint64(1); i <= 5; i++ {
		v.Record(frame(i, i%2 == 0))
	}
	frames := v.Frames()
	if len(frames) != 3 || frames[0].Tick != 3 || frames[2].Tick != 5 {
		t.Fatalf("expected ticks 3..5, got %+v", frames)
	}
	if f, ok := v.Latest(); !ok || f.Tick != 5 {
		t.Fatalf("expected latest tick 5, got %+v", f)
	}

	v.SetEnabled(false)
	v.Record(frame(6, true))
	if len(v.Frames()) != 0 {
		t.Fatalf("a disabled visualizer must record nothing")
	}
	if _, ok := v.Latest(); ok {
		t.Fatalf("expected no latest frame")
	}
	if n := v.Draw(&Recorder{}); n != 0 {
		t.Fatalf("a disabled visualizer must draw nothing, drew %d", n)
	}
}

func TestVisualizerDefaults(t *testing.T) {
	v := NewVisualizer(false, 0)
	v.SetEnabled(true)
	for i := range DefaultTrail + 5 {
		v.Record(frame(uint64(i), false))
	}
	if len(v.Frames()) != DefaultTrail {
		t.Fatalf("expected %d frames, got %d", DefaultTrail, len(v.Frames()))
	}

	var nilVis *Visualizer
	if nilVis.Enabled() || nilVis.Frames() != nil {
		t.Fatalf("a nil visualizer is disabled and empty")
	}
	nilVis.Record(frame(1, true))
}

func TestDraw(t *testing.T) {
	v := NewVisualizer(true, 4)
	v.Record(frame(1, false))
	v.Record(frame(2, true))

	r := &Recorder{}
	if n := v.Draw(r); n != 24 || len(r.Lines) != 24 {
		t.Fatalf("expected 24 lines, got %d (%d recorded)", n, len(r.Lines))
	}
	if len(r.Bounds) != 2 || r.Bounds[1] != v.Frames()[1].Bounds() {
		t.Fatalf("expected the bounds of both frames, got %v", r.Bounds)
	}
	if r.Lines[0].Colour != AirborneColour || r.Lines[12].Colour != GroundedColour {
		t.Fatalf("unexpected colours %v and %v", r.Lines[0].Colour, r.Lines[12].Colour)
	}

	// Every edge joins two corners differing in exactly one axis.
	for i, l := range r.Lines[:12] {
		d := l.To.Sub(l.From)
		axes := 0
		for _, c := range d {
			if c != 0 {
				axes++
			}
		}
		if axes != 1 {
			t.Fatalf("line %d is not box aligned: %v -> %v", i, l.From, l.To)
		}
	}
	if r.Lines[0].From != (mgl32.Vec3{-0.5, -0.01, -0.5}) {
		t.Fatalf("expected first edge to start at the minimum corner, got %v", r.Lines[0].From)
	}
}

func TestFrameBounds(t *testing.T) {
	f := frame(1, true)
	b := f.Bounds()
	if b.Min() != (mgl32.Vec3{-0.5, -0.01, -0.5}) || b.Max() != (mgl32.Vec3{0.5, 0.01, 0.5}) {
		t.Fatalf("unexpected bounds %v %v", b.Min(), b.Max())
	}
}

func TestLogDrawer(t *testing.T) {
	buf := &bytes.Buffer{}
	log := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	if n := DrawFrame(LogDrawer{Logger: log}, frame(1, true)); n != len(Edges) {
		t.Fatalf("expected %d edges, got %d", len(Edges), n)
	}
	if got := strings.Count(buf.String(), "probe edge"); got != len(Edges) {
		t.Fatalf("expected %d logged edges, got %d", len(Edges), got)
	}
	if got := strings.Count(buf.String(), "probe bounds"); got != 1 {
		t.Fatalf("expected the frame bounds to be logged once, got %d", got)
	}

	buf.Reset()
	quiet := slog.New(slog.NewTextHandler(buf, nil))
	DrawFrame(LogDrawer{Logger: quiet}, frame(1, true))
	if buf.Len() != 0 {
		t.Fatalf("expected nothing logged above debug level, got %q", buf.String())
	}
}
