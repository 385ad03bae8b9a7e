package game

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

func TestRound64(t *testing.T) {
	if got := Round64(0.123456, 3); got != 0.123 {
		t.Fatalf("expected 0.123, got %v", got)
	}
	if got := Round64(-2.2262, 2); got != -2.23 {
		t.Fatalf("expected -2.23, got %v", got)
	}
}

func TestVecConversion(t *testing.T) {
	v := mgl64.Vec3{0.5, -1.25, 8}
	if got := Vec3FromArray([3]float64{0.5, -1.25, 8}); got != v {
		t.Fatalf("unexpected vector %v", got)
	}
	if Vec64To32(v) != (mgl32.Vec3{0.5, -1.25, 8}) {
		t.Fatalf("unexpected conversion %v", Vec64To32(v))
	}
}

func TestYawPitchRoll(t *testing.T) {
	q := YawPitchRoll(0, 0, 90)
	if got := q.Rotate(mgl64.Vec3{0, -1, 0}); !got.ApproxEqualThreshold(mgl64.Vec3{1, 0, 0}, 1e-9) {
		t.Fatalf("roll of 90 degrees should turn down into +x, got %v", got)
	}
	if got := YawPitchRoll(0, 0, 0).Rotate(mgl64.Vec3{1, 2, 3}); !got.ApproxEqual(mgl64.Vec3{1, 2, 3}) {
		t.Fatalf("zero angles should not rotate, got %v", got)
	}
}
