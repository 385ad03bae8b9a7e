package settings

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/groundcheck/game"
	"github.com/oomph-ac/groundcheck/oerror"
	"github.com/pelletier/go-toml"
)

// vectorKeys are the top level keys holding a Vec3.
var vectorKeys = []string{"probeOffset", "probeHalfExtents"}

// Vec3 is a three component vector in the settings file. Components may be
// written as integers or floats.
type Vec3 []float64

// Vec returns v as a vector. v must hold exactly 3 components.
func (v Vec3) Vec() mgl64.Vec3 {
	return game.Vec3FromArray([3]float64(v))
}

// UnmarshalTOML decodes an array of integers and floats.
func (v *Vec3) UnmarshalTOML(data any) error {
	arr, ok := data.([]any)
	if !ok {
		return oerror.New("expected an array of numbers, got %T", data)
	}
	out := make(Vec3, len(arr))
	for i, e := range arr {
		switch n := e.(type) {
		case int64:
			out[i] = float64(n)
		case float64:
			out[i] = n
		default:
			return oerror.New("component %d: expected a number, got %v (%T)", i, e, e)
		}
	}
	*v = out
	return nil
}

// normaliseVec3 rewrites the array at key in tree to hold only floats, so the
// decoder accepts integer components.
func normaliseVec3(tree *toml.Tree, key string) error {
	raw := tree.Get(key)
	if raw == nil {
		return nil
	}
	var v Vec3
	if err := v.UnmarshalTOML(raw); err != nil {
		return err
	}
	values := make([]any, len(v))
	for i, f := range v {
		values[i] = f
	}
	tree.Set(key, values)
	return nil
}
