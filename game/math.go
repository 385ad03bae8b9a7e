package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Round64 will round a float64 to a given precision.
func Round64(val float64, precision int) float64 {
	pwr := math.Pow(10, float64(precision))
	return math.Round(val*pwr) / pwr
}

// Vec64To32 converts a 64-bit vector to a 32-bit one.
func Vec64To32(vec3 mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(vec3[0]), float32(vec3[1]), float32(vec3[2])}
}

// Vec3FromArray converts a plain array, as found in configuration files, to a vector.
func Vec3FromArray(a [3]float64) mgl64.Vec3 {
	return mgl64.Vec3(a)
}

// YawPitchRoll returns the rotation of the given euler angles in degrees,
// applied in yaw (y), pitch (x), roll (z) order.
func YawPitchRoll(yaw, pitch, roll float64) mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(yaw), mgl64.Vec3{0, 1, 0}).
		Mul(mgl64.QuatRotate(mgl64.DegToRad(pitch), mgl64.Vec3{1, 0, 0})).
		Mul(mgl64.QuatRotate(mgl64.DegToRad(roll), mgl64.Vec3{0, 0, 1}))
}
