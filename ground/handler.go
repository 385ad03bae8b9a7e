package ground

import "github.com/oomph-ac/groundcheck/physics"

// Handler handles grounded transitions of a Check. Methods are called
// synchronously from Check.Tick.
type Handler interface {
	// HandleLand is called on the first grounded tick after being airborne.
	// airborne and ticks describe the flight that just ended.
	HandleLand(body physics.BodyID, airborne float64, ticks uint64)
	// HandleLeaveGround is called on the first airborne tick after being
	// grounded.
	HandleLeaveGround(body physics.BodyID)
}

// NopHandler implements Handler and does nothing.
type NopHandler struct{}

// Compile time check to make sure NopHandler implements Handler.
var _ Handler = NopHandler{}

func (NopHandler) HandleLand(physics.BodyID, float64, uint64) {}
func (NopHandler) HandleLeaveGround(physics.BodyID)           {}
