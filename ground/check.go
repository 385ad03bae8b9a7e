package ground

import (
	"github.com/oomph-ac/groundcheck/debug"
	"github.com/oomph-ac/groundcheck/physics"
	"github.com/oomph-ac/groundcheck/surface"
)

// Config holds the immutable setup of a Check.
type Config struct {
	Shape    Shape
	Capacity int
	Ground   surface.Set
	// Visualizer receives a frame per tick when enabled. It may be nil.
	Visualizer *debug.Visualizer
}

// TickContext carries everything a Check needs for one simulation step.
type TickContext struct {
	// Transform is the body's world pose at this step.
	Transform physics.Transform
	// World answers the probe's overlap query.
	World physics.Querier
	// Delta is the step length in seconds. It must not be negative.
	Delta float64
}

// State is the result of the most recent tick.
type State struct {
	Tick             uint64
	Grounded         bool
	AirborneDuration float64
	AirborneTicks    uint64
}

// Check is the per-body ground check. Tick it once per fixed simulation step
// and read its state in between. A Check must not be ticked from more than one
// goroutine at a time; reads are snapshots of the last tick.
type Check struct {
	probe *Probe
	timer Timer
	vis   *debug.Visualizer
	h     Handler

	state State
}

// New returns a Check for body. A Check starts airborne with a zero duration.
func New(body physics.BodyID, conf Config) *Check {
	capacity := conf.Capacity
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	return &Check{
		probe: NewProbe(body, conf.Shape, conf.Ground, capacity),
		vis:   conf.Visualizer,
		h:     NopHandler{},
	}
}

// Handle sets the handler notified of grounded transitions. A nil handler
// resets it to NopHandler.
func (c *Check) Handle(h Handler) {
	if h == nil {
		h = NopHandler{}
	}
	c.h = h
}

// Tick runs the probe for this step, updates the airborne timer and returns
// the new state. No transition is reported on the first tick, as there is no
// previous state to transition from.
func (c *Check) Tick(ctx TickContext) State {
	grounded := c.probe.Evaluate(ctx.Transform, ctx.World)
	prev, first := c.state, c.state.Tick == 0

	airborne := c.timer.Tick(grounded, ctx.Delta)
	c.state = State{
		Tick:             prev.Tick + 1,
		Grounded:         grounded,
		AirborneDuration: airborne,
		AirborneTicks:    c.timer.Ticks(),
	}

	if c.vis.Enabled() {
		c.vis.Record(debug.Frame{
			Body:     c.probe.Body(),
			Tick:     c.state.Tick,
			Grounded: grounded,
			Box:      c.probe.Box(ctx.Transform),
		})
	}

	if !first && grounded != prev.Grounded {
		if grounded {
			c.h.HandleLand(c.probe.Body(), prev.AirborneDuration, prev.AirborneTicks)
		} else {
			c.h.HandleLeaveGround(c.probe.Body())
		}
	}
	return c.state
}

// Grounded returns whether the body was on the ground at the last tick.
func (c *Check) Grounded() bool {
	return c.state.Grounded
}

// AirborneDuration returns how long, in seconds, the body has been off the
// ground as of the last tick.
func (c *Check) AirborneDuration() float64 {
	return c.state.AirborneDuration
}

// State returns the snapshot produced by the last tick.
func (c *Check) State() State {
	return c.state
}

// Probe returns the probe used by the check.
func (c *Check) Probe() *Probe {
	return c.probe
}

// Visualizer returns the visualizer attached to the check, if any.
func (c *Check) Visualizer() *debug.Visualizer {
	return c.vis
}
