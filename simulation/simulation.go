package simulation

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/groundcheck/assert"
	"github.com/oomph-ac/groundcheck/ground"
	"github.com/oomph-ac/groundcheck/physics"
	"github.com/oomph-ac/groundcheck/surface"
	"github.com/oomph-ac/groundcheck/worker"
	"github.com/oomph-ac/groundcheck/world"
)

// Motion returns the pose of a body for the given tick, from its pose at the
// previous tick.
type Motion func(tick uint64, prev physics.Transform) physics.Transform

// BodyConfig describes a body added to a Simulation.
type BodyConfig struct {
	// Transform is the initial pose of the body.
	Transform physics.Transform
	// HalfSize is the half size of the body's own collider.
	HalfSize mgl64.Vec3
	// Surface holds the labels of the body's collider, as seen by other
	// bodies' probes.
	Surface surface.Set
	// Check configures the body's ground check.
	Check ground.Config
	// Motion moves the body every tick. A nil Motion keeps it in place.
	Motion Motion
	// Handler is notified of the body's grounded transitions after they
	// have been logged. It is called from the goroutine calling Step, once all
	// checks of the step have ticked, so a Handler shared between bodies needs
	// no locking. It may be nil.
	Handler ground.Handler
}

// Body is a kinematic body tracked by a Simulation.
type Body struct {
	id        physics.BodyID
	transform physics.Transform
	halfSize  mgl64.Vec3
	collider  physics.Handle
	check     *ground.Check
	motion    Motion

	handler ground.Handler
	pending *transitions
}

// ID returns the body's id.
func (b *Body) ID() physics.BodyID {
	return b.id
}

// Transform returns the body's pose as of the last step.
func (b *Body) Transform() physics.Transform {
	return b.transform
}

// Check returns the body's ground check.
func (b *Body) Check() *ground.Check {
	return b.check
}

// Collider returns the handle of the body's collider in the world.
func (b *Body) Collider() physics.Handle {
	return b.collider
}

// box returns the body's collider as an oriented box.
func (b *Body) box() physics.OBB {
	return physics.NewOBB(b.transform.Pos, b.halfSize, b.transform.Rotation())
}

// Simulation steps a set of bodies through a world at a fixed rate, ground
// checking each of them once per step. It is not safe for concurrent use.
type Simulation struct {
	w      *world.World
	q      physics.Querier
	bodies *orderedmap.OrderedMap[physics.BodyID, *Body]
	next   physics.BodyID
	tick   uint64

	log *slog.Logger
}

// New returns a Simulation over w. A nil logger falls back to slog.Default.
func New(w *world.World, log *slog.Logger) *Simulation {
	if log == nil {
		log = slog.Default()
	}
	return &Simulation{
		w:      w,
		q:      w,
		bodies: orderedmap.NewOrderedMap[physics.BodyID, *Body](),
		log:    log,
	}
}

// AddBody adds a body to the simulation and registers its collider in the
// world.
func (s *Simulation) AddBody(conf BodyConfig) *Body {
	s.next++
	b := &Body{
		id:        s.next,
		transform: conf.Transform,
		halfSize:  conf.HalfSize,
		check:     ground.New(s.next, conf.Check),
		motion:    conf.Motion,
		handler:   conf.Handler,
		pending:   &transitions{},
	}
	b.collider = s.w.AddCollider(b.box().Bounds(), b.id, conf.Surface)
	b.check.Handle(b.pending)
	s.bodies.Set(b.id, b)
	return b
}

// RemoveBody removes the body id and its collider. It returns false if the
// body is unknown.
func (s *Simulation) RemoveBody(id physics.BodyID) bool {
	b, ok := s.bodies.Get(id)
	if !ok {
		return false
	}
	s.w.RemoveCollider(b.collider)
	s.bodies.Delete(id)
	return true
}

// Body returns the body id.
func (s *Simulation) Body(id physics.BodyID) (*Body, bool) {
	return s.bodies.Get(id)
}

// Bodies returns all bodies in the order they were added.
func (s *Simulation) Bodies() []*Body {
	bodies := make([]*Body, 0, s.bodies.Len())
	for el := s.bodies.Front(); el != nil; el = el.Next() {
		bodies = append(bodies, el.Value)
	}
	return bodies
}

// Tick returns the number of steps run so far.
func (s *Simulation) Tick() uint64 {
	return s.tick
}

// World returns the world the simulation runs in.
func (s *Simulation) World() *world.World {
	return s.w
}

// Step advances the simulation by dt seconds. All bodies are moved first, then
// every body's check is ticked on the worker pool, and finally the grounded
// transitions of the step are logged and passed to the bodies' handlers in
// body order. The returned states are in the order of Bodies.
//
// If a body's check panics, its state is left at the last completed tick, so
// its Tick lags behind the simulation's, and the returned error names the
// body. The other bodies are unaffected.
func (s *Simulation) Step(dt float64) ([]ground.State, error) {
	s.tick++
	bodies := s.Bodies()
	for _, b := range bodies {
		if b.motion == nil {
			continue
		}
		b.transform = b.motion(s.tick, b.transform)
		s.w.MoveCollider(b.collider, b.box().Bounds())
	}

	states := make([]ground.State, len(bodies))
	tasks := make([]func(), len(bodies))
	for i, b := range bodies {
		tasks[i] = func() {
			states[i] = b.check.Tick(ground.TickContext{
				Transform: b.transform,
				World:     s.q,
				Delta:     dt,
			})
		}
	}

	var failed []error
	for i, err := range worker.Run(tasks) {
		b := bodies[i]
		if err != nil {
			states[i] = b.check.State()
			s.log.Error("ground check failed", "body", b.id, "tick", s.tick, "err", err)
			failed = append(failed, fmt.Errorf("body %d: %w", b.id, err))
		}
		s.flush(b)
	}
	return states, errors.Join(failed...)
}

// flush logs the transitions b recorded during the step and forwards them to
// its handler.
func (s *Simulation) flush(b *Body) {
	for _, t := range b.pending.events {
		if t.land {
			s.log.Info("body landed", "body", b.id, "tick", s.tick, "airborne", t.airborne, "airborneTicks", t.ticks)
			if b.handler != nil {
				b.handler.HandleLand(b.id, t.airborne, t.ticks)
			}
			continue
		}
		s.log.Info("body left ground", "body", b.id, "tick", s.tick)
		if b.handler != nil {
			b.handler.HandleLeaveGround(b.id)
		}
	}
	b.pending.events = b.pending.events[:0]
}

type transition struct {
	land     bool
	airborne float64
	ticks    uint64
}

// transitions buffers the transitions of one body while its check ticks on a
// worker goroutine.
type transitions struct {
	events []transition
}

func (t *transitions) HandleLand(_ physics.BodyID, airborne float64, ticks uint64) {
	t.events = append(t.events, transition{land: true, airborne: airborne, ticks: ticks})
}

func (t *transitions) HandleLeaveGround(physics.BodyID) {
	t.events = append(t.events, transition{})
}

// Hop returns a Motion keeping a body at base for rest ticks, then carrying it
// along a parabolic arc of the given height for air ticks, repeating forever.
// The body's rotation is left unchanged.
func Hop(base mgl64.Vec3, height float64, rest, air uint64) Motion {
	period := rest + air
	assert.IsTrue(period > 0, "simulation: hop period must be positive")
	return func(tick uint64, prev physics.Transform) physics.Transform {
		pos := base
		if phase := tick % period; phase >= rest {
			f := float64(phase-rest+1) / float64(air+1)
			pos[1] += 4 * height * f * (1 - f)
		}
		prev.Pos = pos
		return prev
	}
}

// Spin returns a Motion rotating a body about axis by angle radians per tick
// around its current position.
func Spin(axis mgl64.Vec3, angle float64) Motion {
	step := mgl64.QuatRotate(angle, axis.Normalize())
	return func(_ uint64, prev physics.Transform) physics.Transform {
		prev.Rot = step.Mul(prev.Rotation()).Normalize()
		return prev
	}
}
