package main

import (
	"flag"
	"log/slog"
	"math"
	"os"

	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/groundcheck/debug"
	"github.com/oomph-ac/groundcheck/game"
	"github.com/oomph-ac/groundcheck/physics"
	"github.com/oomph-ac/groundcheck/settings"
	"github.com/oomph-ac/groundcheck/simulation"
	"github.com/oomph-ac/groundcheck/surface"
	"github.com/oomph-ac/groundcheck/world"
)

// The following program runs a few bodies over a small block floor and logs
// whenever one of them lands or leaves the ground.
func main() {
	path := flag.String("config", "groundcheck.toml", "path to the settings file, created with defaults if missing")
	verbose := flag.Bool("debug", false, "log at debug level")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	s, err := settings.Load(*path)
	if err != nil {
		log.Error("unable to load settings", "path", *path, "err", err)
		os.Exit(1)
	}

	if os.Getenv("PPROF_ENABLED") != "" {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr("localhost:8080"))

		mgr := statsview.New()
		go mgr.Start()
	}

	reg := surface.NewRegistry()
	sim := simulation.New(buildWorld(reg, log), log)

	var bodies []simulation.BodyConfig
	// A body hopping in place on grass.
	bodies = append(bodies, simulation.BodyConfig{
		Transform: physics.Identity(mgl64.Vec3{0.5, 0.5, 0.5}),
		Motion:    simulation.Hop(mgl64.Vec3{0.5, 0.5, 0.5}, 1.5, 10, 12),
	})
	// A body resting on glass, which is not ground.
	bodies = append(bodies, simulation.BodyConfig{
		Transform: physics.Identity(mgl64.Vec3{3.5, 1.5, 3.5}),
	})
	// A body tumbling over next to a stone wall.
	bodies = append(bodies, simulation.BodyConfig{
		Transform: physics.Transform{Pos: mgl64.Vec3{-1.5, 1.5, 0.5}, Rot: game.YawPitchRoll(45, 0, 0)},
		Motion:    simulation.Spin(mgl64.Vec3{0, 0, 1}, math.Pi/16),
	})

	for _, conf := range bodies {
		check, err := s.Config(reg)
		if err != nil {
			log.Error("invalid settings", "path", *path, "err", err)
			os.Exit(1)
		}
		conf.HalfSize = mgl64.Vec3{0.3, 0.5, 0.3}
		conf.Check = check
		b := sim.AddBody(conf)
		log.Info("added body", "body", b.ID(), "pos", b.Transform().Pos, "ground", check.Ground.Format(reg))
	}

	dt := s.Delta()
	for range s.Simulation.Ticks {
		if _, err := sim.Step(dt); err != nil {
			log.Error("step failed", "tick", sim.Tick(), "err", err)
		}
	}

	for _, b := range sim.Bodies() {
		st := b.Check().State()
		log.Info("final state", "body", b.ID(), "tick", st.Tick, "grounded", st.Grounded, "airborne", game.Round64(st.AirborneDuration, 3))
		if vis := b.Check().Visualizer(); vis.Enabled() {
			n := vis.Draw(debug.LogDrawer{Logger: log.With("body", b.ID())})
			log.Debug("drew probe trail", "body", b.ID(), "frames", len(vis.Frames()), "lines", n)
		}
	}
}

// buildWorld returns a 9x9 grass floor with its top face at y=0, a glass block
// on top of it and a stone wall along x=-1.
func buildWorld(reg *surface.Registry, log *slog.Logger) *world.World {
	walkable := reg.MustResolve(surface.WalkableSurface)
	classify := world.ClassifyByName(map[string]surface.Set{
		"minecraft:grass":       walkable,
		"minecraft:grass_block": walkable,
		"minecraft:stone":       reg.MustResolve(surface.Block, surface.Wall),
	}, surface.None)

	w := world.New(log)
	w.FillBlocks(cube.Pos{-4, -1, -4}, cube.Pos{4, -1, 4}, block.Grass{}, classify)
	w.SetBlock(cube.Pos{3, 0, 3}, block.Glass{}, classify)
	w.FillBlocks(cube.Pos{-1, 0, -1}, cube.Pos{-1, 2, 2}, block.Stone{}, classify)
	log.Info("built world", "colliders", w.Len())
	return w
}
