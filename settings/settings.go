package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/oomph-ac/groundcheck/debug"
	"github.com/oomph-ac/groundcheck/ground"
	"github.com/oomph-ac/groundcheck/oerror"
	"github.com/oomph-ac/groundcheck/surface"
	"github.com/pelletier/go-toml"
)

// Settings contains everything that can be configured for the ground check.
type Settings struct {
	// ProbeOffset is the center of the probe box relative to the body origin.
	ProbeOffset Vec3 `toml:"probeOffset" comment:"Probe center relative to the body origin."`
	// ProbeHalfExtents are the half sizes of the probe box.
	ProbeHalfExtents Vec3 `toml:"probeHalfExtents" comment:"Half sizes of the probe box. Must not be negative."`
	// ResultCapacity is the number of overlaps inspected per query.
	ResultCapacity int `toml:"resultCapacity" comment:"Overlaps inspected per query. Extra overlaps are ignored."`
	// GroundLabels are the surface labels counted as ground.
	GroundLabels []string `toml:"groundLabels" comment:"Surface labels counted as ground."`

	DebugVisualize bool `toml:"debugVisualize" comment:"Record a wireframe of the probe every tick."`
	DebugTrail     int  `toml:"debugTrail" comment:"Number of probe frames kept per body."`

	Simulation Simulation `toml:"simulation"`
}

// Simulation configures the fixed step loop of the demo binary.
type Simulation struct {
	TickRate int `toml:"tickRate" comment:"Simulation steps per second."`
	Ticks    int `toml:"ticks" comment:"Number of steps to run."`
}

// Default returns the default settings.
func Default() Settings {
	shape := ground.DefaultShape
	return Settings{
		ProbeOffset:      Vec3(shape.Offset[:]),
		ProbeHalfExtents: Vec3(shape.HalfExtents[:]),
		ResultCapacity:   ground.DefaultCapacity,
		GroundLabels:     append([]string(nil), surface.DefaultGround...),
		DebugTrail:       debug.DefaultTrail,
		Simulation: Simulation{
			TickRate: 20,
			Ticks:    60,
		},
	}
}

// Load reads the settings at path. If the file does not exist, the default
// settings are written to it and returned.
func Load(path string) (Settings, error) {
	s := Default()
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return s, Save(path, s)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}
	tree, err := toml.LoadBytes(data)
	if err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	for _, key := range vectorKeys {
		if err := normaliseVec3(tree, key); err != nil {
			return Settings{}, fmt.Errorf("decode settings: %s: %w", key, err)
		}
	}
	if err := tree.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Save encodes s to path, replacing any existing file.
func Save(path string, s Settings) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// Validate returns an error if the settings cannot produce a working check.
func (s Settings) Validate() error {
	if len(s.ProbeOffset) != 3 {
		return oerror.New("settings: probeOffset must have 3 components, got %d", len(s.ProbeOffset))
	}
	if len(s.ProbeHalfExtents) != 3 {
		return oerror.New("settings: probeHalfExtents must have 3 components, got %d", len(s.ProbeHalfExtents))
	}
	for _, v := range s.ProbeHalfExtents {
		if v < 0 {
			return oerror.New("settings: probeHalfExtents must not be negative, got %v", s.ProbeHalfExtents)
		}
	}
	if s.ResultCapacity < 1 {
		return oerror.New("settings: resultCapacity must be at least 1, got %d", s.ResultCapacity)
	}
	if s.DebugTrail < 0 {
		return oerror.New("settings: debugTrail must not be negative, got %d", s.DebugTrail)
	}
	if s.Simulation.TickRate < 1 {
		return oerror.New("settings: simulation.tickRate must be at least 1, got %d", s.Simulation.TickRate)
	}
	if s.Simulation.Ticks < 0 {
		return oerror.New("settings: simulation.ticks must not be negative, got %d", s.Simulation.Ticks)
	}
	return nil
}

// Shape returns the configured probe shape. The settings must be valid.
func (s Settings) Shape() ground.Shape {
	return ground.Shape{
		Offset:      s.ProbeOffset.Vec(),
		HalfExtents: s.ProbeHalfExtents.Vec(),
	}
}

// Delta returns the length of one simulation step in seconds.
func (s Settings) Delta() float64 {
	return 1 / float64(s.Simulation.TickRate)
}

// Config validates the settings and converts them into a ground.Config,
// resolving the ground labels through reg. If debugVisualize is set, each call
// returns a new visualizer, so call it once per body.
func (s Settings) Config(reg *surface.Registry) (ground.Config, error) {
	if err := s.Validate(); err != nil {
		return ground.Config{}, err
	}
	labels, err := reg.Resolve(s.GroundLabels...)
	if err != nil {
		return ground.Config{}, fmt.Errorf("resolve ground labels: %w", err)
	}
	conf := ground.Config{
		Shape:    s.Shape(),
		Capacity: s.ResultCapacity,
		Ground:   labels,
	}
	if s.DebugVisualize {
		conf.Visualizer = debug.NewVisualizer(true, s.DebugTrail)
	}
	return conf, nil
}
