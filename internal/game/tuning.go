package game

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RunConfig holds the frame loop and geometry parameters of a Run.
type RunConfig struct {
	FrameDT         float64 `yaml:"frame_dt"`          // seconds per frame
	Lookahead       int     `yaml:"lookahead"`         // sections populated ahead of the trolley
	KeepBehind      int     `yaml:"keep_behind"`       // finished sections kept before release
	WarnDistance    float64 `yaml:"warn_distance"`     // near-collision probe range along Z
	TrolleyWidth    float64 `yaml:"trolley_width"`     //
	TrolleyLength   float64 `yaml:"trolley_length"`    //
	LaneSwitchSpeed float64 `yaml:"lane_switch_speed"` // lateral units per second
	MaxSpeed        float64 `yaml:"max_speed"`         // integration cap, also for non-finite speeds
	ObstacleWidth   float64 `yaml:"obstacle_width"`
	ObstacleDepth   float64 `yaml:"obstacle_depth"`
	PersonRadius    float64 `yaml:"person_radius"`
	CrashFrames     int     `yaml:"crash_frames"`
	PeopleFirst     bool    `yaml:"people_first"`
}

var defaultRunConfig = RunConfig{
	FrameDT:         1.0 / 60,
	Lookahead:       2,
	KeepBehind:      1,
	WarnDistance:    12,
	TrolleyWidth:    1.2,
	TrolleyLength:   2.4,
	LaneSwitchSpeed: 8,
	MaxSpeed:        120,
	ObstacleWidth:   1.4,
	ObstacleDepth:   1.0,
	PersonRadius:    0.3,
	CrashFrames:     90,
}

// Tuning is the full configuration of a run, loadable from YAML.
type Tuning struct {
	Seed       int64            `yaml:"seed"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Track      TrackConfig      `yaml:"track"`
	Run        RunConfig        `yaml:"run"`
}

// DefaultTuning returns the built-in tuning.
func DefaultTuning() Tuning {
	return Tuning{
		Seed:       1,
		Difficulty: DefaultDifficultyConfig(),
		Track:      defaultTrackConfig,
		Run:        defaultRunConfig,
	}
}

// ParseTuning overlays YAML onto DefaultTuning. Keys absent from data keep
// their defaults; out-of-range values are clamped.
func ParseTuning(data []byte) (Tuning, error) {
	t := DefaultTuning()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tuning{}, fmt.Errorf("parse tuning: %w", err)
	}
	t.normalize()
	return t, nil
}

// LoadTuning reads and parses a tuning file.
func LoadTuning(path string) (Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("read tuning %s: %w", path, err)
	}
	t, err := ParseTuning(data)
	if err != nil {
		return Tuning{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Marshal renders the tuning as YAML.
func (t Tuning) Marshal() ([]byte, error) {
	return yaml.Marshal(t)
}

func (t *Tuning) normalize() {
	t.Difficulty = clampDifficulty(t.Difficulty, DefaultDifficultyConfig(), clampRule{})

	if t.Track.SectionLength <= 0 {
		t.Track.SectionLength = defaultTrackConfig.SectionLength
	}
	if t.Track.LaneSpacing <= 0 {
		t.Track.LaneSpacing = defaultTrackConfig.LaneSpacing
	}
	if t.Track.ApproachSections < 0 {
		t.Track.ApproachSections = 0
	}

	r, d := &t.Run, defaultRunConfig
	positive := func(v *float64, def float64) {
		if *v <= 0 {
			*v = def
		}
	}
	positive(&r.FrameDT, d.FrameDT)
	positive(&r.WarnDistance, d.WarnDistance)
	positive(&r.TrolleyWidth, d.TrolleyWidth)
	positive(&r.TrolleyLength, d.TrolleyLength)
	positive(&r.LaneSwitchSpeed, d.LaneSwitchSpeed)
	positive(&r.MaxSpeed, d.MaxSpeed)
	positive(&r.ObstacleWidth, d.ObstacleWidth)
	positive(&r.ObstacleDepth, d.ObstacleDepth)
	positive(&r.PersonRadius, d.PersonRadius)
	if r.Lookahead < 1 {
		r.Lookahead = 1
	}
	if r.KeepBehind < 0 {
		r.KeepBehind = 0
	}
	if r.CrashFrames < 0 {
		r.CrashFrames = 0
	}
}
