package game

import "math"

// LaneCount is the lane count of a section that can carry obstacles and people.
const LaneCount = 5

// Vec3 is a point in track space. X runs across the lanes, Z along the track
// in the direction of travel.
type Vec3 struct {
	X, Y, Z float64
}

// TrackSection is one fixed-length run of track spanning [StartZ, EndZ).
type TrackSection struct {
	Index  int
	Lanes  []Vec3 // lane centre points at StartZ, left to right
	StartZ float64
	EndZ   float64
}

// Length returns EndZ - StartZ.
func (s TrackSection) Length() float64 { return s.EndZ - s.StartZ }

// Placeable reports whether the section has exactly LaneCount lanes.
func (s TrackSection) Placeable() bool { return len(s.Lanes) == LaneCount }

// Contains reports whether z lies inside [StartZ, EndZ).
func (s TrackSection) Contains(z float64) bool { return z >= s.StartZ && z < s.EndZ }

// LaneWidth is the spacing between adjacent lanes, 0 for single-lane sections.
func (s TrackSection) LaneWidth() float64 {
	if len(s.Lanes) < 2 {
		return 0
	}
	return math.Abs(s.Lanes[1].X - s.Lanes[0].X)
}

// NearestLane returns the lane whose centre is closest to x, or -1 when the
// section has no lanes.
func (s TrackSection) NearestLane(x float64) int {
	best, bestD := -1, math.Inf(1)
	for i, l := range s.Lanes {
		if d := math.Abs(l.X - x); d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

// zAt maps a fraction of the section length to an absolute Z.
func (s TrackSection) zAt(frac float64) float64 {
	return s.StartZ + frac*s.Length()
}

// TrackSectionProvider yields sections by ordinal index. The engine never
// builds lane geometry itself.
type TrackSectionProvider interface {
	Section(index int) TrackSection
}

// TrackConfig holds the geometry of a StraightTrack.
type TrackConfig struct {
	SectionLength    float64 `yaml:"section_length" json:"sectionLength"`
	LaneSpacing      float64 `yaml:"lane_spacing" json:"laneSpacing"`
	ApproachSections int     `yaml:"approach_sections" json:"approachSections"` // leading single-lane sections
}

var defaultTrackConfig = TrackConfig{
	SectionLength:    40,
	LaneSpacing:      2,
	ApproachSections: 1,
}

// StraightTrack lays sections end to end along +Z. The first
// ApproachSections sections carry a single centre lane.
type StraightTrack struct {
	cfg TrackConfig
}

// NewStraightTrack builds a provider, filling non-positive geometry with defaults.
func NewStraightTrack(cfg TrackConfig) *StraightTrack {
	if cfg.SectionLength <= 0 {
		cfg.SectionLength = defaultTrackConfig.SectionLength
	}
	if cfg.LaneSpacing <= 0 {
		cfg.LaneSpacing = defaultTrackConfig.LaneSpacing
	}
	if cfg.ApproachSections < 0 {
		cfg.ApproachSections = 0
	}
	return &StraightTrack{cfg: cfg}
}

// Section returns section index. Negative indices are treated as 0.
func (t *StraightTrack) Section(index int) TrackSection {
	if index < 0 {
		index = 0
	}
	start := float64(index) * t.cfg.SectionLength
	sec := TrackSection{
		Index:  index,
		StartZ: start,
		EndZ:   start + t.cfg.SectionLength,
	}
	if index < t.cfg.ApproachSections {
		sec.Lanes = []Vec3{{X: 0, Z: start}}
		return sec
	}
	sec.Lanes = make([]Vec3, LaneCount)
	mid := float64(LaneCount-1) / 2
	for i := range sec.Lanes {
		sec.Lanes[i] = Vec3{X: (float64(i) - mid) * t.cfg.LaneSpacing, Z: start}
	}
	return sec
}
