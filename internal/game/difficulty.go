package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrConfigParse is returned when a difficulty snapshot cannot be imported.
var ErrConfigParse = errors.New("configuration parse error")

// Clamp bounds applied to every difficulty mutation.
const (
	minBarrierThreshold = 1.01
	peoplePerLaneFloor  = 1
	peoplePerLaneCeil   = 5
	obstaclesFloor      = 1
	obstaclesCeil       = LaneCount - 1
)

// DifficultyConfig holds the tunable difficulty curve.
type DifficultyConfig struct {
	BaseSpeed        float64 `yaml:"base_speed"`        // world units per second at section 0
	SpeedIncrease    float64 `yaml:"speed_increase"`    // compound growth per section, [0,1]
	BarrierThreshold float64 `yaml:"barrier_threshold"` // high-speed once speed ≥ base × this
	MinPeoplePerLane int     `yaml:"min_people_per_lane"`
	MaxPeoplePerLane int     `yaml:"max_people_per_lane"`
	MinObstacles     int     `yaml:"min_obstacles"` // per section in high-speed mode
	MaxObstacles     int     `yaml:"max_obstacles"`
}

// DefaultDifficultyConfig returns the built-in curve.
func DefaultDifficultyConfig() DifficultyConfig {
	return DifficultyConfig{
		BaseSpeed:        5,
		SpeedIncrease:    0.03,
		BarrierThreshold: 2.0,
		MinPeoplePerLane: 1,
		MaxPeoplePerLane: 3,
		MinObstacles:     2,
		MaxObstacles:     4,
	}
}

// DifficultyAdjustment is a partial update; nil fields are left alone.
type DifficultyAdjustment struct {
	BaseSpeed        *float64 `json:"baseSpeed,omitempty"`
	SpeedIncrease    *float64 `json:"speedIncrease,omitempty"`
	BarrierThreshold *float64 `json:"barrierThreshold,omitempty"`
	MinPeoplePerLane *int     `json:"minPeoplePerLane,omitempty"`
	MaxPeoplePerLane *int     `json:"maxPeoplePerLane,omitempty"`
	MinObstacles     *int     `json:"minObstacles,omitempty"`
	MaxObstacles     *int     `json:"maxObstacles,omitempty"`
}

// DifficultySnapshot is the persisted form of a DifficultyConfig.
type DifficultySnapshot struct {
	BaseSpeed        float64 `json:"baseSpeed"`
	SpeedIncrease    float64 `json:"speedIncrease"`
	BarrierThreshold float64 `json:"barrierThreshold"`
	MinPeoplePerLane int     `json:"minPeoplePerLane"`
	MaxPeoplePerLane int     `json:"maxPeoplePerLane"`
	MinObstacles     int     `json:"minObstacles,omitempty"`
	MaxObstacles     int     `json:"maxObstacles,omitempty"`
}

// Difficulty derives speed, high-speed mode and obstacle count from the
// section index.
type Difficulty struct {
	cfg DifficultyConfig
	rng Rand
	log *SimLog
}

// NewDifficulty clamps cfg and binds it to rng. Invalid fields fall back to
// the defaults.
func NewDifficulty(cfg DifficultyConfig, rng Rand) *Difficulty {
	return &Difficulty{
		cfg: clampDifficulty(cfg, DefaultDifficultyConfig(), clampRule{}),
		rng: rng,
	}
}

// SetLog attaches an event log. nil disables logging.
func (d *Difficulty) SetLog(l *SimLog) { d.log = l }

// Config returns a copy of the live configuration.
func (d *Difficulty) Config() DifficultyConfig { return d.cfg }

// SpeedAt returns BaseSpeed × (1+SpeedIncrease)^section. Negative sections
// count as 0. The result may be +Inf for very large sections.
func (d *Difficulty) SpeedAt(section int) float64 {
	if section < 0 {
		section = 0
	}
	return d.cfg.BaseSpeed * math.Pow(1+d.cfg.SpeedIncrease, float64(section))
}

// IsHighSpeed reports whether SpeedAt(section) has crossed the barrier
// threshold. A non-finite speed is always high speed.
func (d *Difficulty) IsHighSpeed(section int) bool {
	s := d.SpeedAt(section)
	if math.IsNaN(s) || math.IsInf(s, 1) {
		return true
	}
	return s >= d.cfg.BaseSpeed*d.cfg.BarrierThreshold
}

// FirstHighSpeedSection returns the lowest section index in high-speed mode,
// or -1 when the curve never gets there.
func (d *Difficulty) FirstHighSpeedSection() int {
	// An increase below float resolution leaves 1+inc == 1 and a flat curve.
	if d.cfg.SpeedIncrease <= 0 || 1+d.cfg.SpeedIncrease == 1 {
		return -1
	}
	est := math.Ceil(math.Log(d.cfg.BarrierThreshold) / math.Log1p(d.cfg.SpeedIncrease))
	if math.IsNaN(est) || est > maxSectionSearch {
		return -1
	}
	n := int(math.Max(est, 0))
	// Correct for rounding in the closed form.
	for i := 0; i < roundingSlack && n > 0 && d.IsHighSpeed(n-1); i++ {
		n--
	}
	for i := 0; i < roundingSlack && !d.IsHighSpeed(n); i++ {
		n++
	}
	if !d.IsHighSpeed(n) {
		return -1
	}
	return n
}

const (
	// maxSectionSearch bounds FirstHighSpeedSection; later transitions are
	// reported as never.
	maxSectionSearch = math.MaxInt32
	roundingSlack    = 64
)

// ObstacleCount returns 1 outside high-speed mode, otherwise a fresh draw
// from [MinObstacles, MaxObstacles]. Not cached.
func (d *Difficulty) ObstacleCount(section int) int {
	if !d.IsHighSpeed(section) {
		return 1
	}
	return randRange(d.rng, d.cfg.MinObstacles, d.cfg.MaxObstacles)
}

// Adjust merges the set fields of adj into the configuration and clamps.
func (d *Difficulty) Adjust(adj DifficultyAdjustment) {
	next := d.cfg
	if adj.BaseSpeed != nil {
		next.BaseSpeed = *adj.BaseSpeed
	}
	if adj.SpeedIncrease != nil {
		next.SpeedIncrease = *adj.SpeedIncrease
	}
	if adj.BarrierThreshold != nil {
		next.BarrierThreshold = *adj.BarrierThreshold
	}
	if adj.MinPeoplePerLane != nil {
		next.MinPeoplePerLane = *adj.MinPeoplePerLane
	}
	if adj.MaxPeoplePerLane != nil {
		next.MaxPeoplePerLane = *adj.MaxPeoplePerLane
	}
	if adj.MinObstacles != nil {
		next.MinObstacles = *adj.MinObstacles
	}
	if adj.MaxObstacles != nil {
		next.MaxObstacles = *adj.MaxObstacles
	}
	// When only an upper bound moved, it wins a min/max conflict.
	d.cfg = clampDifficulty(next, d.cfg, clampRule{
		peopleMaxWins:    adj.MaxPeoplePerLane != nil && adj.MinPeoplePerLane == nil,
		obstaclesMaxWins: adj.MaxObstacles != nil && adj.MinObstacles == nil,
	})
	d.log.Add(0, -1, "difficulty", "adjust", d.describe(), d.cfg.SpeedIncrease)
}

// ResetToDefault restores DefaultDifficultyConfig.
func (d *Difficulty) ResetToDefault() {
	d.cfg = DefaultDifficultyConfig()
	d.log.Add(0, -1, "difficulty", "reset", d.describe(), d.cfg.SpeedIncrease)
}

// ExportSnapshot serialises every tunable field as JSON.
func (d *Difficulty) ExportSnapshot() ([]byte, error) {
	return json.Marshal(DifficultySnapshot{
		BaseSpeed:        d.cfg.BaseSpeed,
		SpeedIncrease:    d.cfg.SpeedIncrease,
		BarrierThreshold: d.cfg.BarrierThreshold,
		MinPeoplePerLane: d.cfg.MinPeoplePerLane,
		MaxPeoplePerLane: d.cfg.MaxPeoplePerLane,
		MinObstacles:     d.cfg.MinObstacles,
		MaxObstacles:     d.cfg.MaxObstacles,
	})
}

// rawSnapshot distinguishes missing fields from zero values.
type rawSnapshot struct {
	BaseSpeed        *float64 `json:"baseSpeed"`
	SpeedIncrease    *float64 `json:"speedIncrease"`
	BarrierThreshold *float64 `json:"barrierThreshold"`
	MinPeoplePerLane *float64 `json:"minPeoplePerLane"`
	MaxPeoplePerLane *float64 `json:"maxPeoplePerLane"`
	MinObstacles     *float64 `json:"minObstacles"`
	MaxObstacles     *float64 `json:"maxObstacles"`
}

// ImportSnapshot replaces the configuration with a snapshot produced by
// ExportSnapshot. On any error the live configuration is unchanged and the
// error wraps ErrConfigParse.
func (d *Difficulty) ImportSnapshot(data []byte) error {
	cfg, err := parseSnapshot(data, d.cfg)
	if err != nil {
		d.log.Add(0, -1, "difficulty", "import_rejected", err.Error(), 0)
		return err
	}
	d.cfg = clampDifficulty(cfg, d.cfg, clampRule{})
	d.log.Add(0, -1, "difficulty", "import", d.describe(), d.cfg.SpeedIncrease)
	return nil
}

func parseSnapshot(data []byte, current DifficultyConfig) (DifficultyConfig, error) {
	var raw rawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return DifficultyConfig{}, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	required := []struct {
		name string
		v    *float64
	}{
		{"baseSpeed", raw.BaseSpeed},
		{"speedIncrease", raw.SpeedIncrease},
		{"barrierThreshold", raw.BarrierThreshold},
		{"minPeoplePerLane", raw.MinPeoplePerLane},
		{"maxPeoplePerLane", raw.MaxPeoplePerLane},
	}
	for _, f := range required {
		if f.v == nil {
			return DifficultyConfig{}, fmt.Errorf("%w: missing field %q", ErrConfigParse, f.name)
		}
	}
	if *raw.BaseSpeed <= 0 {
		return DifficultyConfig{}, fmt.Errorf("%w: baseSpeed must be positive, got %v", ErrConfigParse, *raw.BaseSpeed)
	}

	cfg := DifficultyConfig{
		BaseSpeed:        *raw.BaseSpeed,
		SpeedIncrease:    *raw.SpeedIncrease,
		BarrierThreshold: *raw.BarrierThreshold,
		MinPeoplePerLane: roundInt(*raw.MinPeoplePerLane),
		MaxPeoplePerLane: roundInt(*raw.MaxPeoplePerLane),
		MinObstacles:     current.MinObstacles,
		MaxObstacles:     current.MaxObstacles,
	}
	if raw.MinObstacles != nil {
		cfg.MinObstacles = roundInt(*raw.MinObstacles)
	}
	if raw.MaxObstacles != nil {
		cfg.MaxObstacles = roundInt(*raw.MaxObstacles)
	}
	return cfg, nil
}

// roundInt rounds x to an int, saturating at the int32 range so huge or
// infinite values clamp to the ceiling instead of wrapping.
func roundInt(x float64) int {
	if math.IsNaN(x) {
		return 0
	}
	return int(math.Round(math.Max(math.MinInt32, math.Min(math.MaxInt32, x))))
}

// clampRule picks which bound survives a min > max conflict.
type clampRule struct {
	peopleMaxWins    bool
	obstaclesMaxWins bool
}

// clampDifficulty forces cfg into its legal ranges. Fields that cannot be
// clamped (non-finite or non-positive speed) are taken from fallback.
func clampDifficulty(cfg, fallback DifficultyConfig, rule clampRule) DifficultyConfig {
	if math.IsNaN(cfg.BaseSpeed) || math.IsInf(cfg.BaseSpeed, 0) || cfg.BaseSpeed <= 0 {
		cfg.BaseSpeed = fallback.BaseSpeed
	}
	if math.IsNaN(cfg.SpeedIncrease) {
		cfg.SpeedIncrease = fallback.SpeedIncrease
	}
	cfg.SpeedIncrease = math.Min(math.Max(cfg.SpeedIncrease, 0), 1)
	if math.IsNaN(cfg.BarrierThreshold) || math.IsInf(cfg.BarrierThreshold, 0) {
		cfg.BarrierThreshold = fallback.BarrierThreshold
	}
	if cfg.BarrierThreshold < minBarrierThreshold {
		cfg.BarrierThreshold = minBarrierThreshold
	}

	cfg.MinPeoplePerLane = clampInt(cfg.MinPeoplePerLane, peoplePerLaneFloor, peoplePerLaneCeil)
	cfg.MaxPeoplePerLane = clampInt(cfg.MaxPeoplePerLane, peoplePerLaneFloor, peoplePerLaneCeil)
	if cfg.MinPeoplePerLane > cfg.MaxPeoplePerLane {
		if rule.peopleMaxWins {
			cfg.MinPeoplePerLane = cfg.MaxPeoplePerLane
		} else {
			cfg.MaxPeoplePerLane = cfg.MinPeoplePerLane
		}
	}

	cfg.MinObstacles = clampInt(cfg.MinObstacles, obstaclesFloor, obstaclesCeil)
	cfg.MaxObstacles = clampInt(cfg.MaxObstacles, obstaclesFloor, obstaclesCeil)
	if cfg.MinObstacles > cfg.MaxObstacles {
		if rule.obstaclesMaxWins {
			cfg.MinObstacles = cfg.MaxObstacles
		} else {
			cfg.MaxObstacles = cfg.MinObstacles
		}
	}
	return cfg
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (d *Difficulty) describe() string {
	c := d.cfg
	return fmt.Sprintf("base=%.2f inc=%.3f thr=%.2f people=%d..%d obstacles=%d..%d",
		c.BaseSpeed, c.SpeedIncrease, c.BarrierThreshold,
		c.MinPeoplePerLane, c.MaxPeoplePerLane, c.MinObstacles, c.MaxObstacles)
}
