package game

import (
	"fmt"
	"math"
)

// Run is a self-contained session: an Engine plus a trolley, a geometric hit
// source, a scripted crash and a driver choosing lanes.
type Run struct {
	*Engine
	Trolley *Trolley
	Hits    CollisionHitSource
	Crash   *ScriptedCrash
	Driver  Driver
	Seed    int64

	Frame    int
	Warnings int     // frames with an obstacle inside the warning range
	TopSpeed float64 // highest integration speed driven so far
	fx       VisualEffectHook
}

// NewRun builds a run from t seeded with t.Seed.
func NewRun(t Tuning, driver Driver, log *SimLog) *Run {
	t.normalize()
	rng := NewRand(t.Seed)
	if driver == nil {
		driver = FewestPeopleDriver{}
	}
	trolley := NewTrolley(Vec3{}, t.Run.TrolleyWidth, t.Run.TrolleyLength, t.Run.LaneSwitchSpeed)
	crash := &ScriptedCrash{Frames: t.Run.CrashFrames}
	e := NewEngine(t, rng, trolley, crash, log)
	r := &Run{
		Engine:  e,
		Trolley: trolley,
		Hits:    NewBoxHitSource(e.Arena, t.Run.ObstacleWidth, t.Run.ObstacleDepth, t.Run.PersonRadius),
		Crash:   crash,
		Driver:  driver,
		Seed:    t.Seed,
	}
	e.OnEnter(r.steer)
	e.Start()
	sec := e.CurrentSection()
	trolley.Pos = Vec3{X: trolley.TargetX, Z: sec.StartZ + trolley.HalfLength}
	return r
}

// SetEffects attaches a visual effect hook.
func (r *Run) SetEffects(fx VisualEffectHook) {
	r.fx = fx
	r.Orchestrator.SetEffects(fx)
}

// steer asks the driver for a lane when a section becomes active.
func (r *Run) steer(sp SectionPlacement) {
	sec := sp.Section
	if len(sec.Lanes) == 0 {
		return
	}
	current := sec.NearestLane(r.Trolley.Pos.X)
	lane := current
	if sec.Placeable() {
		lane = r.Driver.ChooseLane(LaneView{
			Section:   sec,
			Blocked:   sp.Obstacles.Occupied,
			Counts:    sp.People.Counts,
			Current:   current,
			HighSpeed: r.Difficulty.IsHighSpeed(sec.Index),
		})
		if lane < 0 || lane >= len(sec.Lanes) {
			lane = current
		}
	}
	r.Trolley.TargetX = sec.Lanes[lane].X
	r.Log.Add(r.Frame, sec.Index, "run", "lane",
		fmt.Sprintf("%s %d→%d", r.Driver.Name(), current, lane), float64(lane))
}

// SteerTo overrides the driver and sets the target lane in the active
// section.
func (r *Run) SteerTo(lane int) {
	sec := r.CurrentSection()
	if lane < 0 || lane >= len(sec.Lanes) {
		return
	}
	r.Trolley.TargetX = sec.Lanes[lane].X
}

// speed returns the integration speed of the active section. Non-finite
// speeds are capped.
func (r *Run) speed() float64 {
	s := r.Difficulty.SpeedAt(r.current)
	if math.IsNaN(s) || math.IsInf(s, 0) || s > r.Tuning.Run.MaxSpeed {
		return r.Tuning.Run.MaxSpeed
	}
	return s
}

// Step advances the run by one frame.
func (r *Run) Step() {
	if r.Session.State == StateGameOver {
		return
	}
	r.Frame++
	r.Orchestrator.SetFrame(r.Frame)
	r.Crash.Tick()
	if r.Trolley.Stopped() {
		return
	}

	v := r.speed()
	if v > r.TopSpeed {
		r.TopSpeed = v
	}
	r.Trolley.Advance(r.Tuning.Run.FrameDT, v)
	for r.Trolley.Pos.Z >= r.CurrentSection().EndZ {
		r.advance()
	}

	if r.Orchestrator.CheckNearCollision(r.Trolley.Pos, r.Tuning.Run.WarnDistance, r.Trolley.HalfWidth+r.Tuning.Run.ObstacleWidth/2) {
		r.Warnings++
	}
	r.Orchestrator.ProcessFrame(r.Hits.Hits(r.Trolley.Bounds()))
	r.Log.AddVerbose(r.Frame, r.current, "run", "position",
		fmt.Sprintf("(%.2f,%.2f) v=%.2f", r.Trolley.Pos.X, r.Trolley.Pos.Z, r.Trolley.Speed), r.Trolley.Speed)
}

// RunSections steps until sections have been finalized, the game is over,
// or maxFrames elapse (0 means no frame limit).
func (r *Run) RunSections(sections, maxFrames int) {
	for len(r.tallies) < sections && r.Session.State != StateGameOver {
		if maxFrames > 0 && r.Frame >= maxFrames {
			return
		}
		r.Step()
	}
}

// RunFrames steps n frames.
func (r *Run) RunFrames(n int) {
	for i := 0; i < n; i++ {
		r.Step()
	}
}
