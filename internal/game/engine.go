package game

import "fmt"

// Engine owns the section pipeline of one session: it populates sections
// ahead of the active one, hands them to the orchestrator as the active
// section advances, and releases sections left behind.
type Engine struct {
	Tuning       Tuning
	Track        TrackSectionProvider
	Difficulty   *Difficulty
	Arena        *Arena
	Placer       *Placer
	Orchestrator *CollisionOrchestrator
	Session      *GameSession
	Log          *SimLog

	started        bool
	current        int
	nextGen        int
	placements     []SectionPlacement // live, ascending by section
	tallies        []TallySnapshot
	firstHighSpeed int

	onPopulate func(SectionPlacement)
	onEnter    func(SectionPlacement)
	onRelease  func([]Handle)
	onGameOver func(TallySnapshot)
}

// NewEngine builds an engine from t. motion and crash may be nil.
func NewEngine(t Tuning, rng Rand, motion MotionController, crash CrashAnimator, log *SimLog) *Engine {
	t.normalize()
	diff := NewDifficulty(t.Difficulty, rng)
	diff.SetLog(log)
	arena := NewArena()
	order := ObstaclesFirst
	if t.Run.PeopleFirst {
		order = PeopleFirst
	}
	session := NewGameSession()
	orch := NewCollisionOrchestrator(arena, session, motion, crash)
	orch.SetLog(log)
	e := &Engine{
		Tuning:         t,
		Track:          NewStraightTrack(t.Track),
		Difficulty:     diff,
		Arena:          arena,
		Placer:         NewPlacer(diff, arena, rng, order, log),
		Orchestrator:   orch,
		Session:        session,
		Log:            log,
		firstHighSpeed: -1,
	}
	orch.OnCrashComplete(e.gameOver)
	return e
}

// gameOver closes the crash section once the animation ends, so its hits
// reach the ledger and its tally is recorded.
func (e *Engine) gameOver() {
	last := e.Orchestrator.Tally()
	if e.Orchestrator.ActiveSection() >= 0 {
		last = e.Orchestrator.FinalizeSection()
		e.tallies = append(e.tallies, last)
	}
	e.Session.CrashFinished()
	e.Log.Add(e.frame(), e.current, "run", "game_over",
		fmt.Sprintf("score=%d hit=%d avoided=%d", e.Session.Score, e.Session.PeopleHit, e.Session.PeopleAvoided),
		float64(e.Session.Score))
	if e.onGameOver != nil {
		e.onGameOver(last)
	}
}

func (e *Engine) frame() int { return e.Orchestrator.frame }

// OnPopulate registers a callback run for every newly populated section.
func (e *Engine) OnPopulate(fn func(SectionPlacement)) { e.onPopulate = fn }

// OnEnter registers a callback run when a section becomes active.
func (e *Engine) OnEnter(fn func(SectionPlacement)) { e.onEnter = fn }

// OnRelease registers a callback receiving released handles.
func (e *Engine) OnRelease(fn func([]Handle)) { e.onRelease = fn }

// OnGameOver registers a callback run after the crash section is closed.
func (e *Engine) OnGameOver(fn func(TallySnapshot)) { e.onGameOver = fn }

// Start populates the first sections and activates section 0. Calling it
// again is a no-op.
func (e *Engine) Start() {
	if e.started {
		return
	}
	e.started = true
	e.ensure(e.Tuning.Run.Lookahead)
	e.enter(0)
}

// Current returns the active section index.
func (e *Engine) Current() int { return e.current }

// CurrentSection returns the active section's geometry.
func (e *Engine) CurrentSection() TrackSection {
	if sp, ok := e.Placement(e.current); ok {
		return sp.Section
	}
	return e.Track.Section(e.current)
}

// Placement returns the placement of a live section.
func (e *Engine) Placement(section int) (SectionPlacement, bool) {
	for _, sp := range e.placements {
		if sp.Section.Index == section {
			return sp, true
		}
	}
	return SectionPlacement{}, false
}

// Placements returns every live section, ascending.
func (e *Engine) Placements() []SectionPlacement { return e.placements }

// Tallies returns the finalized section tallies in order.
func (e *Engine) Tallies() []TallySnapshot { return e.tallies }

// FirstHighSpeedSection returns the first section entered in high-speed
// mode, or -1.
func (e *Engine) FirstHighSpeedSection() int { return e.firstHighSpeed }

// ProcessFrame forwards one frame of raw hits to the orchestrator.
func (e *Engine) ProcessFrame(frame int, hits []Hit) FrameResult {
	e.Orchestrator.SetFrame(frame)
	return e.Orchestrator.ProcessFrame(hits)
}

// EnterSection finalizes every section before target and activates target.
// Targets at or behind the active section are ignored. It returns the
// tallies finalized on the way.
func (e *Engine) EnterSection(target int) []TallySnapshot {
	if !e.started {
		e.Start()
	}
	if e.Session.State == StateGameOver {
		return nil
	}
	var out []TallySnapshot
	for e.current < target {
		out = append(out, e.advance())
	}
	return out
}

func (e *Engine) advance() TallySnapshot {
	snap := e.Orchestrator.FinalizeSection()
	e.tallies = append(e.tallies, snap)
	e.current++
	e.ensure(e.current + e.Tuning.Run.Lookahead)
	e.release(e.current - e.Tuning.Run.KeepBehind)
	e.enter(e.current)
	return snap
}

func (e *Engine) ensure(upTo int) {
	for e.nextGen <= upTo {
		sp := e.Placer.Populate(e.Track.Section(e.nextGen))
		e.placements = append(e.placements, sp)
		e.nextGen++
		if e.onPopulate != nil {
			e.onPopulate(sp)
		}
	}
}

func (e *Engine) release(before int) {
	released := e.Arena.ReleaseBefore(before)
	kept := e.placements[:0]
	for _, sp := range e.placements {
		if sp.Section.Index >= before {
			kept = append(kept, sp)
		}
	}
	e.placements = kept
	if len(released) > 0 && e.onRelease != nil {
		e.onRelease(released)
	}
}

func (e *Engine) enter(section int) {
	sp, ok := e.Placement(section)
	if !ok {
		e.ensure(section)
		sp, _ = e.Placement(section)
	}
	e.Orchestrator.StartSection(section, sp.People.People)
	if e.firstHighSpeed < 0 && e.Difficulty.IsHighSpeed(section) {
		e.firstHighSpeed = section
		e.Log.Add(e.frame(), section, "difficulty", "high_speed",
			fmt.Sprintf("speed=%.2f", e.Difficulty.SpeedAt(section)), e.Difficulty.SpeedAt(section))
	}
	if e.onEnter != nil {
		e.onEnter(sp)
	}
}
