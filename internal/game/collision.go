package game

import (
	"fmt"
	"math"
)

// HitKind classifies a raw collision.
type HitKind uint8

const (
	HitObstacle HitKind = iota
	HitPerson
)

func (k HitKind) String() string {
	if k == HitPerson {
		return "person"
	}
	return "obstacle"
}

// Hit is one raw collision reported for the current frame.
type Hit struct {
	Kind    HitKind
	Subject Handle
	Pos     Vec3
}

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max Vec3
}

// Overlaps reports whether b and o intersect on X and Z.
func (b Box) Overlaps(o Box) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

// CollisionHitSource runs the geometric test of the agent against live
// placements. It knows nothing about scoring.
type CollisionHitSource interface {
	Hits(agent Box) []Hit
}

// CrashAnimator plays the crash sequence. It must return immediately and
// call onComplete once the sequence ends.
type CrashAnimator interface {
	StartCrashAnimation(onComplete func())
}

// GameStateSink is the external score ledger.
type GameStateSink interface {
	AddScore(delta int)
	AddPeopleHit(n int)
	AddPeopleAvoided(n int)
	SetGameOver(hitBarrier bool)
}

// MotionController is whatever moves the trolley.
type MotionController interface {
	Stop()
}

// VisualEffectHook receives best-effort effect triggers.
type VisualEffectHook interface {
	ShowObstacleEffect(pos Vec3)
	ShowPersonEffect(pos Vec3)
	ShowWarning(pos Vec3)
}

// EntityIndex resolves hit subjects. *Arena implements it.
type EntityIndex interface {
	Person(h Handle) (*Person, bool)
	ObstaclesIn(section int) []*Obstacle
}

// TallySnapshot is the immutable result of a finalized section.
type TallySnapshot struct {
	Section       int  `json:"section"`
	TotalPeople   int  `json:"totalPeople"`
	PeopleHit     int  `json:"peopleHit"`
	PeopleAvoided int  `json:"peopleAvoided"`
	ObstaclesHit  int  `json:"obstaclesHit"`
	GameEnded     bool `json:"gameEnded"`
}

// FrameResult summarises what one ProcessFrame call applied.
type FrameResult struct {
	PersonHits   []Handle // people newly counted this frame
	ObstacleHits int
	Terminal     bool // this frame ended the game
}

// CollisionOrchestrator reduces raw hits into the section tally and the
// external score. Section lifecycle: StartSection → ProcessFrame* →
// FinalizeSection.
type CollisionOrchestrator struct {
	entities EntityIndex
	sink     GameStateSink
	motion   MotionController
	crash    CrashAnimator
	effects  VisualEffectHook
	log      *SimLog

	onCrashComplete func()

	frame        int
	active       bool
	finalized    bool
	section      int
	totalPeople  int
	peopleHit    int
	obstaclesHit int
	last         TallySnapshot

	ended        bool // permanent for the session
	crashStarted bool
	crashDone    bool
}

// NewCollisionOrchestrator wires the required collaborators. motion and crash
// may be nil.
func NewCollisionOrchestrator(entities EntityIndex, sink GameStateSink, motion MotionController, crash CrashAnimator) *CollisionOrchestrator {
	return &CollisionOrchestrator{
		entities: entities,
		sink:     sink,
		motion:   motion,
		crash:    crash,
		section:  -1,
		last:     TallySnapshot{Section: -1},
	}
}

// SetEffects attaches an optional effect hook.
func (o *CollisionOrchestrator) SetEffects(fx VisualEffectHook) { o.effects = fx }

// SetLog attaches an event log.
func (o *CollisionOrchestrator) SetLog(l *SimLog) { o.log = l }

// OnCrashComplete registers the callback run when the crash animation ends.
func (o *CollisionOrchestrator) OnCrashComplete(fn func()) { o.onCrashComplete = fn }

// SetFrame stamps subsequent log entries.
func (o *CollisionOrchestrator) SetFrame(frame int) { o.frame = frame }

// GameEnded reports whether an obstacle hit has ended the session.
func (o *CollisionOrchestrator) GameEnded() bool { return o.ended }

// CrashComplete reports whether the crash animation has finished.
func (o *CollisionOrchestrator) CrashComplete() bool { return o.crashDone }

// ActiveSection returns the section being tallied, or -1.
func (o *CollisionOrchestrator) ActiveSection() int {
	if !o.active {
		return -1
	}
	return o.section
}

// Tally returns the running counters of the active section.
func (o *CollisionOrchestrator) Tally() TallySnapshot {
	if !o.active {
		return o.last
	}
	return o.snapshot()
}

// StartSection resets the tally for section. people is the full set of
// people placed in it; their hit flags are cleared.
func (o *CollisionOrchestrator) StartSection(section int, people []*Person) {
	o.active = true
	o.finalized = false
	o.section = section
	o.totalPeople = len(people)
	o.peopleHit = 0
	o.obstaclesHit = 0
	for _, p := range people {
		p.reset()
	}
	o.log.Add(o.frame, section, "section", "start", fmt.Sprintf("people=%d", len(people)), float64(len(people)))
}

// ProcessFrame applies one frame of raw hits. Obstacle hits are applied
// before any person hit; the first one ends the game and nothing scores
// afterwards.
func (o *CollisionOrchestrator) ProcessFrame(hits []Hit) FrameResult {
	var res FrameResult
	if o.ended {
		return res
	}

	for _, h := range hits {
		if h.Kind != HitObstacle {
			continue
		}
		res.ObstacleHits++
		o.obstaclesHit++
		if o.effects != nil {
			o.effects.ShowObstacleEffect(h.Pos)
		}
		if !o.ended {
			o.ended = true
			res.Terminal = true
			o.terminate(h)
		}
	}
	if o.ended {
		return res
	}

	if !o.active {
		return res
	}
	for _, h := range hits {
		if h.Kind != HitPerson {
			continue
		}
		p, ok := o.entities.Person(h.Subject)
		if !ok || p.Section != o.section {
			continue
		}
		if !p.MarkHit() {
			continue
		}
		o.peopleHit++
		res.PersonHits = append(res.PersonHits, h.Subject)
		if o.effects != nil {
			o.effects.ShowPersonEffect(h.Pos)
		}
		o.sink.AddScore(-1)
		o.log.Add(o.frame, o.section, "hit", "person",
			fmt.Sprintf("lane=%d slot=%d", p.Lane, p.Slot), float64(o.peopleHit))
	}
	return res
}

func (o *CollisionOrchestrator) terminate(h Hit) {
	if o.motion != nil {
		o.motion.Stop()
	}
	o.sink.SetGameOver(true)
	o.log.Add(o.frame, o.section, "hit", "obstacle",
		fmt.Sprintf("at (%.2f,%.2f)", h.Pos.X, h.Pos.Z), 1)
	if o.crashStarted {
		return
	}
	o.crashStarted = true
	o.log.Add(o.frame, o.section, "crash", "start", "", 0)
	if o.crash == nil {
		o.crashFinished()
		return
	}
	o.crash.StartCrashAnimation(o.crashFinished)
}

func (o *CollisionOrchestrator) crashFinished() {
	if o.crashDone {
		return
	}
	o.crashDone = true
	o.log.Add(o.frame, o.section, "crash", "complete", "", 0)
	if o.onCrashComplete != nil {
		o.onCrashComplete()
	}
}

// FinalizeSection closes the active section: avoided = total - hit is added
// to the score and both counters to the cumulative totals. Repeated calls
// return the same snapshot until the next StartSection. Once the game has
// ended nothing is scored, but people already hit still reach the
// cumulative hit count since their -1 was charged when they were hit.
func (o *CollisionOrchestrator) FinalizeSection() TallySnapshot {
	if o.finalized || !o.active {
		return o.last
	}
	snap := o.snapshot()
	o.finalized = true
	o.active = false
	o.last = snap

	o.sink.AddPeopleHit(snap.PeopleHit)
	if !o.ended {
		o.sink.AddScore(snap.PeopleAvoided)
		o.sink.AddPeopleAvoided(snap.PeopleAvoided)
	}
	o.log.Add(o.frame, snap.Section, "score", "finalize",
		fmt.Sprintf("total=%d hit=%d avoided=%d ended=%t", snap.TotalPeople, snap.PeopleHit, snap.PeopleAvoided, snap.GameEnded),
		float64(snap.PeopleAvoided))
	return snap
}

func (o *CollisionOrchestrator) snapshot() TallySnapshot {
	return TallySnapshot{
		Section:       o.section,
		TotalPeople:   o.totalPeople,
		PeopleHit:     o.peopleHit,
		PeopleAvoided: o.totalPeople - o.peopleHit,
		ObstaclesHit:  o.obstaclesHit,
		GameEnded:     o.ended,
	}
}

// CheckNearCollision probes for an obstacle ahead of the agent within
// warnDistance along Z and lateral across X, in the active section and the
// one after it. It fires a warning effect for each and never scores.
func (o *CollisionOrchestrator) CheckNearCollision(agent Vec3, warnDistance, lateral float64) bool {
	if o.ended || !o.active {
		return false
	}
	found := false
	for _, sec := range [2]int{o.section, o.section + 1} {
		for _, ob := range o.entities.ObstaclesIn(sec) {
			dz := ob.Pos.Z - agent.Z
			if dz <= 0 || dz > warnDistance || math.Abs(ob.Pos.X-agent.X) > lateral {
				continue
			}
			found = true
			if o.effects != nil {
				o.effects.ShowWarning(ob.Pos)
			}
		}
	}
	return found
}
