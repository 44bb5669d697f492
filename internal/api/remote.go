package api

import (
	"fmt"

	"github.com/Garsondee/trolley-sense/internal/game"
)

// Remote is one browser session. The client runs the geometric test and
// reports raw hits; Remote owns placement and scoring. It is not safe for
// concurrent use: a connection's read pump is its only caller.
type Remote struct {
	engine *game.Engine
	seed   int64
	out    []Message

	stopped   bool
	crashDone func()
	over      bool
}

// NewRemote starts a session from t. The initial section messages are
// queued and returned by the first Drain.
func NewRemote(t game.Tuning, log *game.SimLog) *Remote {
	r := &Remote{seed: t.Seed}
	r.engine = game.NewEngine(t, game.NewRand(t.Seed), r, r, log)
	r.engine.Orchestrator.SetEffects(r)
	r.engine.OnPopulate(func(sp game.SectionPlacement) {
		r.queue(MsgSection, sectionView(sp, r.engine.Difficulty))
	})
	r.engine.OnRelease(func(hs []game.Handle) {
		v := ReleaseView{Handles: make([]uint64, len(hs))}
		for i, h := range hs {
			v.Handles[i] = uint64(h)
		}
		r.queue(MsgRelease, v)
	})
	r.engine.OnGameOver(func(last game.TallySnapshot) {
		r.over = true
		r.queue(MsgTally, last)
		r.queue(MsgGameOver, *r.engine.Session)
	})
	r.engine.Start()
	r.queue(MsgScore, *r.engine.Session)
	return r
}

// Seed returns the placement seed of the session.
func (r *Remote) Seed() int64 { return r.seed }

// Engine exposes the session engine.
func (r *Remote) Engine() *game.Engine { return r.engine }

func (r *Remote) queue(typ string, payload interface{}) {
	r.out = append(r.out, Message{Type: typ, Payload: payload})
}

// Drain returns and clears the queued outbound messages.
func (r *Remote) Drain() []Message {
	out := r.out
	r.out = nil
	return out
}

// Handle applies one client message and returns the replies.
func (r *Remote) Handle(msg ClientMessage) []Message {
	switch msg.Type {
	case ClientEnterSection:
		r.enterSection(msg.Section)
	case ClientFrame:
		r.frame(msg.Frame, msg.Hits)
	case ClientNear:
		t := r.engine.Tuning.Run
		r.engine.Orchestrator.CheckNearCollision(game.Vec3{X: msg.X, Z: msg.Z},
			t.WarnDistance, t.TrolleyWidth/2+t.ObstacleWidth/2)
	case ClientCrashComplete:
		if r.crashDone != nil {
			done := r.crashDone
			r.crashDone = nil
			done()
		}
	default:
		r.queue(MsgError, fmt.Sprintf("unknown message type %q", msg.Type))
	}
	return r.Drain()
}

// maxSectionSkip bounds how far one enter_section may jump ahead.
const maxSectionSkip = 8

func (r *Remote) enterSection(section int) {
	if r.stopped {
		return
	}
	if section > r.engine.Current()+maxSectionSkip {
		r.queue(MsgError, fmt.Sprintf("section %d is too far ahead of %d", section, r.engine.Current()))
		return
	}
	tallies := r.engine.EnterSection(section)
	for _, t := range tallies {
		r.queue(MsgTally, t)
	}
	if len(tallies) > 0 {
		r.queue(MsgScore, *r.engine.Session)
	}
}

func (r *Remote) frame(frame int, raw []RemoteHit) {
	hits := make([]game.Hit, 0, len(raw))
	for _, h := range raw {
		kind := game.HitPerson
		switch h.Kind {
		case "person":
		case "obstacle":
			kind = game.HitObstacle
		default:
			r.queue(MsgError, fmt.Sprintf("unknown hit kind %q", h.Kind))
			continue
		}
		hits = append(hits, game.Hit{Kind: kind, Subject: game.Handle(h.Handle), Pos: game.Vec3{X: h.X, Z: h.Z}})
	}
	res := r.engine.ProcessFrame(frame, hits)
	for _, h := range res.PersonHits {
		r.queue(MsgHit, HitView{Handle: uint64(h)})
	}
	if len(res.PersonHits) > 0 || res.Terminal {
		r.queue(MsgScore, *r.engine.Session)
	}
}

// Stop implements game.MotionController.
func (r *Remote) Stop() {
	if r.stopped {
		return
	}
	r.stopped = true
	r.queue(MsgStop, nil)
}

// StartCrashAnimation implements game.CrashAnimator. The client plays the
// crash and answers with crash_complete.
func (r *Remote) StartCrashAnimation(onComplete func()) {
	r.crashDone = onComplete
	r.queue(MsgCrash, nil)
}

// ShowWarning implements game.VisualEffectHook.
func (r *Remote) ShowWarning(pos game.Vec3) {
	r.queue(MsgWarning, PointView{X: pos.X, Z: pos.Z})
}

// The client draws its own hit effects.
func (r *Remote) ShowObstacleEffect(game.Vec3) {}
func (r *Remote) ShowPersonEffect(game.Vec3)   {}

// Over reports whether the crash has finished.
func (r *Remote) Over() bool { return r.over }
