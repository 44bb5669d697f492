package game

import "testing"

type recordingSink struct {
	scoreDeltas []int
	hit         int
	avoided     int
	gameOver    int
	hitBarrier  bool
}

func (s *recordingSink) AddScore(delta int)     { s.scoreDeltas = append(s.scoreDeltas, delta) }
func (s *recordingSink) AddPeopleHit(n int)     { s.hit += n }
func (s *recordingSink) AddPeopleAvoided(n int) { s.avoided += n }
func (s *recordingSink) SetGameOver(hitBarrier bool) {
	s.gameOver++
	s.hitBarrier = s.hitBarrier || hitBarrier
}

func (s *recordingSink) score() int {
	total := 0
	for _, d := range s.scoreDeltas {
		total += d
	}
	return total
}

type countingMotion struct{ stops int }

func (m *countingMotion) Stop() { m.stops++ }

type manualCrash struct {
	starts     int
	onComplete func()
}

func (c *manualCrash) StartCrashAnimation(onComplete func()) {
	c.starts++
	c.onComplete = onComplete
}

type countingEffects struct {
	obstacle, person, warning int
}

func (f *countingEffects) ShowObstacleEffect(Vec3) { f.obstacle++ }
func (f *countingEffects) ShowPersonEffect(Vec3)   { f.person++ }
func (f *countingEffects) ShowWarning(Vec3)        { f.warning++ }

type orchestratorFixture struct {
	arena  *Arena
	sink   *recordingSink
	motion *countingMotion
	crash  *manualCrash
	fx     *countingEffects
	orch   *CollisionOrchestrator
}

func newOrchestratorFixture() *orchestratorFixture {
	f := &orchestratorFixture{
		arena:  NewArena(),
		sink:   &recordingSink{},
		motion: &countingMotion{},
		crash:  &manualCrash{},
		fx:     &countingEffects{},
	}
	f.orch = NewCollisionOrchestrator(f.arena, f.sink, f.motion, f.crash)
	f.orch.SetEffects(f.fx)
	return f
}

func (f *orchestratorFixture) people(section, n int) []*Person {
	out := make([]*Person, n)
	for i := range out {
		out[i] = f.arena.AddPerson(Person{Section: section, Lane: i % LaneCount, Pos: Vec3{Z: float64(i)}})
	}
	return out
}

func personHit(p *Person) Hit     { return Hit{Kind: HitPerson, Subject: p.Handle, Pos: p.Pos} }
func obstacleHit(o *Obstacle) Hit { return Hit{Kind: HitObstacle, Subject: o.Handle, Pos: o.Pos} }

func TestOrchestrator_MixedScoring(t *testing.T) {
	f := newOrchestratorFixture()
	people := f.people(3, 5)
	f.orch.StartSection(3, people)

	f.orch.ProcessFrame([]Hit{personHit(people[0])})
	f.orch.ProcessFrame([]Hit{personHit(people[1])})
	snap := f.orch.FinalizeSection()

	if snap.Section != 3 || snap.TotalPeople != 5 || snap.PeopleHit != 2 || snap.PeopleAvoided != 3 {
		t.Fatalf("unexpected tally %+v", snap)
	}
	if f.sink.score() != 1 {
		t.Fatalf("expected net score +1, got %d (%v)", f.sink.score(), f.sink.scoreDeltas)
	}
	want := []int{-1, -1, 3}
	if len(f.sink.scoreDeltas) != len(want) {
		t.Fatalf("expected deltas %v, got %v", want, f.sink.scoreDeltas)
	}
	for i := range want {
		if f.sink.scoreDeltas[i] != want[i] {
			t.Fatalf("expected deltas %v, got %v", want, f.sink.scoreDeltas)
		}
	}
	if f.sink.hit != 2 || f.sink.avoided != 3 {
		t.Fatalf("expected cumulative hit=2 avoided=3, got %d/%d", f.sink.hit, f.sink.avoided)
	}
	if f.fx.person != 2 {
		t.Fatalf("expected 2 person effects, got %d", f.fx.person)
	}
}

func TestOrchestrator_PersonCountedOnce(t *testing.T) {
	f := newOrchestratorFixture()
	people := f.people(0, 3)
	f.orch.StartSection(0, people)

	hit := personHit(people[2])
	res := f.orch.ProcessFrame([]Hit{hit, hit})
	if len(res.PersonHits) != 1 {
		t.Fatalf("expected 1 new hit in the frame, got %d", len(res.PersonHits))
	}
	for i := 0; i < 10; i++ {
		f.orch.ProcessFrame([]Hit{hit})
	}
	if got := f.orch.Tally().PeopleHit; got != 1 {
		t.Fatalf("expected peopleHit=1 after repeated contacts, got %d", got)
	}
	if people[2].State() != PersonHit {
		t.Fatalf("expected person state hit, got %s", people[2].State())
	}
	if f.sink.score() != -1 {
		t.Fatalf("expected score -1, got %d", f.sink.score())
	}
}

func TestOrchestrator_IgnoresOtherSections(t *testing.T) {
	f := newOrchestratorFixture()
	active := f.people(1, 2)
	ahead := f.people(2, 2)
	f.orch.StartSection(1, active)

	f.orch.ProcessFrame([]Hit{personHit(ahead[0]), {Kind: HitPerson, Subject: Handle(999)}})
	if got := f.orch.Tally().PeopleHit; got != 0 {
		t.Fatalf("expected foreign and unknown hits ignored, got %d", got)
	}
	if len(f.sink.scoreDeltas) != 0 {
		t.Fatalf("expected no score change, got %v", f.sink.scoreDeltas)
	}
}

func TestOrchestrator_ObstacleEndsGame(t *testing.T) {
	f := newOrchestratorFixture()
	people := f.people(4, 3)
	obs := []*Obstacle{
		f.arena.AddObstacle(Obstacle{Section: 4, Lane: 0}),
		f.arena.AddObstacle(Obstacle{Section: 4, Lane: 1}),
		f.arena.AddObstacle(Obstacle{Section: 4, Lane: 2}),
	}
	crashDone := 0
	f.orch.OnCrashComplete(func() { crashDone++ })
	f.orch.StartSection(4, people)

	res := f.orch.ProcessFrame([]Hit{personHit(people[0]), obstacleHit(obs[0]), obstacleHit(obs[1]), obstacleHit(obs[2])})
	if !res.Terminal || res.ObstacleHits != 3 || len(res.PersonHits) != 0 {
		t.Fatalf("unexpected frame result %+v", res)
	}
	if !f.orch.GameEnded() {
		t.Fatal("expected game ended")
	}
	if f.crash.starts != 1 {
		t.Fatalf("expected one crash animation, got %d", f.crash.starts)
	}
	if f.motion.stops < 1 {
		t.Fatal("expected the trolley to be stopped")
	}
	if !f.sink.hitBarrier || f.sink.gameOver < 1 {
		t.Fatal("expected sink game over with hitBarrier")
	}
	if len(f.sink.scoreDeltas) != 0 {
		t.Fatalf("person in the terminal frame must not score, got %v", f.sink.scoreDeltas)
	}
	if f.orch.Tally().ObstaclesHit != 3 {
		t.Fatalf("expected 3 obstacle hits tallied, got %d", f.orch.Tally().ObstaclesHit)
	}

	// Later frames change nothing.
	f.orch.ProcessFrame([]Hit{obstacleHit(obs[0]), personHit(people[1])})
	if f.crash.starts != 1 {
		t.Fatalf("crash restarted: %d starts", f.crash.starts)
	}
	if len(f.sink.scoreDeltas) != 0 || f.orch.Tally().PeopleHit != 0 {
		t.Fatal("scoring after game end")
	}

	if f.orch.CrashComplete() {
		t.Fatal("crash should not be complete before the animator reports back")
	}
	f.crash.onComplete()
	f.crash.onComplete()
	if !f.orch.CrashComplete() || crashDone != 1 {
		t.Fatalf("expected one crash completion, got %d", crashDone)
	}

	snap := f.orch.FinalizeSection()
	if !snap.GameEnded {
		t.Fatal("expected gameEnded in the final snapshot")
	}
	if len(f.sink.scoreDeltas) != 0 || f.sink.avoided != 0 {
		t.Fatal("finalize after game end must not score")
	}
}

func TestOrchestrator_HitsBeforeCrashReachLedger(t *testing.T) {
	f := newOrchestratorFixture()
	people := f.people(2, 5)
	ob := f.arena.AddObstacle(Obstacle{Section: 2, Lane: 4})
	f.orch.StartSection(2, people)

	f.orch.ProcessFrame([]Hit{personHit(people[0])})
	f.orch.ProcessFrame([]Hit{personHit(people[1])})
	f.orch.ProcessFrame([]Hit{obstacleHit(ob)})

	snap := f.orch.FinalizeSection()
	if !snap.GameEnded || snap.PeopleHit != 2 {
		t.Fatalf("expected an ended tally with 2 hits, got %+v", snap)
	}
	if f.sink.score() != -2 {
		t.Fatalf("expected score -2, got %d", f.sink.score())
	}
	if f.sink.hit != snap.PeopleHit {
		t.Fatalf("expected cumulative hits %d, got %d", snap.PeopleHit, f.sink.hit)
	}
	if f.sink.avoided != 0 {
		t.Fatalf("avoided people must not be credited after a crash, got %d", f.sink.avoided)
	}

	f.orch.FinalizeSection()
	if f.sink.hit != 2 {
		t.Fatalf("repeated finalize counted hits again: %d", f.sink.hit)
	}
}

func TestOrchestrator_NilCrashCompletesImmediately(t *testing.T) {
	sink := &recordingSink{}
	arena := NewArena()
	orch := NewCollisionOrchestrator(arena, sink, nil, nil)
	done := false
	orch.OnCrashComplete(func() { done = true })
	ob := arena.AddObstacle(Obstacle{Section: 0})
	orch.StartSection(0, nil)
	orch.ProcessFrame([]Hit{obstacleHit(ob)})
	if !done || !orch.CrashComplete() {
		t.Fatal("expected immediate crash completion without an animator")
	}
}

func TestOrchestrator_FinalizeIdempotent(t *testing.T) {
	f := newOrchestratorFixture()
	people := f.people(6, 4)
	f.orch.StartSection(6, people)
	f.orch.ProcessFrame([]Hit{personHit(people[3])})

	first := f.orch.FinalizeSection()
	second := f.orch.FinalizeSection()
	if first != second {
		t.Fatalf("expected identical snapshots, got %+v and %+v", first, second)
	}
	if f.sink.score() != 2 || f.sink.avoided != 3 || f.sink.hit != 1 {
		t.Fatalf("expected single application (score 2, hit 1, avoided 3), got %d/%d/%d",
			f.sink.score(), f.sink.hit, f.sink.avoided)
	}
	if f.orch.ActiveSection() != -1 {
		t.Fatalf("expected no active section after finalize, got %d", f.orch.ActiveSection())
	}

	// Hits after finalize are not counted.
	f.orch.ProcessFrame([]Hit{personHit(people[0])})
	if f.orch.Tally() != first {
		t.Fatal("tally changed after finalize")
	}
}

func TestOrchestrator_StartSectionClearsHits(t *testing.T) {
	f := newOrchestratorFixture()
	people := f.people(2, 2)
	f.orch.StartSection(2, people)
	f.orch.ProcessFrame([]Hit{personHit(people[0])})
	f.orch.FinalizeSection()

	f.orch.StartSection(2, people)
	if people[0].State() != PersonUnseen {
		t.Fatal("expected hit flags cleared on StartSection")
	}
	f.orch.ProcessFrame([]Hit{personHit(people[0])})
	if f.orch.Tally().PeopleHit != 1 {
		t.Fatalf("expected the person to count again, got %d", f.orch.Tally().PeopleHit)
	}
}

func TestOrchestrator_EmptySection(t *testing.T) {
	f := newOrchestratorFixture()
	f.orch.StartSection(0, nil)
	snap := f.orch.FinalizeSection()
	if snap.TotalPeople != 0 || snap.PeopleAvoided != 0 {
		t.Fatalf("unexpected empty-section tally %+v", snap)
	}
	if f.sink.score() != 0 {
		t.Fatalf("expected no score change, got %d", f.sink.score())
	}
}

func TestOrchestrator_NearCollisionProbe(t *testing.T) {
	f := newOrchestratorFixture()
	f.arena.AddObstacle(Obstacle{Section: 1, Lane: 2, Pos: Vec3{X: 0, Z: 50}})
	f.arena.AddObstacle(Obstacle{Section: 2, Lane: 0, Pos: Vec3{X: -4, Z: 85}})
	f.orch.StartSection(1, nil)

	if !f.orch.CheckNearCollision(Vec3{X: 0, Z: 42}, 12, 1.3) {
		t.Fatal("expected a warning for an obstacle 8 units ahead in lane")
	}
	if f.fx.warning != 1 {
		t.Fatalf("expected one warning effect, got %d", f.fx.warning)
	}
	if f.orch.CheckNearCollision(Vec3{X: 0, Z: 30}, 12, 1.3) {
		t.Fatal("obstacle 20 units ahead is outside the warning range")
	}
	if f.orch.CheckNearCollision(Vec3{X: 4, Z: 42}, 12, 1.3) {
		t.Fatal("obstacle in another lane should not warn")
	}
	if f.orch.CheckNearCollision(Vec3{X: 0, Z: 55}, 12, 1.3) {
		t.Fatal("obstacle behind the agent should not warn")
	}
	if !f.orch.CheckNearCollision(Vec3{X: -4, Z: 78}, 12, 1.3) {
		t.Fatal("expected a warning for an obstacle in the next section")
	}
	if len(f.sink.scoreDeltas) != 0 || f.orch.GameEnded() {
		t.Fatal("near-collision probe must not score or end the game")
	}
}

func TestBoxHitSource_ObstaclesFirst(t *testing.T) {
	arena := NewArena()
	p := arena.AddPerson(Person{Section: 1, Pos: Vec3{X: 0, Z: 10}})
	o := arena.AddObstacle(Obstacle{Section: 1, Pos: Vec3{X: 0.5, Z: 10.5}})
	arena.AddPerson(Person{Section: 1, Pos: Vec3{X: 4, Z: 10}})

	src := NewBoxHitSource(arena, 1.4, 1.0, 0.3)
	hits := src.Hits(Box{Min: Vec3{X: -0.6, Z: 9}, Max: Vec3{X: 0.6, Z: 11}})
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].Kind != HitObstacle || hits[0].Subject != o.Handle {
		t.Fatalf("expected the obstacle first, got %+v", hits[0])
	}
	if hits[1].Kind != HitPerson || hits[1].Subject != p.Handle {
		t.Fatalf("expected the person second, got %+v", hits[1])
	}
}
