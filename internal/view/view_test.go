package view

import (
	"errors"
	"strings"
	"testing"

	"github.com/Garsondee/trolley-sense/internal/game"
)

type memClipboard struct {
	text string
	err  error
}

func (m *memClipboard) WriteAll(text string) error {
	if m.err != nil {
		return m.err
	}
	m.text = text
	return nil
}

func (m *memClipboard) ReadAll() (string, error) { return m.text, m.err }

func newTestGame(t *testing.T) (*Game, *memClipboard) {
	t.Helper()
	g := New(game.DefaultTuning(), nil)
	clip := &memClipboard{}
	g.clip = clip
	return g, clip
}

func TestProject_TrolleyAnchor(t *testing.T) {
	x, y := project(game.Vec3{X: 0, Z: 100}, 100)
	if x != screenWidth/2 || y != trolleyScreenY {
		t.Fatalf("expected (%d,%d), got (%v,%v)", screenWidth/2, trolleyScreenY, x, y)
	}
	_, ahead := project(game.Vec3{Z: 110}, 100)
	if !(ahead < y) {
		t.Fatal("positions ahead of the trolley should be drawn above it")
	}
	right, _ := project(game.Vec3{X: 2, Z: 100}, 100)
	if right != x+float32(2*pxPerUnit) {
		t.Fatalf("expected lane offset %v, got %v", 2*pxPerUnit, right-x)
	}
}

func TestEffects_Expire(t *testing.T) {
	e := newEffects()
	e.ShowPersonEffect(game.Vec3{Z: 1})
	e.ShowObstacleEffect(game.Vec3{Z: 2})
	for i := 0; i < flashLife[flashPerson]; i++ {
		e.tick()
	}
	if len(e.live) != 1 || e.live[0].kind != flashObstacle {
		t.Fatalf("expected only the obstacle flash left, got %+v", e.live)
	}
	if a := e.live[0].alpha(); a <= 0 || a >= 1 {
		t.Fatalf("expected a partially faded flash, got alpha %v", a)
	}
}

func TestEffects_WarningRefreshes(t *testing.T) {
	e := newEffects()
	pos := game.Vec3{X: 2, Z: 50}
	e.ShowWarning(pos)
	e.tick()
	e.ShowWarning(pos)
	if len(e.live) != 1 {
		t.Fatalf("expected one warning per position, got %d", len(e.live))
	}
	if e.live[0].age != 0 {
		t.Fatalf("expected the warning to restart, age %d", e.live[0].age)
	}
}

func TestClampLane(t *testing.T) {
	cases := []struct{ lane, n, want int }{
		{-1, 5, 0}, {0, 5, 0}, {4, 5, 4}, {7, 5, 4}, {1, 1, 0},
	}
	for _, c := range cases {
		if got := clampLane(c.lane, c.n); got != c.want {
			t.Fatalf("clampLane(%d,%d) = %d, want %d", c.lane, c.n, got, c.want)
		}
	}
}

func TestSnapshotCopyPaste(t *testing.T) {
	g, clip := newTestGame(t)
	inc := 0.11
	g.run.Difficulty.Adjust(game.DifficultyAdjustment{SpeedIncrease: &inc})
	g.copySnapshot()
	if !strings.Contains(clip.text, `"speedIncrease":0.11`) {
		t.Fatalf("expected the snapshot on the clipboard, got %q", clip.text)
	}

	g.run.Difficulty.ResetToDefault()
	g.pasteSnapshot()
	if got := g.run.Difficulty.Config().SpeedIncrease; got != 0.11 {
		t.Fatalf("expected speedIncrease 0.11 after paste, got %v", got)
	}
}

func TestSnapshotPaste_RejectsGarbage(t *testing.T) {
	g, clip := newTestGame(t)
	before := g.run.Difficulty.Config()
	clip.text = "hello"
	g.pasteSnapshot()
	if g.run.Difficulty.Config() != before {
		t.Fatal("garbage on the clipboard changed the difficulty")
	}
	if !strings.Contains(g.status, "does not hold") {
		t.Fatalf("expected a rejection status, got %q", g.status)
	}

	clip.err = errors.New("no clipboard")
	g.copySnapshot()
	if !strings.Contains(g.status, "copy failed") {
		t.Fatalf("expected a copy failure status, got %q", g.status)
	}
}

func TestShiftLane_SteersWithinSection(t *testing.T) {
	g, _ := newTestGame(t)
	for g.run.Current() < 1 {
		g.run.Step()
	}
	sec := g.run.CurrentSection()
	g.shiftLane(-1)
	g.shiftLane(-1)
	g.shiftLane(-1)
	if g.run.Trolley.TargetX != sec.Lanes[0].X {
		t.Fatalf("expected target on the leftmost lane %v, got %v", sec.Lanes[0].X, g.run.Trolley.TargetX)
	}
	g.shiftLane(1)
	if g.run.Trolley.TargetX != sec.Lanes[1].X {
		t.Fatalf("expected target on lane 1 %v, got %v", sec.Lanes[1].X, g.run.Trolley.TargetX)
	}
}

func TestRestart_KeepsDifficultyAndAdvancesSeed(t *testing.T) {
	g, _ := newTestGame(t)
	seed := g.run.Seed
	inc := 0.2
	g.run.Difficulty.Adjust(game.DifficultyAdjustment{SpeedIncrease: &inc})
	g.run.RunFrames(30)

	g.resets++
	g.restart()
	if g.run.Seed != seed+1 {
		t.Fatalf("expected seed %d, got %d", seed+1, g.run.Seed)
	}
	if g.run.Frame != 0 {
		t.Fatalf("expected a fresh run, frame %d", g.run.Frame)
	}
	if got := g.run.Difficulty.Config().SpeedIncrease; got != 0.2 {
		t.Fatalf("expected the adjusted difficulty to carry over, got %v", got)
	}
}
