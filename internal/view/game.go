package view

import (
	"fmt"

	"github.com/Garsondee/trolley-sense/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

const (
	screenWidth  = 960
	screenHeight = 720

	// pxPerUnit is the world-to-screen scale.
	pxPerUnit = 14.0
	// trolleyScreenY is where the trolley sits; the track scrolls past it.
	trolleyScreenY = screenHeight - 140

	statusFrames = 150
	speedStep    = 0.005
)

// Game is the ebiten front-end of a single run. It drives the run one frame
// per Update and renders a top-down view of the track.
type Game struct {
	tuning game.Tuning
	driver game.Driver
	run    *game.Run
	resets int

	fx        *effects
	clip      clipboardIO
	face      text.Face
	prevKeys  map[ebiten.Key]bool
	paused    bool
	showHelp  bool
	status    string
	statusTTL int
}

// New builds a front-end for t. A nil driver leaves steering to the player.
func New(t game.Tuning, driver game.Driver) *Game {
	if driver == nil {
		driver = game.KeepLaneDriver{}
	}
	g := &Game{
		tuning:   t,
		driver:   driver,
		fx:       newEffects(),
		clip:     systemClipboard{},
		face:     text.NewGoXFace(basicfont.Face7x13),
		prevKeys: make(map[ebiten.Key]bool),
		showHelp: true,
	}
	g.restart()
	return g
}

// Run exposes the active run.
func (g *Game) Run() *game.Run { return g.run }

func (g *Game) restart() {
	t := g.tuning
	t.Seed += int64(g.resets)
	if g.run != nil {
		t.Difficulty = g.run.Difficulty.Config()
	}
	g.run = game.NewRun(t, g.driver, game.NewSimLog(false))
	g.run.SetEffects(g.fx)
	g.fx.clear()
}

func (g *Game) setStatus(msg string) {
	g.status = msg
	g.statusTTL = statusFrames
}

func (g *Game) Update() error {
	g.handleInput()
	g.fx.tick()
	if g.statusTTL > 0 {
		g.statusTTL--
	}
	if g.paused {
		return nil
	}
	g.run.Step()
	return nil
}

// justPressed reports a key going down this frame.
func (g *Game) justPressed(cur map[ebiten.Key]bool, keys ...ebiten.Key) bool {
	hit := false
	for _, k := range keys {
		cur[k] = ebiten.IsKeyPressed(k)
		if cur[k] && !g.prevKeys[k] {
			hit = true
		}
	}
	return hit
}

// handleInput processes keypresses (edge-triggered).
func (g *Game) handleInput() {
	cur := map[ebiten.Key]bool{}

	if g.justPressed(cur, ebiten.KeyArrowLeft, ebiten.KeyA) {
		g.shiftLane(-1)
	}
	if g.justPressed(cur, ebiten.KeyArrowRight, ebiten.KeyD) {
		g.shiftLane(1)
	}
	if g.justPressed(cur, ebiten.KeyArrowUp, ebiten.KeyW) {
		g.nudgeSpeedIncrease(speedStep)
	}
	if g.justPressed(cur, ebiten.KeyArrowDown, ebiten.KeyS) {
		g.nudgeSpeedIncrease(-speedStep)
	}
	if g.justPressed(cur, ebiten.KeyC) {
		g.copySnapshot()
	}
	if g.justPressed(cur, ebiten.KeyV) {
		g.pasteSnapshot()
	}
	if g.justPressed(cur, ebiten.KeyBackspace) {
		g.run.Difficulty.ResetToDefault()
		g.setStatus("difficulty reset to defaults")
	}
	if g.justPressed(cur, ebiten.KeyR) {
		g.resets++
		g.restart()
		g.setStatus(fmt.Sprintf("new run, seed %d", g.run.Seed))
	}
	if g.justPressed(cur, ebiten.KeyP, ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if g.justPressed(cur, ebiten.KeyH) {
		g.showHelp = !g.showHelp
	}

	g.prevKeys = cur
}

// shiftLane moves the steering target delta lanes in the active section.
func (g *Game) shiftLane(delta int) {
	if g.run.Session.State != game.StateRunning {
		return
	}
	sec := g.run.CurrentSection()
	lane := clampLane(sec.NearestLane(g.run.Trolley.TargetX)+delta, len(sec.Lanes))
	g.run.SteerTo(lane)
}

func clampLane(lane, n int) int {
	if lane < 0 {
		return 0
	}
	if lane >= n {
		return n - 1
	}
	return lane
}

func (g *Game) nudgeSpeedIncrease(delta float64) {
	inc := g.run.Difficulty.Config().SpeedIncrease + delta
	g.run.Difficulty.Adjust(game.DifficultyAdjustment{SpeedIncrease: &inc})
	g.setStatus(fmt.Sprintf("speed increase %.3f", g.run.Difficulty.Config().SpeedIncrease))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}
