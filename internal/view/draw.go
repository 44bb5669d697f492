package view

import (
	"fmt"
	"image/color"

	"github.com/Garsondee/trolley-sense/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	bgColor       = color.RGBA{R: 18, G: 22, B: 18, A: 255}
	sleeperColor  = color.RGBA{R: 60, G: 48, B: 36, A: 255}
	railColor     = color.RGBA{R: 150, G: 150, B: 160, A: 255}
	boundaryColor = color.RGBA{R: 70, G: 90, B: 70, A: 255}
	trolleyColor  = color.RGBA{R: 60, G: 140, B: 220, A: 255}
	personColor   = color.RGBA{R: 230, G: 210, B: 170, A: 255}
	hitColor      = color.RGBA{R: 150, G: 20, B: 20, A: 255}
	hudColor      = color.RGBA{R: 220, G: 230, B: 220, A: 255}
	alertColor    = color.RGBA{R: 255, G: 90, B: 70, A: 255}
)

var obstacleColors = map[game.ObstacleKind]color.RGBA{
	game.ObstacleBarrier: {R: 200, G: 60, B: 40, A: 255},
	game.ObstacleBoulder: {R: 120, G: 110, B: 100, A: 255},
	game.ObstacleCrate:   {R: 170, G: 120, B: 60, A: 255},
	game.ObstacleLog:     {R: 110, G: 75, B: 40, A: 255},
}

// project maps a world position to screen space relative to the camera Z.
func project(pos game.Vec3, camZ float64) (float32, float32) {
	x := screenWidth/2 + pos.X*pxPerUnit
	y := trolleyScreenY - (pos.Z-camZ)*pxPerUnit
	return float32(x), float32(y)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(bgColor)
	camZ := g.run.Trolley.Pos.Z

	for _, sp := range g.run.Placements() {
		g.drawSection(screen, sp, camZ)
	}
	g.drawTrolley(screen, camZ)
	g.drawEffects(screen, camZ)
	g.drawHUD(screen)
}

func (g *Game) drawSection(screen *ebiten.Image, sp game.SectionPlacement, camZ float64) {
	sec := sp.Section
	_, yStart := project(game.Vec3{Z: sec.StartZ}, camZ)
	_, yEnd := project(game.Vec3{Z: sec.EndZ}, camZ)
	if yStart < 0 || yEnd > screenHeight {
		return
	}

	vector.StrokeLine(screen, 0, yStart, screenWidth, yStart, 1.0, boundaryColor, false)
	for _, lane := range sec.Lanes {
		x, _ := project(lane, camZ)
		for z := sec.StartZ; z < sec.EndZ; z += 2 {
			_, y := project(game.Vec3{Z: z}, camZ)
			vector.FillRect(screen, x-12, y-2, 24, 4, sleeperColor, false)
		}
		vector.StrokeLine(screen, x-8, yStart, x-8, yEnd, 2.0, railColor, false)
		vector.StrokeLine(screen, x+8, yStart, x+8, yEnd, 2.0, railColor, false)
	}
	if sec.Placeable() {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("S%d", sec.Index), 8, int(yStart)-16)
	}

	half := float32(g.tuning.Run.ObstacleWidth * pxPerUnit / 2)
	depth := float32(g.tuning.Run.ObstacleDepth * pxPerUnit / 2)
	for _, o := range sp.Obstacles.Obstacles {
		if _, ok := g.run.Arena.Obstacle(o.Handle); !ok {
			continue
		}
		x, y := project(o.Pos, camZ)
		vector.FillRect(screen, x-half+2, y-depth+2, 2*half, 2*depth, color.RGBA{A: 120}, false)
		vector.FillRect(screen, x-half, y-depth, 2*half, 2*depth, obstacleColors[o.Kind], false)
		vector.StrokeRect(screen, x-half, y-depth, 2*half, 2*depth, 1.0, color.RGBA{A: 200}, false)
	}

	r := float32(g.tuning.Run.PersonRadius * pxPerUnit)
	for _, p := range sp.People.People {
		if _, ok := g.run.Arena.Person(p.Handle); !ok {
			continue
		}
		x, y := project(p.Pos, camZ)
		c := personColor
		if p.State() == game.PersonHit {
			c = hitColor
		}
		vector.FillCircle(screen, x, y, r, c, true)
	}
}

func (g *Game) drawTrolley(screen *ebiten.Image, camZ float64) {
	b := g.run.Trolley.Bounds()
	x0, y1 := project(b.Min, camZ)
	x1, y0 := project(b.Max, camZ)
	c := trolleyColor
	if g.run.Session.GameOver {
		c = alertColor
	}
	vector.FillRect(screen, x0, y0, x1-x0, y1-y0, c, false)
	vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 1.5, color.White, false)
}

func (g *Game) drawEffects(screen *ebiten.Image, camZ float64) {
	for _, f := range g.fx.live {
		x, y := project(f.pos, camZ)
		c := flashColor[f.kind]
		c.A = uint8(255 * f.alpha())
		switch f.kind {
		case flashWarning:
			vector.StrokeCircle(screen, x, y, 16, 2.0, c, true)
		default:
			radius := 8 + float32(f.age)*0.8
			vector.StrokeCircle(screen, x, y, radius, 3.0, c, true)
		}
	}
}

func (g *Game) hudText(screen *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.LineSpacing = 16
	text.Draw(screen, s, g.face, op)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	r := g.run
	s := r.Session
	sec := r.Current()
	tally := r.Orchestrator.Tally()
	mode := "normal"
	if r.Difficulty.IsHighSpeed(sec) {
		mode = "HIGH SPEED"
	}

	vector.FillRect(screen, 0, 0, 300, 120, color.RGBA{A: 160}, false)
	g.hudText(screen, fmt.Sprintf(
		"score %d   hit %d   avoided %d\nsection %d   speed %.2f   %s\nthis section: %d/%d hit\nseed %d   %s",
		s.Score, s.PeopleHit, s.PeopleAvoided,
		sec, r.Difficulty.SpeedAt(sec), mode,
		tally.PeopleHit, tally.TotalPeople,
		r.Seed, s.State), 10, 10, hudColor)

	if g.showHelp {
		cfg := r.Difficulty.Config()
		help := fmt.Sprintf("←/→ lane   ↑/↓ speed increase (%.3f)\nC copy difficulty   V paste\nBksp default difficulty   R restart\nP pause   H help",
			cfg.SpeedIncrease)
		g.hudText(screen, help, screenWidth-310, 10, hudColor)
	}
	if g.statusTTL > 0 {
		g.hudText(screen, g.status, 10, screenHeight-30, hudColor)
	}
	switch s.State {
	case game.StateCrashing:
		g.hudText(screen, "CRASH", screenWidth/2-20, screenHeight/2, alertColor)
	case game.StateGameOver:
		g.hudText(screen, fmt.Sprintf("GAME OVER   score %d   press R", s.Score), screenWidth/2-110, screenHeight/2, alertColor)
	}
	if g.paused {
		g.hudText(screen, "PAUSED", screenWidth/2-24, 40, hudColor)
	}
}
