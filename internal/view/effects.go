package view

import (
	"image/color"

	"github.com/Garsondee/trolley-sense/internal/game"
)

type flashKind uint8

const (
	flashObstacle flashKind = iota
	flashPerson
	flashWarning
)

// Frames each flash stays on screen.
var flashLife = [...]int{
	flashObstacle: 60,
	flashPerson:   30,
	flashWarning:  8,
}

var flashColor = [...]color.RGBA{
	flashObstacle: {R: 255, G: 140, B: 40, A: 255},
	flashPerson:   {R: 220, G: 30, B: 30, A: 255},
	flashWarning:  {R: 255, G: 220, B: 60, A: 255},
}

type flash struct {
	kind flashKind
	pos  game.Vec3
	age  int
}

// alpha fades linearly over the flash's life.
func (f flash) alpha() float64 {
	life := flashLife[f.kind]
	return 1 - float64(f.age)/float64(life)
}

// effects is a short-lived list of flashes. It implements
// game.VisualEffectHook.
type effects struct {
	live []flash
}

func newEffects() *effects { return &effects{} }

func (e *effects) ShowObstacleEffect(pos game.Vec3) { e.add(flashObstacle, pos) }
func (e *effects) ShowPersonEffect(pos game.Vec3)   { e.add(flashPerson, pos) }

// ShowWarning keeps at most one warning per position alive.
func (e *effects) ShowWarning(pos game.Vec3) {
	for i := range e.live {
		if e.live[i].kind == flashWarning && e.live[i].pos == pos {
			e.live[i].age = 0
			return
		}
	}
	e.add(flashWarning, pos)
}

func (e *effects) add(kind flashKind, pos game.Vec3) {
	e.live = append(e.live, flash{kind: kind, pos: pos})
}

// tick ages every flash and drops expired ones.
func (e *effects) tick() {
	kept := e.live[:0]
	for _, f := range e.live {
		f.age++
		if f.age < flashLife[f.kind] {
			kept = append(kept, f)
		}
	}
	e.live = kept
}

func (e *effects) clear() { e.live = e.live[:0] }
