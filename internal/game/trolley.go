package game

import "math"

// Trolley is the moving agent. It implements MotionController.
type Trolley struct {
	Pos        Vec3
	Speed      float64 // last integrated speed
	TargetX    float64
	HalfWidth  float64
	HalfLength float64
	LateralMax float64 // lane-switch speed, units per second
	stopped    bool
}

// NewTrolley places a trolley at pos.
func NewTrolley(pos Vec3, width, length, lateral float64) *Trolley {
	return &Trolley{
		Pos:        pos,
		TargetX:    pos.X,
		HalfWidth:  width / 2,
		HalfLength: length / 2,
		LateralMax: lateral,
	}
}

// Stop halts the trolley for good.
func (t *Trolley) Stop() {
	t.stopped = true
	t.Speed = 0
}

// Stopped reports whether Stop was called.
func (t *Trolley) Stopped() bool { return t.stopped }

// Advance moves the trolley forward by speed×dt and steers toward TargetX.
func (t *Trolley) Advance(dt, speed float64) {
	if t.stopped {
		return
	}
	t.Speed = speed
	t.Pos.Z += speed * dt
	dx := t.TargetX - t.Pos.X
	step := t.LateralMax * dt
	if math.Abs(dx) <= step {
		t.Pos.X = t.TargetX
	} else {
		t.Pos.X += math.Copysign(step, dx)
	}
}

// Bounds returns the trolley's footprint.
func (t *Trolley) Bounds() Box {
	return Box{
		Min: Vec3{X: t.Pos.X - t.HalfWidth, Y: t.Pos.Y, Z: t.Pos.Z - t.HalfLength},
		Max: Vec3{X: t.Pos.X + t.HalfWidth, Y: t.Pos.Y, Z: t.Pos.Z + t.HalfLength},
	}
}
