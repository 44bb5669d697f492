package game

// ScriptedCrash is a CrashAnimator that completes after a fixed number of
// Tick calls. Frames == 0 completes on the next Tick.
type ScriptedCrash struct {
	Frames  int
	Started int // StartCrashAnimation call count

	remaining  int
	onComplete func()
}

// StartCrashAnimation arms the countdown.
func (c *ScriptedCrash) StartCrashAnimation(onComplete func()) {
	c.Started++
	c.remaining = c.Frames
	c.onComplete = onComplete
}

// Playing reports whether a crash is in progress.
func (c *ScriptedCrash) Playing() bool { return c.onComplete != nil }

// Tick advances the animation by one frame.
func (c *ScriptedCrash) Tick() {
	if c.onComplete == nil {
		return
	}
	if c.remaining > 0 {
		c.remaining--
		return
	}
	done := c.onComplete
	c.onComplete = nil
	done()
}
