package session

// Countdown is a cancellable one-second countdown. Each Start issues a new
// generation; ticks carrying any other generation are ignored, which makes
// restarts idempotent.
type Countdown struct {
	total  int
	left   int
	gen    uint64
	active bool
}

// Start begins a countdown of seconds, cancelling any active one.
func (c *Countdown) Start(seconds int) uint64 {
	c.gen++
	c.total = seconds
	c.left = seconds
	c.active = true
	return c.gen
}

// Cancel stops the active countdown.
func (c *Countdown) Cancel() {
	if c.active {
		c.gen++
	}
	c.active = false
}

// Tick advances by one second. It reports true exactly once, when the
// countdown reaches zero.
func (c *Countdown) Tick(gen uint64) bool {
	if !c.active || gen != c.gen {
		return false
	}
	c.left--
	if c.left <= 0 {
		c.left = 0
		c.active = false
		return true
	}
	return false
}

// Active reports whether the countdown is running.
func (c *Countdown) Active() bool {
	return c.active
}

// Generation returns the current generation id.
func (c *Countdown) Generation() uint64 {
	return c.gen
}

// Left returns the remaining seconds.
func (c *Countdown) Left() int {
	return c.left
}

// Total returns the configured seconds of the last Start.
func (c *Countdown) Total() int {
	return c.total
}

// set previews a duration without starting.
func (c *Countdown) set(seconds int) {
	c.total = seconds
	c.left = seconds
}
