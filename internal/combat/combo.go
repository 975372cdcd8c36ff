package combat

import "math"

// Combo is the rolling kill counter. It resets after Timeout ticks without a
// kill and scales experience by 1 + (Count-1)*Step, capped.
type Combo struct {
	Count   int
	idle    float64
	Timeout float64
	Step    float64
	Cap     float64
}

// Kill registers a kill and returns the experience multiplier it earns.
func (c *Combo) Kill() float64 {
	c.Count++
	c.idle = 0
	return c.Multiplier()
}

// Advance ages the combo window.
func (c *Combo) Advance(dt float64) {
	if c.Count == 0 {
		return
	}
	c.idle += dt
	if c.idle >= c.Timeout {
		c.Reset()
	}
}

func (c *Combo) Reset() {
	c.Count = 0
	c.idle = 0
}

// Multiplier is the current experience multiplier.
func (c *Combo) Multiplier() float64 {
	if c.Count <= 1 {
		return 1
	}
	m := 1 + float64(c.Count-1)*c.Step
	if c.Cap > 0 {
		m = math.Min(m, c.Cap)
	}
	return m
}

// Remaining is the fraction of the combo window left, for the HUD.
func (c *Combo) Remaining() float64 {
	if c.Count == 0 || c.Timeout <= 0 {
		return 0
	}
	return math.Max(0, 1-c.idle/c.Timeout)
}
