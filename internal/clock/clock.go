// Package clock turns wall-clock time between ticks into the dimensionless
// dt multiplier every rate quantity in the simulation is scaled by.
package clock

import "time"

// Step is the time budget of one simulation tick.
type Step struct {
	DT      float64       // elapsed / nominal, capped
	Elapsed time.Duration // wall-clock elapsed, capped the same way
	Now     time.Time
}

// Multiplier converts elapsed time into dt. Elapsed is clamped to
// [0, maxSteps*nominal] so one stall cannot produce an enormous leap.
func Multiplier(elapsed, nominal time.Duration, maxSteps float64) float64 {
	if nominal <= 0 {
		return 1
	}
	return float64(clampElapsed(elapsed, nominal, maxSteps)) / float64(nominal)
}

func clampElapsed(elapsed, nominal time.Duration, maxSteps float64) time.Duration {
	if elapsed < 0 {
		return 0
	}
	if maxSteps > 0 {
		limit := time.Duration(float64(nominal) * maxSteps)
		if elapsed > limit {
			return limit
		}
	}
	return elapsed
}

// Clock tracks the previous tick's timestamp.
type Clock struct {
	nominal  time.Duration
	maxSteps float64
	now      func() time.Time
	last     time.Time
	started  bool
}

// New creates a clock. A nil now uses time.Now.
func New(nominal time.Duration, maxSteps float64, now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{nominal: nominal, maxSteps: maxSteps, now: now}
}

// Tick returns the step since the previous call. The first call yields one
// nominal step.
func (c *Clock) Tick() Step {
	t := c.now()
	if !c.started {
		c.started = true
		c.last = t
		return Step{DT: 1, Elapsed: c.nominal, Now: t}
	}
	elapsed := clampElapsed(t.Sub(c.last), c.nominal, c.maxSteps)
	c.last = t
	return Step{
		DT:      Multiplier(elapsed, c.nominal, c.maxSteps),
		Elapsed: elapsed,
		Now:     t,
	}
}

// Nominal returns the target tick interval.
func (c *Clock) Nominal() time.Duration {
	return c.nominal
}

// FixedStep builds a step of dt nominal ticks, for headless drivers and tests.
func FixedStep(dt float64, nominal time.Duration) Step {
	return Step{DT: dt, Elapsed: time.Duration(dt * float64(nominal))}
}
