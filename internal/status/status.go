// Package status implements the per-entity list of timed effects.
//
// Each kind is present at most once; re-applying a kind refreshes it.
// Durations run on dt, damage over time pulses on a wall-clock cadence.
package status

import (
	"fmt"
	"time"
)

// Kind identifies a status effect.
type Kind uint8

const (
	Bleed Kind = iota + 1
	Burn
	Freeze
	Poison
	Venom
)

var kindNames = map[Kind]string{
	Bleed:  "bleed",
	Burn:   "burn",
	Freeze: "freeze",
	Poison: "poison",
	Venom:  "venom",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// DealsDamage reports whether the kind contributes to periodic damage.
// Poison only suppresses regeneration and freeze only slows.
func (k Kind) DealsDamage() bool {
	switch k {
	case Bleed, Burn, Venom:
		return true
	default:
		return false
	}
}

// ParseKind converts a config string to a Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown status kind: %s", s)
}

// Effect is one active status.
type Effect struct {
	Kind       Kind
	Remaining  float64 // nominal ticks
	TickDamage int
}

// List is the ordered set of effects on one entity. The zero value is ready.
type List struct {
	effects []Effect
	pulse   time.Duration
}

// Apply adds an effect or refreshes an existing one of the same kind to
// max(duration) and max(tick damage). It reports whether an existing entry
// was refreshed.
func (l *List) Apply(e Effect) bool {
	if e.Remaining <= 0 || e.Kind == 0 {
		return false
	}
	if !e.Kind.DealsDamage() || e.TickDamage < 0 {
		e.TickDamage = 0
	}
	for i := range l.effects {
		cur := &l.effects[i]
		if cur.Kind != e.Kind {
			continue
		}
		cur.Remaining = max(cur.Remaining, e.Remaining)
		cur.TickDamage = max(cur.TickDamage, e.TickDamage)
		return true
	}
	l.effects = append(l.effects, e)
	return false
}

// Advance decrements every duration by dt, drops expired effects, and
// accumulates wall-clock time toward damage pulses. It returns the combined
// damage of all pulses that elapsed this tick.
func (l *List) Advance(dt float64, elapsed, interval time.Duration) int {
	if len(l.effects) == 0 {
		l.pulse = 0
		return 0
	}

	perPulse := 0
	for _, e := range l.effects {
		if e.Kind.DealsDamage() {
			perPulse += e.TickDamage
		}
	}

	pulses := 0
	if interval > 0 && elapsed > 0 {
		l.pulse += elapsed
		pulses = int(l.pulse / interval)
		l.pulse -= time.Duration(pulses) * interval
	}

	if dt > 0 {
		kept := l.effects[:0]
		for _, e := range l.effects {
			e.Remaining -= dt
			if e.Remaining > 0 {
				kept = append(kept, e)
			}
		}
		l.effects = kept
	}

	return perPulse * pulses
}

// Has reports whether a kind is active.
func (l *List) Has(k Kind) bool {
	for _, e := range l.effects {
		if e.Kind == k {
			return true
		}
	}
	return false
}

// Get returns the active effect of a kind.
func (l *List) Get(k Kind) (Effect, bool) {
	for _, e := range l.effects {
		if e.Kind == k {
			return e, true
		}
	}
	return Effect{}, false
}

// Remove drops a kind, reporting whether it was present.
func (l *List) Remove(k Kind) bool {
	for i, e := range l.effects {
		if e.Kind == k {
			l.effects = append(l.effects[:i], l.effects[i+1:]...)
			return true
		}
	}
	return false
}

// Clear drops every effect.
func (l *List) Clear() {
	l.effects = l.effects[:0]
	l.pulse = 0
}

// Len returns the number of active effects.
func (l *List) Len() int {
	return len(l.effects)
}

// Effects returns a copy of the active effects in application order.
func (l *List) Effects() []Effect {
	out := make([]Effect, len(l.effects))
	copy(out, l.effects)
	return out
}

// Kinds returns the active kinds in application order.
func (l *List) Kinds() []Kind {
	out := make([]Kind, len(l.effects))
	for i, e := range l.effects {
		out[i] = e.Kind
	}
	return out
}
