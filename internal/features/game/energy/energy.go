// Package energy reconciles a player's regenerating energy with elapsed wall-clock time.
package energy

import (
	"math"
	"time"
)

// Resource is the part of the game state that regenerates over time.
type Resource struct {
	Energy         float64
	Cap            float64
	RegenPerSecond float64
	LastTick       time.Time
}

// Accrue credits the energy regenerated between r.LastTick and now and moves LastTick to now.
//
// Energy never decreases: a LastTick in the future (clock skew, replayed state) or a zero LastTick
// counts as no elapsed time, and energy already above the cap is left as is.
func Accrue(r Resource, now time.Time) Resource {
	energy := finiteOrZero(r.Energy)
	capacity := finiteOrZero(r.Cap)
	regen := finiteOrZero(r.RegenPerSecond)
	if regen < 0 {
		regen = 0
	}

	if energy < 0 {
		energy = 0
	}

	if energy < capacity {
		energy = math.Min(capacity, energy+regen*Elapsed(r.LastTick, now))
	}

	return Resource{
		Energy:         energy,
		Cap:            capacity,
		RegenPerSecond: regen,
		LastTick:       now,
	}
}

// Elapsed returns the non-negative number of seconds between lastTick and now.
func Elapsed(lastTick, now time.Time) float64 {
	if lastTick.IsZero() || !now.After(lastTick) {
		return 0
	}
	return now.Sub(lastTick).Seconds()
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
