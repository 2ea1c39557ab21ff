// File: internal/humanoid/cadence.go
package humanoid

import (
	"math/rand"
	"sync"
	"time"

	"github.com/Ma63d/youmind-skill/internal/config"
)

// Cadence produces the randomized timing values every interaction is paced
// by. Fixed-rate timing is a primary bot-detection signal, so each value is
// sampled fresh from the configured ranges.
type Cadence struct {
	mu  sync.Mutex
	cfg config.HumanoidConfig
	rng *rand.Rand
}

// NewCadence creates a Cadence with the given configuration and RNG. A nil
// rng is replaced with a time-seeded one.
func NewCadence(cfg config.HumanoidConfig, rng *rand.Rand) *Cadence {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Cadence{cfg: cfg, rng: rng}
}

// TypingDelay samples the delay to the next character. The bounds come from
// the configured WPM range, assuming 5 characters per word: a faster typist
// means a shorter per-character delay, so the max WPM yields the lower bound.
func (c *Cadence) TypingDelay() time.Duration {
	minDelay := wpmToCharDelay(c.cfg.WPMMax)
	maxDelay := wpmToCharDelay(c.cfg.WPMMin)
	return c.Between(minDelay, maxDelay)
}

// Hesitation reports whether an extra mid-typing pause should occur, and for
// how long. Mimics a human stopping to re-read what they wrote.
func (c *Cadence) Hesitation() (time.Duration, bool) {
	c.mu.Lock()
	hit := c.rng.Float64() < c.cfg.HesitationChance
	c.mu.Unlock()
	if !hit {
		return 0, false
	}
	return c.Between(c.cfg.HesitationMin, c.cfg.HesitationMax), true
}

// ClickPause samples the pause surrounding a click.
func (c *Cadence) ClickPause() time.Duration {
	return c.Between(c.cfg.ClickPauseMin, c.cfg.ClickPauseMax)
}

// IdlePause samples the pause between idle mouse waypoints.
func (c *Cadence) IdlePause() time.Duration {
	return c.Between(c.cfg.IdlePauseMin, c.cfg.IdlePauseMax)
}

// Between samples uniformly from [min, max]. Degenerate ranges collapse to min.
func (c *Cadence) Between(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return min + time.Duration(c.rng.Int63n(int64(max-min)))
}

// IntBetween samples uniformly from [min, max].
func (c *Cadence) IntBetween(min, max int) int {
	if max <= min {
		return min
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return min + c.rng.Intn(max-min+1)
}

// Float64 exposes a uniform sample for callers that need raw randomness.
func (c *Cadence) Float64() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rng.Float64()
}

// wpmToCharDelay converts a words-per-minute rate to the implied
// per-character delay, assuming 5 characters per word.
func wpmToCharDelay(wpm int) time.Duration {
	if wpm <= 0 {
		wpm = 1
	}
	ms := 60000.0 / (float64(wpm) * 5.0)
	return time.Duration(ms * float64(time.Millisecond))
}
