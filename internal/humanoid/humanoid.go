// File: internal/humanoid/humanoid.go
//
// Package humanoid simulates human-paced pointer and keyboard interaction
// against a page. It never reports partial pointer failures to callers as
// hard errors: cosmetic motion is best-effort, while typing failures (which
// would corrupt the submitted question) do propagate.
package humanoid

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/aquilax/go-perlin"
	"go.uber.org/zap"

	"github.com/Ma63d/youmind-skill/internal/config"
)

// Humanoid performs human-like clicking and typing through an Executor.
type Humanoid struct {
	cfg      config.HumanoidConfig
	viewport Vector
	logger   *zap.Logger
	exec     Executor
	cadence  *Cadence
	rng      *rand.Rand

	// Pointer state. The driver is single-threaded per session, so plain
	// fields suffice; the Cadence handles its own locking for the RNG.
	pos    Vector
	noiseX *perlin.Perlin
	noiseY *perlin.Perlin
	noiseT float64
}

// New creates a Humanoid bound to an executor. viewportW/viewportH bound the
// idle mouse wander region.
func New(cfg config.HumanoidConfig, viewportW, viewportH int, logger *zap.Logger, exec Executor) *Humanoid {
	seed := time.Now().UnixNano()
	rng := rand.New(rand.NewSource(seed))
	return newHumanoid(cfg, viewportW, viewportH, logger, exec, rng, seed)
}

// NewTestHumanoid creates a deterministic instance for tests.
func NewTestHumanoid(exec Executor, seed int64) *Humanoid {
	cfg := config.Default().Humanoid
	rng := rand.New(rand.NewSource(seed))
	return newHumanoid(cfg, 1280, 720, zap.NewNop(), exec, rng, seed)
}

func newHumanoid(cfg config.HumanoidConfig, w, h int, logger *zap.Logger, exec Executor, rng *rand.Rand, seed int64) *Humanoid {
	// Standard Perlin parameters; the two generators are offset so X and Y
	// jitter independently.
	alpha, beta, n := 2.0, 2.0, int32(3)
	return &Humanoid{
		cfg:      cfg,
		viewport: Vector{X: float64(w), Y: float64(h)},
		logger:   logger,
		exec:     exec,
		cadence:  NewCadence(cfg, rng),
		rng:      rng,
		pos:      Vector{X: float64(w) / 2, Y: float64(h) / 2},
		noiseX:   perlin.NewPerlin(alpha, beta, n, seed),
		noiseY:   perlin.NewPerlin(alpha, beta, n, seed+1),
	}
}

// Cadence exposes the timing source, shared with callers that need raw
// delays (e.g. the submit settle pause).
func (h *Humanoid) Cadence() *Cadence {
	return h.cadence
}

// Settle pauses for d through the executor, respecting ctx.
func (h *Humanoid) Settle(ctx context.Context, d time.Duration) error {
	return h.exec.Sleep(ctx, d)
}

// Click moves the pointer to the element matched by selector and clicks it.
// Returns false when the element cannot be located or any event fails; it
// never propagates an error, because a failed click is always recoverable by
// trying the next candidate.
func (h *Humanoid) Click(ctx context.Context, selector string) bool {
	geo := h.resolveVisible(ctx, selector)
	if geo == nil {
		return false
	}

	target := h.aimPoint(geo)
	if err := h.moveToward(ctx, target, h.cfg.MoveSteps); err != nil {
		h.logger.Debug("pointer move failed", zap.String("selector", selector), zap.Error(err))
		return false
	}

	if err := h.exec.Sleep(ctx, h.cadence.ClickPause()); err != nil {
		return false
	}

	press := MouseEvent{Type: MousePressed, X: target.X, Y: target.Y, Button: "left", ClickCount: 1}
	release := MouseEvent{Type: MouseReleased, X: target.X, Y: target.Y, Button: "left", ClickCount: 1}
	if err := h.exec.DispatchMouseEvent(ctx, press); err != nil {
		h.logger.Debug("mouse press failed", zap.String("selector", selector), zap.Error(err))
		return false
	}
	if err := h.exec.DispatchMouseEvent(ctx, release); err != nil {
		h.logger.Debug("mouse release failed", zap.String("selector", selector), zap.Error(err))
		return false
	}

	if err := h.exec.Sleep(ctx, h.cadence.ClickPause()); err != nil {
		return false
	}
	return true
}

// Type clicks the element to focus it, then emits text one character at a
// time with randomized inter-character delays and occasional hesitations.
func (h *Humanoid) Type(ctx context.Context, selector string, text string) error {
	if ok := h.Click(ctx, selector); !ok {
		return fmt.Errorf("humanoid: could not focus element %q for typing", selector)
	}

	for _, r := range text {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := h.exec.SendKeys(ctx, string(r)); err != nil {
			return fmt.Errorf("humanoid: sending key %q: %w", r, err)
		}
		if err := h.exec.Sleep(ctx, h.cadence.TypingDelay()); err != nil {
			return err
		}
		if pause, ok := h.cadence.Hesitation(); ok {
			if err := h.exec.Sleep(ctx, pause); err != nil {
				return err
			}
		}
	}
	return nil
}

// PressKey presses a named key (e.g. "Enter") with a trailing pause.
func (h *Humanoid) PressKey(ctx context.Context, key string) error {
	if err := h.exec.PressKey(ctx, key); err != nil {
		return fmt.Errorf("humanoid: pressing %s: %w", key, err)
	}
	return h.exec.Sleep(ctx, h.cadence.ClickPause())
}

// IdleMouse wanders the pointer through a few random viewport waypoints to
// keep pointer activity non-deterministic between deliberate actions. Always
// best-effort: every failure is swallowed.
func (h *Humanoid) IdleMouse(ctx context.Context) {
	waypoints := h.cadence.IntBetween(h.cfg.IdleWaypointsMin, h.cfg.IdleWaypointsMax)
	for i := 0; i < waypoints; i++ {
		if ctx.Err() != nil {
			return
		}
		target := Vector{
			X: 80 + h.cadence.Float64()*math.Max(1, h.viewport.X-160),
			Y: 80 + h.cadence.Float64()*math.Max(1, h.viewport.Y-160),
		}
		steps := h.cadence.IntBetween(4, 10)
		if err := h.moveToward(ctx, target, steps); err != nil {
			h.logger.Debug("idle mouse move failed", zap.Error(err))
			return
		}
		if err := h.exec.Sleep(ctx, h.cadence.IdlePause()); err != nil {
			return
		}
	}
}

// resolveVisible locates the element, retrying once after a short pause to
// cover elements that are still animating in.
func (h *Humanoid) resolveVisible(ctx context.Context, selector string) *Geometry {
	geo, err := h.exec.ElementGeometry(ctx, selector)
	if err == nil {
		return geo
	}
	if ctx.Err() != nil {
		return nil
	}

	if err := h.exec.Sleep(ctx, h.cadence.ClickPause()); err != nil {
		return nil
	}
	geo, err = h.exec.ElementGeometry(ctx, selector)
	if err != nil {
		h.logger.Debug("element not resolvable", zap.String("selector", selector), zap.Error(err))
		return nil
	}
	return geo
}

// aimPoint picks a click point near the element center, offset by a small
// normal deviation and clamped inside the box.
func (h *Humanoid) aimPoint(geo *Geometry) Vector {
	center := geo.Center()
	offX := h.rng.NormFloat64() * geo.Width / 8
	offY := h.rng.NormFloat64() * geo.Height / 8

	x := clamp(center.X+offX, geo.X+1, geo.X+geo.Width-1)
	y := clamp(center.Y+offY, geo.Y+1, geo.Y+geo.Height-1)
	return Vector{X: x, Y: y}
}

// moveToward dispatches discrete pointer steps from the current position to
// target, with Perlin jitter on the intermediate points so the path never
// repeats exactly.
func (h *Humanoid) moveToward(ctx context.Context, target Vector, steps int) error {
	if steps < 1 {
		steps = 1
	}
	start := h.pos
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := start.X + (target.X-start.X)*t
		y := start.Y + (target.Y-start.Y)*t

		// Intermediate points wobble; the final point lands exactly.
		if i < steps {
			h.noiseT += 0.13
			x += h.noiseX.Noise1D(h.noiseT) * 3
			y += h.noiseY.Noise1D(h.noiseT) * 3
		}

		ev := MouseEvent{Type: MouseMoved, X: x, Y: y, Button: "none"}
		if err := h.exec.DispatchMouseEvent(ctx, ev); err != nil {
			return err
		}
	}
	h.pos = target
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
