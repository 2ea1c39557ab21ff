// File: internal/browser/locator/locator.go
//
// Package locator finds page elements by semantic role instead of a fixed
// DOM contract. Each role carries an ordered list of candidate patterns,
// ranked most-to-least reliable; the first pattern with a visible match
// wins. Individual pattern failures never abort a role lookup.
package locator

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Ma63d/youmind-skill/internal/config"
)

// Role identifies a semantic UI purpose.
type Role string

const (
	RoleInput      Role = "input"
	RoleSendButton Role = "send-button"
	RoleResponse   Role = "response"
	RoleThinking   Role = "thinking"
)

// Catalog is the immutable per-role pattern configuration.
type Catalog struct {
	selectors config.SelectorsConfig
}

// NewCatalog wraps the configured selector lists.
func NewCatalog(cfg config.SelectorsConfig) Catalog {
	return Catalog{selectors: cfg}
}

// Patterns returns the ordered candidate list for a role. The returned slice
// must not be mutated.
func (c Catalog) Patterns(role Role) []string {
	switch role {
	case RoleInput:
		return c.selectors.Input
	case RoleSendButton:
		return c.selectors.SendButton
	case RoleResponse:
		return c.selectors.Response
	case RoleThinking:
		return c.selectors.Thinking
	}
	return nil
}

// Prober is the low-level page query surface the resolver drives. The
// production implementation evaluates JS through CDP; tests fake it.
type Prober interface {
	// Visible reports whether pattern currently matches a visible element.
	Visible(ctx context.Context, pattern string) (bool, error)
	// Texts returns the trimmed inner texts of all elements matching
	// pattern, in rendering order, empties dropped.
	Texts(ctx context.Context, pattern string) ([]string, error)
}

// Resolver iterates a role's candidates and returns the first usable one.
type Resolver struct {
	catalog Catalog
	probe   Prober
	logger  *zap.Logger

	// patternWait is the short per-pattern wait; retryInterval is how often
	// a pattern is re-probed within that window. sleep is swappable so tests
	// run without real time.
	patternWait   time.Duration
	retryInterval time.Duration
	sleep         func(ctx context.Context, d time.Duration) error
}

// NewResolver creates a Resolver over the given catalog and prober.
func NewResolver(catalog Catalog, probe Prober, patternWait time.Duration, logger *zap.Logger) *Resolver {
	return &Resolver{
		catalog:       catalog,
		probe:         probe,
		logger:        logger,
		patternWait:   patternWait,
		retryInterval: 200 * time.Millisecond,
		sleep:         sleepCtx,
	}
}

// Resolve returns the first pattern of the role with a currently-visible
// match. The second return is false when no candidate matched; that is a
// normal outcome, not an error, and the caller decides whether it is fatal.
func (r *Resolver) Resolve(ctx context.Context, role Role) (string, bool) {
	for _, pattern := range r.catalog.Patterns(role) {
		if r.waitVisible(ctx, pattern) {
			r.logger.Debug("role resolved",
				zap.String("role", string(role)), zap.String("pattern", pattern))
			return pattern, true
		}
		if ctx.Err() != nil {
			return "", false
		}
	}
	return "", false
}

// FirstMatch returns the first pattern with a visible match using a single
// probe per pattern, without the per-pattern wait. Used for roles that are
// polled repeatedly (send button fallback, thinking indicator).
func (r *Resolver) FirstMatch(ctx context.Context, role Role) (string, bool) {
	for _, pattern := range r.catalog.Patterns(role) {
		visible, err := r.probe.Visible(ctx, pattern)
		if err != nil {
			// A malformed pattern or transient DOM exception must not abort
			// the role lookup.
			r.logger.Debug("pattern probe failed",
				zap.String("role", string(role)), zap.String("pattern", pattern), zap.Error(err))
			continue
		}
		if visible {
			return pattern, true
		}
	}
	return "", false
}

// CollectTexts returns the response texts from the first response-role
// pattern that yields any, in rendering order. An empty slice means no
// pattern produced content this instant.
func (r *Resolver) CollectTexts(ctx context.Context) []string {
	for _, pattern := range r.catalog.Patterns(RoleResponse) {
		texts, err := r.probe.Texts(ctx, pattern)
		if err != nil {
			r.logger.Debug("response pattern failed",
				zap.String("pattern", pattern), zap.Error(err))
			continue
		}
		if len(texts) > 0 {
			return texts
		}
	}
	return nil
}

// ThinkingVisible reports whether any progress indicator is currently shown.
// Advisory only; failures read as "not visible".
func (r *Resolver) ThinkingVisible(ctx context.Context) bool {
	_, ok := r.FirstMatch(ctx, RoleThinking)
	return ok
}

// waitVisible re-probes one pattern until it is visible or the per-pattern
// wait elapses. Probe errors are swallowed and retried: they usually mean a
// transient DOM state rather than a permanent failure.
func (r *Resolver) waitVisible(ctx context.Context, pattern string) bool {
	deadline := time.Now().Add(r.patternWait)
	for {
		visible, err := r.probe.Visible(ctx, pattern)
		if err != nil {
			r.logger.Debug("pattern probe failed",
				zap.String("pattern", pattern), zap.Error(err))
		} else if visible {
			return true
		}

		if ctx.Err() != nil || !time.Now().Before(deadline) {
			return false
		}
		wait := r.retryInterval
		if remaining := time.Until(deadline); remaining < wait {
			wait = remaining
		}
		if err := r.sleep(ctx, wait); err != nil {
			return false
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
