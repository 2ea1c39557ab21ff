// File: internal/detector/detector.go
//
// Package detector decides when a streaming chat answer has finished.
// There is no completion event to subscribe to: the page mutates a list of
// message blocks in place while the assistant streams, so the detector
// polls the visible texts, picks the message that grew relative to a
// pre-submission baseline, and declares it final once it has stopped
// changing for a configured number of consecutive polls.
package detector

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Ma63d/youmind-skill/internal/config"
)

// ErrTimeout is returned when no answer stabilizes before the deadline.
var ErrTimeout = errors.New("detector: answer did not stabilize before deadline")

// Reader is the page surface the detector polls. The production
// implementation reads the DOM through the selector resolver; tests script
// a sequence of snapshots.
type Reader interface {
	// Snapshot returns the visible response texts, oldest first.
	Snapshot(ctx context.Context) ([]string, error)
	// ThinkingVisible reports whether a progress indicator is shown.
	// Advisory only: the indicator is unreliable and never gates the
	// outcome.
	ThinkingVisible(ctx context.Context) bool
}

// Detector runs the polling state machine.
type Detector struct {
	cfg    config.DetectorConfig
	reader Reader
	clock  Clock
	logger *zap.Logger
}

// New builds a Detector. A nil clock falls back to the system clock.
func New(cfg config.DetectorConfig, reader Reader, clock Clock, logger *zap.Logger) *Detector {
	if clock == nil {
		clock = RealClock()
	}
	return &Detector{cfg: cfg, reader: reader, clock: clock, logger: logger}
}

// Baseline captures the pre-submission snapshot the later polls diff
// against. A read failure degrades to an empty baseline: with nothing to
// compare against, the count-delta rule will treat any message as new.
func (d *Detector) Baseline(ctx context.Context) Snapshot {
	texts, err := d.reader.Snapshot(ctx)
	if err != nil {
		d.logger.Warn("baseline capture failed, using empty baseline", zap.Error(err))
		return Snapshot{}
	}
	return NewSnapshot(texts)
}

// Wait polls until a candidate answer stays byte-identical for the
// configured number of consecutive polls, then returns it. It returns
// ErrTimeout when the deadline passes first, or the context error when ctx
// is cancelled.
//
// Candidate selection per poll, in priority order:
//
//  1. Count delta: walking current texts newest to oldest, the first text
//     whose occurrence count exceeds its baseline count is the candidate.
//     Occurrence counts, not membership, so a repeated answer ("Answer A"
//     twice in the baseline, three times now) is still caught.
//
//  2. In-place fallback: when no count grew but the newest text differs
//     from the baseline's newest and the list as a whole changed, the
//     newest text is the candidate. This catches surfaces that rewrite the
//     last message block during streaming instead of appending.
//
// A poll with no candidate, or a candidate different from the previous
// poll's, resets the stability run.
func (d *Detector) Wait(ctx context.Context, baseline Snapshot) (string, error) {
	deadline := d.clock.Now().Add(d.cfg.Deadline)
	baselineCounts := baseline.Counts()
	baselineLast, hasBaselineLast := baseline.Last()

	var (
		lastCandidate string
		stableRuns    int
	)

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		texts, err := d.reader.Snapshot(ctx)
		if err != nil {
			// Transient DOM churn mid-stream is the common cause; keep
			// polling until the deadline decides.
			d.logger.Debug("snapshot failed, retrying", zap.Error(err))
			texts = nil
		}
		current := NewSnapshot(texts)

		candidate, found := pickCandidate(current, baseline, baselineCounts, baselineLast, hasBaselineLast)

		switch {
		case !found:
			lastCandidate, stableRuns = "", 0
		case candidate == lastCandidate:
			stableRuns++
		default:
			lastCandidate, stableRuns = candidate, 1
		}

		if found && stableRuns >= d.cfg.StabilityThreshold {
			d.logger.Info("answer stabilized",
				zap.Int("polls", stableRuns),
				zap.Int("answer_len", len(candidate)))
			return candidate, nil
		}

		if d.reader.ThinkingVisible(ctx) {
			d.logger.Debug("progress indicator visible")
		}

		if !d.clock.Now().Add(d.cfg.PollInterval).Before(deadline) {
			d.logger.Error("detection deadline exceeded",
				zap.Duration("deadline", d.cfg.Deadline),
				zap.String("last_candidate", truncate(lastCandidate, 120)))
			return "", ErrTimeout
		}
		if err := d.clock.Sleep(ctx, d.cfg.PollInterval); err != nil {
			return "", err
		}
	}
}

func pickCandidate(current, baseline Snapshot, baselineCounts map[string]int, baselineLast string, hasBaselineLast bool) (string, bool) {
	currentCounts := current.Counts()
	for i := len(current.Texts) - 1; i >= 0; i-- {
		text := current.Texts[i]
		if currentCounts[text] > baselineCounts[text] {
			return text, true
		}
	}

	currentLast, hasCurrentLast := current.Last()
	if hasBaselineLast && hasCurrentLast &&
		currentLast != baselineLast && !current.Equal(baseline) {
		return currentLast, true
	}
	return "", false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
