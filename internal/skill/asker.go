// File: internal/skill/asker.go
//
// Package skill runs one complete question exchange against a board chat:
// open, authenticate, submit like a person, wait for the answer to settle,
// tear down. Stateless by design; every ask gets a fresh browser.
package skill

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Ma63d/youmind-skill/internal/authstate"
	"github.com/Ma63d/youmind-skill/internal/browser"
	"github.com/Ma63d/youmind-skill/internal/browser/locator"
	"github.com/Ma63d/youmind-skill/internal/config"
	"github.com/Ma63d/youmind-skill/internal/detector"
	"github.com/Ma63d/youmind-skill/internal/humanoid"
)

// FollowUpReminder is appended to every returned answer. The consumer of
// this tool is itself expected to check the answer for completeness before
// passing it on.
const FollowUpReminder = "\n\nEXTREMELY IMPORTANT: Is that ALL you need to know? " +
	"Before replying to the user, compare this answer with the original request. " +
	"If details are missing, ask another comprehensive follow-up question and include full context."

// pageSession is the slice of the browser session the exchange drives.
type pageSession interface {
	Navigate(ctx context.Context, url string) error
	CheckAuth(ctx context.Context) error
	InjectAuthState(ctx context.Context, state *authstate.State) error
	Executor() humanoid.Executor
	Prober() locator.Prober
	Close()
}

// Asker orchestrates question exchanges.
type Asker struct {
	cfg    *config.Config
	logger *zap.Logger
	clock  detector.Clock

	// openSession launches a browser and returns the session plus its full
	// teardown. Swapped out in tests.
	openSession func(ctx context.Context) (pageSession, func(), error)
}

// New builds a production Asker that launches Chrome per ask.
func New(cfg *config.Config, logger *zap.Logger) *Asker {
	a := &Asker{
		cfg:    cfg,
		logger: logger,
		clock:  detector.RealClock(),
	}
	a.openSession = func(ctx context.Context) (pageSession, func(), error) {
		manager := browser.NewManager(ctx, cfg.Browser, logger)
		sess, err := manager.NewSession(ctx, cfg.Youmind)
		if err != nil {
			manager.Close()
			return nil, nil, err
		}
		teardown := func() {
			sess.Close()
			manager.Close()
		}
		return sess, teardown, nil
	}
	return a
}

// Ask submits question into the board chat at boardURL and returns the
// finished answer with the follow-up reminder appended. The browser is torn
// down on every path, including panics, which surface as
// ErrUnexpectedFault.
func (a *Asker) Ask(ctx context.Context, question, boardURL string) (answer string, err error) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("exchange panicked", zap.Any("panic", r))
			answer, err = "", fmt.Errorf("%w: %v", ErrUnexpectedFault, r)
		}
	}()

	state, loadErr := authstate.Load(a.cfg.Youmind.StateFile)
	if loadErr != nil {
		a.logger.Warn("could not load session state", zap.Error(loadErr))
		state = &authstate.State{}
	}
	if !state.IsAuthenticated(time.Now()) {
		return "", ErrNotAuthenticated
	}

	a.logger.Info("asking",
		zap.String("board", boardURL),
		zap.Int("question_len", len(question)))

	sess, teardown, err := a.openSession(ctx)
	if err != nil {
		return "", fmt.Errorf("opening browser session: %w", err)
	}
	defer teardown()

	// Injection failure is survivable: the persistent profile may still
	// hold a valid session, and CheckAuth decides either way.
	if err := sess.InjectAuthState(ctx, state); err != nil {
		a.logger.Warn("cookie injection failed, relying on profile", zap.Error(err))
	}

	if err := sess.Navigate(ctx, boardURL); err != nil {
		return "", err
	}
	if err := sess.CheckAuth(ctx); err != nil {
		return "", err
	}

	catalog := locator.NewCatalog(a.cfg.Selectors)
	resolver := locator.NewResolver(catalog, sess.Prober(), a.cfg.Selectors.PatternWait, a.logger)
	det := detector.New(a.cfg.Detector, browser.NewSnapshotReader(resolver), a.clock, a.logger)

	// Baseline before anything touches the page, so pre-existing chat
	// history is never mistaken for the new answer.
	baseline := det.Baseline(ctx)

	inputPattern, ok := resolver.Resolve(ctx, locator.RoleInput)
	if !ok {
		return "", ErrInputNotFound
	}
	a.logger.Debug("chat input resolved", zap.String("pattern", inputPattern))

	human := humanoid.New(a.cfg.Humanoid,
		a.cfg.Browser.ViewportWidth, a.cfg.Browser.ViewportHeight,
		a.logger, sess.Executor())

	human.IdleMouse(ctx)
	human.Click(ctx, inputPattern)
	if err := human.Type(ctx, inputPattern, question); err != nil {
		return "", fmt.Errorf("typing question: %w", err)
	}

	a.submit(ctx, human, catalog)

	answer, err = det.Wait(ctx, baseline)
	if err != nil {
		return "", err
	}
	return answer + FollowUpReminder, nil
}

// submit presses Enter, then tries the send-button candidates in order.
// Some editors insert a newline on Enter, hence the button fallback; total
// failure is logged and the flow continues, because the Enter may well have
// worked and the detector is the arbiter.
func (a *Asker) submit(ctx context.Context, human *humanoid.Humanoid, catalog locator.Catalog) {
	if err := human.PressKey(ctx, "Enter"); err != nil {
		a.logger.Warn("enter key failed", zap.Error(err))
	}

	if err := human.Settle(ctx, a.cfg.Youmind.SubmitSettle); err != nil {
		return
	}

	for _, pattern := range catalog.Patterns(locator.RoleSendButton) {
		if human.Click(ctx, pattern) {
			a.logger.Debug("send button clicked", zap.String("pattern", pattern))
			return
		}
	}
	a.logger.Warn("submission fallback failed, continuing on Enter alone")
}
