// File: internal/browser/session.go
package browser

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Ma63d/youmind-skill/internal/authstate"
	"github.com/Ma63d/youmind-skill/internal/browser/locator"
	"github.com/Ma63d/youmind-skill/internal/browser/stealth"
	"github.com/Ma63d/youmind-skill/internal/config"
	"github.com/Ma63d/youmind-skill/internal/humanoid"
)

// ErrSignInRedirect is returned when the board navigation lands on the
// sign-in page or off the expected host: the saved session is no longer
// accepted.
var ErrSignInRedirect = errors.New("browser: redirected to sign-in, authentication expired")

// Session is one browser tab driving one question exchange.
type Session struct {
	ID     string
	cfg    config.YoumindConfig
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewSession opens a tab under the manager's allocator and applies the
// stealth persona before any navigation.
func (m *Manager) NewSession(ctx context.Context, site config.YoumindConfig) (*Session, error) {
	tabCtx, tabCancel := chromedp.NewContext(m.allocCtx)

	id := uuid.NewString()
	s := &Session{
		ID:     id,
		cfg:    site,
		logger: m.logger.With(zap.String("session_id", id)),
		ctx:    tabCtx,
		cancel: tabCancel,
	}

	// The first action also starts the browser process.
	if err := s.RunActions(ctx, stealth.Apply(stealth.DefaultPersona, s.logger)); err != nil {
		s.Close()
		return nil, fmt.Errorf("starting browser session: %w", err)
	}
	s.logger.Debug("session started")
	return s, nil
}

// RunActions executes chromedp actions against this session's tab, honoring
// cancellation from both the tab context and the operational ctx.
func (s *Session) RunActions(ctx context.Context, actions ...chromedp.Action) error {
	combined, cancel := combineContext(s.ctx, ctx)
	defer cancel()
	return chromedp.Run(combined, actions...)
}

// InjectCookies writes the saved session cookies into the browser. The
// persistent profile usually has its own copy already; injection re-asserts
// them in case the profile lost session cookies between runs.
func (s *Session) InjectCookies(ctx context.Context, params []*network.CookieParam) error {
	if len(params) == 0 {
		return nil
	}
	err := s.RunActions(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return network.SetCookies(params).Do(ctx)
	}))
	if err != nil {
		return fmt.Errorf("injecting cookies: %w", err)
	}
	s.logger.Debug("cookies injected", zap.Int("count", len(params)))
	return nil
}

// InjectAuthState is the convenience form over a loaded auth state.
func (s *Session) InjectAuthState(ctx context.Context, state *authstate.State) error {
	return s.InjectCookies(ctx, state.CookieParams(time.Now()))
}

// Navigate opens the URL and waits for the document body, bounded by the
// configured navigation timeout.
func (s *Session) Navigate(ctx context.Context, target string) error {
	navCtx, cancel := context.WithTimeout(ctx, s.cfg.NavigationTimeout)
	defer cancel()

	err := s.RunActions(navCtx,
		chromedp.Navigate(target),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("navigating to %s: %w", target, err)
	}
	return nil
}

// CurrentURL reports the tab's current location.
func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	var location string
	if err := s.RunActions(ctx, chromedp.Location(&location)); err != nil {
		return "", fmt.Errorf("reading location: %w", err)
	}
	return location, nil
}

// CheckAuth verifies the navigation was not bounced to sign-in. It must run
// after Navigate: the site redirects rejected sessions rather than erroring.
func (s *Session) CheckAuth(ctx context.Context) error {
	current, err := s.CurrentURL(ctx)
	if err != nil {
		return err
	}

	host := siteHost(s.cfg.BaseURL)
	signInMarker := strings.Trim(s.cfg.SignInPath, "/")
	if !strings.Contains(current, host) || (signInMarker != "" && strings.Contains(current, signInMarker)) {
		s.logger.Warn("sign-in redirect detected", zap.String("url", current))
		return fmt.Errorf("%w (landed on %s)", ErrSignInRedirect, current)
	}
	return nil
}

// Executor returns the CDP-backed input surface for the interaction
// simulator.
func (s *Session) Executor() humanoid.Executor {
	return &cdpExecutor{session: s, logger: s.logger}
}

// Prober returns the CDP-backed query surface for selector resolution.
func (s *Session) Prober() locator.Prober {
	return &Prober{session: s}
}

// Close tears down the tab. Best-effort: a browser that already died is
// fine, the exchange outcome is decided elsewhere.
func (s *Session) Close() {
	if err := chromedp.Cancel(s.ctx); err != nil {
		s.logger.Debug("session close", zap.Error(err))
	}
	s.cancel()
}

func siteHost(base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return base
	}
	return u.Host
}

// combineContext derives a context from the tab context (which carries the
// CDP target) that is additionally cancelled when the operational ctx is.
func combineContext(tabCtx, opCtx context.Context) (context.Context, context.CancelFunc) {
	combined, cancel := context.WithCancel(tabCtx)
	go func() {
		select {
		case <-opCtx.Done():
			cancel()
		case <-combined.Done():
		}
	}()
	return combined, cancel
}
