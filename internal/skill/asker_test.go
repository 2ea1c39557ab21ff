// File: internal/skill/asker_test.go
package skill

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ma63d/youmind-skill/internal/authstate"
	"github.com/Ma63d/youmind-skill/internal/browser"
	"github.com/Ma63d/youmind-skill/internal/browser/locator"
	"github.com/Ma63d/youmind-skill/internal/config"
	"github.com/Ma63d/youmind-skill/internal/humanoid"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }
func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.now = c.now.Add(d)
	return nil
}

// fakePage simulates the board chat: the input is visible, and the answer
// appears in the response list once the question has been typed.
type fakePage struct {
	inputPattern    string
	responsePattern string
	baseline        []string
	answer          []string

	typed        strings.Builder
	enterPressed bool
	enterErr     error
	answered     bool

	panicOnProbe bool
}

// --- humanoid.Executor ---

func (p *fakePage) Sleep(context.Context, time.Duration) error { return nil }

func (p *fakePage) DispatchMouseEvent(context.Context, humanoid.MouseEvent) error { return nil }

func (p *fakePage) SendKeys(_ context.Context, keys string) error {
	p.typed.WriteString(keys)
	p.answered = true
	return nil
}

func (p *fakePage) PressKey(_ context.Context, key string) error {
	if key == "Enter" {
		p.enterPressed = true
	}
	return p.enterErr
}

func (p *fakePage) ElementGeometry(_ context.Context, selector string) (*humanoid.Geometry, error) {
	if selector == p.inputPattern {
		return &humanoid.Geometry{X: 100, Y: 100, Width: 400, Height: 40}, nil
	}
	return nil, humanoid.ErrNotVisible
}

// --- locator.Prober ---

func (p *fakePage) Visible(_ context.Context, pattern string) (bool, error) {
	if p.panicOnProbe {
		panic("prober exploded")
	}
	return pattern == p.inputPattern, nil
}

func (p *fakePage) Texts(_ context.Context, pattern string) ([]string, error) {
	if pattern != p.responsePattern {
		return nil, nil
	}
	if p.answered {
		return p.answer, nil
	}
	return p.baseline, nil
}

// fakeSession wires the fakePage into the session surface.
type fakeSession struct {
	page *fakePage

	navigatedTo string
	navigateErr error
	authErr     error
	injectErr   error
	injected    bool
	closed      bool
}

func (s *fakeSession) Navigate(_ context.Context, url string) error {
	s.navigatedTo = url
	return s.navigateErr
}
func (s *fakeSession) CheckAuth(context.Context) error { return s.authErr }
func (s *fakeSession) InjectAuthState(context.Context, *authstate.State) error {
	s.injected = true
	return s.injectErr
}
func (s *fakeSession) Executor() humanoid.Executor { return s.page }
func (s *fakeSession) Prober() locator.Prober      { return s.page }
func (s *fakeSession) Close()                      { s.closed = true }

func writeAuthState(t *testing.T, authenticated bool) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.json")
	content := `{"cookies":[]}`
	if authenticated {
		content = `{"cookies":[{"name":"session","value":"v","domain":".youmind.com","expires":-1}]}`
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newTestAsker(t *testing.T, page *fakePage, sess *fakeSession, authenticated bool) (*Asker, *bool) {
	t.Helper()

	cfg := config.Default()
	cfg.Youmind.StateFile = writeAuthState(t, authenticated)
	cfg.Selectors = config.SelectorsConfig{
		Input:       []string{page.inputPattern},
		SendButton:  []string{"button.send"},
		Response:    []string{page.responsePattern},
		Thinking:    []string{"div.thinking"},
		PatternWait: time.Millisecond,
	}

	a := New(cfg, zap.NewNop())
	a.clock = &fakeClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}

	tornDown := false
	a.openSession = func(context.Context) (pageSession, func(), error) {
		return sess, func() { tornDown = true }, nil
	}
	return a, &tornDown
}

func newFakePage() *fakePage {
	return &fakePage{
		inputPattern:    "textarea.ask",
		responsePattern: "div.message",
		baseline:        []string{"question echo", "old answer"},
		answer:          []string{"question echo", "old answer", "fresh answer"},
	}
}

func TestAsk_HappyPath(t *testing.T) {
	page := newFakePage()
	sess := &fakeSession{page: page}
	asker, tornDown := newTestAsker(t, page, sess, true)

	answer, err := asker.Ask(context.Background(), "what is a goroutine?", "https://youmind.com/boards/x")
	require.NoError(t, err)

	assert.Equal(t, "fresh answer"+FollowUpReminder, answer)
	assert.Equal(t, "https://youmind.com/boards/x", sess.navigatedTo)
	assert.True(t, sess.injected, "saved cookies must be injected")
	assert.Equal(t, "what is a goroutine?", page.typed.String())
	assert.True(t, page.enterPressed)
	assert.True(t, *tornDown, "browser must be torn down after success")
}

func TestAsk_NotAuthenticatedSkipsBrowser(t *testing.T) {
	page := newFakePage()
	sess := &fakeSession{page: page}
	asker, tornDown := newTestAsker(t, page, sess, false)

	opened := false
	inner := asker.openSession
	asker.openSession = func(ctx context.Context) (pageSession, func(), error) {
		opened = true
		return inner(ctx)
	}

	_, err := asker.Ask(context.Background(), "q", "https://youmind.com/boards/x")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.False(t, opened, "no browser should launch without credentials")
	assert.False(t, *tornDown)
}

func TestAsk_SignInRedirect(t *testing.T) {
	page := newFakePage()
	sess := &fakeSession{page: page, authErr: browser.ErrSignInRedirect}
	asker, tornDown := newTestAsker(t, page, sess, true)

	_, err := asker.Ask(context.Background(), "q", "https://youmind.com/boards/x")
	assert.ErrorIs(t, err, ErrSignInRedirect)
	assert.True(t, *tornDown, "teardown must run on auth failure")
}

func TestAsk_InputNotFound(t *testing.T) {
	page := newFakePage()
	page.inputPattern = "" // nothing on the page is visible
	sess := &fakeSession{page: page}
	asker, tornDown := newTestAsker(t, page, sess, true)

	asker.cfg.Selectors.Input = []string{"textarea.gone"}

	_, err := asker.Ask(context.Background(), "q", "https://youmind.com/boards/x")
	assert.ErrorIs(t, err, ErrInputNotFound)
	assert.True(t, *tornDown)
}

func TestAsk_TimeoutWhenAnswerNeverSettles(t *testing.T) {
	page := newFakePage()
	page.answer = page.baseline // nothing new ever appears
	sess := &fakeSession{page: page}
	asker, tornDown := newTestAsker(t, page, sess, true)

	_, err := asker.Ask(context.Background(), "q", "https://youmind.com/boards/x")
	assert.ErrorIs(t, err, ErrTimeout)
	assert.True(t, *tornDown)
}

func TestAsk_EnterFailureIsNonFatal(t *testing.T) {
	page := newFakePage()
	page.enterErr = errors.New("key dispatch failed")
	sess := &fakeSession{page: page}
	asker, _ := newTestAsker(t, page, sess, true)

	answer, err := asker.Ask(context.Background(), "q", "https://youmind.com/boards/x")
	require.NoError(t, err, "submission trouble must not abort the exchange")
	assert.Contains(t, answer, "fresh answer")
}

func TestAsk_PanicBecomesUnexpectedFault(t *testing.T) {
	page := newFakePage()
	page.panicOnProbe = true
	sess := &fakeSession{page: page}
	asker, tornDown := newTestAsker(t, page, sess, true)

	_, err := asker.Ask(context.Background(), "q", "https://youmind.com/boards/x")
	assert.ErrorIs(t, err, ErrUnexpectedFault)
	assert.True(t, *tornDown, "teardown must run even on panic")
}

func TestAsk_SessionOpenFailure(t *testing.T) {
	page := newFakePage()
	asker, _ := newTestAsker(t, page, &fakeSession{page: page}, true)
	asker.openSession = func(context.Context) (pageSession, func(), error) {
		return nil, nil, errors.New("chrome not found")
	}

	_, err := asker.Ask(context.Background(), "q", "https://youmind.com/boards/x")
	assert.ErrorContains(t, err, "opening browser session")
}
