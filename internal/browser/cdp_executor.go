// File: internal/browser/cdp_executor.go
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"go.uber.org/zap"

	"github.com/Ma63d/youmind-skill/internal/humanoid"
)

// cdpExecutor adapts the session's CDP surface to the humanoid.Executor
// interface, keeping the interaction simulator browser-agnostic.
type cdpExecutor struct {
	session *Session
	logger  *zap.Logger
}

var _ humanoid.Executor = (*cdpExecutor)(nil)

const (
	inputEventTimeout = 10 * time.Second
	geometryTimeout   = 10 * time.Second
)

func (e *cdpExecutor) Sleep(ctx context.Context, d time.Duration) error {
	return e.session.RunActions(ctx, chromedp.Sleep(d))
}

// DispatchMouseEvent sends one raw pointer event. Raw events, not
// chromedp.Click, so the page sees the full move/press/release sequence the
// simulator produces.
func (e *cdpExecutor) DispatchMouseEvent(ctx context.Context, ev humanoid.MouseEvent) error {
	p := input.DispatchMouseEvent(input.MouseType(ev.Type), ev.X, ev.Y)
	if ev.Button != "" && ev.Button != "none" {
		p = p.WithButton(input.MouseButton(ev.Button)).
			WithClickCount(int64(ev.ClickCount))
		if ev.Type == humanoid.MousePressed {
			p = p.WithButtons(1)
		}
	}

	opCtx, cancel := context.WithTimeout(ctx, inputEventTimeout)
	defer cancel()

	if err := e.session.RunActions(opCtx, p); err != nil {
		if opCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("mouse event timed out after %v: %w", inputEventTimeout, opCtx.Err())
		}
		return err
	}
	return nil
}

func (e *cdpExecutor) SendKeys(ctx context.Context, keys string) error {
	opCtx, cancel := context.WithTimeout(ctx, inputEventTimeout)
	defer cancel()

	if err := e.session.RunActions(opCtx, chromedp.KeyEvent(keys)); err != nil {
		if opCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("send keys timed out after %v: %w", inputEventTimeout, opCtx.Err())
		}
		return err
	}
	return nil
}

// namedKeys maps the simulator's key names to the control runes chromedp's
// kb package expands into full down/char/up sequences.
var namedKeys = map[string]string{
	"Enter":     kb.Enter,
	"Tab":       kb.Tab,
	"Backspace": kb.Backspace,
	"Escape":    kb.Escape,
}

func (e *cdpExecutor) PressKey(ctx context.Context, key string) error {
	seq, ok := namedKeys[key]
	if !ok {
		seq = key
	}
	opCtx, cancel := context.WithTimeout(ctx, inputEventTimeout)
	defer cancel()

	if err := e.session.RunActions(opCtx, chromedp.KeyEvent(seq)); err != nil {
		if opCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("key press %q timed out after %v: %w", key, inputEventTimeout, opCtx.Err())
		}
		return err
	}
	return nil
}

// ElementGeometry locates the first visible element matching selector and
// returns its border box. One JS round-trip keeps lookup and visibility
// check atomic against DOM churn.
func (e *cdpExecutor) ElementGeometry(ctx context.Context, selector string) (*humanoid.Geometry, error) {
	script := fmt.Sprintf(`
		(function(sel) {
			const nodes = document.querySelectorAll(sel);
			for (const node of nodes) {
				const rect = node.getBoundingClientRect();
				const style = window.getComputedStyle(node);
				const visible = rect.width > 0 && rect.height > 0 &&
					style.display !== 'none' && style.visibility !== 'hidden' &&
					style.opacity !== '0';
				if (visible) {
					return { x: rect.left, y: rect.top, width: rect.width, height: rect.height };
				}
			}
			return null;
		})(%s);
	`, jsonEncode(selector))

	opCtx, cancel := context.WithTimeout(ctx, geometryTimeout)
	defer cancel()

	var res json.RawMessage
	err := e.session.RunActions(opCtx,
		chromedp.Evaluate(script, &res, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithReturnByValue(true).WithAwaitPromise(true).WithSilent(true)
		}),
	)
	if err != nil {
		if opCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("geometry lookup for %q timed out: %w", selector, opCtx.Err())
		}
		return nil, fmt.Errorf("geometry lookup for %q: %w", selector, err)
	}

	if string(res) == "null" {
		return nil, humanoid.ErrNotVisible
	}

	var box struct {
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}
	if err := json.Unmarshal(res, &box); err != nil {
		return nil, fmt.Errorf("decoding geometry for %q: %w", selector, err)
	}
	if box.Width <= 0 || box.Height <= 0 {
		e.logger.Debug("geometry degenerate", zap.String("selector", selector))
		return nil, humanoid.ErrNotVisible
	}

	return &humanoid.Geometry{X: box.X, Y: box.Y, Width: box.Width, Height: box.Height}, nil
}

// jsonEncode safely embeds a value, notably selector strings, into JS.
func jsonEncode(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return `""`
	}
	return string(b)
}
