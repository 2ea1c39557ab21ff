// File: internal/browser/prober.go
package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/Ma63d/youmind-skill/internal/browser/locator"
	"github.com/Ma63d/youmind-skill/internal/detector"
)

// Prober answers the selector resolver's page queries with single JS
// round-trips against the session's tab.
type Prober struct {
	session *Session
}

var _ locator.Prober = (*Prober)(nil)

// Visible reports whether pattern matches at least one visible element.
func (p *Prober) Visible(ctx context.Context, pattern string) (bool, error) {
	script := fmt.Sprintf(`
		(function(sel) {
			const nodes = document.querySelectorAll(sel);
			for (const node of nodes) {
				const rect = node.getBoundingClientRect();
				const style = window.getComputedStyle(node);
				if (rect.width > 0 && rect.height > 0 &&
					style.display !== 'none' && style.visibility !== 'hidden' &&
					style.opacity !== '0') {
					return true;
				}
			}
			return false;
		})(%s);
	`, jsonEncode(pattern))

	var visible bool
	if err := p.evaluate(ctx, script, &visible); err != nil {
		return false, err
	}
	return visible, nil
}

// Texts returns the trimmed inner texts of all elements matching pattern,
// in DOM order, empties dropped.
func (p *Prober) Texts(ctx context.Context, pattern string) ([]string, error) {
	script := fmt.Sprintf(`
		(function(sel) {
			const out = [];
			for (const node of document.querySelectorAll(sel)) {
				const text = (node.innerText || '').trim();
				if (text) out.push(text);
			}
			return out;
		})(%s);
	`, jsonEncode(pattern))

	var texts []string
	if err := p.evaluate(ctx, script, &texts); err != nil {
		return nil, err
	}
	return texts, nil
}

func (p *Prober) evaluate(ctx context.Context, script string, out any) error {
	var res json.RawMessage
	err := p.session.RunActions(ctx,
		chromedp.Evaluate(script, &res, func(ep *runtime.EvaluateParams) *runtime.EvaluateParams {
			return ep.WithReturnByValue(true).WithSilent(true)
		}),
	)
	if err != nil {
		return fmt.Errorf("page query: %w", err)
	}
	if err := json.Unmarshal(res, out); err != nil {
		return fmt.Errorf("decoding page query result: %w", err)
	}
	return nil
}

// snapshotReader adapts the selector resolver into the detector's page
// surface.
type snapshotReader struct {
	resolver *locator.Resolver
}

var _ detector.Reader = (*snapshotReader)(nil)

// NewSnapshotReader builds the detector's reader over a resolver bound to
// this session's prober.
func NewSnapshotReader(resolver *locator.Resolver) detector.Reader {
	return &snapshotReader{resolver: resolver}
}

func (r *snapshotReader) Snapshot(ctx context.Context) ([]string, error) {
	// Pattern failures are already absorbed per-pattern inside the
	// resolver; an empty result is a valid snapshot.
	return r.resolver.CollectTexts(ctx), nil
}

func (r *snapshotReader) ThinkingVisible(ctx context.Context) bool {
	return r.resolver.ThinkingVisible(ctx)
}
