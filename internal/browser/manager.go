// File: internal/browser/manager.go
//
// Package browser owns the Chrome process and the per-exchange session. It
// launches through a persistent user profile so the site sees the same
// "install" across runs, and it adapts the raw CDP surface to the narrow
// interfaces the interaction and detection layers consume.
package browser

import (
	"context"
	"strings"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/Ma63d/youmind-skill/internal/config"
)

// Manager owns the browser allocator. One Manager serves one process; each
// ask opens its own Session under it.
type Manager struct {
	cfg    config.BrowserConfig
	logger *zap.Logger

	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewManager prepares the Chrome allocator from config. The browser process
// itself starts lazily with the first session.
func NewManager(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) *Manager {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, execOptions(cfg)...)
	return &Manager{
		cfg:         cfg,
		logger:      logger,
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
	}
}

// execOptions translates the browser config into chromedp allocator options.
func execOptions(cfg config.BrowserConfig) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-dev-shm-usage", true),
		// Keeps navigator.webdriver from being forced on; the evasions
		// script covers the rest.
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)

	if cfg.ShowBrowser {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if cfg.ProfileDir != "" {
		opts = append(opts, chromedp.UserDataDir(cfg.ProfileDir))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}

	// Pass through extra flags from config, boolean or key=value.
	for _, arg := range cfg.Args {
		arg = strings.TrimPrefix(arg, "--")
		if key, value, ok := strings.Cut(arg, "="); ok {
			opts = append(opts, chromedp.Flag(key, value))
			continue
		}
		opts = append(opts, chromedp.Flag(arg, true))
	}
	return opts
}

// Close tears down the allocator and with it any remaining browser process.
// Safe to call after sessions are already closed.
func (m *Manager) Close() {
	m.allocCancel()
}
