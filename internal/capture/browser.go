// Package capture renders keepsake HTML to PNG with a headless Chrome.
package capture

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// HiddenSelectors are interactive controls that never appear in an export.
var HiddenSelectors = []string{
	"[data-ui-only]",
	".delete-button",
	".reply-form",
	".reaction-picker",
}

const waitForImages = `() => Promise.all([
	document.fonts ? document.fonts.ready : Promise.resolve(),
	...Array.from(document.images)
		.filter(img => !img.complete)
		.map(img => new Promise(resolve => { img.onload = resolve; img.onerror = resolve; })),
])`

const hideControls = `(css) => {
	const style = document.createElement('style');
	style.textContent = css;
	document.head.appendChild(style);
}`

type Options struct {
	// DevToolsURL connects to an already running Chrome instead of launching one.
	DevToolsURL string
	// Bin overrides the Chrome binary used by the launcher.
	Bin         string
	Width       int
	ScaleFactor float64
	Timeout     time.Duration
	Logger      *zap.Logger
}

// Browser captures HTML documents as full-page PNGs. The Chrome process is
// started on first use and shared; every capture gets its own tab.
type Browser struct {
	opts Options
	log  *zap.Logger

	mu      sync.Mutex
	browser *rod.Browser
}

func NewBrowser(opts Options) *Browser {
	if opts.Width <= 0 {
		opts.Width = 794
	}
	if opts.ScaleFactor <= 0 {
		opts.ScaleFactor = 2
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Browser{opts: opts, log: opts.Logger}
}

func (b *Browser) connect() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser != nil {
		if _, err := b.browser.Version(); err == nil {
			return b.browser, nil
		}
		b.log.Warn("stale browser connection, reconnecting")
		_ = b.browser.Close()
		b.browser = nil
	}

	controlURL := b.opts.DevToolsURL
	if controlURL == "" {
		l := launcher.New().Headless(true)
		if b.opts.Bin != "" {
			l = l.Bin(b.opts.Bin)
		}
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch chrome: %w", err)
		}
		controlURL = u
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}

	b.log.Info("headless browser connected", zap.Bool("remote", b.opts.DevToolsURL != ""))
	b.browser = browser
	return browser, nil
}

// Capture loads html into a fresh tab and returns a full-page screenshot.
func (b *Browser) Capture(ctx context.Context, html string) ([]byte, error) {
	browser, err := b.connect()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, b.opts.Timeout)
	defer cancel()

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			b.log.Debug("failed to close capture tab", zap.Error(err))
		}
	}()

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             b.opts.Width,
		Height:            1123,
		DeviceScaleFactor: b.opts.ScaleFactor,
		Mobile:            false,
	}); err != nil {
		return nil, fmt.Errorf("set viewport: %w", err)
	}

	if err := page.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait for load: %w", err)
	}
	if _, err := page.Eval(waitForImages); err != nil {
		return nil, fmt.Errorf("wait for images: %w", err)
	}
	if _, err := page.Eval(hideControls, HiddenCSS()); err != nil {
		return nil, fmt.Errorf("hide controls: %w", err)
	}

	shot, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("capture timed out after %s: %w", b.opts.Timeout, err)
		}
		return nil, fmt.Errorf("screenshot: %w", err)
	}
	return shot, nil
}

// HiddenCSS is the stylesheet injected before the screenshot.
func HiddenCSS() string {
	return strings.Join(HiddenSelectors, ", ") + " { display: none !important; }"
}

func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.browser == nil {
		return nil
	}
	err := b.browser.Close()
	b.browser = nil
	return err
}
