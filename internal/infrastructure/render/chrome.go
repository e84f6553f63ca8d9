package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"

	"SentimentExporter/internal/domain"
	"SentimentExporter/internal/ports"
	"SentimentExporter/pkg/logger"
)

// ChromeConfig tunes the headless browser used for script-populated pages.
type ChromeConfig struct {
	Headless bool
	// ExecPath overrides browser discovery; empty uses chromedp's lookup.
	ExecPath string
	// NavigateTimeout bounds page load, WaitTimeout bounds the element wait.
	NavigateTimeout time.Duration
	WaitTimeout     time.Duration
	UserAgent       string
}

// ChromeRenderer starts a fresh browser per Render call and always tears it down.
type ChromeRenderer struct {
	cfg    ChromeConfig
	logger *slog.Logger

	start    func(ctx context.Context) error
	navigate func(ctx context.Context, url string) (int, error)
	capture  func(ctx context.Context, selector string) (string, error)
}

var _ ports.Renderer = (*ChromeRenderer)(nil)

// NewChromeRenderer fills timeouts with 20s defaults.
func NewChromeRenderer(cfg ChromeConfig, log *slog.Logger) *ChromeRenderer {
	if cfg.NavigateTimeout <= 0 {
		cfg.NavigateTimeout = 20 * time.Second
	}
	if cfg.WaitTimeout <= 0 {
		cfg.WaitTimeout = 20 * time.Second
	}
	return &ChromeRenderer{
		cfg:      cfg,
		logger:   log,
		start:    startBrowser,
		navigate: navigate,
		capture:  capture,
	}
}

// Render navigates to url, waits for waitSelector and returns the page HTML.
// The browser process is released before Render returns on every path.
func (c *ChromeRenderer) Render(ctx context.Context, url, waitSelector string) (string, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, c.allocatorOptions()...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(logger.Printf(c.logger, slog.LevelDebug)),
		chromedp.WithErrorf(logger.Printf(c.logger, slog.LevelWarn)),
	)
	defer cancelBrowser()

	// The first Run allocates the browser; a deadline on it would kill the
	// whole process, so it runs without one.
	if err := c.start(browserCtx); err != nil {
		return "", &domain.SourceError{Kind: domain.SourceNetwork, Err: fmt.Errorf("start browser: %w", err)}
	}

	begin := time.Now()
	navCtx, cancelNav := context.WithTimeout(browserCtx, c.cfg.NavigateTimeout)
	status, err := c.navigate(navCtx, url)
	cancelNav()
	if err != nil {
		return "", &domain.SourceError{Kind: domain.SourceNetwork, Err: fmt.Errorf("navigate %s: %w", url, err)}
	}
	if status != 0 && (status < 200 || status > 299) {
		return "", &domain.SourceError{Kind: domain.SourceHTTP, Status: status, Err: fmt.Errorf("%s returned status %d", url, status)}
	}

	waitCtx, cancelWait := context.WithTimeout(browserCtx, c.cfg.WaitTimeout)
	defer cancelWait()
	html, err := c.capture(waitCtx, waitSelector)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return "", &domain.SourceError{
				Kind: domain.SourceTimeout,
				Err:  fmt.Errorf("element %q did not appear within %s", waitSelector, c.cfg.WaitTimeout),
			}
		}
		return "", &domain.SourceError{Kind: domain.SourceNetwork, Err: fmt.Errorf("wait for %q: %w", waitSelector, err)}
	}

	if c.logger != nil {
		c.logger.Debug("page rendered", "url", url, "bytes", len(html), "elapsed", time.Since(begin))
	}
	return html, nil
}

func (c *ChromeRenderer) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", c.cfg.Headless),
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if c.cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.cfg.ExecPath))
	}
	if c.cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(c.cfg.UserAgent))
	}
	return opts
}

func startBrowser(ctx context.Context) error {
	return chromedp.Run(ctx)
}

func navigate(ctx context.Context, url string) (int, error) {
	resp, err := chromedp.RunResponse(ctx, chromedp.Navigate(url))
	if err != nil {
		return 0, err
	}
	if resp == nil {
		return 0, nil
	}
	return int(resp.Status), nil
}

func capture(ctx context.Context, selector string) (string, error) {
	var html string
	err := chromedp.Run(ctx,
		chromedp.WaitReady(selector, chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	return html, err
}
