package scraper

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/ogcrawl/extract"
	"github.com/use-agent/ogcrawl/metrics"
	"github.com/use-agent/ogcrawl/models"
	"github.com/ysmood/gson"
)

// Render loads targetURL in a fresh headless browser and extracts its
// metadata from the rendered DOM.
//
// Lifecycle (numbered steps match the inline comments):
//
//  1. Launch               – start an isolated browser process
//  2. DEFER: teardown      – close the browser and kill the process on every path
//  3. Page + emulation     – user agent, locale, mobile viewport (before navigation!)
//  4. Hijack mount         – optional resource/ad blocking (before navigation!)
//  5. Idle listener setup  – registered before Navigate to capture all requests
//  6. Navigate + wait      – load event, then network idle, bounded by NavigationTimeout
//  7. Extract              – page.HTML() → OG + price fields
//
// Missing tags and prices are not errors. Launch, navigation and read
// failures are returned as *models.FetchError.
func (r *Renderer) Render(ctx context.Context, targetURL string) (*models.PageMetadata, error) {
	r.active.Add(1)
	metrics.ActiveBrowsers.Inc()
	defer func() {
		r.active.Add(-1)
		metrics.ActiveBrowsers.Dec()
	}()

	// ── 1. Launch ─────────────────────────────────────────────────────
	l := r.newLauncher().Context(ctx)
	controlURL, err := l.Launch()
	if err != nil {
		// Launch kills a process it started before failing.
		return nil, models.NewFetchError(models.ErrCodeBrowserLaunch, "failed to launch browser", err)
	}
	// ── 2. DEFER: the process is killed even if Connect never succeeds.
	// Cleanup waits for the process to exit, so Kill must come first.
	defer func() {
		l.Kill()
		l.Cleanup()
	}()

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, models.NewFetchError(models.ErrCodeBrowserLaunch, "failed to connect to browser", err)
	}
	// The original browser reference carries no request context, so Close
	// still works after the deadline has passed.
	defer func() {
		if closeErr := browser.Close(); closeErr != nil {
			slog.Debug("browser close failed", "error", closeErr)
		}
	}()

	// ── 3. Page + emulation ───────────────────────────────────────────
	page, err := r.newPage(browser)
	if err != nil {
		return nil, models.NewFetchError(models.ErrCodeBrowserLaunch, "failed to create page", err)
	}
	if err := r.emulate(page); err != nil {
		return nil, models.NewFetchError(models.ErrCodeBrowserLaunch, "failed to configure page", err)
	}

	// ── 4. Hijack ─────────────────────────────────────────────────────
	router := setupHijack(page, r.browserCfg.BlockedResourceTypes, r.browserCfg.BlockAds)
	if router != nil {
		defer func() { _ = router.Stop() }()
	}

	navCtx, cancel := context.WithTimeout(ctx, r.navigationTimeout())
	defer cancel()
	p := page.Context(navCtx)

	// ── 5. Idle listener ──────────────────────────────────────────────
	// WaitRequestIdle uses the Fetch domain, which HijackRequests also owns.
	// With a hijack router mounted, fall back to DOM stability.
	var waitIdle func()
	if router == nil {
		waitIdle = p.WaitRequestIdle(r.browserCfg.IdleWindow, nil, nil, nil)
	}

	// ── 6. Navigate + wait ────────────────────────────────────────────
	if err := p.Navigate(targetURL); err != nil {
		return nil, categorizeError(err, "navigation to target URL failed")
	}
	if err := p.WaitLoad(); err != nil {
		return nil, categorizeError(err, "waiting for page load failed")
	}
	if waitIdle != nil {
		waitIdle()
	} else if stableErr := p.WaitDOMStable(r.browserCfg.IdleWindow, 0.1); stableErr != nil {
		slog.Debug("WaitDOMStable did not converge", "url", targetURL, "error", stableErr)
	}
	if err := navCtx.Err(); err != nil {
		return nil, categorizeError(err, "page did not reach network idle")
	}

	// ── 7. Extract ────────────────────────────────────────────────────
	rawHTML, err := page.Context(ctx).HTML()
	if err != nil {
		return nil, categorizeError(err, "failed to read page HTML")
	}
	meta, err := extract.Rendered(rawHTML)
	if err != nil {
		return nil, models.NewFetchError(models.ErrCodePageRead, "failed to parse page HTML", err)
	}
	return meta, nil
}

func (r *Renderer) newPage(browser *rod.Browser) (*rod.Page, error) {
	if r.browserCfg.Stealth {
		return stealth.Page(browser)
	}
	return browser.Page(proto.TargetCreateTarget{})
}

// emulate applies the user agent, locale and mobile viewport.
func (r *Renderer) emulate(page *rod.Page) error {
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      r.fetchCfg.UserAgent,
		AcceptLanguage: r.fetchCfg.AcceptLanguage,
	}); err != nil {
		return err
	}
	if r.browserCfg.Locale != "" {
		if err := (proto.EmulationSetLocaleOverride{Locale: r.browserCfg.Locale}).Call(page); err != nil {
			return err
		}
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             r.browserCfg.ViewportWidth,
		Height:            r.browserCfg.ViewportHeight,
		DeviceScaleFactor: 3,
		Mobile:            true,
	}); err != nil {
		return err
	}
	return proto.NetworkSetExtraHTTPHeaders{
		Headers: toHeadersMap(map[string]string{
			"Accept-Language": r.fetchCfg.AcceptLanguage,
		}),
	}.Call(page)
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

// categorizeError wraps raw rod errors into typed FetchErrors.
func categorizeError(err error, msg string) *models.FetchError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewFetchError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewFetchError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewFetchError(models.ErrCodeNavigation, msg, err)
	}
}
