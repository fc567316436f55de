package scraper

import (
	"sync/atomic"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/use-agent/ogcrawl/config"
)

// defaultNavigationTimeout applies when the configured timeout is not positive.
const defaultNavigationTimeout = 20 * time.Second

// Renderer loads pages in a headless browser. Every Render call launches
// its own browser process and tears it down before returning, so nothing is
// shared between requests. It is safe for concurrent use.
type Renderer struct {
	browserCfg config.BrowserConfig
	fetchCfg   config.FetchConfig
	active     atomic.Int32
}

// NewRenderer creates a Renderer. No browser is started until Render.
func NewRenderer(browserCfg config.BrowserConfig, fetchCfg config.FetchConfig) *Renderer {
	return &Renderer{
		browserCfg: browserCfg,
		fetchCfg:   fetchCfg,
	}
}

// ActiveBrowsers returns the number of browsers currently running.
func (r *Renderer) ActiveBrowsers() int {
	return int(r.active.Load())
}

func (r *Renderer) navigationTimeout() time.Duration {
	if r.browserCfg.NavigationTimeout > 0 {
		return r.browserCfg.NavigationTimeout
	}
	return defaultNavigationTimeout
}

// newLauncher builds the launcher for one isolated browser instance.
func (r *Renderer) newLauncher() *launcher.Launcher {
	l := launcher.New().
		Headless(r.browserCfg.Headless).
		NoSandbox(r.browserCfg.NoSandbox)

	if r.browserCfg.BrowserBin != "" {
		l = l.Bin(r.browserCfg.BrowserBin)
	}
	if r.fetchCfg.Proxy != "" {
		l = l.Proxy(r.fetchCfg.Proxy)
	}
	if r.browserCfg.Locale != "" {
		l.Set(flags.Flag("lang"), r.browserCfg.Locale)
	}

	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-features"), "AudioServiceOutOfProcess,TranslateUI")
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-backgrounding-occluded-windows"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))

	return l
}
