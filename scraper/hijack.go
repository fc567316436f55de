package scraper

import (
	"net/url"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// resourceTypes maps config names to Rod protocol resource types.
var resourceTypes = map[string]proto.NetworkResourceType{
	"Image":      proto.NetworkResourceTypeImage,
	"Stylesheet": proto.NetworkResourceTypeStylesheet,
	"Font":       proto.NetworkResourceTypeFont,
	"Media":      proto.NetworkResourceTypeMedia,
}

// trackerDomains are ad and analytics hosts blocked when BlockAds is on.
// Subdomains match too.
var trackerDomains = map[string]struct{}{
	"doubleclick.net":       {},
	"googlesyndication.com": {},
	"googleadservices.com":  {},
	"google-analytics.com":  {},
	"googletagmanager.com":  {},
	"facebook.net":          {},
	"criteo.com":            {},
	"criteo.net":            {},
	"adnxs.com":             {},
	"amazon-adsystem.com":   {},
	"hotjar.com":            {},
	"mixpanel.com":          {},
	"scorecardresearch.com": {},
	"taboola.com":           {},
	"outbrain.com":          {},
	"mobon.net":             {},
	"dable.io":              {},
}

// requestBlocker decides which browser requests are failed before they
// leave the page.
type requestBlocker struct {
	types    map[proto.NetworkResourceType]struct{}
	trackers bool
}

// newRequestBlocker returns nil when there is nothing to block.
// Unknown type names are ignored.
func newRequestBlocker(blockedTypes []string, blockAds bool) *requestBlocker {
	types := make(map[proto.NetworkResourceType]struct{}, len(blockedTypes))
	for _, name := range blockedTypes {
		if rt, ok := resourceTypes[name]; ok {
			types[rt] = struct{}{}
		}
	}
	if len(types) == 0 && !blockAds {
		return nil
	}
	return &requestBlocker{types: types, trackers: blockAds}
}

func (b *requestBlocker) blocks(rt proto.NetworkResourceType, rawURL string) bool {
	if _, ok := b.types[rt]; ok {
		return true
	}
	if !b.trackers {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return isTrackerHost(u.Hostname())
}

// isTrackerHost checks host and each of its parent domains.
func isTrackerHost(host string) bool {
	host = strings.ToLower(host)
	for host != "" {
		if _, ok := trackerDomains[host]; ok {
			return true
		}
		idx := strings.IndexByte(host, '.')
		if idx < 0 {
			return false
		}
		host = host[idx+1:]
	}
	return false
}

// setupHijack mounts a request interceptor on page when blocking is
// configured. The caller must Stop the returned router; nil means no router
// was mounted.
func setupHijack(page *rod.Page, blockedTypes []string, blockAds bool) *rod.HijackRouter {
	blocker := newRequestBlocker(blockedTypes, blockAds)
	if blocker == nil {
		return nil
	}

	router := page.HijackRequests()
	_ = router.Add("*", "", func(ctx *rod.Hijack) {
		if blocker.blocks(ctx.Request.Type(), ctx.Request.URL().String()) {
			ctx.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		ctx.ContinueRequest(&proto.FetchContinueRequest{})
	})

	// Run blocks until Stop.
	go router.Run()
	return router
}
