package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	tls "github.com/refraction-networking/utls"
	"github.com/use-agent/ogcrawl/config"
	"github.com/use-agent/ogcrawl/extract"
	"github.com/use-agent/ogcrawl/models"
	"golang.org/x/net/html/charset"
)

// maxBody caps how much of a response the static tier reads.
const maxBody = 10 << 20

var errMissingOGTags = errors.New("http_engine: og:title, og:description or og:image missing")

// HTTPEngine is the static tier. It issues a single GET with browser-like
// headers and reads the Open Graph tags from the raw HTML.
type HTTPEngine struct {
	client *http.Client
	cfg    config.FetchConfig
}

// chromeH1Spec is a Chrome-like TLS ClientHello with ALPN forced to http/1.1
// only. Computed once at init time and reused for every connection.
var chromeH1Spec tls.ClientHelloSpec

func init() {
	spec, err := tls.UTLSIdToSpec(tls.HelloChrome_Auto)
	if err != nil {
		return
	}
	// Go's http.Transport cannot speak h2 over a utls connection.
	for i, ext := range spec.Extensions {
		if alpn, ok := ext.(*tls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			spec.Extensions[i] = alpn
			break
		}
	}
	chromeH1Spec = spec
}

// NewHTTPEngine creates an HTTPEngine with a Chrome-like TLS fingerprint.
func NewHTTPEngine(cfg config.FetchConfig) *HTTPEngine {
	transport := &http.Transport{
		DialTLSContext:    dialTLSChrome,
		ForceAttemptHTTP2: false,
	}
	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err == nil && (proxyURL.Scheme == "http" || proxyURL.Scheme == "https") {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}
	return &HTTPEngine{
		cfg: cfg,
		client: &http.Client{
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
	}
}

func dialTLSChrome(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}
	host, _, _ := net.SplitHostPort(addr)
	tlsConn := tls.UClient(conn, &tls.Config{ServerName: host}, tls.HelloCustom)
	if err := tlsConn.ApplyPreset(&chromeH1Spec); err != nil {
		conn.Close()
		return nil, fmt.Errorf("http_engine: apply tls spec: %w", err)
	}
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return tlsConn, nil
}

func (e *HTTPEngine) Name() string { return NameStatic }

// Fetch never returns an error: every failure becomes StaticIncomplete.
func (e *HTTPEngine) Fetch(ctx context.Context, req *FetchRequest) StaticResult {
	if e.cfg.StaticTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.StaticTimeout)
		defer cancel()
	}

	meta, err := e.fetch(ctx, req.URL)
	if err != nil {
		return StaticResult{Status: StaticIncomplete, Reason: err}
	}
	return StaticResult{Status: StaticComplete, Metadata: meta}
}

func (e *HTTPEngine) fetch(ctx context.Context, targetURL string) (*models.PageMetadata, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("http_engine: build request: %w", err)
	}
	httpReq.Header.Set("User-Agent", e.cfg.UserAgent)
	httpReq.Header.Set("Accept-Language", e.cfg.AcceptLanguage)
	httpReq.Header.Set("Accept", e.cfg.Accept)

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http_engine: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("http_engine: HTTP %d for %s", resp.StatusCode, targetURL)
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, maxBody), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("http_engine: decode body: %w", err)
	}
	doc, err := extract.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("http_engine: parse html: %w", err)
	}
	if !extract.HasOpenGraph(doc) {
		return nil, errMissingOGTags
	}
	return extract.OpenGraph(doc), nil
}
