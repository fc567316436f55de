package models

// Fetch methods reported in CrawlResponse.Method.
const (
	MethodStatic   = "static"
	MethodRendered = "rendered"
)

// Public error messages. Internal error text never reaches these bodies.
const (
	MsgURLRequired  = "url parameter required"
	MsgFetchFailed  = "Failed to fetch"
	MsgUnauthorized = "invalid or missing API key"
	MsgRateLimited  = "rate limit exceeded, please slow down"
)

// CrawlResponse is the success body for GET /crawling.
// Data is OpenGraph for the static method and *PageMetadata for the rendered one.
type CrawlResponse struct {
	Method string `json:"method"`
	Data   any    `json:"data"`
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status        string `json:"status"` // "healthy" or "degraded"
	Uptime        string `json:"uptime"`
	ActiveRenders int    `json:"active_renders"`
	Version       string `json:"version"`
}
