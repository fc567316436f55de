package models

// PageMetadata is the per-request extraction result. A nil field means the
// value could not be extracted; it serialises as JSON null.
type PageMetadata struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Image       *string `json:"image"`

	OriginalPrice *string `json:"original_price"`
	DiscountRate  *string `json:"discount_rate"`
	FinalPrice    *string `json:"final_price"`

	// Error is set only when the fetch failed outright. It holds the internal
	// message and is never sent to clients.
	Error *string `json:"error,omitempty"`
}

// OpenGraph is the three-field view returned by the static tier.
type OpenGraph struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
}

// OpenGraph returns the OG-only view of m.
func (m *PageMetadata) OpenGraph() OpenGraph {
	return OpenGraph{Title: m.Title, Description: m.Description, Image: m.Image}
}

// Failed reports whether m is an error payload rather than metadata.
func (m *PageMetadata) Failed() bool {
	return m == nil || m.Error != nil
}

// ErrorMetadata wraps an error message into an error payload.
func ErrorMetadata(err error) *PageMetadata {
	msg := err.Error()
	return &PageMetadata{Error: &msg}
}

// String returns a pointer to s.
func String(s string) *string {
	return &s
}
