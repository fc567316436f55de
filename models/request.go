package models

// CrawlingQuery is the query string of GET /crawling.
type CrawlingQuery struct {
	// URL is the target page. Required; it is not otherwise validated.
	URL string `form:"url" binding:"required"`
}
