package extract

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/ogcrawl/models"
)

// Open Graph properties read by both tiers.
const (
	propTitle       = "og:title"
	propDescription = "og:description"
	propImage       = "og:image"
)

// Parse reads an HTML document. The reader must yield UTF-8.
func Parse(r io.Reader) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(r)
}

// ParseString parses rendered HTML.
func ParseString(rawHTML string) (*goquery.Document, error) {
	return Parse(strings.NewReader(rawHTML))
}

// HasOpenGraph reports whether doc carries all three Open Graph meta tags.
// A tag without a content attribute still counts; its field reads as null.
func HasOpenGraph(doc *goquery.Document) bool {
	for _, prop := range []string{propTitle, propDescription, propImage} {
		if doc.Find(`meta[property="`+prop+`"]`).Length() == 0 {
			return false
		}
	}
	return true
}

// OpenGraph reads og:title, og:description and og:image from doc into a
// fresh PageMetadata. The first matching tag wins; a tag without a content
// attribute yields nil.
func OpenGraph(doc *goquery.Document) *models.PageMetadata {
	return &models.PageMetadata{
		Title:       metaProperty(doc, propTitle),
		Description: metaProperty(doc, propDescription),
		Image:       metaProperty(doc, propImage),
	}
}

func metaProperty(doc *goquery.Document, prop string) *string {
	sel := doc.Find(`meta[property="` + prop + `"]`).First()
	if sel.Length() == 0 {
		return nil
	}
	content, ok := sel.Attr("content")
	if !ok {
		return nil
	}
	return &content
}

// Rendered extracts everything the rendered tier returns: the three OG
// fields, each optional, plus the price fields.
func Rendered(rawHTML string) (*models.PageMetadata, error) {
	doc, err := ParseString(rawHTML)
	if err != nil {
		return nil, err
	}
	meta := OpenGraph(doc)
	applyPrices(doc, meta)
	return meta, nil
}
