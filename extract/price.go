package extract

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/use-agent/ogcrawl/models"
	"golang.org/x/net/html"
)

// currencySuffix is removed from numeric price text.
const currencySuffix = "원"

// Price selectors for the product page markup. Compiled once.
var (
	originalPriceSel = cascadia.MustCompile(".original-price-amount")
	discountRateSel  = cascadia.MustCompile(".original-price > :first-child > div")
	finalPriceSel    = cascadia.MustCompile(".final-price-amount")
)

// Prices holds the optional price fields.
type Prices struct {
	OriginalPrice *string
	DiscountRate  *string
	FinalPrice    *string
}

// ExtractPrices reads the price fields from doc. Missing elements yield nil
// fields.
func ExtractPrices(doc *goquery.Document) Prices {
	var p Prices
	if s, ok := firstText(doc, originalPriceSel); ok {
		p.OriginalPrice = models.String(stripCurrency(s))
	}
	if s, ok := firstText(doc, discountRateSel); ok {
		p.DiscountRate = models.String(s)
	}
	if s, ok := firstText(doc, finalPriceSel); ok {
		p.FinalPrice = models.String(stripCurrency(s))
	}
	return p
}

// applyPrices copies the price fields into meta. Price extraction is best
// effort: a panic inside it leaves every price field nil and meta's OG
// fields untouched.
func applyPrices(doc *goquery.Document, meta *models.PageMetadata) {
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("price extraction failed, leaving prices empty", "panic", r)
			meta.OriginalPrice, meta.DiscountRate, meta.FinalPrice = nil, nil, nil
		}
	}()

	p := ExtractPrices(doc)
	meta.OriginalPrice = p.OriginalPrice
	meta.DiscountRate = p.DiscountRate
	meta.FinalPrice = p.FinalPrice
}

func firstText(doc *goquery.Document, m goquery.Matcher) (string, bool) {
	sel := doc.FindMatcher(m).First()
	if sel.Length() == 0 {
		return "", false
	}
	return strippedText(sel.Nodes[0]), true
}

// strippedText concatenates the descendant text nodes of n, each trimmed of
// surrounding whitespace, with nothing between them.
func strippedText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(strings.TrimSpace(n.Data))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func stripCurrency(s string) string {
	return strings.ReplaceAll(s, currencySuffix, "")
}
