package adapter

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"stripwijzer/helpers"
	"stripwijzer/internal/model"
)

// VariantStrategy is one way of reading pack-size options out of a page.
// Strategies run in order; the first one that yields a usable variant wins.
type VariantStrategy struct {
	Name    string
	Extract func(doc *goquery.Document) []model.VariantRecord
}

// StockStrategy reads the page-level availability signal. The second return
// reports whether the strategy could decide at all.
type StockStrategy struct {
	Name    string
	Extract func(doc *goquery.Document) (inStock bool, decided bool)
}

// ReviewStrategy reads review data from a page
type ReviewStrategy struct {
	Name    string
	Extract func(doc *goquery.Document) []model.ReviewRecord
}

// VariantSelectors configures the selector-based variant strategy
type VariantSelectors struct {
	List          string // one element per pack-size option
	Name          string // relative to List; empty means the option's own text
	Price         string // relative to List; empty means the option's own text
	PriceAttr     string // read price from this attribute instead of text
	WashCountAttr string // read wash count from this attribute instead of the name
	SoldOutClass  string // option class that marks the variant unavailable
	SoldOutText   string // substring in the option text that marks it unavailable
}

// ReviewSelectors configures the rating-widget review strategy
type ReviewSelectors struct {
	Widget     string
	Rating     string // relative to Widget
	RatingAttr string // read rating from this attribute instead of text
	Count      string // relative to Widget
}

var countRegex = regexp.MustCompile(`\d+`)

// flexFloat decodes JSON numbers whether or not the source quoted them.
// Structured-data blocks are inconsistent about this across shops.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	// Comma-decimal prices appear inside structured data too
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// SelectorVariants builds a variant strategy driven by CSS selectors.
// Unparseable prices come back as the zero sentinel and are filtered by the
// adapter's usability check.
func SelectorVariants(sel VariantSelectors) VariantStrategy {
	return VariantStrategy{
		Name: "selectors",
		Extract: func(doc *goquery.Document) []model.VariantRecord {
			var variants []model.VariantRecord
			now := time.Now().UTC()

			doc.Find(sel.List).Each(func(_ int, s *goquery.Selection) {
				name := optionText(s, sel.Name)
				if name == "" {
					return
				}

				priceText := optionText(s, sel.Price)
				if sel.PriceAttr != "" {
					if attr, ok := s.Attr(sel.PriceAttr); ok {
						priceText = attr
					}
				}

				washCount := helpers.ParseWashCount(name)
				if sel.WashCountAttr != "" {
					if attr, ok := s.Attr(sel.WashCountAttr); ok {
						washCount = helpers.ParseWashCount(attr)
					}
				}

				inStock := true
				if sel.SoldOutClass != "" && s.HasClass(sel.SoldOutClass) {
					inStock = false
				}
				if sel.SoldOutText != "" && strings.Contains(strings.ToLower(s.Text()), strings.ToLower(sel.SoldOutText)) {
					inStock = false
				}

				variants = append(variants, model.VariantRecord{
					Name:      name,
					WashCount: washCount,
					Price:     helpers.ParsePrice(priceText),
					Currency:  "EUR",
					InStock:   inStock,
					ScrapedAt: now,
				})
			})

			return variants
		},
	}
}

// shopifyProduct mirrors the fields we need from a Shopify product JSON blob
type shopifyProduct struct {
	Variants []struct {
		Title     string    `json:"title"`
		Price     flexFloat `json:"price"`
		Available bool      `json:"available"`
	} `json:"variants"`
}

// ShopifyVariants builds a variant strategy for Shopify storefronts, reading
// the embedded product JSON. Shopify serializes prices in cents.
func ShopifyVariants() VariantStrategy {
	return VariantStrategy{
		Name: "shopify-json",
		Extract: func(doc *goquery.Document) []model.VariantRecord {
			var variants []model.VariantRecord
			now := time.Now().UTC()

			doc.Find(`script[type="application/json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
				text := s.Text()
				if !strings.Contains(text, `"variants"`) {
					return true
				}

				var product shopifyProduct
				if err := json.Unmarshal([]byte(text), &product); err != nil || len(product.Variants) == 0 {
					return true
				}

				for _, v := range product.Variants {
					variants = append(variants, model.VariantRecord{
						Name:      v.Title,
						WashCount: helpers.ParseWashCount(v.Title),
						Price:     float64(v.Price) / 100,
						Currency:  "EUR",
						InStock:   v.Available,
						ScrapedAt: now,
					})
				}
				return false
			})

			return variants
		},
	}
}

// jsonLDProduct mirrors the schema.org Product shape used by the sources.
// Offers is either one object or an array, so it is parsed in two passes.
type jsonLDProduct struct {
	Type   string          `json:"@type"`
	Offers json.RawMessage `json:"offers"`

	AggregateRating *struct {
		RatingValue flexFloat `json:"ratingValue"`
		ReviewCount flexFloat `json:"reviewCount"`
	} `json:"aggregateRating"`
}

type jsonLDOffer struct {
	Name         string    `json:"name"`
	Price        flexFloat `json:"price"`
	Availability string    `json:"availability"`
}

// JSONLDVariants builds a variant strategy reading schema.org Product offers
func JSONLDVariants() VariantStrategy {
	return VariantStrategy{
		Name: "json-ld",
		Extract: func(doc *goquery.Document) []model.VariantRecord {
			var variants []model.VariantRecord
			now := time.Now().UTC()

			eachJSONLDProduct(doc, func(product jsonLDProduct) {
				for _, offer := range decodeOffers(product.Offers) {
					variants = append(variants, model.VariantRecord{
						Name:      offer.Name,
						WashCount: helpers.ParseWashCount(offer.Name),
						Price:     float64(offer.Price),
						Currency:  "EUR",
						InStock:   !strings.Contains(offer.Availability, "OutOfStock"),
						ScrapedAt: now,
					})
				}
			})

			return variants
		},
	}
}

// TextStock builds a stock strategy that scans the page text for
// availability phrases. Out-of-stock phrases take precedence.
func TextStock(inStockPhrases, outOfStockPhrases []string) StockStrategy {
	return StockStrategy{
		Name: "text",
		Extract: func(doc *goquery.Document) (bool, bool) {
			text := strings.ToLower(doc.Text())
			for _, phrase := range outOfStockPhrases {
				if strings.Contains(text, strings.ToLower(phrase)) {
					return false, true
				}
			}
			for _, phrase := range inStockPhrases {
				if strings.Contains(text, strings.ToLower(phrase)) {
					return true, true
				}
			}
			return false, false
		},
	}
}

// SelectorStock builds a stock strategy driven by element presence: the
// out-of-stock selector wins over the in-stock selector.
func SelectorStock(inStockSel, outOfStockSel string) StockStrategy {
	return StockStrategy{
		Name: "selectors",
		Extract: func(doc *goquery.Document) (bool, bool) {
			if outOfStockSel != "" && doc.Find(outOfStockSel).Length() > 0 {
				return false, true
			}
			if inStockSel != "" && doc.Find(inStockSel).Length() > 0 {
				return true, true
			}
			return false, false
		},
	}
}

// WidgetReviews builds a review strategy reading a rating widget. The widget
// yields one aggregate record with the displayed mean and review count.
func WidgetReviews(sel ReviewSelectors) ReviewStrategy {
	return ReviewStrategy{
		Name: "widget",
		Extract: func(doc *goquery.Document) []model.ReviewRecord {
			widget := doc.Find(sel.Widget).First()
			if widget.Length() == 0 {
				return nil
			}

			ratingText := optionText(widget, sel.Rating)
			if sel.RatingAttr != "" {
				target := widget
				if sel.Rating != "" {
					target = widget.Find(sel.Rating).First()
				}
				if attr, ok := target.Attr(sel.RatingAttr); ok {
					ratingText = attr
				}
			}

			rating := helpers.ParsePrice(ratingText)
			if rating <= 0 {
				return nil
			}

			count := 1
			if sel.Count != "" {
				if m := countRegex.FindString(widget.Find(sel.Count).First().Text()); m != "" {
					if c := atoiSafe(m); c > 0 {
						count = c
					}
				}
			}

			return []model.ReviewRecord{{Rating: rating, Count: count}}
		},
	}
}

// JSONLDReviews builds a review strategy reading schema.org aggregateRating
func JSONLDReviews() ReviewStrategy {
	return ReviewStrategy{
		Name: "json-ld",
		Extract: func(doc *goquery.Document) []model.ReviewRecord {
			var reviews []model.ReviewRecord

			eachJSONLDProduct(doc, func(product jsonLDProduct) {
				if product.AggregateRating == nil {
					return
				}
				rating := float64(product.AggregateRating.RatingValue)
				if rating <= 0 {
					return
				}
				count := 1
				if c := int(product.AggregateRating.ReviewCount); c > 0 {
					count = c
				}
				reviews = append(reviews, model.ReviewRecord{Rating: rating, Count: count})
			})

			return reviews
		},
	}
}

// eachJSONLDProduct decodes every ld+json block and invokes fn for each
// schema.org Product it contains, top-level objects and arrays alike.
func eachJSONLDProduct(doc *goquery.Document, fn func(jsonLDProduct)) {
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := []byte(s.Text())

		var single jsonLDProduct
		if err := json.Unmarshal(raw, &single); err == nil && single.Type == "Product" {
			fn(single)
			return
		}

		var many []jsonLDProduct
		if err := json.Unmarshal(raw, &many); err == nil {
			for _, p := range many {
				if p.Type == "Product" {
					fn(p)
				}
			}
		}
	})
}

// decodeOffers handles both the single-object and array encodings of offers
func decodeOffers(raw json.RawMessage) []jsonLDOffer {
	if len(raw) == 0 {
		return nil
	}

	var many []jsonLDOffer
	if err := json.Unmarshal(raw, &many); err == nil {
		return many
	}

	var single jsonLDOffer
	if err := json.Unmarshal(raw, &single); err == nil {
		return []jsonLDOffer{single}
	}

	return nil
}

// optionText reads trimmed text from a relative selector, or from the
// element itself when the selector is empty.
func optionText(s *goquery.Selection, selector string) string {
	if selector == "" {
		return strings.TrimSpace(s.Text())
	}
	return strings.TrimSpace(s.Find(selector).First().Text())
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
