package helpers

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	priceRegex      = regexp.MustCompile(`\d+(?:\.\d{1,2})?`)
	washCountRegex  = regexp.MustCompile(`(?i)(\d+)\s*(?:x\s*)?(?:was(?:beurten|jes)?|washes|strips|loads)`)
	numberRegex     = regexp.MustCompile(`\d+`)
	priceTokenRegex = regexp.MustCompile(`€?\s*\d+[.,]\d{1,2}\b`)
	slugRegex       = regexp.MustCompile(`[^a-z0-9]+`)
)

// ParsePrice parses a Dutch-locale price text ("€ 14,95", "14,95") into a
// float. The locale decimal comma is normalized to a dot before parsing.
// Text that yields no parseable number maps to 0, the sentinel for "missing";
// 0 is never a legitimate price.
func ParsePrice(text string) float64 {
	cleaned := strings.TrimSpace(text)

	// Anchor on the currency marker when present; option labels often lead
	// with a pack size ("60 wasbeurten - €14,95")
	marked := false
	if i := strings.LastIndex(cleaned, "€"); i >= 0 {
		cleaned = cleaned[i+len("€"):]
		marked = true
	}
	if strings.Contains(cleaned, "EUR") {
		cleaned = strings.ReplaceAll(cleaned, "EUR", "")
		marked = true
	}
	cleaned = strings.TrimSpace(cleaned)

	// Without a currency marker, only decimal-form or purely numeric text
	// qualifies; the wash count in a priceless label ("5 wasbeurten
	// proefpakket") is never a price.
	if !marked {
		cleaned = strings.TrimSpace(washCountRegex.ReplaceAllString(cleaned, ""))
		if !strings.ContainsAny(cleaned, ",.") && cleaned != numberRegex.FindString(cleaned) {
			return 0
		}
	}

	// "1.299,95" carries a thousands dot; drop it before the comma swap
	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	match := priceRegex.FindString(cleaned)
	if match == "" {
		return 0
	}

	price, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return price
}

// ParseWashCount extracts a wash count from variant display text like
// "64 wasbeurten" or "2x 32 washes". Returns 0 when no count is found.
func ParseWashCount(text string) int {
	matches := washCountRegex.FindStringSubmatch(text)
	if len(matches) >= 2 {
		count, err := strconv.Atoi(matches[1])
		if err == nil {
			return count
		}
	}

	// Fall back to the first bare integer, ignoring price-looking tokens
	// ("€3,50" must not read as a count of 3)
	match := numberRegex.FindString(priceTokenRegex.ReplaceAllString(text, ""))
	if match == "" {
		return 0
	}
	count, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return count
}

// Slugify converts a display name to a catalog slug
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugRegex.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// RoundTo rounds v to the given number of decimal places
func RoundTo(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}
