package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	testCases := []struct {
		text     string
		expected float64
	}{
		{"14,95", 14.95},
		{"€ 14,95", 14.95},
		{"€14,95", 14.95},
		{"  21,99 EUR ", 21.99},
		{"12.99", 12.99},
		{"1.299,95", 1299.95},
		{"60 wasbeurten - €14,95", 14.95},
		{"9", 9},
		{"Uitverkocht", 0},
		{"", 0},
		{"€ -", 0},
		{"5 wasbeurten proefpakket", 0},
		{"240 wasbeurten - uitverkocht", 0},
		{"2x 60 wasjes", 0},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, ParsePrice(tc.text), "text: %q", tc.text)
	}
}

func TestParseWashCount(t *testing.T) {
	testCases := []struct {
		text     string
		expected int
	}{
		{"64 wasbeurten", 64},
		{"32 Wasbeurten - Lavendel", 32},
		{"2x 60 wasjes", 60},
		{"120 washes", 120},
		{"60 strips", 60},
		{"Voordeelpak (96)", 96},
		{"Cadeauverpakking - €3,50", 0},
		{"Proefpakket", 0},
		{"", 0},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, ParseWashCount(tc.text), "text: %q", tc.text)
	}
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "cosmeau-wasstrips", Slugify("Cosmeau Wasstrips"))
	assert.Equal(t, "wasstrip-nl-voordeelpak", Slugify("Wasstrip.nl Voordeelpak!"))
	assert.Equal(t, "seepje", Slugify("  Seepje  "))
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 0.217, RoundTo(12.99/60.0, 3))
	assert.Equal(t, 6.2, RoundTo(6.225, 1))
	assert.Equal(t, 0.183, RoundTo(21.99/120.0, 3))
}
