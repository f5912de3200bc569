// Package awards computes catalog-relative "best in category" flags.
// Awards depend on the entire catalog snapshot, so they are recomputed on
// every read and never persisted.
package awards

import (
	"stripwijzer/helpers"
	"stripwijzer/internal/model"
)

// TrialWashCountMax is the largest pack size still considered a trial size
const TrialWashCountMax = 60

// priceDecimals is the precision used before price comparisons, so that two
// conceptually equal prices are not split apart by floating-point noise.
const priceDecimals = 3

// Compute derives the four award flags for every product in the snapshot,
// keyed by product slug. Missing or non-positive values never qualify and
// never make the computation fail; ties all win.
func Compute(products []model.Product) map[string]model.AwardFlags {
	flags := make(map[string]model.AwardFlags, len(products))
	if len(products) == 0 {
		return flags
	}

	maxRating := maxOf(products, func(p model.Product) float64 { return p.Rating })
	maxSustainability := maxOf(products, func(p model.Product) float64 { return p.Sustainability })

	dealPrices := make(map[string]float64, len(products))
	tryPrices := make(map[string]float64, len(products))
	var bestDeal, bestTry float64

	for _, p := range products {
		if deal, ok := minPricePerWash(p.Variants); ok {
			dealPrices[p.Slug] = deal
			if bestDeal == 0 || deal < bestDeal {
				bestDeal = deal
			}
		}
		if try, ok := minTrialPrice(p.Variants); ok {
			tryPrices[p.Slug] = try
			if bestTry == 0 || try < bestTry {
				bestTry = try
			}
		}
	}

	for _, p := range products {
		f := model.AwardFlags{}

		if maxRating > 0 && p.Rating == maxRating {
			f.BestReview = true
		}
		if maxSustainability > 0 && p.Sustainability == maxSustainability {
			f.BestSustainability = true
		}
		if deal, ok := dealPrices[p.Slug]; ok && deal == bestDeal {
			f.BestDealPrice = true
		}
		if try, ok := tryPrices[p.Slug]; ok && try == bestTry {
			f.BestTryPrice = true
		}

		flags[p.Slug] = f
	}

	return flags
}

// maxOf returns the maximum positive value of fn over products; zero and
// negative values are excluded and never qualify.
func maxOf(products []model.Product, fn func(model.Product) float64) float64 {
	var max float64
	for _, p := range products {
		if v := fn(p); v > 0 && v > max {
			max = v
		}
	}
	return max
}

// minPricePerWash returns a product's cheapest positive price-per-wash,
// rounded for comparison.
func minPricePerWash(variants []model.VariantRecord) (float64, bool) {
	var min float64
	found := false
	for _, v := range variants {
		if v.PricePerWash <= 0 {
			continue
		}
		if !found || v.PricePerWash < min {
			min = v.PricePerWash
			found = true
		}
	}
	if !found {
		return 0, false
	}
	return helpers.RoundTo(min, priceDecimals), true
}

// minTrialPrice returns the cheapest absolute price among a product's
// trial-size variants. Products without a trial-size variant never win.
func minTrialPrice(variants []model.VariantRecord) (float64, bool) {
	var min float64
	found := false
	for _, v := range variants {
		if v.WashCount <= 0 || v.WashCount > TrialWashCountMax || v.Price <= 0 {
			continue
		}
		if !found || v.Price < min {
			min = v.Price
			found = true
		}
	}
	if !found {
		return 0, false
	}
	return helpers.RoundTo(min, priceDecimals), true
}
