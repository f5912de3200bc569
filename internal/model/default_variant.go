package model

// SelectDefaultVariant picks the variant that represents a product's headline
// price. The rule is applied uniformly across all sources and is
// deterministic: prefer the first variant explicitly marked default,
// otherwise the variant with the lowest price-per-wash, otherwise the first
// variant. Returns -1 for an empty slice.
func SelectDefaultVariant(variants []VariantRecord) int {
	if len(variants) == 0 {
		return -1
	}

	for i, v := range variants {
		if v.IsDefault {
			return i
		}
	}

	best := -1
	for i, v := range variants {
		if v.PricePerWash <= 0 {
			continue
		}
		if best == -1 || v.PricePerWash < variants[best].PricePerWash {
			best = i
		}
	}
	if best >= 0 {
		return best
	}

	return 0
}

// NormalizeVariants recomputes price-per-wash for every candidate and marks
// exactly one variant as default per the selection rule. The input slice is
// modified in place and returned.
func NormalizeVariants(variants []VariantRecord) []VariantRecord {
	for i := range variants {
		if variants[i].WashCount > 0 && variants[i].Price > 0 {
			variants[i].PricePerWash = variants[i].Price / float64(variants[i].WashCount)
		} else {
			variants[i].PricePerWash = 0
		}
	}

	def := SelectDefaultVariant(variants)
	for i := range variants {
		variants[i].IsDefault = i == def
	}
	return variants
}
