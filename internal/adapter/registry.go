package adapter

import (
	"stripwijzer/config"
	"stripwijzer/helpers"
	"stripwijzer/services/cache"
)

// Target binds one catalog product to the adapter that scrapes it, plus the
// hand-curated editorial fields that feed the sustainability scorer.
type Target struct {
	Slug     string
	Name     string
	Supplier string
	URL      string

	Features []string
	Pros     []string
	Cons     []string

	Adapter SiteAdapter
}

// Targets builds the full scrape registry from the runtime configuration.
// Order here is scrape order; the politeness delay runs between entries.
// Catalog slugs derive from the product names.
func Targets(cfg config.Config, cacheSvc cache.CacheService, browser *BrowserFetcher) []Target {
	targets := []Target{
		{
			Name:     "Cosmeau Wasstrips",
			Supplier: "Cosmeau",
			URL:      cfg.CosmeauURL,
			Features: []string{
				"Plastic-vrij verpakt in kartonnen verpakking",
				"Biologisch afbreekbaar wasvel",
				"Vegan formule zonder dierlijke ingrediënten",
				"Hypoallergeen en parfumarm",
			},
			Pros: []string{
				"Breed verkrijgbaar, ook in de supermarkt",
				"Lost snel op bij lage temperaturen",
			},
			Cons: []string{
				"Relatief hoge prijs per wasbeurt bij kleine pakken",
			},
			Adapter: NewConfigurableAdapter(AdapterConfig{
				Supplier:  "Cosmeau",
				CacheKey:  "blocked:cosmeau",
				BlockTime: 300,
				VariantStrategies: []VariantStrategy{
					ShopifyVariants(),
					SelectorVariants(VariantSelectors{
						List:        "select[name=id] option",
						SoldOutText: "uitverkocht",
					}),
				},
				StockStrategies: []StockStrategy{
					SelectorStock("button[name=add]:not([disabled])", "button[name=add][disabled]"),
					TextStock([]string{"op voorraad"}, []string{"uitverkocht", "niet op voorraad"}),
				},
				ReviewStrategies: []ReviewStrategy{
					JSONLDReviews(),
					WidgetReviews(ReviewSelectors{
						Widget:     ".jdgm-prev-badge",
						RatingAttr: "data-average-rating",
						Count:      ".jdgm-prev-badge__text",
					}),
				},
			}, cacheSvc, browser),
		},
		{
			Name:     "Wasstrip.nl Wasstrips",
			Supplier: "Wasstrip.nl",
			URL:      cfg.WasstripNLURL,
			Features: []string{
				"Plasticvrij en zero waste verpakking",
				"Recyclebaar kartonnen doosje",
				"Vegan en dierproefvrij",
				"Grootverpakkingen tot 120 wasbeurten",
			},
			Pros: []string{
				"Laagste prijs per wasbeurt bij grote pakken",
				"Veel pakformaten om uit te kiezen",
			},
			Cons: []string{
				"Alleen online verkrijgbaar",
			},
			Adapter: NewConfigurableAdapter(AdapterConfig{
				Supplier:  "Wasstrip.nl",
				CacheKey:  "blocked:wasstrip-nl",
				BlockTime: 300,
				VariantStrategies: []VariantStrategy{
					SelectorVariants(VariantSelectors{
						List:         "table.variations select option",
						SoldOutClass: "disabled",
					}),
					JSONLDVariants(),
				},
				StockStrategies: []StockStrategy{
					SelectorStock("p.stock.in-stock", "p.stock.out-of-stock"),
					TextStock([]string{"op voorraad"}, []string{"uitverkocht"}),
				},
				ReviewStrategies: []ReviewStrategy{
					JSONLDReviews(),
					WidgetReviews(ReviewSelectors{
						Widget: ".woocommerce-product-rating",
						Rating: ".rating",
						Count:  ".woocommerce-review-link",
					}),
				},
			}, cacheSvc, browser),
		},
		{
			Name:     "Seepje Wasstrips",
			Supplier: "Seepje",
			URL:      cfg.SeepjeURL,
			Features: []string{
				"B-Corp gecertificeerd bedrijf",
				"Natuurlijke ingrediënten op basis van Himalaya-schillen",
				"Plastic-vrij verpakt",
				"Sociale werkplaats verpakt in Nederland",
			},
			Pros: []string{
				"Sterk duurzaamheidsprofiel",
				"Frisse natuurlijke geur",
			},
			Cons: []string{
				"Kleiner assortiment pakformaten",
			},
			Adapter: NewConfigurableAdapter(AdapterConfig{
				Supplier:   "Seepje",
				CacheKey:   "blocked:seepje",
				BlockTime:  300,
				UseBrowser: true,
				VariantStrategies: []VariantStrategy{
					ShopifyVariants(),
					JSONLDVariants(),
				},
				StockStrategies: []StockStrategy{
					TextStock([]string{"in winkelwagen", "op voorraad"}, []string{"uitverkocht", "tijdelijk niet leverbaar"}),
				},
				ReviewStrategies: []ReviewStrategy{
					JSONLDReviews(),
				},
			}, cacheSvc, browser),
		},
		{
			Name:     "WasjeWasje Wasstrips",
			Supplier: "Wasjewasje",
			URL:      cfg.WasjewasjeURL,
			Features: []string{
				"Plasticvrij verpakt",
				"Biologisch afbreekbaar",
				"Geproduceerd in Nederland",
			},
			Pros: []string{
				"Nederlandse productie met korte keten",
				"Proefpakket beschikbaar",
			},
			Cons: []string{
				"Beperkte geurvarianten",
			},
			Adapter: NewConfigurableAdapter(AdapterConfig{
				Supplier:  "Wasjewasje",
				CacheKey:  "blocked:wasjewasje",
				BlockTime: 300,
				VariantStrategies: []VariantStrategy{
					SelectorVariants(VariantSelectors{
						List:  ".product-variants .variant-option",
						Name:  ".variant-name",
						Price: ".variant-price",
					}),
					JSONLDVariants(),
				},
				StockStrategies: []StockStrategy{
					TextStock([]string{"op voorraad"}, []string{"uitverkocht"}),
				},
				ReviewStrategies: []ReviewStrategy{
					WidgetReviews(ReviewSelectors{
						Widget: ".review-summary",
						Rating: ".review-score",
						Count:  ".review-count",
					}),
					JSONLDReviews(),
				},
			}, cacheSvc, browser),
		},
		{
			Name:     "GreenGoods Wasstrips",
			Supplier: "GreenGoods",
			URL:      cfg.GreenGoodsURL,
			Features: []string{
				"Recyclebaar verpakkingsmateriaal",
				"Geconcentreerde formule",
			},
			Pros: []string{
				"Scherpe instapprijs",
			},
			Cons: []string{
				"Productie buiten Europa",
				"Weinig informatie over ingrediënten",
			},
			Adapter: NewConfigurableAdapter(AdapterConfig{
				Supplier:   "GreenGoods",
				CacheKey:   "blocked:greengoods",
				BlockTime:  600,
				UseBrowser: true,
				VariantStrategies: []VariantStrategy{
					JSONLDVariants(),
					SelectorVariants(VariantSelectors{
						List:        ".sku-list .sku-item",
						Name:        ".sku-name",
						Price:       ".sku-price",
						SoldOutText: "sold out",
					}),
				},
				StockStrategies: []StockStrategy{
					TextStock([]string{"in stock", "op voorraad"}, []string{"sold out", "uitverkocht"}),
				},
				ReviewStrategies: []ReviewStrategy{
					JSONLDReviews(),
				},
			}, cacheSvc, browser),
		},
	}

	for i := range targets {
		targets[i].Slug = helpers.Slugify(targets[i].Name)
	}
	return targets
}
