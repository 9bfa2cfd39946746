package provider

import (
	"ofertasflash/dealbot/config"
	"ofertasflash/dealbot/internal/affiliate"
	"ofertasflash/dealbot/services/cache"
)

// chollometroConfig builds the source config for the Chollometro
// community board. The merchant varies per card, so the affiliate key
// and category are detected from the card itself.
func chollometroConfig(cfg config.Config) Config {
	return Config{
		Key:                 "chollometro",
		Name:                "Chollometro",
		URL:                 cfg.ChollometroURL,
		BaseURL:             "https://www.chollometro.com",
		CacheKey:            "rate_chollometro",
		BlockTime:           cfg.BlockTime,
		MaxItems:            10,
		MinTitleLen:         10,
		OriginalPriceFactor: 1.35,
		Selectors: Selectors{
			DealList:      "article.thread",
			Title:         ".thread-title a, .cept-tt",
			CurrentPrice:  ".thread-price, .cept-tp",
			OriginalPrice: ".text--lineThrough, .mute--text",
			Image:         ".thread-image img, img.thread-image",
			Link:          ".thread-title a, a.cept-tt",
			Merchant:      ".cept-merchant-name, .thread-merchant",
			TimeLeft:      ".chip--type-default .hide--toW3",
		},
	}
}

// pccomponentesConfig builds the source config for the PcComponentes
// offers page. A single-merchant store, so the affiliate key and
// category are fixed.
func pccomponentesConfig(cfg config.Config) Config {
	return Config{
		Key:                 "pccomponentes",
		Name:                "PcComponentes",
		URL:                 cfg.PcComponentesURL,
		BaseURL:             "https://www.pccomponentes.com",
		CacheKey:            "rate_pccomponentes",
		BlockTime:           cfg.BlockTime,
		MaxItems:            8,
		MinTitleLen:         5,
		OriginalPriceFactor: 1.25,
		AffiliateKey:        "pccomponentes",
		Category:            "electronics",
		Selectors: Selectors{
			DealList:         "article.product-card, .c-product-card",
			Title:            ".product-card__title, h3",
			TitleAttr:        "data-name",
			CurrentPrice:     ".product-card__price, .c-product-card__price",
			CurrentPriceAttr: "data-price",
			OriginalPrice:    ".product-card__price--old, .c-product-card__price-old",
			Image:            "img",
			Link:             "a",
		},
	}
}

// CreateProviders assembles the enabled live sources in fixed priority
// order. A source runs when its key appears in PROVIDERS, or when its
// fixed category appears in CATEGORIES. The static catalog fallback is
// created separately by the aggregator and never appears here.
func CreateProviders(cfg config.Config, rewriter *affiliate.Rewriter, cacheSvc cache.CacheService) []Provider {
	sources := []func(config.Config) Config{
		chollometroConfig,
		pccomponentesConfig,
	}

	var providers []Provider
	for _, build := range sources {
		pc := build(cfg)
		if !cfg.ProviderEnabled(pc.Key) && !(pc.Category != "" && cfg.CategoryEnabled(pc.Category)) {
			continue
		}
		providers = append(providers, NewScrapeProvider(pc, cfg.MinDiscount, cfg.FetchRetries, rewriter, cacheSvc))
	}
	return providers
}
