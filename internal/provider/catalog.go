package provider

import (
	"context"
	"fmt"
	"time"

	"ofertasflash/dealbot/internal/affiliate"
	"ofertasflash/dealbot/internal/deal"
)

// catalogEntry is one verified Amazon.es product in the static catalog
type catalogEntry struct {
	Title         string
	OriginalPrice float64
	CurrentPrice  float64
	ASIN          string
	Category      string
	Image         string
}

// staticCatalog holds verified ASINs so the fallback always has
// publishable material across every category tag
var staticCatalog = []catalogEntry{
	{
		Title:         "🎧 Sony WH-1000XM4 Auriculares Inalámbricos Noise Cancelling",
		OriginalPrice: 379, CurrentPrice: 229,
		ASIN: "B08C7KG5LP", Category: "electronics",
		Image: "https://m.media-amazon.com/images/I/71o8Q5XJS5L._AC_SL1500_.jpg",
	},
	{
		Title:         "📺 Amazon Fire TV Stick 4K con Alexa",
		OriginalPrice: 59.99, CurrentPrice: 36.99,
		ASIN: "B08XVYZ1Y5", Category: "electronics",
		Image: "https://m.media-amazon.com/images/I/51TjJOTfslL._AC_SL1000_.jpg",
	},
	{
		Title:         "🔊 Echo Dot (5ª generación) Altavoz inteligente con Alexa",
		OriginalPrice: 59.99, CurrentPrice: 34.99,
		ASIN: "B09B8V1LZ3", Category: "electronics",
		Image: "https://m.media-amazon.com/images/I/71xoR4A6q-L._AC_SL1000_.jpg",
	},
	{
		Title:         "🖱️ Logitech G502 HERO Ratón Gaming Alto Rendimiento",
		OriginalPrice: 89.99, CurrentPrice: 49.99,
		ASIN: "B07GBZ4Q68", Category: "electronics",
		Image: "https://m.media-amazon.com/images/I/61mpMH5TzkL._AC_SL1500_.jpg",
	},
	{
		Title:         "💾 SanDisk Ultra 128GB Tarjeta microSDXC",
		OriginalPrice: 26.99, CurrentPrice: 14.99,
		ASIN: "B08GYKNCCP", Category: "electronics",
		Image: "https://m.media-amazon.com/images/I/617NtexaW2L._AC_SL1500_.jpg",
	},
	{
		Title:         "🎮 Mando Inalámbrico Xbox - Carbon Black",
		OriginalPrice: 59.99, CurrentPrice: 44.99,
		ASIN: "B08DF26MXW", Category: "gaming",
		Image: "https://m.media-amazon.com/images/I/71WpFRDr-8L._SL1500_.jpg",
	},
	{
		Title:         "🎧 HyperX Cloud II Auriculares Gaming",
		OriginalPrice: 99.99, CurrentPrice: 59.99,
		ASIN: "B00SAYCXWG", Category: "gaming",
		Image: "https://m.media-amazon.com/images/I/71G6xNXcIQL._AC_SL1500_.jpg",
	},
	{
		Title:         "🖥️ BenQ MOBIUZ EX2510S Monitor Gaming 24.5\" 165Hz",
		OriginalPrice: 279, CurrentPrice: 189,
		ASIN: "B09BJVNVQB", Category: "gaming",
		Image: "https://m.media-amazon.com/images/I/81vFuW0HtXL._AC_SL1500_.jpg",
	},
	{
		Title:         "🧹 iRobot Roomba 692 Robot Aspirador con Wi-Fi",
		OriginalPrice: 299, CurrentPrice: 199,
		ASIN: "B08F7VK6VX", Category: "home",
		Image: "https://m.media-amazon.com/images/I/71lEQJekQ1L._AC_SL1500_.jpg",
	},
	{
		Title:         "🌡️ Philips Airfryer Essential 4.1L Freidora sin Aceite",
		OriginalPrice: 139.99, CurrentPrice: 89.99,
		ASIN: "B0936F6XPV", Category: "home",
		Image: "https://m.media-amazon.com/images/I/61xPJmFrAZL._AC_SL1000_.jpg",
	},
	{
		Title:         "💡 Philips Hue White Bombilla LED E27 Pack 2",
		OriginalPrice: 34.99, CurrentPrice: 22.99,
		ASIN: "B07SS377J6", Category: "home",
		Image: "https://m.media-amazon.com/images/I/51fmNpMkNtL._AC_SL1000_.jpg",
	},
	{
		Title:         "☕ Nespresso Vertuo Next Cafetera de Cápsulas",
		OriginalPrice: 179, CurrentPrice: 99,
		ASIN: "B08D6QM4NZ", Category: "kitchen",
		Image: "https://m.media-amazon.com/images/I/71tW9k0TJYL._AC_SL1500_.jpg",
	},
	{
		Title:         "🥤 Ninja Batidora de Vaso 2-en-1 1000W",
		OriginalPrice: 99.99, CurrentPrice: 69.99,
		ASIN: "B08F9XFVKD", Category: "kitchen",
		Image: "https://m.media-amazon.com/images/I/61xnPa1lJPL._AC_SL1500_.jpg",
	},
	{
		Title:         "⌚ Xiaomi Mi Smart Band 7 Pulsera de Actividad",
		OriginalPrice: 49.99, CurrentPrice: 34.99,
		ASIN: "B0B4N8G7G9", Category: "sports",
		Image: "https://m.media-amazon.com/images/I/41kLmxFQwEL._AC_SL1000_.jpg",
	},
	{
		Title:         "🏃 Garmin Forerunner 55 GPS Reloj Running",
		OriginalPrice: 199.99, CurrentPrice: 139.99,
		ASIN: "B096FPLK8P", Category: "sports",
		Image: "https://m.media-amazon.com/images/I/61zz1HE9J3S._AC_SL1500_.jpg",
	},
	{
		Title:         "🪥 Oral-B Pro 3 3000 Cepillo de Dientes Eléctrico",
		OriginalPrice: 109.99, CurrentPrice: 49.99,
		ASIN: "B07NSMT5VH", Category: "beauty",
		Image: "https://m.media-amazon.com/images/I/61MVWRF-09L._SL1500_.jpg",
	},
	{
		Title:         "✂️ Philips OneBlade Pro QP6520 Recortador",
		OriginalPrice: 79.99, CurrentPrice: 49.99,
		ASIN: "B07H5S1GFD", Category: "beauty",
		Image: "https://m.media-amazon.com/images/I/71ZLvLkkgjL._AC_SL1500_.jpg",
	},
	{
		Title:         "👟 Levi's 501 Original Fit Vaqueros Hombre",
		OriginalPrice: 99.95, CurrentPrice: 59.95,
		ASIN: "B0CS2XRXP2", Category: "fashion",
		Image: "https://m.media-amazon.com/images/I/71lVwl3q-kL._AC_SL1500_.jpg",
	},
	{
		Title:         "🧸 LEGO Star Wars Halcón Milenario 75375",
		OriginalPrice: 89.99, CurrentPrice: 64.99,
		ASIN: "B0C1JNSQBD", Category: "toys",
		Image: "https://m.media-amazon.com/images/I/81VB6GQPS1L._AC_SL1500_.jpg",
	},
	{
		Title:         "🎲 Monopoly Edición Clásica Juego de Mesa",
		OriginalPrice: 29.99, CurrentPrice: 19.99,
		ASIN: "B07MTSTYRL", Category: "toys",
		Image: "https://m.media-amazon.com/images/I/91a2EfBGMGL._AC_SL1500_.jpg",
	},
}

// CatalogProvider serves the static fallback catalog. No network calls,
// always succeeds.
type CatalogProvider struct {
	minDiscount int
	maxDeals    int
	rewriter    *affiliate.Rewriter
	entries     []catalogEntry
}

// NewCatalogProvider creates the static catalog provider
func NewCatalogProvider(minDiscount, maxDeals int, rewriter *affiliate.Rewriter) *CatalogProvider {
	return &CatalogProvider{
		minDiscount: minDiscount,
		maxDeals:    maxDeals,
		rewriter:    rewriter,
		entries:     staticCatalog,
	}
}

// Key returns the machine key of the source
func (p *CatalogProvider) Key() string {
	return "static"
}

// Name returns the display name of the source
func (p *CatalogProvider) Name() string {
	return "Amazon España"
}

// FetchDeals filters the catalog by minimum discount and maps it to deals
func (p *CatalogProvider) FetchDeals(_ context.Context) ([]deal.Deal, error) {
	var deals []deal.Deal

	for _, e := range p.entries {
		discount := deal.ComputeDiscount(e.CurrentPrice, e.OriginalPrice, 0)
		if discount < p.minDiscount {
			continue
		}

		productLink := fmt.Sprintf("https://www.amazon.es/dp/%s", e.ASIN)
		deals = append(deals, deal.Deal{
			ID:            "amazon-" + e.ASIN,
			Title:         e.Title,
			CurrentPrice:  e.CurrentPrice,
			OriginalPrice: e.OriginalPrice,
			Discount:      discount,
			ImageURL:      e.Image,
			ProductLink:   productLink,
			AffiliateLink: p.rewriter.Rewrite(productLink, "amazon_es"),
			Provider:      "amazon_es",
			ProviderName:  p.Name(),
			Category:      e.Category,
			ScrapedAt:     time.Now().UTC().Format(time.RFC3339),
		})

		if p.maxDeals > 0 && len(deals) >= p.maxDeals {
			break
		}
	}

	return deals, nil
}
