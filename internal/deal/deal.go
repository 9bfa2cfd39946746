package deal

import (
	"math"
	"regexp"
	"strings"
)

// Deal represents a single normalized product offer ready for publication
type Deal struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	CurrentPrice    float64 `json:"current_price"`
	OriginalPrice   float64 `json:"original_price"`
	Discount        int     `json:"discount"`
	ImageURL        string  `json:"image_url,omitempty"`
	ProductLink     string  `json:"product_link"`
	AffiliateLink   string  `json:"affiliate_link"`
	Provider        string  `json:"provider"`
	ProviderName    string  `json:"provider_name"`
	Category        string  `json:"category"`
	TimeLeft        string  `json:"time_left,omitempty"`
	ScrapedAt       string  `json:"scraped_at"`
	TelegramMessage string  `json:"telegram_message,omitempty"`
}

// Savings returns the absolute amount saved in euros
func (d Deal) Savings() float64 {
	s := d.OriginalPrice - d.CurrentPrice
	if s < 0 {
		return 0
	}
	return s
}

// DefaultDiscount is published when a card carries neither usable
// prices nor an advertised percentage
const DefaultDiscount = 30

// ComputeDiscount resolves the discount percentage for a deal.
// The computed value wins only when both prices are positive and the
// original price is higher; otherwise the advertised value is used,
// then the default. The result is clamped to [0, 100].
func ComputeDiscount(currentPrice, originalPrice float64, advertised int) int {
	discount := 0
	if currentPrice > 0 && originalPrice > 0 && originalPrice > currentPrice {
		discount = int(math.Round((1 - currentPrice/originalPrice) * 100))
	}
	if discount == 0 {
		discount = advertised
	}
	if discount == 0 {
		discount = DefaultDiscount
	}
	if discount < 0 {
		return 0
	}
	if discount > 100 {
		return 100
	}
	return discount
}

var (
	nonWordRe    = regexp.MustCompile(`[^\w\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// dedupKeyLen is the normalized title prefix compared for near-duplicates
const dedupKeyLen = 40

// DedupKey returns the normalized title key used to drop near-duplicate
// offers: case-folded, punctuation-stripped, whitespace-collapsed,
// truncated prefix.
func (d Deal) DedupKey() string {
	key := nonWordRe.ReplaceAllString(strings.ToLower(d.Title), "")
	key = whitespaceRe.ReplaceAllString(key, " ")
	if len(key) > dedupKeyLen {
		key = key[:dedupKeyLen]
	}
	return strings.TrimSpace(key)
}
