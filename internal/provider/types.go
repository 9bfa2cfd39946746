package provider

import (
	"context"
	"time"

	"ofertasflash/dealbot/internal/deal"
)

// Provider produces a list of normalized deal candidates from one source
type Provider interface {
	// FetchDeals retrieves deal candidates from the source
	FetchDeals(ctx context.Context) ([]deal.Deal, error)

	// Key returns the machine key identifying the source
	Key() string

	// Name returns the display name of the source
	Name() string
}

// Selectors contains CSS selectors for the repeating card structure of
// one source page
type Selectors struct {
	DealList string

	Title     string
	TitleAttr string // card attribute fallback when the selector yields nothing

	CurrentPrice     string
	CurrentPriceAttr string // card attribute checked before the selector

	OriginalPrice string

	Image    string
	Link     string
	Merchant string // merchant display name on community boards
	TimeLeft string
}

// Config parameterizes one scraping source
type Config struct {
	Key      string
	Name     string
	URL      string
	BaseURL  string
	CacheKey string

	// BlockTime is how long the source is skipped after being throttled
	BlockTime time.Duration

	// MaxItems caps the cards inspected per page, 0 means no cap
	MaxItems int

	// MinTitleLen drops junk cards with implausibly short titles
	MinTitleLen int

	// OriginalPriceFactor estimates a missing original price from the
	// current one, 0 disables the estimate
	OriginalPriceFactor float64

	// AffiliateKey is a fixed affiliate provider key; empty means the
	// merchant is detected per card from the outbound link
	AffiliateKey string

	// Category is a fixed category tag; empty means the category is
	// detected per card from the title
	Category string

	Selectors Selectors
}
