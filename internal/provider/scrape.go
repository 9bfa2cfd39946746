package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ofertasflash/dealbot/internal/affiliate"
	"ofertasflash/dealbot/internal/category"
	"ofertasflash/dealbot/internal/deal"
	"ofertasflash/dealbot/internal/textutil"
	"ofertasflash/dealbot/logger"
	"ofertasflash/dealbot/pkg/retry"
	"ofertasflash/dealbot/services/cache"

	"github.com/PuerkitoBio/goquery"
)

// ScrapeProvider is a live source driven entirely by a Config: one
// parametrized implementation serves every scraped site.
type ScrapeProvider struct {
	baseProvider
	cfg         Config
	minDiscount int
	rewriter    *affiliate.Rewriter
	log         *logger.Logger
}

// NewScrapeProvider creates a scraping provider for one source
func NewScrapeProvider(cfg Config, minDiscount int, fetchRetries int, rewriter *affiliate.Rewriter, cacheSvc cache.CacheService) *ScrapeProvider {
	return &ScrapeProvider{
		baseProvider: baseProvider{
			url:       cfg.URL,
			baseURL:   cfg.BaseURL,
			cacheKey:  cfg.CacheKey,
			cacheSvc:  cacheSvc,
			blockTime: cfg.BlockTime,
			policy: retry.Policy{
				MaxAttempts: fetchRetries,
				Backoff:     retry.LinearBackoff(2 * time.Second),
			},
		},
		cfg:         cfg,
		minDiscount: minDiscount,
		rewriter:    rewriter,
		log:         logger.ForProvider(cfg.Key),
	}
}

// Key returns the machine key of the source
func (p *ScrapeProvider) Key() string {
	return p.cfg.Key
}

// Name returns the display name of the source
func (p *ScrapeProvider) Name() string {
	return p.cfg.Name
}

// FetchDeals fetches the source page and extracts deal candidates
func (p *ScrapeProvider) FetchDeals(ctx context.Context) ([]deal.Deal, error) {
	body, err := p.fetchWithCache(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := p.createDocument(body)
	if err != nil {
		return nil, err
	}

	deals := p.ParseDeals(doc)
	p.log.Debug().Int("count", len(deals)).Msg("Extracted deal candidates")
	return deals, nil
}

// ParseDeals extracts deal candidates from a parsed document. Pure with
// respect to I/O, so it can be tested against fixture HTML.
func (p *ScrapeProvider) ParseDeals(doc *goquery.Document) []deal.Deal {
	var deals []deal.Deal

	doc.Find(p.cfg.Selectors.DealList).EachWithBreak(func(i int, s *goquery.Selection) bool {
		if p.cfg.MaxItems > 0 && i >= p.cfg.MaxItems {
			return false
		}
		if d := p.processCard(i, s); d != nil {
			deals = append(deals, *d)
		}
		return true
	})

	return deals
}

// processCard extracts one deal candidate from a card element. A card
// missing a usable title, link or discount is skipped, never retried.
func (p *ScrapeProvider) processCard(index int, s *goquery.Selection) *deal.Deal {
	sel := p.cfg.Selectors

	title := strings.TrimSpace(s.Find(sel.Title).First().Text())
	if title == "" && sel.TitleAttr != "" {
		title, _ = s.Attr(sel.TitleAttr)
		title = strings.TrimSpace(title)
	}
	if title == "" || len(title) < p.cfg.MinTitleLen {
		return nil
	}

	link := p.extractLink(s)
	if link == "" {
		return nil
	}

	currentPrice := p.extractCurrentPrice(s)
	originalPrice := textutil.ParsePrice(s.Find(sel.OriginalPrice).First().Text())
	if originalPrice == 0 && currentPrice > 0 && p.cfg.OriginalPriceFactor > 0 {
		originalPrice = currentPrice * p.cfg.OriginalPriceFactor
	}

	advertised := textutil.ParseDiscount(s.Text())
	discount := deal.ComputeDiscount(currentPrice, originalPrice, advertised)
	if discount < p.minDiscount {
		return nil
	}

	merchant := strings.TrimSpace(s.Find(sel.Merchant).First().Text())

	affiliateKey := p.cfg.AffiliateKey
	if affiliateKey == "" {
		affiliateKey = affiliate.DetectProviderFromURL(link)
		if affiliateKey == "other" && merchant != "" {
			affiliateKey = affiliate.DetectProviderFromText(merchant)
		}
	}

	providerName := merchant
	if providerName == "" {
		providerName = p.cfg.Name
	}

	tag := p.cfg.Category
	if tag == "" {
		tag = category.Detect(title)
	}

	// ASIN-based ids stay stable across runs for the same product
	id := fmt.Sprintf("%s-%d-%d", p.cfg.Key, time.Now().UnixMilli(), index)
	if asin := affiliate.ExtractASIN(link); asin != "" {
		id = p.cfg.Key + "-" + asin
	}

	return &deal.Deal{
		ID:            id,
		Title:         title,
		CurrentPrice:  currentPrice,
		OriginalPrice: originalPrice,
		Discount:      discount,
		ImageURL:      p.extractImage(s),
		ProductLink:   link,
		AffiliateLink: p.rewriter.Rewrite(link, affiliateKey),
		Provider:      p.cfg.Key,
		ProviderName:  providerName,
		Category:      tag,
		TimeLeft:      strings.TrimSpace(s.Find(sel.TimeLeft).First().Text()),
		ScrapedAt:     time.Now().UTC().Format(time.RFC3339),
	}
}

func (p *ScrapeProvider) extractLink(s *goquery.Selection) string {
	linkSel := s.Find(p.cfg.Selectors.Link).First()
	href, ok := linkSel.Attr("href")
	if !ok {
		return ""
	}
	return p.resolveURL(href)
}

func (p *ScrapeProvider) extractCurrentPrice(s *goquery.Selection) float64 {
	sel := p.cfg.Selectors
	if sel.CurrentPriceAttr != "" {
		if attr, ok := s.Attr(sel.CurrentPriceAttr); ok {
			if v := textutil.ParsePrice(attr); v > 0 {
				return v
			}
		}
	}
	return textutil.ParsePrice(s.Find(sel.CurrentPrice).First().Text())
}

func (p *ScrapeProvider) extractImage(s *goquery.Selection) string {
	imgSel := s.Find(p.cfg.Selectors.Image).First()
	src, ok := imgSel.Attr("src")
	if !ok || src == "" {
		src, _ = imgSel.Attr("data-src")
	}
	return p.resolveURL(src)
}
