package provider

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"ofertasflash/dealbot/helpers"
	"ofertasflash/dealbot/pkg/retry"
	"ofertasflash/dealbot/services/cache"

	"github.com/PuerkitoBio/goquery"
)

// baseProvider provides fetching, throttle blocking and document parsing
// shared by all live scraping providers
type baseProvider struct {
	url       string
	baseURL   string
	cacheKey  string
	cacheSvc  cache.CacheService
	blockTime time.Duration
	policy    retry.Policy
}

// fetchWithCache fetches the source page with rate limiting. A source
// that was throttled recently is skipped until its block window expires.
func (b *baseProvider) fetchWithCache(ctx context.Context) (io.Reader, error) {
	if b.cacheSvc != nil && b.cacheKey != "" {
		if _, err := b.cacheSvc.Get(b.cacheKey); err == nil {
			return nil, fmt.Errorf("%s: blocked for %ds after rate limiting", b.cacheKey, int(b.blockTime/time.Second))
		}
	}

	body, err := helpers.FetchWithRetry(ctx, b.url, b.policy)
	if err != nil {
		if helpers.IsThrottleStatus(err) && b.cacheSvc != nil && b.cacheKey != "" {
			blockSecs := []byte(fmt.Sprintf("%d", int(b.blockTime/time.Second)))
			if setErr := b.cacheSvc.Set(b.cacheKey, blockSecs, b.blockTime); setErr != nil {
				return nil, setErr
			}
		}
		return nil, err
	}

	return body, nil
}

// createDocument creates a goquery document from a reader
func (b *baseProvider) createDocument(reader io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("HTML parse error: %w", err)
	}
	return doc, nil
}

// resolveURL normalizes scheme-relative and host-relative links against
// the provider's base URL
func (b *baseProvider) resolveURL(link string) string {
	link = strings.TrimSpace(link)
	switch {
	case link == "":
		return ""
	case strings.HasPrefix(link, "//"):
		return "https:" + link
	case strings.HasPrefix(link, "/"):
		return strings.TrimSuffix(b.baseURL, "/") + link
	default:
		return link
	}
}
