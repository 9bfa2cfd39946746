package provider

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ofertasflash/dealbot/internal/affiliate"
	"ofertasflash/dealbot/internal/category"
)

func testRewriter() *affiliate.Rewriter {
	return affiliate.NewRewriter(affiliate.Config{
		AmazonTags: map[string]string{
			"amazon_es": "ofertasflash-21",
		},
		PcComponentesTag: "ofertasflash",
		AwinPublisherID:  "123456",
	})
}

func TestCatalogProviderFetchDeals(t *testing.T) {
	p := NewCatalogProvider(30, 0, testRewriter())

	deals, err := p.FetchDeals(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, deals)

	for _, d := range deals {
		assert.GreaterOrEqual(t, d.Discount, 30)
		assert.True(t, strings.HasPrefix(d.ID, "amazon-"))
		assert.True(t, strings.HasPrefix(d.ProductLink, "https://www.amazon.es/dp/"))
		assert.Contains(t, d.AffiliateLink, "tag=ofertasflash-21")
		assert.Equal(t, "amazon_es", d.Provider)
		assert.NotEmpty(t, d.ScrapedAt)
	}
}

func TestCatalogProviderMaxDeals(t *testing.T) {
	p := NewCatalogProvider(0, 3, testRewriter())

	deals, err := p.FetchDeals(context.Background())
	require.NoError(t, err)
	assert.Len(t, deals, 3)
}

func TestCatalogProviderHighThreshold(t *testing.T) {
	// threshold above every catalog discount yields an empty, non-error result
	p := NewCatalogProvider(99, 0, testRewriter())

	deals, err := p.FetchDeals(context.Background())
	require.NoError(t, err)
	assert.Empty(t, deals)
}

func TestCatalogCoversAllCategories(t *testing.T) {
	seen := make(map[string]bool)
	for _, e := range staticCatalog {
		seen[e.Category] = true
	}
	for _, tag := range category.Tags() {
		if tag == category.DefaultTag {
			continue
		}
		assert.True(t, seen[tag], "catalog missing category %s", tag)
	}
}
