package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ofertasflash/dealbot/config"
)

const chollometroFixture = `
<html><body>
<article class="thread">
  <a class="thread-title cept-tt" href="https://www.amazon.es/dp/B08C7KG5LP">Sony WH-1000XM4 Auriculares Noise Cancelling</a>
  <span class="thread-price">229,00€</span>
  <span class="text--lineThrough">379,00€</span>
  <span class="cept-merchant-name">Amazon</span>
  <img class="thread-image" src="//images.chollometro.com/xm4.jpg"/>
</article>
<article class="thread">
  <a class="thread-title cept-tt" href="/go/deal/12345">Zapatillas Nike Air Max 90 -45%</a>
  <span class="cept-merchant-name">Nike</span>
</article>
<article class="thread">
  <a class="thread-title cept-tt" href="https://www.mediamarkt.es/tv">TV</a>
  <span class="thread-price">299€</span>
</article>
<article class="thread">
  <a class="thread-title cept-tt" href="https://www.elcorteingles.es/plancha">Plancha de vapor sin descuento real</a>
  <span class="thread-price">45,00€</span>
  <span class="text--lineThrough">49,00€</span>
</article>
</body></html>`

const pccomponentesFixture = `
<html><body>
<article class="product-card" data-name="Monitor MSI Optix 27 165Hz" data-price="189.99">
  <a href="/monitor-msi-optix"><h3>Monitor MSI Optix 27" 165Hz</h3></a>
  <span class="product-card__price">189,99€</span>
  <span class="product-card__price--old">299,99€</span>
  <img data-src="//img.pccomponentes.com/monitor.jpg"/>
</article>
</body></html>`

func newTestScrapeProvider(t *testing.T, cfg Config, minDiscount int) *ScrapeProvider {
	t.Helper()
	return NewScrapeProvider(cfg, minDiscount, 1, testRewriter(), nil)
}

func docFromString(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestScrapeProviderParseDeals(t *testing.T) {
	cfg := chollometroConfig(config.Config{ChollometroURL: "https://example.com"})
	p := newTestScrapeProvider(t, cfg, 30)

	deals := p.ParseDeals(docFromString(t, chollometroFixture))
	require.Len(t, deals, 2)

	sony := deals[0]
	assert.Equal(t, "Sony WH-1000XM4 Auriculares Noise Cancelling", sony.Title)
	assert.Equal(t, 229.0, sony.CurrentPrice)
	assert.Equal(t, 379.0, sony.OriginalPrice)
	assert.Equal(t, 40, sony.Discount)
	assert.Equal(t, "chollometro", sony.Provider)
	assert.Equal(t, "Amazon", sony.ProviderName)
	assert.Equal(t, "electronics", sony.Category)
	assert.Contains(t, sony.AffiliateLink, "tag=ofertasflash-21")
	assert.Equal(t, "https://images.chollometro.com/xm4.jpg", sony.ImageURL)
	assert.True(t, strings.HasPrefix(sony.ID, "chollometro-"))
	assert.NotEmpty(t, sony.ScrapedAt)

	// no prices on the card, so the advertised -45% in the text governs
	nike := deals[1]
	assert.Equal(t, "Zapatillas Nike Air Max 90 -45%", nike.Title)
	assert.Equal(t, "https://www.chollometro.com/go/deal/12345", nike.ProductLink)
	assert.Equal(t, "sports", nike.Category)
	assert.Equal(t, 45, nike.Discount)
	assert.Zero(t, nike.CurrentPrice)
}

func TestScrapeProviderOriginalPriceEstimate(t *testing.T) {
	const html = `<html><body><article class="thread">
  <a class="thread-title cept-tt" href="https://www.fnac.es/libro-electronico">Libro electrónico con pantalla de tinta</a>
  <span class="thread-price">89,99€</span>
</article></body></html>`

	cfg := chollometroConfig(config.Config{})
	p := newTestScrapeProvider(t, cfg, 0)

	deals := p.ParseDeals(docFromString(t, html))
	require.Len(t, deals, 1)
	assert.InDelta(t, 89.99*1.35, deals[0].OriginalPrice, 0.01)
	assert.Equal(t, 26, deals[0].Discount)
}

func TestScrapeProviderSkipsShortTitles(t *testing.T) {
	cfg := chollometroConfig(config.Config{})
	p := newTestScrapeProvider(t, cfg, 0)

	deals := p.ParseDeals(docFromString(t, chollometroFixture))
	for _, d := range deals {
		assert.GreaterOrEqual(t, len(d.Title), cfg.MinTitleLen)
	}
}

func TestScrapeProviderMinDiscountFilter(t *testing.T) {
	cfg := chollometroConfig(config.Config{})
	cfg.OriginalPriceFactor = 0
	p := newTestScrapeProvider(t, cfg, 30)

	deals := p.ParseDeals(docFromString(t, chollometroFixture))
	for _, d := range deals {
		assert.GreaterOrEqual(t, d.Discount, 30, "deal %q below threshold", d.Title)
	}
	// the 45€/49€ card computes an 8% discount and must be dropped
	for _, d := range deals {
		assert.NotContains(t, d.Title, "Plancha")
	}
}

func TestScrapeProviderAttrFallbacks(t *testing.T) {
	cfg := pccomponentesConfig(config.Config{})
	p := newTestScrapeProvider(t, cfg, 30)

	deals := p.ParseDeals(docFromString(t, pccomponentesFixture))
	require.Len(t, deals, 1)

	d := deals[0]
	assert.Equal(t, 189.99, d.CurrentPrice)
	assert.Equal(t, 299.99, d.OriginalPrice)
	assert.Equal(t, 37, d.Discount)
	assert.Equal(t, "pccomponentes", d.Provider)
	assert.Equal(t, "electronics", d.Category)
	assert.Equal(t, "https://www.pccomponentes.com/monitor-msi-optix", d.ProductLink)
	assert.Equal(t, "https://img.pccomponentes.com/monitor.jpg", d.ImageURL)
}

func TestScrapeProviderMaxItems(t *testing.T) {
	var cards strings.Builder
	cards.WriteString("<html><body>")
	for i := 0; i < 20; i++ {
		cards.WriteString(`<article class="thread">
  <a class="thread-title cept-tt" href="https://www.amazon.es/dp/B000000000">Producto de prueba repetido para paginado</a>
  <span class="thread-price">50,00€</span>
  <span class="text--lineThrough">100,00€</span>
</article>`)
	}
	cards.WriteString("</body></html>")

	cfg := chollometroConfig(config.Config{})
	p := newTestScrapeProvider(t, cfg, 0)

	deals := p.ParseDeals(docFromString(t, cards.String()))
	assert.Len(t, deals, cfg.MaxItems)
}

func TestScrapeProviderFetchDeals(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(chollometroFixture))
	}))
	defer srv.Close()

	cfg := chollometroConfig(config.Config{ChollometroURL: srv.URL})
	p := newTestScrapeProvider(t, cfg, 30)

	deals, err := p.FetchDeals(context.Background())
	require.NoError(t, err)
	assert.Len(t, deals, 2)
}

func TestCreateProviders(t *testing.T) {
	cfg := config.Config{
		Providers:    []string{"pccomponentes", "chollometro", "unknown"},
		MinDiscount:  30,
		FetchRetries: 1,
	}

	providers := CreateProviders(cfg, testRewriter(), nil)
	require.Len(t, providers, 2)
	assert.Equal(t, "chollometro", providers[0].Key())
	assert.Equal(t, "pccomponentes", providers[1].Key())
	assert.Equal(t, "PcComponentes", providers[1].Name())
}

func TestCreateProvidersCategoryGate(t *testing.T) {
	// a source with a fixed category also runs when that category is
	// requested, even if its key is absent from PROVIDERS
	cfg := config.Config{
		Providers:    []string{"chollometro"},
		Categories:   []string{"electronics"},
		FetchRetries: 1,
	}

	providers := CreateProviders(cfg, testRewriter(), nil)
	require.Len(t, providers, 2)
	assert.Equal(t, "pccomponentes", providers[1].Key())

	cfg.Categories = []string{"home"}
	providers = CreateProviders(cfg, testRewriter(), nil)
	require.Len(t, providers, 1)
	assert.Equal(t, "chollometro", providers[0].Key())
}
