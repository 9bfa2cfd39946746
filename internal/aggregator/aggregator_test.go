package aggregator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ofertasflash/dealbot/config"
	"ofertasflash/dealbot/internal/deal"
	"ofertasflash/dealbot/internal/provider"
)

type mockProvider struct {
	key   string
	deals []deal.Deal
	err   error
	calls int
}

func (m *mockProvider) FetchDeals(_ context.Context) ([]deal.Deal, error) {
	m.calls++
	return m.deals, m.err
}

func (m *mockProvider) Key() string  { return m.key }
func (m *mockProvider) Name() string { return m.key }

func testConfig(maxDeals int) config.Config {
	return config.Config{
		MaxDeals:      maxDeals,
		ProviderDelay: 0,
	}
}

func mkDeal(title string, discount int) deal.Deal {
	return deal.Deal{Title: title, Discount: discount}
}

func TestProcessRanksByDiscountDesc(t *testing.T) {
	deals := []deal.Deal{
		mkDeal("Cafetera espresso automática", 10),
		mkDeal("Auriculares bluetooth premium", 45),
		mkDeal("Robot aspirador con mapeo", 30),
	}

	got := Process(deals, 0)
	require.Len(t, got, 3)
	assert.Equal(t, []int{45, 30, 10}, []int{got[0].Discount, got[1].Discount, got[2].Discount})
}

func TestProcessDedupFirstWins(t *testing.T) {
	deals := []deal.Deal{
		{Title: "Sony WH-1000XM5 Auriculares", Provider: "chollometro", Discount: 35},
		{Title: "sony wh-1000xm5   auriculares!!", Provider: "pccomponentes", Discount: 50},
		{Title: "Otro producto distinto", Discount: 40},
	}

	got := Process(deals, 0)
	require.Len(t, got, 2)
	// the earlier occurrence survives even though the duplicate ranks higher
	assert.Equal(t, "chollometro", got[1].Provider)
	assert.Equal(t, 35, got[1].Discount)
	assert.Equal(t, 40, got[0].Discount)
}

func TestProcessTruncates(t *testing.T) {
	var deals []deal.Deal
	for i := 0; i < 10; i++ {
		deals = append(deals, mkDeal(string(rune('a'+i))+" producto único numerado", i*5))
	}

	got := Process(deals, 3)
	require.Len(t, got, 3)
	assert.Equal(t, 45, got[0].Discount)
}

func TestProcessStableForEqualDiscounts(t *testing.T) {
	deals := []deal.Deal{
		{Title: "Primero con igual descuento", Provider: "a", Discount: 30},
		{Title: "Segundo con igual descuento", Provider: "b", Discount: 30},
	}

	got := Process(deals, 0)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Provider)
	assert.Equal(t, "b", got[1].Provider)
}

func TestRunCollectsAllProviders(t *testing.T) {
	p1 := &mockProvider{key: "chollometro", deals: []deal.Deal{mkDeal("Monitor curvo ultrapanorámico", 25)}}
	p2 := &mockProvider{key: "pccomponentes", deals: []deal.Deal{mkDeal("Teclado mecánico inalámbrico", 40)}}
	fallback := &mockProvider{key: "static", deals: []deal.Deal{mkDeal("Producto de catálogo", 45)}}

	a := New(testConfig(5), []provider.Provider{p1, p2}, fallback)
	got, err := a.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 40, got[0].Discount)
	assert.Zero(t, fallback.calls, "fallback must not run when live sources produce deals")
}

func TestRunIsolatesProviderFailure(t *testing.T) {
	p1 := &mockProvider{key: "chollometro", err: errors.New("connection refused")}
	p2 := &mockProvider{key: "pccomponentes", deals: []deal.Deal{mkDeal("Teclado mecánico inalámbrico", 40)}}

	a := New(testConfig(5), []provider.Provider{p1, p2}, nil)
	got, err := a.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, p1.calls)
	assert.Equal(t, 1, p2.calls)
}

func TestRunFallsBackWhenAllEmpty(t *testing.T) {
	p1 := &mockProvider{key: "chollometro", err: errors.New("timeout")}
	p2 := &mockProvider{key: "pccomponentes"}
	fallback := &mockProvider{key: "static", deals: []deal.Deal{
		mkDeal("Producto de catálogo uno", 40),
		mkDeal("Producto de catálogo dos", 35),
	}}

	a := New(testConfig(5), []provider.Provider{p1, p2}, fallback)
	got, err := a.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, fallback.calls)
}

func TestRunEmptyWithoutFallback(t *testing.T) {
	p1 := &mockProvider{key: "chollometro"}

	a := New(testConfig(5), []provider.Provider{p1}, nil)
	got, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRunHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p1 := &mockProvider{key: "chollometro", deals: []deal.Deal{mkDeal("Producto cualquiera de prueba", 40)}}

	cfg := testConfig(5)
	cfg.ProviderDelay = time.Second

	a := New(cfg, []provider.Provider{p1}, nil)
	_, err := a.Run(ctx)
	require.Error(t, err)
	assert.Zero(t, p1.calls)
}
