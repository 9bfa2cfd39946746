// Package aggregator orchestrates the deal sources: sequential fetch
// with pacing, deduplication, ranking and the static catalog fallback.
package aggregator

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"ofertasflash/dealbot/config"
	"ofertasflash/dealbot/internal/deal"
	"ofertasflash/dealbot/internal/provider"
	"ofertasflash/dealbot/logger"
)

// Aggregator collects deal candidates from the configured sources and
// reduces them to a ranked, capped list
type Aggregator struct {
	providers []provider.Provider
	fallback  provider.Provider
	maxDeals  int
	limiter   *rate.Limiter
	log       *logger.Logger
}

// New creates an aggregator over the given live sources with a static
// fallback source. The limiter paces consecutive source calls.
func New(cfg config.Config, providers []provider.Provider, fallback provider.Provider) *Aggregator {
	var limiter *rate.Limiter
	if cfg.ProviderDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.ProviderDelay), 1)
	}
	return &Aggregator{
		providers: providers,
		fallback:  fallback,
		maxDeals:  cfg.MaxDeals,
		limiter:   limiter,
		log:       logger.ForAggregator(),
	}
}

// Run fetches every source in order and returns the ranked deal list.
// A failing source is logged and skipped. When every live source comes
// back empty the static fallback supplies the material.
func (a *Aggregator) Run(ctx context.Context) ([]deal.Deal, error) {
	runID := uuid.NewString()
	log := a.log.WithField("run_id", runID)
	log.Info().Int("providers", len(a.providers)).Msg("Starting aggregation run")

	var collected []deal.Deal
	for _, p := range a.providers {
		if a.limiter != nil {
			if err := a.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		deals, err := p.FetchDeals(ctx)
		if err != nil {
			log.Warn().Err(err).Str("provider", p.Key()).Msg("Provider failed, skipping")
			continue
		}
		log.Info().Str("provider", p.Key()).Int("count", len(deals)).Msg("Provider returned deals")
		collected = append(collected, deals...)
	}

	if len(collected) == 0 && a.fallback != nil {
		log.Info().Msg("No live deals, using static catalog")
		deals, err := a.fallback.FetchDeals(ctx)
		if err != nil {
			return nil, err
		}
		collected = deals
	}

	final := Process(collected, a.maxDeals)
	log.Info().Int("collected", len(collected)).Int("final", len(final)).Msg("Aggregation run finished")
	return final, nil
}

// Process deduplicates, ranks and caps a list of deal candidates. The
// first occurrence of a duplicate key wins, so source order is the
// priority order. Sorting is stable: equal discounts keep their
// relative order.
func Process(deals []deal.Deal, maxDeals int) []deal.Deal {
	seen := make(map[string]bool, len(deals))
	unique := make([]deal.Deal, 0, len(deals))
	for _, d := range deals {
		key := d.DedupKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, d)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Discount > unique[j].Discount
	})

	if maxDeals > 0 && len(unique) > maxDeals {
		unique = unique[:maxDeals]
	}
	return unique
}
