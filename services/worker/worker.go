// Package worker drives the periodic publish cycle: aggregate deals,
// attach generated copy, cross-post to the stream and deliver to
// Telegram.
package worker

import (
	"context"
	"encoding/json"
	"time"

	"ofertasflash/dealbot/internal/aggregator"
	"ofertasflash/dealbot/internal/ai"
	"ofertasflash/dealbot/internal/deal"
	"ofertasflash/dealbot/internal/notifier"
	"ofertasflash/dealbot/logger"
	"ofertasflash/dealbot/services/publisher"
)

// DealSender is the notifier surface the worker needs
type DealSender interface {
	SendDeals(ctx context.Context, deals []deal.Deal) []notifier.Result
}

// Worker runs the aggregate-and-publish cycle on a fixed interval
type Worker struct {
	aggregator *aggregator.Aggregator
	copywriter *ai.Copywriter
	publisher  publisher.Publisher
	notifier   DealSender
	interval   time.Duration
	log        *logger.Logger
}

// Stats summarizes one publish cycle
type Stats struct {
	Deals     int
	Published int
	Sent      int
	Elapsed   time.Duration
}

// New creates a worker. The copywriter and notifier may be nil; the
// cycle degrades to plain publishing.
func New(agg *aggregator.Aggregator, cw *ai.Copywriter, pub publisher.Publisher, n DealSender, interval time.Duration) *Worker {
	return &Worker{
		aggregator: agg,
		copywriter: cw,
		publisher:  pub,
		notifier:   n,
		interval:   interval,
		log:        logger.ForWorker(),
	}
}

// Start runs cycles until the context is cancelled
func (w *Worker) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		stats, err := w.RunOnce(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.log.Error().Err(err).Msg("Cycle failed")
		} else {
			w.log.Info().
				Int("deals", stats.Deals).
				Int("published", stats.Published).
				Int("sent", stats.Sent).
				Dur("elapsed", stats.Elapsed).
				Msg("Cycle finished")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce executes a single publish cycle
func (w *Worker) RunOnce(ctx context.Context) (Stats, error) {
	start := time.Now()

	deals, err := w.aggregator.Run(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Deals: len(deals)}
	if len(deals) == 0 {
		w.log.Info().Msg("Nothing to publish")
		stats.Elapsed = time.Since(start)
		return stats, nil
	}

	for i := range deals {
		w.attachCopy(ctx, &deals[i])
	}

	stats.Published = w.publishDeals(deals)

	if w.notifier != nil {
		for _, res := range w.notifier.SendDeals(ctx, deals) {
			if res.Success {
				stats.Sent++
			}
		}
	}

	if w.publisher != nil {
		if err := w.publisher.TrimStreams(); err != nil {
			w.log.Error().Err(err).Msg("Stream trimming failed")
		}
	}

	stats.Elapsed = time.Since(start)
	return stats, nil
}

// attachCopy asks the copywriter for a promo message. Failures leave
// the deal on the template path.
func (w *Worker) attachCopy(ctx context.Context, d *deal.Deal) {
	msg, err := w.copywriter.WriteMessage(ctx, *d)
	if err != nil {
		w.log.Warn().Err(err).Str("deal_id", d.ID).Msg("Copy generation failed, using template")
		return
	}
	d.TelegramMessage = msg
}

// publishDeals cross-posts each deal onto the stream, keyed by its
// source provider
func (w *Worker) publishDeals(deals []deal.Deal) int {
	if w.publisher == nil {
		return 0
	}

	published := 0
	for _, d := range deals {
		data, err := json.Marshal(d)
		if err != nil {
			w.log.Error().Err(err).Str("deal_id", d.ID).Msg("Marshal failed")
			continue
		}
		if err := w.publisher.Publish(d.Provider, data); err != nil {
			w.log.Error().Err(err).Str("deal_id", d.ID).Msg("Publish failed")
			continue
		}
		published++
	}
	return published
}
