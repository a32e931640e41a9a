package pricefeed

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/sljivkov/bonkboard/domain"
	"github.com/sljivkov/bonkboard/metrics"
)

// QuoteSource fetches the current quote of a single asset
type QuoteSource interface {
	FetchQuote(ctx context.Context, assetID string) (domain.ParsedQuote, error)
}

// Poller runs polling cycles against a QuoteSource and commits their
// results into a Store
type Poller struct {
	source   QuoteSource
	store    *Store
	assets   []string
	interval time.Duration
	metrics  *metrics.Metrics
	log      zerolog.Logger
}

// NewPoller creates a poller for the given assets
func NewPoller(source QuoteSource, store *Store, assets []string, interval time.Duration, m *metrics.Metrics, log zerolog.Logger) *Poller {
	return &Poller{
		source:   source,
		store:    store,
		assets:   append([]string(nil), assets...),
		interval: interval,
		metrics:  m,
		log:      log.With().Str("component", "pricefeed").Logger(),
	}
}

// Run executes one cycle immediately and then one per interval until ctx is
// cancelled. Cycles never overlap; a cycle still in flight at cancellation
// does not write to the store.
func (p *Poller) Run(ctx context.Context) {
	p.log.Info().
		Strs("assets", p.assets).
		Dur("interval", p.interval).
		Msg("📡 Starting price polling")

	p.cycle(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info().Msg("🛑 Context cancelled, stopping price polling")
			return
		case <-ticker.C:
			p.cycle(ctx)
		}
	}
}

// cycle fetches every asset concurrently and commits the outcome. Any failed
// request fails the whole cycle: prices stay as they were and only the
// loading flag is cleared.
func (p *Poller) cycle(ctx context.Context) {
	start := time.Now()

	parsed := make([]domain.ParsedQuote, len(p.assets))
	g, gctx := errgroup.WithContext(ctx)

	for i, asset := range p.assets {
		i, asset := i, asset
		g.Go(func() error {
			q, err := p.source.FetchQuote(gctx, asset)
			if err != nil {
				p.metrics.FetchFailed(asset)
				return fmt.Errorf("fetch %s: %w", asset, err)
			}
			parsed[i] = q
			return nil
		})
	}

	err := g.Wait()

	// checked under the store lock: nothing is written once ctx is cancelled
	var discarded bool
	next := p.store.Apply(func(s domain.State) domain.State {
		switch {
		case ctx.Err() != nil:
			discarded = true
			return s
		case err != nil:
			return domain.Settle(s)
		default:
			return domain.Merge(s, parsed)
		}
	})

	if discarded {
		p.log.Debug().Msg("Discarding cycle finished after teardown")
		return
	}

	if err != nil {
		p.log.Error().Err(err).Msg("❌ Error fetching prices")
		p.metrics.ObserveCycle(metrics.OutcomeFailed, time.Since(start))
		return
	}

	p.metrics.ObserveCycle(metrics.OutcomeOK, time.Since(start))

	for _, asset := range p.assets {
		q, _ := next.Quote(asset)
		if q.Price != nil {
			p.metrics.SetQuote(asset, *q.Price, q.ChangePercent24h)
		}
	}

	p.log.Debug().
		Dur("took", time.Since(start)).
		Msg("✅ Successfully fetched prices from CoinGecko")
}
