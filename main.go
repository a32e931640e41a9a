package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/sljivkov/bonkboard/apis"
	"github.com/sljivkov/bonkboard/config"
	"github.com/sljivkov/bonkboard/games"
	"github.com/sljivkov/bonkboard/handler"
	"github.com/sljivkov/bonkboard/logger"
	"github.com/sljivkov/bonkboard/metrics"
	"github.com/sljivkov/bonkboard/pricefeed"
	"github.com/sljivkov/bonkboard/render"
)

func main() {
	var opts []config.Option
	if _, err := os.Stat(".env"); err == nil {
		opts = append(opts, config.WithEnvFile(".env"))
	}

	cfg, err := config.NewConfig(opts...)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logg := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *cfg, logg); err != nil {
		logg.Fatal().Err(err).Msg("bonkboard stopped")
	}
}

// run serves the dashboard and polls prices until ctx is cancelled
func run(ctx context.Context, cfg config.Config, logg zerolog.Logger) error {
	catalog, err := games.Load(cfg.GamesFile)
	if err != nil {
		return err
	}

	var (
		assets = cfg.AssetList()
		m      = metrics.New()
		store  = pricefeed.NewStore(assets...)
		gecko  = apis.NewCoinGecko(cfg)
		poller = pricefeed.NewPoller(gecko, store, assets, cfg.Interval, m, logg)
		h      = handler.New(store, render.LookupAssets(assets), catalog, m, cfg.Interval, logg)
	)

	pollCtx, cancelPoll := context.WithCancel(ctx)
	defer cancelPoll()

	polled := make(chan struct{})
	go func() {
		defer close(polled)
		poller.Run(pollCtx)
	}()

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info().Str("addr", cfg.Addr).Int("games", len(catalog)).Msg("Starting dashboard server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		logg.Info().Msg("Shutdown signal received, stopping")
	case err := <-serveErr:
		if err != nil {
			cancelPoll()
			<-polled
			return err
		}
	}

	cancelPoll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	<-polled
	logg.Info().Msg("Dashboard stopped")

	return nil
}
