package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"paintpos/internal/config"
	"paintpos/internal/infra"
	"paintpos/internal/repository"
	"paintpos/internal/router"
	"paintpos/internal/service"
	"paintpos/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Async pipeline: invoice PDF generation and email delivery run on a
	// goroutine pool fed from Redis queues. Handlers are wired here, at the
	// composition root, so they see the same infrastructure as the API.
	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)
	facturaRepo := repository.NewFacturaRepository(db)

	handlers := map[string]worker.Handler{
		worker.QueueFacturaPDF: worker.NewFacturaPDFWorker(facturaRepo, dispatcher, rdb, cfg.PDFStoragePath, cfg.EmpresaNombre),
		worker.QueueEmail:      worker.NewEmailWorker(mailer, rdb),
	}
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, handlers)

	// Background sweep that expires stale quotations and releases their
	// reserved stock.
	cotizacionSvc := service.NewCotizacionService(
		repository.NewCotizacionRepository(db),
		facturaRepo,
		service.NewInventarioService(repository.NewInventarioRepository(db), repository.NewProductoRepository(db)),
		repository.NewProductoRepository(db),
		repository.NewClienteRepository(db),
		cfg.VigenciaDiasDefault,
	)
	worker.StartCotizacionCron(ctx, cotizacionSvc)

	r := router.New(cfg, db, rdb, dispatcher)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("PaintPOS backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
