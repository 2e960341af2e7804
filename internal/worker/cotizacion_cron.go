package worker

// cotizacion_cron.go — background sweep that expires quotations past their
// vigencia and returns their reserved stock. Expiry is lazy everywhere else
// (conversion re-checks the window), so the sweep only keeps the ledger and
// listings tidy; missing a tick is harmless.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const expiryTickInterval = 10 * time.Minute

// CotizacionExpirer is implemented by the quotation service.
type CotizacionExpirer interface {
	ExpirarVencidas(ctx context.Context) (int, error)
}

// StartCotizacionCron launches the expiry goroutine. It runs one sweep
// immediately and then on every tick, and respects ctx for shutdown.
func StartCotizacionCron(ctx context.Context, expirer CotizacionExpirer) {
	go func() {
		ticker := time.NewTicker(expiryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("cotizacion_cron: started")
		sweep(ctx, expirer)

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("cotizacion_cron: shutting down")
				return
			case <-ticker.C:
				sweep(ctx, expirer)
			}
		}
	}()
}

func sweep(ctx context.Context, expirer CotizacionExpirer) {
	n, err := expirer.ExpirarVencidas(ctx)
	if err != nil {
		log.Error().Err(err).Msg("cotizacion_cron: sweep failed")
		return
	}
	if n > 0 {
		log.Info().Int("expiradas", n).Msg("cotizacion_cron: cotizaciones vencidas liberadas")
	}
}
