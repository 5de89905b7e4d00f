package worker

import (
	"context"
	"time"

	"github.com/oeh-wirtschaft/oeh-backend/internal/metrics"
	"github.com/oeh-wirtschaft/oeh-backend/internal/repository"
	"github.com/rs/zerolog"
)

// CodeSweeper periodically deletes personal codes whose expiry lies further
// back than the retention window. Issued codes are never touched.
type CodeSweeper struct {
	codes     repository.VerificationCodeRepository
	metrics   *metrics.Metrics
	interval  time.Duration
	retention time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

// NewCodeSweeper creates a new CodeSweeper.
func NewCodeSweeper(
	codes repository.VerificationCodeRepository,
	m *metrics.Metrics,
	interval, retention time.Duration,
	log zerolog.Logger,
) *CodeSweeper {
	return &CodeSweeper{
		codes:     codes,
		metrics:   m,
		interval:  interval,
		retention: retention,
		log:       log.With().Str("component", "code_sweeper").Logger(),
		now:       time.Now,
	}
}

// Start runs one sweep immediately and then one per interval until ctx is
// done. Call in a goroutine. A non-positive interval disables the loop.
func (w *CodeSweeper) Start(ctx context.Context) {
	if w.interval <= 0 {
		w.log.Info().Msg("Sweeper disabled")
		return
	}
	w.log.Info().
		Dur("interval", w.interval).
		Dur("retention", w.retention).
		Msg("Worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if _, err := w.Sweep(ctx); err != nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("Sweep failed")
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
		}
	}
}

// Sweep deletes personal codes that expired before now minus retention.
func (w *CodeSweeper) Sweep(ctx context.Context) (int64, error) {
	cutoff := w.now().Add(-w.retention)
	n, err := w.codes.PurgePersonal(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	w.metrics.CodesPurged(n)
	if n > 0 {
		w.log.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("Purged expired personal codes")
	}
	return n, nil
}
