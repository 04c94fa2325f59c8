package enrich

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Dispatcher runs enrichment jobs detached from the submitting request.
// Submission never blocks on the model, and failures reach operators
// through the log only; the submitter already got its 201.
type Dispatcher struct {
	svc    *Service
	ttl    time.Duration
	logger *slog.Logger
}

// NewDispatcher creates a dispatcher with a per-job deadline.
func NewDispatcher(svc *Service, ttl time.Duration, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		svc:    svc,
		ttl:    ttl,
		logger: logger,
	}
}

// Dispatch starts an enrichment job in the background and returns its id
// immediately. The job gets a fresh context so it survives the HTTP
// request that spawned it, bounded by the configured deadline. One
// attempt only; a failed job is logged and dropped.
func (d *Dispatcher) Dispatch(req Request) string {
	jobID := uuid.NewString()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.ttl)
		defer cancel()

		start := time.Now()
		tagsCount, err := d.svc.Enrich(ctx, req)
		if err != nil {
			d.logger.Error("enrichment job failed",
				"job_id", jobID,
				"item_id", req.ItemID,
				"elapsed", time.Since(start),
				"error", err,
			)
			return
		}

		d.logger.Info("enrichment job finished",
			"job_id", jobID,
			"item_id", req.ItemID,
			"tags", tagsCount,
			"elapsed", time.Since(start),
		)
	}()

	return jobID
}
