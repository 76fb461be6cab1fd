package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/alumni-tracking-api/internal/models"
	"github.com/noah-isme/alumni-tracking-api/pkg/jobs"
	"github.com/noah-isme/alumni-tracking-api/pkg/middleware/requestid"
)

// AuditDispatcher writes audit entries off the request path.
type AuditDispatcher struct {
	queue  *jobs.Queue[*models.AuditLog]
	logger *zap.Logger
}

// NewAuditDispatcher wraps store with a background worker pool.
func NewAuditDispatcher(store auditLogger, workers int, logger *zap.Logger) *AuditDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	write := func(ctx context.Context, entry *models.AuditLog) error {
		writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return store.CreateAuditLog(writeCtx, entry)
	}
	queue := jobs.New("audit", write, jobs.Config{
		Workers:    workers,
		MaxRetries: 2,
		RetryDelay: 500 * time.Millisecond,
		Logger:     logger,
	})
	return &AuditDispatcher{queue: queue, logger: logger}
}

// Start launches the workers.
func (d *AuditDispatcher) Start(ctx context.Context) {
	d.queue.Start(ctx)
}

// Stop flushes pending entries until ctx expires.
func (d *AuditDispatcher) Stop(ctx context.Context) error {
	return d.queue.Stop(ctx)
}

// CreateAuditLog enqueues entry. The request context is not retained.
func (d *AuditDispatcher) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	if err := d.queue.Enqueue(entry); err != nil {
		d.logger.Warn("audit entry dropped",
			zap.String("action", entry.Action),
			zap.String("request_id", requestid.FromContext(ctx)),
			zap.Error(err),
		)
		return err
	}
	return nil
}
