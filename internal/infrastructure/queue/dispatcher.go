package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/phonemart/marketplace-api/internal/core/domain"
	"github.com/phonemart/marketplace-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// AuditDispatcher writes admin audit entries asynchronously so moderation
// requests never wait on the audit collection. Entries are sharded by admin
// id, keeping each admin's trail in request order.
type AuditDispatcher struct {
	workers []chan domain.AuditEntry
	audits  ports.AuditRepository
	done    <-chan struct{}
	log     zerolog.Logger
}

// NewAuditDispatcher creates an AuditDispatcher with numWorkers sharded
// workers. If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, audits ports.AuditRepository, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.AuditEntry, numWorkers),
		audits:  audits,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEntry, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
// Entries must not be enqueued before Start.
func (d *AuditDispatcher) Start(ctx context.Context) {
	d.done = ctx.Done()
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands an entry to the worker responsible for its admin id.
// The call is non-blocking up to channelBuffer capacity. Once the
// dispatcher's context is cancelled the workers no longer drain, so the
// entry is dropped and logged instead of blocking the request goroutine.
func (d *AuditDispatcher) Enqueue(entry domain.AuditEntry) {
	select {
	case d.workers[d.shardIndex(entry.AdminID)] <- entry:
	case <-d.done:
		d.log.Warn().
			Str("admin_id", entry.AdminID).
			Str("route", entry.Route).
			Msg("audit entry dropped, dispatcher stopped")
	}
}

// shardIndex maps an admin id deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(adminID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(adminID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEntry) {
	for {
		select {
		case <-ctx.Done():
			return
		case entry, ok := <-ch:
			if !ok {
				return
			}
			if err := d.audits.Insert(ctx, &entry); err != nil {
				d.log.Error().Err(err).
					Str("admin_id", entry.AdminID).
					Str("route", entry.Route).
					Int("worker_id", id).
					Msg("audit write failed")
			}
		}
	}
}
