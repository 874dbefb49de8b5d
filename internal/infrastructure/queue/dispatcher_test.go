package queue

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/phonemart/marketplace-api/internal/core/domain"
)

type channelAuditRepo struct {
	inserted chan domain.AuditEntry
}

func (r *channelAuditRepo) Insert(_ context.Context, entry *domain.AuditEntry) error {
	r.inserted <- *entry
	return nil
}

func TestAuditDispatcher_DeliversEntries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := &channelAuditRepo{inserted: make(chan domain.AuditEntry, 16)}
	d := NewAuditDispatcher(2, repo, zerolog.Nop())
	d.Start(ctx)

	d.Enqueue(domain.AuditEntry{AdminID: "admin-1", Route: "/api/admin/users"})
	d.Enqueue(domain.AuditEntry{AdminID: "admin-2", Route: "/api/admin/phones"})

	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case entry := <-repo.inserted:
			seen[entry.AdminID] = true
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for entry %d", i)
		}
	}
	if !seen["admin-1"] || !seen["admin-2"] {
		t.Fatalf("missing entries: %v", seen)
	}
}

func TestAuditDispatcher_EnqueueDoesNotBlockAfterShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	repo := &channelAuditRepo{inserted: make(chan domain.AuditEntry, 1)}
	d := NewAuditDispatcher(1, repo, zerolog.Nop())
	d.Start(ctx)
	cancel()

	// With the worker gone, pushing well past the shard buffer capacity
	// must still return: entries are dropped once the buffer is full.
	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+8; i++ {
			d.Enqueue(domain.AuditEntry{AdminID: "admin-1", Route: "/api/admin/users"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Enqueue blocked after dispatcher shutdown")
	}
}
