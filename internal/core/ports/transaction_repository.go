package ports

import (
	"context"
	"time"

	"github.com/phonemart/marketplace-api/internal/core/domain"
)

// TransactionRepository persists immutable checkout records.
type TransactionRepository interface {
	// Insert stores a transaction and returns its generated id.
	Insert(ctx context.Context, tx *domain.Transaction) (string, error)
	FindByBuyer(ctx context.Context, buyerID string) ([]domain.Transaction, error)
	// List returns transactions within [from, to]; zero bounds are open.
	List(ctx context.Context, from, to time.Time) ([]domain.Transaction, error)
}

// NotificationRepository is the append-only checkout event log. There are
// deliberately no update or delete operations.
type NotificationRepository interface {
	Insert(ctx context.Context, n *domain.Notification) error
	// List returns all notifications, newest first.
	List(ctx context.Context) ([]domain.Notification, error)
}

// AuditRepository stores admin action audit entries.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
}
