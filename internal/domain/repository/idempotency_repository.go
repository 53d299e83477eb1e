package repository

import (
	"context"

	"github.com/sangkips/gestion-api/internal/domain/entity"
)

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// GetByKey returns nil, nil when the tenant never used the key
	GetByKey(ctx context.Context, key, tenantID string) (*entity.IdempotencyKey, error)
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	// DeleteExpired removes keys past their expiry and reports how many went
	DeleteExpired(ctx context.Context) (int64, error)
}
