package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/gestion-api/internal/domain/entity"
)

// DraftRepository holds order drafts for the lifetime of an editing session.
// Drafts are keyed by tenant so one company can never load another's cart.
type DraftRepository interface {
	// Get returns nil, nil for an unknown or expired draft
	Get(ctx context.Context, tenantID string, id uuid.UUID) (*entity.OrderDraft, error)
	Save(ctx context.Context, draft *entity.OrderDraft) error
	Delete(ctx context.Context, tenantID string, id uuid.UUID) error
}
