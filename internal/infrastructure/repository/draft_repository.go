package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sangkips/gestion-api/internal/domain/entity"
	domainRepo "github.com/sangkips/gestion-api/internal/domain/repository"
)

const defaultDraftTTL = 2 * time.Hour

func draftKey(tenantID string, id uuid.UUID) string {
	return fmt.Sprintf("draft:%s:%s", tenantID, id)
}

type redisDraftRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisDraftRepository stores drafts as JSON. Every save pushes the expiry
// forward, so an abandoned drawer is cleaned up ttl after its last edit.
func NewRedisDraftRepository(rdb *redis.Client, ttl time.Duration) domainRepo.DraftRepository {
	if ttl <= 0 {
		ttl = defaultDraftTTL
	}
	return &redisDraftRepository{rdb: rdb, ttl: ttl}
}

func (r *redisDraftRepository) Get(ctx context.Context, tenantID string, id uuid.UUID) (*entity.OrderDraft, error) {
	raw, err := r.rdb.Get(ctx, draftKey(tenantID, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get draft %s: %w", id, err)
	}

	var draft entity.OrderDraft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return nil, fmt.Errorf("decode draft %s: %w", id, err)
	}
	return &draft, nil
}

func (r *redisDraftRepository) Save(ctx context.Context, draft *entity.OrderDraft) error {
	raw, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft %s: %w", draft.ID, err)
	}
	if err := r.rdb.Set(ctx, draftKey(draft.TenantID, draft.ID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("save draft %s: %w", draft.ID, err)
	}
	return nil
}

func (r *redisDraftRepository) Delete(ctx context.Context, tenantID string, id uuid.UUID) error {
	return r.rdb.Del(ctx, draftKey(tenantID, id)).Err()
}

type memoryDraft struct {
	payload   []byte
	expiresAt time.Time
}

type memoryDraftRepository struct {
	mu     sync.Mutex
	drafts map[string]memoryDraft
	ttl    time.Duration
	now    func() time.Time
}

// NewMemoryDraftRepository keeps drafts in process. Used when no Redis is
// configured; drafts do not survive a restart. Drafts are stored encoded so
// callers never share a slice with the store.
func NewMemoryDraftRepository(ttl time.Duration) domainRepo.DraftRepository {
	if ttl <= 0 {
		ttl = defaultDraftTTL
	}
	return &memoryDraftRepository{
		drafts: make(map[string]memoryDraft),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (r *memoryDraftRepository) Get(_ context.Context, tenantID string, id uuid.UUID) (*entity.OrderDraft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := draftKey(tenantID, id)
	stored, ok := r.drafts[key]
	if !ok {
		return nil, nil
	}
	if r.now().After(stored.expiresAt) {
		delete(r.drafts, key)
		return nil, nil
	}

	var draft entity.OrderDraft
	if err := json.Unmarshal(stored.payload, &draft); err != nil {
		return nil, fmt.Errorf("decode draft %s: %w", id, err)
	}
	return &draft, nil
}

func (r *memoryDraftRepository) Save(_ context.Context, draft *entity.OrderDraft) error {
	raw, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft %s: %w", draft.ID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.drafts[draftKey(draft.TenantID, draft.ID)] = memoryDraft{payload: raw, expiresAt: r.now().Add(r.ttl)}
	return nil
}

func (r *memoryDraftRepository) Delete(_ context.Context, tenantID string, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.drafts, draftKey(tenantID, id))
	return nil
}
