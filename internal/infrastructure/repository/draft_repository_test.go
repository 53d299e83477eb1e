package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sangkips/gestion-api/internal/domain/entity"
	"github.com/sangkips/gestion-api/internal/domain/enum"
	domainRepo "github.com/sangkips/gestion-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDraft(tenantID string) *entity.OrderDraft {
	d := entity.NewOrderDraft(tenantID, enum.PriceListRetail, time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC))
	d.Items = append(d.Items, entity.LineItem{
		ProductID: "p1", Name: "Yerba", Quantity: 2,
		ListPrice: decimal.RequireFromString("100.50"), DiscountPercent: decimal.NewFromInt(10),
	})
	d.GlobalDiscountPercent = decimal.NewFromInt(5)
	return d
}

func exerciseDraftRepository(t *testing.T, repo domainRepo.DraftRepository) {
	ctx := context.Background()
	draft := sampleDraft("acme")

	got, err := repo.Get(ctx, "acme", draft.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.Save(ctx, draft))

	got, err = repo.Get(ctx, "acme", draft.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, draft.ID, got.ID)
	assert.Equal(t, enum.PriceListRetail, got.PriceList)
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].ListPrice.Equal(decimal.RequireFromString("100.5")))
	assert.True(t, got.GlobalDiscountPercent.Equal(decimal.NewFromInt(5)))

	got.Items[0].Quantity = 99
	again, err := repo.Get(ctx, "acme", draft.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, again.Items[0].Quantity, "store is not aliased")

	foreign, err := repo.Get(ctx, "other", draft.ID)
	require.NoError(t, err)
	assert.Nil(t, foreign)

	require.NoError(t, repo.Delete(ctx, "acme", draft.ID))
	got, err = repo.Get(ctx, "acme", draft.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryDraftRepository(t *testing.T) {
	exerciseDraftRepository(t, NewMemoryDraftRepository(time.Hour))
}

func TestMemoryDraftRepositoryExpires(t *testing.T) {
	repo := NewMemoryDraftRepository(time.Minute).(*memoryDraftRepository)
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	draft := sampleDraft("acme")
	require.NoError(t, repo.Save(context.Background(), draft))

	now = now.Add(2 * time.Minute)
	got, err := repo.Get(context.Background(), "acme", draft.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Empty(t, repo.drafts)
}

func TestRedisDraftRepository(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opts)
	t.Cleanup(func() { _ = rdb.Close() })

	repo := NewRedisDraftRepository(rdb, time.Minute)
	exerciseDraftRepository(t, repo)

	draft := sampleDraft("acme")
	require.NoError(t, repo.Save(context.Background(), draft))
	ttl, err := rdb.TTL(context.Background(), draftKey("acme", draft.ID)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	require.NoError(t, repo.Delete(context.Background(), "acme", draft.ID))
}
