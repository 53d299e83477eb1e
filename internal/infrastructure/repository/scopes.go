package repository

import (
	"context"

	"gorm.io/gorm"
)

type ctxKey string

// TenantIDKey is the context key for the tenant (company) id
const TenantIDKey ctxKey = "tenant_id"

// TenantScope returns a GORM scope that filters by tenant. Queries without a
// tenant in ctx match nothing, so a missing header can never leak rows.
func TenantScope(ctx context.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		tenantID, ok := GetTenantID(ctx)
		if !ok {
			return db.Where("1 = 0")
		}
		return db.Where("tenant_id = ?", tenantID)
	}
}

// WithTenant adds tenant ID to context
func WithTenant(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, TenantIDKey, tenantID)
}

// GetTenantID extracts a non-empty tenant ID from context
func GetTenantID(ctx context.Context) (string, bool) {
	tenantID, ok := ctx.Value(TenantIDKey).(string)
	return tenantID, ok && tenantID != ""
}
