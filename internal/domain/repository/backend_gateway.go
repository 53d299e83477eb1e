package repository

import (
	"context"

	"github.com/sangkips/gestion-api/internal/domain/entity"
)

// The REST backend owns receipts, products, clients and orders. These are the
// slices of it the services depend on; the tenant travels in ctx.

type ReceiptSource interface {
	GetReceipt(ctx context.Context, id string) (*entity.Receipt, error)
}

type CompanyDirectory interface {
	GetCompany(ctx context.Context) (*entity.CompanyInfo, error)
}

type ProductCatalog interface {
	GetProduct(ctx context.Context, id string) (*entity.Product, error)
}

type ClientDirectory interface {
	GetClient(ctx context.Context, id string) (*entity.Client, error)
}

type OrderSink interface {
	CreateOrder(ctx context.Context, order *entity.OrderPayload) (*entity.OrderRef, error)
}
