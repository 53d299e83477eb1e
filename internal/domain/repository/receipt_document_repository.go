package repository

import (
	"context"

	"github.com/sangkips/gestion-api/internal/domain/entity"
	"github.com/sangkips/gestion-api/pkg/pagination"
)

// ReceiptDocumentFilterParams contains filtering parameters for the document archive
type ReceiptDocumentFilterParams struct {
	Pagination *pagination.PaginationParams
	ReceiptID  string
	Channel    string
}

// ReceiptDocumentRepository is the tenant-scoped archive of generated PDFs
type ReceiptDocumentRepository interface {
	Create(ctx context.Context, doc *entity.ReceiptDocument) error
	List(ctx context.Context, params *ReceiptDocumentFilterParams) ([]entity.ReceiptDocument, int64, error)
}
