package repository

import (
	"context"

	"github.com/sangkips/gestion-api/internal/domain/entity"
	domainRepo "github.com/sangkips/gestion-api/internal/domain/repository"
	"github.com/sangkips/gestion-api/pkg/pagination"
	"gorm.io/gorm"
)

type receiptDocumentRepository struct {
	db *gorm.DB
}

// NewReceiptDocumentRepository creates the archive of generated receipt PDFs
func NewReceiptDocumentRepository(db *gorm.DB) domainRepo.ReceiptDocumentRepository {
	return &receiptDocumentRepository{db: db}
}

func (r *receiptDocumentRepository) Create(ctx context.Context, doc *entity.ReceiptDocument) error {
	if doc.TenantID == "" {
		if tenantID, ok := GetTenantID(ctx); ok {
			doc.TenantID = tenantID
		}
	}
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *receiptDocumentRepository) List(ctx context.Context, params *domainRepo.ReceiptDocumentFilterParams) ([]entity.ReceiptDocument, int64, error) {
	var docs []entity.ReceiptDocument
	var total int64

	if params == nil {
		params = &domainRepo.ReceiptDocumentFilterParams{}
	}
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}

	query := r.db.WithContext(ctx).Model(&entity.ReceiptDocument{}).Scopes(TenantScope(ctx))
	if params.ReceiptID != "" {
		query = query.Where("receipt_id = ?", params.ReceiptID)
	}
	if params.Channel != "" {
		query = query.Where("channel = ?", params.Channel)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(pagination.Scope(params.Pagination)).
		Order("created_at DESC").
		Find(&docs).Error

	return docs, total, err
}
