package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/gestion-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Delivery channels recorded for a generated document
const (
	ChannelDownload = "download"
	ChannelEmail    = "email"
	ChannelPrint    = "print"
)

// ReceiptDocument records one generation of a receipt PDF. The bytes are not
// stored here; StoragePath points at the saved copy when copies are enabled.
type ReceiptDocument struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	TenantID      string             `gorm:"size:64;not null;index" json:"tenant_id"`
	ReceiptID     string             `gorm:"size:64;not null;index" json:"receipt_id"`
	ReceiptNumber int                `gorm:"not null" json:"receipt_number"`
	Type          enum.ReceiptType   `gorm:"size:20" json:"type"`
	Status        enum.ReceiptStatus `gorm:"size:20" json:"status"`
	Pages         int                `gorm:"not null" json:"pages"`
	SizeBytes     int                `gorm:"not null" json:"size_bytes"`
	Checksum      string             `gorm:"size:64;index" json:"checksum"`
	FileName      string             `gorm:"size:255" json:"file_name"`
	StoragePath   string             `gorm:"size:512" json:"storage_path,omitempty"`
	Channel       string             `gorm:"size:20" json:"channel"`
	CreatedAt     time.Time          `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a document record
func (d *ReceiptDocument) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ReceiptDocument model
func (ReceiptDocument) TableName() string {
	return "receipt_documents"
}
