package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/rkstores/billing-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionDocument is the header record of a posted transaction. It is
// created together with its lines in one atomic commit and is immutable
// afterwards; only line-level returned quantities may be touched by a later
// return posting.
type TransactionDocument struct {
	ID             uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	TenantID       uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_tenant_document_number" json:"tenant_id"`
	DocumentNumber string            `gorm:"size:100;not null;uniqueIndex:idx_tenant_document_number" json:"document_number"`
	DocumentType   enum.DocumentType `gorm:"default:0;index" json:"document_type"`
	DocumentDate   time.Time         `gorm:"type:date;not null" json:"document_date"`

	// Counterparty reference, carried inline on the document
	PartyCode    string `gorm:"size:50;index" json:"party_code"`
	PartyName    string `gorm:"size:255" json:"party_name"`
	PartyPhone   string `gorm:"size:30" json:"party_phone"`
	PartyAddress string `gorm:"size:255" json:"party_address"`
	PartyCity    string `gorm:"size:100" json:"party_city"`
	PartyCountry string `gorm:"size:100" json:"party_country"`

	BaseAmount decimal.Decimal `gorm:"type:decimal(20,4)" json:"base_amount"`
	TaxAmount  decimal.Decimal `gorm:"type:decimal(20,4)" json:"tax_amount"`
	CgstAmount decimal.Decimal `gorm:"type:decimal(20,4)" json:"cgst_amount"`
	SgstAmount decimal.Decimal `gorm:"type:decimal(20,4)" json:"sgst_amount"`
	NetAmount  decimal.Decimal `gorm:"type:decimal(20,4)" json:"net_amount"`

	// Tender breakdown
	PayMode        string          `gorm:"size:100" json:"pay_mode"`
	CashAmount     decimal.Decimal `gorm:"type:decimal(20,4)" json:"cash_amount"`
	CardAmount     decimal.Decimal `gorm:"type:decimal(20,4)" json:"card_amount"`
	UpiAmount      decimal.Decimal `gorm:"type:decimal(20,4)" json:"upi_amount"`
	UpiDetails     []UpiDetail     `gorm:"type:jsonb;serializer:json" json:"upi_details,omitempty"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(20,4)" json:"discount_amount"`
	AdvanceAmount  decimal.Decimal `gorm:"type:decimal(20,4)" json:"advance_amount"`
	AdvanceLinked  bool            `gorm:"default:false" json:"advance_linked"`

	// Set when the number came from the degraded timestamp fallback rather
	// than the sequence allocator
	NonSequentialNumber bool `gorm:"default:false" json:"non_sequential_number"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Lines []TransactionLine `gorm:"foreignKey:DocumentID" json:"lines,omitempty"`
}

// BeforeCreate generates a UUID before creating a new document
func (d *TransactionDocument) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the TransactionDocument model
func (TransactionDocument) TableName() string {
	return "transaction_documents"
}

// UpiDetail is one UPI contribution recorded on the header breakdown
type UpiDetail struct {
	Method      string          `json:"method"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

// TransactionLine is one per-product detail row of a posted transaction
type TransactionLine struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantID       uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	DocumentID     uuid.UUID `gorm:"type:uuid;not null;index" json:"document_id"`
	DocumentNumber string    `gorm:"size:100;not null;index" json:"document_number"`

	ProductCode    string          `gorm:"size:50;not null;index" json:"product_code"`
	ProductName    string          `gorm:"size:255" json:"product_name"`
	Quantity       decimal.Decimal `gorm:"type:decimal(20,4)" json:"quantity"`
	Rate           decimal.Decimal `gorm:"type:decimal(20,4)" json:"rate"`
	BaseAmount     decimal.Decimal `gorm:"type:decimal(20,4)" json:"base_amount"`
	TaxRatePercent decimal.Decimal `gorm:"type:decimal(10,4)" json:"tax_rate_percent"`
	CgstAmount     decimal.Decimal `gorm:"type:decimal(20,4)" json:"cgst_amount"`
	SgstAmount     decimal.Decimal `gorm:"type:decimal(20,4)" json:"sgst_amount"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(20,4)" json:"total_amount"`
	Uom            string          `gorm:"size:20" json:"uom"`
	HsnCode        string          `gorm:"size:20" json:"hsn_code"`

	// Mutated only inside a later return posting's atomic commit
	ReturnedQty decimal.Decimal `gorm:"type:decimal(20,4)" json:"returned_qty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new line
func (l *TransactionLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the TransactionLine model
func (TransactionLine) TableName() string {
	return "transaction_lines"
}
