package entity

import (
	"github.com/rkstores/billing-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// LineItem is an ephemeral cart line. It is NOT a database entity — it lives
// in request scope and becomes a TransactionLine only at commit time.
type LineItem struct {
	ProductCode    string          `json:"product_code"`
	ProductName    string          `json:"product_name"`
	Quantity       decimal.Decimal `json:"quantity"` // signed; negative for returns
	Rate           decimal.Decimal `json:"rate"`     // tax-inclusive unit rate
	TaxRatePercent decimal.Decimal `json:"tax_rate_percent"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Uom            string          `json:"uom"`
	HsnCode        string          `json:"hsn_code"`

	// For return lines: the document whose line this quantity goes back to
	AgainstDocumentNumber string `json:"against_document_number,omitempty"`
}

// PaymentEntry is one tender contribution toward a document's outstanding
// amount. Exactly one of the detail variants matching Type must be set.
type PaymentEntry struct {
	Type   enum.TenderType `json:"type"`
	Amount decimal.Decimal `json:"amount"`

	Card     *CardDetails      `json:"card,omitempty"`
	Upi      *UpiTenderDetails `json:"upi,omitempty"`
	Discount *DiscountDetails  `json:"discount,omitempty"`
	Cash     *CashDetails      `json:"cash,omitempty"`
}

// CardDetails carries the card-specific fields of a Card tender
type CardDetails struct {
	LastFour   string `json:"last_four"`
	Expiry     string `json:"expiry"`
	HolderName string `json:"holder_name"`
}

// UpiTenderDetails carries the UPI-specific fields of a UPI tender
type UpiTenderDetails struct {
	App         string `json:"app"`
	Vpa         string `json:"vpa"`
	Description string `json:"description,omitempty"`
}

// DiscountDetails carries the discount-specific fields of a Discount entry.
// Value is a percentage for Percent kind (applied to the pre-tax base) and
// an absolute amount for Flat kind. AttemptID keys the OTP challenge that
// must be verified before the entry is admitted.
type DiscountDetails struct {
	Kind      enum.DiscountKind `json:"kind"`
	Value     decimal.Decimal   `json:"value"`
	AttemptID string            `json:"attempt_id"`
}

// CashDetails carries the optional note of a Cash tender
type CashDetails struct {
	Note string `json:"note,omitempty"`
}
