package request

import (
	"time"

	"github.com/rkstores/billing-api/internal/application/service"
	"github.com/rkstores/billing-api/internal/domain/entity"
	"github.com/rkstores/billing-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// PostTransactionRequest is the payload for posting a document
type PostTransactionRequest struct {
	Type              enum.DocumentType     `json:"type"`
	Date              string                `json:"date" binding:"required"` // YYYY-MM-DD
	Party             CounterpartyRequest   `json:"party" binding:"required"`
	Lines             []entity.LineItem     `json:"lines" binding:"required,min=1"`
	Tenders           []entity.PaymentEntry `json:"tenders" binding:"required,min=1"`
	AdvanceAmount     decimal.Decimal       `json:"advance_amount"`
	AdvanceLinked     bool                  `json:"advance_linked"`
	ExpectedTaxAmount *decimal.Decimal      `json:"expected_tax_amount,omitempty"`
}

// CounterpartyRequest identifies the customer or supplier on a document
type CounterpartyRequest struct {
	Code    string `json:"code" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// ToInput converts the request into a posting input
func (r *PostTransactionRequest) ToInput() (service.PostTransactionInput, error) {
	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return service.PostTransactionInput{}, err
	}
	return service.PostTransactionInput{
		Type: r.Type,
		Date: date,
		Party: service.Counterparty{
			Code:    r.Party.Code,
			Name:    r.Party.Name,
			Phone:   r.Party.Phone,
			Address: r.Party.Address,
			City:    r.Party.City,
			Country: r.Party.Country,
		},
		Lines:             r.Lines,
		Tenders:           r.Tenders,
		AdvanceAmount:     r.AdvanceAmount,
		AdvanceLinked:     r.AdvanceLinked,
		ExpectedTaxAmount: r.ExpectedTaxAmount,
	}, nil
}
