package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rkstores/billing-api/internal/domain/entity"
	"github.com/rkstores/billing-api/internal/domain/enum"
	"github.com/rkstores/billing-api/internal/domain/repository"
	"github.com/rkstores/billing-api/pkg/apperror"
	"github.com/rkstores/billing-api/pkg/notify"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Counterparty identifies the customer or supplier on a document
type Counterparty struct {
	Code    string
	Name    string
	Phone   string
	Address string
	City    string
	Country string
}

// PostTransactionInput is everything needed to post one document
type PostTransactionInput struct {
	Type              enum.DocumentType
	Date              time.Time
	Party             Counterparty
	Lines             []entity.LineItem
	Tenders           []entity.PaymentEntry
	AdvanceAmount     decimal.Decimal
	AdvanceLinked     bool
	ExpectedTaxAmount *decimal.Decimal
}

// PostingService turns a cart and its tenders into a committed document:
// one header, its lines, the notification outbox row and the return-quantity
// updates on prior documents, all inside a single database transaction.
type PostingService struct {
	transactions repository.TransactionRepository
	numbering    *NumberingService
	discounts    *DiscountService
	log          *logrus.Logger
}

// NewPostingService creates a new posting coordinator
func NewPostingService(transactions repository.TransactionRepository, numbering *NumberingService, discounts *DiscountService, log *logrus.Logger) *PostingService {
	return &PostingService{
		transactions: transactions,
		numbering:    numbering,
		discounts:    discounts,
		log:          log,
	}
}

// Post validates, prices and commits a document for the given tenant.
// Nothing is persisted when any step fails.
func (s *PostingService) Post(ctx context.Context, tenant *entity.Tenant, input PostTransactionInput) (*entity.TransactionDocument, error) {
	if len(input.Lines) == 0 {
		return nil, fmt.Errorf("%w: document has no lines", ErrInvalidDetails)
	}

	lines, totals, err := s.buildLines(input)
	if err != nil {
		return nil, err
	}

	taxAmount := ReconcileTax(s.log, totals.tax, input.ExpectedTaxAmount)
	netAmount := RoundMoney(totals.gross)

	ledger, err := s.settle(ctx, netAmount, totals.base, input)
	if err != nil {
		return nil, err
	}
	breakdown := ledger.Breakdown()

	number, err := s.numbering.Generate(ctx, input.Type)
	if err != nil {
		return nil, err
	}

	header := &entity.TransactionDocument{
		TenantID:            tenant.ID,
		DocumentNumber:      number.Value,
		DocumentType:        input.Type,
		DocumentDate:        input.Date,
		PartyCode:           input.Party.Code,
		PartyName:           input.Party.Name,
		PartyPhone:          input.Party.Phone,
		PartyAddress:        input.Party.Address,
		PartyCity:           input.Party.City,
		PartyCountry:        input.Party.Country,
		BaseAmount:          RoundMoney(totals.base),
		TaxAmount:           RoundMoney(taxAmount),
		CgstAmount:          RoundMoney(totals.cgst),
		SgstAmount:          RoundMoney(totals.sgst),
		NetAmount:           netAmount,
		PayMode:             breakdown.PayMode,
		CashAmount:          breakdown.CashAmount,
		CardAmount:          breakdown.CardAmount,
		UpiAmount:           breakdown.UpiAmount,
		UpiDetails:          breakdown.UpiDetails,
		DiscountAmount:      breakdown.DiscountAmount,
		AdvanceAmount:       input.AdvanceAmount,
		AdvanceLinked:       input.AdvanceLinked,
		NonSequentialNumber: number.Degraded,
	}

	for i := range lines {
		lines[i].TenantID = tenant.ID
		lines[i].DocumentNumber = number.Value
	}

	commit := &repository.TransactionCommit{
		Header:          header,
		Lines:           lines,
		PriorReturns:    returnUpdates(input),
		ConsumeAttempts: ledger.ConsumedAttempts(),
	}

	if tenant.Settings.NotifyCustomer && input.Party.Phone != "" {
		commit.Outbox = s.buildOutbox(tenant, header, lines)
	}

	if err := s.transactions.Commit(ctx, commit); err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.NewPostingError("failed to post document: " + err.Error())
	}

	s.log.WithFields(logrus.Fields{
		"module":   "posting",
		"document": number.Value,
		"type":     input.Type.String(),
		"net":      netAmount.String(),
	}).Info("document posted")

	return header, nil
}

type lineTotals struct {
	base  decimal.Decimal
	tax   decimal.Decimal
	cgst  decimal.Decimal
	sgst  decimal.Decimal
	gross decimal.Decimal
}

func (s *PostingService) buildLines(input PostTransactionInput) ([]entity.TransactionLine, lineTotals, error) {
	var totals lineTotals
	lines := make([]entity.TransactionLine, 0, len(input.Lines))

	for _, item := range input.Lines {
		if item.Quantity.IsZero() {
			return nil, totals, fmt.Errorf("%w: zero quantity for %s", ErrInvalidAmount, item.ProductCode)
		}
		if input.Type.IsReturn() && item.Quantity.IsPositive() {
			return nil, totals, fmt.Errorf("%w: return line for %s must have negative quantity", ErrInvalidDetails, item.ProductCode)
		}

		gross := item.Rate.Mul(item.Quantity).Sub(item.DiscountAmount)
		breakdown := DecomposeAmount(gross, item.TaxRatePercent)

		lines = append(lines, entity.TransactionLine{
			ProductCode:    item.ProductCode,
			ProductName:    item.ProductName,
			Quantity:       item.Quantity,
			Rate:           item.Rate,
			BaseAmount:     RoundMoney(breakdown.BaseAmount),
			TaxRatePercent: item.TaxRatePercent,
			CgstAmount:     RoundMoney(breakdown.CgstAmount),
			SgstAmount:     RoundMoney(breakdown.SgstAmount),
			TotalAmount:    RoundMoney(gross),
			Uom:            item.Uom,
			HsnCode:        item.HsnCode,
		})

		totals.base = totals.base.Add(breakdown.BaseAmount)
		totals.tax = totals.tax.Add(breakdown.TaxAmount)
		totals.cgst = totals.cgst.Add(breakdown.CgstAmount)
		totals.sgst = totals.sgst.Add(breakdown.SgstAmount)
		totals.gross = totals.gross.Add(gross)
	}

	return lines, totals, nil
}

// settle replays the tenders through a ledger against the outstanding
// amount. Discount tenders need a verified authorization for their attempt.
func (s *PostingService) settle(ctx context.Context, netAmount, baseAmount decimal.Decimal, input PostTransactionInput) (*TenderLedger, error) {
	outstanding := netAmount.Sub(input.AdvanceAmount)
	if input.Type.IsReturn() {
		outstanding = outstanding.Abs()
	}

	ledger := NewTenderLedger(outstanding, baseAmount.Abs())
	for _, tender := range input.Tenders {
		if tender.Type == enum.TenderTypeDiscount {
			if tender.Discount == nil || tender.Discount.AttemptID == "" {
				return nil, ErrAuthorizationRequired
			}
			auth, err := s.discounts.Authorization(ctx, tender.Discount.AttemptID)
			if err != nil {
				return nil, err
			}
			if err := ledger.AddDiscount(tender, auth); err != nil {
				return nil, err
			}
			continue
		}
		if err := ledger.AddEntry(tender); err != nil {
			return nil, err
		}
	}

	if remaining := ledger.Remaining(); remaining.GreaterThan(moneyEpsilon) {
		return nil, fmt.Errorf("%w: %s short of outstanding", ErrInvalidAmount, remaining.String())
	}

	return ledger, nil
}

func returnUpdates(input PostTransactionInput) []repository.ReturnedQtyUpdate {
	if !input.Type.IsReturn() {
		return nil
	}
	updates := make([]repository.ReturnedQtyUpdate, 0, len(input.Lines))
	for _, item := range input.Lines {
		if item.AgainstDocumentNumber == "" {
			continue
		}
		updates = append(updates, repository.ReturnedQtyUpdate{
			DocumentNumber: item.AgainstDocumentNumber,
			ProductCode:    item.ProductCode,
			Quantity:       item.Quantity.Abs(),
		})
	}
	return updates
}

func (s *PostingService) buildOutbox(tenant *entity.Tenant, header *entity.TransactionDocument, lines []entity.TransactionLine) *entity.NotificationOutbox {
	items := make([]string, 0, len(lines))
	for _, line := range lines {
		items = append(items, fmt.Sprintf("%s x%s = %s", line.ProductName, line.Quantity.String(), line.TotalAmount.String()))
	}
	return &entity.NotificationOutbox{
		TenantID:       tenant.ID,
		DocumentNumber: header.DocumentNumber,
		Phone:          header.PartyPhone,
		Message:        notify.FormatReceiptMessage(tenant.Settings.StoreName, header.DocumentNumber, header.NetAmount.String(), items),
		Status:         enum.OutboxStatusPending,
	}
}
