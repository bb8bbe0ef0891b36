package service

import (
	"fmt"
	"strings"

	"github.com/rkstores/billing-api/internal/domain/entity"
	"github.com/rkstores/billing-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// TenderLedger accumulates payment entries against a document's outstanding
// amount. It is ephemeral request state: entries only reach the store when
// the ledger's transaction is committed. The ledger never admits an entry
// that would push the running total past the outstanding amount.
type TenderLedger struct {
	outstanding decimal.Decimal
	baseAmount  decimal.Decimal
	entries     []entity.PaymentEntry
	consumed    []string
}

// NewTenderLedger creates a ledger bound to an outstanding (tax-inclusive)
// amount. baseAmount is the pre-tax base used for percentage discounts.
func NewTenderLedger(outstanding, baseAmount decimal.Decimal) *TenderLedger {
	return &TenderLedger{
		outstanding: outstanding,
		baseAmount:  baseAmount,
	}
}

// AddEntry validates and admits a Cash, Card or UPI entry. Discount entries
// must go through AddDiscount so their OTP authorization is enforced.
func (l *TenderLedger) AddEntry(e entity.PaymentEntry) error {
	if e.Type == enum.TenderTypeDiscount {
		return ErrAuthorizationRequired
	}
	if err := validateDetails(e); err != nil {
		return err
	}
	return l.admit(e)
}

// AddDiscount admits a Discount entry under a verified, unconsumed OTP
// authorization. The entry amount is derived from the discount details:
// percentage discounts apply to the pre-tax base, never the inclusive total.
func (l *TenderLedger) AddDiscount(e entity.PaymentEntry, auth *DiscountAuthorization) error {
	if e.Type != enum.TenderTypeDiscount || e.Discount == nil {
		return ErrInvalidDetails
	}

	if e.Discount.Kind == enum.DiscountKindPercent {
		e.Amount = l.baseAmount.Mul(e.Discount.Value).Div(decimalHundred)
	} else {
		e.Amount = e.Discount.Value
	}

	if auth == nil || auth.AttemptID() != e.Discount.AttemptID {
		return ErrAuthorizationRequired
	}
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if l.wouldExceed(e.Amount) {
		return ErrAmountExceeded
	}

	// Consume only after every other check passed: a rejected entry must
	// leave the authorization reusable for a corrected retry.
	if err := auth.Consume(); err != nil {
		return err
	}

	l.entries = append(l.entries, e)
	l.consumed = append(l.consumed, auth.AttemptID())
	return nil
}

// RemoveEntry removes the entry at index
func (l *TenderLedger) RemoveEntry(index int) error {
	if index < 0 || index >= len(l.entries) {
		return fmt.Errorf("no tender entry at index %d", index)
	}
	removed := l.entries[index]
	l.entries = append(l.entries[:index], l.entries[index+1:]...)
	if removed.Type == enum.TenderTypeDiscount && removed.Discount != nil {
		for i, id := range l.consumed {
			if id == removed.Discount.AttemptID {
				l.consumed = append(l.consumed[:i], l.consumed[i+1:]...)
				break
			}
		}
	}
	return nil
}

// TotalPaid returns the sum of all admitted entry amounts
func (l *TenderLedger) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, e := range l.entries {
		total = total.Add(e.Amount)
	}
	return total
}

// Remaining returns the outstanding amount not yet covered, floored at zero
func (l *TenderLedger) Remaining() decimal.Decimal {
	remaining := l.outstanding.Sub(l.TotalPaid())
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// Entries returns a copy of the admitted entries
func (l *TenderLedger) Entries() []entity.PaymentEntry {
	out := make([]entity.PaymentEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// ConsumedAttempts returns the OTP attempt ids of admitted discounts. They
// are marked consumed in the store inside the posting commit.
func (l *TenderLedger) ConsumedAttempts() []string {
	out := make([]string, len(l.consumed))
	copy(out, l.consumed)
	return out
}

// TenderBreakdown is the per-instrument summary recorded on the header
type TenderBreakdown struct {
	CashAmount     decimal.Decimal
	CardAmount     decimal.Decimal
	UpiAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	UpiDetails     []entity.UpiDetail
	PayMode        string
}

// Breakdown summarizes the admitted entries by tender type
func (l *TenderLedger) Breakdown() TenderBreakdown {
	bd := TenderBreakdown{
		CashAmount:     decimal.Zero,
		CardAmount:     decimal.Zero,
		UpiAmount:      decimal.Zero,
		DiscountAmount: decimal.Zero,
	}

	var modes []string
	seen := make(map[enum.TenderType]bool)

	for _, e := range l.entries {
		switch e.Type {
		case enum.TenderTypeCash:
			bd.CashAmount = bd.CashAmount.Add(e.Amount)
		case enum.TenderTypeCard:
			bd.CardAmount = bd.CardAmount.Add(e.Amount)
		case enum.TenderTypeUPI:
			bd.UpiAmount = bd.UpiAmount.Add(e.Amount)
			detail := entity.UpiDetail{Amount: e.Amount}
			if e.Upi != nil {
				detail.Method = e.Upi.App
				detail.Description = e.Upi.Description
			}
			bd.UpiDetails = append(bd.UpiDetails, detail)
		case enum.TenderTypeDiscount:
			bd.DiscountAmount = bd.DiscountAmount.Add(e.Amount)
		}
		if !seen[e.Type] {
			seen[e.Type] = true
			modes = append(modes, e.Type.String())
		}
	}

	bd.PayMode = strings.Join(modes, ",")
	return bd
}

// wouldExceed checks the outstanding invariant within the money epsilon
func (l *TenderLedger) wouldExceed(amount decimal.Decimal) bool {
	return l.TotalPaid().Add(amount).GreaterThan(l.outstanding.Add(moneyEpsilon))
}

func (l *TenderLedger) admit(e entity.PaymentEntry) error {
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if l.wouldExceed(e.Amount) {
		return ErrAmountExceeded
	}
	l.entries = append(l.entries, e)
	return nil
}

func validateDetails(e entity.PaymentEntry) error {
	switch e.Type {
	case enum.TenderTypeCard:
		if e.Card == nil || len(e.Card.LastFour) != 4 || e.Card.HolderName == "" {
			return ErrInvalidDetails
		}
	case enum.TenderTypeUPI:
		if e.Upi == nil || e.Upi.App == "" || e.Upi.Vpa == "" {
			return ErrInvalidDetails
		}
	case enum.TenderTypeCash:
		// cash note is optional
	default:
		return ErrInvalidDetails
	}
	return nil
}
