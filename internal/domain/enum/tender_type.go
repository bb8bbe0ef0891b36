package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// TenderType represents a payment instrument contribution. Discount is not a
// real instrument: it reduces the payable amount and must be OTP-approved.
type TenderType int

const (
	TenderTypeCash     TenderType = 0
	TenderTypeCard     TenderType = 1
	TenderTypeUPI      TenderType = 2
	TenderTypeDiscount TenderType = 3
)

func (t TenderType) String() string {
	names := [...]string{"Cash", "Card", "UPI", "Discount"}
	if int(t) < 0 || int(t) >= len(names) {
		return "Cash"
	}
	return names[t]
}

func (t TenderType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TenderType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = TenderType(i)
		return nil
	}
	switch str {
	case "Cash":
		*t = TenderTypeCash
	case "Card":
		*t = TenderTypeCard
	case "UPI":
		*t = TenderTypeUPI
	case "Discount":
		*t = TenderTypeDiscount
	}
	return nil
}

func (t TenderType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *TenderType) Scan(value interface{}) error {
	if value == nil {
		*t = TenderTypeCash
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = TenderType(v)
	case int:
		*t = TenderType(v)
	}
	return nil
}

// DiscountKind represents how a discount value is interpreted
type DiscountKind int

const (
	DiscountKindFlat    DiscountKind = 0
	DiscountKindPercent DiscountKind = 1
)

func (k DiscountKind) String() string {
	names := [...]string{"Flat", "Percent"}
	if int(k) < 0 || int(k) >= len(names) {
		return "Flat"
	}
	return names[k]
}

func (k DiscountKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *DiscountKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*k = DiscountKind(i)
		return nil
	}
	switch str {
	case "Flat":
		*k = DiscountKindFlat
	case "Percent":
		*k = DiscountKindPercent
	}
	return nil
}
