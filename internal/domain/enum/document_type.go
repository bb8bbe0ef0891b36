package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// DocumentType represents the kind of posted transaction document
type DocumentType int

const (
	DocumentTypeSaleBill       DocumentType = 0
	DocumentTypePurchaseBill   DocumentType = 1
	DocumentTypeSaleOrder      DocumentType = 2
	DocumentTypePurchaseOrder  DocumentType = 3
	DocumentTypeSaleReturn     DocumentType = 4
	DocumentTypePurchaseReturn DocumentType = 5
)

func (d DocumentType) String() string {
	names := [...]string{"SaleBill", "PurchaseBill", "SaleOrder", "PurchaseOrder", "SaleReturn", "PurchaseReturn"}
	if int(d) < 0 || int(d) >= len(names) {
		return "SaleBill"
	}
	return names[d]
}

// Prefix returns the document number prefix for this type
func (d DocumentType) Prefix() string {
	prefixes := [...]string{"SB", "PB", "SO", "PO", "SR", "PR"}
	if int(d) < 0 || int(d) >= len(prefixes) {
		return "SB"
	}
	return prefixes[d]
}

// IsReturn reports whether documents of this type reference a prior document
// whose line quantities they give back.
func (d DocumentType) IsReturn() bool {
	return d == DocumentTypeSaleReturn || d == DocumentTypePurchaseReturn
}

func (d DocumentType) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *DocumentType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*d = DocumentType(i)
		return nil
	}
	switch str {
	case "SaleBill":
		*d = DocumentTypeSaleBill
	case "PurchaseBill":
		*d = DocumentTypePurchaseBill
	case "SaleOrder":
		*d = DocumentTypeSaleOrder
	case "PurchaseOrder":
		*d = DocumentTypePurchaseOrder
	case "SaleReturn":
		*d = DocumentTypeSaleReturn
	case "PurchaseReturn":
		*d = DocumentTypePurchaseReturn
	}
	return nil
}

func (d DocumentType) Value() (driver.Value, error) {
	return int64(d), nil
}

func (d *DocumentType) Scan(value interface{}) error {
	if value == nil {
		*d = DocumentTypeSaleBill
		return nil
	}
	switch v := value.(type) {
	case int64:
		*d = DocumentType(v)
	case int:
		*d = DocumentType(v)
	}
	return nil
}
