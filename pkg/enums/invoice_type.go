package enums

import "fmt"

// InvoiceType distinguishes the documents that can be generated per order.
// An order carries at most one invoice of each type.
type InvoiceType string

const (
	InvoiceTypeProforma   InvoiceType = "proforma"
	InvoiceTypeCommercial InvoiceType = "commercial"
	InvoiceTypeCreditNote InvoiceType = "credit_note"
)

var validInvoiceTypes = []InvoiceType{
	InvoiceTypeProforma,
	InvoiceTypeCommercial,
	InvoiceTypeCreditNote,
}

// String implements fmt.Stringer.
func (i InvoiceType) String() string {
	return string(i)
}

// IsValid reports whether the value is a known InvoiceType.
func (i InvoiceType) IsValid() bool {
	for _, candidate := range validInvoiceTypes {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseInvoiceType converts raw input into an InvoiceType.
func ParseInvoiceType(value string) (InvoiceType, error) {
	for _, candidate := range validInvoiceTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid invoice type %q", value)
}
