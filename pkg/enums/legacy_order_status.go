package enums

import "fmt"

// LegacyOrderStatus is the original integer-coded order status scheme.
// It survives on rows written before the workflow_status lookup table
// existed and on the handful of admin screens that still post numeric
// codes. New write paths should go through WorkflowStatusKey.
type LegacyOrderStatus int

const (
	LegacyStatusDraft      LegacyOrderStatus = 0
	LegacyStatusConfirmed  LegacyOrderStatus = 1
	LegacyStatusProcessing LegacyOrderStatus = 2
	LegacyStatusShipped    LegacyOrderStatus = 3
	LegacyStatusDelivered  LegacyOrderStatus = 4
	LegacyStatusCancelled  LegacyOrderStatus = 5
	LegacyStatusRefunded   LegacyOrderStatus = 6
	LegacyStatusOnHold     LegacyOrderStatus = 7
	LegacyStatusReturned   LegacyOrderStatus = 8
	LegacyStatusPending    LegacyOrderStatus = 9
	LegacyStatusCompleted  LegacyOrderStatus = 10
)

var legacyStatusLabels = map[LegacyOrderStatus]string{
	LegacyStatusDraft:      "draft",
	LegacyStatusConfirmed:  "confirmed",
	LegacyStatusProcessing: "processing",
	LegacyStatusShipped:    "shipped",
	LegacyStatusDelivered:  "delivered",
	LegacyStatusCancelled:  "cancelled",
	LegacyStatusRefunded:   "refunded",
	LegacyStatusOnHold:     "on_hold",
	LegacyStatusReturned:   "returned",
	LegacyStatusPending:    "pending",
	LegacyStatusCompleted:  "completed",
}

// String implements fmt.Stringer.
func (s LegacyOrderStatus) String() string {
	if label, ok := legacyStatusLabels[s]; ok {
		return label
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// IsValid reports whether the value is a known legacy status code.
func (s LegacyOrderStatus) IsValid() bool {
	_, ok := legacyStatusLabels[s]
	return ok
}

// IsTerminal reports whether the legacy code ends the order lifecycle.
func (s LegacyOrderStatus) IsTerminal() bool {
	switch s {
	case LegacyStatusRefunded, LegacyStatusCompleted:
		return true
	default:
		return false
	}
}

// ParseLegacyOrderStatus converts a raw integer into a LegacyOrderStatus.
func ParseLegacyOrderStatus(value int) (LegacyOrderStatus, error) {
	status := LegacyOrderStatus(value)
	if !status.IsValid() {
		return 0, fmt.Errorf("invalid legacy order status %d", value)
	}
	return status, nil
}
