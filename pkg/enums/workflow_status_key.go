package enums

import "fmt"

// WorkflowStatusKey names a step in the order-item pipeline. The full
// status definition (label, ordering, terminality) lives in the
// order_item_statuses lookup table; the keys here are the stable
// identifiers the API accepts.
type WorkflowStatusKey string

const (
	WorkflowProcessing          WorkflowStatusKey = "processing"
	WorkflowOrdered             WorkflowStatusKey = "ordered"
	WorkflowShippedToWarehouse  WorkflowStatusKey = "shipped_to_wh"
	WorkflowReceivedToWarehouse WorkflowStatusKey = "received_to_wh"
	WorkflowShippedToLebanon    WorkflowStatusKey = "shipped_to_leb"
	WorkflowReceivedToLebanon   WorkflowStatusKey = "received_to_leb"
	WorkflowDeliveredToCustomer WorkflowStatusKey = "delivered_to_customer"
	WorkflowCancelled           WorkflowStatusKey = "cancelled"
	WorkflowRefunded            WorkflowStatusKey = "refunded"
)

// TerminalStatusOrderFloor is the status_order value from which statuses
// are terminal by convention.
const TerminalStatusOrderFloor = 90

var validWorkflowStatusKeys = []WorkflowStatusKey{
	WorkflowProcessing,
	WorkflowOrdered,
	WorkflowShippedToWarehouse,
	WorkflowReceivedToWarehouse,
	WorkflowShippedToLebanon,
	WorkflowReceivedToLebanon,
	WorkflowDeliveredToCustomer,
	WorkflowCancelled,
	WorkflowRefunded,
}

// String implements fmt.Stringer.
func (k WorkflowStatusKey) String() string {
	return string(k)
}

// IsValid reports whether the value is a known WorkflowStatusKey.
func (k WorkflowStatusKey) IsValid() bool {
	for _, candidate := range validWorkflowStatusKeys {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseWorkflowStatusKey converts raw input into a WorkflowStatusKey.
func ParseWorkflowStatusKey(value string) (WorkflowStatusKey, error) {
	for _, candidate := range validWorkflowStatusKeys {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid workflow status key %q", value)
}
