package orders

import (
	"github.com/marketa-app/admin-backend/pkg/enums"
	pkgerrors "github.com/marketa-app/admin-backend/pkg/errors"
)

// ValidStatusTransitions is the adjacency table for the legacy integer
// status scheme. Each current status maps to the explicit allow-list of
// next statuses; an empty list means the status is final.
var ValidStatusTransitions = map[enums.LegacyOrderStatus][]enums.LegacyOrderStatus{
	enums.LegacyStatusDraft: {
		enums.LegacyStatusPending,
		enums.LegacyStatusConfirmed,
		enums.LegacyStatusCancelled,
	},
	enums.LegacyStatusPending: {
		enums.LegacyStatusConfirmed,
		enums.LegacyStatusProcessing,
		enums.LegacyStatusCancelled,
		enums.LegacyStatusOnHold,
	},
	enums.LegacyStatusConfirmed: {
		enums.LegacyStatusProcessing,
		enums.LegacyStatusCancelled,
		enums.LegacyStatusOnHold,
	},
	enums.LegacyStatusProcessing: {
		enums.LegacyStatusShipped,
		enums.LegacyStatusCancelled,
		enums.LegacyStatusOnHold,
	},
	enums.LegacyStatusShipped: {
		enums.LegacyStatusDelivered,
		enums.LegacyStatusReturned,
	},
	enums.LegacyStatusDelivered: {
		enums.LegacyStatusCompleted,
		enums.LegacyStatusReturned,
	},
	enums.LegacyStatusOnHold: {
		enums.LegacyStatusConfirmed,
		enums.LegacyStatusProcessing,
		enums.LegacyStatusCancelled,
	},
	enums.LegacyStatusReturned: {
		enums.LegacyStatusRefunded,
	},
	enums.LegacyStatusCancelled: {
		enums.LegacyStatusRefunded,
	},
	enums.LegacyStatusRefunded:  {},
	enums.LegacyStatusCompleted: {},
}

// ValidateLegacyTransition checks the adjacency table and returns a
// state-conflict error naming both statuses when the move is not allowed.
func ValidateLegacyTransition(current, next enums.LegacyOrderStatus) error {
	if !next.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "unknown order status %d", int(next))
	}
	allowed, ok := ValidStatusTransitions[current]
	if !ok {
		return pkgerrors.Newf(pkgerrors.CodeStateConflict, "cannot transition from %s: unknown current status", current)
	}
	for _, candidate := range allowed {
		if candidate == next {
			return nil
		}
	}
	return pkgerrors.Newf(pkgerrors.CodeStateConflict, "cannot transition from %s to %s", current, next)
}
