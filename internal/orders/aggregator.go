package orders

import (
	"github.com/marketa-app/admin-backend/pkg/db/models"
	"github.com/marketa-app/admin-backend/pkg/enums"
)

// AggregateItemStatus derives the order-level workflow status from the
// item rows. Rules:
//
//  1. Every item terminal and every item refunded: refunded.
//  2. Every item terminal otherwise (all cancelled or mixed): cancelled.
//  3. Otherwise the least progressed non-terminal status wins, that is
//     the lowest status_order. Equal status_order ties go to the item
//     with the lowest id.
//
// Items without a workflow status are skipped; when no item carries one
// the result is nil and the caller leaves the order untouched.
func AggregateItemStatus(items []models.OrderItem, statusesByID map[int64]models.OrderItemStatus) *models.OrderItemStatus {
	var (
		winner       *models.OrderItemStatus
		winnerItemID int64
		statused     int
		terminal     int
		refunded     int
		lastTerminal *models.OrderItemStatus
		cancelledDef *models.OrderItemStatus
		refundedDef  *models.OrderItemStatus
	)

	for _, def := range statusesByID {
		def := def
		switch def.StatusKey {
		case enums.WorkflowCancelled:
			cancelledDef = &def
		case enums.WorkflowRefunded:
			refundedDef = &def
		}
	}

	for _, item := range items {
		if item.WorkflowStatusID == nil {
			continue
		}
		def, ok := statusesByID[*item.WorkflowStatusID]
		if !ok {
			continue
		}
		statused++

		if def.IsTerminal {
			terminal++
			if def.StatusKey == enums.WorkflowRefunded {
				refunded++
			}
			lastTerminal = &def
			continue
		}

		if winner == nil ||
			def.StatusOrder < winner.StatusOrder ||
			(def.StatusOrder == winner.StatusOrder && item.ID < winnerItemID) {
			copied := def
			winner = &copied
			winnerItemID = item.ID
		}
	}

	if statused == 0 {
		return nil
	}

	if terminal == statused {
		if refunded == statused {
			if refundedDef != nil {
				return refundedDef
			}
			return lastTerminal
		}
		if cancelledDef != nil {
			return cancelledDef
		}
		return lastTerminal
	}

	return winner
}
