package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketa-app/admin-backend/pkg/db/models"
	"github.com/marketa-app/admin-backend/pkg/enums"
)

func workflowStatusFixtures() map[int64]models.OrderItemStatus {
	return map[int64]models.OrderItemStatus{
		1: {ID: 1, StatusKey: enums.WorkflowProcessing, StatusLabel: "Processing", StatusOrder: 10},
		2: {ID: 2, StatusKey: enums.WorkflowOrdered, StatusLabel: "Ordered", StatusOrder: 20},
		3: {ID: 3, StatusKey: enums.WorkflowShippedToWarehouse, StatusLabel: "Shipped to Warehouse", StatusOrder: 30},
		7: {ID: 7, StatusKey: enums.WorkflowDeliveredToCustomer, StatusLabel: "Delivered", StatusOrder: 70, IsTerminal: true},
		8: {ID: 8, StatusKey: enums.WorkflowCancelled, StatusLabel: "Cancelled", StatusOrder: 90, IsTerminal: true},
		9: {ID: 9, StatusKey: enums.WorkflowRefunded, StatusLabel: "Refunded", StatusOrder: 95, IsTerminal: true},
	}
}

func itemWithStatus(itemID, statusID int64) models.OrderItem {
	return models.OrderItem{ID: itemID, WorkflowStatusID: &statusID}
}

func TestAggregateLeastProgressedNonTerminalWins(t *testing.T) {
	items := []models.OrderItem{
		itemWithStatus(1, 2), // ordered
		itemWithStatus(2, 3), // shipped_to_wh
	}

	winner := AggregateItemStatus(items, workflowStatusFixtures())
	require.NotNil(t, winner)
	assert.Equal(t, enums.WorkflowOrdered, winner.StatusKey)
}

func TestAggregateMixedTerminalIsCancelled(t *testing.T) {
	items := []models.OrderItem{
		itemWithStatus(1, 8), // cancelled
		itemWithStatus(2, 9), // refunded
	}

	winner := AggregateItemStatus(items, workflowStatusFixtures())
	require.NotNil(t, winner)
	assert.Equal(t, enums.WorkflowCancelled, winner.StatusKey)
}

func TestAggregateAllRefundedIsRefunded(t *testing.T) {
	items := []models.OrderItem{
		itemWithStatus(1, 9),
		itemWithStatus(2, 9),
	}

	winner := AggregateItemStatus(items, workflowStatusFixtures())
	require.NotNil(t, winner)
	assert.Equal(t, enums.WorkflowRefunded, winner.StatusKey)
}

func TestAggregateTerminalItemsDoNotOutrankNonTerminal(t *testing.T) {
	items := []models.OrderItem{
		itemWithStatus(1, 8), // cancelled
		itemWithStatus(2, 1), // processing
	}

	winner := AggregateItemStatus(items, workflowStatusFixtures())
	require.NotNil(t, winner)
	assert.Equal(t, enums.WorkflowProcessing, winner.StatusKey)
}

func TestAggregateTieBreaksOnLowestItemID(t *testing.T) {
	// Two distinct statuses sharing a status_order: the status carried
	// by the lowest item id must win regardless of slice order.
	statuses := map[int64]models.OrderItemStatus{
		2: {ID: 2, StatusKey: enums.WorkflowOrdered, StatusOrder: 20},
		5: {ID: 5, StatusKey: enums.WorkflowShippedToLebanon, StatusOrder: 20},
	}
	items := []models.OrderItem{
		itemWithStatus(7, 5),
		itemWithStatus(3, 2),
	}

	winner := AggregateItemStatus(items, statuses)
	require.NotNil(t, winner)
	assert.Equal(t, enums.WorkflowOrdered, winner.StatusKey, "the status on item 3 should win the tie")
}

func TestAggregateSkipsUnstatusedItems(t *testing.T) {
	items := []models.OrderItem{
		{ID: 1},
		itemWithStatus(2, 3),
	}

	winner := AggregateItemStatus(items, workflowStatusFixtures())
	require.NotNil(t, winner)
	assert.Equal(t, enums.WorkflowShippedToWarehouse, winner.StatusKey)
}

func TestAggregateNoStatusedItems(t *testing.T) {
	items := []models.OrderItem{{ID: 1}, {ID: 2}}
	assert.Nil(t, AggregateItemStatus(items, workflowStatusFixtures()))
}

func TestAggregateIsIdempotent(t *testing.T) {
	items := []models.OrderItem{
		itemWithStatus(1, 2),
		itemWithStatus(2, 7),
	}

	first := AggregateItemStatus(items, workflowStatusFixtures())
	second := AggregateItemStatus(items, workflowStatusFixtures())
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first.StatusKey, second.StatusKey)
}
