package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItems() []PickListItem {
	return []PickListItem{
		{OrderID: "ORD-1", SKU: "SKU-C", Quantity: 2, Location: PickLocation{LocationID: "C3-01", Zone: "B", Aisle: "3"}},
		{OrderID: "ORD-1", SKU: "SKU-A", Quantity: 5, Location: PickLocation{LocationID: "A1-01", Zone: "A", Aisle: "1"}},
		{OrderID: "ORD-2", SKU: "SKU-B", Quantity: 1, Location: PickLocation{LocationID: "A2-05", Zone: "A", Aisle: "2"}},
	}
}

// TestNewPickList tests generation and sequencing
func TestNewPickList(t *testing.T) {
	t.Run("sequences items by zone aisle location", func(t *testing.T) {
		pl, err := NewPickList("WH-001", "CMP-001", StrategyBatch, "", testItems())
		require.NoError(t, err)

		assert.Equal(t, StatusPending, pl.Status)
		assert.Equal(t, "CMP-001", pl.CompanyID)
		assert.Equal(t, []string{"ORD-1", "ORD-2"}, pl.OrderIDs)
		require.Len(t, pl.Items, 3)
		assert.Equal(t, "SKU-A", pl.Items[0].SKU)
		assert.Equal(t, 1, pl.Items[0].Sequence)
		assert.Equal(t, "SKU-B", pl.Items[1].SKU)
		assert.Equal(t, "SKU-C", pl.Items[2].SKU)
		assert.Equal(t, 3, pl.Items[2].Sequence)

		require.Len(t, pl.DomainEvents, 1)
		assert.Equal(t, "PickListGenerated", pl.DomainEvents[0].EventType())
	})

	t.Run("rejects empty pick list", func(t *testing.T) {
		_, err := NewPickList("WH-001", "CMP-001", StrategyBatch, "", nil)
		assert.ErrorIs(t, err, ErrNoItems)
	})

	t.Run("rejects missing company", func(t *testing.T) {
		_, err := NewPickList("WH-001", "", StrategyBatch, "", testItems())
		assert.Error(t, err)
	})

	t.Run("rejects unknown strategy", func(t *testing.T) {
		_, err := NewPickList("WH-001", "CMP-001", PickStrategy("CHAOS"), "", testItems())
		assert.Error(t, err)
	})

	t.Run("discrete strategy takes one order only", func(t *testing.T) {
		_, err := NewPickList("WH-001", "CMP-001", StrategyDiscrete, "", testItems())
		assert.Error(t, err)
	})

	t.Run("zone strategy rejects items outside the zone", func(t *testing.T) {
		_, err := NewPickList("WH-001", "CMP-001", StrategyZone, "A", testItems())
		assert.Error(t, err)

		items := testItems()[1:]
		pl, err := NewPickList("WH-001", "CMP-001", StrategyZone, "A", items)
		require.NoError(t, err)
		assert.Equal(t, "A", pl.Zone)
	})
}

// TestPickListTransitions tests the explicit transition table
func TestPickListTransitions(t *testing.T) {
	newStarted := func(t *testing.T) *PickList {
		pl, err := NewPickList("WH-001", "CMP-001", StrategyBatch, "", testItems())
		require.NoError(t, err)
		require.NoError(t, pl.Assign("picker-1"))
		require.NoError(t, pl.Start())
		return pl
	}

	t.Run("happy path pending to completed", func(t *testing.T) {
		pl := newStarted(t)
		for _, item := range pl.Items {
			require.NoError(t, pl.RecordPick(item.Sequence, item.Quantity, ""))
		}
		require.NoError(t, pl.Complete())
		assert.Equal(t, StatusCompleted, pl.Status)
		assert.NotNil(t, pl.CompletedAt)
	})

	t.Run("cannot start before assignment", func(t *testing.T) {
		pl, err := NewPickList("WH-001", "CMP-001", StrategyBatch, "", testItems())
		require.NoError(t, err)
		assert.Error(t, pl.Start())
	})

	t.Run("cannot assign twice", func(t *testing.T) {
		pl, err := NewPickList("WH-001", "CMP-001", StrategyBatch, "", testItems())
		require.NoError(t, err)
		require.NoError(t, pl.Assign("picker-1"))
		assert.Error(t, pl.Assign("picker-2"))
	})

	t.Run("cannot complete with pending items", func(t *testing.T) {
		pl := newStarted(t)
		require.NoError(t, pl.RecordPick(1, pl.Items[0].Quantity, ""))
		assert.ErrorIs(t, pl.Complete(), ErrItemsOutstanding)
	})

	t.Run("cancel allowed from any non-terminal state", func(t *testing.T) {
		pl, err := NewPickList("WH-001", "CMP-001", StrategyBatch, "", testItems())
		require.NoError(t, err)
		require.NoError(t, pl.Cancel("order cancelled"))
		assert.Equal(t, StatusCancelled, pl.Status)

		// Terminal states reject further transitions.
		assert.Error(t, pl.Cancel("again"))
		assert.Error(t, pl.Assign("picker-1"))
	})

	t.Run("completed rejects cancel", func(t *testing.T) {
		pl := newStarted(t)
		for _, item := range pl.Items {
			require.NoError(t, pl.RecordPick(item.Sequence, item.Quantity, ""))
		}
		require.NoError(t, pl.Complete())
		assert.Error(t, pl.Cancel("too late"))
	})
}

// TestRecordPick tests full and short pick results
func TestRecordPick(t *testing.T) {
	newStarted := func(t *testing.T) *PickList {
		pl, err := NewPickList("WH-001", "CMP-001", StrategyBatch, "", testItems())
		require.NoError(t, err)
		require.NoError(t, pl.Assign("picker-1"))
		require.NoError(t, pl.Start())
		return pl
	}

	t.Run("full quantity marks line picked", func(t *testing.T) {
		pl := newStarted(t)
		require.NoError(t, pl.RecordPick(1, pl.Items[0].Quantity, ""))
		assert.Equal(t, ItemPicked, pl.Items[0].Status)
		assert.NotNil(t, pl.Items[0].PickedAt)
	})

	t.Run("short pick needs a reason and is not an error", func(t *testing.T) {
		pl := newStarted(t)

		err := pl.RecordPick(1, pl.Items[0].Quantity-1, "")
		assert.ErrorIs(t, err, ErrShortReasonNeeded)
		assert.Equal(t, ItemPending, pl.Items[0].Status)
		assert.Equal(t, 0, pl.Items[0].QuantityShort())

		require.NoError(t, pl.RecordPick(1, pl.Items[0].Quantity-1, "bin empty"))
		assert.Equal(t, ItemShortPick, pl.Items[0].Status)
		assert.Equal(t, "bin empty", pl.Items[0].ShortReason)
		assert.Equal(t, 1, pl.Items[0].QuantityShort())
	})

	t.Run("zero pick is a full short", func(t *testing.T) {
		pl := newStarted(t)
		require.NoError(t, pl.RecordPick(1, 0, "item missing"))
		assert.Equal(t, ItemShortPick, pl.Items[0].Status)
		assert.Equal(t, 0, pl.Items[0].PickedQty)
		assert.Equal(t, pl.Items[0].Quantity, pl.Items[0].QuantityShort())
	})

	t.Run("line cannot be picked twice", func(t *testing.T) {
		pl := newStarted(t)
		require.NoError(t, pl.RecordPick(1, pl.Items[0].Quantity, ""))
		assert.ErrorIs(t, pl.RecordPick(1, 1, ""), ErrItemAlreadyPicked)
	})

	t.Run("over pick rejected", func(t *testing.T) {
		pl := newStarted(t)
		assert.ErrorIs(t, pl.RecordPick(1, pl.Items[0].Quantity+1, ""), ErrInvalidQuantity)
	})

	t.Run("unknown sequence rejected", func(t *testing.T) {
		pl := newStarted(t)
		assert.ErrorIs(t, pl.RecordPick(99, 1, ""), ErrItemNotFound)
	})
}

// TestPickedLines tests the completion summary used for consumption
func TestPickedLines(t *testing.T) {
	pl, err := NewPickList("WH-001", "CMP-001", StrategyBatch, "", testItems())
	require.NoError(t, err)
	require.NoError(t, pl.Assign("picker-1"))
	require.NoError(t, pl.Start())

	require.NoError(t, pl.RecordPick(1, pl.Items[0].Quantity, ""))
	require.NoError(t, pl.RecordPick(2, 0, "not found"))
	require.NoError(t, pl.RecordPick(3, pl.Items[2].Quantity-1, "damaged in bin"))
	require.NoError(t, pl.Complete())

	lines := pl.PickedLines()
	// The zero-quantity short line consumes nothing.
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.Greater(t, line.PickedQty, 0)
	}
}
