package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/errors"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/logging"
)

func newLedgerService(repo *fakeInventoryRepo) *LedgerService {
	logger := logging.New(logging.DefaultConfig("inventory-test"))
	return NewLedgerService(repo, logger, nil)
}

func registerTestSKU(t *testing.T, svc *LedgerService) *InventoryRecordDTO {
	t.Helper()
	dto, err := svc.RegisterSKU(context.Background(), RegisterSKUCommand{
		WarehouseID:     "WH-001",
		CompanyID:       "CMP-001",
		SKU:             "sku-100",
		ProductName:     "Blue Widget",
		ReorderPoint:    10,
		ReorderQuantity: 50,
	})
	require.NoError(t, err)
	return dto
}

// TestRegisterSKU tests SKU registration and duplicate detection
func TestRegisterSKU(t *testing.T) {
	repo := newFakeInventoryRepo()
	svc := newLedgerService(repo)

	dto := registerTestSKU(t, svc)
	assert.Equal(t, "SKU-100", dto.SKU)
	assert.Equal(t, "Blue Widget", dto.ProductName)
	assert.Equal(t, 0, dto.OnHand)
	assert.Equal(t, "OUT_OF_STOCK", dto.Status)

	// Same SKU in a different case is a duplicate.
	_, err := svc.RegisterSKU(context.Background(), RegisterSKUCommand{
		WarehouseID: "WH-001",
		CompanyID:   "CMP-001",
		SKU:         "SKU-100",
		ProductName: "Blue Widget",
	})
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.CodeDuplicateSKU, appErr.Code)

	// Same SKU in another warehouse is fine.
	_, err = svc.RegisterSKU(context.Background(), RegisterSKUCommand{
		WarehouseID: "WH-002",
		CompanyID:   "CMP-001",
		SKU:         "SKU-100",
		ProductName: "Blue Widget",
	})
	assert.NoError(t, err)

	// A product name is required.
	_, err = svc.RegisterSKU(context.Background(), RegisterSKUCommand{
		WarehouseID: "WH-003",
		CompanyID:   "CMP-001",
		SKU:         "SKU-100",
	})
	require.Error(t, err)
}

// TestRegisterSKUWithInitialQuantity tests that opening stock is received as
// part of registration
func TestRegisterSKUWithInitialQuantity(t *testing.T) {
	repo := newFakeInventoryRepo()
	svc := newLedgerService(repo)
	ctx := context.Background()

	dto, err := svc.RegisterSKU(ctx, RegisterSKUCommand{
		WarehouseID:     "WH-001",
		CompanyID:       "CMP-001",
		SKU:             "sku-200",
		ProductName:     "Red Widget",
		InitialQuantity: 40,
		LocationID:      "A2-01",
		PerformedBy:     "user1",
	})
	require.NoError(t, err)
	assert.Equal(t, 40, dto.OnHand)
	assert.Equal(t, "ACTIVE", dto.Status)

	// The opening stock shows up in the movement chain as a receipt.
	page, err := svc.GetMovements(ctx, MovementHistoryQuery{WarehouseID: "WH-001", SKU: "SKU-200", Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "RECEIVE", page.Data[0].Type)
	assert.Equal(t, 40, page.Data[0].Quantity)
	assert.Equal(t, 0, page.Data[0].PreviousQuantity)
	assert.Equal(t, 40, page.Data[0].NewQuantity)
}

// TestReceiveAndAdjust tests the receive and adjust use cases end to end
func TestReceiveAndAdjust(t *testing.T) {
	repo := newFakeInventoryRepo()
	svc := newLedgerService(repo)
	registerTestSKU(t, svc)

	dto, err := svc.ReceiveStock(context.Background(), ReceiveStockCommand{
		WarehouseID: "WH-001",
		SKU:         "SKU-100",
		Quantity:    100,
		LocationID:  "A1-01",
		PerformedBy: "user1",
	})
	require.NoError(t, err)
	assert.Equal(t, 100, dto.OnHand)
	assert.Equal(t, "ACTIVE", dto.Status)

	dto, err = svc.AdjustStock(context.Background(), AdjustStockCommand{
		WarehouseID: "WH-001",
		SKU:         "SKU-100",
		Delta:       -20,
		LocationID:  "A1-01",
		Reason:      "cycle count shortage",
		PerformedBy: "user1",
	})
	require.NoError(t, err)
	assert.Equal(t, 80, dto.OnHand)

	// Adjustment below zero is rejected with a typed error.
	_, err = svc.AdjustStock(context.Background(), AdjustStockCommand{
		WarehouseID: "WH-001",
		SKU:         "SKU-100",
		Delta:       -81,
		LocationID:  "A1-01",
		Reason:      "bad count",
	})
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.CodeInvalidAdjustment, appErr.Code)
}

// TestGetInventoryNotFound tests the not found path
func TestGetInventoryNotFound(t *testing.T) {
	svc := newLedgerService(newFakeInventoryRepo())

	_, err := svc.GetInventory(context.Background(), GetInventoryQuery{WarehouseID: "WH-001", SKU: "NOPE"})
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.CodeNotFound, appErr.Code)
}

// TestMovementHistory tests reverse-chronological paging and filters
func TestMovementHistory(t *testing.T) {
	repo := newFakeInventoryRepo()
	svc := newLedgerService(repo)
	registerTestSKU(t, svc)

	ctx := context.Background()
	_, err := svc.ReceiveStock(ctx, ReceiveStockCommand{WarehouseID: "WH-001", SKU: "SKU-100", Quantity: 50, LocationID: "A1-01"})
	require.NoError(t, err)
	_, err = svc.AdjustStock(ctx, AdjustStockCommand{WarehouseID: "WH-001", SKU: "SKU-100", Delta: 10, LocationID: "A1-01", Reason: "found"})
	require.NoError(t, err)

	page, err := svc.GetMovements(ctx, MovementHistoryQuery{WarehouseID: "WH-001", SKU: "sku-100", Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, int64(2), page.TotalItems)
	// Newest first.
	assert.Equal(t, "ADJUSTMENT", page.Data[0].Type)
	assert.Equal(t, "RECEIVE", page.Data[1].Type)

	// Type filter.
	page, err = svc.GetMovements(ctx, MovementHistoryQuery{WarehouseID: "WH-001", Type: "RECEIVE", Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)

	// Unknown type is a validation error.
	_, err = svc.GetMovements(ctx, MovementHistoryQuery{WarehouseID: "WH-001", Type: "TELEPORT"})
	require.Error(t, err)
}

// TestRestockFromRTO tests the RTO restock path records the right movement
func TestRestockFromRTO(t *testing.T) {
	repo := newFakeInventoryRepo()
	svc := newLedgerService(repo)
	registerTestSKU(t, svc)

	ctx := context.Background()
	dto, err := svc.RestockFromRTO(ctx, ReceiveStockCommand{
		WarehouseID:   "WH-001",
		SKU:           "SKU-100",
		Quantity:      3,
		LocationID:    "RET-01",
		ReferenceType: "rto",
		ReferenceID:   "RTO-42",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, dto.OnHand)

	page, err := svc.GetMovements(ctx, MovementHistoryQuery{WarehouseID: "WH-001", Type: "RTO_RESTOCK", Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "RTO-42", page.Data[0].ReferenceID)
}

// TestRestockFromRTOIdempotent tests that repeating a restock for the same
// return reference does not add stock twice
func TestRestockFromRTOIdempotent(t *testing.T) {
	repo := newFakeInventoryRepo()
	svc := newLedgerService(repo)
	registerTestSKU(t, svc)

	ctx := context.Background()
	cmd := ReceiveStockCommand{
		WarehouseID:   "WH-001",
		SKU:           "SKU-100",
		Quantity:      3,
		LocationID:    "RET-01",
		ReferenceType: "rto",
		ReferenceID:   "RTO-42",
	}

	dto, err := svc.RestockFromRTO(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, 3, dto.OnHand)

	// A retry with the same reference is a no-op.
	dto, err = svc.RestockFromRTO(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, 3, dto.OnHand)

	page, err := svc.GetMovements(ctx, MovementHistoryQuery{WarehouseID: "WH-001", Type: "RTO_RESTOCK", Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)

	// A different return for the same SKU still lands.
	cmd.ReferenceID = "RTO-43"
	dto, err = svc.RestockFromRTO(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, 6, dto.OnHand)
}

// TestMutateRetriesOnConflict tests that transient version conflicts are retried
func TestMutateRetriesOnConflict(t *testing.T) {
	repo := newFakeInventoryRepo()
	svc := newLedgerService(repo)
	registerTestSKU(t, svc)

	repo.failSavesWithConflict = 2
	dto, err := svc.ReceiveStock(context.Background(), ReceiveStockCommand{
		WarehouseID: "WH-001", SKU: "SKU-100", Quantity: 10, LocationID: "A1-01",
	})
	require.NoError(t, err)
	assert.Equal(t, 10, dto.OnHand)

	// Exhausting all attempts surfaces a conflict error.
	repo.failSavesWithConflict = maxSaveAttempts
	_, err = svc.ReceiveStock(context.Background(), ReceiveStockCommand{
		WarehouseID: "WH-001", SKU: "SKU-100", Quantity: 10, LocationID: "A1-01",
	})
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.CodeConflict, appErr.Code)
}
