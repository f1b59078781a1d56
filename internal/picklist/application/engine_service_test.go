package application

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/errors"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/logging"

	inventoryapp "github.com/dhirajgiri3/Shipcrowd-sub003/internal/inventory/application"
	"github.com/dhirajgiri3/Shipcrowd-sub003/internal/picklist/domain"
)

type fakePickListRepo struct {
	mu    sync.Mutex
	lists map[string]*domain.PickList
}

func newFakePickListRepo() *fakePickListRepo {
	return &fakePickListRepo{lists: map[string]*domain.PickList{}}
}

func (f *fakePickListRepo) Save(ctx context.Context, pl *domain.PickList) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.lists[pl.PickListID]
	if pl.Version == 0 {
		if ok {
			return domain.ErrVersionConflict
		}
		pl.Version = 1
	} else {
		if !ok || existing.Version != pl.Version {
			return domain.ErrVersionConflict
		}
		pl.Version++
	}
	pl.ClearDomainEvents()
	stored := *pl
	stored.Items = append([]domain.PickListItem(nil), pl.Items...)
	f.lists[pl.PickListID] = &stored
	return nil
}

func (f *fakePickListRepo) FindByPickListID(ctx context.Context, id string) (*domain.PickList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.lists[id]
	if !ok {
		return nil, nil
	}
	cp := *stored
	cp.Items = append([]domain.PickListItem(nil), stored.Items...)
	return &cp, nil
}

func (f *fakePickListRepo) Find(ctx context.Context, filter domain.PickListFilter, limit, offset int) ([]*domain.PickList, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.PickList
	for _, pl := range f.lists {
		if filter.WarehouseID != "" && pl.WarehouseID != filter.WarehouseID {
			continue
		}
		if filter.Status != "" && pl.Status != filter.Status {
			continue
		}
		if filter.PickerID != "" && pl.PickerID != filter.PickerID {
			continue
		}
		cp := *pl
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

// fakeLedger records consumption calls and can fail on demand. Like the real
// reservation manager it treats a repeat consume for the same pick list line
// as already applied and does not record it twice.
type fakeLedger struct {
	mu       sync.Mutex
	consumed []inventoryapp.ConsumeReservationCommand
	applied  map[string]bool
	failWith error
}

func (f *fakeLedger) Consume(ctx context.Context, cmd inventoryapp.ConsumeReservationCommand) (*inventoryapp.InventoryRecordDTO, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	if f.applied == nil {
		f.applied = map[string]bool{}
	}
	key := cmd.PickListID + "|" + cmd.SKU + "|" + cmd.OrderID
	if f.applied[key] {
		return &inventoryapp.InventoryRecordDTO{SKU: cmd.SKU}, nil
	}
	f.applied[key] = true
	f.consumed = append(f.consumed, cmd)
	return &inventoryapp.InventoryRecordDTO{SKU: cmd.SKU}, nil
}

func newEngineFixture() (*fakePickListRepo, *fakeLedger, *EngineService) {
	repo := newFakePickListRepo()
	ledger := &fakeLedger{}
	logger := logging.New(logging.DefaultConfig("picklist-test"))
	return repo, ledger, NewEngineService(repo, ledger, logger, nil)
}

func generateCmd() GeneratePickListCommand {
	return GeneratePickListCommand{
		WarehouseID: "WH-001",
		CompanyID:   "CMP-001",
		Strategy:    "BATCH",
		Items: []OrderLineInput{
			{OrderID: "ORD-1", SKU: "SKU-A", Quantity: 5, LocationID: "A1-01", Zone: "A", Aisle: "1"},
			{OrderID: "ORD-2", SKU: "SKU-B", Quantity: 2, LocationID: "B2-03", Zone: "B", Aisle: "2"},
		},
	}
}

// TestGenerate tests pick list generation through the service
func TestGenerate(t *testing.T) {
	_, _, svc := newEngineFixture()

	dto, err := svc.Generate(context.Background(), generateCmd())
	require.NoError(t, err)
	assert.Equal(t, "PENDING", dto.Status)
	assert.Equal(t, "BATCH", dto.Strategy)
	require.Len(t, dto.Items, 2)
	assert.Equal(t, 1, dto.Items[0].Sequence)
	assert.Equal(t, "SKU-A", dto.Items[0].SKU)

	_, err = svc.Generate(context.Background(), GeneratePickListCommand{
		WarehouseID: "WH-001",
		CompanyID:   "CMP-001",
		Strategy:    "CHAOS",
		Items:       generateCmd().Items,
	})
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.CodeValidationError, appErr.Code)
}

// TestCompleteConsumesReservations tests the handoff to the ledger
func TestCompleteConsumesReservations(t *testing.T) {
	_, ledger, svc := newEngineFixture()
	ctx := context.Background()

	dto, err := svc.Generate(ctx, generateCmd())
	require.NoError(t, err)
	id := dto.PickListID

	_, err = svc.Assign(ctx, AssignPickListCommand{PickListID: id, PickerID: "picker-1"})
	require.NoError(t, err)
	_, err = svc.Start(ctx, StartPickingCommand{PickListID: id})
	require.NoError(t, err)

	// Full pick for line 1, short pick for line 2.
	_, err = svc.RecordPick(ctx, RecordPickCommand{PickListID: id, Sequence: 1, PickedQty: 5})
	require.NoError(t, err)
	_, err = svc.RecordPick(ctx, RecordPickCommand{PickListID: id, Sequence: 2, PickedQty: 1, ShortReason: "bin empty"})
	require.NoError(t, err)

	dto, err = svc.Complete(ctx, CompletePickListCommand{PickListID: id})
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", dto.Status)

	// Only picked quantities are consumed; the short remainder stays
	// reserved for the order.
	require.Len(t, ledger.consumed, 2)
	bySKU := map[string]inventoryapp.ConsumeReservationCommand{}
	for _, c := range ledger.consumed {
		bySKU[c.SKU] = c
	}
	assert.Equal(t, 5, bySKU["SKU-A"].Quantity)
	assert.Equal(t, 1, bySKU["SKU-B"].Quantity)
	assert.Equal(t, id, bySKU["SKU-A"].PickListID)
	assert.Equal(t, "picker-1", bySKU["SKU-A"].PerformedBy)
}

// TestCompleteFailsClosedOnLedgerError tests that a ledger failure keeps the
// pick list open
func TestCompleteFailsClosedOnLedgerError(t *testing.T) {
	_, ledger, svc := newEngineFixture()
	ctx := context.Background()

	dto, err := svc.Generate(ctx, generateCmd())
	require.NoError(t, err)
	id := dto.PickListID

	_, err = svc.Assign(ctx, AssignPickListCommand{PickListID: id, PickerID: "picker-1"})
	require.NoError(t, err)
	_, err = svc.Start(ctx, StartPickingCommand{PickListID: id})
	require.NoError(t, err)
	_, err = svc.RecordPick(ctx, RecordPickCommand{PickListID: id, Sequence: 1, PickedQty: 5})
	require.NoError(t, err)
	_, err = svc.RecordPick(ctx, RecordPickCommand{PickListID: id, Sequence: 2, PickedQty: 2})
	require.NoError(t, err)

	ledger.failWith = errors.ErrConflict("inventory record is under concurrent modification")
	_, err = svc.Complete(ctx, CompletePickListCommand{PickListID: id})
	require.Error(t, err)

	// Completion was not persisted.
	stored, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "IN_PROGRESS", stored.Status)

	// A retry after the ledger recovers succeeds.
	ledger.failWith = nil
	dto, err = svc.Complete(ctx, CompletePickListCommand{PickListID: id})
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", dto.Status)
}

// TestConcurrentCompleteConsumesOnce tests that two racing completions
// consume each reservation once, with the loser surfacing a conflict
func TestConcurrentCompleteConsumesOnce(t *testing.T) {
	_, ledger, svc := newEngineFixture()
	ctx := context.Background()

	dto, err := svc.Generate(ctx, generateCmd())
	require.NoError(t, err)
	id := dto.PickListID

	_, err = svc.Assign(ctx, AssignPickListCommand{PickListID: id, PickerID: "picker-1"})
	require.NoError(t, err)
	_, err = svc.Start(ctx, StartPickingCommand{PickListID: id})
	require.NoError(t, err)
	_, err = svc.RecordPick(ctx, RecordPickCommand{PickListID: id, Sequence: 1, PickedQty: 5})
	require.NoError(t, err)
	_, err = svc.RecordPick(ctx, RecordPickCommand{PickListID: id, Sequence: 2, PickedQty: 2})
	require.NoError(t, err)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Complete(ctx, CompletePickListCommand{PickListID: id})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	// The loser either hits the version check on save or observes the
	// already-completed list, depending on interleaving.
	var succeeded, rejected int
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Contains(t, []string{errors.CodeConflict, errors.CodeInvalidState}, appErr.Code)
		rejected++
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, rejected)

	// Each line was consumed exactly once despite the race.
	require.Len(t, ledger.consumed, 2)
	counts := map[string]int{}
	for _, c := range ledger.consumed {
		counts[c.SKU]++
	}
	assert.Equal(t, 1, counts["SKU-A"])
	assert.Equal(t, 1, counts["SKU-B"])

	stored, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", stored.Status)
}

// TestShortPickExposesShortQuantity tests the short quantity on line results
func TestShortPickExposesShortQuantity(t *testing.T) {
	_, _, svc := newEngineFixture()
	ctx := context.Background()

	dto, err := svc.Generate(ctx, generateCmd())
	require.NoError(t, err)
	id := dto.PickListID
	assert.Equal(t, "CMP-001", dto.CompanyID)
	assert.Equal(t, 0, dto.Items[0].QuantityShort)

	_, err = svc.Assign(ctx, AssignPickListCommand{PickListID: id, PickerID: "picker-1"})
	require.NoError(t, err)
	_, err = svc.Start(ctx, StartPickingCommand{PickListID: id})
	require.NoError(t, err)

	dto, err = svc.RecordPick(ctx, RecordPickCommand{PickListID: id, Sequence: 1, PickedQty: 3, ShortReason: "bin empty"})
	require.NoError(t, err)
	assert.Equal(t, "SHORT_PICK", dto.Items[0].Status)
	assert.Equal(t, 2, dto.Items[0].QuantityShort)
	assert.Equal(t, 0, dto.Items[1].QuantityShort)
}

// TestCancel tests cancellation through the service
func TestCancel(t *testing.T) {
	_, _, svc := newEngineFixture()
	ctx := context.Background()

	dto, err := svc.Generate(ctx, generateCmd())
	require.NoError(t, err)

	dto, err = svc.Cancel(ctx, CancelPickListCommand{PickListID: dto.PickListID, Reason: "orders cancelled"})
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", dto.Status)
	assert.Equal(t, "orders cancelled", dto.CancelReason)

	// Terminal state maps to an invalid state error.
	_, err = svc.Assign(ctx, AssignPickListCommand{PickListID: dto.PickListID, PickerID: "p"})
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.CodeInvalidState, appErr.Code)
}

// TestGetNotFound tests the not found path
func TestGetNotFound(t *testing.T) {
	_, _, svc := newEngineFixture()

	_, err := svc.Get(context.Background(), "PL-missing")
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.CodeNotFound, appErr.Code)
}
