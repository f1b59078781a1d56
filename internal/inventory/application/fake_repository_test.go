package application

import (
	"context"
	"sort"
	"sync"

	"github.com/dhirajgiri3/Shipcrowd-sub003/internal/inventory/domain"
)

// fakeInventoryRepo is an in-memory InventoryRepository that enforces the
// same version check as the MongoDB implementation, so concurrency behavior
// can be exercised without a database.
type fakeInventoryRepo struct {
	mu        sync.Mutex
	records   map[string]*domain.InventoryRecord
	movements []*domain.StockMovement

	// failSavesWithConflict forces the next N saves to conflict.
	failSavesWithConflict int
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{records: map[string]*domain.InventoryRecord{}}
}

func key(warehouseID, sku string) string {
	return warehouseID + "/" + domain.NormalizeSKU(sku)
}

func (f *fakeInventoryRepo) Save(ctx context.Context, record *domain.InventoryRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failSavesWithConflict > 0 {
		f.failSavesWithConflict--
		return domain.ErrVersionConflict
	}

	k := key(record.WarehouseID, record.SKU)
	stored, exists := f.records[k]
	if exists && stored.Version != record.Version {
		return domain.ErrVersionConflict
	}

	record.Version++
	f.movements = append(f.movements, record.PendingMovements...)
	record.ClearPendingMovements()
	record.ClearDomainEvents()

	saved := copyRecord(record)
	f.records[k] = saved
	return nil
}

func (f *fakeInventoryRepo) FindBySKU(ctx context.Context, warehouseID, sku string) (*domain.InventoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, ok := f.records[key(warehouseID, sku)]
	if !ok {
		return nil, nil
	}
	return copyRecord(stored), nil
}

func (f *fakeInventoryRepo) FindByID(ctx context.Context, id string) (*domain.InventoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, r := range f.records {
		if r.ID.Hex() == id {
			return copyRecord(r), nil
		}
	}
	return nil, nil
}

func (f *fakeInventoryRepo) FindByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*domain.InventoryRecord, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var all []*domain.InventoryRecord
	for _, r := range f.records {
		if r.WarehouseID == warehouseID {
			all = append(all, copyRecord(r))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].SKU < all[j].SKU })

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (f *fakeInventoryRepo) FindLowStock(ctx context.Context, warehouseID string) ([]*domain.InventoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*domain.InventoryRecord
	for _, r := range f.records {
		if r.WarehouseID == warehouseID && (r.Status == domain.StatusLowStock || r.Status == domain.StatusOutOfStock) {
			out = append(out, copyRecord(r))
		}
	}
	return out, nil
}

func (f *fakeInventoryRepo) FindMovements(ctx context.Context, filter domain.MovementFilter, limit, offset int) ([]*domain.StockMovement, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []*domain.StockMovement
	for _, m := range f.movements {
		if filter.WarehouseID != "" && m.WarehouseID != filter.WarehouseID {
			continue
		}
		if filter.SKU != "" && m.SKU != filter.SKU {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		if filter.ReferenceID != "" && m.ReferenceID != filter.ReferenceID {
			continue
		}
		matched = append(matched, m)
	}

	// Newest first.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func copyRecord(r *domain.InventoryRecord) *domain.InventoryRecord {
	c := *r
	c.Locations = append([]domain.BinLocation(nil), r.Locations...)
	c.PendingMovements = nil
	c.DomainEvents = nil
	return &c
}
