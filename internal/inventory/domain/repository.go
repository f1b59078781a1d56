package domain

import "context"

// MovementFilter narrows a movement history query
type MovementFilter struct {
	WarehouseID string
	SKU         string
	Type        MovementType
	ReferenceID string
}

// InventoryRepository defines the interface for inventory persistence.
// Save performs an optimistic concurrency check on the record's Version and
// returns ErrVersionConflict when the stored version no longer matches; it
// also persists pending movements and outbox events in the same transaction.
type InventoryRepository interface {
	Save(ctx context.Context, record *InventoryRecord) error
	FindBySKU(ctx context.Context, warehouseID, sku string) (*InventoryRecord, error)
	FindByID(ctx context.Context, id string) (*InventoryRecord, error)
	FindByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*InventoryRecord, int64, error)
	FindLowStock(ctx context.Context, warehouseID string) ([]*InventoryRecord, error)
	FindMovements(ctx context.Context, filter MovementFilter, limit, offset int) ([]*StockMovement, int64, error)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
	PublishAll(ctx context.Context, events []DomainEvent) error
}
