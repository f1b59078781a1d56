package domain

import "time"

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

// SKURegisteredEvent is raised when a SKU is first registered in a warehouse
type SKURegisteredEvent struct {
	InventoryID string    `json:"inventoryId"`
	WarehouseID string    `json:"warehouseId"`
	CompanyID   string    `json:"companyId"`
	SKU         string    `json:"sku"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e *SKURegisteredEvent) EventType() string     { return "SKURegistered" }
func (e *SKURegisteredEvent) OccurredAt() time.Time { return e.Timestamp }

// StockAddedEvent is raised when stock is received into a warehouse
type StockAddedEvent struct {
	InventoryID string    `json:"inventoryId"`
	WarehouseID string    `json:"warehouseId"`
	SKU         string    `json:"sku"`
	Quantity    int       `json:"quantity"`
	NewOnHand   int       `json:"newOnHand"`
	LocationID  string    `json:"locationId,omitempty"`
	Restock     bool      `json:"restock"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e *StockAddedEvent) EventType() string     { return "StockAdded" }
func (e *StockAddedEvent) OccurredAt() time.Time { return e.Timestamp }

// StockAdjustedEvent is raised when a manual correction is applied
type StockAdjustedEvent struct {
	InventoryID    string    `json:"inventoryId"`
	WarehouseID    string    `json:"warehouseId"`
	SKU            string    `json:"sku"`
	Delta          int       `json:"delta"`
	PreviousOnHand int       `json:"previousOnHand"`
	NewOnHand      int       `json:"newOnHand"`
	Reason         string    `json:"reason"`
	PerformedBy    string    `json:"performedBy"`
	Timestamp      time.Time `json:"timestamp"`
}

func (e *StockAdjustedEvent) EventType() string     { return "StockAdjusted" }
func (e *StockAdjustedEvent) OccurredAt() time.Time { return e.Timestamp }

// StockReservedEvent is raised when stock is earmarked for an order
type StockReservedEvent struct {
	InventoryID string    `json:"inventoryId"`
	WarehouseID string    `json:"warehouseId"`
	SKU         string    `json:"sku"`
	OrderID     string    `json:"orderId"`
	Quantity    int       `json:"quantity"`
	Reserved    int       `json:"reserved"`
	Available   int       `json:"available"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e *StockReservedEvent) EventType() string     { return "StockReserved" }
func (e *StockReservedEvent) OccurredAt() time.Time { return e.Timestamp }

// ReservationReleasedEvent is raised when a reservation returns to the pool
type ReservationReleasedEvent struct {
	InventoryID string    `json:"inventoryId"`
	WarehouseID string    `json:"warehouseId"`
	SKU         string    `json:"sku"`
	OrderID     string    `json:"orderId"`
	Quantity    int       `json:"quantity"`
	Reserved    int       `json:"reserved"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e *ReservationReleasedEvent) EventType() string     { return "ReservationReleased" }
func (e *ReservationReleasedEvent) OccurredAt() time.Time { return e.Timestamp }

// ReservationConsumedEvent is raised when reserved stock is picked
type ReservationConsumedEvent struct {
	InventoryID string    `json:"inventoryId"`
	WarehouseID string    `json:"warehouseId"`
	SKU         string    `json:"sku"`
	OrderID     string    `json:"orderId"`
	PickListID  string    `json:"pickListId"`
	Quantity    int       `json:"quantity"`
	NewOnHand   int       `json:"newOnHand"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e *ReservationConsumedEvent) EventType() string     { return "ReservationConsumed" }
func (e *ReservationConsumedEvent) OccurredAt() time.Time { return e.Timestamp }

// StockMarkedDamagedEvent is raised when units move into the damaged pool
type StockMarkedDamagedEvent struct {
	InventoryID string    `json:"inventoryId"`
	WarehouseID string    `json:"warehouseId"`
	SKU         string    `json:"sku"`
	Quantity    int       `json:"quantity"`
	Damaged     int       `json:"damaged"`
	Reason      string    `json:"reason,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e *StockMarkedDamagedEvent) EventType() string     { return "StockMarkedDamaged" }
func (e *StockMarkedDamagedEvent) OccurredAt() time.Time { return e.Timestamp }

// SKUDiscontinuedEvent is raised when a SKU is marked end-of-life
type SKUDiscontinuedEvent struct {
	InventoryID string    `json:"inventoryId"`
	WarehouseID string    `json:"warehouseId"`
	SKU         string    `json:"sku"`
	PerformedBy string    `json:"performedBy"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e *SKUDiscontinuedEvent) EventType() string     { return "SKUDiscontinued" }
func (e *SKUDiscontinuedEvent) OccurredAt() time.Time { return e.Timestamp }

// LowStockAlertEvent is raised when available stock crosses the reorder point
type LowStockAlertEvent struct {
	InventoryID     string    `json:"inventoryId"`
	WarehouseID     string    `json:"warehouseId"`
	SKU             string    `json:"sku"`
	Available       int       `json:"available"`
	ReorderPoint    int       `json:"reorderPoint"`
	ReorderQuantity int       `json:"reorderQuantity"`
	Timestamp       time.Time `json:"timestamp"`
}

func (e *LowStockAlertEvent) EventType() string     { return "LowStockAlert" }
func (e *LowStockAlertEvent) OccurredAt() time.Time { return e.Timestamp }
