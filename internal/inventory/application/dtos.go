package application

import "time"

// BinLocationDTO is the API representation of a bin location
type BinLocationDTO struct {
	LocationID string `json:"locationId"`
	Zone       string `json:"zone,omitempty"`
	Aisle      string `json:"aisle,omitempty"`
	Quantity   int    `json:"quantity"`
}

// InventoryRecordDTO is the API representation of an inventory record
type InventoryRecordDTO struct {
	ID              string           `json:"id"`
	WarehouseID     string           `json:"warehouseId"`
	CompanyID       string           `json:"companyId"`
	SKU             string           `json:"sku"`
	ProductName     string           `json:"productName"`
	OnHand          int              `json:"onHand"`
	Reserved        int              `json:"reserved"`
	Available       int              `json:"available"`
	Damaged         int              `json:"damaged"`
	ReorderPoint    int              `json:"reorderPoint"`
	ReorderQuantity int              `json:"reorderQuantity"`
	SafetyStock     int              `json:"safetyStock"`
	MaxStock        int              `json:"maxStock,omitempty"`
	Status          string           `json:"status"`
	Locations       []BinLocationDTO `json:"locations"`
	Version         int64            `json:"version"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// StockMovementDTO is the API representation of a stock movement
type StockMovementDTO struct {
	MovementID       string    `json:"movementId"`
	WarehouseID      string    `json:"warehouseId"`
	SKU              string    `json:"sku"`
	Type             string    `json:"type"`
	Direction        string    `json:"direction"`
	Quantity         int       `json:"quantity"`
	PreviousQuantity int       `json:"previousQuantity"`
	NewQuantity      int       `json:"newQuantity"`
	LocationID       string    `json:"locationId,omitempty"`
	OrderID          string    `json:"orderId,omitempty"`
	ReferenceType    string    `json:"referenceType,omitempty"`
	ReferenceID      string    `json:"referenceId,omitempty"`
	Reason           string    `json:"reason,omitempty"`
	PerformedBy      string    `json:"performedBy"`
	CreatedAt        time.Time `json:"createdAt"`
}
