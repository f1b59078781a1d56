package application

// RegisterSKUCommand registers a new SKU in a warehouse, optionally seeded
// with an opening quantity
type RegisterSKUCommand struct {
	WarehouseID     string `json:"warehouseId" binding:"required"`
	CompanyID       string `json:"companyId" binding:"required"`
	SKU             string `json:"sku" binding:"required"`
	ProductName     string `json:"productName" binding:"required"`
	InitialQuantity int    `json:"initialQuantity" binding:"gte=0"`
	LocationID      string `json:"locationId"`
	ReorderPoint    int    `json:"reorderPoint"`
	ReorderQuantity int    `json:"reorderQuantity"`
	SafetyStock     int    `json:"safetyStock"`
	MaxStock        int    `json:"maxStock"`
	PerformedBy     string `json:"performedBy"`
}

// ReceiveStockCommand receives stock into a bin location
type ReceiveStockCommand struct {
	WarehouseID   string `json:"warehouseId" binding:"required"`
	SKU           string `json:"sku" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required,gt=0"`
	LocationID    string `json:"locationId"`
	ReferenceType string `json:"referenceType"`
	ReferenceID   string `json:"referenceId"`
	PerformedBy   string `json:"performedBy"`
}

// AdjustStockCommand applies a signed cycle count correction
type AdjustStockCommand struct {
	WarehouseID string `json:"warehouseId" binding:"required"`
	SKU         string `json:"sku" binding:"required"`
	Delta       int    `json:"delta" binding:"required"`
	LocationID  string `json:"locationId"`
	Reason      string `json:"reason" binding:"required"`
	PerformedBy string `json:"performedBy"`
}

// ReserveStockCommand earmarks stock for an order
type ReserveStockCommand struct {
	WarehouseID string `json:"warehouseId" binding:"required"`
	SKU         string `json:"sku" binding:"required"`
	OrderID     string `json:"orderId" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,gt=0"`
	PerformedBy string `json:"performedBy"`
}

// ReleaseReservationCommand returns reserved stock to the available pool
type ReleaseReservationCommand struct {
	WarehouseID string `json:"warehouseId" binding:"required"`
	SKU         string `json:"sku" binding:"required"`
	OrderID     string `json:"orderId" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,gt=0"`
	PerformedBy string `json:"performedBy"`
}

// ConsumeReservationCommand converts reserved stock into a pick
type ConsumeReservationCommand struct {
	WarehouseID string `json:"warehouseId" binding:"required"`
	SKU         string `json:"sku" binding:"required"`
	OrderID     string `json:"orderId" binding:"required"`
	PickListID  string `json:"pickListId"`
	LocationID  string `json:"locationId"`
	Quantity    int    `json:"quantity" binding:"required,gt=0"`
	PerformedBy string `json:"performedBy"`
}

// MarkDamagedCommand moves units into the damaged pool
type MarkDamagedCommand struct {
	WarehouseID string `json:"warehouseId" binding:"required"`
	SKU         string `json:"sku" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,gt=0"`
	LocationID  string `json:"locationId"`
	Reason      string `json:"reason"`
	PerformedBy string `json:"performedBy"`
}

// DiscontinueSKUCommand marks a SKU end-of-life
type DiscontinueSKUCommand struct {
	WarehouseID string `json:"warehouseId" binding:"required"`
	SKU         string `json:"sku" binding:"required"`
	PerformedBy string `json:"performedBy"`
}

// GetInventoryQuery fetches a single record
type GetInventoryQuery struct {
	WarehouseID string
	SKU         string
}

// ListInventoryQuery lists records in a warehouse
type ListInventoryQuery struct {
	WarehouseID string
	Limit       int
	Offset      int
}

// MovementHistoryQuery pages through movement history, newest first
type MovementHistoryQuery struct {
	WarehouseID string
	SKU         string
	Type        string
	ReferenceID string
	Limit       int
	Offset      int
}
