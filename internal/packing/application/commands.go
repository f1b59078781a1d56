package application

// RegisterStationCommand registers a packing station
type RegisterStationCommand struct {
	WarehouseID  string   `json:"warehouseId" binding:"required"`
	StationCode  string   `json:"stationCode" binding:"required"`
	Capabilities []string `json:"capabilities"`
}

// AssignPackerCommand claims a station for a packer
type AssignPackerCommand struct {
	WarehouseID string `json:"warehouseId" binding:"required"`
	StationCode string `json:"-"`
	PackerID    string `json:"packerId" binding:"required"`
}

// SessionItemInput is one order line going into a packing session
type SessionItemInput struct {
	SKU              string `json:"sku" binding:"required"`
	QuantityRequired int    `json:"quantityRequired" binding:"required,gt=0"`
}

// StartSessionCommand opens a packing session at a station
type StartSessionCommand struct {
	WarehouseID string             `json:"warehouseId" binding:"required"`
	StationCode string             `json:"-"`
	PickListID  string             `json:"pickListId"`
	OrderID     string             `json:"orderId" binding:"required"`
	OrderNumber string             `json:"orderNumber"`
	PackerID    string             `json:"packerId" binding:"required"`
	Items       []SessionItemInput `json:"items" binding:"required,dive"`
}

// PackItemCommand increments the packed count for a SKU
type PackItemCommand struct {
	WarehouseID string `json:"warehouseId" binding:"required"`
	StationCode string `json:"-"`
	SKU         string `json:"sku" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,gt=0"`
}

// VerifyWeightCommand runs a weight check against the active session
type VerifyWeightCommand struct {
	WarehouseID      string  `json:"warehouseId" binding:"required"`
	StationCode      string  `json:"-"`
	ExpectedWeight   float64 `json:"expectedWeight" binding:"required,gt=0"`
	ActualWeight     float64 `json:"actualWeight" binding:"required,gt=0"`
	TolerancePercent float64 `json:"tolerancePercent" binding:"gte=0"`
}

// CompleteSessionCommand closes the active session
type CompleteSessionCommand struct {
	WarehouseID string `json:"warehouseId" binding:"required"`
	StationCode string `json:"-"`
}

// ReleaseStationCommand frees a claimed station that has no session
type ReleaseStationCommand struct {
	WarehouseID string `json:"warehouseId" binding:"required"`
	StationCode string `json:"-"`
}

// SetStationOfflineCommand takes a station out of rotation
type SetStationOfflineCommand struct {
	WarehouseID string `json:"warehouseId" binding:"required"`
	StationCode string `json:"-"`
	Maintenance bool   `json:"maintenance"`
	Reason      string `json:"reason"`
}

// SetStationOnlineCommand returns a station to rotation
type SetStationOnlineCommand struct {
	WarehouseID string `json:"warehouseId" binding:"required"`
	StationCode string `json:"-"`
}

// ListStationsQuery pages through stations
type ListStationsQuery struct {
	WarehouseID string
	Status      string
	Limit       int
	Offset      int
}
