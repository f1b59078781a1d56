package application

import "time"

// SessionItemDTO is the API representation of a session line
type SessionItemDTO struct {
	SKU              string `json:"sku"`
	QuantityRequired int    `json:"quantityRequired"`
	QuantityPacked   int    `json:"quantityPacked"`
}

// WeightCheckDTO is the API representation of a weight verification
type WeightCheckDTO struct {
	ExpectedWeight  float64   `json:"expectedWeight"`
	ActualWeight    float64   `json:"actualWeight"`
	Tolerance       float64   `json:"tolerance"`
	VariancePercent float64   `json:"variancePercent"`
	Passed          bool      `json:"passed"`
	CheckedAt       time.Time `json:"checkedAt"`
}

// PackingSessionDTO is the API representation of a packing session
type PackingSessionDTO struct {
	SessionID   string           `json:"sessionId"`
	OrderID     string           `json:"orderId"`
	OrderNumber string           `json:"orderNumber,omitempty"`
	PickListID  string           `json:"pickListId,omitempty"`
	PackerID    string           `json:"packerId"`
	Items       []SessionItemDTO `json:"items"`
	WeightCheck *WeightCheckDTO  `json:"weightCheck,omitempty"`
	TotalPacked int              `json:"totalPacked"`
	StartedAt   time.Time        `json:"startedAt"`
}

// StationDTO is the API representation of a packing station
type StationDTO struct {
	ID             string             `json:"id"`
	StationCode    string             `json:"stationCode"`
	WarehouseID    string             `json:"warehouseId"`
	Status         string             `json:"status"`
	Capabilities   []string           `json:"capabilities,omitempty"`
	AssignedTo     string             `json:"assignedTo,omitempty"`
	CurrentSession *PackingSessionDTO `json:"currentSession,omitempty"`
	OfflineReason  string             `json:"offlineReason,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}
