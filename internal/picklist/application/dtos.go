package application

import "time"

// PickListItemDTO is the API representation of a pick list line
type PickListItemDTO struct {
	Sequence    int        `json:"sequence"`
	OrderID     string     `json:"orderId"`
	SKU         string     `json:"sku"`
	Quantity    int        `json:"quantity"`
	PickedQty   int        `json:"pickedQty"`
	LocationID  string     `json:"locationId"`
	Zone        string     `json:"zone,omitempty"`
	Aisle       string     `json:"aisle,omitempty"`
	Status      string     `json:"status"`
	QuantityShort int      `json:"quantityShort"`
	ShortReason string     `json:"shortReason,omitempty"`
	PickedAt    *time.Time `json:"pickedAt,omitempty"`
}

// PickListDTO is the API representation of a pick list
type PickListDTO struct {
	ID           string            `json:"id"`
	PickListID   string            `json:"pickListId"`
	WarehouseID  string            `json:"warehouseId"`
	CompanyID    string            `json:"companyId"`
	Strategy     string            `json:"strategy"`
	Status       string            `json:"status"`
	Zone         string            `json:"zone,omitempty"`
	OrderIDs     []string          `json:"orderIds"`
	Items        []PickListItemDTO `json:"items"`
	PickerID     string            `json:"pickerId,omitempty"`
	Priority     int               `json:"priority"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
	AssignedAt   *time.Time        `json:"assignedAt,omitempty"`
	StartedAt    *time.Time        `json:"startedAt,omitempty"`
	CompletedAt  *time.Time        `json:"completedAt,omitempty"`
	CancelReason string            `json:"cancelReason,omitempty"`
}
