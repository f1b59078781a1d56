package application

// OrderLineInput is one order line fed into pick list generation
type OrderLineInput struct {
	OrderID    string `json:"orderId" binding:"required"`
	SKU        string `json:"sku" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,gt=0"`
	LocationID string `json:"locationId" binding:"required"`
	Zone       string `json:"zone"`
	Aisle      string `json:"aisle"`
}

// GeneratePickListCommand creates a pick list from order lines
type GeneratePickListCommand struct {
	WarehouseID string           `json:"warehouseId" binding:"required"`
	CompanyID   string           `json:"companyId" binding:"required"`
	Strategy    string           `json:"strategy" binding:"required"`
	Zone        string           `json:"zone"`
	Items       []OrderLineInput `json:"items" binding:"required,dive"`
}

// AssignPickListCommand hands a pick list to a picker
type AssignPickListCommand struct {
	PickListID string `json:"-"`
	PickerID   string `json:"pickerId" binding:"required"`
}

// StartPickingCommand begins the picking walk
type StartPickingCommand struct {
	PickListID string `json:"-"`
}

// RecordPickCommand records the result for one line
type RecordPickCommand struct {
	PickListID  string `json:"-"`
	Sequence    int    `json:"sequence" binding:"required,gt=0"`
	PickedQty   int    `json:"pickedQty" binding:"gte=0"`
	ShortReason string `json:"shortReason"`
}

// CompletePickListCommand closes the pick list and consumes reservations
type CompletePickListCommand struct {
	PickListID string `json:"-"`
}

// CancelPickListCommand aborts a pick list
type CancelPickListCommand struct {
	PickListID string `json:"-"`
	Reason     string `json:"reason"`
}

// ListPickListsQuery pages through pick lists
type ListPickListsQuery struct {
	WarehouseID string
	Status      string
	PickerID    string
	OrderID     string
	Limit       int
	Offset      int
}
