package application

import "time"

// RTOItemInput is one returned order line
type RTOItemInput struct {
	SKU      string `json:"sku" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
}

// CreateRTOCommand starts tracking a return-to-origin shipment
type CreateRTOCommand struct {
	ShipmentID  string         `json:"shipmentId" binding:"required"`
	OrderID     string         `json:"orderId" binding:"required"`
	CompanyID   string         `json:"companyId"`
	WarehouseID string         `json:"warehouseId" binding:"required"`
	AWB         string         `json:"awb"`
	Reason      string         `json:"reason" binding:"required"`
	TriggeredBy string         `json:"triggeredBy" binding:"required"`
	Items       []RTOItemInput `json:"items" binding:"required,dive"`
	RequiresQC  bool           `json:"requiresQC"`
	RTOCharges  float64        `json:"rtoCharges" binding:"gte=0"`
}

// MarkInTransitCommand records the reverse shipment leg
type MarkInTransitCommand struct {
	RTOID              string     `json:"-"`
	ReverseAWB         string     `json:"reverseAwb" binding:"required"`
	ExpectedReturnDate *time.Time `json:"expectedReturnDate"`
}

// MarkDeliveredCommand records warehouse receipt of the return
type MarkDeliveredCommand struct {
	RTOID            string    `json:"-"`
	ActualReturnDate time.Time `json:"actualReturnDate" binding:"required"`
}

// RecordQCCommand stores the inspection outcome
type RecordQCCommand struct {
	RTOID       string   `json:"-"`
	Passed      bool     `json:"passed"`
	Remarks     string   `json:"remarks"`
	Images      []string `json:"images"`
	InspectedBy string   `json:"inspectedBy" binding:"required"`
}

// ResolveRTOCommand sets the final disposition of the return
type ResolveRTOCommand struct {
	RTOID      string `json:"-"`
	Resolution string `json:"resolution" binding:"required"`
	ResolvedBy string `json:"resolvedBy" binding:"required"`
	LocationID string `json:"locationId"`
}

// ListRTOQuery pages through RTO events
type ListRTOQuery struct {
	WarehouseID string
	CompanyID   string
	OrderID     string
	Status      string
	Limit       int
	Offset      int
}
