package cloudevents

import (
	"time"
)

// EventType constants for fulfillment domain events
const (
	// Inventory events
	SKURegistered       = "fulfillment.inventory.sku-registered"
	StockAdded          = "fulfillment.inventory.stock-added"
	StockAdjusted       = "fulfillment.inventory.stock-adjusted"
	StockReserved       = "fulfillment.inventory.stock-reserved"
	ReservationReleased = "fulfillment.inventory.reservation-released"
	ReservationConsumed = "fulfillment.inventory.reservation-consumed"
	StockMarkedDamaged  = "fulfillment.inventory.stock-marked-damaged"
	SKUDiscontinued     = "fulfillment.inventory.sku-discontinued"
	LowStockAlert       = "fulfillment.inventory.low-stock-alert"

	// Pick list events
	PickListGenerated = "fulfillment.picklist.generated"
	PickListAssigned  = "fulfillment.picklist.assigned"
	PickingStarted    = "fulfillment.picklist.started"
	ItemPicked        = "fulfillment.picklist.item-picked"
	ItemShortPicked   = "fulfillment.picklist.item-short-picked"
	PickListCompleted = "fulfillment.picklist.completed"
	PickListCancelled = "fulfillment.picklist.cancelled"

	// Packing events
	StationRegistered       = "fulfillment.packing.station-registered"
	PackingSessionStarted   = "fulfillment.packing.session-started"
	PackingItemVerified     = "fulfillment.packing.item-verified"
	WeightVerified          = "fulfillment.packing.weight-verified"
	WeightDiscrepancy       = "fulfillment.packing.weight-discrepancy"
	PackingSessionCompleted = "fulfillment.packing.session-completed"
	StationReleased         = "fulfillment.packing.station-released"

	// RTO events
	RTOInitiated = "fulfillment.rto.initiated"
	RTOInTransit = "fulfillment.rto.in-transit"
	RTOReceived  = "fulfillment.rto.received"
	RTOInspected = "fulfillment.rto.inspected"
	RTOResolved  = "fulfillment.rto.resolved"
)

// Source constants for event sources
const (
	SourceInventory = "/fulfillment/inventory-ledger"
	SourcePickList  = "/fulfillment/picklist-engine"
	SourcePacking   = "/fulfillment/packing-coordinator"
	SourceRTO       = "/fulfillment/rto-lifecycle"
)

// CloudEvent represents a CloudEvents v1.0 compliant fulfillment event
type CloudEvent struct {
	SpecVersion     string      `json:"specversion"`
	Type            string      `json:"type"`
	Source          string      `json:"source"`
	Subject         string      `json:"subject,omitempty"`
	ID              string      `json:"id"`
	Time            time.Time   `json:"time"`
	DataContentType string      `json:"datacontenttype"`
	Data            interface{} `json:"data"`

	// Fulfillment-specific extensions
	CorrelationID string `json:"fulfillmentcorrelationid,omitempty"`
	WarehouseID   string `json:"fulfillmentwarehouseid,omitempty"`
	OrderID       string `json:"fulfillmentorderid,omitempty"`
}

// StockAdjustedData represents the data payload for stock adjustment events
type StockAdjustedData struct {
	SKU           string `json:"sku"`
	WarehouseID   string `json:"warehouseId"`
	PreviousQty   int    `json:"previousQuantity"`
	NewQty        int    `json:"newQuantity"`
	MovementType  string `json:"movementType"`
	ReferenceType string `json:"referenceType,omitempty"`
	ReferenceID   string `json:"referenceId,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// StockReservedData represents the data payload for reservation events
type StockReservedData struct {
	SKU         string `json:"sku"`
	WarehouseID string `json:"warehouseId"`
	OrderID     string `json:"orderId"`
	Quantity    int    `json:"quantity"`
	Available   int    `json:"availableAfter"`
	Reserved    int    `json:"reservedAfter"`
}

// LowStockAlertData represents the data payload for low stock alerts
type LowStockAlertData struct {
	SKU              string `json:"sku"`
	WarehouseID      string `json:"warehouseId"`
	AvailableQty     int    `json:"availableQuantity"`
	ReorderThreshold int    `json:"reorderThreshold"`
}

// PickListGeneratedData represents the data payload for pick list generation
type PickListGeneratedData struct {
	PickListID string   `json:"pickListId"`
	Strategy   string   `json:"strategy"`
	OrderIDs   []string `json:"orderIds"`
	ItemCount  int      `json:"itemCount"`
}

// ItemPickedData represents the data payload for item pick events
type ItemPickedData struct {
	PickListID  string `json:"pickListId"`
	SKU         string `json:"sku"`
	BinLocation string `json:"binLocation"`
	Quantity    int    `json:"quantityPicked"`
	Short       bool   `json:"short"`
}

// PackingSessionData represents the data payload for packing session events
type PackingSessionData struct {
	SessionID   string `json:"sessionId"`
	StationCode string `json:"stationCode"`
	PickListID  string `json:"pickListId"`
	PackerID    string `json:"packerId"`
}

// WeightVerificationData represents the data payload for weight verification events
type WeightVerificationData struct {
	SessionID      string  `json:"sessionId"`
	StationCode    string  `json:"stationCode"`
	ExpectedWeight float64 `json:"expectedWeightGrams"`
	ActualWeight   float64 `json:"actualWeightGrams"`
	Tolerance      float64 `json:"tolerancePercent"`
	Passed         bool    `json:"passed"`
}

// RTOEventData represents the data payload for RTO lifecycle events
type RTOEventData struct {
	RTOID      string `json:"rtoId"`
	AWB        string `json:"awb"`
	ReverseAWB string `json:"reverseAwb,omitempty"`
	OrderID    string `json:"orderId"`
	Status     string `json:"status"`
	Resolution string `json:"resolution,omitempty"`
}
