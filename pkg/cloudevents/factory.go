package cloudevents

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventFactory creates CloudEvents for fulfillment domain events
type EventFactory struct {
	source string
}

// NewEventFactory creates a new EventFactory for a specific source
func NewEventFactory(source string) *EventFactory {
	return &EventFactory{source: source}
}

// CreateEvent creates a new CloudEvent with the given parameters
func (f *EventFactory) CreateEvent(
	ctx context.Context,
	eventType string,
	subject string,
	data interface{},
) *CloudEvent {
	event := &CloudEvent{
		SpecVersion:     "1.0",
		Type:            eventType,
		Source:          f.source,
		Subject:         subject,
		ID:              uuid.New().String(),
		Time:            time.Now().UTC(),
		DataContentType: "application/json",
		Data:            data,
	}

	return event
}

// CreateEventWithCorrelation creates an event with correlation tracking
func (f *EventFactory) CreateEventWithCorrelation(
	ctx context.Context,
	eventType string,
	subject string,
	data interface{},
	correlationID string,
) *CloudEvent {
	event := f.CreateEvent(ctx, eventType, subject, data)
	event.CorrelationID = correlationID
	return event
}

// CreateStockAdjustedEvent creates a StockAdjusted event
func (f *EventFactory) CreateStockAdjustedEvent(
	ctx context.Context,
	sku string,
	warehouseID string,
	previousQty int,
	newQty int,
	movementType string,
	reason string,
) *CloudEvent {
	data := StockAdjustedData{
		SKU:          sku,
		WarehouseID:  warehouseID,
		PreviousQty:  previousQty,
		NewQty:       newQty,
		MovementType: movementType,
		Reason:       reason,
	}
	event := f.CreateEvent(ctx, StockAdjusted, "inventory/"+warehouseID+"/"+sku, data)
	event.WarehouseID = warehouseID
	return event
}

// CreateStockReservedEvent creates a StockReserved event
func (f *EventFactory) CreateStockReservedEvent(
	ctx context.Context,
	sku string,
	warehouseID string,
	orderID string,
	quantity int,
	availableAfter int,
	reservedAfter int,
) *CloudEvent {
	data := StockReservedData{
		SKU:         sku,
		WarehouseID: warehouseID,
		OrderID:     orderID,
		Quantity:    quantity,
		Available:   availableAfter,
		Reserved:    reservedAfter,
	}
	event := f.CreateEvent(ctx, StockReserved, "inventory/"+warehouseID+"/"+sku, data)
	event.WarehouseID = warehouseID
	event.OrderID = orderID
	return event
}

// CreateLowStockAlertEvent creates a LowStockAlert event
func (f *EventFactory) CreateLowStockAlertEvent(
	ctx context.Context,
	sku string,
	warehouseID string,
	availableQty int,
	reorderThreshold int,
) *CloudEvent {
	data := LowStockAlertData{
		SKU:              sku,
		WarehouseID:      warehouseID,
		AvailableQty:     availableQty,
		ReorderThreshold: reorderThreshold,
	}
	event := f.CreateEvent(ctx, LowStockAlert, "inventory/"+warehouseID+"/"+sku, data)
	event.WarehouseID = warehouseID
	return event
}

// CreatePickListGeneratedEvent creates a PickListGenerated event
func (f *EventFactory) CreatePickListGeneratedEvent(
	ctx context.Context,
	pickListID string,
	strategy string,
	orderIDs []string,
	itemCount int,
) *CloudEvent {
	data := PickListGeneratedData{
		PickListID: pickListID,
		Strategy:   strategy,
		OrderIDs:   orderIDs,
		ItemCount:  itemCount,
	}
	return f.CreateEvent(ctx, PickListGenerated, "pick-list/"+pickListID, data)
}

// CreateItemPickedEvent creates an ItemPicked event
func (f *EventFactory) CreateItemPickedEvent(
	ctx context.Context,
	pickListID string,
	sku string,
	binLocation string,
	quantityPicked int,
	short bool,
) *CloudEvent {
	data := ItemPickedData{
		PickListID:  pickListID,
		SKU:         sku,
		BinLocation: binLocation,
		Quantity:    quantityPicked,
		Short:       short,
	}
	eventType := ItemPicked
	if short {
		eventType = ItemShortPicked
	}
	return f.CreateEvent(ctx, eventType, "pick-list/"+pickListID, data)
}

// CreatePackingSessionEvent creates a packing session lifecycle event
func (f *EventFactory) CreatePackingSessionEvent(
	ctx context.Context,
	eventType string,
	sessionID string,
	stationCode string,
	pickListID string,
	packerID string,
) *CloudEvent {
	data := PackingSessionData{
		SessionID:   sessionID,
		StationCode: stationCode,
		PickListID:  pickListID,
		PackerID:    packerID,
	}
	return f.CreateEvent(ctx, eventType, "packing-session/"+sessionID, data)
}

// CreateWeightVerificationEvent creates a weight verification event
func (f *EventFactory) CreateWeightVerificationEvent(
	ctx context.Context,
	sessionID string,
	stationCode string,
	expectedWeight float64,
	actualWeight float64,
	tolerance float64,
	passed bool,
) *CloudEvent {
	data := WeightVerificationData{
		SessionID:      sessionID,
		StationCode:    stationCode,
		ExpectedWeight: expectedWeight,
		ActualWeight:   actualWeight,
		Tolerance:      tolerance,
		Passed:         passed,
	}
	eventType := WeightVerified
	if !passed {
		eventType = WeightDiscrepancy
	}
	return f.CreateEvent(ctx, eventType, "packing-session/"+sessionID, data)
}

// CreateRTOEvent creates an RTO lifecycle event
func (f *EventFactory) CreateRTOEvent(
	ctx context.Context,
	eventType string,
	rtoID string,
	awb string,
	reverseAWB string,
	orderID string,
	status string,
	resolution string,
) *CloudEvent {
	data := RTOEventData{
		RTOID:      rtoID,
		AWB:        awb,
		ReverseAWB: reverseAWB,
		OrderID:    orderID,
		Status:     status,
		Resolution: resolution,
	}
	event := f.CreateEvent(ctx, eventType, "rto/"+rtoID, data)
	event.OrderID = orderID
	return event
}
