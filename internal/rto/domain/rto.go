package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrRTONotFound        = errors.New("rto event not found")
	ErrShipmentIDRequired = errors.New("shipment id is required")
	ErrOrderIDRequired    = errors.New("order id is required")
	ErrWarehouseRequired  = errors.New("warehouse id is required")
	ErrInvalidReason      = errors.New("invalid rto reason")
	ErrInvalidTrigger     = errors.New("invalid rto trigger")
	ErrInvalidResolution  = errors.New("invalid rto resolution")
	ErrAlreadyResolved    = errors.New("rto event is already resolved")
	ErrNoItems            = errors.New("at least one rto item is required")
	ErrVersionConflict    = errors.New("rto event was modified concurrently")
)

// RTOStatus tracks a return through receipt, inspection and resolution
type RTOStatus string

const (
	RTOInitiated   RTOStatus = "INITIATED"
	RTOInTransit   RTOStatus = "IN_TRANSIT"
	RTODelivered   RTOStatus = "DELIVERED_TO_WAREHOUSE"
	RTOQCPending   RTOStatus = "QC_PENDING"
	RTOQCCompleted RTOStatus = "QC_COMPLETED"
	RTORestocked   RTOStatus = "RESTOCKED"
	RTODisposed    RTOStatus = "DISPOSED"
)

func (s RTOStatus) IsValid() bool {
	switch s {
	case RTOInitiated, RTOInTransit, RTODelivered, RTOQCPending, RTOQCCompleted, RTORestocked, RTODisposed:
		return true
	}
	return false
}

func (s RTOStatus) IsTerminal() bool {
	return s == RTORestocked || s == RTODisposed
}

var validTransitions = map[RTOStatus][]RTOStatus{
	RTOInitiated:   {RTOInTransit},
	RTOInTransit:   {RTODelivered},
	RTODelivered:   {RTOQCPending, RTOQCCompleted},
	RTOQCPending:   {RTOQCCompleted},
	RTOQCCompleted: {RTORestocked, RTODisposed},
}

func (s RTOStatus) canTransitionTo(target RTOStatus) bool {
	for _, next := range validTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

func transitionError(from, to RTOStatus) error {
	return fmt.Errorf("cannot transition rto event from %s to %s", from, to)
}

// RTOReason classifies why the shipment came back
type RTOReason string

const (
	ReasonNDRUnresolved        RTOReason = "NDR_UNRESOLVED"
	ReasonCustomerCancellation RTOReason = "CUSTOMER_CANCELLATION"
	ReasonQCFailure            RTOReason = "QC_FAILURE"
	ReasonRefused              RTOReason = "REFUSED"
	ReasonDamagedInTransit     RTOReason = "DAMAGED_IN_TRANSIT"
	ReasonIncorrectProduct     RTOReason = "INCORRECT_PRODUCT"
	ReasonOther                RTOReason = "OTHER"
)

func (r RTOReason) IsValid() bool {
	switch r {
	case ReasonNDRUnresolved, ReasonCustomerCancellation, ReasonQCFailure, ReasonRefused,
		ReasonDamagedInTransit, ReasonIncorrectProduct, ReasonOther:
		return true
	}
	return false
}

// RTOTrigger records whether the carrier webhook or an operator started the return
type RTOTrigger string

const (
	TriggerAuto   RTOTrigger = "AUTO"
	TriggerManual RTOTrigger = "MANUAL"
)

func (t RTOTrigger) IsValid() bool {
	return t == TriggerAuto || t == TriggerManual
}

// Resolution is the final disposition of a returned shipment
type Resolution string

const (
	ResolutionRestock Resolution = "RESTOCK"
	ResolutionDispose Resolution = "DISPOSE"
)

func (r Resolution) IsValid() bool {
	return r == ResolutionRestock || r == ResolutionDispose
}

// RTOItem is one returned order line
type RTOItem struct {
	SKU      string `bson:"sku" json:"sku"`
	Quantity int    `bson:"quantity" json:"quantity"`
}

// QCResult holds the inspection outcome for a returned shipment
type QCResult struct {
	Passed      bool      `bson:"passed" json:"passed"`
	Remarks     string    `bson:"remarks,omitempty" json:"remarks,omitempty"`
	Images      []string  `bson:"images,omitempty" json:"images,omitempty"`
	InspectedBy string    `bson:"inspectedBy" json:"inspectedBy"`
	InspectedAt time.Time `bson:"inspectedAt" json:"inspectedAt"`
}

// NotificationPayload is the seller-facing summary sent when a return starts moving
type NotificationPayload struct {
	AWB                string     `json:"awb"`
	ReverseAWB         string     `json:"reverseAwb"`
	ExpectedReturnDate *time.Time `json:"expectedReturnDate,omitempty"`
	RTOReason          RTOReason  `json:"rtoReason"`
	RequiresQC         bool       `json:"requiresQC"`
}

// RTOEvent is the aggregate tracking one return-to-origin shipment from
// carrier trigger through warehouse receipt, inspection and final
// disposition. Resolution is single shot: once restocked or disposed the
// event is terminal and further writes are rejected.
type RTOEvent struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RTOID              string             `bson:"rtoId" json:"rtoId"`
	ShipmentID         string             `bson:"shipmentId" json:"shipmentId"`
	OrderID            string             `bson:"orderId" json:"orderId"`
	CompanyID          string             `bson:"companyId" json:"companyId"`
	WarehouseID        string             `bson:"warehouseId" json:"warehouseId"`
	AWB                string             `bson:"awb,omitempty" json:"awb,omitempty"`
	ReverseAWB         string             `bson:"reverseAwb,omitempty" json:"reverseAwb,omitempty"`
	Reason             RTOReason          `bson:"reason" json:"reason"`
	TriggeredBy        RTOTrigger         `bson:"triggeredBy" json:"triggeredBy"`
	Status             RTOStatus          `bson:"status" json:"status"`
	Items              []RTOItem          `bson:"items" json:"items"`
	RequiresQC         bool               `bson:"requiresQC" json:"requiresQC"`
	QCResult           *QCResult          `bson:"qcResult,omitempty" json:"qcResult,omitempty"`
	Resolution         Resolution         `bson:"resolution,omitempty" json:"resolution,omitempty"`
	RTOCharges         float64            `bson:"rtoCharges,omitempty" json:"rtoCharges,omitempty"`
	ChargesDeducted    bool               `bson:"chargesDeducted" json:"chargesDeducted"`
	ExpectedReturnDate *time.Time         `bson:"expectedReturnDate,omitempty" json:"expectedReturnDate,omitempty"`
	ActualReturnDate   *time.Time         `bson:"actualReturnDate,omitempty" json:"actualReturnDate,omitempty"`
	InitiatedAt        time.Time          `bson:"initiatedAt" json:"initiatedAt"`
	ResolvedAt         *time.Time         `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
	Version            int64              `bson:"version" json:"-"`

	DomainEvents []DomainEvent `bson:"-" json:"-"`
}

func newRTOID() string {
	return "RTO-" + strings.Split(uuid.New().String(), "-")[0]
}

// NewRTOEvent starts tracking a return for a shipment the carrier could
// not deliver
func NewRTOEvent(shipmentID, orderID, companyID, warehouseID, awb string, reason RTOReason, triggeredBy RTOTrigger, items []RTOItem, requiresQC bool) (*RTOEvent, error) {
	if strings.TrimSpace(shipmentID) == "" {
		return nil, ErrShipmentIDRequired
	}
	if strings.TrimSpace(orderID) == "" {
		return nil, ErrOrderIDRequired
	}
	if strings.TrimSpace(warehouseID) == "" {
		return nil, ErrWarehouseRequired
	}
	if !reason.IsValid() {
		return nil, ErrInvalidReason
	}
	if !triggeredBy.IsValid() {
		return nil, ErrInvalidTrigger
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	for _, item := range items {
		if item.SKU == "" || item.Quantity <= 0 {
			return nil, fmt.Errorf("invalid rto item %q: quantity must be positive", item.SKU)
		}
	}

	now := time.Now().UTC()
	rto := &RTOEvent{
		RTOID:       newRTOID(),
		ShipmentID:  shipmentID,
		OrderID:     orderID,
		CompanyID:   companyID,
		WarehouseID: warehouseID,
		AWB:         awb,
		Reason:      reason,
		TriggeredBy: triggeredBy,
		Status:      RTOInitiated,
		Items:       items,
		RequiresQC:  requiresQC,
		InitiatedAt: now,
		UpdatedAt:   now,
	}

	rto.AddDomainEvent(&RTOInitiatedEvent{
		RTOID:       rto.RTOID,
		ShipmentID:  shipmentID,
		OrderID:     orderID,
		WarehouseID: warehouseID,
		Reason:      reason,
		TriggeredBy: triggeredBy,
		Timestamp:   now,
	})
	return rto, nil
}

// MarkInTransit records the reverse shipment leg starting back to the warehouse
func (r *RTOEvent) MarkInTransit(reverseAWB string, expectedReturnDate *time.Time) error {
	if !r.Status.canTransitionTo(RTOInTransit) {
		return transitionError(r.Status, RTOInTransit)
	}

	now := time.Now().UTC()
	r.Status = RTOInTransit
	r.ReverseAWB = reverseAWB
	r.ExpectedReturnDate = expectedReturnDate
	r.UpdatedAt = now

	r.AddDomainEvent(&RTOInTransitEvent{
		RTOID:              r.RTOID,
		ReverseAWB:         reverseAWB,
		ExpectedReturnDate: expectedReturnDate,
		Timestamp:          now,
	})
	return nil
}

// MarkDelivered records warehouse receipt of the return. Shipments that do
// not need inspection go straight to QC_COMPLETED so they can be resolved.
func (r *RTOEvent) MarkDelivered(actualReturnDate time.Time) error {
	if !r.Status.canTransitionTo(RTODelivered) {
		return transitionError(r.Status, RTODelivered)
	}

	now := time.Now().UTC()
	r.Status = RTODelivered
	r.ActualReturnDate = &actualReturnDate
	r.UpdatedAt = now

	r.AddDomainEvent(&RTODeliveredEvent{
		RTOID:            r.RTOID,
		WarehouseID:      r.WarehouseID,
		ActualReturnDate: actualReturnDate,
		Timestamp:        now,
	})

	if r.RequiresQC {
		r.Status = RTOQCPending
	} else {
		r.Status = RTOQCCompleted
	}
	return nil
}

// RecordQCResult stores the inspection outcome. A failed inspection is a
// recorded result, not an error, and still moves the event to QC_COMPLETED.
func (r *RTOEvent) RecordQCResult(passed bool, remarks string, images []string, inspectedBy string) error {
	if !r.Status.canTransitionTo(RTOQCCompleted) {
		return transitionError(r.Status, RTOQCCompleted)
	}
	if strings.TrimSpace(inspectedBy) == "" {
		return errors.New("inspector id is required")
	}

	now := time.Now().UTC()
	r.QCResult = &QCResult{
		Passed:      passed,
		Remarks:     remarks,
		Images:      images,
		InspectedBy: inspectedBy,
		InspectedAt: now,
	}
	r.Status = RTOQCCompleted
	r.UpdatedAt = now

	r.AddDomainEvent(&RTOInspectedEvent{
		RTOID:       r.RTOID,
		Passed:      passed,
		InspectedBy: inspectedBy,
		Timestamp:   now,
	})
	return nil
}

// AssessCharges records the reverse logistics fee charged back to the seller
func (r *RTOEvent) AssessCharges(amount float64) error {
	if amount < 0 {
		return errors.New("invalid rto charges: amount must not be negative")
	}
	if r.Status.IsTerminal() {
		return ErrAlreadyResolved
	}
	r.RTOCharges = amount
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// Resolve records the final disposition. Only QC_COMPLETED events can be
// resolved and the transition happens exactly once. Any assessed charges
// are marked deducted at resolution.
func (r *RTOEvent) Resolve(resolution Resolution, resolvedBy string) error {
	if !resolution.IsValid() {
		return ErrInvalidResolution
	}
	if r.Status.IsTerminal() {
		return ErrAlreadyResolved
	}

	target := RTORestocked
	if resolution == ResolutionDispose {
		target = RTODisposed
	}
	if !r.Status.canTransitionTo(target) {
		return transitionError(r.Status, target)
	}

	now := time.Now().UTC()
	r.Status = target
	r.Resolution = resolution
	r.ChargesDeducted = r.RTOCharges > 0
	r.ResolvedAt = &now
	r.UpdatedAt = now

	r.AddDomainEvent(&RTOResolvedEvent{
		RTOID:      r.RTOID,
		Resolution: resolution,
		ResolvedBy: resolvedBy,
		Timestamp:  now,
	})
	return nil
}

// Notification builds the seller-facing payload for return updates
func (r *RTOEvent) Notification() NotificationPayload {
	return NotificationPayload{
		AWB:                r.AWB,
		ReverseAWB:         r.ReverseAWB,
		ExpectedReturnDate: r.ExpectedReturnDate,
		RTOReason:          r.Reason,
		RequiresQC:         r.RequiresQC,
	}
}

// AddDomainEvent adds a domain event to the aggregate
func (r *RTOEvent) AddDomainEvent(event DomainEvent) {
	r.DomainEvents = append(r.DomainEvents, event)
}

// ClearDomainEvents clears all domain events after they are published
func (r *RTOEvent) ClearDomainEvents() {
	r.DomainEvents = nil
}
