package domain

import "time"

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

// RTOInitiatedEvent is raised when a return starts tracking
type RTOInitiatedEvent struct {
	RTOID       string     `json:"rtoId"`
	ShipmentID  string     `json:"shipmentId"`
	OrderID     string     `json:"orderId"`
	WarehouseID string     `json:"warehouseId"`
	Reason      RTOReason  `json:"reason"`
	TriggeredBy RTOTrigger `json:"triggeredBy"`
	Timestamp   time.Time  `json:"timestamp"`
}

func (e *RTOInitiatedEvent) EventType() string     { return "RTOInitiated" }
func (e *RTOInitiatedEvent) OccurredAt() time.Time { return e.Timestamp }

// RTOInTransitEvent is raised when the reverse leg starts moving
type RTOInTransitEvent struct {
	RTOID              string     `json:"rtoId"`
	ReverseAWB         string     `json:"reverseAwb"`
	ExpectedReturnDate *time.Time `json:"expectedReturnDate,omitempty"`
	Timestamp          time.Time  `json:"timestamp"`
}

func (e *RTOInTransitEvent) EventType() string     { return "RTOInTransit" }
func (e *RTOInTransitEvent) OccurredAt() time.Time { return e.Timestamp }

// RTODeliveredEvent is raised when the warehouse receives the return
type RTODeliveredEvent struct {
	RTOID            string    `json:"rtoId"`
	WarehouseID      string    `json:"warehouseId"`
	ActualReturnDate time.Time `json:"actualReturnDate"`
	Timestamp        time.Time `json:"timestamp"`
}

func (e *RTODeliveredEvent) EventType() string     { return "RTODelivered" }
func (e *RTODeliveredEvent) OccurredAt() time.Time { return e.Timestamp }

// RTOInspectedEvent is raised when the QC result is recorded
type RTOInspectedEvent struct {
	RTOID       string    `json:"rtoId"`
	Passed      bool      `json:"passed"`
	InspectedBy string    `json:"inspectedBy"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e *RTOInspectedEvent) EventType() string     { return "RTOInspected" }
func (e *RTOInspectedEvent) OccurredAt() time.Time { return e.Timestamp }

// RTOResolvedEvent is raised on final disposition
type RTOResolvedEvent struct {
	RTOID      string     `json:"rtoId"`
	Resolution Resolution `json:"resolution"`
	ResolvedBy string     `json:"resolvedBy"`
	Timestamp  time.Time  `json:"timestamp"`
}

func (e *RTOResolvedEvent) EventType() string     { return "RTOResolved" }
func (e *RTOResolvedEvent) OccurredAt() time.Time { return e.Timestamp }
