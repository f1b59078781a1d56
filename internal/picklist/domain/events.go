package domain

import "time"

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

// PickListGeneratedEvent is raised when a pick list is created
type PickListGeneratedEvent struct {
	PickListID  string    `json:"pickListId"`
	WarehouseID string    `json:"warehouseId"`
	Strategy    string    `json:"strategy"`
	OrderIDs    []string  `json:"orderIds"`
	ItemCount   int       `json:"itemCount"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e *PickListGeneratedEvent) EventType() string     { return "PickListGenerated" }
func (e *PickListGeneratedEvent) OccurredAt() time.Time { return e.Timestamp }

// PickListAssignedEvent is raised when a picker takes a pick list
type PickListAssignedEvent struct {
	PickListID string    `json:"pickListId"`
	PickerID   string    `json:"pickerId"`
	Timestamp  time.Time `json:"timestamp"`
}

func (e *PickListAssignedEvent) EventType() string     { return "PickListAssigned" }
func (e *PickListAssignedEvent) OccurredAt() time.Time { return e.Timestamp }

// PickingStartedEvent is raised when a picker starts the walk
type PickingStartedEvent struct {
	PickListID string    `json:"pickListId"`
	PickerID   string    `json:"pickerId"`
	Timestamp  time.Time `json:"timestamp"`
}

func (e *PickingStartedEvent) EventType() string     { return "PickingStarted" }
func (e *PickingStartedEvent) OccurredAt() time.Time { return e.Timestamp }

// ItemPickedEvent is raised for every recorded line result, full or short
type ItemPickedEvent struct {
	PickListID string    `json:"pickListId"`
	Sequence   int       `json:"sequence"`
	OrderID    string    `json:"orderId"`
	SKU        string    `json:"sku"`
	LocationID string    `json:"locationId"`
	Quantity   int       `json:"quantity"`
	Short      bool      `json:"short"`
	Timestamp  time.Time `json:"timestamp"`
}

func (e *ItemPickedEvent) EventType() string     { return "ItemPicked" }
func (e *ItemPickedEvent) OccurredAt() time.Time { return e.Timestamp }

// PickListCompletedEvent is raised when the entire pick list has results
type PickListCompletedEvent struct {
	PickListID  string    `json:"pickListId"`
	WarehouseID string    `json:"warehouseId"`
	PickerID    string    `json:"pickerId"`
	PickedLines int       `json:"pickedLines"`
	ShortLines  int       `json:"shortLines"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e *PickListCompletedEvent) EventType() string     { return "PickListCompleted" }
func (e *PickListCompletedEvent) OccurredAt() time.Time { return e.Timestamp }

// PickListCancelledEvent is raised when a pick list is aborted
type PickListCancelledEvent struct {
	PickListID string    `json:"pickListId"`
	Reason     string    `json:"reason,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

func (e *PickListCancelledEvent) EventType() string     { return "PickListCancelled" }
func (e *PickListCancelledEvent) OccurredAt() time.Time { return e.Timestamp }
