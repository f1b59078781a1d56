package domain

import "time"

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

// StationRegisteredEvent is raised when a packing station is registered
type StationRegisteredEvent struct {
	StationCode string    `json:"stationCode"`
	WarehouseID string    `json:"warehouseId"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e *StationRegisteredEvent) EventType() string     { return "StationRegistered" }
func (e *StationRegisteredEvent) OccurredAt() time.Time { return e.Timestamp }

// SessionStartedEvent is raised when a packing session opens
type SessionStartedEvent struct {
	SessionID   string    `json:"sessionId"`
	StationCode string    `json:"stationCode"`
	OrderID     string    `json:"orderId"`
	PickListID  string    `json:"pickListId"`
	PackerID    string    `json:"packerId"`
	ItemCount   int       `json:"itemCount"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e *SessionStartedEvent) EventType() string     { return "SessionStarted" }
func (e *SessionStartedEvent) OccurredAt() time.Time { return e.Timestamp }

// ItemPackedEvent is raised for every packed item scan
type ItemPackedEvent struct {
	SessionID   string    `json:"sessionId"`
	StationCode string    `json:"stationCode"`
	SKU         string    `json:"sku"`
	Quantity    int       `json:"quantity"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e *ItemPackedEvent) EventType() string     { return "ItemPacked" }
func (e *ItemPackedEvent) OccurredAt() time.Time { return e.Timestamp }

// WeightCheckedEvent is raised after a weight verification, pass or fail
type WeightCheckedEvent struct {
	SessionID   string    `json:"sessionId"`
	StationCode string    `json:"stationCode"`
	Expected    float64   `json:"expected"`
	Actual      float64   `json:"actual"`
	Tolerance   float64   `json:"tolerance"`
	Passed      bool      `json:"passed"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e *WeightCheckedEvent) EventType() string     { return "WeightChecked" }
func (e *WeightCheckedEvent) OccurredAt() time.Time { return e.Timestamp }

// SessionCompletedEvent is raised when a session closes and the station frees
type SessionCompletedEvent struct {
	SessionID   string    `json:"sessionId"`
	StationCode string    `json:"stationCode"`
	OrderID     string    `json:"orderId"`
	PickListID  string    `json:"pickListId"`
	PackerID    string    `json:"packerId"`
	TotalPacked int       `json:"totalPacked"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e *SessionCompletedEvent) EventType() string     { return "SessionCompleted" }
func (e *SessionCompletedEvent) OccurredAt() time.Time { return e.Timestamp }
