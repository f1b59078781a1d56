package domain

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Domain errors
var (
	ErrStationNotFound   = errors.New("packing station not found")
	ErrStationOccupied   = errors.New("packing station is occupied")
	ErrStationOffline    = errors.New("packing station is offline")
	ErrStationConflict   = errors.New("packing station was modified concurrently")
	ErrNoActiveSession   = errors.New("no active packing session")
	ErrWrongPacker       = errors.New("station is assigned to a different packer")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrSessionItemAbsent = errors.New("sku is not part of the packing session")
	ErrInvalidWeight     = errors.New("expected weight must be positive")
)

// StationStatus represents the operational state of a packing station
type StationStatus string

const (
	StationAvailable   StationStatus = "AVAILABLE"
	StationOccupied    StationStatus = "OCCUPIED"
	StationOffline     StationStatus = "OFFLINE"
	StationMaintenance StationStatus = "MAINTENANCE"
)

// IsValid checks if the status is valid
func (s StationStatus) IsValid() bool {
	switch s {
	case StationAvailable, StationOccupied, StationOffline, StationMaintenance:
		return true
	default:
		return false
	}
}

// SessionItem is one line of a packing session. Packed counts are advisory
// while packing; mismatches surface at completion, not per scan.
type SessionItem struct {
	SKU              string `bson:"sku" json:"sku"`
	QuantityRequired int    `bson:"quantityRequired" json:"quantityRequired"`
	QuantityPacked   int    `bson:"quantityPacked" json:"quantityPacked"`
}

// WeightCheck is the result of a weight verification
type WeightCheck struct {
	ExpectedWeight  float64   `bson:"expectedWeight" json:"expectedWeight"`
	ActualWeight    float64   `bson:"actualWeight" json:"actualWeight"`
	Tolerance       float64   `bson:"tolerance" json:"tolerance"`
	VariancePercent float64   `bson:"variancePercent" json:"variancePercent"`
	Passed          bool      `bson:"passed" json:"passed"`
	CheckedAt       time.Time `bson:"checkedAt" json:"checkedAt"`
}

// PackingSession is the unit of work at a station: one order packed by one
// packer. The station owns at most one session at a time; the value is
// replaced wholesale when the next session starts.
type PackingSession struct {
	SessionID   string        `bson:"sessionId" json:"sessionId"`
	OrderID     string        `bson:"orderId" json:"orderId"`
	OrderNumber string        `bson:"orderNumber,omitempty" json:"orderNumber,omitempty"`
	PickListID  string        `bson:"pickListId,omitempty" json:"pickListId,omitempty"`
	PackerID    string        `bson:"packerId" json:"packerId"`
	Items       []SessionItem `bson:"items" json:"items"`
	WeightCheck *WeightCheck  `bson:"weightCheck,omitempty" json:"weightCheck,omitempty"`
	StartedAt   time.Time     `bson:"startedAt" json:"startedAt"`
}

// TotalPacked returns the total packed quantity across session lines
func (s *PackingSession) TotalPacked() int {
	total := 0
	for _, item := range s.Items {
		total += item.QuantityPacked
	}
	return total
}

// PackingStation is the aggregate root of the packing coordinator. The
// single-occupancy invariant is enforced by a conditional status check at
// assignment time, mirrored by the repository's conditional update.
type PackingStation struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	StationCode    string             `bson:"stationCode"`
	WarehouseID    string             `bson:"warehouseId"`
	Status         StationStatus      `bson:"status"`
	Capabilities   []string           `bson:"capabilities,omitempty"`
	AssignedTo     string             `bson:"assignedTo,omitempty"`
	CurrentSession *PackingSession    `bson:"currentSession,omitempty"`
	OfflineReason  string             `bson:"offlineReason,omitempty"`
	Version        int64              `bson:"version"`
	CreatedAt      time.Time          `bson:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt"`
	DomainEvents   []DomainEvent      `bson:"-"`
}

// NewPackingStation registers a station as available
func NewPackingStation(warehouseID, stationCode string, capabilities []string) (*PackingStation, error) {
	if warehouseID == "" {
		return nil, errors.New("warehouse id is required")
	}
	if stationCode == "" {
		return nil, errors.New("station code is required")
	}

	now := time.Now().UTC()
	station := &PackingStation{
		ID:           primitive.NewObjectID(),
		StationCode:  stationCode,
		WarehouseID:  warehouseID,
		Status:       StationAvailable,
		Capabilities: capabilities,
		Version:      0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	station.AddDomainEvent(&StationRegisteredEvent{
		StationCode: stationCode,
		WarehouseID: warehouseID,
		Timestamp:   now,
	})

	return station, nil
}

// AssignPacker claims the station for a packer. Only an AVAILABLE station
// can be claimed; everything else is an occupancy conflict surfaced to the
// caller, never silently queued.
func (s *PackingStation) AssignPacker(packerID string) error {
	if packerID == "" {
		return errors.New("packer id is required")
	}
	switch s.Status {
	case StationAvailable:
	case StationOccupied:
		return ErrStationOccupied
	default:
		return ErrStationOffline
	}

	now := time.Now().UTC()
	s.Status = StationOccupied
	s.AssignedTo = packerID
	s.UpdatedAt = now

	return nil
}

// StartSession opens a packing session for an order. The station must be
// OCCUPIED by the same packer that claims the session.
func (s *PackingStation) StartSession(pickListID, orderID, orderNumber, packerID string, items []SessionItem) error {
	if s.Status != StationOccupied {
		return fmt.Errorf("cannot start session on %s station", s.Status)
	}
	if s.AssignedTo != packerID {
		return ErrWrongPacker
	}
	if len(items) == 0 {
		return errors.New("session must have at least one item")
	}
	for i := range items {
		if items[i].QuantityRequired <= 0 {
			return ErrInvalidQuantity
		}
		items[i].QuantityPacked = 0
	}

	now := time.Now().UTC()
	s.CurrentSession = &PackingSession{
		SessionID:   "PS-" + uuid.New().String()[:8],
		OrderID:     orderID,
		OrderNumber: orderNumber,
		PickListID:  pickListID,
		PackerID:    packerID,
		Items:       items,
		StartedAt:   now,
	}
	s.UpdatedAt = now

	s.AddDomainEvent(&SessionStartedEvent{
		SessionID:   s.CurrentSession.SessionID,
		StationCode: s.StationCode,
		OrderID:     orderID,
		PickListID:  pickListID,
		PackerID:    packerID,
		ItemCount:   len(items),
		Timestamp:   now,
	})

	return nil
}

// PackItem increments the packed counter for a SKU in the active session.
// Overpack is not validated here; discrepancies surface at completion.
func (s *PackingStation) PackItem(sku string, quantity int) error {
	if s.CurrentSession == nil {
		return ErrNoActiveSession
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	for i := range s.CurrentSession.Items {
		if s.CurrentSession.Items[i].SKU == sku {
			s.CurrentSession.Items[i].QuantityPacked += quantity
			s.UpdatedAt = time.Now().UTC()

			s.AddDomainEvent(&ItemPackedEvent{
				SessionID:   s.CurrentSession.SessionID,
				StationCode: s.StationCode,
				SKU:         sku,
				Quantity:    quantity,
				Timestamp:   s.UpdatedAt,
			})
			return nil
		}
	}
	return ErrSessionItemAbsent
}

// VerifyWeight computes the weight check for a package. Pure computation; a
// failed check is a result, not an error.
func VerifyWeight(expectedWeight, actualWeight, tolerancePercent float64) (WeightCheck, error) {
	if expectedWeight <= 0 {
		return WeightCheck{}, ErrInvalidWeight
	}

	variance := math.Abs(actualWeight-expectedWeight) / expectedWeight * 100
	return WeightCheck{
		ExpectedWeight:  expectedWeight,
		ActualWeight:    actualWeight,
		Tolerance:       tolerancePercent,
		VariancePercent: variance,
		Passed:          variance <= tolerancePercent,
		CheckedAt:       time.Now().UTC(),
	}, nil
}

// RecordWeightCheck attaches a weight check to the active session
func (s *PackingStation) RecordWeightCheck(check WeightCheck) error {
	if s.CurrentSession == nil {
		return ErrNoActiveSession
	}

	s.CurrentSession.WeightCheck = &check
	s.UpdatedAt = time.Now().UTC()

	s.AddDomainEvent(&WeightCheckedEvent{
		SessionID:   s.CurrentSession.SessionID,
		StationCode: s.StationCode,
		Expected:    check.ExpectedWeight,
		Actual:      check.ActualWeight,
		Tolerance:   check.Tolerance,
		Passed:      check.Passed,
		Timestamp:   s.UpdatedAt,
	})

	return nil
}

// CompleteSession closes the session and always returns the station to
// AVAILABLE. The completed session is returned for the shipment handoff.
func (s *PackingStation) CompleteSession() (*PackingSession, error) {
	if s.CurrentSession == nil {
		return nil, ErrNoActiveSession
	}

	now := time.Now().UTC()
	completed := s.CurrentSession
	s.CurrentSession = nil
	s.AssignedTo = ""
	s.Status = StationAvailable
	s.UpdatedAt = now

	s.AddDomainEvent(&SessionCompletedEvent{
		SessionID:   completed.SessionID,
		StationCode: s.StationCode,
		OrderID:     completed.OrderID,
		PickListID:  completed.PickListID,
		PackerID:    completed.PackerID,
		TotalPacked: completed.TotalPacked(),
		Timestamp:   now,
	})

	return completed, nil
}

// ReleaseStation frees an occupied station without completing a session,
// for example when a packer walks away before starting one.
func (s *PackingStation) ReleaseStation() error {
	if s.Status != StationOccupied {
		return fmt.Errorf("cannot release %s station", s.Status)
	}
	if s.CurrentSession != nil {
		return errors.New("station has an active session")
	}

	s.Status = StationAvailable
	s.AssignedTo = ""
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// SetOffline takes the station out of rotation. Allowed only when no
// session is active.
func (s *PackingStation) SetOffline(status StationStatus, reason string) error {
	if status != StationOffline && status != StationMaintenance {
		return fmt.Errorf("invalid offline status: %s", status)
	}
	if s.CurrentSession != nil {
		return errors.New("station has an active session")
	}

	s.Status = status
	s.AssignedTo = ""
	s.OfflineReason = reason
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// SetOnline returns an offline station to rotation
func (s *PackingStation) SetOnline() error {
	if s.Status != StationOffline && s.Status != StationMaintenance {
		return fmt.Errorf("station is not offline, status is %s", s.Status)
	}

	s.Status = StationAvailable
	s.OfflineReason = ""
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// AddDomainEvent adds a domain event to the station
func (s *PackingStation) AddDomainEvent(event DomainEvent) {
	s.DomainEvents = append(s.DomainEvents, event)
}

// ClearDomainEvents clears all domain events after they have been published
func (s *PackingStation) ClearDomainEvents() {
	s.DomainEvents = []DomainEvent{}
}
