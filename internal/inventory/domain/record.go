package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Domain errors
var (
	ErrRecordNotFound      = errors.New("inventory record not found")
	ErrDuplicateSKU        = errors.New("sku already registered in warehouse")
	ErrInvalidQuantity     = errors.New("quantity must be positive")
	ErrInsufficientStock   = errors.New("insufficient available stock")
	ErrOverRelease         = errors.New("release quantity exceeds reserved")
	ErrInvalidAdjustment   = errors.New("invalid adjustment: resulting quantity negative or below reserved")
	ErrLocationNotFound    = errors.New("bin location not found")
	ErrDiscontinued        = errors.New("sku is discontinued")
	ErrVersionConflict     = errors.New("inventory record was modified concurrently")
	ErrDuplicateMovement   = errors.New("stock movement already recorded for this reference")
	ErrInvalidStatus       = errors.New("invalid inventory status")
	ErrWarehouseIDRequired = errors.New("warehouse id is required")
	ErrCompanyIDRequired   = errors.New("company id is required")
	ErrSKURequired         = errors.New("sku is required")
	ErrProductNameRequired = errors.New("product name is required")
)

// InventoryStatus represents the derived lifecycle status of a record
type InventoryStatus string

const (
	StatusActive       InventoryStatus = "ACTIVE"
	StatusLowStock     InventoryStatus = "LOW_STOCK"
	StatusOutOfStock   InventoryStatus = "OUT_OF_STOCK"
	StatusDiscontinued InventoryStatus = "DISCONTINUED"
)

// IsValid checks if the status is valid
func (s InventoryStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusLowStock, StatusOutOfStock, StatusDiscontinued:
		return true
	default:
		return false
	}
}

// BinLocation is a physical storage slot holding part of a record's on-hand
// quantity. The sum of location quantities always equals OnHand.
type BinLocation struct {
	LocationID string `bson:"locationId" json:"locationId"`
	Zone       string `bson:"zone,omitempty" json:"zone,omitempty"`
	Aisle      string `bson:"aisle,omitempty" json:"aisle,omitempty"`
	Quantity   int    `bson:"quantity" json:"quantity"`
}

// ReplenishmentPolicy carries the thresholds that drive low-stock detection
// and reorder suggestions.
type ReplenishmentPolicy struct {
	ReorderPoint    int `bson:"reorderPoint" json:"reorderPoint"`
	ReorderQuantity int `bson:"reorderQuantity" json:"reorderQuantity"`
	SafetyStock     int `bson:"safetyStock" json:"safetyStock"`
	MaxStock        int `bson:"maxStock,omitempty" json:"maxStock,omitempty"`
}

// InventoryRecord is the aggregate root of the inventory ledger. One record
// exists per (warehouse, company, sku). All quantity mutations go through
// the methods below, which append a StockMovement and a domain event; the
// repository persists record, movements and events in one transaction.
type InventoryRecord struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WarehouseID string             `bson:"warehouseId" json:"warehouseId"`
	CompanyID   string             `bson:"companyId" json:"companyId"`
	SKU         string             `bson:"sku" json:"sku"`
	ProductName string             `bson:"productName" json:"productName"`

	OnHand   int `bson:"onHand" json:"onHand"`
	Reserved int `bson:"reserved" json:"reserved"`
	Damaged  int `bson:"damaged" json:"damaged"`

	Policy    ReplenishmentPolicy `bson:"policy" json:"policy"`
	Status    InventoryStatus     `bson:"status" json:"status"`
	Locations []BinLocation       `bson:"locations" json:"locations"`

	Version   int64     `bson:"version" json:"version"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`

	// Accumulated during a unit of work, persisted by the repository and
	// cleared after a successful save. Never serialized with the record.
	PendingMovements []*StockMovement `bson:"-" json:"-"`
	DomainEvents     []DomainEvent    `bson:"-" json:"-"`
}

// NewInventoryRecord registers a new SKU in a warehouse with zero stock.
// Initial quantity, when any, is received as a regular stock receipt so the
// movement log starts at the true opening balance.
func NewInventoryRecord(warehouseID, companyID, sku, productName string, policy ReplenishmentPolicy) (*InventoryRecord, error) {
	if warehouseID == "" {
		return nil, ErrWarehouseIDRequired
	}
	if companyID == "" {
		return nil, ErrCompanyIDRequired
	}
	sku = NormalizeSKU(sku)
	if sku == "" {
		return nil, ErrSKURequired
	}
	if strings.TrimSpace(productName) == "" {
		return nil, ErrProductNameRequired
	}
	if policy.ReorderPoint < 0 || policy.ReorderQuantity < 0 || policy.SafetyStock < 0 {
		return nil, ErrInvalidAdjustment
	}

	now := time.Now().UTC()
	record := &InventoryRecord{
		ID:          primitive.NewObjectID(),
		WarehouseID: warehouseID,
		CompanyID:   companyID,
		SKU:         sku,
		ProductName: productName,
		Policy:      policy,
		Status:      StatusOutOfStock,
		Locations:   []BinLocation{},
		Version:     0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	record.AddDomainEvent(&SKURegisteredEvent{
		InventoryID: record.ID.Hex(),
		WarehouseID: warehouseID,
		CompanyID:   companyID,
		SKU:         sku,
		Timestamp:   now,
	})

	return record, nil
}

// NormalizeSKU upper-cases and trims a SKU so lookups are case-insensitive.
func NormalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

// Available returns the quantity free for new reservations.
func (r *InventoryRecord) Available() int {
	return r.OnHand - r.Reserved
}

// ReceiveStock adds quantity into a bin location. Used for inbound receipts
// and RTO restocks; the movement type distinguishes the two.
func (r *InventoryRecord) ReceiveStock(quantity int, locationID string, movementType MovementType, referenceType, referenceID, performedBy string) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if r.Status == StatusDiscontinued {
		return ErrDiscontinued
	}
	if movementType != MovementReceive && movementType != MovementRTORestock {
		return fmt.Errorf("movement type %s is not an inbound receipt", movementType)
	}

	previous := r.OnHand
	r.OnHand += quantity
	r.addToLocation(locationID, quantity)
	r.touch()

	r.appendMovement(&StockMovement{
		Type:             movementType,
		Direction:        DirectionIn,
		Quantity:         quantity,
		PreviousQuantity: previous,
		NewQuantity:      r.OnHand,
		LocationID:       locationID,
		ReferenceType:    referenceType,
		ReferenceID:      referenceID,
		PerformedBy:      performedBy,
	})

	r.AddDomainEvent(&StockAddedEvent{
		InventoryID: r.ID.Hex(),
		WarehouseID: r.WarehouseID,
		SKU:         r.SKU,
		Quantity:    quantity,
		NewOnHand:   r.OnHand,
		LocationID:  locationID,
		Restock:     movementType == MovementRTORestock,
		Timestamp:   r.UpdatedAt,
	})

	r.refreshStatus()
	return nil
}

// AdjustStock applies a signed correction to on-hand stock, typically after
// a cycle count. The resulting on-hand may never drop below the reserved
// quantity or below zero; no silent clamping happens.
func (r *InventoryRecord) AdjustStock(delta int, locationID, reason, performedBy string) error {
	if delta == 0 {
		return ErrInvalidQuantity
	}
	if reason == "" {
		return fmt.Errorf("%w: reason is required", ErrInvalidAdjustment)
	}

	newOnHand := r.OnHand + delta
	if newOnHand < 0 || newOnHand < r.Reserved {
		return ErrInvalidAdjustment
	}

	direction := DirectionIn
	if delta < 0 {
		direction = DirectionOut
	}

	previous := r.OnHand
	r.OnHand = newOnHand
	if delta > 0 {
		r.addToLocation(locationID, delta)
	} else if err := r.removeFromLocation(locationID, -delta); err != nil {
		r.OnHand = previous
		return err
	}
	r.touch()

	r.appendMovement(&StockMovement{
		Type:             MovementAdjustment,
		Direction:        direction,
		Quantity:         abs(delta),
		PreviousQuantity: previous,
		NewQuantity:      r.OnHand,
		LocationID:       locationID,
		Reason:           reason,
		PerformedBy:      performedBy,
	})

	r.AddDomainEvent(&StockAdjustedEvent{
		InventoryID:    r.ID.Hex(),
		WarehouseID:    r.WarehouseID,
		SKU:            r.SKU,
		Delta:          delta,
		PreviousOnHand: previous,
		NewOnHand:      r.OnHand,
		Reason:         reason,
		PerformedBy:    performedBy,
		Timestamp:      r.UpdatedAt,
	})

	r.refreshStatus()
	return nil
}

// Reserve earmarks available stock for an order. Fails when the requested
// quantity exceeds available; partial reservations are never created.
func (r *InventoryRecord) Reserve(quantity int, orderID, performedBy string) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if r.Status == StatusDiscontinued {
		return ErrDiscontinued
	}
	if quantity > r.Available() {
		return ErrInsufficientStock
	}

	r.Reserved += quantity
	r.touch()

	r.appendMovement(&StockMovement{
		Type:             MovementReserve,
		Direction:        DirectionOut,
		Quantity:         quantity,
		PreviousQuantity: r.OnHand,
		NewQuantity:      r.OnHand,
		OrderID:          orderID,
		ReferenceType:    "order",
		ReferenceID:      orderID,
		PerformedBy:      performedBy,
	})

	r.AddDomainEvent(&StockReservedEvent{
		InventoryID: r.ID.Hex(),
		WarehouseID: r.WarehouseID,
		SKU:         r.SKU,
		OrderID:     orderID,
		Quantity:    quantity,
		Reserved:    r.Reserved,
		Available:   r.Available(),
		Timestamp:   r.UpdatedAt,
	})

	r.refreshStatus()
	return nil
}

// ReleaseReservation returns earmarked stock to the available pool, for
// example when an order is cancelled before picking.
func (r *InventoryRecord) ReleaseReservation(quantity int, orderID, performedBy string) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > r.Reserved {
		return ErrOverRelease
	}

	r.Reserved -= quantity
	r.touch()

	r.appendMovement(&StockMovement{
		Type:             MovementRelease,
		Direction:        DirectionIn,
		Quantity:         quantity,
		PreviousQuantity: r.OnHand,
		NewQuantity:      r.OnHand,
		OrderID:          orderID,
		ReferenceType:    "order",
		ReferenceID:      orderID,
		PerformedBy:      performedBy,
	})

	r.AddDomainEvent(&ReservationReleasedEvent{
		InventoryID: r.ID.Hex(),
		WarehouseID: r.WarehouseID,
		SKU:         r.SKU,
		OrderID:     orderID,
		Quantity:    quantity,
		Reserved:    r.Reserved,
		Timestamp:   r.UpdatedAt,
	})

	r.refreshStatus()
	return nil
}

// ConsumeReservation converts reserved stock into an outbound pick. Both
// on-hand and reserved decrease; the quantity physically leaves the bin.
func (r *InventoryRecord) ConsumeReservation(quantity int, locationID, orderID, pickListID, performedBy string) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > r.Reserved {
		return ErrOverRelease
	}
	if quantity > r.OnHand {
		return ErrInsufficientStock
	}

	previous := r.OnHand
	if err := r.removeFromLocation(locationID, quantity); err != nil {
		return err
	}
	r.OnHand -= quantity
	r.Reserved -= quantity
	r.touch()

	r.appendMovement(&StockMovement{
		Type:             MovementPick,
		Direction:        DirectionOut,
		Quantity:         quantity,
		PreviousQuantity: previous,
		NewQuantity:      r.OnHand,
		LocationID:       locationID,
		OrderID:          orderID,
		ReferenceType:    "pick_list",
		ReferenceID:      pickListID,
		PerformedBy:      performedBy,
	})

	r.AddDomainEvent(&ReservationConsumedEvent{
		InventoryID: r.ID.Hex(),
		WarehouseID: r.WarehouseID,
		SKU:         r.SKU,
		OrderID:     orderID,
		PickListID:  pickListID,
		Quantity:    quantity,
		NewOnHand:   r.OnHand,
		Timestamp:   r.UpdatedAt,
	})

	r.refreshStatus()
	return nil
}

// MarkDamaged moves on-hand stock into the damaged pool. Damaged units are
// not available and not reservable.
func (r *InventoryRecord) MarkDamaged(quantity int, locationID, reason, performedBy string) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > r.Available() {
		return ErrInsufficientStock
	}

	previous := r.OnHand
	if err := r.removeFromLocation(locationID, quantity); err != nil {
		return err
	}
	r.OnHand -= quantity
	r.Damaged += quantity
	r.touch()

	r.appendMovement(&StockMovement{
		Type:             MovementDamage,
		Direction:        DirectionOut,
		Quantity:         quantity,
		PreviousQuantity: previous,
		NewQuantity:      r.OnHand,
		LocationID:       locationID,
		Reason:           reason,
		PerformedBy:      performedBy,
	})

	r.AddDomainEvent(&StockMarkedDamagedEvent{
		InventoryID: r.ID.Hex(),
		WarehouseID: r.WarehouseID,
		SKU:         r.SKU,
		Quantity:    quantity,
		Damaged:     r.Damaged,
		Reason:      reason,
		Timestamp:   r.UpdatedAt,
	})

	r.refreshStatus()
	return nil
}

// Discontinue marks the SKU end-of-life. Existing reservations may still be
// consumed or released, but no new stock or reservations are accepted.
func (r *InventoryRecord) Discontinue(performedBy string) error {
	if r.Status == StatusDiscontinued {
		return ErrDiscontinued
	}

	r.Status = StatusDiscontinued
	r.touch()

	r.AddDomainEvent(&SKUDiscontinuedEvent{
		InventoryID: r.ID.Hex(),
		WarehouseID: r.WarehouseID,
		SKU:         r.SKU,
		PerformedBy: performedBy,
		Timestamp:   r.UpdatedAt,
	})

	return nil
}

// refreshStatus recomputes the derived status from current quantities.
// Discontinued is terminal and never recomputed. Crossing the reorder point
// downward raises a low stock alert event.
func (r *InventoryRecord) refreshStatus() {
	if r.Status == StatusDiscontinued {
		return
	}

	previous := r.Status
	available := r.Available()
	switch {
	case available <= 0:
		r.Status = StatusOutOfStock
	case available <= r.Policy.ReorderPoint:
		r.Status = StatusLowStock
	default:
		r.Status = StatusActive
	}

	if r.Status != previous && (r.Status == StatusLowStock || r.Status == StatusOutOfStock) {
		r.AddDomainEvent(&LowStockAlertEvent{
			InventoryID:     r.ID.Hex(),
			WarehouseID:     r.WarehouseID,
			SKU:             r.SKU,
			Available:       available,
			ReorderPoint:    r.Policy.ReorderPoint,
			ReorderQuantity: r.Policy.ReorderQuantity,
			Timestamp:       r.UpdatedAt,
		})
	}
}

// addToLocation increments a bin's quantity, creating the bin if needed.
func (r *InventoryRecord) addToLocation(locationID string, quantity int) {
	if locationID == "" {
		locationID = "UNASSIGNED"
	}
	for i := range r.Locations {
		if r.Locations[i].LocationID == locationID {
			r.Locations[i].Quantity += quantity
			return
		}
	}
	r.Locations = append(r.Locations, BinLocation{LocationID: locationID, Quantity: quantity})
}

// removeFromLocation decrements bin quantities. With an explicit location
// the full quantity must come from that bin; without one, bins are drained
// in order. Empty bins are pruned.
func (r *InventoryRecord) removeFromLocation(locationID string, quantity int) error {
	if locationID != "" {
		for i := range r.Locations {
			if r.Locations[i].LocationID == locationID {
				if r.Locations[i].Quantity < quantity {
					return ErrInsufficientStock
				}
				r.Locations[i].Quantity -= quantity
				r.pruneLocations()
				return nil
			}
		}
		return ErrLocationNotFound
	}

	remaining := quantity
	for i := range r.Locations {
		if remaining == 0 {
			break
		}
		take := r.Locations[i].Quantity
		if take > remaining {
			take = remaining
		}
		r.Locations[i].Quantity -= take
		remaining -= take
	}
	if remaining > 0 {
		return ErrInsufficientStock
	}
	r.pruneLocations()
	return nil
}

func (r *InventoryRecord) pruneLocations() {
	kept := r.Locations[:0]
	for _, loc := range r.Locations {
		if loc.Quantity > 0 {
			kept = append(kept, loc)
		}
	}
	r.Locations = kept
}

func (r *InventoryRecord) appendMovement(m *StockMovement) {
	m.MovementID = newMovementID()
	m.InventoryID = r.ID.Hex()
	m.WarehouseID = r.WarehouseID
	m.CompanyID = r.CompanyID
	m.SKU = r.SKU
	m.Status = "COMPLETED"
	m.CreatedAt = r.UpdatedAt
	r.PendingMovements = append(r.PendingMovements, m)
}

// ClearPendingMovements resets accumulated movements after persistence.
func (r *InventoryRecord) ClearPendingMovements() {
	r.PendingMovements = []*StockMovement{}
}

// AddDomainEvent adds a domain event to the record
func (r *InventoryRecord) AddDomainEvent(event DomainEvent) {
	r.DomainEvents = append(r.DomainEvents, event)
}

// ClearDomainEvents clears all domain events after they have been published
func (r *InventoryRecord) ClearDomainEvents() {
	r.DomainEvents = []DomainEvent{}
}

func (r *InventoryRecord) touch() {
	r.UpdatedAt = time.Now().UTC()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
