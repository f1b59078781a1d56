package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Domain errors
var (
	ErrPickListNotFound  = errors.New("pick list not found")
	ErrNoItems           = errors.New("pick list must have at least one item")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrItemNotFound      = errors.New("item not found in pick list")
	ErrItemAlreadyPicked = errors.New("item was already picked")
	ErrShortReasonNeeded = errors.New("short pick requires a reason")
	ErrItemsOutstanding  = errors.New("pick list has pending items")
	ErrPickerRequired    = errors.New("picker id is required")
	ErrVersionConflict   = errors.New("pick list was modified concurrently")
)

// PickListStatus represents the lifecycle state of a pick list
type PickListStatus string

const (
	StatusPending    PickListStatus = "PENDING"
	StatusAssigned   PickListStatus = "ASSIGNED"
	StatusInProgress PickListStatus = "IN_PROGRESS"
	StatusCompleted  PickListStatus = "COMPLETED"
	StatusCancelled  PickListStatus = "CANCELLED"
)

// IsValid checks if the status is valid
func (s PickListStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusAssigned, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transitions are allowed
func (s PickListStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// validTransitions is the explicit transition table. Cancellation is allowed
// from every non-terminal state.
var validTransitions = map[PickListStatus][]PickListStatus{
	StatusPending:    {StatusAssigned, StatusCancelled},
	StatusAssigned:   {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

func (s PickListStatus) canTransitionTo(target PickListStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// PickStrategy determines how orders are grouped into a pick list
type PickStrategy string

const (
	StrategyDiscrete PickStrategy = "DISCRETE"
	StrategyBatch    PickStrategy = "BATCH"
	// StrategyWave batches orders that the caller has already grouped into a
	// release window, typically by carrier cutoff or promised ship time. The
	// engine does not window orders itself.
	StrategyWave PickStrategy = "WAVE"
	StrategyZone PickStrategy = "ZONE"
)

// IsValid checks if the strategy is valid
func (s PickStrategy) IsValid() bool {
	switch s {
	case StrategyDiscrete, StrategyBatch, StrategyWave, StrategyZone:
		return true
	default:
		return false
	}
}

// PickItemStatus represents the state of a single line on a pick list
type PickItemStatus string

const (
	ItemPending   PickItemStatus = "PENDING"
	ItemPicked    PickItemStatus = "PICKED"
	ItemShortPick PickItemStatus = "SHORT_PICK"
)

// PickLocation is where an item should be picked from
type PickLocation struct {
	LocationID string `bson:"locationId" json:"locationId"`
	Zone       string `bson:"zone,omitempty" json:"zone,omitempty"`
	Aisle      string `bson:"aisle,omitempty" json:"aisle,omitempty"`
}

// PickListItem is one line of a pick list. Sequence is the suggested walk
// order; pickers may deviate from it.
type PickListItem struct {
	Sequence    int            `bson:"sequence" json:"sequence"`
	OrderID     string         `bson:"orderId" json:"orderId"`
	SKU         string         `bson:"sku" json:"sku"`
	Quantity    int            `bson:"quantity" json:"quantity"`
	PickedQty   int            `bson:"pickedQty" json:"pickedQty"`
	Location    PickLocation   `bson:"location" json:"location"`
	Status      PickItemStatus `bson:"status" json:"status"`
	ShortReason string         `bson:"shortReason,omitempty" json:"shortReason,omitempty"`
	PickedAt    *time.Time     `bson:"pickedAt,omitempty" json:"pickedAt,omitempty"`
}

// PickList is the aggregate root of the pick list engine. It groups order
// lines into a sequenced walk through the warehouse and tracks per-line
// pick results until completion.
type PickList struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	PickListID   string             `bson:"pickListId"`
	WarehouseID  string             `bson:"warehouseId"`
	CompanyID    string             `bson:"companyId"`
	Strategy     PickStrategy       `bson:"strategy"`
	Status       PickListStatus     `bson:"status"`
	Zone         string             `bson:"zone,omitempty"`
	OrderIDs     []string           `bson:"orderIds"`
	Items        []PickListItem     `bson:"items"`
	PickerID     string             `bson:"pickerId,omitempty"`
	Priority     int                `bson:"priority"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
	AssignedAt   *time.Time         `bson:"assignedAt,omitempty"`
	StartedAt    *time.Time         `bson:"startedAt,omitempty"`
	CompletedAt  *time.Time         `bson:"completedAt,omitempty"`
	CancelReason string             `bson:"cancelReason,omitempty"`
	Version      int64              `bson:"version"`
	DomainEvents []DomainEvent      `bson:"-"`
}

// NewPickList builds a pick list from order lines. Items are sequenced to
// minimize travel: sorted by zone, then aisle, then location id. With the
// ZONE strategy every line must share one zone.
func NewPickList(warehouseID, companyID string, strategy PickStrategy, zone string, items []PickListItem) (*PickList, error) {
	if warehouseID == "" {
		return nil, errors.New("warehouse id is required")
	}
	if companyID == "" {
		return nil, errors.New("company id is required")
	}
	if !strategy.IsValid() {
		return nil, fmt.Errorf("invalid pick strategy: %s", strategy)
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	orderIDs := make([]string, 0)
	seen := map[string]bool{}
	for i := range items {
		if items[i].Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if strategy == StrategyZone && items[i].Location.Zone != zone {
			return nil, fmt.Errorf("item %s is outside zone %s", items[i].SKU, zone)
		}
		items[i].Status = ItemPending
		items[i].PickedQty = 0
		if !seen[items[i].OrderID] {
			seen[items[i].OrderID] = true
			orderIDs = append(orderIDs, items[i].OrderID)
		}
	}
	if strategy == StrategyDiscrete && len(orderIDs) > 1 {
		return nil, errors.New("discrete strategy takes a single order")
	}

	sequenceItems(items)

	now := time.Now().UTC()
	pl := &PickList{
		ID:           primitive.NewObjectID(),
		PickListID:   "PL-" + uuid.New().String()[:8],
		WarehouseID:  warehouseID,
		CompanyID:    companyID,
		Strategy:     strategy,
		Status:       StatusPending,
		Zone:         zone,
		OrderIDs:     orderIDs,
		Items:        items,
		Priority:     5,
		CreatedAt:    now,
		UpdatedAt:    now,
		DomainEvents: make([]DomainEvent, 0),
	}

	pl.AddDomainEvent(&PickListGeneratedEvent{
		PickListID:  pl.PickListID,
		WarehouseID: warehouseID,
		Strategy:    string(strategy),
		OrderIDs:    orderIDs,
		ItemCount:   len(items),
		Timestamp:   now,
	})

	return pl, nil
}

// sequenceItems orders lines by zone, aisle, then location and stamps the
// 1-based walk sequence.
func sequenceItems(items []PickListItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].Location, items[j].Location
		if a.Zone != b.Zone {
			return a.Zone < b.Zone
		}
		if a.Aisle != b.Aisle {
			return a.Aisle < b.Aisle
		}
		return a.LocationID < b.LocationID
	})
	for i := range items {
		items[i].Sequence = i + 1
	}
}

// Assign hands the pick list to a picker
func (p *PickList) Assign(pickerID string) error {
	if pickerID == "" {
		return ErrPickerRequired
	}
	if !p.Status.canTransitionTo(StatusAssigned) {
		return transitionError(p.Status, StatusAssigned)
	}

	now := time.Now().UTC()
	p.PickerID = pickerID
	p.Status = StatusAssigned
	p.AssignedAt = &now
	p.UpdatedAt = now

	p.AddDomainEvent(&PickListAssignedEvent{
		PickListID: p.PickListID,
		PickerID:   pickerID,
		Timestamp:  now,
	})

	return nil
}

// Start marks picking as in progress
func (p *PickList) Start() error {
	if !p.Status.canTransitionTo(StatusInProgress) {
		return transitionError(p.Status, StatusInProgress)
	}

	now := time.Now().UTC()
	p.Status = StatusInProgress
	p.StartedAt = &now
	p.UpdatedAt = now

	p.AddDomainEvent(&PickingStartedEvent{
		PickListID: p.PickListID,
		PickerID:   p.PickerID,
		Timestamp:  now,
	})

	return nil
}

// RecordPick records the result for one line. Picking the full quantity
// marks the line PICKED; anything less is a SHORT_PICK and needs a reason.
// A short pick is a result, not an error.
func (p *PickList) RecordPick(sequence int, pickedQty int, shortReason string) error {
	if p.Status != StatusInProgress {
		return transitionError(p.Status, StatusInProgress)
	}

	item := p.findItem(sequence)
	if item == nil {
		return ErrItemNotFound
	}
	if item.Status != ItemPending {
		return ErrItemAlreadyPicked
	}
	if pickedQty < 0 || pickedQty > item.Quantity {
		return ErrInvalidQuantity
	}

	now := time.Now().UTC()
	item.PickedQty = pickedQty
	item.PickedAt = &now
	if pickedQty == item.Quantity {
		item.Status = ItemPicked
	} else {
		if shortReason == "" {
			item.PickedQty = 0
			item.PickedAt = nil
			return ErrShortReasonNeeded
		}
		item.Status = ItemShortPick
		item.ShortReason = shortReason
	}
	p.UpdatedAt = now

	p.AddDomainEvent(&ItemPickedEvent{
		PickListID: p.PickListID,
		Sequence:   sequence,
		OrderID:    item.OrderID,
		SKU:        item.SKU,
		LocationID: item.Location.LocationID,
		Quantity:   pickedQty,
		Short:      item.Status == ItemShortPick,
		Timestamp:  now,
	})

	return nil
}

// Complete closes the pick list once every line has a result
func (p *PickList) Complete() error {
	if !p.Status.canTransitionTo(StatusCompleted) {
		return transitionError(p.Status, StatusCompleted)
	}
	for i := range p.Items {
		if p.Items[i].Status == ItemPending {
			return ErrItemsOutstanding
		}
	}

	now := time.Now().UTC()
	p.Status = StatusCompleted
	p.CompletedAt = &now
	p.UpdatedAt = now

	p.AddDomainEvent(&PickListCompletedEvent{
		PickListID:  p.PickListID,
		WarehouseID: p.WarehouseID,
		PickerID:    p.PickerID,
		PickedLines: p.countByStatus(ItemPicked),
		ShortLines:  p.countByStatus(ItemShortPick),
		Timestamp:   now,
	})

	return nil
}

// Cancel aborts the pick list from any non-terminal state
func (p *PickList) Cancel(reason string) error {
	if p.Status.IsTerminal() {
		return transitionError(p.Status, StatusCancelled)
	}

	now := time.Now().UTC()
	p.Status = StatusCancelled
	p.CancelReason = reason
	p.UpdatedAt = now

	p.AddDomainEvent(&PickListCancelledEvent{
		PickListID: p.PickListID,
		Reason:     reason,
		Timestamp:  now,
	})

	return nil
}

// QuantityShort is how many units the line came up short. Zero until the
// line has a recorded result.
func (i PickListItem) QuantityShort() int {
	if i.Status == ItemPending {
		return 0
	}
	return i.Quantity - i.PickedQty
}

// PickedLines returns lines with a recorded result and a nonzero quantity
func (p *PickList) PickedLines() []PickListItem {
	var out []PickListItem
	for _, item := range p.Items {
		if (item.Status == ItemPicked || item.Status == ItemShortPick) && item.PickedQty > 0 {
			out = append(out, item)
		}
	}
	return out
}

func (p *PickList) findItem(sequence int) *PickListItem {
	for i := range p.Items {
		if p.Items[i].Sequence == sequence {
			return &p.Items[i]
		}
	}
	return nil
}

func (p *PickList) countByStatus(status PickItemStatus) int {
	n := 0
	for i := range p.Items {
		if p.Items[i].Status == status {
			n++
		}
	}
	return n
}

func transitionError(from, to PickListStatus) error {
	return fmt.Errorf("cannot transition pick list from %s to %s", from, to)
}

// AddDomainEvent adds a domain event to the pick list
func (p *PickList) AddDomainEvent(event DomainEvent) {
	p.DomainEvents = append(p.DomainEvents, event)
}

// ClearDomainEvents clears all domain events after they have been published
func (p *PickList) ClearDomainEvents() {
	p.DomainEvents = []DomainEvent{}
}
