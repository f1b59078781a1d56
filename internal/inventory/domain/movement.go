package domain

import (
	"time"

	"github.com/google/uuid"
)

// MovementType classifies a stock movement
type MovementType string

const (
	MovementReceive    MovementType = "RECEIVE"
	MovementAdjustment MovementType = "ADJUSTMENT"
	MovementReserve    MovementType = "RESERVE"
	MovementRelease    MovementType = "RELEASE"
	MovementPick       MovementType = "PICK"
	MovementRTORestock MovementType = "RTO_RESTOCK"
	MovementDamage     MovementType = "DAMAGE"
)

// IsValid checks if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementReceive, MovementAdjustment, MovementReserve, MovementRelease,
		MovementPick, MovementRTORestock, MovementDamage:
		return true
	default:
		return false
	}
}

// MovementDirection indicates whether stock entered or left the warehouse
type MovementDirection string

const (
	DirectionIn  MovementDirection = "IN"
	DirectionOut MovementDirection = "OUT"
)

// StockMovement is the immutable audit record for a single ledger mutation.
// One movement is appended per mutating call, in the same transaction as the
// InventoryRecord update. Movements are never modified after creation.
type StockMovement struct {
	MovementID       string            `bson:"movementId" json:"movementId"`
	InventoryID      string            `bson:"inventoryId" json:"inventoryId"`
	WarehouseID      string            `bson:"warehouseId" json:"warehouseId"`
	CompanyID        string            `bson:"companyId" json:"companyId"`
	SKU              string            `bson:"sku" json:"sku"`
	Type             MovementType      `bson:"type" json:"type"`
	Direction        MovementDirection `bson:"direction" json:"direction"`
	Quantity         int               `bson:"quantity" json:"quantity"`
	PreviousQuantity int               `bson:"previousQuantity" json:"previousQuantity"`
	NewQuantity      int               `bson:"newQuantity" json:"newQuantity"`
	LocationID       string            `bson:"locationId,omitempty" json:"locationId,omitempty"`
	OrderID          string            `bson:"orderId,omitempty" json:"orderId,omitempty"`
	ReferenceType    string            `bson:"referenceType,omitempty" json:"referenceType,omitempty"`
	ReferenceID      string            `bson:"referenceId,omitempty" json:"referenceId,omitempty"`
	Reason           string            `bson:"reason,omitempty" json:"reason,omitempty"`
	PerformedBy      string            `bson:"performedBy" json:"performedBy"`
	Status           string            `bson:"status" json:"status"`
	CreatedAt        time.Time         `bson:"createdAt" json:"createdAt"`
}

func newMovementID() string {
	return "MOV-" + uuid.New().String()
}
