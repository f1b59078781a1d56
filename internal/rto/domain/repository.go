package domain

import "context"

// RTOFilter narrows list queries
type RTOFilter struct {
	WarehouseID string
	CompanyID   string
	OrderID     string
	Status      RTOStatus
}

// RTORepository persists RTO events
type RTORepository interface {
	Save(ctx context.Context, rto *RTOEvent) error
	FindByRTOID(ctx context.Context, rtoID string) (*RTOEvent, error)
	FindByShipmentID(ctx context.Context, shipmentID string) (*RTOEvent, error)
	Find(ctx context.Context, filter RTOFilter, limit, offset int) ([]*RTOEvent, int64, error)
}
