package domain

import "context"

// PickListFilter narrows a pick list query
type PickListFilter struct {
	WarehouseID string
	Status      PickListStatus
	PickerID    string
	OrderID     string
}

// PickListRepository defines the interface for pick list persistence
type PickListRepository interface {
	Save(ctx context.Context, pickList *PickList) error
	FindByPickListID(ctx context.Context, pickListID string) (*PickList, error)
	Find(ctx context.Context, filter PickListFilter, limit, offset int) ([]*PickList, int64, error)
}
