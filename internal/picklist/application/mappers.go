package application

import (
	"github.com/dhirajgiri3/Shipcrowd-sub003/internal/picklist/domain"
)

// ToPickListDTO converts a domain pick list to its DTO
func ToPickListDTO(pl *domain.PickList) *PickListDTO {
	if pl == nil {
		return nil
	}

	items := make([]PickListItemDTO, 0, len(pl.Items))
	for _, item := range pl.Items {
		items = append(items, PickListItemDTO{
			Sequence:    item.Sequence,
			OrderID:     item.OrderID,
			SKU:         item.SKU,
			Quantity:    item.Quantity,
			PickedQty:   item.PickedQty,
			LocationID:  item.Location.LocationID,
			Zone:        item.Location.Zone,
			Aisle:       item.Location.Aisle,
			Status:        string(item.Status),
			QuantityShort: item.QuantityShort(),
			ShortReason:   item.ShortReason,
			PickedAt:    item.PickedAt,
		})
	}

	return &PickListDTO{
		ID:           pl.ID.Hex(),
		PickListID:   pl.PickListID,
		WarehouseID:  pl.WarehouseID,
		CompanyID:    pl.CompanyID,
		Strategy:     string(pl.Strategy),
		Status:       string(pl.Status),
		Zone:         pl.Zone,
		OrderIDs:     pl.OrderIDs,
		Items:        items,
		PickerID:     pl.PickerID,
		Priority:     pl.Priority,
		CreatedAt:    pl.CreatedAt,
		UpdatedAt:    pl.UpdatedAt,
		AssignedAt:   pl.AssignedAt,
		StartedAt:    pl.StartedAt,
		CompletedAt:  pl.CompletedAt,
		CancelReason: pl.CancelReason,
	}
}

// ToPickListDTOs converts a slice of domain pick lists
func ToPickListDTOs(pickLists []*domain.PickList) []*PickListDTO {
	dtos := make([]*PickListDTO, 0, len(pickLists))
	for _, pl := range pickLists {
		dtos = append(dtos, ToPickListDTO(pl))
	}
	return dtos
}
