package application

import (
	"github.com/dhirajgiri3/Shipcrowd-sub003/internal/inventory/domain"
)

// ToInventoryRecordDTO converts a domain record to its DTO
func ToInventoryRecordDTO(record *domain.InventoryRecord) *InventoryRecordDTO {
	if record == nil {
		return nil
	}

	locations := make([]BinLocationDTO, 0, len(record.Locations))
	for _, loc := range record.Locations {
		locations = append(locations, BinLocationDTO{
			LocationID: loc.LocationID,
			Zone:       loc.Zone,
			Aisle:      loc.Aisle,
			Quantity:   loc.Quantity,
		})
	}

	return &InventoryRecordDTO{
		ID:              record.ID.Hex(),
		WarehouseID:     record.WarehouseID,
		CompanyID:       record.CompanyID,
		SKU:             record.SKU,
		ProductName:     record.ProductName,
		OnHand:          record.OnHand,
		Reserved:        record.Reserved,
		Available:       record.Available(),
		Damaged:         record.Damaged,
		ReorderPoint:    record.Policy.ReorderPoint,
		ReorderQuantity: record.Policy.ReorderQuantity,
		SafetyStock:     record.Policy.SafetyStock,
		MaxStock:        record.Policy.MaxStock,
		Status:          string(record.Status),
		Locations:       locations,
		Version:         record.Version,
		CreatedAt:       record.CreatedAt,
		UpdatedAt:       record.UpdatedAt,
	}
}

// ToStockMovementDTO converts a domain movement to its DTO
func ToStockMovementDTO(m *domain.StockMovement) *StockMovementDTO {
	if m == nil {
		return nil
	}
	return &StockMovementDTO{
		MovementID:       m.MovementID,
		WarehouseID:      m.WarehouseID,
		SKU:              m.SKU,
		Type:             string(m.Type),
		Direction:        string(m.Direction),
		Quantity:         m.Quantity,
		PreviousQuantity: m.PreviousQuantity,
		NewQuantity:      m.NewQuantity,
		LocationID:       m.LocationID,
		OrderID:          m.OrderID,
		ReferenceType:    m.ReferenceType,
		ReferenceID:      m.ReferenceID,
		Reason:           m.Reason,
		PerformedBy:      m.PerformedBy,
		CreatedAt:        m.CreatedAt,
	}
}

// ToStockMovementDTOs converts a slice of domain movements
func ToStockMovementDTOs(movements []*domain.StockMovement) []*StockMovementDTO {
	dtos := make([]*StockMovementDTO, 0, len(movements))
	for _, m := range movements {
		dtos = append(dtos, ToStockMovementDTO(m))
	}
	return dtos
}

// ToInventoryRecordDTOs converts a slice of domain records
func ToInventoryRecordDTOs(records []*domain.InventoryRecord) []*InventoryRecordDTO {
	dtos := make([]*InventoryRecordDTO, 0, len(records))
	for _, r := range records {
		dtos = append(dtos, ToInventoryRecordDTO(r))
	}
	return dtos
}
