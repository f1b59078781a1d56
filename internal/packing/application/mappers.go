package application

import (
	"github.com/dhirajgiri3/Shipcrowd-sub003/internal/packing/domain"
)

// ToSessionDTO converts a domain session to its DTO
func ToSessionDTO(session *domain.PackingSession) *PackingSessionDTO {
	if session == nil {
		return nil
	}

	items := make([]SessionItemDTO, 0, len(session.Items))
	for _, item := range session.Items {
		items = append(items, SessionItemDTO{
			SKU:              item.SKU,
			QuantityRequired: item.QuantityRequired,
			QuantityPacked:   item.QuantityPacked,
		})
	}

	dto := &PackingSessionDTO{
		SessionID:   session.SessionID,
		OrderID:     session.OrderID,
		OrderNumber: session.OrderNumber,
		PickListID:  session.PickListID,
		PackerID:    session.PackerID,
		Items:       items,
		TotalPacked: session.TotalPacked(),
		StartedAt:   session.StartedAt,
	}
	if session.WeightCheck != nil {
		dto.WeightCheck = &WeightCheckDTO{
			ExpectedWeight:  session.WeightCheck.ExpectedWeight,
			ActualWeight:    session.WeightCheck.ActualWeight,
			Tolerance:       session.WeightCheck.Tolerance,
			VariancePercent: session.WeightCheck.VariancePercent,
			Passed:          session.WeightCheck.Passed,
			CheckedAt:       session.WeightCheck.CheckedAt,
		}
	}
	return dto
}

// ToStationDTO converts a domain station to its DTO
func ToStationDTO(station *domain.PackingStation) *StationDTO {
	if station == nil {
		return nil
	}
	return &StationDTO{
		ID:             station.ID.Hex(),
		StationCode:    station.StationCode,
		WarehouseID:    station.WarehouseID,
		Status:         string(station.Status),
		Capabilities:   station.Capabilities,
		AssignedTo:     station.AssignedTo,
		CurrentSession: ToSessionDTO(station.CurrentSession),
		OfflineReason:  station.OfflineReason,
		CreatedAt:      station.CreatedAt,
		UpdatedAt:      station.UpdatedAt,
	}
}

// ToStationDTOs converts a slice of domain stations
func ToStationDTOs(stations []*domain.PackingStation) []*StationDTO {
	dtos := make([]*StationDTO, 0, len(stations))
	for _, s := range stations {
		dtos = append(dtos, ToStationDTO(s))
	}
	return dtos
}
