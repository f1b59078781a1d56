package domain

import "context"

// StationFilter narrows a station query
type StationFilter struct {
	WarehouseID string
	Status      StationStatus
}

// StationRepository defines the interface for packing station persistence.
// Save carries the same optimistic version check as the inventory ledger so
// two packers cannot claim one station; ErrStationConflict signals a lost
// race.
type StationRepository interface {
	Save(ctx context.Context, station *PackingStation) error
	FindByStationCode(ctx context.Context, warehouseID, stationCode string) (*PackingStation, error)
	Find(ctx context.Context, filter StationFilter, limit, offset int) ([]*PackingStation, int64, error)
}
