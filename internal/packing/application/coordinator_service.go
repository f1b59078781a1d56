package application

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/api"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/errors"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/logging"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/metrics"

	"github.com/dhirajgiri3/Shipcrowd-sub003/internal/packing/domain"
)

// CoordinatorService handles packing station use cases. The occupancy race
// between packers is settled by the repository's conditional update: a lost
// race surfaces as a station-occupied conflict, not a silent overwrite.
type CoordinatorService struct {
	repo    domain.StationRepository
	logger  *logging.Logger
	metrics *metrics.Metrics
}

// NewCoordinatorService creates a new CoordinatorService
func NewCoordinatorService(repo domain.StationRepository, logger *logging.Logger, m *metrics.Metrics) *CoordinatorService {
	return &CoordinatorService{
		repo:    repo,
		logger:  logger,
		metrics: m,
	}
}

// RegisterStation registers a packing station as available
func (s *CoordinatorService) RegisterStation(ctx context.Context, cmd RegisterStationCommand) (*StationDTO, error) {
	existing, err := s.repo.FindByStationCode(ctx, cmd.WarehouseID, cmd.StationCode)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing station: %w", err)
	}
	if existing != nil {
		return nil, errors.ErrConflict("station " + cmd.StationCode + " already registered")
	}

	station, err := domain.NewPackingStation(cmd.WarehouseID, cmd.StationCode, cmd.Capabilities)
	if err != nil {
		return nil, errors.MapDomainError(err)
	}
	if err := s.repo.Save(ctx, station); err != nil {
		return nil, fmt.Errorf("failed to save station: %w", err)
	}

	s.logger.Info("Registered packing station", "warehouseId", cmd.WarehouseID, "stationCode", cmd.StationCode)
	return ToStationDTO(station), nil
}

// AssignPacker claims a station for a packer. A concurrent claim on the
// same station loses the conditional update and is reported as occupied.
func (s *CoordinatorService) AssignPacker(ctx context.Context, cmd AssignPackerCommand) (*StationDTO, error) {
	station, err := s.load(ctx, cmd.WarehouseID, cmd.StationCode)
	if err != nil {
		return nil, err
	}

	if err := station.AssignPacker(cmd.PackerID); err != nil {
		if stderrors.Is(err, domain.ErrStationOccupied) {
			return nil, errors.ErrStationOccupied(cmd.StationCode)
		}
		return nil, errors.MapDomainError(err)
	}

	if err := s.repo.Save(ctx, station); err != nil {
		if stderrors.Is(err, domain.ErrStationConflict) {
			// Someone else claimed the station between load and save.
			return nil, errors.ErrStationOccupied(cmd.StationCode)
		}
		return nil, fmt.Errorf("failed to save station: %w", err)
	}

	s.logger.Info("Assigned packer to station",
		"warehouseId", cmd.WarehouseID, "stationCode", cmd.StationCode, "packerId", cmd.PackerID)
	return ToStationDTO(station), nil
}

// StartSession opens a packing session at a claimed station
func (s *CoordinatorService) StartSession(ctx context.Context, cmd StartSessionCommand) (*StationDTO, error) {
	station, err := s.load(ctx, cmd.WarehouseID, cmd.StationCode)
	if err != nil {
		return nil, err
	}

	items := make([]domain.SessionItem, 0, len(cmd.Items))
	for _, item := range cmd.Items {
		items = append(items, domain.SessionItem{
			SKU:              item.SKU,
			QuantityRequired: item.QuantityRequired,
		})
	}

	if err := station.StartSession(cmd.PickListID, cmd.OrderID, cmd.OrderNumber, cmd.PackerID, items); err != nil {
		return nil, errors.MapDomainError(err)
	}
	if err := s.saveStation(ctx, station); err != nil {
		return nil, err
	}

	s.logger.Info("Started packing session",
		"stationCode", cmd.StationCode, "orderId", cmd.OrderID,
		"sessionId", station.CurrentSession.SessionID, "packerId", cmd.PackerID)
	return ToStationDTO(station), nil
}

// PackItem increments the packed count for a SKU in the active session
func (s *CoordinatorService) PackItem(ctx context.Context, cmd PackItemCommand) (*StationDTO, error) {
	station, err := s.load(ctx, cmd.WarehouseID, cmd.StationCode)
	if err != nil {
		return nil, err
	}

	if err := station.PackItem(cmd.SKU, cmd.Quantity); err != nil {
		return nil, errors.MapDomainError(err)
	}
	if err := s.saveStation(ctx, station); err != nil {
		return nil, err
	}

	return ToStationDTO(station), nil
}

// VerifyWeight runs a weight check against the active session. A failed
// check is a normal result recorded on the session.
func (s *CoordinatorService) VerifyWeight(ctx context.Context, cmd VerifyWeightCommand) (*WeightCheckDTO, error) {
	station, err := s.load(ctx, cmd.WarehouseID, cmd.StationCode)
	if err != nil {
		return nil, err
	}

	check, err := domain.VerifyWeight(cmd.ExpectedWeight, cmd.ActualWeight, cmd.TolerancePercent)
	if err != nil {
		return nil, errors.MapDomainError(err)
	}
	if err := station.RecordWeightCheck(check); err != nil {
		return nil, errors.MapDomainError(err)
	}
	if err := s.saveStation(ctx, station); err != nil {
		return nil, err
	}

	if !check.Passed && s.metrics != nil {
		s.metrics.RecordWeightDiscrepancy(cmd.StationCode)
	}
	s.logger.Info("Verified package weight",
		"stationCode", cmd.StationCode, "expected", cmd.ExpectedWeight,
		"actual", cmd.ActualWeight, "variance", check.VariancePercent, "passed", check.Passed)

	return &WeightCheckDTO{
		ExpectedWeight:  check.ExpectedWeight,
		ActualWeight:    check.ActualWeight,
		Tolerance:       check.Tolerance,
		VariancePercent: check.VariancePercent,
		Passed:          check.Passed,
		CheckedAt:       check.CheckedAt,
	}, nil
}

// CompleteSession closes the session, frees the station and returns the
// packed result for the shipment handoff
func (s *CoordinatorService) CompleteSession(ctx context.Context, cmd CompleteSessionCommand) (*PackingSessionDTO, error) {
	station, err := s.load(ctx, cmd.WarehouseID, cmd.StationCode)
	if err != nil {
		return nil, err
	}

	session, err := station.CompleteSession()
	if err != nil {
		return nil, errors.MapDomainError(err)
	}
	if err := s.saveStation(ctx, station); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordPackagePacked(cmd.StationCode)
	}
	s.logger.Info("Completed packing session",
		"stationCode", cmd.StationCode, "sessionId", session.SessionID,
		"orderId", session.OrderID, "totalPacked", session.TotalPacked())
	return ToSessionDTO(session), nil
}

// ReleaseStation frees a claimed station that never started a session
func (s *CoordinatorService) ReleaseStation(ctx context.Context, cmd ReleaseStationCommand) (*StationDTO, error) {
	station, err := s.load(ctx, cmd.WarehouseID, cmd.StationCode)
	if err != nil {
		return nil, err
	}

	if err := station.ReleaseStation(); err != nil {
		return nil, errors.MapDomainError(err)
	}
	if err := s.saveStation(ctx, station); err != nil {
		return nil, err
	}

	s.logger.Info("Released packing station", "stationCode", cmd.StationCode)
	return ToStationDTO(station), nil
}

// SetOffline takes a station out of rotation
func (s *CoordinatorService) SetOffline(ctx context.Context, cmd SetStationOfflineCommand) (*StationDTO, error) {
	station, err := s.load(ctx, cmd.WarehouseID, cmd.StationCode)
	if err != nil {
		return nil, err
	}

	status := domain.StationOffline
	if cmd.Maintenance {
		status = domain.StationMaintenance
	}
	if err := station.SetOffline(status, cmd.Reason); err != nil {
		return nil, errors.MapDomainError(err)
	}
	if err := s.saveStation(ctx, station); err != nil {
		return nil, err
	}

	s.logger.Info("Station taken offline",
		"stationCode", cmd.StationCode, "status", status, "reason", cmd.Reason)
	return ToStationDTO(station), nil
}

// SetOnline returns a station to rotation
func (s *CoordinatorService) SetOnline(ctx context.Context, cmd SetStationOnlineCommand) (*StationDTO, error) {
	station, err := s.load(ctx, cmd.WarehouseID, cmd.StationCode)
	if err != nil {
		return nil, err
	}

	if err := station.SetOnline(); err != nil {
		return nil, errors.MapDomainError(err)
	}
	if err := s.saveStation(ctx, station); err != nil {
		return nil, err
	}

	s.logger.Info("Station back online", "stationCode", cmd.StationCode)
	return ToStationDTO(station), nil
}

// Get retrieves a single station
func (s *CoordinatorService) Get(ctx context.Context, warehouseID, stationCode string) (*StationDTO, error) {
	station, err := s.load(ctx, warehouseID, stationCode)
	if err != nil {
		return nil, err
	}
	return ToStationDTO(station), nil
}

// List pages through stations
func (s *CoordinatorService) List(ctx context.Context, query ListStationsQuery) (*api.PageResponse[*StationDTO], error) {
	limit, offset := normalizePage(query.Limit, query.Offset)

	filter := domain.StationFilter{WarehouseID: query.WarehouseID}
	if query.Status != "" {
		status := domain.StationStatus(query.Status)
		if !status.IsValid() {
			return nil, errors.ErrValidation("unknown station status: " + query.Status)
		}
		filter.Status = status
	}

	stations, total, err := s.repo.Find(ctx, filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list stations: %w", err)
	}

	return api.NewPageResponse(ToStationDTOs(stations), total, limit, offset), nil
}

func (s *CoordinatorService) load(ctx context.Context, warehouseID, stationCode string) (*domain.PackingStation, error) {
	station, err := s.repo.FindByStationCode(ctx, warehouseID, stationCode)
	if err != nil {
		return nil, fmt.Errorf("failed to load station: %w", err)
	}
	if station == nil {
		return nil, errors.ErrNotFoundWithID("packing station", stationCode)
	}
	return station, nil
}

func (s *CoordinatorService) saveStation(ctx context.Context, station *domain.PackingStation) error {
	if err := s.repo.Save(ctx, station); err != nil {
		if stderrors.Is(err, domain.ErrStationConflict) {
			return errors.ErrConflict("station " + station.StationCode + " is under concurrent modification")
		}
		return fmt.Errorf("failed to save station: %w", err)
	}
	return nil
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
