package application

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/api"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/errors"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/logging"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/metrics"

	inventoryapp "github.com/dhirajgiri3/Shipcrowd-sub003/internal/inventory/application"
	"github.com/dhirajgiri3/Shipcrowd-sub003/internal/picklist/domain"
)

// LedgerPort is the slice of the reservation manager the pick list engine
// needs: converting reserved stock into picks on completion.
type LedgerPort interface {
	Consume(ctx context.Context, cmd inventoryapp.ConsumeReservationCommand) (*inventoryapp.InventoryRecordDTO, error)
}

// EngineService handles pick list use cases: generation, assignment,
// recording pick results and completion.
type EngineService struct {
	repo    domain.PickListRepository
	ledger  LedgerPort
	logger  *logging.Logger
	metrics *metrics.Metrics
}

// NewEngineService creates a new EngineService
func NewEngineService(repo domain.PickListRepository, ledger LedgerPort, logger *logging.Logger, m *metrics.Metrics) *EngineService {
	return &EngineService{
		repo:    repo,
		ledger:  ledger,
		logger:  logger,
		metrics: m,
	}
}

// Generate builds a sequenced pick list from order lines
func (s *EngineService) Generate(ctx context.Context, cmd GeneratePickListCommand) (*PickListDTO, error) {
	strategy := domain.PickStrategy(cmd.Strategy)
	if !strategy.IsValid() {
		return nil, errors.ErrValidation("unknown pick strategy: " + cmd.Strategy)
	}

	items := make([]domain.PickListItem, 0, len(cmd.Items))
	for _, line := range cmd.Items {
		items = append(items, domain.PickListItem{
			OrderID:  line.OrderID,
			SKU:      line.SKU,
			Quantity: line.Quantity,
			Location: domain.PickLocation{
				LocationID: line.LocationID,
				Zone:       line.Zone,
				Aisle:      line.Aisle,
			},
		})
	}

	pickList, err := domain.NewPickList(cmd.WarehouseID, cmd.CompanyID, strategy, cmd.Zone, items)
	if err != nil {
		return nil, errors.MapDomainError(err)
	}

	if err := s.save(ctx, pickList); err != nil {
		s.logger.Error("Failed to save pick list", "warehouseId", cmd.WarehouseID, "error", err)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordPickListGenerated(string(strategy))
	}
	s.logger.Info("Generated pick list",
		"pickListId", pickList.PickListID, "warehouseId", cmd.WarehouseID,
		"strategy", cmd.Strategy, "items", len(items), "orders", len(pickList.OrderIDs))
	return ToPickListDTO(pickList), nil
}

// Assign hands a pick list to a picker
func (s *EngineService) Assign(ctx context.Context, cmd AssignPickListCommand) (*PickListDTO, error) {
	pickList, err := s.load(ctx, cmd.PickListID)
	if err != nil {
		return nil, err
	}

	if err := pickList.Assign(cmd.PickerID); err != nil {
		return nil, errors.MapDomainError(err)
	}
	if err := s.save(ctx, pickList); err != nil {
		return nil, err
	}

	s.logger.Info("Assigned pick list", "pickListId", cmd.PickListID, "pickerId", cmd.PickerID)
	return ToPickListDTO(pickList), nil
}

// Start begins the picking walk
func (s *EngineService) Start(ctx context.Context, cmd StartPickingCommand) (*PickListDTO, error) {
	pickList, err := s.load(ctx, cmd.PickListID)
	if err != nil {
		return nil, err
	}

	if err := pickList.Start(); err != nil {
		return nil, errors.MapDomainError(err)
	}
	if err := s.save(ctx, pickList); err != nil {
		return nil, err
	}

	s.logger.Info("Started picking", "pickListId", cmd.PickListID, "pickerId", pickList.PickerID)
	return ToPickListDTO(pickList), nil
}

// RecordPick records a full or short result for one line
func (s *EngineService) RecordPick(ctx context.Context, cmd RecordPickCommand) (*PickListDTO, error) {
	pickList, err := s.load(ctx, cmd.PickListID)
	if err != nil {
		return nil, err
	}

	if err := pickList.RecordPick(cmd.Sequence, cmd.PickedQty, cmd.ShortReason); err != nil {
		return nil, errors.MapDomainError(err)
	}
	if err := s.save(ctx, pickList); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		status := "picked"
		if cmd.PickedQty < quantityForSequence(pickList, cmd.Sequence) {
			status = "short"
		}
		s.metrics.RecordItemsPicked(status, cmd.PickedQty)
	}
	s.logger.Info("Recorded pick",
		"pickListId", cmd.PickListID, "sequence", cmd.Sequence,
		"pickedQty", cmd.PickedQty, "shortReason", cmd.ShortReason)
	return ToPickListDTO(pickList), nil
}

// Complete closes the pick list and consumes the reservation behind every
// picked quantity. Short-picked remainders stay reserved for the order;
// releasing them is an explicit follow-up decision, not an automatic one.
func (s *EngineService) Complete(ctx context.Context, cmd CompletePickListCommand) (*PickListDTO, error) {
	pickList, err := s.load(ctx, cmd.PickListID)
	if err != nil {
		return nil, err
	}

	if err := pickList.Complete(); err != nil {
		return nil, errors.MapDomainError(err)
	}

	// Consume before persisting completion so a ledger failure leaves the
	// pick list open for retry.
	for _, line := range pickList.PickedLines() {
		_, err := s.ledger.Consume(ctx, inventoryapp.ConsumeReservationCommand{
			WarehouseID: pickList.WarehouseID,
			SKU:         line.SKU,
			OrderID:     line.OrderID,
			PickListID:  pickList.PickListID,
			LocationID:  line.Location.LocationID,
			Quantity:    line.PickedQty,
			PerformedBy: pickList.PickerID,
		})
		if err != nil {
			s.logger.Error("Failed to consume reservation on completion",
				"pickListId", pickList.PickListID, "sku", line.SKU, "error", err)
			return nil, err
		}
	}

	if err := s.save(ctx, pickList); err != nil {
		return nil, err
	}

	s.logger.Info("Completed pick list",
		"pickListId", cmd.PickListID, "pickerId", pickList.PickerID)
	return ToPickListDTO(pickList), nil
}

// Cancel aborts a pick list from any non-terminal state
func (s *EngineService) Cancel(ctx context.Context, cmd CancelPickListCommand) (*PickListDTO, error) {
	pickList, err := s.load(ctx, cmd.PickListID)
	if err != nil {
		return nil, err
	}

	if err := pickList.Cancel(cmd.Reason); err != nil {
		return nil, errors.MapDomainError(err)
	}
	if err := s.save(ctx, pickList); err != nil {
		return nil, err
	}

	s.logger.Info("Cancelled pick list", "pickListId", cmd.PickListID, "reason", cmd.Reason)
	return ToPickListDTO(pickList), nil
}

// Get retrieves a single pick list
func (s *EngineService) Get(ctx context.Context, pickListID string) (*PickListDTO, error) {
	pickList, err := s.load(ctx, pickListID)
	if err != nil {
		return nil, err
	}
	return ToPickListDTO(pickList), nil
}

// List pages through pick lists
func (s *EngineService) List(ctx context.Context, query ListPickListsQuery) (*api.PageResponse[*PickListDTO], error) {
	limit, offset := normalizePage(query.Limit, query.Offset)

	filter := domain.PickListFilter{
		WarehouseID: query.WarehouseID,
		PickerID:    query.PickerID,
		OrderID:     query.OrderID,
	}
	if query.Status != "" {
		status := domain.PickListStatus(query.Status)
		if !status.IsValid() {
			return nil, errors.ErrValidation("unknown pick list status: " + query.Status)
		}
		filter.Status = status
	}

	pickLists, total, err := s.repo.Find(ctx, filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list pick lists: %w", err)
	}

	return api.NewPageResponse(ToPickListDTOs(pickLists), total, limit, offset), nil
}

// save persists the aggregate; a version conflict means another writer got
// there first and surfaces as a conflict rather than an internal error.
func (s *EngineService) save(ctx context.Context, pickList *domain.PickList) error {
	if err := s.repo.Save(ctx, pickList); err != nil {
		if stderrors.Is(err, domain.ErrVersionConflict) {
			return errors.MapDomainError(err)
		}
		return fmt.Errorf("failed to save pick list: %w", err)
	}
	return nil
}

func (s *EngineService) load(ctx context.Context, pickListID string) (*domain.PickList, error) {
	pickList, err := s.repo.FindByPickListID(ctx, pickListID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pick list: %w", err)
	}
	if pickList == nil {
		return nil, errors.ErrNotFoundWithID("pick list", pickListID)
	}
	return pickList, nil
}

func quantityForSequence(pl *domain.PickList, sequence int) int {
	for _, item := range pl.Items {
		if item.Sequence == sequence {
			return item.Quantity
		}
	}
	return 0
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
