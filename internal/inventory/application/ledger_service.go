package application

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/api"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/errors"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/logging"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/metrics"

	"github.com/dhirajgiri3/Shipcrowd-sub003/internal/inventory/domain"
)

// maxSaveAttempts bounds optimistic concurrency retries per use case call.
const maxSaveAttempts = 3

// LedgerService handles inventory ledger use cases: SKU registration,
// receipts, adjustments, damage, discontinuation and history queries.
// Reservation use cases live in ReservationService.
type LedgerService struct {
	repo    domain.InventoryRepository
	logger  *logging.Logger
	metrics *metrics.Metrics
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(repo domain.InventoryRepository, logger *logging.Logger, m *metrics.Metrics) *LedgerService {
	return &LedgerService{
		repo:    repo,
		logger:  logger,
		metrics: m,
	}
}

// RegisterSKU registers a new SKU in a warehouse. A nonzero initial
// quantity is booked as an opening receipt, so the record starts ACTIVE
// and the movement log carries the opening balance.
func (s *LedgerService) RegisterSKU(ctx context.Context, cmd RegisterSKUCommand) (*InventoryRecordDTO, error) {
	existing, err := s.repo.FindBySKU(ctx, cmd.WarehouseID, cmd.SKU)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing sku: %w", err)
	}
	if existing != nil {
		return nil, errors.ErrDuplicateSKU(cmd.WarehouseID, domain.NormalizeSKU(cmd.SKU))
	}

	record, err := domain.NewInventoryRecord(cmd.WarehouseID, cmd.CompanyID, cmd.SKU, cmd.ProductName, domain.ReplenishmentPolicy{
		ReorderPoint:    cmd.ReorderPoint,
		ReorderQuantity: cmd.ReorderQuantity,
		SafetyStock:     cmd.SafetyStock,
		MaxStock:        cmd.MaxStock,
	})
	if err != nil {
		return nil, errors.MapDomainError(err)
	}

	if cmd.InitialQuantity > 0 {
		if err := record.ReceiveStock(cmd.InitialQuantity, cmd.LocationID, domain.MovementReceive, "registration", "", cmd.PerformedBy); err != nil {
			return nil, errors.MapDomainError(err)
		}
	}

	if err := s.repo.Save(ctx, record); err != nil {
		if stderrors.Is(err, domain.ErrDuplicateSKU) {
			return nil, errors.ErrDuplicateSKU(cmd.WarehouseID, record.SKU)
		}
		s.logger.Error("Failed to register sku", "warehouseId", cmd.WarehouseID, "sku", cmd.SKU, "error", err)
		return nil, fmt.Errorf("failed to register sku: %w", err)
	}

	s.logger.Info("Registered sku", "warehouseId", cmd.WarehouseID, "sku", record.SKU)
	return ToInventoryRecordDTO(record), nil
}

// ReceiveStock receives stock into a bin location
func (s *LedgerService) ReceiveStock(ctx context.Context, cmd ReceiveStockCommand) (*InventoryRecordDTO, error) {
	record, err := s.mutate(ctx, cmd.WarehouseID, cmd.SKU, func(r *domain.InventoryRecord) error {
		return r.ReceiveStock(cmd.Quantity, cmd.LocationID, domain.MovementReceive, cmd.ReferenceType, cmd.ReferenceID, cmd.PerformedBy)
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordStockMovement(string(domain.MovementReceive))
	}
	s.logger.Info("Received stock",
		"warehouseId", cmd.WarehouseID, "sku", record.SKU,
		"quantity", cmd.Quantity, "location", cmd.LocationID)
	return ToInventoryRecordDTO(record), nil
}

// RestockFromRTO returns inspected RTO units to sellable stock. The call is
// idempotent per (rto, sku): the movement log is checked first and a unique
// movement index catches concurrent duplicates, so a retried or racing
// resolution can never restock the same item twice.
func (s *LedgerService) RestockFromRTO(ctx context.Context, cmd ReceiveStockCommand) (*InventoryRecordDTO, error) {
	applied, err := s.restockApplied(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if applied {
		s.logger.Info("RTO restock already applied",
			"warehouseId", cmd.WarehouseID, "sku", cmd.SKU, "referenceId", cmd.ReferenceID)
		return s.GetInventory(ctx, GetInventoryQuery{WarehouseID: cmd.WarehouseID, SKU: cmd.SKU})
	}

	record, err := s.mutate(ctx, cmd.WarehouseID, cmd.SKU, func(r *domain.InventoryRecord) error {
		return r.ReceiveStock(cmd.Quantity, cmd.LocationID, domain.MovementRTORestock, cmd.ReferenceType, cmd.ReferenceID, cmd.PerformedBy)
	})
	if err != nil {
		if stderrors.Is(err, domain.ErrDuplicateMovement) {
			s.logger.Info("RTO restock already applied",
				"warehouseId", cmd.WarehouseID, "sku", cmd.SKU, "referenceId", cmd.ReferenceID)
			return s.GetInventory(ctx, GetInventoryQuery{WarehouseID: cmd.WarehouseID, SKU: cmd.SKU})
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordStockMovement(string(domain.MovementRTORestock))
	}
	s.logger.Info("Restocked from RTO",
		"warehouseId", cmd.WarehouseID, "sku", record.SKU,
		"quantity", cmd.Quantity, "referenceId", cmd.ReferenceID)
	return ToInventoryRecordDTO(record), nil
}

// AdjustStock applies a signed correction to on-hand stock
func (s *LedgerService) AdjustStock(ctx context.Context, cmd AdjustStockCommand) (*InventoryRecordDTO, error) {
	record, err := s.mutate(ctx, cmd.WarehouseID, cmd.SKU, func(r *domain.InventoryRecord) error {
		return r.AdjustStock(cmd.Delta, cmd.LocationID, cmd.Reason, cmd.PerformedBy)
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordStockMovement(string(domain.MovementAdjustment))
	}
	s.logger.Info("Adjusted stock",
		"warehouseId", cmd.WarehouseID, "sku", record.SKU,
		"delta", cmd.Delta, "reason", cmd.Reason)
	return ToInventoryRecordDTO(record), nil
}

// MarkDamaged moves units into the damaged pool
func (s *LedgerService) MarkDamaged(ctx context.Context, cmd MarkDamagedCommand) (*InventoryRecordDTO, error) {
	record, err := s.mutate(ctx, cmd.WarehouseID, cmd.SKU, func(r *domain.InventoryRecord) error {
		return r.MarkDamaged(cmd.Quantity, cmd.LocationID, cmd.Reason, cmd.PerformedBy)
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordStockMovement(string(domain.MovementDamage))
	}
	s.logger.Info("Marked stock damaged",
		"warehouseId", cmd.WarehouseID, "sku", record.SKU, "quantity", cmd.Quantity)
	return ToInventoryRecordDTO(record), nil
}

// DiscontinueSKU marks a SKU end-of-life
func (s *LedgerService) DiscontinueSKU(ctx context.Context, cmd DiscontinueSKUCommand) (*InventoryRecordDTO, error) {
	record, err := s.mutate(ctx, cmd.WarehouseID, cmd.SKU, func(r *domain.InventoryRecord) error {
		return r.Discontinue(cmd.PerformedBy)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Discontinued sku", "warehouseId", cmd.WarehouseID, "sku", record.SKU)
	return ToInventoryRecordDTO(record), nil
}

// GetInventory retrieves a single inventory record
func (s *LedgerService) GetInventory(ctx context.Context, query GetInventoryQuery) (*InventoryRecordDTO, error) {
	record, err := s.repo.FindBySKU(ctx, query.WarehouseID, query.SKU)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}
	if record == nil {
		return nil, errors.ErrNotFound("inventory record")
	}
	return ToInventoryRecordDTO(record), nil
}

// ListInventory pages through records in a warehouse
func (s *LedgerService) ListInventory(ctx context.Context, query ListInventoryQuery) (*api.PageResponse[*InventoryRecordDTO], error) {
	limit, offset := normalizePage(query.Limit, query.Offset)

	records, total, err := s.repo.FindByWarehouse(ctx, query.WarehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}

	return api.NewPageResponse(ToInventoryRecordDTOs(records), total, limit, offset), nil
}

// GetLowStock lists records at or below their reorder point
func (s *LedgerService) GetLowStock(ctx context.Context, warehouseID string) ([]*InventoryRecordDTO, error) {
	records, err := s.repo.FindLowStock(ctx, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock: %w", err)
	}
	return ToInventoryRecordDTOs(records), nil
}

// GetMovements pages through movement history, newest first
func (s *LedgerService) GetMovements(ctx context.Context, query MovementHistoryQuery) (*api.PageResponse[*StockMovementDTO], error) {
	limit, offset := normalizePage(query.Limit, query.Offset)

	filter := domain.MovementFilter{
		WarehouseID: query.WarehouseID,
		SKU:         domain.NormalizeSKU(query.SKU),
		ReferenceID: query.ReferenceID,
	}
	if query.Type != "" {
		mt := domain.MovementType(query.Type)
		if !mt.IsValid() {
			return nil, errors.ErrValidation("unknown movement type: " + query.Type)
		}
		filter.Type = mt
	}

	movements, total, err := s.repo.FindMovements(ctx, filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}

	return api.NewPageResponse(ToStockMovementDTOs(movements), total, limit, offset), nil
}

// restockApplied reports whether a restock movement for this RTO reference
// and SKU has already been written.
func (s *LedgerService) restockApplied(ctx context.Context, cmd ReceiveStockCommand) (bool, error) {
	if cmd.ReferenceID == "" {
		return false, nil
	}
	movements, _, err := s.repo.FindMovements(ctx, domain.MovementFilter{
		WarehouseID: cmd.WarehouseID,
		SKU:         domain.NormalizeSKU(cmd.SKU),
		Type:        domain.MovementRTORestock,
		ReferenceID: cmd.ReferenceID,
	}, 1, 0)
	if err != nil {
		return false, fmt.Errorf("failed to check restock movements: %w", err)
	}
	return len(movements) > 0, nil
}

// mutate loads the record, applies the domain action and saves, retrying on
// optimistic concurrency conflicts with a fresh load each attempt.
func (s *LedgerService) mutate(ctx context.Context, warehouseID, sku string, action func(*domain.InventoryRecord) error) (*domain.InventoryRecord, error) {
	var lastErr error
	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		record, err := s.repo.FindBySKU(ctx, warehouseID, sku)
		if err != nil {
			return nil, fmt.Errorf("failed to load inventory: %w", err)
		}
		if record == nil {
			return nil, errors.ErrNotFound("inventory record")
		}

		if err := action(record); err != nil {
			return nil, errors.MapDomainError(err)
		}

		if err := s.repo.Save(ctx, record); err != nil {
			if stderrors.Is(err, domain.ErrVersionConflict) {
				lastErr = err
				continue
			}
			return nil, fmt.Errorf("failed to save inventory: %w", err)
		}
		return record, nil
	}

	s.logger.Warn("Inventory save exhausted retries",
		"warehouseId", warehouseID, "sku", sku, "attempts", maxSaveAttempts)
	return nil, errors.ErrConflict("inventory record is under concurrent modification").Wrap(lastErr)
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
