package application

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/errors"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/logging"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/metrics"

	"github.com/dhirajgiri3/Shipcrowd-sub003/internal/inventory/domain"
)

// ReservationService handles reservation use cases over the inventory
// ledger. Concurrent reservations against the same record are serialized by
// the repository's optimistic concurrency check; each conflicting attempt is
// retried on a fresh load so the availability check is never stale.
type ReservationService struct {
	repo    domain.InventoryRepository
	logger  *logging.Logger
	metrics *metrics.Metrics
}

// NewReservationService creates a new ReservationService
func NewReservationService(repo domain.InventoryRepository, logger *logging.Logger, m *metrics.Metrics) *ReservationService {
	return &ReservationService{
		repo:    repo,
		logger:  logger,
		metrics: m,
	}
}

// Reserve earmarks available stock for an order. All-or-nothing: when the
// requested quantity exceeds available the call fails without clamping.
func (s *ReservationService) Reserve(ctx context.Context, cmd ReserveStockCommand) (*InventoryRecordDTO, error) {
	record, err := s.mutate(ctx, cmd.WarehouseID, cmd.SKU, func(r *domain.InventoryRecord) error {
		return r.Reserve(cmd.Quantity, cmd.OrderID, cmd.PerformedBy)
	})
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok && appErr.Code == errors.CodeInsufficientStock && s.metrics != nil {
			s.metrics.RecordReservationConflict("insufficient_stock")
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordStockMovement(string(domain.MovementReserve))
	}
	s.logger.Info("Reserved stock",
		"warehouseId", cmd.WarehouseID, "sku", record.SKU,
		"orderId", cmd.OrderID, "quantity", cmd.Quantity, "available", record.Available())
	return ToInventoryRecordDTO(record), nil
}

// Release returns earmarked stock to the available pool
func (s *ReservationService) Release(ctx context.Context, cmd ReleaseReservationCommand) (*InventoryRecordDTO, error) {
	record, err := s.mutate(ctx, cmd.WarehouseID, cmd.SKU, func(r *domain.InventoryRecord) error {
		return r.ReleaseReservation(cmd.Quantity, cmd.OrderID, cmd.PerformedBy)
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordStockMovement(string(domain.MovementRelease))
	}
	s.logger.Info("Released reservation",
		"warehouseId", cmd.WarehouseID, "sku", record.SKU,
		"orderId", cmd.OrderID, "quantity", cmd.Quantity)
	return ToInventoryRecordDTO(record), nil
}

// Consume converts reserved stock into a completed pick. Consumption is
// idempotent per (pick list, order, sku): the movement log is checked first
// and a unique movement index catches concurrent duplicates, so a racing or
// retried completion can never consume the same line twice.
func (s *ReservationService) Consume(ctx context.Context, cmd ConsumeReservationCommand) (*InventoryRecordDTO, error) {
	applied, err := s.consumeApplied(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if applied {
		s.logger.Info("Pick line already consumed",
			"warehouseId", cmd.WarehouseID, "sku", cmd.SKU,
			"pickListId", cmd.PickListID, "orderId", cmd.OrderID)
		return s.current(ctx, cmd.WarehouseID, cmd.SKU)
	}

	record, err := s.mutate(ctx, cmd.WarehouseID, cmd.SKU, func(r *domain.InventoryRecord) error {
		return r.ConsumeReservation(cmd.Quantity, cmd.LocationID, cmd.OrderID, cmd.PickListID, cmd.PerformedBy)
	})
	if err != nil {
		if stderrors.Is(err, domain.ErrDuplicateMovement) {
			s.logger.Info("Pick line already consumed",
				"warehouseId", cmd.WarehouseID, "sku", cmd.SKU,
				"pickListId", cmd.PickListID, "orderId", cmd.OrderID)
			return s.current(ctx, cmd.WarehouseID, cmd.SKU)
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordStockMovement(string(domain.MovementPick))
	}
	s.logger.Info("Consumed reservation",
		"warehouseId", cmd.WarehouseID, "sku", record.SKU,
		"orderId", cmd.OrderID, "pickListId", cmd.PickListID, "quantity", cmd.Quantity)
	return ToInventoryRecordDTO(record), nil
}

// consumeApplied reports whether this pick list line was already consumed.
func (s *ReservationService) consumeApplied(ctx context.Context, cmd ConsumeReservationCommand) (bool, error) {
	if cmd.PickListID == "" {
		return false, nil
	}
	movements, _, err := s.repo.FindMovements(ctx, domain.MovementFilter{
		WarehouseID: cmd.WarehouseID,
		SKU:         domain.NormalizeSKU(cmd.SKU),
		Type:        domain.MovementPick,
		ReferenceID: cmd.PickListID,
	}, 100, 0)
	if err != nil {
		return false, fmt.Errorf("failed to check pick movements: %w", err)
	}
	for _, m := range movements {
		if m.OrderID == cmd.OrderID {
			return true, nil
		}
	}
	return false, nil
}

func (s *ReservationService) current(ctx context.Context, warehouseID, sku string) (*InventoryRecordDTO, error) {
	record, err := s.repo.FindBySKU(ctx, warehouseID, sku)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	if record == nil {
		return nil, errors.ErrNotFound("inventory record")
	}
	return ToInventoryRecordDTO(record), nil
}

func (s *ReservationService) mutate(ctx context.Context, warehouseID, sku string, action func(*domain.InventoryRecord) error) (*domain.InventoryRecord, error) {
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
				if s.metrics != nil {
					s.metrics.RecordReservationConflict("version_retry")
				}
				lastErr = err
				continue
			}
			return nil, fmt.Errorf("failed to save inventory: %w", err)
		}
		return record, nil
	}

	if s.metrics != nil {
		s.metrics.RecordReservationConflict("retries_exhausted")
	}
	s.logger.Warn("Reservation save exhausted retries",
		"warehouseId", warehouseID, "sku", sku, "attempts", maxSaveAttempts)
	return nil, errors.ErrConflict("inventory record is under concurrent modification").Wrap(lastErr)
}
