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
	"github.com/dhirajgiri3/Shipcrowd-sub003/internal/rto/domain"
)

// LedgerPort is the slice of the inventory ledger the RTO lifecycle needs
// to put resolved returns back on hand.
type LedgerPort interface {
	RestockFromRTO(ctx context.Context, cmd inventoryapp.ReceiveStockCommand) (*inventoryapp.InventoryRecordDTO, error)
}

// LifecycleService drives return-to-origin events from carrier trigger to
// final disposition. Restocking goes through the inventory ledger so the
// returned units show up in the movement chain like any other receipt.
type LifecycleService struct {
	repo    domain.RTORepository
	ledger  LedgerPort
	logger  *logging.Logger
	metrics *metrics.Metrics
}

// NewLifecycleService creates a new LifecycleService
func NewLifecycleService(repo domain.RTORepository, ledger LedgerPort, logger *logging.Logger, m *metrics.Metrics) *LifecycleService {
	return &LifecycleService{
		repo:    repo,
		ledger:  ledger,
		logger:  logger,
		metrics: m,
	}
}

// Create starts tracking a return for a shipment the carrier reported
// undeliverable. One shipment gets at most one RTO event.
func (s *LifecycleService) Create(ctx context.Context, cmd CreateRTOCommand) (*RTOEventDTO, error) {
	existing, err := s.repo.FindByShipmentID(ctx, cmd.ShipmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing rto: %w", err)
	}
	if existing != nil {
		return nil, errors.ErrConflict("rto event already exists for shipment " + cmd.ShipmentID)
	}

	items := make([]domain.RTOItem, 0, len(cmd.Items))
	for _, item := range cmd.Items {
		items = append(items, domain.RTOItem{SKU: item.SKU, Quantity: item.Quantity})
	}

	rto, err := domain.NewRTOEvent(
		cmd.ShipmentID, cmd.OrderID, cmd.CompanyID, cmd.WarehouseID, cmd.AWB,
		domain.RTOReason(cmd.Reason), domain.RTOTrigger(cmd.TriggeredBy),
		items, cmd.RequiresQC,
	)
	if err != nil {
		return nil, errors.MapDomainError(err)
	}
	if cmd.RTOCharges > 0 {
		if err := rto.AssessCharges(cmd.RTOCharges); err != nil {
			return nil, errors.MapDomainError(err)
		}
	}

	if err := s.save(ctx, rto); err != nil {
		return nil, err
	}

	s.logger.Info("RTO event created",
		"rtoId", rto.RTOID, "shipmentId", cmd.ShipmentID, "orderId", cmd.OrderID,
		"reason", cmd.Reason, "triggeredBy", cmd.TriggeredBy)
	return ToRTOEventDTO(rto), nil
}

// MarkInTransit records the reverse shipment leg starting back to the warehouse
func (s *LifecycleService) MarkInTransit(ctx context.Context, cmd MarkInTransitCommand) (*RTOEventDTO, error) {
	rto, err := s.load(ctx, cmd.RTOID)
	if err != nil {
		return nil, err
	}

	if err := rto.MarkInTransit(cmd.ReverseAWB, cmd.ExpectedReturnDate); err != nil {
		return nil, errors.MapDomainError(err)
	}
	if err := s.save(ctx, rto); err != nil {
		return nil, err
	}

	s.logger.Info("RTO in transit", "rtoId", rto.RTOID, "reverseAwb", cmd.ReverseAWB)
	return ToRTOEventDTO(rto), nil
}

// MarkDelivered records warehouse receipt. Returns that do not need
// inspection land directly in QC_COMPLETED, ready to resolve.
func (s *LifecycleService) MarkDelivered(ctx context.Context, cmd MarkDeliveredCommand) (*RTOEventDTO, error) {
	rto, err := s.load(ctx, cmd.RTOID)
	if err != nil {
		return nil, err
	}

	if err := rto.MarkDelivered(cmd.ActualReturnDate); err != nil {
		return nil, errors.MapDomainError(err)
	}
	if err := s.save(ctx, rto); err != nil {
		return nil, err
	}

	s.logger.Info("RTO delivered to warehouse",
		"rtoId", rto.RTOID, "warehouseId", rto.WarehouseID, "status", rto.Status)
	return ToRTOEventDTO(rto), nil
}

// RecordQC stores the inspection outcome. A failed inspection is recorded,
// not rejected, and the event moves on to resolution either way.
func (s *LifecycleService) RecordQC(ctx context.Context, cmd RecordQCCommand) (*RTOEventDTO, error) {
	rto, err := s.load(ctx, cmd.RTOID)
	if err != nil {
		return nil, err
	}

	if err := rto.RecordQCResult(cmd.Passed, cmd.Remarks, cmd.Images, cmd.InspectedBy); err != nil {
		return nil, errors.MapDomainError(err)
	}
	if err := s.save(ctx, rto); err != nil {
		return nil, err
	}

	s.logger.Info("RTO inspected",
		"rtoId", rto.RTOID, "passed", cmd.Passed, "inspectedBy", cmd.InspectedBy)
	return ToRTOEventDTO(rto), nil
}

// Resolve records the final disposition. Restocking goes through the
// ledger before the resolution is persisted, so a ledger failure leaves
// the event in QC_COMPLETED for retry instead of stranding stock. The
// ledger deduplicates restocks per return and SKU, so a retried or racing
// resolution cannot put the same units back twice.
func (s *LifecycleService) Resolve(ctx context.Context, cmd ResolveRTOCommand) (*RTOEventDTO, error) {
	rto, err := s.load(ctx, cmd.RTOID)
	if err != nil {
		return nil, err
	}

	resolution := domain.Resolution(cmd.Resolution)
	if err := rto.Resolve(resolution, cmd.ResolvedBy); err != nil {
		return nil, errors.MapDomainError(err)
	}

	if resolution == domain.ResolutionRestock {
		for _, item := range rto.Items {
			_, err := s.ledger.RestockFromRTO(ctx, inventoryapp.ReceiveStockCommand{
				WarehouseID:   rto.WarehouseID,
				SKU:           item.SKU,
				Quantity:      item.Quantity,
				LocationID:    cmd.LocationID,
				ReferenceType: "RTO",
				ReferenceID:   rto.RTOID,
				PerformedBy:   cmd.ResolvedBy,
			})
			if err != nil {
				s.logger.Error("RTO restock failed, resolution not persisted",
					"rtoId", rto.RTOID, "sku", item.SKU, "error", err)
				return nil, err
			}
		}
	}

	if err := s.save(ctx, rto); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordRTOResolution(string(resolution))
	}
	s.logger.Info("RTO resolved",
		"rtoId", rto.RTOID, "resolution", cmd.Resolution, "resolvedBy", cmd.ResolvedBy)
	return ToRTOEventDTO(rto), nil
}

// Get retrieves a single RTO event
func (s *LifecycleService) Get(ctx context.Context, rtoID string) (*RTOEventDTO, error) {
	rto, err := s.load(ctx, rtoID)
	if err != nil {
		return nil, err
	}
	return ToRTOEventDTO(rto), nil
}

// GetNotification builds the seller-facing payload for a return
func (s *LifecycleService) GetNotification(ctx context.Context, rtoID string) (*NotificationDTO, error) {
	rto, err := s.load(ctx, rtoID)
	if err != nil {
		return nil, err
	}
	return ToNotificationDTO(rto.Notification()), nil
}

// List pages through RTO events
func (s *LifecycleService) List(ctx context.Context, query ListRTOQuery) (*api.PageResponse[*RTOEventDTO], error) {
	limit, offset := normalizePage(query.Limit, query.Offset)

	filter := domain.RTOFilter{
		WarehouseID: query.WarehouseID,
		CompanyID:   query.CompanyID,
		OrderID:     query.OrderID,
	}
	if query.Status != "" {
		status := domain.RTOStatus(query.Status)
		if !status.IsValid() {
			return nil, errors.ErrValidation("unknown rto status: " + query.Status)
		}
		filter.Status = status
	}

	events, total, err := s.repo.Find(ctx, filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list rto events: %w", err)
	}

	return api.NewPageResponse(ToRTOEventDTOs(events), total, limit, offset), nil
}

// save persists the aggregate; a version conflict means another writer won
// the race and surfaces as a conflict rather than an internal error.
func (s *LifecycleService) save(ctx context.Context, rto *domain.RTOEvent) error {
	if err := s.repo.Save(ctx, rto); err != nil {
		if stderrors.Is(err, domain.ErrVersionConflict) {
			return errors.MapDomainError(err)
		}
		return fmt.Errorf("failed to save rto event: %w", err)
	}
	return nil
}

func (s *LifecycleService) load(ctx context.Context, rtoID string) (*domain.RTOEvent, error) {
	rto, err := s.repo.FindByRTOID(ctx, rtoID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rto event: %w", err)
	}
	if rto == nil {
		return nil, errors.ErrNotFoundWithID("rto event", rtoID)
	}
	return rto, nil
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
