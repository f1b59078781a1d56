package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dhirajgiri3/Shipcrowd-sub003/internal/inventory/domain"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/cloudevents"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/kafka"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/outbox"
	outboxMongo "github.com/dhirajgiri3/Shipcrowd-sub003/pkg/outbox/mongodb"
)

type InventoryRepository struct {
	collection   *mongo.Collection
	movements    *mongo.Collection
	db           *mongo.Database
	outboxRepo   *outboxMongo.OutboxRepository
	eventFactory *cloudevents.EventFactory
}

func NewInventoryRepository(db *mongo.Database, eventFactory *cloudevents.EventFactory) *InventoryRepository {
	repo := &InventoryRepository{
		collection:   db.Collection("inventory_records"),
		movements:    db.Collection("stock_movements"),
		db:           db,
		outboxRepo:   outboxMongo.NewOutboxRepository(db),
		eventFactory: eventFactory,
	}
	repo.ensureIndexes(context.Background())
	_ = repo.outboxRepo.EnsureIndexes(context.Background())

	return repo
}

func (r *InventoryRepository) ensureIndexes(ctx context.Context) {
	recordIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "warehouseId", Value: 1}, {Key: "sku", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "companyId", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "locations.locationId", Value: 1}}},
	}
	r.collection.Indexes().CreateMany(ctx, recordIndexes)

	movementIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "movementId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "warehouseId", Value: 1}, {Key: "sku", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "referenceId", Value: 1}}},
		{Keys: bson.D{{Key: "type", Value: 1}}},
		// One pick per pick list line and one restock per RTO item. These
		// back the application-level idempotency checks under concurrency.
		{
			Keys: bson.D{{Key: "warehouseId", Value: 1}, {Key: "sku", Value: 1}, {Key: "referenceId", Value: 1}, {Key: "orderId", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"type": domain.MovementPick}),
		},
		{
			Keys: bson.D{{Key: "warehouseId", Value: 1}, {Key: "sku", Value: 1}, {Key: "referenceId", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"type": domain.MovementRTORestock}),
		},
	}
	r.movements.Indexes().CreateMany(ctx, movementIndexes)
}

// Save persists the record, its pending movements and its domain events in
// one transaction. Updates carry an optimistic concurrency check on the
// stored version; a mismatch returns domain.ErrVersionConflict and nothing
// is written.
func (r *InventoryRepository) Save(ctx context.Context, record *domain.InventoryRecord) error {
	record.UpdatedAt = time.Now().UTC()

	session, err := r.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		if err := r.saveRecord(sessCtx, record); err != nil {
			return nil, err
		}

		if len(record.PendingMovements) > 0 {
			docs := make([]interface{}, 0, len(record.PendingMovements))
			for _, m := range record.PendingMovements {
				docs = append(docs, m)
			}
			if _, err := r.movements.InsertMany(sessCtx, docs); err != nil {
				if mongo.IsDuplicateKeyError(err) {
					return nil, domain.ErrDuplicateMovement
				}
				return nil, fmt.Errorf("failed to save stock movements: %w", err)
			}
		}

		if err := r.saveOutboxEvents(sessCtx, record); err != nil {
			return nil, err
		}

		record.ClearPendingMovements()
		record.ClearDomainEvents()
		return nil, nil
	})

	return err
}

func (r *InventoryRepository) saveRecord(sessCtx mongo.SessionContext, record *domain.InventoryRecord) error {
	// Version 0 marks a record that has never been persisted.
	if record.Version == 0 {
		record.Version = 1
		if _, err := r.collection.InsertOne(sessCtx, record); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return domain.ErrDuplicateSKU
			}
			return fmt.Errorf("failed to insert inventory record: %w", err)
		}
		return nil
	}

	filter := bson.M{"_id": record.ID, "version": record.Version}
	update := bson.M{
		"$set": bson.M{
			"onHand":    record.OnHand,
			"reserved":  record.Reserved,
			"damaged":   record.Damaged,
			"policy":    record.Policy,
			"status":    record.Status,
			"locations": record.Locations,
			"updatedAt": record.UpdatedAt,
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.collection.UpdateOne(sessCtx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update inventory record: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrVersionConflict
	}
	record.Version++
	return nil
}

func (r *InventoryRepository) saveOutboxEvents(sessCtx mongo.SessionContext, record *domain.InventoryRecord) error {
	if len(record.DomainEvents) == 0 {
		return nil
	}

	outboxEvents := make([]*outbox.OutboxEvent, 0, len(record.DomainEvents))
	for _, event := range record.DomainEvents {
		var cloudEvent *cloudevents.CloudEvent
		switch e := event.(type) {
		case *domain.SKURegisteredEvent:
			cloudEvent = r.eventFactory.CreateEvent(sessCtx, cloudevents.SKURegistered, "inventory/"+e.WarehouseID+"/"+e.SKU, e)
			cloudEvent.WarehouseID = e.WarehouseID
		case *domain.StockAddedEvent:
			cloudEvent = r.eventFactory.CreateEvent(sessCtx, cloudevents.StockAdded, "inventory/"+e.WarehouseID+"/"+e.SKU, e)
			cloudEvent.WarehouseID = e.WarehouseID
		case *domain.StockAdjustedEvent:
			cloudEvent = r.eventFactory.CreateStockAdjustedEvent(sessCtx, e.SKU, e.WarehouseID, e.PreviousOnHand, e.NewOnHand, string(domain.MovementAdjustment), e.Reason)
		case *domain.StockReservedEvent:
			cloudEvent = r.eventFactory.CreateStockReservedEvent(sessCtx, e.SKU, e.WarehouseID, e.OrderID, e.Quantity, e.Available, e.Reserved)
		case *domain.ReservationReleasedEvent:
			cloudEvent = r.eventFactory.CreateEvent(sessCtx, cloudevents.ReservationReleased, "inventory/"+e.WarehouseID+"/"+e.SKU, e)
			cloudEvent.WarehouseID = e.WarehouseID
			cloudEvent.OrderID = e.OrderID
		case *domain.ReservationConsumedEvent:
			cloudEvent = r.eventFactory.CreateEvent(sessCtx, cloudevents.ReservationConsumed, "inventory/"+e.WarehouseID+"/"+e.SKU, e)
			cloudEvent.WarehouseID = e.WarehouseID
			cloudEvent.OrderID = e.OrderID
		case *domain.StockMarkedDamagedEvent:
			cloudEvent = r.eventFactory.CreateEvent(sessCtx, cloudevents.StockMarkedDamaged, "inventory/"+e.WarehouseID+"/"+e.SKU, e)
			cloudEvent.WarehouseID = e.WarehouseID
		case *domain.SKUDiscontinuedEvent:
			cloudEvent = r.eventFactory.CreateEvent(sessCtx, cloudevents.SKUDiscontinued, "inventory/"+e.WarehouseID+"/"+e.SKU, e)
			cloudEvent.WarehouseID = e.WarehouseID
		case *domain.LowStockAlertEvent:
			cloudEvent = r.eventFactory.CreateLowStockAlertEvent(sessCtx, e.SKU, e.WarehouseID, e.Available, e.ReorderPoint)
		default:
			continue
		}

		outboxEvent, err := outbox.NewOutboxEventFromCloudEvent(
			record.ID.Hex(),
			"InventoryRecord",
			kafka.Topics.InventoryEvents,
			cloudEvent,
		)
		if err != nil {
			return fmt.Errorf("failed to create outbox event: %w", err)
		}
		outboxEvents = append(outboxEvents, outboxEvent)
	}

	if len(outboxEvents) > 0 {
		if err := r.outboxRepo.SaveAll(sessCtx, outboxEvents); err != nil {
			return fmt.Errorf("failed to save outbox events: %w", err)
		}
	}
	return nil
}

func (r *InventoryRepository) FindBySKU(ctx context.Context, warehouseID, sku string) (*domain.InventoryRecord, error) {
	var record domain.InventoryRecord
	filter := bson.M{"warehouseId": warehouseID, "sku": domain.NormalizeSKU(sku)}

	err := r.collection.FindOne(ctx, filter).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find inventory record: %w", err)
	}
	return &record, nil
}

func (r *InventoryRepository) FindByID(ctx context.Context, id string) (*domain.InventoryRecord, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var record domain.InventoryRecord
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find inventory record: %w", err)
	}
	return &record, nil
}

func (r *InventoryRepository) FindByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*domain.InventoryRecord, int64, error) {
	filter := bson.M{"warehouseId": warehouseID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count inventory records: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "sku", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list inventory records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*domain.InventoryRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, 0, fmt.Errorf("failed to decode inventory records: %w", err)
	}
	return records, total, nil
}

func (r *InventoryRepository) FindLowStock(ctx context.Context, warehouseID string) ([]*domain.InventoryRecord, error) {
	filter := bson.M{
		"warehouseId": warehouseID,
		"status":      bson.M{"$in": []domain.InventoryStatus{domain.StatusLowStock, domain.StatusOutOfStock}},
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "sku", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*domain.InventoryRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode low stock records: %w", err)
	}
	return records, nil
}

func (r *InventoryRepository) FindMovements(ctx context.Context, filter domain.MovementFilter, limit, offset int) ([]*domain.StockMovement, int64, error) {
	query := bson.M{}
	if filter.WarehouseID != "" {
		query["warehouseId"] = filter.WarehouseID
	}
	if filter.SKU != "" {
		query["sku"] = filter.SKU
	}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.ReferenceID != "" {
		query["referenceId"] = filter.ReferenceID
	}

	total, err := r.movements.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count movements: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.movements.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list movements: %w", err)
	}
	defer cursor.Close(ctx)

	var movements []*domain.StockMovement
	if err := cursor.All(ctx, &movements); err != nil {
		return nil, 0, fmt.Errorf("failed to decode movements: %w", err)
	}
	return movements, total, nil
}

// GetOutboxRepository exposes the outbox store for the publisher
func (r *InventoryRepository) GetOutboxRepository() *outboxMongo.OutboxRepository {
	return r.outboxRepo
}
