package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dhirajgiri3/Shipcrowd-sub003/internal/rto/domain"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/cloudevents"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/kafka"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/outbox"
	outboxMongo "github.com/dhirajgiri3/Shipcrowd-sub003/pkg/outbox/mongodb"
)

type RTORepository struct {
	collection   *mongo.Collection
	db           *mongo.Database
	outboxRepo   *outboxMongo.OutboxRepository
	eventFactory *cloudevents.EventFactory
}

func NewRTORepository(db *mongo.Database, eventFactory *cloudevents.EventFactory) *RTORepository {
	repo := &RTORepository{
		collection:   db.Collection("rto_events"),
		db:           db,
		outboxRepo:   outboxMongo.NewOutboxRepository(db),
		eventFactory: eventFactory,
	}
	repo.ensureIndexes(context.Background())
	_ = repo.outboxRepo.EnsureIndexes(context.Background())

	return repo
}

func (r *RTORepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "rtoId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "shipmentId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "warehouseId", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "orderId", Value: 1}}},
	}
	r.collection.Indexes().CreateMany(ctx, indexes)
}

func (r *RTORepository) Save(ctx context.Context, rto *domain.RTOEvent) error {
	rto.UpdatedAt = time.Now().UTC()

	session, err := r.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		if err := r.saveEvent(sessCtx, rto); err != nil {
			return nil, err
		}
		if err := r.saveOutboxEvents(sessCtx, rto); err != nil {
			return nil, err
		}
		rto.ClearDomainEvents()
		return nil, nil
	})

	return err
}

// saveEvent guards updates with the aggregate version so a stale writer
// cannot overwrite a concurrent resolution.
func (r *RTORepository) saveEvent(sessCtx mongo.SessionContext, rto *domain.RTOEvent) error {
	if rto.Version == 0 {
		rto.Version = 1
		if _, err := r.collection.InsertOne(sessCtx, rto); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return fmt.Errorf("rto event already exists for shipment %s", rto.ShipmentID)
			}
			return fmt.Errorf("failed to insert rto event: %w", err)
		}
		return nil
	}

	filter := bson.M{"rtoId": rto.RTOID, "version": rto.Version}
	update := bson.M{
		"$set": bson.M{
			"status":             rto.Status,
			"reverseAwb":         rto.ReverseAWB,
			"expectedReturnDate": rto.ExpectedReturnDate,
			"actualReturnDate":   rto.ActualReturnDate,
			"qcResult":           rto.QCResult,
			"resolution":         rto.Resolution,
			"rtoCharges":         rto.RTOCharges,
			"chargesDeducted":    rto.ChargesDeducted,
			"resolvedAt":         rto.ResolvedAt,
			"updatedAt":          rto.UpdatedAt,
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.collection.UpdateOne(sessCtx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update rto event: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrVersionConflict
	}
	rto.Version++
	return nil
}

func (r *RTORepository) saveOutboxEvents(sessCtx mongo.SessionContext, rto *domain.RTOEvent) error {
	if len(rto.DomainEvents) == 0 {
		return nil
	}

	outboxEvents := make([]*outbox.OutboxEvent, 0, len(rto.DomainEvents))
	for _, event := range rto.DomainEvents {
		var eventType string
		switch event.(type) {
		case *domain.RTOInitiatedEvent:
			eventType = cloudevents.RTOInitiated
		case *domain.RTOInTransitEvent:
			eventType = cloudevents.RTOInTransit
		case *domain.RTODeliveredEvent:
			eventType = cloudevents.RTOReceived
		case *domain.RTOInspectedEvent:
			eventType = cloudevents.RTOInspected
		case *domain.RTOResolvedEvent:
			eventType = cloudevents.RTOResolved
		default:
			continue
		}

		cloudEvent := r.eventFactory.CreateRTOEvent(
			sessCtx,
			eventType,
			rto.RTOID,
			rto.AWB,
			rto.ReverseAWB,
			rto.OrderID,
			string(rto.Status),
			string(rto.Resolution),
		)

		outboxEvent, err := outbox.NewOutboxEventFromCloudEvent(
			rto.RTOID,
			"RTOEvent",
			kafka.Topics.RTOEvents,
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

func (r *RTORepository) FindByRTOID(ctx context.Context, rtoID string) (*domain.RTOEvent, error) {
	return r.findOne(ctx, bson.M{"rtoId": rtoID})
}

func (r *RTORepository) FindByShipmentID(ctx context.Context, shipmentID string) (*domain.RTOEvent, error) {
	return r.findOne(ctx, bson.M{"shipmentId": shipmentID})
}

func (r *RTORepository) findOne(ctx context.Context, filter bson.M) (*domain.RTOEvent, error) {
	var rto domain.RTOEvent
	err := r.collection.FindOne(ctx, filter).Decode(&rto)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find rto event: %w", err)
	}
	return &rto, nil
}

func (r *RTORepository) Find(ctx context.Context, filter domain.RTOFilter, limit, offset int) ([]*domain.RTOEvent, int64, error) {
	query := bson.M{}
	if filter.WarehouseID != "" {
		query["warehouseId"] = filter.WarehouseID
	}
	if filter.CompanyID != "" {
		query["companyId"] = filter.CompanyID
	}
	if filter.OrderID != "" {
		query["orderId"] = filter.OrderID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count rto events: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "initiatedAt", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list rto events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*domain.RTOEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, 0, fmt.Errorf("failed to decode rto events: %w", err)
	}
	return events, total, nil
}

// GetOutboxRepository exposes the outbox store for the publisher
func (r *RTORepository) GetOutboxRepository() *outboxMongo.OutboxRepository {
	return r.outboxRepo
}
