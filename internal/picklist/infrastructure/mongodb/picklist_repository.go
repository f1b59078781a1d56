package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dhirajgiri3/Shipcrowd-sub003/internal/picklist/domain"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/cloudevents"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/kafka"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/outbox"
	outboxMongo "github.com/dhirajgiri3/Shipcrowd-sub003/pkg/outbox/mongodb"
)

type PickListRepository struct {
	collection   *mongo.Collection
	db           *mongo.Database
	outboxRepo   *outboxMongo.OutboxRepository
	eventFactory *cloudevents.EventFactory
}

func NewPickListRepository(db *mongo.Database, eventFactory *cloudevents.EventFactory) *PickListRepository {
	repo := &PickListRepository{
		collection:   db.Collection("pick_lists"),
		db:           db,
		outboxRepo:   outboxMongo.NewOutboxRepository(db),
		eventFactory: eventFactory,
	}
	repo.ensureIndexes(context.Background())
	_ = repo.outboxRepo.EnsureIndexes(context.Background())

	return repo
}

func (r *PickListRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "pickListId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "warehouseId", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "pickerId", Value: 1}}},
		{Keys: bson.D{{Key: "orderIds", Value: 1}}},
	}
	r.collection.Indexes().CreateMany(ctx, indexes)
}

// Save persists the pick list and writes its domain events to the outbox in
// one transaction. Updates are guarded by the aggregate version so a stale
// writer fails instead of silently overwriting a concurrent completion.
func (r *PickListRepository) Save(ctx context.Context, pickList *domain.PickList) error {
	pickList.UpdatedAt = time.Now().UTC()

	session, err := r.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		if err := r.savePickList(sessCtx, pickList); err != nil {
			return nil, err
		}

		if err := r.saveOutboxEvents(sessCtx, pickList); err != nil {
			return nil, err
		}

		pickList.ClearDomainEvents()
		return nil, nil
	})

	return err
}

func (r *PickListRepository) savePickList(sessCtx mongo.SessionContext, pickList *domain.PickList) error {
	if pickList.Version == 0 {
		pickList.Version = 1
		if _, err := r.collection.InsertOne(sessCtx, pickList); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return fmt.Errorf("pick list %s already exists", pickList.PickListID)
			}
			return fmt.Errorf("failed to insert pick list: %w", err)
		}
		return nil
	}

	filter := bson.M{"pickListId": pickList.PickListID, "version": pickList.Version}
	update := bson.M{
		"$set": bson.M{
			"status":       pickList.Status,
			"pickerId":     pickList.PickerID,
			"items":        pickList.Items,
			"priority":     pickList.Priority,
			"updatedAt":    pickList.UpdatedAt,
			"assignedAt":   pickList.AssignedAt,
			"startedAt":    pickList.StartedAt,
			"completedAt":  pickList.CompletedAt,
			"cancelReason": pickList.CancelReason,
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.collection.UpdateOne(sessCtx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update pick list: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrVersionConflict
	}
	pickList.Version++
	return nil
}

func (r *PickListRepository) saveOutboxEvents(sessCtx mongo.SessionContext, pickList *domain.PickList) error {
	if len(pickList.DomainEvents) == 0 {
		return nil
	}

	outboxEvents := make([]*outbox.OutboxEvent, 0, len(pickList.DomainEvents))
	for _, event := range pickList.DomainEvents {
		var cloudEvent *cloudevents.CloudEvent
		switch e := event.(type) {
		case *domain.PickListGeneratedEvent:
			cloudEvent = r.eventFactory.CreatePickListGeneratedEvent(sessCtx, e.PickListID, e.Strategy, e.OrderIDs, e.ItemCount)
		case *domain.PickListAssignedEvent:
			cloudEvent = r.eventFactory.CreateEvent(sessCtx, cloudevents.PickListAssigned, "pick-list/"+e.PickListID, e)
		case *domain.PickingStartedEvent:
			cloudEvent = r.eventFactory.CreateEvent(sessCtx, cloudevents.PickingStarted, "pick-list/"+e.PickListID, e)
		case *domain.ItemPickedEvent:
			cloudEvent = r.eventFactory.CreateItemPickedEvent(sessCtx, e.PickListID, e.SKU, e.LocationID, e.Quantity, e.Short)
		case *domain.PickListCompletedEvent:
			cloudEvent = r.eventFactory.CreateEvent(sessCtx, cloudevents.PickListCompleted, "pick-list/"+e.PickListID, e)
		case *domain.PickListCancelledEvent:
			cloudEvent = r.eventFactory.CreateEvent(sessCtx, cloudevents.PickListCancelled, "pick-list/"+e.PickListID, e)
		default:
			continue
		}

		outboxEvent, err := outbox.NewOutboxEventFromCloudEvent(
			pickList.PickListID,
			"PickList",
			kafka.Topics.PickListEvents,
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

func (r *PickListRepository) FindByPickListID(ctx context.Context, pickListID string) (*domain.PickList, error) {
	var pickList domain.PickList
	err := r.collection.FindOne(ctx, bson.M{"pickListId": pickListID}).Decode(&pickList)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find pick list: %w", err)
	}
	return &pickList, nil
}

func (r *PickListRepository) Find(ctx context.Context, filter domain.PickListFilter, limit, offset int) ([]*domain.PickList, int64, error) {
	query := bson.M{}
	if filter.WarehouseID != "" {
		query["warehouseId"] = filter.WarehouseID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.PickerID != "" {
		query["pickerId"] = filter.PickerID
	}
	if filter.OrderID != "" {
		query["orderIds"] = filter.OrderID
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count pick lists: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list pick lists: %w", err)
	}
	defer cursor.Close(ctx)

	var pickLists []*domain.PickList
	if err := cursor.All(ctx, &pickLists); err != nil {
		return nil, 0, fmt.Errorf("failed to decode pick lists: %w", err)
	}
	return pickLists, total, nil
}

// GetOutboxRepository exposes the outbox store for the publisher
func (r *PickListRepository) GetOutboxRepository() *outboxMongo.OutboxRepository {
	return r.outboxRepo
}
