package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dhirajgiri3/Shipcrowd-sub003/internal/packing/domain"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/cloudevents"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/kafka"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/outbox"
	outboxMongo "github.com/dhirajgiri3/Shipcrowd-sub003/pkg/outbox/mongodb"
)

type StationRepository struct {
	collection   *mongo.Collection
	db           *mongo.Database
	outboxRepo   *outboxMongo.OutboxRepository
	eventFactory *cloudevents.EventFactory
}

func NewStationRepository(db *mongo.Database, eventFactory *cloudevents.EventFactory) *StationRepository {
	repo := &StationRepository{
		collection:   db.Collection("packing_stations"),
		db:           db,
		outboxRepo:   outboxMongo.NewOutboxRepository(db),
		eventFactory: eventFactory,
	}
	repo.ensureIndexes(context.Background())
	_ = repo.outboxRepo.EnsureIndexes(context.Background())

	return repo
}

func (r *StationRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "warehouseId", Value: 1}, {Key: "stationCode", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "warehouseId", Value: 1}, {Key: "status", Value: 1}}},
	}
	r.collection.Indexes().CreateMany(ctx, indexes)
}

// Save persists the station with an optimistic version check. The check is
// what makes packer assignment a compare-and-set: the losing claim matches
// zero documents and gets ErrStationConflict.
func (r *StationRepository) Save(ctx context.Context, station *domain.PackingStation) error {
	station.UpdatedAt = time.Now().UTC()

	session, err := r.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		if err := r.saveStation(sessCtx, station); err != nil {
			return nil, err
		}
		if err := r.saveOutboxEvents(sessCtx, station); err != nil {
			return nil, err
		}
		station.ClearDomainEvents()
		return nil, nil
	})

	return err
}

func (r *StationRepository) saveStation(sessCtx mongo.SessionContext, station *domain.PackingStation) error {
	if station.Version == 0 {
		station.Version = 1
		if _, err := r.collection.InsertOne(sessCtx, station); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return fmt.Errorf("station %s already registered", station.StationCode)
			}
			return fmt.Errorf("failed to insert station: %w", err)
		}
		return nil
	}

	filter := bson.M{"_id": station.ID, "version": station.Version}
	update := bson.M{
		"$set": bson.M{
			"status":         station.Status,
			"assignedTo":     station.AssignedTo,
			"currentSession": station.CurrentSession,
			"offlineReason":  station.OfflineReason,
			"capabilities":   station.Capabilities,
			"updatedAt":      station.UpdatedAt,
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.collection.UpdateOne(sessCtx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update station: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrStationConflict
	}
	station.Version++
	return nil
}

func (r *StationRepository) saveOutboxEvents(sessCtx mongo.SessionContext, station *domain.PackingStation) error {
	if len(station.DomainEvents) == 0 {
		return nil
	}

	outboxEvents := make([]*outbox.OutboxEvent, 0, len(station.DomainEvents))
	for _, event := range station.DomainEvents {
		var cloudEvent *cloudevents.CloudEvent
		switch e := event.(type) {
		case *domain.StationRegisteredEvent:
			cloudEvent = r.eventFactory.CreateEvent(sessCtx, cloudevents.StationRegistered, "station/"+e.WarehouseID+"/"+e.StationCode, e)
			cloudEvent.WarehouseID = e.WarehouseID
		case *domain.SessionStartedEvent:
			cloudEvent = r.eventFactory.CreatePackingSessionEvent(sessCtx, cloudevents.PackingSessionStarted, e.SessionID, e.StationCode, e.PickListID, e.PackerID)
		case *domain.ItemPackedEvent:
			cloudEvent = r.eventFactory.CreateEvent(sessCtx, cloudevents.PackingItemVerified, "packing-session/"+e.SessionID, e)
		case *domain.WeightCheckedEvent:
			cloudEvent = r.eventFactory.CreateWeightVerificationEvent(sessCtx, e.SessionID, e.StationCode, e.Expected, e.Actual, e.Tolerance, e.Passed)
		case *domain.SessionCompletedEvent:
			cloudEvent = r.eventFactory.CreatePackingSessionEvent(sessCtx, cloudevents.PackingSessionCompleted, e.SessionID, e.StationCode, e.PickListID, e.PackerID)
		default:
			continue
		}

		outboxEvent, err := outbox.NewOutboxEventFromCloudEvent(
			station.StationCode,
			"PackingStation",
			kafka.Topics.PackingEvents,
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

func (r *StationRepository) FindByStationCode(ctx context.Context, warehouseID, stationCode string) (*domain.PackingStation, error) {
	var station domain.PackingStation
	filter := bson.M{"warehouseId": warehouseID, "stationCode": stationCode}

	err := r.collection.FindOne(ctx, filter).Decode(&station)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find station: %w", err)
	}
	return &station, nil
}

func (r *StationRepository) Find(ctx context.Context, filter domain.StationFilter, limit, offset int) ([]*domain.PackingStation, int64, error) {
	query := bson.M{}
	if filter.WarehouseID != "" {
		query["warehouseId"] = filter.WarehouseID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count stations: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "stationCode", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list stations: %w", err)
	}
	defer cursor.Close(ctx)

	var stations []*domain.PackingStation
	if err := cursor.All(ctx, &stations); err != nil {
		return nil, 0, fmt.Errorf("failed to decode stations: %w", err)
	}
	return stations, total, nil
}

// GetOutboxRepository exposes the outbox store for the publisher
func (r *StationRepository) GetOutboxRepository() *outboxMongo.OutboxRepository {
	return r.outboxRepo
}
