package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dhirajgiri3/Shipcrowd-sub003/internal/rto/domain"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/cloudevents"
	pkgtesting "github.com/dhirajgiri3/Shipcrowd-sub003/pkg/testing"
)

type RTORepositoryIntegrationTestSuite struct {
	suite.Suite
	mongoContainer *pkgtesting.MongoDBContainer
	client         *mongo.Client
	db             *mongo.Database
	repo           *RTORepository
	ctx            context.Context
}

func (s *RTORepositoryIntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := pkgtesting.NewMongoDBReplicaSetContainer(s.ctx)
	s.Require().NoError(err)
	s.mongoContainer = container

	client, err := container.GetClient(s.ctx)
	s.Require().NoError(err)
	s.client = client

	s.db = client.Database("rto_test")
	s.repo = NewRTORepository(s.db, cloudevents.NewEventFactory(cloudevents.SourceRTO))
}

func (s *RTORepositoryIntegrationTestSuite) TearDownSuite() {
	if s.client != nil {
		s.client.Disconnect(s.ctx)
	}
	if s.mongoContainer != nil {
		s.Require().NoError(s.mongoContainer.Close(s.ctx))
	}
}

func (s *RTORepositoryIntegrationTestSuite) TearDownTest() {
	s.db.Collection("rto_events").Drop(s.ctx)
	s.db.Collection("outbox_events").Drop(s.ctx)
}

func TestRTORepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	suite.Run(t, new(RTORepositoryIntegrationTestSuite))
}

func (s *RTORepositoryIntegrationTestSuite) newSavedRTO(shipmentID string) *domain.RTOEvent {
	rto, err := domain.NewRTOEvent(
		shipmentID, "ORD-1001", "CMP-01", "WH-001", "AWB123",
		domain.ReasonRefused, domain.TriggerAuto,
		[]domain.RTOItem{{SKU: "SKU-A", Quantity: 2}},
		false,
	)
	s.Require().NoError(err)
	s.Require().NoError(s.repo.Save(s.ctx, rto))
	return rto
}

func (s *RTORepositoryIntegrationTestSuite) TestSaveAndFind() {
	rto := s.newSavedRTO("SHIP-001")
	s.Equal(int64(1), rto.Version)

	found, err := s.repo.FindByRTOID(s.ctx, rto.RTOID)
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Equal(domain.RTOInitiated, found.Status)
	s.Equal(int64(1), found.Version)

	byShipment, err := s.repo.FindByShipmentID(s.ctx, "SHIP-001")
	s.Require().NoError(err)
	s.Require().NotNil(byShipment)
	s.Equal(rto.RTOID, byShipment.RTOID)

	// initiation landed in the outbox
	count, err := s.db.Collection("outbox_events").CountDocuments(s.ctx, bson.M{
		"aggregateId": rto.RTOID,
		"eventType":   cloudevents.RTOInitiated,
	})
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}

func (s *RTORepositoryIntegrationTestSuite) TestDuplicateShipmentRejected() {
	s.newSavedRTO("SHIP-001")

	dup, err := domain.NewRTOEvent(
		"SHIP-001", "ORD-1001", "CMP-01", "WH-001", "AWB123",
		domain.ReasonRefused, domain.TriggerAuto,
		[]domain.RTOItem{{SKU: "SKU-A", Quantity: 2}},
		false,
	)
	s.Require().NoError(err)
	s.Error(s.repo.Save(s.ctx, dup))
}

func (s *RTORepositoryIntegrationTestSuite) TestConcurrentResolveLosesVersionCheck() {
	rto := s.newSavedRTO("SHIP-001")
	s.Require().NoError(rto.MarkInTransit("RAWB456", nil))
	s.Require().NoError(s.repo.Save(s.ctx, rto))
	s.Require().NoError(rto.MarkDelivered(time.Now().UTC()))
	s.Require().NoError(s.repo.Save(s.ctx, rto))

	first, err := s.repo.FindByRTOID(s.ctx, rto.RTOID)
	s.Require().NoError(err)
	second, err := s.repo.FindByRTOID(s.ctx, rto.RTOID)
	s.Require().NoError(err)

	s.Require().NoError(first.Resolve(domain.ResolutionRestock, "ops-1"))
	s.Require().NoError(s.repo.Save(s.ctx, first))

	s.Require().NoError(second.Resolve(domain.ResolutionRestock, "ops-2"))
	err = s.repo.Save(s.ctx, second)
	s.Require().ErrorIs(err, domain.ErrVersionConflict)

	// the winner's resolution is intact
	current, err := s.repo.FindByRTOID(s.ctx, rto.RTOID)
	s.Require().NoError(err)
	s.Equal(domain.RTORestocked, current.Status)
	s.Equal(domain.ResolutionRestock, current.Resolution)
	s.Equal(int64(4), current.Version)
}

func (s *RTORepositoryIntegrationTestSuite) TestLifecycleEventsReachOutbox() {
	rto := s.newSavedRTO("SHIP-001")

	loaded, err := s.repo.FindByRTOID(s.ctx, rto.RTOID)
	s.Require().NoError(err)
	s.Require().NoError(loaded.MarkInTransit("RAWB456", nil))
	s.Require().NoError(s.repo.Save(s.ctx, loaded))

	count, err := s.db.Collection("outbox_events").CountDocuments(s.ctx, bson.M{
		"aggregateId": rto.RTOID,
		"eventType":   cloudevents.RTOInTransit,
	})
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}

func (s *RTORepositoryIntegrationTestSuite) TestFindByFilter() {
	s.newSavedRTO("SHIP-001")
	other := s.newSavedRTO("SHIP-002")
	s.Require().NoError(other.MarkInTransit("RAWB456", nil))
	s.Require().NoError(s.repo.Save(s.ctx, other))

	initiated, total, err := s.repo.Find(s.ctx, domain.RTOFilter{
		WarehouseID: "WH-001",
		Status:      domain.RTOInitiated,
	}, 10, 0)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(initiated, 1)
	s.Equal("SHIP-001", initiated[0].ShipmentID)

	all, total, err := s.repo.Find(s.ctx, domain.RTOFilter{WarehouseID: "WH-001"}, 10, 0)
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Len(all, 2)
}
