package mongodb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dhirajgiri3/Shipcrowd-sub003/internal/packing/domain"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/cloudevents"
	pkgtesting "github.com/dhirajgiri3/Shipcrowd-sub003/pkg/testing"
)

type StationRepositoryIntegrationTestSuite struct {
	suite.Suite
	mongoContainer *pkgtesting.MongoDBContainer
	client         *mongo.Client
	db             *mongo.Database
	repo           *StationRepository
	ctx            context.Context
}

func (s *StationRepositoryIntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := pkgtesting.NewMongoDBReplicaSetContainer(s.ctx)
	s.Require().NoError(err)
	s.mongoContainer = container

	client, err := container.GetClient(s.ctx)
	s.Require().NoError(err)
	s.client = client

	s.db = client.Database("packing_test")
	s.repo = NewStationRepository(s.db, cloudevents.NewEventFactory(cloudevents.SourcePacking))
}

func (s *StationRepositoryIntegrationTestSuite) TearDownSuite() {
	if s.client != nil {
		s.client.Disconnect(s.ctx)
	}
	if s.mongoContainer != nil {
		s.Require().NoError(s.mongoContainer.Close(s.ctx))
	}
}

func (s *StationRepositoryIntegrationTestSuite) TearDownTest() {
	s.db.Collection("packing_stations").Drop(s.ctx)
	s.db.Collection("outbox_events").Drop(s.ctx)
}

func TestStationRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	suite.Run(t, new(StationRepositoryIntegrationTestSuite))
}

func (s *StationRepositoryIntegrationTestSuite) newSavedStation(code string) *domain.PackingStation {
	station, err := domain.NewPackingStation("WH-001", code, []string{"fragile"})
	s.Require().NoError(err)
	s.Require().NoError(s.repo.Save(s.ctx, station))
	return station
}

func (s *StationRepositoryIntegrationTestSuite) TestSaveAndFind() {
	station := s.newSavedStation("PACK-01")
	s.Equal(int64(1), station.Version)

	found, err := s.repo.FindByStationCode(s.ctx, "WH-001", "PACK-01")
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Equal(domain.StationAvailable, found.Status)
	s.Equal(int64(1), found.Version)

	// registration landed in the outbox
	count, err := s.db.Collection("outbox_events").CountDocuments(s.ctx, bson.M{"aggregateId": "PACK-01"})
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}

func (s *StationRepositoryIntegrationTestSuite) TestDuplicateStationRejected() {
	s.newSavedStation("PACK-01")

	dup, err := domain.NewPackingStation("WH-001", "PACK-01", nil)
	s.Require().NoError(err)
	s.Error(s.repo.Save(s.ctx, dup))
}

func (s *StationRepositoryIntegrationTestSuite) TestConcurrentClaimLosesVersionCheck() {
	s.newSavedStation("PACK-01")

	first, err := s.repo.FindByStationCode(s.ctx, "WH-001", "PACK-01")
	s.Require().NoError(err)
	second, err := s.repo.FindByStationCode(s.ctx, "WH-001", "PACK-01")
	s.Require().NoError(err)

	s.Require().NoError(first.AssignPacker("packer-1"))
	s.Require().NoError(s.repo.Save(s.ctx, first))

	s.Require().NoError(second.AssignPacker("packer-2"))
	err = s.repo.Save(s.ctx, second)
	s.Require().ErrorIs(err, domain.ErrStationConflict)

	// the winner's claim is intact
	current, err := s.repo.FindByStationCode(s.ctx, "WH-001", "PACK-01")
	s.Require().NoError(err)
	s.Equal("packer-1", current.AssignedTo)
	s.Equal(domain.StationOccupied, current.Status)
	s.Equal(int64(2), current.Version)
}

func (s *StationRepositoryIntegrationTestSuite) TestSessionEventsReachOutbox() {
	s.newSavedStation("PACK-01")

	station, err := s.repo.FindByStationCode(s.ctx, "WH-001", "PACK-01")
	s.Require().NoError(err)
	s.Require().NoError(station.AssignPacker("packer-1"))
	s.Require().NoError(station.StartSession("PL-abc", "ORD-1", "1", "packer-1", []domain.SessionItem{
		{SKU: "SKU-A", QuantityRequired: 1},
	}))
	s.Require().NoError(s.repo.Save(s.ctx, station))

	count, err := s.db.Collection("outbox_events").CountDocuments(s.ctx, bson.M{
		"aggregateId": "PACK-01",
		"eventType":   cloudevents.PackingSessionStarted,
	})
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}

func (s *StationRepositoryIntegrationTestSuite) TestFindByStatus() {
	s.newSavedStation("PACK-01")
	s.newSavedStation("PACK-02")

	station, err := s.repo.FindByStationCode(s.ctx, "WH-001", "PACK-02")
	s.Require().NoError(err)
	s.Require().NoError(station.SetOffline(domain.StationMaintenance, "scale check"))
	s.Require().NoError(s.repo.Save(s.ctx, station))

	available, total, err := s.repo.Find(s.ctx, domain.StationFilter{
		WarehouseID: "WH-001",
		Status:      domain.StationAvailable,
	}, 10, 0)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(available, 1)
	s.Equal("PACK-01", available[0].StationCode)
}
