package mongodb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dhirajgiri3/Shipcrowd-sub003/internal/picklist/domain"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/cloudevents"
	pkgtesting "github.com/dhirajgiri3/Shipcrowd-sub003/pkg/testing"
)

type PickListRepositoryIntegrationTestSuite struct {
	suite.Suite
	mongoContainer *pkgtesting.MongoDBContainer
	client         *mongo.Client
	db             *mongo.Database
	repo           *PickListRepository
	ctx            context.Context
}

func (s *PickListRepositoryIntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := pkgtesting.NewMongoDBReplicaSetContainer(s.ctx)
	s.Require().NoError(err)
	s.mongoContainer = container

	client, err := container.GetClient(s.ctx)
	s.Require().NoError(err)
	s.client = client

	s.db = client.Database("picklist_test")
	s.repo = NewPickListRepository(s.db, cloudevents.NewEventFactory(cloudevents.SourcePickList))
}

func (s *PickListRepositoryIntegrationTestSuite) TearDownSuite() {
	if s.client != nil {
		s.client.Disconnect(s.ctx)
	}
	if s.mongoContainer != nil {
		s.Require().NoError(s.mongoContainer.Close(s.ctx))
	}
}

func (s *PickListRepositoryIntegrationTestSuite) TearDownTest() {
	s.db.Collection("pick_lists").Drop(s.ctx)
	s.db.Collection("outbox_events").Drop(s.ctx)
}

func TestPickListRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	suite.Run(t, new(PickListRepositoryIntegrationTestSuite))
}

func (s *PickListRepositoryIntegrationTestSuite) newSavedPickList() *domain.PickList {
	pl, err := domain.NewPickList("WH-001", "CMP-001", domain.StrategyBatch, "", []domain.PickListItem{
		{OrderID: "ORD-1", SKU: "SKU-A", Quantity: 5, Location: domain.PickLocation{LocationID: "A1-01", Zone: "A", Aisle: "1"}},
		{OrderID: "ORD-2", SKU: "SKU-B", Quantity: 2, Location: domain.PickLocation{LocationID: "B2-03", Zone: "B", Aisle: "2"}},
	})
	s.Require().NoError(err)
	s.Require().NoError(s.repo.Save(s.ctx, pl))
	return pl
}

func (s *PickListRepositoryIntegrationTestSuite) TestSaveAndFind() {
	pl := s.newSavedPickList()
	s.Equal(int64(1), pl.Version)

	found, err := s.repo.FindByPickListID(s.ctx, pl.PickListID)
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Equal(domain.StatusPending, found.Status)
	s.Equal("CMP-001", found.CompanyID)
	s.Equal(int64(1), found.Version)
	s.Require().Len(found.Items, 2)
	s.Equal(1, found.Items[0].Sequence)

	// generation landed in the outbox
	count, err := s.db.Collection("outbox_events").CountDocuments(s.ctx, bson.M{
		"aggregateId": pl.PickListID,
		"eventType":   cloudevents.PickListGenerated,
	})
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}

func (s *PickListRepositoryIntegrationTestSuite) TestConcurrentCompleteLosesVersionCheck() {
	pl := s.newSavedPickList()
	s.Require().NoError(pl.Assign("picker-1"))
	s.Require().NoError(pl.Start())
	for _, item := range pl.Items {
		s.Require().NoError(pl.RecordPick(item.Sequence, item.Quantity, ""))
	}
	s.Require().NoError(s.repo.Save(s.ctx, pl))

	first, err := s.repo.FindByPickListID(s.ctx, pl.PickListID)
	s.Require().NoError(err)
	second, err := s.repo.FindByPickListID(s.ctx, pl.PickListID)
	s.Require().NoError(err)

	s.Require().NoError(first.Complete())
	s.Require().NoError(s.repo.Save(s.ctx, first))

	s.Require().NoError(second.Complete())
	err = s.repo.Save(s.ctx, second)
	s.Require().ErrorIs(err, domain.ErrVersionConflict)

	// the winner's completion is intact
	current, err := s.repo.FindByPickListID(s.ctx, pl.PickListID)
	s.Require().NoError(err)
	s.Equal(domain.StatusCompleted, current.Status)
	s.Equal(int64(3), current.Version)
}

func (s *PickListRepositoryIntegrationTestSuite) TestLifecycleEventsReachOutbox() {
	pl := s.newSavedPickList()

	loaded, err := s.repo.FindByPickListID(s.ctx, pl.PickListID)
	s.Require().NoError(err)
	s.Require().NoError(loaded.Assign("picker-1"))
	s.Require().NoError(s.repo.Save(s.ctx, loaded))

	count, err := s.db.Collection("outbox_events").CountDocuments(s.ctx, bson.M{
		"aggregateId": pl.PickListID,
		"eventType":   cloudevents.PickListAssigned,
	})
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}

func (s *PickListRepositoryIntegrationTestSuite) TestFindByFilter() {
	pl := s.newSavedPickList()

	loaded, err := s.repo.FindByPickListID(s.ctx, pl.PickListID)
	s.Require().NoError(err)
	s.Require().NoError(loaded.Assign("picker-1"))
	s.Require().NoError(s.repo.Save(s.ctx, loaded))

	assigned, total, err := s.repo.Find(s.ctx, domain.PickListFilter{
		WarehouseID: "WH-001",
		Status:      domain.StatusAssigned,
	}, 10, 0)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(assigned, 1)
	s.Equal("picker-1", assigned[0].PickerID)

	byOrder, total, err := s.repo.Find(s.ctx, domain.PickListFilter{OrderID: "ORD-2"}, 10, 0)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(byOrder, 1)

	none, total, err := s.repo.Find(s.ctx, domain.PickListFilter{WarehouseID: "WH-999"}, 10, 0)
	s.Require().NoError(err)
	s.Equal(int64(0), total)
	s.Empty(none)
}
