package mongodb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dhirajgiri3/Shipcrowd-sub003/internal/inventory/domain"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/cloudevents"
	pkgtesting "github.com/dhirajgiri3/Shipcrowd-sub003/pkg/testing"
)

type InventoryRepositoryIntegrationTestSuite struct {
	suite.Suite
	mongoContainer *pkgtesting.MongoDBContainer
	client         *mongo.Client
	db             *mongo.Database
	repo           *InventoryRepository
	ctx            context.Context
}

func (s *InventoryRepositoryIntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()

	// Transactional saves need a replica set.
	container, err := pkgtesting.NewMongoDBReplicaSetContainer(s.ctx)
	s.Require().NoError(err)
	s.mongoContainer = container

	client, err := container.GetClient(s.ctx)
	s.Require().NoError(err)
	s.client = client

	s.db = client.Database("inventory_test")
	s.repo = NewInventoryRepository(s.db, cloudevents.NewEventFactory(cloudevents.SourceInventory))
}

func (s *InventoryRepositoryIntegrationTestSuite) TearDownSuite() {
	if s.client != nil {
		s.client.Disconnect(s.ctx)
	}
	if s.mongoContainer != nil {
		s.Require().NoError(s.mongoContainer.Close(s.ctx))
	}
}

func (s *InventoryRepositoryIntegrationTestSuite) TearDownTest() {
	s.db.Collection("inventory_records").Drop(s.ctx)
	s.db.Collection("stock_movements").Drop(s.ctx)
	s.db.Collection("outbox_events").Drop(s.ctx)
}

func TestInventoryRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	suite.Run(t, new(InventoryRepositoryIntegrationTestSuite))
}

func (s *InventoryRepositoryIntegrationTestSuite) newSavedRecord(sku string) *domain.InventoryRecord {
	record, err := domain.NewInventoryRecord("WH-001", "CMP-001", sku, "Integration Widget", domain.ReplenishmentPolicy{
		ReorderPoint:    10,
		ReorderQuantity: 50,
	})
	s.Require().NoError(err)
	s.Require().NoError(s.repo.Save(s.ctx, record))
	return record
}

func (s *InventoryRepositoryIntegrationTestSuite) TestSave_CreatesRecordAndOutboxEvent() {
	record := s.newSavedRecord("WIDGET-001")

	retrieved, err := s.repo.FindBySKU(s.ctx, "WH-001", "widget-001")
	s.Require().NoError(err)
	s.Require().NotNil(retrieved)
	s.Equal("WIDGET-001", retrieved.SKU)
	s.Equal(int64(1), retrieved.Version)
	s.Equal(domain.StatusOutOfStock, retrieved.Status)
	s.Empty(retrieved.DomainEvents)
	_ = record

	// Registration event landed in the outbox within the same transaction.
	count, err := s.db.Collection("outbox_events").CountDocuments(s.ctx, bson.M{})
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}

func (s *InventoryRepositoryIntegrationTestSuite) TestSave_RejectsDuplicateSKU() {
	s.newSavedRecord("WIDGET-002")

	dup, err := domain.NewInventoryRecord("WH-001", "CMP-001", "WIDGET-002", "Integration Widget", domain.ReplenishmentPolicy{})
	s.Require().NoError(err)

	err = s.repo.Save(s.ctx, dup)
	s.Require().Error(err)
	s.ErrorIs(err, domain.ErrDuplicateSKU)
}

func (s *InventoryRepositoryIntegrationTestSuite) TestSave_PersistsMovementsTransactionally() {
	record := s.newSavedRecord("WIDGET-003")

	loaded, err := s.repo.FindBySKU(s.ctx, "WH-001", "WIDGET-003")
	s.Require().NoError(err)
	s.Require().NoError(loaded.ReceiveStock(100, "A1-01", domain.MovementReceive, "purchase_order", "PO-1", "user1"))
	s.Require().NoError(s.repo.Save(s.ctx, loaded))

	movements, total, err := s.repo.FindMovements(s.ctx, domain.MovementFilter{
		WarehouseID: "WH-001",
		SKU:         "WIDGET-003",
	}, 10, 0)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(movements, 1)
	s.Equal(domain.MovementReceive, movements[0].Type)
	s.Equal(0, movements[0].PreviousQuantity)
	s.Equal(100, movements[0].NewQuantity)
	s.Equal(record.ID.Hex(), movements[0].InventoryID)
}

func (s *InventoryRepositoryIntegrationTestSuite) TestSave_VersionConflictLosesRace() {
	s.newSavedRecord("WIDGET-004")

	first, err := s.repo.FindBySKU(s.ctx, "WH-001", "WIDGET-004")
	s.Require().NoError(err)
	second, err := s.repo.FindBySKU(s.ctx, "WH-001", "WIDGET-004")
	s.Require().NoError(err)

	s.Require().NoError(first.ReceiveStock(10, "A1-01", domain.MovementReceive, "", "", "u"))
	s.Require().NoError(s.repo.Save(s.ctx, first))

	s.Require().NoError(second.ReceiveStock(20, "A1-01", domain.MovementReceive, "", "", "u"))
	err = s.repo.Save(s.ctx, second)
	s.Require().Error(err)
	s.ErrorIs(err, domain.ErrVersionConflict)

	// The losing write left no trace.
	current, err := s.repo.FindBySKU(s.ctx, "WH-001", "WIDGET-004")
	s.Require().NoError(err)
	s.Equal(10, current.OnHand)
	s.Equal(int64(2), current.Version)

	_, total, err := s.repo.FindMovements(s.ctx, domain.MovementFilter{WarehouseID: "WH-001", SKU: "WIDGET-004"}, 10, 0)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
}

func (s *InventoryRepositoryIntegrationTestSuite) TestFindMovements_NewestFirst() {
	s.newSavedRecord("WIDGET-005")

	for i := 0; i < 3; i++ {
		loaded, err := s.repo.FindBySKU(s.ctx, "WH-001", "WIDGET-005")
		s.Require().NoError(err)
		s.Require().NoError(loaded.ReceiveStock(10, "A1-01", domain.MovementReceive, "", "", "u"))
		s.Require().NoError(s.repo.Save(s.ctx, loaded))
	}

	movements, total, err := s.repo.FindMovements(s.ctx, domain.MovementFilter{
		WarehouseID: "WH-001",
		SKU:         "WIDGET-005",
	}, 2, 0)
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Require().Len(movements, 2)
	s.Equal(30, movements[0].NewQuantity)
	s.Equal(20, movements[1].NewQuantity)
}

func (s *InventoryRepositoryIntegrationTestSuite) TestFindLowStock() {
	s.newSavedRecord("WIDGET-006")

	loaded, err := s.repo.FindBySKU(s.ctx, "WH-001", "WIDGET-006")
	s.Require().NoError(err)
	s.Require().NoError(loaded.ReceiveStock(100, "A1-01", domain.MovementReceive, "", "", "u"))
	s.Require().NoError(s.repo.Save(s.ctx, loaded))

	low, err := s.repo.FindLowStock(s.ctx, "WH-001")
	s.Require().NoError(err)
	s.Empty(low)

	loaded, err = s.repo.FindBySKU(s.ctx, "WH-001", "WIDGET-006")
	s.Require().NoError(err)
	s.Require().NoError(loaded.Reserve(95, "ORD-1", "u"))
	s.Require().NoError(s.repo.Save(s.ctx, loaded))

	low, err = s.repo.FindLowStock(s.ctx, "WH-001")
	s.Require().NoError(err)
	s.Require().Len(low, 1)
	s.Equal(domain.StatusLowStock, low[0].Status)
}
