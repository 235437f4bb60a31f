package splitplanrepo_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "splitship/internal/adapters/out/postgres"
	"splitship/internal/adapters/out/postgres/postgrestest"
	"splitship/internal/adapters/out/postgres/recipientrepo"
	"splitship/internal/adapters/out/postgres/splitplanrepo"
	"splitship/internal/core/domain/model/audit"
	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/core/domain/model/recipient"
	"splitship/internal/core/domain/model/splitplan"
	"splitship/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockEventAppender is a mock implementation of the eventAppender interface.
type MockEventAppender struct {
	mock.Mock
}

func (m *MockEventAppender) Append(ctx context.Context, events ...audit.Event) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// SplitPlanRepositoryIntegrationTestSuite verifies split plan persistence
// against a PostgreSQL container.
type SplitPlanRepositoryIntegrationTestSuite struct {
	suite.Suite
	database   *postgrestest.Database
	shop       kernel.Shop
	events     *MockEventAppender
	repository *splitplanrepo.GormSplitPlanRepository
	recipients []*recipient.Recipient
}

func (suite *SplitPlanRepositoryIntegrationTestSuite) SetupSuite() {
	database, err := postgrestest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
	suite.Require().NoError(postgres_adapter.AutoMigrate(database.DB))
	suite.shop = kernel.MustNewShop("acme")
}

func (suite *SplitPlanRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())

	suite.events = new(MockEventAppender)
	suite.repository = splitplanrepo.NewGormSplitPlanRepository(suite.database.DB, suite.shop, suite.events)

	recipients := recipientrepo.NewGormRecipientRepository(suite.database.DB, suite.shop)
	suite.recipients = nil
	for _, name := range []string{"Alice", "Bob", "Carol"} {
		address, err := kernel.NewAddress("1 Main St", nil, "Springfield", nil, "12345", "US")
		suite.Require().NoError(err)
		r, err := recipient.NewRecipient(suite.shop, name, address)
		suite.Require().NoError(err)
		suite.Require().NoError(recipients.Add(context.Background(), r))
		suite.recipients = append(suite.recipients, r)
	}
}

func (suite *SplitPlanRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Terminate(context.Background()))
}

func (suite *SplitPlanRepositoryIntegrationTestSuite) TestAdd_ThenGet_RoundTrips() {
	ctx := context.Background()
	plan := suite.newPlan("cart-1")
	suite.events.On("Append", ctx, plan.PendingEvents()).Return(nil).Once()

	suite.Require().NoError(suite.repository.Add(ctx, plan))
	stored, err := suite.repository.Get(ctx, plan.ID())

	suite.Require().NoError(err)
	suite.True(stored.ID().IsEqual(plan.ID()))
	suite.Equal("line-1", stored.SourceLineRef())
	suite.Equal(5, stored.LineQuantity())
	suite.Equal(splitplan.Draft, stored.Status())
	suite.Equal(splitplan.DeliveryPending, stored.DeliveryStatus())
	suite.Equal("cart-1", *stored.CartToken())
	suite.Equal(int64(1), stored.Version())
	suite.Equal(plan.RecipientIDs(), stored.RecipientIDs(), "allocation order is kept")
	suite.events.AssertExpectations(suite.T())
}

func (suite *SplitPlanRepositoryIntegrationTestSuite) TestUpdate_ReplacesAllocationsAndAdvancesAttempts() {
	ctx := context.Background()
	plan := suite.newPlan("")
	suite.events.On("Append", ctx, mock.Anything).Return(nil)
	suite.Require().NoError(suite.repository.Add(ctx, plan))

	now := time.Now()
	suite.Require().NoError(plan.Update(nil, nil, []splitplan.AllocationInput{
		{RecipientID: suite.recipients[2].ID().String(), Quantity: 5},
	}, now))
	attempt, key, err := plan.NextDispatch()
	suite.Require().NoError(err)
	suite.Require().NoError(plan.RecordDispatched(attempt, key, map[string]string{"idempotencyKey": key}, now))

	suite.Require().NoError(suite.repository.Update(ctx, plan))
	stored, err := suite.repository.Get(ctx, plan.ID())

	suite.Require().NoError(err)
	suite.Equal([]kernel.UUID{suite.recipients[2].ID()}, stored.RecipientIDs())
	suite.Equal(1, stored.DeliveryAttempts())
	suite.Equal(splitplan.DeliverySent, stored.DeliveryStatus())
	suite.Equal(key, *stored.IdempotencyKey())
	suite.NotNil(stored.LastDeliveryAt())
	suite.Equal(int64(2), stored.Version())
}

func (suite *SplitPlanRepositoryIntegrationTestSuite) TestUpdate_NonExistentPlan_ReturnsNotFound() {
	plan := suite.newPlan("")

	err := suite.repository.Update(context.Background(), plan)

	suite.ErrorIs(err, errs.ErrObjectNotFound)
	suite.events.AssertNotCalled(suite.T(), "Append", mock.Anything, mock.Anything)
}

func (suite *SplitPlanRepositoryIntegrationTestSuite) TestAdd_PlanOfAnotherShop_IsRejected() {
	other := splitplanrepo.NewGormSplitPlanRepository(suite.database.DB, kernel.MustNewShop("other"), suite.events)

	err := other.Add(context.Background(), suite.newPlan(""))

	suite.ErrorIs(err, errs.ErrValueIsInvalid)
}

func (suite *SplitPlanRepositoryIntegrationTestSuite) TestFindForCorrelation_MatchesOrderOrCart() {
	ctx := context.Background()
	suite.events.On("Append", ctx, mock.Anything).Return(nil)

	byCart := suite.newPlan("cart-7")
	byOrder := suite.newPlan("")
	suite.Require().NoError(byOrder.CorrelateOrder("order-7", nil, nil, time.Now()))
	unrelated := suite.newPlan("cart-8")
	for _, p := range []*splitplan.SplitPlan{byCart, byOrder, unrelated} {
		suite.Require().NoError(suite.repository.Add(ctx, p))
	}

	cart := "cart-7"
	found, err := suite.repository.FindForCorrelation(ctx, "order-7", &cart)
	suite.Require().NoError(err)
	suite.Len(found, 2)

	found, err = suite.repository.FindForCorrelation(ctx, "order-7", nil)
	suite.Require().NoError(err)
	suite.Require().Len(found, 1)
	suite.True(found[0].ID().IsEqual(byOrder.ID()))
}

func (suite *SplitPlanRepositoryIntegrationTestSuite) TestList_NewestFirst() {
	ctx := context.Background()
	suite.events.On("Append", ctx, mock.Anything).Return(nil)

	older := suite.newPlanAt(time.Now().Add(-time.Hour))
	newer := suite.newPlanAt(time.Now())
	suite.Require().NoError(suite.repository.Add(ctx, older))
	suite.Require().NoError(suite.repository.Add(ctx, newer))

	plans, err := suite.repository.List(ctx, 10, 0)
	suite.Require().NoError(err)
	suite.Require().Len(plans, 2)
	suite.True(plans[0].ID().IsEqual(newer.ID()))

	plans, err = suite.repository.List(ctx, 1, 1)
	suite.Require().NoError(err)
	suite.Require().Len(plans, 1)
	suite.True(plans[0].ID().IsEqual(older.ID()))
}

func (suite *SplitPlanRepositoryIntegrationTestSuite) newPlan(cartToken string) *splitplan.SplitPlan {
	var token *string
	if cartToken != "" {
		token = &cartToken
	}
	plan, err := splitplan.NewSplitPlan(suite.shop, "line-1", 5, []splitplan.AllocationInput{
		{RecipientID: suite.recipients[1].ID().String(), Quantity: 3},
		{RecipientID: suite.recipients[0].ID().String(), Quantity: 2},
	}, token, time.Now())
	suite.Require().NoError(err)
	return plan
}

func (suite *SplitPlanRepositoryIntegrationTestSuite) newPlanAt(at time.Time) *splitplan.SplitPlan {
	plan, err := splitplan.NewSplitPlan(suite.shop, "line-1", 1, []splitplan.AllocationInput{
		{RecipientID: suite.recipients[0].ID().String(), Quantity: 1},
	}, nil, at)
	suite.Require().NoError(err)
	return plan
}

func TestSplitPlanRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(SplitPlanRepositoryIntegrationTestSuite))
}
