package queries_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "splitship/internal/adapters/out/postgres"
	"splitship/internal/adapters/out/postgres/postgrestest"
	"splitship/internal/core/application/usecases/queries"
	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/core/domain/model/recipient"
	"splitship/internal/core/domain/model/splitplan"
	"splitship/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

type ListQueriesHandlerTestSuite struct {
	suite.Suite
	database   *postgrestest.Database
	factory    *postgres_adapter.GormUnitOfWorkFactory
	shop       kernel.Shop
	plans      queries.ListSplitPlansQueryHandler
	recipients queries.ListRecipientsQueryHandler
}

func (suite *ListQueriesHandlerTestSuite) SetupSuite() {
	database, err := postgrestest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
	suite.Require().NoError(postgres_adapter.AutoMigrate(database.DB))

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(database.DB)
	suite.shop = kernel.MustNewShop("acme")
	suite.plans = queries.NewListSplitPlansQueryHandler(database.DB)
	suite.recipients = queries.NewListRecipientsQueryHandler(database.DB)
}

func (suite *ListQueriesHandlerTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())
}

func (suite *ListQueriesHandlerTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Terminate(context.Background()))
}

func (suite *ListQueriesHandlerTestSuite) TestListSplitPlans_NewestFirstAndScoped() {
	ctx := context.Background()
	r := suite.addRecipient(suite.shop, "Alice")
	older := suite.addPlan(r, time.Now().Add(-time.Hour))
	newer := suite.addPlan(r, time.Now())

	otherShop := kernel.MustNewShop("other")
	suite.addPlan(suite.addRecipient(otherShop, "Mallory"), time.Now())

	query, err := queries.NewListSplitPlansQuery(suite.shop, 0, 0)
	suite.Require().NoError(err)

	summaries, err := suite.plans.Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Require().Len(summaries, 2)
	suite.Equal(newer.ID(), summaries[0].ID)
	suite.Equal(older.ID(), summaries[1].ID)
	suite.Equal("draft", summaries[0].Status)
	suite.Equal("pending", summaries[0].DeliveryStatus)
	suite.Equal(1, summaries[0].LineQuantity)
	suite.Nil(summaries[0].OrderRef)
}

func (suite *ListQueriesHandlerTestSuite) TestListSplitPlans_Paging() {
	ctx := context.Background()
	r := suite.addRecipient(suite.shop, "Alice")
	for i := range 3 {
		suite.addPlan(r, time.Now().Add(time.Duration(i)*time.Minute))
	}

	query, err := queries.NewListSplitPlansQuery(suite.shop, 2, 2)
	suite.Require().NoError(err)

	summaries, err := suite.plans.Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Len(summaries, 1)
}

func (suite *ListQueriesHandlerTestSuite) TestListSplitPlans_InvalidPage() {
	_, err := queries.NewListSplitPlansQuery(suite.shop, queries.MaxPageSize+1, -1)
	suite.ErrorIs(err, errs.ErrValueIsOutOfRange)
}

func (suite *ListQueriesHandlerTestSuite) TestListRecipients_OrderedByName() {
	ctx := context.Background()
	suite.addRecipient(suite.shop, "Carol")
	suite.addRecipient(suite.shop, "Alice")
	suite.addRecipient(kernel.MustNewShop("other"), "Bob")

	query, err := queries.NewListRecipientsQuery(suite.shop)
	suite.Require().NoError(err)

	list, err := suite.recipients.Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Require().Len(list, 2)
	suite.Equal("Alice", list[0].Name)
	suite.Equal("Carol", list[1].Name)
	suite.Equal("US", list[0].CountryCode)
	suite.Nil(list[0].Line2)
}

func (suite *ListQueriesHandlerTestSuite) addRecipient(shop kernel.Shop, name string) *recipient.Recipient {
	ctx := context.Background()
	address, err := kernel.NewAddress("1 Main St", nil, "Springfield", nil, "12345", "US")
	suite.Require().NoError(err)
	r, err := recipient.NewRecipient(shop, name, address)
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.RecipientRepository(shop).Add(ctx, r))
	suite.Require().NoError(uow.Commit(ctx))
	return r
}

func (suite *ListQueriesHandlerTestSuite) addPlan(r *recipient.Recipient, at time.Time) *splitplan.SplitPlan {
	ctx := context.Background()
	plan, err := splitplan.NewSplitPlan(r.Shop(), "line-1", 1, []splitplan.AllocationInput{
		{RecipientID: r.ID().String(), Quantity: 1},
	}, nil, at)
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.SplitPlanRepository(r.Shop()).Add(ctx, plan))
	suite.Require().NoError(uow.Commit(ctx))
	return plan
}

func TestListQueriesHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ListQueriesHandlerTestSuite))
}
