package commands_test

import (
	"context"

	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/core/domain/model/recipient"
	"splitship/internal/core/domain/model/splitplan"
	"splitship/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockSplitPlanRepository struct{ mock.Mock }

func (m *MockSplitPlanRepository) Add(ctx context.Context, plan *splitplan.SplitPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockSplitPlanRepository) Update(ctx context.Context, plan *splitplan.SplitPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockSplitPlanRepository) Get(ctx context.Context, id kernel.UUID) (*splitplan.SplitPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*splitplan.SplitPlan), args.Error(1)
}

func (m *MockSplitPlanRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*splitplan.SplitPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*splitplan.SplitPlan), args.Error(1)
}

func (m *MockSplitPlanRepository) FindForCorrelation(
	ctx context.Context,
	orderRef string,
	cartToken *string,
) ([]*splitplan.SplitPlan, error) {
	args := m.Called(ctx, orderRef, cartToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*splitplan.SplitPlan), args.Error(1)
}

func (m *MockSplitPlanRepository) List(ctx context.Context, limit, offset int) ([]*splitplan.SplitPlan, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*splitplan.SplitPlan), args.Error(1)
}

func (m *MockSplitPlanRepository) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockRecipientRepository struct{ mock.Mock }

func (m *MockRecipientRepository) Add(ctx context.Context, r *recipient.Recipient) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRecipientRepository) Get(ctx context.Context, id kernel.UUID) (*recipient.Recipient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recipient.Recipient), args.Error(1)
}

func (m *MockRecipientRepository) FindByIDs(ctx context.Context, ids []kernel.UUID) ([]*recipient.Recipient, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*recipient.Recipient), args.Error(1)
}

func (m *MockRecipientRepository) List(ctx context.Context) ([]*recipient.Recipient, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*recipient.Recipient), args.Error(1)
}

func (m *MockRecipientRepository) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockDeliveryQueue struct{ mock.Mock }

func (m *MockDeliveryQueue) FindFailedDeliveries(ctx context.Context, maxAttempts, limit int) ([]ports.PlanRef, error) {
	args := m.Called(ctx, maxAttempts, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.PlanRef), args.Error(1)
}

type MockUnitOfWork struct{ mock.Mock }

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) SplitPlanRepository(shop kernel.Shop) ports.SplitPlanRepository {
	args := m.Called(shop)
	return args.Get(0).(ports.SplitPlanRepository)
}

func (m *MockUnitOfWork) RecipientRepository(shop kernel.Shop) ports.RecipientRepository {
	args := m.Called(shop)
	return args.Get(0).(ports.RecipientRepository)
}

func (m *MockUnitOfWork) AuditRepository(shop kernel.Shop) ports.AuditRepository {
	args := m.Called(shop)
	return args.Get(0).(ports.AuditRepository)
}

func (m *MockUnitOfWork) DeliveryQueue() ports.DeliveryQueue {
	args := m.Called()
	return args.Get(0).(ports.DeliveryQueue)
}

type MockUnitOfWorkFactory struct{ mock.Mock }

func (m *MockUnitOfWorkFactory) Create() ports.UnitOfWork {
	args := m.Called()
	return args.Get(0).(ports.UnitOfWork)
}

type MockPartnerClient struct{ mock.Mock }

func (m *MockPartnerClient) Send(ctx context.Context, idempotencyKey string, payload []byte) error {
	args := m.Called(ctx, idempotencyKey, payload)
	return args.Error(0)
}

// fixture bundles the mocks one handler call touches.
type fixture struct {
	shop       kernel.Shop
	factory    *MockUnitOfWorkFactory
	uow        *MockUnitOfWork
	plans      *MockSplitPlanRepository
	recipients *MockRecipientRepository
	queue      *MockDeliveryQueue
	partner    *MockPartnerClient
}

func newFixture() *fixture {
	f := &fixture{
		shop:       kernel.MustNewShop("acme"),
		factory:    new(MockUnitOfWorkFactory),
		uow:        new(MockUnitOfWork),
		plans:      new(MockSplitPlanRepository),
		recipients: new(MockRecipientRepository),
		queue:      new(MockDeliveryQueue),
		partner:    new(MockPartnerClient),
	}
	f.factory.On("Create").Return(f.uow)
	f.uow.On("SplitPlanRepository", f.shop).Return(f.plans).Maybe()
	f.uow.On("RecipientRepository", f.shop).Return(f.recipients).Maybe()
	f.uow.On("DeliveryQueue").Return(f.queue).Maybe()
	f.uow.On("Rollback", mock.Anything).Return(nil).Maybe()
	return f
}

// expectTransaction expects Begin and, when commit is true, Commit.
func (f *fixture) expectTransaction(commit bool) {
	f.uow.On("Begin", mock.Anything).Return(nil).Once()
	if commit {
		f.uow.On("Commit", mock.Anything).Return(nil).Once()
	}
}

func (f *fixture) assertExpectations(t mock.TestingT) {
	f.factory.AssertExpectations(t)
	f.uow.AssertExpectations(t)
	f.plans.AssertExpectations(t)
	f.recipients.AssertExpectations(t)
	f.queue.AssertExpectations(t)
	f.partner.AssertExpectations(t)
}
