package cmd

import (
	httpadapter "splitship/internal/adapters/in/http"
	"splitship/internal/adapters/out/partner"
	"splitship/internal/adapters/out/postgres"
	"splitship/internal/core/application/usecases/commands"
	"splitship/internal/core/application/usecases/queries"
	"splitship/internal/core/domain/services"
	"splitship/internal/core/ports"
	"splitship/internal/jobs"
	"splitship/internal/pkg/logger"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	config      Config
	gormDB      *gorm.DB
	uowFactory  ports.UnitOfWorkFactory
	coordinator services.DeliveryCoordinator
	partner     ports.PartnerClient
	logger      *logger.Logger
}

// NewCompositionRoot picks the HTTP partner client when a partner URL is
// configured and the logging client otherwise.
func NewCompositionRoot(config Config, gormDB *gorm.DB, log *logger.Logger) (CompositionRoot, error) {
	var (
		client ports.PartnerClient
		err    error
	)
	if config.PartnerURL != "" {
		client, err = partner.NewHTTPClient(partner.HTTPClientConfig{
			URL:     config.PartnerURL,
			Timeout: config.PartnerTimeout,
		}, log)
	} else {
		client, err = partner.NewLoggingClient(log)
	}
	if err != nil {
		return CompositionRoot{}, err
	}

	return CompositionRoot{
		config:      config,
		gormDB:      gormDB,
		uowFactory:  postgres.NewGormUnitOfWorkFactory(gormDB),
		coordinator: services.NewDeliveryCoordinator(config.AckPolicy),
		partner:     client,
		logger:      log,
	}, nil
}

func (c *CompositionRoot) CreateCreateSplitPlanCommandHandler() commands.CreateSplitPlanCommandHandler {
	return commands.NewCreateSplitPlanCommandHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateUpdateSplitPlanCommandHandler() commands.UpdateSplitPlanCommandHandler {
	return commands.NewUpdateSplitPlanCommandHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateDeleteSplitPlanCommandHandler() commands.DeleteSplitPlanCommandHandler {
	return commands.NewDeleteSplitPlanCommandHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateCorrelateOrderCommandHandler() commands.CorrelateOrderCommandHandler {
	return commands.NewCorrelateOrderCommandHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateGenerateInstructionsCommandHandler() commands.GenerateInstructionsCommandHandler {
	return commands.NewGenerateInstructionsCommandHandler(c.uowFactory, c.coordinator)
}

func (c *CompositionRoot) CreateAdvanceLifecycleCommandHandler() commands.AdvanceLifecycleCommandHandler {
	return commands.NewAdvanceLifecycleCommandHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateDispatchDeliveryCommandHandler() commands.DispatchDeliveryCommandHandler {
	return commands.NewDispatchDeliveryCommandHandler(c.uowFactory, c.coordinator, c.partner)
}

func (c *CompositionRoot) CreateAcknowledgeDeliveryCommandHandler() commands.AcknowledgeDeliveryCommandHandler {
	return commands.NewAcknowledgeDeliveryCommandHandler(c.uowFactory, c.coordinator)
}

func (c *CompositionRoot) CreateFailDeliveryCommandHandler() commands.FailDeliveryCommandHandler {
	return commands.NewFailDeliveryCommandHandler(c.uowFactory, c.coordinator)
}

func (c *CompositionRoot) CreateRetryFailedDeliveriesCommandHandler() commands.RetryFailedDeliveriesCommandHandler {
	return commands.NewRetryFailedDeliveriesCommandHandler(c.uowFactory, c.CreateDispatchDeliveryCommandHandler())
}

func (c *CompositionRoot) CreateCreateRecipientCommandHandler() commands.CreateRecipientCommandHandler {
	return commands.NewCreateRecipientCommandHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateDeleteRecipientCommandHandler() commands.DeleteRecipientCommandHandler {
	return commands.NewDeleteRecipientCommandHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateGetSplitPlanQueryHandler() queries.GetSplitPlanQueryHandler {
	return queries.NewGetSplitPlanQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateGetAuditTrailQueryHandler() queries.GetAuditTrailQueryHandler {
	return queries.NewGetAuditTrailQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateListSplitPlansQueryHandler() queries.ListSplitPlansQueryHandler {
	return queries.NewListSplitPlansQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListRecipientsQueryHandler() queries.ListRecipientsQueryHandler {
	return queries.NewListRecipientsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(httpadapter.Handlers{
		CreateSplitPlan:      c.CreateCreateSplitPlanCommandHandler(),
		UpdateSplitPlan:      c.CreateUpdateSplitPlanCommandHandler(),
		DeleteSplitPlan:      c.CreateDeleteSplitPlanCommandHandler(),
		CorrelateOrder:       c.CreateCorrelateOrderCommandHandler(),
		GenerateInstructions: c.CreateGenerateInstructionsCommandHandler(),
		AdvanceLifecycle:     c.CreateAdvanceLifecycleCommandHandler(),
		DispatchDelivery:     c.CreateDispatchDeliveryCommandHandler(),
		AcknowledgeDelivery:  c.CreateAcknowledgeDeliveryCommandHandler(),
		FailDelivery:         c.CreateFailDeliveryCommandHandler(),
		CreateRecipient:      c.CreateCreateRecipientCommandHandler(),
		DeleteRecipient:      c.CreateDeleteRecipientCommandHandler(),
		GetSplitPlan:         c.CreateGetSplitPlanQueryHandler(),
		ListSplitPlans:       c.CreateListSplitPlansQueryHandler(),
		GetAuditTrail:        c.CreateGetAuditTrailQueryHandler(),
		ListRecipients:       c.CreateListRecipientsQueryHandler(),
	}, c.logger)
}

// CreateJobManager leaves the retry job out when no schedule is configured.
func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	if c.config.RetrySchedule == "" {
		return jobs.NewJobManager(c.logger), nil
	}

	cmd, err := commands.NewRetryFailedDeliveriesCommand(c.config.RetryMaxAttempts, c.config.RetryBatchSize)
	if err != nil {
		return nil, err
	}
	retry := jobs.NewDeliveryRetryJob(c.CreateRetryFailedDeliveriesCommandHandler(), cmd, c.config.RetrySchedule, c.logger)
	return jobs.NewJobManager(c.logger, retry), nil
}
