package jobs

import (
	"context"
	"sync"
	"time"

	"splitship/internal/core/application/usecases/commands"
	"splitship/internal/pkg/logger"

	"github.com/robfig/cron/v3"
)

// RetryHandler runs one sweep over failed deliveries.
type RetryHandler interface {
	Handle(ctx context.Context, cmd commands.RetryFailedDeliveriesCommand) (commands.RetryFailedDeliveriesResult, error)
}

// DeliveryRetryJob periodically re-dispatches failed deliveries. A sweep
// that is still running when the next tick fires makes that tick a no-op.
type DeliveryRetryJob struct {
	handler  RetryHandler
	cmd      commands.RetryFailedDeliveriesCommand
	schedule string
	cron     *cron.Cron
	logger   *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

// NewDeliveryRetryJob accepts six-field cron expressions (with seconds) and
// descriptors such as "@every 1m". The schedule is parsed on Start.
func NewDeliveryRetryJob(
	handler RetryHandler,
	cmd commands.RetryFailedDeliveriesCommand,
	schedule string,
	log *logger.Logger,
) *DeliveryRetryJob {
	log = log.WithComponent("delivery_retry_job")
	ctx, cancel := context.WithCancel(context.Background())
	return &DeliveryRetryJob{
		handler:  handler,
		cmd:      cmd,
		schedule: schedule,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger{log: log})),
		),
		logger: log,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (j *DeliveryRetryJob) Name() string {
	return "delivery retry"
}

// Start schedules the sweep.
func (j *DeliveryRetryJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.RunOnce(j.ctx) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("delivery retry job started",
		"schedule", j.schedule, "maxAttempts", j.cmd.MaxAttempts(), "batchSize", j.cmd.BatchSize())
	return nil
}

// RunOnce performs a single sweep and logs its summary.
func (j *DeliveryRetryJob) RunOnce(ctx context.Context) {
	started := time.Now()
	result, err := j.handler.Handle(ctx, j.cmd)
	if err != nil {
		j.logger.Error("delivery retry sweep finished with errors",
			"found", result.Found, "sent", result.Sent, "failed", result.Failed,
			"skipped", result.Skipped, "error", err)
		return
	}
	if result.Found == 0 {
		j.logger.Debug("delivery retry sweep found nothing")
		return
	}
	j.logger.Info("delivery retry sweep finished",
		"found", result.Found, "sent", result.Sent, "failed", result.Failed,
		"skipped", result.Skipped, "took", time.Since(started))
}

// Stop cancels an in-flight sweep and waits for it to return.
func (j *DeliveryRetryJob) Stop() {
	j.once.Do(func() {
		j.cancel()
		<-j.cron.Stop().Done()
		j.logger.Info("delivery retry job stopped")
	})
}

// cronLogger routes cron's own messages to the structured logger.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(msg, append(keysAndValues, "error", err)...)
}
