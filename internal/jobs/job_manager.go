package jobs

import (
	"fmt"

	"splitship/internal/pkg/logger"
)

// Job is a scheduled background task.
type Job interface {
	Name() string
	Start() error
	Stop()
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	jobs    []Job
	started []Job
	logger  *logger.Logger
}

// NewJobManager skips nil jobs, so a disabled job can be passed as nil.
func NewJobManager(log *logger.Logger, jobs ...Job) *JobManager {
	jm := &JobManager{logger: log.WithComponent("jobs")}
	for _, j := range jobs {
		if j != nil {
			jm.jobs = append(jm.jobs, j)
		}
	}
	return jm
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start; jobs already started are stopped.
func (jm *JobManager) StartAll() error {
	for _, j := range jm.jobs {
		if err := j.Start(); err != nil {
			jm.StopAll()
			return fmt.Errorf("failed to start %s job: %w", j.Name(), err)
		}
		jm.started = append(jm.started, j)
	}
	if len(jm.jobs) == 0 {
		jm.logger.Info("no scheduled jobs enabled")
	}
	return nil
}

// StopAll stops started jobs in reverse order and waits for them.
func (jm *JobManager) StopAll() {
	for i := len(jm.started) - 1; i >= 0; i-- {
		jm.started[i].Stop()
	}
	jm.started = nil
}
