package jobs

import "context"

// Job is a unit of scheduled work
type Job interface {
	// Execute performs one firing; ctx is bounded by the manager's job timeout
	Execute(ctx context.Context) error

	// Name identifies the job in logs
	Name() string

	// Schedule is a robfig/cron expression such as "0 7 * * *" or "@every 1h"
	Schedule() string
}

// JobManager fires registered jobs on their schedules
type JobManager interface {
	RegisterJob(job Job) error

	// Start arms every registered schedule
	Start()

	// Stop disarms the schedules and blocks until running jobs return
	Stop()
}
