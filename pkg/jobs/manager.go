package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/matchtips/core/pkg/logger"
)

// DefaultJobTimeout bounds a single job execution
const DefaultJobTimeout = 30 * time.Minute

type cronJobManager struct {
	cron    *cron.Cron
	jobs    []Job
	timeout time.Duration
	logger  *logger.Logger
}

// NewJobManager creates a job manager whose schedules are evaluated in loc
func NewJobManager(loc *time.Location, log *logger.Logger) JobManager {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = logger.New("job-manager")
	}

	cronLog := cronLogger{log: log}
	return &cronJobManager{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog)),
		),
		jobs:    make([]Job, 0),
		timeout: DefaultJobTimeout,
		logger:  log,
	}
}

func (m *cronJobManager) RegisterJob(job Job) error {
	if job == nil {
		return fmt.Errorf("job cannot be nil")
	}

	_, err := m.cron.AddFunc(job.Schedule(), func() {
		m.runJob(job)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", job.Name(), err)
	}

	m.logger.Info().
		Str("action", "job_registered").
		Str("job_name", job.Name()).
		Str("schedule", job.Schedule()).
		Msg("Registered job")

	m.jobs = append(m.jobs, job)
	return nil
}

// runJob executes one firing of job with its own timeout and correlation id
func (m *cronJobManager) runJob(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	log := m.logger.WithJob(job.Name()).WithRequestID(uuid.New().String())
	ctx = log.ToContext(ctx)

	log.LogJobStart(job.Name(), job.Schedule())
	start := time.Now()

	if err := job.Execute(ctx); err != nil {
		log.Error().
			Err(err).
			Str("action", "job_failed").
			Dur("duration", time.Since(start)).
			Msg("Job execution failed")
		log.LogJobComplete(job.Name(), time.Since(start), 0, 1)
		return
	}

	log.LogJobComplete(job.Name(), time.Since(start), 1, 0)
}

func (m *cronJobManager) Start() {
	m.logger.Info().
		Str("action", "scheduler_start").
		Int("jobs", len(m.jobs)).
		Str("location", m.cron.Location().String()).
		Msg("Starting job manager")
	m.cron.Start()
}

func (m *cronJobManager) Stop() {
	m.logger.Info().Str("action", "scheduler_stop").Msg("Stopping job manager, waiting for running jobs")
	ctx := m.cron.Stop()
	<-ctx.Done()
	m.logger.Info().Str("action", "scheduler_stopped").Msg("Job manager stopped")
}

// cronLogger adapts the zerolog wrapper to cron.Logger
type cronLogger struct {
	log *logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.log.Debug().Str("action", "cron").Fields(keysAndValues).Msg(msg)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.log.Error().Err(err).Str("action", "cron_error").Fields(keysAndValues).Msg(msg)
}
