package jobs

import (
	"context"
	"time"

	"github.com/matchtips/core/pkg/logger"
	"github.com/matchtips/core/pkg/services"
)

// DigestRunner runs one pipeline run for a date
type DigestRunner interface {
	Run(ctx context.Context, date time.Time) (*services.RunResult, error)
}

// DigestJob publishes the fixtures digest on a cron schedule
type DigestJob struct {
	digest   DigestRunner
	schedule string
	location *time.Location
	now      func() time.Time
	logger   *logger.Logger
}

// NewDigestJob creates the digest job. The run date is today in loc at the
// moment the job fires.
func NewDigestJob(digest DigestRunner, schedule string, loc *time.Location, log *logger.Logger) *DigestJob {
	if loc == nil {
		loc = time.Local
	}
	return &DigestJob{
		digest:   digest,
		schedule: schedule,
		location: loc,
		now:      time.Now,
		logger:   log,
	}
}

func (j *DigestJob) Name() string {
	return "fixtures_digest"
}

func (j *DigestJob) Schedule() string {
	return j.schedule
}

func (j *DigestJob) Execute(ctx context.Context) error {
	log := logger.FromContext(ctx, j.logger)
	date := j.now().In(j.location)

	result, err := j.digest.Run(ctx, date)
	if err != nil {
		return err
	}

	log.Info().
		Str("action", "digest_job_result").
		Str("run_id", result.RunID).
		Int("competitions", len(result.Competitions)).
		Int("fixtures", result.Fixtures).
		Bool("published", result.Published).
		Int("chunks", result.Chunks).
		Msg("Digest job finished")

	return nil
}
