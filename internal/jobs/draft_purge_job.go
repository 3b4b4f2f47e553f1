package jobs

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/ridehub/taxi-bot/internal/metrics"
)

const DefaultPurgeSchedule = "@every 10m"

// DraftPurger drops drafts nobody touched for a while.
type DraftPurger interface {
	PurgeStale(olderThan time.Duration) int
}

// DraftPurgeJob periodically removes abandoned order drafts.
type DraftPurgeJob struct {
	purger   DraftPurger
	ttl      time.Duration
	schedule string
	cron     *cron.Cron
	logger   zerolog.Logger
}

func NewDraftPurgeJob(purger DraftPurger, ttl time.Duration, schedule string, logger zerolog.Logger) *DraftPurgeJob {
	if schedule == "" {
		schedule = DefaultPurgeSchedule
	}
	return &DraftPurgeJob{
		purger:   purger,
		ttl:      ttl,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger.With().Str("component", "draft_purge_job").Logger(),
	}
}

func (j *DraftPurgeJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.RunOnce); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info().Str("schedule", j.schedule).Dur("ttl", j.ttl).Msg("Draft purge job started")
	return nil
}

// RunOnce purges once and returns immediately.
func (j *DraftPurgeJob) RunOnce() {
	purged := j.purger.PurgeStale(j.ttl)
	if purged > 0 {
		metrics.RecordDraftsPurged(purged)
		j.logger.Info().Int("purged", purged).Msg("Purged stale order drafts")
	}
}

// Stop waits for a running purge to finish.
func (j *DraftPurgeJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info().Msg("Draft purge job stopped")
}
