package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mo-amir99/campaign-naming-server-go/pkg/metrics"
)

// StaleCampaignMessage is stored on campaigns the sweeper gives up on.
const StaleCampaignMessage = "integration did not complete"

// PendingCampaignSweeper fails campaigns left pending since before cutoff.
type PendingCampaignSweeper interface {
	MarkStalePending(ctx context.Context, cutoff time.Time, message string) (int64, error)
}

// StalePendingCampaignJob fails campaigns whose integrations never finished,
// for example because the process died mid-request.
type StalePendingCampaignJob struct {
	sweeper PendingCampaignSweeper
	maxAge  time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// NewStalePendingCampaignJob creates the sweeper job.
func NewStalePendingCampaignJob(sweeper PendingCampaignSweeper, maxAge time.Duration, logger *slog.Logger) *StalePendingCampaignJob {
	return &StalePendingCampaignJob{
		sweeper: sweeper,
		maxAge:  maxAge,
		now:     time.Now,
		logger:  logger,
	}
}

// Name returns the job name.
func (j *StalePendingCampaignJob) Name() string {
	return "stale_pending_campaigns"
}

// Execute marks stale pending campaigns as failed.
func (j *StalePendingCampaignJob) Execute(ctx context.Context) error {
	cutoff := j.now().Add(-j.maxAge)

	count, err := j.sweeper.MarkStalePending(ctx, cutoff, StaleCampaignMessage)
	if err != nil {
		return fmt.Errorf("mark stale campaigns: %w", err)
	}

	metrics.RecordStaleCampaigns(count)
	if count > 0 {
		j.logger.Warn("stale pending campaigns marked failed",
			slog.Int64("count", count),
			slog.Time("cutoff", cutoff),
		)
	}
	return nil
}

// Purger drops expired entries from an in-process cache.
type Purger interface {
	Purge() int
}

// CachePurgeJob evicts expired entries so idle keys do not accumulate.
type CachePurgeJob struct {
	name   string
	cache  Purger
	logger *slog.Logger
}

// NewCachePurgeJob creates a purge job for the named cache.
func NewCachePurgeJob(name string, cache Purger, logger *slog.Logger) *CachePurgeJob {
	return &CachePurgeJob{name: name, cache: cache, logger: logger}
}

// Name returns the job name.
func (j *CachePurgeJob) Name() string {
	return "purge_" + j.name
}

// Execute purges the cache.
func (j *CachePurgeJob) Execute(context.Context) error {
	if removed := j.cache.Purge(); removed > 0 {
		j.logger.Debug("cache purged", slog.String("cache", j.name), slog.Int("removed", removed))
	}
	return nil
}
