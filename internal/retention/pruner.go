// ABOUTME: Scheduled pruning of old messages on a cron schedule
// ABOUTME: Wraps the store's bulk delete behind a robfig/cron entry

package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/2389/scribe/internal/config"
)

// MessagePruner is the single store operation the pruner depends on.
type MessagePruner interface {
	DeleteMessagesOlderThan(ctx context.Context, cutoff time.Time) int
}

// Pruner deletes messages older than a configured age on a cron
// schedule. Summaries are never pruned.
type Pruner struct {
	store    MessagePruner
	maxAge   time.Duration
	schedule string
	logger   *slog.Logger
	cron     *cron.Cron
}

// New creates a pruner from the retention configuration. The caller is
// responsible for only starting it when retention is enabled.
func New(store MessagePruner, cfg config.RetentionConfig, logger *slog.Logger) *Pruner {
	return &Pruner{
		store:    store,
		maxAge:   cfg.MaxAge,
		schedule: cfg.Schedule,
		logger:   logger.With("component", "retention"),
	}
}

// Start registers the cron entry and begins scheduling. It returns an
// error if the schedule expression does not parse.
func (p *Pruner) Start() error {
	p.cron = cron.New()

	if _, err := p.cron.AddFunc(p.schedule, func() {
		p.RunOnce(context.Background())
	}); err != nil {
		return fmt.Errorf("registering retention schedule %q: %w", p.schedule, err)
	}

	p.cron.Start()
	p.logger.Info("retention scheduler started", "schedule", p.schedule, "max_age", p.maxAge)
	return nil
}

// Stop halts scheduling and waits for a running prune to finish.
func (p *Pruner) Stop() {
	if p.cron == nil {
		return
	}
	<-p.cron.Stop().Done()
	p.logger.Info("retention scheduler stopped")
}

// RunOnce prunes messages older than now minus the configured age and
// returns the number of rows removed. The delete is a single bulk
// statement; a failed run logs inside the store and reports 0 here.
func (p *Pruner) RunOnce(ctx context.Context) int {
	cutoff := time.Now().Add(-p.maxAge)
	deleted := p.store.DeleteMessagesOlderThan(ctx, cutoff)
	p.logger.Info("retention run complete", "deleted", deleted, "cutoff", cutoff.Format(time.RFC3339))
	return deleted
}
