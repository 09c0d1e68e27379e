package background

import (
	"context"
	"fmt"
	"time"

	"github.com/RichardKnop/machinery/v1/tasks"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/werego/werego-api/consts"
	"github.com/werego/werego-api/metrics"
	"github.com/werego/werego-api/store"
)

// Sweeper periodically removes reports older than the report TTL. A failing
// or panicking sweep is logged and the next tick runs as usual.
type Sweeper struct {
	purger   store.ReportPurger
	ttl      time.Duration
	interval time.Duration
	timeout  time.Duration

	sender TaskSender
}

func NewSweeper(purger store.ReportPurger, ttl, interval, timeout time.Duration) *Sweeper {
	if interval <= 0 {
		interval = consts.DefaultSweepInterval
	}
	if timeout <= 0 || timeout > interval {
		timeout = interval
	}
	return &Sweeper{
		purger:   purger,
		ttl:      ttl,
		interval: interval,
		timeout:  timeout,
	}
}

// WithTaskSender hands each tick to a purge_expired_reports worker job.
// The sweeper purges in process when the job cannot be enqueued.
func (s *Sweeper) WithTaskSender(sender TaskSender) *Sweeper {
	s.sender = sender
	return s
}

// Serve runs until ctx is cancelled
func (s *Sweeper) Serve(ctx context.Context) error {
	log.WithFields(log.Fields{
		"prefix":   "sweeper",
		"interval": s.interval,
		"ttl":      s.ttl,
	}).Info("expired report sweeper started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.WithField("prefix", "sweeper").Info("expired report sweeper stopped")
			return nil
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// Sweep runs a single purge bounded by the sweep timeout
func (s *Sweeper) Sweep(ctx context.Context) (deleted int64, err error) {
	runID := uuid.New().String()
	entry := log.WithFields(log.Fields{
		"prefix": "sweeper",
		"run_id": runID,
	})

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sweep panic: %v", r)
			deleted = 0
			entry.WithField("panic", r).Error("expired report sweep panicked")
		}
		metrics.RecordSweep(deleted, err)
	}()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	deleted, err = s.purger.DeleteExpired(ctx, s.ttl)
	if err != nil {
		entry.WithError(err).Error("expired report sweep failed")
		return 0, err
	}

	if deleted > 0 {
		entry.WithField("deleted", deleted).Info("expired reports removed")
	} else {
		entry.Debug("no expired report")
	}
	return deleted, nil
}

func (s *Sweeper) tick(ctx context.Context) {
	if s.sender != nil {
		if err := s.Enqueue(ctx); err == nil {
			return
		}
	}
	_, _ = s.Sweep(ctx)
}

// Enqueue sends a purge_expired_reports job to the worker
func (s *Sweeper) Enqueue(ctx context.Context) error {
	if s.sender == nil {
		return fmt.Errorf("no task sender for %s", TaskPurgeExpiredReports)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.sender.SendTaskWithContext(ctx, &tasks.Signature{Name: TaskPurgeExpiredReports}); err != nil {
		log.WithFields(log.Fields{
			"prefix": "sweeper",
			"error":  err,
		}).Warn("enqueue purge task, sweeping in process")
		return err
	}
	return nil
}

func (s *Sweeper) String() string {
	return "report-sweeper"
}
