package background

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RichardKnop/machinery/v1"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/werego/werego-api/metrics"
	"github.com/werego/werego-api/schema"
	"github.com/werego/werego-api/store"
)

// BackgroundManager executes the report lifecycle jobs enqueued on machinery
type BackgroundManager struct {
	store   store.MongoStore
	timeout time.Duration

	taskServer *machinery.Server
	worker     *machinery.Worker
}

func New(mongoStore store.MongoStore, taskServer *machinery.Server, timeout time.Duration) *BackgroundManager {
	return &BackgroundManager{
		store:      mongoStore,
		timeout:    timeout,
		taskServer: taskServer,
	}
}

func (m *BackgroundManager) RegisterTask(name string, taskFunc interface{}) error {
	return m.taskServer.RegisterTask(name, taskFunc)
}

// RegisterTasks registers every report lifecycle job
func (m *BackgroundManager) RegisterTasks() error {
	if err := m.RegisterTask(TaskArchiveReport, m.ArchiveReport); err != nil {
		return err
	}
	return m.RegisterTask(TaskPurgeExpiredReports, m.PurgeExpiredReports)
}

// Run spawn workers to execute background jobs
func (m *BackgroundManager) Run() error {
	if m.worker != nil {
		return errors.New("background worker has started")
	}
	m.worker = m.taskServer.NewWorker("werego-worker", 5)
	return m.worker.Launch()
}

// Stop asks the running worker to quit
func (m *BackgroundManager) Stop() {
	if m.worker != nil {
		m.worker.Quit()
	}
}

// ArchiveReport copies one report into the archive collection. Reports that
// expired before the job ran are still archived.
func (m *BackgroundManager) ArchiveReport(reportID string) error {
	id, err := primitive.ObjectIDFromHex(reportID)
	if err != nil {
		return fmt.Errorf("%w: malformed report id %q", schema.ErrValidation, reportID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	report, err := m.store.GetReport(ctx, id, false)
	if err != nil {
		if errors.Is(err, store.ErrReportNotFound) {
			log.WithFields(log.Fields{
				"prefix":    "background",
				"report_id": reportID,
			}).Warn("report vanished before archiving")
			return nil
		}
		return err
	}

	err = m.store.ArchiveReport(ctx, *report)
	metrics.RecordArchive(err)
	return err
}

// PurgeExpiredReports removes every report past its TTL
func (m *BackgroundManager) PurgeExpiredReports() error {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	deleted, err := m.store.DeleteExpired(ctx, m.store.ReportTTL())
	metrics.RecordSweep(deleted, err)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"prefix":  "background",
		"deleted": deleted,
	}).Info("purged expired reports")
	return nil
}
