package background

import (
	"context"
	"sync"
	"time"

	"github.com/RichardKnop/machinery/v1/backends/result"
	"github.com/RichardKnop/machinery/v1/tasks"
	log "github.com/sirupsen/logrus"

	"github.com/werego/werego-api/metrics"
	"github.com/werego/werego-api/schema"
	"github.com/werego/werego-api/store"
)

const (
	TaskArchiveReport       = "archive_report"
	TaskPurgeExpiredReports = "purge_expired_reports"
)

// Archiver copies accepted reports into the statistics archive
type Archiver interface {
	Archive(ctx context.Context, report schema.Report) error
}

// TaskSender - the part of a machinery server used to enqueue jobs
type TaskSender interface {
	SendTaskWithContext(ctx context.Context, signature *tasks.Signature) (*result.AsyncResult, error)
}

// TaskArchiver enqueues an archive_report job for a worker process
type TaskArchiver struct {
	sender TaskSender
}

func NewTaskArchiver(sender TaskSender) *TaskArchiver {
	return &TaskArchiver{sender: sender}
}

func (a *TaskArchiver) Archive(ctx context.Context, report schema.Report) error {
	_, err := a.sender.SendTaskWithContext(ctx, &tasks.Signature{
		Name: TaskArchiveReport,
		Args: []tasks.Arg{
			{Type: "string", Value: report.ID.Hex()},
		},
	})
	if err != nil {
		log.WithFields(log.Fields{
			"prefix":    "archiver",
			"report_id": report.ID.Hex(),
			"error":     err,
		}).Error("enqueue archive task")
	}
	return err
}

// InlineArchiver writes the archive copy from a goroutine of this process
type InlineArchiver struct {
	archive store.ReportArchive
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewInlineArchiver(archive store.ReportArchive, timeout time.Duration) *InlineArchiver {
	return &InlineArchiver{
		archive: archive,
		timeout: timeout,
	}
}

// Archive returns immediately, the copy outlives the caller's context
func (a *InlineArchiver) Archive(ctx context.Context, report schema.Report) error {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
		defer cancel()

		err := a.archive.ArchiveReport(ctx, report)
		metrics.RecordArchive(err)
		if err != nil {
			log.WithFields(log.Fields{
				"prefix":    "archiver",
				"report_id": report.ID.Hex(),
				"error":     err,
			}).Warn("archive report")
		}
	}()
	return nil
}

// Wait blocks until every pending archive copy finished
func (a *InlineArchiver) Wait() {
	a.wg.Wait()
}
