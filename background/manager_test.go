package background

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/werego/werego-api/mocks"
	"github.com/werego/werego-api/schema"
	"github.com/werego/werego-api/store"
)

func TestArchiveReportTask(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mongoStore := mocks.NewMockMongoStore(ctrl)
	report := newTestReport(t)

	mongoStore.EXPECT().GetReport(gomock.Any(), report.ID, false).Return(&report, nil)
	mongoStore.EXPECT().ArchiveReport(gomock.Any(), report).Return(nil)

	m := New(mongoStore, nil, time.Second)
	assert.NoError(t, m.ArchiveReport(report.ID.Hex()))
}

func TestArchiveReportTaskMissingReport(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mongoStore := mocks.NewMockMongoStore(ctrl)
	id := primitive.NewObjectID()
	mongoStore.EXPECT().GetReport(gomock.Any(), id, false).Return(nil, store.ErrReportNotFound)

	m := New(mongoStore, nil, time.Second)
	assert.NoError(t, m.ArchiveReport(id.Hex()))
}

func TestArchiveReportTaskMalformedID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := New(mocks.NewMockMongoStore(ctrl), nil, time.Second)
	assert.ErrorIs(t, m.ArchiveReport("not-an-id"), schema.ErrValidation)
}

func TestPurgeExpiredReportsTask(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mongoStore := mocks.NewMockMongoStore(ctrl)
	mongoStore.EXPECT().ReportTTL().Return(10 * time.Minute)
	mongoStore.EXPECT().DeleteExpired(gomock.Any(), 10*time.Minute).Return(int64(3), nil)

	m := New(mongoStore, nil, time.Second)
	assert.NoError(t, m.PurgeExpiredReports())
}

func TestPurgeExpiredReportsTaskFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mongoStore := mocks.NewMockMongoStore(ctrl)
	mongoStore.EXPECT().ReportTTL().Return(10 * time.Minute)
	mongoStore.EXPECT().DeleteExpired(gomock.Any(), gomock.Any()).Return(int64(0), store.ErrTimeout)

	m := New(mongoStore, nil, time.Second)
	assert.ErrorIs(t, m.PurgeExpiredReports(), store.ErrTimeout)
}

func TestSupervisorRunsSweeper(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	purger := mocks.NewMockReportPurger(ctrl)
	swept := make(chan struct{}, 1)
	purger.EXPECT().DeleteExpired(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, time.Duration) (int64, error) {
			select {
			case swept <- struct{}{}:
			default:
			}
			return 0, nil
		}).MinTimes(1)

	sup := NewSupervisor("test", time.Second)
	sup.Add(NewSweeper(purger, time.Minute, 5*time.Millisecond, 5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := sup.ServeBackground(ctx)

	select {
	case <-swept:
	case <-time.After(5 * time.Second):
		t.Fatal("sweeper never ran")
	}

	cancel()
	<-errCh
}
