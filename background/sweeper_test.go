package background

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/RichardKnop/machinery/v1/backends/result"
	"github.com/RichardKnop/machinery/v1/tasks"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"

	"github.com/werego/werego-api/mocks"
	"github.com/werego/werego-api/store"
)

type SweeperTestSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	purger *mocks.MockReportPurger
	sender *mocks.MockTaskSender
}

func (s *SweeperTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.purger = mocks.NewMockReportPurger(s.ctrl)
	s.sender = mocks.NewMockTaskSender(s.ctrl)
}

func (s *SweeperTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *SweeperTestSuite) TestSweepDeletesWithTTL() {
	sweeper := NewSweeper(s.purger, 10*time.Minute, time.Minute, 5*time.Second)
	s.purger.EXPECT().DeleteExpired(gomock.Any(), 10*time.Minute).Return(int64(4), nil)

	deleted, err := sweeper.Sweep(context.Background())
	s.NoError(err)
	s.Equal(int64(4), deleted)
}

func (s *SweeperTestSuite) TestSweepBoundsTheCall() {
	sweeper := NewSweeper(s.purger, 10*time.Minute, time.Minute, 2*time.Second)
	s.purger.EXPECT().DeleteExpired(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ time.Duration) (int64, error) {
			deadline, ok := ctx.Deadline()
			s.True(ok)
			s.WithinDuration(time.Now().Add(2*time.Second), deadline, time.Second)
			return 0, nil
		})

	_, err := sweeper.Sweep(context.Background())
	s.NoError(err)
}

func (s *SweeperTestSuite) TestSweepFailure() {
	sweeper := NewSweeper(s.purger, 10*time.Minute, time.Minute, time.Second)
	s.purger.EXPECT().DeleteExpired(gomock.Any(), gomock.Any()).Return(int64(0), store.ErrTimeout)

	deleted, err := sweeper.Sweep(context.Background())
	s.ErrorIs(err, store.ErrTimeout)
	s.Zero(deleted)
}

func (s *SweeperTestSuite) TestSweepRecoversPanic() {
	sweeper := NewSweeper(s.purger, 10*time.Minute, time.Minute, time.Second)
	s.purger.EXPECT().DeleteExpired(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, time.Duration) (int64, error) {
			panic("cursor exploded")
		})

	s.NotPanics(func() {
		_, err := sweeper.Sweep(context.Background())
		s.ErrorContains(err, "cursor exploded")
	})
}

func (s *SweeperTestSuite) TestServeKeepsTickingAfterFailures() {
	sweeper := NewSweeper(s.purger, 10*time.Minute, 10*time.Millisecond, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	gomock.InOrder(
		s.purger.EXPECT().DeleteExpired(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("primary stepped down")),
		s.purger.EXPECT().DeleteExpired(gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, time.Duration) (int64, error) {
				panic("unexpected document")
			}),
		s.purger.EXPECT().DeleteExpired(gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, time.Duration) (int64, error) {
				cancel()
				close(done)
				return 2, nil
			}),
		// a tick may still race with the cancellation
		s.purger.EXPECT().DeleteExpired(gomock.Any(), gomock.Any()).Return(int64(0), nil).AnyTimes(),
	)

	served := make(chan error, 1)
	go func() { served <- sweeper.Serve(ctx) }()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		s.FailNow("sweeper stopped ticking")
	}
	s.NoError(<-served)
}

func (s *SweeperTestSuite) TestTickEnqueuesPurgeTask() {
	sweeper := NewSweeper(s.purger, 10*time.Minute, time.Minute, time.Second).WithTaskSender(s.sender)
	s.sender.EXPECT().SendTaskWithContext(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, sig *tasks.Signature) (*result.AsyncResult, error) {
			s.Equal(TaskPurgeExpiredReports, sig.Name)
			s.Empty(sig.Args)
			return nil, nil
		})
	s.purger.EXPECT().DeleteExpired(gomock.Any(), gomock.Any()).Times(0)

	sweeper.tick(context.Background())
}

func (s *SweeperTestSuite) TestTickSweepsWhenEnqueueFails() {
	sweeper := NewSweeper(s.purger, 10*time.Minute, time.Minute, time.Second).WithTaskSender(s.sender)
	gomock.InOrder(
		s.sender.EXPECT().SendTaskWithContext(gomock.Any(), gomock.Any()).Return(nil, errors.New("redis: connection refused")),
		s.purger.EXPECT().DeleteExpired(gomock.Any(), 10*time.Minute).Return(int64(3), nil),
	)

	sweeper.tick(context.Background())
}

func (s *SweeperTestSuite) TestTickWithoutSenderSweeps() {
	sweeper := NewSweeper(s.purger, 10*time.Minute, time.Minute, time.Second)
	s.purger.EXPECT().DeleteExpired(gomock.Any(), 10*time.Minute).Return(int64(0), nil)

	sweeper.tick(context.Background())
	s.Error(sweeper.Enqueue(context.Background()))
}

func (s *SweeperTestSuite) TestNewSweeperDefaults() {
	sweeper := NewSweeper(s.purger, time.Minute, 0, 0)
	s.Equal(time.Minute, sweeper.interval)
	s.Equal(time.Minute, sweeper.timeout)
}

func TestSweeper(t *testing.T) {
	suite.Run(t, new(SweeperTestSuite))
}
