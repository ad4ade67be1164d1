package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type evictorStub struct {
	calls atomic.Int32
	idle  atomic.Int64
}

func (e *evictorStub) Sweep(idle time.Duration) int {
	e.calls.Add(1)
	e.idle.Store(int64(idle))
	return 1
}

func TestWorkspaceSweeper_TicksUntilCancelled(t *testing.T) {
	ev := &evictorStub{}
	w := NewWorkspaceSweeper(ev, 30*time.Minute, 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return ev.calls.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()
	<-done
	assert.Equal(t, int64(30*time.Minute), ev.idle.Load())
}

type prunerMock struct {
	mock.Mock
}

func (m *prunerMock) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func TestAuditPruneWorker_RunUsesRetention(t *testing.T) {
	p := &prunerMock{}
	before := time.Now().Add(-24 * time.Hour)
	p.On("DeleteOlderThan", mock.Anything, mock.MatchedBy(func(cutoff time.Time) bool {
		return !cutoff.Before(before) && cutoff.Before(time.Now().Add(-23*time.Hour))
	})).Return(int64(3), nil).Once()

	NewAuditPruneWorker(p, 24*time.Hour, time.Hour).run(context.Background())

	p.AssertExpectations(t)
}

func TestAuditPruneWorker_DisabledRetention(t *testing.T) {
	p := &prunerMock{}

	NewAuditPruneWorker(p, 0, time.Hour).run(context.Background())

	p.AssertNotCalled(t, "DeleteOlderThan", mock.Anything, mock.Anything)
}
