package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Sabharish-Varshaan/Inventory-management/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReconcile struct {
	calls  atomic.Int32
	report *dto.ReconciliationReport
	err    error
}

func (f *fakeReconcile) Verify(ctx context.Context) (*dto.ReconciliationReport, error) {
	f.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("reconciliation must run with a deadline")
	}
	return f.report, f.err
}

func TestStart_RejectsInvalidSchedule(t *testing.T) {
	s := NewScheduler(&fakeReconcile{}, "every now and then")
	assert.Error(t, s.Start())
}

func TestRunReconciliation_CallsVerify(t *testing.T) {
	f := &fakeReconcile{report: &dto.ReconciliationReport{
		CheckedProducts: 2,
		Discrepancies:   []dto.StockDiscrepancy{{ProductID: "p1", SKU: "SKU001"}},
	}}
	s := NewScheduler(f, "0 * * * *")

	s.RunReconciliation()
	assert.EqualValues(t, 1, f.calls.Load())

	f.err = errors.New("store down")
	s.RunReconciliation()
	assert.EqualValues(t, 2, f.calls.Load())
}

func TestScheduler_RunsOnSchedule(t *testing.T) {
	f := &fakeReconcile{report: &dto.ReconciliationReport{}}
	s := NewScheduler(f, "@every 1s")
	require.NoError(t, s.Start())
	t.Cleanup(s.Stop)

	assert.Eventually(t, func() bool { return f.calls.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}
