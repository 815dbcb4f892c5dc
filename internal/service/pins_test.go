package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shiftsense-dev/shiftsense/backend/internal/cache"
	"github.com/shiftsense-dev/shiftsense/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPinByID(t *testing.T) {
	svc, store, c, _, audit := newTestWorld()
	store.assignments[501] = &domain.Assignment{ID: 501, ShiftID: 101, EmployeeID: 1}

	assignment, err := svc.PinByID(context.Background(), 501, true)
	require.NoError(t, err)
	assert.True(t, assignment.IsPinned)

	assert.Equal(t, domain.AuditActionPin, audit.lastAction())
	assert.Equal(t, int64(101), audit.records[0].Meta["shiftId"])
	assert.True(t, c.sawMutation(cache.MutationPinChanged))
}

func TestUnpinByID(t *testing.T) {
	svc, store, _, _, audit := newTestWorld()
	store.assignments[501] = &domain.Assignment{ID: 501, ShiftID: 101, EmployeeID: 1, IsPinned: true}

	assignment, err := svc.PinByID(context.Background(), 501, false)
	require.NoError(t, err)
	assert.False(t, assignment.IsPinned)
	assert.Equal(t, domain.AuditActionUnpin, audit.lastAction())
}

// 指派 ID 在重新求解后会被回收，按 ID 钉选查不到要提示刷新
func TestPinByRecycledID(t *testing.T) {
	svc, _, _, _, _ := newTestWorld()

	_, err := svc.PinByID(context.Background(), 999, true)
	assert.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestPinByPair(t *testing.T) {
	svc, store, c, _, audit := newTestWorld()
	store.assignments[502] = &domain.Assignment{ID: 502, ShiftID: 102, EmployeeID: 2}

	assignment, err := svc.PinByPair(context.Background(), 102, 2, true)
	require.NoError(t, err)
	assert.True(t, assignment.IsPinned)
	assert.Equal(t, int64(502), assignment.ID)

	assert.Equal(t, domain.AuditActionPin, audit.lastAction())
	assert.True(t, c.sawMutation(cache.MutationPinChanged))
}

func TestPinByUnknownPair(t *testing.T) {
	svc, _, _, _, _ := newTestWorld()

	_, err := svc.PinByPair(context.Background(), 101, 999, true)
	assert.ErrorIs(t, err, ErrAssignmentNotFound)
}

// 钉选的溯源必须可靠，审计失败要让整个操作失败
func TestPinAuditFailurePropagates(t *testing.T) {
	svc, store, _, _, audit := newTestWorld()
	store.assignments[501] = &domain.Assignment{ID: 501, ShiftID: 101, EmployeeID: 1}
	audit.err = errors.New("broker down")

	_, err := svc.PinByID(context.Background(), 501, true)
	assert.ErrorIs(t, err, audit.err)
}
