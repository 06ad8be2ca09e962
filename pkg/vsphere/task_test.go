package vsphere

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vmware/govmomi/vim25/types"
)

func testTracker() *Tracker {
	return &Tracker{
		Interval: time.Millisecond,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// scriptedPoll returns the given task infos in order, repeating the last one,
// and counts how often it was called.
func scriptedPoll(infos []types.TaskInfo, calls *int) pollFunc {
	return func(ctx context.Context) (*types.TaskInfo, error) {
		i := *calls
		if i >= len(infos) {
			i = len(infos) - 1
		}
		*calls++
		return &infos[i], nil
	}
}

func TestTracker_WaitSuccess(t *testing.T) {
	ref := types.ManagedObjectReference{Type: "VirtualMachine", Value: "vm-42"}
	var calls int
	poll := scriptedPoll([]types.TaskInfo{
		{State: types.TaskInfoStateQueued, DescriptionId: "VirtualMachine.createVM"},
		{State: types.TaskInfoStateRunning, DescriptionId: "VirtualMachine.createVM"},
		{State: types.TaskInfoStateRunning, DescriptionId: "VirtualMachine.createVM", Progress: 80},
		{State: types.TaskInfoStateSuccess, DescriptionId: "VirtualMachine.createVM", Result: ref},
	}, &calls)

	result, err := testTracker().wait(context.Background(), poll, "test-vm")
	require.NoError(t, err)
	require.Equal(t, ref, result)
	require.Equal(t, 4, calls)
}

func TestTracker_WaitSuccessNilResult(t *testing.T) {
	var calls int
	poll := scriptedPoll([]types.TaskInfo{
		{State: types.TaskInfoStateSuccess, DescriptionId: "VirtualMachine.powerOn"},
	}, &calls)

	result, err := testTracker().wait(context.Background(), poll, "test-vm")
	require.NoError(t, err)
	require.Nil(t, result)
	require.Equal(t, 1, calls)
}

func TestTracker_WaitError(t *testing.T) {
	var calls int
	poll := scriptedPoll([]types.TaskInfo{
		{State: types.TaskInfoStateRunning, DescriptionId: "VirtualMachine.clone"},
		{
			State:         types.TaskInfoStateError,
			DescriptionId: "VirtualMachine.clone",
			Error:         &types.LocalizedMethodFault{LocalizedMessage: "insufficient disk space"},
		},
	}, &calls)

	_, err := testTracker().wait(context.Background(), poll, "test-vm")
	require.Error(t, err)

	var taskErr *TaskFailedError
	require.ErrorAs(t, err, &taskErr)
	require.Equal(t, "VirtualMachine.clone", taskErr.Task)
	require.Equal(t, "insufficient disk space", taskErr.Message)
}

func TestTracker_WaitErrorWithoutMessage(t *testing.T) {
	var calls int
	poll := scriptedPoll([]types.TaskInfo{
		{State: types.TaskInfoStateError, DescriptionId: "VirtualMachine.destroy"},
	}, &calls)

	_, err := testTracker().wait(context.Background(), poll, "test-vm")

	var taskErr *TaskFailedError
	require.ErrorAs(t, err, &taskErr)
	require.Equal(t, "task was canceled", taskErr.Message)
}

func TestTracker_WaitUnexpectedState(t *testing.T) {
	var calls int
	poll := scriptedPoll([]types.TaskInfo{
		{State: types.TaskInfoState("bogus"), DescriptionId: "VirtualMachine.reset"},
	}, &calls)

	_, err := testTracker().wait(context.Background(), poll, "test-vm")

	var taskErr *TaskFailedError
	require.ErrorAs(t, err, &taskErr)
	require.Contains(t, taskErr.Message, "unexpected task state")
}

func TestTracker_WaitPollFailure(t *testing.T) {
	pollErr := errors.New("connection reset")
	poll := func(ctx context.Context) (*types.TaskInfo, error) { return nil, pollErr }

	_, err := testTracker().wait(context.Background(), poll, "test-vm")
	require.ErrorIs(t, err, pollErr)
}

func TestTracker_WaitContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	poll := func(ctx context.Context) (*types.TaskInfo, error) {
		cancel()
		return &types.TaskInfo{State: types.TaskInfoStateRunning}, nil
	}

	tracker := testTracker()
	tracker.Interval = time.Minute // cancellation must win over the interval
	_, err := tracker.wait(ctx, poll, "test-vm")
	require.ErrorIs(t, err, context.Canceled)
}

func TestTracker_WaitTimeout(t *testing.T) {
	poll := func(ctx context.Context) (*types.TaskInfo, error) {
		return &types.TaskInfo{State: types.TaskInfoStateRunning}, nil
	}

	tracker := testTracker()
	tracker.Interval = time.Minute
	tracker.Timeout = 10 * time.Millisecond
	_, err := tracker.wait(context.Background(), poll, "test-vm")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewTracker_Defaults(t *testing.T) {
	tracker := NewTracker(nil)
	require.Equal(t, time.Second, tracker.Interval)
	require.Equal(t, time.Duration(0), tracker.Timeout)
	require.NotNil(t, tracker.Logger)
}
