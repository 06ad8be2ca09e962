package vsphere

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Bibi40k/vmware-vm-automation/configs"
	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
)

// TaskFailedError reports a remote task that reached the error state (or an
// unexpected terminal state). It carries the fault message when the endpoint
// supplied one; a fault without a message is reported as a cancellation.
type TaskFailedError struct {
	Task    string // task description id, e.g. "VirtualMachine.clone"
	Message string
}

func (e *TaskFailedError) Error() string {
	return fmt.Sprintf("task %s failed: %s", e.Task, e.Message)
}

// pollFunc fetches the current task info. Injectable for tests.
type pollFunc func(ctx context.Context) (*types.TaskInfo, error)

// Tracker polls an in-flight remote task until it reaches a terminal state.
//
// Interval is the polling cadence. Timeout bounds the whole wait; zero means
// no bound. The context can cancel the wait at any time.
type Tracker struct {
	Interval time.Duration
	Timeout  time.Duration
	Logger   *slog.Logger
}

// NewTracker returns a tracker with interval and timeout from configs.
func NewTracker(logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		Interval: configs.Defaults.Task.PollInterval(),
		Timeout:  configs.Defaults.Task.Timeout(),
		Logger:   logger,
	}
}

// Wait polls the task's info property until the task finishes. On success it
// returns the task result, which may be a managed object reference (create,
// clone) or nil (power and delete operations). A task ending in error yields
// a *TaskFailedError; the caller decides whether that is fatal.
func (t *Tracker) Wait(ctx context.Context, c *Client, task *object.Task, vmName string) (types.AnyType, error) {
	poll := func(ctx context.Context) (*types.TaskInfo, error) {
		var mt mo.Task
		if err := c.props.RetrieveOne(ctx, task.Reference(), []string{"info"}, &mt); err != nil {
			return nil, err
		}
		return &mt.Info, nil
	}
	return t.wait(ctx, poll, vmName)
}

func (t *Tracker) wait(ctx context.Context, poll pollFunc, vmName string) (types.AnyType, error) {
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}
	interval := t.Interval
	if interval <= 0 {
		interval = time.Second
	}

	t.Logger.Info("Checking task for completion. This might take a while", "name", vmName)

	for {
		info, err := poll(ctx)
		if err != nil {
			return nil, fmt.Errorf("task state poll failed: %w", err)
		}

		switch info.State {
		case types.TaskInfoStateSuccess:
			t.Logger.Info("Task is done", "name", vmName, "task", info.DescriptionId)
			return info.Result, nil

		case types.TaskInfoStateError:
			msg := "task was canceled"
			if info.Error != nil && info.Error.LocalizedMessage != "" {
				msg = info.Error.LocalizedMessage
			}
			t.Logger.Error("Task has quit with error", "name", vmName, "task", info.DescriptionId, "error", msg)
			return nil, &TaskFailedError{Task: info.DescriptionId, Message: msg}

		case types.TaskInfoStateQueued:
			t.Logger.Warn("Task is queued", "name", vmName, "task", info.DescriptionId)

		case types.TaskInfoStateRunning:
			t.Logger.Debug("Task is running", "name", vmName, "task", info.DescriptionId, "progress", info.Progress)

		default:
			t.Logger.Error("Task reached unexpected state", "name", vmName, "task", info.DescriptionId, "state", string(info.State))
			return nil, &TaskFailedError{Task: info.DescriptionId, Message: fmt.Sprintf("unexpected task state %q", info.State)}
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for task: %w", ctx.Err())
		case <-time.After(interval):
		}
	}
}
