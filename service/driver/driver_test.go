package driver

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/houghcircles/model/allocation"
	"github.com/viant/houghcircles/policy"
	"github.com/viant/houghcircles/progress"
	"github.com/viant/houghcircles/service/allocator"
	"github.com/viant/houghcircles/service/imagestore"
	"github.com/viant/houghcircles/service/messaging"
	"github.com/viant/houghcircles/service/task"
	"github.com/viant/houghcircles/service/work"
)

type recorder struct {
	mux         sync.Mutex
	allocations []allocation.Snapshot
}

func (r *recorder) unit(hook func(cycle int) error) work.Unit {
	return work.Func(func(_ context.Context, input image.Image, alloc allocation.Snapshot) (image.Image, error) {
		r.mux.Lock()
		r.allocations = append(r.allocations, alloc)
		cycle := len(r.allocations)
		r.mux.Unlock()
		if hook != nil {
			if err := hook(cycle); err != nil {
				return nil, err
			}
		}
		return input, nil
	})
}

func (r *recorder) modes() []int {
	r.mux.Lock()
	defer r.mux.Unlock()
	var ret []int
	for _, alloc := range r.allocations {
		ret = append(ret, alloc.ProcessingQuota()/100)
	}
	return ret
}

func sourceURL(t *testing.T) string {
	t.Helper()
	URL := "mem://localhost/driver/" + t.Name() + "/input.png"
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	img.SetGray(4, 4, color.Gray{Y: 255})
	require.NoError(t, imagestore.New().Save(context.Background(), URL, img))
	return URL
}

func newTask(t *testing.T, maxCycles int, unit work.Unit, options ...task.Option) *task.Task {
	t.Helper()
	handle := allocator.NewStatic(
		allocation.WorkingMode{ID: 1, Snapshot: allocation.MustSnapshot(100, 1, 30)},
		allocation.WorkingMode{ID: 2, Snapshot: allocation.MustSnapshot(200, 2, 60)},
	)
	options = append([]task.Option{
		task.WithSource(sourceURL(t)),
		task.WithWorkUnit(unit),
		task.WithMaxCycles(maxCycles),
		task.WithClock(clockwork.NewFakeClock()),
	}, options...)
	ret, err := task.New("hough", handle, options...)
	require.NoError(t, err)
	return ret
}

func TestDriver_RunToCompletion(t *testing.T) {
	rec := &recorder{}
	aTask := newTask(t, 5, rec.unit(nil))
	driver, err := New(aTask, WithInitialMode(1))
	require.NoError(t, err)

	summary, err := driver.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ReasonCompleted, summary.Reason)
	assert.Equal(t, 5, summary.Progress.Cycles)
	assert.Equal(t, 5, summary.Progress.Monitors)
	require.NotNil(t, summary.Telemetry)
	assert.Equal(t, 5, summary.Telemetry.Cycles)
	assert.Equal(t, task.StateReleased, aTask.State())
	assert.Equal(t, []int{1, 1, 1, 1, 1}, rec.modes())
}

func TestDriver_Reconfigure(t *testing.T) {
	rec := &recorder{}
	var driver *Driver
	unit := rec.unit(func(cycle int) error {
		switch cycle {
		case 2:
			return driver.Submit(context.Background(), Reconfigure(2))
		case 3:
			if err := driver.Submit(context.Background(), Reconfigure(9)); err != nil {
				return err
			}
			return driver.Submit(context.Background(), Reconfigure(1))
		}
		return nil
	})
	aTask := newTask(t, 4, unit)
	var err error
	driver, err = New(aTask, WithInitialMode(1))
	require.NoError(t, err)

	summary, err := driver.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ReasonCompleted, summary.Reason)
	assert.Equal(t, []int{1, 1, 2, 1}, rec.modes())
	assert.Equal(t, 2, summary.Progress.Reconfigurations)
	assert.Equal(t, 0, summary.Progress.Failures)
	assert.Equal(t, 1, aTask.ModeID())
}

func TestDriver_RejectedReconfigure(t *testing.T) {
	t.Run("waits for a valid mode", func(t *testing.T) {
		rec := &recorder{}
		var driver *Driver
		unit := rec.unit(func(cycle int) error {
			if cycle == 1 {
				return driver.Submit(context.Background(), Reconfigure(9))
			}
			return nil
		})
		aTask := newTask(t, 2, unit)
		waiting := make(chan struct{})
		var once sync.Once
		var err error
		driver, err = New(aTask, WithInitialMode(1), WithProgressListener(func(p progress.Progress) {
			if p.Cycles == 1 {
				once.Do(func() { close(waiting) })
			}
		}))
		require.NoError(t, err)

		done := make(chan *Summary, 1)
		go func() {
			summary, runErr := driver.Run(context.Background())
			assert.NoError(t, runErr)
			done <- summary
		}()

		select {
		case <-waiting:
		case <-time.After(5 * time.Second):
			t.Fatal("first cycle did not complete")
		}
		require.NoError(t, driver.Submit(context.Background(), Suspend()))
		require.NoError(t, driver.Submit(context.Background(), Reconfigure(2)))

		var summary *Summary
		select {
		case summary = <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("task did not resume after a valid mode")
		}
		assert.Equal(t, ReasonCompleted, summary.Reason)
		assert.Equal(t, []int{1, 2}, rec.modes())
		assert.Equal(t, 1, summary.Progress.Reconfigurations)
		assert.Equal(t, 0, summary.Progress.Suspensions)
		assert.Equal(t, 2, aTask.ModeID())
	})

	t.Run("stop while waiting", func(t *testing.T) {
		rec := &recorder{}
		var driver *Driver
		unit := rec.unit(func(cycle int) error {
			if cycle == 1 {
				if err := driver.Submit(context.Background(), Reconfigure(-3)); err != nil {
					return err
				}
				return driver.Submit(context.Background(), Stop())
			}
			return nil
		})
		aTask := newTask(t, 5, unit)
		var err error
		driver, err = New(aTask, WithInitialMode(1))
		require.NoError(t, err)

		summary, err := driver.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, ReasonStopped, summary.Reason)
		assert.Equal(t, []int{1}, rec.modes())
		assert.Equal(t, 1, summary.Progress.Cycles)
		assert.Equal(t, task.StateReleased, aTask.State())
	})
}

func TestDriver_SuspendResume(t *testing.T) {
	rec := &recorder{}
	var driver *Driver
	unit := rec.unit(func(cycle int) error {
		if cycle == 2 {
			return driver.Submit(context.Background(), Suspend())
		}
		return nil
	})
	aTask := newTask(t, 3, unit)
	suspended := make(chan struct{})
	var once sync.Once
	var err error
	driver, err = New(aTask, WithInitialMode(1), WithProgressListener(func(p progress.Progress) {
		if p.Suspensions == 1 {
			once.Do(func() { close(suspended) })
		}
	}))
	require.NoError(t, err)

	done := make(chan *Summary, 1)
	go func() {
		summary, runErr := driver.Run(context.Background())
		assert.NoError(t, runErr)
		done <- summary
	}()

	select {
	case <-suspended:
	case <-time.After(5 * time.Second):
		t.Fatal("task was not suspended")
	}
	assert.Equal(t, task.StateSuspended, aTask.State())
	require.NoError(t, driver.Submit(context.Background(), Reconfigure(1)))
	require.NoError(t, driver.Submit(context.Background(), Resume(2)))

	var summary *Summary
	select {
	case summary = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("task was not resumed")
	}
	assert.Equal(t, ReasonCompleted, summary.Reason)
	assert.Equal(t, []int{1, 1, 2}, rec.modes())
	assert.Equal(t, 1, summary.Progress.Suspensions)
	assert.Equal(t, 1, summary.Progress.Reconfigurations)
}

func TestDriver_Stop(t *testing.T) {
	rec := &recorder{}
	var driver *Driver
	unit := rec.unit(func(cycle int) error {
		if cycle == 2 {
			return driver.Submit(context.Background(), Stop())
		}
		return nil
	})
	aTask := newTask(t, 0, unit)
	var err error
	driver, err = New(aTask, WithInitialMode(1))
	require.NoError(t, err)

	summary, err := driver.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ReasonStopped, summary.Reason)
	assert.Equal(t, 2, summary.Progress.Cycles)
	assert.Equal(t, task.StateReleased, aTask.State())
}

func TestDriver_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec := &recorder{}
	var driver *Driver
	unit := rec.unit(func(cycle int) error {
		if cycle == 1 {
			return driver.Submit(ctx, Suspend())
		}
		return nil
	})
	aTask := newTask(t, 0, unit)
	var err error
	driver, err = New(aTask, WithInitialMode(1), WithProgressListener(func(p progress.Progress) {
		if p.Suspensions == 1 {
			cancel()
		}
	}))
	require.NoError(t, err)

	summary, err := driver.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, ReasonCanceled, summary.Reason)
	assert.Equal(t, 1, summary.Progress.Cycles)
	assert.Equal(t, task.StateReleased, aTask.State())
}

func TestDriver_Failures(t *testing.T) {
	t.Run("tolerated", func(t *testing.T) {
		rec := &recorder{}
		unit := rec.unit(func(cycle int) error {
			if cycle%2 == 0 {
				return errors.New("flaky")
			}
			return nil
		})
		aTask := newTask(t, 3, unit)
		driver, err := New(aTask, WithInitialMode(1))
		require.NoError(t, err)

		summary, err := driver.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, ReasonCompleted, summary.Reason)
		assert.Equal(t, 3, summary.Progress.Cycles)
		assert.Equal(t, 2, summary.Progress.Failures)
	})

	t.Run("exhausted", func(t *testing.T) {
		rec := &recorder{}
		unit := rec.unit(func(int) error { return errors.New("broken") })
		aTask := newTask(t, 3, unit)
		config := DefaultConfig()
		config.InitialMode = 1
		config.Policy = &policy.Policy{MaxFailures: 2}
		driver, err := New(aTask, WithConfig(config))
		require.NoError(t, err)

		summary, err := driver.Run(context.Background())
		assert.ErrorIs(t, err, task.ErrWorkExecutionFailed)
		assert.Equal(t, ReasonFailed, summary.Reason)
		assert.Equal(t, 2, summary.Progress.Failures)
		assert.Equal(t, task.StateReleased, aTask.State())
	})

	t.Run("missing source", func(t *testing.T) {
		aTask := newTask(t, 3, work.Identity(), task.WithSource("mem://localhost/driver/missing.png"))
		driver, err := New(aTask)
		require.NoError(t, err)

		summary, err := driver.Run(context.Background())
		assert.ErrorIs(t, err, task.ErrResourceUnavailable)
		assert.Equal(t, ReasonFailed, summary.Reason)
		assert.Equal(t, task.StateReleased, aTask.State())
	})

	t.Run("unknown initial mode", func(t *testing.T) {
		aTask := newTask(t, 3, work.Identity())
		driver, err := New(aTask, WithInitialMode(7))
		require.NoError(t, err)

		_, err = driver.Run(context.Background())
		assert.ErrorIs(t, err, task.ErrAllocationQueryFailed)
		assert.Equal(t, task.StateReleased, aTask.State())
	})
}

func TestNew(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	aTask := newTask(t, 1, work.Identity())
	_, err = New(aTask, WithInitialMode(-1))
	assert.Error(t, err)

	config := DefaultConfig()
	config.MonitorEvery = -1
	_, err = New(aTask, WithConfig(config))
	assert.Error(t, err)
}

func TestDriver_TrySubmit(t *testing.T) {
	config := DefaultConfig()
	config.Queue.QueueBuffer = 1
	driver, err := New(newTask(t, 1, work.Identity()), WithConfig(config))
	require.NoError(t, err)
	require.NoError(t, driver.TrySubmit(Suspend()))
	assert.ErrorIs(t, driver.TrySubmit(Stop()), messaging.ErrFull)
}

func TestCommand_String(t *testing.T) {
	assert.Equal(t, "reconfigure(2)", Reconfigure(2).String())
	assert.Equal(t, "resume(1)", Resume(1).String())
	assert.Equal(t, "suspend", Suspend().String())
	assert.Equal(t, "stop", Stop().String())
}
