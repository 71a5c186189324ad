// Package worker runs one background job at a time and hands its result back
// to the owning goroutine. The job owns its inputs once submitted; the result
// travels over a channel and is read by the completion callback only.
package worker

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrBusy is returned by Submit while a previous job is still running
var ErrBusy = errors.New("worker: a job is already running")

// Dispatcher runs f on the goroutine owning the UI state (fyne.Do in the app)
type Dispatcher func(f func())

// Immediate runs callbacks on the calling goroutine
func Immediate(f func()) { f() }

// Result carries a finished job's output
type Result[T any] struct {
	Value T
	Err   error
}

// Runner is a single-flight background worker
type Runner[T any] struct {
	busy     atomic.Bool
	dispatch Dispatcher
}

// NewRunner creates a runner delivering completions through dispatch
func NewRunner[T any](dispatch Dispatcher) *Runner[T] {
	if dispatch == nil {
		dispatch = Immediate
	}
	return &Runner[T]{dispatch: dispatch}
}

// Busy reports whether a job is in flight
func (r *Runner[T]) Busy() bool {
	return r.busy.Load()
}

// Submit starts job in the background. done, if not nil, is invoked through
// the dispatcher once the job finished; the returned channel yields the same
// result exactly once.
func (r *Runner[T]) Submit(job func() (T, error), done func(T, error)) (<-chan Result[T], error) {
	if !r.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}

	results := make(chan Result[T], 1)
	handoff := make(chan Result[T], 1)

	go func() {
		results <- run(job)
	}()

	go func() {
		res := <-results
		r.dispatch(func() {
			r.busy.Store(false)
			if done != nil {
				done(res.Value, res.Err)
			}
		})
		handoff <- res
		close(handoff)
	}()

	return handoff, nil
}

func run[T any](job func() (T, error)) (res Result[T]) {
	defer func() {
		if p := recover(); p != nil {
			res.Err = fmt.Errorf("worker: job panicked: %v", p)
		}
	}()
	v, err := job()
	return Result[T]{Value: v, Err: err}
}
