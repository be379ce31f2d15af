// Package workerpool provides executors that run submitted tasks
// independently of the goroutine submitting them.
package workerpool

import (
	"sync"
)

// Executor runs tasks in an execution context independent of the caller.
// Execute must not block the caller waiting for the task to finish.
type Executor interface {
	Execute(task func())
}

// ExecutorFunc is an adapter to allow the use of ordinary functions as
// executors.
type ExecutorFunc func(task func())

// Execute calls f(task).
func (f ExecutorFunc) Execute(task func()) {
	f(task)
}

// Pool runs every submitted task in its own goroutine and keeps track of the
// tasks still running, so that the pool owner can wait for them.
type Pool struct {
	wg sync.WaitGroup // used to wait for all tasks to complete
}

var _ Executor = (*Pool)(nil)

// New creates a new instance of Pool.
func New() *Pool {
	return &Pool{}
}

// Execute starts the task in a new goroutine.
func (m *Pool) Execute(task func()) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		task()
	}()
}

// Wait blocks until every task started so far has returned.
func (m *Pool) Wait() {
	m.wg.Wait()
}
