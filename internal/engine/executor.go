package engine

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/purg-com/pleroma-iss/internal/logger"
	isserrors "github.com/purg-com/pleroma-iss/pkg/errors"
)

// TaskFunc expands one deferred subtree into its rules.
type TaskFunc func() ([]ResolvedRule, error)

// Pool runs deferred subtree expansions on a bounded number of goroutines.
// Submitted work is never cancelled; it runs to completion or failure.
type Pool struct {
	slots  chan struct{}
	wg     sync.WaitGroup
	logger *logger.Logger
}

// NewPool creates a pool running at most parallel tasks at once. Values
// below one use GOMAXPROCS.
func NewPool(parallel int, log *logger.Logger) *Pool {
	if parallel < 1 {
		parallel = runtime.GOMAXPROCS(0)
	}
	return &Pool{slots: make(chan struct{}, parallel), logger: log}
}

// Submit schedules fn and returns a handle to its outcome. A panic inside fn
// fails only that task.
func (p *Pool) Submit(name string, fn TaskFunc) *Future {
	future := newFuture()
	p.wg.Add(1)

	go func() {
		defer p.wg.Done()

		p.slots <- struct{}{}
		defer func() { <-p.slots }()

		rules, err := p.run(name, fn)
		if err != nil {
			p.logger.With("task", name).Error(err, "lazy subtree failed")
		}
		future.complete(rules, err)
	}()

	return future
}

// Wait blocks until every submitted task has finished.
func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) run(name string, fn TaskFunc) (rules []ResolvedRule, err error) {
	defer func() {
		if r := recover(); r != nil {
			rules = nil
			err = isserrors.NewTaskError(name, fmt.Errorf("panic: %v", r))
		}
	}()

	rules, err = fn()
	if err != nil {
		return nil, isserrors.NewTaskError(name, err)
	}
	return rules, nil
}
