package engine

import (
	"context"
	"errors"
)

// Future is the eventual outcome of deferred work.
type Future struct {
	done  chan struct{}
	rules []ResolvedRule
	err   error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Completed returns a future that is already complete.
func Completed(rules []ResolvedRule, err error) *Future {
	f := newFuture()
	f.complete(rules, err)
	return f
}

func (f *Future) complete(rules []ResolvedRule, err error) {
	f.rules = rules
	f.err = err
	close(f.done)
}

// Done is closed once the outcome is available.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the outcome is available or ctx ends. Giving up on the
// wait does not stop the work itself.
func (f *Future) Wait(ctx context.Context) ([]ResolvedRule, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-f.done:
		return f.rules, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Gather combines futures into one that completes when all of them have.
// Rules of successful futures are concatenated in argument order; failures
// are all kept and joined.
func Gather(futures ...*Future) *Future {
	out := newFuture()
	go func() {
		var (
			rules []ResolvedRule
			errs  []error
		)
		for _, f := range futures {
			<-f.done
			if f.err != nil {
				errs = append(errs, f.err)
				continue
			}
			rules = append(rules, f.rules...)
		}
		out.complete(rules, errors.Join(errs...))
	}()
	return out
}
