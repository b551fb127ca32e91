package transport

import (
	"context"
	"fmt"
	"sync"

	"github.com/weave-ui/weave/internal/errors"
)

// State is the settlement state of a Deferred.
type State int

const (
	// Pending means the request has not finished.
	Pending State = iota

	// Fulfilled means a response arrived with a status below 400.
	Fulfilled

	// Rejected means the request failed or a Then callback panicked.
	Rejected
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Fulfilled:
		return "fulfilled"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Executor runs settlement callbacks. App.Dispatch is an Executor.
type Executor func(func())

// inline runs fn immediately.
func inline(fn func()) { fn() }

// Deferred is the eventual result of a request.
//
// Callbacks registered before settlement fire once, in registration order,
// after settlement: Then callbacks on success, Catch callbacks on failure,
// then Finally callbacks either way. If a Then callback panics the
// remaining Then callbacks are skipped and the Catch callbacks receive the
// panic as an error. Callbacks registered after settlement fire
// immediately.
type Deferred struct {
	mu      sync.Mutex
	state   State
	resp    *Response
	err     error
	then    []func(*Response)
	catch   []func(error)
	finally []func()

	exec Executor
	done chan struct{}
}

func newDeferred(exec Executor) *Deferred {
	if exec == nil {
		exec = inline
	}
	return &Deferred{exec: exec, done: make(chan struct{})}
}

// Then registers fn to receive the response on success.
func (d *Deferred) Then(fn func(*Response)) *Deferred {
	d.mu.Lock()
	state, resp := d.state, d.resp
	if state == Pending {
		d.then = append(d.then, fn)
	}
	d.mu.Unlock()

	if state == Fulfilled {
		d.exec(func() { fn(resp) })
	}
	return d
}

// Catch registers fn to receive the error on failure.
func (d *Deferred) Catch(fn func(error)) *Deferred {
	d.mu.Lock()
	state, err := d.state, d.err
	if state == Pending {
		d.catch = append(d.catch, fn)
	}
	d.mu.Unlock()

	if state == Rejected {
		d.exec(func() { fn(err) })
	}
	return d
}

// Finally registers fn to run after settlement either way.
func (d *Deferred) Finally(fn func()) *Deferred {
	d.mu.Lock()
	state := d.state
	if state == Pending {
		d.finally = append(d.finally, fn)
	}
	d.mu.Unlock()

	if state != Pending {
		d.exec(fn)
	}
	return d
}

// State returns the current state.
func (d *Deferred) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Done is closed once the Deferred has settled and its callbacks have been
// handed to the executor.
func (d *Deferred) Done() <-chan struct{} {
	return d.done
}

// Wait blocks until the Deferred settles or ctx is done.
func (d *Deferred) Wait(ctx context.Context) (*Response, error) {
	select {
	case <-d.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.resp, d.err
}

func (d *Deferred) resolve(resp *Response) { d.settle(resp, nil) }

func (d *Deferred) reject(err error) { d.settle(nil, err) }

func (d *Deferred) settle(resp *Response, err error) {
	d.mu.Lock()
	if d.state != Pending {
		d.mu.Unlock()
		return
	}
	then, catch, finally := d.then, d.catch, d.finally
	d.then, d.catch, d.finally = nil, nil, nil
	if err != nil {
		d.state, d.err = Rejected, err
	} else {
		d.state, d.resp = Fulfilled, resp
	}
	d.mu.Unlock()

	d.exec(func() {
		if err == nil {
			if perr := runThen(then, resp); perr != nil {
				d.mu.Lock()
				d.state, d.err = Rejected, perr
				d.mu.Unlock()
				err = perr
			}
		}
		if err != nil {
			for _, fn := range catch {
				fn(err)
			}
		}
		for _, fn := range finally {
			fn()
		}
	})
	close(d.done)
}

// runThen calls fns in order and converts a panic into an error.
func runThen(fns []func(*Response), resp *Response) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf(errors.CategoryTransport, "then callback panicked: %v", r)
		}
	}()
	for _, fn := range fns {
		fn(resp)
	}
	return nil
}

// rejected returns a Deferred that has already failed with err.
func rejected(exec Executor, format string, args ...any) *Deferred {
	d := newDeferred(exec)
	d.reject(fmt.Errorf(format, args...))
	return d
}
