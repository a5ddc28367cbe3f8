package thread

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// Pending is a single-assignment asynchronous result: it is created
// pending and settles exactly once, either with a value or with an error.
// Settlement always happens on the dispatch path (or on the issuing call
// when a send fails), so no lock is needed beyond the done channel itself;
// closing it publishes the outcome to awaiting goroutines.
type Pending struct {
	done chan struct{}
	val  interface{}
	err  error
}

func newPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

// settled builds an already-resolved handle. Used to seed interrupt as
// satisfied when the thread is known to be paused.
func settled(v interface{}) *Pending {
	p := newPending()
	p.resolve(v)
	return p
}

// failed builds an already-rejected handle.
func failed(err error) *Pending {
	p := newPending()
	p.reject(err)
	return p
}

func (p *Pending) resolve(v interface{}) {
	p.settle(v, nil)
}

func (p *Pending) reject(err error) {
	p.settle(nil, err)
}

func (p *Pending) settle(v interface{}, err error) {
	select {
	case <-p.done:
		// Duplicate settlement means the queue/slot discipline was
		// violated somewhere; keep the first outcome.
		log.WithField("err", err).Warn("dropping duplicate settlement of an async result")
		return
	default:
	}
	p.val = v
	p.err = err
	close(p.done)
}

// Done is closed once the handle has settled.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Settled reports whether the handle has an outcome yet.
func (p *Pending) Settled() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Await blocks until the handle settles or ctx is done. There is no
// protocol-level timeout: a request whose reply never arrives waits until
// the caller gives up via ctx.
func (p *Pending) Await(ctx context.Context) (interface{}, error) {
	select {
	case <-p.done:
		return p.val, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
