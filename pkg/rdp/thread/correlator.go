package thread

import (
	"github.com/eapache/queue"
	log "github.com/sirupsen/logrus"
)

// requestKind keys one FIFO queue of outstanding data-fetch requests.
// Replies of the same kind arrive in request order on this protocol, so a
// reply always belongs to the oldest queued handle of its kind. Kinds are
// independent of each other.
type requestKind string

const (
	kindSources  requestKind = "sources"
	kindFrames   requestKind = "frames"
	kindEvaluate requestKind = "evaluate"
	kindRelease  requestKind = "release"
)

type correlator struct {
	queues map[requestKind]*queue.Queue
}

func newCorrelator() *correlator {
	return &correlator{queues: make(map[requestKind]*queue.Queue)}
}

// enqueue appends a handle to its kind's queue.
func (c *correlator) enqueue(kind requestKind, p *Pending) {
	q, ok := c.queues[kind]
	if !ok {
		q = queue.New()
		c.queues[kind] = q
	}
	q.Add(p)
}

// resolveOne settles the oldest outstanding handle of the kind. A reply
// with no waiter means the client and the remote side disagree about what
// is in flight; that is logged and swallowed, never fatal.
func (c *correlator) resolveOne(kind requestKind, v interface{}) {
	q := c.queues[kind]
	if q == nil || q.Length() == 0 {
		log.WithField("kind", kind).Warn("reply arrived with no outstanding request, protocol desync")
		return
	}
	q.Remove().(*Pending).resolve(v)
}

// rejectOne settles the oldest outstanding handle of the kind as failed.
func (c *correlator) rejectOne(kind requestKind, err error) {
	q := c.queues[kind]
	if q == nil || q.Length() == 0 {
		log.WithField("kind", kind).WithField("err", err).Warn("failure reply arrived with no outstanding request, protocol desync")
		return
	}
	q.Remove().(*Pending).reject(err)
}

// rejectAll fails every queued handle of the kind and empties the queue,
// so no caller is left hanging after a detach or teardown.
func (c *correlator) rejectAll(kind requestKind, err error) {
	q := c.queues[kind]
	if q == nil {
		return
	}
	for q.Length() > 0 {
		q.Remove().(*Pending).reject(err)
	}
}
