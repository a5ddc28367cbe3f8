package thread

import (
	log "github.com/sirupsen/logrus"

	"github.com/solo-io/remdbg/pkg/rdp"
	"github.com/solo-io/remdbg/pkg/rdp/source"
)

// HandlePacket classifies one inbound packet and routes it to the waiter
// or listeners it belongs to. Classification is by shape, and the order of
// the checks matters: a packet with only a "from" field could be anything,
// so the bare-ack check has to come last among the recognizable shapes.
// Malformed or unknown packets are logged and dropped; one bad packet must
// never take down processing of the ones after it.
func (c *Client) HandlePacket(p rdp.Packet) {
	switch {
	case p.Type() == rdp.TypePaused:
		c.handlePaused(p)

	case p.Type() == rdp.TypeResumed:
		if !c.resume.settle(nil) {
			log.WithField("actor", c.name).Warn("unsolicited resumed notification")
		}

	case p.Type() == rdp.TypeDetached:
		c.handleDetached()

	case p.Has(rdp.FieldSources):
		sources, err := rdp.DecodeSources(p[rdp.FieldSources])
		if err != nil {
			log.WithField("actor", c.name).WithField("err", err).Warn("dropping sources reply")
			c.requests.rejectOne(kindSources, err)
			return
		}
		c.requests.resolveOne(kindSources, sources)

	case p.Type() == rdp.TypeNewSource:
		c.handleNewSource(p)

	case p.Has(rdp.FieldFrames):
		frames, err := rdp.DecodeFrames(p[rdp.FieldFrames])
		if err != nil {
			log.WithField("actor", c.name).WithField("err", err).Warn("dropping frames reply")
			c.requests.rejectOne(kindFrames, err)
			return
		}
		c.requests.resolveOne(kindFrames, frames)

	case p.Type() == rdp.TypeExited:
		c.events.emitExited()

	case p.ErrorName() == rdp.ErrWrongState:
		// The report does not say which request was in the wrong state,
		// so no individual handle can be rejected here.
		c.events.emitWrongState()

	case p.IsBareAck():
		c.requests.resolveOne(kindRelease, nil)

	case p.Type() == rdp.TypeNewGlobal:
		// Expected noise; globals are none of our business.

	default:
		log.WithField("actor", c.name).WithField("type", p.Type()).Warn("unrecognized packet")
	}
}

// handlePaused routes a pause by its reason. Pauses that complete an
// attach or interrupt settle those slots; pauses that mean "execution
// stopped again" invalidate resume and surface as events. A resume handle
// is never settled here: once the thread paused again, the resume is no
// longer meaningful rather than completed.
func (c *Client) handlePaused(p rdp.Packet) {
	reason := rdp.PauseReason(p.WhyType())
	switch reason {
	case rdp.PauseAttached:
		if !c.attach.settle(nil) {
			log.WithField("actor", c.name).Warn("attached pause with no attach in flight")
		}
		c.detach.clear()
		c.interrupt.seed(nil)

	case rdp.PauseInterrupted:
		if !c.interrupt.settle(nil) {
			log.WithField("actor", c.name).Warn("interrupted pause with no interrupt in flight")
		}

	case rdp.PauseResumeLimit, rdp.PauseBreakpoint, rdp.PauseException:
		c.interrupt.seed(nil)
		c.resume.clear()
		c.events.emitPaused(reason, p)

	case rdp.PauseClientEvaluated:
		c.interrupt.seed(nil)
		c.resume.clear()
		c.requests.resolveOne(kindEvaluate, p.EvalResult())

	default:
		// Unknown reasons are expected as the protocol grows; surface
		// them as generic pauses rather than dropping them.
		log.WithField("actor", c.name).WithField("reason", reason).Warn("unknown pause reason")
		c.events.emitPaused(reason, p)
	}
}

func (c *Client) handleDetached() {
	if !c.detach.settle(nil) {
		log.WithField("actor", c.name).Warn("unsolicited detached notification")
	}
	// Outstanding sources and release requests are left queued on detach;
	// only the pause-dependent kinds are flushed.
	c.requests.rejectAll(kindFrames, ErrDetached)
	c.requests.rejectAll(kindEvaluate, ErrDetached)
}

// handleNewSource makes a lazily loaded source visible: get-or-create its
// actor, then announce it. Repeated notifications for the same source
// actor reuse the registered client.
func (c *Client) handleNewSource(p rdp.Packet) {
	src, err := rdp.DecodeSource(p[rdp.FieldSource])
	if err != nil || src.Actor == "" {
		log.WithField("actor", c.name).WithField("err", err).Warn("dropping newSource with malformed descriptor")
		return
	}
	a := c.conn.GetOrCreate(src.Actor, func(string) rdp.Actor {
		return source.NewClient(c.conn, src)
	})
	sc, ok := a.(*source.Client)
	if !ok {
		log.WithField("actor", src.Actor).Warn("actor registered under source name is not a source client")
		return
	}
	c.events.emitNewSource(sc)
}
