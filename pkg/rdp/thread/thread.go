// Package thread implements the client for a thread actor: the remote
// endpoint controlling one paused or running execution context. Calls
// return immediately with result handles; the handles settle when the
// matching inbound packet is classified.
package thread

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/solo-io/remdbg/pkg/options"
	"github.com/solo-io/remdbg/pkg/rdp"
)

// ErrDetached fails outstanding stack-frame and evaluate requests when the
// thread detaches. Callers should treat it as a normal end-of-session
// signal, not a bug.
var ErrDetached = errors.New("thread actor detached")

// Client is the proxy for one remote thread actor. All of its state is
// mutated either by the issuing call or by HandlePacket; the transport
// delivers packets one at a time, so no locking happens here.
type Client struct {
	name string
	conn rdp.Conn

	requests *correlator

	attach    lifecycleSlot
	resume    lifecycleSlot
	interrupt lifecycleSlot
	detach    lifecycleSlot

	events listeners
}

// NewClient builds the proxy and registers it with the transport so
// inbound packets from name reach it.
func NewClient(conn rdp.Conn, name string) *Client {
	c := &Client{
		name:     name,
		conn:     conn,
		requests: newCorrelator(),
	}
	conn.Register(c)
	return c
}

func (c *Client) Name() string {
	return c.name
}

// Attach asks the remote side to start debugging this thread. The thread
// pauses on attach; the handle settles once the attached pause arrives.
// Attaching while already attached (or attaching) is a caller mistake and
// returns the existing handle.
func (c *Client) Attach() *Pending {
	if c.attach.occupied() {
		log.WithField("actor", c.name).Warn("attach requested while already attached or attaching")
		return c.attach.handle
	}
	return c.issueLifecycle(&c.attach, rdp.NewRequest(c.name, rdp.TypeAttach))
}

// Resume lets the thread run again. mode selects the exception-breakpoint
// policy, step optionally limits how far execution proceeds before pausing
// again. Issuing resume invalidates any cached interrupt result.
func (c *Client) Resume(mode ExceptionMode, step StepKind) *Pending {
	if c.resume.occupied() {
		return c.resume.handle
	}
	c.interrupt.clear()
	req := rdp.NewRequest(c.name, rdp.TypeResume)
	pauseOnExceptions, ignoreCaught := mode.wireFlags()
	if pauseOnExceptions {
		req["pauseOnExceptions"] = true
	}
	if ignoreCaught {
		req["ignoreCaughtExceptions"] = true
	}
	if limit := step.resumeLimit(); limit != nil {
		req["resumeLimit"] = limit
	}
	return c.issueLifecycle(&c.resume, req)
}

// Interrupt pauses a running thread. If the thread is already known to be
// paused the slot is pre-seeded and the cached handle comes back without
// another request going out.
func (c *Client) Interrupt() *Pending {
	if c.interrupt.occupied() {
		return c.interrupt.handle
	}
	c.resume.clear()
	return c.issueLifecycle(&c.interrupt, rdp.NewRequest(c.name, rdp.TypeInterrupt))
}

// Detach stops debugging the thread. Outstanding stack-frame and evaluate
// requests fail with ErrDetached once the detached notification arrives.
func (c *Client) Detach() *Pending {
	if c.detach.occupied() {
		log.WithField("actor", c.name).Warn("detach requested while already detached or detaching")
		return c.detach.handle
	}
	c.attach.clear()
	return c.issueLifecycle(&c.detach, rdp.NewRequest(c.name, rdp.TypeDetach))
}

func (c *Client) issueLifecycle(slot *lifecycleSlot, req rdp.Request) *Pending {
	p := slot.begin()
	if err := c.conn.SendRequest(req); err != nil {
		slot.clear()
		return failed(errors.Wrapf(err, "sending %v request to %v", req.Type(), c.name))
	}
	return p
}

// FetchSources requests the list of sources the thread knows about. The
// handle resolves with []rdp.Source.
func (c *Client) FetchSources() *Pending {
	return c.issueQueued(kindSources, rdp.NewRequest(c.name, rdp.TypeSources))
}

// FetchStackFrames requests up to maxLevels stack frames of the paused
// thread, options.DefaultStackDepth when maxLevels is not positive. The
// handle resolves with []rdp.Frame.
func (c *Client) FetchStackFrames(maxLevels int) *Pending {
	if maxLevels <= 0 {
		maxLevels = options.DefaultStackDepth
	}
	req := rdp.NewRequest(c.name, rdp.TypeFrames)
	req["start"] = 0
	req["count"] = maxLevels
	return c.issueQueued(kindFrames, req)
}

// Evaluate runs expression in the scope of the given frame actor. The
// handle resolves with the resulting grip. A remotely thrown error is not
// a failure: the wrapper below stringifies it as "<name>:<message>" and
// that string becomes the result value.
func (c *Client) Evaluate(expression, frameActor string) *Pending {
	req := rdp.NewRequest(c.name, rdp.TypeClientEvaluate)
	req["expression"] = wrapExpression(expression)
	req["frame"] = frameActor
	return c.issueQueued(kindEvaluate, req)
}

// ReleaseMany frees remote object grips the caller no longer needs. The
// handle resolves with no value on acknowledgement.
func (c *Client) ReleaseMany(actorNames []string) *Pending {
	req := rdp.NewRequest(c.name, rdp.TypeReleaseMany)
	req["actors"] = actorNames
	return c.issueQueued(kindRelease, req)
}

func (c *Client) issueQueued(kind requestKind, req rdp.Request) *Pending {
	if err := c.conn.SendRequest(req); err != nil {
		return failed(errors.Wrapf(err, "sending %v request to %v", req.Type(), c.name))
	}
	p := newPending()
	c.requests.enqueue(kind, p)
	return p
}

// OnPaused registers fn for pauses caused by breakpoints, exceptions,
// resume limits and unknown reasons. Pauses that complete an attach or
// interrupt settle those handles instead of raising the event.
func (c *Client) OnPaused(fn PausedFunc) {
	c.events.paused = append(c.events.paused, fn)
}

// OnExited registers fn for the thread going away for good.
func (c *Client) OnExited(fn func()) {
	c.events.exited = append(c.events.exited, fn)
}

// OnWrongState registers fn for remote wrong-state reports. The report
// does not identify the offending request, so the event is all a caller
// gets; the request's own handle stays pending.
func (c *Client) OnWrongState(fn func()) {
	c.events.wrongState = append(c.events.wrongState, fn)
}

// OnNewSource registers fn for sources that become known after
// FetchSources already returned, e.g. ones loaded by dynamic evaluation.
func (c *Client) OnNewSource(fn NewSourceFunc) {
	c.events.newSource = append(c.events.newSource, fn)
}

// wrapExpression embeds expression in the remote-side guard that turns a
// thrown error into the string "<name>:<message>". The expression ends up
// inside a string literal of the outbound payload, so backslashes and
// double quotes must be escaped first.
func wrapExpression(expression string) string {
	return fmt.Sprintf(`try { eval("%v") } catch (e) { e.name + ":" + e.message }`, escapeString(expression))
}

func escapeString(s string) string {
	s = strings.Replace(s, `\`, `\\`, -1)
	return strings.Replace(s, `"`, `\"`, -1)
}
