package thread

// Lifecycle operations (attach, resume, interrupt, detach) have
// at-most-one-outstanding semantics: while a slot is occupied, re-issuing
// the operation returns the existing handle instead of sending another
// request. The slot is a tiny explicit state machine rather than a nilable
// cached result, so the cross-invalidation rules between operations are
// visible as transitions.

type slotState int

const (
	// slotIdle: the operation may be issued.
	slotIdle slotState = iota
	// slotPending: a request is in flight, its handle unsettled.
	slotPending
	// slotSettled: the operation completed; the handle caches its result
	// until another operation invalidates it.
	slotSettled
)

type lifecycleSlot struct {
	state  slotState
	handle *Pending
}

func (s *lifecycleSlot) occupied() bool {
	return s.state != slotIdle
}

// begin issues the operation: creates the pending handle and marks the
// slot in flight. Callers must check occupied first.
func (s *lifecycleSlot) begin() *Pending {
	s.handle = newPending()
	s.state = slotPending
	return s.handle
}

// settle resolves the in-flight handle. Returns false when nothing was
// pending, which callers surface as a protocol warning.
func (s *lifecycleSlot) settle(v interface{}) bool {
	if s.state != slotPending {
		return false
	}
	s.handle.resolve(v)
	s.state = slotSettled
	return true
}

// seed marks the operation as already satisfied without a request ever
// having been sent. Used for interrupt whenever the thread is known to be
// paused.
func (s *lifecycleSlot) seed(v interface{}) {
	s.handle = settled(v)
	s.state = slotSettled
}

// clear invalidates the slot. A handle already given out stays settled for
// its holders; the slot just stops returning it.
func (s *lifecycleSlot) clear() {
	s.handle = nil
	s.state = slotIdle
}

// ExceptionMode is the exception-breakpoint policy carried by resume.
type ExceptionMode int

const (
	// ExceptionsNone never breaks on exceptions.
	ExceptionsNone ExceptionMode = iota
	// ExceptionsUncaught breaks only on exceptions nothing catches.
	ExceptionsUncaught
	// ExceptionsAll breaks on every thrown exception.
	ExceptionsAll
)

// wireFlags maps the policy onto the two independent wire flags.
func (m ExceptionMode) wireFlags() (pauseOnExceptions, ignoreCaughtExceptions bool) {
	switch m {
	case ExceptionsAll:
		return true, false
	case ExceptionsUncaught:
		return true, true
	default:
		return false, false
	}
}

// StepKind constrains how far a resumed thread runs before pausing again.
// StepNone means run to completion or the next breakpoint.
type StepKind int

const (
	StepNone StepKind = iota
	StepOver
	StepIn
	StepOut
)

// resumeLimit returns the wire descriptor for the step, or nil for
// StepNone.
func (k StepKind) resumeLimit() map[string]interface{} {
	switch k {
	case StepOver:
		return map[string]interface{}{"type": "next"}
	case StepIn:
		return map[string]interface{}{"type": "step"}
	case StepOut:
		return map[string]interface{}{"type": "finish"}
	default:
		return nil
	}
}
