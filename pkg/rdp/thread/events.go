package thread

import (
	"github.com/solo-io/remdbg/pkg/rdp"
	"github.com/solo-io/remdbg/pkg/rdp/source"
)

// PausedFunc receives the pause reason and the full pause packet.
type PausedFunc func(reason rdp.PauseReason, p rdp.Packet)

// NewSourceFunc receives the client for a source the thread just learned
// about.
type NewSourceFunc func(src *source.Client)

// listeners is the event fan-out: an ordered callback list per category.
// Delivery is synchronous, in registration order, within the dispatch step
// that produced the event.
type listeners struct {
	paused     []PausedFunc
	exited     []func()
	wrongState []func()
	newSource  []NewSourceFunc
}

func (l *listeners) emitPaused(reason rdp.PauseReason, p rdp.Packet) {
	for _, fn := range l.paused {
		fn(reason, p)
	}
}

func (l *listeners) emitExited() {
	for _, fn := range l.exited {
		fn()
	}
}

func (l *listeners) emitWrongState() {
	for _, fn := range l.wrongState {
		fn()
	}
}

func (l *listeners) emitNewSource(src *source.Client) {
	for _, fn := range l.newSource {
		fn(src)
	}
}
