// Package replay drives captured inbound packets through a fresh thread
// client and reports how each one was routed. It exists for diagnosing
// protocol desyncs: feed it the trace that made a session hang and look at
// which packets raised events, which settled nothing, and what the client
// warned about along the way.
package replay

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	multierror "github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"

	"github.com/solo-io/remdbg/pkg/rdp"
	"github.com/solo-io/remdbg/pkg/rdp/source"
	"github.com/solo-io/remdbg/pkg/rdp/thread"
)

// Event is one observable outcome of replaying a packet.
type Event struct {
	Seq    int    `json:"seq"`
	Kind   string `json:"kind"`
	Detail string `json:"detail,omitempty"`
}

// Report summarizes one replay run.
type Report struct {
	Actor     string   `json:"actor"`
	Delivered int      `json:"delivered"`
	Skipped   int      `json:"skipped"`
	Events    []Event  `json:"events"`
	Warnings  []string `json:"warnings"`
}

// LoadTrace parses a JSON-lines capture of inbound packets. Bad lines do
// not abort the load; they are collected into one aggregate error so a
// partially damaged capture still replays.
func LoadTrace(r io.Reader) ([]rdp.Packet, error) {
	var packets []rdp.Packet
	var errs *multierror.Error

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var p rdp.Packet
		if err := json.Unmarshal(raw, &p); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("line %v: %v", line, err))
			continue
		}
		packets = append(packets, p)
	}
	if err := scanner.Err(); err != nil {
		errs = multierror.Append(errs, err)
	}
	return packets, errs.ErrorOrNil()
}

// Actors lists the distinct senders in a trace, in first-seen order.
func Actors(packets []rdp.Packet) []string {
	seen := make(map[string]bool)
	var names []string
	for _, p := range packets {
		from := p.From()
		if from == "" || seen[from] {
			continue
		}
		seen[from] = true
		names = append(names, from)
	}
	return names
}

// Run replays every packet sent by actorName through a fresh thread
// client and returns what happened. Packets from other actors are counted
// but not delivered.
func Run(packets []rdp.Packet, actorName string) *Report {
	report := &Report{Actor: actorName}

	conn := &sinkConn{registry: rdp.NewRegistry()}
	client := thread.NewClient(conn, actorName)

	seq := 0
	client.OnPaused(func(reason rdp.PauseReason, p rdp.Packet) {
		report.Events = append(report.Events, Event{Seq: seq, Kind: "paused", Detail: string(reason)})
	})
	client.OnExited(func() {
		report.Events = append(report.Events, Event{Seq: seq, Kind: "exited"})
	})
	client.OnWrongState(func() {
		report.Events = append(report.Events, Event{Seq: seq, Kind: "wrongState"})
	})
	client.OnNewSource(func(src *source.Client) {
		report.Events = append(report.Events, Event{Seq: seq, Kind: "newSource", Detail: src.URL()})
	})

	capture := &warnCapture{seq: &seq}
	logger := log.StandardLogger()
	logger.AddHook(capture)
	defer removeHook(logger, capture)

	for i, p := range packets {
		seq = i
		if p.From() != actorName {
			report.Skipped++
			continue
		}
		client.HandlePacket(p)
		report.Delivered++
	}
	report.Warnings = capture.messages
	return report
}

// sinkConn discards outbound requests. Replay only ever feeds inbound
// traffic, so there is nothing meaningful to send.
type sinkConn struct {
	registry *rdp.Registry
}

func (s *sinkConn) SendRequest(r rdp.Request) error { return nil }

func (s *sinkConn) Register(a rdp.Actor) { s.registry.Register(a) }

func (s *sinkConn) GetOrCreate(name string, factory func(name string) rdp.Actor) rdp.Actor {
	return s.registry.GetOrCreate(name, factory)
}

// warnCapture collects the warnings the client logs while classifying, so
// the report can show them next to the packets that caused them.
type warnCapture struct {
	seq      *int
	messages []string
}

func (w *warnCapture) Levels() []log.Level {
	return []log.Level{log.WarnLevel}
}

func (w *warnCapture) Fire(e *log.Entry) error {
	w.messages = append(w.messages, fmt.Sprintf("packet %v: %v", *w.seq, e.Message))
	return nil
}

func removeHook(logger *log.Logger, target log.Hook) {
	for level, hooks := range logger.Hooks {
		kept := hooks[:0]
		for _, h := range hooks {
			if h != target {
				kept = append(kept, h)
			}
		}
		logger.Hooks[level] = kept
	}
}
