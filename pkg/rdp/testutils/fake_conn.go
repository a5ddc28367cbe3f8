// Package testutils holds protocol test fixtures: a transport fake that
// records outbound requests and hand-delivers inbound packets.
package testutils

import (
	"github.com/solo-io/remdbg/pkg/rdp"
)

// FakeConn implements rdp.Conn for tests and tooling. Sends are recorded
// instead of hitting a wire; inbound packets are pushed through Deliver.
type FakeConn struct {
	Registry *rdp.Registry
	Sent     []rdp.Request

	// SendErr, when set, fails every SendRequest.
	SendErr error
}

func NewFakeConn() *FakeConn {
	return &FakeConn{Registry: rdp.NewRegistry()}
}

func (f *FakeConn) SendRequest(r rdp.Request) error {
	if f.SendErr != nil {
		return f.SendErr
	}
	f.Sent = append(f.Sent, r)
	return nil
}

func (f *FakeConn) Register(a rdp.Actor) {
	f.Registry.Register(a)
}

func (f *FakeConn) GetOrCreate(name string, factory func(name string) rdp.Actor) rdp.Actor {
	return f.Registry.GetOrCreate(name, factory)
}

// Deliver routes a packet to the actor registered under its "from" name,
// the way the real transport would. Returns false when no actor matches.
func (f *FakeConn) Deliver(p rdp.Packet) bool {
	a, ok := f.Registry.Get(p.From())
	if !ok {
		return false
	}
	a.HandlePacket(p)
	return true
}

// SentTypes lists the "type" field of every recorded request, in order.
func (f *FakeConn) SentTypes() []string {
	types := make([]string, 0, len(f.Sent))
	for _, r := range f.Sent {
		types = append(types, r.Type())
	}
	return types
}

// LastSent returns the most recent recorded request, or nil.
func (f *FakeConn) LastSent() rdp.Request {
	if len(f.Sent) == 0 {
		return nil
	}
	return f.Sent[len(f.Sent)-1]
}
