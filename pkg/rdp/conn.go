package rdp

// Actor is the client-side half of one addressable protocol endpoint.
// The transport delivers every inbound packet whose "from" field matches
// Name to HandlePacket, one packet at a time.
type Actor interface {
	Name() string
	HandlePacket(p Packet)
}

// Conn is the transport collaborator. Implementations own framing, packet
// parsing and the actor registry; actor clients only ever see decoded
// packets and fire-and-forget sends.
type Conn interface {
	// SendRequest dispatches one outbound packet. It never waits for the
	// reply; correlation is the caller's business.
	SendRequest(r Request) error

	// Register makes inbound packets addressed to the actor's name reach
	// it.
	Register(a Actor)

	// GetOrCreate returns the actor registered under name, constructing
	// and registering one via factory when none exists. Creation is
	// idempotent: repeated calls for the same name yield the same actor.
	GetOrCreate(name string, factory func(name string) Actor) Actor
}
