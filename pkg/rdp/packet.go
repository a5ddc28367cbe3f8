package rdp

// Packet is one decoded inbound message. The transport owns framing and
// parsing; by the time a packet reaches an actor client it is a plain
// decoded JSON object. Replies in this protocol are duck-typed: some carry
// a "type" tag, others are recognized only by a payload field such as
// "sources" or "frames", so packets stay maps and classification inspects
// fields directly.
type Packet map[string]interface{}

// Field names with protocol-level meaning.
const (
	FieldFrom    = "from"
	FieldTo      = "to"
	FieldType    = "type"
	FieldError   = "error"
	FieldWhy     = "why"
	FieldSources = "sources"
	FieldFrames  = "frames"
	FieldSource  = "source"
)

// From returns the name of the actor that sent the packet.
func (p Packet) From() string {
	return p.stringField(FieldFrom)
}

// Type returns the packet's "type" tag, or "" when the packet carries none.
func (p Packet) Type() string {
	return p.stringField(FieldType)
}

// ErrorName returns the value of the packet's "error" field, if any.
func (p Packet) ErrorName() string {
	return p.stringField(FieldError)
}

// Has reports whether the named field is present at all.
func (p Packet) Has(field string) bool {
	_, ok := p[field]
	return ok
}

// WhyType returns the pause reason tag of a "paused" packet. Empty when the
// packet has no "why" field or a malformed one.
func (p Packet) WhyType() string {
	why, ok := p[FieldWhy].(map[string]interface{})
	if !ok {
		return ""
	}
	t, _ := why[FieldType].(string)
	return t
}

// EvalResult digs the completion value out of a clientEvaluated pause. The
// grip lives under why.frameFinished.return; when that path is missing the
// whole "why" value is returned so the caller still sees something useful.
func (p Packet) EvalResult() interface{} {
	why, ok := p[FieldWhy].(map[string]interface{})
	if !ok {
		return p[FieldWhy]
	}
	finished, ok := why["frameFinished"].(map[string]interface{})
	if !ok {
		return p[FieldWhy]
	}
	if ret, ok := finished["return"]; ok {
		return ret
	}
	return p[FieldWhy]
}

// IsBareAck reports whether the packet carries nothing beyond its sender.
// The protocol acknowledges release requests with exactly such a packet, so
// this is the last recognizable shape checked during classification.
func (p Packet) IsBareAck() bool {
	if len(p) != 1 {
		return false
	}
	return p.Has(FieldFrom)
}

func (p Packet) stringField(name string) string {
	s, _ := p[name].(string)
	return s
}

// Request is one outbound packet addressed to a single actor.
type Request map[string]interface{}

// NewRequest builds the common skeleton of an outbound packet.
func NewRequest(to, requestType string) Request {
	return Request{FieldTo: to, FieldType: requestType}
}

// To returns the destination actor name.
func (r Request) To() string {
	s, _ := r[FieldTo].(string)
	return s
}

// Type returns the operation name.
func (r Request) Type() string {
	s, _ := r[FieldType].(string)
	return s
}
