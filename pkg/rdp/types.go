package rdp

import (
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// Outbound request types understood by a thread actor.
const (
	TypeAttach         = "attach"
	TypeResume         = "resume"
	TypeInterrupt      = "interrupt"
	TypeDetach         = "detach"
	TypeSources        = "sources"
	TypeFrames         = "frames"
	TypeClientEvaluate = "clientEvaluate"
	TypeReleaseMany    = "releaseMany"
)

// Inbound notification types.
const (
	TypePaused    = "paused"
	TypeResumed   = "resumed"
	TypeDetached  = "detached"
	TypeExited    = "exited"
	TypeNewSource = "newSource"
	TypeNewGlobal = "newGlobal"
)

// ErrWrongState is the error name the remote side reports when a request
// was made in a run state that does not allow it.
const ErrWrongState = "wrongState"

// PauseReason tags why execution stopped. Unknown tags are expected as the
// protocol evolves; consumers must treat the set as open.
type PauseReason string

const (
	PauseAttached        PauseReason = "attached"
	PauseInterrupted     PauseReason = "interrupted"
	PauseResumeLimit     PauseReason = "resumeLimit"
	PauseBreakpoint      PauseReason = "breakpoint"
	PauseException       PauseReason = "exception"
	PauseClientEvaluated PauseReason = "clientEvaluated"
)

// Location points into a source.
type Location struct {
	URL    string `json:"url,omitempty" mapstructure:"url"`
	Line   int    `json:"line,omitempty" mapstructure:"line"`
	Column int    `json:"column,omitempty" mapstructure:"column"`
}

// Source describes one source known to the remote thread. Actor is the
// name of the source actor serving its content.
type Source struct {
	Actor string `json:"actor" mapstructure:"actor"`
	URL   string `json:"url,omitempty" mapstructure:"url"`
}

// Frame describes one stack frame of a paused thread.
type Frame struct {
	Actor string   `json:"actor" mapstructure:"actor"`
	Type  string   `json:"type,omitempty" mapstructure:"type"`
	Depth int      `json:"depth,omitempty" mapstructure:"depth"`
	Where Location `json:"where,omitempty" mapstructure:"where"`
}

// DecodeSources converts the raw "sources" payload of a reply into typed
// descriptors.
func DecodeSources(raw interface{}) ([]Source, error) {
	var out []Source
	if err := decodePayload(raw, &out); err != nil {
		return nil, errors.Wrap(err, "malformed sources payload")
	}
	return out, nil
}

// DecodeFrames converts the raw "frames" payload of a reply into typed
// descriptors.
func DecodeFrames(raw interface{}) ([]Frame, error) {
	var out []Frame
	if err := decodePayload(raw, &out); err != nil {
		return nil, errors.Wrap(err, "malformed frames payload")
	}
	return out, nil
}

// DecodeSource converts the descriptor embedded in a newSource
// notification.
func DecodeSource(raw interface{}) (Source, error) {
	var out Source
	if err := decodePayload(raw, &out); err != nil {
		return Source{}, errors.Wrap(err, "malformed source descriptor")
	}
	return out, nil
}

// decodePayload maps a decoded-JSON value onto a typed struct. Weak typing
// is needed because JSON numbers arrive as float64.
func decodePayload(raw, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}
