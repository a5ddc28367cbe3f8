// Package source holds the client proxy for source actors. A thread client
// hands these out through newSource events; everything beyond identity and
// the descriptor is served by other parts of the protocol.
package source

import (
	log "github.com/sirupsen/logrus"

	"github.com/solo-io/remdbg/pkg/rdp"
)

// Client proxies one remote source actor.
type Client struct {
	conn rdp.Conn
	src  rdp.Source
}

func NewClient(conn rdp.Conn, src rdp.Source) *Client {
	return &Client{conn: conn, src: src}
}

func (c *Client) Name() string {
	return c.src.Actor
}

// URL returns the location the source was loaded from, when known.
func (c *Client) URL() string {
	return c.src.URL
}

// Descriptor returns the source descriptor the actor was announced with.
func (c *Client) Descriptor() rdp.Source {
	return c.src
}

// HandlePacket satisfies rdp.Actor. Source actors only ever answer
// requests we have not issued yet, so any traffic here is unexpected.
func (c *Client) HandlePacket(p rdp.Packet) {
	log.WithField("from", c.src.Actor).WithField("type", p.Type()).Warn("unexpected packet for source actor")
}
