// SPDX-FileCopyrightText: 2026 The quiclb-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package quiclb

import (
	"crypto/rand"
	"io"

	"github.com/quic-go/quic-go"
)

// ConnectionIDGenerator adapts a Context to quic-go, so a quic.Transport
// behind a QUIC-LB load balancer emits routable Connection IDs:
//
//	tr := quic.Transport{
//		Conn:                  udpConn,
//		ConnectionIDGenerator: quiclb.NewConnectionIDGenerator(ctx),
//	}
//
// The nonce and "for server use" octets are drawn from the generator's
// entropy source; their uniqueness is this host's responsibility.
type ConnectionIDGenerator struct {
	ctx *Context

	// Rand is the entropy source for the pre-filled octets, crypto/rand
	// unless overridden before first use.
	Rand io.Reader
}

var _ quic.ConnectionIDGenerator = (*ConnectionIDGenerator)(nil)

// NewConnectionIDGenerator wraps a Context for use with quic-go.
func NewConnectionIDGenerator(ctx *Context) *ConnectionIDGenerator {
	return &ConnectionIDGenerator{
		ctx:  ctx,
		Rand: rand.Reader,
	}
}

// GenerateConnectionID pre-fills a fresh CID buffer with random octets and
// embeds the server ID.
func (g *ConnectionIDGenerator) GenerateConnectionID() (quic.ConnectionID, error) {
	cid := make([]byte, g.ctx.CidLength())
	if _, err := io.ReadFull(g.Rand, cid); err != nil {
		return quic.ConnectionID{}, err
	}

	g.ctx.GenerateCid(cid)

	return quic.ConnectionIDFromBytes(cid), nil
}

// ConnectionIDLen returns the length of generated Connection IDs.
func (g *ConnectionIDGenerator) ConnectionIDLen() int {
	return g.ctx.CidLength()
}
