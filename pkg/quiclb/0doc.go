// SPDX-FileCopyrightText: 2026 The quiclb-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package quiclb implements the Connection ID codec for QUIC servers placed
// behind a layer-4 load balancer, compatible with draft-ietf-quic-load-balancers.
// A server ID is embedded into every locally generated Connection ID, either
// in the clear, obfuscated by a stream-cipher-like construction, or encrypted
// as a whole AES-128-ECB block. Any node knowing the configuration can recover
// the server ID from an observed CID and route the packet accordingly.
//
// A codec is configured from a compact ASCII descriptor and installed on a
// Host. Afterwards GenerateCid and VerifyCid are pure, synchronous functions
// of the immutable Context and may be called from any number of goroutines.
//
//	conf, err := quiclb.ParseConfig("0Y10S8-31-0123456789abcdeffedcba9876543210")
//	if err != nil { ... }
//	ctx, err := quiclb.NewContext(conf)
//	if err != nil { ... }
//
//	cid := make([]byte, ctx.CidLength())
//	_, _ = rand.Read(cid)       // nonce and "for server use" octets
//	ctx.GenerateCid(cid)
//	serverId := ctx.VerifyCid(cid)
//
// The ConnectionIDGenerator type adapts a Context to quic-go's Transport, so
// a quic-go based server emits routable CIDs without further glue.
package quiclb
