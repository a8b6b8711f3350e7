// SPDX-FileCopyrightText: 2026 The quiclb-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package quiclb

// decodeServerId reassembles a big-endian server ID from at most 8 octets.
func decodeServerId(b []byte) (id uint64) {
	for _, octet := range b {
		id = id<<8 | uint64(octet)
	}
	return
}

// VerifyCid recovers the server ID embedded in an observed CID. It is total:
// a CID of the wrong length yields UnknownServerId instead of an error. The
// observed CID is not modified.
func (ctx *Context) VerifyCid(cid []byte) uint64 {
	if len(cid) != int(ctx.cidLength) {
		return UnknownServerId
	}

	switch ctx.method {
	case MethodClear:
		return decodeServerId(cid[1 : 1+int(ctx.serverIdLength)])
	case MethodStreamCipher:
		return ctx.verifyStreamCipher(cid)
	case MethodBlockCipher:
		return ctx.verifyBlockCipher(cid)
	default:
		return UnknownServerId
	}
}

// verifyStreamCipher undoes the three masking passes on a scratch copy. Each
// pass XORs one region with a keystream derived from the other, whose content
// at that point equals its state just before the corresponding generation
// pass, so generation and verification are the same transformation.
func (ctx *Context) verifyStreamCipher(cid []byte) uint64 {
	idOffset := 1 + int(ctx.nonceLength)
	idEnd := idOffset + int(ctx.serverIdLength)

	var scratch [MaxCidLength]byte
	target := scratch[:len(cid)]
	copy(target, cid)

	onePassMask(ctx.enc, target[1:idOffset], target[idOffset:idEnd])
	onePassMask(ctx.enc, target[idOffset:idEnd], target[1:idOffset])
	onePassMask(ctx.enc, target[1:idOffset], target[idOffset:idEnd])

	return decodeServerId(target[idOffset:idEnd])
}

// verifyBlockCipher decrypts the AES block and reassembles the server ID
// from its leading octets.
func (ctx *Context) verifyBlockCipher(cid []byte) uint64 {
	var decoded [16]byte

	ctx.dec.Decrypt(decoded[:], cid[1:17])

	return decodeServerId(decoded[:ctx.serverIdLength])
}
