// SPDX-FileCopyrightText: 2026 The quiclb-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package quiclb

// generateFirstByte writes the rotation bits and, if configured, the encoded
// CID length into the first octet. Without length encoding the caller's low
// six bits survive. The first octet is never encrypted.
func (ctx *Context) generateFirstByte(cid []byte) {
	if ctx.firstByteEncodesLength {
		cid[0] = ctx.rotationBits<<6 | (ctx.cidLength - 1)
	} else {
		cid[0] = ctx.rotationBits<<6 | cid[0]&0x3F
	}
}

// GenerateCid embeds the server ID into cid in place. The buffer must be
// CidLength octets long and pre-filled by the host with the desired nonce
// and "for server use" octets; GenerateCid overwrites the remaining regions.
// It cannot fail, does not allocate, and is safe for concurrent use.
func (ctx *Context) GenerateCid(cid []byte) {
	switch ctx.method {
	case MethodClear:
		ctx.generateClear(cid)
	case MethodStreamCipher:
		ctx.generateStreamCipher(cid)
	case MethodBlockCipher:
		ctx.generateBlockCipher(cid)
	}
}

// generateClear writes the first octet and the plaintext server ID.
//
//	Clear CID { First Octet (8), Server ID, For Server Use }
func (ctx *Context) generateClear(cid []byte) {
	ctx.generateFirstByte(cid)
	copy(cid[1:], ctx.serverIdBytes)
}

// generateStreamCipher obfuscates the server ID under the host-supplied nonce.
//
//	Stream Cipher CID { First Octet (8), Nonce (64..128),
//	                    Encrypted Server ID, For Server Use }
//
// Three masking passes entangle nonce and server ID with each other; the
// same three passes applied again undo the construction, see VerifyCid.
func (ctx *Context) generateStreamCipher(cid []byte) {
	idOffset := 1 + int(ctx.nonceLength)
	idEnd := idOffset + int(ctx.serverIdLength)

	ctx.generateFirstByte(cid)
	copy(cid[idOffset:idEnd], ctx.serverIdBytes)

	// First pass: intermediate server ID from the plaintext nonce
	onePassMask(ctx.enc, cid[1:idOffset], cid[idOffset:idEnd])
	// Second pass: encrypted nonce from the intermediate server ID
	onePassMask(ctx.enc, cid[idOffset:idEnd], cid[1:idOffset])
	// Third pass: encrypted server ID from the encrypted nonce
	onePassMask(ctx.enc, cid[1:idOffset], cid[idOffset:idEnd])
}

// generateBlockCipher encrypts the server ID and the adjacent server use
// octets as one AES block. Octets after the block stay untouched.
//
//	Block Cipher CID { First Octet (8), Encrypted Server ID,
//	                   Encrypted Bits for Server Use,
//	                   Unencrypted Bits for Server Use (0..24) }
func (ctx *Context) generateBlockCipher(cid []byte) {
	ctx.generateFirstByte(cid)
	copy(cid[1:1+int(ctx.serverIdLength)], ctx.serverIdBytes)
	ctx.enc.Encrypt(cid[1:17], cid[1:17])
}
