// SPDX-FileCopyrightText: 2026 The quiclb-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package quiclb

import (
	"crypto/cipher"
	"errors"
	"fmt"
)

// ErrCryptoInit is wrapped when an AES handle cannot be created.
var ErrCryptoInit = errors.New("CID encryption setup failed")

// UnknownServerId is returned by VerifyCid for CIDs this codec cannot have
// generated: wrong length or unknown method.
const UnknownServerId = ^uint64(0)

// Context is the installed form of a Config. It owns the AES handles and is
// immutable after creation; GenerateCid and VerifyCid may run concurrently on
// the same Context.
type Context struct {
	method                 Method
	rotationBits           uint8
	firstByteEncodesLength bool
	cidLength              uint8
	nonceLength            uint8
	serverIdLength         uint8
	serverId               uint64

	// serverIdBytes is the big-endian serialisation of serverId.
	serverIdBytes []byte

	// enc is set for the stream and block cipher methods, dec for the block
	// cipher method only.
	enc cipher.Block
	dec cipher.Block
}

// NewContext validates conf and creates the Context together with its AES
// handles. The CID length must be resolved beforehand; a Config with
// CidLength zero is refused here and handled by Host.Install.
func NewContext(conf Config) (*Context, error) {
	if conf.CidLength == 0 {
		return nil, fmt.Errorf("CID length is unresolved; install on a Host to inherit its length")
	}
	if err := conf.CheckValid(); err != nil {
		return nil, err
	}

	ctx := &Context{
		method:                 conf.Method,
		rotationBits:           conf.RotationBits,
		firstByteEncodesLength: conf.FirstByteEncodesLength,
		cidLength:              conf.CidLength,
		nonceLength:            conf.NonceLength,
		serverIdLength:         conf.ServerIdLength,
		serverId:               conf.ServerId,
		serverIdBytes:          conf.serverIdBytes(),
	}

	if conf.Method != MethodClear {
		enc, err := newAes128Ecb(conf.EncryptionKey[:])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCryptoInit, err)
		}
		ctx.enc = enc

		if conf.Method == MethodBlockCipher {
			dec, err := newAes128Ecb(conf.EncryptionKey[:])
			if err != nil {
				ctx.enc = nil
				return nil, fmt.Errorf("%w: %v", ErrCryptoInit, err)
			}
			ctx.dec = dec
		}
	}

	return ctx, nil
}

// CidLength returns the total length of generated CIDs in octets.
func (ctx *Context) CidLength() int {
	return int(ctx.cidLength)
}

// Method returns the configured embedding method.
func (ctx *Context) Method() Method {
	return ctx.method
}

// ServerId returns the configured server ID value.
func (ctx *Context) ServerId() uint64 {
	return ctx.serverId
}

// Close releases the AES handles. The Context must not be used afterwards;
// the host has to quiesce generation and verification first.
func (ctx *Context) Close() {
	ctx.enc = nil
	ctx.dec = nil
}
