// SPDX-FileCopyrightText: 2026 The quiclb-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package quiclb

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// MaxCidLength is the maximum Connection ID length permitted by QUIC v1.
const MaxCidLength = 20

// ErrMalformedConfig is wrapped by all errors of ParseConfig.
var ErrMalformedConfig = errors.New("malformed load balancer configuration")

// Config describes a load balancer CID codec, as exchanged between the load
// balancer operator and the server in the compact ASCII form:
//
//	<rotation digit 0-3><Y|N><cid length?><C|S<nonce length>|B>-<server id hex>[-<key hex>]
//
// e.g. "0Y10S8-31-0123456789abcdeffedcba9876543210". A Config is only an
// intermediate representation; NewContext or Host.Install turn it into the
// installed form.
type Config struct {
	// RotationBits are written into the top two bits of the first CID octet.
	RotationBits uint8

	// FirstByteEncodesLength selects whether the low six bits of the first
	// octet carry the CID length minus one.
	FirstByteEncodesLength bool

	// CidLength is the total CID length in octets, zero meaning "inherit
	// from the host at install time".
	CidLength uint8

	// Method selects the server ID embedding.
	Method Method

	// NonceLength is the octet count of the per-CID nonce, stream cipher only.
	NonceLength uint8

	// ServerIdLength is the octet count the server ID occupies in the CID.
	ServerIdLength uint8

	// ServerId is the server ID value, serialised big-endian.
	ServerId uint64

	// EncryptionKey is the AES-128 key, stream and block cipher only.
	EncryptionKey [16]byte
}

// parseDecimal reads a possibly empty decimal number limited to uint8 range.
func parseDecimal(txt string, pos int) (value int, next int, err error) {
	next = pos
	for next < len(txt) && txt[next] >= '0' && txt[next] <= '9' {
		value = value*10 + int(txt[next]-'0')
		next++
		if value > 255 {
			err = fmt.Errorf("number starting at octet %d exceeds 255", pos)
			return
		}
	}
	return
}

// ParseConfig parses the compact ASCII configuration descriptor. Any grammar
// violation, bad hex digit, or violated length invariant yields an error
// wrapping ErrMalformedConfig.
func ParseConfig(txt string) (Config, error) {
	var conf Config

	fail := func(reason string) (Config, error) {
		return Config{}, fmt.Errorf("%w: %s", ErrMalformedConfig, reason)
	}

	if len(txt) < 4 {
		return fail("shorter than the minimal \"0NC-..\" form")
	}

	if txt[0] < '0' || txt[0] > '3' {
		return fail("rotation bits must be a digit between 0 and 3")
	}
	conf.RotationBits = txt[0] - '0'

	switch txt[1] {
	case 'Y', 'y':
		conf.FirstByteEncodesLength = true
	case 'N', 'n':
		conf.FirstByteEncodesLength = false
	default:
		return fail("length encoding flag must be one of Y, y, N, n")
	}

	cidLen, pos, err := parseDecimal(txt, 2)
	if err != nil {
		return fail(err.Error())
	}
	conf.CidLength = uint8(cidLen)

	if pos >= len(txt) {
		return fail("missing method letter")
	}
	switch txt[pos] {
	case 'C', 'c':
		conf.Method = MethodClear
		pos++
	case 'S', 's':
		conf.Method = MethodStreamCipher
		var nonceLen int
		if nonceLen, pos, err = parseDecimal(txt, pos+1); err != nil {
			return fail(err.Error())
		}
		conf.NonceLength = uint8(nonceLen)
	case 'B', 'b':
		conf.Method = MethodBlockCipher
		pos++
	default:
		return fail("method letter must be one of C, S, B")
	}

	if pos >= len(txt) || txt[pos] != '-' {
		return fail("missing separator before the server ID")
	}
	pos++

	hexEnd := pos
	for hexEnd < len(txt) && txt[hexEnd] != '-' {
		hexEnd++
	}
	serverId, sidErr := hex.DecodeString(txt[pos:hexEnd])
	if sidErr != nil || len(serverId) < 1 || len(serverId) > 8 {
		return fail("server ID must be 2 to 16 hex digits")
	}
	conf.ServerIdLength = uint8(len(serverId))
	for _, b := range serverId {
		conf.ServerId = conf.ServerId<<8 | uint64(b)
	}
	pos = hexEnd

	if conf.Method != MethodClear {
		if pos >= len(txt) || txt[pos] != '-' {
			return fail("missing separator before the encryption key")
		}
		pos++

		if len(txt)-pos != 32 {
			return fail("encryption key must be exactly 32 hex digits")
		}
		key, keyErr := hex.DecodeString(txt[pos:])
		if keyErr != nil {
			return fail("encryption key contains non-hex digits")
		}
		copy(conf.EncryptionKey[:], key)
		pos = len(txt)
	}

	if pos != len(txt) {
		return fail("trailing characters after the configuration")
	}

	if err := conf.CheckValid(); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrMalformedConfig, err)
	}

	return conf, nil
}

// String returns the canonical descriptor form, re-parsable by ParseConfig.
func (conf Config) String() string {
	var b strings.Builder

	b.WriteByte('0' + conf.RotationBits)
	if conf.FirstByteEncodesLength {
		b.WriteByte('Y')
	} else {
		b.WriteByte('N')
	}
	if conf.CidLength > 0 {
		b.WriteString(strconv.Itoa(int(conf.CidLength)))
	}

	switch conf.Method {
	case MethodClear:
		b.WriteByte('C')
	case MethodStreamCipher:
		b.WriteByte('S')
		b.WriteString(strconv.Itoa(int(conf.NonceLength)))
	case MethodBlockCipher:
		b.WriteByte('B')
	}

	b.WriteByte('-')
	b.WriteString(hex.EncodeToString(conf.serverIdBytes()))

	if conf.Method != MethodClear {
		b.WriteByte('-')
		b.WriteString(hex.EncodeToString(conf.EncryptionKey[:]))
	}

	return b.String()
}

// serverIdBytes serialises ServerId big-endian into ServerIdLength octets.
func (conf Config) serverIdBytes() []byte {
	b := make([]byte, conf.ServerIdLength)
	v := conf.ServerId
	for i := int(conf.ServerIdLength) - 1; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return b
}

// CheckValid returns an aggregated error for all violated invariants. Length
// invariants against the total CID length are only checked for a non-zero
// CidLength; a zero length is resolved and re-checked at install time.
func (conf Config) CheckValid() (errs error) {
	if conf.RotationBits > 3 {
		errs = multierror.Append(errs, fmt.Errorf(
			"rotation bits %d do not fit two bits", conf.RotationBits))
	}

	if conf.ServerIdLength < 1 {
		errs = multierror.Append(errs, fmt.Errorf("server ID length must be at least 1"))
	} else if conf.ServerIdLength < 8 && conf.ServerId>>(8*conf.ServerIdLength) != 0 {
		errs = multierror.Append(errs, fmt.Errorf(
			"server ID %#x does not fit in %d octets", conf.ServerId, conf.ServerIdLength))
	}

	if conf.CidLength > MaxCidLength {
		errs = multierror.Append(errs, fmt.Errorf(
			"CID length %d exceeds QUIC's maximum of %d", conf.CidLength, MaxCidLength))
	}

	switch conf.Method {
	case MethodClear:
		if conf.CidLength != 0 && int(conf.CidLength) < 1+int(conf.ServerIdLength) {
			errs = multierror.Append(errs, fmt.Errorf(
				"CID length %d leaves no room for the first octet and %d server ID octets",
				conf.CidLength, conf.ServerIdLength))
		}

	case MethodStreamCipher:
		if conf.NonceLength < 8 || conf.NonceLength > 16 {
			errs = multierror.Append(errs, fmt.Errorf(
				"nonce length %d is outside 8 to 16", conf.NonceLength))
		}
		if conf.CidLength != 0 &&
			int(conf.CidLength) < 1+int(conf.NonceLength)+int(conf.ServerIdLength) {
			errs = multierror.Append(errs, fmt.Errorf(
				"CID length %d leaves no room for nonce and server ID", conf.CidLength))
		}

	case MethodBlockCipher:
		if conf.ServerIdLength > 15 {
			errs = multierror.Append(errs, fmt.Errorf(
				"server ID length %d leaves no encrypted octet for server use", conf.ServerIdLength))
		}
		if conf.CidLength != 0 && conf.CidLength < 17 {
			errs = multierror.Append(errs, fmt.Errorf(
				"CID length %d cannot hold a whole AES block", conf.CidLength))
		}

	default:
		errs = multierror.Append(errs, fmt.Errorf("unknown method %d", conf.Method))
	}

	return
}
