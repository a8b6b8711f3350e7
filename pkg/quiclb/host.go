// SPDX-FileCopyrightText: 2026 The quiclb-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package quiclb

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
)

// Codec generates outgoing Connection IDs and recovers the server ID from
// observed ones. A Host holds at most one Codec at a time.
type Codec interface {
	GenerateCid(cid []byte)
	VerifyCid(cid []byte) uint64
	CidLength() int
}

// ErrIncompatibleHostState is wrapped when an installation would break the
// host's live connections or replace a registered codec.
var ErrIncompatibleHostState = errors.New("incompatible host state")

// codecSlot wraps a Codec so the interface can be stored in an atomic.Value
// with a uniform concrete type.
type codecSlot struct {
	codec Codec
}

// Host models the CID generation state of an enclosing QUIC endpoint: its
// local CID length, the number of live connections, and the registered Codec.
// Install publishes the Codec atomically, so readers observe either no codec
// or a fully initialised one; Install and Uninstall themselves must not run
// concurrently with traffic on the connections being reconfigured.
type Host struct {
	mutex sync.Mutex

	cidLength   uint8
	connections int

	slot atomic.Value // codecSlot
}

// NewHost creates a Host with the given default local CID length.
func NewHost(cidLength uint8) *Host {
	return &Host{cidLength: cidLength}
}

// Codec returns the registered Codec, or nil.
func (h *Host) Codec() Codec {
	if slot, ok := h.slot.Load().(codecSlot); ok {
		return slot.codec
	}
	return nil
}

// CidLength returns the host's local CID length.
func (h *Host) CidLength() uint8 {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	return h.cidLength
}

// ConnectionOpened records a new live connection.
func (h *Host) ConnectionOpened() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.connections++
}

// ConnectionClosed records a closed connection.
func (h *Host) ConnectionClosed() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.connections--
}

// SetCodec registers an externally provided Codec, e.g. a custom CID scheme,
// if none is registered yet.
func (h *Host) SetCodec(codec Codec) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.Codec() != nil {
		return fmt.Errorf("%w: a codec is already registered", ErrIncompatibleHostState)
	}

	h.cidLength = uint8(codec.CidLength())
	h.slot.Store(codecSlot{codec})

	return nil
}

// Install validates conf, creates a Context and registers it on this Host. A
// zero CidLength in conf inherits the host's current length before
// validation. Installation is refused while connections with a different CID
// length are live or while another codec is registered; in both cases, and on
// any validation or key setup failure, the Host stays unchanged.
func (h *Host) Install(conf Config) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if conf.CidLength == 0 {
		conf.CidLength = h.cidLength
	}

	if h.connections > 0 && conf.CidLength != h.cidLength {
		return fmt.Errorf("%w: %d live connections use CID length %d, cannot switch to %d",
			ErrIncompatibleHostState, h.connections, h.cidLength, conf.CidLength)
	}
	if h.Codec() != nil {
		return fmt.Errorf("%w: another codec is already registered", ErrIncompatibleHostState)
	}

	ctx, err := NewContext(conf)
	if err != nil {
		return err
	}

	h.cidLength = conf.CidLength
	h.slot.Store(codecSlot{ctx})

	log.WithFields(log.Fields{
		"method":     ctx.Method(),
		"cid_length": ctx.CidLength(),
	}).Info("Installed load balancer CID codec")

	return nil
}

// Uninstall removes this package's codec from the Host and releases its AES
// handles. A foreign Codec registered through SetCodec is left untouched. The
// caller must have drained in-flight generation and verification beforehand.
func (h *Host) Uninstall() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	ctx, ok := h.Codec().(*Context)
	if !ok {
		return
	}

	h.slot.Store(codecSlot{})
	ctx.Close()

	log.Debug("Uninstalled load balancer CID codec")
}
