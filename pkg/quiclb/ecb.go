// SPDX-FileCopyrightText: 2026 The quiclb-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package quiclb

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// newAes128Ecb creates a single-block AES-128 handle. The key schedule is
// immutable after creation, so one handle may be shared by concurrent callers.
func newAes128Ecb(key []byte) (cipher.Block, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("AES-128 key setup errored: %w", err)
	}
	return block, nil
}

// onePassMask XORs an AES-ECB derived keystream into target. The source
// octets are copied into a zeroed 16 octet block, the block is encrypted, and
// the first len(target) octets of the result are XORed into target. Both
// slices must not exceed 16 octets; configuration validation guarantees this.
func onePassMask(enc cipher.Block, src, target []byte) {
	var mask [16]byte

	copy(mask[:], src)
	enc.Encrypt(mask[:], mask[:])

	for i := range target {
		target[i] ^= mask[i]
	}
}
