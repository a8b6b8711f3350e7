// SPDX-FileCopyrightText: 2026 The quiclb-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package quiclb

// Method selects how the server ID is embedded into a Connection ID.
type Method uint8

const (
	// MethodClear embeds the server ID as plaintext octets.
	MethodClear Method = iota

	// MethodStreamCipher obfuscates the server ID with a nonce-derived
	// AES-ECB keystream, applied in three passes.
	MethodStreamCipher

	// MethodBlockCipher encrypts the server ID and the adjacent "for server
	// use" octets as one AES-128-ECB block.
	MethodBlockCipher
)

func (m Method) String() string {
	switch m {
	case MethodClear:
		return "clear"
	case MethodStreamCipher:
		return "stream-cipher"
	case MethodBlockCipher:
		return "block-cipher"
	default:
		return "unknown"
	}
}
