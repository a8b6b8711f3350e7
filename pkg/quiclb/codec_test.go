// SPDX-FileCopyrightText: 2026 The quiclb-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package quiclb

import (
	"bytes"
	"crypto/aes"
	"crypto/rand"
	"encoding/hex"
	"testing"
)

func mustContext(t *testing.T, txt string) *Context {
	t.Helper()

	conf, err := ParseConfig(txt)
	if err != nil {
		t.Fatal(err)
	}

	ctx, err := NewContext(conf)
	if err != nil {
		t.Fatal(err)
	}

	return ctx
}

func TestGenerateClear(t *testing.T) {
	ctx := mustContext(t, "0N5C-2a")

	cid := make([]byte, 5)
	ctx.GenerateCid(cid)

	if cid[0] != 0x00 {
		t.Fatalf("First octet is %#02x instead of 0x00", cid[0])
	}
	if cid[1] != 0x2a {
		t.Fatalf("Server ID octet is %#02x instead of 0x2a", cid[1])
	}
	if id := ctx.VerifyCid(cid); id != 0x2a {
		t.Fatalf("Verification returned %#x instead of 0x2a", id)
	}
}

func TestGenerateClearEncodedLength(t *testing.T) {
	ctx := mustContext(t, "1Y5C-07")

	cid := make([]byte, 5)
	ctx.GenerateCid(cid)

	if expected := byte(1<<6 | (5 - 1)); cid[0] != expected {
		t.Fatalf("First octet is %#02x instead of %#02x", cid[0], expected)
	}
	if cid[1] != 0x07 {
		t.Fatalf("Server ID octet is %#02x instead of 0x07", cid[1])
	}
	if id := ctx.VerifyCid(cid); id != 7 {
		t.Fatalf("Verification returned %#x instead of 7", id)
	}
}

func TestGenerateStreamCipher(t *testing.T) {
	ctx := mustContext(t, "0N20S12-1234-000102030405060708090a0b0c0d0e0f")

	cid := make([]byte, 20)
	ctx.GenerateCid(cid)

	if bytes.Equal(cid[1:13], make([]byte, 12)) {
		t.Fatal("Nonce region was not obfuscated")
	}
	if bytes.Equal(cid[13:15], []byte{0x12, 0x34}) {
		t.Fatal("Server ID region was not obfuscated")
	}
	if id := ctx.VerifyCid(cid); id != 0x1234 {
		t.Fatalf("Verification returned %#x instead of 0x1234", id)
	}
}

// The three masking passes must be their own inverse: re-applying them to a
// generated CID uncovers the plaintext server ID.
func TestStreamCipherSelfInverse(t *testing.T) {
	ctx := mustContext(t, "0N20S12-1234-"+testKeyHex)

	cid := make([]byte, 20)
	if _, err := rand.Read(cid); err != nil {
		t.Fatal(err)
	}
	ctx.GenerateCid(cid)

	onePassMask(ctx.enc, cid[1:13], cid[13:15])
	onePassMask(ctx.enc, cid[13:15], cid[1:13])
	onePassMask(ctx.enc, cid[1:13], cid[13:15])

	if !bytes.Equal(cid[13:15], []byte{0x12, 0x34}) {
		t.Fatalf("Unmasking did not uncover the server ID, got %x", cid[13:15])
	}
}

func TestGenerateBlockCipher(t *testing.T) {
	ctx := mustContext(t, "0N17B-aa-"+testKeyHex)

	cid := make([]byte, 17)
	ctx.GenerateCid(cid)

	key, _ := hex.DecodeString(testKeyHex)
	block, err := aes.NewCipher(key)
	if err != nil {
		t.Fatal(err)
	}

	expected := make([]byte, 16)
	expected[0] = 0xaa
	block.Encrypt(expected, expected)

	if !bytes.Equal(cid[1:17], expected) {
		t.Fatalf("Encrypted block does not match, expected %x and got %x",
			expected, cid[1:17])
	}
	if id := ctx.VerifyCid(cid); id != 0xaa {
		t.Fatalf("Verification returned %#x instead of 0xaa", id)
	}
}

func TestGenerateVerifyRoundTrip(t *testing.T) {
	tests := []struct {
		configuration string
		serverId      uint64
	}{
		{"0N5C-2a", 0x2a},
		{"1Y20C-0102030405060708", 0x0102030405060708},
		{"0Y10S8-31-" + testKeyHex, 0x31},
		{"2N20S12-1234-" + testKeyHex, 0x1234},
		{"3Y20S8-0badcafe-" + testKeyHex, 0x0badcafe},
		{"0N17B-aa-" + testKeyHex, 0xaa},
		{"1Y20B-0102030405060708-" + testKeyHex, 0x0102030405060708},
	}

	for _, test := range tests {
		conf, err := ParseConfig(test.configuration)
		if err != nil {
			t.Fatal(err)
		}
		ctx, err := NewContext(conf)
		if err != nil {
			t.Fatal(err)
		}

		for i := 0; i < 50; i++ {
			cid := make([]byte, ctx.CidLength())
			if _, err := rand.Read(cid); err != nil {
				t.Fatal(err)
			}

			ctx.GenerateCid(cid)

			if cid[0]>>6 != conf.RotationBits {
				t.Fatalf("%q: rotation bits are %d instead of %d",
					test.configuration, cid[0]>>6, conf.RotationBits)
			}
			if conf.FirstByteEncodesLength && cid[0]&0x3F != conf.CidLength-1 {
				t.Fatalf("%q: encoded length is %d instead of %d",
					test.configuration, cid[0]&0x3F, conf.CidLength-1)
			}

			if id := ctx.VerifyCid(cid); id != test.serverId {
				t.Fatalf("%q: verification returned %#x instead of %#x",
					test.configuration, id, test.serverId)
			}
		}
	}
}

// Generating from identical pre-filled buffers must yield identical CIDs.
func TestGenerateIdempotent(t *testing.T) {
	for _, configuration := range []string{
		"1N8C-2a", "0Y20S12-1234-" + testKeyHex, "2N18B-aa-" + testKeyHex,
	} {
		ctx := mustContext(t, configuration)

		first := make([]byte, ctx.CidLength())
		if _, err := rand.Read(first); err != nil {
			t.Fatal(err)
		}
		second := append([]byte{}, first...)

		ctx.GenerateCid(first)
		ctx.GenerateCid(second)

		if !bytes.Equal(first, second) {
			t.Fatalf("%q: identical inputs produced %x and %x",
				configuration, first, second)
		}
	}
}

// VerifyCid must not modify the observed CID.
func TestVerifyLeavesCidUntouched(t *testing.T) {
	ctx := mustContext(t, "0N20S12-1234-"+testKeyHex)

	cid := make([]byte, 20)
	if _, err := rand.Read(cid); err != nil {
		t.Fatal(err)
	}
	ctx.GenerateCid(cid)

	observed := append([]byte{}, cid...)
	_ = ctx.VerifyCid(observed)

	if !bytes.Equal(cid, observed) {
		t.Fatal("Verification modified the observed CID")
	}
}

func TestVerifyLengthMismatch(t *testing.T) {
	ctx := mustContext(t, "0Y10S8-31-"+testKeyHex)

	for _, length := range []int{0, 9, 11, 20} {
		if id := ctx.VerifyCid(make([]byte, length)); id != UnknownServerId {
			t.Fatalf("A %d octet CID returned %#x instead of the sentinel", length, id)
		}
	}
}

func TestVerifyUnknownMethod(t *testing.T) {
	ctx := mustContext(t, "0N5C-2a")
	ctx.method = Method(42)

	if id := ctx.VerifyCid(make([]byte, 5)); id != UnknownServerId {
		t.Fatalf("An unknown method returned %#x instead of the sentinel", id)
	}
}

func TestNewContextUnresolvedLength(t *testing.T) {
	conf, err := ParseConfig("0NC-17")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := NewContext(conf); err == nil {
		t.Fatal("A zero CID length was not refused")
	}
}
