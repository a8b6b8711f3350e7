// SPDX-FileCopyrightText: 2026 The quiclb-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package quiclb

import "testing"

func TestConnectionIDGenerator(t *testing.T) {
	ctx := mustContext(t, "1Y8C-2a")
	generator := NewConnectionIDGenerator(ctx)

	if generator.ConnectionIDLen() != 8 {
		t.Fatalf("Generator length is %d instead of 8", generator.ConnectionIDLen())
	}

	for i := 0; i < 16; i++ {
		cid, err := generator.GenerateConnectionID()
		if err != nil {
			t.Fatal(err)
		}

		if cid.Len() != 8 {
			t.Fatalf("Generated CID has %d octets instead of 8", cid.Len())
		}
		if id := ctx.VerifyCid(cid.Bytes()); id != 0x2a {
			t.Fatalf("Generated CID verified to %#x instead of 0x2a", id)
		}
	}
}

func TestConnectionIDGeneratorStreamCipher(t *testing.T) {
	ctx := mustContext(t, "0N20S12-1234-"+testKeyHex)
	generator := NewConnectionIDGenerator(ctx)

	cid, err := generator.GenerateConnectionID()
	if err != nil {
		t.Fatal(err)
	}

	if id := ctx.VerifyCid(cid.Bytes()); id != 0x1234 {
		t.Fatalf("Generated CID verified to %#x instead of 0x1234", id)
	}
}
