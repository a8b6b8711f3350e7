// SPDX-FileCopyrightText: 2026 The quiclb-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package quiclb

import (
	"errors"
	"testing"
)

// staticCodec is a foreign Codec implementation for registration tests.
type staticCodec struct {
	length int
}

func (c staticCodec) GenerateCid(_ []byte)      {}
func (c staticCodec) VerifyCid(_ []byte) uint64 { return 0 }
func (c staticCodec) CidLength() int            { return c.length }

func TestHostInstallUninstall(t *testing.T) {
	host := NewHost(8)

	if err := host.Install(mustParse(t, "1Y5C-07")); err != nil {
		t.Fatal(err)
	}

	if host.CidLength() != 5 {
		t.Fatalf("Host CID length is %d instead of 5", host.CidLength())
	}

	codec := host.Codec()
	if codec == nil {
		t.Fatal("No codec is registered after installation")
	}

	cid := make([]byte, codec.CidLength())
	codec.GenerateCid(cid)
	if id := codec.VerifyCid(cid); id != 7 {
		t.Fatalf("Installed codec returned %#x instead of 7", id)
	}

	host.Uninstall()
	if host.Codec() != nil {
		t.Fatal("A codec is still registered after uninstallation")
	}

	// Uninstalling twice must be a no-op.
	host.Uninstall()
}

func TestHostInstallTwice(t *testing.T) {
	host := NewHost(8)

	if err := host.Install(mustParse(t, "1Y5C-07")); err != nil {
		t.Fatal(err)
	}

	if err := host.Install(mustParse(t, "0N5C-2a")); !errors.Is(err, ErrIncompatibleHostState) {
		t.Fatalf("Second installation returned %v instead of an incompatible host state", err)
	}
}

func TestHostInstallForeignCodec(t *testing.T) {
	host := NewHost(8)

	if err := host.SetCodec(staticCodec{length: 8}); err != nil {
		t.Fatal(err)
	}

	if err := host.Install(mustParse(t, "0N5C-2a")); !errors.Is(err, ErrIncompatibleHostState) {
		t.Fatalf("Installation over a foreign codec returned %v", err)
	}

	// Uninstall must not touch a foreign codec.
	host.Uninstall()
	if host.Codec() == nil {
		t.Fatal("Uninstall removed a foreign codec")
	}
}

func TestHostInstallLiveConnections(t *testing.T) {
	host := NewHost(8)
	host.ConnectionOpened()

	if err := host.Install(mustParse(t, "0N5C-2a")); !errors.Is(err, ErrIncompatibleHostState) {
		t.Fatalf("Installation with a live 8 octet connection returned %v", err)
	}

	host.ConnectionClosed()
	if err := host.Install(mustParse(t, "0N5C-2a")); err != nil {
		t.Fatal(err)
	}
}

func TestHostInstallMatchingLiveConnections(t *testing.T) {
	host := NewHost(5)
	host.ConnectionOpened()

	// Same CID length as the live connection, must be accepted.
	if err := host.Install(mustParse(t, "0N5C-2a")); err != nil {
		t.Fatal(err)
	}
}

func TestHostInstallInheritsCidLength(t *testing.T) {
	host := NewHost(10)

	if err := host.Install(mustParse(t, "0NC-17")); err != nil {
		t.Fatal(err)
	}

	if length := host.Codec().CidLength(); length != 10 {
		t.Fatalf("Inherited CID length is %d instead of 10", length)
	}
}

func TestHostInstallInvalidInheritedLength(t *testing.T) {
	// Inheriting a 16 octet length cannot satisfy the block cipher's minimum.
	host := NewHost(16)

	if err := host.Install(mustParse(t, "0NB-aa-" + testKeyHex)); err == nil {
		t.Fatal("A 16 octet block cipher CID was not refused")
	}
}

func mustParse(t *testing.T, txt string) Config {
	t.Helper()

	conf, err := ParseConfig(txt)
	if err != nil {
		t.Fatal(err)
	}
	return conf
}
