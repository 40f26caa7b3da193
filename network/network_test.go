package network

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
)

func TestRegistryGet(t *testing.T) {
	reg := Default()
	for _, tt := range []struct {
		name string
		exp  *Network
	}{
		{"livenet", Livenet},
		{"mainnet", Livenet},
		{"LIVENET", Livenet},
		{"testnet", Testnet},
		{"testnet3", Testnet},
		{"simnet", Simnet},
		{"regtest", nil},
		{"nonet", nil},
		{"", nil},
	} {
		if n := reg.Get(tt.name); n != tt.exp {
			t.Errorf("Get(%q): got %v, want %v", tt.name, n, tt.exp)
		}
	}
}

func TestRegistryVersionBytes(t *testing.T) {
	reg := Default()
	if n := reg.ByPrivateKeyID(0x80); n != Livenet {
		t.Errorf("expected livenet, got %v", n)
	}
	if n := reg.ByPrivateKeyID(0xef); n != Testnet {
		t.Errorf("expected testnet, got %v", n)
	}
	if n := reg.ByPrivateKeyID(0x64); n != Simnet {
		t.Errorf("expected simnet, got %v", n)
	}
	if n := reg.ByPrivateKeyID(0x01); n != nil {
		t.Errorf("expected no network, got %v", n)
	}
	if n := reg.ByPubKeyHashAddrID(0x00); n != Livenet {
		t.Errorf("expected livenet, got %v", n)
	}
	if n := reg.ByPubKeyHashAddrID(0x6f); n != Testnet {
		t.Errorf("expected testnet, got %v", n)
	}
}

func TestRegister(t *testing.T) {
	reg := NewRegistry(Livenet)
	if err := reg.Register(&Network{Name: "mainnet", Params: &chaincfg.MainNetParams}); err != ErrDuplicateNetwork {
		t.Errorf("expected duplicate network error, got %v", err)
	}
	if err := reg.Register(&Network{Name: "other"}); err == nil {
		t.Error("expected an error for a network without params")
	}
	custom := &Network{
		Name:   "custom",
		Params: &chaincfg.Params{Name: "custom", PrivateKeyID: 0x9c, PubKeyHashAddrID: 0x1c},
	}
	if err := reg.Register(custom); err != nil {
		t.Fatal(err)
	}
	if reg.ByPrivateKeyID(0x9c) != custom {
		t.Error("could not find custom network by version byte")
	}
	names := reg.Names()
	if len(names) != 2 || names[0] != "livenet" || names[1] != "custom" {
		t.Errorf("wrong names: %v", names)
	}
	if len(reg.Networks()) != 2 {
		t.Error("expected two networks")
	}
}

func TestVersionCollision(t *testing.T) {
	reg := NewRegistry(Livenet, Testnet, Regtest, Simnet)
	if reg.Get("regtest") != nil {
		t.Error("regtest shares testnet's version bytes and should be left out")
	}
	if err := reg.Register(Regtest); err != ErrVersionCollision {
		t.Errorf("expected a version collision, got %v", err)
	}
	addrOnly := &Network{
		Name:   "addronly",
		Params: &chaincfg.Params{Name: "addronly", PrivateKeyID: 0x9d, PubKeyHashAddrID: 0x00},
	}
	if err := reg.Register(addrOnly); err != ErrVersionCollision {
		t.Errorf("expected an address version collision, got %v", err)
	}

	// every version byte in a registry maps back to one network
	for _, r := range []*Registry{Default(), NewRegistry(Regtest)} {
		for _, n := range r.Networks() {
			if r.ByPrivateKeyID(n.PrivateKeyID()) != n {
				t.Errorf("%s: private key version byte resolves elsewhere", n)
			}
			if r.ByPubKeyHashAddrID(n.PubKeyHashAddrID()) != n {
				t.Errorf("%s: address version byte resolves elsewhere", n)
			}
		}
	}
	if NewRegistry(Regtest).ByPrivateKeyID(0xef) != Regtest {
		t.Error("a regtest registry should resolve 0xef to regtest")
	}
}
