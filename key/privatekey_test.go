package key

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"math/big"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/harrybrwn/pqkey/address"
	"github.com/harrybrwn/pqkey/encoding/base58check"
	"github.com/harrybrwn/pqkey/network"
)

// fakeDeriver is a cheap stand-in for the real key pair derivation.
var fakeDeriver = DeriverFunc(func(seed []byte) ([]byte, error) {
	h := sha256.Sum256(seed)
	return h[:], nil
})

func checkKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %q error, got nil", kind)
	}
	if !errors.Is(err, kind) {
		t.Fatalf("expected %q error, got %v", kind, err)
	}
}

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

func TestKnownWIF(t *testing.T) {
	for _, tt := range []struct {
		wif, priv string
	}{
		{"KzsjKq2FVqVuQv2ueHVFuB65A9uEZ6S1L6F8NuokCrE3V3kE3Ack", "6d1229a6b24c2e775c062870ad26bc261051e0198c67203167273c7c62538846"},
		{"L5MgSwNB2R76xBGorofRSTuQFd1bm3hQMFVf3u2CneFom8u1Yt7G", "f2cc9d2b008927db94b89e04e2f6e70c180e547b3e5e564b06b8215d1c264b53"},
	} {
		k, err := PrivateKeyFromWIF(tt.wif)
		if err != nil {
			t.Fatal(err)
		}
		if k.String() != tt.priv {
			t.Errorf("got scalar %s, want %s", k.String(), tt.priv)
		}
		if k.Network() != network.Livenet {
			t.Errorf("expected livenet, got %v", k.Network())
		}
		if !k.Compressed() {
			t.Error("key should be compressed")
		}
		if k.WIF() != tt.wif {
			t.Errorf("got wif %s, want %s", k.WIF(), tt.wif)
		}
	}
}

func TestScalarOneOnTestnet(t *testing.T) {
	k, err := NewPrivateKey(FromDescriptor{Descriptor: PrivateDescriptor{
		Scalar:     "1",
		Network:    "testnet",
		Compressed: true,
	}})
	if err != nil {
		t.Fatal(err)
	}
	payload := append([]byte{0xef}, make([]byte, 31)...)
	payload = append(payload, 0x01, 0x01)
	if !bytes.Equal(k.Serialize(), payload) {
		t.Errorf("wrong payload %x", k.Serialize())
	}
	if k.WIF() != base58check.Encode(payload) {
		t.Errorf("wrong wif %s", k.WIF())
	}

	dec, err := NewPrivateKey(FromText{Text: k.WIF()})
	if err != nil {
		t.Fatal(err)
	}
	if !dec.Compressed() {
		t.Error("decoded key should be compressed")
	}
	if dec.Scalar().Cmp(big.NewInt(1)) != 0 {
		t.Errorf("wrong scalar %v", dec.Scalar())
	}
	if !dec.Equal(k) {
		t.Error("decoded key should equal the original")
	}
	// raw export is not padded
	if !bytes.Equal(k.Bytes(), []byte{0x01}) {
		t.Errorf("expected unpadded scalar, got %x", k.Bytes())
	}
	if k.String() != "01" {
		t.Errorf("got %s", k.String())
	}
}

func TestWIFRoundTrip(t *testing.T) {
	scalars := []*big.Int{
		big.NewInt(1),
		big.NewInt(0xffff),
		new(big.Int).SetBytes(bytes.Repeat([]byte{0xff}, 32)),
		new(big.Int).SetBytes(mustHex("906977a061af29276e40bf377042ffbde414e496ae2260bbf1fa9d085637bfff")),
	}
	for _, net := range network.Default().Networks() {
		for _, compressed := range []bool{true, false} {
			for _, s := range scalars {
				k, err := NewPrivateKey(FromDescriptor{Descriptor: PrivateDescriptor{
					Scalar:     s.Text(16),
					Network:    net.Name,
					Compressed: compressed,
				}})
				if err != nil {
					t.Fatal(err)
				}
				dec, err := PrivateKeyFromWIF(k.WIF(), WithNetwork(net))
				if err != nil {
					t.Fatalf("%s: %v", net, err)
				}
				if !dec.Equal(k) {
					t.Errorf("%s compressed=%v: round trip changed key %s", net, compressed, k.Inspect())
				}
				// the version byte alone has to bring the network back
				dec, err = PrivateKeyFromWIF(k.WIF())
				if err != nil {
					t.Fatalf("%s: %v", net, err)
				}
				if !dec.Equal(k) {
					t.Errorf("%s compressed=%v: decoded on %s without a network option",
						net, compressed, dec.Network())
				}
			}
		}
	}
}

func TestRegtestRoundTrip(t *testing.T) {
	k, err := NewPrivateKey(FromScalar{Scalar: big.NewInt(1)}, WithNetwork(network.Regtest))
	if err != nil {
		t.Fatal(err)
	}
	if network.Default().Get("regtest") != nil {
		t.Fatal("regtest should not be in the default registry")
	}
	reg := WithRegistry(network.NewRegistry(network.Regtest))
	dec, err := PrivateKeyFromWIF(k.WIF(), reg)
	if err != nil {
		t.Fatal(err)
	}
	if !dec.Equal(k) {
		t.Errorf("encoded on regtest, decoded on %s", dec.Network())
	}
	dec, err = NewPrivateKey(FromDescriptor{Descriptor: k.Descriptor()}, reg)
	if err != nil {
		t.Fatal(err)
	}
	if !dec.Equal(k) {
		t.Error("descriptor round trip changed the key")
	}
	_, err = NewPrivateKey(FromDescriptor{Descriptor: k.Descriptor()})
	checkKind(t, err, UnresolvedNetwork)
}

func TestZeroScalar(t *testing.T) {
	opt := WithNetwork(network.Testnet)
	for _, in := range []PrivInput{
		FromScalar{Scalar: big.NewInt(0)},
		FromScalar{},
		FromBytes{Data: make([]byte, 32)},
		FromBytes{Data: append([]byte{0xef}, make([]byte, 32)...)},
		FromDescriptor{Descriptor: PrivateDescriptor{Scalar: "0", Network: "testnet"}},
		FromDescriptor{Descriptor: PrivateDescriptor{Scalar: "not hex", Network: "testnet"}},
		FromDescriptor{Descriptor: PrivateDescriptor{Network: "testnet"}},
		FromText{Text: "0000"},
	} {
		_, err := NewPrivateKey(in, opt)
		checkKind(t, err, ZeroOrMissingScalar)
	}
}

func TestScalarRange(t *testing.T) {
	opt := WithNetwork(network.Testnet)
	_, err := NewPrivateKey(FromScalar{Scalar: big.NewInt(-5)}, opt)
	checkKind(t, err, ZeroOrMissingScalar)
	tooBig := new(big.Int).Lsh(big.NewInt(1), 256)
	_, err = NewPrivateKey(FromScalar{Scalar: tooBig}, opt)
	checkKind(t, err, ZeroOrMissingScalar)
}

func TestBufferLength(t *testing.T) {
	for _, n := range []int{0, 1, 31, 35, 64} {
		buf := bytes.Repeat([]byte{0xef}, n)
		_, err := NewPrivateKey(FromBytes{Data: buf}, WithNetwork(network.Testnet))
		checkKind(t, err, MalformedKeyBuffer)
		_, err = NewPrivateKey(FromBytes{Data: buf})
		checkKind(t, err, MalformedKeyBuffer)
	}
}

func TestBufferLayouts(t *testing.T) {
	scalar := bytes.Repeat([]byte{0x11}, 32)

	k, err := PrivateKeyFromBytes(scalar, WithNetwork(network.Simnet))
	if err != nil {
		t.Fatal(err)
	}
	if k.Compressed() || k.Network() != network.Simnet {
		t.Errorf("raw scalar should be uncompressed on simnet: %s", k.Inspect())
	}

	k, err = PrivateKeyFromBytes(append([]byte{0x80}, scalar...))
	if err != nil {
		t.Fatal(err)
	}
	if k.Compressed() || k.Network() != network.Livenet {
		t.Errorf("33 byte buffer should be uncompressed livenet: %s", k.Inspect())
	}

	k, err = PrivateKeyFromBytes(append(append([]byte{0x80}, scalar...), 0x01))
	if err != nil {
		t.Fatal(err)
	}
	if !k.Compressed() {
		t.Error("34 byte buffer should be compressed")
	}
	if !bytes.Equal(k.Bytes(), scalar) {
		t.Errorf("wrong scalar %x", k.Bytes())
	}

	_, err = PrivateKeyFromBytes(append(append([]byte{0x80}, scalar...), 0x02))
	checkKind(t, err, MalformedKeyBuffer)

	_, err = PrivateKeyFromBytes(append([]byte{0x42}, scalar...))
	checkKind(t, err, UnresolvedNetwork)
}

func TestNetworkMismatch(t *testing.T) {
	k, err := GeneratePrivateKey(WithNetwork(network.Testnet))
	if err != nil {
		t.Fatal(err)
	}
	_, err = PrivateKeyFromWIF(k.WIF(), WithNetwork(network.Livenet))
	checkKind(t, err, NetworkMismatch)
	_, err = NewPrivateKey(FromText{Text: k.WIF()}, WithNetworkName("livenet"))
	checkKind(t, err, NetworkMismatch)
	_, err = NewPrivateKey(FromBytes{Data: k.Serialize()}, WithNetwork(network.Simnet))
	checkKind(t, err, NetworkMismatch)

	// regtest shares testnet's version byte
	reg, err := PrivateKeyFromWIF(k.WIF(), WithNetwork(network.Regtest))
	if err != nil {
		t.Fatal(err)
	}
	if reg.Network() != network.Regtest {
		t.Errorf("expected regtest, got %v", reg.Network())
	}
	same, err := PrivateKeyFromWIF(k.WIF())
	if err != nil {
		t.Fatal(err)
	}
	if same.Network() != network.Testnet {
		t.Errorf("expected testnet, got %v", same.Network())
	}
}

func TestChecksumFailure(t *testing.T) {
	wif := "KzsjKq2FVqVuQv2ueHVFuB65A9uEZ6S1L6F8NuokCrE3V3kE3Acj"
	_, err := PrivateKeyFromWIF(wif)
	checkKind(t, err, ChecksumFailure)
	if !errors.Is(err, base58check.ErrChecksum) {
		t.Error("expected the checksum error as the cause")
	}
	_, err = NewPrivateKey(FromText{Text: "not a key 0OIl"})
	checkKind(t, err, MalformedKeyBuffer)
	_, err = NewPrivateKey(FromText{})
	checkKind(t, err, MissingData)
}

func TestUnresolvedNetwork(t *testing.T) {
	for _, in := range []PrivInput{
		nil,
		FromRandom{},
		FromScalar{Scalar: big.NewInt(7)},
		FromBytes{Data: bytes.Repeat([]byte{1}, 32)},
		FromText{Text: "07"},
		FromNetworkName{Name: "nonet"},
		FromDescriptor{Descriptor: PrivateDescriptor{Scalar: "7", Network: "nonet"}},
	} {
		_, err := NewPrivateKey(in)
		checkKind(t, err, UnresolvedNetwork)
	}
	_, err := NewPrivateKey(FromScalar{Scalar: big.NewInt(7)}, WithNetworkName("nonet"))
	checkKind(t, err, UnresolvedNetwork)

	k, err := NewPrivateKey(FromScalar{Scalar: big.NewInt(7)}, WithDefaultNetwork(network.Testnet))
	if err != nil {
		t.Fatal(err)
	}
	if k.Network() != network.Testnet {
		t.Error("expected the default network")
	}
	k, err = NewPrivateKey(
		FromScalar{Scalar: big.NewInt(7)},
		WithDefaultNetwork(network.Testnet),
		WithNetwork(network.Livenet),
	)
	if err != nil {
		t.Fatal(err)
	}
	if k.Network() != network.Livenet {
		t.Error("explicit network should win over the default")
	}
}

func TestFromNetworkName(t *testing.T) {
	k, err := NewPrivateKey(FromNetworkName{Name: "testnet3"})
	if err != nil {
		t.Fatal(err)
	}
	if k.Network() != network.Testnet || !k.Compressed() {
		t.Errorf("unexpected key %s", k.Inspect())
	}
	_, err = NewPrivateKey(FromNetworkName{Name: "testnet"}, WithNetwork(network.Livenet))
	checkKind(t, err, NetworkMismatch)
	_, err = NewPrivateKey(FromNetworkName{Name: "testnet"}, WithNetwork(network.Testnet))
	if err != nil {
		t.Error(err)
	}
}

func TestFromText(t *testing.T) {
	k, err := NewPrivateKey(FromText{Text: "906977a061af29276e40bf377042ffbde414e496ae2260bbf1fa9d085637bfff"},
		WithNetwork(network.Livenet))
	if err != nil {
		t.Fatal(err)
	}
	if !k.Compressed() {
		t.Error("hex keys are compressed")
	}
	if k.String() != "906977a061af29276e40bf377042ffbde414e496ae2260bbf1fa9d085637bfff" {
		t.Errorf("wrong scalar %s", k)
	}
	hk, err := PrivateKeyFromHex(k.String(), WithNetwork(network.Livenet))
	if err != nil {
		t.Fatal(err)
	}
	if !hk.Equal(k) {
		t.Error("hex constructors should agree")
	}
	_, err = PrivateKeyFromHex("zz", WithNetwork(network.Livenet))
	checkKind(t, err, ZeroOrMissingScalar)
	_, err = PrivateKeyFromHex("-abc", WithNetwork(network.Livenet))
	checkKind(t, err, ZeroOrMissingScalar)
}

func TestFromOddLengthHex(t *testing.T) {
	k, err := NewPrivateKey(FromText{Text: "abc"}, WithNetwork(network.Testnet))
	if err != nil {
		t.Fatal(err)
	}
	if k.Scalar().Cmp(big.NewInt(0xabc)) != 0 {
		t.Errorf("expected scalar 0xabc, got %s", k.Scalar().Text(16))
	}
	hk, err := PrivateKeyFromHex("ABC", WithNetwork(network.Testnet))
	if err != nil {
		t.Fatal(err)
	}
	if !hk.Equal(k) {
		t.Error("hex constructors should agree on odd lengths")
	}
	_, err = NewPrivateKey(FromText{Text: "000"}, WithNetwork(network.Testnet))
	checkKind(t, err, ZeroOrMissingScalar)
}

func TestRandom(t *testing.T) {
	// the first scalar read is zero and must be skipped
	src := io.MultiReader(bytes.NewReader(make([]byte, 32)), bytes.NewReader(bytes.Repeat([]byte{0x02}, 32)))
	k, err := NewPrivateKey(nil, WithNetwork(network.Testnet), WithRand(src))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(k.Bytes(), bytes.Repeat([]byte{0x02}, 32)) {
		t.Errorf("unexpected scalar %x", k.Bytes())
	}
	_, err = NewPrivateKey(FromRandom{}, WithNetwork(network.Testnet), WithRand(bytes.NewReader([]byte{1, 2})))
	checkKind(t, err, ZeroOrMissingScalar)

	a, err := GeneratePrivateKey(WithDefaultNetwork(network.Livenet))
	if err != nil {
		t.Fatal(err)
	}
	b, err := GeneratePrivateKey(WithDefaultNetwork(network.Livenet))
	if err != nil {
		t.Fatal(err)
	}
	if a.Equal(b) {
		t.Error("random keys should not be equal")
	}
}

func TestUnrecognizedInput(t *testing.T) {
	_, err := NewPrivateKey(&FromBytes{Data: make([]byte, 32)}, WithNetwork(network.Testnet))
	checkKind(t, err, UnrecognizedInput)
}

func TestValidation(t *testing.T) {
	if IsValidPrivateKey(nil, WithNetwork(network.Testnet)) {
		t.Error("nil input should never be valid")
	}
	if err := ValidatePrivateKey(nil, WithNetwork(network.Testnet)); err != nil {
		t.Errorf("random key should be buildable: %v", err)
	}
	if !IsValidPrivateKey(FromText{Text: "L5MgSwNB2R76xBGorofRSTuQFd1bm3hQMFVf3u2CneFom8u1Yt7G"}) {
		t.Error("known wif should be valid")
	}
	if IsValidPrivateKey(FromBytes{Data: make([]byte, 31)}) {
		t.Error("short buffer should not be valid")
	}
	err := ValidatePrivateKey(FromScalar{Scalar: big.NewInt(0)}, WithNetwork(network.Testnet))
	checkKind(t, err, ZeroOrMissingScalar)
}

func TestDescriptorJSON(t *testing.T) {
	k, err := GeneratePrivateKey(WithNetwork(network.Simnet))
	if err != nil {
		t.Fatal(err)
	}
	raw, err := json.Marshal(k)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"network":"simnet"`) {
		t.Errorf("unexpected json %s", raw)
	}
	var d PrivateDescriptor
	if err = json.Unmarshal(raw, &d); err != nil {
		t.Fatal(err)
	}
	dec, err := NewPrivateKey(FromDescriptor{Descriptor: d})
	if err != nil {
		t.Fatal(err)
	}
	if !dec.Equal(k) {
		t.Error("descriptor round trip changed the key")
	}
}

func TestPublicKeyMemoized(t *testing.T) {
	var calls int32
	deriver := DeriverFunc(func(seed []byte) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return fakeDeriver(seed)
	})
	k, err := NewPrivateKey(FromScalar{Scalar: big.NewInt(99)},
		WithNetwork(network.Testnet), WithDeriver(deriver))
	if err != nil {
		t.Fatal(err)
	}

	var (
		wg   sync.WaitGroup
		keys = make([]*PublicKey, 16)
	)
	for i := range keys {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pub, err := k.PublicKey()
			if err != nil {
				t.Error(err)
			}
			keys[i] = pub
		}(i)
	}
	wg.Wait()
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("derivation ran %d times", n)
	}
	for _, pub := range keys {
		if !bytes.Equal(pub.Bytes(), keys[0].Bytes()) {
			t.Fatal("memoized public keys should be identical")
		}
	}
}

func TestPublicKeyDerivation(t *testing.T) {
	k, err := NewPrivateKey(FromText{Text: "906977a061af29276e40bf377042ffbde414e496ae2260bbf1fa9d085637bfff"},
		WithNetwork(network.Livenet))
	if err != nil {
		t.Fatal(err)
	}
	pub, err := k.PublicKey()
	if err != nil {
		t.Fatal(err)
	}
	if len(pub.Bytes()) != 1312 {
		t.Errorf("expected an ml-dsa-44 public key, got %d bytes", len(pub.Bytes()))
	}
	again, err := k.PublicKey()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(pub.Bytes(), again.Bytes()) {
		t.Error("derivation should be idempotent")
	}

	// a second key with the same scalar derives the same bytes
	other, err := PrivateKeyFromHex(k.String(), WithNetwork(network.Livenet))
	if err != nil {
		t.Fatal(err)
	}
	otherPub, err := other.PublicKey()
	if err != nil {
		t.Fatal(err)
	}
	if !otherPub.Equal(pub) {
		t.Error("derivation should be deterministic")
	}
	if pub.Network() != network.Livenet || !pub.Compressed() {
		t.Error("network and compressed flag should come from the private key")
	}
}

func TestDerivationFailure(t *testing.T) {
	bad := DeriverFunc(func([]byte) ([]byte, error) { return nil, errors.New("boom") })
	k, err := NewPrivateKey(FromScalar{Scalar: big.NewInt(3)}, WithNetwork(network.Testnet), WithDeriver(bad))
	if err != nil {
		t.Fatal(err)
	}
	_, err = k.PublicKey()
	checkKind(t, err, MissingData)
	_, err = k.Address(nil)
	checkKind(t, err, MissingData)
}

func TestPrivateKeyAddress(t *testing.T) {
	k, err := NewPrivateKey(FromScalar{Scalar: big.NewInt(42)},
		WithNetwork(network.Testnet), WithDeriver(fakeDeriver))
	if err != nil {
		t.Fatal(err)
	}
	addr, err := k.Address(nil)
	if err != nil {
		t.Fatal(err)
	}
	if addr.Network() != network.Testnet {
		t.Error("address should use the key network")
	}
	if !address.Valid(addr.String()) {
		t.Errorf("invalid address %s", addr)
	}
	pub, _ := k.PublicKey()
	if !bytes.Equal(addr.Hash(), Hash160(pub.Bytes())) {
		t.Error("address should hold the hash of the public key")
	}

	live, err := k.Address(network.Livenet)
	if err != nil {
		t.Fatal(err)
	}
	if live.Network() != network.Livenet || live.String()[0] != '1' {
		t.Errorf("expected a livenet address, got %s", live)
	}
}

func TestInspect(t *testing.T) {
	k, err := NewPrivateKey(FromBytes{Data: append([]byte{0xef}, bytes.Repeat([]byte{0x01}, 32)...)})
	if err != nil {
		t.Fatal(err)
	}
	exp := "<PrivateKey: " + strings.Repeat("01", 32) + ", network: testnet, uncompressed>"
	if k.Inspect() != exp {
		t.Errorf("got %s", k.Inspect())
	}
}
