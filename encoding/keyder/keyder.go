// Package keyder encodes the canonical public key layout: a DER
// SEQUENCE holding one BIT STRING whose contents are the raw public key
// bytes. The key bytes are opaque here, nothing is interpreted.
//
//	SEQUENCE {
//	    BIT STRING (0 unused bits) key
//	}
package keyder

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

var (
	// ErrWrongTag means the blob does not start with a SEQUENCE.
	ErrWrongTag = errors.New("keyder: wrong outer tag")
	// ErrTruncated means a length runs past the end of the input or
	// is not minimally encoded.
	ErrTruncated = errors.New("keyder: truncated or non-minimal length")
	// ErrMissingField means the sequence does not hold a valid bit string.
	ErrMissingField = errors.New("keyder: missing key field")
	// ErrTrailingData means there are bytes after the encoded key.
	ErrTrailingData = errors.New("keyder: trailing data")
)

// Encode wraps raw key bytes in the canonical layout.
func Encode(raw []byte) ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(seq *cryptobyte.Builder) {
		seq.AddASN1BitString(raw)
	})
	return b.Bytes()
}

// Decode parses a blob produced by Encode and returns the raw key bytes.
func Decode(der []byte) ([]byte, error) {
	input := cryptobyte.String(der)
	if len(input) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrWrongTag)
	}
	if !input.PeekASN1Tag(asn1.SEQUENCE) {
		return nil, fmt.Errorf("%w: got 0x%02x, want 0x%02x", ErrWrongTag, der[0], uint8(asn1.SEQUENCE))
	}
	var seq cryptobyte.String
	if !input.ReadASN1(&seq, asn1.SEQUENCE) {
		return nil, fmt.Errorf("%w: outer sequence", ErrTruncated)
	}
	if !input.Empty() {
		return nil, fmt.Errorf("%w: %d bytes after sequence", ErrTrailingData, len(input))
	}
	if seq.Empty() {
		return nil, fmt.Errorf("%w: empty sequence", ErrMissingField)
	}
	if !seq.PeekASN1Tag(asn1.BIT_STRING) {
		return nil, fmt.Errorf("%w: got tag 0x%02x, want bit string", ErrMissingField, seq[0])
	}
	var (
		field cryptobyte.String
		raw   []byte
	)
	if !seq.ReadASN1Element(&field, asn1.BIT_STRING) {
		return nil, fmt.Errorf("%w: key field", ErrTruncated)
	}
	if !field.ReadASN1BitStringAsBytes(&raw) {
		return nil, fmt.Errorf("%w: malformed bit string", ErrMissingField)
	}
	if !seq.Empty() {
		return nil, fmt.Errorf("%w: %d bytes after key field", ErrTrailingData, len(seq))
	}
	return append([]byte{}, raw...), nil
}
