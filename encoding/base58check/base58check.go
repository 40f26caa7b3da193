// Package base58check implements base58 text with a four byte
// double-sha256 checksum appended to the payload.
package base58check

import (
	"crypto/sha256"
	"errors"

	"github.com/mr-tron/base58"
)

// ChecksumLength is the number of checksum bytes appended
// to every payload.
const ChecksumLength = 4

var (
	// ErrChecksum is returned when the checksum does not match the payload.
	ErrChecksum = errors.New("base58check: checksum mismatch")
	// ErrInvalidFormat is returned when the text is not base58 or is too
	// short to hold a checksum.
	ErrInvalidFormat = errors.New("base58check: invalid format")
)

// Encode will encode the payload followed by its checksum.
func Encode(payload []byte) string {
	b := make([]byte, 0, len(payload)+ChecksumLength)
	b = append(b, payload...)
	sum := Checksum(payload)
	b = append(b, sum[:]...)
	return base58.Encode(b)
}

// Decode will decode a base58check string and return the payload
// with the checksum removed.
func Decode(s string) ([]byte, error) {
	dec, err := base58.Decode(s)
	if err != nil || len(dec) < ChecksumLength {
		return nil, ErrInvalidFormat
	}
	n := len(dec) - ChecksumLength
	payload, chksum := dec[:n], dec[n:]
	target := Checksum(payload)
	for i := 0; i < ChecksumLength; i++ {
		if target[i] != chksum[i] {
			return nil, ErrChecksum
		}
	}
	return payload, nil
}

// Checksum is the first four bytes of sha256(sha256(b)).
func Checksum(b []byte) (sum [ChecksumLength]byte) {
	passone := sha256.Sum256(b)
	passtwo := sha256.Sum256(passone[:])
	copy(sum[:], passtwo[:ChecksumLength])
	return sum
}
