package entities

import (
	"encoding/hex"
	"errors"
)

// DigestSize is the length in bytes of an answer digest.
const DigestSize = 32

var ErrInvalidDigest = errors.New("invalid answer digest")

// Digest is the one-way hash of an answer's canonical encoding.
type Digest [DigestSize]byte

// String returns the digest as lowercase hex.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// DigestFromBytes copies b into a Digest. It fails unless b is exactly DigestSize long.
func DigestFromBytes(b []byte) (Digest, error) {
	var d Digest
	if len(b) != DigestSize {
		return d, ErrInvalidDigest
	}
	copy(d[:], b)
	return d, nil
}

// ParseDigest decodes a hex encoded digest.
func ParseDigest(s string) (Digest, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Digest{}, ErrInvalidDigest
	}
	return DigestFromBytes(b)
}

// Question is a single ledger entry. The answer is kept only as its digest.
type Question struct {
	Prompt       string // question text, stored verbatim
	AnswerDigest Digest // digest of the correct answer
}
