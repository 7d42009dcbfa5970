package service

import (
	"crypto/subtle"

	"golang.org/x/crypto/blake2b"

	"github.com/aliskhannn/quiz-registry/internal/domain/entities"
)

// AnswerVerifier hashes answers and compares digests.
// The algorithm is fixed: BLAKE2b-256 over the SCALE encoding of the answer string.
type AnswerVerifier struct{}

// NewAnswerVerifier creates a new AnswerVerifier.
func NewAnswerVerifier() *AnswerVerifier {
	return &AnswerVerifier{}
}

// Hash returns the digest of answer.
func (v *AnswerVerifier) Hash(answer string) entities.Digest {
	return entities.Digest(blake2b.Sum256(encodeString(answer)))
}

// Matches reports whether attempt hashes to digest.
// Only digests are compared, in constant time.
func (v *AnswerVerifier) Matches(digest entities.Digest, attempt string) bool {
	got := v.Hash(attempt)
	return subtle.ConstantTimeCompare(digest[:], got[:]) == 1
}
