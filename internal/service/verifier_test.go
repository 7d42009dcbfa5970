package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/quiz-registry/internal/domain/entities"
)

func TestAppendCompact(t *testing.T) {
	tests := []struct {
		n    uint64
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x04}},
		{63, []byte{0xfc}},
		{64, []byte{0x01, 0x01}},
		{16383, []byte{0xfd, 0xff}},
		{16384, []byte{0x02, 0x00, 0x01, 0x00}},
		{1<<30 - 1, []byte{0xfe, 0xff, 0xff, 0xff}},
		{1 << 30, []byte{0x03, 0x00, 0x00, 0x00, 0x40}},
		{1 << 32, []byte{0x07, 0x00, 0x00, 0x00, 0x00, 0x01}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, appendCompact(nil, tt.n), "n=%d", tt.n)
	}
}

func TestEncodeString(t *testing.T) {
	assert.Equal(t, []byte{0x10, 'B', 'l', 'u', 'e'}, encodeString("Blue"))
	assert.Equal(t, []byte{0x00}, encodeString(""))

	long := strings.Repeat("a", 100)
	enc := encodeString(long)
	assert.Equal(t, []byte{0x91, 0x01}, enc[:2])
	assert.Len(t, enc, 102)
}

func TestHashMatchesKnownDigests(t *testing.T) {
	v := NewAnswerVerifier()

	tests := map[string]string{
		"Blue":     "718bf0205694be80e53a1153b79ff327e71f9adbb909a16934ddbf25900c3b71",
		"Green XD": "4c354b9336fed108d409acfc68ad6382aa370cf4ea9056675f285544ce406de0",
		"":         "03170a2e7597b7b7e3d84c05391d139a62b157e78786d8c082f29dcf4c111314",
	}
	for answer, hexDigest := range tests {
		want, err := entities.ParseDigest(hexDigest)
		require.NoError(t, err)
		assert.Equal(t, want, v.Hash(answer), "answer %q", answer)
	}
}

func TestHashIsDeterministic(t *testing.T) {
	v := NewAnswerVerifier()
	for _, p := range []string{"Blue", "", "ünïcödé", strings.Repeat("x", 20000)} {
		assert.Equal(t, v.Hash(p), v.Hash(p))
	}
	assert.NotEqual(t, v.Hash("Blue"), v.Hash("blue"))
}

func TestMatches(t *testing.T) {
	v := NewAnswerVerifier()
	d := v.Hash("Blue")

	assert.True(t, v.Matches(d, "Blue"))
	assert.False(t, v.Matches(d, "Green XD"))
	assert.False(t, v.Matches(d, "Blue "))
}
