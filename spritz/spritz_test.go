package spritz

import (
	"bytes"
	"os"
	"testing"

	"git.gammaspectra.live/P2Pool/spritz/types"
	"git.gammaspectra.live/P2Pool/spritz/utils"
	"github.com/stretchr/testify/require"
)

type hashVector struct {
	Input  types.Bytes `json:"input"`
	Length int         `json:"length"`
	Digest types.Bytes `json:"digest"`
}

func getHashVectors(t *testing.T) []hashVector {
	buf, err := os.ReadFile("testdata/hash_vectors.json")
	require.NoError(t, err)

	var vectors []hashVector
	require.NoError(t, utils.UnmarshalJSON(buf, &vectors))
	require.NotEmpty(t, vectors)
	return vectors
}

func TestHashVectors(t *testing.T) {
	for _, v := range getHashVectors(t) {
		result, err := Hash(v.Input, v.Length)
		require.NoError(t, err)
		require.Len(t, result, v.Length)
		require.EqualValues(t, v.Digest, types.Bytes(result), "input %s length %d", v.Input, v.Length)
	}
}

// the three test strings from section E of the Spritz paper
func TestHashReference(t *testing.T) {
	for input, digest := range map[string]types.Digest{
		"ABC":     types.MustDigestFromString("028fa2b48b934a1862b86910513a47677c1c2d95ec3e7570786f1c328bbd4a47"),
		"spam":    types.MustDigestFromString("acbba0813f300d3a30410d14657421c15b55e3a14e3236b03989e797c7af4789"),
		"arcfour": types.MustDigestFromString("ff8cf268094c87b95f74ce6fee9d3003a5f9fe6944653cd50e66bf189c63f699"),
	} {
		result, err := Hash([]byte(input), types.DigestSize)
		require.NoError(t, err)
		require.EqualValues(t, digest.Slice(), result, input)

		require.Equal(t, digest, Sum([]byte(input)), input)
	}
}

func TestHashOutputLength(t *testing.T) {
	for r := 0; r <= 255; r++ {
		result, err := Hash([]byte("spritz"), r)
		require.NoError(t, err)
		require.Len(t, result, r)
	}

	_, err := Hash([]byte("spritz"), -1)
	require.ErrorIs(t, err, ErrOutputLength)
	_, err = Hash([]byte("spritz"), 256)
	require.ErrorIs(t, err, ErrOutputLength)
}

func TestHashDeterminism(t *testing.T) {
	a, err := Hash([]byte("arcfour"), 64)
	require.NoError(t, err)
	b, err := Hash([]byte("arcfour"), 64)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func requirePermutation(t *testing.T, s *State) {
	t.Helper()
	var seen [StateSize]bool
	for _, v := range s.s {
		require.False(t, seen[v], "duplicate table value %d", v)
		seen[v] = true
	}
}

func TestPermutationInvariant(t *testing.T) {
	s := NewState()
	requirePermutation(t, s)

	s.Absorb([]byte("The quick brown fox jumps over the lazy dog"))
	requirePermutation(t, s)

	// more than 128 nibbles, forces the saturation shuffle inside absorb
	s.Absorb(bytes.Repeat([]byte{0xa5}, 129))
	requirePermutation(t, s)

	s.AbsorbStop()
	s.shuffle()
	requirePermutation(t, s)

	_ = s.Squeeze(300)
	requirePermutation(t, s)
}

// absorbing high nibble before low must not produce the same digest,
// the low-then-high order is part of the construction
func TestNibbleOrderSensitivity(t *testing.T) {
	message := []byte("arcfour")

	s := NewState()
	for _, b := range message {
		s.absorbNibble(b >> 4)
		s.absorbNibble(b & 0x0f)
	}
	s.AbsorbStop()
	s.AbsorbByte(32)
	swapped := s.Squeeze(32)

	correct, err := Hash(message, 32)
	require.NoError(t, err)
	require.NotEqual(t, correct, swapped)
}

func TestAvalanche(t *testing.T) {
	a, err := Hash([]byte("spam"), 64)
	require.NoError(t, err)
	b, err := Hash([]byte("spat"), 64)
	require.NoError(t, err)

	var differing int
	for i := range a {
		if a[i] != b[i] {
			differing++
		}
	}
	// expected value is ~63.75 of 64, anything near zero means a
	// diffusion step got lost
	require.Greater(t, differing, len(a)/2)
}

func TestStateReset(t *testing.T) {
	s := NewState()
	s.Absorb([]byte("spam"))
	_ = s.Squeeze(16)

	s.Reset()
	require.Equal(t, *NewState(), *s)
}

func BenchmarkHash(b *testing.B) {
	message := bytes.Repeat([]byte{0x5a}, 1024)
	b.SetBytes(int64(len(message)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = Hash(message, 32)
	}
}

func BenchmarkSqueeze(b *testing.B) {
	s := NewState()
	s.Absorb([]byte("spritz"))
	buf := make([]byte, 1024)
	b.SetBytes(int64(len(buf)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.squeeze(buf)
	}
}
