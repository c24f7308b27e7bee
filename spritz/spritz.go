// Package spritz implements the Spritz sponge permutation, the RC4-like
// stream cipher and hash construction by Rivest and Schuldt.
//
// https://people.csail.mit.edu/rivest/pubs/RS14.pdf
//
// Only the hash construction (absorb, absorb stop, squeeze) is exposed.
// No effort is made to be constant time.
package spritz

import (
	"errors"

	"git.gammaspectra.live/P2Pool/spritz/types"
)

// StateSize Size of the internal permutation table, N in the paper
const StateSize = 256

// saturation Number of nibbles the table can take before a forced re-diffusion, ⌊N/2⌋
const saturation = StateSize / 2

var ErrOutputLength = errors.New("output length out of range")

// State Spritz permutation state.
//
// s is a permutation of 0..255 at all times. All register arithmetic wraps
// naturally as uint8. w stays odd, it starts at 1 and only moves by 2.
// a counts absorbed nibbles since the last shuffle, 0..128.
//
// A State is not safe for concurrent use.
type State struct {
	i, j, k, z, a, w uint8
	s                [StateSize]byte
}

// NewState returns a State ready to absorb.
func NewState() *State {
	var s State
	s.Reset()
	return &s
}

// Reset loads the standard initial state: identity permutation, w = 1,
// every other register zero.
func (s *State) Reset() {
	s.i, s.j, s.k, s.z, s.a = 0, 0, 0, 0, 0
	s.w = 1
	for v := range s.s {
		s.s[v] = byte(v)
	}
}

// Absorb mixes p into the state, one nibble at a time.
//
// Low nibble before high nibble. The order is load-bearing: it matches the
// reference and flipping it changes every output.
func (s *State) Absorb(p []byte) {
	for _, b := range p {
		s.absorbNibble(b & 0x0f)
		s.absorbNibble(b >> 4)
	}
}

// AbsorbByte absorbs a single byte, low nibble first.
func (s *State) AbsorbByte(b byte) {
	s.absorbNibble(b & 0x0f)
	s.absorbNibble(b >> 4)
}

func (s *State) absorbNibble(x uint8) {
	if s.a == saturation {
		s.shuffle()
	}
	// a < 128 and x < 16 here, no index ever needs reducing
	s.s[s.a], s.s[saturation+x] = s.s[saturation+x], s.s[s.a]
	s.a++
}

// AbsorbStop absorbs a domain separation marker, a "value" outside the
// nibble alphabet. Advances the nibble counter without touching the table.
func (s *State) AbsorbStop() {
	if s.a == saturation {
		s.shuffle()
	}
	s.a++
}

// shuffle fully re-diffuses the state. The whip/crush/whip/crush/whip
// sequence and the 2*N whip length are fixed constants of the cipher.
func (s *State) shuffle() {
	s.whip(2 * StateSize)
	s.crush()
	s.whip(2 * StateSize)
	s.crush()
	s.whip(2 * StateSize)
	s.a = 0
}

// whip runs r update steps then advances w. N is a power of two so every
// odd w is coprime with N and w += 2 replaces the paper's coprime probe.
func (s *State) whip(r int) {
	// registers kept local across the run, the compiler keeps them
	// out of memory this way
	i, j, k, w := s.i, s.j, s.k, s.w

	for ; r > 0; r-- {
		i += w
		si := s.s[i]
		j = k + s.s[j+si]
		sj := s.s[j]
		k = i + k + sj
		s.s[i] = sj
		s.s[j] = si
	}

	s.i, s.j, s.k = i, j, k
	s.w += 2
}

// crush folds the table in half and sorts each mirror pair. One pass only,
// this is deliberately not a full sort.
func (s *State) crush() {
	for v := 0; v < saturation; v++ {
		if s.s[v] > s.s[StateSize-1-v] {
			s.s[v], s.s[StateSize-1-v] = s.s[StateSize-1-v], s.s[v]
		}
	}
}

// update is the single state-advancing step, RC4's swap step fed back
// through three registers.
func (s *State) update() {
	s.i += s.w
	s.j = s.k + s.s[s.j+s.s[s.i]]
	s.k = s.i + s.k + s.s[s.j]
	s.s[s.i], s.s[s.j] = s.s[s.j], s.s[s.i]
}

// output derives the next output byte via triple indirection through the
// table. Do not flatten or cache the intermediate indices.
func (s *State) output() uint8 {
	s.z = s.s[s.j+s.s[s.i+s.s[s.z+s.k]]]
	return s.z
}

// Drip produces one output byte, shuffling first if any absorbed input has
// not been diffused yet.
func (s *State) Drip() byte {
	if s.a > 0 {
		s.shuffle()
	}
	s.update()
	return s.output()
}

// Squeeze produces r output bytes in a fresh slice. The unflushed-absorption
// check runs once up front, after the first drip a is already zero.
func (s *State) Squeeze(r int) []byte {
	if s.a > 0 {
		s.shuffle()
	}
	p := make([]byte, r)
	s.squeeze(p)
	return p
}

func (s *State) squeeze(p []byte) {
	for v := range p {
		s.update()
		p[v] = s.output()
	}
}

// Hash computes the Spritz hash of message with the given output length.
//
// outputLength must fit the single absorbed domain separation byte, 0 to
// 255. Anything else is rejected rather than truncated.
func Hash(message []byte, outputLength int) ([]byte, error) {
	if outputLength < 0 || outputLength > 255 {
		return nil, ErrOutputLength
	}

	var s State
	s.Reset()
	s.Absorb(message)
	s.AbsorbStop()
	s.AbsorbByte(byte(outputLength))
	return s.Squeeze(outputLength), nil
}

// Sum computes the 32-byte Spritz hash of message.
func Sum(message []byte) (result types.Digest) {
	var s State
	s.Reset()
	s.Absorb(message)
	s.AbsorbStop()
	s.AbsorbByte(types.DigestSize)
	if s.a > 0 {
		s.shuffle()
	}
	s.squeeze(result[:])
	return result
}
