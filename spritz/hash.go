package spritz

import (
	"errors"
	"hash"
	"io"

	"git.gammaspectra.live/P2Pool/spritz/types"
)

var ErrSqueezing = errors.New("write after read")

// Hasher wraps a State behind hash.Hash, plus io.Reader for arbitrary-length
// squeeze output.
//
// Sum works on a copy of the state, the caller can keep writing afterwards.
// Read finalizes the sponge instead: once squeezing starts no more input can
// be absorbed, same discipline as the SHAKE XOFs.
type Hasher struct {
	state     State
	size      int
	squeezing bool
}

// New returns a Hasher producing digests of size bytes, 1 to 255. The size
// has to be encodable as the single absorbed length byte.
func New(size int) (*Hasher, error) {
	if size < 1 || size > 255 {
		return nil, ErrOutputLength
	}
	h := &Hasher{size: size}
	h.state.Reset()
	return h, nil
}

// New256 returns a Hasher producing 32-byte digests.
func New256() *Hasher {
	h := &Hasher{size: types.DigestSize}
	h.state.Reset()
	return h
}

func (h *Hasher) Write(p []byte) (n int, err error) {
	if h.squeezing {
		return 0, ErrSqueezing
	}
	h.state.Absorb(p)
	return len(p), nil
}

func (h *Hasher) Sum(b []byte) []byte {
	s := h.state
	if !h.squeezing {
		s.AbsorbStop()
		s.AbsorbByte(byte(h.size))
	}
	return append(b, s.Squeeze(h.size)...)
}

// Read squeezes len(p) bytes of output. The first call absorbs the stop
// marker and flips the Hasher into the squeezing phase; the output domain is
// the unbounded one, no length byte is absorbed.
func (h *Hasher) Read(p []byte) (n int, err error) {
	if !h.squeezing {
		h.state.AbsorbStop()
		h.squeezing = true
	}
	if h.state.a > 0 {
		h.state.shuffle()
	}
	h.state.squeeze(p)
	return len(p), nil
}

func (h *Hasher) Reset() {
	h.state.Reset()
	h.squeezing = false
}

func (h *Hasher) Size() int {
	return h.size
}

// BlockSize is 1, the sponge absorbs per nibble and has no block structure.
func (h *Hasher) BlockSize() int {
	return 1
}

var _ hash.Hash = (*Hasher)(nil)
var _ io.Reader = (*Hasher)(nil)
