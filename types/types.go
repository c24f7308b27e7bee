package types

import (
	"database/sql/driver"
	"encoding/binary"
	"errors"
	"runtime"
	"unsafe"

	fasthex "github.com/tmthrgd/go-hex"
)

const DigestSize = 32

// Digest A fixed 32-byte hash output, the common squeeze length.
//
//nolint:recvcheck
type Digest [DigestSize]byte

var ZeroDigest Digest

func (d Digest) MarshalJSON() ([]byte, error) {
	var buf [DigestSize*2 + 2]byte
	buf[0] = '"'
	buf[DigestSize*2+1] = '"'
	fasthex.Encode(buf[1:], d[:])
	return buf[:], nil
}

func MustDigestFromString(s string) Digest {
	if d, err := DigestFromString(s); err != nil {
		panic(err)
	} else {
		return d
	}
}

func DigestFromString(s string) (Digest, error) {
	var d Digest
	if buf, err := fasthex.DecodeString(s); err != nil {
		return d, err
	} else {
		if len(buf) != DigestSize {
			return d, errors.New("wrong size")
		}
		copy(d[:], buf)
		return d, nil
	}
}

func DigestFromBytes(buf []byte) (d Digest) {
	if len(buf) != DigestSize {
		return
	}
	copy(d[:], buf)
	return
}

// Compare word-wise comparison, most significant first
func (d Digest) Compare(other Digest) int {
	//golang might free other otherwise
	defer runtime.KeepAlive(other)
	defer runtime.KeepAlive(d)

	// #nosec G103 -- 32 bytes -> 4 uint64
	a := unsafe.Slice((*uint64)(unsafe.Pointer(&d)), len(d)/int(unsafe.Sizeof(uint64(0))))
	// #nosec G103 -- 32 bytes -> 4 uint64
	b := unsafe.Slice((*uint64)(unsafe.Pointer(&other)), len(other)/int(unsafe.Sizeof(uint64(0))))

	for v := 3; v >= 0; v-- {
		if a[v] < b[v] {
			return -1
		}
		if a[v] > b[v] {
			return 1
		}
	}

	return 0
}

func (d Digest) Slice() []byte {
	return d[:]
}

func (d Digest) String() string {
	return fasthex.EncodeToString(d[:])
}

func (d Digest) Uint64() uint64 {
	return binary.LittleEndian.Uint64(d[:])
}

func (d *Digest) Scan(src any) error {
	if src == nil {
		return nil
	} else if buf, ok := src.([]byte); ok {
		if len(buf) == 0 {
			return nil
		}
		if len(buf) != DigestSize {
			return errors.New("invalid digest size")
		}
		copy((*d)[:], buf)

		return nil
	}
	return errors.New("invalid type")
}

func (d *Digest) Value() (driver.Value, error) {
	if *d == ZeroDigest {
		return nil, nil //nolint:nilnil
	}
	return (*d)[:], nil
}

func (d *Digest) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || len(b) == 2 {
		return nil
	}

	if len(b) != DigestSize*2+2 {
		return errors.New("wrong digest size")
	}

	if _, err := fasthex.Decode(d[:], b[1:len(b)-1]); err != nil {
		return err
	}

	return nil
}

// Bytes Hex-encoded byte slice for JSON, carries the arbitrary-length
// sponge outputs.
//
//nolint:recvcheck
type Bytes []byte

func (b Bytes) MarshalJSON() ([]byte, error) {
	buf := make([]byte, len(b)*2+2)
	buf[0] = '"'
	buf[len(buf)-1] = '"'
	fasthex.Encode(buf[1:], b)
	return buf, nil
}

func (b Bytes) String() string {
	return fasthex.EncodeToString(b)
}

func (b *Bytes) UnmarshalJSON(buf []byte) error {
	if len(buf) < 2 || (len(buf)%2) != 0 || buf[0] != '"' || buf[len(buf)-1] != '"' {
		return errors.New("invalid bytes")
	}

	*b = make(Bytes, (len(buf)-2)/2)

	if _, err := fasthex.Decode(*b, buf[1:len(buf)-1]); err != nil {
		return err
	}

	return nil
}
