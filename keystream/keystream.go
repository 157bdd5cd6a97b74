// Package keystream XORs data with the output of a seeded jsf generator.
//
// An encrypted blob is a 12-byte header followed by the ciphertext:
//
//	seed (LE uint32) | length (LE uint32) | sum (LE uint32) | ciphertext...
package keystream

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/fysac/ranctx/jsf"
)

const (
	// A header of this size immediately precedes the encrypted data.
	HeaderSize = 12

	// Data is encrypted one generator output at a time.
	WordSize = 4

	// Sum of the header checksum and every plaintext word, when the data is intact.
	checksumTarget uint32 = 0xffffffff
)

var (
	ErrInvalidChecksum = errors.New("invalid checksum")
	ErrEmpty           = errors.New("data is empty")
	ErrUnaligned       = errors.New("data length is not a multiple of the word size")
)

type Header struct {
	// Seed given to jsf.Init to produce the keystream.
	Seed uint32

	// Length of encrypted data following the header.
	Len uint32

	// Chosen so that Sum plus all plaintext words wraps to 0xffffffff.
	Sum uint32
}

func (header *Header) Bytes() []byte {
	le := binary.LittleEndian
	b := make([]byte, 0, HeaderSize)
	return le.AppendUint32(le.AppendUint32(le.AppendUint32(b, header.Seed), header.Len), header.Sum)
}

// words calls fn with the offset and value of every whole little-endian word in b.
func words(b []byte, fn func(off int, w uint32)) {
	for off := 0; off+WordSize <= len(b); off += WordSize {
		fn(off, binary.LittleEndian.Uint32(b[off:]))
	}
}

// XOR writes src XORed with successive outputs of x to dst. Only whole words are
// processed; it returns the number of bytes written.
func XOR(dst, src []byte, x *jsf.Ctx) int {
	if len(src) > len(dst) {
		src = src[:len(dst)]
	}
	n := 0
	words(src, func(off int, w uint32) {
		binary.LittleEndian.PutUint32(dst[off:], w^x.Next())
		n = off + WordSize
	})
	return n
}

func Encrypt(plain []byte, seed uint32) ([]byte, error) {
	if len(plain) == 0 {
		return nil, ErrEmpty
	}
	if len(plain)%WordSize != 0 {
		return nil, ErrUnaligned
	}

	header := Header{Seed: seed, Len: uint32(len(plain)), Sum: checksumTarget - sum(plain)}
	out := append(header.Bytes(), make([]byte, len(plain))...)
	XOR(out[HeaderSize:], plain, jsf.Init(seed))
	return out, nil
}

func Decrypt(blob []byte, ignoreChecksum bool) (*Header, []byte, error) {
	header, err := parseHeader(blob)
	if err != nil {
		return nil, nil, err
	}

	plain := make([]byte, header.Len)
	XOR(plain, blob[HeaderSize:], jsf.Init(header.Seed))

	if !ignoreChecksum && header.Sum+sum(plain) != checksumTarget {
		return nil, nil, ErrInvalidChecksum
	}
	return header, plain, nil
}

// Pad returns b extended with zero bytes up to the next word boundary. Empty input
// becomes one zero word. Bytes past len(b) in the caller's array are never touched.
func Pad(b []byte) []byte {
	if len(b) > 0 && len(b)%WordSize == 0 {
		return b
	}
	padding := make([]byte, WordSize-len(b)%WordSize)
	return append(b[:len(b):len(b)], padding...)
}

func parseHeader(blob []byte) (*Header, error) {
	if len(blob) < HeaderSize {
		return nil, fmt.Errorf("data is smaller than header size (%v < %v)", len(blob), HeaderSize)
	}

	var fields [3]uint32
	words(blob[:HeaderSize], func(off int, w uint32) { fields[off/WordSize] = w })
	header := &Header{Seed: fields[0], Len: fields[1], Sum: fields[2]}

	if dataLen := len(blob) - HeaderSize; int64(header.Len) != int64(dataLen) {
		return nil, fmt.Errorf("header length (%v) != length of data (%v)", header.Len, dataLen)
	}
	if header.Len%WordSize != 0 {
		return nil, fmt.Errorf("header length %v: %w", header.Len, ErrUnaligned)
	}
	return header, nil
}

// sum adds up the words of b, wrapping at 32 bits.
func sum(b []byte) uint32 {
	var total uint32
	words(b, func(_ int, w uint32) { total += w })
	return total
}
