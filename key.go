package cart

import "encoding/binary"

// Key is anything that can be driven into the tree: a byte sequence in
// which order matches the key's own intended ordering, since every
// operation in package tree compares encoded keys lexicographically
// byte-by-byte.
type Key interface {
	// EncodedBytes returns the key's on-tree byte representation. Callers
	// must not retain a reference to the returned slice past the call that
	// produced it for a mutable key type; the built-in key types here are
	// all immutable, so this is a non-issue for them.
	EncodedBytes() []byte

	// Len reports len(EncodedBytes()) without necessarily allocating.
	Len() int
}

// Uint8Key, Uint16Key, Uint32Key and Uint64Key encode fixed-width unsigned
// integers big-endian, so that byte order equals numeric order.
type (
	Uint8Key  uint8
	Uint16Key uint16
	Uint32Key uint32
	Uint64Key uint64
)

func (k Uint8Key) EncodedBytes() []byte { return []byte{byte(k)} }
func (k Uint8Key) Len() int             { return 1 }

func (k Uint16Key) EncodedBytes() []byte {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, uint16(k))
	return buf
}
func (k Uint16Key) Len() int { return 2 }

func (k Uint32Key) EncodedBytes() []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(k))
	return buf
}
func (k Uint32Key) Len() int { return 4 }

func (k Uint64Key) EncodedBytes() []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(k))
	return buf
}
func (k Uint64Key) Len() int { return 8 }

// BytesKey is a variable-length byte-string key, length-prefixed so that
// no encoded key is ever a prefix of another's encoding: a 4-byte
// big-endian length header precedes the raw bytes.
type BytesKey []byte

func (k BytesKey) EncodedBytes() []byte {
	buf := make([]byte, 4+len(k))
	binary.BigEndian.PutUint32(buf, uint32(len(k)))
	copy(buf[4:], k)
	return buf
}
func (k BytesKey) Len() int { return 4 + len(k) }

// keyFromUint64 is implemented by every built-in key type above, letting
// KeyFrom construct any of them uniformly from a raw uint64 - used only by
// tests that exercise the same input sequence against every key type.
type keyFromUint64 interface {
	Key
	fromUint64(v uint64) Key
}

func (Uint8Key) fromUint64(v uint64) Key   { return Uint8Key(v) }
func (Uint16Key) fromUint64(v uint64) Key  { return Uint16Key(v) }
func (Uint32Key) fromUint64(v uint64) Key  { return Uint32Key(v) }
func (Uint64Key) fromUint64(v uint64) Key  { return Uint64Key(v) }
func (BytesKey) fromUint64(v uint64) Key {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return BytesKey(buf)
}

// KeyFrom constructs a K from a raw uint64, truncating as K's width
// requires. It exists only to let tests drive the same sequence of raw
// values through every built-in key type.
func KeyFrom[K keyFromUint64](v uint64) K {
	var zero K
	return zero.fromUint64(v).(K)
}
