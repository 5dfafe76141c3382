// Package sha1hash holds the 20-byte digests found in torrent metainfo:
// piece hashes, merkle roots and info hashes.
package sha1hash

import (
	"encoding/hex"
	"fmt"
)

// Size is the length of a digest in bytes.
const Size = 20

// Hash is a SHA-1 sized digest. Hashes compare with ==.
type Hash [Size]byte

// InvalidLengthError is returned when a buffer is not exactly Size bytes.
type InvalidLengthError struct {
	Len int
}

func (e *InvalidLengthError) Error() string {
	return fmt.Sprintf("invalid hash length %d, want %d", e.Len, Size)
}

// FromBytes copies b into a Hash. b must be exactly Size bytes long.
func FromBytes(b []byte) (Hash, error) {
	var h Hash
	if len(b) != Size {
		return h, &InvalidLengthError{Len: len(b)}
	}
	copy(h[:], b)
	return h, nil
}

// Bytes returns a copy of the digest.
func (h Hash) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, h[:])
	return b
}

// String renders the digest as 40 lowercase hex characters.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// MarshalText lets renderers emit the hex form.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}
