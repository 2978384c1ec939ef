package daicon

import (
	"github.com/google/uuid"
)

// UUIDs are stored in the mixed-endian layout: the first three fields are
// little-endian, the last eight bytes as-is.

func UUIDFromBytesLE(b []byte) uuid.UUID {
	var u uuid.UUID
	copy(u[:], b[:16])
	swapLE(u[:])
	return u
}

func UUIDToBytesLE(u uuid.UUID) [16]byte {
	out := [16]byte(u)
	swapLE(out[:])
	return out
}

func swapLE(b []byte) {
	b[0], b[1], b[2], b[3] = b[3], b[2], b[1], b[0]
	b[4], b[5] = b[5], b[4]
	b[6], b[7] = b[7], b[6]
}
