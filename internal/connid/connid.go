// Package connid generates sortable identifiers for websocket connections.
// An ID is a UUIDv7 written as 26 characters of Crockford base32.
package connid

import (
	"encoding/binary"
	"fmt"
	rand "math/rand/v2"
	"strings"
	"time"
)

// Crockford's base32 alphabet, as used by TypeID
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length is the number of characters in an ID
const Length = 26

// New returns an ID whose leading 48 bits are now in Unix milliseconds. The
// remaining bits come from rng, or from the global source when rng is nil.
func New(now time.Time, rng *rand.Rand) string {
	var uuid [16]byte

	binary.BigEndian.PutUint64(uuid[0:8], uint64(now.UnixMilli())<<16)

	var r1, r2 uint64
	if rng != nil {
		r1, r2 = rng.Uint64(), rng.Uint64()
	} else {
		r1, r2 = rand.Uint64(), rand.Uint64()
	}
	binary.BigEndian.PutUint16(uuid[6:8], uint16(r1))
	binary.BigEndian.PutUint64(uuid[8:16], r2)

	uuid[6] = (uuid[6] & 0x0f) | 0x70 // version 7
	uuid[8] = (uuid[8] & 0x3f) | 0x80 // variant 10

	return encode(uuid)
}

// encode writes the 128 bits as 26 five bit groups, with two zero bits of
// padding at the top.
func encode(uuid [16]byte) string {
	hi := binary.BigEndian.Uint64(uuid[0:8])
	lo := binary.BigEndian.Uint64(uuid[8:16])

	var b [Length]byte
	for i := range b {
		shift := uint(5 * (Length - 1 - i))
		var v uint64
		switch {
		case shift >= 64:
			v = hi >> (shift - 64)
		case shift == 0:
			v = lo
		default:
			v = lo>>shift | hi<<(64-shift)
		}
		b[i] = alphabet[v&31]
	}
	return string(b[:])
}

// Time returns the millisecond timestamp embedded in id.
func Time(id string) (time.Time, error) {
	if err := Validate(id); err != nil {
		return time.Time{}, err
	}
	// The first ten characters hold the two pad bits and the 48 bit timestamp
	var ms uint64
	for i := 0; i < 10; i++ {
		ms = ms<<5 | uint64(strings.IndexByte(alphabet, id[i]))
	}
	return time.UnixMilli(int64(ms)), nil
}

// Validate checks that id is 26 base32 characters encoding at most 128 bits.
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("connection ID must be exactly %d characters, got %d", Length, len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("connection ID first character must be 0-7, got %c", id[0])
	}
	for i := 0; i < len(id); i++ {
		if strings.IndexByte(alphabet, id[i]) < 0 {
			return fmt.Errorf("invalid character %c at position %d", id[i], i)
		}
	}
	return nil
}
