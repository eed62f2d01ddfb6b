package usecase

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand/v2"
	"time"
)

// Clock returns the current time. Tests inject a fixed clock.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}

// Leg indexes used to seed synthetic flight data
const (
	legOutbound = 0
	legReturn   = 1
)

// legRand returns a generator seeded by (orderID, legIndex), so rebuilding the same leg of
// the same order always yields the same flight numbers and layover.
func legRand(orderID string, legIndex int) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(orderID))
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(legIndex))
	h.Write(buf[:])
	seed := h.Sum64()
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
