package service

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// newRandomSeed reads a sampling seed from crypto/rand.
func newRandomSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
