package genart

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"

	"github.com/glyphmint/glyphmint/model/seed"
)

// Rehash derives a child seed by hashing parent and index as two consecutive
// 32 byte big-endian words with Keccak-256. The construction is frozen:
// changing it would alter the content of every item that is not finalized yet.
func Rehash(parent seed.Seed, index uint64) seed.Seed {
	var block [2 * seed.Size]byte
	copy(block[:seed.Size], parent[:])
	binary.BigEndian.PutUint64(block[2*seed.Size-8:], index)
	hash := sha3.NewLegacyKeccak256()
	hash.Write(block[:])
	var child seed.Seed
	hash.Sum(child[:0])
	return child
}
