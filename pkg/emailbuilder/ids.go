package emailbuilder

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync/atomic"

	"github.com/google/uuid"
)

// NanoIDAlphabet is the character set used for block ids
const NanoIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// BlockIDLength is the length of the random part of generated block ids
const BlockIDLength = 10

// IDGenerator returns a fresh block id on each call
type IDGenerator func() string

// NanoIDGenerator generates ids like "blk_k3j9x0a1zq"
func NanoIDGenerator() string {
	return "blk_" + GenerateNanoID(BlockIDLength)
}

// UUIDGenerator generates random UUIDv4 block ids
func UUIDGenerator() string {
	return uuid.New().String()
}

// SequentialIDs returns a generator producing prefix-1, prefix-2, ...
func SequentialIDs(prefix string) IDGenerator {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("%s-%d", prefix, n.Add(1))
	}
}

// GenerateNanoID generates a cryptographically secure random id of the given
// length using lowercase alphanumeric characters
func GenerateNanoID(length int) string {
	if length <= 0 {
		length = 6
	}

	alphabetLen := big.NewInt(int64(len(NanoIDAlphabet)))
	id := make([]byte, length)
	for i := range id {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken
			return uuid.New().String()[:length]
		}
		id[i] = NanoIDAlphabet[n.Int64()]
	}
	return string(id)
}
