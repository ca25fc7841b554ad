package badger

import (
	"encoding/binary"

	"github.com/poiesic/rematch/core"
)

// Key prefixes for different data types
const (
	vectorPrefix = "vecrec"
)

// makeVectorPrefix generates the key prefix shared by all vectors of a namespace.
// Format: prefix:namespace:
func makeVectorPrefix(namespace string) []byte {
	return []byte(vectorPrefix + ":" + namespace + ":")
}

// makeVectorKey generates a key for a vector by content ID.
// Format: prefix:namespace:id
func makeVectorKey(namespace string, id core.ID) []byte {
	prefix := makeVectorPrefix(namespace)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}
