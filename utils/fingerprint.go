package utils

import "hash/fnv"

func FingerprintString(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

// FingerprintStrings hashes an ordered string list. Callers that need an
// order-independent key sort first.
func FingerprintStrings(items []string) uint64 {
	h := fnv.New64a()
	for _, item := range items {
		h.Write([]byte(item))
		h.Write([]byte{0})
	}
	return h.Sum64()
}
