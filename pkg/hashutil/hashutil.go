package hashutil

import (
	"encoding/hex"

	"lukechampine.com/blake3"
)

// ContentHash returns the BLAKE3 hash of data as a hex string.
// Used to fingerprint fetched robots.txt bodies in metadata records,
// so operators can tell whether a policy actually changed between fetches.
func ContentHash(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}
