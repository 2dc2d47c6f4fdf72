package transform

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// CompoundKey derives a deterministic record id from natural-key values.
// The values are expected to already carry the server prefix, so rows from
// multiple Daktela instances never collide when merged downstream.
//
// Missing natural-key fields degrade to empty strings rather than failing:
// a deliberate lossy simplification that keeps extraction tolerant of
// sparse API responses.
func CompoundKey(values ...string) string {
	combined := strings.Join(values, "")
	sum := md5.Sum([]byte(combined))
	return hex.EncodeToString(sum[:])
}
