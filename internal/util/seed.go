package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// seedIntModulus keeps the numeric seed inside the generation service's
// accepted int32 range.
const seedIntModulus = 2147483647

// QuizSeed derives a 16-hex-character seed from a composite identifier and
// the given instant. Feeding the clock in makes every generation run unique
// for the same identifier; replay idempotence comes from the cache check in
// front of generation, not from the seed.
func QuizSeed(compositeID string, now time.Time) string {
	sum := sha256.Sum256([]byte(compositeID + strconv.FormatInt(now.UnixMilli(), 10)))
	return hex.EncodeToString(sum[:])[:16]
}

// SeedToInt maps a hex seed into the generation service's integer seed range.
func SeedToInt(seed string) (int, error) {
	n, err := strconv.ParseUint(seed, 16, 64)
	if err != nil {
		return 0, err
	}
	return int(n % seedIntModulus), nil
}
