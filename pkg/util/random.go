package util

import (
	"fmt"
	"math/rand"
	"time"
)

const referenceTimeLayout = "20060102150405"

// GenerateRandomNumber generates a random number between min and max (inclusive)
func GenerateRandomNumber(min, max int) int {
	return min + rand.Intn(max-min+1)
}

// GenerateReferenceNumber builds LIC-<yyyyMMddHHmmss UTC>-<1000..9999>.
// Uniqueness is left to the storage constraint.
func GenerateReferenceNumber(now time.Time) string {
	return fmt.Sprintf("LIC-%s-%d", now.UTC().Format(referenceTimeLayout), GenerateRandomNumber(1000, 9999))
}
