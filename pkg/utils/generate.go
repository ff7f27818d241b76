package utils

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"
)

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil || result < 1 {
		return defaultValue
	}

	return result
}

// GeneratePaymentReference is the placeholder transaction id stored until the
// gateway reports its own. Format: PAY-YYYYMMDD-HHMMSS-RANDOM
func GeneratePaymentReference(now time.Time) string {
	datePart := now.Format("20060102")
	timePart := now.Format("150405")
	randomPart := fmt.Sprintf("%06d", rand.IntN(1000000))

	return fmt.Sprintf("PAY-%s-%s-%s", datePart, timePart, randomPart)
}
