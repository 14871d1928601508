package checkout

import (
	"crypto/rand"
	"strconv"
	"strings"
	"time"
)

const orderNumberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateOrderNumber builds a human-readable order reference from a
// base36 timestamp and a random suffix. The orders table still enforces
// uniqueness.
func GenerateOrderNumber() string {
	stamp := strings.ToUpper(strconv.FormatInt(time.Now().UnixNano(), 36))

	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the OS entropy source is broken.
		fallback := strings.ToUpper(strconv.FormatInt(time.Now().UnixNano()%1679616, 36))
		return "ORD-" + stamp + "-" + leftPad(fallback, 4)
	}
	suffix := make([]byte, 4)
	for i, b := range buf {
		suffix[i] = orderNumberAlphabet[int(b)%len(orderNumberAlphabet)]
	}
	return "ORD-" + stamp + "-" + string(suffix)
}

func leftPad(value string, width int) string {
	for len(value) < width {
		value = "0" + value
	}
	return value
}
