package discovery

import (
	"math"
	"time"
)

// DefaultTimeoutSeconds is the LAN window used when the requested one is unusable
const DefaultTimeoutSeconds = 10

// maxTimeoutSeconds keeps the window representable as a time.Duration
const maxTimeoutSeconds = float64(math.MaxInt64 / int64(time.Second))

// NormalizeTimeout turns a requested LAN window in seconds into whole
// seconds. Values are rounded half away from zero; NaN, infinities and
// anything that rounds to zero or below become DefaultTimeoutSeconds.
func NormalizeTimeout(seconds float64) time.Duration {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return DefaultTimeoutSeconds * time.Second
	}
	rounded := math.Round(seconds)
	if rounded <= 0 {
		return DefaultTimeoutSeconds * time.Second
	}
	if rounded > maxTimeoutSeconds {
		rounded = maxTimeoutSeconds
	}
	return time.Duration(rounded) * time.Second
}
