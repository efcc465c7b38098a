// Package relative renders card ages ("5 minutes ago") and keeps them
// fresh while the cards are on screen.
package relative

import (
	"fmt"
	"time"
)

const (
	minuteMs = int64(time.Minute / time.Millisecond)
	hourMs   = 60 * minuteMs
	dayMs    = 24 * hourMs
)

// Format describes how long ago status was, as seen at now. Ages are
// measured in whole milliseconds and rounded up to the unit shown.
func Format(status, now time.Time) string {
	elapsed := now.Sub(status).Milliseconds()
	switch {
	case elapsed < minuteMs:
		return "just now"
	case elapsed < hourMs:
		return fmt.Sprintf("%d minutes ago", ceilDiv(elapsed, minuteMs))
	case elapsed < dayMs:
		return fmt.Sprintf("%d hours ago", ceilDiv(elapsed, hourMs))
	default:
		return fmt.Sprintf("%d days ago", ceilDiv(elapsed, dayMs))
	}
}

func ceilDiv(n, d int64) int64 {
	return (n + d - 1) / d
}
