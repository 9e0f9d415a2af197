package pacing

import "time"

// Spin busy-waits until wait has elapsed since mark. It returns the time at
// which the wait ended. A non-positive wait returns immediately.
func Spin(mark time.Time, wait time.Duration) time.Time {
	if wait <= 0 {
		return mark
	}
	for {
		now := time.Now()
		if now.Sub(mark) >= wait {
			return now
		}
	}
}
