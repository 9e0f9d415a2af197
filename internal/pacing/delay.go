// Package pacing parses inter-request delays and spaces requests with a
// busy-wait loop.
//
// A delay is written as "millis[.fraction]" where the fraction is a decimal
// fraction of a millisecond with at most [MaxFractionDigits] digits:
//
//	d, err := pacing.Parse("5.25") // 5ms + 250µs
//	mark := time.Now()
//	pacing.Spin(mark, d.Duration())
//
// Spin never yields to the scheduler. It burns a core so that delays well
// below a millisecond are honoured, which time.Sleep cannot guarantee.
package pacing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MaxFractionDigits is the widest fractional part accepted by Parse. Six
// digits of a millisecond is one nanosecond.
const MaxFractionDigits = 6

// ErrInvalidDelay is returned (wrapped) for any delay string Parse rejects.
var ErrInvalidDelay = errors.New("invalid request delay")

// Delay is a millisecond count plus a sub-millisecond decimal fraction.
type Delay struct {
	Millis         uint64
	Fraction       uint32
	FractionDigits int
}

// Parse reads a delay in "millis[.fraction]" form. Either half may be
// empty and then counts as zero.
func Parse(text string) (Delay, error) {
	raw := strings.TrimSpace(text)
	parts := strings.Split(raw, ".")
	if len(parts) > 2 {
		return Delay{}, fmt.Errorf("%w: %q has more than one decimal point", ErrInvalidDelay, text)
	}

	var d Delay
	if millis := parts[0]; millis != "" {
		if !isDigits(millis) {
			return Delay{}, fmt.Errorf("%w: %q: millis must be a non-negative integer", ErrInvalidDelay, text)
		}
		v, err := strconv.ParseUint(millis, 10, 64)
		if err != nil {
			return Delay{}, fmt.Errorf("%w: %q: %v", ErrInvalidDelay, text, err)
		}
		d.Millis = v
	}

	if len(parts) == 2 && parts[1] != "" {
		fraction := parts[1]
		if len(fraction) > MaxFractionDigits {
			return Delay{}, fmt.Errorf("%w: %q: fraction has more than %d digits", ErrInvalidDelay, text, MaxFractionDigits)
		}
		if !isDigits(fraction) {
			return Delay{}, fmt.Errorf("%w: %q: fraction must be numeric", ErrInvalidDelay, text)
		}
		v, err := strconv.ParseUint(fraction, 10, 32)
		if err != nil {
			return Delay{}, fmt.Errorf("%w: %q: %v", ErrInvalidDelay, text, err)
		}
		d.Fraction = uint32(v)
		d.FractionDigits = len(fraction)
	}

	if d.Millis > uint64(time.Duration(1<<63-1)/time.Millisecond) {
		return Delay{}, fmt.Errorf("%w: %q overflows a duration", ErrInvalidDelay, text)
	}
	return d, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// constants.
func MustParse(text string) Delay {
	d, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return d
}

// Duration converts the delay to a time.Duration.
func (d Delay) Duration() time.Duration {
	total := time.Duration(d.Millis) * time.Millisecond
	if d.FractionDigits > 0 {
		scale := time.Duration(1)
		for i := d.FractionDigits; i < MaxFractionDigits; i++ {
			scale *= 10
		}
		total += time.Duration(d.Fraction) * scale
	}
	return total
}

// String renders the delay back in "millis.fraction" form.
func (d Delay) String() string {
	if d.FractionDigits == 0 {
		return strconv.FormatUint(d.Millis, 10)
	}
	return fmt.Sprintf("%d.%0*d", d.Millis, d.FractionDigits, d.Fraction)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
