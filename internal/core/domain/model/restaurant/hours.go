package restaurant

import (
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/pkg/errs"
)

const day = 24 * time.Hour

// Hours is the daily opening window of a restaurant. The window never wraps
// past midnight. Hours without an opening or closing time are always open.
type Hours struct {
	opening time.Duration
	closing time.Duration
	bounded bool
}

// AlwaysOpen is the window of a restaurant without configured hours.
func AlwaysOpen() Hours {
	return Hours{}
}

// NewHours builds a window from offsets since midnight.
func NewHours(opening, closing time.Duration) (Hours, error) {
	if opening < 0 || opening >= day {
		return Hours{}, errs.NewValueIsOutOfRangeError("opening_hours", opening, time.Duration(0), day)
	}
	if closing < 0 || closing >= day {
		return Hours{}, errs.NewValueIsOutOfRangeError("closing_hours", closing, time.Duration(0), day)
	}
	return Hours{opening: opening, closing: closing, bounded: true}, nil
}

// ParseHours accepts "15:04" or "15:04:05" strings. A nil or empty bound
// yields AlwaysOpen.
func ParseHours(opening, closing *string) (Hours, error) {
	if opening == nil || closing == nil || strings.TrimSpace(*opening) == "" || strings.TrimSpace(*closing) == "" {
		return AlwaysOpen(), nil
	}

	o, err := parseClock(*opening)
	if err != nil {
		return Hours{}, errs.NewValueIsInvalidErrorWithCause("opening_hours", err)
	}
	c, err := parseClock(*closing)
	if err != nil {
		return Hours{}, errs.NewValueIsInvalidErrorWithCause("closing_hours", err)
	}
	return NewHours(o, c)
}

// OpenAt reports opening <= now.time <= closing, using the wall clock of now.
func (h Hours) OpenAt(now time.Time) bool {
	if !h.bounded {
		return true
	}
	clock := sinceMidnight(now)
	return clock >= h.opening && clock <= h.closing
}

// Bounds returns the window as "15:04:05" strings, or nils for AlwaysOpen.
func (h Hours) Bounds() (*string, *string) {
	if !h.bounded {
		return nil, nil
	}
	o, c := formatClock(h.opening), formatClock(h.closing)
	return &o, &c
}

func sinceMidnight(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
}

func parseClock(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return sinceMidnight(t), nil
		}
	}
	return 0, fmt.Errorf("%q is not a time of day", s)
}

func formatClock(d time.Duration) string {
	return time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC).Add(d).Format("15:04:05")
}
