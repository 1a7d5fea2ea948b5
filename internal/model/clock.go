package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// EndOfDay is 24:00:00, the exclusive upper bound of any window.
const EndOfDay Clock = 24 * 60 * 60

var (
	ErrBadClock = errors.New("time must be HH:MM or HH:MM:SS")
	ErrBadDate  = errors.New("date must be YYYY-MM-DD")
)

// Clock is a wall-clock time of day in seconds since midnight.
type Clock int

func NewClock(h, m, s int) Clock {
	return Clock(h*3600 + m*60 + s)
}

// ParseClock accepts H:M, HH:MM or HH:MM:SS.
func ParseClock(raw string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, raw)
	}
	var v [3]int
	limits := [3]int{23, 59, 59}
	for i, p := range parts {
		if p == "" || len(p) > 2 {
			return 0, fmt.Errorf("%w: %q", ErrBadClock, raw)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > limits[i] {
			return 0, fmt.Errorf("%w: %q", ErrBadClock, raw)
		}
		v[i] = n
	}
	return NewClock(v[0], v[1], v[2]), nil
}

// ParseBound is ParseClock that also accepts 24:00 or 24:00:00, the
// form Postgres uses for a closing time at midnight.
func ParseBound(raw string) (Clock, error) {
	switch strings.TrimSpace(raw) {
	case "24:00", "24:00:00":
		return EndOfDay, nil
	}
	return ParseClock(raw)
}

func MustClock(raw string) Clock {
	c, err := ParseClock(raw)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Clock) Add(d time.Duration) Clock {
	return c + Clock(d/time.Second)
}

func (c Clock) String() string {
	s := int(c)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, s%3600/60, s%60)
}

// ParseDate parses a calendar date into UTC midnight.
func ParseDate(raw string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, raw)
	}
	return d, nil
}

// DateOnly truncates t to its calendar day in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
