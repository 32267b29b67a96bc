package config

import (
	"fmt"
	"time"
)

// BusinessHours is an inclusive daily window. A timestamp at exactly the
// open or close minute is accepted; one second past close is not.
type BusinessHours struct {
	openSec  int // seconds since midnight
	closeSec int
}

// ParseBusinessHours parses "HH:MM" open/close strings.
func ParseBusinessHours(open, close string) (BusinessHours, error) {
	o, err := parseClock(open)
	if err != nil {
		return BusinessHours{}, fmt.Errorf("open time %q: %w", open, err)
	}
	c, err := parseClock(close)
	if err != nil {
		return BusinessHours{}, fmt.Errorf("close time %q: %w", close, err)
	}
	if c < o {
		return BusinessHours{}, fmt.Errorf("close %q before open %q", close, open)
	}
	return BusinessHours{openSec: o, closeSec: c}, nil
}

func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*3600 + t.Minute()*60, nil
}

// Contains reports whether t's time of day falls inside the window,
// boundaries included.
func (h BusinessHours) Contains(t time.Time) bool {
	sec := t.Hour()*3600 + t.Minute()*60 + t.Second()
	return sec >= h.openSec && sec <= h.closeSec
}

// Window renders the hours for prompts, e.g. "8:00 AM–6:00 PM".
func (h BusinessHours) Window() string {
	return clockString(h.openSec) + "–" + clockString(h.closeSec)
}

func clockString(sec int) string {
	hh := sec / 3600
	mm := (sec % 3600) / 60
	suffix := "AM"
	display := hh
	switch {
	case hh == 0:
		display = 12
	case hh == 12:
		suffix = "PM"
	case hh > 12:
		display = hh - 12
		suffix = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", display, mm, suffix)
}
