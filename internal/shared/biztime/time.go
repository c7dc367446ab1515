// Package biztime handles the business timezone. Storage and transport use UTC;
// the business timezone only decides where a calendar day starts, which matters
// for request numbers and report windows.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

// DefaultTimezone is where the service clubs operate.
const DefaultTimezone = "Europe/Zagreb"

var (
	bizLocation     *time.Location
	bizLocationOnce sync.Once
	initErr         error
)

// Init initializes the business timezone. Should be called once at startup.
func Init(tz string) error {
	bizLocationOnce.Do(func() {
		if tz == "" {
			tz = DefaultTimezone
		}
		bizLocation, initErr = time.LoadLocation(tz)
	})
	return initErr
}

// Location returns the business timezone, initializing the default on first use.
func Location() *time.Location {
	if bizLocation == nil {
		if err := Init(""); err != nil {
			panic(fmt.Sprintf("biztime: failed to auto-initialize with default timezone: %v", err))
		}
	}
	return bizLocation
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// StartOfDayUTC returns business-day midnight for t, expressed in UTC.
func StartOfDayUTC(t time.Time) time.Time {
	bt := t.In(Location())
	return time.Date(bt.Year(), bt.Month(), bt.Day(), 0, 0, 0, 0, Location()).UTC()
}

// DayKey returns the business date of t as YYYYMMDD.
func DayKey(t time.Time) string {
	return t.In(Location()).Format("20060102")
}

// FormatInBizTimezone formats a UTC time in the business timezone.
func FormatInBizTimezone(t time.Time, layout string) string {
	return t.In(Location()).Format(layout)
}

// ToUnixMilli converts an optional time to epoch milliseconds.
func ToUnixMilli(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

// FromUnixMilli converts optional epoch milliseconds to a UTC time.
func FromUnixMilli(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := time.UnixMilli(*ms).UTC()
	return &t
}
