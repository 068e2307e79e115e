// Package timeexpr parses the time expressions accepted by time window flags.
package timeexpr

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Matches: "90s ago", "30m ago", "2h ago", "1d ago", "2w ago", "1mo ago"
var agoRegex = regexp.MustCompile(`^(\d+)\s*(mo|s|m|h|d|w)\s*ago$`)

// Parse resolves s against now. It accepts "now", "today", "yesterday",
// relative expressions such as "6h ago", weekday names ("monday" is the
// most recent Monday, "last monday" the one before today), a date
// (2006-01-02, start of day in now's location), RFC 3339 and Unix epoch
// milliseconds.
func Parse(s string, now time.Time) (time.Time, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty time expression")
	}
	input := strings.ToLower(raw)

	switch input {
	case "now":
		return now, nil
	case "today":
		return startOfDay(now), nil
	case "yesterday":
		return startOfDay(now).AddDate(0, 0, -1), nil
	}

	if t, ok := parseWeekday(input, now); ok {
		return t, nil
	}

	if m := agoRegex.FindStringSubmatch(input); len(m) == 3 {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			return time.Time{}, fmt.Errorf("invalid relative time %q", raw)
		}
		t, err := before(now, n, m[2])
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid relative time %q: %w", raw, err)
		}
		return t, nil
	}

	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil && ms >= 0 {
		return time.UnixMilli(ms).In(now.Location()), nil
	}

	if t, err := time.ParseInLocation("2006-01-02", raw, now.Location()); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid time expression %q (use RFC 3339, 2006-01-02, epoch ms or e.g. \"6h ago\")", raw)
}

// Window resolves a start/end pair. Empty end means now; empty start
// means end minus span.
func Window(start, end string, span time.Duration, now time.Time) (time.Time, time.Time, error) {
	endTs := now
	if end != "" {
		t, err := Parse(end, now)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --end: %w", err)
		}
		endTs = t
	}
	startTs := endTs.Add(-span)
	if start != "" {
		t, err := Parse(start, now)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --start: %w", err)
		}
		startTs = t
	}
	if startTs.After(endTs) {
		return time.Time{}, time.Time{}, fmt.Errorf("--start %s is after --end %s", startTs.Format(time.RFC3339), endTs.Format(time.RFC3339))
	}
	return startTs, endTs, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func parseWeekday(expr string, now time.Time) (time.Time, bool) {
	last := false
	if rest, ok := strings.CutPrefix(expr, "last "); ok {
		last = true
		expr = strings.TrimSpace(rest)
	}
	weekday, ok := weekdays[expr]
	if !ok {
		return time.Time{}, false
	}
	base := startOfDay(now)
	delta := (int(base.Weekday()) - int(weekday) + 7) % 7
	if last && delta == 0 {
		delta = 7
	}
	return base.AddDate(0, 0, -delta), true
}

var weekdays = map[string]time.Weekday{
	"sun":       time.Sunday,
	"sunday":    time.Sunday,
	"mon":       time.Monday,
	"monday":    time.Monday,
	"tue":       time.Tuesday,
	"tues":      time.Tuesday,
	"tuesday":   time.Tuesday,
	"wed":       time.Wednesday,
	"wednesday": time.Wednesday,
	"thu":       time.Thursday,
	"thurs":     time.Thursday,
	"thursday":  time.Thursday,
	"fri":       time.Friday,
	"friday":    time.Friday,
	"sat":       time.Saturday,
	"saturday":  time.Saturday,
}

var unitDuration = map[string]time.Duration{
	"h": time.Hour,
	"m": time.Minute,
	"s": time.Second,
}

// before returns now minus n units. Results that overflow, and so land
// after now, are rejected.
func before(now time.Time, n int, unit string) (time.Time, error) {
	var t time.Time
	switch unit {
	case "mo":
		t = now.AddDate(0, -n, 0)
	case "w":
		t = now.AddDate(0, 0, -7*n)
	case "d":
		t = now.AddDate(0, 0, -n)
	default:
		d := unitDuration[unit]
		if int64(n) > math.MaxInt64/int64(d) {
			return time.Time{}, fmt.Errorf("%d%s is out of range", n, unit)
		}
		t = now.Add(-time.Duration(n) * d)
	}
	if t.After(now) || (n > 0 && !t.Before(now)) {
		return time.Time{}, fmt.Errorf("%d%s is out of range", n, unit)
	}
	return t, nil
}
