// Package timefmt formats elapsed durations for humans and parses the
// stop-time values accepted on the command line.
package timefmt

import (
	"fmt"
	"strings"
	"time"

	"github.com/mtt-project/mtt/pkg/errclass"
)

const day = 24 * time.Hour

// FormatDuration renders d truncated to whole seconds, e.g. "1day 2h 3m 4s".
// Zero and negative durations render as "0s".
func FormatDuration(d time.Duration) string {
	d = d.Truncate(time.Second)
	if d <= 0 {
		return "0s"
	}

	var parts []string
	if days := d / day; days > 0 {
		unit := "days"
		if days == 1 {
			unit = "day"
		}
		parts = append(parts, fmt.Sprintf("%d%s", days, unit))
		d -= days * day
	}
	for _, u := range []struct {
		size   time.Duration
		suffix string
	}{{time.Hour, "h"}, {time.Minute, "m"}, {time.Second, "s"}} {
		if n := d / u.size; n > 0 {
			parts = append(parts, fmt.Sprintf("%d%s", n, u.suffix))
			d -= n * u.size
		}
	}
	return strings.Join(parts, " ")
}

// Hours renders d as decimal hours with two places, for tabular output.
func Hours(d time.Duration) string {
	return fmt.Sprintf("%.2f", d.Hours())
}

var dateTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

var clockLayouts = []string{
	"15:04:05",
	"15:04",
}

// ParseStopTime interprets s relative to now. Accepted forms:
//
//	RFC3339                 2024-03-01T17:30:00+01:00
//	local date and time     2024-03-01 17:30[:00]
//	local clock time today  17:30[:00]
//	offset into the past    -15m, -1h30m
func ParseStopTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errclass.ErrTimeInvalid.WithMessage("empty time")
	}

	if strings.HasPrefix(s, "-") {
		d, err := time.ParseDuration(s)
		if err != nil {
			return time.Time{}, errclass.ErrTimeInvalid.WithMessagef("invalid offset %q: %v", s, err)
		}
		return now.Add(d), nil
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	loc := now.Location()
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	for _, layout := range clockLayouts {
		if c, err := time.ParseInLocation(layout, s, loc); err == nil {
			y, m, d := now.Date()
			return time.Date(y, m, d, c.Hour(), c.Minute(), c.Second(), 0, loc), nil
		}
	}

	return time.Time{}, errclass.ErrTimeInvalid.WithMessagef(
		"cannot parse %q (use HH:MM, YYYY-MM-DD HH:MM, RFC3339 or -15m)", s)
}
