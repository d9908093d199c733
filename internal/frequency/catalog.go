// Package frequency maps human-readable recurrence labels to cron
// schedule expressions and computes due dates for materialized task
// instances. The catalog is a closed, enumerable set: every supported
// label is constructed up front, so an unsupported label is a lookup
// miss rather than a parse failure.
package frequency

import (
	"fmt"
	"sort"
	"time"
)

// Hour of day at which date-granularity schedules fire.
const defaultHour = 9

// weekdayNumbers maps weekday names to cron day-of-week numbers.
var weekdayNumbers = map[string]int{
	"Sunday":    0,
	"Monday":    1,
	"Tuesday":   2,
	"Wednesday": 3,
	"Thursday":  4,
	"Friday":    5,
	"Saturday":  6,
}

// presets are the named fixed-cadence labels. Cron format:
// minute hour day-of-month month day-of-week.
var presets = map[string]string{
	"Hourly":            "0 * * * *",
	"Every 2 Hours":     "0 */2 * * *",
	"Every 3 Hours":     "0 */3 * * *",
	"Every 6 Hours":     "0 */6 * * *",
	"Every 12 Hours":    "0 */12 * * *",
	"Daily":             fmt.Sprintf("0 %d * * *", defaultHour),
	"Daily at Noon":     "0 12 * * *",
	"Daily at Midnight": "0 0 * * *",
	"Twice Daily":       fmt.Sprintf("0 %d,17 * * *", defaultHour),
	"Every Weekday":     fmt.Sprintf("0 %d * * 1-5", defaultHour),
	"Weekly":            fmt.Sprintf("0 %d * * 1", defaultHour),
	"Start of Month":    fmt.Sprintf("0 %d 1 * *", defaultHour),
	"Start of Quarter":  fmt.Sprintf("0 %d 1 1,4,7,10 *", defaultHour),
}

// catalog holds every supported label. Built once at package init.
var catalog = buildCatalog()

func buildCatalog() map[string]string {
	m := make(map[string]string, len(presets)+len(weekdayNumbers)+31)

	for label, spec := range presets {
		m[label] = spec
	}

	// "Every Monday" .. "Every Sunday"
	for name, num := range weekdayNumbers {
		m["Every "+name] = fmt.Sprintf("0 %d * * %d", defaultHour, num)
	}

	// "Every 1st of Month" .. "Every 31st of Month"
	for day := 1; day <= 31; day++ {
		label := fmt.Sprintf("Every %s of Month", Ordinal(day))
		m[label] = fmt.Sprintf("0 %d %d * *", defaultHour, day)
	}

	return m
}

// Ordinal renders a day of month with its English ordinal suffix:
// 1st, 2nd, 3rd, 4th ... 11th, 12th, 13th ... 21st, 22nd, 23rd.
func Ordinal(day int) string {
	// 11-13 take "th" despite ending in 1, 2, 3.
	if day >= 11 && day <= 13 {
		return fmt.Sprintf("%dth", day)
	}
	switch day % 10 {
	case 1:
		return fmt.Sprintf("%dst", day)
	case 2:
		return fmt.Sprintf("%dnd", day)
	case 3:
		return fmt.Sprintf("%drd", day)
	default:
		return fmt.Sprintf("%dth", day)
	}
}

// Resolve maps a recurrence label to its cron expression.
// The second return reports whether the label is in the catalog.
// Resolve is total: an unknown label is a miss, never a panic, and
// callers treat it as a non-fatal validation failure.
func Resolve(label string) (string, bool) {
	spec, ok := catalog[label]
	return spec, ok
}

// Known reports whether the label is a supported recurrence.
func Known(label string) bool {
	_, ok := catalog[label]
	return ok
}

// Labels returns every supported label in sorted order.
func Labels() []string {
	labels := make([]string, 0, len(catalog))
	for label := range catalog {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// NextDueDate computes when a task instance materialized now for the
// given recurrence label falls due.
//
// This is intentionally coarse: weekly-family labels get a week, every
// other label (including hourly, monthly and quarterly cadences, and
// labels outside the catalog) gets a day. It approximates "when is the
// next occurrence due" rather than projecting the exact calendar, and
// it never fails.
func NextDueDate(label string, now time.Time) time.Time {
	if isWeeklyFamily(label) {
		return now.AddDate(0, 0, 7)
	}
	return now.AddDate(0, 0, 1)
}

func isWeeklyFamily(label string) bool {
	if label == "Weekly" {
		return true
	}
	for name := range weekdayNumbers {
		if label == "Every "+name {
			return true
		}
	}
	return false
}
