package transactions

import (
	"fmt"
	"time"
)

// Calendar helpers. All dates are UTC at midnight; months are represented
// by their first day, end bounds by their last day.

func monthStart(year, month int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func lastOfMonth(t time.Time) time.Time {
	return firstOfMonth(t).AddDate(0, 1, -1)
}

func daysIn(year, month int) int {
	return monthStart(year, month).AddDate(0, 1, -1).Day()
}

// monthSpan counts whole months from a's month to b's month; zero when both
// fall in the same month, negative when b precedes a.
func monthSpan(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// occurrenceKey is the storage-level idempotency key for materialized rows:
// one row per (template, workspace-or-personal, year, month).
func occurrenceKey(templateID string, workspaceID *string, year, month int) string {
	ws := "personal"
	if workspaceID != nil {
		ws = *workspaceID
	}
	return fmt.Sprintf("%s:%s:%04d-%02d", templateID, ws, year, month)
}
