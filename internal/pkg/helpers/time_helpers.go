package helpers

import "time"

// DeadlineLayout is the minute precision format used in user facing deadline texts.
const DeadlineLayout = "2006-01-02 15:04"

// FormatDeadline renders t in UTC with DeadlineLayout.
func FormatDeadline(t time.Time) string {
	return t.UTC().Format(DeadlineLayout)
}
