package lead

import "time"

// InvalidDateSentinel is rendered when a stored timestamp cannot be parsed.
// Rendering must never fail on bad data.
const InvalidDateSentinel = "invalid date"

const displayLayout = "02.01.2006"

// FormatDate renders an RFC 3339 timestamp string in the dashboard's
// day.month.year form, substituting a sentinel on unparseable input.
func FormatDate(value string) string {
	if value == "" {
		return InvalidDateSentinel
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return InvalidDateSentinel
	}
	return t.Format(displayLayout)
}

// FormatTime renders a timestamp in the dashboard's display form. The zero
// time has no meaningful display and maps to the sentinel.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return InvalidDateSentinel
	}
	return t.Format(displayLayout)
}
