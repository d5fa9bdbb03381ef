package orders

import (
	"fmt"
	"regexp"
)

var longMonths = map[string]string{
	"Jan": "January", "Feb": "February", "Mar": "March",
	"Apr": "April", "May": "May", "Jun": "June",
	"Jul": "July", "Aug": "August", "Sep": "September",
	"Oct": "October", "Nov": "November", "Dec": "December",
}

var (
	monthFirstRange = regexp.MustCompile(`(\w{3}) (\d{1,2})-(\d{1,2})`)
	dayFirstRange   = regexp.MustCompile(`(\d{1,2})-(\d{1,2}) (\w{3})`)
	spannedRange    = regexp.MustCompile(`(\d{1,2}) (\w{3}) - (\d{1,2}) (\w{3})`)
)

// FormatDeliveryRange normalizes the delivery-estimate ranges the tracking
// panel renders ("Apr 5-9", "5-9 Apr", "5 Apr - 9 Apr") into a single
// "5 to 9 April" form. Unrecognized text passes through unchanged.
func FormatDeliveryRange(text string) string {
	if m := monthFirstRange.FindStringSubmatch(text); m != nil {
		return fmt.Sprintf("%s to %s %s", m[2], m[3], longMonth(m[1]))
	}

	if m := dayFirstRange.FindStringSubmatch(text); m != nil {
		return fmt.Sprintf("%s to %s %s", m[1], m[2], longMonth(m[3]))
	}

	if m := spannedRange.FindStringSubmatch(text); m != nil {
		return fmt.Sprintf("%s to %s %s", m[1], m[3], longMonth(m[2]))
	}

	return text
}

func longMonth(abbr string) string {
	if full, ok := longMonths[abbr]; ok {
		return full
	}
	return abbr
}
