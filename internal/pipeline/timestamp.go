package pipeline

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidTimestamp is returned when a timestamp has non-numeric or missing components.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// ParseTimestamp converts an SRT timestamp (HH:MM:SS,mmm) to milliseconds.
// Components are not range checked, so "00:75:00,000" is 75 minutes.
func ParseTimestamp(value string) (int64, error) {
	value = strings.TrimSpace(value)
	clock, millis, ok := strings.Cut(value, ",")
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrInvalidTimestamp, value)
	}
	hms := strings.Split(clock, ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("%w %q", ErrInvalidTimestamp, value)
	}

	var parts [4]int64
	for i, s := range append(hms, millis) {
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w %q", ErrInvalidTimestamp, value)
		}
		parts[i] = n
	}
	hours, minutes, seconds, ms := parts[0], parts[1], parts[2], parts[3]
	return (hours*3600+minutes*60+seconds)*1000 + ms, nil
}

// FormatTimestamp converts milliseconds to HH:MM:SS,mmm.
func FormatTimestamp(ms int64) string {
	sign := ""
	if ms < 0 {
		sign = "-"
		ms = -ms
	}
	hours := ms / 3_600_000
	minutes := ms / 60_000 % 60
	secs := ms / 1000 % 60
	return fmt.Sprintf("%s%02d:%02d:%02d,%03d", sign, hours, minutes, secs, ms%1000)
}
