package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatClock renders whole seconds as mm:ss, or h:mm:ss from one hour up.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := seconds % 3600 / 60
	seconds = seconds % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// ParseSeconds accepts whole seconds, mm:ss or a Go duration such as 1m30s.
// It does not check the sign; NewTimer rejects non-positive durations.
func ParseSeconds(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("%w: duration is required", ErrValidation)
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return seconds, nil
	}
	if minutes, seconds, ok := strings.Cut(value, ":"); ok {
		m, errM := strconv.Atoi(minutes)
		s, errS := strconv.Atoi(seconds)
		if errM != nil || errS != nil || m < 0 || s < 0 || s >= 60 {
			return 0, fmt.Errorf("%w: invalid duration %q", ErrValidation, value)
		}
		return m*60 + s, nil
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid duration %q", ErrValidation, value)
	}
	if duration%time.Second != 0 {
		return 0, fmt.Errorf("%w: duration %q is not a whole number of seconds", ErrValidation, value)
	}
	return int(duration / time.Second), nil
}
