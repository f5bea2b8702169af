package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ParseSince converts a --since expression into the earliest timestamp to
// include. Supported forms:
//
//	7d  -> seven days before now
//	2w  -> two weeks before now
//	24h -> twenty-four hours before now
//	today, yesterday -> midnight of that day
//	2026-08-23 -> midnight UTC of that date
//
// An empty input returns the zero time, meaning no lower bound.
func ParseSince(input string) (time.Time, error) {
	return ParseSinceWithBase(input, time.Now())
}

// ParseSinceWithBase converts with a specific base time (for testing)
func ParseSinceWithBase(input string, base time.Time) (time.Time, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return time.Time{}, nil
	}

	switch input {
	case "today":
		return midnight(base), nil
	case "yesterday":
		return midnight(base).AddDate(0, 0, -1), nil
	}

	relativePattern := regexp.MustCompile(`^(\d+)([hdw])$`)
	if matches := relativePattern.FindStringSubmatch(input); matches != nil {
		num, err := strconv.Atoi(matches[1])
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid number: %s", matches[1])
		}

		var duration time.Duration
		switch matches[2] {
		case "h":
			duration = time.Duration(num) * time.Hour
		case "d":
			duration = time.Duration(num) * 24 * time.Hour
		case "w":
			duration = time.Duration(num) * 7 * 24 * time.Hour
		}

		return base.Add(-duration), nil
	}

	if t, err := time.Parse("2006-01-02", input); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unsupported date format: %s", input)
}

// midnight truncates a time to the start of its day.
func midnight(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
