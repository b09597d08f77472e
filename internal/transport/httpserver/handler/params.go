package handler

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

func parseDateRequired(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	return time.Parse("2006-01-02", value)
}

func parseDateParam(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseIntParam(value string, fallback int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

// parseYearMonth reads year/month query parameters, defaulting both to the
// current UTC month when absent.
func parseYearMonth(query url.Values) (int, int, error) {
	now := time.Now().UTC()
	year, err := parseIntParam(query.Get("year"), now.Year())
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year")
	}
	month, err := parseIntParam(query.Get("month"), int(now.Month()))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month")
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid month")
	}
	return year, month, nil
}
