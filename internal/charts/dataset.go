package charts

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// parseLabels decodes a JSON array attribute. Missing or malformed input
// yields an empty slice.
func parseLabels(raw string) []string {
	var items []any
	if err := json.Unmarshal([]byte(orEmptyArray(raw)), &items); err != nil {
		return []string{}
	}
	labels := make([]string, 0, len(items))
	for _, it := range items {
		switch v := it.(type) {
		case string:
			labels = append(labels, v)
		case nil:
			labels = append(labels, "")
		default:
			labels = append(labels, fmt.Sprint(v))
		}
	}
	return labels
}

// parseValues decodes a JSON array of numbers. Numeric strings are accepted;
// anything else counts as 0. Malformed input yields an empty slice.
func parseValues(raw string) []float64 {
	var items []any
	if err := json.Unmarshal([]byte(orEmptyArray(raw)), &items); err != nil {
		return []float64{}
	}
	values := make([]float64, 0, len(items))
	for _, it := range items {
		switch v := it.(type) {
		case float64:
			values = append(values, v)
		case string:
			f, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
			values = append(values, f)
		default:
			values = append(values, 0)
		}
	}
	return values
}

func orEmptyArray(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "[]"
	}
	return raw
}

// parseCount reads the leading decimal integer of raw, ignoring leading
// whitespace and any trailing text. No digits yields 0.
func parseCount(raw string) int {
	s := strings.TrimLeft(raw, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
