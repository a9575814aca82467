package services

import (
	"math"
	"strconv"
	"strings"
)

// FormatFixed formats v with exactly dp decimal places. Values that round to
// zero never carry a minus sign.
func FormatFixed(v float64, dp int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	s := strconv.FormatFloat(v, 'f', dp, 64)
	if strings.HasPrefix(s, "-") && strings.Trim(s[1:], "0.") == "" {
		return s[1:]
	}
	return s
}

// FormatRatio formats the X of a "1 in X" grade: rounded to 3 decimals, and
// printed without decimals when the rounded value is whole.
func FormatRatio(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	rounded := math.Round(v*1000) / 1000
	if rounded == math.Trunc(rounded) {
		return FormatFixed(rounded, 0)
	}
	return FormatFixed(rounded, 3)
}

// FormatPercent is FormatFixed with a trailing percent sign.
func FormatPercent(v float64, dp int) string {
	return FormatFixed(v, dp) + "%"
}

// FormatSigned is FormatFixed with an explicit "+" on positive values.
func FormatSigned(v float64, dp int) string {
	s := FormatFixed(v, dp)
	if !strings.HasPrefix(s, "-") && strings.Trim(s, "0.") != "" {
		return "+" + s
	}
	return s
}
