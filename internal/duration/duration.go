// Package duration resolves the test length from the duration selector.
package duration

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Custom selects the free-form minutes field.
const Custom = "custom"

const (
	// Fallback is used whenever a selection cannot be parsed.
	Fallback = 1.0
	// MaxMinutes caps custom durations.
	MaxMinutes = 120.0
)

// Presets lists the selectable whole-minute durations.
var Presets = []string{"1", "2", "3", "5", "10"}

// Minutes returns the duration in minutes for a selector value.
func Minutes(selection, custom string) float64 {
	if selection == Custom {
		return ParseCustom(custom)
	}
	v, err := strconv.Atoi(strings.TrimSpace(selection))
	if err != nil || v <= 0 {
		return Fallback
	}
	return float64(v)
}

// ParseCustom parses a free-form minutes value. The first comma is read as
// the decimal point and only the leading number counts, so "1.5 min" is 1.5.
// Values that are not finite and positive fall back to one minute; larger
// values are capped at MaxMinutes.
func ParseCustom(raw string) float64 {
	raw = strings.Replace(strings.TrimSpace(raw), ",", ".", 1)
	v, err := strconv.ParseFloat(leadingNumber(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return Fallback
	}
	return math.Min(v, MaxMinutes)
}

// leadingNumber returns the longest decimal prefix of s: an optional sign,
// digits with at most one point, and an exponent only when it has digits.
func leadingNumber(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for ; i < len(s) && isDigit(s[i]); i++ {
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for ; i < len(s) && isDigit(s[i]); i++ {
			digits++
		}
	}
	if digits == 0 {
		return ""
	}
	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for ; k < len(s) && isDigit(s[k]); k++ {
		}
		if k > j {
			end = k
		}
	}
	return s[:end]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Seconds converts minutes to whole countdown seconds.
func Seconds(minutes float64) int {
	return int(math.Round(minutes * 60))
}

// Valid reports whether selection is a preset or Custom.
func Valid(selection string) bool {
	if selection == Custom {
		return true
	}
	for _, p := range Presets {
		if p == selection {
			return true
		}
	}
	return false
}

// Next cycles through the presets and then Custom.
func Next(selection string) string {
	options := append(append([]string(nil), Presets...), Custom)
	for i, opt := range options {
		if opt == selection {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}

// FormatMMSS renders seconds as "mm:ss".
func FormatMMSS(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
