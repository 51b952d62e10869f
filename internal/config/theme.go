package config

import (
	"regexp"
	"strconv"
	"strings"
)

// Theme holds the resolved colors and icons for rendering.
type Theme struct {
	Accent    string
	OK        string
	Err       string
	Pending   string
	Muted     string
	Checkmark string
	Cross     string
}

// DefaultTheme returns the built-in palette.
func DefaultTheme() Theme {
	return Theme{
		Accent:    "#C89A3A",
		OK:        "#3FBF6F",
		Err:       "#FF4D4F",
		Pending:   "#8C8C8C",
		Muted:     "#6E6E6E",
		Checkmark: "✓",
		Cross:     "✗",
	}
}

// Theme merges the configured values over the defaults.
func (c FileConfig) Theme() Theme {
	t := DefaultTheme()
	setString(&t.Accent, c.Colors.Accent)
	setString(&t.OK, c.Colors.OK)
	setString(&t.Err, c.Colors.Err)
	setString(&t.Pending, c.Colors.Pending)
	setString(&t.Muted, c.Colors.Muted)
	if c.Icons.Checkmark != nil {
		t.Checkmark = DecodeIcon(*c.Icons.Checkmark)
	}
	if c.Icons.Cross != nil {
		t.Cross = DecodeIcon(*c.Icons.Cross)
	}
	return t
}

func setString(dst *string, v *string) {
	if v != nil && strings.TrimSpace(*v) != "" {
		*dst = *v
	}
}

var cssEscape = regexp.MustCompile(`\\+[0-9A-Fa-f]{4}`)

// DecodeIcon turns CSS-style escapes ("\2713", also doubled backslashes) into
// the characters they name. Other text is returned unchanged.
func DecodeIcon(s string) string {
	return cssEscape.ReplaceAllStringFunc(s, func(m string) string {
		code, err := strconv.ParseUint(strings.TrimLeft(m, `\`), 16, 32)
		if err != nil {
			return m
		}
		return string(rune(code))
	})
}
