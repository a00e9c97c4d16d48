package foodweb

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/foodweb/pkg/creature"
	"github.com/matzehuels/foodweb/pkg/errors"
)

// Label colors.
const (
	Black = "#000000"
	White = "#ffffff"
)

// Contrast selects how label colors are derived from fill colors.
type Contrast string

const (
	// ContrastBinary: black on the default gray, white on everything else.
	ContrastBinary Contrast = "binary"
	// ContrastLuminance: black on light fills, white on dark fills.
	ContrastLuminance Contrast = "luminance"
)

// lightnessThreshold is the CIE L* (0..1) above which text turns black.
const lightnessThreshold = 0.6

// ParseContrast parses a policy name. The empty string selects
// ContrastBinary.
func ParseContrast(s string) (Contrast, error) {
	switch Contrast(strings.ToLower(strings.TrimSpace(s))) {
	case "", ContrastBinary:
		return ContrastBinary, nil
	case ContrastLuminance:
		return ContrastLuminance, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidOption, "unknown contrast policy %q (want binary or luminance)", s)
	}
}

// FontColor returns the label color for a node filled with fill.
func (c Contrast) FontColor(fill string) string {
	if c == ContrastLuminance {
		if col, err := colorful.Hex(expandHex(fill)); err == nil {
			l, _, _ := col.Lab()
			if l > lightnessThreshold {
				return Black
			}
			return White
		}
	}
	if strings.EqualFold(fill, creature.DefaultColor) {
		return Black
	}
	return White
}

// expandHex turns #rgb into #rrggbb; colorful.Hex only reads the long form.
func expandHex(s string) string {
	if len(s) != 4 || s[0] != '#' {
		return s
	}
	return string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
}
