package creature

import (
	"slices"
	"strings"
)

// DefaultColor is the neutral gray fill used when no color is chosen.
const DefaultColor = "#f0f0f0"

// Creature is one user-described organism.
type Creature struct {
	Name  string   `json:"name" yaml:"name"`
	Eats  []string `json:"eats" yaml:"eats"`
	Color string   `json:"color" yaml:"color"`
}

// New builds a creature from raw form values: the name is trimmed, eats is
// parsed with ParseEats and an empty color falls back to DefaultColor.
func New(name, eats, color string) Creature {
	return Creature{
		Name:  strings.TrimSpace(name),
		Eats:  ParseEats(eats),
		Color: normalizeColor(color),
	}
}

// Clone returns a deep copy.
func (c Creature) Clone() Creature {
	c.Eats = slices.Clone(c.Eats)
	if c.Eats == nil {
		c.Eats = []string{}
	}
	return c
}

// EatsText joins the prey list back into the comma form used by editors.
func (c Creature) EatsText() string {
	return strings.Join(c.Eats, ", ")
}

// ParseEats splits comma-separated prey text into trimmed names.
// Empty tokens (blank input, stray or trailing commas) are dropped, so
// "Rabbit, , Mouse," yields [Rabbit Mouse]. The result is never nil.
func ParseEats(text string) []string {
	out := []string{}
	for _, tok := range strings.Split(text, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

func normalizeColor(color string) string {
	if color = strings.TrimSpace(color); color == "" {
		return DefaultColor
	}
	return color
}
