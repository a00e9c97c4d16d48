package layout

import (
	"strings"

	"github.com/matzehuels/foodweb/pkg/errors"
)

// Mode selects the layout family.
type Mode string

const (
	ModeDefault      Mode = "default"
	ModeHierarchical Mode = "hierarchical"
	ModeCircular     Mode = "circular"
)

// Modes lists all modes in display order.
var Modes = []Mode{ModeDefault, ModeHierarchical, ModeCircular}

// Direction is the axis of a hierarchical layout.
type Direction string

const (
	DirectionUD Direction = "UD" // top-down
	DirectionDU Direction = "DU" // bottom-up
	DirectionLR Direction = "LR" // left-right
	DirectionRL Direction = "RL" // right-left
)

// Directions lists all directions in display order.
var Directions = []Direction{DirectionUD, DirectionDU, DirectionLR, DirectionRL}

// Vertical reports whether levels are stacked along the y axis.
func (d Direction) Vertical() bool { return d == DirectionUD || d == DirectionDU }

// RankDir returns the equivalent Graphviz rankdir.
func (d Direction) RankDir() string {
	switch d {
	case DirectionDU:
		return "BT"
	case DirectionLR:
		return "LR"
	case DirectionRL:
		return "RL"
	default:
		return "TB"
	}
}

// SortMethod orders nodes into levels in a hierarchical layout.
type SortMethod string

const (
	SortDirected SortMethod = "directed" // by edge direction
	SortHubsize  SortMethod = "hubsize"  // by degree
)

// SortMethods lists all sort methods in display order.
var SortMethods = []SortMethod{SortDirected, SortHubsize}

// ParseMode parses a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidOption, "unknown layout mode %q (want default, hierarchical or circular)", s)
}

// ParseDirection parses a direction. Besides the two-letter codes it
// accepts the Graphviz names TB and BT.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "UD", "TB":
		return DirectionUD, nil
	case "DU", "BT":
		return DirectionDU, nil
	case "LR":
		return DirectionLR, nil
	case "RL":
		return DirectionRL, nil
	}
	return "", errors.New(errors.ErrCodeInvalidOption, "unknown direction %q (want UD, DU, LR or RL)", s)
}

// ParseSortMethod parses a sort method name, case-insensitively.
func ParseSortMethod(s string) (SortMethod, error) {
	for _, m := range SortMethods {
		if strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidOption, "unknown sort method %q (want directed or hubsize)", s)
}
