package layout

import (
	"math"

	"github.com/matzehuels/foodweb/pkg/errors"
)

// Physics holds the four user-tunable force parameters. Gravity is the
// magnitude of the (attractive, hence negative) gravitational constant.
type Physics struct {
	SpringLength   float64 `json:"springLength" toml:"spring_length"`
	SpringConstant float64 `json:"springConstant" toml:"spring_constant"`
	CentralGravity float64 `json:"centralGravity" toml:"central_gravity"`
	Gravity        float64 `json:"gravity" toml:"gravity"`
}

// GravitationalConstant returns the signed constant solvers use.
func (p Physics) GravitationalConstant() float64 { return -math.Abs(p.Gravity) }

// Hierarchy holds the hierarchical layout parameters.
type Hierarchy struct {
	Direction  Direction  `json:"direction" toml:"direction"`
	SortMethod SortMethod `json:"sortMethod" toml:"sort_method"`
}

// Settings is the session's graph options. Fields of inactive modes are
// kept so switching back restores them.
type Settings struct {
	Mode      Mode      `json:"mode" toml:"mode"`
	Physics   Physics   `json:"physics" toml:"physics"`
	Hierarchy Hierarchy `json:"hierarchy" toml:"hierarchy"`
}

// Physics defaults, taken from the forceAtlas2Based solver.
const (
	DefaultSpringLength   = 100
	DefaultSpringConstant = 0.08
	DefaultCentralGravity = 0.01
	DefaultGravity        = 50
)

// DefaultSettings returns the initial options of a new session.
func DefaultSettings() Settings {
	return Settings{
		Mode: ModeDefault,
		Physics: Physics{
			SpringLength:   DefaultSpringLength,
			SpringConstant: DefaultSpringConstant,
			CentralGravity: DefaultCentralGravity,
			Gravity:        DefaultGravity,
		},
		Hierarchy: Hierarchy{Direction: DirectionUD, SortMethod: SortDirected},
	}
}

// Options narrows the settings to the variant of the active mode.
func (s Settings) Options() Options {
	switch s.Mode {
	case ModeHierarchical:
		return HierarchicalOptions{Hierarchy: s.Hierarchy}
	case ModeCircular:
		return CircularOptions{Physics: s.Physics}
	default:
		return DefaultOptions{}
	}
}

// Config resolves the settings to a renderer configuration.
func (s Settings) Config() Config { return Resolve(s.Options()) }

// Validate checks every field, returning the first INVALID_OPTION error.
func (s Settings) Validate() error {
	_, err := Settings{}.Apply(
		WithMode(s.Mode),
		WithSpringLength(s.Physics.SpringLength),
		WithSpringConstant(s.Physics.SpringConstant),
		WithCentralGravity(s.Physics.CentralGravity),
		WithGravity(s.Physics.Gravity),
		WithDirection(s.Hierarchy.Direction),
		WithSortMethod(s.Hierarchy.SortMethod),
	)
	return err
}

// Apply returns s with updates applied in order. If any update fails, s
// is returned unchanged together with the error.
func (s Settings) Apply(updates ...Update) (Settings, error) {
	next := s
	for _, u := range updates {
		var err error
		if next, err = u(next); err != nil {
			return s, err
		}
	}
	return next, nil
}

// =============================================================================
// Typed Updates
// =============================================================================

// Update is a pure, single-field change to Settings.
type Update func(Settings) (Settings, error)

// Accepted parameter ranges.
const (
	MaxSpringLength   = 1000
	MaxSpringConstant = 1
	MaxCentralGravity = 10
	MaxGravity        = 10000
)

// WithMode switches the layout mode.
func WithMode(m Mode) Update {
	return func(s Settings) (Settings, error) {
		parsed, err := ParseMode(string(m))
		if err != nil {
			return s, err
		}
		s.Mode = parsed
		return s, nil
	}
}

// WithSpringLength sets the rest length of edges.
func WithSpringLength(v float64) Update {
	return func(s Settings) (Settings, error) {
		if err := checkRange("springLength", v, 0, MaxSpringLength); err != nil {
			return s, err
		}
		s.Physics.SpringLength = v
		return s, nil
	}
}

// WithSpringConstant sets edge stiffness.
func WithSpringConstant(v float64) Update {
	return func(s Settings) (Settings, error) {
		if err := checkRange("springConstant", v, 0, MaxSpringConstant); err != nil {
			return s, err
		}
		s.Physics.SpringConstant = v
		return s, nil
	}
}

// WithCentralGravity sets the pull toward the center.
func WithCentralGravity(v float64) Update {
	return func(s Settings) (Settings, error) {
		if err := checkRange("centralGravity", v, 0, MaxCentralGravity); err != nil {
			return s, err
		}
		s.Physics.CentralGravity = v
		return s, nil
	}
}

// WithGravity sets the magnitude of the gravitational constant. A
// negative value is read as its magnitude.
func WithGravity(v float64) Update {
	return func(s Settings) (Settings, error) {
		v = math.Abs(v)
		if err := checkRange("gravity", v, 0, MaxGravity); err != nil {
			return s, err
		}
		s.Physics.Gravity = v
		return s, nil
	}
}

// WithDirection sets the hierarchical axis.
func WithDirection(d Direction) Update {
	return func(s Settings) (Settings, error) {
		parsed, err := ParseDirection(string(d))
		if err != nil {
			return s, err
		}
		s.Hierarchy.Direction = parsed
		return s, nil
	}
}

// WithSortMethod sets the hierarchical level ordering.
func WithSortMethod(m SortMethod) Update {
	return func(s Settings) (Settings, error) {
		parsed, err := ParseSortMethod(string(m))
		if err != nil {
			return s, err
		}
		s.Hierarchy.SortMethod = parsed
		return s, nil
	}
}

func checkRange(name string, v, lo, hi float64) error {
	if math.IsNaN(v) || v < lo || v > hi {
		return errors.New(errors.ErrCodeInvalidOption, "%s must be within [%g, %g], got %g", name, lo, hi, v)
	}
	return nil
}
