package layout

import (
	"math"
	"testing"

	"github.com/matzehuels/foodweb/pkg/errors"
)

func TestDefaultSettingsValid(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Errorf("DefaultSettings().Validate() = %v", err)
	}
}

func TestUpdatesTouchOneField(t *testing.T) {
	base := DefaultSettings()

	tests := []struct {
		name   string
		update Update
		check  func(Settings) bool
	}{
		{"mode", WithMode(ModeCircular), func(s Settings) bool {
			return s.Mode == ModeCircular
		}},
		{"spring length", WithSpringLength(250), func(s Settings) bool {
			return s.Physics.SpringLength == 250
		}},
		{"spring constant", WithSpringConstant(0.5), func(s Settings) bool {
			return s.Physics.SpringConstant == 0.5
		}},
		{"central gravity", WithCentralGravity(2), func(s Settings) bool {
			return s.Physics.CentralGravity == 2
		}},
		{"gravity", WithGravity(120), func(s Settings) bool {
			return s.Physics.Gravity == 120
		}},
		{"direction", WithDirection(DirectionRL), func(s Settings) bool {
			return s.Hierarchy.Direction == DirectionRL
		}},
		{"sort method", WithSortMethod(SortHubsize), func(s Settings) bool {
			return s.Hierarchy.SortMethod == SortHubsize
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := base.Apply(tt.update)
			if err != nil {
				t.Fatalf("Apply() error: %v", err)
			}
			if !tt.check(got) {
				t.Errorf("field not updated: %+v", got)
			}
			// Count differing fields: exactly one.
			diffs := 0
			if got.Mode != base.Mode {
				diffs++
			}
			if got.Physics.SpringLength != base.Physics.SpringLength {
				diffs++
			}
			if got.Physics.SpringConstant != base.Physics.SpringConstant {
				diffs++
			}
			if got.Physics.CentralGravity != base.Physics.CentralGravity {
				diffs++
			}
			if got.Physics.Gravity != base.Physics.Gravity {
				diffs++
			}
			if got.Hierarchy.Direction != base.Hierarchy.Direction {
				diffs++
			}
			if got.Hierarchy.SortMethod != base.Hierarchy.SortMethod {
				diffs++
			}
			if diffs != 1 {
				t.Errorf("update changed %d fields, want 1: %+v", diffs, got)
			}
		})
	}

	if base != DefaultSettings() {
		t.Error("Apply mutated its receiver")
	}
}

func TestApplyRejects(t *testing.T) {
	base := DefaultSettings()
	tests := []struct {
		name   string
		update Update
	}{
		{"unknown mode", WithMode("spiral")},
		{"negative spring length", WithSpringLength(-1)},
		{"huge spring constant", WithSpringConstant(3)},
		{"NaN central gravity", WithCentralGravity(math.NaN())},
		{"huge gravity", WithGravity(1e9)},
		{"unknown direction", WithDirection("NE")},
		{"unknown sort", WithSortMethod("alphabetical")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := base.Apply(WithSpringLength(300), tt.update)
			if !errors.Is(err, errors.ErrCodeInvalidOption) {
				t.Errorf("Apply() error = %v, want %v", err, errors.ErrCodeInvalidOption)
			}
			if got != base {
				t.Errorf("failed Apply returned %+v, want unchanged", got)
			}
		})
	}
}

func TestWithGravityMagnitude(t *testing.T) {
	s, err := DefaultSettings().Apply(WithGravity(-80))
	if err != nil {
		t.Fatal(err)
	}
	if s.Physics.Gravity != 80 || s.Physics.GravitationalConstant() != -80 {
		t.Errorf("Gravity = %v, constant = %v", s.Physics.Gravity, s.Physics.GravitationalConstant())
	}
}

func TestParseNormalizes(t *testing.T) {
	s, err := DefaultSettings().Apply(WithMode("Hierarchical"), WithDirection("bt"), WithSortMethod("HUBSIZE"))
	if err != nil {
		t.Fatal(err)
	}
	if s.Mode != ModeHierarchical || s.Hierarchy.Direction != DirectionDU || s.Hierarchy.SortMethod != SortHubsize {
		t.Errorf("Apply() = %+v", s)
	}
}

func TestOptionsVariant(t *testing.T) {
	s := DefaultSettings()
	if _, ok := s.Options().(DefaultOptions); !ok {
		t.Errorf("Options() = %T, want DefaultOptions", s.Options())
	}

	s.Mode = ModeHierarchical
	h, ok := s.Options().(HierarchicalOptions)
	if !ok || h.Direction != DirectionUD {
		t.Errorf("Options() = %#v", s.Options())
	}

	s.Mode = ModeCircular
	c, ok := s.Options().(CircularOptions)
	if !ok || c.SpringLength != DefaultSpringLength {
		t.Errorf("Options() = %#v", s.Options())
	}
}

func TestPatchUpdates(t *testing.T) {
	mode := ModeCircular
	length := 42.0
	p := Patch{Mode: &mode, SpringLength: &length}
	if p.Empty() {
		t.Fatal("Empty() = true")
	}
	s, err := DefaultSettings().Apply(p.Updates()...)
	if err != nil {
		t.Fatal(err)
	}
	if s.Mode != ModeCircular || s.Physics.SpringLength != 42 || s.Physics.Gravity != DefaultGravity {
		t.Errorf("Apply(patch) = %+v", s)
	}
	if !(Patch{}).Empty() {
		t.Error("zero Patch should be empty")
	}
}
