package layout

// Options is the mode-specific view of Settings. It is one of
// DefaultOptions, HierarchicalOptions or CircularOptions.
type Options interface {
	Mode() Mode
	isOptions()
}

// DefaultOptions selects the general-purpose force-directed layout. It
// has no tunable fields.
type DefaultOptions struct{}

// HierarchicalOptions selects a layered layout.
type HierarchicalOptions struct {
	Hierarchy
}

// CircularOptions selects force-directed physics driven by the user's
// four physics values, starting from nodes placed on a circle.
type CircularOptions struct {
	Physics
}

func (DefaultOptions) Mode() Mode { return ModeDefault }
func (HierarchicalOptions) Mode() Mode { return ModeHierarchical }
func (CircularOptions) Mode() Mode { return ModeCircular }

func (DefaultOptions) isOptions() {}
func (HierarchicalOptions) isOptions() {}
func (CircularOptions) isOptions() {}
