// Package layout maps user-facing graph options to renderer configuration.
//
// [Settings] holds everything the user can tune: the layout [Mode], the
// four physics values and the hierarchy parameters. It is changed only
// through the closed set of typed [Update] functions, each of which
// touches exactly one field:
//
//	s, err := layout.DefaultSettings().Apply(
//	    layout.WithMode(layout.ModeHierarchical),
//	    layout.WithDirection(layout.DirectionLR),
//	)
//
// [Settings.Options] narrows the settings to the tagged variant for the
// active mode ([DefaultOptions], [HierarchicalOptions] or
// [CircularOptions]) so that each mode only sees the fields it uses, and
// [Resolve] turns a variant into a full [Config]. Config marshals to the
// option object of the vis-network browser library and also carries the
// Graphviz engine settings used for static rendering.
package layout
