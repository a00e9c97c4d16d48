package layout

// Patch is a partial settings change as received from the HTTP API or
// command-line flags. Nil fields are left alone.
type Patch struct {
	Mode           *Mode       `json:"mode,omitempty"`
	SpringLength   *float64    `json:"springLength,omitempty"`
	SpringConstant *float64    `json:"springConstant,omitempty"`
	CentralGravity *float64    `json:"centralGravity,omitempty"`
	Gravity        *float64    `json:"gravity,omitempty"`
	Direction      *Direction  `json:"direction,omitempty"`
	SortMethod     *SortMethod `json:"sortMethod,omitempty"`
}

// Updates converts the patch to typed updates, in field order.
func (p Patch) Updates() []Update {
	var out []Update
	if p.Mode != nil {
		out = append(out, WithMode(*p.Mode))
	}
	if p.SpringLength != nil {
		out = append(out, WithSpringLength(*p.SpringLength))
	}
	if p.SpringConstant != nil {
		out = append(out, WithSpringConstant(*p.SpringConstant))
	}
	if p.CentralGravity != nil {
		out = append(out, WithCentralGravity(*p.CentralGravity))
	}
	if p.Gravity != nil {
		out = append(out, WithGravity(*p.Gravity))
	}
	if p.Direction != nil {
		out = append(out, WithDirection(*p.Direction))
	}
	if p.SortMethod != nil {
		out = append(out, WithSortMethod(*p.SortMethod))
	}
	return out
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool { return len(p.Updates()) == 0 }
