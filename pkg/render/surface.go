package render

import (
	"maps"
	"sync"

	"github.com/matzehuels/foodweb/pkg/errors"
	"github.com/matzehuels/foodweb/pkg/graph"
)

// Reason says why a frame was presented.
type Reason string

const (
	ReasonData       Reason = "data"       // new nodes or edges
	ReasonOptions    Reason = "options"    // new configuration
	ReasonStabilized Reason = "stabilized" // a stabilization pass finished
)

// Frame is one picture presented on a surface. Position-based backends
// fill Positions; artifact-based backends fill Artifact and Format.
type Frame struct {
	Seq        int64
	Reason     Reason
	Positions  map[string]graph.Point
	Artifact   []byte
	Format     string
	Iterations int
	Converged  bool
}

// Surface is the display target of a renderer. At most one owner may
// hold it at a time.
type Surface struct {
	Width  float64
	Height float64

	mu      sync.Mutex
	owner   string
	present func(Frame)
	seq     int64
	last    Frame
	hasLast bool
}

// NewSurface creates a surface. present is called with every frame and
// may be nil.
func NewSurface(width, height float64, present func(Frame)) *Surface {
	return &Surface{Width: width, Height: height, present: present}
}

// Bind claims the surface for owner. Binding an owned surface fails with
// SURFACE_BUSY; rebinding by the current owner is a no-op.
func (s *Surface) Bind(owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owner != "" && s.owner != owner {
		return errors.New(errors.ErrCodeSurfaceBusy, "surface is bound to %s", s.owner)
	}
	s.owner = owner
	return nil
}

// Release gives up ownership. Releasing a surface owned by someone else
// does nothing.
func (s *Surface) Release(owner string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owner == owner {
		s.owner = ""
	}
}

// Owner returns the current owner, or "" when unbound.
func (s *Surface) Owner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.owner
}

// Present numbers the frame, remembers it as the surface's visual state
// and hands it to the sink.
func (s *Surface) Present(f Frame) {
	s.mu.Lock()
	s.seq++
	f.Seq = s.seq
	f.Positions = maps.Clone(f.Positions)
	s.last, s.hasLast = f, true
	present := s.present
	s.mu.Unlock()

	if present != nil {
		present(f)
	}
}

// Last returns the most recently presented frame.
func (s *Surface) Last() (Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.hasLast
}
