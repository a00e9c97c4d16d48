package creature

import (
	"slices"
	"strings"

	"github.com/matzehuels/foodweb/pkg/errors"
)

// Store is the ordered creature collection.
//
// Names are unique: Add and Reset reject duplicates, and so does Replace
// unless the store was created with WithUniqueEdits(false). Failed
// operations leave the store unchanged.
//
// Store is not safe for concurrent use; callers that share one across
// goroutines must serialize access (see the workspace package).
type Store struct {
	items       []Creature
	revision    uint64
	uniqueEdits bool
}

// Option configures a Store.
type Option func(*Store)

// WithUniqueEdits controls whether Replace rejects a name already used by
// another record. Enabled by default. Disabling it allows an edit to
// introduce a duplicate, after which the graph builder keeps only the
// first record's color for that name.
func WithUniqueEdits(enabled bool) Option {
	return func(s *Store) { s.uniqueEdits = enabled }
}

// NewStore returns an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{uniqueEdits: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add appends a creature built from raw form values.
// It fails with BLANK_NAME for a blank name and DUPLICATE_NAME when a
// record with the same (case-sensitive) name exists.
func (s *Store) Add(name, eats, color string) (Creature, error) {
	return s.Append(New(name, eats, color))
}

// Append adds an already-structured creature, normalizing it the same way
// Add does.
func (s *Store) Append(c Creature) (Creature, error) {
	c = normalize(c)
	if err := validate(c); err != nil {
		return Creature{}, err
	}
	if s.IndexOf(c.Name) >= 0 {
		return Creature{}, errors.New(errors.ErrCodeDuplicateName, "creature %q already exists", c.Name)
	}
	s.items = append(s.items, c)
	s.revision++
	return c.Clone(), nil
}

// Replace overwrites the record at index with a creature built from raw
// form values. The whole record is replaced.
func (s *Store) Replace(index int, name, eats, color string) error {
	return s.Set(index, New(name, eats, color))
}

// Set overwrites the record at index with an already-structured creature.
func (s *Store) Set(index int, c Creature) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	c = normalize(c)
	if err := validate(c); err != nil {
		return err
	}
	if s.uniqueEdits {
		if i := s.IndexOf(c.Name); i >= 0 && i != index {
			return errors.New(errors.ErrCodeDuplicateName, "creature %q already exists", c.Name)
		}
	}
	s.items[index] = c
	s.revision++
	return nil
}

// Remove deletes the record at index. Other creatures' eats lists are
// left alone; a removed creature still referenced as prey reappears in
// the graph as a plain food node.
func (s *Store) Remove(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.items = slices.Delete(s.items, index, index+1)
	s.revision++
	return nil
}

// Reset replaces the whole collection. Every creature is normalized and
// validated and names must be unique; on error nothing changes.
func (s *Store) Reset(creatures []Creature) error {
	next := make([]Creature, 0, len(creatures))
	seen := make(map[string]struct{}, len(creatures))
	for i, c := range creatures {
		c = normalize(c)
		if err := validate(c); err != nil {
			return errors.Wrap(errors.GetCode(err), err, "creature %d", i)
		}
		if _, dup := seen[c.Name]; dup {
			return errors.New(errors.ErrCodeDuplicateName, "creature %d: %q appears more than once", i, c.Name)
		}
		seen[c.Name] = struct{}{}
		next = append(next, c)
	}
	s.items = next
	s.revision++
	return nil
}

// Get returns a copy of the record at index.
func (s *Store) Get(index int) (Creature, error) {
	if err := s.checkIndex(index); err != nil {
		return Creature{}, err
	}
	return s.items[index].Clone(), nil
}

// IndexOf returns the index of the record named name, or -1.
func (s *Store) IndexOf(name string) int {
	return slices.IndexFunc(s.items, func(c Creature) bool { return c.Name == name })
}

// Len returns the number of records.
func (s *Store) Len() int { return len(s.items) }

// List returns a copy of all records in insertion order.
func (s *Store) List() []Creature {
	out := make([]Creature, len(s.items))
	for i, c := range s.items {
		out[i] = c.Clone()
	}
	return out
}

// Names returns the creature names in insertion order.
func (s *Store) Names() []string {
	out := make([]string, len(s.items))
	for i, c := range s.items {
		out[i] = c.Name
	}
	return out
}

// Revision increases by one on every successful mutation.
func (s *Store) Revision() uint64 { return s.revision }

// UniqueEdits reports whether Replace enforces name uniqueness.
func (s *Store) UniqueEdits() bool { return s.uniqueEdits }

func (s *Store) checkIndex(index int) error {
	if index < 0 || index >= len(s.items) {
		return errors.New(errors.ErrCodeOutOfRange, "index %d out of range [0,%d)", index, len(s.items))
	}
	return nil
}

func normalize(c Creature) Creature {
	eats := make([]string, 0, len(c.Eats))
	for _, e := range c.Eats {
		if e = strings.TrimSpace(e); e != "" {
			eats = append(eats, e)
		}
	}
	return Creature{
		Name:  strings.TrimSpace(c.Name),
		Eats:  eats,
		Color: normalizeColor(c.Color),
	}
}

func validate(c Creature) error {
	if err := errors.ValidateName(c.Name); err != nil {
		return err
	}
	return errors.ValidateColor(c.Color)
}
