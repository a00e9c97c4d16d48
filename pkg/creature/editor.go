package creature

import (
	"github.com/matzehuels/foodweb/pkg/errors"
)

// Draft is the raw content of the add/edit form.
type Draft struct {
	Name  string
	Eats  string
	Color string
}

// EmptyDraft is the cleared form: no name, no prey, default color.
func EmptyDraft() Draft {
	return Draft{Color: DefaultColor}
}

// Editor is the form state machine over a Store.
//
// It is either idle or editing one record. DuplicateName is raised when
// Add is rejected because the name is blank or taken (or a strict edit
// because the name is taken), and
// ImportFailed when a snapshot could not be adopted; both clear on the
// next successful operation of the same kind.
type Editor struct {
	Store         *Store
	Draft         Draft
	DuplicateName bool
	ImportFailed  bool

	editing int
}

// NewEditor returns an idle editor with an empty draft.
func NewEditor(s *Store) *Editor {
	return &Editor{Store: s, Draft: EmptyDraft(), editing: -1}
}

// Editing returns the index being edited and whether edit mode is active.
func (e *Editor) Editing() (int, bool) {
	return e.editing, e.editing >= 0
}

// Add appends the draft as a new creature. A blank or taken name raises
// DuplicateName and is reported as BLANK_NAME or DUPLICATE_NAME. On
// success the draft is cleared.
func (e *Editor) Add() error {
	_, err := e.Store.Add(e.Draft.Name, e.Draft.Eats, e.Draft.Color)
	if err != nil {
		if errors.Is(err, errors.ErrCodeDuplicateName) || errors.Is(err, errors.ErrCodeBlankName) {
			e.DuplicateName = true
		}
		return err
	}
	e.DuplicateName = false
	e.reset()
	return nil
}

// StartEdit loads the record at index into the draft and enters edit mode.
func (e *Editor) StartEdit(index int) error {
	c, err := e.Store.Get(index)
	if err != nil {
		return err
	}
	e.Draft = Draft{Name: c.Name, Eats: c.EatsText(), Color: c.Color}
	e.editing = index
	return nil
}

// CommitEdit replaces the record being edited with the draft. A blank
// name is a no-op: the editor stays in edit mode and the store is
// untouched.
func (e *Editor) CommitEdit() error {
	if e.editing < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "not editing")
	}
	if err := e.Store.Replace(e.editing, e.Draft.Name, e.Draft.Eats, e.Draft.Color); err != nil {
		if errors.Is(err, errors.ErrCodeDuplicateName) {
			e.DuplicateName = true
		}
		return err
	}
	e.DuplicateName = false
	e.reset()
	return nil
}

// CancelEdit discards the draft and leaves edit mode.
func (e *Editor) CancelEdit() {
	e.reset()
}

// Remove deletes the record at index, keeping edit mode pointed at the
// same record when an earlier one is removed and leaving it when the
// edited record itself goes away.
func (e *Editor) Remove(index int) error {
	if err := e.Store.Remove(index); err != nil {
		return err
	}
	switch {
	case e.editing == index:
		e.reset()
	case e.editing > index:
		e.editing--
	}
	return nil
}

// Import replaces the collection with a JSON snapshot. On failure
// ImportFailed is raised and the store is unchanged.
func (e *Editor) Import(data []byte) error {
	creatures, err := Import(data)
	if err == nil {
		err = e.Store.Reset(creatures)
	}
	if err != nil {
		e.ImportFailed = true
		return err
	}
	e.ImportFailed = false
	e.reset()
	return nil
}

// Export serializes the current collection.
func (e *Editor) Export() ([]byte, error) {
	return Export(e.Store.List())
}

func (e *Editor) reset() {
	e.Draft = EmptyDraft()
	e.editing = -1
}
