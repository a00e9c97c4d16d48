// Package creature holds the user-edited list of creatures that makes up
// a food web.
//
// A [Creature] is a name, a list of prey names it eats and a fill color.
// The [Store] keeps creatures in insertion order and guarantees that no two
// records share a name. Prey names are free text: they may refer to other
// creatures in the store or to anything else (grass, berries, sunlight).
//
// # Editing
//
// [Editor] wraps a Store with the state of an add/edit form: the current
// [Draft], the index being edited and the flags a user interface shows
// after a rejected operation.
//
//	s := creature.NewStore()
//	ed := creature.NewEditor(s)
//	ed.Draft = creature.Draft{Name: "Fox", Eats: "Rabbit, Mouse"}
//	ed.Add()
//
// # Snapshots
//
// [Export] and [Import] convert the collection to and from the JSON array
// written to food-web.json. Import is all-or-nothing: a malformed file or
// an invalid element leaves the store untouched. [ExportYAML] and
// [ImportYAML] provide the same model as YAML.
package creature
