package creature

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/foodweb/pkg/errors"
)

// SnapshotFilename is the name offered for downloaded snapshots.
const SnapshotFilename = "food-web.json"

// structValidator is shared by all imports; validator.Validate caches
// struct metadata and is safe for concurrent use.
var structValidator = validator.New()

// record is the permissive on-disk shape of one creature. Eats may be a
// list of names or, as older snapshots wrote it, a single comma string.
type record struct {
	Name  string `json:"name" yaml:"name" validate:"required,max=256"`
	Eats  any    `json:"eats" yaml:"eats"`
	Color string `json:"color" yaml:"color" validate:"omitempty,hexcolor"`
}

// Export serializes creatures as a pretty-printed JSON array.
// Eats is always written as an array, never null.
func Export(creatures []Creature) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, creatures); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteSnapshot writes creatures as a pretty-printed JSON array to w.
func WriteSnapshot(w io.Writer, creatures []Creature) error {
	out := make([]Creature, len(creatures))
	for i, c := range creatures {
		out[i] = c.Clone()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Import parses a JSON snapshot. The top level must be an array and each
// element must describe a valid creature with a unique name; otherwise
// the whole import fails with INVALID_SNAPSHOT.
func Import(data []byte) ([]Creature, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "snapshot is not a JSON array")
	}
	if raw == nil {
		return nil, errors.New(errors.ErrCodeInvalidSnapshot, "snapshot is not a JSON array")
	}

	recs := make([]record, len(raw))
	for i, msg := range raw {
		if err := json.Unmarshal(msg, &recs[i]); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "creature %d", i)
		}
	}
	return fromRecords(recs)
}

// ReadSnapshot reads and parses a JSON snapshot from r.
func ReadSnapshot(r io.Reader) ([]Creature, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return Import(data)
}

// ExportYAML serializes creatures as a YAML sequence.
func ExportYAML(creatures []Creature) ([]byte, error) {
	out := make([]Creature, len(creatures))
	for i, c := range creatures {
		out[i] = c.Clone()
	}
	data, err := yaml.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return data, nil
}

// ImportYAML parses a YAML snapshot with the same rules as Import.
func ImportYAML(data []byte) ([]Creature, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "invalid yaml")
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 || doc.Content[0].Kind != yaml.SequenceNode {
		return nil, errors.New(errors.ErrCodeInvalidSnapshot, "snapshot is not a YAML sequence")
	}

	seq := doc.Content[0].Content
	recs := make([]record, len(seq))
	for i, n := range seq {
		if err := n.Decode(&recs[i]); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "creature %d", i)
		}
	}
	return fromRecords(recs)
}

// IsYAML reports whether a snapshot path should be decoded as YAML.
func IsYAML(path string) bool {
	p := strings.ToLower(path)
	return strings.HasSuffix(p, ".yaml") || strings.HasSuffix(p, ".yml")
}

// Decode picks the JSON or YAML codec by file name.
func Decode(path string, data []byte) ([]Creature, error) {
	if IsYAML(path) {
		return ImportYAML(data)
	}
	return Import(data)
}

func fromRecords(recs []record) ([]Creature, error) {
	out := make([]Creature, 0, len(recs))
	seen := make(map[string]struct{}, len(recs))
	for i, rec := range recs {
		rec.Name = strings.TrimSpace(rec.Name)
		rec.Color = strings.TrimSpace(rec.Color)
		if err := structValidator.Struct(rec); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSnapshot, formatValidationError(err), "creature %d", i)
		}
		eats, err := eatsFrom(rec.Eats)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "creature %d", i)
		}
		if _, dup := seen[rec.Name]; dup {
			return nil, errors.New(errors.ErrCodeInvalidSnapshot, "creature %d: duplicate name %q", i, rec.Name)
		}
		c := normalize(Creature{Name: rec.Name, Eats: eats, Color: rec.Color})
		if err := validate(c); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "creature %d", i)
		}
		seen[rec.Name] = struct{}{}
		out = append(out, c)
	}
	return out, nil
}

func eatsFrom(v any) ([]string, error) {
	switch v := v.(type) {
	case nil:
		return []string{}, nil
	case string:
		return ParseEats(v), nil
	case []any:
		out := make([]string, 0, len(v))
		for j, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("eats[%d]: want string, got %T", j, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("eats: want list of names, got %T", v)
	}
}

func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	for _, e := range verrs {
		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", e.Field())
		case "max":
			return fmt.Errorf("%s: must not exceed %s characters", e.Field(), e.Param())
		case "hexcolor":
			return fmt.Errorf("%s: %q is not a hex color", e.Field(), e.Value())
		default:
			return fmt.Errorf("%s: validation failed (%s)", e.Field(), e.Tag())
		}
	}
	return err
}
