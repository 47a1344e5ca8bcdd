// Package world holds the persisted world model: fields, rows, paths and the
// charger. It loads and saves the model, keeps it consistent while tasks
// mutate it, and turns it into the location graph.
package world

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/specialistvlad/fieldrover/internal/geo"
	"gopkg.in/yaml.v3"
)

// Document is the top level of a world file.
type Document struct {
	// Customer is carried through untouched.
	Customer Opaque `json:"customer" yaml:"customer"`
	World    World  `json:"world" yaml:"world"`
}

// World is the map the rover operates in.
type World struct {
	Fields  OrderedMap[Field]             `json:"fields" yaml:"fields"`
	Paths   OrderedMap[OrderedMap[Coord]] `json:"paths" yaml:"paths"`
	Charger *Charger                      `json:"charger,omitempty" yaml:"charger,omitempty"`
}

// Field is a named group of rows.
type Field struct {
	Rows OrderedMap[Row] `json:"rows" yaml:"rows"`
}

// Row is a plantable row at a fixed location. Keys other than location and
// crop are carried through untouched, in their original order.
type Row struct {
	Location Coord
	Crop     string

	// attrs holds every key as read, including location and crop, so a save
	// writes the keys back in the order they were loaded.
	attrs OrderedMap[Opaque]
}

const (
	rowLocationKey = "location"
	rowCropKey     = "crop"
)

// encoded lays the row out for writing: known keys take their current
// values, the rest keep their raw form.
func (r Row) encoded() OrderedMap[any] {
	var out OrderedMap[any]
	for _, k := range r.attrs.Keys() {
		switch k {
		case rowLocationKey:
			out.Set(k, r.Location)
		case rowCropKey:
			out.Set(k, r.Crop)
		default:
			v, _ := r.attrs.Get(k)
			out.Set(k, v)
		}
	}
	if _, ok := out.Get(rowLocationKey); !ok {
		out.Set(rowLocationKey, r.Location)
	}
	if _, ok := out.Get(rowCropKey); !ok {
		out.Set(rowCropKey, r.Crop)
	}
	return out
}

func (r *Row) decoded(attrs OrderedMap[Opaque]) error {
	*r = Row{attrs: attrs}
	if v, ok := attrs.Get(rowLocationKey); ok {
		if err := v.decode(&r.Location); err != nil {
			return fmt.Errorf("%s: %w", rowLocationKey, err)
		}
	}
	if v, ok := attrs.Get(rowCropKey); ok {
		if err := v.decode(&r.Crop); err != nil {
			return fmt.Errorf("%s: %w", rowCropKey, err)
		}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (r Row) MarshalJSON() ([]byte, error) {
	return r.encoded().MarshalJSON()
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Row) UnmarshalJSON(data []byte) error {
	var attrs OrderedMap[Opaque]
	if err := attrs.UnmarshalJSON(data); err != nil {
		return err
	}
	return r.decoded(attrs)
}

// MarshalYAML implements yaml.Marshaler.
func (r Row) MarshalYAML() (any, error) {
	return r.encoded().MarshalYAML()
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *Row) UnmarshalYAML(node *yaml.Node) error {
	var attrs OrderedMap[Opaque]
	if err := attrs.UnmarshalYAML(node); err != nil {
		return err
	}
	return r.decoded(attrs)
}

// Charger is the rover's home location.
type Charger struct {
	Location Coord `json:"location" yaml:"location"`
}

// Coord is a two-element [x, y] coordinate as stored on disk.
type Coord []int

// Node validates c and converts it.
func (c Coord) Node() (geo.Node, error) {
	return geo.FromPair(c)
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	out := &Document{Customer: d.Customer}
	out.World.Fields = d.World.Fields.Clone(func(f Field) Field {
		return Field{Rows: f.Rows.Clone(func(r Row) Row {
			return Row{
				Location: append(Coord(nil), r.Location...),
				Crop:     r.Crop,
				attrs:    r.attrs.Clone(func(o Opaque) Opaque { return o }),
			}
		})}
	})
	out.World.Paths = d.World.Paths.Clone(func(p OrderedMap[Coord]) OrderedMap[Coord] {
		return p.Clone(func(c Coord) Coord { return append(Coord(nil), c...) })
	})
	if d.World.Charger != nil {
		out.World.Charger = &Charger{Location: append(Coord(nil), d.World.Charger.Location...)}
	}
	return out
}

// Opaque holds a value that is read and written back without interpretation.
// It keeps the original encoding so key order inside it is preserved too.
type Opaque struct {
	raw  json.RawMessage
	node *yaml.Node
}

// IsZero reports whether nothing was decoded.
func (o Opaque) IsZero() bool {
	return o.raw == nil && o.node == nil
}

// MarshalJSON implements json.Marshaler.
func (o Opaque) MarshalJSON() ([]byte, error) {
	switch {
	case o.raw != nil:
		return o.raw, nil
	case o.node != nil:
		var v any
		if err := o.node.Decode(&v); err != nil {
			return nil, err
		}
		return json.Marshal(v)
	default:
		return []byte("null"), nil
	}
}

// decode interprets the held value into v.
func (o Opaque) decode(v any) error {
	switch {
	case o.raw != nil:
		return json.Unmarshal(o.raw, v)
	case o.node != nil:
		return o.node.Decode(v)
	default:
		return nil
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Opaque) UnmarshalJSON(data []byte) error {
	o.raw = append(json.RawMessage(nil), data...)
	o.node = nil
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (o Opaque) MarshalYAML() (any, error) {
	switch {
	case o.node != nil:
		return o.node, nil
	case o.raw != nil:
		var v any
		if err := json.Unmarshal(o.raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, nil
	}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (o *Opaque) UnmarshalYAML(node *yaml.Node) error {
	copied := *node
	o.node = &copied
	o.raw = nil
	return nil
}

// Format is an on-disk encoding of a Document.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// ErrDecode marks a world file that was read but could not be parsed.
var ErrDecode = errors.New("invalid world document")

// Decode parses data in the given format.
func Decode(data []byte, format Format) (*Document, error) {
	var doc Document
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return &doc, nil
}

// Encode serializes doc in the given format. JSON is indented with four
// spaces.
func Encode(doc *Document, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(doc)
	default:
		out, err := json.MarshalIndent(doc, "", "    ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	}
}
