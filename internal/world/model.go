package world

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/specialistvlad/fieldrover/internal/geo"
)

var (
	// ErrUnknownField is returned for a field that is not in the world.
	ErrUnknownField = errors.New("unknown field")
	// ErrUnknownRow is returned for a row that is not in the field.
	ErrUnknownRow = errors.New("unknown row")
	// ErrNoCharger is returned when the world has no charger entry.
	ErrNoCharger = errors.New("world has no charger")
)

// FieldKey turns an operator-supplied field name ("A") into its world key ("field-a").
func FieldKey(name string) string {
	return "field-" + strings.ToLower(name)
}

// RowKey turns a row number into its world key (4 -> "row-04").
func RowKey(n int) string {
	return fmt.Sprintf("row-%02d", n)
}

// Model guards a Document shared between the shell (reads while validating
// commands) and the task pipeline (reads and writes while executing).
type Model struct {
	mu  sync.RWMutex
	doc *Document
}

// NewModel wraps doc. The model takes ownership of doc.
func NewModel(doc *Document) *Model {
	return &Model{doc: doc}
}

// Charger returns the charger location.
func (m *Model) Charger() (geo.Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.doc.World.Charger == nil {
		return geo.Node{}, ErrNoCharger
	}
	n, err := m.doc.World.Charger.Location.Node()
	if err != nil {
		return geo.Node{}, fmt.Errorf("charger: %w", err)
	}
	return n, nil
}

// ResolveRow returns the location of a row, by world keys.
func (m *Model) ResolveRow(field, row string) (geo.Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, err := m.row(field, row)
	if err != nil {
		return geo.Node{}, err
	}
	n, err := r.Location.Node()
	if err != nil {
		return geo.Node{}, fmt.Errorf("%s %s: %w", field, row, err)
	}
	return n, nil
}

// SetCrop records crop as planted in a row.
func (m *Model) SetCrop(field, row, crop string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, err := m.row(field, row)
	if err != nil {
		return err
	}
	f, _ := m.doc.World.Fields.Get(field)
	r.Crop = crop
	f.Rows.Set(row, r)
	m.doc.World.Fields.Set(field, f)
	return nil
}

func (m *Model) row(field, row string) (Row, error) {
	f, ok := m.doc.World.Fields.Get(field)
	if !ok {
		return Row{}, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	r, ok := f.Rows.Get(row)
	if !ok {
		return Row{}, fmt.Errorf("%w: %s in %s", ErrUnknownRow, row, field)
	}
	return r, nil
}

// RowView is a read-only row summary.
type RowView struct {
	Name     string
	Location Coord
	Crop     string
}

// FieldView is a read-only field summary with rows in world order.
type FieldView struct {
	Name string
	Rows []RowView
}

// Fields returns a summary of every field, in world order.
func (m *Model) Fields() []FieldView {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]FieldView, 0, m.doc.World.Fields.Len())
	for _, name := range m.doc.World.Fields.Keys() {
		f, _ := m.doc.World.Fields.Get(name)
		view := FieldView{Name: name}
		for _, rowName := range f.Rows.Keys() {
			r, _ := f.Rows.Get(rowName)
			view.Rows = append(view.Rows, RowView{
				Name:     rowName,
				Location: append(Coord(nil), r.Location...),
				Crop:     r.Crop,
			})
		}
		out = append(out, view)
	}
	return out
}

// Snapshot returns a deep copy of the current document, safe to encode while
// the model keeps changing.
func (m *Model) Snapshot() *Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.doc.Clone()
}
