// Package grid turns a page of arbitrary items into a neutral view model using
// column and action descriptors supplied by the entity-specific caller.
package grid

import (
	"fmt"
	"strconv"
	"time"

	"github.com/RezaEskandarii/recordgrid/internal/query"
)

const (
	SkeletonRows     = 5
	DefaultEmptyText = "Aucune donnée disponible"
	rowKeyField      = "id"
)

// Column describes one grid column. Render is optional; without it the value
// is rendered by its shape.
type Column[T any] struct {
	Key      string
	Label    string
	Render   func(value any, row T) Cell
	Sortable bool
	Width    string
}

// RowAction is one entry of the row action menu. Link is optional and lets
// hypermedia hosts turn the action into a navigation.
type RowAction[T any] struct {
	Label       string
	Effect      func(row T)
	Destructive bool
	Link        func(row T) string
}

type Mode int

const (
	ModeTable Mode = iota
	ModeSkeleton
	ModeEmpty
	ModeError
)

func (m Mode) String() string {
	switch m {
	case ModeSkeleton:
		return "skeleton"
	case ModeEmpty:
		return "empty"
	case ModeError:
		return "error"
	}
	return "table"
}

type Header struct {
	Key      string
	Label    string
	Width    string
	Sortable bool
	Active   bool
	Dir      query.SortDir
}

type ActionView struct {
	Index       int
	Label       string
	Destructive bool
	Href        string
}

type Row struct {
	Key     string
	Index   int
	Cells   []Cell
	Actions []ActionView
}

type View struct {
	Mode       Mode
	Headers    []Header
	Rows       []Row
	Message    string
	HasActions bool
}

// Input is what the renderer reads. Items are never re-sorted.
type Input[T any] struct {
	Items     []T
	Loading   bool
	Err       string
	SortField string
	SortDir   query.SortDir
	EmptyText string
}

type Option func(*settings)

type settings struct {
	emptyText string
	location  *time.Location
}

// WithEmptyText replaces the default empty-state message.
func WithEmptyText(text string) Option {
	return func(s *settings) { s.emptyText = text }
}

// WithLocation sets the zone dates are displayed in.
func WithLocation(loc *time.Location) Option {
	return func(s *settings) { s.location = loc }
}

type Grid[T any] struct {
	columns  []Column[T]
	actions  []RowAction[T]
	settings settings
}

func New[T any](columns []Column[T], actions []RowAction[T], opts ...Option) *Grid[T] {
	s := settings{emptyText: DefaultEmptyText, location: time.Local}
	for _, opt := range opts {
		opt(&s)
	}
	return &Grid[T]{columns: columns, actions: actions, settings: s}
}

func (g *Grid[T]) Columns() []Column[T] { return g.columns }

func (g *Grid[T]) Actions() []RowAction[T] { return g.actions }

func (g *Grid[T]) Render(in Input[T]) View {
	v := View{
		Headers:    g.headers(in.SortField, in.SortDir),
		HasActions: len(g.actions) > 0,
	}

	switch {
	case in.Loading:
		v.Mode = ModeSkeleton
		v.Rows = g.skeleton()
	case in.Err != "":
		v.Mode = ModeError
		v.Message = in.Err
	case len(in.Items) == 0:
		v.Mode = ModeEmpty
		v.Message = in.EmptyText
		if v.Message == "" {
			v.Message = g.settings.emptyText
		}
	default:
		v.Mode = ModeTable
		v.Rows = make([]Row, len(in.Items))
		for i, item := range in.Items {
			v.Rows[i] = g.row(i, item)
		}
	}
	return v
}

// Trigger runs action i on row. It is an error to name an action that does
// not exist or has no effect.
func (g *Grid[T]) Trigger(i int, row T) error {
	if i < 0 || i >= len(g.actions) {
		return fmt.Errorf("grid: no action at index %d", i)
	}
	if g.actions[i].Effect == nil {
		return fmt.Errorf("grid: action %q has no effect", g.actions[i].Label)
	}
	g.actions[i].Effect(row)
	return nil
}

// RowKey is the item's id field, or its position when it has none.
func RowKey(item any, index int) string {
	if v, ok := Lookup(item, rowKeyField); ok && v != nil {
		if s := fmt.Sprint(v); s != "" {
			return s
		}
	}
	return strconv.Itoa(index)
}

func (g *Grid[T]) headers(sortField string, dir query.SortDir) []Header {
	out := make([]Header, len(g.columns))
	for i, c := range g.columns {
		h := Header{Key: c.Key, Label: c.Label, Width: c.Width, Sortable: c.Sortable}
		if c.Sortable && c.Key == sortField {
			h.Active = true
			h.Dir = dir
		}
		out[i] = h
	}
	return out
}

func (g *Grid[T]) skeleton() []Row {
	width := len(g.columns)
	if len(g.actions) > 0 {
		width++
	}
	rows := make([]Row, SkeletonRows)
	for i := range rows {
		cells := make([]Cell, width)
		for j := range cells {
			cells[j] = Cell{Kind: KindSkeleton}
		}
		rows[i] = Row{Key: "skeleton-" + strconv.Itoa(i), Index: i, Cells: cells}
	}
	return rows
}

func (g *Grid[T]) row(index int, item T) Row {
	r := Row{Key: RowKey(item, index), Index: index, Cells: make([]Cell, len(g.columns))}
	for i, c := range g.columns {
		value, _ := Lookup(item, c.Key)
		if c.Render != nil {
			r.Cells[i] = c.Render(value, item)
			continue
		}
		r.Cells[i] = DefaultCell(value, g.settings.location)
	}
	if len(g.actions) > 0 {
		r.Actions = make([]ActionView, len(g.actions))
		for i, a := range g.actions {
			av := ActionView{Index: i, Label: a.Label, Destructive: a.Destructive}
			if a.Link != nil {
				av.Href = a.Link(item)
			}
			r.Actions[i] = av
		}
	}
	return r
}
