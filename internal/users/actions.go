package users

import (
	"github.com/RezaEskandarii/recordgrid/internal/grid"
	"github.com/RezaEskandarii/recordgrid/types"
)

const (
	ActionEdit   = "Modifier"
	ActionToggle = "Changer le statut"
	ActionDelete = "Supprimer"
)

// Handlers wires row actions to a host. Effects run in-process; links are
// used by hypermedia hosts. Either may be nil.
type Handlers struct {
	Edit   func(types.User)
	Toggle func(types.User)
	Delete func(types.User)

	EditLink   func(types.User) string
	ToggleLink func(types.User) string
	DeleteLink func(types.User) string
}

// Actions returns the row actions in menu order: edit, toggle status, delete.
func Actions(h Handlers) []grid.RowAction[types.User] {
	return []grid.RowAction[types.User]{
		{Label: ActionEdit, Effect: h.Edit, Link: h.EditLink},
		{Label: ActionToggle, Effect: h.Toggle, Link: h.ToggleLink},
		{Label: ActionDelete, Effect: h.Delete, Link: h.DeleteLink, Destructive: true},
	}
}

// NewGrid builds the user grid with the given handlers.
func NewGrid(h Handlers, opts ...grid.Option) *grid.Grid[types.User] {
	opts = append([]grid.Option{grid.WithEmptyText(EmptyText)}, opts...)
	return grid.New(Columns(), Actions(h), opts...)
}
