package tui

import (
	"bytes"
	"testing"

	"github.com/RezaEskandarii/recordgrid/internal/grid"
	"github.com/RezaEskandarii/recordgrid/internal/query"
	"github.com/RezaEskandarii/recordgrid/internal/users"
	"github.com/RezaEskandarii/recordgrid/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPage_Table(t *testing.T) {
	g := users.NewGrid(users.Handlers{})
	view := g.Render(grid.Input[types.User]{
		Items: []types.User{
			{ID: "1", FirstName: "Awa", LastName: "Ndiaye", Username: "awa", Email: "awa@example.com", Active: true, TypeUser: types.UserTypes{"ADMIN"}},
		},
		SortField: "username",
		SortDir:   query.Asc,
	})

	var buf bytes.Buffer
	require.NoError(t, PrintPage(&buf, view, 11, 2, 10))
	out := buf.String()

	assert.Contains(t, out, users.TotalText(11))
	assert.Contains(t, out, "Nom d'utilisateur ↑")
	assert.Contains(t, out, "awa@example.com")
	assert.Contains(t, out, "Administrateur")
	assert.Contains(t, out, "Page 2 sur 2")
}

func TestRenderPage_EmptyAndError(t *testing.T) {
	g := users.NewGrid(users.Handlers{})

	empty := RenderPage(g.Render(grid.Input[types.User]{}), 0, 1, 10)
	assert.Contains(t, empty, users.EmptyTitle)
	assert.NotContains(t, empty, "Page 1 sur")

	failed := RenderPage(g.Render(grid.Input[types.User]{Err: "connexion refusée"}), 0, 1, 10)
	assert.Contains(t, failed, users.ErrorTitle)
	assert.Contains(t, failed, "connexion refusée")
}
