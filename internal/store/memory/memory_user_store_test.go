package memory

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/RezaEskandarii/recordgrid/internal/query"
	"github.com/RezaEskandarii/recordgrid/internal/store"
	"github.com/RezaEskandarii/recordgrid/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(t *testing.T) store.UserStore {
	t.Helper()
	s := NewMemoryUserStore()
	base := time.Date(2025, 6, 11, 9, 0, 0, 0, time.UTC)
	ms := s.(*memoryUserStore)
	for i, in := range []types.CreateUser{
		{Username: "alice", Email: "alice@example.com", FirstName: "Alice", LastName: "Martin", Active: true, TypeUser: "ADMIN"},
		{Username: "bob", Email: "bob@example.com", FirstName: "Bob", LastName: "Durand", Active: false, TypeUser: "CUSTOMER"},
		{Username: "carol", Email: "carol@corp.fr", FirstName: "Carol", LastName: "Petit", Active: true, TypeUser: "MANAGER"},
		{Username: "dave", Email: "dave@corp.fr", FirstName: "Dave", LastName: "Leroy", Active: true, TypeUser: ""},
	} {
		created := base.Add(time.Duration(i) * 24 * time.Hour)
		ms.now = func() time.Time { return created }
		_, err := s.Create(context.Background(), in)
		require.NoError(t, err)
	}
	return s
}

func usernames(page *types.PageResult[types.User]) []string {
	out := make([]string, len(page.Items))
	for i, u := range page.Items {
		out[i] = u.Username
	}
	return out
}

func TestMemoryUserStore_ListFiltersSortsAndPages(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	page, err := s.List(ctx, query.ListRequest{Size: 10, SortBy: "dateCreation", SortDir: query.Desc})
	require.NoError(t, err)
	assert.Equal(t, []string{"dave", "carol", "bob", "alice"}, usernames(page))
	assert.Equal(t, 4, page.TotalCount)

	page, err = s.List(ctx, query.ListRequest{Search: "CORP", Size: 10, SortBy: "username", SortDir: query.Asc})
	require.NoError(t, err)
	assert.Equal(t, []string{"carol", "dave"}, usernames(page))

	page, err = s.List(ctx, query.ListRequest{Status: "inactive", Size: 10, SortBy: "username", SortDir: query.Asc})
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, usernames(page))

	page, err = s.List(ctx, query.ListRequest{Page: 1, Size: 3, SortBy: "username", SortDir: query.Asc})
	require.NoError(t, err)
	assert.Equal(t, []string{"dave"}, usernames(page))
	assert.Equal(t, 4, page.TotalCount)
	assert.Equal(t, 1, page.PageIndex)

	page, err = s.List(ctx, query.ListRequest{Page: 9, Size: 3, SortBy: "nope", SortDir: query.Asc})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	require.NotPanics(t, func() {
		page, err = s.List(ctx, query.ListRequest{Page: math.MaxInt, Size: 10, SortBy: "username", SortDir: query.Asc})
	})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 4, page.TotalCount)

	page, err = s.List(ctx, query.ListRequest{Page: -1, Size: 10, SortBy: "username", SortDir: query.Asc})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestMemoryUserStore_CreateConflictsAndDefaults(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	_, err := s.Create(ctx, types.CreateUser{Username: "ALICE", Email: "new@example.com", FirstName: "A", LastName: "B"})
	assert.ErrorIs(t, err, store.ErrConflict)

	page, _ := s.List(ctx, query.ListRequest{Search: "dave", Size: 10})
	require.Len(t, page.Items, 1)
	assert.Equal(t, types.UserTypes{"CUSTOMER"}, page.Items[0].TypeUser)
}

func TestMemoryUserStore_UpdateAndDelete(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	page, _ := s.List(ctx, query.ListRequest{Search: "bob", Size: 10})
	id := page.Items[0].ID

	u, err := s.Update(ctx, id, map[string]any{"active": true, "typeUser": []any{"manager"}, "email": ""})
	require.NoError(t, err)
	assert.True(t, u.Active)
	assert.Equal(t, types.UserTypes{"MANAGER"}, u.TypeUser)
	assert.Equal(t, "bob@example.com", u.Email)

	_, err = s.Update(ctx, id, map[string]any{"email": ""})
	assert.ErrorIs(t, err, store.ErrEmptyUpdate)

	_, err = s.Update(ctx, id, map[string]any{"username": "alice"})
	assert.ErrorIs(t, err, store.ErrConflict)

	_, err = s.Update(ctx, "missing", map[string]any{"active": false})
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Delete(ctx, id))
	assert.ErrorIs(t, s.Delete(ctx, id), store.ErrNotFound)
	_, err = s.Get(ctx, id)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemoryUserStore_Stats(t *testing.T) {
	s := seeded(t)
	// users were created on the 11th, 12th, 13th and 14th of June 2025 (a Wednesday to a Saturday)
	now := time.Date(2025, 6, 14, 18, 0, 0, 0, time.UTC)

	stats, err := s.Stats(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.Active)
	assert.Equal(t, 1, stats.Inactive)
	assert.Equal(t, 75.0, stats.ActivePercentage)
	assert.Equal(t, 1, stats.Today)
	assert.Equal(t, 4, stats.ThisWeek)
	assert.Equal(t, 4, stats.ThisMonth)
	assert.Equal(t, map[string]int{"ADMIN": 1, "MANAGER": 1, "CUSTOMER": 2}, stats.Breakdown)
}

func TestSeed(t *testing.T) {
	s := NewMemoryUserStore()
	ctx := context.Background()

	n, err := store.Seed(ctx, s, 25)
	require.NoError(t, err)
	assert.Equal(t, 25, n)

	again, err := store.Seed(ctx, s, 25)
	require.NoError(t, err)
	assert.Zero(t, again)

	stats, _ := s.Stats(ctx, time.Now())
	assert.Equal(t, 25, stats.Total)
	assert.Equal(t, 5, stats.Inactive)
}
