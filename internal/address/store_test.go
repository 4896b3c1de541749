package address

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_UpdatePreservesUnmentionedKeys(t *testing.T) {
	s := NewStore("/users", url.Values{
		"sort":   {"email"},
		"order":  {"asc"},
		"search": {"doe"},
		"page":   {"3"},
	})

	s.Update(Patch{"status": Set("active"), "page": Set("1")})

	v := s.Values()
	assert.Equal(t, "email", v.Get("sort"))
	assert.Equal(t, "asc", v.Get("order"))
	assert.Equal(t, "doe", v.Get("search"))
	assert.Equal(t, "active", v.Get("status"))
	assert.Equal(t, "1", v.Get("page"))
}

func TestStore_UpdateRemovesNilAndEmpty(t *testing.T) {
	s := NewStore("/users", url.Values{"search": {"doe"}, "status": {"active"}, "sort": {"email"}})

	s.Update(Patch{"search": Set(""), "status": Remove})

	_, hasSearch := s.Read("search")
	_, hasStatus := s.Read("status")
	sortField, hasSort := s.Read("sort")
	assert.False(t, hasSearch)
	assert.False(t, hasStatus)
	assert.True(t, hasSort)
	assert.Equal(t, "email", sortField)
}

func TestStore_ObserversNotifiedSynchronouslyInOrder(t *testing.T) {
	s := NewStore("/users", nil)
	var calls []string

	s.Subscribe(func(v url.Values) { calls = append(calls, "first:"+v.Get("search")) })
	s.Subscribe(func(v url.Values) { calls = append(calls, "second:"+v.Get("search")) })

	s.Update(Patch{"search": Set("a")})
	s.Update(Patch{"search": Set("ab")})

	assert.Equal(t, []string{"first:a", "second:a", "first:ab", "second:ab"}, calls)
}

func TestStore_ObserverMayReenterStore(t *testing.T) {
	s := NewStore("/users", nil)
	var seen string
	s.Subscribe(func(url.Values) {
		seen, _ = s.Read("search")
	})

	s.Update(Patch{"search": Set("jane")})
	assert.Equal(t, "jane", seen)
}

func TestStore_Unsubscribe(t *testing.T) {
	s := NewStore("/users", nil)
	count := 0
	cancel := s.Subscribe(func(url.Values) { count++ })

	s.Update(Patch{"page": Set("2")})
	cancel()
	s.Update(Patch{"page": Set("3")})

	assert.Equal(t, 1, count)
}

func TestStore_UpdateReplacesHistoryEntry(t *testing.T) {
	s := NewStore("/users", nil)
	for _, term := range []string{"j", "ja", "jan", "jane"} {
		s.Update(Patch{"search": Set(term)})
	}
	assert.Equal(t, 1, s.HistoryLen())
	assert.Equal(t, uint64(4), s.Version())

	s.Navigate("/users/new", nil)
	assert.Equal(t, 2, s.HistoryLen())
	assert.Equal(t, "/users/new", s.Location())

	require.True(t, s.Back())
	assert.Equal(t, "/users?search=jane", s.Location())
	assert.False(t, s.Back())
}

func TestStore_PreviewDoesNotApply(t *testing.T) {
	s := NewStore("/users", url.Values{"sort": {"email"}, "page": {"4"}})
	notified := false
	s.Subscribe(func(url.Values) { notified = true })

	loc := s.Preview(Patch{"page": Set("5")})

	assert.Equal(t, "/users?page=5&sort=email", loc)
	assert.Equal(t, "/users?page=4&sort=email", s.Location())
	assert.False(t, notified)
}

func TestStore_ValuesReturnsCopy(t *testing.T) {
	s := NewStore("/users", url.Values{"search": {"doe"}})
	v := s.Values()
	v.Set("search", "changed")

	got, _ := s.Read("search")
	assert.Equal(t, "doe", got)
}

func TestParseLocation(t *testing.T) {
	s, err := ParseLocation("/users?limit=20&order=asc")
	require.NoError(t, err)

	assert.Equal(t, "/users", s.Path())
	limit, _ := s.Read("limit")
	assert.Equal(t, "20", limit)
}
