package query

import (
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	d := DefaultDefaults()
	s := Parse(url.Values{}, d)

	assert.Equal(t, State{
		SortField: "dateCreation",
		SortDir:   Desc,
		Page:      1,
		PageSize:  10,
	}, s)
	require.NoError(t, s.Validate(d))
}

func TestParse_MalformedValuesFallBack(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
		check  func(t *testing.T, s State)
	}{
		{
			name:   "page zero",
			values: url.Values{ParamPage: {"0"}},
			check:  func(t *testing.T, s State) { assert.Equal(t, 1, s.Page) },
		},
		{
			name:   "negative page",
			values: url.Values{ParamPage: {"-3"}},
			check:  func(t *testing.T, s State) { assert.Equal(t, 1, s.Page) },
		},
		{
			name:   "non numeric page",
			values: url.Values{ParamPage: {"two"}},
			check:  func(t *testing.T, s State) { assert.Equal(t, 1, s.Page) },
		},
		{
			name:   "limit outside allowed set",
			values: url.Values{ParamLimit: {"15"}},
			check:  func(t *testing.T, s State) { assert.Equal(t, 10, s.PageSize) },
		},
		{
			name:   "allowed limit",
			values: url.Values{ParamLimit: {"50"}},
			check:  func(t *testing.T, s State) { assert.Equal(t, 50, s.PageSize) },
		},
		{
			name:   "unknown order",
			values: url.Values{ParamOrder: {"sideways"}},
			check:  func(t *testing.T, s State) { assert.Equal(t, Desc, s.SortDir) },
		},
		{
			name:   "search is kept verbatim",
			values: url.Values{ParamSearch: {"  jane "}},
			check:  func(t *testing.T, s State) { assert.Equal(t, "  jane ", s.Search) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Parse(tt.values, DefaultDefaults()))
		})
	}
}

func TestBuild_PageTranslation(t *testing.T) {
	for n := 1; n <= 200; n++ {
		s := State{SortField: "email", SortDir: Asc, Page: n, PageSize: 20}
		assert.Equal(t, n-1, Build(s).Page, "ui page %d", n)
	}
}

func TestBuild_OmitsEmptyFilters(t *testing.T) {
	req := Build(State{SortField: "username", SortDir: Asc, Page: 3, PageSize: 50})
	v := req.Values()

	_, hasSearch := v[BackendSearch]
	_, hasStatus := v[BackendStatus]
	assert.False(t, hasSearch)
	assert.False(t, hasStatus)
	assert.Equal(t, "2", v.Get(BackendPage))
	assert.Equal(t, "50", v.Get(BackendSize))
	assert.Equal(t, "username", v.Get(BackendSortBy))
	assert.Equal(t, "asc", v.Get(BackendSortDir))

	withFilters := Build(State{Search: "doe", Status: "active", SortField: "email", SortDir: Desc, Page: 1, PageSize: 10})
	assert.Equal(t, "doe", withFilters.Values().Get(BackendSearch))
	assert.Equal(t, "active", withFilters.Values().Get(BackendStatus))
}

func TestListRequest_SignatureIsStable(t *testing.T) {
	a := Build(State{Search: "x", Status: "active", SortField: "email", SortDir: Asc, Page: 2, PageSize: 10})
	b := Build(State{PageSize: 10, Page: 2, SortDir: Asc, SortField: "email", Status: "active", Search: "x"})
	c := Build(State{Search: "x", Status: "active", SortField: "email", SortDir: Asc, Page: 3, PageSize: 10})

	assert.Equal(t, a, b)
	assert.Equal(t, a.Signature(), b.Signature())
	assert.NotEqual(t, a.Signature(), c.Signature())
}

func TestListRequest_URL(t *testing.T) {
	req := Build(State{Search: "a b", SortField: "dateCreation", SortDir: Desc, Page: 1, PageSize: 10})

	assert.Equal(t,
		"/api/users/paginated?page=0&search=a+b&size=10&sortBy=dateCreation&sortDir=desc",
		req.URL("/api/users/paginated"))
	assert.Equal(t,
		"/api/users/paginated?tenant=1&page=0&search=a+b&size=10&sortBy=dateCreation&sortDir=desc",
		req.URL("/api/users/paginated?tenant=1"))
}

func TestRoundTrip_SerializeParseBuild(t *testing.T) {
	d := DefaultDefaults()
	searches := []string{"", "jane", " jane ", "a&b=c", "été"}
	statuses := []string{"", "active", "inactive"}
	sorts := []string{"dateCreation", "email", "firstName"}
	dirs := []SortDir{Asc, Desc}

	for _, search := range searches {
		for _, status := range statuses {
			for _, sortField := range sorts {
				for _, dir := range dirs {
					for _, size := range d.PageSizes {
						for _, page := range []int{1, 2, 17} {
							s := State{Search: search, Status: status, SortField: sortField, SortDir: dir, Page: page, PageSize: size}
							name := fmt.Sprintf("%q/%q/%s/%s/%d/%d", search, status, sortField, dir, page, size)

							encoded := s.Values().Encode()
							decoded, err := url.ParseQuery(encoded)
							require.NoError(t, err, name)

							assert.Equal(t, Build(s), Build(Parse(decoded, d)), name)
						}
					}
				}
			}
		}
	}
}

func TestParseListRequest(t *testing.T) {
	req := ParseListRequest(url.Values{
		BackendSearch:  {"doe"},
		BackendPage:    {"4"},
		BackendSize:    {"20"},
		BackendSortBy:  {"email"},
		BackendSortDir: {"desc"},
	}, 10)

	assert.Equal(t, ListRequest{Search: "doe", Page: 4, Size: 20, SortBy: "email", SortDir: Desc}, req)

	fallback := ParseListRequest(url.Values{BackendPage: {"-1"}, BackendSize: {"x"}}, 10)
	assert.Equal(t, 0, fallback.Page)
	assert.Equal(t, 10, fallback.Size)
	assert.Equal(t, Asc, fallback.SortDir)

	huge := ParseListRequest(url.Values{BackendPage: {"9223372036854775807"}, BackendSize: {"99999999999"}}, 10)
	assert.Equal(t, MaxListBound, huge.Page)
	assert.Equal(t, MaxListBound, huge.Size)
	assert.Equal(t, 10, ParseListRequest(url.Values{BackendPage: {"99999999999999999999"}}, 10).Size)
}

func TestHasActiveFilters(t *testing.T) {
	assert.False(t, HasActiveFilters(url.Values{ParamSearch: {"x"}, ParamPage: {"2"}}))
	assert.True(t, HasActiveFilters(url.Values{ParamSort: {"email"}}))
	assert.True(t, HasActiveFilters(url.Values{ParamStatus: {"active"}}))
}
