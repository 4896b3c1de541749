// Package query holds the grid selection parsed from the address state and
// the pure mapping from that selection to a backend list request.
package query

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
)

// Address-state parameter names. Page is 1-based here.
const (
	ParamSearch = "search"
	ParamStatus = "status"
	ParamSort   = "sort"
	ParamOrder  = "order"
	ParamPage   = "page"
	ParamLimit  = "limit"
)

type SortDir string

const (
	Asc  SortDir = "asc"
	Desc SortDir = "desc"
)

func ParseSortDir(raw string) (SortDir, bool) {
	switch SortDir(raw) {
	case Asc:
		return Asc, true
	case Desc:
		return Desc, true
	}
	return "", false
}

func (d SortDir) String() string {
	return string(d)
}

// Defaults are declared by the entity-specific caller.
type Defaults struct {
	SortField string
	SortDir   SortDir
	PageSize  int
	PageSizes []int
}

func DefaultDefaults() Defaults {
	return Defaults{
		SortField: "dateCreation",
		SortDir:   Desc,
		PageSize:  10,
		PageSizes: []int{10, 20, 50, 100},
	}
}

func (d Defaults) AllowsPageSize(size int) bool {
	return slices.Contains(d.PageSizes, size)
}

// State is the current search/filter/sort/page selection.
type State struct {
	Search    string
	Status    string
	SortField string
	SortDir   SortDir
	Page      int
	PageSize  int
}

// Parse derives a State from the address parameters. It never fails: every
// malformed value falls back to its default. Search and status are taken
// verbatim; the search writer trims before storing.
func Parse(values url.Values, d Defaults) State {
	s := State{
		Search:    values.Get(ParamSearch),
		Status:    values.Get(ParamStatus),
		SortField: values.Get(ParamSort),
		SortDir:   d.SortDir,
		Page:      1,
		PageSize:  d.PageSize,
	}
	if s.SortField == "" {
		s.SortField = d.SortField
	}
	if dir, ok := ParseSortDir(values.Get(ParamOrder)); ok {
		s.SortDir = dir
	}
	if page, err := strconv.Atoi(values.Get(ParamPage)); err == nil && page >= 1 {
		s.Page = page
	}
	if limit, err := strconv.Atoi(values.Get(ParamLimit)); err == nil && d.AllowsPageSize(limit) {
		s.PageSize = limit
	}
	return s
}

// Values serializes the state back to address parameters. Empty filters are
// left out so they do not linger in the address.
func (s State) Values() url.Values {
	v := url.Values{}
	if s.Search != "" {
		v.Set(ParamSearch, s.Search)
	}
	if s.Status != "" {
		v.Set(ParamStatus, s.Status)
	}
	v.Set(ParamSort, s.SortField)
	v.Set(ParamOrder, string(s.SortDir))
	v.Set(ParamPage, strconv.Itoa(s.Page))
	v.Set(ParamLimit, strconv.Itoa(s.PageSize))
	return v
}

// Validate checks the invariants a parsed state always satisfies; it exists
// for states assembled by hand.
func (s State) Validate(d Defaults) error {
	if s.Page < 1 {
		return fmt.Errorf("page must be >= 1, got %d", s.Page)
	}
	if _, ok := ParseSortDir(string(s.SortDir)); !ok {
		return fmt.Errorf("sort direction must be asc or desc, got %q", s.SortDir)
	}
	if !d.AllowsPageSize(s.PageSize) {
		return fmt.Errorf("page size %d is not one of %v", s.PageSize, d.PageSizes)
	}
	return nil
}

// HasActiveFilters reports whether a sort or status selection is present in
// the raw parameters, which is when a "clear" control is offered.
func HasActiveFilters(values url.Values) bool {
	return values.Get(ParamSort) != "" || values.Get(ParamStatus) != ""
}
