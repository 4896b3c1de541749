package query

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Backend list request parameter names.
const (
	BackendSearch  = "search"
	BackendStatus  = "status"
	BackendPage    = "page"
	BackendSize    = "size"
	BackendSortBy  = "sortBy"
	BackendSortDir = "sortDir"
)

// ListRequest is the backend list request. Page is 0-based.
type ListRequest struct {
	Search  string
	Status  string
	Page    int
	Size    int
	SortBy  string
	SortDir SortDir
}

// Build maps a State to the backend request.
func Build(s State) ListRequest {
	page := s.Page - 1
	if page < 0 {
		page = 0
	}
	return ListRequest{
		Search:  s.Search,
		Status:  s.Status,
		Page:    page,
		Size:    s.PageSize,
		SortBy:  s.SortField,
		SortDir: s.SortDir,
	}
}

func (r ListRequest) Values() url.Values {
	v := url.Values{}
	if r.Search != "" {
		v.Set(BackendSearch, r.Search)
	}
	if r.Status != "" {
		v.Set(BackendStatus, r.Status)
	}
	v.Set(BackendPage, strconv.Itoa(r.Page))
	v.Set(BackendSize, strconv.Itoa(r.Size))
	v.Set(BackendSortBy, r.SortBy)
	v.Set(BackendSortDir, string(r.SortDir))
	return v
}

// Signature identifies the request. url.Values.Encode sorts by key, so equal
// requests always yield equal signatures.
func (r ListRequest) Signature() string {
	return r.Values().Encode()
}

// URL appends the encoded request to endpoint, keeping any query the endpoint
// already carries.
func (r ListRequest) URL(endpoint string) string {
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return endpoint + sep + r.Signature()
}

// MaxListBound caps page and size from the wire so page*size cannot
// overflow an int64 offset.
const MaxListBound = math.MaxInt32

// ParseListRequest is the backend-side inverse of Values, used by the
// reference API. Missing or malformed numbers fall back to page 0 and the
// given default size; larger values are capped at MaxListBound.
func ParseListRequest(values url.Values, defaultSize int) ListRequest {
	r := ListRequest{
		Search:  strings.TrimSpace(values.Get(BackendSearch)),
		Status:  strings.TrimSpace(values.Get(BackendStatus)),
		Size:    defaultSize,
		SortBy:  values.Get(BackendSortBy),
		SortDir: Asc,
	}
	if page, err := strconv.Atoi(values.Get(BackendPage)); err == nil && page >= 0 {
		r.Page = min(page, MaxListBound)
	}
	if size, err := strconv.Atoi(values.Get(BackendSize)); err == nil && size > 0 {
		r.Size = min(size, MaxListBound)
	}
	if dir, ok := ParseSortDir(values.Get(BackendSortDir)); ok {
		r.SortDir = dir
	}
	return r
}
