package types

// PageResult is one server-returned page of entities.
// PageIndex is 0-based and mirrors the backend; Items keep server order.
type PageResult[T any] struct {
	Items      []T `json:"content"`
	TotalCount int `json:"totalElements"`
	PageIndex  int `json:"number"`
	PageSize   int `json:"size"`
}

// EmptyPage returns a page with no items and a zero total, used when the
// initial load fails and the console still has to render.
func EmptyPage[T any](pageSize int) *PageResult[T] {
	return &PageResult[T]{
		Items:      []T{},
		TotalCount: 0,
		PageIndex:  0,
		PageSize:   pageSize,
	}
}

// TotalPages returns ceil(TotalCount / PageSize).
func (p *PageResult[T]) TotalPages() int {
	if p == nil || p.PageSize <= 0 {
		return 0
	}
	return (p.TotalCount + p.PageSize - 1) / p.PageSize
}

// UIPage returns the 1-based page number the result corresponds to.
func (p *PageResult[T]) UIPage() int {
	if p == nil {
		return 1
	}
	return p.PageIndex + 1
}
