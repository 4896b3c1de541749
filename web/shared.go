package web

import (
	"fmt"
	"net/url"
	"sort"

	"github.com/RezaEskandarii/recordgrid/internal/address"
	"github.com/RezaEskandarii/recordgrid/internal/controls"
	"github.com/RezaEskandarii/recordgrid/internal/pagination"
	"github.com/RezaEskandarii/recordgrid/internal/query"
)

type DataMap struct {
	Data map[string]interface{}
}

func NewDataMap() DataMap {
	return DataMap{Data: map[string]interface{}{}}
}

func (d DataMap) Add(key string, value interface{}) DataMap {
	d.Data[key] = value
	return d
}

// Link is one navigable control.
type Link struct {
	Label  string
	Href   string
	Active bool
}

type slotLink struct {
	Label    string
	Href     string
	Current  bool
	Ellipsis bool
}

type paginationData struct {
	RangeText string
	PageText  string
	Previous  string
	Next      string
	Slots     []slotLink
	Sizes     []Link
}

// NewPaginationData builds every pagination link from the store, so each
// link carries the rest of the selection unchanged.
func NewPaginationData(store *address.Store, ctl *controls.Controls, d query.Defaults, totalItems int) *paginationData {
	state := ctl.State()
	view, ok := pagination.Compute(totalItems, state.PageSize, state.Page)
	if !ok {
		return nil
	}

	p := &paginationData{RangeText: view.RangeText(), PageText: view.PageText()}
	if patch, ok := ctl.PagePatch(view.CurrentPage-1, view.TotalPages); ok {
		p.Previous = store.Preview(patch)
	}
	if patch, ok := ctl.PagePatch(view.CurrentPage+1, view.TotalPages); ok {
		p.Next = store.Preview(patch)
	}
	for _, slot := range view.Slots {
		s := slotLink{Label: slot.String(), Ellipsis: slot.Ellipsis, Current: slot.Page == view.CurrentPage}
		if !slot.Ellipsis && !s.Current {
			if patch, ok := ctl.PagePatch(slot.Page, view.TotalPages); ok {
				s.Href = store.Preview(patch)
			}
		}
		p.Slots = append(p.Slots, s)
	}
	for _, size := range d.PageSizes {
		if patch, ok := ctl.PageSizePatch(size, totalItems); ok {
			p.Sizes = append(p.Sizes, Link{
				Label:  fmt.Sprintf("%d", size),
				Href:   store.Preview(patch),
				Active: size == state.PageSize,
			})
		}
	}
	return p
}

type hiddenField struct {
	Name  string
	Value string
}

// hiddenFields carries every other address key through the search form, in
// key order. Page is left out so a new search starts on page 1.
func hiddenFields(values url.Values) []hiddenField {
	keys := make([]string, 0, len(values))
	for key := range values {
		if key == query.ParamPage || key == query.ParamSearch {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var out []hiddenField
	for _, key := range keys {
		for _, v := range values[key] {
			out = append(out, hiddenField{Name: key, Value: v})
		}
	}
	return out
}

func printBanner(addr string) {
	width := 46
	fmt.Println("##############################################")
	fmt.Printf("# %-*s #\n", width-4, "")
	fmt.Printf("# %-*s #\n", width-4, "recordgrid console started")
	fmt.Printf("# %-*s #\n", width-4, fmt.Sprintf("Listening on %s", addr))
	fmt.Printf("# %-*s #\n", width-4, "")
	fmt.Println("##############################################")
}
