// Package controls holds the writers hosts use to change the grid selection.
// Every write goes through the address store merge, and every control except
// page navigation resets the page to 1.
package controls

import (
	"strconv"
	"strings"

	"github.com/RezaEskandarii/recordgrid/internal/address"
	"github.com/RezaEskandarii/recordgrid/internal/pagination"
	"github.com/RezaEskandarii/recordgrid/internal/query"
)

var firstPage = address.Set("1")

type Controls struct {
	store    *address.Store
	defaults query.Defaults
}

func New(store *address.Store, defaults query.Defaults) *Controls {
	return &Controls{store: store, defaults: defaults}
}

// State parses the current selection.
func (c *Controls) State() query.State {
	return query.Parse(c.store.Values(), c.defaults)
}

func (c *Controls) SetSearchPatch(term string) address.Patch {
	return address.Patch{
		query.ParamSearch: address.Set(strings.TrimSpace(term)),
		query.ParamPage:   firstPage,
	}
}

func (c *Controls) SetSearch(term string) {
	c.store.Update(c.SetSearchPatch(term))
}

// ToggleSortPatch flips to desc when field is already the explicit ascending
// sort, and selects field ascending otherwise.
func (c *Controls) ToggleSortPatch(field string) address.Patch {
	currentSort, _ := c.store.Read(query.ParamSort)
	currentOrder, ok := c.store.Read(query.ParamOrder)
	if !ok {
		currentOrder = string(query.Asc)
	}

	next := query.Asc
	if currentSort == field && currentOrder == string(query.Asc) {
		next = query.Desc
	}
	return address.Patch{
		query.ParamSort:  address.Set(field),
		query.ParamOrder: address.Set(string(next)),
		query.ParamPage:  firstPage,
	}
}

func (c *Controls) ToggleSort(field string) {
	c.store.Update(c.ToggleSortPatch(field))
}

// ToggleStatusPatch selects status, or clears it when it is already selected.
func (c *Controls) ToggleStatusPatch(status string) address.Patch {
	current, _ := c.store.Read(query.ParamStatus)
	next := address.Set(status)
	if current == status {
		next = address.Remove
	}
	return address.Patch{
		query.ParamStatus: next,
		query.ParamPage:   firstPage,
	}
}

func (c *Controls) ToggleStatus(status string) {
	c.store.Update(c.ToggleStatusPatch(status))
}

func (c *Controls) ClearFiltersPatch() address.Patch {
	return address.Patch{
		query.ParamSort:   address.Remove,
		query.ParamOrder:  address.Remove,
		query.ParamStatus: address.Remove,
		query.ParamPage:   firstPage,
	}
}

// ClearFilters drops sort, order and status. The search term is kept.
func (c *Controls) ClearFilters() {
	c.store.Update(c.ClearFiltersPatch())
}

// PagePatch returns the patch for navigating to target, or false when target
// is outside [1, totalPages].
func (c *Controls) PagePatch(target, totalPages int) (address.Patch, bool) {
	page, ok := pagination.Navigate(target, totalPages)
	if !ok {
		return nil, false
	}
	return address.Patch{query.ParamPage: address.Set(strconv.Itoa(page))}, true
}

// GoToPage reports whether the store changed.
func (c *Controls) GoToPage(target, totalPages int) bool {
	patch, ok := c.PagePatch(target, totalPages)
	if !ok {
		return false
	}
	c.store.Update(patch)
	return true
}

// PageSizePatch keeps the current page unless it no longer exists at the new
// size. Sizes outside the allowed set are rejected.
func (c *Controls) PageSizePatch(size, totalItems int) (address.Patch, bool) {
	if !c.defaults.AllowsPageSize(size) {
		return nil, false
	}
	page := pagination.PageAfterSizeChange(totalItems, size, c.State().Page)
	return address.Patch{
		query.ParamLimit: address.Set(strconv.Itoa(size)),
		query.ParamPage:  address.Set(strconv.Itoa(page)),
	}, true
}

func (c *Controls) ChangePageSize(size, totalItems int) bool {
	patch, ok := c.PageSizePatch(size, totalItems)
	if !ok {
		return false
	}
	c.store.Update(patch)
	return true
}
