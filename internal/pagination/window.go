// Package pagination computes the page-navigation window shown under the grid.
package pagination

import (
	"fmt"
	"strconv"
)

// WindowSize is the fixed number of slots in a navigation window.
const WindowSize = 7

const ellipsisLabel = "…"

// Slot is one entry of the navigation window: a page number or an ellipsis
// marker. Ellipsis slots are never navigation targets.
type Slot struct {
	Page     int
	Ellipsis bool
}

func PageSlot(page int) Slot { return Slot{Page: page} }

func EllipsisSlot() Slot { return Slot{Ellipsis: true} }

func (s Slot) String() string {
	if s.Ellipsis {
		return ellipsisLabel
	}
	return strconv.Itoa(s.Page)
}

// TotalPages is ceil(totalItems / pageSize).
func TotalPages(totalItems, pageSize int) int {
	if totalItems <= 0 || pageSize <= 0 {
		return 0
	}
	return (totalItems + pageSize - 1) / pageSize
}

// Window returns the ordered slots for currentPage (1-based) out of totalPages.
func Window(currentPage, totalPages int) []Slot {
	if totalPages <= 0 {
		return nil
	}
	if totalPages <= WindowSize {
		return pages(1, totalPages)
	}

	switch {
	case currentPage <= 4:
		return append(pages(1, 5), EllipsisSlot(), PageSlot(totalPages))
	case currentPage >= totalPages-3:
		return append([]Slot{PageSlot(1), EllipsisSlot()}, pages(totalPages-4, totalPages)...)
	default:
		return []Slot{
			PageSlot(1),
			EllipsisSlot(),
			PageSlot(currentPage - 1),
			PageSlot(currentPage),
			PageSlot(currentPage + 1),
			EllipsisSlot(),
			PageSlot(totalPages),
		}
	}
}

func pages(from, to int) []Slot {
	out := make([]Slot, 0, to-from+1)
	for p := from; p <= to; p++ {
		out = append(out, PageSlot(p))
	}
	return out
}

// Navigate validates a navigation target. Targets outside [1, totalPages]
// report false and must produce no state change.
func Navigate(target, totalPages int) (int, bool) {
	if target < 1 || target > totalPages {
		return 0, false
	}
	return target, true
}

// PageAfterSizeChange recomputes the total for newSize and returns page 1 when
// currentPage would exceed it; otherwise currentPage is kept.
func PageAfterSizeChange(totalItems, newSize, currentPage int) int {
	total := TotalPages(totalItems, newSize)
	if currentPage < 1 || currentPage > total {
		return 1
	}
	return currentPage
}

// View is everything a host needs to draw the pagination bar.
type View struct {
	Slots       []Slot
	CurrentPage int
	TotalPages  int
	TotalItems  int
	PageSize    int
	Start       int
	End         int
	HasPrevious bool
	HasNext     bool
}

// Compute builds the pagination view. It reports false when there is nothing
// to render, which is the case whenever totalItems is 0.
func Compute(totalItems, pageSize, currentPage int) (View, bool) {
	total := TotalPages(totalItems, pageSize)
	if total == 0 {
		return View{}, false
	}
	if currentPage < 1 {
		currentPage = 1
	}

	start := (currentPage-1)*pageSize + 1
	end := currentPage * pageSize
	if end > totalItems {
		end = totalItems
	}
	if start > totalItems {
		start = totalItems
	}

	return View{
		Slots:       Window(currentPage, total),
		CurrentPage: currentPage,
		TotalPages:  total,
		TotalItems:  totalItems,
		PageSize:    pageSize,
		Start:       start,
		End:         end,
		HasPrevious: currentPage > 1,
		HasNext:     currentPage < total,
	}, true
}

// RangeText is the "showing X to Y of N" summary.
func (v View) RangeText() string {
	return fmt.Sprintf("Affichage de %d à %d sur %d résultats", v.Start, v.End, v.TotalItems)
}

func (v View) PageText() string {
	return fmt.Sprintf("Page %d sur %d", v.CurrentPage, v.TotalPages)
}
