package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labels(slots []Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.String()
	}
	return out
}

func TestWindow_SmallTotalsHaveNoEllipsis(t *testing.T) {
	for total := 1; total <= WindowSize; total++ {
		for current := 1; current <= total; current++ {
			slots := Window(current, total)
			require.Len(t, slots, total)
			for i, s := range slots {
				assert.False(t, s.Ellipsis)
				assert.Equal(t, i+1, s.Page)
			}
		}
	}
}

func TestWindow_LargeTotals(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		total    int
		expected []string
	}{
		{name: "first page", current: 1, total: 10, expected: []string{"1", "2", "3", "4", "5", "…", "10"}},
		{name: "fourth page", current: 4, total: 10, expected: []string{"1", "2", "3", "4", "5", "…", "10"}},
		{name: "middle page", current: 5, total: 10, expected: []string{"1", "…", "4", "5", "6", "…", "10"}},
		{name: "near end", current: 7, total: 10, expected: []string{"1", "…", "6", "7", "8", "9", "10"}},
		{name: "last page", current: 10, total: 10, expected: []string{"1", "…", "6", "7", "8", "9", "10"}},
		{name: "eight pages middle", current: 5, total: 8, expected: []string{"1", "…", "4", "5", "6", "7", "8"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := Window(tt.current, tt.total)
			assert.Equal(t, tt.expected, labels(slots))
			assert.Len(t, slots, WindowSize)
		})
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(1, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 0, TotalPages(5, 0))
}

func TestCompute_ZeroItemsRendersNothing(t *testing.T) {
	for _, size := range []int{10, 20, 50, 100} {
		_, ok := Compute(0, size, 1)
		assert.False(t, ok, "page size %d", size)
	}
}

func TestCompute_RangeSummary(t *testing.T) {
	v, ok := Compute(95, 10, 10)
	require.True(t, ok)

	assert.Equal(t, 91, v.Start)
	assert.Equal(t, 95, v.End)
	assert.True(t, v.HasPrevious)
	assert.False(t, v.HasNext)
	assert.Equal(t, "Affichage de 91 à 95 sur 95 résultats", v.RangeText())
	assert.Equal(t, "Page 10 sur 10", v.PageText())
}

func TestNavigate_OutOfRangeIsNoop(t *testing.T) {
	for _, target := range []int{-1, 0, 11, 100} {
		_, ok := Navigate(target, 10)
		assert.False(t, ok, "target %d", target)
	}
	page, ok := Navigate(7, 10)
	assert.True(t, ok)
	assert.Equal(t, 7, page)
}

func TestPageAfterSizeChange(t *testing.T) {
	// 45 items: page 5 exists at size 10, size 50 has a single page
	assert.Equal(t, 1, PageAfterSizeChange(45, 50, 5))
	assert.Equal(t, 2, PageAfterSizeChange(45, 20, 2))
	assert.Equal(t, 1, PageAfterSizeChange(0, 20, 3))
}
