package tui

import (
	"io"
	"strings"

	"github.com/RezaEskandarii/recordgrid/internal/grid"
	"github.com/RezaEskandarii/recordgrid/internal/pagination"
	"github.com/RezaEskandarii/recordgrid/internal/users"
	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
)

// RenderPage draws one grid view as a static table followed by the
// pagination summary. Used by the one-shot list command.
func RenderPage(view grid.View, totalItems, page, pageSize int) string {
	var b strings.Builder
	b.WriteString(users.TotalText(totalItems))
	b.WriteString("\n")

	switch view.Mode {
	case grid.ModeEmpty:
		b.WriteString(boxStyle.Render(users.EmptyTitle + "\n" + view.Message))
		b.WriteString("\n")
		return b.String()
	case grid.ModeError:
		b.WriteString(boxStyle.Render(users.ErrorTitle + "\n" + view.Message))
		b.WriteString("\n")
		return b.String()
	}

	headers := make([]string, len(view.Headers))
	for i, h := range view.Headers {
		headers[i] = headerTitle(h)
	}
	t := lgtable.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return titleStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for _, r := range view.Rows {
		cells := make([]string, len(view.Headers))
		for i := range cells {
			if i < len(r.Cells) {
				cells[i] = CellText(r.Cells[i])
			}
		}
		t.Row(cells...)
	}
	b.WriteString(t.String())
	b.WriteString("\n")

	if v, ok := pagination.Compute(totalItems, pageSize, page); ok {
		b.WriteString(v.RangeText())
		b.WriteString(" · ")
		b.WriteString(v.PageText())
		b.WriteString("\n")
	}
	return b.String()
}

func PrintPage(w io.Writer, view grid.View, totalItems, page, pageSize int) error {
	_, err := io.WriteString(w, RenderPage(view, totalItems, page, pageSize))
	return err
}
