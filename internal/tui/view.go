package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/RezaEskandarii/recordgrid/internal/grid"
	"github.com/RezaEskandarii/recordgrid/internal/pagination"
	"github.com/RezaEskandarii/recordgrid/internal/query"
	"github.com/RezaEskandarii/recordgrid/internal/users"
	"github.com/RezaEskandarii/recordgrid/types"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

const (
	maxColumnWidth = 28
	skeletonText   = "░░░░░░"
	helpText       = "/ rechercher · s tri · o ordre · a/i statut · c effacer · ←/→ page · +/- taille · n créer · e modifier · t statut · d supprimer · r actualiser · q quitter"
)

var (
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	cardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).MarginRight(1)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1, 2)
)

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).Bold(true)
	s.Selected = s.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	return s
}

func (m *Model) gridView() grid.View {
	st := m.sess.State()
	return m.grid.Render(grid.Input[types.User]{
		Items:     m.items(),
		Loading:   m.loading(),
		Err:       m.snapshot.Err,
		SortField: st.SortField,
		SortDir:   st.SortDir,
	})
}

// syncTable copies the current grid view into the bubbles table.
func (m *Model) syncTable() {
	view := m.gridView()

	widths := make([]int, len(view.Headers))
	for i, h := range view.Headers {
		widths[i] = lipgloss.Width(headerTitle(h))
	}
	rows := make([]table.Row, 0, len(view.Rows))
	for _, r := range view.Rows {
		row := make(table.Row, len(view.Headers))
		for i := range row {
			if i < len(r.Cells) {
				row[i] = CellText(r.Cells[i])
			}
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
		rows = append(rows, row)
	}

	columns := make([]table.Column, len(view.Headers))
	for i, h := range view.Headers {
		columns[i] = table.Column{Title: headerTitle(h), Width: min(widths[i], maxColumnWidth)}
	}

	m.table.SetColumns(columns)
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func headerTitle(h grid.Header) string {
	if !h.Active {
		return h.Label
	}
	if h.Dir == query.Asc {
		return h.Label + " ↑"
	}
	return h.Label + " ↓"
}

// CellText is the plain-text rendering of a cell.
func CellText(c grid.Cell) string {
	if c.Kind == grid.KindSkeleton {
		return skeletonText
	}
	return c.Text
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(users.Title))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(users.Subtitle))
	b.WriteString("\n\n")
	b.WriteString(m.cardsView())
	b.WriteString("\n")

	if m.mode == modeForm || m.mode == modeConfirm {
		b.WriteString(m.form.View())
		return b.String()
	}

	b.WriteString(m.toolbarView())
	b.WriteString("\n")
	if m.flash != nil {
		style := successStyle
		if !m.flash.Success {
			style = errorStyle
		}
		b.WriteString(style.Render(m.flash.Message))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.bodyView())
	b.WriteString("\n")
	if p := m.paginationView(); p != "" {
		b.WriteString(p)
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render(helpText))
	return b.String()
}

func (m *Model) cardsView() string {
	cards := users.Cards(m.userStats)
	rendered := make([]string, len(cards))
	for i, c := range cards {
		body := mutedStyle.Render(c.Title) + "\n" + titleStyle.Render(strconv.Itoa(c.Value))
		if c.Footer != "" {
			body += "\n" + mutedStyle.Render(c.Footer)
		}
		rendered[i] = cardStyle.Render(body)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m *Model) toolbarView() string {
	st := m.sess.State()
	parts := []string{titleStyle.Render(users.ListTitle), users.TotalText(m.totalItems())}

	if m.mode == modeSearch {
		parts = append(parts, m.search.View())
	} else if st.Search != "" {
		parts = append(parts, "« "+st.Search+" »")
	}

	dir := "↓"
	if st.SortDir == query.Asc {
		dir = "↑"
	}
	parts = append(parts, fmt.Sprintf("%s : %s %s", users.SortLabel, users.OptionLabel(users.SortOptions, st.SortField, st.SortField), dir))
	if st.Status != "" {
		parts = append(parts, fmt.Sprintf("%s : %s", users.FilterLabel, users.OptionLabel(users.StatusOptions(), st.Status, st.Status)))
	}
	if m.loading() {
		parts = append(parts, m.spinner.View())
	}
	return strings.Join(parts, "  ·  ")
}

func (m *Model) bodyView() string {
	view := m.gridView()
	switch view.Mode {
	case grid.ModeEmpty:
		return boxStyle.Render(titleStyle.Render(users.EmptyTitle) + "\n" + mutedStyle.Render(view.Message))
	case grid.ModeError:
		return boxStyle.Render(errorStyle.Render(users.ErrorTitle) + "\n" + mutedStyle.Render(view.Message))
	}
	return m.table.View()
}

func (m *Model) paginationView() string {
	st := m.sess.State()
	v, ok := pagination.Compute(m.totalItems(), st.PageSize, st.Page)
	if !ok {
		return ""
	}
	slots := make([]string, len(v.Slots))
	for i, s := range v.Slots {
		if !s.Ellipsis && s.Page == v.CurrentPage {
			slots[i] = accentStyle.Render("[" + s.String() + "]")
			continue
		}
		slots[i] = s.String()
	}
	return strings.Join([]string{
		mutedStyle.Render(v.RangeText()),
		strings.Join(slots, " "),
		v.PageText(),
		mutedStyle.Render(fmt.Sprintf("%d / page", v.PageSize)),
	}, "   ")
}
