// Package tui is the terminal browser. The address state is an in-process
// store; every key binding goes through the same controls the web console
// uses, and fetches run as bubbletea commands.
//
// The model is not safe for use outside the bubbletea event loop.
package tui

import (
	"context"
	"log/slog"

	"github.com/RezaEskandarii/recordgrid/internal/address"
	"github.com/RezaEskandarii/recordgrid/internal/fetcher"
	"github.com/RezaEskandarii/recordgrid/internal/grid"
	"github.com/RezaEskandarii/recordgrid/internal/mutation"
	"github.com/RezaEskandarii/recordgrid/internal/pagination"
	"github.com/RezaEskandarii/recordgrid/internal/query"
	"github.com/RezaEskandarii/recordgrid/internal/session"
	"github.com/RezaEskandarii/recordgrid/internal/state"
	"github.com/RezaEskandarii/recordgrid/internal/users"
	"github.com/RezaEskandarii/recordgrid/types"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// Mutator is the subset of the mutation gateway the browser calls.
type Mutator interface {
	Create(ctx context.Context, fields mutation.UserFields) types.MutationOutcome
	Update(ctx context.Context, id string, patch mutation.UserPatch) types.MutationOutcome
	Delete(ctx context.Context, id string) types.MutationOutcome
	ToggleStatus(ctx context.Context, id string, current bool) types.MutationOutcome
}

type Config struct {
	Source   fetcher.Source[types.User]
	Defaults query.Defaults
	Mutator  Mutator
	Stats    users.StatsSource
	Logger   *slog.Logger
	// Initial seeds the address state, e.g. from command flags.
	Initial        map[string][]string
	SessionOptions []session.Option
}

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeForm
	modeConfirm
)

type fetchedMsg struct {
	snapshot fetcher.Snapshot[types.User]
}

type statsMsg struct {
	stats types.UserStats
}

type mutationMsg struct {
	outcome types.MutationOutcome
}

// RefreshMsg re-fetches the current page; the refresh scheduler sends it.
type RefreshMsg struct{}

type Model struct {
	ctx     context.Context
	sess    *session.Session[types.User]
	grid    *grid.Grid[types.User]
	mutator Mutator
	stats   users.StatsSource
	logger  *slog.Logger

	table   table.Model
	search  textinput.Model
	spinner spinner.Model

	mode      mode
	form      *huh.Form
	formData  *users.Form
	editing   *types.User
	confirmed bool

	snapshot  fetcher.Snapshot[types.User]
	userStats types.UserStats
	inFlight  int
	flash     *types.MutationOutcome

	// triggered is set by the session when a control changed the request.
	triggered bool
	queued    tea.Cmd

	width    int
	quitting bool
}

func NewModel(ctx context.Context, cfg Config) *Model {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := &Model{
		ctx:       ctx,
		mutator:   cfg.Mutator,
		stats:     cfg.Stats,
		logger:    logger,
		userStats: users.ZeroStats(),
	}

	store := address.NewStore("/users", cfg.Initial)
	opts := append([]session.Option{
		session.WithLogger(logger),
		session.WithTrigger(func(string) { m.triggered = true }),
	}, cfg.SessionOptions...)
	m.sess = session.New[types.User](store, cfg.Defaults, cfg.Source, opts...)
	m.sess.Bind()

	m.grid = users.NewGrid(users.Handlers{
		Edit:   m.openEdit,
		Toggle: m.toggle,
		Delete: m.openDelete,
	})

	m.search = textinput.New()
	m.search.Placeholder = users.SearchHint
	m.search.Prompt = "/ "
	m.search.SetValue(m.sess.State().Search)

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot
	m.spinner.Style = accentStyle

	m.table = table.New(table.WithFocused(true), table.WithHeight(cfg.Defaults.PageSize+1))
	m.table.SetStyles(tableStyles())
	m.syncTable()
	return m
}

// Close stops observing the address store.
func (m *Model) Close() {
	m.sess.Close()
}

// Store exposes the address state, mostly for tests and the list command.
func (m *Model) Store() *address.Store { return m.sess.Store() }

func (m *Model) Init() tea.Cmd {
	load := m.sess.Load
	if len(m.sess.Store().Values()) > 0 {
		load = m.sess.Refresh
	}
	m.inFlight++
	m.syncTable()
	return tea.Batch(
		func() tea.Msg { return fetchedMsg{snapshot: load(m.ctx)} },
		m.loadStats(),
		m.spinner.Tick,
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.table.SetWidth(msg.Width)
		if m.form != nil {
			m.form = m.form.WithWidth(msg.Width)
		}
		return m, nil

	case fetchedMsg:
		m.inFlight--
		m.snapshot = m.sess.Fetcher().Snapshot()
		m.syncTable()
		return m, nil

	case statsMsg:
		m.userStats = msg.stats
		return m, nil

	case mutationMsg:
		outcome := msg.outcome
		m.flash = &outcome
		if outcome.ShouldRefresh {
			return m, tea.Batch(m.fetch(), m.loadStats())
		}
		return m, nil

	case RefreshMsg:
		if m.mode != modeBrowse {
			return m, nil
		}
		return m, m.fetch()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	switch m.mode {
	case modeSearch:
		cmds = append(cmds, m.updateSearch(msg))
	case modeForm, modeConfirm:
		cmds = append(cmds, m.updateForm(msg))
	default:
		if key, ok := msg.(tea.KeyMsg); ok {
			cmds = append(cmds, m.handleKey(key))
		}
	}

	cmds = append(cmds, m.drain())
	return m, tea.Batch(cmds...)
}

// drain turns a session trigger and any queued row-action command into the
// commands to run next.
func (m *Model) drain() tea.Cmd {
	var cmds []tea.Cmd
	if m.triggered {
		m.triggered = false
		cmds = append(cmds, m.fetch())
	}
	if m.queued != nil {
		cmds = append(cmds, m.queued)
		m.queued = nil
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleKey(key tea.KeyMsg) tea.Cmd {
	ctl := m.sess.Controls()
	st := m.sess.State()
	total := m.totalItems()
	totalPages := pagination.TotalPages(total, st.PageSize)

	switch key.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return tea.Quit
	case "/":
		m.mode = modeSearch
		m.search.SetValue(st.Search)
		m.search.CursorEnd()
		return m.search.Focus()
	case "s":
		ctl.ToggleSort(nextSortField(st.SortField))
	case "o":
		ctl.ToggleSort(st.SortField)
	case "a":
		ctl.ToggleStatus(state.StatusActive.String())
	case "i":
		ctl.ToggleStatus(state.StatusInactive.String())
	case "c":
		ctl.ClearFilters()
	case "right", "l", "pgdown":
		ctl.GoToPage(st.Page+1, totalPages)
	case "left", "h", "pgup":
		ctl.GoToPage(st.Page-1, totalPages)
	case "home", "g":
		ctl.GoToPage(1, totalPages)
	case "end", "G":
		ctl.GoToPage(totalPages, totalPages)
	case "+", "=":
		ctl.ChangePageSize(stepPageSize(m.sess.Defaults().PageSizes, st.PageSize, 1), total)
	case "-":
		ctl.ChangePageSize(stepPageSize(m.sess.Defaults().PageSizes, st.PageSize, -1), total)
	case "r":
		return tea.Batch(m.fetch(), m.loadStats())
	case "n":
		return m.openCreate()
	case "e":
		m.trigger(0)
	case "t":
		m.trigger(1)
	case "d":
		m.trigger(2)
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(key)
		return cmd
	}
	return nil
}

// trigger runs the row action at index on the selected row.
func (m *Model) trigger(index int) {
	u, ok := m.selected()
	if !ok {
		return
	}
	if err := m.grid.Trigger(index, u); err != nil {
		m.logger.Warn("row action", "index", index, "error", err)
	}
}

func (m *Model) updateSearch(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			m.mode = modeBrowse
			m.search.Blur()
			m.sess.Controls().SetSearch(m.search.Value())
			return nil
		case "esc":
			m.mode = modeBrowse
			m.search.Blur()
			m.search.SetValue(m.sess.State().Search)
			return nil
		}
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return cmd
}

func (m *Model) fetch() tea.Cmd {
	m.inFlight++
	m.syncTable()
	return func() tea.Msg {
		return fetchedMsg{snapshot: m.sess.Refresh(m.ctx)}
	}
}

func (m *Model) loadStats() tea.Cmd {
	if m.stats == nil {
		return nil
	}
	return func() tea.Msg {
		return statsMsg{stats: users.LoadStats(m.ctx, m.stats, m.logger)}
	}
}

func (m *Model) mutate(run func(ctx context.Context) types.MutationOutcome) tea.Cmd {
	return func() tea.Msg {
		return mutationMsg{outcome: run(m.ctx)}
	}
}

func (m *Model) toggle(u types.User) {
	id, active := u.ID, u.Active
	m.queued = m.mutate(func(ctx context.Context) types.MutationOutcome {
		return m.mutator.ToggleStatus(ctx, id, active)
	})
}

func (m *Model) loading() bool {
	return m.inFlight > 0
}

func (m *Model) items() []types.User {
	if m.snapshot.Data == nil {
		return nil
	}
	return m.snapshot.Data.Items
}

func (m *Model) totalItems() int {
	if m.snapshot.Data == nil {
		return 0
	}
	return m.snapshot.Data.TotalCount
}

func (m *Model) selected() (types.User, bool) {
	items := m.items()
	if m.loading() || m.snapshot.Err != "" {
		return types.User{}, false
	}
	i := m.table.Cursor()
	if i < 0 || i >= len(items) {
		return types.User{}, false
	}
	return items[i], true
}

func nextSortField(current string) string {
	for i, o := range users.SortOptions {
		if o.Value == current {
			return users.SortOptions[(i+1)%len(users.SortOptions)].Value
		}
	}
	return users.SortOptions[0].Value
}

func stepPageSize(sizes []int, current, step int) int {
	if len(sizes) == 0 {
		return current
	}
	for i, s := range sizes {
		if s == current {
			return sizes[(i+step+len(sizes))%len(sizes)]
		}
	}
	return sizes[0]
}
