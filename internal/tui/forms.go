package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/RezaEskandarii/recordgrid/internal/mutation"
	"github.com/RezaEskandarii/recordgrid/internal/state"
	"github.com/RezaEskandarii/recordgrid/internal/users"
	"github.com/RezaEskandarii/recordgrid/types"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errRequired
	}
	return nil
}

var errRequired = errors.New(mutation.MsgRequiredFields)

func (m *Model) userForm(data *users.Form, title, description string) *huh.Form {
	input := func(field string, value *string, mandatory bool) *huh.Input {
		in := huh.NewInput().
			Key(field).
			Title(users.FieldLabels[field]).
			Placeholder(users.FieldPlaceholders[field]).
			Value(value)
		if mandatory {
			in = in.Validate(required)
		}
		return in
	}

	typeOptions := make([]huh.Option[string], 0, len(state.AssignableUserTypes)+1)
	typeOptions = append(typeOptions, huh.NewOption(users.FieldLabels[users.FieldTypeUser], ""))
	for _, t := range state.AssignableUserTypes {
		typeOptions = append(typeOptions, huh.NewOption(t.Label, string(t.Value)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title(title).Description(description),
			input(users.FieldFirstName, &data.FirstName, true),
			input(users.FieldLastName, &data.LastName, true),
			input(users.FieldUsername, &data.Username, true),
			input(users.FieldEmail, &data.Email, true),
			input(users.FieldTelephone, &data.Telephone, false),
			huh.NewSelect[string]().
				Key(users.FieldTypeUser).
				Title(users.FieldLabels[users.FieldTypeUser]).
				Options(typeOptions...).
				Value(&data.TypeUser),
			huh.NewConfirm().
				Key(users.FieldActive).
				Title(users.FieldLabels[users.FieldActive]).
				Affirmative("Oui").
				Negative("Non").
				Value(&data.Active),
		),
	).WithShowHelp(true).WithWidth(m.formWidth())
}

func (m *Model) formWidth() int {
	if m.width > 0 && m.width < 80 {
		return m.width
	}
	return 80
}

func (m *Model) openCreate() tea.Cmd {
	m.formData = &users.Form{Active: true}
	m.editing = nil
	m.form = m.userForm(m.formData, users.CreateTitle, users.CreateDescription)
	m.mode = modeForm
	return m.form.Init()
}

func (m *Model) openEdit(u types.User) {
	data := users.FormFromUser(u)
	m.formData = &data
	m.editing = &u
	m.form = m.userForm(m.formData, users.EditTitle, users.EditDescription(u))
	m.mode = modeForm
	m.queued = m.form.Init()
}

func (m *Model) openDelete(u types.User) {
	m.editing = &u
	m.confirmed = false
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(users.DeleteTitle()).
				Description(users.DeleteMessage(u)+"\n"+users.DeleteDetails(u)).
				Affirmative(users.ActionDelete).
				Negative(users.CancelLabel).
				Value(&m.confirmed),
		),
	).WithWidth(m.formWidth())
	m.mode = modeConfirm
	m.queued = m.form.Init()
}

func (m *Model) updateForm(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		m.closeForm()
		return nil
	}

	model, cmd := m.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		submit := m.submit()
		m.closeForm()
		return tea.Batch(cmd, submit)
	case huh.StateAborted:
		m.closeForm()
	}
	return cmd
}

// submit turns the completed dialog into a mutation command.
func (m *Model) submit() tea.Cmd {
	switch {
	case m.mode == modeConfirm:
		if !m.confirmed || m.editing == nil {
			return nil
		}
		id := m.editing.ID
		return m.mutate(func(ctx context.Context) types.MutationOutcome {
			return m.mutator.Delete(ctx, id)
		})
	case m.editing != nil:
		id, patch := m.editing.ID, m.formData.Patch()
		return m.mutate(func(ctx context.Context) types.MutationOutcome {
			return m.mutator.Update(ctx, id, patch)
		})
	default:
		fields := m.formData.Fields()
		return m.mutate(func(ctx context.Context) types.MutationOutcome {
			return m.mutator.Create(ctx, fields)
		})
	}
}

func (m *Model) closeForm() {
	m.mode = modeBrowse
	m.form = nil
	m.formData = nil
	m.editing = nil
	m.confirmed = false
}
