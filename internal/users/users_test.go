package users

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/RezaEskandarii/recordgrid/internal/grid"
	"github.com/RezaEskandarii/recordgrid/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleUser() types.User {
	return types.User{
		ID:           "u-1",
		Username:     "jdupont",
		Email:        "jean@example.com",
		FirstName:    "Jean",
		LastName:     "Dupont",
		Active:       true,
		TypeUser:     types.UserTypes{"ADMIN", "AUDITOR"},
		DateCreation: types.NewTimestamp(time.Date(2025, 3, 4, 9, 30, 0, 0, time.UTC)),
	}
}

func TestGrid_RendersUserRow(t *testing.T) {
	g := NewGrid(Handlers{EditLink: func(u types.User) string { return "/users/" + u.ID + "/edit" }}, grid.WithLocation(time.UTC))

	v := g.Render(grid.Input[types.User]{Items: []types.User{sampleUser()}, SortField: "email"})
	require.Equal(t, grid.ModeTable, v.Mode)
	require.Len(t, v.Rows, 1)

	row := v.Rows[0]
	assert.Equal(t, "u-1", row.Key)
	assert.Equal(t, "Jean Dupont", row.Cells[0].Text)
	assert.True(t, row.Cells[1].Mono)
	assert.Equal(t, grid.KindMuted, row.Cells[2].Kind)
	assert.Equal(t, grid.KindPlaceholder, row.Cells[3].Kind)
	assert.Equal(t, []grid.Badge{
		{Text: "Administrateur", Variant: "default"},
		{Text: "AUDITOR", Variant: "outline"},
	}, row.Cells[4].Badges)
	assert.Equal(t, "Actif", row.Cells[5].Text)
	assert.Equal(t, "04/03/2025 09:30", row.Cells[6].Text)

	require.Len(t, row.Actions, 3)
	assert.Equal(t, "/users/u-1/edit", row.Actions[0].Href)
	assert.True(t, row.Actions[2].Destructive)
	assert.True(t, v.Headers[2].Active)
}

func TestGrid_EmptyUsesUserText(t *testing.T) {
	v := NewGrid(Handlers{}).Render(grid.Input[types.User]{})
	assert.Equal(t, grid.ModeEmpty, v.Mode)
	assert.Equal(t, EmptyText, v.Message)
}

func TestActions_TriggerEffects(t *testing.T) {
	var toggled, deleted string
	g := NewGrid(Handlers{
		Toggle: func(u types.User) { toggled = u.ID },
		Delete: func(u types.User) { deleted = u.ID },
	})

	require.NoError(t, g.Trigger(1, sampleUser()))
	require.NoError(t, g.Trigger(2, sampleUser()))
	assert.Error(t, g.Trigger(0, sampleUser()))
	assert.Equal(t, "u-1", toggled)
	assert.Equal(t, "u-1", deleted)
}

func TestForm(t *testing.T) {
	f := FormFromValues(url.Values{
		FieldFirstName: {" Jean "},
		FieldLastName:  {"Dupont"},
		FieldUsername:  {"jdupont"},
		FieldEmail:     {"jean@example.com"},
		FieldTypeUser:  {"MANAGER"},
		FieldActive:    {"on"},
	})
	assert.Equal(t, "Jean", f.FirstName)
	assert.True(t, f.Active)

	fields := f.Fields()
	assert.Equal(t, []string{"MANAGER"}, fields.TypeUser)

	patch := FormFromUser(sampleUser()).Patch()
	require.NotNil(t, patch.Active)
	assert.True(t, *patch.Active)
	assert.Equal(t, []string{"ADMIN"}, patch.TypeUser)

	assert.Nil(t, Form{}.Fields().TypeUser)
}

func TestTexts(t *testing.T) {
	assert.Equal(t, "1 utilisateur au total", TotalText(1))
	assert.Equal(t, "0 utilisateur au total", TotalText(0))
	assert.Equal(t, "42 utilisateurs au total", TotalText(42))
	assert.Equal(t, "Êtes-vous sûr de vouloir supprimer l'utilisateur Jean Dupont ?", DeleteMessage(sampleUser()))
	assert.Equal(t, "Actifs", OptionLabel(StatusOptions(), "active", FilterLabel))
	assert.Equal(t, SortLabel, OptionLabel(SortOptions, "nope", SortLabel))
}

type statsFunc func(ctx context.Context, out any) error

func (f statsFunc) Stats(ctx context.Context, out any) error { return f(ctx, out) }

func TestLoadStats(t *testing.T) {
	failing := statsFunc(func(context.Context, any) error { return errors.New("down") })
	assert.Equal(t, ZeroStats(), LoadStats(context.Background(), failing, nil))

	ok := statsFunc(func(_ context.Context, out any) error {
		*out.(*types.UserStats) = types.UserStats{Total: 4, Active: 3, Inactive: 1, ActivePercentage: 75}
		return nil
	})
	stats := LoadStats(context.Background(), ok, nil)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 0, stats.Breakdown["ADMIN"])

	cards := Cards(stats)
	require.Len(t, cards, 4)
	assert.Equal(t, "75.0% du total", cards[1].Footer)
	assert.Equal(t, "25.0% du total", cards[2].Footer)
}
