// Package users declares the user entity's grid columns, row actions, forms
// and stats for the console hosts.
package users

import (
	"fmt"
	"strings"

	"github.com/RezaEskandarii/recordgrid/internal/grid"
	"github.com/RezaEskandarii/recordgrid/internal/state"
	"github.com/RezaEskandarii/recordgrid/types"
)

const (
	Title       = "Gestion des utilisateurs"
	Subtitle    = "Gérez les utilisateurs de votre système"
	ListTitle   = "Liste des utilisateurs"
	SearchHint  = "Rechercher des utilisateurs..."
	CreateLabel = "Créer utilisateur"
	EmptyTitle  = "Aucun utilisateur"
	EmptyText   = "Il n'y a aucun utilisateur dans le système pour le moment."
	ErrorTitle  = "Erreur de chargement"
	SortLabel   = "Trier par"
	FilterLabel = "Filtrer par"
	ClearLabel  = "Effacer les filtres"
)

// Option is one entry of a sort or filter menu.
type Option struct {
	Label string
	Value string
}

var SortOptions = []Option{
	{Label: "Date création", Value: "dateCreation"},
	{Label: "Prénom", Value: "firstName"},
	{Label: "Nom", Value: "lastName"},
	{Label: "Nom d'utilisateur", Value: "username"},
	{Label: "Email", Value: "email"},
	{Label: "Type", Value: "typeUser"},
}

// StatusOptions lists the status filter entries.
func StatusOptions() []Option {
	out := make([]Option, len(state.AllStatuses))
	for i, s := range state.AllStatuses {
		out[i] = Option{Label: s.Label(), Value: s.String()}
	}
	return out
}

// OptionLabel returns the label for value, or fallback when no option matches.
func OptionLabel(options []Option, value, fallback string) string {
	for _, o := range options {
		if o.Value == value {
			return o.Label
		}
	}
	return fallback
}

// Columns are the user grid columns in display order.
func Columns() []grid.Column[types.User] {
	return []grid.Column[types.User]{
		{
			Key:      "firstName",
			Label:    "Prénom",
			Sortable: true,
			Render: func(_ any, u types.User) grid.Cell {
				return grid.Text(strings.TrimSpace(u.FirstName + " " + u.LastName))
			},
		},
		{
			Key:      "username",
			Label:    "Nom d'utilisateur",
			Sortable: true,
			Render: func(_ any, u types.User) grid.Cell {
				c := grid.Text(u.Username)
				c.Mono = true
				return c
			},
		},
		{
			Key:      "email",
			Label:    "Email",
			Sortable: true,
			Render: func(_ any, u types.User) grid.Cell {
				if u.Email == "" {
					return grid.Text("")
				}
				return grid.Muted(u.Email)
			},
		},
		{
			Key:   "telephone",
			Label: "Téléphone",
			Render: func(_ any, u types.User) grid.Cell {
				c := grid.Text(u.Telephone)
				c.Mono = c.Kind != grid.KindPlaceholder
				return c
			},
		},
		{
			Key:      "typeUser",
			Label:    "Type d'utilisateur",
			Sortable: true,
			Render: func(_ any, u types.User) grid.Cell {
				return TypeBadges(u.TypeUser)
			},
		},
		{
			Key:   "active",
			Label: "Statut",
		},
		{
			Key:      "dateCreation",
			Label:    "Date de création",
			Sortable: true,
		},
	}
}

// TypeBadges renders every user type as a badge; unknown values keep their
// raw text with the unknown variant.
func TypeBadges(values types.UserTypes) grid.Cell {
	badges := make([]grid.Badge, 0, len(values))
	for _, v := range values {
		cfg := state.GetUserTypeConfig(v)
		label := cfg.Label
		if cfg.Value == state.TypeUnknown {
			label = v
		}
		badges = append(badges, grid.Badge{Text: label, Variant: string(cfg.BadgeVariant)})
	}
	return grid.Badges(badges...)
}

// TotalText is the count shown above the grid.
func TotalText(total int) string {
	if total > 1 {
		return fmt.Sprintf("%d utilisateurs au total", total)
	}
	return fmt.Sprintf("%d utilisateur au total", total)
}

func DeleteTitle() string { return "Supprimer l'utilisateur" }

func DeleteMessage(u types.User) string {
	return fmt.Sprintf("Êtes-vous sûr de vouloir supprimer l'utilisateur %s %s ?", u.FirstName, u.LastName)
}

func DeleteDetails(u types.User) string {
	return fmt.Sprintf("Cette action est irréversible. L'utilisateur \"%s\" sera définitivement supprimé du système.", u.Username)
}
