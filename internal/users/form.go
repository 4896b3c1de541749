package users

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/RezaEskandarii/recordgrid/internal/mutation"
	"github.com/RezaEskandarii/recordgrid/types"
)

// Form field names, shared by the HTML forms and the terminal forms.
const (
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldUsername  = "username"
	FieldEmail     = "email"
	FieldTelephone = "telephone"
	FieldTypeUser  = "typeUser"
	FieldActive    = "active"
)

const (
	CreateTitle       = "Créer un utilisateur"
	CreateDescription = "Ajoutez un nouvel utilisateur au système"
	CreateSubmit      = "Créer"
	EditTitle         = "Modifier l'utilisateur"
	EditSubmit        = "Mettre à jour"
	CancelLabel       = "Annuler"
)

// EditDescription names the user being edited.
func EditDescription(u types.User) string {
	return fmt.Sprintf("Modification de %s %s", u.FirstName, u.LastName)
}

// Form holds raw user input for the create and edit dialogs.
type Form struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Telephone string
	TypeUser  string
	Active    bool
}

// FieldLabels are the French labels of the form fields; required ones carry a star.
var FieldLabels = map[string]string{
	FieldFirstName: "Prénom *",
	FieldLastName:  "Nom *",
	FieldUsername:  "Nom d'utilisateur *",
	FieldEmail:     "Email *",
	FieldTelephone: "Téléphone",
	FieldTypeUser:  "Type d'utilisateur",
	FieldActive:    "Actif",
}

var FieldPlaceholders = map[string]string{
	FieldFirstName: "John",
	FieldLastName:  "Doe",
	FieldUsername:  "johndoe",
	FieldEmail:     "john@example.com",
	FieldTelephone: "+221771234567",
}

func FormFromUser(u types.User) Form {
	return Form{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		Email:     u.Email,
		Telephone: u.Telephone,
		TypeUser:  u.TypeUser.First(),
		Active:    u.Active,
	}
}

// FormFromValues reads a posted HTML form. A checkbox is present only when checked.
func FormFromValues(v url.Values) Form {
	active := v.Get(FieldActive)
	return Form{
		FirstName: strings.TrimSpace(v.Get(FieldFirstName)),
		LastName:  strings.TrimSpace(v.Get(FieldLastName)),
		Username:  strings.TrimSpace(v.Get(FieldUsername)),
		Email:     strings.TrimSpace(v.Get(FieldEmail)),
		Telephone: strings.TrimSpace(v.Get(FieldTelephone)),
		TypeUser:  strings.TrimSpace(v.Get(FieldTypeUser)),
		Active:    active == "on" || active == "true",
	}
}

func (f Form) typeUser() []string {
	if f.TypeUser == "" {
		return nil
	}
	return []string{f.TypeUser}
}

// Fields is the create payload.
func (f Form) Fields() mutation.UserFields {
	return mutation.UserFields{
		Username:  f.Username,
		Email:     f.Email,
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Telephone: f.Telephone,
		Active:    f.Active,
		TypeUser:  f.typeUser(),
	}
}

// Patch is the update payload. Empty inputs are left out by the gateway.
func (f Form) Patch() mutation.UserPatch {
	active := f.Active
	return mutation.UserPatch{
		Username:  &f.Username,
		Email:     &f.Email,
		FirstName: &f.FirstName,
		LastName:  &f.LastName,
		Telephone: &f.Telephone,
		Active:    &active,
		TypeUser:  f.typeUser(),
	}
}
