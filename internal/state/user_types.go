package state

type UserType string

const (
	TypeAdmin    UserType = "ADMIN"
	TypeManager  UserType = "MANAGER"
	TypeCustomer UserType = "CUSTOMER"
	// TypeUnknown stands for any value the backend sends that is not declared here.
	TypeUnknown UserType = "UNKNOWN"
)

type BadgeVariant string

const (
	BadgeDefault     BadgeVariant = "default"
	BadgeSecondary   BadgeVariant = "secondary"
	BadgeOutline     BadgeVariant = "outline"
	BadgeDestructive BadgeVariant = "destructive"
)

type UserTypeConfig struct {
	Value        UserType
	Label        string
	Description  string
	BadgeVariant BadgeVariant
}

var userTypes = map[UserType]UserTypeConfig{
	TypeAdmin: {
		Value:        TypeAdmin,
		Label:        "Administrateur",
		Description:  "Administrateur système",
		BadgeVariant: BadgeDefault,
	},
	TypeManager: {
		Value:        TypeManager,
		Label:        "Manager",
		Description:  "Gestionnaire/Manager",
		BadgeVariant: BadgeOutline,
	},
	TypeCustomer: {
		Value:        TypeCustomer,
		Label:        "Client",
		Description:  "Client/Utilisateur client",
		BadgeVariant: BadgeSecondary,
	},
}

var unknownUserType = UserTypeConfig{
	Value:        TypeUnknown,
	Label:        "Inconnu",
	Description:  "Type non reconnu",
	BadgeVariant: BadgeOutline,
}

// UserTypeOptions is ordered for select inputs.
var UserTypeOptions = []UserTypeConfig{
	userTypes[TypeAdmin],
	userTypes[TypeManager],
	userTypes[TypeCustomer],
}

// AssignableUserTypes are the types an operator may set from a form; customers
// register themselves.
var AssignableUserTypes = []UserTypeConfig{
	userTypes[TypeAdmin],
	userTypes[TypeManager],
}

// GetUserTypeConfig never guesses a backend value for unrecognized input.
func GetUserTypeConfig(raw string) UserTypeConfig {
	if cfg, ok := userTypes[UserType(raw)]; ok {
		return cfg
	}
	return unknownUserType
}

func GetUserTypeBadgeVariant(raw string) BadgeVariant {
	return GetUserTypeConfig(raw).BadgeVariant
}
