package state

// UserStatus is the value carried by the "status" address parameter.
type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusInactive UserStatus = "inactive"
)

func (s UserStatus) String() string {
	return string(s)
}

var AllStatuses = []UserStatus{
	StatusActive,
	StatusInactive,
}

// Label returns the French label shown in the filter menu.
func (s UserStatus) Label() string {
	switch s {
	case StatusActive:
		return "Actifs"
	case StatusInactive:
		return "Inactifs"
	default:
		return string(s)
	}
}

// ParseStatus maps a raw parameter to a known status; ok is false for
// anything else, including the empty string.
func ParseStatus(raw string) (UserStatus, bool) {
	for _, s := range AllStatuses {
		if string(s) == raw {
			return s, true
		}
	}
	return "", false
}

// Active reports the boolean a status filters on.
func (s UserStatus) Active() bool {
	return s == StatusActive
}
