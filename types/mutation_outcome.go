package types

// MutationOutcome is returned by every mutation and consumed immediately by the
// caller to show feedback and optionally trigger a refresh.
type MutationOutcome struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	ShouldRefresh bool   `json:"shouldRefresh"`
}

func Succeeded(message string) MutationOutcome {
	return MutationOutcome{Success: true, Message: message, ShouldRefresh: true}
}

func Failed(message string) MutationOutcome {
	return MutationOutcome{Success: false, Message: message}
}
