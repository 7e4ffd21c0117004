package auth

// Completion describes the "complete your profile" step forced on a fresh
// identity with no profile document. Which fields are required and which are
// locked depends on the sign-in path, carried as explicit state rather than
// inferred later: a phone sign-in has a verified phone to lock and is missing
// name/email; a provider sign-in is the other way around.
type Completion struct {
	RequiredFields []string
	LockedFields   []string
	Prefill        map[string]string
}

func CompletionFor(id *Identity) Completion {
	switch id.Method {
	case MethodPhone:
		return Completion{
			RequiredFields: []string{"name", "gender"},
			LockedFields:   []string{"phone"},
			Prefill:        map[string]string{"phone": id.Phone},
		}
	default:
		return Completion{
			RequiredFields: []string{"phone"},
			LockedFields:   []string{"email"},
			Prefill: map[string]string{
				"name":  id.Name,
				"email": id.Email,
			},
		}
	}
}
