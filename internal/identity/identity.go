package identity

import "strings"

// Safe returns the document-store key form of an email address: the
// address is lower-cased, then "." and "@" are replaced with "-".
// Lower-casing first makes the transform idempotent and keeps addresses
// differing only in case from mapping to distinct keys.
func Safe(email string) string {
	safe := strings.ToLower(strings.TrimSpace(email))
	safe = strings.ReplaceAll(safe, ".", "-")
	safe = strings.ReplaceAll(safe, "@", "-")
	return safe
}

// Identity is the resolved caller identity passed explicitly into every
// service call. There is no ambient current-user state.
type Identity struct {
	Email string // raw address, as entered at registration
	Safe  string // store key form
	Name  string // display name ("First Last")
}

// New builds an Identity from a verified email and display name
func New(email, name string) Identity {
	return Identity{
		Email: email,
		Safe:  Safe(email),
		Name:  name,
	}
}
