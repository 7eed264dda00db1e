package domain

// UserRecord is the per-user document at <safeEmail>. The conversation
// index lives under <safeEmail>/conversations and is addressed as its
// own document; on tree-shaped stores it appears as an embedded field
// of this record and is ignored when decoding.
type UserRecord struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	PasswordHash string `json:"password_hash,omitempty"`
}

// DisplayName returns the name shown to other users
func (u UserRecord) DisplayName() string {
	return u.FirstName + " " + u.LastName
}

// DirectoryEntry is one entry in the flat "users" discovery list.
// Email holds the safe-identity form, matching what clients store.
type DirectoryEntry struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
