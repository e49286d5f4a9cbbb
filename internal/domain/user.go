package domain

import "time"

// User is an authenticated account. The password hash never leaves the server;
// profile-facing fields live on Profile so the document store only holds what
// clients may read.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	LastLoginAt  time.Time `json:"last_login_at"`
}

// Touch updates the UpdatedAt timestamp to the current time.
func (u *User) Touch() {
	u.UpdatedAt = time.Now()
}

// DefaultDisplayName is shown when neither a profile name nor an email
// is available for a user.
const DefaultDisplayName = "Usuario"

// Profile is the public-facing user document stored at users/{userID}.
// It is written at registration and read back by the session store to
// resolve the display name.
type Profile struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName resolves the name to show for a profile, falling back to the
// email and then to the generic placeholder.
func (p *Profile) DisplayName() string {
	if p != nil && p.Name != "" {
		return p.Name
	}
	if p != nil && p.Email != "" {
		return p.Email
	}
	return DefaultDisplayName
}

// Identity is the resolved authentication state the session store publishes.
// Authenticated is true iff ID is present.
type Identity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// Authenticated reports whether the identity refers to a signed-in user.
func (i *Identity) Authenticated() bool {
	return i != nil && i.ID != ""
}
