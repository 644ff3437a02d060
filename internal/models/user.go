package models

// User is one registered identity. Users are created on registration and never
// updated or deleted.
type User struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	// Password holds a bcrypt hash for accounts registered by this service and
	// the plaintext value for accounts imported from older users files.
	Password string `json:"password"`
}

// Public strips the credential.
func (u User) Public() PublicUser {
	return PublicUser{Name: u.Name, Email: u.Email, Username: u.Username}
}

type PublicUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
}
