package model

// Session is the client's view of the signed-in user. It is rebuilt on
// every page load (or CLI start) from the session cookie or credential store.
type Session struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	Token           string `json:"token,omitempty"`
	Email           string `json:"email,omitempty"`
}

// Credentials is the login/register payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the credentials before they leave the process.
func (c Credentials) Validate() error {
	if err := requireText("email", c.Email); err != nil {
		return err
	}
	return requireText("password", c.Password)
}

// AuthResponse is returned by the backend on successful login/register.
type AuthResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// Profile is returned by the profile endpoints.
type Profile struct {
	Email string `json:"email"`
}
