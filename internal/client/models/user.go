// Package models defines client-side data models used by the VisionAQ client.
package models

// UserProfile is the account summary issued by the auth service. It is
// replaced wholesale on every login and never edited locally.
type UserProfile struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"name"`
}

// Credential is what the client keeps between runs: the bearer token and the
// profile cached next to it. Profile is nil when only the token was found.
type Credential struct {
	Token   string
	Profile *UserProfile
}

// Confirmed reports whether both halves of the credential are present.
func (c Credential) Confirmed() bool {
	return c.Token != "" && c.Profile != nil
}
