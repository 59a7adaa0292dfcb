package user

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserDuplicated     = errors.New("user already exists")
)

// TokenInfo is the token response handed back to the caller verbatim.
type TokenInfo struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	IDToken      string `json:"id_token,omitempty"`
	Scope        string `json:"scope"`
}

type RegisterInput struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
	Mobile    string
}

// UpdateInput carries optional profile fields; empty strings leave the
// stored value untouched.
type UpdateInput struct {
	FirstName string
	LastName  string
	Email     string
	Mobile    string
}
