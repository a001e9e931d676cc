package domain

import "time"

// IssuedToken is a signed session token and its absolute expiry.
type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}

// AuthResult is returned by a successful login.
type AuthResult struct {
	Account *Account
	Token   IssuedToken
}

// RegisterInput is the data collected by the registration form.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// ProfileInput replaces the name and email of an account.
type ProfileInput struct {
	AccountID int64
	FirstName string
	LastName  string
	Email     string
}

// ProfileResult is the updated account plus, when the actor edited their own
// account, a token carrying the refreshed claims.
type ProfileResult struct {
	Account *Account
	Token   *IssuedToken
}
