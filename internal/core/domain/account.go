package domain

import (
	"strings"
	"time"
)

// Role is the closed set of account types. The zero value is not a role.
type Role string

const (
	RoleClient   Role = "Client"
	RoleEmployee Role = "Employee"
	RoleAdmin    Role = "Admin"
)

// ParseRole maps a stored or claimed account type onto a Role.
// Matching is case-insensitive; anything outside the enumeration is rejected.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "client":
		return RoleClient, true
	case "employee":
		return RoleEmployee, true
	case "admin":
		return RoleAdmin, true
	default:
		return "", false
	}
}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleEmployee, RoleAdmin:
		return true
	default:
		return false
	}
}

// RoleSet is an explicit set of roles allowed through a guard.
type RoleSet struct {
	client, employee, admin bool
}

// NewRoleSet builds a RoleSet. Invalid roles are ignored.
func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		switch r {
		case RoleClient:
			s.client = true
		case RoleEmployee:
			s.employee = true
		case RoleAdmin:
			s.admin = true
		}
	}
	return s
}

// Contains reports whether r is a member of the set.
func (s RoleSet) Contains(r Role) bool {
	switch r {
	case RoleClient:
		return s.client
	case RoleEmployee:
		return s.employee
	case RoleAdmin:
		return s.admin
	default:
		return false
	}
}

// Roles allowed to manage inventory.
var InventoryManagers = NewRoleSet(RoleEmployee, RoleAdmin)

// Roles allowed to edit accounts they do not own.
var AccountAdministrators = NewRoleSet(RoleAdmin)

// Account is a registered user of the dealership site.
type Account struct {
	ID           int64     `json:"account_id"`
	FirstName    string    `json:"account_firstname"`
	LastName     string    `json:"account_lastname"`
	Email        string    `json:"account_email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"account_type"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity returns the claim-shaped view of the account.
func (a *Account) Identity() Identity {
	return Identity{
		AccountID: a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
		Role:      a.Role,
	}
}

// Identity is who a request acts as. The zero value is the anonymous visitor.
type Identity struct {
	AccountID int64
	FirstName string
	LastName  string
	Email     string
	Role      Role
}

// Anonymous is the identity of a visitor without a valid session token.
var Anonymous = Identity{}

// Authenticated reports whether the identity came from a verified token.
func (i Identity) Authenticated() bool {
	return i.AccountID > 0 && i.Role.Valid()
}

// CanManage reports whether the identity may act on the account with the given id.
func (i Identity) CanManage(accountID int64) bool {
	if !i.Authenticated() {
		return false
	}
	return i.AccountID == accountID || AccountAdministrators.Contains(i.Role)
}

// NormalizeEmail trims and lower-cases an address so lookups and the unique
// constraint agree on a single spelling.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
