package handler

import (
	"strings"

	"github.com/cse-motors/dealership/internal/core/domain"
)

// --- Form types ---
// Each form binds from application/x-www-form-urlencoded bodies. sticky()
// returns what may be echoed back into the re-rendered form; passwords never are.

type loginForm struct {
	Email    string `form:"account_email"    validate:"required,max=255,email"`
	Password string `form:"account_password" validate:"required"`
}

func (f *loginForm) normalize() {
	f.Email = domain.NormalizeEmail(f.Email)
}

func (f loginForm) sticky() map[string]string {
	return map[string]string{"account_email": f.Email}
}

type registerForm struct {
	FirstName string `form:"account_firstname" validate:"required,max=100"`
	LastName  string `form:"account_lastname"  validate:"required,min=2,max=100"`
	Email     string `form:"account_email"     validate:"required,max=255,email"`
	Password  string `form:"account_password"  validate:"required,nospaces,strongpassword"`
}

func (f *registerForm) normalize() {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = domain.NormalizeEmail(f.Email)
}

func (f registerForm) sticky() map[string]string {
	return map[string]string{
		"account_firstname": f.FirstName,
		"account_lastname":  f.LastName,
		"account_email":     f.Email,
	}
}

type profileForm struct {
	AccountID string `form:"account_id"        validate:"positiveid"`
	FirstName string `form:"account_firstname" validate:"required,max=100"`
	LastName  string `form:"account_lastname"  validate:"required,min=2,max=100"`
	Email     string `form:"account_email"     validate:"required,max=255,email"`
}

func (f *profileForm) normalize() {
	f.AccountID = strings.TrimSpace(f.AccountID)
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = domain.NormalizeEmail(f.Email)
}

func (f profileForm) sticky() map[string]string {
	return map[string]string{
		"account_id":        f.AccountID,
		"account_firstname": f.FirstName,
		"account_lastname":  f.LastName,
		"account_email":     f.Email,
	}
}

type passwordForm struct {
	AccountID string `form:"account_id"       validate:"positiveid"`
	Password  string `form:"account_password" validate:"required,nospaces,strongpassword"`
}

// accountFormValues pre-fills the update form from a stored account.
func accountFormValues(a *domain.Account) map[string]string {
	return map[string]string{
		"account_id":        formatID(a.ID),
		"account_firstname": a.FirstName,
		"account_lastname":  a.LastName,
		"account_email":     a.Email,
	}
}
