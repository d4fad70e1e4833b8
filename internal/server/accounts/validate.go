package accounts

import (
	"regexp"
	"strings"

	"github.com/ktkar/maintron/internal/shared"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 6

var phonePattern = regexp.MustCompile(`^\d{10}$`)

// ProfileParams are the non-secret account fields.
type ProfileParams struct {
	Name     string `json:"name"`
	Building string `json:"building"`
	Floor    string `json:"floor"`
	Flat     string `json:"flat"`
	Phone    string `json:"phone"`
}

// RegisterParams are the fields required to create an account.
type RegisterParams struct {
	ProfileParams
	Password string `json:"password"`
}

// DeriveCode computes the short account code from building and flat.
func DeriveCode(building, flat string) string {
	return strings.ToUpper(building) + strings.ToUpper(flat)
}

// Normalize trims every field and uppercases the two code components.
// Floor is trimmed only; it does not participate in the code.
func (p *ProfileParams) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Building = strings.ToUpper(strings.TrimSpace(p.Building))
	p.Floor = strings.TrimSpace(p.Floor)
	p.Flat = strings.ToUpper(strings.TrimSpace(p.Flat))
	p.Phone = strings.TrimSpace(p.Phone)
}

// Validate checks the non-secret fields and returns a field-attributed
// validation error, or nil when everything is well-formed. Callers must
// Normalize first.
func (p ProfileParams) Validate() error {
	ve := shared.NewValidationError()

	if p.Name == "" {
		ve.Add("name", "name is required")
	}
	if p.Building == "" {
		ve.Add("building", "building is required")
	}
	if p.Floor == "" {
		ve.Add("floor", "floor is required")
	}
	if p.Flat == "" {
		ve.Add("flat", "flat is required")
	}
	if !phonePattern.MatchString(p.Phone) {
		ve.Add("phone", "phone must be exactly 10 digits")
	}

	if ve.Empty() {
		return nil
	}
	return ve
}

// Validate checks registration input including the password.
func (p RegisterParams) Validate() error {
	ve := shared.NewValidationError()

	if err := p.ProfileParams.Validate(); err != nil {
		ve = err.(*shared.ValidationError)
	}
	if len(p.Password) < MinPasswordLength {
		ve.Add("password", "password must be at least 6 characters long")
	}

	if ve.Empty() {
		return nil
	}
	return ve
}

func validateNewPassword(password string) error {
	if len(password) < MinPasswordLength {
		ve := shared.NewValidationError()
		ve.Add("newPassword", "password must be at least 6 characters long")
		return ve
	}
	return nil
}
