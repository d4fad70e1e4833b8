// Package accounts implements the account registry: registration, login,
// and profile and password mutation under the phone-uniqueness constraint.
package accounts

import "time"

// Account is a resident's registered identity. The password hash is never
// serialized outward.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Building     string    `json:"building"`
	Floor        string    `json:"floor"`
	Flat         string    `json:"flat"`
	Phone        string    `json:"phone"`
	Code         string    `json:"code"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
