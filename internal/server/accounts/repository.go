package accounts

import "context"

// Repository persists account records. Implementations map storage-level
// uniqueness violations on phone to shared.ErrPhoneTaken and missing rows
// to shared.ErrNotFound.
type Repository interface {
	Create(ctx context.Context, acc *Account) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByPhone(ctx context.Context, phone string) (*Account, error)
	Update(ctx context.Context, acc *Account) (*Account, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	PhoneInUse(ctx context.Context, phone, excludeID string) (bool, error)
}
