package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/ktkar/maintron/internal/logging"
	"github.com/ktkar/maintron/internal/server/auth"
	"github.com/ktkar/maintron/internal/shared"
)

// HealthChecker gates store operations; it fails fast with
// shared.ErrUnavailable while the store is down.
type HealthChecker interface {
	Guard(ctx context.Context) error
}

// Service is the sole writer of account records.
type Service struct {
	repo   Repository
	health HealthChecker
	logger logging.Logger
}

func NewService(repo Repository, health HealthChecker, logger logging.Logger) *Service {
	return &Service{
		repo:   repo,
		health: health,
		logger: logger.With("module", "accounts"),
	}
}

// Register creates a new account. The phone pre-check is an optimization
// only: the unique index catches racing registrations and the repository
// reports them as shared.ErrPhoneTaken.
func (s *Service) Register(ctx context.Context, p RegisterParams) (*Account, error) {

	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.health.Guard(ctx); err != nil {
		return nil, err
	}

	taken, err := s.repo.PhoneInUse(ctx, p.Phone, "")
	if err != nil {
		return nil, fmt.Errorf("error checking phone uniqueness: %w", err)
	}
	if taken {
		return nil, shared.ErrPhoneTaken
	}

	hash, err := auth.HashPassword(p.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	acc := &Account{
		Name:         p.Name,
		Building:     p.Building,
		Floor:        p.Floor,
		Flat:         p.Flat,
		Phone:        p.Phone,
		PasswordHash: hash,
		Code:         DeriveCode(p.Building, p.Flat),
	}

	acc, err = s.repo.Create(ctx, acc)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "account registered", "account_id", acc.ID)
	return acc, nil
}

// Login verifies credentials by phone. An unknown phone and a wrong
// password return the same generic error.
func (s *Service) Login(ctx context.Context, phone, password string) (*Account, error) {

	if err := s.health.Guard(ctx); err != nil {
		return nil, err
	}

	acc, err := s.repo.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error looking up account: %w", err)
	}

	if !auth.VerifyPassword(password, acc.PasswordHash) {
		return nil, shared.ErrInvalidCredentials
	}

	return acc, nil
}

// UpdateProfile applies the non-secret fields, re-deriving the code and
// re-checking phone uniqueness excluding the account's own id.
func (s *Service) UpdateProfile(ctx context.Context, id string, p ProfileParams) (*Account, error) {

	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.health.Guard(ctx); err != nil {
		return nil, err
	}

	acc := &Account{
		ID:       id,
		Name:     p.Name,
		Building: p.Building,
		Floor:    p.Floor,
		Flat:     p.Flat,
		Phone:    p.Phone,
		Code:     DeriveCode(p.Building, p.Flat),
	}

	acc, err := s.repo.Update(ctx, acc)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "profile updated", "account_id", acc.ID)
	return acc, nil
}

// UpdatePassword replaces the stored hash after verifying the current
// password. The stored hash is untouched on any failure. The plaintext is
// never persisted or logged.
func (s *Service) UpdatePassword(ctx context.Context, id, currentPassword, newPassword string) error {

	if err := validateNewPassword(newPassword); err != nil {
		return err
	}

	if err := s.health.Guard(ctx); err != nil {
		return err
	}

	acc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !auth.VerifyPassword(currentPassword, acc.PasswordHash) {
		return shared.ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	if err := s.repo.UpdatePasswordHash(ctx, id, hash); err != nil {
		return err
	}

	s.logger.Info(ctx, "password updated", "account_id", id)
	return nil
}
