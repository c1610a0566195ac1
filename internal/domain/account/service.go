package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sihatech/sihati/internal/platform/auth"
	"github.com/sihatech/sihati/internal/platform/db"
	"github.com/sihatech/sihati/internal/platform/validate"
)

// ErrInvalidCredentials is returned for unknown usernames, wrong
// passwords and deactivated accounts alike, so login failures do not
// leak which accounts exist.
var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates an account from a plaintext password. The password
// is bcrypt-hashed before it touches the repository.
func (s *Service) Register(ctx context.Context, a *Account, password string) error {
	a.Username = strings.TrimSpace(strings.ToLower(a.Username))
	if err := s.validate(a); err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	a.PasswordHash = hash
	a.Active = true
	if err := s.repo.Create(ctx, a); err != nil {
		return err
	}
	log.Info().Int64("account_id", a.ID).Str("role", a.Role).Msg("account registered")
	return nil
}

// Authenticate verifies a username/password pair and returns the
// matching active account.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*Account, error) {
	username = strings.TrimSpace(strings.ToLower(username))
	a, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !a.Active || !auth.CheckPassword(a.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Account, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*Account, error) {
	return s.repo.GetByUsername(ctx, strings.TrimSpace(strings.ToLower(username)))
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Account, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Update(ctx context.Context, a *Account) error {
	if a.ID == 0 {
		return fmt.Errorf("%w: account id is required for update", db.ErrNotFound)
	}
	if err := s.validate(a); err != nil {
		return err
	}
	return s.repo.Update(ctx, a)
}

// ChangePassword verifies the current password before storing a new
// hash. Admins reset passwords through ResetPassword instead.
func (s *Service) ChangePassword(ctx context.Context, id int64, current, next string) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(a.PasswordHash, current) {
		return ErrInvalidCredentials
	}
	return s.storePassword(ctx, id, next)
}

func (s *Service) ResetPassword(ctx context.Context, id int64, next string) error {
	return s.storePassword(ctx, id, next)
}

func (s *Service) storePassword(ctx context.Context, id int64, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.UpdatePassword(ctx, id, hash)
}

func (s *Service) Activate(ctx context.Context, id int64) error {
	return s.repo.SetActive(ctx, id, true)
}

func (s *Service) Deactivate(ctx context.Context, id int64) error {
	return s.repo.SetActive(ctx, id, false)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(a *Account) error {
	if err := validate.Required("username", a.Username); err != nil {
		return err
	}
	if !ValidRole(a.Role) {
		return validate.Errorf("invalid role %q", a.Role)
	}
	if a.Email != nil && *a.Email != "" {
		if err := validate.Email(*a.Email); err != nil {
			return err
		}
	}
	if a.Role == RoleDoctor && a.PractitionerID == nil {
		return validate.Errorf("doctor accounts must reference a practitioner")
	}
	if a.Role == RolePatient && a.PatientID == nil {
		return validate.Errorf("patient accounts must reference a patient")
	}
	return nil
}
