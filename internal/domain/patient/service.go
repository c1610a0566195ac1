package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sihatech/sihati/internal/platform/db"
	"github.com/sihatech/sihati/internal/platform/validate"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) validate(p *Patient) error {
	if err := validate.Required("first name", p.FirstName); err != nil {
		return err
	}
	if err := validate.Required("last name", p.LastName); err != nil {
		return err
	}
	if p.Sex != "M" && p.Sex != "F" {
		return validate.Errorf("sex must be M or F")
	}
	if p.Email != nil {
		if err := validate.Email(*p.Email); err != nil {
			return err
		}
	}
	if p.Phone != nil {
		if err := validate.MoroccanPhone(*p.Phone); err != nil {
			return err
		}
	}
	if p.BirthDate != nil {
		if err := validate.NotInFuture("birth date", *p.BirthDate); err != nil {
			return err
		}
	}
	return nil
}

// Create registers a patient. Patients arriving without papers get a
// generated placeholder CIN; a duplicate CIN surfaces as ErrConflict
// from the unique index.
func (s *Service) Create(ctx context.Context, p *Patient) error {
	if err := s.validate(p); err != nil {
		return err
	}
	p.CIN = strings.ToUpper(strings.TrimSpace(p.CIN))
	if p.CIN == "" {
		p.CIN = GenerateCIN()
	}
	if err := validate.CIN(p.CIN); err != nil {
		return err
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id int64) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByCIN(ctx context.Context, cin string) (*Patient, error) {
	return s.repo.GetByCIN(ctx, strings.ToUpper(strings.TrimSpace(cin)))
}

func (s *Service) SearchByName(ctx context.Context, fragment string, limit, offset int) ([]*Patient, int, error) {
	if strings.TrimSpace(fragment) == "" {
		return s.repo.List(ctx, limit, offset)
	}
	return s.repo.SearchByName(ctx, fragment, limit, offset)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Update(ctx context.Context, p *Patient) error {
	if p.ID == 0 {
		return fmt.Errorf("%w: patient id is required for update", db.ErrNotFound)
	}
	if err := s.validate(p); err != nil {
		return err
	}
	p.CIN = strings.ToUpper(strings.TrimSpace(p.CIN))
	if err := validate.CIN(p.CIN); err != nil {
		return err
	}
	return s.repo.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Exists reports whether a patient row resolves. Appointment and billing
// flows check references through this before writing.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	_, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
