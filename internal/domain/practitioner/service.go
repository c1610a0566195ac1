package practitioner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sihatech/sihati/internal/platform/db"
	"github.com/sihatech/sihati/internal/platform/validate"
)

type Service struct {
	repo  Repository
	depts DepartmentRepository
}

func NewService(repo Repository, depts DepartmentRepository) *Service {
	return &Service{repo: repo, depts: depts}
}

func (s *Service) validate(ctx context.Context, p *Practitioner) error {
	if err := validate.Required("first name", p.FirstName); err != nil {
		return err
	}
	if err := validate.Required("last name", p.LastName); err != nil {
		return err
	}
	if err := validate.Required("specialty", p.Specialty); err != nil {
		return err
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
	if p.HireDate != nil {
		if err := validate.NotInFuture("hire date", *p.HireDate); err != nil {
			return err
		}
	}
	if p.DepartmentID != nil {
		if _, err := s.depts.GetByID(ctx, *p.DepartmentID); err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return validate.Errorf("department %d does not exist", *p.DepartmentID)
			}
			return err
		}
	}
	return nil
}

func (s *Service) Create(ctx context.Context, p *Practitioner) error {
	if err := s.validate(ctx, p); err != nil {
		return err
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id int64) (*Practitioner, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, specialty string, limit, offset int) ([]*Practitioner, int, error) {
	if strings.TrimSpace(specialty) != "" {
		return s.repo.ListBySpecialty(ctx, specialty, limit, offset)
	}
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Update(ctx context.Context, p *Practitioner) error {
	if p.ID == 0 {
		return fmt.Errorf("%w: practitioner id is required for update", db.ErrNotFound)
	}
	if err := s.validate(ctx, p); err != nil {
		return err
	}
	return s.repo.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Exists reports whether a practitioner row resolves.
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

// -- Department --

func (s *Service) CreateDepartment(ctx context.Context, d *Department) error {
	if err := validate.Required("department name", d.Name); err != nil {
		return err
	}
	return s.depts.Create(ctx, d)
}

func (s *Service) GetDepartment(ctx context.Context, id int64) (*Department, error) {
	return s.depts.GetByID(ctx, id)
}

func (s *Service) ListDepartments(ctx context.Context) ([]*Department, error) {
	return s.depts.List(ctx)
}

func (s *Service) UpdateDepartment(ctx context.Context, d *Department) error {
	if d.ID == 0 {
		return fmt.Errorf("%w: department id is required for update", db.ErrNotFound)
	}
	if err := validate.Required("department name", d.Name); err != nil {
		return err
	}
	return s.depts.Update(ctx, d)
}

func (s *Service) DeleteDepartment(ctx context.Context, id int64) error {
	return s.depts.Delete(ctx, id)
}
