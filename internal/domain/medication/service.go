package medication

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

func (s *Service) validate(m *Medication) error {
	if err := validate.Required("medication name", m.Name); err != nil {
		return err
	}
	if err := validate.Required("dosage", m.Dosage); err != nil {
		return err
	}
	if m.StockQuantity < 0 {
		return validate.Errorf("stock quantity cannot be negative")
	}
	if m.AlertThreshold < 0 {
		return validate.Errorf("alert threshold cannot be negative")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, m *Medication) error {
	if err := s.validate(m); err != nil {
		return err
	}
	return s.repo.Create(ctx, m)
}

func (s *Service) Get(ctx context.Context, id int64) (*Medication, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, nameFragment string, limit, offset int) ([]*Medication, int, error) {
	if strings.TrimSpace(nameFragment) != "" {
		return s.repo.SearchByName(ctx, nameFragment, limit, offset)
	}
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListLowStock(ctx context.Context) ([]*Medication, error) {
	return s.repo.ListLowStock(ctx)
}

func (s *Service) Update(ctx context.Context, m *Medication) error {
	if m.ID == 0 {
		return fmt.Errorf("%w: medication id is required for update", db.ErrNotFound)
	}
	if err := s.validate(m); err != nil {
		return err
	}
	return s.repo.Update(ctx, m)
}

// Restock adds quantity units to stock.
func (s *Service) Restock(ctx context.Context, id int64, quantity int) error {
	if quantity <= 0 {
		return validate.Errorf("restock quantity must be positive")
	}
	return s.repo.AdjustStock(ctx, id, quantity)
}

// Dispense removes quantity units from stock, refusing to go below zero.
func (s *Service) Dispense(ctx context.Context, id int64, quantity int) error {
	if quantity <= 0 {
		return validate.Errorf("dispense quantity must be positive")
	}
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m.StockQuantity < quantity {
		return validate.Errorf("insufficient stock for %s: %d left, %d requested",
			m.Name, m.StockQuantity, quantity)
	}
	return s.repo.AdjustStock(ctx, id, -quantity)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Exists reports whether a medication row resolves. Treatment lines check
// their medication reference through this.
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
