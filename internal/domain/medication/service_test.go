package medication

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sihatech/sihati/internal/platform/db"
)

type mockRepo struct {
	meds   map[int64]*Medication
	nextID int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{meds: make(map[int64]*Medication)}
}

func (m *mockRepo) Create(_ context.Context, med *Medication) error {
	m.nextID++
	med.ID = m.nextID
	med.CreatedAt = time.Now()
	med.UpdatedAt = time.Now()
	m.meds[med.ID] = med
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id int64) (*Medication, error) {
	med, ok := m.meds[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return med, nil
}

func (m *mockRepo) SearchByName(_ context.Context, fragment string, limit, offset int) ([]*Medication, int, error) {
	var result []*Medication
	for _, med := range m.meds {
		if strings.Contains(strings.ToLower(med.Name), strings.ToLower(fragment)) {
			result = append(result, med)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Medication, int, error) {
	var result []*Medication
	for _, med := range m.meds {
		result = append(result, med)
	}
	return result, len(result), nil
}

func (m *mockRepo) ListLowStock(_ context.Context) ([]*Medication, error) {
	var result []*Medication
	for _, med := range m.meds {
		if med.LowStock() {
			result = append(result, med)
		}
	}
	return result, nil
}

func (m *mockRepo) Update(_ context.Context, med *Medication) error {
	if _, ok := m.meds[med.ID]; !ok {
		return db.ErrNotFound
	}
	m.meds[med.ID] = med
	return nil
}

func (m *mockRepo) AdjustStock(_ context.Context, id int64, delta int) error {
	med, ok := m.meds[id]
	if !ok {
		return db.ErrNotFound
	}
	med.StockQuantity += delta
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.meds[id]; !ok {
		return db.ErrNotFound
	}
	delete(m.meds, id)
	return nil
}

func newTestService() *Service {
	return NewService(newMockRepo())
}

func validMedication() *Medication {
	return &Medication{Name: "Paracétamol", Dosage: "500mg", StockQuantity: 100, AlertThreshold: 20}
}

func TestCreate(t *testing.T) {
	svc := newTestService()
	m := validMedication()

	if err := svc.Create(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ID == 0 {
		t.Error("expected generated id")
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService()

	cases := map[string]*Medication{
		"missing name":       {Dosage: "500mg"},
		"missing dosage":     {Name: "Paracétamol"},
		"negative stock":     {Name: "Paracétamol", Dosage: "500mg", StockQuantity: -1},
		"negative threshold": {Name: "Paracétamol", Dosage: "500mg", AlertThreshold: -1},
	}
	for name, m := range cases {
		if err := svc.Create(context.Background(), m); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestDispense(t *testing.T) {
	svc := newTestService()
	m := validMedication()
	svc.Create(context.Background(), m)

	if err := svc.Dispense(context.Background(), m.ID, 30); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := svc.Get(context.Background(), m.ID)
	if got.StockQuantity != 70 {
		t.Errorf("stock = %d, want 70", got.StockQuantity)
	}

	if err := svc.Dispense(context.Background(), m.ID, 100); err == nil {
		t.Error("expected error for insufficient stock")
	}
	if err := svc.Dispense(context.Background(), m.ID, 0); err == nil {
		t.Error("expected error for zero quantity")
	}
}

func TestRestock(t *testing.T) {
	svc := newTestService()
	m := validMedication()
	svc.Create(context.Background(), m)

	if err := svc.Restock(context.Background(), m.ID, 50); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := svc.Get(context.Background(), m.ID)
	if got.StockQuantity != 150 {
		t.Errorf("stock = %d, want 150", got.StockQuantity)
	}

	if err := svc.Restock(context.Background(), m.ID, -5); err == nil {
		t.Error("expected error for negative restock")
	}
}

func TestListLowStock(t *testing.T) {
	svc := newTestService()
	ok := validMedication()
	svc.Create(context.Background(), ok)

	low := &Medication{Name: "Amoxicilline", Dosage: "1g", StockQuantity: 5, AlertThreshold: 10}
	svc.Create(context.Background(), low)

	items, err := svc.ListLowStock(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Amoxicilline" {
		t.Errorf("expected only the low-stock medication, got %d items", len(items))
	}
}

func TestStockRatio(t *testing.T) {
	m := &Medication{StockQuantity: 5, AlertThreshold: 10}
	if got := m.StockRatio(); got != 0.5 {
		t.Errorf("StockRatio = %v, want 0.5", got)
	}
	if !m.LowStock() {
		t.Error("expected low stock")
	}

	m = &Medication{StockQuantity: 0, AlertThreshold: 0}
	if got := m.StockRatio(); got != 1 {
		t.Errorf("StockRatio = %v, want 1 for zero threshold", got)
	}
	if m.LowStock() {
		t.Error("zero threshold never alerts")
	}
}
