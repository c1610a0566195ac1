package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sihatech/sihati/internal/domain/appointment"
	"github.com/sihatech/sihati/internal/domain/consultation"
	"github.com/sihatech/sihati/internal/domain/patient"
	"github.com/sihatech/sihati/internal/domain/practitioner"
	"github.com/sihatech/sihati/internal/platform/cache"
)

// smokeCmd exercises the whole backend against a live database: one
// patient through appointment, consultation, invoicing and payment.
// Useful after migrations to confirm the deployment actually works.
func smokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "smoke",
		Short: "Run an end-to-end exercise against the configured database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := context.Background()
			pool, err := openPool(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			redisClient := cache.NewClient(ctx, cfg.RedisURL)
			if redisClient != nil {
				defer redisClient.Close()
			}

			svcs := buildServices(pool, redisClient)
			return runSmoke(ctx, svcs)
		},
	}
}

func runSmoke(ctx context.Context, svcs *services) error {
	step := func(n int, format string, args ...any) {
		fmt.Printf("[%d] %s\n", n, fmt.Sprintf(format, args...))
	}

	dept := &practitioner.Department{Name: fmt.Sprintf("Cardiologie %d", time.Now().UnixNano())}
	if err := svcs.practitioners.CreateDepartment(ctx, dept); err != nil {
		return fmt.Errorf("create department: %w", err)
	}
	step(1, "department %q created (id %d)", dept.Name, dept.ID)

	doctor := &practitioner.Practitioner{
		FirstName:    "Amine",
		LastName:     "El Fassi",
		Specialty:    "Cardiologie",
		DepartmentID: &dept.ID,
	}
	if err := svcs.practitioners.Create(ctx, doctor); err != nil {
		return fmt.Errorf("create practitioner: %w", err)
	}
	step(2, "practitioner %s created (id %d)", doctor.DisplayName(), doctor.ID)

	p := &patient.Patient{FirstName: "Salma", LastName: "Berrada", Sex: "F"}
	if err := svcs.patients.Create(ctx, p); err != nil {
		return fmt.Errorf("create patient: %w", err)
	}
	step(3, "patient %s created (cin %s)", p.FullName(), p.CIN)

	appt := &appointment.Appointment{
		PatientID:      p.ID,
		PractitionerID: doctor.ID,
		DateTime:       time.Now().Add(2 * time.Hour),
		Reason:         "Douleur thoracique",
	}
	if err := svcs.appointments.Create(ctx, appt); err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	if err := svcs.appointments.Confirm(ctx, appt.ID); err != nil {
		return fmt.Errorf("confirm appointment: %w", err)
	}
	step(4, "appointment %d planned and confirmed for %s", appt.ID, appt.DateTime.Format("2006-01-02 15:04"))

	cons := &consultation.Consultation{
		AppointmentID: appt.ID,
		Diagnostic:    "Angine de poitrine légère",
	}
	inv, err := svcs.workflows.FinishConsultation(ctx, cons, 500.00)
	if err != nil {
		return fmt.Errorf("finish consultation: %w", err)
	}
	step(5, "consultation %d finished, invoice %s total %.2f MAD (%s)", cons.ID, inv.Number, inv.Total, inv.Status)

	partial, err := svcs.workflows.RecordPayment(ctx, inv.ID, 200.00, "espèces")
	if err != nil {
		return fmt.Errorf("record payment: %w", err)
	}
	step(6, "partial payment recorded, remaining %.2f MAD (%s)", partial.Remaining(), partial.Status)

	paid, err := svcs.workflows.CollectInvoice(ctx, inv.ID, "espèces")
	if err != nil {
		return fmt.Errorf("collect invoice: %w", err)
	}
	step(7, "invoice settled, remaining %.2f MAD (%s)", paid.Remaining(), paid.Status)

	entries, err := svcs.workflows.DailyPlanning(ctx, appt.DateTime)
	if err != nil {
		return fmt.Errorf("daily planning: %w", err)
	}
	step(8, "planning for %s lists %d appointment(s)", appt.DateTime.Format("2006-01-02"), len(entries))

	dash, err := svcs.analytics.Overview(ctx)
	if err != nil {
		return fmt.Errorf("analytics overview: %w", err)
	}
	step(9, "dashboard: %d patients, %.2f MAD collected, %.2f MAD outstanding",
		dash.PatientCount, dash.RevenueCollected, dash.RevenueOutstanding)

	fmt.Println("smoke test passed")
	return nil
}
