package main

import "testing"

func TestBuildServices_WiresEverything(t *testing.T) {
	svcs := buildServices(nil, nil)

	if svcs.patients == nil || svcs.practitioners == nil || svcs.appointments == nil {
		t.Fatal("core services not wired")
	}
	if svcs.medications == nil || svcs.consultations == nil || svcs.invoices == nil {
		t.Fatal("care services not wired")
	}
	if svcs.accounts == nil || svcs.analytics == nil || svcs.workflows == nil {
		t.Fatal("access and workflow services not wired")
	}
}
