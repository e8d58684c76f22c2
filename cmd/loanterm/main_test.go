package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gheinze-sandbox/accounted4/internal/config"
	"github.com/gheinze-sandbox/accounted4/internal/loanterm"
)

func TestLoadConfigurationMissingFileUsesDefaults(t *testing.T) {
	conf, err := loadConfiguration(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("loadConfiguration() error = %v", err)
	}
	if conf.Form.TermInMonths != 12 {
		t.Errorf("expected default term 12, got %d", conf.Form.TermInMonths)
	}
}

func TestLoadConfigurationFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("form:\n  termInMonths: 36\n"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	conf, err := loadConfiguration(path)
	if err != nil {
		t.Fatalf("loadConfiguration() error = %v", err)
	}
	if conf.Form.TermInMonths != 36 {
		t.Errorf("expected term 36, got %d", conf.Form.TermInMonths)
	}
}

func TestBuildFormState(t *testing.T) {
	conf, err := config.DefaultConfiguration()
	if err != nil {
		t.Fatalf("DefaultConfiguration() error = %v", err)
	}
	now := time.Date(2024, time.February, 20, 10, 0, 0, 0, time.UTC)

	state, err := buildFormState(conf, overrides{
		startDate:      "2024-12-20",
		amount:         "35000",
		rate:           "7.25",
		regularPayment: "400",
	}, now)
	if err != nil {
		t.Fatalf("buildFormState() error = %v", err)
	}

	req, err := loanterm.ToRequest(state)
	if err != nil {
		t.Fatalf("ToRequest() error = %v", err)
	}
	if req.StartDate != "2024-12-20" || req.AdjustmentDate != "2025-01-01" {
		t.Errorf("unexpected dates: %s / %s", req.StartDate, req.AdjustmentDate)
	}
	if req.LoanAmount != "35000" || req.InterestRate != 7.25 || req.RegularPayment != "400" {
		t.Errorf("overrides not applied: %+v", req)
	}
	if req.AmortizationPeriodMonths != 240 || req.CompoundingPeriodsPerYear != 2 {
		t.Errorf("defaults not applied: %+v", req)
	}
}

func TestBuildFormStateDefaultsToToday(t *testing.T) {
	conf, err := config.DefaultConfiguration()
	if err != nil {
		t.Fatalf("DefaultConfiguration() error = %v", err)
	}
	now := time.Date(2024, time.February, 10, 10, 0, 0, 0, time.UTC)

	state, err := buildFormState(conf, overrides{}, now)
	if err != nil {
		t.Fatalf("buildFormState() error = %v", err)
	}
	req, err := loanterm.ToRequest(state)
	if err != nil {
		t.Fatalf("ToRequest() error = %v", err)
	}
	if req.StartDate != "2024-02-10" || req.AdjustmentDate != "2024-02-15" {
		t.Errorf("unexpected dates: %s / %s", req.StartDate, req.AdjustmentDate)
	}
	if req.RegularPayment != "0" {
		t.Errorf("expected regular payment 0, got %s", req.RegularPayment)
	}
}

func TestBuildFormStateInvalidOverrides(t *testing.T) {
	conf, err := config.DefaultConfiguration()
	if err != nil {
		t.Fatalf("DefaultConfiguration() error = %v", err)
	}
	now := time.Now()

	if _, err := buildFormState(conf, overrides{startDate: "tomorrow"}, now); err == nil {
		t.Error("expected error for invalid start date")
	}
	if _, err := buildFormState(conf, overrides{rate: "ten"}, now); err == nil {
		t.Error("expected error for invalid rate")
	}
}
