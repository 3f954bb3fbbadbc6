package scheduler

import (
	"testing"
	"time"

	"github.com/kovacsd/petcare/internal/domain/models"
)

func vaccination(name string, exp models.Date) models.VaccinationRecord {
	return models.VaccinationRecord{VaccineName: name, ExpirationDate: exp}
}

func TestExpiringVaccinations(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	deadline := now.AddDate(0, 0, 30)

	pet := models.Pet{
		Name: "Villám",
		MedicalHistory: models.MedicalHistory{
			VaccinationRecords: []models.VaccinationRecord{
				vaccination("influenza", models.NewDate(2026, 8, 15)), // inside the window
				vaccination("tetanus", models.NewDate(2026, 8, 31)),   // last day of the window
				vaccination("rabies", models.NewDate(2026, 7, 1)),     // already expired
				vaccination("herpes", models.NewDate(2027, 1, 1)),     // far in the future
				vaccination("undated", models.Date{}),                 // no expiry recorded
			},
		},
	}

	got := ExpiringVaccinations(pet, now, deadline)
	if len(got) != 2 {
		t.Fatalf("expected 2 expiring vaccinations, got %d: %+v", len(got), got)
	}
	if got[0].VaccineName != "influenza" || got[1].VaccineName != "tetanus" {
		t.Fatalf("unexpected selection: %+v", got)
	}
}

func TestExpiringVaccinations_NoRecords(t *testing.T) {
	now := time.Now()
	if got := ExpiringVaccinations(models.Pet{}, now, now.AddDate(0, 0, 30)); len(got) != 0 {
		t.Fatalf("expected no results, got %+v", got)
	}
}
