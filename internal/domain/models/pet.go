package models

import "time"

// Gender is the canonical gender enumeration for a pet.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// Pet is the primary record owned by an owner identity. The identifier is
// assigned by the backend and immutable afterwards.
type Pet struct {
	ID              int64          `json:"id"`
	Name            string         `json:"name"`
	Species         string         `json:"species"`
	Breed           string         `json:"breed"`
	Gender          Gender         `json:"gender"`
	Weight          float64        `json:"weight,omitempty"`
	Color           string         `json:"color"`
	Owner           string         `json:"owner"`
	MicrochipNumber string         `json:"microchipNumber"`
	DateOfBirth     Date           `json:"dateOfBirth"`
	MedicalHistory  MedicalHistory `json:"medicalHistory"`
}

// Age derives the pet's age in years from its date of birth, matching the
// list display (calendar-year difference).
func (p Pet) Age() int {
	if p.DateOfBirth.IsZero() {
		return 0
	}
	return time.Now().Year() - p.DateOfBirth.Year()
}

// PetDraft is the client-only, pre-submission working copy of a pet. It is
// discarded on cancel and replaced by the server-confirmed Pet on success.
type PetDraft struct {
	Name            string  `json:"name" validate:"required"`
	Species         string  `json:"species" validate:"required"`
	Breed           string  `json:"breed"`
	Gender          Gender  `json:"gender" validate:"required,oneof=Male Female"`
	Weight          float64 `json:"weight,omitempty"`
	Color           string  `json:"color"`
	Owner           string  `json:"owner"`
	MicrochipNumber string  `json:"microchipNumber"`
	DateOfBirth     string  `json:"dateOfBirth"`
}
