package models

// MedicalRecord is implemented by every medical-history record variant.
// Identifiers are assigned by the backend at creation time; a record is
// immutable once created (create -> exist -> delete, never edit).
type MedicalRecord interface {
	RecordID() int64
}

// MedicalHistory groups the six record collections embedded in a Pet.
// A pet always carries exactly one medical history; collections are never
// nil, only empty (see EnsureCollections).
type MedicalHistory struct {
	MedicalConditions  []MedicalCondition  `json:"medicalConditions"`
	VaccinationRecords []VaccinationRecord `json:"vaccinationRecords"`
	MedicationRecords  []MedicationRecord  `json:"medicationRecords"`
	Allergies          []Allergy           `json:"allergies"`
	Surgeries          []Surgery           `json:"surgeries"`
	CheckUps           []CheckUp           `json:"checkUps"`
}

// EnsureCollections replaces nil collections with empty ones so consumers
// never have to distinguish a missing collection from an empty one.
func (m *MedicalHistory) EnsureCollections() {
	if m.MedicalConditions == nil {
		m.MedicalConditions = []MedicalCondition{}
	}
	if m.VaccinationRecords == nil {
		m.VaccinationRecords = []VaccinationRecord{}
	}
	if m.MedicationRecords == nil {
		m.MedicationRecords = []MedicationRecord{}
	}
	if m.Allergies == nil {
		m.Allergies = []Allergy{}
	}
	if m.Surgeries == nil {
		m.Surgeries = []Surgery{}
	}
	if m.CheckUps == nil {
		m.CheckUps = []CheckUp{}
	}
}

// MedicalCondition is a diagnosed condition and its treatment status.
type MedicalCondition struct {
	ID            int64  `json:"id"`
	PetID         int64  `json:"petId,omitempty"`
	ConditionName string `json:"conditionName"`
	DiagnosisDate Date   `json:"diagnosisDate"`
	Treatment     string `json:"treatment"`
	Status        string `json:"status"`
}

func (r MedicalCondition) RecordID() int64 { return r.ID }

// VaccinationRecord is an administered vaccine with its expiration.
type VaccinationRecord struct {
	ID              int64  `json:"id"`
	PetID           int64  `json:"petId,omitempty"`
	VaccineName     string `json:"vaccineName"`
	VaccinationDate Date   `json:"vaccinationDate"`
	ExpirationDate  Date   `json:"expirationDate"`
	AdministeredBy  string `json:"administeredBy"`
}

func (r VaccinationRecord) RecordID() int64 { return r.ID }

// MedicationRecord is a prescribed medication course.
type MedicationRecord struct {
	ID             int64  `json:"id"`
	PetID          int64  `json:"petId,omitempty"`
	MedicationName string `json:"medicationName"`
	Dosage         string `json:"dosage"`
	StartDate      Date   `json:"startDate"`
	EndDate        Date   `json:"endDate"`
	Instructions   string `json:"instructions"`
}

func (r MedicationRecord) RecordID() int64 { return r.ID }

// Allergy is an identified allergen and the observed reaction.
type Allergy struct {
	ID             int64  `json:"id"`
	PetID          int64  `json:"petId,omitempty"`
	Allergen       string `json:"allergen"`
	Reaction       string `json:"reaction"`
	DateIdentified Date   `json:"dateIdentified"`
}

func (r Allergy) RecordID() int64 { return r.ID }

// Surgery is a performed surgical procedure and its outcome.
type Surgery struct {
	ID          int64  `json:"id"`
	PetID       int64  `json:"petId,omitempty"`
	SurgeryType string `json:"surgeryType"`
	SurgeryDate Date   `json:"surgeryDate"`
	Outcome     string `json:"outcome"`
}

func (r Surgery) RecordID() int64 { return r.ID }

// CheckUp is a routine veterinary visit.
type CheckUp struct {
	ID           int64  `json:"id"`
	PetID        int64  `json:"petId,omitempty"`
	VisitDate    Date   `json:"visitDate"`
	Veterinarian string `json:"veterinarian"`
	Notes        string `json:"notes"`
}

func (r CheckUp) RecordID() int64 { return r.ID }
