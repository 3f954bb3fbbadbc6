package records

// Kind describes one medical-history record schema: its display label, the
// endpoint path segment under /medical/history, and the draft fields in form
// order. The six kinds share one controller implementation; everything that
// differs between them lives here.
type Kind struct {
	Name        string
	PathSegment string
	Fields      []string
}

var (
	Conditions = Kind{
		Name:        "Medical Conditions",
		PathSegment: "medicalConditions",
		Fields:      []string{"conditionName", "diagnosisDate", "treatment", "status"},
	}

	Vaccinations = Kind{
		Name:        "Vaccination Records",
		PathSegment: "vaccinationRecords",
		Fields:      []string{"vaccineName", "vaccinationDate", "expirationDate", "administeredBy"},
	}

	// The medication endpoint segment differs from the collection key in the
	// pet payload (medicationRecords); the backend kept the shorter path.
	Medications = Kind{
		Name:        "Medication Records",
		PathSegment: "medications",
		Fields:      []string{"medicationName", "dosage", "startDate", "endDate", "instructions"},
	}

	Allergies = Kind{
		Name:        "Allergies",
		PathSegment: "allergies",
		Fields:      []string{"allergen", "reaction", "dateIdentified"},
	}

	Surgeries = Kind{
		Name:        "Surgeries",
		PathSegment: "surgeries",
		Fields:      []string{"surgeryType", "surgeryDate", "outcome"},
	}

	CheckUps = Kind{
		Name:        "Check-Ups",
		PathSegment: "checkUps",
		Fields:      []string{"visitDate", "veterinarian", "notes"},
	}
)

// Kinds returns the six kinds in display order.
func Kinds() []Kind {
	return []Kind{Conditions, Vaccinations, Medications, Allergies, Surgeries, CheckUps}
}

// KindBySegment resolves a kind from its endpoint path segment.
func KindBySegment(segment string) (Kind, bool) {
	for _, k := range Kinds() {
		if k.PathSegment == segment {
			return k, true
		}
	}
	return Kind{}, false
}
