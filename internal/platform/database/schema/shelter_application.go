package schema

// ShelterApplicationTable represents the 'applications' table
type ShelterApplicationTable struct {
	Table          string
	ID             string
	Kind           string
	UserID         string
	AnimalID       string
	ApplicantName  string
	ApplicantEmail string
	Details        string
	Status         string
	SubmittedAt    string
	DecidedAt      string
	DecidedBy      string
}

// ShelterApplication is the schema definition for applications
var ShelterApplication = ShelterApplicationTable{
	Table:          "applications",
	ID:             "id",
	Kind:           "kind",
	UserID:         "user_id",
	AnimalID:       "animal_id",
	ApplicantName:  "applicant_name",
	ApplicantEmail: "applicant_email",
	Details:        "details",
	Status:         "status",
	SubmittedAt:    "submitted_at",
	DecidedAt:      "decided_at",
	DecidedBy:      "decided_by",
}

func (t ShelterApplicationTable) Columns() []string {
	return []string{
		t.ID, t.Kind, t.UserID, t.AnimalID, t.ApplicantName, t.ApplicantEmail,
		t.Details, t.Status, t.SubmittedAt, t.DecidedAt, t.DecidedBy,
	}
}
