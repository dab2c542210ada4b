package extract

// Sentinel values for fields with no evidence yet. Consumers render these
// directly; no field is ever absent or null.
const (
	NotProvided      = "Not provided"
	NotYetIdentified = "Not yet identified"
	NotYetRecorded   = "Not yet recorded"
)

// PatientProfile is the structured summary derived from the transcript.
// It is recomputed from scratch on every call, never patched in place.
type PatientProfile struct {
	Name           string `json:"patientName"`
	Age            string `json:"patientAge"`
	Location       string `json:"patientLocation"`
	ChiefComplaint string `json:"chiefComplaint"`
	Duration       string `json:"duration"`

	Triggers           []string `json:"triggers"`
	Characteristics    []string `json:"characteristics"`
	AssociatedSymptoms []string `json:"associatedSymptoms"`
	MedicalHistory     []string `json:"medicalHistory"`
	FamilyHistory      []string `json:"familyHistory"`
	Medications        []string `json:"medications"`
	Allergies          []string `json:"allergies"`
	RedFlags           []string `json:"redFlags"`

	HasDemographics   bool `json:"hasDemographics"`
	HasChiefComplaint bool `json:"hasChiefComplaint"`
	HasTimeline       bool `json:"hasTimeline"`
	HasMedicalHistory bool `json:"hasMedicalHistory"`
	HasRedFlags       bool `json:"hasRedFlags"`
}

// EmptyProfile returns the sentinel-filled profile for an empty transcript.
// List fields are empty (not nil) so they serialize as [].
func EmptyProfile() PatientProfile {
	return PatientProfile{
		Name:               NotProvided,
		Age:                NotProvided,
		Location:           NotProvided,
		ChiefComplaint:     NotYetIdentified,
		Duration:           NotYetRecorded,
		Triggers:           []string{},
		Characteristics:    []string{},
		AssociatedSymptoms: []string{},
		MedicalHistory:     []string{},
		FamilyHistory:      []string{},
		Medications:        []string{},
		Allergies:          []string{},
		RedFlags:           []string{},
	}
}
