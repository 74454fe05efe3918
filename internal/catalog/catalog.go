// Package catalog serves the static hospital and treatment-package data the
// dashboard lists. The data is fixed at compile time and served read-only;
// List functions return copies so callers cannot mutate the catalog.
package catalog

// Hospital is a partner facility entry.
type Hospital struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	Specialties []string `json:"specialties"`
	Rating      float64  `json:"rating"`
	Patients    int      `json:"patients"`
	Status      string   `json:"status"`
}

// TreatmentPackage is a priced treatment bundle offered through a hospital.
type TreatmentPackage struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Price    string   `json:"price"`
	Duration string   `json:"duration"`
	Includes []string `json:"includes"`
	Patients int      `json:"patients"`
	Hospital string   `json:"hospital"`
	Category string   `json:"category"`
}

var hospitals = []Hospital{
	{
		ID:          1,
		Name:        "Istanbul Medical Center",
		Location:    "Istanbul, Turkey",
		Specialties: []string{"Cardiology", "Orthopedics", "Oncology"},
		Rating:      4.8,
		Patients:    156,
		Status:      "Active",
	},
	{
		ID:          2,
		Name:        "Bangkok International Hospital",
		Location:    "Bangkok, Thailand",
		Specialties: []string{"Plastic Surgery", "Dental Care", "Wellness"},
		Rating:      4.9,
		Patients:    203,
		Status:      "Active",
	},
	{
		ID:          3,
		Name:        "Dubai Healthcare City",
		Location:    "Dubai, UAE",
		Specialties: []string{"Fertility", "Cosmetic Surgery", "Rehabilitation"},
		Rating:      4.7,
		Patients:    124,
		Status:      "Active",
	},
}

var packages = []TreatmentPackage{
	{
		ID:       1,
		Name:     "Cardiac Surgery Package",
		Price:    "$45,000",
		Duration: "10-14 days",
		Includes: []string{"Surgery", "Hospital Stay", "Recovery Care", "Follow-up"},
		Patients: 23,
		Hospital: "Istanbul Medical Center",
		Category: "Cardiology",
	},
	{
		ID:       2,
		Name:     "Knee Replacement Package",
		Price:    "$18,000",
		Duration: "7-10 days",
		Includes: []string{"Surgery", "Physiotherapy", "Accommodation", "Transport"},
		Patients: 31,
		Hospital: "Bangkok International Hospital",
		Category: "Orthopedics",
	},
	{
		ID:       3,
		Name:     "Dental Implant Package",
		Price:    "$8,500",
		Duration: "5-7 days",
		Includes: []string{"Consultation", "Implant Surgery", "Crown Fitting", "Follow-up"},
		Patients: 45,
		Hospital: "Dubai Healthcare City",
		Category: "Dental",
	},
}

// Hospitals returns the partner facility catalog.
func Hospitals() []Hospital {
	out := make([]Hospital, len(hospitals))
	for i, h := range hospitals {
		h.Specialties = append([]string(nil), h.Specialties...)
		out[i] = h
	}
	return out
}

// Packages returns the treatment-package catalog.
func Packages() []TreatmentPackage {
	out := make([]TreatmentPackage, len(packages))
	for i, p := range packages {
		p.Includes = append([]string(nil), p.Includes...)
		out[i] = p
	}
	return out
}
