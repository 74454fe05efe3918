package patient

import "testing"

func fixturePatients() []Patient {
	return []Patient{
		{
			ID: "p1", FirstName: "Maria", LastName: "Rodriguez", Age: 45,
			Country: "İspanya", Treatment: "cardiology",
			Status: StatusInTreatment, Priority: PriorityHigh,
			Email: "maria@example.com", Phone: "+34 600 111 222",
		},
		{
			ID: "p2", FirstName: "Ahmed", LastName: "Hassan", Age: 52,
			Country: "BAE", Treatment: "orthopedics",
			Status: StatusPlanning, Priority: PriorityMedium,
			Email: "ahmed@example.com",
		},
		{
			ID: "p3", FirstName: "Sarah", LastName: "Thompson", Age: 38,
			Country: "İngiltere", Treatment: "plastic-surgery",
			Status: StatusConsultation, Priority: PriorityLow,
			Phone: "+44 7700 900 123",
		},
	}
}

func TestFilterEmptyIsIdentity(t *testing.T) {
	patients := fixturePatients()
	got := Filter{}.Apply(patients)
	if len(got) != len(patients) {
		t.Fatalf("empty filter dropped records: got %d want %d", len(got), len(patients))
	}
	for i := range got {
		if got[i].ID != patients[i].ID {
			t.Fatalf("empty filter reordered records at %d", i)
		}
	}
}

func TestFilterAllValuesAreNoOps(t *testing.T) {
	patients := fixturePatients()
	f := Filter{Status: "all", Treatment: "ALL", Country: "all"}
	if got := f.Apply(patients); len(got) != len(patients) {
		t.Fatalf("all-valued dimensions must match everything, got %d", len(got))
	}
}

func TestFilterDimensionsAreANDed(t *testing.T) {
	patients := fixturePatients()

	if got := (Filter{Status: "in-treatment"}).Apply(patients); len(got) != 1 || got[0].ID != "p1" {
		t.Fatalf("status dimension: %+v", got)
	}
	if got := (Filter{Treatment: "orthopedics"}).Apply(patients); len(got) != 1 || got[0].ID != "p2" {
		t.Fatalf("treatment dimension: %+v", got)
	}
	// Both dimensions active: no single record satisfies the conjunction.
	if got := (Filter{Status: "in-treatment", Treatment: "orthopedics"}).Apply(patients); len(got) != 0 {
		t.Fatalf("conjunction must be empty: %+v", got)
	}
}

func TestFilterMatchesCaseInsensitively(t *testing.T) {
	patients := fixturePatients()
	if got := (Filter{Country: "bae"}).Apply(patients); len(got) != 1 || got[0].ID != "p2" {
		t.Fatalf("country must match case-insensitively: %+v", got)
	}
	if got := (Filter{Status: "CONSULTATION"}).Apply(patients); len(got) != 1 || got[0].ID != "p3" {
		t.Fatalf("status must match case-insensitively: %+v", got)
	}
}

func TestFilterSearchSpansNameEmailPhone(t *testing.T) {
	patients := fixturePatients()

	if got := (Filter{Search: "maria rod"}).Apply(patients); len(got) != 1 || got[0].ID != "p1" {
		t.Fatalf("search over full name: %+v", got)
	}
	if got := (Filter{Search: "ahmed@"}).Apply(patients); len(got) != 1 || got[0].ID != "p2" {
		t.Fatalf("search over email: %+v", got)
	}
	if got := (Filter{Search: "7700 900"}).Apply(patients); len(got) != 1 || got[0].ID != "p3" {
		t.Fatalf("search over phone: %+v", got)
	}
	if got := (Filter{Search: "nobody"}).Apply(patients); len(got) != 0 {
		t.Fatalf("non-matching search must be empty: %+v", got)
	}
}
