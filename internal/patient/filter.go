package patient

import "strings"

// FilterAll is the no-op value for any filter dimension.
const FilterAll = "all"

// Filter is the listing predicate over the patient roster. Dimensions set to
// "all" or left empty always match; active dimensions are ANDed. The search
// term alone is an OR across name, email and phone.
type Filter struct {
	Search    string `json:"search"`
	Status    string `json:"status"`
	Treatment string `json:"treatment"`
	Country   string `json:"country"`
}

func dimensionActive(value string) bool {
	return value != "" && !strings.EqualFold(value, FilterAll)
}

// Match reports whether the patient satisfies every active dimension.
func (f Filter) Match(p Patient) bool {
	if term := strings.TrimSpace(f.Search); term != "" {
		if !matchesSearch(p, term) {
			return false
		}
	}
	if dimensionActive(f.Status) && !strings.EqualFold(string(p.Status), f.Status) {
		return false
	}
	if dimensionActive(f.Treatment) && !strings.EqualFold(p.Treatment, f.Treatment) {
		return false
	}
	if dimensionActive(f.Country) && !strings.EqualFold(p.Country, f.Country) {
		return false
	}
	return true
}

func matchesSearch(p Patient, term string) bool {
	term = strings.ToLower(term)
	for _, field := range []string{p.FullName(), p.Email, p.Phone} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// Apply filters a roster, preserving input order.
func (f Filter) Apply(patients []Patient) []Patient {
	out := make([]Patient, 0, len(patients))
	for _, p := range patients {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}
