package lead

import "strings"

// FilterAll is the no-op value for any filter dimension.
const FilterAll = "all"

// Filter is the seven-dimension listing predicate. Dimensions set to "all" or
// left empty always match. All dimensions are ANDed together; the search term
// alone is an OR across name, email, phone and lead code.
type Filter struct {
	Search      string `json:"search"`
	Status      string `json:"status"`
	Source      string `json:"source"`
	Country     string `json:"country"`
	Treatment   string `json:"treatment"`
	Temperature string `json:"temperature"`
	Priority    string `json:"priority"`
}

func dimensionActive(value string) bool {
	return value != "" && !strings.EqualFold(value, FilterAll)
}

// Match reports whether the lead satisfies every active dimension.
func (f Filter) Match(l Lead) bool {
	if term := strings.TrimSpace(f.Search); term != "" {
		if !matchesSearch(l, term) {
			return false
		}
	}
	if dimensionActive(f.Status) && !strings.EqualFold(string(l.Status), f.Status) {
		return false
	}
	if dimensionActive(f.Source) && !strings.EqualFold(l.Source, f.Source) {
		return false
	}
	if dimensionActive(f.Country) && !strings.EqualFold(l.Country, f.Country) {
		return false
	}
	if dimensionActive(f.Treatment) && !strings.EqualFold(l.TreatmentInterest, f.Treatment) {
		return false
	}
	if dimensionActive(f.Temperature) && !strings.EqualFold(string(l.Temperature), f.Temperature) {
		return false
	}
	if dimensionActive(f.Priority) && !strings.EqualFold(string(l.Priority), f.Priority) {
		return false
	}
	return true
}

func matchesSearch(l Lead, term string) bool {
	term = strings.ToLower(term)
	for _, field := range []string{l.FullName(), l.Email, l.Phone, l.LeadCode} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// Apply filters a collection, preserving input order.
func (f Filter) Apply(leads []Lead) []Lead {
	out := make([]Lead, 0, len(leads))
	for _, l := range leads {
		if f.Match(l) {
			out = append(out, l)
		}
	}
	return out
}
