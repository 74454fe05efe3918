package lead

import "time"

// Stats aggregates the collection for the dashboard header cards. Live
// reports whether the numbers were derived from the collection; callers must
// distinguish live numbers from the fixed fallback, never blend them.
type Stats struct {
	Live                   bool    `json:"live"`
	TotalLeads             int     `json:"total_leads"`
	MonthlyGrowthPct       float64 `json:"monthly_growth_pct"`
	ConversionRatePct      float64 `json:"conversion_rate_pct"`
	ConversionGrowthPct    float64 `json:"conversion_growth_pct"`
	HotLeads               int     `json:"hot_leads"`
	WarmLeads              int     `json:"warm_leads"`
	ColdLeads              int     `json:"cold_leads"`
	AvgResponseHours       float64 `json:"avg_response_hours"`
	ResponseImprovementPct float64 `json:"response_improvement_pct"`
}

// FallbackStats returns the fixed placeholder numbers shown when live
// aggregation is unavailable.
func FallbackStats() Stats {
	return Stats{
		Live:                   false,
		TotalLeads:             247,
		MonthlyGrowthPct:       12,
		ConversionRatePct:      14,
		ConversionGrowthPct:    5,
		HotLeads:               78,
		AvgResponseHours:       2.3,
		ResponseImprovementPct: 15,
	}
}

// Stats derives live aggregates from the current collection, or returns the
// fixed placeholders while the collection is degraded after a failed restore.
// Response-time metrics have no backing data in the collection and stay zero
// on the live path.
func (s *Service) Stats() Stats {
	s.mu.RLock()
	degraded := s.degraded
	s.mu.RUnlock()
	if degraded {
		return FallbackStats()
	}

	leads := s.List(Filter{})
	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	prevStart := monthStart.AddDate(0, -1, 0)

	st := Stats{Live: true, TotalLeads: len(leads)}
	var converted, thisMonth, prevMonth int
	for _, l := range leads {
		switch l.Temperature {
		case TemperatureHot:
			st.HotLeads++
		case TemperatureWarm:
			st.WarmLeads++
		case TemperatureCold:
			st.ColdLeads++
		}
		if l.Status == StatusConverted {
			converted++
		}
		switch {
		case !l.CreatedAt.Before(monthStart):
			thisMonth++
		case !l.CreatedAt.Before(prevStart):
			prevMonth++
		}
	}
	if st.TotalLeads > 0 {
		st.ConversionRatePct = float64(converted) / float64(st.TotalLeads) * 100
	}
	if prevMonth > 0 {
		st.MonthlyGrowthPct = float64(thisMonth-prevMonth) / float64(prevMonth) * 100
	}
	return st
}
