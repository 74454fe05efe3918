package lead

import (
	"testing"
	"time"

	"sagliktur.org/internal/store"
)

func TestFallbackStatsPlaceholders(t *testing.T) {
	st := FallbackStats()
	if st.Live {
		t.Fatal("fallback stats must not claim to be live")
	}
	if st.TotalLeads != 247 {
		t.Fatalf("unexpected total placeholder: %d", st.TotalLeads)
	}
	if st.MonthlyGrowthPct != 12 || st.ConversionRatePct != 14 || st.ConversionGrowthPct != 5 {
		t.Fatalf("unexpected rate placeholders: %+v", st)
	}
	if st.HotLeads != 78 {
		t.Fatalf("unexpected hot placeholder: %d", st.HotLeads)
	}
	if st.AvgResponseHours != 2.3 || st.ResponseImprovementPct != 15 {
		t.Fatalf("unexpected response placeholders: %+v", st)
	}
}

func TestLiveStatsDeriveFromCollection(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	s := NewService(nil, nil, WithServiceClock(func() time.Time { return now }))

	converted := StatusConverted
	hot := TemperatureHot
	for i := 0; i < 4; i++ {
		created, err := s.Create(Lead{FirstName: "L", Temperature: TemperatureCold})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if i == 0 {
			if _, err := s.Update(created.ID, Patch{Status: &converted, Temperature: &hot}); err != nil {
				t.Fatalf("update: %v", err)
			}
		}
	}

	st := s.Stats()
	if !st.Live {
		t.Fatal("derived stats must be flagged live")
	}
	if st.TotalLeads != 4 {
		t.Fatalf("unexpected total: %d", st.TotalLeads)
	}
	if st.HotLeads != 1 || st.ColdLeads != 3 || st.WarmLeads != 0 {
		t.Fatalf("unexpected temperature counts: %+v", st)
	}
	if st.ConversionRatePct != 25 {
		t.Fatalf("unexpected conversion rate: %v", st.ConversionRatePct)
	}
}

func TestLiveStatsOnEmptyCollection(t *testing.T) {
	s := NewService(nil, nil)
	st := s.Stats()
	if !st.Live || st.TotalLeads != 0 || st.ConversionRatePct != 0 {
		t.Fatalf("unexpected empty stats: %+v", st)
	}
}

func TestStatsFallBackWhileDegraded(t *testing.T) {
	records := store.NewMemory()
	if err := records.Put(store.KeyLeads, []byte("{not json")); err != nil {
		t.Fatalf("seed corrupt mirror: %v", err)
	}

	s := NewService(nil, records)
	if err := s.Load(); err == nil {
		t.Fatal("corrupt mirror must surface an error")
	}

	// Aggregates over a known-incomplete collection would mislead the
	// dashboard; the fixed placeholders are served instead.
	st := s.Stats()
	if st.Live {
		t.Fatal("degraded stats must not claim to be live")
	}
	if st.TotalLeads != 247 || st.HotLeads != 78 {
		t.Fatalf("expected placeholder numbers, got %+v", st)
	}

	// A successful write rewrites the mirror and restores live aggregation.
	if _, err := s.Create(Lead{FirstName: "Maria"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	st = s.Stats()
	if !st.Live || st.TotalLeads != 1 {
		t.Fatalf("expected live stats after write, got %+v", st)
	}

	restored := NewService(nil, records)
	if err := restored.Load(); err != nil {
		t.Fatalf("load after repair: %v", err)
	}
	if st := restored.Stats(); !st.Live {
		t.Fatal("successful restore must clear the fallback")
	}
}
