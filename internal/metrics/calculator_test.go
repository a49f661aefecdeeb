package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"CreativeAnalytics/internal/domain"
)

func TestCompute(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		in         domain.UnifiedFact
		total      float64
		profit     float64
		roi        domain.NullFloat
		cpc        domain.NullFloat
		profitable bool
	}{
		{
			name:       "regular row",
			in:         domain.UnifiedFact{Spend: 100, Clicks: 50, BannerRevenue: 80, VideoRevenue: 40},
			total:      120,
			profit:     20,
			roi:        domain.Defined(1.2),
			cpc:        domain.Defined(2),
			profitable: true,
		},
		{
			name:       "no spend no clicks",
			in:         domain.UnifiedFact{BannerRevenue: 10},
			total:      10,
			profit:     10,
			profitable: true,
		},
		{
			name:   "break even is not profitable",
			in:     domain.UnifiedFact{Spend: 30, Clicks: 3, BannerRevenue: 10, VideoRevenue: 20},
			total:  30,
			profit: 0,
			roi:    domain.Defined(1),
			cpc:    domain.Defined(10),
		},
		{
			name:   "loss",
			in:     domain.UnifiedFact{Spend: 50, Clicks: 0, VideoRevenue: 5},
			total:  5,
			profit: -45,
			roi:    domain.Defined(0.1),
		},
		{
			name:       "decimal revenue sum",
			in:         domain.UnifiedFact{Spend: 0.25, Clicks: 1, BannerRevenue: 0.1, VideoRevenue: 0.2},
			total:      0.3,
			profit:     0.05,
			roi:        domain.Defined(1.2),
			cpc:        domain.Defined(0.25),
			profitable: true,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := Compute(tc.in)
			assert.Equal(t, tc.total, got.TotalRevenue)
			assert.InDelta(t, tc.profit, got.Profit, 1e-9)
			assert.Equal(t, tc.profitable, got.IsProfitable)
			assertNullFloat(t, "roi", tc.roi, got.ROI)
			assertNullFloat(t, "cpc", tc.cpc, got.CPC)
		})
	}
}

func TestComputeNeverProducesNonFinite(t *testing.T) {
	t.Parallel()

	facts := ComputeAll([]domain.UnifiedFact{
		{Spend: 0, Clicks: 0},
		{Spend: 0, Clicks: 10, BannerRevenue: 3},
		{Spend: 7, Clicks: 0},
	})

	for i, f := range facts {
		for _, v := range []domain.NullFloat{f.ROI, f.CPC} {
			if v.Valid && (math.IsInf(v.Float64, 0) || math.IsNaN(v.Float64)) {
				t.Fatalf("row %d: non-finite metric %v", i, v.Float64)
			}
		}
	}
	assert.False(t, facts[0].ROI.Valid)
	assert.False(t, facts[0].CPC.Valid)
	assert.True(t, facts[1].CPC.Valid)
	assert.Equal(t, 0.0, facts[1].CPC.Float64)
	assert.True(t, facts[2].ROI.Valid)
	assert.False(t, facts[2].CPC.Valid)
}

func assertNullFloat(t *testing.T, name string, want, got domain.NullFloat) {
	t.Helper()
	if want.Valid != got.Valid {
		t.Fatalf("%s: valid = %v, want %v", name, got.Valid, want.Valid)
	}
	if want.Valid {
		assert.InDelta(t, want.Float64, got.Float64, 1e-9, name)
	}
}
