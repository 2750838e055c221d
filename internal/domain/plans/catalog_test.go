package plans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlan_KnownIDs(t *testing.T) {
	tests := []struct {
		id            string
		name          string
		price         int
		siteLimit     int
		feedbackLimit int
		storageMonths int
	}{
		{Free, "Free", 0, 1, 100, 1},
		{Pro, "Pro", 19, 5, 5000, 6},
		{Business, "Business", 49, 20, 20000, 12},
		{Enterprise, "Enterprise", 149, Unlimited, Unlimited, 24},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			p := GetPlan(tt.id)
			assert.Equal(t, tt.id, p.ID)
			assert.Equal(t, tt.name, p.Name)
			assert.Equal(t, tt.price, p.PriceUSD)
			assert.Equal(t, tt.siteLimit, p.SiteLimit)
			assert.Equal(t, tt.feedbackLimit, p.FeedbackLimit)
			assert.Equal(t, tt.storageMonths, p.StorageMonths)
		})
	}
}

func TestGetPlan_UnknownFallsBackToFree(t *testing.T) {
	for _, id := range []string{"", "platinum", "FREE", "Pro "} {
		p := GetPlan(id)
		assert.Equal(t, Free, p.ID, "id %q", id)
		assert.Equal(t, GetPlan(id), p, "lookup must be deterministic")

		_, ok := Lookup(id)
		assert.False(t, ok)
		assert.False(t, IsKnown(id))
	}
}

func TestHasFeature(t *testing.T) {
	assert.True(t, HasFeature(GetPlan(Free), FeatureFeedbackCollection))
	assert.False(t, HasFeature(GetPlan(Free), FeatureDataExport))
	assert.True(t, HasFeature(GetPlan(Pro), FeatureDataExport))
	assert.False(t, HasFeature(GetPlan(Pro), FeaturePrioritySupport))
	assert.True(t, HasFeature(GetPlan(Business), FeatureTeamAccess))
	assert.True(t, HasFeature(GetPlan(Enterprise), FeatureAPIAccess))
	assert.False(t, HasFeature(GetPlan(Enterprise), Feature("Teleportation")))

	excluded := Plan{Features: []FeatureGrant{{Feature: FeatureDataExport, Included: false}}}
	assert.False(t, HasFeature(excluded, FeatureDataExport))
}

func TestAll_DisplayOrder(t *testing.T) {
	all := All()
	require.Len(t, all, 4)
	ids := make([]string, len(all))
	for i, p := range all {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{Free, Pro, Business, Enterprise}, ids)
	assert.False(t, all[0].IsPaid())
	assert.True(t, all[1].IsPaid())
}

func TestCatalogIsImmutable(t *testing.T) {
	p := GetPlan(Pro)
	p.SiteLimit = 1000
	p.Features[0].Included = false
	for i := range p.Features {
		if p.Features[i].Limit != nil {
			*p.Features[i].Limit = 0
		}
	}

	fresh := GetPlan(Pro)
	assert.Equal(t, 5, fresh.SiteLimit)
	assert.True(t, fresh.Features[0].Included)
	for _, g := range fresh.Features {
		if g.Feature == FeatureSites {
			require.NotNil(t, g.Limit)
			assert.Equal(t, 5, *g.Limit)
		}
	}
}

func TestFeatureLimitsMatchPlanLimits(t *testing.T) {
	for _, p := range All() {
		for _, g := range p.Features {
			switch g.Feature {
			case FeatureSites:
				if p.SiteLimit == Unlimited {
					assert.Nil(t, g.Limit, p.ID)
				} else {
					require.NotNil(t, g.Limit, p.ID)
					assert.Equal(t, p.SiteLimit, *g.Limit, p.ID)
				}
			case FeatureFeedbackStorage:
				require.NotNil(t, g.Limit, p.ID)
				assert.Equal(t, p.StorageMonths, *g.Limit, p.ID)
			}
		}
	}
}
