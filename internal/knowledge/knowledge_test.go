package knowledge

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/soilsense/internal/common"
	"github.com/Veraticus/soilsense/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupResolutionOrder(t *testing.T) {
	kb := Default()

	tests := []struct {
		name      string
		fertType  model.FertilizerType
		fertName  string
		wantKey   string
		wantMatch model.MatchKind
	}{
		{name: "exact key", fertType: model.FertilizerSynthetic, fertName: "urea", wantKey: "urea", wantMatch: model.MatchExact},
		{name: "exact key normalized", fertType: model.FertilizerSynthetic, fertName: "Ammonium Sulfate", wantKey: "ammonium_sulfate", wantMatch: model.MatchExact},
		{name: "composite alias", fertType: model.FertilizerSynthetic, fertName: "DAP", wantKey: "diammonium_phosphate", wantMatch: model.MatchComposite},
		{name: "composite chicken manure", fertType: model.FertilizerOrganic, fertName: "chicken manure", wantKey: "poultry_manure", wantMatch: model.MatchComposite},
		{name: "pattern urea", fertType: model.FertilizerSynthetic, fertName: "Granular Urea 46%", wantKey: "urea", wantMatch: model.MatchPattern},
		{name: "pattern uan before urea", fertType: model.FertilizerSynthetic, fertName: "urea ammonium nitrate solution", wantKey: "uan", wantMatch: model.MatchPattern},
		{name: "pattern compost", fertType: model.FertilizerOrganic, fertName: "Municipal leaf compost", wantKey: "compost", wantMatch: model.MatchPattern},
		{name: "pattern poultry before manure", fertType: model.FertilizerOrganic, fertName: "aged poultry manure", wantKey: "poultry_manure", wantMatch: model.MatchPattern},
		{name: "pattern bone", fertType: model.FertilizerOrganic, fertName: "steamed bone flour", wantKey: "bone_meal", wantMatch: model.MatchPattern},
		{name: "pattern potash", fertType: model.FertilizerSynthetic, fertName: "red potash 0-0-60", wantKey: "potash", wantMatch: model.MatchPattern},
		{name: "pattern sulfate of potash", fertType: model.FertilizerSynthetic, fertName: "granular sulfate of potash", wantKey: "potassium_sulfate", wantMatch: model.MatchPattern},
		{name: "pattern hyphenated manure", fertType: model.FertilizerSynthetic, fertName: "Steer-Manure Blend", wantKey: "manure", wantMatch: model.MatchPattern},
		{name: "pattern bracketed urea", fertType: model.FertilizerSynthetic, fertName: "Granular(urea)", wantKey: "urea", wantMatch: model.MatchPattern},
		{name: "pattern hyphenated urea", fertType: model.FertilizerSynthetic, fertName: "Super-Urea 46", wantKey: "urea", wantMatch: model.MatchPattern},
		{name: "pattern joined words", fertType: model.FertilizerOrganic, fertName: "Cowmanure", wantKey: "manure", wantMatch: model.MatchPattern},
		{name: "pattern uan with grade", fertType: model.FertilizerSynthetic, fertName: "UAN-28", wantKey: "uan", wantMatch: model.MatchPattern},
		{name: "grade analysis is whole words", fertType: model.FertilizerSynthetic, fertName: "starter 10-0-60", wantKey: DefaultSyntheticKey, wantMatch: model.MatchTypeDefault},
		{name: "guano is not uan", fertType: model.FertilizerOrganic, fertName: "bat guano", wantKey: DefaultOrganicKey, wantMatch: model.MatchTypeDefault},
		{name: "organic default", fertType: model.FertilizerOrganic, fertName: "mystery amendment", wantKey: DefaultOrganicKey, wantMatch: model.MatchTypeDefault},
		{name: "synthetic default", fertType: model.FertilizerSynthetic, fertName: "mystery blend", wantKey: DefaultSyntheticKey, wantMatch: model.MatchTypeDefault},
		{name: "unknown type defaults synthetic", fertType: "mineral", fertName: "rock dust", wantKey: DefaultSyntheticKey, wantMatch: model.MatchTypeDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := kb.Lookup(tt.fertType, tt.fertName)
			assert.Equal(t, tt.wantKey, res.Profile.Key)
			assert.Equal(t, tt.wantMatch, res.Match)
		})
	}
}

func TestBuiltinTablesAreConsistent(t *testing.T) {
	kb := Default()
	for _, p := range kb.Profiles() {
		require.NoError(t, p.Validate(), p.Key)
		assert.Contains(t, kb.microbial, p.MicrobialCategory, p.Key)
		assert.Contains(t, kb.structure, p.StructureCategory, p.Key)
		assert.Contains(t, kb.decompositionRates, p.DecompositionCategory, p.Key)
		if p.Type == model.FertilizerSynthetic {
			assert.Zero(t, p.OMContribution, "synthetic %s should not contribute organic matter", p.Key)
		}
	}
}

func TestDecompositionRates(t *testing.T) {
	kb := Default()
	assert.InDelta(t, 0.30, kb.DecompositionRate(model.DecompositionCompost), 1e-9)
	assert.InDelta(t, 0.50, kb.DecompositionRate(model.DecompositionManure), 1e-9)
	assert.InDelta(t, 0.60, kb.DecompositionRate(model.DecompositionFastRelease), 1e-9)
	assert.InDelta(t, 0.60, kb.DecompositionRate("unheard_of"), 1e-9)
}

func TestFactorFallbacks(t *testing.T) {
	kb := Default()
	assert.InDelta(t, 1.0, kb.Microbial("unheard_of").DiversityMultiplier, 1e-9)
	assert.Zero(t, kb.Structure("unheard_of").AggregateStability)
}

func TestDescriptorImpact(t *testing.T) {
	assert.InDelta(t, 0.8, DescriptorImpact("strongly_stimulated"), 1e-9)
	assert.InDelta(t, -0.4, DescriptorImpact("suppressed"), 1e-9)
	assert.Zero(t, DescriptorImpact("neutral"))
	assert.Zero(t, DescriptorImpact("gibberish"))
	assert.False(t, KnownDescriptor("gibberish"))
}

const extensionYAML = `
fertilizers:
  - key: kelp meal
    name: Kelp Meal (1-0-2)
    type: organic
    primary_nutrient: organic
    nitrogen_content: 0.01
    om_contribution: 0.30
    carbon_input: 0.15
    acidifying_coefficient: 0.001
    salt_index: 10
    microbial_category: stimulating
    structure_category: minor_improvement
    decomposition_category: manure
    release_pattern: slow
aliases:
  organic_seaweed: kelp_meal
patterns:
  - name: kelp
    key: kelp_meal
    contains: [kelp, seaweed, ascophyllum]
`

func TestParseExtension(t *testing.T) {
	kb, err := Parse(strings.NewReader(extensionYAML))
	require.NoError(t, err)

	p, ok := kb.Profile("kelp_meal")
	require.True(t, ok)
	assert.Equal(t, "Kelp Meal (1-0-2)", p.Name)

	assert.Equal(t, model.MatchComposite, kb.Lookup(model.FertilizerOrganic, "seaweed").Match)

	res := kb.Lookup(model.FertilizerOrganic, "liquid ascophyllum extract")
	assert.Equal(t, "kelp_meal", res.Profile.Key)
	assert.Equal(t, model.MatchPattern, res.Match)

	// built-ins survive
	assert.Equal(t, "urea", kb.Lookup(model.FertilizerSynthetic, "urea").Profile.Key)
}

func TestParseRejectsInvalidExtensions(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "unknown field", doc: "fertilizers:\n  - key: x\n    type: organic\n    colour: brown\n"},
		{name: "bad type", doc: "fertilizers:\n  - key: x\n    type: mineral\n"},
		{name: "dangling alias", doc: "aliases:\n  organic_x: nowhere\n"},
		{name: "dangling pattern", doc: "patterns:\n  - name: x\n    key: nowhere\n    contains: [x]\n"},
		{name: "unknown descriptor", doc: "microbial_factors:\n  neutral:\n    diversity_multiplier: 1\n    descriptors:\n      bacterial: ecstatic\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			require.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	kb, err := Load("")
	require.NoError(t, err)
	assert.NotEmpty(t, kb.Profiles())

	path := filepath.Join(t.TempDir(), "kb.yaml")
	require.NoError(t, os.WriteFile(path, []byte(extensionYAML), 0o600))
	kb, err = Load(path)
	require.NoError(t, err)
	_, ok := kb.Profile("kelp_meal")
	assert.True(t, ok)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("fertilizers: [::"), 0o600))
	_, err = Load(path)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}
