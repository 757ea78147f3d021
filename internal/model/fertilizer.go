package model

import (
	"math"

	"github.com/Veraticus/soilsense/internal/common"
)

// FertilizerType is the broad class of a fertilizer.
type FertilizerType string

// Fertilizer types.
const (
	FertilizerOrganic   FertilizerType = "organic"
	FertilizerSynthetic FertilizerType = "synthetic"
)

// Nutrient identifies the primary nutrient a fertilizer supplies.
type Nutrient string

// Primary nutrients.
const (
	NutrientNitrogen   Nutrient = "nitrogen"
	NutrientPhosphorus Nutrient = "phosphorus"
	NutrientPotassium  Nutrient = "potassium"
	NutrientCalcium    Nutrient = "calcium"
	NutrientOrganic    Nutrient = "organic"
)

// MicrobialCategory groups fertilizers by how they stimulate soil biology.
type MicrobialCategory string

// Microbial stimulation categories.
const (
	MicrobialHighlyStimulating   MicrobialCategory = "highly_stimulating"
	MicrobialStimulating         MicrobialCategory = "stimulating"
	MicrobialMild                MicrobialCategory = "mild"
	MicrobialNeutral             MicrobialCategory = "neutral"
	MicrobialSuppressive         MicrobialCategory = "suppressive"
	MicrobialStronglySuppressive MicrobialCategory = "strongly_suppressive"
)

// StructureCategory groups fertilizers by their effect on soil physical structure.
type StructureCategory string

// Structure improvement categories.
const (
	StructureMajorImprovement  StructureCategory = "major_improvement"
	StructureImprovement       StructureCategory = "improvement"
	StructureMinorImprovement  StructureCategory = "minor_improvement"
	StructureNeutral           StructureCategory = "neutral"
	StructureMinorDegradation  StructureCategory = "minor_degradation"
	StructureDegradation       StructureCategory = "degradation"
	StructureSevereDegradation StructureCategory = "severe_degradation"
)

// DecompositionCategory selects the yearly decay rate of added organic matter.
type DecompositionCategory string

// Decomposition categories.
const (
	DecompositionCompost      DecompositionCategory = "compost"
	DecompositionManure       DecompositionCategory = "manure"
	DecompositionStableCarbon DecompositionCategory = "stable_carbon"
	DecompositionFastRelease  DecompositionCategory = "fast_release"
)

// ReleasePattern describes how quickly nutrients become plant-available.
type ReleasePattern string

// Nutrient release patterns.
const (
	ReleaseImmediate ReleasePattern = "immediate"
	ReleaseFast      ReleasePattern = "fast"
	ReleaseModerate  ReleasePattern = "moderate"
	ReleaseSlow      ReleasePattern = "slow"
	ReleaseVerySlow  ReleasePattern = "very_slow"
)

// FertilizerProfile is a knowledge-base entry. Values are per pound of product.
type FertilizerProfile struct {
	Key                   string                `json:"key" yaml:"key"`
	Name                  string                `json:"name" yaml:"name"`
	Type                  FertilizerType        `json:"type" yaml:"type"`
	PrimaryNutrient       Nutrient              `json:"primary_nutrient" yaml:"primary_nutrient"`
	MicrobialCategory     MicrobialCategory     `json:"microbial_category" yaml:"microbial_category"`
	StructureCategory     StructureCategory     `json:"structure_category" yaml:"structure_category"`
	DecompositionCategory DecompositionCategory `json:"decomposition_category" yaml:"decomposition_category"`
	ReleasePattern        ReleasePattern        `json:"release_pattern" yaml:"release_pattern"`
	NitrogenContent       float64               `json:"nitrogen_content" yaml:"nitrogen_content"`
	OMContribution        float64               `json:"om_contribution" yaml:"om_contribution"`
	CarbonInput           float64               `json:"carbon_input" yaml:"carbon_input"`
	AcidifyingCoefficient float64               `json:"acidifying_coefficient" yaml:"acidifying_coefficient"`
	SaltIndex             float64               `json:"salt_index" yaml:"salt_index"`
	MineralizationPriming float64               `json:"mineralization_priming" yaml:"mineralization_priming"`
}

// NitrogenBased reports whether pH effects scale with nitrogen rather than product mass.
func (p FertilizerProfile) NitrogenBased() bool {
	return p.PrimaryNutrient == NutrientNitrogen && p.NitrogenContent > 0
}

// Validate checks that a profile can be used by the analyzers.
func (p FertilizerProfile) Validate() error {
	if p.Key == "" {
		return common.InvalidInputf("fertilizer profile key is required")
	}
	if p.Type != FertilizerOrganic && p.Type != FertilizerSynthetic {
		return common.InvalidInputf("fertilizer %q has unknown type %q", p.Key, p.Type)
	}
	for name, v := range map[string]float64{
		"nitrogen_content":       p.NitrogenContent,
		"om_contribution":        p.OMContribution,
		"carbon_input":           p.CarbonInput,
		"salt_index":             p.SaltIndex,
		"mineralization_priming": p.MineralizationPriming,
	} {
		if math.IsNaN(v) || v < 0 {
			return common.InvalidInputf("fertilizer %q: %s must be non-negative", p.Key, name)
		}
	}
	if p.NitrogenContent > 1 || p.OMContribution > 1 || p.CarbonInput > 1 {
		return common.InvalidInputf("fertilizer %q: content fractions must not exceed 1", p.Key)
	}
	return nil
}

// ApplicationPlan is how a fertilizer will be applied.
type ApplicationPlan struct {
	Texture          Texture `json:"texture,omitempty" yaml:"texture"`
	Rate             float64 `json:"rate_lbs_per_acre" yaml:"rate"`
	FrequencyPerYear float64 `json:"frequency_per_year" yaml:"frequency"`
}

// Validate rejects plans that cannot produce a meaningful assessment.
func (a ApplicationPlan) Validate() error {
	if math.IsNaN(a.Rate) || math.IsInf(a.Rate, 0) || a.Rate <= 0 {
		return common.InvalidInputf("application rate must be positive, got %v", a.Rate)
	}
	if math.IsNaN(a.FrequencyPerYear) || math.IsInf(a.FrequencyPerYear, 0) || a.FrequencyPerYear <= 0 {
		return common.InvalidInputf("application frequency must be positive, got %v", a.FrequencyPerYear)
	}
	if mass := a.AnnualMass(); math.IsInf(mass, 0) {
		return common.InvalidInputf("annual application mass overflows: rate %v x frequency %v", a.Rate, a.FrequencyPerYear)
	}
	return nil
}

// AnnualMass is the product mass applied per acre per year.
func (a ApplicationPlan) AnnualMass() float64 {
	return a.Rate * a.FrequencyPerYear
}

// EffectiveTexture returns the override texture when present.
func (a ApplicationPlan) EffectiveTexture(soil SoilState) Texture {
	if a.Texture != TextureUnknown {
		return a.Texture
	}
	return soil.Texture
}
