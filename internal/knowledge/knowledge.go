// Package knowledge holds the static fertilizer knowledge base used by every analyzer.
//
// A Base is built once at startup and never mutated afterwards, so it can be shared
// between concurrent assessments without locking.
package knowledge

import (
	"fmt"
	"sort"

	"github.com/Veraticus/soilsense/internal/model"
)

// MicrobialFactor describes how a microbial category shifts soil biology.
type MicrobialFactor struct {
	Descriptors         model.MicrobialDescriptors `yaml:"descriptors"`
	DiversityMultiplier float64                    `yaml:"diversity_multiplier"`
}

// StructureFactor describes how a structure category shifts physical properties.
type StructureFactor struct {
	Compaction         string  `yaml:"compaction"`
	Crusting           string  `yaml:"crusting"`
	AggregateStability float64 `yaml:"aggregate_stability"`
	BulkDensity        float64 `yaml:"bulk_density"`
	Infiltration       float64 `yaml:"infiltration"`
	WaterHolding       float64 `yaml:"water_holding"`
}

// Base is the immutable knowledge base.
type Base struct {
	profiles           map[string]model.FertilizerProfile
	aliases            map[string]string
	decompositionRates map[model.DecompositionCategory]float64
	microbial          map[model.MicrobialCategory]MicrobialFactor
	structure          map[model.StructureCategory]StructureFactor
	patterns           []Pattern
}

// Default returns a knowledge base holding only the built-in tables.
func Default() *Base {
	b, err := build(Extension{})
	if err != nil {
		// Built-in tables are validated by tests; failure here is a programming error.
		panic(fmt.Sprintf("invalid built-in knowledge base: %v", err))
	}
	return b
}

// Lookup resolves a fertilizer identifier to a profile. It never fails: unknown names
// fall back to a generic profile for the fertilizer type.
func (b *Base) Lookup(fertilizerType model.FertilizerType, name string) Resolution {
	q := newQuery(fertilizerType, name)
	for _, step := range resolutionChain {
		if key, ok := step.match(b, q); ok {
			return Resolution{Profile: b.profiles[key], Match: step.kind}
		}
	}
	return Resolution{Profile: b.profiles[typeDefaultKey(q.fertilizerType)], Match: model.MatchTypeDefault}
}

// Profile returns the profile stored under key.
func (b *Base) Profile(key string) (model.FertilizerProfile, bool) {
	p, ok := b.profiles[model.NormalizeKey(key)]
	return p, ok
}

// Profiles returns every profile sorted by key.
func (b *Base) Profiles() []model.FertilizerProfile {
	out := make([]model.FertilizerProfile, 0, len(b.profiles))
	for _, p := range b.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// DecompositionRate returns the yearly decay rate of organic matter for a category.
// Unknown categories decay like fast-release material.
func (b *Base) DecompositionRate(category model.DecompositionCategory) float64 {
	if rate, ok := b.decompositionRates[category]; ok {
		return rate
	}
	return b.decompositionRates[model.DecompositionFastRelease]
}

// Microbial returns the microbial factor for a category, defaulting to neutral.
func (b *Base) Microbial(category model.MicrobialCategory) MicrobialFactor {
	if f, ok := b.microbial[category]; ok {
		return f
	}
	return b.microbial[model.MicrobialNeutral]
}

// Structure returns the structure factor for a category, defaulting to neutral.
func (b *Base) Structure(category model.StructureCategory) StructureFactor {
	if f, ok := b.structure[category]; ok {
		return f
	}
	return b.structure[model.StructureNeutral]
}

func typeDefaultKey(t model.FertilizerType) string {
	if t == model.FertilizerOrganic {
		return DefaultOrganicKey
	}
	return DefaultSyntheticKey
}
