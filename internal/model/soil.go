// Package model defines the soil health domain types shared across the engine.
package model

import (
	"math"
	"strings"
	"time"

	"github.com/Veraticus/soilsense/internal/common"
)

// Texture is a USDA soil texture class.
type Texture string

// Soil texture classes.
const (
	TextureSand          Texture = "sand"
	TextureLoamySand     Texture = "loamy_sand"
	TextureSandyLoam     Texture = "sandy_loam"
	TextureLoam          Texture = "loam"
	TextureSiltLoam      Texture = "silt_loam"
	TextureSilt          Texture = "silt"
	TextureSandyClayLoam Texture = "sandy_clay_loam"
	TextureClayLoam      Texture = "clay_loam"
	TextureSiltyClayLoam Texture = "silty_clay_loam"
	TextureSandyClay     Texture = "sandy_clay"
	TextureSiltyClay     Texture = "silty_clay"
	TextureClay          Texture = "clay"
	TextureOrganic       Texture = "organic"
	TextureUnknown       Texture = ""
)

// NormalizeTexture lowercases a texture name and joins words with underscores.
func NormalizeTexture(s string) Texture {
	return Texture(NormalizeKey(s))
}

// DrainageClass describes how quickly water leaves the soil profile.
type DrainageClass string

// Drainage classes.
const (
	DrainageExcessive DrainageClass = "excessive"
	DrainageWell      DrainageClass = "well"
	DrainageModerate  DrainageClass = "moderate"
	DrainagePoor      DrainageClass = "poor"
	DrainageVeryPoor  DrainageClass = "very_poor"
)

// SoilState is a measured soil test. It is read-only input to an assessment.
type SoilState struct {
	TestDate             time.Time     `json:"test_date" yaml:"test_date"`
	Texture              Texture       `json:"texture" yaml:"texture"`
	Drainage             DrainageClass `json:"drainage,omitempty" yaml:"drainage"`
	PH                   float64       `json:"ph" yaml:"ph"`
	OrganicMatterPercent float64       `json:"organic_matter_percent" yaml:"organic_matter_percent"`
	CEC                  float64       `json:"cec,omitempty" yaml:"cec"`
}

// Validate checks the invariants of a soil test record.
func (s SoilState) Validate() error {
	if math.IsNaN(s.PH) || s.PH < 0 || s.PH > 14 {
		return common.InvalidInputf("soil pH must be within [0, 14], got %v", s.PH)
	}
	if math.IsNaN(s.OrganicMatterPercent) || s.OrganicMatterPercent < 0 {
		return common.InvalidInputf("organic matter percent must be non-negative, got %v", s.OrganicMatterPercent)
	}
	if math.IsNaN(s.CEC) || s.CEC < 0 {
		return common.InvalidInputf("cation exchange capacity must be non-negative, got %v", s.CEC)
	}
	return nil
}

// AgeAt returns how old the soil test is at the given instant.
// A zero test date reports zero age.
func (s SoilState) AgeAt(now time.Time) time.Duration {
	if s.TestDate.IsZero() || now.Before(s.TestDate) {
		return 0
	}
	return now.Sub(s.TestDate)
}

// FieldConditions are optional site modifiers for an assessment.
type FieldConditions struct {
	SlopePercent         float64 `json:"slope_percent,omitempty" yaml:"slope_percent"`
	AnnualRainfallInches float64 `json:"annual_rainfall_inches,omitempty" yaml:"annual_rainfall_inches"`
	Irrigated            bool    `json:"irrigated,omitempty" yaml:"irrigated"`
}

// HighRainfall reports whether decomposition should be accelerated.
func (f *FieldConditions) HighRainfall() bool {
	return f != nil && (f.AnnualRainfallInches > 40 || f.Irrigated)
}

// Steep reports whether the field slope raises erosion concern.
func (f *FieldConditions) Steep() bool {
	return f != nil && f.SlopePercent > 8
}

// NormalizeKey lowercases s, trims it and replaces spaces and hyphens with underscores.
func NormalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("-", "_", " ", "_", "/", "_").Replace(s)
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return s
}

func (t Texture) String() string {
	if t == TextureUnknown {
		return "unknown"
	}
	return string(t)
}
