// Package phmgmt provides pH-management reference data: soil buffering capacity by
// texture and the relative plant availability of nutrients across the pH scale.
package phmgmt

import (
	"math"
	"sort"

	"github.com/Veraticus/soilsense/internal/model"
)

// bufferingByTexture is relative resistance to pH change; loam is 1.0.
var bufferingByTexture = map[model.Texture]float64{
	model.TextureSand:          0.5,
	model.TextureLoamySand:     0.65,
	model.TextureSandyLoam:     0.8,
	model.TextureLoam:          1.0,
	model.TextureSiltLoam:      1.1,
	model.TextureSilt:          1.1,
	model.TextureSandyClayLoam: 1.15,
	model.TextureClayLoam:      1.3,
	model.TextureSiltyClayLoam: 1.35,
	model.TextureSandyClay:     1.35,
	model.TextureSiltyClay:     1.45,
	model.TextureClay:          1.5,
	model.TextureOrganic:       2.0,
}

// Reference is the default pH-management reference table.
type Reference struct{}

// NewReference returns the built-in reference table.
func NewReference() Reference {
	return Reference{}
}

// BufferingCapacity returns the texture's buffering factor and whether the texture is known.
// Unknown textures get the loam factor.
func (Reference) BufferingCapacity(texture model.Texture) (float64, bool) {
	if f, ok := bufferingByTexture[texture]; ok {
		return f, true
	}
	return bufferingByTexture[model.TextureLoam], false
}

// availabilityBand is a trapezoid: availability rises from floor at lowZero to 1.0 at
// lowFull, holds until highFull and falls back to floor at highZero.
type availabilityBand struct {
	lowZero, lowFull, highFull, highZero float64
	floor                                float64
}

func (b availabilityBand) at(ph float64) float64 {
	switch {
	case ph <= b.lowZero || ph >= b.highZero:
		return b.floor
	case ph < b.lowFull:
		return b.floor + (1-b.floor)*(ph-b.lowZero)/(b.lowFull-b.lowZero)
	case ph <= b.highFull:
		return 1
	default:
		return b.floor + (1-b.floor)*(b.highZero-ph)/(b.highZero-b.highFull)
	}
}

var availabilityCurves = map[string]availabilityBand{
	"nitrogen":   {lowZero: 4.0, lowFull: 6.0, highFull: 8.0, highZero: 9.5, floor: 0.2},
	"phosphorus": {lowZero: 4.5, lowFull: 6.2, highFull: 7.2, highZero: 8.5, floor: 0.15},
	"potassium":  {lowZero: 4.0, lowFull: 6.0, highFull: 9.0, highZero: 10.0, floor: 0.3},
	"calcium":    {lowZero: 4.5, lowFull: 6.5, highFull: 8.5, highZero: 10.0, floor: 0.2},
	"magnesium":  {lowZero: 4.5, lowFull: 6.5, highFull: 8.5, highZero: 10.0, floor: 0.2},
	"sulfur":     {lowZero: 4.0, lowFull: 6.0, highFull: 9.0, highZero: 10.0, floor: 0.3},
	"iron":       {lowZero: 3.0, lowFull: 4.0, highFull: 6.5, highZero: 8.0, floor: 0.1},
	"manganese":  {lowZero: 3.0, lowFull: 4.5, highFull: 6.5, highZero: 8.0, floor: 0.1},
	"zinc":       {lowZero: 3.5, lowFull: 5.0, highFull: 7.0, highZero: 8.0, floor: 0.1},
	"copper":     {lowZero: 3.5, lowFull: 5.0, highFull: 7.0, highZero: 8.0, floor: 0.1},
	"boron":      {lowZero: 4.0, lowFull: 5.0, highFull: 7.0, highZero: 8.5, floor: 0.1},
	"molybdenum": {lowZero: 4.0, lowFull: 7.0, highFull: 9.0, highZero: 10.0, floor: 0.1},
}

// NutrientAvailability returns relative availability on [0, 1] of each nutrient at ph.
func (Reference) NutrientAvailability(ph float64) map[string]float64 {
	out := make(map[string]float64, len(availabilityCurves))
	for nutrient, band := range availabilityCurves {
		out[nutrient] = round(band.at(ph), 3)
	}
	return out
}

// Nutrients lists the nutrients covered by the availability curve.
func Nutrients() []string {
	out := make([]string, 0, len(availabilityCurves))
	for n := range availabilityCurves {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
