package model

import "fmt"

// Rating is a qualitative per-horizon judgement of a component's effect on soil health.
type Rating string

// Ratings from best to worst.
const (
	RatingExcellent  Rating = "excellent"
	RatingGood       Rating = "good"
	RatingNeutral    Rating = "neutral"
	RatingConcerning Rating = "concerning"
	RatingPoor       Rating = "poor"
)

// Score maps a rating onto the 1-5 scale (poor=1, excellent=5).
// Unknown ratings score as neutral.
func (r Rating) Score() int {
	switch r {
	case RatingExcellent:
		return 5
	case RatingGood:
		return 4
	case RatingConcerning:
		return 2
	case RatingPoor:
		return 1
	default:
		return 3
	}
}

// RatingFromScore maps an average 1-5 score back onto a rating label.
func RatingFromScore(avg float64) Rating {
	switch {
	case avg >= 4.5:
		return RatingExcellent
	case avg >= 3.5:
		return RatingGood
	case avg >= 2.5:
		return RatingNeutral
	case avg >= 1.5:
		return RatingConcerning
	default:
		return RatingPoor
	}
}

// Horizon is one of the three projection windows.
type Horizon int

// Projection horizons.
const (
	ShortTerm Horizon = iota
	MediumTerm
	LongTerm
)

// Horizons lists every horizon in chronological order.
var Horizons = [3]Horizon{ShortTerm, MediumTerm, LongTerm}

// Years is the projection length of the horizon.
func (h Horizon) Years() float64 {
	switch h {
	case ShortTerm:
		return 1
	case MediumTerm:
		return 5
	default:
		return 15
	}
}

func (h Horizon) String() string {
	switch h {
	case ShortTerm:
		return "short_term"
	case MediumTerm:
		return "medium_term"
	case LongTerm:
		return "long_term"
	default:
		return fmt.Sprintf("horizon(%d)", int(h))
	}
}

// HorizonRatings holds one rating per horizon.
type HorizonRatings struct {
	ShortTerm  Rating `json:"short_term"`
	MediumTerm Rating `json:"medium_term"`
	LongTerm   Rating `json:"long_term"`
}

// At returns the rating for h.
func (r HorizonRatings) At(h Horizon) Rating {
	switch h {
	case ShortTerm:
		return r.ShortTerm
	case MediumTerm:
		return r.MediumTerm
	default:
		return r.LongTerm
	}
}

// NewHorizonRatings builds ratings from a horizon-indexed array.
func NewHorizonRatings(r [3]Rating) HorizonRatings {
	return HorizonRatings{ShortTerm: r[ShortTerm], MediumTerm: r[MediumTerm], LongTerm: r[LongTerm]}
}

// Potential grades acidification or alkalinization potential.
type Potential string

// Potential levels.
const (
	PotentialNone     Potential = "none"
	PotentialLow      Potential = "low"
	PotentialMedium   Potential = "medium"
	PotentialHigh     Potential = "high"
	PotentialVeryHigh Potential = "very_high"
)

// Level orders potentials from none (0) to very high (4).
func (p Potential) Level() int {
	switch p {
	case PotentialLow:
		return 1
	case PotentialMedium:
		return 2
	case PotentialHigh:
		return 3
	case PotentialVeryHigh:
		return 4
	default:
		return 0
	}
}

// AtLeast reports whether p is as severe as other.
func (p Potential) AtLeast(other Potential) bool {
	return p.Level() >= other.Level()
}

// StabilityClass is the overall structural stability classification.
type StabilityClass string

// Structural stability classes.
const (
	StabilityExcellent StabilityClass = "excellent"
	StabilityGood      StabilityClass = "good"
	StabilityFair      StabilityClass = "fair"
	StabilityPoor      StabilityClass = "poor"
)

// RiskLevel is the overall risk of an assessed fertilizer plan.
type RiskLevel string

// Risk levels.
const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Index orders risk levels from low (0) to critical (3).
func (r RiskLevel) Index() int {
	switch r {
	case RiskMedium:
		return 1
	case RiskHigh:
		return 2
	case RiskCritical:
		return 3
	default:
		return 0
	}
}

// HealthRating labels the overall 0-100 soil health score.
type HealthRating string

// Overall health ratings.
const (
	HealthExcellent  HealthRating = "excellent"
	HealthGood       HealthRating = "good"
	HealthFair       HealthRating = "fair"
	HealthConcerning HealthRating = "concerning"
	HealthPoor       HealthRating = "poor"
)

// HealthRatingFor partitions the 0-100 range into rating bands.
func HealthRatingFor(score float64) HealthRating {
	switch {
	case score >= 80:
		return HealthExcellent
	case score >= 65:
		return HealthGood
	case score >= 50:
		return HealthFair
	case score >= 35:
		return HealthConcerning
	default:
		return HealthPoor
	}
}
