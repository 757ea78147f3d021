package impact

import (
	"github.com/Veraticus/soilsense/internal/knowledge"
	"github.com/Veraticus/soilsense/internal/model"
)

// structureHorizonFactors scale the stability delta; structure changes slowly.
var structureHorizonFactors = [3]float64{0.4, 1.0, 1.5}

// StructureEvaluator projects physical structure changes.
type StructureEvaluator struct {
	kb *knowledge.Base
}

// NewStructureEvaluator creates an evaluator backed by kb.
func NewStructureEvaluator(kb *knowledge.Base) *StructureEvaluator {
	return &StructureEvaluator{kb: kb}
}

// Evaluate projects aggregate stability, bulk density, infiltration and compaction.
func (e *StructureEvaluator) Evaluate(in Input) (model.StructureEvaluation, error) {
	f := e.kb.Structure(in.Profile.StructureCategory)
	if err := checkFinite(map[string]float64{
		"aggregate stability": f.AggregateStability,
		"bulk density":        f.BulkDensity,
		"infiltration":        f.Infiltration,
		"water holding":       f.WaterHolding,
	}); err != nil {
		return model.StructureEvaluation{}, err
	}

	s, bd := f.AggregateStability, f.BulkDensity
	out := model.StructureEvaluation{
		AggregateStabilityChange: s,
		MacroAggregateChange:     round(1.2*s, 2),
		MicroAggregateChange:     round(0.6*s, 2),
		BulkDensityChange:        bd,
		InfiltrationChange:       f.Infiltration,
		WaterHoldingChange:       f.WaterHolding,
		Compaction:               f.Compaction,
		Crusting:                 f.Crusting,
		Stability:                classifyStability(s, bd),
		ErosionResistance:        erosionResistance(s),
		Drainage:                 drainage(f.Infiltration),
		Aeration:                 aeration(bd),
		RootPenetration:          rootPenetration(bd),
	}

	var ratings [3]model.Rating
	for _, h := range model.Horizons {
		ratings[h] = rateStability(s * structureHorizonFactors[h])
	}
	out.Ratings = model.NewHorizonRatings(ratings)

	out.ManagementPractices, out.AmeliorationStrategies = structurePractices(s, f, in)
	return out, nil
}

func classifyStability(s, bd float64) model.StabilityClass {
	switch {
	case s > 0 && bd < 0 && s >= 10:
		return model.StabilityExcellent
	case s > 0:
		return model.StabilityGood
	case s <= -5 && bd > 0:
		return model.StabilityPoor
	default:
		return model.StabilityFair
	}
}

func rateStability(delta float64) model.Rating {
	switch {
	case delta >= 10:
		return model.RatingExcellent
	case delta >= 3:
		return model.RatingGood
	case delta > -3:
		return model.RatingNeutral
	case delta > -8:
		return model.RatingConcerning
	default:
		return model.RatingPoor
	}
}

func erosionResistance(s float64) string {
	switch {
	case s >= 10:
		return "significantly_improved"
	case s > 0:
		return "improved"
	case s == 0:
		return "unchanged"
	case s > -5:
		return "reduced"
	default:
		return "significantly_reduced"
	}
}

func drainage(infiltration float64) string {
	switch {
	case infiltration > 10:
		return "improved"
	case infiltration > 0:
		return "slightly_improved"
	case infiltration < -5:
		return "impaired"
	case infiltration < 0:
		return "slightly_impaired"
	default:
		return "unchanged"
	}
}

func aeration(bd float64) string {
	switch {
	case bd < -0.02:
		return "improved"
	case bd > 0.02:
		return "restricted"
	case bd < 0:
		return "slightly_improved"
	case bd > 0:
		return "slightly_restricted"
	default:
		return "unchanged"
	}
}

func rootPenetration(bd float64) string {
	switch {
	case bd < 0:
		return "easier"
	case bd > 0.03:
		return "restricted"
	case bd > 0:
		return "slightly_restricted"
	default:
		return "unchanged"
	}
}

func structurePractices(s float64, f knowledge.StructureFactor, in Input) (practices, amelioration []string) {
	switch {
	case s > 0:
		practices = []string{
			"Maintain residue cover to protect newly formed aggregates",
			"Minimize tillage to preserve aggregate gains",
		}
		amelioration = []string{"No amelioration required; continue current practice"}
	case s == 0:
		practices = []string{
			"Add organic amendments to build aggregate stability",
			"Use cover crops to maintain root channels",
		}
		amelioration = []string{"Consider periodic compost applications"}
	default:
		practices = []string{
			"Reduce tillage intensity",
			"Integrate cover crops with fibrous root systems",
			"Avoid field operations on wet soil",
		}
		amelioration = []string{"Apply compost at 2-4 tons/acre to rebuild aggregates"}
		if in.Profile.SaltIndex > 50 {
			amelioration = append(amelioration, "Apply gypsum to displace sodium and flocculate clays")
		}
	}

	if knowledge.DescriptorImpact(f.Compaction) > 0 {
		practices = append(practices, "Control traffic lanes; compaction tendency is "+f.Compaction)
	}
	if knowledge.DescriptorImpact(f.Crusting) > 0 {
		practices = append(practices, "Keep the surface covered to limit crusting")
	}
	if in.Conditions.Steep() && s <= 0 {
		amelioration = append(amelioration, "Contour farm or strip-crop slopes above 8%")
	}
	return practices, amelioration
}
