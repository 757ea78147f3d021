package knowledge

import "github.com/Veraticus/soilsense/internal/model"

// Keys of the generic fallback profiles.
const (
	DefaultOrganicKey   = "default_organic"
	DefaultSyntheticKey = "default_synthetic"
)

func builtinProfiles() []model.FertilizerProfile {
	return []model.FertilizerProfile{
		// Synthetic nitrogen sources
		{
			Key: "urea", Name: "Urea (46-0-0)", Type: model.FertilizerSynthetic,
			PrimaryNutrient: model.NutrientNitrogen, NitrogenContent: 0.46,
			AcidifyingCoefficient: -0.10, SaltIndex: 75, MineralizationPriming: 0.002,
			MicrobialCategory: model.MicrobialSuppressive, StructureCategory: model.StructureMinorDegradation,
			DecompositionCategory: model.DecompositionFastRelease, ReleasePattern: model.ReleaseFast,
		},
		{
			Key: "uan", Name: "Urea Ammonium Nitrate (32-0-0)", Type: model.FertilizerSynthetic,
			PrimaryNutrient: model.NutrientNitrogen, NitrogenContent: 0.32,
			AcidifyingCoefficient: -0.10, SaltIndex: 75, MineralizationPriming: 0.002,
			MicrobialCategory: model.MicrobialSuppressive, StructureCategory: model.StructureMinorDegradation,
			DecompositionCategory: model.DecompositionFastRelease, ReleasePattern: model.ReleaseImmediate,
		},
		{
			Key: "ammonium_sulfate", Name: "Ammonium Sulfate (21-0-0-24S)", Type: model.FertilizerSynthetic,
			PrimaryNutrient: model.NutrientNitrogen, NitrogenContent: 0.21,
			AcidifyingCoefficient: -0.30, SaltIndex: 69, MineralizationPriming: 0.003,
			MicrobialCategory: model.MicrobialSuppressive, StructureCategory: model.StructureDegradation,
			DecompositionCategory: model.DecompositionFastRelease, ReleasePattern: model.ReleaseFast,
		},
		{
			Key: "ammonium_nitrate", Name: "Ammonium Nitrate (34-0-0)", Type: model.FertilizerSynthetic,
			PrimaryNutrient: model.NutrientNitrogen, NitrogenContent: 0.34,
			AcidifyingCoefficient: -0.12, SaltIndex: 105, MineralizationPriming: 0.002,
			MicrobialCategory: model.MicrobialSuppressive, StructureCategory: model.StructureMinorDegradation,
			DecompositionCategory: model.DecompositionFastRelease, ReleasePattern: model.ReleaseImmediate,
		},
		{
			Key: "anhydrous_ammonia", Name: "Anhydrous Ammonia (82-0-0)", Type: model.FertilizerSynthetic,
			PrimaryNutrient: model.NutrientNitrogen, NitrogenContent: 0.82,
			AcidifyingCoefficient: -0.10, SaltIndex: 47, MineralizationPriming: 0.004,
			MicrobialCategory: model.MicrobialStronglySuppressive, StructureCategory: model.StructureMinorDegradation,
			DecompositionCategory: model.DecompositionFastRelease, ReleasePattern: model.ReleaseFast,
		},
		{
			Key: "calcium_nitrate", Name: "Calcium Nitrate (15.5-0-0)", Type: model.FertilizerSynthetic,
			PrimaryNutrient: model.NutrientNitrogen, NitrogenContent: 0.155,
			AcidifyingCoefficient: 0.05, SaltIndex: 53, MineralizationPriming: 0.001,
			MicrobialCategory: model.MicrobialNeutral, StructureCategory: model.StructureNeutral,
			DecompositionCategory: model.DecompositionFastRelease, ReleasePattern: model.ReleaseImmediate,
		},
		// Phosphorus and potassium sources
		{
			Key: "diammonium_phosphate", Name: "Diammonium Phosphate (18-46-0)", Type: model.FertilizerSynthetic,
			PrimaryNutrient: model.NutrientNitrogen, NitrogenContent: 0.18,
			AcidifyingCoefficient: -0.15, SaltIndex: 29, MineralizationPriming: 0.001,
			MicrobialCategory: model.MicrobialNeutral, StructureCategory: model.StructureMinorDegradation,
			DecompositionCategory: model.DecompositionFastRelease, ReleasePattern: model.ReleaseFast,
		},
		{
			Key: "monoammonium_phosphate", Name: "Monoammonium Phosphate (11-52-0)", Type: model.FertilizerSynthetic,
			PrimaryNutrient: model.NutrientNitrogen, NitrogenContent: 0.11,
			AcidifyingCoefficient: -0.20, SaltIndex: 27, MineralizationPriming: 0.001,
			MicrobialCategory: model.MicrobialNeutral, StructureCategory: model.StructureMinorDegradation,
			DecompositionCategory: model.DecompositionFastRelease, ReleasePattern: model.ReleaseFast,
		},
		{
			Key: "triple_superphosphate", Name: "Triple Superphosphate (0-46-0)", Type: model.FertilizerSynthetic,
			PrimaryNutrient: model.NutrientPhosphorus,
			AcidifyingCoefficient: -0.005, SaltIndex: 10,
			MicrobialCategory: model.MicrobialNeutral, StructureCategory: model.StructureNeutral,
			DecompositionCategory: model.DecompositionFastRelease, ReleasePattern: model.ReleaseModerate,
		},
		{
			Key: "potash", Name: "Muriate of Potash (0-0-60)", Type: model.FertilizerSynthetic,
			PrimaryNutrient: model.NutrientPotassium,
			SaltIndex: 116,
			MicrobialCategory: model.MicrobialNeutral, StructureCategory: model.StructureMinorDegradation,
			DecompositionCategory: model.DecompositionFastRelease, ReleasePattern: model.ReleaseFast,
		},
		{
			Key: "potassium_sulfate", Name: "Sulfate of Potash (0-0-50)", Type: model.FertilizerSynthetic,
			PrimaryNutrient: model.NutrientPotassium,
			AcidifyingCoefficient: -0.002, SaltIndex: 46,
			MicrobialCategory: model.MicrobialNeutral, StructureCategory: model.StructureNeutral,
			DecompositionCategory: model.DecompositionFastRelease, ReleasePattern: model.ReleaseFast,
		},
		// Organic amendments
		{
			Key: "compost", Name: "Finished Compost", Type: model.FertilizerOrganic,
			PrimaryNutrient: model.NutrientOrganic, NitrogenContent: 0.02,
			OMContribution: 0.40, CarbonInput: 0.20, AcidifyingCoefficient: 0.002, SaltIndex: 5,
			MicrobialCategory: model.MicrobialHighlyStimulating, StructureCategory: model.StructureMajorImprovement,
			DecompositionCategory: model.DecompositionCompost, ReleasePattern: model.ReleaseSlow,
		},
		{
			Key: "manure", Name: "Cattle Manure", Type: model.FertilizerOrganic,
			PrimaryNutrient: model.NutrientOrganic, NitrogenContent: 0.02,
			OMContribution: 0.25, CarbonInput: 0.12, AcidifyingCoefficient: 0.003, SaltIndex: 15,
			MicrobialCategory: model.MicrobialStimulating, StructureCategory: model.StructureImprovement,
			DecompositionCategory: model.DecompositionManure, ReleasePattern: model.ReleaseModerate,
		},
		{
			Key: "poultry_manure", Name: "Poultry Litter", Type: model.FertilizerOrganic,
			PrimaryNutrient: model.NutrientOrganic, NitrogenContent: 0.03,
			OMContribution: 0.30, CarbonInput: 0.15, AcidifyingCoefficient: 0.004, SaltIndex: 25,
			MicrobialCategory: model.MicrobialStimulating, StructureCategory: model.StructureImprovement,
			DecompositionCategory: model.DecompositionManure, ReleasePattern: model.ReleaseModerate,
		},
		{
			Key: "bone_meal", Name: "Bone Meal (3-15-0)", Type: model.FertilizerOrganic,
			PrimaryNutrient: model.NutrientPhosphorus, NitrogenContent: 0.03,
			OMContribution: 0.05, CarbonInput: 0.03, AcidifyingCoefficient: 0.003, SaltIndex: 4,
			MicrobialCategory: model.MicrobialMild, StructureCategory: model.StructureMinorImprovement,
			DecompositionCategory: model.DecompositionCompost, ReleasePattern: model.ReleaseSlow,
		},
		{
			Key: "blood_meal", Name: "Blood Meal (12-0-0)", Type: model.FertilizerOrganic,
			PrimaryNutrient: model.NutrientNitrogen, NitrogenContent: 0.12,
			OMContribution: 0.08, CarbonInput: 0.04, AcidifyingCoefficient: -0.05, SaltIndex: 8,
			MicrobialCategory: model.MicrobialMild, StructureCategory: model.StructureNeutral,
			DecompositionCategory: model.DecompositionFastRelease, ReleasePattern: model.ReleaseModerate,
		},
		{
			Key: "fish_emulsion", Name: "Fish Emulsion (5-1-1)", Type: model.FertilizerOrganic,
			PrimaryNutrient: model.NutrientNitrogen, NitrogenContent: 0.05,
			OMContribution: 0.02, CarbonInput: 0.01, AcidifyingCoefficient: -0.02, SaltIndex: 6,
			MicrobialCategory: model.MicrobialStimulating, StructureCategory: model.StructureNeutral,
			DecompositionCategory: model.DecompositionFastRelease, ReleasePattern: model.ReleaseFast,
		},
		{
			Key: "biochar", Name: "Biochar", Type: model.FertilizerOrganic,
			PrimaryNutrient: model.NutrientOrganic,
			OMContribution: 0.70, CarbonInput: 0.65, AcidifyingCoefficient: 0.01, SaltIndex: 3,
			MicrobialCategory: model.MicrobialStimulating, StructureCategory: model.StructureImprovement,
			DecompositionCategory: model.DecompositionStableCarbon, ReleasePattern: model.ReleaseVerySlow,
		},
		// Generic fallbacks
		{
			Key: DefaultOrganicKey, Name: "Generic Organic Amendment", Type: model.FertilizerOrganic,
			PrimaryNutrient: model.NutrientOrganic, NitrogenContent: 0.02,
			OMContribution: 0.35, CarbonInput: 0.18, AcidifyingCoefficient: 0.002, SaltIndex: 8,
			MicrobialCategory: model.MicrobialStimulating, StructureCategory: model.StructureImprovement,
			DecompositionCategory: model.DecompositionCompost, ReleasePattern: model.ReleaseSlow,
		},
		{
			Key: DefaultSyntheticKey, Name: "Generic Synthetic Nitrogen", Type: model.FertilizerSynthetic,
			PrimaryNutrient: model.NutrientNitrogen, NitrogenContent: 0.46,
			AcidifyingCoefficient: -0.10, SaltIndex: 75, MineralizationPriming: 0.002,
			MicrobialCategory: model.MicrobialSuppressive, StructureCategory: model.StructureMinorDegradation,
			DecompositionCategory: model.DecompositionFastRelease, ReleasePattern: model.ReleaseFast,
		},
	}
}

func builtinAliases() map[string]string {
	return map[string]string{
		"synthetic_urea":             "urea",
		"synthetic_nitrogen":         DefaultSyntheticKey,
		"synthetic_potash":           "potash",
		"synthetic_dap":              "diammonium_phosphate",
		"synthetic_map":              "monoammonium_phosphate",
		"synthetic_uan":              "uan",
		"synthetic_tsp":              "triple_superphosphate",
		"synthetic_sop":              "potassium_sulfate",
		"synthetic_ammonium_sulfate": "ammonium_sulfate",
		"organic_compost":            "compost",
		"organic_manure":             "manure",
		"organic_chicken_manure":     "poultry_manure",
		"organic_bone_meal":          "bone_meal",
		"organic_blood_meal":         "blood_meal",
		"organic_fish":               "fish_emulsion",
		"organic_biochar":            "biochar",
	}
}

// builtinPatterns are checked in order; more specific names come first.
func builtinPatterns() []Pattern {
	return []Pattern{
		{Name: "uan solution", Contains: []string{"uan", "urea ammonium nitrate", "32-0-0", "28-0-0"}, Key: "uan"},
		{Name: "urea", Contains: []string{"urea", "46-0-0"}, Key: "urea"},
		{Name: "anhydrous", Contains: []string{"anhydrous", "82-0-0"}, Key: "anhydrous_ammonia"},
		{Name: "ammonium sulfate", Contains: []string{"ammonium sulfate", "ammonium sulphate", "21-0-0"}, Key: "ammonium_sulfate"},
		{Name: "ammonium nitrate", Contains: []string{"ammonium nitrate", "34-0-0"}, Key: "ammonium_nitrate"},
		{Name: "calcium nitrate", Contains: []string{"calcium nitrate", "15.5-0-0"}, Key: "calcium_nitrate"},
		{Name: "diammonium phosphate", Contains: []string{"diammonium", "18-46-0"}, Key: "diammonium_phosphate"},
		{Name: "monoammonium phosphate", Contains: []string{"monoammonium", "11-52-0"}, Key: "monoammonium_phosphate"},
		{Name: "superphosphate", Contains: []string{"superphosphate", "0-46-0"}, Key: "triple_superphosphate"},
		{Name: "potassium sulfate", Contains: []string{"sulfate of potash", "potassium sulfate", "0-0-50"}, Key: "potassium_sulfate"},
		{Name: "potash", Contains: []string{"potash", "muriate", "potassium chloride", "0-0-60"}, Key: "potash"},
		{Name: "compost", Contains: []string{"compost", "vermicompost", "vermicast", "humus"}, Key: "compost"},
		{Name: "poultry manure", Contains: []string{"poultry", "chicken", "turkey litter"}, Key: "poultry_manure"},
		{Name: "manure", Contains: []string{"manure", "dung"}, Key: "manure"},
		{Name: "bone meal", Contains: []string{"bone"}, Key: "bone_meal"},
		{Name: "blood meal", Contains: []string{"blood"}, Key: "blood_meal"},
		{Name: "fish", Contains: []string{"fish"}, Key: "fish_emulsion"},
		{Name: "biochar", Contains: []string{"biochar", "charcoal"}, Key: "biochar"},
	}
}

func builtinDecompositionRates() map[model.DecompositionCategory]float64 {
	return map[model.DecompositionCategory]float64{
		model.DecompositionCompost:      0.30,
		model.DecompositionManure:       0.50,
		model.DecompositionStableCarbon: 0.05,
		model.DecompositionFastRelease:  0.60,
	}
}

func builtinMicrobialFactors() map[model.MicrobialCategory]MicrobialFactor {
	return map[model.MicrobialCategory]MicrobialFactor{
		model.MicrobialHighlyStimulating: {
			DiversityMultiplier: 1.4,
			Descriptors: model.MicrobialDescriptors{
				Bacterial: "strongly_stimulated", Fungal: "stimulated", Mycorrhizal: "enhanced",
				NitrogenFixers: "stimulated", Decomposers: "strongly_stimulated", DiseaseSuppression: "enhanced",
			},
		},
		model.MicrobialStimulating: {
			DiversityMultiplier: 1.2,
			Descriptors: model.MicrobialDescriptors{
				Bacterial: "stimulated", Fungal: "slightly_stimulated", Mycorrhizal: "neutral",
				NitrogenFixers: "slightly_stimulated", Decomposers: "stimulated", DiseaseSuppression: "slightly_stimulated",
			},
		},
		model.MicrobialMild: {
			DiversityMultiplier: 1.05,
			Descriptors: model.MicrobialDescriptors{
				Bacterial: "slightly_stimulated", Fungal: "neutral", Mycorrhizal: "neutral",
				NitrogenFixers: "neutral", Decomposers: "slightly_stimulated", DiseaseSuppression: "neutral",
			},
		},
		model.MicrobialNeutral: {
			DiversityMultiplier: 1.0,
			Descriptors: model.MicrobialDescriptors{
				Bacterial: "neutral", Fungal: "neutral", Mycorrhizal: "neutral",
				NitrogenFixers: "neutral", Decomposers: "neutral", DiseaseSuppression: "neutral",
			},
		},
		model.MicrobialSuppressive: {
			DiversityMultiplier: 0.8,
			Descriptors: model.MicrobialDescriptors{
				Bacterial: "slightly_stimulated", Fungal: "suppressed", Mycorrhizal: "reduced",
				NitrogenFixers: "inhibited", Decomposers: "slightly_suppressed", DiseaseSuppression: "reduced",
			},
		},
		model.MicrobialStronglySuppressive: {
			DiversityMultiplier: 0.6,
			Descriptors: model.MicrobialDescriptors{
				Bacterial: "suppressed", Fungal: "strongly_suppressed", Mycorrhizal: "inhibited",
				NitrogenFixers: "severely_suppressed", Decomposers: "suppressed", DiseaseSuppression: "strongly_suppressed",
			},
		},
	}
}

func builtinStructureFactors() map[model.StructureCategory]StructureFactor {
	return map[model.StructureCategory]StructureFactor{
		model.StructureMajorImprovement: {
			AggregateStability: 15, BulkDensity: -0.05, Infiltration: 20, WaterHolding: 10,
			Compaction: "reduced", Crusting: "reduced",
		},
		model.StructureImprovement: {
			AggregateStability: 10, BulkDensity: -0.03, Infiltration: 12, WaterHolding: 6,
			Compaction: "reduced", Crusting: "slightly_suppressed",
		},
		model.StructureMinorImprovement: {
			AggregateStability: 4, BulkDensity: -0.01, Infiltration: 5, WaterHolding: 2,
			Compaction: "neutral", Crusting: "neutral",
		},
		model.StructureNeutral: {
			Compaction: "neutral", Crusting: "neutral",
		},
		model.StructureMinorDegradation: {
			AggregateStability: -2, BulkDensity: 0.01, Infiltration: -3, WaterHolding: -1,
			Compaction: "slightly_increased", Crusting: "neutral",
		},
		model.StructureDegradation: {
			AggregateStability: -5, BulkDensity: 0.02, Infiltration: -6, WaterHolding: -3,
			Compaction: "increased", Crusting: "increased",
		},
		model.StructureSevereDegradation: {
			AggregateStability: -12, BulkDensity: 0.05, Infiltration: -15, WaterHolding: -8,
			Compaction: "strongly_increased", Crusting: "increased",
		},
	}
}
