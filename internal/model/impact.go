package model

// Effect is the direction of a component's net effect.
type Effect string

// Effect directions.
const (
	EffectPositive Effect = "positive"
	EffectNeutral  Effect = "neutral"
	EffectNegative Effect = "negative"
)

// OrganicMatterImpact projects how organic matter responds to the plan.
// Change values are in percentage points of soil mass.
type OrganicMatterImpact struct {
	EquilibriumPercent     *float64       `json:"equilibrium_om_percent,omitempty"`
	Effect                 Effect         `json:"organic_matter_effect"`
	MonitoringFrequency    string         `json:"monitoring_frequency"`
	Ratings                HorizonRatings `json:"ratings"`
	Mechanisms             []string       `json:"mechanisms"`
	Recommendations        []string       `json:"recommendations"`
	ContributionLbsPerAcre float64        `json:"organic_matter_contribution_lbs_per_acre"`
	CarbonInputLbsPerAcre  float64        `json:"carbon_input_lbs_per_acre"`
	AnnualAdditionPercent  float64        `json:"annual_addition_percent"`
	DecompositionRate      float64        `json:"decomposition_rate"`
	ShortTermChange        float64        `json:"short_term_om_change_percent"`
	MediumTermChange       float64        `json:"medium_term_om_change_percent"`
	LongTermChange         float64        `json:"long_term_om_change_percent"`
}

// ChangeAt returns the projected change for h.
func (o OrganicMatterImpact) ChangeAt(h Horizon) float64 {
	switch h {
	case ShortTerm:
		return o.ShortTermChange
	case MediumTerm:
		return o.MediumTermChange
	default:
		return o.LongTermChange
	}
}

// HorizonScores holds one 1-5 numeric score per horizon.
type HorizonScores struct {
	ShortTerm  int `json:"short_term"`
	MediumTerm int `json:"medium_term"`
	LongTerm   int `json:"long_term"`
}

// At returns the score for h.
func (s HorizonScores) At(h Horizon) int {
	switch h {
	case ShortTerm:
		return s.ShortTerm
	case MediumTerm:
		return s.MediumTerm
	default:
		return s.LongTerm
	}
}

// PHEffects projects pH drift and its consequences.
type PHEffects struct {
	NutrientAvailabilityChanges map[string]float64 `json:"nutrient_availability_changes"`
	AcidificationPotential      Potential          `json:"acidification_potential"`
	AlkalinizationPotential     Potential          `json:"alkalinization_potential"`
	ManagementUrgency           string             `json:"management_urgency"`
	Scores                      HorizonScores      `json:"scores"`
	Ratings                     HorizonRatings     `json:"ratings"`
	Mechanisms                  []string           `json:"mechanisms"`
	Recommendations             []string           `json:"recommendations"`
	CurrentPH                   float64            `json:"current_ph"`
	ImmediateChange             float64            `json:"immediate_ph_change"`
	CumulativeChange            float64            `json:"cumulative_5yr_ph_change"`
	LongTermChange              float64            `json:"long_term_ph_change"`
	ProjectedPH                 float64            `json:"projected_ph_5yr"`
	BufferingCapacity           float64            `json:"buffering_capacity"`
	RequiresPHManagement        bool               `json:"requires_ph_management"`
}

// ProjectedAt returns the projected pH at the end of horizon h.
func (p PHEffects) ProjectedAt(h Horizon) float64 {
	switch h {
	case ShortTerm:
		return p.CurrentPH + p.ImmediateChange
	case MediumTerm:
		return p.CurrentPH + p.CumulativeChange
	default:
		return p.CurrentPH + p.LongTermChange
	}
}

// MicrobialDescriptors are the qualitative knowledge-base descriptors for soil biology.
type MicrobialDescriptors struct {
	Bacterial          string `json:"bacterial" yaml:"bacterial"`
	Fungal             string `json:"fungal" yaml:"fungal"`
	Mycorrhizal        string `json:"mycorrhizal" yaml:"mycorrhizal"`
	NitrogenFixers     string `json:"nitrogen_fixers" yaml:"nitrogen_fixers"`
	Decomposers        string `json:"decomposers" yaml:"decomposers"`
	DiseaseSuppression string `json:"disease_suppression" yaml:"disease_suppression"`
}

// MicrobialImpacts are descriptor impacts mapped to [-1, 1].
type MicrobialImpacts struct {
	Bacterial          float64 `json:"bacterial"`
	Fungal             float64 `json:"fungal"`
	Mycorrhizal        float64 `json:"mycorrhizal"`
	NitrogenFixers     float64 `json:"nitrogen_fixers"`
	Decomposers        float64 `json:"decomposers"`
	DiseaseSuppression float64 `json:"disease_suppression"`
}

// MicrobialAssessment projects shifts in the soil food web.
type MicrobialAssessment struct {
	Descriptors         MicrobialDescriptors `json:"descriptors"`
	FoodWebHealth       string               `json:"food_web_health"`
	Ratings             HorizonRatings       `json:"ratings"`
	Mechanisms          []string             `json:"mechanisms"`
	Recommendations     []string             `json:"recommendations"`
	Impacts             MicrobialImpacts     `json:"impacts"`
	DiversityMultiplier float64              `json:"diversity_multiplier"`
	DiversityScore      float64              `json:"microbial_diversity_score"`
	RecoveryMonths      int                  `json:"recovery_time_months"`
}

// StructureEvaluation projects changes in soil physical structure.
type StructureEvaluation struct {
	Compaction               string         `json:"compaction"`
	Crusting                 string         `json:"crusting"`
	Stability                StabilityClass `json:"structural_stability"`
	ErosionResistance        string         `json:"erosion_resistance"`
	Drainage                 string         `json:"drainage"`
	Aeration                 string         `json:"aeration"`
	RootPenetration          string         `json:"root_penetration"`
	Ratings                  HorizonRatings `json:"ratings"`
	ManagementPractices      []string       `json:"management_practices"`
	AmeliorationStrategies   []string       `json:"amelioration_strategies"`
	AggregateStabilityChange float64        `json:"aggregate_stability_change_percent"`
	MacroAggregateChange     float64        `json:"macro_aggregate_change_percent"`
	MicroAggregateChange     float64        `json:"micro_aggregate_change_percent"`
	BulkDensityChange        float64        `json:"bulk_density_change_g_cm3"`
	InfiltrationChange       float64        `json:"infiltration_change_percent"`
	WaterHoldingChange       float64        `json:"water_holding_change_percent"`
}

// HorizonComposite is the synthesized view of all components at one horizon.
type HorizonComposite struct {
	Rating Rating  `json:"rating"`
	Score  float64 `json:"score"`
}

// Trajectory summarizes the direction of organic matter over time.
type Trajectory string

// Trajectories.
const (
	TrajectoryImproving Trajectory = "improving"
	TrajectoryStable    Trajectory = "stable"
	TrajectoryDeclining Trajectory = "declining"
)

// Sustainability labels the long-term composite outlook.
type Sustainability string

// Sustainability labels.
const (
	Sustainable   Sustainability = "sustainable"
	Marginal      Sustainability = "marginal"
	Unsustainable Sustainability = "unsustainable"
)

// Reversibility describes how easily the plan's effects can be undone.
type Reversibility string

// Reversibility classes.
const (
	EasilyReversible    Reversibility = "easily_reversible"
	PartiallyReversible Reversibility = "partially_reversible"
)

// TemporalAnalysis aggregates the four component impacts across horizons.
type TemporalAnalysis struct {
	Trajectory            Trajectory       `json:"trajectory"`
	Sustainability        Sustainability   `json:"sustainability"`
	Reversibility         Reversibility    `json:"reversibility"`
	RecoveryTimeline      string           `json:"recovery_timeline"`
	CumulativeRisks       []string         `json:"cumulative_risks"`
	ShortTerm             HorizonComposite `json:"short_term"`
	MediumTerm            HorizonComposite `json:"medium_term"`
	LongTerm              HorizonComposite `json:"long_term"`
	CumulativeImpactScore float64          `json:"cumulative_impact_score"`
}

// CompositeAt returns the composite for h.
func (t TemporalAnalysis) CompositeAt(h Horizon) HorizonComposite {
	switch h {
	case ShortTerm:
		return t.ShortTerm
	case MediumTerm:
		return t.MediumTerm
	default:
		return t.LongTerm
	}
}
