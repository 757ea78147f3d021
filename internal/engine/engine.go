// Package engine orchestrates the soil health assessment pipeline: knowledge base
// resolution, the four component analyzers, temporal synthesis and remediation planning.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/Veraticus/soilsense/internal/common"
	"github.com/Veraticus/soilsense/internal/impact"
	"github.com/Veraticus/soilsense/internal/knowledge"
	"github.com/Veraticus/soilsense/internal/model"
	"github.com/Veraticus/soilsense/internal/phmgmt"
	"github.com/Veraticus/soilsense/internal/remediation"
	"github.com/Veraticus/soilsense/internal/synthesis"
	"golang.org/x/sync/errgroup"
)

// Component names reported in assessment errors.
const (
	ComponentOrganicMatter = "organic_matter"
	ComponentPH            = "ph_effects"
	ComponentMicrobial     = "microbial"
	ComponentStructure     = "structure"
	ComponentTemporal      = "temporal_synthesis"
	ComponentRemediation   = "remediation"
)

// Confidence deductions for degraded input data.
const (
	baseConfidence          = 0.95
	patternMatchPenalty     = 0.05
	typeDefaultPenalty      = 0.20
	staleSoilTestPenalty    = 0.15
	missingCECPenalty       = 0.05
	unknownTexturePenalty   = 0.05
	minConfidence           = 0.1
	maxConfidence           = 1.0
	defaultStaleAfterDays   = 730
	defaultComparisonWorker = 4
)

// Clock returns the current time. Injected so assessments are reproducible.
type Clock func() time.Time

// Config holds configuration options for the assessment engine.
type Config struct {
	PH          impact.PHConfig
	Workers     int
	StaleAfter  time.Duration
	Remediation remediation.Config
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		PH:          impact.DefaultPHConfig(),
		Workers:     defaultComparisonWorker,
		StaleAfter:  defaultStaleAfterDays * 24 * time.Hour,
		Remediation: remediation.DefaultConfig(),
	}
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock sets the clock used for assessment dates and staleness checks.
func WithClock(clock Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithPHReference replaces the pH-management reference tables.
func WithPHReference(ref impact.PHReference) Option {
	return func(e *Engine) { e.ref = ref }
}

// WithConfig replaces the engine configuration.
func WithConfig(cfg Config) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// Engine runs soil health assessments. It is safe for concurrent use; all shared state
// is read-only after construction.
type Engine struct {
	kb            *knowledge.Base
	ref           impact.PHReference
	clock         Clock
	organicMatter *impact.OrganicMatterAnalyzer
	ph            *impact.PHAnalyzer
	microbial     *impact.MicrobialAssessor
	structure     *impact.StructureEvaluator
	planner       *remediation.Planner
	cfg           Config
}

// New creates an engine backed by kb.
func New(kb *knowledge.Base, opts ...Option) *Engine {
	e := &Engine{
		kb:    kb,
		ref:   phmgmt.NewReference(),
		clock: time.Now,
		cfg:   DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cfg.Workers <= 0 {
		e.cfg.Workers = 1
	}
	e.cfg.Remediation.TargetPH = e.cfg.PH.TargetPH
	e.cfg.Remediation.CriticalPHFloor = e.cfg.PH.CriticalPHFloor

	e.organicMatter = impact.NewOrganicMatterAnalyzer(kb)
	e.ph = impact.NewPHAnalyzer(e.ref, e.cfg.PH)
	e.microbial = impact.NewMicrobialAssessor(kb)
	e.structure = impact.NewStructureEvaluator(kb)
	e.planner = remediation.NewPlanner(e.cfg.Remediation)
	return e
}

// KnowledgeBase returns the knowledge base the engine resolves fertilizers against.
func (e *Engine) KnowledgeBase() *knowledge.Base {
	return e.kb
}

// Request is one fertilizer plan to assess against a soil test.
type Request struct {
	Conditions       *model.FieldConditions `json:"field_conditions,omitempty" yaml:"field_conditions"`
	Soil             model.SoilState        `json:"soil" yaml:"soil"`
	FertilizerType   model.FertilizerType   `json:"fertilizer_type" yaml:"fertilizer_type"`
	FertilizerName   string                 `json:"fertilizer_name" yaml:"fertilizer_name"`
	Texture          model.Texture          `json:"texture,omitempty" yaml:"texture"`
	Rate             float64                `json:"rate_lbs_per_acre" yaml:"rate"`
	FrequencyPerYear float64                `json:"frequency_per_year" yaml:"frequency"`
}

// Plan is the application plan described by the request.
func (r Request) Plan() model.ApplicationPlan {
	return model.ApplicationPlan{Rate: r.Rate, FrequencyPerYear: r.FrequencyPerYear, Texture: r.Texture}
}

// Validate rejects requests that cannot produce a meaningful assessment.
func (r Request) Validate() error {
	if err := r.Plan().Validate(); err != nil {
		return err
	}
	if err := r.Soil.Validate(); err != nil {
		return err
	}
	if c := r.Conditions; c != nil {
		if math.IsNaN(c.AnnualRainfallInches) || c.AnnualRainfallInches < 0 {
			return common.InvalidInputf("annual rainfall must be non-negative, got %v", c.AnnualRainfallInches)
		}
		if math.IsNaN(c.SlopePercent) || c.SlopePercent < 0 {
			return common.InvalidInputf("slope must be non-negative, got %v", c.SlopePercent)
		}
	}
	return nil
}

// AssessSoilHealthImpact assesses one fertilizer plan. Invalid input fails before any
// component runs; a failing component fails the whole assessment.
func (e *Engine) AssessSoilHealthImpact(ctx context.Context, req Request) (model.SoilHealthAssessment, error) {
	if err := req.Validate(); err != nil {
		return model.SoilHealthAssessment{}, err
	}
	if err := ctx.Err(); err != nil {
		return model.SoilHealthAssessment{}, err
	}

	res := e.kb.Lookup(req.FertilizerType, req.FertilizerName)
	in := impact.Input{
		Conditions: req.Conditions,
		Profile:    res.Profile,
		Soil:       req.Soil,
		Plan:       req.Plan(),
	}

	var (
		om        model.OrganicMatterImpact
		ph        model.PHEffects
		microbial model.MicrobialAssessment
		structure model.StructureEvaluation
	)
	var g errgroup.Group
	g.Go(component(ComponentOrganicMatter, &om, func() (model.OrganicMatterImpact, error) { return e.organicMatter.Analyze(in) }))
	g.Go(component(ComponentPH, &ph, func() (model.PHEffects, error) { return e.ph.Analyze(in) }))
	g.Go(component(ComponentMicrobial, &microbial, func() (model.MicrobialAssessment, error) { return e.microbial.Assess(in) }))
	g.Go(component(ComponentStructure, &structure, func() (model.StructureEvaluation, error) { return e.structure.Evaluate(in) }))
	if err := g.Wait(); err != nil {
		common.LogError(err, "Assessment component failed", common.Fields{"fertilizer": req.FertilizerName})
		return model.SoilHealthAssessment{}, err
	}

	now := e.clock()
	a := model.SoilHealthAssessment{
		AssessmentDate: now.UTC(),
		Fertilizer: model.FertilizerSummary{
			RequestedName: req.FertilizerName,
			Key:           res.Profile.Key,
			Name:          res.Profile.Name,
			Type:          res.Profile.Type,
			Match:         res.Match,
		},
		Soil:          req.Soil,
		Application:   in.Plan,
		OrganicMatter: om,
		PH:            ph,
		Microbial:     microbial,
		Structure:     structure,
	}

	err := guard(ComponentTemporal, func() error {
		a.Temporal = synthesis.Synthesize(synthesis.Components{
			OrganicMatter: om, PH: ph, Microbial: microbial, Structure: structure,
			Profile: res.Profile, Plan: in.Plan,
		})
		return nil
	})
	if err != nil {
		return model.SoilHealthAssessment{}, err
	}

	err = guard(ComponentRemediation, func() error {
		r := e.planner.Plan(a)
		if math.IsNaN(r.OverallScore) || math.IsInf(r.OverallScore, 0) {
			return fmt.Errorf("non-finite overall score %v", r.OverallScore)
		}
		a.OverallScore = r.OverallScore
		a.OverallRating = r.OverallRating
		a.RiskLevel = r.RiskLevel
		a.CriticalConcerns = r.CriticalConcerns
		a.PositiveImpacts = r.PositiveImpacts
		a.NegativeImpacts = r.NegativeImpacts
		a.NeutralImpacts = r.NeutralImpacts
		a.RemediationStrategies = r.RemediationStrategies
		a.MonitoringPlan = r.MonitoringPlan
		return nil
	})
	if err != nil {
		return model.SoilHealthAssessment{}, err
	}

	a.Confidence, a.DataQualityNotes = e.confidence(req, res, in.Texture(), now)

	slog.Debug("Assessed fertilizer plan",
		"fertilizer", a.DisplayName(),
		"key", res.Profile.Key,
		"match", res.Match,
		"score", a.OverallScore,
		"risk", a.RiskLevel)
	return a, nil
}

// component adapts an analyzer call into an errgroup task that stores its result in out
// and converts errors and panics into assessment errors naming the component.
func component[T any](name string, out *T, fn func() (T, error)) func() error {
	return func() error {
		return guard(name, func() error {
			v, err := fn()
			if err != nil {
				return err
			}
			*out = v
			return nil
		})
	}
}

// guard runs fn, reporting any error or panic as a failure of the named component.
func guard(name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = common.NewAssessmentError(name, fmt.Errorf("panic: %v", r))
		}
	}()
	if err := fn(); err != nil {
		return common.NewAssessmentError(name, err)
	}
	return nil
}

func (e *Engine) confidence(req Request, res knowledge.Resolution, texture model.Texture, now time.Time) (float64, []string) {
	score := baseConfidence
	notes := []string{}

	switch res.Match {
	case model.MatchPattern:
		score -= patternMatchPenalty
		notes = append(notes, fmt.Sprintf("Fertilizer %q matched the %s profile by name pattern", req.FertilizerName, res.Profile.Name))
	case model.MatchTypeDefault:
		score -= typeDefaultPenalty
		notes = append(notes, fmt.Sprintf("Fertilizer %q not found in knowledge base; using the generic %s profile", req.FertilizerName, res.Profile.Name))
	}

	if req.Soil.TestDate.IsZero() {
		score -= staleSoilTestPenalty
		notes = append(notes, "Soil test date missing; test age unknown, treat projections as if the test were stale")
	} else if age := req.Soil.AgeAt(now); e.cfg.StaleAfter > 0 && age > e.cfg.StaleAfter {
		score -= staleSoilTestPenalty
		notes = append(notes, fmt.Sprintf("Soil test from %s is %d days old; retest before relying on projections",
			req.Soil.TestDate.Format(time.DateOnly), int(age.Hours()/24)))
	}
	if req.Soil.CEC == 0 {
		score -= missingCECPenalty
		notes = append(notes, "Cation exchange capacity missing; buffering estimated from texture alone")
	}
	if _, known := e.ref.BufferingCapacity(texture); !known {
		score -= unknownTexturePenalty
		notes = append(notes, fmt.Sprintf("Soil texture %q not recognized; loam buffering assumed", texture))
	}

	score = math.Max(minConfidence, math.Min(maxConfidence, score))
	return math.Round(score*100) / 100, notes
}
