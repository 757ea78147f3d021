package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/soilsense/internal/engine"
	"github.com/Veraticus/soilsense/internal/model"
	"github.com/Veraticus/soilsense/internal/report"
	"github.com/spf13/cobra"
)

func assessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Assess the soil health impact of one fertilizer plan",
		Long: `Assess how one fertilizer plan affects a soil over 1, 5 and 15 years.

The plan can be given with flags or as a YAML request file:

  soilsense assess --fertilizer urea --rate 150 --ph 6.5 --om 3 --texture loam
  soilsense assess --file plan.yaml --field north-40 --save`,
		Args: cobra.NoArgs,
		RunE: runAssess,
	}

	cmd.Flags().String("file", "", "YAML request file (overrides plan and soil flags)")
	cmd.Flags().String("fertilizer", "", "fertilizer name, e.g. urea or \"poultry manure\"")
	cmd.Flags().String("type", "", "fertilizer type (organic, synthetic)")
	cmd.Flags().Float64("rate", 0, "application rate in lbs/acre")
	cmd.Flags().Float64("frequency", 1, "applications per year")
	cmd.Flags().Float64("ph", 0, "current soil pH")
	cmd.Flags().Float64("om", 0, "current soil organic matter percent")
	cmd.Flags().Float64("cec", 0, "cation exchange capacity (meq/100g)")
	cmd.Flags().String("texture", "", "soil texture class, e.g. loam or silty_clay")
	cmd.Flags().String("drainage", "", "drainage class")
	cmd.Flags().String("test-date", "", "soil test date (YYYY-MM-DD, default today)")
	cmd.Flags().Float64("slope", 0, "field slope percent")
	cmd.Flags().Float64("rainfall", 0, "annual rainfall in inches")
	cmd.Flags().Bool("irrigated", false, "field is irrigated")
	cmd.Flags().String("field", "", "field identifier for history")
	cmd.Flags().Bool("save", false, "save the assessment to history")

	return cmd
}

func runAssess(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	req, err := assessRequestFromFlags(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	assessment, err := a.engine.AssessSoilHealthImpact(ctx, req)
	if err != nil {
		return err
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		store, err := a.initStorage(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		fieldID, _ := cmd.Flags().GetString("field")
		record := &model.AssessmentRecord{FieldID: fieldID, Assessment: assessment}
		if err := store.SaveAssessment(ctx, record); err != nil {
			return fmt.Errorf("failed to save assessment: %w", err)
		}
		slog.Info("Saved assessment", "id", record.ID, "field", fieldID)
	}

	return render(cmd, assessment, func(p *report.Printer) { p.Assessment(assessment) })
}

func assessRequestFromFlags(cmd *cobra.Command) (engine.Request, error) {
	flags := cmd.Flags()
	if path, _ := flags.GetString("file"); path != "" {
		var req engine.Request
		if err := readYAML(path, &req); err != nil {
			return engine.Request{}, err
		}
		return req, nil
	}

	req := engine.Request{Soil: model.SoilState{TestDate: time.Now()}}
	var fertilizerType, texture, drainage, testDate string
	fertilizerType, _ = flags.GetString("type")
	req.FertilizerName, _ = flags.GetString("fertilizer")
	req.Rate, _ = flags.GetFloat64("rate")
	req.FrequencyPerYear, _ = flags.GetFloat64("frequency")
	req.Soil.PH, _ = flags.GetFloat64("ph")
	req.Soil.OrganicMatterPercent, _ = flags.GetFloat64("om")
	req.Soil.CEC, _ = flags.GetFloat64("cec")
	texture, _ = flags.GetString("texture")
	drainage, _ = flags.GetString("drainage")
	testDate, _ = flags.GetString("test-date")

	if req.FertilizerName == "" && fertilizerType == "" {
		return engine.Request{}, fmt.Errorf("either --fertilizer, --type or --file is required")
	}
	req.FertilizerType = model.FertilizerType(fertilizerType)
	req.Soil.Texture = model.Texture(texture)
	req.Soil.Drainage = model.DrainageClass(drainage)

	if testDate != "" {
		t, err := time.Parse(time.DateOnly, testDate)
		if err != nil {
			return engine.Request{}, fmt.Errorf("invalid --test-date %q: %w", testDate, err)
		}
		req.Soil.TestDate = t
	}

	if flags.Changed("slope") || flags.Changed("rainfall") || flags.Changed("irrigated") {
		c := &model.FieldConditions{}
		c.SlopePercent, _ = flags.GetFloat64("slope")
		c.AnnualRainfallInches, _ = flags.GetFloat64("rainfall")
		c.Irrigated, _ = flags.GetBool("irrigated")
		req.Conditions = c
	}
	return req, nil
}
