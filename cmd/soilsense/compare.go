package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/soilsense/internal/model"
	"github.com/Veraticus/soilsense/internal/report"
	"github.com/spf13/cobra"
)

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare FILE",
		Short: "Rank candidate fertilizers on one soil",
		Long: `Assess every candidate in a YAML comparison file against the same soil and
rank them by overall soil health score.

Example file:

  field_id: north-40
  soil:
    ph: 6.2
    organic_matter_percent: 2.8
    texture: silt_loam
    test_date: 2025-03-01
  candidates:
    - {name: urea, rate: 150}
    - {name: compost, rate: 2000}`,
		Args: cobra.ExactArgs(1),
		RunE: runCompare,
	}
	cmd.Flags().Bool("save", false, "save the ranked assessments to history")
	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	var in comparisonFile
	if err := readYAML(args[0], &in); err != nil {
		return err
	}
	defaultFrequency(in.Candidates)

	ctx := cmd.Context()
	ranked, err := a.engine.CompareFertilizers(ctx, in.Candidates, in.Soil, in.Conditions)
	if err != nil {
		return err
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		store, err := a.initStorage(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		id, err := store.SaveComparison(ctx, in.FieldID, ranked)
		if err != nil {
			return fmt.Errorf("failed to save comparison: %w", err)
		}
		slog.Info("Saved comparison", "id", id, "field", in.FieldID, "candidates", len(ranked))
	}

	return render(cmd, ranked, func(p *report.Printer) { p.Rankings(ranked) })
}

// defaultFrequency treats an omitted frequency as one application per year.
func defaultFrequency(candidates []model.FertilizerCandidate) {
	for i := range candidates {
		if candidates[i].FrequencyPerYear == 0 {
			candidates[i].FrequencyPerYear = 1
		}
	}
}
