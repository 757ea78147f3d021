package main

import (
	"github.com/Veraticus/soilsense/internal/model"
	"github.com/Veraticus/soilsense/internal/report"
	"github.com/spf13/cobra"
)

func optimizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimize FILE",
		Short: "Recommend the best fertilizer for a soil health priority",
		Long: `Rank the candidates in a YAML comparison file and recommend one, weighting the
soil health score by how much it matters to you (0 = production only, 1 = soil
health first). The weight comes from --weight or priority_weights.soil_health in
the file.`,
		Args: cobra.ExactArgs(1),
		RunE: runOptimize,
	}
	cmd.Flags().Float64("weight", 1, "soil health priority weight in [0, 1]")
	return cmd
}

func runOptimize(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	var in comparisonFile
	if err := readYAML(args[0], &in); err != nil {
		return err
	}
	defaultFrequency(in.Candidates)

	weights := model.PriorityWeights{}
	weights.SoilHealth, _ = cmd.Flags().GetFloat64("weight")
	if in.Weights != nil && !cmd.Flags().Changed("weight") {
		weights = *in.Weights
	}

	payload, err := a.engine.OptimizeRecommendation(cmd.Context(), in.Candidates, in.Soil, in.Conditions, weights)
	if err != nil {
		return err
	}
	return render(cmd, payload, func(p *report.Printer) { p.Recommendation(payload) })
}
