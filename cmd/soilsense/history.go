package main

import (
	"github.com/Veraticus/soilsense/internal/model"
	"github.com/Veraticus/soilsense/internal/report"
	"github.com/Veraticus/soilsense/internal/service"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [ID]",
		Short: "Show saved assessments",
		Long: `List saved assessments, newest first, or show one assessment in full when an
ID is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistory,
	}
	cmd.Flags().String("field", "", "only assessments for this field")
	cmd.Flags().String("fertilizer", "", "only assessments of this fertilizer key")
	cmd.Flags().Int("limit", 20, "maximum number of assessments")
	cmd.Flags().Int("offset", 0, "skip this many assessments")
	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	store, err := a.initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if len(args) == 1 {
		record, err := store.GetAssessment(ctx, args[0])
		if err != nil {
			return err
		}
		return render(cmd, record, func(p *report.Printer) { p.Assessment(record.Assessment) })
	}

	var filter service.HistoryFilter
	filter.FieldID, _ = cmd.Flags().GetString("field")
	filter.FertilizerKey, _ = cmd.Flags().GetString("fertilizer")
	filter.Limit, _ = cmd.Flags().GetInt("limit")
	filter.Offset, _ = cmd.Flags().GetInt("offset")

	records, err := store.ListAssessments(ctx, filter)
	if err != nil {
		return err
	}
	if records == nil {
		records = []model.AssessmentRecord{}
	}
	return render(cmd, records, func(p *report.Printer) { p.History(records) })
}
