package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Veraticus/soilsense/internal/engine"
	"github.com/Veraticus/soilsense/internal/model"
	"github.com/Veraticus/soilsense/internal/report"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Compare fertilizers across many fields",
		Long: `Run a comparison for every field in a YAML file and report the best candidate
per field. Fields are processed in parallel; one failing field does not stop the
others.

Example file:

  fields:
    - id: north-40
      soil: {ph: 6.2, organic_matter_percent: 2.8, texture: loam, test_date: 2025-03-01}
      candidates:
        - {name: urea, rate: 150}
        - {name: compost, rate: 2000}`,
		Args: cobra.ExactArgs(1),
		RunE: runBatch,
	}
	cmd.Flags().Int("workers", engine.DefaultBatchOptions().ParallelWorkers, "fields assessed in parallel")
	cmd.Flags().Bool("no-progress", false, "disable the progress bar")
	return cmd
}

func runBatch(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	var in batchFile
	if err := readYAML(args[0], &in); err != nil {
		return err
	}
	if len(in.Fields) == 0 {
		return fmt.Errorf("%s contains no fields", args[0])
	}
	for i := range in.Fields {
		defaultFrequency(in.Fields[i].Candidates)
	}

	opts := engine.DefaultBatchOptions()
	opts.ParallelWorkers, _ = cmd.Flags().GetInt("workers")

	if quiet, _ := cmd.Flags().GetBool("no-progress"); !quiet {
		bar := progressbar.NewOptions(len(in.Fields),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowCount(),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("[green][bold]Assessing fields...[reset]"),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionOnCompletion(func() {
				_, _ = fmt.Fprintln(os.Stderr)
			}),
		)
		opts.Progress = func(engine.Field) {
			if err := bar.Add(1); err != nil {
				slog.Warn("Failed to update progress bar", "error", err)
			}
		}
	}

	results, summary := a.engine.AssessFields(cmd.Context(), in.Fields, opts)

	out := make([]batchOutput, len(results))
	for i, r := range results {
		out[i] = batchOutput{FieldID: r.Field.ID, Name: r.Field.Name, Rankings: r.Ranked}
		if r.Error != nil {
			out[i].Error = r.Error.Error()
		}
	}

	if err := render(cmd, out, func(p *report.Printer) { p.Batch(results, summary) }); err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d fields failed", summary.Failed, summary.TotalFields)
	}
	return nil
}

type batchOutput struct {
	FieldID  string                   `json:"field_id"`
	Name     string                   `json:"name,omitempty"`
	Error    string                   `json:"error,omitempty"`
	Rankings []model.RankedAssessment `json:"rankings,omitempty"`
}
