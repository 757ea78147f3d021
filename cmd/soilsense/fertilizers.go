package main

import (
	"github.com/Veraticus/soilsense/internal/report"
	"github.com/spf13/cobra"
)

func fertilizersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fertilizers",
		Short: "List the fertilizer profiles in the knowledge base",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			profiles := a.kb.Profiles()
			return render(cmd, profiles, func(p *report.Printer) { p.Fertilizers(profiles) })
		},
	}
}
