package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Veraticus/soilsense/internal/config"
	"github.com/Veraticus/soilsense/internal/engine"
	"github.com/Veraticus/soilsense/internal/knowledge"
	"github.com/Veraticus/soilsense/internal/model"
	"github.com/Veraticus/soilsense/internal/report"
	"github.com/Veraticus/soilsense/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	outputText = "text"
	outputJSON = "json"
)

// app bundles what every command needs.
type app struct {
	cfg    *config.Config
	kb     *knowledge.Base
	engine *engine.Engine
}

func loadApp() (*app, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}
	kb, err := knowledge.Load(cfg.KnowledgeBase.Path)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:    cfg,
		kb:     kb,
		engine: engine.New(kb, engine.WithConfig(cfg.EngineOptions())),
	}, nil
}

// initStorage opens and migrates the history database.
func (a *app) initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(a.cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// comparisonFile is the YAML input of compare and optimize.
type comparisonFile struct {
	Conditions *model.FieldConditions      `yaml:"field_conditions"`
	Weights    *model.PriorityWeights      `yaml:"priority_weights"`
	FieldID    string                      `yaml:"field_id"`
	Candidates []model.FertilizerCandidate `yaml:"candidates"`
	Soil       model.SoilState             `yaml:"soil"`
}

// batchFile is the YAML input of batch.
type batchFile struct {
	Fields []engine.Field `yaml:"fields"`
}

func readYAML(path string, out any) error {
	f, err := os.Open(config.ExpandPath(path))
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// render writes v as JSON or hands it to the text printer.
func render(cmd *cobra.Command, v any, text func(p *report.Printer)) error {
	switch format := viper.GetString("output"); format {
	case outputJSON:
		return writeJSON(cmd.OutOrStdout(), v)
	case outputText, "":
		text(report.NewPrinter(cmd.OutOrStdout()))
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
