package knowledge

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"

	"github.com/Veraticus/soilsense/internal/common"
	"github.com/Veraticus/soilsense/internal/model"
	"gopkg.in/yaml.v3"
)

// Extension adds to or overrides the built-in tables. Extension patterns are tried
// before the built-in ones.
type Extension struct {
	Aliases            map[string]string                           `yaml:"aliases"`
	DecompositionRates map[model.DecompositionCategory]float64     `yaml:"decomposition_rates"`
	Microbial          map[model.MicrobialCategory]MicrobialFactor `yaml:"microbial_factors"`
	Structure          map[model.StructureCategory]StructureFactor `yaml:"structure_factors"`
	Fertilizers        []model.FertilizerProfile                   `yaml:"fertilizers"`
	Patterns           []Pattern                                   `yaml:"patterns"`
}

// Load builds a knowledge base from the built-in tables plus the extension at path.
// An empty path yields the built-in knowledge base.
func Load(path string) (*Base, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge base %s: %w", path, err)
	}

	b, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("knowledge base %s: %w", path, err)
	}

	slog.Info("Loaded knowledge base extension", "path", path, "profiles", len(b.profiles))
	return b, nil
}

// Parse builds a knowledge base from a YAML extension document.
func Parse(r io.Reader) (*Base, error) {
	var ext Extension
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&ext); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: failed to decode knowledge base: %v", common.ErrInvalidConfig, err)
	}
	return build(ext)
}

func build(ext Extension) (*Base, error) {
	b := &Base{
		profiles:           make(map[string]model.FertilizerProfile),
		aliases:            builtinAliases(),
		decompositionRates: builtinDecompositionRates(),
		microbial:          builtinMicrobialFactors(),
		structure:          builtinStructureFactors(),
	}

	for _, p := range append(builtinProfiles(), ext.Fertilizers...) {
		p.Key = model.NormalizeKey(p.Key)
		if p.Name == "" {
			p.Name = p.Key
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		b.profiles[p.Key] = p
	}

	for alias, key := range ext.Aliases {
		b.aliases[model.NormalizeKey(alias)] = model.NormalizeKey(key)
	}
	maps.Copy(b.decompositionRates, ext.DecompositionRates)
	maps.Copy(b.microbial, ext.Microbial)
	maps.Copy(b.structure, ext.Structure)

	b.patterns = make([]Pattern, 0, len(ext.Patterns)+len(builtinPatterns()))
	for _, p := range ext.Patterns {
		p.Key = model.NormalizeKey(p.Key)
		b.patterns = append(b.patterns, p)
	}
	b.patterns = append(b.patterns, builtinPatterns()...)

	if err := b.validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Base) validate() error {
	for _, key := range []string{DefaultOrganicKey, DefaultSyntheticKey} {
		if _, ok := b.profiles[key]; !ok {
			return fmt.Errorf("%w: missing fallback profile %q", common.ErrInvalidConfig, key)
		}
	}
	for alias, key := range b.aliases {
		if _, ok := b.profiles[key]; !ok {
			return fmt.Errorf("%w: alias %q targets unknown profile %q", common.ErrInvalidConfig, alias, key)
		}
	}
	for _, p := range b.patterns {
		if _, ok := b.profiles[p.Key]; !ok {
			return fmt.Errorf("%w: pattern %q targets unknown profile %q", common.ErrInvalidConfig, p.Name, p.Key)
		}
	}
	for category, rate := range b.decompositionRates {
		if rate < 0 || rate > 1 {
			return fmt.Errorf("%w: decomposition rate for %q must be within [0, 1]", common.ErrInvalidConfig, category)
		}
	}
	for category, f := range b.microbial {
		if f.DiversityMultiplier < 0 {
			return fmt.Errorf("%w: diversity multiplier for %q must be non-negative", common.ErrInvalidConfig, category)
		}
		d := f.Descriptors
		for _, desc := range []string{d.Bacterial, d.Fungal, d.Mycorrhizal, d.NitrogenFixers, d.Decomposers, d.DiseaseSuppression} {
			if !KnownDescriptor(desc) {
				return fmt.Errorf("%w: microbial category %q uses unknown descriptor %q", common.ErrInvalidConfig, category, desc)
			}
		}
	}
	for category, f := range b.structure {
		if !KnownDescriptor(f.Compaction) || !KnownDescriptor(f.Crusting) {
			return fmt.Errorf("%w: structure category %q uses an unknown descriptor", common.ErrInvalidConfig, category)
		}
	}
	return nil
}
