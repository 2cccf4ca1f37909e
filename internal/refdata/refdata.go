// internal/refdata/refdata.go
// Package refdata loads the read-only reference data a scoring session uses:
// population profiles, global validity parameters, the HLA table, the
// therapeutic antibody library, CDR length ranges and triage criteria.
package refdata

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"healdette/core/cdr"
	"healdette/core/coverage"
	"healdette/core/population"
	"healdette/core/residue"
	"healdette/core/similarity"
	"healdette/internal/jsonutil"
)

// Formats accepted by Decode.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// GlobalParams are the session-wide validity thresholds.
type GlobalParams struct {
	SequenceLength   population.IntRange `json:"sequence_length" yaml:"sequence_length"`
	MinWeightedScore float64             `json:"min_weighted_score" yaml:"min_weighted_score"`
}

// CDRLengths holds the per-chain CDR length windows.
type CDRLengths struct {
	Heavy cdr.LengthRanges `json:"heavy" yaml:"heavy"`
	Light cdr.LengthRanges `json:"light" yaml:"light"`
}

// Triage policy values.
const (
	SignalAllow      = "allow"
	SignalDisallow   = "disallow"
	CysPairsRequired = "required"
	CysPairsOptional = "optional"
)

// Criteria are the batch triage thresholds.
type Criteria struct {
	DisorderThreshold float64    `json:"disorder_threshold" yaml:"disorder_threshold"`
	SignalPeptide     string     `json:"signal_peptide" yaml:"signal_peptide"`
	CysPairs          string     `json:"cys_pairs" yaml:"cys_pairs"`
	GravyRange        [2]float64 `json:"gravy_range" yaml:"gravy_range"`
}

// Reference is the complete reference document.
type Reference struct {
	Populations  map[string]population.Profile `json:"populations" yaml:"populations"`
	GlobalParams GlobalParams                  `json:"global_params" yaml:"global_params"`
	HLA          coverage.Table                `json:"hla" yaml:"hla"`
	Antibodies   []similarity.Antibody         `json:"antibodies,omitempty" yaml:"antibodies,omitempty"`
	CDRLengths   CDRLengths                    `json:"cdr_lengths" yaml:"cdr_lengths"`
	Criteria     Criteria                      `json:"validation_criteria" yaml:"validation_criteria"`
}

// Default returns a Reference with every threshold at its stock value and
// no populations. Decode starts from it, so omitted keys keep these values.
func Default() Reference {
	pc := population.DefaultConfig()
	return Reference{
		GlobalParams: GlobalParams{SequenceLength: pc.Length, MinWeightedScore: pc.MinWeightedScore},
		CDRLengths:   CDRLengths{Heavy: cdr.HeavyLengths, Light: cdr.LightLengths},
		Criteria: Criteria{
			DisorderThreshold: 0.5,
			SignalPeptide:     SignalDisallow,
			CysPairs:          CysPairsRequired,
			GravyRange:        [2]float64{-1, 1},
		},
	}
}

// FormatForPath picks the decoder from the file extension.
func FormatForPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("refdata: %s: unsupported extension (want .json, .yaml or .yml)", path)
}

// Load reads and validates the reference file at path.
func Load(path string) (*Reference, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("refdata: %w", err)
	}
	defer fh.Close()
	ref, err := Decode(fh, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ref, nil
}

// Decode parses one reference document. Unknown keys are rejected.
func Decode(r io.Reader, format string) (*Reference, error) {
	ref := Default()
	switch format {
	case FormatJSON:
		if err := jsonutil.DecodeStrict(r, &ref); err != nil {
			return nil, fmt.Errorf("refdata: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&ref); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("refdata: %w", err)
		}
	default:
		return nil, fmt.Errorf("refdata: unknown format %q", format)
	}
	for id, p := range ref.Populations {
		p.ID = id
		ref.Populations[id] = p
	}
	for i := range ref.Antibodies {
		ab := &ref.Antibodies[i]
		ab.HeavyChain = residue.Normalize(ab.HeavyChain)
		ab.LightChain = residue.Normalize(ab.LightChain)
	}
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	return &ref, nil
}

// DecodeBytes is Decode over an in-memory document.
func DecodeBytes(b []byte, format string) (*Reference, error) {
	return Decode(bytes.NewReader(b), format)
}

// Validate checks ranges, frequencies, policy values and library chains.
func (r *Reference) Validate() error {
	var errs []error
	bad := func(format string, a ...any) {
		errs = append(errs, fmt.Errorf(format, a...))
	}
	for _, id := range sortedIDs(r.Populations) {
		p := r.Populations[id]
		if math.IsNaN(p.AncestryWeight) || math.IsInf(p.AncestryWeight, 0) {
			bad("population %s: ancestry_weight must be finite", id)
		}
		for m, rg := range p.BiophysicalParams {
			if rg.Min > rg.Max {
				bad("population %s: %s min %v > max %v", id, m, rg.Min, rg.Max)
			}
		}
		checkFrequencies(bad, "population "+id, p.HLAFrequencies)
	}
	for pop, loci := range r.HLA.Populations {
		checkFrequencies(bad, "hla "+pop, loci)
	}
	for _, ab := range r.Antibodies {
		if _, err := residue.Validate(ab.HeavyChain); err != nil {
			bad("antibody %s: heavy_chain: %v", ab.Name, err)
		}
		if _, err := residue.Validate(ab.LightChain); err != nil {
			bad("antibody %s: light_chain: %v", ab.Name, err)
		}
	}
	if g := r.GlobalParams.SequenceLength; g.Min > g.Max || g.Min < 0 {
		bad("global_params: sequence_length [%d, %d] is not a valid range", g.Min, g.Max)
	}
	c := r.Criteria
	switch c.SignalPeptide {
	case SignalAllow, SignalDisallow:
	default:
		bad("validation_criteria: signal_peptide %q (want %s|%s)", c.SignalPeptide, SignalAllow, SignalDisallow)
	}
	switch c.CysPairs {
	case CysPairsRequired, CysPairsOptional:
	default:
		bad("validation_criteria: cys_pairs %q (want %s|%s)", c.CysPairs, CysPairsRequired, CysPairsOptional)
	}
	if c.GravyRange[0] > c.GravyRange[1] {
		bad("validation_criteria: gravy_range %v is inverted", c.GravyRange)
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("refdata: %w", errors.Join(errs...))
}

func checkFrequencies(bad func(string, ...any), where string, loci map[string]map[string]float64) {
	for _, locus := range sortedIDs(loci) {
		for _, a := range sortedIDs(loci[locus]) {
			if f := loci[locus][a]; f < 0 || f > 1 || math.IsNaN(f) {
				bad("%s: %s %s frequency %v outside [0,1]", where, locus, a, f)
			}
		}
	}
}

func sortedIDs[V any](m map[string]V) []string {
	ids := make([]string, 0, len(m))
	for k := range m {
		ids = append(ids, k)
	}
	sort.Strings(ids)
	return ids
}

// Profiles returns the populations ordered by id.
func (r *Reference) Profiles() []population.Profile {
	out := make([]population.Profile, 0, len(r.Populations))
	for _, id := range sortedIDs(r.Populations) {
		out = append(out, r.Populations[id])
	}
	return out
}

// PopulationConfig returns the validity thresholds for population.Validate.
func (r *Reference) PopulationConfig() population.Config {
	return population.Config{
		MinWeightedScore: r.GlobalParams.MinWeightedScore,
		Length:           r.GlobalParams.SequenceLength,
	}
}

// Table merges the hla section with the hla_frequencies of profiles the
// hla section does not list.
func (r *Reference) Table() coverage.Table {
	t := coverage.Table{
		Populations:              map[string]map[string]map[string]float64{},
		PeptideLengthPreferences: r.HLA.PeptideLengthPreferences,
		Haplotypes:               r.HLA.Haplotypes,
	}
	for k, v := range coverage.FromProfiles(r.Profiles()).Populations {
		t.Populations[k] = v
	}
	for k, v := range r.HLA.Populations {
		t.Populations[k] = v
	}
	return t
}
