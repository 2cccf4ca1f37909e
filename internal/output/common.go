package output

// Output formats accepted by every tool.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
)

// TSVHeader is the canonical header row for text/TSV report outputs.
// Keep this as the single source of truth; all writers should use it.
const TSVHeader = "source_file\tsequence_id\tlength\tvalid\tpI\tgravy\tmolecular_weight\tnet_charge\tdisorder\tcys_count\tcys_paired\tsignal_peptide\tglyco_sites\tpopulation_score\ttriage\treasons"

// NA fills numeric columns that a report could not compute.
const NA = "NA"
