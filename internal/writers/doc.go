// Package writers turns reports and selections into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (pretty blocks, TSV, JSON/JSONL).
//   - Engine stays domain-only; Pipeline stays orchestration-only.
//   - JSON/JSONL go through pkg/api (v1) for a stable wire format.
package writers
