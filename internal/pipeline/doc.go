// Package pipeline streams FASTA records through a Scorer on a worker pool
// and hands reports to a visit callback in input order.
//
// The only contract to implement is Scorer (Evaluate).
// This keeps the pipeline swappable and testable.
package pipeline
