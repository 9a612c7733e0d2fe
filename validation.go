package equity

import "fmt"

// Stats counts the validation anomalies observed while normalizing and
// consolidating records.
//
// Each stage returns its own deltas and the assembler merges them; there is
// no process-wide counter state.
type Stats struct {
	UnmatchedVests       int // vests that ended with no FMV at all and were excluded
	MissingFMV           int // vests with neither a known FMV nor a resolvable price
	NegativeQuantities   int // records emitted with a negative quantity
	ZeroOrNegativePrices int // records emitted with a non-positive USD price
	CalculatedPrices     int // vests whose FMV was computed rather than supplied

	ConsolidatedRecords int // sell records absorbed into merged records
	ConsolidatedGroups  int // buckets that produced a merged record
}

// Merge adds the counters of o into s.
func (s *Stats) Merge(o Stats) {
	s.UnmatchedVests += o.UnmatchedVests
	s.MissingFMV += o.MissingFMV
	s.NegativeQuantities += o.NegativeQuantities
	s.ZeroOrNegativePrices += o.ZeroOrNegativePrices
	s.CalculatedPrices += o.CalculatedPrices
	s.ConsolidatedRecords += o.ConsolidatedRecords
	s.ConsolidatedGroups += o.ConsolidatedGroups
}

// IsClean reports whether no anomaly was observed.
func (s Stats) IsClean() bool {
	return s.UnmatchedVests == 0 && s.MissingFMV == 0 &&
		s.NegativeQuantities == 0 && s.ZeroOrNegativePrices == 0
}

// Markdown renders the validation report for terminal display.
func (s Stats) Markdown() string {
	return fmt.Sprintf(`# Validation Report

| Check | Count |
|---|---|
| Unmatched vests | %d |
| Records with missing FMV | %d |
| Records with negative quantities | %d |
| Records with zero/negative prices | %d |
| Calculated prices | %d |
| Consolidated sell records | %d |
| Consolidation groups | %d |
`,
		s.UnmatchedVests, s.MissingFMV, s.NegativeQuantities,
		s.ZeroOrNegativePrices, s.CalculatedPrices,
		s.ConsolidatedRecords, s.ConsolidatedGroups)
}
