package domain

// Diagnostic classes attached to core results. The numeric core never
// returns errors to callers: a failed computation produces a zero-valued
// result whose Diagnostic field starts with one of these classes, so
// callers can tell a valid zero from a failed calculation.
const (
	// DiagInvalidInput marks non-positive prices/balances, out-of-range
	// confidence/correlation, or non-finite inputs.
	DiagInvalidInput = "invalid_input"

	// DiagDegenerateDistribution marks zero-variance return series and
	// similar conditions in Sharpe/VaR-adjacent calculations.
	DiagDegenerateDistribution = "degenerate_distribution"

	// DiagConstraintUnsatisfiable marks constraint sets with no feasible
	// quantity, e.g. a max-loss budget below one trade unit's risk.
	DiagConstraintUnsatisfiable = "constraint_unsatisfiable"
)

// Diagnose builds a diagnostic string from a class and a detail message
func Diagnose(class, detail string) string {
	if detail == "" {
		return class
	}
	return class + ": " + detail
}
