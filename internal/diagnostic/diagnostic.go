package diagnostic

// Severity classifies a Diagnostic. Only Error is produced by this package
// today; Warning exists so callers (and the CLI) have somewhere to grow
// without another breaking change to the Diagnostic shape.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Diagnostic is one entry in validate_rules' result list. Err is the
// underlying ValidationError (or, for the undefined-rule-call pass, a plain
// error) that produced it.
type Diagnostic struct {
	Severity Severity
	Err      error
}

func (d Diagnostic) Error() string {
	return d.Err.Error()
}

// New wraps err as an Error-severity Diagnostic.
func New(err error) Diagnostic {
	return Diagnostic{Severity: Error, Err: err}
}

// Aggregator collects diagnostics in the order they are produced. Source
// validation iterates rules and rule types in insertion order (see
// SPEC_FULL.md's resolution of the determinism open question), so the
// resulting list is itself deterministic.
type Aggregator struct {
	diagnostics []Diagnostic
}

// Add appends a diagnostic.
func (a *Aggregator) Add(d Diagnostic) {
	a.diagnostics = append(a.diagnostics, d)
}

// AddError wraps err and appends it.
func (a *Aggregator) AddError(err error) {
	a.Add(New(err))
}

// Diagnostics returns the collected diagnostics in insertion order.
func (a *Aggregator) Diagnostics() []Diagnostic {
	return a.diagnostics
}

// Empty reports whether no diagnostics have been collected.
func (a *Aggregator) Empty() bool {
	return len(a.diagnostics) == 0
}
