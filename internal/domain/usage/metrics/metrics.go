package metrics

// Metrics holds search usage for a time period.
type Metrics struct {
	searches int64
}

// New creates a Metrics snapshot.
func New(searches int64) Metrics {
	return Metrics{searches: searches}
}

// Searches returns the number of counted searches.
func (m Metrics) Searches() int64 { return m.searches }
