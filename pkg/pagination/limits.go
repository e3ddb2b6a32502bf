package pagination

const (
	MaxLimit     = 100
	DefaultLimit = 10
)

// NormalizeLimit clamps a requested page size into [1, MaxLimit],
// falling back to DefaultLimit for zero or negative values.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// PageQuery is the query-string form of a page request.
type PageQuery struct {
	Limit     int    `form:"limit"`
	Cursor    string `form:"cursor"`
	Direction string `form:"direction"`
}

// Normalize clamps the requested limit into [1, max], falling back to
// def when the limit is unset. Non-positive bounds fall back to the
// package defaults.
func (q *PageQuery) Normalize(def, max int) {
	if def <= 0 {
		def = DefaultLimit
	}
	if max <= 0 {
		max = MaxLimit
	}
	if q.Limit <= 0 {
		q.Limit = def
	}
	if q.Limit > max {
		q.Limit = max
	}
}
