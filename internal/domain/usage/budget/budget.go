package budget

// Budget is a snapshot of a user's search allowance.
type Budget struct {
	searchesLimit     int64 // 0 = unlimited
	searchesRemaining int64 // -1 = unlimited
	isExhausted       bool
	resetsAt          int64 // unix millis, converted to ISO 8601 at transport layer
}

// New creates a Budget snapshot.
func New(limit, remaining int64, isExhausted bool, resetsAt int64) Budget {
	return Budget{
		searchesLimit:     limit,
		searchesRemaining: remaining,
		isExhausted:       isExhausted,
		resetsAt:          resetsAt,
	}
}

// SearchesLimit returns the search cap (0 = unlimited).
func (b Budget) SearchesLimit() int64 { return b.searchesLimit }

// SearchesRemaining returns searches left (-1 = unlimited).
func (b Budget) SearchesRemaining() int64 { return b.searchesRemaining }

// IsUnlimited reports whether no cap applies.
func (b Budget) IsUnlimited() bool { return b.searchesRemaining < 0 }

// IsExhausted reports whether the allowance is spent.
func (b Budget) IsExhausted() bool { return b.isExhausted }

// ResetsAt returns the reset timestamp (unix millis).
func (b Budget) ResetsAt() int64 { return b.resetsAt }
