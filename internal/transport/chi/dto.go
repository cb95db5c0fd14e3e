package chi

import (
	"time"

	domlib "github.com/AndiJegeni/cuemusic/internal/domain/library"
	"github.com/AndiJegeni/cuemusic/internal/domain/search/result"
	domsound "github.com/AndiJegeni/cuemusic/internal/domain/sound"
	domusage "github.com/AndiJegeni/cuemusic/internal/domain/usage"
)

// ErrorCode is the machine-readable error code of an ErrorResponse.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest          ErrorCode = "bad_request"
	ErrorCodeValidationFailed    ErrorCode = "validation_failed"
	ErrorCodeUnauthorized        ErrorCode = "unauthorized"
	ErrorCodeForbidden           ErrorCode = "forbidden"
	ErrorCodeSoundNotFound       ErrorCode = "sound_not_found"
	ErrorCodeLibraryNotFound     ErrorCode = "library_not_found"
	ErrorCodeAlreadyExists       ErrorCode = "already_exists"
	ErrorCodeSearchQuotaExceeded ErrorCode = "search_quota_exceeded"
	ErrorCodeInternalError       ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// QuotaExceededResponse is the 402 body of a denied search.
type QuotaExceededResponse struct {
	Code       ErrorCode  `json:"code"`
	Message    string     `json:"message"`
	UpgradeURL string     `json:"upgrade_url,omitempty"`
	Used       int64      `json:"used"`
	Limit      int64      `json:"limit"`
	Remaining  int64      `json:"remaining"`
	ResetsAt   *time.Time `json:"resets_at,omitempty"`
}

// CreateSoundRequest is the body of POST /sounds. Tags accept every shape tags.Resolve knows.
type CreateSoundRequest struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	Tags      any    `json:"tags"`
	BPM       *int   `json:"bpm"`
	Key       string `json:"key"`
	LibraryID string `json:"library_id"`
}

// CreateLibraryRequest is the body of POST /libraries.
type CreateLibraryRequest struct {
	Name string `json:"name"`
}

// Sound is the JSON form of a sound.
type Sound struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	Tags       []string  `json:"tags"`
	BPM        *int      `json:"bpm,omitempty"`
	Key        *string   `json:"key,omitempty"`
	LibraryID  string    `json:"library_id"`
	CreatedAt  time.Time `json:"created_at"`
	MatchScore *float64  `json:"match_score,omitempty"`
}

// SoundListResponse is the body of GET /search.
type SoundListResponse struct {
	Items []Sound `json:"items"`
	Total int     `json:"total"`
}

// SoundCursorListResponse is the body of GET /sounds.
type SoundCursorListResponse struct {
	Items      []Sound `json:"items"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor,omitempty"`
}

// Library is the JSON form of a library.
type Library struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// LibraryListResponse is the body of GET /libraries.
type LibraryListResponse struct {
	Items []Library `json:"items"`
}

// UsageResponse is the body of GET /usage.
type UsageResponse struct {
	Period        string      `json:"period"`
	PeriodStartAt *time.Time  `json:"period_start_at,omitempty"`
	PeriodEndAt   *time.Time  `json:"period_end_at,omitempty"`
	Premium       bool        `json:"premium"`
	Usage         UsageCounts `json:"usage"`
	Budget        BudgetState `json:"budget"`
}

// UsageCounts holds the counted searches.
type UsageCounts struct {
	Searches int64 `json:"searches"`
}

// BudgetState is the search allowance of a period. A limit of 0 means unlimited.
type BudgetState struct {
	SearchesLimit     int64      `json:"searches_limit"`
	SearchesRemaining int64      `json:"searches_remaining"`
	IsExhausted       bool       `json:"is_exhausted"`
	ResetsAt          *time.Time `json:"resets_at,omitempty"`
}

// SearchCountResponse is the body of GET /users/me/search-count.
type SearchCountResponse struct {
	SearchCount int64 `json:"search_count"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	LatencyMS int64             `json:"latency_ms"`
	Version   string            `json:"version"`
}

func soundToDTO(s domsound.Sound) Sound {
	out := Sound{
		ID:        s.ID(),
		Name:      s.Name(),
		URL:       s.URL(),
		Tags:      s.Tags(),
		LibraryID: s.LibraryID(),
		CreatedAt: time.UnixMilli(s.CreatedAt()).UTC(),
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	if bpm, ok := s.BPM(); ok {
		out.BPM = &bpm
	}
	if key, ok := s.Key(); ok {
		out.Key = &key
	}
	return out
}

func hitToDTO(h result.Hit) Sound {
	out := soundToDTO(h.Sound())
	if h.Scored() {
		score := h.Score()
		out.MatchScore = &score
	}
	return out
}

func libraryToDTO(l domlib.Library) Library {
	return Library{
		ID:        l.ID(),
		Name:      l.Name(),
		UserID:    l.UserID(),
		CreatedAt: time.UnixMilli(l.CreatedAt()).UTC(),
	}
}

func usageToDTO(report domusage.Report) UsageResponse {
	b := report.Budget()
	resp := UsageResponse{
		Period:  string(report.Period()),
		Premium: report.Premium(),
		Usage:   UsageCounts{Searches: report.Metrics().Searches()},
		Budget: BudgetState{
			SearchesLimit:     b.SearchesLimit(),
			SearchesRemaining: b.SearchesRemaining(),
			IsExhausted:       b.IsExhausted(),
		},
	}
	if report.PeriodStart() > 0 {
		start := time.UnixMilli(report.PeriodStart()).UTC()
		end := time.UnixMilli(report.PeriodEnd()).UTC()
		resp.PeriodStartAt = &start
		resp.PeriodEndAt = &end
	}
	if b.ResetsAt() > 0 {
		resetsAt := time.UnixMilli(b.ResetsAt()).UTC()
		resp.Budget.ResetsAt = &resetsAt
	}
	return resp
}
