package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/AndiJegeni/cuemusic/internal/domain"
	"github.com/AndiJegeni/cuemusic/internal/domain/identity"
	"github.com/AndiJegeni/cuemusic/internal/domain/search/query"
	"github.com/AndiJegeni/cuemusic/internal/domain/sound/tags"
	domusage "github.com/AndiJegeni/cuemusic/internal/domain/usage"
	healthuc "github.com/AndiJegeni/cuemusic/internal/usecase/health"
	sounduc "github.com/AndiJegeni/cuemusic/internal/usecase/sound"
	"github.com/AndiJegeni/cuemusic/internal/version"
)

const (
	defaultPageLimit = 20
	multipartMemory  = 8 << 20
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers of the sound API.
type Server struct {
	search        SearchService
	sounds        SoundService
	libraries     LibraryService
	usage         UsageService
	health        HealthService
	logger        *zap.Logger
	upgradeURL    string
	maxUpload     int64
	maxQueryLen   int
	errorHandlers []errorHandler
}

// Config holds the handler settings that are not services.
type Config struct {
	// UpgradeURL is returned with quota denials.
	UpgradeURL string
	// MaxUploadBytes caps POST /sounds/import bodies (0 = 32 MiB).
	MaxUploadBytes int64
	// MaxQueryLength caps the q parameter of GET /search (0 = the domain limit).
	MaxQueryLength int
}

// NewServer creates an HTTP API server.
func NewServer(
	search SearchService,
	sounds SoundService,
	libraries LibraryService,
	usage UsageService,
	health HealthService,
	logger *zap.Logger,
	cfg Config,
) *Server {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 32 << 20
	}
	s := &Server{
		search:      search,
		sounds:      sounds,
		libraries:   libraries,
		usage:       usage,
		health:      health,
		logger:      logger,
		upgradeURL:  cfg.UpgradeURL,
		maxUpload:   cfg.MaxUploadBytes,
		maxQueryLen: cfg.MaxQueryLength,
	}
	s.errorHandlers = []errorHandler{
		s.quotaExceededHandler,
		sentinelHandler(domain.ErrSoundNotFound, http.StatusNotFound, ErrorCodeSoundNotFound),
		sentinelHandler(domain.ErrLibraryNotFound, http.StatusNotFound, ErrorCodeLibraryNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, ErrorCodeAlreadyExists),
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized, ErrorCodeUnauthorized),
		sentinelHandler(domain.ErrForbidden, http.StatusForbidden, ErrorCodeForbidden),
	}
	return s
}

// Handler registers the API routes on r and returns it.
// auth resolves the caller's identity; /health and /metrics bypass it.
func Handler(s *Server, r chi.Router, auth func(http.Handler) http.Handler) http.Handler {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Group(func(r chi.Router) {
		r.Use(auth)

		r.Get("/search", s.SearchSounds)

		r.Get("/sounds", s.ListSounds)
		r.With(RequireAdmin).Post("/sounds", s.CreateSound)
		r.With(RequireAdmin).Post("/sounds/import", s.ImportSound)
		r.Get("/sounds/{id}", s.GetSound)
		r.Delete("/sounds/{id}", s.DeleteSound)

		r.Post("/library", s.GetOrCreateLibrary)
		r.Get("/libraries", s.ListLibraries)
		r.Post("/libraries", s.CreateLibrary)

		r.Get("/usage", s.GetUsage)
		r.Get("/users/me/search-count", s.GetSearchCount)
	})

	return r
}

// SearchSounds handles GET /search?q=&bpm=&key=.
func (s *Server) SearchSounds(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	var bpm int
	if params.Get("bpm") != "" {
		if err := runtime.BindQueryParameter("form", true, false, "bpm", params, &bpm); err != nil {
			writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "bpm must be an integer")
			return
		}
	}

	text := params.Get("q")
	if s.maxQueryLen > 0 && len(text) > s.maxQueryLen {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
			"q must be at most "+strconv.Itoa(s.maxQueryLen)+" bytes")
		return
	}

	q, err := query.New(text, bpm, params.Get("key"))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	ctx, stats := domain.NewContextWithSearchStats(r.Context())
	hits, err := s.search.Search(ctx, q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]Sound, len(hits))
	for i, h := range hits {
		items[i] = hitToDTO(h)
	}
	setSearchHeaders(w, stats)

	writeJSON(w, http.StatusOK, SoundListResponse{Items: items, Total: len(items)})
}

// ListSounds handles GET /sounds.
func (s *Server) ListSounds(w http.ResponseWriter, r *http.Request) {
	id := callerIdentity(r)
	params := r.URL.Query()

	limit := defaultPageLimit
	if params.Get("limit") != "" {
		if err := runtime.BindQueryParameter("form", true, false, "limit", params, &limit); err != nil || limit < 1 {
			writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "limit must be a positive integer")
			return
		}
	}

	sounds, next, err := s.sounds.List(r.Context(), id.UserID(), params.Get("cursor"), limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]Sound, len(sounds))
	for i, snd := range sounds {
		items[i] = soundToDTO(snd)
	}

	resp := SoundCursorListResponse{Items: items, HasMore: next != ""}
	if next != "" {
		resp.NextCursor = &next
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateSound handles POST /sounds.
func (s *Server) CreateSound(w http.ResponseWriter, r *http.Request) {
	var req CreateSoundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	in := sounduc.CreateInput{
		Name:      req.Name,
		URL:       req.URL,
		Tags:      tags.Resolve(req.Tags),
		Key:       req.Key,
		LibraryID: req.LibraryID,
	}
	if req.BPM != nil {
		in.BPM = *req.BPM
	}

	snd, err := s.sounds.Create(r.Context(), in)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("Location", "/sounds/"+snd.ID())
	writeJSON(w, http.StatusCreated, soundToDTO(snd))
}

// ImportSound handles POST /sounds/import (multipart: file, library_id, optional name, url, tags).
func (s *Server) ImportSound(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, ErrorCodeBadRequest, "file too large")
			return
		}
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "file is required")
		return
	}
	defer func() { _ = file.Close() }()

	snd, err := s.sounds.Import(r.Context(), file, sounduc.ImportInput{
		Filename:  header.Filename,
		Name:      r.FormValue("name"),
		URL:       r.FormValue("url"),
		Tags:      tags.FromDelimited(r.FormValue("tags")),
		LibraryID: r.FormValue("library_id"),
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("Location", "/sounds/"+snd.ID())
	writeJSON(w, http.StatusCreated, soundToDTO(snd))
}

// GetSound handles GET /sounds/{id}.
func (s *Server) GetSound(w http.ResponseWriter, r *http.Request) {
	snd, err := s.sounds.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, soundToDTO(snd))
}

// DeleteSound handles DELETE /sounds/{id}.
func (s *Server) DeleteSound(w http.ResponseWriter, r *http.Request) {
	id := callerIdentity(r)
	if err := s.sounds.Delete(r.Context(), id.UserID(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetOrCreateLibrary handles POST /library.
func (s *Server) GetOrCreateLibrary(w http.ResponseWriter, r *http.Request) {
	lib, err := s.libraries.GetOrCreateDefault(r.Context(), callerIdentity(r).UserID())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, libraryToDTO(lib))
}

// ListLibraries handles GET /libraries.
func (s *Server) ListLibraries(w http.ResponseWriter, r *http.Request) {
	libs, err := s.libraries.List(r.Context(), callerIdentity(r).UserID())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]Library, len(libs))
	for i, l := range libs {
		items[i] = libraryToDTO(l)
	}
	writeJSON(w, http.StatusOK, LibraryListResponse{Items: items})
}

// CreateLibrary handles POST /libraries.
func (s *Server) CreateLibrary(w http.ResponseWriter, r *http.Request) {
	var req CreateLibraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "Library name is required")
		return
	}

	lib, err := s.libraries.Create(r.Context(), callerIdentity(r).UserID(), req.Name)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, libraryToDTO(lib))
}

// GetUsage handles GET /usage?period=day|month|total.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	period := domusage.PeriodMonth
	if raw := r.URL.Query().Get("period"); raw != "" {
		var p string
		if err := runtime.BindQueryParameter("form", true, false, "period", r.URL.Query(), &p); err != nil {
			writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid period")
			return
		}
		period = domusage.Period(p)
		if !period.IsValid() {
			writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "period must be one of day, month, total")
			return
		}
	}

	report := s.usage.GetReport(r.Context(), callerIdentity(r), period)
	writeJSON(w, http.StatusOK, usageToDTO(report))
}

// GetSearchCount handles GET /users/me/search-count.
func (s *Server) GetSearchCount(w http.ResponseWriter, r *http.Request) {
	n := s.usage.SearchCount(r.Context(), callerIdentity(r))
	writeJSON(w, http.StatusOK, SearchCountResponse{SearchCount: n})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	// A degraded service still serves search and reads.
	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:    string(report.Status),
		Checks:    checks,
		LatencyMS: report.Latency.Milliseconds(),
		Version:   version.Version,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func callerIdentity(r *http.Request) identity.Identity {
	if id, ok := identity.FromContext(r.Context()); ok {
		return id
	}
	return identity.Anonymous
}

func setSearchHeaders(w http.ResponseWriter, stats *domain.SearchStats) {
	if stats == nil || !stats.Used {
		return
	}
	w.Header().Set("X-Search-Candidates", strconv.Itoa(stats.Candidates))
	if stats.QuotaRemaining >= 0 {
		w.Header().Set("X-Quota-Remaining", strconv.FormatInt(stats.QuotaRemaining, 10))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
// Validation errors keep their detail: it describes the caller's own input.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidInput) {
		return err.Error()
	}
	sentinels := []error{
		domain.ErrSoundNotFound,
		domain.ErrLibraryNotFound,
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
		domain.ErrUnauthorized,
		domain.ErrForbidden,
		domain.ErrSearchQuotaExceeded,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// quotaExceededHandler answers a denied search with 402 and the upgrade prompt.
func (s *Server) quotaExceededHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrSearchQuotaExceeded) {
		return false
	}
	resp := QuotaExceededResponse{
		Code:       ErrorCodeSearchQuotaExceeded,
		Message:    "You have used all your free searches. Upgrade to keep searching.",
		UpgradeURL: s.upgradeURL,
	}
	var qe *domain.QuotaExceededError
	if errors.As(err, &qe) {
		resp.Used = qe.Used
		resp.Limit = qe.Limit
		resp.Remaining = max(qe.Limit-qe.Used, 0)
		if qe.ResetsAt > 0 {
			t := time.UnixMilli(qe.ResetsAt).UTC()
			resp.ResetsAt = &t
		}
	}
	writeJSON(w, http.StatusPaymentRequired, resp)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.logger.With(zap.String("request_id", middleware.GetReqID(r.Context())))
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
