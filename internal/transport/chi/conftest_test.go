package chi

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/AndiJegeni/cuemusic/internal/domain"
	"github.com/AndiJegeni/cuemusic/internal/domain/identity"
	domlib "github.com/AndiJegeni/cuemusic/internal/domain/library"
	"github.com/AndiJegeni/cuemusic/internal/domain/search/query"
	"github.com/AndiJegeni/cuemusic/internal/domain/search/result"
	domsound "github.com/AndiJegeni/cuemusic/internal/domain/sound"
	domusage "github.com/AndiJegeni/cuemusic/internal/domain/usage"
	"github.com/AndiJegeni/cuemusic/internal/domain/usage/budget"
	"github.com/AndiJegeni/cuemusic/internal/domain/usage/metrics"
	healthuc "github.com/AndiJegeni/cuemusic/internal/usecase/health"
	sounduc "github.com/AndiJegeni/cuemusic/internal/usecase/sound"
)

type mockSearch struct {
	searchFn func(ctx context.Context, q query.Query) ([]result.Hit, error)
}

func (m *mockSearch) Search(ctx context.Context, q query.Query) ([]result.Hit, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return []result.Hit{}, nil
}

type mockSounds struct {
	createFn func(ctx context.Context, in sounduc.CreateInput) (domsound.Sound, error)
	importFn func(ctx context.Context, r io.Reader, in sounduc.ImportInput) (domsound.Sound, error)
	getFn    func(ctx context.Context, id string) (domsound.Sound, error)
	listFn   func(ctx context.Context, userID, cursor string, limit int) ([]domsound.Sound, string, error)
	deleteFn func(ctx context.Context, userID, id string) error
}

func (m *mockSounds) Create(ctx context.Context, in sounduc.CreateInput) (domsound.Sound, error) {
	if m.createFn != nil {
		return m.createFn(ctx, in)
	}
	return domsound.Sound{}, nil
}

func (m *mockSounds) Import(ctx context.Context, r io.Reader, in sounduc.ImportInput) (domsound.Sound, error) {
	if m.importFn != nil {
		return m.importFn(ctx, r, in)
	}
	return domsound.Sound{}, nil
}

func (m *mockSounds) Get(ctx context.Context, id string) (domsound.Sound, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return domsound.Sound{}, domain.ErrSoundNotFound
}

func (m *mockSounds) List(ctx context.Context, userID, cursor string, limit int) ([]domsound.Sound, string, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, cursor, limit)
	}
	return nil, "", nil
}

func (m *mockSounds) Delete(ctx context.Context, userID, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, id)
	}
	return nil
}

type mockLibraries struct {
	defaultFn func(ctx context.Context, userID string) (domlib.Library, error)
	createFn  func(ctx context.Context, userID, name string) (domlib.Library, error)
	listFn    func(ctx context.Context, userID string) ([]domlib.Library, error)
}

func (m *mockLibraries) GetOrCreateDefault(ctx context.Context, userID string) (domlib.Library, error) {
	if m.defaultFn != nil {
		return m.defaultFn(ctx, userID)
	}
	return domlib.Reconstruct("lib-"+userID, domlib.DefaultName, userID, 1), nil
}

func (m *mockLibraries) Create(ctx context.Context, userID, name string) (domlib.Library, error) {
	if m.createFn != nil {
		return m.createFn(ctx, userID, name)
	}
	return domlib.Reconstruct("lib-new", name, userID, 2), nil
}

func (m *mockLibraries) List(ctx context.Context, userID string) ([]domlib.Library, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return nil, nil
}

type mockUsage struct {
	count int64
}

func (m *mockUsage) GetReport(_ context.Context, id identity.Identity, period domusage.Period) domusage.Report {
	return domusage.NewReport(period, 1000, 2000, id.UserID(), id.IsPremium(),
		metrics.New(m.count), budget.New(15, 15-m.count, m.count >= 15, 2000))
}

func (m *mockUsage) SearchCount(_ context.Context, _ identity.Identity) int64 {
	return m.count
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report {
	return m.report
}

type testEnv struct {
	search    *mockSearch
	sounds    *mockSounds
	libraries *mockLibraries
	usage     *mockUsage
	health    *mockHealth
	handler   http.Handler
}

// newTestEnv wires the router with auth disabled (local admin) unless principals are given.
func newTestEnv(t *testing.T, principals ...Principal) *testEnv {
	t.Helper()
	env := &testEnv{
		search:    &mockSearch{},
		sounds:    &mockSounds{},
		libraries: &mockLibraries{},
		usage:     &mockUsage{},
		health: &mockHealth{report: healthuc.Report{
			Status: healthuc.Healthy,
			Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckOK},
		}},
	}
	srv := NewServer(env.search, env.sounds, env.libraries, env.usage, env.health, zap.NewNop(), Config{
		UpgradeURL:     "https://cuemusic.example/upgrade",
		MaxUploadBytes: 1 << 20,
		MaxQueryLength: 64,
	})
	env.handler = Handler(srv, chi.NewRouter(), BearerAuthMiddleware(principals, []string{"admin@example.com"}))
	return env
}

func testSound(t *testing.T, id string, bpm int, key string) domsound.Sound {
	t.Helper()
	s, err := domsound.New(id, "Sound "+id, "https://cdn.example/"+id+".wav",
		[]string{"drums", "kick"}, bpm, key, "lib-anonymous", 1700000000000)
	if err != nil {
		t.Fatalf("build sound: %v", err)
	}
	return s
}
