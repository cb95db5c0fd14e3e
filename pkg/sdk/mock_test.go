package cuemusic

import (
	"context"
	"io"

	"github.com/AndiJegeni/cuemusic/internal/domain/identity"
	domlib "github.com/AndiJegeni/cuemusic/internal/domain/library"
	"github.com/AndiJegeni/cuemusic/internal/domain/search/query"
	"github.com/AndiJegeni/cuemusic/internal/domain/search/result"
	domsound "github.com/AndiJegeni/cuemusic/internal/domain/sound"
	domusage "github.com/AndiJegeni/cuemusic/internal/domain/usage"
	healthuc "github.com/AndiJegeni/cuemusic/internal/usecase/health"
	sounduc "github.com/AndiJegeni/cuemusic/internal/usecase/sound"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, q query.Query) ([]result.Hit, error)
}

func (m *mockSearchUC) Search(ctx context.Context, q query.Query) ([]result.Hit, error) {
	return m.searchFn(ctx, q)
}

// --- soundUseCase mock ---

type mockSoundUC struct {
	createFn func(ctx context.Context, in sounduc.CreateInput) (domsound.Sound, error)
	importFn func(ctx context.Context, r io.Reader, in sounduc.ImportInput) (domsound.Sound, error)
	getFn    func(ctx context.Context, id string) (domsound.Sound, error)
	listFn   func(ctx context.Context, userID, cursor string, limit int) ([]domsound.Sound, string, error)
	deleteFn func(ctx context.Context, userID, id string) error
}

func (m *mockSoundUC) Create(ctx context.Context, in sounduc.CreateInput) (domsound.Sound, error) {
	return m.createFn(ctx, in)
}

func (m *mockSoundUC) Import(ctx context.Context, r io.Reader, in sounduc.ImportInput) (domsound.Sound, error) {
	return m.importFn(ctx, r, in)
}

func (m *mockSoundUC) Get(ctx context.Context, id string) (domsound.Sound, error) {
	return m.getFn(ctx, id)
}

func (m *mockSoundUC) List(
	ctx context.Context, userID, cursor string, limit int,
) ([]domsound.Sound, string, error) {
	return m.listFn(ctx, userID, cursor, limit)
}

func (m *mockSoundUC) Delete(ctx context.Context, userID, id string) error {
	return m.deleteFn(ctx, userID, id)
}

// --- libraryUseCase mock ---

type mockLibraryUC struct {
	defaultFn func(ctx context.Context, userID string) (domlib.Library, error)
	createFn  func(ctx context.Context, userID, name string) (domlib.Library, error)
	getFn     func(ctx context.Context, id string) (domlib.Library, error)
	listFn    func(ctx context.Context, userID string) ([]domlib.Library, error)
}

func (m *mockLibraryUC) GetOrCreateDefault(ctx context.Context, userID string) (domlib.Library, error) {
	return m.defaultFn(ctx, userID)
}

func (m *mockLibraryUC) Create(ctx context.Context, userID, name string) (domlib.Library, error) {
	return m.createFn(ctx, userID, name)
}

func (m *mockLibraryUC) Get(ctx context.Context, id string) (domlib.Library, error) {
	return m.getFn(ctx, id)
}

func (m *mockLibraryUC) List(ctx context.Context, userID string) ([]domlib.Library, error) {
	return m.listFn(ctx, userID)
}

// --- usageUseCase mock ---

type mockUsageUC struct {
	reportFn func(ctx context.Context, id identity.Identity, period domusage.Period) domusage.Report
	countFn  func(ctx context.Context, id identity.Identity) int64
}

func (m *mockUsageUC) GetReport(
	ctx context.Context, id identity.Identity, period domusage.Period,
) domusage.Report {
	return m.reportFn(ctx, id, period)
}

func (m *mockUsageUC) SearchCount(ctx context.Context, id identity.Identity) int64 {
	return m.countFn(ctx, id)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report {
	return m.report
}
