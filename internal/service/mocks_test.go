package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"mediashelf/internal/model"
	"mediashelf/internal/tmdb"
)

// Function-field mocks: each test sets just the behavior it needs. Methods
// without an override return the not-found sentinel or a zero value.

type mockUserRepository struct {
	createFn        func(ctx context.Context, tx *sqlx.Tx, user *model.User) error
	getByIDFn       func(ctx context.Context, id int64) (*model.User, error)
	getByEmailFn    func(ctx context.Context, email string) (*model.User, error)
	getByUsernameFn func(ctx context.Context, username string) (*model.User, error)
	existsByEmailFn func(ctx context.Context, email string) (bool, error)
	updateFn        func(ctx context.Context, user *model.User) error
	updatePassFn    func(ctx context.Context, email, passwordHashed string) error
	updateAvatarFn  func(ctx context.Context, id int64, avatar string) error
	deleteFn        func(ctx context.Context, id int64) error

	createCalls []*model.User
}

func (m *mockUserRepository) Create(ctx context.Context, tx *sqlx.Tx, user *model.User) error {
	m.createCalls = append(m.createCalls, user)
	if m.createFn != nil {
		return m.createFn(ctx, tx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsByEmailFn != nil {
		return m.existsByEmailFn(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepository) Update(ctx context.Context, user *model.User) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, email, passwordHashed string) error {
	if m.updatePassFn != nil {
		return m.updatePassFn(ctx, email, passwordHashed)
	}
	return nil
}

func (m *mockUserRepository) UpdateAvatar(ctx context.Context, id int64, avatar string) error {
	if m.updateAvatarFn != nil {
		return m.updateAvatarFn(ctx, id, avatar)
	}
	return nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockListRepository struct {
	createFn    func(ctx context.Context, tx *sqlx.Tx, list *model.List) error
	getByIDFn   func(ctx context.Context, id int64) (*model.List, error)
	getByUserFn func(ctx context.Context, userID int64) ([]model.List, error)
	updateFn    func(ctx context.Context, id int64, title, description *string) (*model.List, error)
	deleteFn    func(ctx context.Context, tx *sqlx.Tx, id int64) error

	createCalls []*model.List
	deleteCalls []int64
}

func (m *mockListRepository) Create(ctx context.Context, tx *sqlx.Tx, list *model.List) error {
	m.createCalls = append(m.createCalls, list)
	if m.createFn != nil {
		return m.createFn(ctx, tx, list)
	}
	list.ID = int64(len(m.createCalls))
	return nil
}

func (m *mockListRepository) GetByID(ctx context.Context, id int64) (*model.List, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrListNotFound
}

func (m *mockListRepository) GetByUser(ctx context.Context, userID int64) ([]model.List, error) {
	if m.getByUserFn != nil {
		return m.getByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockListRepository) Update(ctx context.Context, id int64, title, description *string) (*model.List, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, title, description)
	}
	return nil, model.ErrListNotFound
}

func (m *mockListRepository) Delete(ctx context.Context, tx *sqlx.Tx, id int64) error {
	m.deleteCalls = append(m.deleteCalls, id)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, tx, id)
	}
	return nil
}

type mockMediaRepository struct {
	createFn             func(ctx context.Context, media *model.Media) error
	getByIDFn            func(ctx context.Context, id int64) (*model.Media, error)
	getByListAndTmdbIDFn func(ctx context.Context, listID, tmdbID int64) (*model.Media, error)
	getPageByListFn      func(ctx context.Context, listID int64, offset, limit int) ([]model.Media, error)
	countByListFn        func(ctx context.Context, listID int64) (int, error)
	updateFn             func(ctx context.Context, media *model.Media) error
	deleteFn             func(ctx context.Context, id int64) error
	deleteByListFn       func(ctx context.Context, tx *sqlx.Tx, listID int64) error
	getLatestByTypeFn    func(ctx context.Context, userID int64, mediaType string, limit int) ([]model.Media, error)
	countsByTypeFn       func(ctx context.Context, listID int64) (map[string]int, error)
	ratedCountsByTypeFn  func(ctx context.Context, userID int64) (map[string]int, error)
	averageRatingFn      func(ctx context.Context, userID int64) (float64, error)
	mostRatedListIDFn    func(ctx context.Context, userID int64) (int64, bool, error)

	deleteCalls       []int64
	deleteByListCalls []int64
}

func (m *mockMediaRepository) Create(ctx context.Context, media *model.Media) error {
	if m.createFn != nil {
		return m.createFn(ctx, media)
	}
	return nil
}

func (m *mockMediaRepository) GetByID(ctx context.Context, id int64) (*model.Media, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrMediaNotFound
}

func (m *mockMediaRepository) GetByListAndTmdbID(ctx context.Context, listID, tmdbID int64) (*model.Media, error) {
	if m.getByListAndTmdbIDFn != nil {
		return m.getByListAndTmdbIDFn(ctx, listID, tmdbID)
	}
	return nil, model.ErrMediaNotFound
}

func (m *mockMediaRepository) GetPageByList(ctx context.Context, listID int64, offset, limit int) ([]model.Media, error) {
	if m.getPageByListFn != nil {
		return m.getPageByListFn(ctx, listID, offset, limit)
	}
	return nil, nil
}

func (m *mockMediaRepository) CountByList(ctx context.Context, listID int64) (int, error) {
	if m.countByListFn != nil {
		return m.countByListFn(ctx, listID)
	}
	return 0, nil
}

func (m *mockMediaRepository) Update(ctx context.Context, media *model.Media) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, media)
	}
	return nil
}

func (m *mockMediaRepository) Delete(ctx context.Context, id int64) error {
	m.deleteCalls = append(m.deleteCalls, id)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockMediaRepository) DeleteByList(ctx context.Context, tx *sqlx.Tx, listID int64) error {
	m.deleteByListCalls = append(m.deleteByListCalls, listID)
	if m.deleteByListFn != nil {
		return m.deleteByListFn(ctx, tx, listID)
	}
	return nil
}

func (m *mockMediaRepository) GetLatestByType(ctx context.Context, userID int64, mediaType string, limit int) ([]model.Media, error) {
	if m.getLatestByTypeFn != nil {
		return m.getLatestByTypeFn(ctx, userID, mediaType, limit)
	}
	return nil, nil
}

func (m *mockMediaRepository) CountsByType(ctx context.Context, listID int64) (map[string]int, error) {
	if m.countsByTypeFn != nil {
		return m.countsByTypeFn(ctx, listID)
	}
	return map[string]int{}, nil
}

func (m *mockMediaRepository) RatedCountsByType(ctx context.Context, userID int64) (map[string]int, error) {
	if m.ratedCountsByTypeFn != nil {
		return m.ratedCountsByTypeFn(ctx, userID)
	}
	return map[string]int{}, nil
}

func (m *mockMediaRepository) AverageRating(ctx context.Context, userID int64) (float64, error) {
	if m.averageRatingFn != nil {
		return m.averageRatingFn(ctx, userID)
	}
	return 0, nil
}

func (m *mockMediaRepository) MostRatedListID(ctx context.Context, userID int64) (int64, bool, error) {
	if m.mostRatedListIDFn != nil {
		return m.mostRatedListIDFn(ctx, userID)
	}
	return 0, false, nil
}

type mockMetadataClient struct {
	detailsFn    func(ctx context.Context, mediaType string, id int64) (*tmdb.Details, error)
	trailerKeyFn func(ctx context.Context, mediaType string, id int64) (string, error)
	creditsFn    func(ctx context.Context, mediaType string, id int64) (*tmdb.Credits, error)
}

func (m *mockMetadataClient) Details(ctx context.Context, mediaType string, id int64) (*tmdb.Details, error) {
	if m.detailsFn != nil {
		return m.detailsFn(ctx, mediaType, id)
	}
	return &tmdb.Details{ID: id}, nil
}

func (m *mockMetadataClient) TrailerKey(ctx context.Context, mediaType string, id int64) (string, error) {
	if m.trailerKeyFn != nil {
		return m.trailerKeyFn(ctx, mediaType, id)
	}
	return "", nil
}

func (m *mockMetadataClient) Credits(ctx context.Context, mediaType string, id int64) (*tmdb.Credits, error) {
	if m.creditsFn != nil {
		return m.creditsFn(ctx, mediaType, id)
	}
	return &tmdb.Credits{}, nil
}

type mockCatalogClient struct {
	mockMetadataClient

	popularMoviesFn    func(ctx context.Context, page int) (*tmdb.Page, error)
	nowPlayingMoviesFn func(ctx context.Context) (*tmdb.Page, error)
	topRatedTVFn       func(ctx context.Context) (*tmdb.Page, error)
	discoverMoviesFn   func(ctx context.Context, q tmdb.DiscoverQuery) (*tmdb.Page, error)
	searchMultiFn      func(ctx context.Context, query string) ([]tmdb.Summary, error)
	movieGenresFn      func(ctx context.Context) (map[string]int64, error)
}

func (m *mockCatalogClient) PopularMovies(ctx context.Context, page int) (*tmdb.Page, error) {
	if m.popularMoviesFn != nil {
		return m.popularMoviesFn(ctx, page)
	}
	return &tmdb.Page{Page: page}, nil
}

func (m *mockCatalogClient) NowPlayingMovies(ctx context.Context) (*tmdb.Page, error) {
	if m.nowPlayingMoviesFn != nil {
		return m.nowPlayingMoviesFn(ctx)
	}
	return &tmdb.Page{Page: 1}, nil
}

func (m *mockCatalogClient) TopRatedTV(ctx context.Context) (*tmdb.Page, error) {
	if m.topRatedTVFn != nil {
		return m.topRatedTVFn(ctx)
	}
	return &tmdb.Page{Page: 1}, nil
}

func (m *mockCatalogClient) DiscoverMovies(ctx context.Context, q tmdb.DiscoverQuery) (*tmdb.Page, error) {
	if m.discoverMoviesFn != nil {
		return m.discoverMoviesFn(ctx, q)
	}
	return &tmdb.Page{Page: 1}, nil
}

func (m *mockCatalogClient) SearchMulti(ctx context.Context, query string) ([]tmdb.Summary, error) {
	if m.searchMultiFn != nil {
		return m.searchMultiFn(ctx, query)
	}
	return nil, nil
}

func (m *mockCatalogClient) MovieGenres(ctx context.Context) (map[string]int64, error) {
	if m.movieGenresFn != nil {
		return m.movieGenresFn(ctx)
	}
	return map[string]int64{}, nil
}

// newTestDB backs transactional code paths with sqlmock.
func newTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

// testEnricher builds an enricher over the given client with a fresh gate.
func testEnricher(client MetadataClient) *Enricher {
	return NewEnricher(client, tmdb.NewGate(4))
}
