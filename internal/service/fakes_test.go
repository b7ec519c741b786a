package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/moviediary/backend/internal/biz"
)

var testLogger = log.NewFilter(log.DefaultLogger, log.FilterLevel(log.LevelError))

type memMovieRepo struct {
	mu     sync.Mutex
	movies map[int64]*biz.Movie
	nextID int64
	err    error
}

func newMemMovieRepo(movies ...*biz.Movie) *memMovieRepo {
	r := &memMovieRepo{movies: map[int64]*biz.Movie{}}
	for _, m := range movies {
		r.movies[m.ID] = m
		if m.ID > r.nextID {
			r.nextID = m.ID
		}
	}
	return r
}

func (r *memMovieRepo) all() []*biz.Movie {
	out := make([]*biz.Movie, 0, len(r.movies))
	for _, m := range r.movies {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memMovieRepo) FindAfter(_ context.Context, cursor int64, limit int) ([]*biz.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []*biz.Movie
	for _, m := range r.all() {
		if m.ID > cursor && len(out) < limit {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMovieRepo) FindByIDs(_ context.Context, ids []int64) ([]*biz.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []*biz.Movie
	for _, id := range ids {
		if m, ok := r.movies[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMovieRepo) FindTopByPopularity(_ context.Context, limit int) ([]*biz.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := r.all()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Popularity > out[j].Popularity })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memMovieRepo) FindExternalIDsIn(_ context.Context, externalIDs []string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []string
	for _, m := range r.movies {
		for _, id := range externalIDs {
			if m.ExternalID == id {
				out = append(out, id)
			}
		}
	}
	return out, nil
}

func (r *memMovieRepo) InsertAll(_ context.Context, movies []*biz.Movie) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, m := range movies {
		r.nextID++
		m.ID = r.nextID
		r.movies[m.ID] = m
	}
	return nil
}

func (r *memMovieRepo) FindByID(_ context.Context, id int64) (*biz.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	m, ok := r.movies[id]
	if !ok {
		return nil, biz.ErrMovieNotFound
	}
	return m, nil
}

type memRankCache struct {
	mu     sync.Mutex
	scores map[int64]float64
	err    error
}

func (c *memRankCache) Increment(_ context.Context, movieID int64, delta float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.scores[movieID] += delta
	return nil
}

func (c *memRankCache) IncrementExisting(_ context.Context, movieIDs []int64, delta float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	for _, id := range movieIDs {
		if _, ok := c.scores[id]; ok {
			c.scores[id] += delta
		}
	}
	return nil
}

func (c *memRankCache) TopN(_ context.Context, n int) ([]int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	ids := make([]int64, 0, len(c.scores))
	for id := range c.scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if c.scores[ids[i]] != c.scores[ids[j]] {
			return c.scores[ids[i]] > c.scores[ids[j]]
		}
		return ids[i] > ids[j]
	})
	if len(ids) > n {
		ids = ids[:n]
	}
	return ids, nil
}

func (c *memRankCache) RangeAll(ctx context.Context) ([]int64, error) {
	return c.TopN(ctx, math.MaxInt)
}

func (c *memRankCache) ReplaceAll(_ context.Context, entries []biz.RankEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.scores = make(map[int64]float64, len(entries))
	for _, e := range entries {
		c.scores[e.MovieID] = e.Score
	}
	return nil
}

func (c *memRankCache) Clear(ctx context.Context) error {
	return c.ReplaceAll(ctx, nil)
}

type memPageCache struct {
	mu      sync.Mutex
	entries map[string][]biz.MovieProjection
	err     error
}

func (c *memPageCache) Get(_ context.Context, key string) ([]biz.MovieProjection, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, false, c.err
	}
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *memPageCache) Set(_ context.Context, key string, items []biz.MovieProjection, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.entries[key] = items
	return nil
}

type stubCatalog struct {
	discover []biz.CatalogRecord
	detail   map[string]*biz.CatalogDetail
	search   []biz.CatalogRecord
	err      error
}

func (c *stubCatalog) FetchDiscoverPage(context.Context) ([]biz.CatalogRecord, error) {
	return c.discover, c.err
}

func (c *stubCatalog) FetchDetail(_ context.Context, externalID string) (*biz.CatalogDetail, error) {
	if c.err != nil {
		return nil, c.err
	}
	d, ok := c.detail[externalID]
	if !ok {
		return nil, biz.ErrMovieNotFound
	}
	return d, nil
}

func (c *stubCatalog) Search(context.Context, biz.SearchKind, string) ([]biz.CatalogRecord, error) {
	return c.search, c.err
}

type healthFunc func(ctx context.Context) error

func (f healthFunc) Ping(ctx context.Context) error { return f(ctx) }

var errBackendDown = errors.New("connection refused")

type fixture struct {
	repo    *memMovieRepo
	rank    *memRankCache
	pages   *memPageCache
	catalog *stubCatalog
	health  error

	movies *MovieService
	admin  *AdminService
}

func newFixture(movies ...*biz.Movie) *fixture {
	f := &fixture{
		repo:    newMemMovieRepo(movies...),
		rank:    &memRankCache{scores: map[int64]float64{}},
		pages:   &memPageCache{entries: map[string][]biz.MovieProjection{}},
		catalog: &stubCatalog{},
	}
	popularity := biz.NewPopularityUseCase(f.repo, f.rank, biz.PopularityOptions{RebuildSize: 100, DecayStep: 1}, testLogger)
	catalog := biz.NewCatalogUseCase(f.repo, f.catalog, biz.CatalogOptions{ImageBaseURL: "https://img"}, testLogger)
	listing := biz.NewListingUseCase(f.repo, f.pages, popularity, catalog, biz.ListingOptions{
		PageSize:    10,
		PopularSize: 5,
		CacheTTL:    time.Hour,
	}, testLogger)
	f.movies = NewMovieService(listing, catalog, healthFunc(func(context.Context) error { return f.health }), testLogger)
	f.admin = NewAdminService(popularity, catalog, testLogger)
	return f
}

func movie(id int64, externalID, title string, popularity float64) *biz.Movie {
	return &biz.Movie{
		ID:         id,
		ExternalID: externalID,
		Title:      title,
		PosterURL:  "https://img/" + externalID + ".jpg",
		Popularity: popularity,
	}
}
