package biz

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/go-kratos/kratos/v2/log"
)

var testLogger = log.NewFilter(log.DefaultLogger, log.FilterLevel(log.LevelError))

type fakeMovieRepo struct {
	mu      sync.Mutex
	movies  []*Movie
	nextID  int64
	inserts int
	err     error
}

func newFakeMovieRepo(movies ...*Movie) *fakeMovieRepo {
	r := &fakeMovieRepo{}
	for _, m := range movies {
		if m.ID > r.nextID {
			r.nextID = m.ID
		}
		r.movies = append(r.movies, m)
	}
	return r
}

func (r *fakeMovieRepo) FindAfter(_ context.Context, cursor int64, limit int) ([]*Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []*Movie
	for _, m := range r.sorted() {
		if m.ID > cursor && len(out) < limit {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMovieRepo) FindByIDs(_ context.Context, ids []int64) ([]*Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []*Movie
	// reverse id order so callers cannot rely on it
	sorted := r.sorted()
	for i := len(sorted) - 1; i >= 0; i-- {
		if want[sorted[i].ID] {
			out = append(out, sorted[i])
		}
	}
	return out, nil
}

func (r *fakeMovieRepo) FindTopByPopularity(_ context.Context, limit int) ([]*Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := append([]*Movie(nil), r.movies...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Popularity > out[j].Popularity })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeMovieRepo) FindExternalIDsIn(_ context.Context, externalIDs []string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	have := make(map[string]bool, len(r.movies))
	for _, m := range r.movies {
		have[m.ExternalID] = true
	}
	var out []string
	for _, id := range externalIDs {
		if have[id] {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *fakeMovieRepo) InsertAll(_ context.Context, movies []*Movie) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	have := make(map[string]bool, len(r.movies))
	for _, m := range r.movies {
		have[m.ExternalID] = true
	}
	for _, m := range movies {
		if have[m.ExternalID] {
			return ErrDuplicateExternalID
		}
		have[m.ExternalID] = true
	}
	for _, m := range movies {
		r.nextID++
		m.ID = r.nextID
		r.movies = append(r.movies, m)
	}
	r.inserts++
	return nil
}

func (r *fakeMovieRepo) FindByID(_ context.Context, id int64) (*Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, m := range r.movies {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, ErrMovieNotFound
}

func (r *fakeMovieRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.movies)
}

func (r *fakeMovieRepo) sorted() []*Movie {
	out := append([]*Movie(nil), r.movies...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// fakeRankCache orders ties by the decimal member string, as Redis does.
type fakeRankCache struct {
	mu     sync.Mutex
	scores map[int64]float64
	err    error
}

func newFakeRankCache() *fakeRankCache {
	return &fakeRankCache{scores: map[int64]float64{}}
}

func (c *fakeRankCache) Increment(_ context.Context, movieID int64, delta float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.scores[movieID] += delta
	return nil
}

func (c *fakeRankCache) IncrementExisting(_ context.Context, movieIDs []int64, delta float64) error {
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

func (c *fakeRankCache) TopN(_ context.Context, n int) ([]int64, error) {
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
		si, sj := c.scores[ids[i]], c.scores[ids[j]]
		if si != sj {
			return si > sj
		}
		return strconv.FormatInt(ids[i], 10) > strconv.FormatInt(ids[j], 10)
	})
	if len(ids) > n {
		ids = ids[:n]
	}
	return ids, nil
}

func (c *fakeRankCache) RangeAll(_ context.Context) ([]int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	ids := make([]int64, 0, len(c.scores))
	for id := range c.scores {
		ids = append(ids, id)
	}
	return ids, nil
}

func (c *fakeRankCache) ReplaceAll(_ context.Context, entries []RankEntry) error {
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

func (c *fakeRankCache) Clear(_ context.Context) error {
	return c.ReplaceAll(context.Background(), nil)
}

func (c *fakeRankCache) score(id int64) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.scores[id]
	return s, ok
}

type fakePageCache struct {
	mu      sync.Mutex
	entries map[string][]MovieProjection
	ttls    map[string]time.Duration
	err     error
}

func newFakePageCache() *fakePageCache {
	return &fakePageCache{
		entries: map[string][]MovieProjection{},
		ttls:    map[string]time.Duration{},
	}
}

func (c *fakePageCache) Get(_ context.Context, key string) ([]MovieProjection, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, false, c.err
	}
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *fakePageCache) Set(_ context.Context, key string, items []MovieProjection, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.entries[key] = append([]MovieProjection(nil), items...)
	c.ttls[key] = ttl
	return nil
}

// expire drops every entry, standing in for TTL expiry.
func (c *fakePageCache) expire() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string][]MovieProjection{}
}

type fakeCatalogClient struct {
	mu        sync.Mutex
	discover  []CatalogRecord
	detail    map[string]*CatalogDetail
	search    []CatalogRecord
	err       error
	calls     int
	lastKind  SearchKind
	lastQuery string
}

func (c *fakeCatalogClient) FetchDiscoverPage(_ context.Context) ([]CatalogRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.discover, nil
}

func (c *fakeCatalogClient) FetchDetail(_ context.Context, externalID string) (*CatalogDetail, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	d, ok := c.detail[externalID]
	if !ok {
		return nil, ErrMovieNotFound
	}
	return d, nil
}

func (c *fakeCatalogClient) Search(_ context.Context, kind SearchKind, query string) ([]CatalogRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastKind, c.lastQuery = kind, query
	if c.err != nil {
		return nil, c.err
	}
	return c.search, nil
}

func (c *fakeCatalogClient) discoverCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func record(id float64, title string) CatalogRecord {
	return CatalogRecord{
		"id":           id,
		"title":        title,
		"release_date": "1999-10-15",
		"vote_average": 8.4,
		"genre_ids":    []interface{}{18.0, 53.0},
		"poster_path":  "/p" + strconv.FormatFloat(id, 'f', 0, 64) + ".jpg",
		"popularity":   id,
		"vote_count":   100.0,
	}
}

func stored(id int64, externalID string, popularity float64) *Movie {
	return &Movie{
		ID:         id,
		ExternalID: externalID,
		Title:      "movie " + externalID,
		PosterURL:  "https://img/" + externalID + ".jpg",
		Popularity: popularity,
	}
}
