package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/moviediary/backend/api/movie/v1"
	"github.com/moviediary/backend/internal/biz"
)

func assertAPIError(t *testing.T, err error, code int, reason string) {
	t.Helper()
	require.Error(t, err)
	se := errors.FromError(err)
	assert.Equal(t, int32(code), se.Code)
	assert.Equal(t, reason, se.Reason)
}

func TestListMovies(t *testing.T) {
	f := newFixture(
		movie(1, "550", "Fight Club", 1),
		movie(2, "603", "The Matrix", 5),
		movie(3, "680", "Pulp Fiction", 3),
	)

	reply, err := f.movies.ListMovies(context.Background(), &v1.ListMoviesRequest{})
	require.NoError(t, err)

	var ids []int64
	for _, item := range reply.Items {
		ids = append(ids, item.Id)
	}
	assert.Equal(t, []int64{2, 3, 1}, ids)
	assert.Equal(t, int64(3), reply.NextLastId)
	assert.Equal(t, "The Matrix", reply.Items[0].Title)
	assert.Equal(t, "https://img/603.jpg", reply.Items[0].PosterUrl)
}

func TestListMovies_PastTheEnd(t *testing.T) {
	f := newFixture(movie(1, "550", "Fight Club", 1))

	reply, err := f.movies.ListMovies(context.Background(), &v1.ListMoviesRequest{LastId: 1})
	require.NoError(t, err)
	require.Len(t, reply.Items, 1, "popular movies are still listed")
	assert.Equal(t, int64(0), reply.NextLastId)
}

func TestListMovies_Errors(t *testing.T) {
	t.Run("negative cursor", func(t *testing.T) {
		f := newFixture()
		_, err := f.movies.ListMovies(context.Background(), &v1.ListMoviesRequest{LastId: -1})
		assertAPIError(t, err, 400, "INVALID_CURSOR")
	})

	t.Run("cache unavailable", func(t *testing.T) {
		f := newFixture(movie(1, "550", "Fight Club", 1))
		f.rank.err = fmt.Errorf("%w: %v", biz.ErrCacheUnavailable, errBackendDown)
		_, err := f.movies.ListMovies(context.Background(), &v1.ListMoviesRequest{})
		assertAPIError(t, err, 503, "CACHE_UNAVAILABLE")
	})

	t.Run("store failure", func(t *testing.T) {
		f := newFixture(movie(1, "550", "Fight Club", 1))
		f.repo.err = errBackendDown
		_, err := f.movies.ListMovies(context.Background(), &v1.ListMoviesRequest{})
		assertAPIError(t, err, 500, "INTERNAL")
	})
}

func TestGetMovie(t *testing.T) {
	t.Run("stored", func(t *testing.T) {
		f := newFixture(movie(1, "550", "Fight Club", 1))
		detail, err := f.movies.GetMovie(context.Background(), &v1.GetMovieRequest{Id: 1})
		require.NoError(t, err)
		assert.Equal(t, "550", detail.ExternalId)
		assert.Equal(t, "Fight Club", detail.Title)
		assert.Empty(t, detail.ReleaseDate)
	})

	t.Run("from catalog", func(t *testing.T) {
		f := newFixture()
		f.catalog.detail = map[string]*biz.CatalogDetail{
			"603": {
				Record: biz.CatalogRecord{
					"id":           603.0,
					"title":        "The Matrix",
					"release_date": "1999-03-30",
					"vote_average": 8.2,
				},
				TrailerURL: "https://www.youtube.com/watch?v=abc",
			},
		}
		detail, err := f.movies.GetMovie(context.Background(), &v1.GetMovieRequest{Id: 603})
		require.NoError(t, err)
		assert.Equal(t, "The Matrix", detail.Title)
		assert.Equal(t, "1999-03-30", detail.ReleaseDate)
		assert.Equal(t, "https://www.youtube.com/watch?v=abc", detail.TrailerUrl)
		require.NotNil(t, detail.Rating)
		assert.InDelta(t, 8.2, *detail.Rating, 1e-9)
	})

	t.Run("invalid id", func(t *testing.T) {
		f := newFixture()
		_, err := f.movies.GetMovie(context.Background(), &v1.GetMovieRequest{Id: 0})
		assertAPIError(t, err, 400, "INVALID_ID")
	})

	t.Run("not found anywhere", func(t *testing.T) {
		f := newFixture()
		_, err := f.movies.GetMovie(context.Background(), &v1.GetMovieRequest{Id: 42})
		assertAPIError(t, err, 404, "MOVIE_NOT_FOUND")
	})

	t.Run("catalog unavailable", func(t *testing.T) {
		f := newFixture()
		f.catalog.err = fmt.Errorf("%w: status 500", biz.ErrCatalogUnavailable)
		_, err := f.movies.GetMovie(context.Background(), &v1.GetMovieRequest{Id: 42})
		assertAPIError(t, err, 503, "CATALOG_UNAVAILABLE")
	})

	t.Run("malformed catalog record", func(t *testing.T) {
		f := newFixture()
		f.catalog.detail = map[string]*biz.CatalogDetail{"7": {Record: biz.CatalogRecord{"id": 7.0}}}
		_, err := f.movies.GetMovie(context.Background(), &v1.GetMovieRequest{Id: 7})
		assertAPIError(t, err, 502, "INVALID_CATALOG_RECORD")
	})
}

func TestRecordView(t *testing.T) {
	f := newFixture(movie(1, "550", "Fight Club", 1))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.movies.RecordView(ctx, &v1.RecordViewRequest{Id: 1, UserId: "u-1"})
		require.NoError(t, err)
	}
	assert.Equal(t, 3.0, f.rank.scores[1])

	_, err := f.movies.RecordView(ctx, &v1.RecordViewRequest{Id: 1, UserId: "  "})
	assertAPIError(t, err, 401, "UNAUTHORIZED")

	_, err = f.movies.RecordView(ctx, &v1.RecordViewRequest{Id: -1, UserId: "u-1"})
	assertAPIError(t, err, 400, "INVALID_ID")

	_, err = f.movies.RecordView(ctx, &v1.RecordViewRequest{Id: 99, UserId: "u-1"})
	assertAPIError(t, err, 404, "MOVIE_NOT_FOUND")
	_, ranked := f.rank.scores[99]
	assert.False(t, ranked)
}

func TestSearchCatalog(t *testing.T) {
	f := newFixture()
	f.catalog.search = []biz.CatalogRecord{
		{"id": 603.0, "title": "The Matrix", "release_date": "1999-03-30", "poster_path": "/m.jpg"},
		{"title": "no id"},
		{"id": 604.0, "name": "The Matrix Reloaded"},
	}

	reply, err := f.movies.SearchCatalog(context.Background(), &v1.SearchCatalogRequest{Kind: "Collection", Query: "matrix"})
	require.NoError(t, err)
	assert.Equal(t, "collection", reply.Kind)
	require.Len(t, reply.Items, 2)
	assert.Equal(t, "603", reply.Items[0].ExternalId)
	assert.Equal(t, "1999-03-30", reply.Items[0].ReleaseDate)
	assert.Equal(t, "https://img/m.jpg", reply.Items[0].PosterUrl)
	assert.Equal(t, "The Matrix Reloaded", reply.Items[1].Title)

	reply, err = f.movies.SearchCatalog(context.Background(), &v1.SearchCatalogRequest{Kind: "tv", Query: "matrix"})
	require.NoError(t, err)
	assert.Equal(t, "movie", reply.Kind, "unknown kinds fall back to movie")

	_, err = f.movies.SearchCatalog(context.Background(), &v1.SearchCatalogRequest{Query: "   "})
	assertAPIError(t, err, 400, "EMPTY_QUERY")
}

func TestHealthCheck(t *testing.T) {
	f := newFixture()

	reply, err := f.movies.HealthCheck(context.Background(), &v1.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, "ok", reply.Status)

	f.health = errBackendDown
	_, err = f.movies.HealthCheck(context.Background(), &v1.HealthCheckRequest{})
	assertAPIError(t, err, 503, "UNHEALTHY")
}
