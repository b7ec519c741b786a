package service

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	v1 "github.com/moviediary/backend/api/movie/v1"
	"github.com/moviediary/backend/internal/biz"
)

const releaseDateLayout = "2006-01-02"

// MovieService implements the public movie API
type MovieService struct {
	listing *biz.ListingUseCase
	catalog *biz.CatalogUseCase
	health  biz.HealthChecker
	log     *log.Helper
}

// NewMovieService creates a new MovieService
func NewMovieService(listing *biz.ListingUseCase, catalog *biz.CatalogUseCase, health biz.HealthChecker, logger log.Logger) *MovieService {
	return &MovieService{
		listing: listing,
		catalog: catalog,
		health:  health,
		log:     log.NewHelper(logger),
	}
}

// ListMovies implements cursor listing merged with popular movies
func (s *MovieService) ListMovies(ctx context.Context, req *v1.ListMoviesRequest) (*v1.ListMoviesReply, error) {
	page, err := s.listing.GetPage(ctx, req.LastId)
	if err != nil {
		return nil, toAPIError(ctx, s.log, err)
	}

	reply := &v1.ListMoviesReply{
		Items:      make([]*v1.MovieItem, 0, len(page.Items)),
		NextLastId: page.NextCursor,
	}
	for _, p := range page.Items {
		reply.Items = append(reply.Items, &v1.MovieItem{
			Id:         p.ID,
			Title:      p.Title,
			PosterUrl:  p.PosterURL,
			Popularity: p.Popularity,
		})
	}
	return reply, nil
}

// GetMovie implements movie detail lookup
func (s *MovieService) GetMovie(ctx context.Context, req *v1.GetMovieRequest) (*v1.MovieDetail, error) {
	if req.Id <= 0 {
		return nil, errors.BadRequest("INVALID_ID", "id must be positive")
	}
	movie, err := s.catalog.FetchDetail(ctx, req.Id)
	if err != nil {
		return nil, toAPIError(ctx, s.log, err)
	}
	return movieToDetail(movie), nil
}

// RecordView implements view event recording
func (s *MovieService) RecordView(ctx context.Context, req *v1.RecordViewRequest) (*v1.RecordViewReply, error) {
	userID := strings.TrimSpace(req.UserId)
	if userID == "" {
		return nil, errors.Unauthorized("UNAUTHORIZED", "missing X-User-Id header")
	}
	if req.Id <= 0 {
		return nil, errors.BadRequest("INVALID_ID", "id must be positive")
	}
	if err := s.listing.RecordView(ctx, userID, req.Id); err != nil {
		return nil, toAPIError(ctx, s.log, err)
	}
	return &v1.RecordViewReply{}, nil
}

// SearchCatalog implements remote catalog search
func (s *MovieService) SearchCatalog(ctx context.Context, req *v1.SearchCatalogRequest) (*v1.SearchCatalogReply, error) {
	kind := biz.ParseSearchKind(strings.ToLower(strings.TrimSpace(req.Kind)))
	movies, err := s.catalog.Search(ctx, kind, req.Query)
	if err != nil {
		return nil, toAPIError(ctx, s.log, err)
	}

	reply := &v1.SearchCatalogReply{
		Kind:  string(kind),
		Items: make([]*v1.CatalogItem, 0, len(movies)),
	}
	for _, m := range movies {
		item := &v1.CatalogItem{
			ExternalId: m.ExternalID,
			Title:      m.Title,
			PosterUrl:  m.PosterURL,
			Overview:   m.Overview,
			Popularity: m.Popularity,
		}
		if m.ReleaseDate != nil {
			item.ReleaseDate = m.ReleaseDate.Format(releaseDateLayout)
		}
		reply.Items = append(reply.Items, item)
	}
	return reply, nil
}

// HealthCheck implements health check
func (s *MovieService) HealthCheck(ctx context.Context, req *v1.HealthCheckRequest) (*v1.HealthCheckReply, error) {
	if err := s.health.Ping(ctx); err != nil {
		s.log.WithContext(ctx).Warnf("health check failed: %v", err)
		return nil, errors.ServiceUnavailable("UNHEALTHY", err.Error())
	}
	return &v1.HealthCheckReply{
		Status: "ok",
	}, nil
}

// toAPIError maps domain errors onto kratos errors.
func toAPIError(ctx context.Context, l *log.Helper, err error) error {
	switch {
	case stderrors.Is(err, biz.ErrMovieNotFound):
		return errors.NotFound("MOVIE_NOT_FOUND", "movie not found")
	case stderrors.Is(err, biz.ErrInvalidCursor):
		return errors.BadRequest("INVALID_CURSOR", "lastId must not be negative")
	case stderrors.Is(err, biz.ErrEmptyQuery):
		return errors.BadRequest("EMPTY_QUERY", "query is required")
	case stderrors.Is(err, biz.ErrCacheUnavailable):
		l.WithContext(ctx).Errorf("cache unavailable: %v", err)
		return errors.ServiceUnavailable("CACHE_UNAVAILABLE", "cache unavailable")
	case stderrors.Is(err, biz.ErrCatalogUnavailable):
		l.WithContext(ctx).Warnf("catalog unavailable: %v", err)
		return errors.ServiceUnavailable("CATALOG_UNAVAILABLE", "catalog unavailable")
	case stderrors.Is(err, biz.ErrInvalidRecord):
		l.WithContext(ctx).Warnf("invalid catalog record: %v", err)
		return errors.New(502, "INVALID_CATALOG_RECORD", "catalog returned an invalid record")
	default:
		l.WithContext(ctx).Errorf("request failed: %v", err)
		return errors.InternalServer("INTERNAL", "internal error")
	}
}

// Helper functions

func movieToDetail(m *biz.Movie) *v1.MovieDetail {
	detail := &v1.MovieDetail{
		Id:          m.ID,
		ExternalId:  m.ExternalID,
		Title:       m.Title,
		Rating:      m.Rating,
		Genre:       m.Genre,
		Overview:    m.Overview,
		PosterUrl:   m.PosterURL,
		BackdropUrl: m.BackdropURL,
		Popularity:  m.Popularity,
		VoteCount:   m.VoteCount,
		TrailerUrl:  m.TrailerURL,
	}
	if m.ReleaseDate != nil {
		detail.ReleaseDate = m.ReleaseDate.Format(releaseDateLayout)
	}
	return detail
}
