package data

import (
	"context"
	"errors"
	"fmt"

	"github.com/moviediary/backend/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
)

const insertBatchSize = 100

type movieRepo struct {
	data *Data
	log  *log.Helper
}

// NewMovieRepo creates a new movie repository
func NewMovieRepo(data *Data, logger log.Logger) biz.MovieRepo {
	return &movieRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *movieRepo) FindAfter(ctx context.Context, cursor int64, limit int) ([]*biz.Movie, error) {
	var dbMovies []Movie
	err := r.data.db.WithContext(ctx).
		Where("id > ?", cursor).
		Order("id ASC").
		Limit(limit).
		Find(&dbMovies).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find movies after %d: %w", cursor, err)
	}
	return r.modelsToBiz(dbMovies), nil
}

func (r *movieRepo) FindByIDs(ctx context.Context, ids []int64) ([]*biz.Movie, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var dbMovies []Movie
	if err := r.data.db.WithContext(ctx).Where("id IN ?", ids).Find(&dbMovies).Error; err != nil {
		return nil, fmt.Errorf("failed to find movies by ids: %w", err)
	}
	return r.modelsToBiz(dbMovies), nil
}

func (r *movieRepo) FindTopByPopularity(ctx context.Context, limit int) ([]*biz.Movie, error) {
	var dbMovies []Movie
	err := r.data.db.WithContext(ctx).
		Order("popularity DESC").
		Order("id ASC").
		Limit(limit).
		Find(&dbMovies).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find popular movies: %w", err)
	}
	return r.modelsToBiz(dbMovies), nil
}

func (r *movieRepo) FindExternalIDsIn(ctx context.Context, externalIDs []string) ([]string, error) {
	if len(externalIDs) == 0 {
		return nil, nil
	}
	var found []string
	err := r.data.db.WithContext(ctx).
		Model(&Movie{}).
		Where("external_id IN ?", externalIDs).
		Pluck("external_id", &found).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find external ids: %w", err)
	}
	return found, nil
}

// InsertAll writes every movie in one transaction and assigns their ids.
func (r *movieRepo) InsertAll(ctx context.Context, movies []*biz.Movie) error {
	if len(movies) == 0 {
		return nil
	}
	dbMovies := make([]Movie, 0, len(movies))
	for _, m := range movies {
		dbMovies = append(dbMovies, *r.bizToModel(m))
	}

	err := r.data.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&dbMovies, insertBatchSize).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", biz.ErrDuplicateExternalID, err)
	}
	if err != nil {
		return fmt.Errorf("failed to insert movies: %w", err)
	}

	for i := range dbMovies {
		movies[i].ID = dbMovies[i].ID
		movies[i].CreatedAt = dbMovies[i].CreatedAt
	}
	moviesInserted.Add(float64(len(dbMovies)))
	return nil
}

func (r *movieRepo) FindByID(ctx context.Context, id int64) (*biz.Movie, error) {
	var dbMovie Movie
	err := r.data.db.WithContext(ctx).Where("id = ?", id).First(&dbMovie).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, biz.ErrMovieNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find movie %d: %w", id, err)
	}
	return r.modelToBiz(&dbMovie), nil
}

// Helper: Convert biz.Movie to data.Movie
func (r *movieRepo) bizToModel(m *biz.Movie) *Movie {
	return &Movie{
		ID:          m.ID,
		ExternalID:  m.ExternalID,
		Title:       m.Title,
		ReleaseDate: m.ReleaseDate,
		Rating:      m.Rating,
		Genre:       m.Genre,
		Overview:    m.Overview,
		PosterURL:   m.PosterURL,
		BackdropURL: m.BackdropURL,
		Popularity:  m.Popularity,
		VoteCount:   m.VoteCount,
		TrailerURL:  m.TrailerURL,
		CreatedAt:   m.CreatedAt,
	}
}

// Helper: Convert data.Movie to biz.Movie
func (r *movieRepo) modelToBiz(m *Movie) *biz.Movie {
	return &biz.Movie{
		ID:          m.ID,
		ExternalID:  m.ExternalID,
		Title:       m.Title,
		ReleaseDate: m.ReleaseDate,
		Rating:      m.Rating,
		Genre:       m.Genre,
		Overview:    m.Overview,
		PosterURL:   m.PosterURL,
		BackdropURL: m.BackdropURL,
		Popularity:  m.Popularity,
		VoteCount:   m.VoteCount,
		TrailerURL:  m.TrailerURL,
		CreatedAt:   m.CreatedAt,
	}
}

func (r *movieRepo) modelsToBiz(dbMovies []Movie) []*biz.Movie {
	movies := make([]*biz.Movie, 0, len(dbMovies))
	for i := range dbMovies {
		movies = append(movies, r.modelToBiz(&dbMovies[i]))
	}
	return movies
}
