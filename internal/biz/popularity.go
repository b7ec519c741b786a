package biz

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
)

// PopularityUseCase maintains the popularity ranking held in RankCache.
type PopularityUseCase struct {
	repo MovieRepo
	rank RankCache
	opts PopularityOptions
	log  *log.Helper
}

// NewPopularityUseCase creates a new PopularityUseCase instance
func NewPopularityUseCase(repo MovieRepo, rank RankCache, opts PopularityOptions, logger log.Logger) *PopularityUseCase {
	return &PopularityUseCase{
		repo: repo,
		rank: rank,
		opts: opts,
		log:  log.NewHelper(logger),
	}
}

// OnView adds one point to movieID.
func (uc *PopularityUseCase) OnView(ctx context.Context, movieID int64) error {
	if err := uc.rank.Increment(ctx, movieID, 1); err != nil {
		return fmt.Errorf("failed to increment score: %w", err)
	}
	return nil
}

// Rebuild replaces the ranking with the store's most popular movies.
func (uc *PopularityUseCase) Rebuild(ctx context.Context) (int, error) {
	movies, err := uc.repo.FindTopByPopularity(ctx, uc.opts.RebuildSize)
	if err != nil {
		return 0, fmt.Errorf("failed to load popular movies: %w", err)
	}

	entries := make([]RankEntry, 0, len(movies))
	for _, m := range movies {
		entries = append(entries, RankEntry{MovieID: m.ID, Score: m.Popularity})
	}
	if err := uc.rank.ReplaceAll(ctx, entries); err != nil {
		return 0, fmt.Errorf("failed to replace ranking: %w", err)
	}

	uc.log.WithContext(ctx).Infof("popularity ranking rebuilt with %d movies", len(entries))
	return len(entries), nil
}

// Decay lowers every ranked score by DecayStep. Scores have no floor.
func (uc *PopularityUseCase) Decay(ctx context.Context) (int, error) {
	ids, err := uc.rank.RangeAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list ranking: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if err := uc.rank.IncrementExisting(ctx, ids, -uc.opts.DecayStep); err != nil {
		return 0, fmt.Errorf("failed to decay ranking: %w", err)
	}

	uc.log.WithContext(ctx).Infof("popularity ranking decayed by %.2f for %d movies", uc.opts.DecayStep, len(ids))
	return len(ids), nil
}

// TopIDs returns up to n ids by descending score, rebuilding first when
// the ranking is empty.
func (uc *PopularityUseCase) TopIDs(ctx context.Context, n int) ([]int64, error) {
	if n <= 0 {
		return nil, nil
	}
	ids, err := uc.rank.TopN(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("failed to read ranking: %w", err)
	}
	if len(ids) > 0 {
		return ids, nil
	}

	uc.log.WithContext(ctx).Info("popularity ranking is empty, rebuilding")
	if _, err := uc.Rebuild(ctx); err != nil {
		return nil, err
	}
	ids, err = uc.rank.TopN(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("failed to read ranking: %w", err)
	}
	return ids, nil
}
