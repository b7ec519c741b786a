package biz

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-kratos/kratos/v2/log"
)

const pageCacheKeyPrefix = "movies:lastId:"

// PageCacheKey is the ResultCache key of the cursor-ordered slice after cursor.
func PageCacheKey(cursor int64) string {
	return pageCacheKeyPrefix + strconv.FormatInt(cursor, 10)
}

// ListingUseCase serves cursor pages merged with the popularity ranking.
type ListingUseCase struct {
	repo       MovieRepo
	pages      PageCache
	popularity *PopularityUseCase
	catalog    *CatalogUseCase
	opts       ListingOptions
	log        *log.Helper
}

// NewListingUseCase creates a new ListingUseCase instance
func NewListingUseCase(
	repo MovieRepo,
	pages PageCache,
	popularity *PopularityUseCase,
	catalog *CatalogUseCase,
	opts ListingOptions,
	logger log.Logger,
) *ListingUseCase {
	return &ListingUseCase{
		repo:       repo,
		pages:      pages,
		popularity: popularity,
		catalog:    catalog,
		opts:       opts,
		log:        log.NewHelper(logger),
	}
}

// GetPage returns up to PageSize projections: popular movies first, then
// the movies whose id follows cursor.
func (uc *ListingUseCase) GetPage(ctx context.Context, cursor int64) (*ListingPage, error) {
	if cursor < 0 {
		return nil, ErrInvalidCursor
	}

	popular, err := uc.popularProjections(ctx)
	if err != nil {
		return nil, err
	}

	key := PageCacheKey(cursor)
	slice, hit, err := uc.pages.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read page cache: %w", err)
	}
	if !hit {
		var cacheable bool
		slice, cacheable, err = uc.loadSlice(ctx, cursor)
		if err != nil {
			return nil, err
		}
		if cacheable {
			if err := uc.pages.Set(ctx, key, slice, uc.opts.CacheTTL); err != nil {
				return nil, fmt.Errorf("failed to write page cache: %w", err)
			}
		}
	}

	return &ListingPage{
		Items:      MergeProjections(popular, slice, uc.opts.PageSize),
		NextCursor: maxProjectionID(slice),
	}, nil
}

// loadSlice reads the cursor slice, hydrating from the catalog once when
// the store has nothing after cursor. An empty slice left behind by a failed
// hydration is reported as not cacheable so the next request asks the
// catalog again.
func (uc *ListingUseCase) loadSlice(ctx context.Context, cursor int64) ([]MovieProjection, bool, error) {
	movies, err := uc.repo.FindAfter(ctx, cursor, uc.opts.PageSize)
	if err != nil {
		return nil, false, fmt.Errorf("failed to list movies: %w", err)
	}
	if len(movies) > 0 {
		return projections(movies), true, nil
	}

	res, syncErr := uc.catalog.Sync(ctx)
	if syncErr != nil {
		uc.log.WithContext(ctx).Errorf("catalog sync for empty cursor %d failed: %v", cursor, syncErr)
	} else {
		uc.log.WithContext(ctx).Debugf("cursor %d was empty, catalog sync inserted %d", cursor, res.Inserted)
	}
	movies, err = uc.repo.FindAfter(ctx, cursor, uc.opts.PageSize)
	if err != nil {
		return nil, false, fmt.Errorf("failed to list movies: %w", err)
	}
	return projections(movies), syncErr == nil || len(movies) > 0, nil
}

func (uc *ListingUseCase) popularProjections(ctx context.Context) ([]MovieProjection, error) {
	ids, err := uc.popularity.TopIDs(ctx, uc.opts.PopularSize)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	movies, err := uc.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load popular movies: %w", err)
	}

	// FindByIDs is unordered; restore rank order and drop ids no longer stored.
	byID := make(map[int64]*Movie, len(movies))
	for _, m := range movies {
		byID[m.ID] = m
	}
	out := make([]MovieProjection, 0, len(ids))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			out = append(out, m.Projection())
		}
	}
	return out, nil
}

// MergeProjections concatenates popular and page, keeps the first
// occurrence of each id and truncates to limit.
func MergeProjections(popular, page []MovieProjection, limit int) []MovieProjection {
	out := make([]MovieProjection, 0, limit)
	seen := make(map[int64]struct{}, limit)
	for _, list := range [][]MovieProjection{popular, page} {
		for _, p := range list {
			if len(out) == limit {
				return out
			}
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

func projections(movies []*Movie) []MovieProjection {
	out := make([]MovieProjection, 0, len(movies))
	for _, m := range movies {
		out = append(out, m.Projection())
	}
	return out
}

func maxProjectionID(items []MovieProjection) int64 {
	var next int64
	for _, p := range items {
		if p.ID > next {
			next = p.ID
		}
	}
	return next
}
