package biz

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const discoverSyncKey = "discover"

// CatalogUseCase hydrates the local store from the remote catalog.
type CatalogUseCase struct {
	repo   MovieRepo
	client CatalogClient
	opts   CatalogOptions
	group  singleflight.Group
	now    func() time.Time
	log    *log.Helper
}

// NewCatalogUseCase creates a new CatalogUseCase instance
func NewCatalogUseCase(repo MovieRepo, client CatalogClient, opts CatalogOptions, logger log.Logger) *CatalogUseCase {
	return &CatalogUseCase{
		repo:   repo,
		client: client,
		opts:   opts,
		now:    func() time.Time { return time.Now().UTC() },
		log:    log.NewHelper(logger),
	}
}

// SyncNewRecords pulls the discover page and stores records not seen before.
// Failures are logged and reported as zero inserts.
func (uc *CatalogUseCase) SyncNewRecords(ctx context.Context) int {
	res, err := uc.Sync(ctx)
	if err != nil {
		uc.log.WithContext(ctx).Errorf("catalog sync failed: %v", err)
		return 0
	}
	return res.Inserted
}

// Sync is SyncNewRecords with the failure returned to the caller.
// Concurrent calls share a single run.
func (uc *CatalogUseCase) Sync(ctx context.Context) (*SyncResult, error) {
	v, err, shared := uc.group.Do(discoverSyncKey, func() (interface{}, error) {
		return uc.sync(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	res := v.(*SyncResult)
	if shared {
		uc.log.WithContext(ctx).Debugf("joined catalog sync run %s", res.RunID)
	} else {
		catalogRecordsSkipped.Add(float64(res.Skipped))
	}
	return res, nil
}

func (uc *CatalogUseCase) sync(ctx context.Context) (*SyncResult, error) {
	runID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate sync run ID: %w", err)
	}
	res := &SyncResult{RunID: runID.String()}

	records, err := uc.client.FetchDiscoverPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch discover page: %w", err)
	}
	res.Fetched = len(records)
	if len(records) == 0 {
		uc.log.WithContext(ctx).Infof("catalog sync %s: remote returned no records", res.RunID)
		return res, nil
	}

	// First occurrence wins when the remote repeats an id within one page.
	byExternalID := make(map[string]CatalogRecord, len(records))
	externalIDs := make([]string, 0, len(records))
	for _, rec := range records {
		id, ok := ExternalIDOf(rec)
		if !ok {
			res.Skipped++
			uc.log.WithContext(ctx).Warnf("catalog sync %s: skipping record without id", res.RunID)
			continue
		}
		if _, dup := byExternalID[id]; dup {
			continue
		}
		byExternalID[id] = rec
		externalIDs = append(externalIDs, id)
	}
	if len(externalIDs) == 0 {
		return res, nil
	}

	existing, err := uc.repo.FindExternalIDsIn(ctx, externalIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to look up existing external ids: %w", err)
	}
	res.Existing = len(existing)
	present := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		present[id] = struct{}{}
	}

	now := uc.now()
	fresh := make([]*Movie, 0, len(externalIDs)-len(existing))
	for _, id := range externalIDs {
		if _, ok := present[id]; ok {
			continue
		}
		movie, err := MapCatalogRecord(byExternalID[id], uc.opts.ImageBaseURL, now)
		if err != nil {
			res.Skipped++
			uc.log.WithContext(ctx).Warnf("catalog sync %s: %v", res.RunID, err)
			continue
		}
		fresh = append(fresh, movie)
	}
	if len(fresh) == 0 {
		uc.log.WithContext(ctx).Infof("catalog sync %s: nothing new (fetched=%d existing=%d skipped=%d)",
			res.RunID, res.Fetched, res.Existing, res.Skipped)
		return res, nil
	}

	if err := uc.repo.InsertAll(ctx, fresh); err != nil {
		return nil, fmt.Errorf("failed to insert %d movies: %w", len(fresh), err)
	}
	res.Inserted = len(fresh)

	uc.log.WithContext(ctx).Infof("catalog sync %s: inserted=%d fetched=%d existing=%d skipped=%d",
		res.RunID, res.Inserted, res.Fetched, res.Existing, res.Skipped)
	return res, nil
}

// FetchDetail returns the stored movie, falling back to the catalog entry
// whose external id equals movieID. The fallback is persisted only when
// CatalogOptions.PersistDetail is set.
func (uc *CatalogUseCase) FetchDetail(ctx context.Context, movieID int64) (*Movie, error) {
	movie, err := uc.repo.FindByID(ctx, movieID)
	if err == nil {
		return movie, nil
	}
	if !errors.Is(err, ErrMovieNotFound) {
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}

	detail, err := uc.client.FetchDetail(ctx, strconv.FormatInt(movieID, 10))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog detail: %w", err)
	}
	movie, err = MapCatalogRecord(detail.Record, uc.opts.ImageBaseURL, uc.now())
	if err != nil {
		return nil, fmt.Errorf("failed to map catalog detail: %w", err)
	}
	movie.TrailerURL = detail.TrailerURL

	if uc.opts.PersistDetail {
		uc.persistDetail(ctx, movie)
	}
	return movie, nil
}

func (uc *CatalogUseCase) persistDetail(ctx context.Context, movie *Movie) {
	existing, err := uc.repo.FindExternalIDsIn(ctx, []string{movie.ExternalID})
	if err != nil {
		uc.log.WithContext(ctx).Warnf("failed to check detail %s before persisting: %v", movie.ExternalID, err)
		return
	}
	if len(existing) > 0 {
		return
	}
	if err := uc.repo.InsertAll(ctx, []*Movie{movie}); err != nil {
		uc.log.WithContext(ctx).Warnf("failed to persist detail %s: %v", movie.ExternalID, err)
	}
}

// Search queries the catalog and maps every well-formed result.
func (uc *CatalogUseCase) Search(ctx context.Context, kind SearchKind, query string) ([]*Movie, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	records, err := uc.client.Search(ctx, kind, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search catalog: %w", err)
	}

	now := uc.now()
	movies := make([]*Movie, 0, len(records))
	for _, rec := range records {
		movie, err := MapCatalogRecord(rec, uc.opts.ImageBaseURL, now)
		if err != nil {
			uc.log.WithContext(ctx).Debugf("skipping search result: %v", err)
			continue
		}
		movies = append(movies, movie)
	}
	return movies, nil
}
