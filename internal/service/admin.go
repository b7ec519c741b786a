package service

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	v1 "github.com/moviediary/backend/api/movie/v1"
	"github.com/moviediary/backend/internal/biz"
)

// AdminService runs the scheduled jobs on demand.
type AdminService struct {
	popularity *biz.PopularityUseCase
	catalog    *biz.CatalogUseCase
	log        *log.Helper
}

// NewAdminService creates a new AdminService
func NewAdminService(popularity *biz.PopularityUseCase, catalog *biz.CatalogUseCase, logger log.Logger) *AdminService {
	return &AdminService{
		popularity: popularity,
		catalog:    catalog,
		log:        log.NewHelper(logger),
	}
}

func (s *AdminService) RebuildPopularity(ctx context.Context, req *v1.RebuildPopularityRequest) (*v1.RebuildPopularityReply, error) {
	n, err := s.popularity.Rebuild(ctx)
	if err != nil {
		return nil, toAPIError(ctx, s.log, err)
	}
	return &v1.RebuildPopularityReply{Ranked: int32(n)}, nil
}

func (s *AdminService) DecayPopularity(ctx context.Context, req *v1.DecayPopularityRequest) (*v1.DecayPopularityReply, error) {
	n, err := s.popularity.Decay(ctx)
	if err != nil {
		return nil, toAPIError(ctx, s.log, err)
	}
	return &v1.DecayPopularityReply{Decayed: int32(n)}, nil
}

func (s *AdminService) SyncCatalog(ctx context.Context, req *v1.SyncCatalogRequest) (*v1.SyncCatalogReply, error) {
	res, err := s.catalog.Sync(ctx)
	if err != nil {
		return nil, toAPIError(ctx, s.log, err)
	}
	return &v1.SyncCatalogReply{
		RunId:    res.RunID,
		Fetched:  int32(res.Fetched),
		Existing: int32(res.Existing),
		Skipped:  int32(res.Skipped),
		Inserted: int32(res.Inserted),
	}, nil
}
