package v1

import (
	context "context"

	http "github.com/go-kratos/kratos/v2/transport/http"
)

const OperationMovieServiceListMovies = "/api.movie.v1.MovieService/ListMovies"
const OperationMovieServiceGetMovie = "/api.movie.v1.MovieService/GetMovie"
const OperationMovieServiceRecordView = "/api.movie.v1.MovieService/RecordView"
const OperationMovieServiceSearchCatalog = "/api.movie.v1.MovieService/SearchCatalog"
const OperationMovieServiceHealthCheck = "/api.movie.v1.MovieService/HealthCheck"
const OperationAdminServiceRebuildPopularity = "/api.movie.v1.AdminService/RebuildPopularity"
const OperationAdminServiceDecayPopularity = "/api.movie.v1.AdminService/DecayPopularity"
const OperationAdminServiceSyncCatalog = "/api.movie.v1.AdminService/SyncCatalog"

// AdminOperationPrefix prefixes every operation that requires the bearer token.
const AdminOperationPrefix = "/api.movie.v1.AdminService/"

// UserIdHeader names the viewer on RecordView.
const UserIdHeader = "X-User-Id"

type MovieServiceHTTPServer interface {
	ListMovies(context.Context, *ListMoviesRequest) (*ListMoviesReply, error)
	GetMovie(context.Context, *GetMovieRequest) (*MovieDetail, error)
	RecordView(context.Context, *RecordViewRequest) (*RecordViewReply, error)
	SearchCatalog(context.Context, *SearchCatalogRequest) (*SearchCatalogReply, error)
	HealthCheck(context.Context, *HealthCheckRequest) (*HealthCheckReply, error)
}

type AdminServiceHTTPServer interface {
	RebuildPopularity(context.Context, *RebuildPopularityRequest) (*RebuildPopularityReply, error)
	DecayPopularity(context.Context, *DecayPopularityRequest) (*DecayPopularityReply, error)
	SyncCatalog(context.Context, *SyncCatalogRequest) (*SyncCatalogReply, error)
}

func RegisterMovieServiceHTTPServer(s *http.Server, srv MovieServiceHTTPServer) {
	r := s.Route("/")
	r.GET("/api/movies", _MovieService_ListMovies0_HTTP_Handler(srv))
	r.GET("/api/movies/{id}", _MovieService_GetMovie0_HTTP_Handler(srv))
	r.POST("/api/movies/{id}/views", _MovieService_RecordView0_HTTP_Handler(srv))
	r.GET("/api/catalog/search", _MovieService_SearchCatalog0_HTTP_Handler(srv))
	r.GET("/healthz", _MovieService_HealthCheck0_HTTP_Handler(srv))
}

func RegisterAdminServiceHTTPServer(s *http.Server, srv AdminServiceHTTPServer) {
	r := s.Route("/")
	r.POST("/api/admin/popularity/rebuild", _AdminService_RebuildPopularity0_HTTP_Handler(srv))
	r.POST("/api/admin/popularity/decay", _AdminService_DecayPopularity0_HTTP_Handler(srv))
	r.POST("/api/admin/catalog/sync", _AdminService_SyncCatalog0_HTTP_Handler(srv))
}

func _MovieService_ListMovies0_HTTP_Handler(srv MovieServiceHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in ListMoviesRequest
		if err := ctx.BindQuery(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationMovieServiceListMovies)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.ListMovies(ctx, req.(*ListMoviesRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*ListMoviesReply)
		return ctx.Result(200, reply)
	}
}

func _MovieService_GetMovie0_HTTP_Handler(srv MovieServiceHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in GetMovieRequest
		if err := ctx.BindVars(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationMovieServiceGetMovie)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.GetMovie(ctx, req.(*GetMovieRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*MovieDetail)
		return ctx.Result(200, reply)
	}
}

func _MovieService_RecordView0_HTTP_Handler(srv MovieServiceHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in RecordViewRequest
		if err := ctx.BindVars(&in); err != nil {
			return err
		}
		in.UserId = ctx.Header().Get(UserIdHeader)
		http.SetOperation(ctx, OperationMovieServiceRecordView)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.RecordView(ctx, req.(*RecordViewRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*RecordViewReply)
		return ctx.Result(200, reply)
	}
}

func _MovieService_SearchCatalog0_HTTP_Handler(srv MovieServiceHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in SearchCatalogRequest
		if err := ctx.BindQuery(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationMovieServiceSearchCatalog)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.SearchCatalog(ctx, req.(*SearchCatalogRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*SearchCatalogReply)
		return ctx.Result(200, reply)
	}
}

func _MovieService_HealthCheck0_HTTP_Handler(srv MovieServiceHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in HealthCheckRequest
		http.SetOperation(ctx, OperationMovieServiceHealthCheck)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.HealthCheck(ctx, req.(*HealthCheckRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*HealthCheckReply)
		return ctx.Result(200, reply)
	}
}

func _AdminService_RebuildPopularity0_HTTP_Handler(srv AdminServiceHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in RebuildPopularityRequest
		http.SetOperation(ctx, OperationAdminServiceRebuildPopularity)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.RebuildPopularity(ctx, req.(*RebuildPopularityRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*RebuildPopularityReply)
		return ctx.Result(200, reply)
	}
}

func _AdminService_DecayPopularity0_HTTP_Handler(srv AdminServiceHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in DecayPopularityRequest
		http.SetOperation(ctx, OperationAdminServiceDecayPopularity)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.DecayPopularity(ctx, req.(*DecayPopularityRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*DecayPopularityReply)
		return ctx.Result(200, reply)
	}
}

func _AdminService_SyncCatalog0_HTTP_Handler(srv AdminServiceHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in SyncCatalogRequest
		http.SetOperation(ctx, OperationAdminServiceSyncCatalog)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.SyncCatalog(ctx, req.(*SyncCatalogRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*SyncCatalogReply)
		return ctx.Result(200, reply)
	}
}
