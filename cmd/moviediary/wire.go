//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import (
	"github.com/moviediary/backend/internal/biz"
	"github.com/moviediary/backend/internal/conf"
	"github.com/moviediary/backend/internal/data"
	"github.com/moviediary/backend/internal/server"
	"github.com/moviediary/backend/internal/service"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// wireApp init kratos application.
func wireApp(*conf.Server, *conf.Data, *conf.Catalog, *conf.Listing, *conf.Popularity, *conf.Auth, log.Logger) (*kratos.App, func(), error) {
	panic(wire.Build(server.ProviderSet, data.ProviderSet, biz.ProviderSet, service.ProviderSet, newApp))
}
