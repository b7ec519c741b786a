package main

import (
	"flag"
	"os"

	"github.com/moviediary/backend/internal/conf"
	"github.com/moviediary/backend/internal/pkg/zaplog"
	"github.com/moviediary/backend/internal/server"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/env"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/grpc"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/google/uuid"
	_ "go.uber.org/automaxprocs"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name is the name of the compiled software.
	Name = "moviediary"
	// Version is the version of the compiled software.
	Version string
	// flagconf is the config flag.
	flagconf string

	id = instanceID()
)

func init() {
	flag.StringVar(&flagconf, "conf", "../../configs", "config path, eg: -conf config.yaml")
}

func instanceID() string {
	host, _ := os.Hostname()
	return host + "-" + uuid.NewString()[:8]
}

func newApp(logger log.Logger, gs *grpc.Server, hs *http.Server, ps *server.PopularityScheduler) *kratos.App {
	return kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(logger),
		kratos.Server(
			gs,
			hs,
			ps,
		),
	)
}

func main() {
	flag.Parse()

	c := config.New(
		config.WithSource(
			file.NewSource(flagconf),
			env.NewSource(),
		),
	)
	defer c.Close()

	if err := c.Load(); err != nil {
		panic(err)
	}

	var bc conf.Bootstrap
	if err := c.Scan(&bc); err != nil {
		panic(err)
	}
	bc.ApplyDefaults()
	if err := bc.Validate(); err != nil {
		panic(err)
	}

	zl, err := zaplog.NewJSON(os.Stdout, bc.Log.Level)
	if err != nil {
		panic(err)
	}
	zlogger := zaplog.New(zl)
	defer zlogger.Sync()

	logger := log.With(
		log.NewFilter(zlogger, log.FilterLevel(log.ParseLevel(bc.Log.Level))),
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service.id", id,
		"service.name", Name,
		"service.version", Version,
	)

	app, cleanup, err := wireApp(bc.Server, bc.Data, bc.Catalog, bc.Listing, bc.Popularity, bc.Auth, logger)
	if err != nil {
		panic(err)
	}
	defer cleanup()

	// start and wait for stop signal
	if err := app.Run(); err != nil {
		panic(err)
	}
}
