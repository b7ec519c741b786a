package data

import (
	"context"
	"fmt"
	"time"

	"github.com/moviediary/backend/internal/biz"
	"github.com/moviediary/backend/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(
	NewData,
	NewMovieRepo,
	NewRankCache,
	NewPageCache,
	NewCatalogClient,
	NewHealthChecker,
)

// Data encapsulates database and cache connections
type Data struct {
	db  *gorm.DB
	rdb *redis.Client
	log *log.Helper
}

// NewData creates Data instance with database and Redis connections
func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	l := log.NewHelper(logger)

	// Initialize PostgreSQL connection
	db, err := gorm.Open(postgres.Open(c.Database.Source), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		l.Errorf("failed to connect to database: %v", err)
		return nil, nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		l.Errorf("failed to get database instance: %v", err)
		return nil, nil, err
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(orDefault(c.Database.MaxIdleConns, 10))
	sqlDB.SetMaxOpenConns(orDefault(c.Database.MaxOpenConns, 100))
	if life := c.Database.ConnMaxLife.AsDuration(); life > 0 {
		sqlDB.SetConnMaxLifetime(life)
	} else {
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if c.Database.AutoMigrate {
		if err := Migrate(db); err != nil {
			l.Errorf("failed to migrate database: %v", err)
			_ = sqlDB.Close()
			return nil, nil, err
		}
	}

	l.Info("database connected successfully")

	// Initialize Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr:         c.Redis.Addr,
		Password:     c.Redis.Password,
		DB:           c.Redis.DB,
		ReadTimeout:  c.Redis.ReadTimeout.AsDuration(),
		WriteTimeout: c.Redis.WriteTimeout.AsDuration(),
	})

	// Redis holds the ranking and page cache, so it is not optional
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		l.Errorf("failed to connect to redis: %v", err)
		_ = rdb.Close()
		_ = sqlDB.Close()
		return nil, nil, err
	}
	l.Info("redis connected successfully")

	data := &Data{
		db:  db,
		rdb: rdb,
		log: l,
	}

	cleanup := func() {
		l.Info("closing data resources")
		if err := data.rdb.Close(); err != nil {
			l.Errorf("failed to close redis: %v", err)
		}
		if err := sqlDB.Close(); err != nil {
			l.Errorf("failed to close database: %v", err)
		}
	}

	return data, cleanup, nil
}

// Migrate creates or updates the movies table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Movie{})
}

// Ping checks both backends.
func (d *Data) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := d.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", biz.ErrCacheUnavailable, err)
	}
	return nil
}

// NewHealthChecker exposes Data's backend ping.
func NewHealthChecker(d *Data) biz.HealthChecker {
	return d
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
