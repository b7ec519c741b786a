// Package conf holds the bootstrap configuration scanned from configs/config.yaml.
package conf

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Bootstrap is the root of the configuration tree.
type Bootstrap struct {
	Server     *Server     `json:"server"`
	Data       *Data       `json:"data"`
	Catalog    *Catalog    `json:"catalog"`
	Listing    *Listing    `json:"listing"`
	Popularity *Popularity `json:"popularity"`
	Auth       *Auth       `json:"auth"`
	Log        *Log        `json:"log"`
}

type Server struct {
	Http *Server_HTTP `json:"http"`
	Grpc *Server_GRPC `json:"grpc"`
}

type Server_HTTP struct {
	Network string    `json:"network"`
	Addr    string    `json:"addr"`
	Timeout *Duration `json:"timeout"`
}

type Server_GRPC struct {
	Network              string    `json:"network"`
	Addr                 string    `json:"addr"`
	Timeout              *Duration `json:"timeout"`
	MaxConcurrentStreams uint32    `json:"max_concurrent_streams"`
}

type Data struct {
	Database *Data_Database `json:"database"`
	Redis    *Data_Redis    `json:"redis"`
}

type Data_Database struct {
	Driver       string    `json:"driver"`
	Source       string    `json:"source"`
	AutoMigrate  bool      `json:"auto_migrate"`
	MaxIdleConns int       `json:"max_idle_conns"`
	MaxOpenConns int       `json:"max_open_conns"`
	ConnMaxLife  *Duration `json:"conn_max_lifetime"`
}

type Data_Redis struct {
	Addr         string    `json:"addr"`
	Password     string    `json:"password"`
	DB           int       `json:"db"`
	ReadTimeout  *Duration `json:"read_timeout"`
	WriteTimeout *Duration `json:"write_timeout"`
}

// Catalog configures the remote movie catalog (TMDB) client.
type Catalog struct {
	BaseUrl       string    `json:"base_url"`
	ApiKey        string    `json:"api_key"`
	ImageBaseUrl  string    `json:"image_base_url"`
	Language      string    `json:"language"`
	Timeout       *Duration `json:"timeout"`
	RatePerSecond float64   `json:"rate_per_second"`
	PersistDetail bool      `json:"persist_detail"`
}

type Listing struct {
	PageSize    int32     `json:"page_size"`
	PopularSize *int32    `json:"popular_size"`
	CacheTtl    *Duration `json:"cache_ttl"`
}

// GetPopularSize returns popular_size, or 0 when it is unset.
func (x *Listing) GetPopularSize() int32 {
	if x != nil && x.PopularSize != nil {
		return *x.PopularSize
	}
	return 0
}

type Popularity struct {
	RebuildSize int32   `json:"rebuild_size"`
	DecayStep   float64 `json:"decay_step"`
	DecayCron   string  `json:"decay_cron"`
	RebuildCron string  `json:"rebuild_cron"`
	Timezone    string  `json:"timezone"`
}

type Auth struct {
	Token string `json:"token"`
}

type Log struct {
	Level string `json:"level"`
}

// Duration decodes "1s"-style strings (or integer nanoseconds) from config.
type Duration struct {
	time.Duration
}

// NewDuration wraps d.
func NewDuration(d time.Duration) *Duration {
	return &Duration{Duration: d}
}

// AsDuration returns the wrapped value; nil yields zero.
func (d *Duration) AsDuration() time.Duration {
	if d == nil {
		return 0
	}
	return d.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// ApplyDefaults fills unset optional values.
func (b *Bootstrap) ApplyDefaults() {
	if b.Server == nil {
		b.Server = &Server{}
	}
	if b.Server.Http == nil {
		b.Server.Http = &Server_HTTP{Addr: "0.0.0.0:8000"}
	}
	if b.Server.Grpc == nil {
		b.Server.Grpc = &Server_GRPC{Addr: "0.0.0.0:9000"}
	}
	if b.Data == nil {
		b.Data = &Data{}
	}
	if b.Data.Database == nil {
		b.Data.Database = &Data_Database{}
	}
	if b.Data.Database.Driver == "" {
		b.Data.Database.Driver = "postgres"
	}
	if b.Data.Redis == nil {
		b.Data.Redis = &Data_Redis{}
	}
	if b.Catalog == nil {
		b.Catalog = &Catalog{}
	}
	if b.Catalog.BaseUrl == "" {
		b.Catalog.BaseUrl = "https://api.themoviedb.org/3"
	}
	if b.Catalog.ImageBaseUrl == "" {
		b.Catalog.ImageBaseUrl = "https://image.tmdb.org/t/p/w500"
	}
	if b.Catalog.Language == "" {
		b.Catalog.Language = "en-US"
	}
	if b.Catalog.Timeout == nil {
		b.Catalog.Timeout = NewDuration(5 * time.Second)
	}
	if b.Catalog.RatePerSecond == 0 {
		b.Catalog.RatePerSecond = 20
	}
	if b.Listing == nil {
		b.Listing = &Listing{}
	}
	if b.Listing.PageSize == 0 {
		b.Listing.PageSize = 10
	}
	if b.Listing.PopularSize == nil {
		popularSize := int32(5)
		b.Listing.PopularSize = &popularSize
	}
	if b.Listing.CacheTtl == nil {
		b.Listing.CacheTtl = NewDuration(time.Hour)
	}
	if b.Popularity == nil {
		b.Popularity = &Popularity{}
	}
	if b.Popularity.RebuildSize == 0 {
		b.Popularity.RebuildSize = 10
	}
	if b.Popularity.DecayStep == 0 {
		b.Popularity.DecayStep = 0.1
	}
	if b.Popularity.DecayCron == "" {
		b.Popularity.DecayCron = "0 3 * * *"
	}
	if b.Popularity.RebuildCron == "" {
		b.Popularity.RebuildCron = "0 4 * * *"
	}
	if b.Popularity.Timezone == "" {
		b.Popularity.Timezone = "Local"
	}
	if b.Auth == nil {
		b.Auth = &Auth{}
	}
	if b.Log == nil {
		b.Log = &Log{}
	}
	if b.Log.Level == "" {
		b.Log.Level = "info"
	}
}

// Validate reports the first invalid required value.
func (b *Bootstrap) Validate() error {
	if b.Data == nil || b.Data.Database == nil || strings.TrimSpace(b.Data.Database.Source) == "" {
		return errors.New("data.database.source is required")
	}
	if b.Data.Redis == nil || strings.TrimSpace(b.Data.Redis.Addr) == "" {
		return errors.New("data.redis.addr is required")
	}
	if b.Catalog == nil || strings.TrimSpace(b.Catalog.ApiKey) == "" {
		return errors.New("catalog.api_key is required")
	}
	if b.Catalog.Timeout.AsDuration() <= 0 {
		return errors.New("catalog.timeout must be positive")
	}
	if b.Catalog.RatePerSecond < 0 {
		return errors.New("catalog.rate_per_second must be non-negative")
	}
	if b.Listing == nil || b.Listing.PageSize <= 0 {
		return errors.New("listing.page_size must be positive")
	}
	if n := b.Listing.GetPopularSize(); n < 0 || n > b.Listing.PageSize {
		return errors.New("listing.popular_size must be between 0 and listing.page_size")
	}
	if b.Listing.CacheTtl.AsDuration() <= 0 {
		return errors.New("listing.cache_ttl must be positive")
	}
	if b.Popularity == nil || b.Popularity.RebuildSize <= 0 {
		return errors.New("popularity.rebuild_size must be positive")
	}
	if b.Popularity.DecayStep <= 0 {
		return errors.New("popularity.decay_step must be positive")
	}
	if b.Auth == nil || strings.TrimSpace(b.Auth.Token) == "" {
		return errors.New("auth.token is required")
	}
	return nil
}
