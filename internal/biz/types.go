package biz

import (
	"context"
	"time"
)

// Movie domain model
type Movie struct {
	ID          int64
	ExternalID  string
	Title       string
	ReleaseDate *time.Time
	Rating      *float64
	Genre       string
	Overview    string
	PosterURL   string
	BackdropURL string
	Popularity  float64
	VoteCount   int32
	TrailerURL  string
	CreatedAt   time.Time
}

// Projection narrows a movie to its listing shape.
func (m *Movie) Projection() MovieProjection {
	return MovieProjection{
		ID:         m.ID,
		Title:      m.Title,
		PosterURL:  m.PosterURL,
		Popularity: m.Popularity,
	}
}

// MovieProjection is the listing shape returned to callers
type MovieProjection struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	PosterURL  string  `json:"posterUrl"`
	Popularity float64 `json:"popularity"`
}

// ListingPage domain model
type ListingPage struct {
	Items []MovieProjection
	// NextCursor is the largest id of the cursor-ordered slice, 0 when it was empty.
	NextCursor int64
}

// RankEntry is one member of the popularity ranking
type RankEntry struct {
	MovieID int64
	Score   float64
}

// CatalogRecord is one raw entry of a remote catalog payload.
type CatalogRecord map[string]interface{}

// CatalogDetail is a single catalog entry with its resolved trailer.
type CatalogDetail struct {
	Record     CatalogRecord
	TrailerURL string
}

// SearchKind selects the remote search endpoint
type SearchKind string

const (
	SearchKindMovie      SearchKind = "movie"
	SearchKindPerson     SearchKind = "person"
	SearchKindKeyword    SearchKind = "keyword"
	SearchKindCollection SearchKind = "collection"
)

// ParseSearchKind maps unknown kinds to SearchKindMovie.
func ParseSearchKind(s string) SearchKind {
	switch k := SearchKind(s); k {
	case SearchKindMovie, SearchKindPerson, SearchKindKeyword, SearchKindCollection:
		return k
	default:
		return SearchKindMovie
	}
}

// SyncResult summarises one hydration run.
type SyncResult struct {
	RunID    string
	Fetched  int
	Existing int
	Skipped  int
	Inserted int
}

// MovieRepo defines the repository interface for movies
type MovieRepo interface {
	FindAfter(ctx context.Context, cursor int64, limit int) ([]*Movie, error)
	FindByIDs(ctx context.Context, ids []int64) ([]*Movie, error)
	FindTopByPopularity(ctx context.Context, limit int) ([]*Movie, error)
	FindExternalIDsIn(ctx context.Context, externalIDs []string) ([]string, error)
	InsertAll(ctx context.Context, movies []*Movie) error
	FindByID(ctx context.Context, id int64) (*Movie, error)
}

// RankCache defines the score-sorted popularity cache
type RankCache interface {
	Increment(ctx context.Context, movieID int64, delta float64) error
	// IncrementExisting adds delta to each listed id that is still ranked.
	IncrementExisting(ctx context.Context, movieIDs []int64, delta float64) error
	TopN(ctx context.Context, n int) ([]int64, error)
	RangeAll(ctx context.Context) ([]int64, error)
	ReplaceAll(ctx context.Context, entries []RankEntry) error
	Clear(ctx context.Context) error
}

// PageCache defines the expiring cache for cursor-ordered pages
type PageCache interface {
	// Get reports ok=false when the key is unset or expired.
	Get(ctx context.Context, key string) (items []MovieProjection, ok bool, err error)
	Set(ctx context.Context, key string, items []MovieProjection, ttl time.Duration) error
}

// CatalogClient defines the interface for the remote movie catalog
type CatalogClient interface {
	FetchDiscoverPage(ctx context.Context) ([]CatalogRecord, error)
	FetchDetail(ctx context.Context, externalID string) (*CatalogDetail, error)
	Search(ctx context.Context, kind SearchKind, query string) ([]CatalogRecord, error)
}

// HealthChecker reports whether the storage backends are reachable
type HealthChecker interface {
	Ping(ctx context.Context) error
}
