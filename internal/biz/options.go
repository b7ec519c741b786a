package biz

import (
	"time"

	"github.com/moviediary/backend/internal/conf"
)

// ListingOptions tunes ListingUseCase.
type ListingOptions struct {
	PageSize    int
	PopularSize int
	CacheTTL    time.Duration
}

func NewListingOptions(c *conf.Listing) ListingOptions {
	return ListingOptions{
		PageSize:    int(c.PageSize),
		PopularSize: int(c.GetPopularSize()),
		CacheTTL:    c.CacheTtl.AsDuration(),
	}
}

// PopularityOptions tunes PopularityUseCase.
type PopularityOptions struct {
	RebuildSize int
	DecayStep   float64
}

func NewPopularityOptions(c *conf.Popularity) PopularityOptions {
	return PopularityOptions{
		RebuildSize: int(c.RebuildSize),
		DecayStep:   c.DecayStep,
	}
}

// CatalogOptions tunes CatalogUseCase.
type CatalogOptions struct {
	ImageBaseURL  string
	PersistDetail bool
}

func NewCatalogOptions(c *conf.Catalog) CatalogOptions {
	return CatalogOptions{
		ImageBaseURL:  c.ImageBaseUrl,
		PersistDetail: c.PersistDetail,
	}
}
