package biz

import (
	"errors"

	"github.com/google/wire"
)

// ProviderSet is biz providers.
var ProviderSet = wire.NewSet(
	NewListingOptions,
	NewPopularityOptions,
	NewCatalogOptions,
	NewCatalogUseCase,
	NewPopularityUseCase,
	NewListingUseCase,
)

// Custom errors
var (
	ErrMovieNotFound       = errors.New("movie not found")
	ErrDuplicateExternalID = errors.New("duplicate external id")
	ErrCacheUnavailable    = errors.New("cache unavailable")
	ErrCatalogUnavailable  = errors.New("catalog unavailable")
	ErrInvalidRecord       = errors.New("invalid catalog record")
	ErrEmptyQuery          = errors.New("search query is empty")
	ErrInvalidCursor       = errors.New("cursor must not be negative")
)
