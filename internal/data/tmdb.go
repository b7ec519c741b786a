package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/moviediary/backend/internal/biz"
	"github.com/moviediary/backend/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"golang.org/x/time/rate"
)

const youtubeWatchURL = "https://www.youtube.com/watch?v="

var errCatalogNotFound = errors.New("not found")

type tmdbClient struct {
	client   *http.Client
	baseURL  string
	apiKey   string
	language string
	limiter  *rate.Limiter
	log      *log.Helper
}

// NewCatalogClient creates a TMDB API client. Calls are never retried.
func NewCatalogClient(c *conf.Catalog, logger log.Logger) biz.CatalogClient {
	limit := rate.Inf
	burst := 1
	if c.RatePerSecond > 0 {
		limit = rate.Limit(c.RatePerSecond)
		if b := int(c.RatePerSecond); b > burst {
			burst = b
		}
	}
	return &tmdbClient{
		client: &http.Client{
			Timeout: c.Timeout.AsDuration(),
		},
		baseURL:  strings.TrimRight(c.BaseUrl, "/"),
		apiKey:   c.ApiKey,
		language: c.Language,
		limiter:  rate.NewLimiter(limit, burst),
		log:      log.NewHelper(logger),
	}
}

type pageResponse struct {
	Results *[]biz.CatalogRecord `json:"results"`
}

func (c *tmdbClient) FetchDiscoverPage(ctx context.Context) ([]biz.CatalogRecord, error) {
	var resp pageResponse
	params := url.Values{"page": {"1"}}
	if err := c.get(ctx, "discover", "/discover/movie", params, &resp); err != nil {
		return nil, c.unavailable("discover", err)
	}
	if resp.Results == nil {
		return nil, fmt.Errorf("%w: discover response has no results", biz.ErrCatalogUnavailable)
	}
	return *resp.Results, nil
}

func (c *tmdbClient) FetchDetail(ctx context.Context, externalID string) (*biz.CatalogDetail, error) {
	var rec biz.CatalogRecord
	params := url.Values{"append_to_response": {"videos"}}
	err := c.get(ctx, "detail", "/movie/"+url.PathEscape(externalID), params, &rec)
	if errors.Is(err, errCatalogNotFound) {
		return nil, biz.ErrMovieNotFound
	}
	if err != nil {
		return nil, c.unavailable("detail", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: empty detail response for %s", biz.ErrCatalogUnavailable, externalID)
	}
	return &biz.CatalogDetail{
		Record:     rec,
		TrailerURL: trailerURL(rec),
	}, nil
}

func (c *tmdbClient) Search(ctx context.Context, kind biz.SearchKind, query string) ([]biz.CatalogRecord, error) {
	var resp pageResponse
	params := url.Values{
		"query":         {query},
		"include_adult": {"false"},
		"language":      {c.language},
		"page":          {"1"},
	}
	if err := c.get(ctx, "search", "/search/"+string(biz.ParseSearchKind(string(kind))), params, &resp); err != nil {
		return nil, c.unavailable("search", err)
	}
	if resp.Results == nil {
		return nil, fmt.Errorf("%w: search response has no results", biz.ErrCatalogUnavailable)
	}
	return *resp.Results, nil
}

func (c *tmdbClient) get(ctx context.Context, endpoint, path string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		catalogRequests.WithLabelValues(endpoint, "throttled").Inc()
		return fmt.Errorf("rate limiter: %w", err)
	}

	params.Set("api_key", c.apiKey)
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		catalogRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// Handle non-200 responses
	if resp.StatusCode == http.StatusNotFound {
		catalogRequests.WithLabelValues(endpoint, "not_found").Inc()
		return errCatalogNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		catalogRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		catalogRequests.WithLabelValues(endpoint, "malformed").Inc()
		return fmt.Errorf("failed to decode response: %w", err)
	}
	catalogRequests.WithLabelValues(endpoint, "ok").Inc()
	return nil
}

func (c *tmdbClient) unavailable(endpoint string, err error) error {
	c.log.Warnf("catalog %s request failed: %v", endpoint, err)
	return fmt.Errorf("%w: %s: %v", biz.ErrCatalogUnavailable, endpoint, err)
}

// trailerURL returns the first YouTube video typed "Trailer", or "".
func trailerURL(rec biz.CatalogRecord) string {
	videos, _ := rec["videos"].(map[string]interface{})
	results, _ := videos["results"].([]interface{})
	for _, v := range results {
		video, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		kind, _ := video["type"].(string)
		site, _ := video["site"].(string)
		key, _ := video["key"].(string)
		if strings.EqualFold(kind, "trailer") && strings.EqualFold(site, "youtube") && key != "" {
			return youtubeWatchURL + key
		}
	}
	return ""
}
