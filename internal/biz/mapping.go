package biz

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const releaseDateLayout = "2006-01-02"

// ExternalIDOf returns the catalog id of rec as a decimal string.
func ExternalIDOf(rec CatalogRecord) (string, bool) {
	switch v := rec["id"].(type) {
	case float64:
		if v != math.Trunc(v) || v <= 0 {
			return "", false
		}
		return strconv.FormatInt(int64(v), 10), true
	case json.Number:
		n, err := v.Int64()
		if err != nil || n <= 0 {
			return "", false
		}
		return strconv.FormatInt(n, 10), true
	case string:
		s := strings.TrimSpace(v)
		return s, s != ""
	default:
		return "", false
	}
}

// MapCatalogRecord converts one raw catalog payload into a Movie.
// The result carries no internal id; imageBase prefixes poster and backdrop paths.
func MapCatalogRecord(rec CatalogRecord, imageBase string, now time.Time) (*Movie, error) {
	externalID, ok := ExternalIDOf(rec)
	if !ok {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidRecord)
	}

	title := stringField(rec, "title")
	if title == "" {
		title = stringField(rec, "name")
	}
	if title == "" {
		return nil, fmt.Errorf("%w: record %s has no title", ErrInvalidRecord, externalID)
	}

	releaseDate, err := dateField(rec, "release_date")
	if err != nil {
		return nil, fmt.Errorf("%w: record %s: %v", ErrInvalidRecord, externalID, err)
	}

	genre, err := genreField(rec)
	if err != nil {
		return nil, fmt.Errorf("%w: record %s: %v", ErrInvalidRecord, externalID, err)
	}

	movie := &Movie{
		ExternalID:  externalID,
		Title:       title,
		ReleaseDate: releaseDate,
		Genre:       genre,
		Overview:    stringField(rec, "overview"),
		PosterURL:   imageURL(imageBase, stringField(rec, "poster_path")),
		BackdropURL: imageURL(imageBase, stringField(rec, "backdrop_path")),
		CreatedAt:   now,
	}
	if v, ok := numberField(rec, "vote_average"); ok {
		movie.Rating = &v
	}
	if v, ok := numberField(rec, "popularity"); ok {
		movie.Popularity = v
	}
	if v, ok := numberField(rec, "vote_count"); ok {
		movie.VoteCount = int32(v)
	}
	return movie, nil
}

func stringField(rec CatalogRecord, key string) string {
	s, _ := rec[key].(string)
	return strings.TrimSpace(s)
}

func numberField(rec CatalogRecord, key string) (float64, bool) {
	switch v := rec[key].(type) {
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func dateField(rec CatalogRecord, key string) (*time.Time, error) {
	s := stringField(rec, key)
	if s == "" {
		s = stringField(rec, "first_air_date")
	}
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(releaseDateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", key, s)
	}
	return &t, nil
}

// genreField keeps genre_ids as its JSON text; absent means "[]".
func genreField(rec CatalogRecord) (string, error) {
	raw, ok := rec["genre_ids"]
	if !ok || raw == nil {
		return "[]", nil
	}
	ids, ok := raw.([]interface{})
	if !ok {
		return "", fmt.Errorf("genre_ids is %T, want array", raw)
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func imageURL(base, path string) string {
	if path == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
