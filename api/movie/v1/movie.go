// Package v1 holds the moviediary HTTP API messages and route bindings.
package v1

// ListMoviesRequest selects the page after LastId (0 starts from the beginning).
type ListMoviesRequest struct {
	LastId int64 `json:"lastId"`
}

type MovieItem struct {
	Id         int64   `json:"id"`
	Title      string  `json:"title"`
	PosterUrl  string  `json:"posterUrl"`
	Popularity float64 `json:"popularity"`
}

type ListMoviesReply struct {
	Items      []*MovieItem `json:"items"`
	NextLastId int64        `json:"nextLastId"`
}

type GetMovieRequest struct {
	Id int64 `json:"id"`
}

type MovieDetail struct {
	Id          int64    `json:"id"`
	ExternalId  string   `json:"externalId"`
	Title       string   `json:"title"`
	ReleaseDate string   `json:"releaseDate,omitempty"`
	Rating      *float64 `json:"rating"`
	Genre       string   `json:"genre"`
	Overview    string   `json:"overview"`
	PosterUrl   string   `json:"posterUrl"`
	BackdropUrl string   `json:"backdropUrl"`
	Popularity  float64  `json:"popularity"`
	VoteCount   int32    `json:"voteCount"`
	TrailerUrl  string   `json:"trailerUrl"`
}

// RecordViewRequest carries the viewer from the X-User-Id header.
type RecordViewRequest struct {
	Id     int64  `json:"id"`
	UserId string `json:"-"`
}

type RecordViewReply struct{}

type SearchCatalogRequest struct {
	Kind  string `json:"kind"`
	Query string `json:"query"`
}

type CatalogItem struct {
	ExternalId  string  `json:"externalId"`
	Title       string  `json:"title"`
	PosterUrl   string  `json:"posterUrl"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"releaseDate,omitempty"`
	Popularity  float64 `json:"popularity"`
}

type SearchCatalogReply struct {
	Kind  string         `json:"kind"`
	Items []*CatalogItem `json:"items"`
}

type RebuildPopularityRequest struct{}

type RebuildPopularityReply struct {
	Ranked int32 `json:"ranked"`
}

type DecayPopularityRequest struct{}

type DecayPopularityReply struct {
	Decayed int32 `json:"decayed"`
}

type SyncCatalogRequest struct{}

type SyncCatalogReply struct {
	RunId    string `json:"runId"`
	Fetched  int32  `json:"fetched"`
	Existing int32  `json:"existing"`
	Skipped  int32  `json:"skipped"`
	Inserted int32  `json:"inserted"`
}

type HealthCheckRequest struct{}

type HealthCheckReply struct {
	Status string `json:"status"`
}
