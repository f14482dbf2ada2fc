package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// MovieID is a movie identifier as the API uses it. The primary catalog keys
// movies by string codes while the external catalog uses numeric TMDB ids;
// both arrive over the wire as either a JSON string or a JSON number. The
// canonical in-memory form is the string form.
type MovieID string

func (id MovieID) String() string {
	return string(id)
}

// UnmarshalJSON accepts both `"20240001"` and `20240001`.
func (id *MovieID) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*id = ""
		return nil
	}

	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = MovieID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = MovieID(n.String())
	return nil
}

func (id MovieID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

// MovieIDFromInt converts a numeric catalog id to its canonical form.
func MovieIDFromInt(n int64) MovieID {
	return MovieID(strconv.FormatInt(n, 10))
}

// MovieRef is the minimal identity a caller holds before any detail is
// fetched: whatever list item was tapped. PosterURL and GenreName ride along
// so a card can render while the detail round trip is still in flight.
type MovieRef struct {
	ID        MovieID `json:"id"`
	Title     string  `json:"title"`
	PosterURL string  `json:"poster_url,omitempty"`
	GenreName string  `json:"genre_name,omitempty"`
}

// MovieDetails is the authoritative detail payload for a single movie. The
// API does not echo the id back, so callers keep the originating MovieRef
// alongside it.
type MovieDetails struct {
	Title       string   `json:"title"`
	Release     string   `json:"release,omitempty"`
	Runtime     int      `json:"runtime,omitempty"`
	Genres      []string `json:"genres"`
	Directors   []string `json:"directors"`
	Actors      []string `json:"actors"`
	Synopsis    string   `json:"synopsis"`
	PosterURL   string   `json:"poster_url,omitempty"`
	BackdropURL string   `json:"backdrop_url,omitempty"`
	UserRating  *int     `json:"user_rating,omitempty"`
	IsLiked     *bool    `json:"is_liked,omitempty"`
	Comment     *string  `json:"comment,omitempty"`
}

// BoxOfficeMovie is a daily box-office chart entry from the primary catalog.
type BoxOfficeMovie struct {
	ID            MovieID `json:"id"`
	Rank          int     `json:"rank"`
	Title         string  `json:"title"`
	Release       string  `json:"release"`
	Audience      int64   `json:"audience"`
	DailyAudience int64   `json:"daily_audience"`
	PosterURL     string  `json:"poster_url,omitempty"`
}

// Ref returns the list item's identity for opening a detail session.
func (m BoxOfficeMovie) Ref() MovieRef {
	return MovieRef{ID: m.ID, Title: m.Title, PosterURL: m.PosterURL}
}

// TrendingMovie is an external-catalog summary row (trending, now playing,
// top rated, per-genre and search results share this shape).
type TrendingMovie struct {
	ID          MovieID `json:"id"`
	Title       string  `json:"title"`
	PosterURL   string  `json:"poster_url"`
	ReleaseDate string  `json:"release_date,omitempty"`
	Overview    string  `json:"overview,omitempty"`
	VoteAverage float64 `json:"vote_average,omitempty"`

	// Set only on rows returned by the recommendations endpoint.
	RecommendationReason string `json:"recommendation_reason,omitempty"`
}

func (m TrendingMovie) Ref() MovieRef {
	return MovieRef{ID: m.ID, Title: m.Title, PosterURL: m.PosterURL}
}

// OnboardingMovie is one swipe-deck candidate.
type OnboardingMovie struct {
	MovieID   MovieID `json:"movie_id"`
	Title     string  `json:"title"`
	PosterURL string  `json:"poster_url"`
	GenreName string  `json:"genre_name"`
}

func (m OnboardingMovie) Ref() MovieRef {
	return MovieRef{ID: m.MovieID, Title: m.Title, PosterURL: m.PosterURL, GenreName: m.GenreName}
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// RatingCreate is the request body for POST /ratings.
type RatingCreate struct {
	MovieID string  `json:"movie_id"`
	Rating  int     `json:"rating"`
	Comment *string `json:"comment,omitempty"`
}

// LikedMovie is one row of GET /users/me/likes.
type LikedMovie struct {
	MovieID   MovieID `json:"movie_id"`
	Title     string  `json:"title"`
	PosterURL string  `json:"poster_url,omitempty"`
}

// UserRating is one row of GET /users/me/ratings.
type UserRating struct {
	MovieID   MovieID `json:"movie_id"`
	Title     string  `json:"title"`
	PosterURL string  `json:"poster_url,omitempty"`
	Rating    int     `json:"rating"`
	Comment   *string `json:"comment,omitempty"`
}

// BoxOfficeBattle pairs the top domestic and foreign chart entries for the
// head-to-head section of the trends dashboard. Either side may be absent.
type BoxOfficeBattle struct {
	Korean  *BoxOfficeMovie `json:"korean"`
	Foreign *BoxOfficeMovie `json:"foreign"`
}

// WeeklyPopularPerson is the featured person of the trends dashboard.
type WeeklyPopularPerson struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ProfileURL    string `json:"profile_url,omitempty"`
	RelatedMovies []struct {
		ID    MovieID `json:"id"`
		Title string  `json:"title"`
	} `json:"related_movies,omitempty"`
}
