// Package apitest provides a fake CineMind API for service tests: the real
// HTTP client talks to an httptest server instead of a hand-stubbed
// transport, so routing, auth headers and error bodies behave like the
// production backend.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/gorilla/mux"

	"cinemind/internal/api"
	"cinemind/models"
)

// Server is an in-process stand-in for the backend. Response data is
// assigned to the exported fields before the test drives the client;
// captured mutations are read back through the accessor methods.
type Server struct {
	*httptest.Server
	Router *mux.Router

	mu sync.Mutex

	// Response fixtures. A zero Status means 200.
	Details         map[string]models.MovieDetails
	DetailStatus    int
	DetailError     string
	Deck            []models.OnboardingMovie
	DeckStatus      int
	Recommendations []models.TrendingMovie
	RecsStatus      int
	RatingStatus    int
	RatingError     string
	LikeStatus      int
	Likes           []models.LikedMovie
	Ratings         []models.UserRating
	Persons         map[string]models.PersonDetails

	ratingPosts []models.RatingCreate
	likeCalls   []string // "POST <id>" / "DELETE <id>"
	authHeaders []string
	recQueries  []string // mood_tag of each recommendations fetch ("" when absent)
}

// New starts a fake API. The caller owns shutdown via Close.
func New() *Server {
	s := &Server{
		Router:  mux.NewRouter(),
		Details: make(map[string]models.MovieDetails),
		Persons: make(map[string]models.PersonDetails),
	}

	s.Router.Use(s.recordAuth)
	s.Router.HandleFunc("/movies/recommendations", s.handleRecommendations).Methods(http.MethodGet)
	s.Router.HandleFunc("/movies/onboarding", s.handleOnboarding).Methods(http.MethodGet)
	s.Router.HandleFunc("/movies/tmdb/{id}", s.handleDetail).Methods(http.MethodGet)
	s.Router.HandleFunc("/movies/{id}/like", s.handleLike).Methods(http.MethodPost, http.MethodDelete)
	s.Router.HandleFunc("/movies/{id}", s.handleDetail).Methods(http.MethodGet)
	s.Router.HandleFunc("/ratings", s.handleRating).Methods(http.MethodPost)
	s.Router.HandleFunc("/users/me/likes", s.handleMyLikes).Methods(http.MethodGet)
	s.Router.HandleFunc("/users/me/ratings", s.handleMyRatings).Methods(http.MethodGet)
	s.Router.HandleFunc("/person/{id}", s.handlePerson).Methods(http.MethodGet)

	s.Server = httptest.NewServer(s.Router)
	return s
}

// Client returns an API client pointed at this server.
func (s *Server) Client(token string) *api.Client {
	return api.NewClient(api.ClientConfig{
		BaseURL: s.URL,
		Tokens:  api.StaticToken(token),
	})
}

// RatingPosts returns the bodies of every POST /ratings received.
func (s *Server) RatingPosts() []models.RatingCreate {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.RatingCreate, len(s.ratingPosts))
	copy(out, s.ratingPosts)
	return out
}

// LikeCalls returns each like mutation as "METHOD movieID", in order.
func (s *Server) LikeCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.likeCalls))
	copy(out, s.likeCalls)
	return out
}

// SetRecommendations swaps the recommendations fixture while requests may be
// running.
func (s *Server) SetRecommendations(items []models.TrendingMovie) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Recommendations = items
}

// SetRecsStatus forces the recommendations endpoint to fail (0 restores 200).
func (s *Server) SetRecsStatus(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.RecsStatus = code
}

// SetLikeStatus forces the like endpoints to fail (0 restores 200).
func (s *Server) SetLikeStatus(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LikeStatus = code
}

// SetRatings swaps the my-ratings fixture.
func (s *Server) SetRatings(items []models.UserRating) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Ratings = items
}

// RecommendationQueries returns the mood_tag of every recommendations fetch.
func (s *Server) RecommendationQueries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.recQueries))
	copy(out, s.recQueries)
	return out
}

// AuthHeaders returns the Authorization header of every request received.
func (s *Server) AuthHeaders() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.authHeaders))
	copy(out, s.authHeaders)
	return out
}

func (s *Server) recordAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.authHeaders = append(s.authHeaders, r.Header.Get("Authorization"))
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	status, detailErr := s.DetailStatus, s.DetailError
	payload, ok := s.Details[mux.Vars(r)["id"]]
	s.mu.Unlock()

	if status != 0 {
		writeError(w, status, detailErr)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "movie not found")
		return
	}
	writeJSON(w, payload)
}

func (s *Server) handleRating(w http.ResponseWriter, r *http.Request) {
	var body models.RatingCreate
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "")
		return
	}

	s.mu.Lock()
	status, ratingErr := s.RatingStatus, s.RatingError
	if status == 0 {
		s.ratingPosts = append(s.ratingPosts, body)
	}
	s.mu.Unlock()

	if status != 0 {
		writeError(w, status, ratingErr)
		return
	}
	writeJSON(w, map[string]string{"message": "rating saved"})
}

func (s *Server) handleLike(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	status := s.LikeStatus
	if status == 0 {
		s.likeCalls = append(s.likeCalls, r.Method+" "+mux.Vars(r)["id"])
	}
	s.mu.Unlock()

	if status != 0 {
		writeError(w, status, "")
		return
	}
	writeJSON(w, map[string]string{"message": "ok"})
}

func (s *Server) handleOnboarding(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	status, deck := s.DeckStatus, s.Deck
	s.mu.Unlock()

	if status != 0 {
		writeError(w, status, "")
		return
	}
	if deck == nil {
		deck = []models.OnboardingMovie{}
	}
	writeJSON(w, deck)
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.recQueries = append(s.recQueries, r.URL.Query().Get("mood_tag"))
	status, recs := s.RecsStatus, s.Recommendations
	s.mu.Unlock()

	if status != 0 {
		writeError(w, status, "")
		return
	}
	if recs == nil {
		recs = []models.TrendingMovie{}
	}
	writeJSON(w, recs)
}

func (s *Server) handlePerson(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	payload, ok := s.Persons[mux.Vars(r)["id"]]
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "영화인을 찾을 수 없습니다")
		return
	}
	writeJSON(w, payload)
}

func (s *Server) handleMyLikes(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	likes := s.Likes
	s.mu.Unlock()
	if likes == nil {
		likes = []models.LikedMovie{}
	}
	writeJSON(w, likes)
}

func (s *Server) handleMyRatings(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	ratings := s.Ratings
	s.mu.Unlock()
	if ratings == nil {
		ratings = []models.UserRating{}
	}
	writeJSON(w, ratings)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if detail == "" {
		_, _ = w.Write([]byte(`{}`))
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
