package library

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"cinemind/internal/api"
	"cinemind/models"
	"cinemind/services/events"
)

// Service backs the profile's "my likes" and "my ratings" lists. The likes
// list supports unliking in place: the row disappears immediately and comes
// back if the DELETE fails.
type Service struct {
	api *api.Client
	log *logrus.Logger

	mu      sync.Mutex
	likes   []models.LikedMovie
	ratings []models.UserRating

	unsubscribe func()
}

type Options struct {
	API    *api.Client
	Bus    *events.Bus
	Logger *logrus.Logger
}

func NewService(opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = logrus.New()
	}
	s := &Service{api: opts.API, log: log}
	if opts.Bus != nil {
		s.unsubscribe = opts.Bus.Subscribe(func(events.RatingCommitted) {
			if err := s.RefreshRatings(context.Background()); err != nil {
				log.WithError(err).Warn("ratings refresh after rating failed")
			}
		})
	}
	return s
}

// Close drops the bus subscription.
func (s *Service) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// RefreshLikes reloads the liked-movies list.
func (s *Service) RefreshLikes(ctx context.Context) error {
	var likes []models.LikedMovie
	if err := s.api.Get(ctx, "/users/me/likes", nil, &likes); err != nil {
		return fmt.Errorf("load likes: %w", err)
	}

	s.mu.Lock()
	s.likes = likes
	s.mu.Unlock()
	return nil
}

// RefreshRatings reloads the rated-movies list.
func (s *Service) RefreshRatings(ctx context.Context) error {
	var ratings []models.UserRating
	if err := s.api.Get(ctx, "/users/me/ratings", nil, &ratings); err != nil {
		return fmt.Errorf("load ratings: %w", err)
	}

	s.mu.Lock()
	s.ratings = ratings
	s.mu.Unlock()
	return nil
}

// Likes returns the cached liked-movies list.
func (s *Service) Likes() []models.LikedMovie {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.LikedMovie, len(s.likes))
	copy(out, s.likes)
	return out
}

// Ratings returns the cached rated-movies list.
func (s *Service) Ratings() []models.UserRating {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.UserRating, len(s.ratings))
	copy(out, s.ratings)
	return out
}

// Unlike removes movieID from the liked list optimistically and issues the
// DELETE. If the server rejects it, the row is restored at its previous
// position.
func (s *Service) Unlike(ctx context.Context, movieID models.MovieID) error {
	s.mu.Lock()
	idx := -1
	var removed models.LikedMovie
	for i, m := range s.likes {
		if m.MovieID == movieID {
			idx = i
			removed = m
			break
		}
	}
	if idx >= 0 {
		s.likes = append(s.likes[:idx], s.likes[idx+1:]...)
	}
	s.mu.Unlock()

	if err := s.api.Delete(ctx, "/movies/"+movieID.String()+"/like"); err != nil {
		if idx >= 0 {
			s.mu.Lock()
			if idx > len(s.likes) {
				idx = len(s.likes)
			}
			likes := make([]models.LikedMovie, 0, len(s.likes)+1)
			likes = append(likes, s.likes[:idx]...)
			likes = append(likes, removed)
			likes = append(likes, s.likes[idx:]...)
			s.likes = likes
			s.mu.Unlock()
		}
		return fmt.Errorf("unlike %s: %w", movieID, err)
	}
	return nil
}
