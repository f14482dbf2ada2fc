package library

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinemind/internal/apitest"
	"cinemind/models"
	"cinemind/services/events"
)

func TestRefreshAndReadLists(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	srv.Likes = []models.LikedMovie{
		{MovieID: "1", Title: "어바웃 타임"},
		{MovieID: "2", Title: "라라랜드"},
	}
	srv.Ratings = []models.UserRating{
		{MovieID: "1", Title: "어바웃 타임", Rating: 5},
	}

	s := NewService(Options{API: srv.Client("tok")})
	defer s.Close()

	require.NoError(t, s.RefreshLikes(context.Background()))
	require.NoError(t, s.RefreshRatings(context.Background()))
	assert.Len(t, s.Likes(), 2)
	assert.Len(t, s.Ratings(), 1)
}

func TestUnlikeRemovesOptimistically(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	srv.Likes = []models.LikedMovie{
		{MovieID: "1", Title: "A"},
		{MovieID: "2", Title: "B"},
		{MovieID: "3", Title: "C"},
	}

	s := NewService(Options{API: srv.Client("")})
	defer s.Close()
	require.NoError(t, s.RefreshLikes(context.Background()))

	require.NoError(t, s.Unlike(context.Background(), "2"))

	likes := s.Likes()
	require.Len(t, likes, 2)
	assert.Equal(t, models.MovieID("1"), likes[0].MovieID)
	assert.Equal(t, models.MovieID("3"), likes[1].MovieID)
	assert.Equal(t, []string{"DELETE 2"}, srv.LikeCalls())
}

func TestUnlikeFailureRestoresRow(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	srv.Likes = []models.LikedMovie{
		{MovieID: "1", Title: "A"},
		{MovieID: "2", Title: "B"},
		{MovieID: "3", Title: "C"},
	}

	s := NewService(Options{API: srv.Client("")})
	defer s.Close()
	require.NoError(t, s.RefreshLikes(context.Background()))

	srv.SetLikeStatus(http.StatusBadGateway)
	require.Error(t, s.Unlike(context.Background(), "2"))

	likes := s.Likes()
	require.Len(t, likes, 3)
	assert.Equal(t, models.MovieID("2"), likes[1].MovieID, "row must come back at its old position")
}

func TestRatingCommittedRefreshesRatings(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	bus := events.NewBus()
	s := NewService(Options{API: srv.Client(""), Bus: bus})
	defer s.Close()

	srv.SetRatings([]models.UserRating{{MovieID: "42", Title: "New", Rating: 4}})
	bus.Publish(events.RatingCommitted{MovieID: "42", Rating: 4})

	ratings := s.Ratings()
	require.Len(t, ratings, 1)
	assert.Equal(t, 4, ratings[0].Rating)
}
