package events

import (
	"testing"

	"cinemind/models"
)

func TestBusDeliversToAllSubscribers(t *testing.T) {
	b := NewBus()

	var got []models.MovieID
	b.Subscribe(func(ev RatingCommitted) { got = append(got, ev.MovieID) })
	b.Subscribe(func(ev RatingCommitted) { got = append(got, ev.MovieID) })

	b.Publish(RatingCommitted{MovieID: models.MovieID("7"), Rating: 5})

	if len(got) != 2 {
		t.Fatalf("deliveries = %d, want 2", len(got))
	}
	for _, id := range got {
		if id != models.MovieID("7") {
			t.Errorf("movie id = %q", id)
		}
	}
}

func TestBusCancelStopsDelivery(t *testing.T) {
	b := NewBus()

	var calls int
	cancel := b.Subscribe(func(RatingCommitted) { calls++ })

	b.Publish(RatingCommitted{MovieID: models.MovieID("1"), Rating: 1})
	cancel()
	b.Publish(RatingCommitted{MovieID: models.MovieID("2"), Rating: 5})

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	// Cancelling twice is harmless.
	cancel()
}

func TestBusPublishWithNoSubscribers(t *testing.T) {
	NewBus().Publish(RatingCommitted{MovieID: models.MovieID("9"), Rating: 5})
}

func TestBusSubscribeDuringPublish(t *testing.T) {
	b := NewBus()

	var lateCalls int
	b.Subscribe(func(RatingCommitted) {
		b.Subscribe(func(RatingCommitted) { lateCalls++ })
	})

	b.Publish(RatingCommitted{MovieID: models.MovieID("3"), Rating: 5})
	if lateCalls != 0 {
		t.Errorf("late subscriber ran during the publish that registered it")
	}

	b.Publish(RatingCommitted{MovieID: models.MovieID("4"), Rating: 5})
	if lateCalls != 1 {
		t.Errorf("late calls = %d, want 1", lateCalls)
	}
}
