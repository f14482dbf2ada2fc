package onboarding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/sirupsen/logrus"

	"cinemind/internal/api"
	"cinemind/models"
)

var (
	ErrDeckNotLoaded = errors.New("deck not loaded")
	ErrEmptyDeck     = errors.New("no onboarding candidates for mood")
	ErrDeckExhausted = errors.New("deck already exhausted")
)

// Ratings projected from the binary swipe decision.
const (
	likedRating    = 5
	dislikedRating = 1
)

// Flow drives the onboarding swipe deck: one candidate at a time, each
// decision persisted as a rating and the liked set handed off when the deck
// runs out. A Flow belongs to exactly one onboarding run; a fresh run needs
// a fresh LoadDeck.
type Flow struct {
	api *api.Client
	log *logrus.Logger

	// onComplete receives the liked movie ids, JSON-serialized, the way the
	// results stage expects them as a navigation parameter.
	onComplete func(likedJSON string)

	mu        sync.Mutex
	loaded    bool
	done      bool
	items     []models.OnboardingMovie
	cursor    int
	liked     []models.MovieID
	decisions map[models.MovieID]bool
}

type Options struct {
	API        *api.Client
	Logger     *logrus.Logger
	OnComplete func(likedJSON string)
}

func NewFlow(opts Options) *Flow {
	log := opts.Logger
	if log == nil {
		log = logrus.New()
	}
	return &Flow{
		api:        opts.API,
		log:        log,
		onComplete: opts.OnComplete,
		decisions:  make(map[models.MovieID]bool),
	}
}

// LoadDeck fetches the mood-filtered candidate deck. An empty result is a
// failure here, not a valid deck: the flow has nothing to show, so the
// screen falls into a terminal error state (no automatic retry).
func (f *Flow) LoadDeck(ctx context.Context, mood string) error {
	query := url.Values{}
	if mood != "" {
		query.Set("mood", mood)
	}

	var items []models.OnboardingMovie
	if err := f.api.Get(ctx, "/movies/onboarding", query, &items); err != nil {
		return fmt.Errorf("load onboarding deck: %w", err)
	}
	if len(items) == 0 {
		return ErrEmptyDeck
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loaded = true
	f.done = false
	f.items = items
	f.cursor = 0
	f.liked = nil
	f.decisions = make(map[models.MovieID]bool, len(items))
	return nil
}

// Current returns the candidate under the top card, if any.
func (f *Flow) Current() (models.OnboardingMovie, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.loaded || f.cursor >= len(f.items) {
		return models.OnboardingMovie{}, false
	}
	return f.items[f.cursor], true
}

// Progress reports cursor / deck length: 0 before any decision, exactly 1
// when the deck is exhausted.
func (f *Flow) Progress() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.loaded || len(f.items) == 0 {
		return 0
	}
	return float64(f.cursor) / float64(len(f.items))
}

// LikedIDs returns the ids the user swiped right on, in decision order.
func (f *Flow) LikedIDs() []models.MovieID {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.MovieID, len(f.liked))
	copy(out, f.liked)
	return out
}

// Release resolves a drag released at horizontal offset dx on a viewport of
// the given width. Past the threshold it commits a decision in the drag's
// direction; below it the card springs back and nothing is recorded.
func (f *Flow) Release(ctx context.Context, dx, viewportWidth float64) (bool, error) {
	liked, commit := commitsDecision(dx, viewportWidth)
	if !commit {
		return false, nil
	}
	return true, f.Decide(ctx, liked)
}

// ButtonDecide is the explicit like/dislike button press: equivalent to a
// synthetic full-threshold release in the corresponding direction.
func (f *Flow) ButtonDecide(ctx context.Context, liked bool) error {
	return f.Decide(ctx, liked)
}

// Decide commits a decision for the current top card: the rating submission
// is fired best-effort (a failure is logged, never blocks advancement), the
// liked set grows if the card was liked, and the cursor advances. Deciding
// the final card terminates the flow and hands the liked ids to the results
// stage.
func (f *Flow) Decide(ctx context.Context, liked bool) error {
	f.mu.Lock()
	if !f.loaded {
		f.mu.Unlock()
		return ErrDeckNotLoaded
	}
	if f.done || f.cursor >= len(f.items) {
		f.mu.Unlock()
		return ErrDeckExhausted
	}
	card := f.items[f.cursor]
	f.mu.Unlock()

	// A failed rating save must never stall the deck.
	rating := dislikedRating
	if liked {
		rating = likedRating
	}
	if err := f.api.Post(ctx, "/ratings", models.RatingCreate{
		MovieID: card.MovieID.String(),
		Rating:  rating,
	}, nil); err != nil {
		f.log.WithField("movie_id", card.MovieID).WithError(err).
			Warn("onboarding rating not saved")
	}

	f.mu.Lock()
	f.decisions[card.MovieID] = liked
	if liked {
		f.liked = append(f.liked, card.MovieID)
	}
	f.cursor++
	finished := f.cursor == len(f.items)
	if finished {
		f.done = true
	}
	likedJSON := ""
	if finished {
		likedJSON = f.likedJSONLocked()
	}
	f.mu.Unlock()

	if finished && f.onComplete != nil {
		f.onComplete(likedJSON)
	}
	return nil
}

// Done reports whether the deck has been exhausted.
func (f *Flow) Done() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.done
}

func (f *Flow) likedJSONLocked() string {
	ids := f.liked
	if ids == nil {
		ids = []models.MovieID{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		// []MovieID cannot fail to marshal; keep the handoff moving anyway.
		return "[]"
	}
	return string(data)
}
