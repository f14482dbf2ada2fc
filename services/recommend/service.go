package recommend

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/sirupsen/logrus"

	"cinemind/internal/api"
	"cinemind/models"
	"cinemind/services/events"
)

// Coordinator fetches the recommendation list for an optional mood tag and
// refetches it whenever the tag changes, the consuming screen regains focus,
// or a rating is committed anywhere in the app. There is no cache across tag
// values: every change is a full refetch, which is fine at these list sizes.
type Coordinator struct {
	api *api.Client
	log *logrus.Logger

	mu      sync.Mutex
	moodTag string
	items   []models.TrendingMovie
	loading bool
	errMsg  string

	unsubscribe func()
}

type Options struct {
	API    *api.Client
	Bus    *events.Bus
	Logger *logrus.Logger
}

func NewCoordinator(opts Options) *Coordinator {
	log := opts.Logger
	if log == nil {
		log = logrus.New()
	}
	c := &Coordinator{api: opts.API, log: log}
	if opts.Bus != nil {
		c.unsubscribe = opts.Bus.Subscribe(func(events.RatingCommitted) {
			// A committed rating can reshuffle recommendations; refetch with
			// whatever mood is currently selected.
			if err := c.Refetch(context.Background()); err != nil {
				log.WithError(err).Warn("recommendations refetch after rating failed")
			}
		})
	}
	return c
}

// Close drops the bus subscription.
func (c *Coordinator) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}

// Fetch loads recommendations filtered by moodTag (empty means unfiltered)
// and remembers the tag for subsequent refetches. On failure the list is
// reset to empty, never left stale.
func (c *Coordinator) Fetch(ctx context.Context, moodTag string) error {
	c.mu.Lock()
	c.moodTag = moodTag
	c.loading = true
	c.errMsg = ""
	c.mu.Unlock()

	query := url.Values{}
	if moodTag != "" {
		query.Set("mood_tag", moodTag)
	}

	var items []models.TrendingMovie
	err := c.api.Get(ctx, "/movies/recommendations", query, &items)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false

	if err != nil {
		c.items = nil
		c.errMsg = api.ErrorDetail(err, "failed to load recommendations")
		return fmt.Errorf("fetch recommendations: %w", err)
	}

	c.items = items
	return nil
}

// Refetch repeats the last fetch with the currently selected mood tag. This
// is the stable callback screens hand to focus effects and the event bus.
func (c *Coordinator) Refetch(ctx context.Context) error {
	c.mu.Lock()
	moodTag := c.moodTag
	c.mu.Unlock()
	return c.Fetch(ctx, moodTag)
}

// Recommendations returns the current list along with the loading flag and
// the last user-facing error message (empty when the last fetch succeeded).
func (c *Coordinator) Recommendations() ([]models.TrendingMovie, bool, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.TrendingMovie, len(c.items))
	copy(out, c.items)
	return out, c.loading, c.errMsg
}
