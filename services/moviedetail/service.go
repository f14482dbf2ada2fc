package moviedetail

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"cinemind/internal/api"
	"cinemind/models"
	"cinemind/services/events"
)

var (
	ErrNoRatingSelected = errors.New("no rating selected")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
	ErrNoActiveSession  = errors.New("no active detail session")
)

// Source selects which catalog the detail endpoint is resolved against.
// It is fixed at session-open time and never changes for the session's life.
type Source int

const (
	PrimaryCatalog Source = iota
	ExternalCatalog
)

func (s Source) detailPath(id models.MovieID) string {
	if s == ExternalCatalog {
		return "/movies/tmdb/" + id.String()
	}
	return "/movies/" + id.String()
}

// Notifier surfaces transient user-facing feedback (alerts, toasts). The
// rendering side is supplied by the embedding screen.
type Notifier interface {
	Success(message string)
	Failure(message string)
}

// Haptic is the optional tactile acknowledgment hook. Calls are best effort
// and must never block or fail the flow.
type Haptic interface {
	Acknowledge()
}

// Session is a snapshot of the controller's state. Ref is set the moment the
// session opens so a title renders before the detail round trip completes;
// Detail replaces it as the authoritative payload once the fetch resolves.
type Session struct {
	Open          bool
	Ref           models.MovieRef
	Detail        *models.MovieDetails
	LoadingDetail bool
	Source        Source
}

// Controller owns the lifecycle of "a movie is being inspected": one
// transient session at a time, lazily fetched detail, and the two mutation
// actions (rate, like) with optimistic merges and rollback on failure.
//
// Detail-fetch failure closes the session (a detail view must never stay
// open with no usable content); mutation failures keep it open and annotate
// instead. That asymmetry is intentional.
type Controller struct {
	api    *api.Client
	bus    *events.Bus
	notify Notifier
	haptic Haptic
	log    *logrus.Logger

	mu   sync.Mutex
	gen  uint64 // bumped on every open/close; guards stale resolutions
	sess Session
}

type Options struct {
	API      *api.Client
	Bus      *events.Bus
	Notifier Notifier
	Haptic   Haptic
	Logger   *logrus.Logger
}

func NewController(opts Options) *Controller {
	log := opts.Logger
	if log == nil {
		log = logrus.New()
	}
	return &Controller{
		api:    opts.API,
		bus:    opts.Bus,
		notify: opts.Notifier,
		haptic: opts.Haptic,
		log:    log,
	}
}

// Session returns a copy of the current session state.
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Session {
	snap := c.sess
	if c.sess.Detail != nil {
		detail := *c.sess.Detail
		snap.Detail = &detail
	}
	return snap
}

// OpenSession starts a fresh session for ref, replacing any previous one.
// The ref becomes visible immediately; the detail fetch then runs on the
// calling goroutine and replaces the subject wholesale on success. On
// failure the session is closed and the server's message surfaced.
//
// A resolution belonging to a superseded session (another open or a close
// happened while the fetch was in flight) is discarded rather than applied.
func (c *Controller) OpenSession(ctx context.Context, ref models.MovieRef, source Source) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.sess = Session{
		Open:          true,
		Ref:           ref,
		Detail:        nil,
		LoadingDetail: true,
		Source:        source,
	}
	c.mu.Unlock()

	var detail models.MovieDetails
	err := c.api.Get(ctx, source.detailPath(ref.ID), nil, &detail)

	c.mu.Lock()
	if c.gen != gen {
		// A newer session replaced this one while the fetch was pending.
		c.mu.Unlock()
		c.log.WithField("movie_id", ref.ID).Debug("discarding stale detail response")
		return nil
	}

	if err != nil {
		c.sess = Session{}
		c.mu.Unlock()
		c.failure(api.ErrorDetail(err, "failed to load movie details"))
		return fmt.Errorf("load detail for %s: %w", ref.ID, err)
	}

	c.sess.Detail = &detail
	c.sess.LoadingDetail = false
	c.mu.Unlock()
	return nil
}

// CloseSession resets the controller to its closed state. Idempotent.
func (c *Controller) CloseSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.sess = Session{}
}

// SubmitRating persists a 1..5 star rating for movieID. The rating is merged
// into the visible detail optimistically and rolled back if the POST fails.
// A successful save is a terminal action: the session closes, subscribers
// are told a rating was committed, and the user gets a toast.
func (c *Controller) SubmitRating(ctx context.Context, movieID models.MovieID, rating int, comment *string) error {
	if rating == 0 {
		return ErrNoRatingSelected
	}
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}

	c.mu.Lock()
	if !c.sess.Open {
		c.mu.Unlock()
		return ErrNoActiveSession
	}
	gen := c.gen

	var prevRating *int
	var prevComment *string
	if c.sess.Detail != nil {
		prevRating = c.sess.Detail.UserRating
		prevComment = c.sess.Detail.Comment
		c.sess.Detail.UserRating = &rating
		c.sess.Detail.Comment = comment
	}
	c.mu.Unlock()

	err := c.api.Post(ctx, "/ratings", models.RatingCreate{
		MovieID: movieID.String(),
		Rating:  rating,
		Comment: comment,
	}, nil)

	c.mu.Lock()
	if err != nil {
		if c.gen == gen && c.sess.Detail != nil {
			c.sess.Detail.UserRating = prevRating
			c.sess.Detail.Comment = prevComment
		}
		c.mu.Unlock()
		c.failure(api.ErrorDetail(err, "failed to save rating"))
		return fmt.Errorf("save rating for %s: %w", movieID, err)
	}

	if c.gen == gen {
		c.gen++
		c.sess = Session{}
	}
	c.mu.Unlock()

	if c.bus != nil {
		c.bus.Publish(events.RatingCommitted{MovieID: movieID, Rating: rating})
	}
	c.success("rating saved")
	c.acknowledge()
	return nil
}

// ToggleLike flips the liked flag for movieID. The flag is applied to the
// visible detail before the request goes out and reverted if it fails.
// This action never closes the session.
func (c *Controller) ToggleLike(ctx context.Context, movieID models.MovieID, nextIsLiked bool) error {
	c.mu.Lock()
	if !c.sess.Open {
		c.mu.Unlock()
		return ErrNoActiveSession
	}
	gen := c.gen

	var prev *bool
	if c.sess.Detail != nil {
		prev = c.sess.Detail.IsLiked
		liked := nextIsLiked
		c.sess.Detail.IsLiked = &liked
	}
	c.mu.Unlock()

	path := "/movies/" + movieID.String() + "/like"
	var err error
	if nextIsLiked {
		err = c.api.Post(ctx, path, nil, nil)
	} else {
		err = c.api.Delete(ctx, path)
	}

	c.mu.Lock()
	if err != nil {
		if c.gen == gen && c.sess.Detail != nil {
			c.sess.Detail.IsLiked = prev
		}
		c.mu.Unlock()
		c.failure(api.ErrorDetail(err, "failed to update like status"))
		return fmt.Errorf("toggle like for %s: %w", movieID, err)
	}
	c.mu.Unlock()

	c.acknowledge()
	return nil
}

func (c *Controller) success(message string) {
	if c.notify != nil {
		c.notify.Success(message)
	}
}

func (c *Controller) failure(message string) {
	if c.notify != nil {
		c.notify.Failure(message)
	}
}

func (c *Controller) acknowledge() {
	if c.haptic != nil {
		c.haptic.Acknowledge()
	}
}
