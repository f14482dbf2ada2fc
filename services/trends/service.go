package trends

import (
	"context"
	"errors"
	"net/url"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"

	"cinemind/internal/api"
	"cinemind/models"
)

var ErrDashboardUnavailable = errors.New("no trend data available")

// SortBy orders the box-office chart.
type SortBy string

const (
	SortByRank     SortBy = "rank"
	SortByAudience SortBy = "audience"
)

// Dashboard is everything the trends tab shows. Sections that failed to load
// are left zero-valued; the screen renders a placeholder card for them.
type Dashboard struct {
	BoxOffice     []models.BoxOfficeMovie
	Battle        *models.BoxOfficeBattle
	PopularPerson *models.WeeklyPopularPerson
	NewReleases   []models.TrendingMovie
}

// Service loads the box-office trend dashboard.
type Service struct {
	api *api.Client
	log *logrus.Logger
}

func NewService(client *api.Client, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.New()
	}
	return &Service{api: client, log: log}
}

// Load fetches the four dashboard sections in parallel. Each section is best
// effort: a failed leg is logged and its section left empty, so a partial
// dashboard still renders. Only when every leg fails does Load return an
// error.
func (s *Service) Load(ctx context.Context, sortBy SortBy) (Dashboard, error) {
	if sortBy == "" {
		sortBy = SortByAudience
	}

	var dash Dashboard
	var failures atomic.Int32

	leg := func(name string, fetch func(ctx context.Context) error) func(context.Context) error {
		return func(ctx context.Context) error {
			if err := fetch(ctx); err != nil {
				s.log.WithField("section", name).WithError(err).Warn("trend section failed")
				failures.Add(1)
			}
			return nil
		}
	}

	p := pool.New().WithContext(ctx)
	p.Go(leg("box-office", func(ctx context.Context) error {
		query := url.Values{}
		query.Set("sort_by", string(sortBy))
		return s.api.Get(ctx, "/movies/box-office", query, &dash.BoxOffice)
	}))
	p.Go(leg("battle", func(ctx context.Context) error {
		return s.api.Get(ctx, "/movies/box-office/battle", nil, &dash.Battle)
	}))
	p.Go(leg("popular-person", func(ctx context.Context) error {
		return s.api.Get(ctx, "/person/weekly-popular", nil, &dash.PopularPerson)
	}))
	p.Go(leg("new-releases", func(ctx context.Context) error {
		return s.api.Get(ctx, "/movies/new-releases", nil, &dash.NewReleases)
	}))
	_ = p.Wait()

	if failures.Load() == 4 {
		return Dashboard{}, ErrDashboardUnavailable
	}
	return dash, nil
}

// TopThree slices the chart for the podium section and returns the largest
// audience figure for scaling the share bars.
func (d Dashboard) TopThree(sortBy SortBy) ([]models.BoxOfficeMovie, int64) {
	top := d.BoxOffice
	if len(top) > 3 {
		top = top[:3]
	}
	var max int64
	for _, m := range top {
		n := m.Audience
		if sortBy == SortByRank {
			n = m.DailyAudience
		}
		if n > max {
			max = n
		}
	}
	return top, max
}
