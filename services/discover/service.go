package discover

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"

	"cinemind/internal/api"
	"cinemind/models"
)

// genresToShow picks which genre carousels the explore tab renders, in order.
var genresToShow = []string{"액션", "코미디", "로맨스", "SF"}

// fixedCarousels are the curated rows that always lead the explore tab.
var fixedCarousels = []struct {
	Title string
	Path  string
}{
	{"새로운 발견", "/movies/all-random"},
	{"요즘 뜨는 영화", "/movies/trending"},
	{"현재 상영중인 영화", "/movies/now_playing"},
	{"평점 높은 명작", "/movies/top_rated"},
}

// Carousel is one horizontally scrolled row of the explore tab. Movies carry
// only list-item identity; tapping one opens a detail session with its Ref.
type Carousel struct {
	Title  string
	Path   string
	Movies []models.MovieRef
}

// Service loads the explore tab's carousels and serves catalog search.
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

// Carousels assembles the explore rows: the fixed rows plus one row per
// featured genre. All list fetches run in parallel; any failing leg fails
// the whole load, matching the screen's all-or-nothing render.
func (s *Service) Carousels(ctx context.Context) ([]Carousel, error) {
	var genres []models.Genre
	if err := s.api.Get(ctx, "/genres", nil, &genres); err != nil {
		return nil, fmt.Errorf("load genres: %w", err)
	}

	rows := make([]Carousel, 0, len(fixedCarousels)+len(genresToShow))
	for _, c := range fixedCarousels {
		rows = append(rows, Carousel{Title: c.Title, Path: c.Path})
	}
	for _, want := range genresToShow {
		for _, g := range genres {
			if g.Name == want {
				rows = append(rows, Carousel{
					Title: g.Name,
					Path:  "/movies/genre/" + strconv.Itoa(g.ID),
				})
				break
			}
		}
	}

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	for i := range rows {
		row := &rows[i]
		p.Go(func(ctx context.Context) error {
			var movies []models.MovieRef
			if err := s.api.Get(ctx, row.Path, nil, &movies); err != nil {
				return fmt.Errorf("load carousel %q: %w", row.Title, err)
			}
			row.Movies = movies
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	return rows, nil
}

// Search queries the catalog by title.
func (s *Service) Search(ctx context.Context, queryText string) ([]models.TrendingMovie, error) {
	query := url.Values{}
	query.Set("query", queryText)

	var results []models.TrendingMovie
	if err := s.api.Get(ctx, "/movies/search", query, &results); err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}
	return results, nil
}
