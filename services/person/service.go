package person

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"cinemind/internal/api"
	"cinemind/models"
)

// fallbackCategory buckets filmography rows whose category is missing.
const fallbackCategory = "기타"

// FilmoGroup is one section of a person's filmography, keyed by the person's
// role in those movies (감독, 배우, ...).
type FilmoGroup struct {
	Category string
	Movies   []models.FilmoItem
}

// Service loads film-person detail pages. Tapping a filmography row opens a
// detail session with the row's Ref against the primary catalog.
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

// Details fetches a person by their primary-catalog person code.
func (s *Service) Details(ctx context.Context, personID string) (models.PersonDetails, error) {
	var details models.PersonDetails
	if err := s.api.Get(ctx, "/person/"+personID, nil, &details); err != nil {
		return models.PersonDetails{}, fmt.Errorf("load person %s: %w", personID, err)
	}
	return details, nil
}

// GroupFilmography buckets filmography rows by category, in order of first
// appearance; rows without a category land in a 기타 group.
func GroupFilmography(filmos []models.FilmoItem) []FilmoGroup {
	var groups []FilmoGroup
	index := make(map[string]int)

	for _, f := range filmos {
		category := f.Category
		if category == "" {
			category = fallbackCategory
		}
		i, ok := index[category]
		if !ok {
			i = len(groups)
			index[category] = i
			groups = append(groups, FilmoGroup{Category: category})
		}
		groups[i].Movies = append(groups[i].Movies, f)
	}
	return groups
}
