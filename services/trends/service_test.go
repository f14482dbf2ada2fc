package trends

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"cinemind/internal/api"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

func newTestService(rt roundTripFunc) *Service {
	client := api.NewClient(api.ClientConfig{
		BaseURL: "http://cinemind.test",
		HTTPC:   &http.Client{Transport: rt},
	})
	return NewService(client, nil)
}

const boxOfficeBody = `[
	{"id":"20240001","rank":1,"title":"서울의 봄","release":"2023-11-22","audience":12000000,"daily_audience":52000},
	{"id":"20240002","rank":2,"title":"파묘","release":"2024-02-22","audience":11000000,"daily_audience":61000},
	{"id":"20240003","rank":3,"title":"범죄도시 4","release":"2024-04-24","audience":9000000,"daily_audience":43000},
	{"id":"20240004","rank":4,"title":"웡카","release":"2024-01-31","audience":3000000,"daily_audience":12000}
]`

func TestLoadPopulatesDashboard(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		switch req.URL.Path {
		case "/movies/box-office":
			if got := req.URL.Query().Get("sort_by"); got != "audience" {
				t.Errorf("sort_by = %q", got)
			}
			return jsonResponse(http.StatusOK, boxOfficeBody), nil
		case "/movies/box-office/battle":
			return jsonResponse(http.StatusOK, `{"korean":{"id":"20240001","rank":1,"title":"서울의 봄","release":"","audience":12000000,"daily_audience":52000},"foreign":null}`), nil
		case "/person/weekly-popular":
			return jsonResponse(http.StatusOK, `{"id":"p1","name":"마동석"}`), nil
		case "/movies/new-releases":
			return jsonResponse(http.StatusOK, `[{"id":693134,"title":"Dune: Part Two","poster_url":"p"}]`), nil
		}
		t.Errorf("unexpected path %q", req.URL.Path)
		return jsonResponse(http.StatusNotFound, `{}`), nil
	})
	s := newTestService(rt)

	dash, err := s.Load(context.Background(), SortByAudience)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(dash.BoxOffice) != 4 {
		t.Errorf("box office rows = %d", len(dash.BoxOffice))
	}
	if dash.Battle == nil || dash.Battle.Korean == nil || dash.Battle.Foreign != nil {
		t.Errorf("battle = %+v", dash.Battle)
	}
	if dash.PopularPerson == nil || dash.PopularPerson.Name != "마동석" {
		t.Errorf("person = %+v", dash.PopularPerson)
	}
	if len(dash.NewReleases) != 1 {
		t.Errorf("new releases = %d", len(dash.NewReleases))
	}

	top, max := dash.TopThree(SortByAudience)
	if len(top) != 3 {
		t.Errorf("top three = %d entries", len(top))
	}
	if max != 12000000 {
		t.Errorf("max audience = %d", max)
	}
}

func TestLoadToleratesPartialFailure(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path == "/movies/box-office" {
			return jsonResponse(http.StatusOK, boxOfficeBody), nil
		}
		return jsonResponse(http.StatusNotFound, `{}`), nil
	})
	s := newTestService(rt)

	dash, err := s.Load(context.Background(), SortByRank)
	if err != nil {
		t.Fatalf("partial failure must not fail the dashboard: %v", err)
	}
	if len(dash.BoxOffice) != 4 {
		t.Errorf("box office rows = %d", len(dash.BoxOffice))
	}
	if dash.Battle != nil || dash.PopularPerson != nil || len(dash.NewReleases) != 0 {
		t.Errorf("failed sections should stay empty: %+v", dash)
	}
}

func TestLoadFailsWhenEverySectionFails(t *testing.T) {
	rt := roundTripFunc(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusNotFound, `{}`), nil
	})
	s := newTestService(rt)

	if _, err := s.Load(context.Background(), SortByAudience); !errors.Is(err, ErrDashboardUnavailable) {
		t.Fatalf("err = %v, want ErrDashboardUnavailable", err)
	}
}
