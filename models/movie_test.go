package models

import (
	"encoding/json"
	"testing"
)

func TestMovieIDAcceptsStringAndNumber(t *testing.T) {
	cases := []struct {
		in   string
		want MovieID
	}{
		{`"20240001"`, "20240001"},
		{`603`, "603"},
		{`null`, ""},
	}
	for _, tc := range cases {
		var id MovieID
		if err := json.Unmarshal([]byte(tc.in), &id); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.in, err)
		}
		if id != tc.want {
			t.Errorf("unmarshal %s = %q, want %q", tc.in, id, tc.want)
		}
	}
}

func TestMovieIDMarshalsAsString(t *testing.T) {
	data, err := json.Marshal(MovieIDFromInt(550))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"550"` {
		t.Errorf("marshal = %s", data)
	}
}

// TestMovieRefDecodesMixedListShapes: the fixed explore carousels mix
// primary-catalog rows (string ids, kobis fields) with external-catalog rows
// (numeric ids); both must land in the common ref shape.
func TestMovieRefDecodesMixedListShapes(t *testing.T) {
	body := `[
		{"id":"20240001","rank":1,"title":"서울의 봄","audience":123,"poster_url":"a"},
		{"id":603,"title":"The Matrix","vote_average":8.7,"poster_url":"b"}
	]`
	var refs []MovieRef
	if err := json.Unmarshal([]byte(body), &refs); err != nil {
		t.Fatal(err)
	}
	if refs[0].ID != "20240001" || refs[1].ID != "603" {
		t.Errorf("ids = %q, %q", refs[0].ID, refs[1].ID)
	}
	if refs[0].Title != "서울의 봄" || refs[1].PosterURL != "b" {
		t.Errorf("refs = %+v", refs)
	}
}

func TestRefConversions(t *testing.T) {
	box := BoxOfficeMovie{ID: "1", Title: "a", PosterURL: "p"}
	if ref := box.Ref(); ref.ID != "1" || ref.Title != "a" {
		t.Errorf("box ref = %+v", ref)
	}
	ob := OnboardingMovie{MovieID: "7", Title: "b", GenreName: "드라마"}
	if ref := ob.Ref(); ref.ID != "7" || ref.GenreName != "드라마" {
		t.Errorf("onboarding ref = %+v", ref)
	}
}

func TestMoodByName(t *testing.T) {
	m, ok := MoodByName("신나는")
	if !ok || m.Emoji != "😄" || len(m.Keywords) != 2 {
		t.Errorf("mood = %+v, ok = %v", m, ok)
	}
	if _, ok := MoodByName("unknown"); ok {
		t.Error("unexpected mood match")
	}
}
