package models

// PersonDetails is the payload of GET /person/{id}: a film person from the
// primary catalog with their filmography. Field names follow the catalog's
// wire format.
type PersonDetails struct {
	ID          string      `json:"personCd"`
	Name        string      `json:"personNm"`
	MainRole    string      `json:"repRoleNm"`
	Filmography []FilmoItem `json:"filmos"`
}

// FilmoItem is one filmography row. Category is the person's role in that
// movie (감독, 배우, ...) and may be empty.
type FilmoItem struct {
	MovieID  MovieID `json:"movieCd"`
	Title    string  `json:"movieNm"`
	Category string  `json:"category"`
}

// Ref returns the row's identity for opening a detail session. Filmography
// ids are primary-catalog movie codes.
func (f FilmoItem) Ref() MovieRef {
	return MovieRef{ID: f.MovieID, Title: f.Title}
}
