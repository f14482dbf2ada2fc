package models

// Mood is one of the fixed elicitation moods offered during onboarding. The
// keywords map a mood to catalog genre names on the server side; the client
// only passes the mood name through.
type Mood struct {
	Name     string
	Emoji    string
	Keywords []string
}

// Moods is the product's fixed mood palette, in display order.
var Moods = []Mood{
	{Name: "신나는", Emoji: "😄", Keywords: []string{"액션", "모험"}},
	{Name: "감성적인", Emoji: "😢", Keywords: []string{"드라마", "로맨스"}},
	{Name: "설레는", Emoji: "💖", Keywords: []string{"로맨스", "코미디"}},
	{Name: "긴장감 넘치는", Emoji: "😨", Keywords: []string{"스릴러", "미스터리", "공포"}},
	{Name: "웃고 싶은", Emoji: "😂", Keywords: []string{"코미디"}},
	{Name: "생각에 잠기는", Emoji: "🤔", Keywords: []string{"다큐멘터리", "역사", "드라마"}},
}

// MoodByName looks a mood up by its display name.
func MoodByName(name string) (Mood, bool) {
	for _, m := range Moods {
		if m.Name == name {
			return m, true
		}
	}
	return Mood{}, false
}
