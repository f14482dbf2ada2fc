package onboarding

import "testing"

func TestDragTransformTracksFinger(t *testing.T) {
	tr := DragTransform(100, -20, 400)
	if tr.TranslateX != 100 || tr.TranslateY != -20 {
		t.Errorf("translation = (%v, %v), want (100, -20)", tr.TranslateX, tr.TranslateY)
	}
	if tr.RotateDeg != 7.5 {
		t.Errorf("rotation = %v, want 7.5", tr.RotateDeg)
	}
}

func TestDragTransformClampsRotation(t *testing.T) {
	if got := DragTransform(1200, 0, 400).RotateDeg; got != 30 {
		t.Errorf("right overdrag rotation = %v, want 30", got)
	}
	if got := DragTransform(-1200, 0, 400).RotateDeg; got != -30 {
		t.Errorf("left overdrag rotation = %v, want -30", got)
	}
}

func TestNeutralTransformIsZero(t *testing.T) {
	if NeutralTransform() != (CardTransform{}) {
		t.Error("neutral transform not zero")
	}
}

func TestCommitThreshold(t *testing.T) {
	const width = 400.0
	cases := []struct {
		name   string
		dx     float64
		liked  bool
		commit bool
	}{
		{"right past threshold", width * 0.45, true, true},
		{"left past threshold", -width * 0.45, false, true},
		{"below threshold", width * 0.3, false, false},
		{"exactly at threshold", width * SwipeThresholdRatio, false, false},
		{"no movement", 0, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			liked, commit := commitsDecision(tc.dx, width)
			if commit != tc.commit || liked != tc.liked {
				t.Errorf("commitsDecision(%v) = (%v, %v), want (%v, %v)",
					tc.dx, liked, commit, tc.liked, tc.commit)
			}
		})
	}
}
