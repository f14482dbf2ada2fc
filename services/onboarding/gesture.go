package onboarding

// SwipeThresholdRatio is the fraction of the viewport width a horizontal
// drag must travel before release commits a decision. Shorter drags spring
// back with no decision recorded.
const SwipeThresholdRatio = 0.4

// maxRotationDeg caps the card tilt at full-width drag.
const maxRotationDeg = 30.0

// CardTransform is the visual state of the top card while a drag is in
// progress. It is a pure function of the drag delta so the decision machine
// stays testable without any animation environment.
type CardTransform struct {
	TranslateX float64
	TranslateY float64
	RotateDeg  float64
}

// NeutralTransform is the resting card state.
func NeutralTransform() CardTransform {
	return CardTransform{}
}

// DragTransform maps a drag delta to card translation and rotation. The
// position tracks the finger 1:1; the rotation interpolates linearly over
// [-width, width] to [-30°, 30°], clamped at the extremes.
func DragTransform(dx, dy, viewportWidth float64) CardTransform {
	rotate := 0.0
	if viewportWidth > 0 {
		rotate = dx / viewportWidth * maxRotationDeg
		if rotate > maxRotationDeg {
			rotate = maxRotationDeg
		}
		if rotate < -maxRotationDeg {
			rotate = -maxRotationDeg
		}
	}
	return CardTransform{TranslateX: dx, TranslateY: dy, RotateDeg: rotate}
}

// commitsDecision reports whether releasing a drag at dx commits a decision,
// and in which direction (right = liked).
func commitsDecision(dx, viewportWidth float64) (liked, commit bool) {
	if viewportWidth <= 0 {
		return false, false
	}
	threshold := viewportWidth * SwipeThresholdRatio
	if dx > threshold {
		return true, true
	}
	if dx < -threshold {
		return false, true
	}
	return false, false
}
