package domain

// ScoreFromDistance maps a raw angular distance onto a presentation
// score: identical direction (d=0) scores 1.0, maximally dissimilar
// (d=2) scores 0.0, linearly in between. The result is clamped to
// [0, 1] to guard against floating-point overshoot.
func ScoreFromDistance(distance float64) float64 {
	score := 1 - distance/2
	if score > 1 {
		return 1
	}
	if score < 0 {
		return 0
	}
	return score
}
