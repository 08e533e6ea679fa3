package catch

const (
	pointsBase     = 50
	pointsPerCombo = 10
	pointsComboCap = 50
	pointsPenalty  = 10
)

// Scoreboard tracks score, combo streak and correct catches.
type Scoreboard struct {
	Score   int `json:"score"`
	Combo   int `json:"combo"`
	Correct int `json:"correct"`
}

// PointsFor returns the award for the nth consecutive correct catch (n ≥ 1).
func PointsFor(n int) int {
	if n < 1 {
		n = 1
	}
	return pointsBase + min(pointsComboCap, pointsPerCombo*(n-1))
}

// Award applies one catch. A correct catch grows the combo and adds
// PointsFor(combo); an incorrect one resets the combo and deducts the
// penalty without going below zero. It returns the score delta.
func (s *Scoreboard) Award(correct bool) int {
	if correct {
		s.Combo++
		pts := PointsFor(s.Combo)
		s.Score += pts
		s.Correct++
		return pts
	}
	s.Combo = 0
	taken := min(pointsPenalty, s.Score)
	s.Score -= taken
	return -taken
}

func (s *Scoreboard) Reset() { *s = Scoreboard{} }
