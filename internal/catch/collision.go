package catch

// Overlaps is the strict AABB test; touching edges do not overlap.
func Overlaps(a, b Box) bool {
	return a.X < b.X+b.W &&
		a.X+a.W > b.X &&
		a.Y < b.Y+b.H &&
		a.Y+a.H > b.Y
}

// Outcome of resolving one caught object.
type Outcome int

const (
	OutcomeIncorrect Outcome = iota
	OutcomeCorrect
	// OutcomeComplete is a correct catch that finished the sequence.
	OutcomeComplete
)

// Resolve matches a caught token against the sequence, advancing it on a
// match. A token caught after the sequence is exhausted is incorrect.
func Resolve(tok Token, seq *Sequence) Outcome {
	if !seq.Matches(tok) {
		return OutcomeIncorrect
	}
	seq.Advance()
	if seq.IsComplete() {
		return OutcomeComplete
	}
	return OutcomeCorrect
}
