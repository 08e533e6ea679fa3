// internal/catch/item.go
//
// Configuration items as a tagged variant.
// The raw JSON shape (ItemSpec) is resolved once into a LetterItem or a
// WordItem; the round only talks to the Item interface afterwards.

package catch

// ItemSpec is one configuration item as it appears in the data file.
// Only the fields relevant to the item's mode are read.
type ItemSpec struct {
	Mode        string   `json:"mode"`
	Target      string   `json:"target,omitempty"`
	TargetWords []string `json:"targetWords,omitempty"`
	Alphabet    string   `json:"alphabet,omitempty"`
	Distractors string   `json:"distractors,omitempty"`
	WordBank    []string `json:"wordBank,omitempty"`
	Speed       float64  `json:"speed,omitempty"`
	SpawnRate   float64  `json:"spawnRate,omitempty"`
}

// Item is what a round needs from a configuration item.
type Item interface {
	Mode() Mode
	// Pool lists the tokens that may be spawned.
	Pool() []Token
	// RequiredSequence lists the tokens to catch, in order.
	RequiredSequence() []Token
	// SpeedMultiplier scales the base fall speed (default 1).
	SpeedMultiplier() float64
	// SpawnRate is the spawn interval in ms, or 0 for the default.
	SpawnRate() float64
}

// Resolve turns the raw spec into its variant.
func (s ItemSpec) Resolve() Item {
	base := itemBase{speed: s.Speed, spawnRate: s.SpawnRate}
	if ParseMode(s.Mode) == ModeLetter {
		return LetterItem{
			itemBase:    base,
			Target:      s.Target,
			Alphabet:    s.Alphabet,
			Distractors: s.Distractors,
		}
	}
	return WordItem{
		itemBase:    base,
		TargetWords: append([]string(nil), s.TargetWords...),
		WordBank:    append([]string(nil), s.WordBank...),
	}
}

// ResolveAll resolves a list of specs, keeping order.
func ResolveAll(specs []ItemSpec) []Item {
	out := make([]Item, 0, len(specs))
	for _, s := range specs {
		out = append(out, s.Resolve())
	}
	return out
}

type itemBase struct {
	speed     float64
	spawnRate float64
}

func (b itemBase) SpeedMultiplier() float64 {
	if b.speed <= 0 {
		return 1
	}
	return b.speed
}

func (b itemBase) SpawnRate() float64 {
	if b.spawnRate <= 0 {
		return 0
	}
	return b.spawnRate
}

// LetterItem spells Target one character at a time.
// An empty Alphabet means DefaultAlphabet.
type LetterItem struct {
	itemBase
	Target      string
	Alphabet    string
	Distractors string
}

func (LetterItem) Mode() Mode { return ModeLetter }

func (it LetterItem) Pool() []Token {
	alphabet := it.Alphabet
	if alphabet == "" {
		alphabet = DefaultAlphabet
	}
	return splitChars(alphabet + it.Distractors)
}

func (it LetterItem) RequiredSequence() []Token { return splitChars(it.Target) }

// WordItem collects TargetWords in order. The pool is WordBank, or the
// target words themselves when no bank is given.
type WordItem struct {
	itemBase
	TargetWords []string
	WordBank    []string
}

func (WordItem) Mode() Mode { return ModeWord }

func (it WordItem) Pool() []Token {
	if len(it.WordBank) > 0 {
		return append([]Token(nil), it.WordBank...)
	}
	return append([]Token(nil), it.TargetWords...)
}

func (it WordItem) RequiredSequence() []Token {
	return append([]Token(nil), it.TargetWords...)
}

// splitChars splits s into one token per rune.
func splitChars(s string) []Token {
	out := make([]Token, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
