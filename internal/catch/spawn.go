package catch

// Rand is the random source a round draws from. *rand.Rand from
// math/rand/v2 satisfies it; tests pass a seeded one.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// SpawnConfig is fixed for the lifetime of a round.
type SpawnConfig struct {
	Pool          []Token
	FallSpeed     float64 // px/s
	SpawnInterval float64 // ms
}

// Setup is everything a round needs from its configuration item.
type Setup struct {
	Mode     Mode
	Spawn    SpawnConfig
	Sequence *Sequence
}

// SelectItem picks the first item played in mode, falling back to the
// first item of any mode. It returns ErrNoItems for an empty list.
func SelectItem(items []Item, mode Mode) (Item, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	for _, it := range items {
		if it.Mode() == mode {
			return it, nil
		}
	}
	return items[0], nil
}

// NewSetup derives the spawn config and target sequence from item.
// A nil item or an empty sequence yields ErrEmptySequence.
func NewSetup(item Item, p Params) (Setup, error) {
	if item == nil {
		return Setup{}, ErrEmptySequence
	}
	seq := item.RequiredSequence()
	if len(seq) == 0 {
		return Setup{}, ErrEmptySequence
	}
	interval := item.SpawnRate()
	if interval <= 0 {
		interval = p.SpawnRate
	}
	return Setup{
		Mode: item.Mode(),
		Spawn: SpawnConfig{
			Pool:          item.Pool(),
			FallSpeed:     p.BaseFallSpeed * item.SpeedMultiplier(),
			SpawnInterval: interval,
		},
		Sequence: NewSequence(seq),
	}, nil
}

// SpawnPolicy chooses which token to drop next.
type SpawnPolicy struct {
	// PreferNeed is the probability of dropping the token required next.
	PreferNeed float64
	// Fallback is dropped when both the pool and the sequence are empty.
	Fallback Token
}

// Choose returns the needed token with probability PreferNeed, otherwise a
// uniformly random pool member. With an empty pool it returns the needed
// token, or Fallback when nothing is needed.
func (sp SpawnPolicy) Choose(rng Rand, need Token, hasNeed bool, pool []Token) Token {
	if rng.Float64() < sp.PreferNeed && hasNeed {
		return need
	}
	if len(pool) > 0 {
		return pool[rng.IntN(len(pool))]
	}
	if hasNeed {
		return need
	}
	return sp.Fallback
}
