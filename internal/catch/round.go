// internal/catch/round.go
//
// Round controller for a single play session.
// Responsibilities:
//   - Start: pick the configuration item, build pool/sequence, reset counters.
//   - Tick: advance the spawn timer, spawn, move objects, resolve catches.
//   - Move: horizontal player input (fine for keys, coarse for taps).
//   - Track phase transitions: idle → running → finished.
//
// Notes:
//   - Timestamps are milliseconds on any monotonic clock the caller owns
//     (requestAnimationFrame time, time.Since(origin), ...).
//   - A Round is not safe for concurrent use; exactly one goroutine drives it.
//   - Once finished, nothing mutates the round until the next Start.
package catch

import "math"

// Round holds the state of one round and the tuning it was built with.
type Round struct {
	ID string // set by the owner; the engine never reads it

	params Params
	rng    Rand
	policy SpawnPolicy

	phase   Phase
	mode    Mode
	spawn   SpawnConfig
	seq     *Sequence
	objects *Registry
	player  Box
	board   Scoreboard

	spawnTimer float64 // ms since last spawn
	clock      float64 // last tick timestamp
	startedAt  float64
	elapsed    float64 // frozen at finish
}

// NewRound constructs an idle round. Params are normalized.
func NewRound(p Params, rng Rand) *Round {
	p = p.Normalize()
	r := &Round{
		params:  p,
		rng:     rng,
		policy:  SpawnPolicy{PreferNeed: p.PreferNeed, Fallback: p.FallbackToken},
		phase:   PhaseIdle,
		objects: NewRegistry(p.BalloonWidth, p.BalloonHeight),
		player: Box{
			Y: p.StageHeight - p.PlayerHeight,
			W: p.PlayerWidth,
			H: p.PlayerHeight,
		},
	}
	r.centerPlayer()
	return r
}

// Start begins a new round from items, preferring one played in mode.
// Any previous round state is discarded first. If nothing can be played
// (ErrNoItems, ErrEmptySequence) the round stays idle with zeroed counters.
func (r *Round) Start(items []Item, mode Mode, ts float64) ([]Event, error) {
	r.reset(ts)

	item, err := SelectItem(items, mode)
	if err != nil {
		return nil, err
	}
	setup, err := NewSetup(item, r.params)
	if err != nil {
		return nil, err
	}

	r.mode = setup.Mode
	r.spawn = setup.Spawn
	r.seq = setup.Sequence
	r.phase = PhaseRunning
	return []Event{{Kind: EventStart}}, nil
}

// Stop abandons a running round and returns it to idle. No result is kept.
func (r *Round) Stop() {
	if r.phase == PhaseRunning {
		r.reset(r.clock)
	}
}

// Tick advances the round to timestamp ts and returns what happened.
// Outside the running phase it does nothing.
func (r *Round) Tick(ts float64) []Event {
	if r.phase != PhaseRunning {
		return nil
	}

	dt := math.Max(0, math.Min(r.params.MaxFrameDelta, ts-r.clock))
	r.clock = ts

	r.spawnTimer += dt
	if r.spawnTimer >= r.spawn.SpawnInterval {
		r.spawnTimer = 0
		need, ok := r.seq.Current()
		tok := r.policy.Choose(r.rng, need, ok, r.spawn.Pool)
		r.objects.Spawn(tok, r.spawnX(), r.spawn.FallSpeed)
	}

	r.objects.AdvanceAll(dt)

	var events []Event
	bottom := r.params.StageHeight + r.params.PruneMargin
	r.objects.Prune(func(o Object) bool {
		if r.phase != PhaseRunning {
			return false
		}
		if Overlaps(r.player, r.objects.Box(o)) {
			events = append(events, r.resolve(o.Token, ts)...)
			return true
		}
		return o.Y > bottom
	})
	return events
}

// Move shifts the player horizontally, clamped to the stage.
// Input is ignored unless the round is running.
func (r *Round) Move(dir Direction, step Step) {
	if r.phase != PhaseRunning {
		return
	}
	d := r.params.KeyMove
	if step == StepCoarse {
		d = r.params.TapMove
	}
	r.player.X = clamp(r.player.X+float64(dir)*d, 0, r.maxPlayerX())
}

// resolve applies one caught token.
func (r *Round) resolve(tok Token, ts float64) []Event {
	out := Resolve(tok, r.seq)
	correct := out != OutcomeIncorrect
	pts := r.board.Award(correct)
	if !correct {
		return []Event{{Kind: EventIncorrect, Token: tok, Points: pts}}
	}
	ev := []Event{{Kind: EventCorrect, Token: tok, Points: pts}}
	if out == OutcomeComplete {
		r.phase = PhaseFinished
		r.elapsed = ts - r.startedAt
		ev = append(ev, Event{Kind: EventComplete})
	}
	return ev
}

func (r *Round) reset(ts float64) {
	r.phase = PhaseIdle
	r.mode = ""
	r.spawn = SpawnConfig{}
	r.seq = nil
	r.objects.Clear()
	r.board.Reset()
	r.spawnTimer = 0
	r.clock = ts
	r.startedAt = ts
	r.elapsed = 0
	r.centerPlayer()
}

func (r *Round) centerPlayer() { r.player.X = r.maxPlayerX() / 2 }

func (r *Round) maxPlayerX() float64 {
	return math.Max(0, r.params.StageWidth-r.params.PlayerWidth)
}

func (r *Round) spawnX() float64 {
	span := r.params.StageWidth - r.params.BalloonWidth
	if span <= 0 {
		return 0
	}
	return r.rng.Float64() * span
}

func clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }

// ------------------------------- accessors ---------------------------------

func (r *Round) Phase() Phase { return r.phase }
func (r *Round) Mode() Mode { return r.mode }
func (r *Round) Params() Params { return r.params }
func (r *Round) Scoreboard() Scoreboard { return r.board }
func (r *Round) Player() Box { return r.player }
func (r *Round) Objects() []Object { return r.objects.Objects() }

// Progress returns how many tokens are collected and how many are required.
func (r *Round) Progress() (done, total int) { return r.seq.Progress(), r.seq.Len() }

// Required returns the token needed next, if any.
func (r *Round) Required() (Token, bool) { return r.seq.Current() }

// ElapsedMs is the stopwatch reading: live while running, frozen once finished.
func (r *Round) ElapsedMs() int64 {
	switch r.phase {
	case PhaseRunning:
		return int64(math.Round(r.clock - r.startedAt))
	case PhaseFinished:
		return int64(math.Round(r.elapsed))
	}
	return 0
}

// Result returns the final record of a finished round.
func (r *Round) Result() (Result, error) {
	if r.phase != PhaseFinished {
		return Result{}, ErrNotFinished
	}
	return Result{Score: r.board.Score, Right: r.board.Correct, Ms: r.ElapsedMs()}, nil
}

// ObjectView is an object plus its hitbox, for renderers.
type ObjectView struct {
	ID    int   `json:"id"`
	Token Token `json:"token"`
	Box   Box   `json:"box"`
}

// Snapshot is a read-only projection of a round for rendering.
type Snapshot struct {
	Phase     Phase        `json:"phase"`
	Mode      Mode         `json:"mode,omitempty"`
	Score     int          `json:"score"`
	Combo     int          `json:"combo"`
	Correct   int          `json:"correct"`
	Progress  int          `json:"progress"`
	Length    int          `json:"length"`
	Caught    []Token      `json:"caught"`
	Player    Box          `json:"player"`
	Objects   []ObjectView `json:"objects"`
	ElapsedMs int64        `json:"elapsedMs"`
	StageW    float64      `json:"stageW"`
	StageH    float64      `json:"stageH"`
}

// Snapshot copies the current state.
func (r *Round) Snapshot() Snapshot {
	objs := r.objects.Objects()
	views := make([]ObjectView, 0, len(objs))
	for _, o := range objs {
		views = append(views, ObjectView{ID: o.ID, Token: o.Token, Box: r.objects.Box(o)})
	}
	caught := r.seq.Caught()
	if caught == nil {
		caught = []Token{}
	}
	return Snapshot{
		Phase:     r.phase,
		Mode:      r.mode,
		Score:     r.board.Score,
		Combo:     r.board.Combo,
		Correct:   r.board.Correct,
		Progress:  r.seq.Progress(),
		Length:    r.seq.Len(),
		Caught:    caught,
		Player:    r.player,
		Objects:   views,
		ElapsedMs: r.ElapsedMs(),
		StageW:    r.params.StageWidth,
		StageH:    r.params.StageHeight,
	}
}
