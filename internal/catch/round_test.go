package catch

import (
	"errors"
	"testing"
)

// fixedRand is a mutable stubRand for driving a round.
type fixedRand struct {
	f float64
	n int
}

func (s *fixedRand) Float64() float64 { return s.f }
func (s *fixedRand) IntN(int) int     { return s.n }

// narrowParams makes the stage exactly one balloon wide so every object
// spawns straight above the player.
func narrowParams() Params {
	p := DefaultParams()
	p.StageWidth = 44
	p.BalloonWidth = 44
	p.PlayerWidth = 44
	return p
}

// tigerItems falls 32 px per 40 ms frame and spawns every 15 frames, so
// one balloon is in flight at a time and it is caught 13 frames after it
// appears.
func tigerItems() []Item {
	return ResolveAll([]ItemSpec{{
		Mode:      "letter",
		Target:    "TIGER",
		Alphabet:  "TIGERX",
		Speed:     10,
		SpawnRate: 600,
	}})
}

const (
	idxT = 0
	idxI = 1
	idxG = 2
	idxE = 3
	idxR = 4
	idxX = 5
)

type driver struct {
	t   *testing.T
	r   *Round
	rng *fixedRand
	ts  float64
}

func newDriver(t *testing.T, p Params) *driver {
	rng := &fixedRand{f: 0.99}
	return &driver{t: t, r: NewRound(p, rng), rng: rng, ts: 1000}
}

func (d *driver) start(items []Item, mode Mode) {
	d.t.Helper()
	if _, err := d.r.Start(items, mode, d.ts); err != nil {
		d.t.Fatalf("Start: %v", err)
	}
}

// catchPool spawns pool[idx] and ticks until it is caught.
func (d *driver) catchPool(idx int) []Event {
	d.t.Helper()
	d.rng.n = idx
	for i := 0; i < 100; i++ {
		d.ts += 40
		if ev := d.r.Tick(d.ts); len(ev) > 0 {
			return ev
		}
	}
	d.t.Fatalf("nothing caught after 100 frames")
	return nil
}

func TestRoundStartCentersPlayer(t *testing.T) {
	r := NewRound(DefaultParams(), &fixedRand{})
	ev, err := r.Start(tigerItems(), ModeLetter, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(ev) != 1 || ev[0].Kind != EventStart {
		t.Fatalf("start events = %+v", ev)
	}
	if r.Phase() != PhaseRunning {
		t.Fatalf("phase = %q", r.Phase())
	}
	p := r.Player()
	if p.X != 298 || p.Y != 418 || p.W != 44 || p.H != 62 {
		t.Fatalf("player = %+v", p)
	}
	if done, total := r.Progress(); done != 0 || total != 5 {
		t.Fatalf("progress = %d/%d", done, total)
	}
}

func TestRoundSpellsTiger(t *testing.T) {
	d := newDriver(t, narrowParams())
	d.start(tigerItems(), ModeLetter)

	wantPts := []int{50, 60, 70, 80, 90}
	for i, idx := range []int{idxT, idxI, idxG, idxE, idxR} {
		ev := d.catchPool(idx)
		if ev[0].Kind != EventCorrect || ev[0].Points != wantPts[i] {
			t.Fatalf("catch %d: events = %+v", i, ev)
		}
		if done, _ := d.r.Progress(); done != i+1 {
			t.Fatalf("catch %d: progress = %d", i, done)
		}
		if i < 4 && len(ev) != 1 {
			t.Fatalf("catch %d: unexpected extra events %+v", i, ev)
		}
	}

	if d.r.Phase() != PhaseFinished {
		t.Fatalf("phase = %q, want finished", d.r.Phase())
	}
	sb := d.r.Scoreboard()
	if sb.Score != 350 || sb.Correct != 5 || sb.Combo != 5 {
		t.Fatalf("scoreboard = %+v", sb)
	}
	res, err := d.r.Result()
	if err != nil {
		t.Fatal(err)
	}
	if res.Score != 350 || res.Right != 5 || res.Ms != int64(d.ts-1000) {
		t.Fatalf("result = %+v (ts %v)", res, d.ts)
	}
}

func TestRoundCompleteEventFollowsLastCatch(t *testing.T) {
	d := newDriver(t, narrowParams())
	d.start(ResolveAll([]ItemSpec{{Mode: "letter", Target: "T", Alphabet: "T", Speed: 10, SpawnRate: 600}}), ModeLetter)
	ev := d.catchPool(0)
	if len(ev) != 2 || ev[0].Kind != EventCorrect || ev[1].Kind != EventComplete {
		t.Fatalf("events = %+v", ev)
	}
}

func TestRoundWrongCatches(t *testing.T) {
	d := newDriver(t, narrowParams())
	d.start(tigerItems(), ModeLetter)

	steps := []struct {
		idx       int
		kind      EventKind
		wantScore int
		wantCombo int
	}{
		{idxT, EventCorrect, 50, 1},
		{idxX, EventIncorrect, 40, 0},
		{idxT, EventIncorrect, 30, 0}, // I is required now
	}
	for i, st := range steps {
		ev := d.catchPool(st.idx)
		if ev[0].Kind != st.kind {
			t.Fatalf("step %d: kind = %q, want %q", i, ev[0].Kind, st.kind)
		}
		sb := d.r.Scoreboard()
		if sb.Score != st.wantScore || sb.Combo != st.wantCombo {
			t.Fatalf("step %d: score=%d combo=%d, want %d/%d", i, sb.Score, sb.Combo, st.wantScore, st.wantCombo)
		}
	}
	if need, _ := d.r.Required(); need != "I" {
		t.Fatalf("required = %q, want I", need)
	}
	if d.r.Scoreboard().Correct != 1 {
		t.Fatalf("correct = %d", d.r.Scoreboard().Correct)
	}
}

func TestRoundScoreNeverNegative(t *testing.T) {
	d := newDriver(t, narrowParams())
	d.start(tigerItems(), ModeLetter)
	for i := 0; i < 4; i++ {
		ev := d.catchPool(idxX)
		if ev[0].Kind != EventIncorrect {
			t.Fatalf("catch %d: %+v", i, ev)
		}
		if s := d.r.Scoreboard().Score; s != 0 {
			t.Fatalf("catch %d: score = %d", i, s)
		}
	}
}

func TestRoundEmptySelection(t *testing.T) {
	rng := &fixedRand{}
	r := NewRound(DefaultParams(), rng)
	for _, items := range [][]Item{nil, {}} {
		ev, err := r.Start(items, ModeLetter, 0)
		if !errors.Is(err, ErrNoItems) {
			t.Fatalf("err = %v, want ErrNoItems", err)
		}
		if ev != nil || r.Phase() != PhaseIdle {
			t.Fatalf("events=%v phase=%q", ev, r.Phase())
		}
	}
	for ts := 40.0; ts < 5000; ts += 40 {
		if ev := r.Tick(ts); ev != nil {
			t.Fatalf("tick on idle round produced %+v", ev)
		}
	}
	if len(r.Objects()) != 0 || r.Scoreboard() != (Scoreboard{}) {
		t.Fatalf("idle round changed: objects=%d board=%+v", len(r.Objects()), r.Scoreboard())
	}
}

func TestRoundMalformedItemDoesNotStart(t *testing.T) {
	r := NewRound(DefaultParams(), &fixedRand{})
	_, err := r.Start(ResolveAll([]ItemSpec{{Mode: "letter"}}), ModeLetter, 0)
	if !errors.Is(err, ErrEmptySequence) {
		t.Fatalf("err = %v, want ErrEmptySequence", err)
	}
	if r.Phase() != PhaseIdle {
		t.Fatalf("phase = %q", r.Phase())
	}
}

func TestRoundFallsBackToFirstItem(t *testing.T) {
	r := NewRound(DefaultParams(), &fixedRand{})
	items := ResolveAll([]ItemSpec{{Mode: "word", TargetWords: []string{"cat", "dog"}}})
	if _, err := r.Start(items, ModeLetter, 0); err != nil {
		t.Fatal(err)
	}
	if r.Mode() != ModeWord {
		t.Fatalf("mode = %q, want word", r.Mode())
	}
	if need, _ := r.Required(); need != "cat" {
		t.Fatalf("required = %q", need)
	}
}

func TestRoundMissedObjectsHaveNoEffect(t *testing.T) {
	// Default stage: the player sits at x=298, objects spawn at x≈590.
	rng := &fixedRand{f: 0.99}
	r := NewRound(DefaultParams(), rng)
	if _, err := r.Start(tigerItems(), ModeLetter, 0); err != nil {
		t.Fatal(err)
	}
	spawned := 0
	lastID := 0
	for ts := 40.0; ts <= 40*200; ts += 40 {
		if ev := r.Tick(ts); ev != nil {
			t.Fatalf("ts %v: events %+v", ts, ev)
		}
		for _, o := range r.Objects() {
			if o.Y > DefaultStageHeight {
				t.Fatalf("object %d still held at y=%v", o.ID, o.Y)
			}
			if o.ID > lastID {
				lastID = o.ID
				spawned++
			}
		}
	}
	if spawned < 10 {
		t.Fatalf("only %d objects spawned", spawned)
	}
	if len(r.Objects()) > 2 {
		t.Fatalf("registry holds %d objects; missed ones were not pruned", len(r.Objects()))
	}
	if r.Scoreboard() != (Scoreboard{}) {
		t.Fatalf("scoreboard = %+v", r.Scoreboard())
	}
}

func TestRoundClampsFrameDelta(t *testing.T) {
	r := NewRound(DefaultParams(), &fixedRand{})
	items := ResolveAll([]ItemSpec{{Mode: "letter", Target: "A", SpawnRate: 40}})
	if _, err := r.Start(items, ModeLetter, 0); err != nil {
		t.Fatal(err)
	}
	r.Tick(5000) // stalled frame
	objs := r.Objects()
	if len(objs) != 1 {
		t.Fatalf("objects = %+v", objs)
	}
	if want := -56 + 80*40.0/1000; objs[0].Y != want {
		t.Fatalf("y = %v, want %v", objs[0].Y, want)
	}
	if r.ElapsedMs() != 5000 {
		t.Fatalf("stopwatch = %d, want 5000", r.ElapsedMs())
	}

	// Going backwards in time advances nothing.
	r.Tick(4000)
	if got := r.Objects()[0].Y; got != objs[0].Y {
		t.Fatalf("y moved to %v on a negative delta", got)
	}
}

func TestRoundMove(t *testing.T) {
	r := NewRound(DefaultParams(), &fixedRand{})

	r.Move(Left, StepCoarse)
	if r.Player().X != 298 {
		t.Fatal("move before start should be ignored")
	}

	if _, err := r.Start(tigerItems(), ModeLetter, 0); err != nil {
		t.Fatal(err)
	}
	r.Move(Left, StepFine)
	if r.Player().X != 292 {
		t.Fatalf("fine left: x = %v", r.Player().X)
	}
	r.Move(Right, StepCoarse)
	if r.Player().X != 316 {
		t.Fatalf("coarse right: x = %v", r.Player().X)
	}
	for i := 0; i < 100; i++ {
		r.Move(Right, StepCoarse)
	}
	if r.Player().X != 596 {
		t.Fatalf("right clamp: x = %v", r.Player().X)
	}
	for i := 0; i < 100; i++ {
		r.Move(Left, StepCoarse)
	}
	if r.Player().X != 0 {
		t.Fatalf("left clamp: x = %v", r.Player().X)
	}
}

func TestRoundNoProcessingAfterFinish(t *testing.T) {
	d := newDriver(t, narrowParams())
	d.start(ResolveAll([]ItemSpec{{Mode: "letter", Target: "T", Alphabet: "T", Speed: 10, SpawnRate: 600}}), ModeLetter)
	d.catchPool(0)

	before := d.r.Snapshot()
	for i := 0; i < 50; i++ {
		d.ts += 40
		if ev := d.r.Tick(d.ts); ev != nil {
			t.Fatalf("tick after finish produced %+v", ev)
		}
	}
	d.r.Move(Left, StepCoarse)
	after := d.r.Snapshot()
	if after.Score != before.Score || after.ElapsedMs != before.ElapsedMs ||
		after.Player != before.Player || len(after.Objects) != len(before.Objects) {
		t.Fatalf("finished round mutated: before=%+v after=%+v", before, after)
	}
}

func TestRoundRestartResets(t *testing.T) {
	d := newDriver(t, narrowParams())
	d.start(tigerItems(), ModeLetter)
	d.catchPool(idxT)
	d.r.Move(Right, StepCoarse)

	d.start(tigerItems(), ModeLetter)
	snap := d.r.Snapshot()
	if snap.Phase != PhaseRunning || snap.Score != 0 || snap.Combo != 0 || snap.Correct != 0 ||
		snap.Progress != 0 || len(snap.Objects) != 0 || snap.ElapsedMs != 0 {
		t.Fatalf("restart snapshot = %+v", snap)
	}
	if _, err := d.r.Result(); !errors.Is(err, ErrNotFinished) {
		t.Fatalf("Result err = %v", err)
	}
}

func TestRoundStop(t *testing.T) {
	d := newDriver(t, narrowParams())
	d.start(tigerItems(), ModeLetter)
	d.catchPool(idxT)
	d.r.Stop()
	if d.r.Phase() != PhaseIdle {
		t.Fatalf("phase = %q", d.r.Phase())
	}
	if d.r.Scoreboard() != (Scoreboard{}) || len(d.r.Objects()) != 0 {
		t.Fatal("stop should discard round state")
	}
	if _, err := d.r.Result(); !errors.Is(err, ErrNotFinished) {
		t.Fatalf("Result err = %v", err)
	}
}

func TestSnapshotCaughtTokens(t *testing.T) {
	d := newDriver(t, narrowParams())
	d.start(tigerItems(), ModeLetter)
	if s := d.r.Snapshot(); s.Caught == nil || len(s.Caught) != 0 {
		t.Fatalf("caught before any catch = %#v", s.Caught)
	}
	d.catchPool(idxT)
	d.catchPool(idxI)
	s := d.r.Snapshot()
	if len(s.Caught) != 2 || s.Caught[0] != "T" || s.Caught[1] != "I" || s.Length != 5 {
		t.Fatalf("snapshot = %+v", s)
	}
}

// onPlayer starts a narrow round for target and parks tokens on the player,
// motionless, in the given order. The spawn interval is long enough that
// the next tick spawns nothing.
func onPlayer(t *testing.T, target string, tokens ...Token) *driver {
	t.Helper()
	d := newDriver(t, narrowParams())
	d.start(ResolveAll([]ItemSpec{{Mode: "letter", Target: target, SpawnRate: 10000}}), ModeLetter)
	for _, tok := range tokens {
		d.r.objects.Spawn(tok, 0, 0)
	}
	for i := range d.r.objects.objects {
		d.r.objects.objects[i].Y = d.r.Player().Y
	}
	return d
}

func TestRoundResolvesEveryOverlapInOneTick(t *testing.T) {
	d := onPlayer(t, "AB", "A", "X", "B")
	d.ts += 40
	ev := d.r.Tick(d.ts)

	want := []Event{
		{Kind: EventCorrect, Token: "A", Points: 50},
		{Kind: EventIncorrect, Token: "X", Points: -10},
		{Kind: EventCorrect, Token: "B", Points: 50},
		{Kind: EventComplete},
	}
	if len(ev) != len(want) {
		t.Fatalf("events = %+v", ev)
	}
	for i := range want {
		if ev[i] != want[i] {
			t.Fatalf("event %d = %+v, want %+v", i, ev[i], want[i])
		}
	}
	if d.r.Phase() != PhaseFinished || d.r.Scoreboard().Score != 90 || d.r.objects.Len() != 0 {
		t.Fatalf("phase %q, scoreboard %+v, %d objects left", d.r.Phase(), d.r.Scoreboard(), d.r.objects.Len())
	}
}

func TestRoundIgnoresOverlapsAfterCompletion(t *testing.T) {
	d := onPlayer(t, "A", "A", "X", "A")
	d.ts += 40
	ev := d.r.Tick(d.ts)

	if len(ev) != 2 || ev[0].Kind != EventCorrect || ev[1].Kind != EventComplete {
		t.Fatalf("events = %+v", ev)
	}
	sb := d.r.Scoreboard()
	if sb.Score != 50 || sb.Correct != 1 || sb.Combo != 1 {
		t.Fatalf("scoreboard = %+v", sb)
	}
	left := d.r.Objects()
	if len(left) != 2 || left[0].Token != "X" || left[1].Token != "A" {
		t.Fatalf("objects left = %+v", left)
	}
	if ev := d.r.Tick(d.ts + 40); ev != nil {
		t.Fatalf("tick after finish = %+v", ev)
	}
}
