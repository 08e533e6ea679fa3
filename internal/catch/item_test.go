package catch

import (
	"errors"
	"reflect"
	"testing"
)

func TestLetterItemPoolAndSequence(t *testing.T) {
	it := ItemSpec{Mode: "letter", Target: "CAT", Alphabet: "ABC", Distractors: "XY"}.Resolve()
	if it.Mode() != ModeLetter {
		t.Fatalf("mode = %q", it.Mode())
	}
	if got, want := it.Pool(), []Token{"A", "B", "C", "X", "Y"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("pool = %v, want %v", got, want)
	}
	if got, want := it.RequiredSequence(), []Token{"C", "A", "T"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("sequence = %v, want %v", got, want)
	}
}

func TestLetterItemDefaultAlphabet(t *testing.T) {
	it := ItemSpec{Mode: "letter", Target: "OK", Distractors: "!"}.Resolve()
	pool := it.Pool()
	if len(pool) != 27 || pool[0] != "A" || pool[25] != "Z" || pool[26] != "!" {
		t.Fatalf("pool = %v", pool)
	}
}

func TestWordItemFallsBackToTargetWords(t *testing.T) {
	withBank := ItemSpec{Mode: "word", TargetWords: []string{"red", "blue"}, WordBank: []string{"red", "blue", "green"}}.Resolve()
	if got := withBank.Pool(); len(got) != 3 {
		t.Fatalf("pool with bank = %v", got)
	}
	noBank := ItemSpec{Mode: "word", TargetWords: []string{"red", "blue"}}.Resolve()
	if got, want := noBank.Pool(), []Token{"red", "blue"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("pool without bank = %v, want %v", got, want)
	}
	if got := noBank.RequiredSequence(); !reflect.DeepEqual(got, []Token{"red", "blue"}) {
		t.Fatalf("sequence = %v", got)
	}
}

func TestUnknownModePlaysAsWords(t *testing.T) {
	it := ItemSpec{Mode: "sentence", TargetWords: []string{"a"}}.Resolve()
	if it.Mode() != ModeWord {
		t.Fatalf("mode = %q, want word", it.Mode())
	}
}

func TestItemSpeedAndRateDefaults(t *testing.T) {
	p := DefaultParams()
	cases := []struct {
		name         string
		spec         ItemSpec
		wantSpeed    float64
		wantInterval float64
	}{
		{"defaults", ItemSpec{Mode: "letter", Target: "A"}, 80, 1200},
		{"custom", ItemSpec{Mode: "letter", Target: "A", Speed: 1.5, SpawnRate: 900}, 120, 900},
		{"non-positive", ItemSpec{Mode: "letter", Target: "A", Speed: -2, SpawnRate: -1}, 80, 1200},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			setup, err := NewSetup(c.spec.Resolve(), p)
			if err != nil {
				t.Fatal(err)
			}
			if setup.Spawn.FallSpeed != c.wantSpeed {
				t.Errorf("fall speed = %v, want %v", setup.Spawn.FallSpeed, c.wantSpeed)
			}
			if setup.Spawn.SpawnInterval != c.wantInterval {
				t.Errorf("interval = %v, want %v", setup.Spawn.SpawnInterval, c.wantInterval)
			}
		})
	}
}

func TestSelectItem(t *testing.T) {
	letter := ItemSpec{Mode: "letter", Target: "AB"}.Resolve()
	word := ItemSpec{Mode: "word", TargetWords: []string{"x"}}.Resolve()
	word2 := ItemSpec{Mode: "word", TargetWords: []string{"y"}}.Resolve()

	got, err := SelectItem([]Item{letter, word, word2}, ModeWord)
	if err != nil || !reflect.DeepEqual(got, word) {
		t.Fatalf("SelectItem(word) = %v, %v; want first word item", got, err)
	}

	// No item in the requested mode: first item wins.
	got, err = SelectItem([]Item{word, word2}, ModeLetter)
	if err != nil || !reflect.DeepEqual(got, word) {
		t.Fatalf("SelectItem fallback = %v, %v", got, err)
	}

	if _, err := SelectItem(nil, ModeLetter); !errors.Is(err, ErrNoItems) {
		t.Fatalf("empty list err = %v, want ErrNoItems", err)
	}
}

func TestNewSetupRejectsMalformedItems(t *testing.T) {
	for _, it := range []Item{
		nil,
		ItemSpec{Mode: "letter"}.Resolve(),
		ItemSpec{Mode: "word", WordBank: []string{"a"}}.Resolve(),
	} {
		if _, err := NewSetup(it, DefaultParams()); !errors.Is(err, ErrEmptySequence) {
			t.Errorf("NewSetup(%#v) err = %v, want ErrEmptySequence", it, err)
		}
	}
}
