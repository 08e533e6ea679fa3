package catch

import "testing"

func TestRegistrySpawnAboveStage(t *testing.T) {
	r := NewRegistry(44, 56)
	o := r.Spawn("A", 10, 80)
	if o.Y != -56 || o.X != 10 || o.VY != 80 {
		t.Fatalf("spawned %+v", o)
	}
	if r.Len() != 1 {
		t.Fatalf("len = %d", r.Len())
	}
	if b := r.Box(o); b.W != 44 || b.H != 56 {
		t.Fatalf("box = %+v", b)
	}
}

func TestRegistryAdvanceAll(t *testing.T) {
	r := NewRegistry(44, 56)
	r.Spawn("A", 0, 100)
	r.Spawn("B", 0, 50)
	r.AdvanceAll(40) // 40 ms
	objs := r.Objects()
	if objs[0].Y != -56+4 || objs[1].Y != -56+2 {
		t.Fatalf("after advance: %+v", objs)
	}
}

func TestRegistryPruneKeepsOrderAndVisitsOnce(t *testing.T) {
	r := NewRegistry(10, 10)
	for _, tok := range []Token{"A", "B", "C", "D"} {
		r.Spawn(tok, 0, 0)
	}
	var visited []Token
	removed := r.Prune(func(o Object) bool {
		visited = append(visited, o.Token)
		return o.Token == "B" || o.Token == "D"
	})
	if len(visited) != 4 || visited[0] != "A" || visited[3] != "D" {
		t.Fatalf("visited = %v", visited)
	}
	if len(removed) != 2 || removed[0].Token != "B" || removed[1].Token != "D" {
		t.Fatalf("removed = %+v", removed)
	}
	left := r.Objects()
	if len(left) != 2 || left[0].Token != "A" || left[1].Token != "C" {
		t.Fatalf("left = %+v", left)
	}
}

func TestRegistryObjectsIsACopy(t *testing.T) {
	r := NewRegistry(10, 10)
	r.Spawn("A", 0, 0)
	objs := r.Objects()
	objs[0].Y = 999
	if r.Objects()[0].Y == 999 {
		t.Fatal("Objects() leaked internal storage")
	}
	r.Clear()
	if r.Len() != 0 {
		t.Fatal("Clear left objects behind")
	}
	if o := r.Spawn("B", 0, 0); o.ID != 2 {
		t.Fatalf("ids should keep counting after Clear, got %d", o.ID)
	}
}

func TestOverlaps(t *testing.T) {
	player := Box{X: 100, Y: 418, W: 44, H: 62}
	cases := []struct {
		name string
		obj  Box
		want bool
	}{
		{"centered", Box{X: 100, Y: 400, W: 44, H: 56}, true},
		{"touching left edge", Box{X: 56, Y: 418, W: 44, H: 56}, false},
		{"one pixel in", Box{X: 57, Y: 418, W: 44, H: 56}, true},
		{"above", Box{X: 100, Y: 362, W: 44, H: 56}, false},
		{"just above", Box{X: 100, Y: 362.5, W: 44, H: 56}, true},
		{"below stage", Box{X: 100, Y: 480, W: 44, H: 56}, false},
	}
	for _, c := range cases {
		if got := Overlaps(player, c.obj); got != c.want {
			t.Errorf("%s: Overlaps = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestResolve(t *testing.T) {
	seq := NewSequence([]Token{"A", "B"})
	if out := Resolve("b", seq); out != OutcomeIncorrect {
		t.Fatalf("out-of-order catch = %v", out)
	}
	if out := Resolve("a", seq); out != OutcomeCorrect {
		t.Fatalf("first catch = %v", out)
	}
	if out := Resolve("B", seq); out != OutcomeComplete {
		t.Fatalf("last catch = %v", out)
	}
	if out := Resolve("B", seq); out != OutcomeIncorrect {
		t.Fatalf("catch after exhaustion = %v", out)
	}
	if seq.Progress() != 2 {
		t.Fatalf("progress = %d", seq.Progress())
	}
}
