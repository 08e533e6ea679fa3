package scores

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/robalobadob/catch/assets"
	"github.com/robalobadob/catch/internal/catch"
	"github.com/robalobadob/catch/internal/database"
)

var tiger = Key{Category: "Animals", Subcategory: "Big Cats", Mode: "letter"}

func TestKeys(t *testing.T) {
	if got := tiger.HighscoreKey(); got != "highscore:catch:Animals:Big Cats:letter" {
		t.Fatalf("HighscoreKey = %q", got)
	}
	if got := tiger.ResultKey(); got != "catch:Animals:Big Cats:letter" {
		t.Fatalf("ResultKey = %q", got)
	}
}

func stores(t *testing.T) map[string]Store {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "catch.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := database.Migrate(db, assets.Migrations()); err != nil {
		t.Fatal(err)
	}
	return map[string]Store{"memory": NewMemory(), "sqlite": NewSQLite(db)}
}

func TestRecordKeepsBestAndLast(t *testing.T) {
	ctx := context.Background()
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if hs, err := st.Highscore(ctx, "p1", tiger); err != nil || hs != 0 {
				t.Fatalf("initial highscore = %d, %v", hs, err)
			}
			if _, ok, err := st.LastResult(ctx, "p1", tiger); err != nil || ok {
				t.Fatalf("initial last result ok=%v err=%v", ok, err)
			}

			steps := []struct {
				res      catch.Result
				wantBest int
			}{
				{catch.Result{Score: 350, Right: 5, Ms: 9000}, 350},
				{catch.Result{Score: 120, Right: 5, Ms: 20000}, 350},
				{catch.Result{Score: 400, Right: 5, Ms: 8000}, 400},
			}
			for i, s := range steps {
				best, err := st.Record(ctx, "p1", tiger, s.res)
				if err != nil {
					t.Fatal(err)
				}
				if best != s.wantBest {
					t.Fatalf("step %d: best = %d, want %d", i, best, s.wantBest)
				}
				last, ok, err := st.LastResult(ctx, "p1", tiger)
				if err != nil || !ok || last != s.res {
					t.Fatalf("step %d: last = %+v ok=%v err=%v", i, last, ok, err)
				}
			}

			other := Key{Category: "Animals", Subcategory: "Big Cats", Mode: "word"}
			if hs, _ := st.Highscore(ctx, "p1", other); hs != 0 {
				t.Fatalf("mode leaked into other key: %d", hs)
			}
			if hs, _ := st.Highscore(ctx, "p2", tiger); hs != 0 {
				t.Fatalf("owner leaked: %d", hs)
			}
		})
	}
}

func TestLeaderboardOrder(t *testing.T) {
	ctx := context.Background()
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			rounds := []struct {
				owner string
				res   catch.Result
			}{
				{"a", catch.Result{Score: 300, Right: 5, Ms: 5000}},
				{"b", catch.Result{Score: 350, Right: 5, Ms: 9000}},
				{"c", catch.Result{Score: 350, Right: 5, Ms: 7000}},
				{"d", catch.Result{Score: 100, Right: 2, Ms: 1000}},
			}
			for _, r := range rounds {
				if _, err := st.Record(ctx, r.owner, tiger, r.res); err != nil {
					t.Fatal(err)
				}
			}
			_, _ = st.Record(ctx, "e", Key{Category: "x", Subcategory: "y", Mode: "word"}, catch.Result{Score: 999})

			rows, err := st.Leaderboard(ctx, tiger, 3)
			if err != nil {
				t.Fatal(err)
			}
			var owners []string
			for _, r := range rows {
				owners = append(owners, r.OwnerID)
			}
			if len(owners) != 3 || owners[0] != "c" || owners[1] != "b" || owners[2] != "a" {
				t.Fatalf("leaderboard owners = %v", owners)
			}
			if rows[0].Score != 350 || rows[0].Ms != 7000 || rows[0].Right != 5 {
				t.Fatalf("top row = %+v", rows[0])
			}
		})
	}
}

func TestClaimMergesGuestIntoAccount(t *testing.T) {
	ctx := context.Background()
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, _ = st.Record(ctx, "guest", tiger, catch.Result{Score: 500, Right: 5, Ms: 6000})
			_, _ = st.Record(ctx, "user", tiger, catch.Result{Score: 200, Right: 5, Ms: 9000})

			if err := st.Claim(ctx, "guest", "user"); err != nil {
				t.Fatal(err)
			}
			if hs, _ := st.Highscore(ctx, "user", tiger); hs != 500 {
				t.Fatalf("user highscore = %d, want 500", hs)
			}
			if hs, _ := st.Highscore(ctx, "guest", tiger); hs != 0 {
				t.Fatalf("guest highscore = %d, want 0", hs)
			}
			last, ok, _ := st.LastResult(ctx, "user", tiger)
			if !ok || last.Score != 200 {
				t.Fatalf("user last result = %+v, want own record kept", last)
			}
			rows, _ := st.Leaderboard(ctx, tiger, 10)
			for _, r := range rows {
				if r.OwnerID != "user" {
					t.Fatalf("leaderboard still has %q", r.OwnerID)
				}
			}
			if err := st.Claim(ctx, "", "user"); err != nil {
				t.Fatal(err)
			}
		})
	}
}
