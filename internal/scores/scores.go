// internal/scores/scores.go
//
// Persistence for finished rounds.
// For each owner (user id or guest id) and selection (category,
// subcategory, mode) the store keeps:
//   - the highscore, updated to max(previous, final score);
//   - the last result {score, right, ms};
// and appends every round to a results log used for leaderboards.
//
// Two implementations: SQLite (sqlite.go) and in-memory (memory.go).

package scores

import (
	"context"
	"time"

	"github.com/robalobadob/catch/internal/catch"
)

// Key identifies a selection.
type Key struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Mode        string `json:"mode"`
}

// HighscoreKey is the storage key of the highscore record.
func (k Key) HighscoreKey() string {
	return "highscore:catch:" + k.Category + ":" + k.Subcategory + ":" + k.Mode
}

// ResultKey is the storage key of the last-result record.
func (k Key) ResultKey() string {
	return "catch:" + k.Category + ":" + k.Subcategory + ":" + k.Mode
}

// Row is one leaderboard entry.
type Row struct {
	OwnerID   string    `json:"ownerId"`
	Username  string    `json:"username,omitempty"`
	Score     int       `json:"score"`
	Right     int       `json:"right"`
	Ms        int64     `json:"ms"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store persists round results.
type Store interface {
	// Record saves a finished round and returns the owner's highscore
	// for the selection after the update.
	Record(ctx context.Context, owner string, k Key, res catch.Result) (best int, err error)

	// Highscore returns 0 when the owner never finished the selection.
	Highscore(ctx context.Context, owner string, k Key) (int, error)

	// LastResult reports false when there is no record yet.
	LastResult(ctx context.Context, owner string, k Key) (catch.Result, bool, error)

	// Leaderboard lists the best rounds of a selection: score desc, ms asc,
	// oldest first.
	Leaderboard(ctx context.Context, k Key, limit int) ([]Row, error)

	// Claim moves everything recorded for from (a guest) to to (an account).
	Claim(ctx context.Context, from, to string) error
}

const defaultLimit = 20
