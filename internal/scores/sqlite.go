package scores

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/catch/internal/catch"
)

type sqliteStore struct{ db *sql.DB }

// NewSQLite returns a Store over a migrated database.
func NewSQLite(db *sql.DB) Store { return &sqliteStore{db: db} }

func (s *sqliteStore) Record(ctx context.Context, owner string, k Key, res catch.Result) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
        INSERT INTO results (id, owner_id, category, subcategory, mode, score, right_count, elapsed_ms)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), owner, k.Category, k.Subcategory, k.Mode, res.Score, res.Right, res.Ms,
	); err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, `
        INSERT INTO highscores (owner_id, hs_key, score) VALUES (?, ?, ?)
        ON CONFLICT (owner_id, hs_key) DO UPDATE SET score = MAX(score, excluded.score)`,
		owner, k.HighscoreKey(), res.Score,
	); err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, `
        INSERT INTO last_results (owner_id, result_key, score, right_count, elapsed_ms, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT (owner_id, result_key) DO UPDATE SET
            score = excluded.score,
            right_count = excluded.right_count,
            elapsed_ms = excluded.elapsed_ms,
            updated_at = excluded.updated_at`,
		owner, k.ResultKey(), res.Score, res.Right, res.Ms, time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return 0, err
	}

	var best int
	if err := tx.QueryRowContext(ctx,
		`SELECT score FROM highscores WHERE owner_id=? AND hs_key=?`, owner, k.HighscoreKey(),
	).Scan(&best); err != nil {
		return 0, err
	}
	return best, tx.Commit()
}

func (s *sqliteStore) Highscore(ctx context.Context, owner string, k Key) (int, error) {
	var best int
	err := s.db.QueryRowContext(ctx,
		`SELECT score FROM highscores WHERE owner_id=? AND hs_key=?`, owner, k.HighscoreKey(),
	).Scan(&best)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return best, err
}

func (s *sqliteStore) LastResult(ctx context.Context, owner string, k Key) (catch.Result, bool, error) {
	var r catch.Result
	err := s.db.QueryRowContext(ctx,
		`SELECT score, right_count, elapsed_ms FROM last_results WHERE owner_id=? AND result_key=?`,
		owner, k.ResultKey(),
	).Scan(&r.Score, &r.Right, &r.Ms)
	if errors.Is(err, sql.ErrNoRows) {
		return catch.Result{}, false, nil
	}
	if err != nil {
		return catch.Result{}, false, err
	}
	return r, true, nil
}

func (s *sqliteStore) Leaderboard(ctx context.Context, k Key, limit int) ([]Row, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT r.owner_id, COALESCE(u.username, ''), r.score, r.right_count, r.elapsed_ms, r.created_at
        FROM results r
        LEFT JOIN users u ON u.id = r.owner_id
        WHERE r.category=? AND r.subcategory=? AND r.mode=?
        ORDER BY r.score DESC, r.elapsed_ms ASC, r.created_at ASC, r.rowid ASC
        LIMIT ?`, k.Category, k.Subcategory, k.Mode, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Row, 0, limit)
	for rows.Next() {
		var r Row
		var created string
		if err := rows.Scan(&r.OwnerID, &r.Username, &r.Score, &r.Right, &r.Ms, &created); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *sqliteStore) Claim(ctx context.Context, from, to string) error {
	if from == "" || to == "" || from == to {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE results SET owner_id=? WHERE owner_id=?`, to, from); err != nil {
		return err
	}
	// Merge highscores keeping the larger value, then drop the guest rows.
	if _, err := tx.ExecContext(ctx, `
        INSERT INTO highscores (owner_id, hs_key, score)
        SELECT ?, hs_key, score FROM highscores WHERE owner_id=?
        ON CONFLICT (owner_id, hs_key) DO UPDATE SET score = MAX(score, excluded.score)`, to, from); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM highscores WHERE owner_id=?`, from); err != nil {
		return err
	}
	// The account's own last result wins over the guest's.
	if _, err := tx.ExecContext(ctx, `UPDATE OR IGNORE last_results SET owner_id=? WHERE owner_id=?`, to, from); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM last_results WHERE owner_id=?`, from); err != nil {
		return err
	}
	return tx.Commit()
}
