package scores

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/robalobadob/catch/internal/catch"
)

// memory is a map-backed Store. State is lost when the process restarts.
type memory struct {
	mu      sync.RWMutex
	best    map[string]int          // owner|hs key
	last    map[string]catch.Result // owner|result key
	results []memResult
	now     func() time.Time
}

type memResult struct {
	Row
	key Key
}

// NewMemory constructs an in-memory Store.
func NewMemory() Store {
	return &memory{
		best: make(map[string]int),
		last: make(map[string]catch.Result),
		now:  time.Now,
	}
}

func (m *memory) Record(_ context.Context, owner string, k Key, res catch.Result) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	hk := owner + "|" + k.HighscoreKey()
	m.best[hk] = max(m.best[hk], res.Score)
	m.last[owner+"|"+k.ResultKey()] = res
	m.results = append(m.results, memResult{
		Row: Row{OwnerID: owner, Score: res.Score, Right: res.Right, Ms: res.Ms, CreatedAt: m.now().UTC()},
		key: k,
	})
	return m.best[hk], nil
}

func (m *memory) Highscore(_ context.Context, owner string, k Key) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.best[owner+"|"+k.HighscoreKey()], nil
}

func (m *memory) LastResult(_ context.Context, owner string, k Key) (catch.Result, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.last[owner+"|"+k.ResultKey()]
	return r, ok, nil
}

func (m *memory) Leaderboard(_ context.Context, k Key, limit int) ([]Row, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	m.mu.RLock()
	out := make([]Row, 0, len(m.results))
	for _, r := range m.results {
		if r.key == k {
			out = append(out, r.Row)
		}
	}
	m.mu.RUnlock()

	// Stable keeps insertion order for full ties.
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Ms != b.Ms {
			return a.Ms < b.Ms
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memory) Claim(_ context.Context, from, to string) error {
	if from == "" || to == "" || from == to {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.results {
		if m.results[i].OwnerID == from {
			m.results[i].OwnerID = to
		}
	}
	prefix := from + "|"
	for _, k := range ownedKeys(m.best, prefix) {
		nk := to + "|" + strings.TrimPrefix(k, prefix)
		m.best[nk] = max(m.best[nk], m.best[k])
		delete(m.best, k)
	}
	for _, k := range ownedKeys(m.last, prefix) {
		nk := to + "|" + strings.TrimPrefix(k, prefix)
		if _, exists := m.last[nk]; !exists {
			m.last[nk] = m.last[k]
		}
		delete(m.last, k)
	}
	return nil
}

func ownedKeys[V any](m map[string]V, prefix string) []string {
	var out []string
	for k := range m {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out
}
