// internal/catalog/catalog.go
//
// Game data for Catch: category → subcategory → ordered list of items.
//
// Responsibilities:
//   - Load the data from a JSON file or fall back to the embedded default.
//   - List categories/subcategories and the items of a selection.
//   - Report which modes a selection offers and pick a valid one.
//   - Build the preview listing (every target sequence for a mode).
//
// Notes:
//   - Maps lose the file's key order; categories and subcategories are
//     listed alphabetically. Item order within a selection is preserved.
//   - A Catalog is read-only after Load and safe for concurrent use.

package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/robalobadob/catch/assets"
	"github.com/robalobadob/catch/internal/catch"
)

// ErrNoMatchingItems is returned by Preview when the selection has items
// but none in the requested mode.
var ErrNoMatchingItems = errors.New("catalog: no items in this mode")

type Catalog struct {
	tree map[string]map[string][]catch.ItemSpec
}

// Load reads the catalog from path, or the embedded default when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(assets.CatalogJSON)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes catalog JSON.
func Parse(data []byte) (*Catalog, error) {
	var tree map[string]map[string][]catch.ItemSpec
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if tree == nil {
		tree = map[string]map[string][]catch.ItemSpec{}
	}
	return &Catalog{tree: tree}, nil
}

// Categories lists every category, sorted.
func (c *Catalog) Categories() []string {
	return sortedKeys(c.tree)
}

// Subcategories lists the subcategories of cat, sorted. Unknown categories have none.
func (c *Catalog) Subcategories(cat string) []string {
	return sortedKeys(c.tree[cat])
}

// Specs returns a copy of the raw items of a selection.
func (c *Catalog) Specs(cat, sub string) []catch.ItemSpec {
	return append([]catch.ItemSpec(nil), c.tree[cat][sub]...)
}

// Items returns the resolved items of a selection, in file order.
func (c *Catalog) Items(cat, sub string) []catch.Item {
	return catch.ResolveAll(c.tree[cat][sub])
}

// Modes lists the modes a selection offers: letter first, then word.
func (c *Catalog) Modes(cat, sub string) []catch.Mode {
	var hasLetter, hasWord bool
	for _, s := range c.tree[cat][sub] {
		switch catch.Mode(s.Mode) {
		case catch.ModeLetter:
			hasLetter = true
		case catch.ModeWord:
			hasWord = true
		}
	}
	out := []catch.Mode{}
	if hasLetter {
		out = append(out, catch.ModeLetter)
	}
	if hasWord {
		out = append(out, catch.ModeWord)
	}
	return out
}

// ResolveMode keeps requested when the selection offers it, otherwise
// switches to letter, then word. With neither available requested is
// returned unchanged.
func (c *Catalog) ResolveMode(cat, sub string, requested catch.Mode) catch.Mode {
	modes := c.Modes(cat, sub)
	for _, m := range modes {
		if m == requested {
			return requested
		}
	}
	if len(modes) > 0 {
		return modes[0]
	}
	return requested
}

// PreviewLine is one numbered entry of a preview listing.
type PreviewLine struct {
	N    int    `json:"n"`
	Text string `json:"text"`
}

func (p PreviewLine) String() string { return strconv.Itoa(p.N) + ". " + p.Text }

// Preview lists the target sequence of every item in mode without
// starting a round. Letter items show their target text, word items
// their words joined by spaces.
// It returns catch.ErrNoItems for an empty selection and
// ErrNoMatchingItems when no item is in mode.
func (c *Catalog) Preview(cat, sub string, mode catch.Mode) ([]PreviewLine, error) {
	specs := c.tree[cat][sub]
	if len(specs) == 0 {
		return nil, catch.ErrNoItems
	}
	var out []PreviewLine
	for _, s := range specs {
		if catch.Mode(s.Mode) != mode {
			continue
		}
		text := s.Target
		if mode != catch.ModeLetter {
			text = strings.Join(s.TargetWords, " ")
		}
		out = append(out, PreviewLine{N: len(out) + 1, Text: text})
	}
	if len(out) == 0 {
		return nil, ErrNoMatchingItems
	}
	return out, nil
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
