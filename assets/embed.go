// assets/embed.go
//
// Files compiled into the server binary:
//   - catch.json: default game data (category → subcategory → items).
//   - sql/*.sql:  schema migrations, applied in lexical order.

package assets

import (
	"embed"
	"io/fs"
)

//go:embed catch.json
var CatalogJSON []byte

//go:embed sql/*.sql
var sqlFS embed.FS

// Migrations returns the migration files rooted at the sql directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(sqlFS, "sql")
	if err != nil {
		// The directory is embedded above; Sub only fails on a bad path.
		panic(err)
	}
	return sub
}
