// AngelaMos | 2026
// query.go

package core

import (
	"net/http"
	"strconv"
)

// QueryInt reads an integer query parameter, returning def when it is
// absent or not a number. Range checks belong to the caller's Normalize.
func QueryInt(r *http.Request, key string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return def
	}
	return n
}
