// AngelaMos | 2026
// embed.go

// Package migrations holds the goose SQL migrations, embedded into the
// binary so the api can migrate without a checkout.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
