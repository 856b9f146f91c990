// Package schemas holds the JSON Schemas for documents NextStep reads from disk.
package schemas

import _ "embed"

// Seed describes the fixture file consumed by `nextstep seed`.
//
//go:embed seed.schema.json
var Seed []byte
