// Package schemas embeds the JSON Schema documents that guard every payload crossing
// the LLM boundary and the persisted session snapshot.
package schemas

import "embed"

// Files holds every *.schema.json in this directory.
//
//go:embed *.schema.json
var Files embed.FS
