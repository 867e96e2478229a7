// Package sample embeds a small knowledge graph export used as fallback
// dataset and in examples.
package sample

import _ "embed"

//go:embed envelope.json
var envelope []byte

// Envelope returns a copy of the embedded sample envelope. Its graph has
// eight entities, nine relations and one relation to an entity that is
// never defined.
func Envelope() []byte {
	b := make([]byte, len(envelope))
	copy(b, envelope)
	return b
}
