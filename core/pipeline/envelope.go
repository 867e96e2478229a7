package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Attempt is the outcome of trying one text block as a payload.
type Attempt struct {
	Block     int   // Index in result.content
	Qualifies bool  // Parsed to an object exposing an entities or relations array
	Err       error // Parse failure, nil if the block is valid JSON
}

// Unwrapped is a payload taken from an envelope.
type Unwrapped struct {
	Payload  []byte
	Block    int  // Index in result.content
	Fallback bool // No block qualified and the first text block was used
	Attempts []Attempt
}

type textBlock struct {
	index int
	text  string
}

// Unwrap extracts the knowledge-graph payload from a transport envelope.
//
// Text blocks are tried in order and the first one whose JSON exposes an
// "entities" or "relations" array is returned. Blocks whose text is missing,
// blank or not a string are passed over. If none qualifies, the first text
// block is returned as long as it is valid JSON, leaving the decision to
// schema validation. Unwrap fails with an EnvelopeError when the envelope
// has no text block or the fallback block does not parse.
func Unwrap(envelope []byte) (*Unwrapped, error) {
	if !gjson.ValidBytes(envelope) {
		var syntaxCheck any
		err := json.Unmarshal(envelope, &syntaxCheck)
		if err == nil {
			err = errors.New("invalid JSON")
		}
		return nil, &EnvelopeError{Msg: "envelope is not valid JSON", Err: err}
	}

	texts := textBlocks(envelope)
	if len(texts) == 0 {
		return nil, &EnvelopeError{Msg: "no text content blocks in result.content"}
	}

	attempts := make([]Attempt, 0, len(texts))
	for _, block := range texts {
		attempt := tryBlock(block.index, block.text)
		attempts = append(attempts, attempt)
		if attempt.Qualifies {
			return &Unwrapped{
				Payload:  []byte(block.text),
				Block:    block.index,
				Attempts: attempts,
			}, nil
		}
	}

	first := texts[0]
	var probe any
	if err := json.Unmarshal([]byte(first.text), &probe); err != nil {
		return nil, &EnvelopeError{Msg: fmt.Sprintf("none of %d text blocks holds a knowledge graph", len(texts)), Err: err}
	}

	return &Unwrapped{
		Payload:  []byte(first.text),
		Block:    first.index,
		Fallback: true,
		Attempts: attempts,
	}, nil
}

// textBlocks collects the non-blank string texts of result.content in order.
func textBlocks(envelope []byte) []textBlock {
	content := gjson.GetBytes(envelope, "result.content")
	if !content.IsArray() {
		return nil
	}

	var texts []textBlock
	for i, block := range content.Array() {
		text := block.Get("text")
		if text.Type != gjson.String || strings.TrimSpace(text.Str) == "" {
			continue
		}
		texts = append(texts, textBlock{index: i, text: text.Str})
	}
	return texts
}

func tryBlock(i int, text string) Attempt {
	if !gjson.Valid(text) {
		return Attempt{Block: i, Err: errors.New("invalid JSON")}
	}

	parsed := gjson.Parse(text)
	qualifies := parsed.IsObject() &&
		(parsed.Get("entities").IsArray() || parsed.Get("relations").IsArray())

	return Attempt{Block: i, Qualifies: qualifies}
}

// IsEnvelope reports whether input looks like a transport envelope rather
// than a bare payload.
func IsEnvelope(input []byte) bool {
	if !gjson.ValidBytes(input) {
		return false
	}
	return gjson.GetBytes(input, "result").Exists()
}
