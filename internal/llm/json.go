// Package llm wraps the generative-text collaborator and the recovery of
// structured JSON from its free-form replies.
package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedOutput is returned when no parsable JSON value could be
// recovered from a model reply. Callers must treat it as recoverable.
var ErrMalformedOutput = errors.New("malformed llm output")

// ExtractJSON recovers the JSON value buried in a free-form model reply and
// unmarshals it into target. Code fences are stripped first, then the
// greedy slice from the first opening brace/bracket to the last matching
// closer is tried. Every generative call site goes through here; do not
// re-implement this inline.
func ExtractJSON(raw string, target any) error {
	clean := stripFences(raw)

	for _, candidate := range jsonCandidates(clean) {
		if err := json.Unmarshal([]byte(candidate), target); err == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: no parsable JSON value in reply", ErrMalformedOutput)
}

// stripFences removes markdown code-fence markers around the reply.
func stripFences(raw string) string {
	clean := strings.TrimSpace(raw)
	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}

// jsonCandidates returns the greedy object and array slices, earliest
// opener first. Trying both covers replies that mention brackets in prose
// before the actual payload.
func jsonCandidates(s string) []string {
	type span struct{ start, end int }

	object := span{strings.Index(s, "{"), strings.LastIndex(s, "}")}
	array := span{strings.Index(s, "["), strings.LastIndex(s, "]")}

	spans := []span{object, array}
	if array.start != -1 && (object.start == -1 || array.start < object.start) {
		spans = []span{array, object}
	}

	var candidates []string
	for _, sp := range spans {
		if sp.start == -1 || sp.end <= sp.start {
			continue
		}
		candidates = append(candidates, s[sp.start:sp.end+1])
	}
	return candidates
}
