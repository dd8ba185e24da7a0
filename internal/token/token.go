// Package token estimates how many LLM tokens a piece of text costs.
//
// The estimate segments text into Unicode words (UAX #29) and charges one
// token per segment plus extra for long segments, approximating how BPE
// vocabularies split identifiers. It is deterministic and
// encoder-independent, which matters more here than matching any one
// tokenizer exactly.
package token

import (
	"strings"

	"github.com/clipperhouse/uax29/v2/words"
)

// Count returns the estimated token count of text.
func Count(text string) int {
	if text == "" {
		return 0
	}

	n := 0
	tokens := words.FromString(text)
	for tokens.Next() {
		v := tokens.Value()
		if strings.TrimSpace(v) == "" {
			continue
		}
		n += 1 + len(v)/6
	}

	if n == 0 {
		// Degenerate input the segmenter produced nothing for; fall back
		// to the crude four-bytes-per-token rule.
		n = len(text) / 4
		if n == 0 {
			n = 1
		}
	}
	return n
}
