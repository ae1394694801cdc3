package llm

import (
	"fmt"
	"strings"
)

// maxDiffTokens bounds the diff embedded in a generation prompt.
const maxDiffTokens = 24000

// EstimateTokens provides a fast, character-based estimation of token count.
func EstimateTokens(text string) int {
	return len(text) / 3
}

// TruncateDiff shortens diff to roughly maxTokens, cutting on a line boundary,
// and appends a marker saying how much was kept. It reports whether anything
// was cut.
func TruncateDiff(diff string, maxTokens int) (string, bool) {
	maxChars := maxTokens * 3
	if maxChars <= 0 || len(diff) <= maxChars {
		return diff, false
	}

	kept := diff[:maxChars]
	if nl := strings.LastIndexByte(kept, '\n'); nl > 0 {
		kept = kept[:nl+1]
	} else {
		kept += "\n"
	}
	return kept + fmt.Sprintf("... [diff truncated: %d of %d bytes shown]\n", len(kept), len(diff)), true
}
