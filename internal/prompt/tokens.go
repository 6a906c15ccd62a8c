package prompt

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	encOnce sync.Once
	enc     *tiktoken.Tiktoken
)

// EstimateTokens gives a rough token count for logging and run summaries.
// Uses cl100k_base; if the encoding cannot be loaded (offline first run),
// falls back to the usual len/4 heuristic. Never fails.
func EstimateTokens(s string) int {
	if s == "" {
		return 0
	}
	encOnce.Do(func() {
		e, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			enc = e
		}
	})
	if enc == nil {
		return len(s) / 4
	}
	return len(enc.Encode(s, nil, nil))
}
